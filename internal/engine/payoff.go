package engine

import "github.com/rotisserie/eris"

const (
	// maxPayoffMonths bounds the simulation loop. A too-small extra payment
	// against a high accrual can stall the balance; the cap turns that into
	// ErrPayoffNotConverged instead of an unbounded loop.
	maxPayoffMonths = 1000

	// balanceTolerance is the residual below which a balance counts as paid
	// off, absorbing the floating-point remainder of an exact schedule.
	balanceTolerance = 0.01
)

// SimulateExtraPayments amortizes the loan month by month with a constant
// extra payment added to every installment and reports when the balance
// reaches zero. With a zero extra payment the simulation reproduces the
// original schedule exactly.
func SimulateExtraPayments(terms LoanTerms, am Amortization, extraMonthly float64) (PayoffOutcome, error) {
	if extraMonthly < 0 {
		return PayoffOutcome{}, eris.Wrapf(ErrInvalidInput, "extra payment must not be negative (got %.2f)", extraMonthly)
	}

	balance := terms.Principal
	payment := am.Installment + extraMonthly

	var months int
	var totalPaid float64
	for balance > balanceTolerance && months < maxPayoffMonths {
		interest := balance * am.PeriodicRate
		balance -= payment - interest
		totalPaid += payment
		months++
	}

	if balance > balanceTolerance {
		return PayoffOutcome{}, eris.Wrapf(ErrPayoffNotConverged,
			"balance %.2f remains after %d months", balance, maxPayoffMonths)
	}

	return PayoffOutcome{
		MonthsToPayoff: months,
		TotalPaid:      totalPaid,
		InterestSaved:  am.TotalPayment() - totalPaid,
		YearsSaved:     float64(am.Periods-months) / 12,
	}, nil
}
