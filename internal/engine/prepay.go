package engine

import (
	"math"

	"github.com/rotisserie/eris"
)

// ApplyPrepayment applies a single lump-sum payment after afterYears of
// the schedule have elapsed and recomputes the remaining term at the
// unchanged installment. The new term solves the annuity formula for the
// period count, so interest saved falls out of the difference in total
// remaining payments.
//
// When the prepayment retires the whole balance the loan ends on the spot:
// NewPeriods is zero and the full remaining scheduled interest is saved.
func ApplyPrepayment(terms LoanTerms, am Amortization, afterYears int, amount float64) (PrepaymentOutcome, error) {
	if afterYears < 1 || afterYears >= terms.TenureYears {
		return PrepaymentOutcome{}, eris.Wrapf(ErrInvalidInput,
			"prepayment year must be in [1, %d) (got %d)", terms.TenureYears, afterYears)
	}
	if amount < 0 {
		return PrepaymentOutcome{}, eris.Wrapf(ErrInvalidInput, "prepayment amount must not be negative (got %.2f)", amount)
	}

	k := afterYears * 12
	r := am.PeriodicRate
	balanceBefore := OutstandingBalance(terms.Principal, r, am.Installment, k)
	newBalance := balanceBefore - amount
	originalRemaining := am.Periods - k

	if newBalance <= 0 {
		// Fully retired at the prepayment instant. Everything that would
		// have been paid beyond the balance itself was interest.
		return PrepaymentOutcome{
			BalanceBefore: balanceBefore,
			NewBalance:    0,
			NewPeriods:    0,
			MonthsSaved:   originalRemaining,
			InterestSaved: am.Installment*float64(originalRemaining) - balanceBefore,
		}, nil
	}

	var newPeriods int
	if r == 0 {
		newPeriods = int(math.Ceil(newBalance / am.Installment))
	} else {
		// Annuity inverse: n = ln(emi / (emi - B·r)) / ln(1+r). The log
		// argument must stay positive; a true balance reduction keeps it
		// so, but the guard turns any degenerate combination into a
		// reported condition instead of a domain fault.
		if am.Installment <= newBalance*r {
			return PrepaymentOutcome{}, eris.Wrapf(ErrPrepaymentInfeasible,
				"installment %.2f does not cover interest %.2f on reduced balance", am.Installment, newBalance*r)
		}
		n := math.Log(am.Installment/(am.Installment-newBalance*r)) / math.Log(1+r)
		newPeriods = int(math.Ceil(n))
	}

	return PrepaymentOutcome{
		BalanceBefore: balanceBefore,
		NewBalance:    newBalance,
		NewPeriods:    newPeriods,
		MonthsSaved:   originalRemaining - newPeriods,
		InterestSaved: am.Installment * float64(originalRemaining-newPeriods),
	}, nil
}
