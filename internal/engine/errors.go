package engine

import "github.com/rotisserie/eris"

// ErrInvalidInput is returned when a caller-supplied parameter is outside
// its documented domain (non-positive principal or tenure, negative rates
// or amounts, out-of-range prepayment month). No partial result is produced.
var ErrInvalidInput = eris.New("invalid input")

// ErrPrepaymentInfeasible is returned when the reduced balance cannot be
// amortized at the existing installment and rate, i.e. the installment no
// longer covers the interest accruing on the new balance. The annuity
// inverse has no solution there, so the simulator reports the condition
// instead of evaluating an out-of-domain logarithm.
var ErrPrepaymentInfeasible = eris.New("prepayment infeasible at current installment")

// ErrPayoffNotConverged is returned when the extra-payment simulation does
// not retire the balance within maxPayoffMonths iterations.
var ErrPayoffNotConverged = eris.New("payoff simulation did not converge")
