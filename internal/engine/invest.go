package engine

import (
	"math"

	"github.com/rotisserie/eris"
)

// FutureValueOfRecurring returns the future value of a fixed monthly
// contribution (an ordinary annuity, SIP-style) compounded at the expected
// annual return over the given number of months.
func FutureValueOfRecurring(payment, annualReturnPercent float64, months int) (float64, error) {
	if months < 0 {
		return 0, eris.Wrapf(ErrInvalidInput, "months must not be negative (got %d)", months)
	}

	r := annualReturnPercent / (12 * 100)
	if r == 0 {
		return payment * float64(months), nil
	}
	return payment * (math.Pow(1+r, float64(months)) - 1) / r, nil
}
