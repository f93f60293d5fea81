// Package engine implements the loan decision-support computations: EMI
// amortization, lump-sum prepayment, extra-payment payoff simulation,
// recurring-investment projection, buy-vs-rent NPV, and the sensitivity
// sweeps over rate and price growth. Every function is pure: results
// depend only on explicit inputs and no state survives between calls.
package engine

import (
	"math"

	"github.com/rotisserie/eris"
)

// ComputeInstallment computes the fixed monthly installment (EMI) that
// fully amortizes the loan over its tenure. At a zero rate the schedule
// degenerates to pure linear amortization, which also keeps the annuity
// formula clear of its r=0 singularity.
func ComputeInstallment(terms LoanTerms) (Amortization, error) {
	if terms.Principal <= 0 {
		return Amortization{}, eris.Wrapf(ErrInvalidInput, "principal must be positive (got %.2f)", terms.Principal)
	}
	if terms.TenureYears <= 0 {
		return Amortization{}, eris.Wrapf(ErrInvalidInput, "tenure must be positive (got %d years)", terms.TenureYears)
	}
	if terms.AnnualRatePercent < 0 {
		return Amortization{}, eris.Wrapf(ErrInvalidInput, "interest rate must not be negative (got %.2f%%)", terms.AnnualRatePercent)
	}

	r := terms.PeriodicRate()
	n := terms.TenureMonths()

	var installment float64
	if r == 0 {
		installment = terms.Principal / float64(n)
	} else {
		growth := math.Pow(1+r, float64(n))
		installment = terms.Principal * r * growth / (growth - 1)
	}

	return Amortization{
		Installment:  installment,
		Periods:      n,
		PeriodicRate: r,
	}, nil
}

// OutstandingBalance returns the closed-form balance after elapsedMonths
// scheduled payments. Exact at k=0 (the principal) and within floating-point
// tolerance of zero at k=periods.
func OutstandingBalance(principal, periodicRate, installment float64, elapsedMonths int) float64 {
	k := float64(elapsedMonths)
	if periodicRate == 0 {
		return principal - installment*k
	}
	growth := math.Pow(1+periodicRate, k)
	return principal*growth - installment*(growth-1)/periodicRate
}
