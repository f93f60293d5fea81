package engine

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInputs() Inputs {
	return Inputs{
		Principal:             500000,
		AnnualRatePercent:     10,
		TenureYears:           5,
		MonthlySalary:         80000,
		PrepayAfterYears:      2,
		PrepayAmount:          50000,
		ExtraMonthlyPayment:   5000,
		ExpectedReturnPercent: 12,
		MonthlyRent:           8000,
		DiscountRatePercent:   8,
		PriceGrowthPercent:    3,
	}
}

func TestEvaluate_FullReport(t *testing.T) {
	rep, err := Evaluate(baseInputs(), DefaultOptions())
	require.NoError(t, err)

	// EMI lab: ~10623 EMI is 13.3% of an 80k salary.
	assert.InDelta(t, 10623.52, rep.EMI.Installment, 0.5)
	assert.Equal(t, 60, rep.EMI.Periods)
	assert.Equal(t, StressComfortable, rep.EMI.StressBand)
	assert.Equal(t, BurdenLight, rep.EMI.BurdenBand)
	assert.InDelta(t, rep.EMI.TotalPayment-500000, rep.EMI.TotalInterest, 1e-6)

	// Prepayment lab.
	require.NotNil(t, rep.Prepayment)
	assert.Equal(t, 30, rep.Prepayment.NewPeriods)
	assert.Greater(t, rep.Prepayment.InterestSaved, 0.0)

	// Prepay vs invest: at a 12% expected return the SIP future value
	// dwarfs the interest saved by prepaying.
	assert.Equal(t, 38, rep.PayoffVsInvest.MonthsToPayoff)
	assert.Equal(t, VerdictInvest, rep.PayoffVsInvest.Verdict)
	assert.Greater(t, rep.PayoffVsInvest.InvestmentFutureValue, rep.PayoffVsInvest.InterestSaved)

	// Buy vs rent: cheap rent loses to the resale upside here.
	assert.Less(t, rep.BuyVsRent.Differential, 0.0)
	assert.Equal(t, VerdictBuy, rep.BuyVsRent.Verdict)

	// Sweeps.
	assert.Len(t, rep.RateSweep.Rates, 25)
	assert.Len(t, rep.RateSweep.Differentials, 25)
	require.NotNil(t, rep.Grid)
	assert.Len(t, rep.Grid.Cells, 12)
}

func TestEvaluate_Idempotent(t *testing.T) {
	in := baseInputs()
	first, err := Evaluate(in, DefaultOptions())
	require.NoError(t, err)
	second, err := Evaluate(in, DefaultOptions())
	require.NoError(t, err)

	// No hidden state: identical inputs, identical outputs.
	assert.Equal(t, first, second)
}

func TestEvaluate_ShockOverride(t *testing.T) {
	in := baseInputs().WithShock(5)
	assert.Equal(t, 5.0, in.ExpectedReturnPercent)

	rep, err := Evaluate(in, DefaultOptions())
	require.NoError(t, err)

	unshocked, err := Evaluate(baseInputs(), DefaultOptions())
	require.NoError(t, err)
	assert.Less(t, rep.PayoffVsInvest.InvestmentFutureValue, unshocked.PayoffVsInvest.InvestmentFutureValue)
}

func TestEvaluate_SkipsGrid(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeGrid = false

	rep, err := Evaluate(baseInputs(), opts)
	require.NoError(t, err)
	assert.Nil(t, rep.Grid)
}

func TestEvaluate_InvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Inputs)
	}{
		{"zero salary", func(in *Inputs) { in.MonthlySalary = 0 }},
		{"negative rent", func(in *Inputs) { in.MonthlyRent = -1 }},
		{"negative discount", func(in *Inputs) { in.DiscountRatePercent = -1 }},
		{"negative growth", func(in *Inputs) { in.PriceGrowthPercent = -1 }},
		{"negative return", func(in *Inputs) { in.ExpectedReturnPercent = -1 }},
		{"zero principal", func(in *Inputs) { in.Principal = 0 }},
		{"prepay year at tenure", func(in *Inputs) { in.PrepayAfterYears = 5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInputs()
			tc.mutate(&in)
			_, err := Evaluate(in, DefaultOptions())
			require.Error(t, err)
			assert.True(t, eris.Is(err, ErrInvalidInput))
		})
	}
}

func TestEvaluate_StressBands(t *testing.T) {
	cases := []struct {
		salary float64
		want   StressBand
	}{
		{80000, StressComfortable}, // ~13%
		{30000, StressManageable},  // ~35%
		{20000, StressStressed},    // ~53%
	}
	for _, tc := range cases {
		in := baseInputs()
		in.MonthlySalary = tc.salary
		rep, err := Evaluate(in, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, tc.want, rep.EMI.StressBand, "salary %.0f", tc.salary)
	}
}
