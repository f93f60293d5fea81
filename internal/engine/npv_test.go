package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentValueOfLevelStream_ZeroRate(t *testing.T) {
	// Undiscounted: payment * months.
	assert.Equal(t, 120000.0, PresentValueOfLevelStream(10000, 0, 12))
}

func TestPresentValueOfLevelStream_Discounted(t *testing.T) {
	pv := PresentValueOfLevelStream(10000, 8, 12)
	// Discounting strictly reduces the stream's value.
	assert.Less(t, pv, 120000.0)
	assert.Greater(t, pv, 0.0)
}

func TestPresentValueOfTerminalPayment(t *testing.T) {
	// 100000 five years out at 8%: 100000 / 1.08^5.
	assert.InDelta(t, 68058.3, PresentValueOfTerminalPayment(100000, 8, 5), 0.5)

	// Zero discount rate leaves the amount untouched.
	assert.Equal(t, 100000.0, PresentValueOfTerminalPayment(100000, 0, 5))
}

func TestBuyVsRentDifferential_CheapRentFavorsRenting(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 10, TenureYears: 5}
	am, err := ComputeInstallment(terms)
	require.NoError(t, err)

	// Free rent with zero price growth: owning can only cost more.
	diff := BuyVsRentDifferential(terms, am, 0, 8, 0)
	assert.Greater(t, diff, 0.0)
}

func TestBuyVsRentDifferential_HighGrowthFavorsBuying(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 10, TenureYears: 5}
	am, err := ComputeInstallment(terms)
	require.NoError(t, err)

	low := BuyVsRentDifferential(terms, am, 8000, 8, 0)
	high := BuyVsRentDifferential(terms, am, 8000, 8, 10)

	// Faster price growth raises the resale value, pushing the
	// differential toward buying.
	assert.Less(t, high, low)
}
