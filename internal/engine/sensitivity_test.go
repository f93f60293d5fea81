package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	samples := Linspace(2, 15, 25)
	require.Len(t, samples, 25)
	assert.Equal(t, 2.0, samples[0])
	assert.Equal(t, 15.0, samples[24])

	// Evenly spaced.
	step := samples[1] - samples[0]
	for i := 1; i < len(samples); i++ {
		assert.InDelta(t, step, samples[i]-samples[i-1], 1e-9)
	}
}

func TestLinspace_Degenerate(t *testing.T) {
	assert.Equal(t, []float64{5}, Linspace(5, 10, 1))
	assert.Equal(t, []float64{5}, Linspace(5, 10, 0))
}

func TestSweepByRate(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 10, TenureYears: 5}
	rates := Linspace(2, 15, 25)

	diffs, err := SweepByRate(terms, 8000, 8, 3, rates)
	require.NoError(t, err)
	require.Len(t, diffs, len(rates))

	// Higher loan rates raise the EMI stream, so the differential grows
	// monotonically along the rate axis.
	for i := 1; i < len(diffs); i++ {
		assert.Greater(t, diffs[i], diffs[i-1])
	}
}

func TestSweepGrid_MatchesSinglePoint(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 10, TenureYears: 5}
	rates := Linspace(5, 15, 12)
	growths := Linspace(0, 10, 12)

	grid, err := SweepGrid(terms, 8000, 8, rates, growths)
	require.NoError(t, err)
	require.Len(t, grid.Cells, len(growths))

	// Every cell must equal an independent single-point evaluation.
	for gi, growth := range growths {
		require.Len(t, grid.Cells[gi], len(rates))
		for ri, rate := range rates {
			pt := terms
			pt.AnnualRatePercent = rate
			am, err := ComputeInstallment(pt)
			require.NoError(t, err)
			want := BuyVsRentDifferential(pt, am, 8000, 8, growth)
			assert.Equal(t, want, grid.Cells[gi][ri], "growth=%.2f rate=%.2f", growth, rate)
		}
	}
}

func TestSweepGrid_AxesCopied(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 10, TenureYears: 5}
	rates := []float64{5, 10}
	growths := []float64{0, 5}

	grid, err := SweepGrid(terms, 8000, 8, rates, growths)
	require.NoError(t, err)

	// The grid owns its axis slices; mutating the caller's input must not
	// reach into the result.
	rates[0] = 99
	assert.Equal(t, 5.0, grid.Rates[0])
}
