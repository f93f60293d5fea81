package engine

import (
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Linspace returns n evenly spaced samples over [start, stop], endpoints
// inclusive. n < 2 yields a single sample at start.
func Linspace(start, stop float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// Land exactly on the endpoint despite accumulated step error.
	out[n-1] = stop
	return out
}

// SweepByRate recomputes the buy-vs-rent differential at each sampled
// interest rate, holding rent, discount rate, and price growth fixed.
// The result is ordered like the input samples, one value per rate.
func SweepByRate(terms LoanTerms, rent, discountRatePercent, priceGrowthPercent float64, rates []float64) ([]float64, error) {
	diffs := make([]float64, len(rates))
	for i, rate := range rates {
		t := terms
		t.AnnualRatePercent = rate
		am, err := ComputeInstallment(t)
		if err != nil {
			return nil, eris.Wrapf(err, "sweep: rate %.2f", rate)
		}
		diffs[i] = BuyVsRentDifferential(t, am, rent, discountRatePercent, priceGrowthPercent)
	}
	return diffs, nil
}

// SweepGrid evaluates the differential over the full rate × growth grid.
// Cells are independent pure computations, so growth rows fan out across
// goroutines; the materialized ordering stays [growth][rate] regardless.
func SweepGrid(terms LoanTerms, rent, discountRatePercent float64, rates, growths []float64) (*SensitivityGrid, error) {
	cells := make([][]float64, len(growths))

	var g errgroup.Group
	for gi, growth := range growths {
		g.Go(func() error {
			row, err := SweepByRate(terms, rent, discountRatePercent, growth, rates)
			if err != nil {
				return eris.Wrapf(err, "sweep: growth %.2f", growth)
			}
			cells[gi] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SensitivityGrid{
		Rates:   append([]float64(nil), rates...),
		Growths: append([]float64(nil), growths...),
		Cells:   cells,
	}, nil
}
