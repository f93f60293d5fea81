package engine

import (
	"math"

	"github.com/rotisserie/eris"
)

// Inputs is the fully-resolved input record for one evaluation. Defaults,
// presets, and the recession-shock override are all applied by the caller
// before Evaluate runs, so the engine never observes partial state.
type Inputs struct {
	Principal             float64 `json:"principal"`
	AnnualRatePercent     float64 `json:"annual_rate_percent"`
	TenureYears           int     `json:"tenure_years"`
	MonthlySalary         float64 `json:"monthly_salary"`
	PrepayAfterYears      int     `json:"prepay_after_years"`
	PrepayAmount          float64 `json:"prepay_amount"`
	ExtraMonthlyPayment   float64 `json:"extra_monthly_payment"`
	ExpectedReturnPercent float64 `json:"expected_return_percent"`
	MonthlyRent           float64 `json:"monthly_rent"`
	DiscountRatePercent   float64 `json:"discount_rate_percent"`
	PriceGrowthPercent    float64 `json:"price_growth_percent"`
}

// Terms returns the loan portion of the inputs.
func (in Inputs) Terms() LoanTerms {
	return LoanTerms{
		Principal:         in.Principal,
		AnnualRatePercent: in.AnnualRatePercent,
		TenureYears:       in.TenureYears,
	}
}

// WithShock returns a copy with the expected investment return forced to
// the shock value. This is the "recession shock" override, applied at
// input assembly so downstream computation sees one consistent record.
func (in Inputs) WithShock(returnPercent float64) Inputs {
	in.ExpectedReturnPercent = returnPercent
	return in
}

// SweepSpec defines one sampled axis of a sensitivity sweep.
type SweepSpec struct {
	Start float64 `json:"start"`
	Stop  float64 `json:"stop"`
	Steps int     `json:"steps"`
}

// Samples materializes the axis.
func (s SweepSpec) Samples() []float64 {
	return Linspace(s.Start, s.Stop, s.Steps)
}

// Options controls the report-level extras of an evaluation: the sweep
// axes and whether the full grid is materialized.
type Options struct {
	RateSweep   SweepSpec `json:"rate_sweep"`
	GridRates   SweepSpec `json:"grid_rates"`
	GridGrowths SweepSpec `json:"grid_growths"`
	IncludeGrid bool      `json:"include_grid"`
}

// DefaultOptions mirrors the axes the classroom display uses: a 25-point
// rate line from 2% to 15%, and a 12×12 heatmap over rates 5–15% and
// price growth 0–10%.
func DefaultOptions() Options {
	return Options{
		RateSweep:   SweepSpec{Start: 2, Stop: 15, Steps: 25},
		GridRates:   SweepSpec{Start: 5, Stop: 15, Steps: 12},
		GridGrowths: SweepSpec{Start: 0, Stop: 10, Steps: 12},
		IncludeGrid: true,
	}
}

// StressBand classifies the EMI-to-salary ratio.
type StressBand string

const (
	StressComfortable StressBand = "comfortable" // EMI < 20% of salary
	StressManageable  StressBand = "manageable"  // EMI < 40% of salary
	StressStressed    StressBand = "stressed"
)

// BurdenBand classifies total interest relative to the principal.
type BurdenBand string

const (
	BurdenLight     BurdenBand = "light"      // interest < 30% of principal
	BurdenHeavy     BurdenBand = "heavy"      // interest < 70% of principal
	BurdenVeryHeavy BurdenBand = "very_heavy"
)

// Verdict is a decision outcome for one of the comparison questions.
type Verdict string

const (
	VerdictInvest Verdict = "invest"
	VerdictPrepay Verdict = "prepay"
	VerdictBuy    Verdict = "buy"
	VerdictRent   Verdict = "rent"
)

// EMISummary is the headline repayment picture.
type EMISummary struct {
	Installment      float64    `json:"installment"`
	Periods          int        `json:"periods"`
	TotalPayment     float64    `json:"total_payment"`
	TotalInterest    float64    `json:"total_interest"`
	EMIToSalaryRatio float64    `json:"emi_to_salary_ratio"`
	StressBand       StressBand `json:"stress_band"`
	BurdenRatio      float64    `json:"burden_ratio"`
	BurdenBand       BurdenBand `json:"burden_band"`
}

// PrepayVsInvest compares retiring the loan early against investing the
// same extra amount every month.
type PrepayVsInvest struct {
	MonthsToPayoff        int     `json:"months_to_payoff"`
	YearsSaved            float64 `json:"years_saved"`
	InterestSaved         float64 `json:"interest_saved"`
	InvestmentFutureValue float64 `json:"investment_future_value"`
	Verdict               Verdict `json:"verdict"`
}

// BuyVsRent is the NPV comparison of owning versus renting.
type BuyVsRent struct {
	PVBuy        float64 `json:"pv_buy"`
	PVResale     float64 `json:"pv_resale"`
	PVRent       float64 `json:"pv_rent"`
	Differential float64 `json:"differential"`
	Verdict      Verdict `json:"verdict"`
}

// RateSweep is the line-plot series of differentials by interest rate.
type RateSweep struct {
	Rates         []float64 `json:"rates"`
	Differentials []float64 `json:"differentials"`
}

// Report is the full result set for one evaluation. It is derived, never
// persisted by the engine, and recomputed from scratch on every call.
type Report struct {
	Inputs       Inputs             `json:"inputs"`
	Amortization Amortization       `json:"amortization"`
	EMI          EMISummary         `json:"emi"`
	Prepayment   *PrepaymentOutcome `json:"prepayment,omitempty"`
	// PrepaymentNote records an infeasible-prepayment condition; the
	// prepayment section is simply absent rather than the whole
	// evaluation failing.
	PrepaymentNote string         `json:"prepayment_note,omitempty"`
	PayoffVsInvest PrepayVsInvest `json:"payoff_vs_invest"`
	BuyVsRent      BuyVsRent      `json:"buy_vs_rent"`
	RateSweep      RateSweep      `json:"rate_sweep"`
	Grid           *SensitivityGrid `json:"grid,omitempty"`
}

// Evaluate runs the complete pipeline over one resolved input record:
// amortization, prepayment, payoff-vs-invest, buy-vs-rent, and the
// sensitivity sweeps. InvalidInput aborts with no partial result; an
// infeasible prepayment is reported inline per the display contract.
func Evaluate(in Inputs, opts Options) (*Report, error) {
	if in.MonthlySalary <= 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "monthly salary must be positive (got %.2f)", in.MonthlySalary)
	}
	if in.MonthlyRent < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "monthly rent must not be negative (got %.2f)", in.MonthlyRent)
	}
	if in.DiscountRatePercent < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "discount rate must not be negative (got %.2f%%)", in.DiscountRatePercent)
	}
	if in.PriceGrowthPercent < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "price growth must not be negative (got %.2f%%)", in.PriceGrowthPercent)
	}
	if in.ExpectedReturnPercent < 0 {
		return nil, eris.Wrapf(ErrInvalidInput, "expected return must not be negative (got %.2f%%)", in.ExpectedReturnPercent)
	}

	terms := in.Terms()
	am, err := ComputeInstallment(terms)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Inputs:       in,
		Amortization: am,
		EMI:          SummarizeEMI(in, am),
	}

	prepay, err := ApplyPrepayment(terms, am, in.PrepayAfterYears, in.PrepayAmount)
	switch {
	case err == nil:
		rep.Prepayment = &prepay
	case eris.Is(err, ErrPrepaymentInfeasible):
		rep.PrepaymentNote = err.Error()
	default:
		return nil, err
	}

	payoff, err := SimulateExtraPayments(terms, am, in.ExtraMonthlyPayment)
	if err != nil {
		return nil, err
	}
	fv, err := FutureValueOfRecurring(in.ExtraMonthlyPayment, in.ExpectedReturnPercent, am.Periods)
	if err != nil {
		return nil, err
	}
	verdict := VerdictPrepay
	if fv > payoff.InterestSaved {
		verdict = VerdictInvest
	}
	rep.PayoffVsInvest = PrepayVsInvest{
		MonthsToPayoff:        payoff.MonthsToPayoff,
		YearsSaved:            payoff.YearsSaved,
		InterestSaved:         payoff.InterestSaved,
		InvestmentFutureValue: fv,
		Verdict:               verdict,
	}

	rep.BuyVsRent = CompareBuyVsRent(terms, am, in)

	rates := opts.RateSweep.Samples()
	diffs, err := SweepByRate(terms, in.MonthlyRent, in.DiscountRatePercent, in.PriceGrowthPercent, rates)
	if err != nil {
		return nil, err
	}
	rep.RateSweep = RateSweep{Rates: rates, Differentials: diffs}

	if opts.IncludeGrid {
		grid, err := SweepGrid(terms, in.MonthlyRent, in.DiscountRatePercent,
			opts.GridRates.Samples(), opts.GridGrowths.Samples())
		if err != nil {
			return nil, err
		}
		rep.Grid = grid
	}

	return rep, nil
}

// SummarizeEMI builds the headline repayment picture with the stress and
// burden classifications.
func SummarizeEMI(in Inputs, am Amortization) EMISummary {
	totalPayment := am.TotalPayment()
	totalInterest := totalPayment - in.Principal

	emiRatio := am.Installment / in.MonthlySalary
	stress := StressStressed
	switch {
	case emiRatio < 0.2:
		stress = StressComfortable
	case emiRatio < 0.4:
		stress = StressManageable
	}

	burdenRatio := totalInterest / in.Principal
	burden := BurdenVeryHeavy
	switch {
	case burdenRatio < 0.3:
		burden = BurdenLight
	case burdenRatio < 0.7:
		burden = BurdenHeavy
	}

	return EMISummary{
		Installment:      am.Installment,
		Periods:          am.Periods,
		TotalPayment:     totalPayment,
		TotalInterest:    totalInterest,
		EMIToSalaryRatio: emiRatio,
		StressBand:       stress,
		BurdenRatio:      burdenRatio,
		BurdenBand:       burden,
	}
}

// CompareBuyVsRent runs the NPV comparison of owning versus renting over
// the loan tenure.
func CompareBuyVsRent(terms LoanTerms, am Amortization, in Inputs) BuyVsRent {
	pvBuy := PresentValueOfLevelStream(am.Installment, in.DiscountRatePercent, am.Periods)
	pvRent := PresentValueOfLevelStream(in.MonthlyRent, in.DiscountRatePercent, am.Periods)
	futurePrice := terms.Principal * math.Pow(1+in.PriceGrowthPercent/100, float64(terms.TenureYears))
	pvResale := PresentValueOfTerminalPayment(futurePrice, in.DiscountRatePercent, terms.TenureYears)
	diff := (pvBuy - pvResale) - pvRent

	verdict := VerdictRent
	if diff < 0 {
		verdict = VerdictBuy
	}
	return BuyVsRent{
		PVBuy:        pvBuy,
		PVResale:     pvResale,
		PVRent:       pvRent,
		Differential: diff,
		Verdict:      verdict,
	}
}
