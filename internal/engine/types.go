package engine

// LoanTerms describes a fixed-rate annuity loan. Immutable per evaluation.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TenureYears       int     `json:"tenure_years"`
}

// PeriodicRate returns the monthly rate derived from the annual percentage.
func (t LoanTerms) PeriodicRate() float64 {
	return t.AnnualRatePercent / (12 * 100)
}

// TenureMonths returns the contractual term in months.
func (t LoanTerms) TenureMonths() int {
	return t.TenureYears * 12
}

// Amortization is the fixed-installment schedule derived from LoanTerms.
// Every downstream computation consumes it.
type Amortization struct {
	Installment  float64 `json:"installment"`
	Periods      int     `json:"periods"`
	PeriodicRate float64 `json:"periodic_rate"`
}

// TotalPayment returns the sum of all scheduled installments.
func (a Amortization) TotalPayment() float64 {
	return a.Installment * float64(a.Periods)
}

// PrepaymentOutcome describes the effect of a single lump-sum prepayment.
type PrepaymentOutcome struct {
	BalanceBefore float64 `json:"balance_before"`
	NewBalance    float64 `json:"new_balance"`
	NewPeriods    int     `json:"new_periods"`
	MonthsSaved   int     `json:"months_saved"`
	InterestSaved float64 `json:"interest_saved"`
}

// PayoffOutcome describes the month-by-month simulation of a constant
// extra payment on top of the scheduled installment.
type PayoffOutcome struct {
	MonthsToPayoff int     `json:"months_to_payoff"`
	TotalPaid      float64 `json:"total_paid"`
	InterestSaved  float64 `json:"interest_saved"`
	YearsSaved     float64 `json:"years_saved"`
}

// SensitivityGrid holds the buy-vs-rent NPV differential across a
// rate × price-growth grid. Cells are indexed [growth][rate], matching
// the heatmap the display layer renders (growth rows, rate columns).
type SensitivityGrid struct {
	Rates   []float64   `json:"rates"`
	Growths []float64   `json:"growths"`
	Cells   [][]float64 `json:"cells"`
}
