package engine

import "math"

// PresentValueOfLevelStream discounts a level monthly payment stream to
// present value at the given annual discount rate. A zero rate reduces to
// the undiscounted sum.
func PresentValueOfLevelStream(payment, discountRatePercent float64, months int) float64 {
	r := discountRatePercent / (12 * 100)
	if r == 0 {
		return payment * float64(months)
	}
	return payment * (1 - math.Pow(1+r, -float64(months))) / r
}

// PresentValueOfTerminalPayment discounts a single cash flow years out,
// compounding the discount rate annually.
func PresentValueOfTerminalPayment(amount, discountRatePercent float64, years int) float64 {
	return amount / math.Pow(1+discountRatePercent/100, float64(years))
}

// BuyVsRentDifferential compares owning (EMI stream less the discounted
// resale value) against renting over the loan tenure. Negative favors
// buying, non-negative favors renting.
func BuyVsRentDifferential(terms LoanTerms, am Amortization, rent, discountRatePercent, priceGrowthPercent float64) float64 {
	pvBuy := PresentValueOfLevelStream(am.Installment, discountRatePercent, am.Periods)
	futurePrice := terms.Principal * math.Pow(1+priceGrowthPercent/100, float64(terms.TenureYears))
	pvResale := PresentValueOfTerminalPayment(futurePrice, discountRatePercent, terms.TenureYears)
	pvRent := PresentValueOfLevelStream(rent, discountRatePercent, am.Periods)

	return (pvBuy - pvResale) - pvRent
}
