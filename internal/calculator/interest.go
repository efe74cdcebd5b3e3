package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-tracker/pkg/utils"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// CalculateTotalPayback applies simple interest:
// principal + principal * (rate/100/12) * months, rounded to 2 decimals.
// Non-positive principal, months or rate return the principal unchanged.
func CalculateTotalPayback(principal, annualRatePercent decimal.Decimal, months int) decimal.Decimal {
	if !principal.IsPositive() || months <= 0 || !annualRatePercent.IsPositive() {
		return principal
	}

	monthlyRate := annualRatePercent.Div(hundred).Div(twelve)
	interest := principal.Mul(monthlyRate).Mul(decimal.NewFromInt(int64(months)))

	return principal.Add(interest).Round(2)
}

// CalculateInterest is the inverse of CalculateTotalPayback and returns the
// annual rate in percent, rounded to 2 decimals. It returns 0 for
// non-positive principal or months and when there is no interest.
func CalculateInterest(principal, totalPayback decimal.Decimal, months int) decimal.Decimal {
	if !principal.IsPositive() || months <= 0 {
		return decimal.Zero
	}

	interest := totalPayback.Sub(principal)
	if !interest.IsPositive() {
		return decimal.Zero
	}

	rate := interest.Div(principal).
		Mul(twelve.Div(decimal.NewFromInt(int64(months)))).
		Mul(hundred)

	return rate.Round(2)
}

// CalculateFromInterestRate derives the total payback for a period
func CalculateFromInterestRate(principal, annualRatePercent decimal.Decimal, start, end time.Time) decimal.Decimal {
	return CalculateTotalPayback(principal, annualRatePercent, LoanMonths(start, end))
}

// CalculateFromTotalPayback derives the annual rate for a period
func CalculateFromTotalPayback(principal, totalPayback decimal.Decimal, start, end time.Time) decimal.Decimal {
	return CalculateInterest(principal, totalPayback, LoanMonths(start, end))
}

// CalculateTotalPaybackFloat is CalculateTotalPayback for raw form input.
// NaN or infinite arguments fall back to the principal (0 if the principal itself is not finite).
func CalculateTotalPaybackFloat(principal, annualRatePercent float64, months int) float64 {
	if !utils.IsFinite(principal) {
		return 0
	}
	if !utils.IsFinite(annualRatePercent) {
		return principal
	}

	total := CalculateTotalPayback(utils.DecimalFromFloat(principal), utils.DecimalFromFloat(annualRatePercent), months)
	result := total.InexactFloat64()
	if !utils.IsFinite(result) {
		return principal
	}
	return utils.Round2(result)
}

// CalculateInterestFloat is CalculateInterest for raw form input; non-finite values give 0
func CalculateInterestFloat(principal, totalPayback float64, months int) float64 {
	if !utils.IsFinite(principal) || !utils.IsFinite(totalPayback) {
		return 0
	}

	rate := CalculateInterest(utils.DecimalFromFloat(principal), utils.DecimalFromFloat(totalPayback), months)
	result := rate.InexactFloat64()
	if !utils.IsFinite(result) {
		return 0
	}
	return utils.Round2(result)
}

// Terms is a loan's principal with both forms of its cost resolved
type Terms struct {
	Months       int
	InterestRate decimal.Decimal
	TotalPayback decimal.Decimal
}

// ResolveTerms fills in whichever of rate or payback is nil. When both are
// given the rate wins and the payback is recomputed from it.
func ResolveTerms(principal decimal.Decimal, rate, payback *decimal.Decimal, start, end time.Time) Terms {
	months := LoanMonths(start, end)

	switch {
	case rate != nil:
		return Terms{
			Months:       months,
			InterestRate: *rate,
			TotalPayback: CalculateTotalPayback(principal, *rate, months),
		}
	case payback != nil:
		return Terms{
			Months:       months,
			InterestRate: CalculateInterest(principal, *payback, months),
			TotalPayback: *payback,
		}
	default:
		return Terms{Months: months, InterestRate: decimal.Zero, TotalPayback: principal}
	}
}
