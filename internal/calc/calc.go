// Package calc holds the derived financial calculations: monthly
// normalization, self-employment tax, account balance, statute
// expiration, disposable income, and the per-case summary. Every
// function is pure over rows already extracted by the pipeline; nothing
// here touches a store.
package calc

import (
	"math"

	"github.com/meridian-tax/caseflow/internal/model"
)

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// NormalizeMonthly converts an amount at a stated cadence to a monthly
// figure using the fixed conversion table. The weekly and biweekly
// factors are the conventional 4.33 and 2.17 approximations, kept exact
// so normalized amounts are reproducible.
func NormalizeMonthly(amount float64, freq model.Frequency) float64 {
	switch freq {
	case model.FrequencyWeekly:
		return round2(amount * 4.33)
	case model.FrequencyBiweekly:
		return round2(amount * 2.17)
	case model.FrequencySemimonthly:
		return round2(amount * 2)
	case model.FrequencyQuarterly:
		return round2(amount / 3)
	case model.FrequencyAnnual:
		return round2(amount / 12)
	default:
		return round2(amount)
	}
}

// TotalMonthlyIncome sums employment monthly income across household
// members.
func TotalMonthlyIncome(employments []model.Employment) float64 {
	var total float64
	for _, e := range employments {
		if e.MonthlyIncome != nil {
			total += *e.MonthlyIncome
		}
	}
	return round2(total)
}

// TotalMonthlyExpenses sums normalized monthly amounts across expense
// rows.
func TotalMonthlyExpenses(expenses []model.MonthlyExpense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.MonthlyAmount
	}
	return round2(total)
}

// OtherMonthlyIncome sums normalized monthly amounts across non-wage
// income sources. Reported alongside disposable income but not part of
// it; the disposable figure follows the employment-only definition.
func OtherMonthlyIncome(sources []model.IncomeSource) float64 {
	var total float64
	for _, s := range sources {
		total += s.MonthlyAmount
	}
	return round2(total)
}

// DisposableIncome is employment monthly income minus monthly expenses.
func DisposableIncome(employments []model.Employment, expenses []model.MonthlyExpense) float64 {
	return round2(TotalMonthlyIncome(employments) - TotalMonthlyExpenses(expenses))
}
