package calc

import "github.com/meridian-tax/caseflow/internal/model"

// AccountBalance computes the signed balance for one tax year from
// transcript activity. Only rows classified as balance-affecting
// participate; payment-flagged rows subtract and everything else
// (assessments, penalties, interest) adds. Amounts are magnitudes as
// extracted from the transcript.
func AccountBalance(activity []model.AccountActivity, taxYear int) float64 {
	var balance float64
	for _, a := range activity {
		if a.TaxYear != taxYear || !a.AffectsBalance || a.Amount == nil {
			continue
		}
		if a.IsPayment {
			balance -= *a.Amount
		} else {
			balance += *a.Amount
		}
	}
	return round2(balance)
}

// TotalPayments sums payment-flagged activity for a tax year.
func TotalPayments(activity []model.AccountActivity, taxYear int) float64 {
	var total float64
	for _, a := range activity {
		if a.TaxYear != taxYear || !a.IsPayment || a.Amount == nil {
			continue
		}
		total += *a.Amount
	}
	return round2(total)
}

// TotalPenaltiesAndInterest sums penalty- and interest-flagged activity
// for a tax year.
func TotalPenaltiesAndInterest(activity []model.AccountActivity, taxYear int) float64 {
	var total float64
	for _, a := range activity {
		if a.TaxYear != taxYear || !a.IsPenaltyOrInterest || a.Amount == nil {
			continue
		}
		total += *a.Amount
	}
	return round2(total)
}
