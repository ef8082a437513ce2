package calc

import "github.com/meridian-tax/caseflow/internal/model"

const (
	// Net earnings from self-employment are 92.35% of gross, per
	// Schedule SE; the combined SECA rate is 15.3%.
	seNetEarningsFactor = 0.9235
	seTaxRate           = 0.153
)

// SelfEmploymentTax estimates SE tax for one tax year from the
// self-employment-flagged income documents of that year.
func SelfEmploymentTax(docs []model.WageDocument, taxYear int) float64 {
	var total float64
	for _, d := range docs {
		if d.TaxYear != taxYear || !d.SelfEmployment || d.Income == nil {
			continue
		}
		total += *d.Income
	}
	return round2(seNetEarningsFactor * seTaxRate * total)
}

// SelfEmploymentIncome totals the self-employment-flagged income for a
// tax year.
func SelfEmploymentIncome(docs []model.WageDocument, taxYear int) float64 {
	var total float64
	for _, d := range docs {
		if d.TaxYear != taxYear || !d.SelfEmployment || d.Income == nil {
			continue
		}
		total += *d.Income
	}
	return round2(total)
}
