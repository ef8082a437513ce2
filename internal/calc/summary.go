package calc

import (
	"sort"
	"time"

	"github.com/meridian-tax/caseflow/internal/model"
)

// YearSummary rolls up one tax year across transcript sources.
type YearSummary struct {
	TaxYear              int            `json:"tax_year"`
	WageIncome           float64        `json:"wage_income"`
	SelfEmploymentIncome float64        `json:"self_employment_income"`
	Withholding          float64        `json:"withholding"`
	SelfEmploymentTax    float64        `json:"self_employment_tax"`
	AccountBalance       float64        `json:"account_balance"`
	ReturnFiled          bool           `json:"return_filed"`
	FiledDate            *time.Time     `json:"filed_date,omitempty"`
	Statute              *StatuteResult `json:"statute,omitempty"`
}

// CaseSummary is the on-demand rollup for one case: the monthly cash
// picture from gold entities plus per-year transcript figures.
type CaseSummary struct {
	CaseRef              string        `json:"case_ref"`
	TotalMonthlyIncome   float64       `json:"total_monthly_income"`
	OtherMonthlyIncome   float64       `json:"other_monthly_income"`
	TotalMonthlyExpenses float64       `json:"total_monthly_expenses"`
	DisposableIncome     float64       `json:"disposable_income"`
	TotalAccountBalance  float64       `json:"total_account_balance"`
	TotalEquity          float64       `json:"total_equity"`
	Years                []YearSummary `json:"years"`
}

// Summary builds the case rollup. Pure over its inputs; now anchors the
// statute evaluation.
func Summary(caseRef string, entities *model.EntitySet, activity []model.AccountActivity,
	wageDocs []model.WageDocument, returns []model.ReturnSummary,
	now time.Time, opts StatuteOptions) *CaseSummary {

	s := &CaseSummary{CaseRef: caseRef}

	if entities != nil {
		s.TotalMonthlyIncome = TotalMonthlyIncome(entities.Employments)
		s.OtherMonthlyIncome = OtherMonthlyIncome(entities.IncomeSources)
		s.TotalMonthlyExpenses = TotalMonthlyExpenses(entities.MonthlyExpenses)
		s.DisposableIncome = DisposableIncome(entities.Employments, entities.MonthlyExpenses)
		s.TotalEquity = totalEquity(entities)
	}

	byYear := make(map[int]*YearSummary)
	yearFor := func(y int) *YearSummary {
		if ys, ok := byYear[y]; ok {
			return ys
		}
		ys := &YearSummary{TaxYear: y}
		byYear[y] = ys
		return ys
	}

	for _, d := range wageDocs {
		ys := yearFor(d.TaxYear)
		if d.Income == nil {
			continue
		}
		if d.SelfEmployment {
			ys.SelfEmploymentIncome = round2(ys.SelfEmploymentIncome + *d.Income)
		} else {
			ys.WageIncome = round2(ys.WageIncome + *d.Income)
		}
		if d.Withholding != nil {
			ys.Withholding = round2(ys.Withholding + *d.Withholding)
		}
	}

	for _, a := range activity {
		yearFor(a.TaxYear)
	}
	for _, r := range returns {
		ys := yearFor(r.TaxYear)
		ys.ReturnFiled = true
		ys.FiledDate = r.FiledDate
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		ys := byYear[y]
		ys.SelfEmploymentTax = SelfEmploymentTax(wageDocs, y)
		ys.AccountBalance = AccountBalance(activity, y)
		s.TotalAccountBalance = round2(s.TotalAccountBalance + ys.AccountBalance)
		if res, ok := StatuteExpiration(activity, y, now, opts); ok {
			ys.Statute = &res
			if res.ReturnFiled {
				ys.ReturnFiled = true
			}
		}
		s.Years = append(s.Years, *ys)
	}

	return s
}

func totalEquity(entities *model.EntitySet) float64 {
	var total float64
	for _, v := range entities.Vehicles {
		if v.Equity != nil {
			total += *v.Equity
		}
	}
	for _, p := range entities.RealProperties {
		if p.Equity != nil {
			total += *p.Equity
		}
	}
	for _, a := range entities.FinancialAccounts {
		total += a.Balance
	}
	return round2(total)
}
