package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

func TestSummary(t *testing.T) {
	entities := &model.EntitySet{
		Employments: []model.Employment{
			{Role: model.RoleTaxpayer, MonthlyIncome: fptr(5000)},
			{Role: model.RoleSpouse, MonthlyIncome: fptr(2000)},
		},
		IncomeSources: []model.IncomeSource{
			{Category: "rental", MonthlyAmount: 800},
		},
		MonthlyExpenses: []model.MonthlyExpense{
			{Category: "housing_utilities", MonthlyAmount: 2200},
		},
		FinancialAccounts: []model.FinancialAccount{
			{AccountType: "checking", Balance: 1500},
		},
		Vehicles: []model.Vehicle{
			{Slot: "vehicle1", Equity: fptr(4000)},
		},
		RealProperties: []model.RealProperty{
			{Slot: "property1", Equity: fptr(120000)},
		},
	}

	activity := []model.AccountActivity{
		{TaxYear: 2019, Code: "150", StartsStatute: true, AffectsBalance: true, Amount: fptr(9000), Date: dptr(2020, 7, 15)},
		{TaxYear: 2019, Code: "670", AffectsBalance: true, IsPayment: true, Amount: fptr(2000), Date: dptr(2021, 3, 1)},
	}
	wageDocs := []model.WageDocument{
		{TaxYear: 2019, FormCode: "W-2", Income: fptr(48000), Withholding: fptr(5200)},
		{TaxYear: 2019, FormCode: "1099-NEC", SelfEmployment: true, Income: fptr(12000)},
	}
	returns := []model.ReturnSummary{
		{TaxYear: 2019, FiledDate: dptr(2020, 7, 15)},
	}

	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Summary("CASE-1", entities, activity, wageDocs, returns, now, StatuteOptions{})

	assert.Equal(t, "CASE-1", s.CaseRef)
	assert.Equal(t, 7000.0, s.TotalMonthlyIncome)
	assert.Equal(t, 800.0, s.OtherMonthlyIncome)
	assert.Equal(t, 2200.0, s.TotalMonthlyExpenses)
	assert.Equal(t, 4800.0, s.DisposableIncome)
	assert.Equal(t, 125500.0, s.TotalEquity)
	assert.Equal(t, 7000.0, s.TotalAccountBalance)

	require.Len(t, s.Years, 1)
	year := s.Years[0]
	assert.Equal(t, 2019, year.TaxYear)
	assert.Equal(t, 48000.0, year.WageIncome)
	assert.Equal(t, 12000.0, year.SelfEmploymentIncome)
	assert.Equal(t, 5200.0, year.Withholding)
	assert.Equal(t, 7000.0, year.AccountBalance)
	// 12000 * 0.9235 * 0.153
	assert.Equal(t, 1695.55, year.SelfEmploymentTax)
	assert.True(t, year.ReturnFiled)
	require.NotNil(t, year.Statute)
	assert.Equal(t, "2030-07-15", year.Statute.Expiration.Format("2006-01-02"))
}

func TestSummary_NoEntities(t *testing.T) {
	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Summary("CASE-2", nil, nil, nil, nil, now, StatuteOptions{})

	assert.Equal(t, 0.0, s.TotalMonthlyIncome)
	assert.Empty(t, s.Years)
}

func TestSummary_YearWithOnlyActivity(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2020, Code: "971", Date: dptr(2021, 5, 1)},
	}

	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Summary("CASE-3", nil, activity, nil, nil, now, StatuteOptions{Fallback: FallbackSkip})

	require.Len(t, s.Years, 1)
	assert.Equal(t, 2020, s.Years[0].TaxYear)
	assert.Nil(t, s.Years[0].Statute)
	assert.False(t, s.Years[0].ReturnFiled)
}
