package pipeline

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

func strptr(s string) *string { return &s }
func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestBuildGold_EmploymentAnnualDerived(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:               uuid.New(),
		TaxpayerEmployer:     strptr("Desert Ridge Plumbing"),
		TaxpayerPayFrequency: strptr("biweekly"),
		TaxpayerMonthlyGross: fptr(4200),
		ResolvedPaths: map[string]string{
			"taxpayer_employer":      "employment.clientEmployerName",
			"taxpayer_monthly_gross": "c6",
		},
	}
	set := BuildGold(rec)

	require.Len(t, set.Employments, 1)
	e := set.Employments[0]
	assert.Equal(t, model.RoleTaxpayer, e.Role)
	assert.Equal(t, model.FrequencyBiweekly, e.PayFrequency)
	require.NotNil(t, e.MonthlyIncome)
	assert.Equal(t, 4200.0, *e.MonthlyIncome)
	require.NotNil(t, e.AnnualIncome)
	assert.Equal(t, 50400.0, *e.AnnualIncome)

	assert.Equal(t, "employment.clientEmployerName", e.SourceFields["employer"])
	assert.Equal(t, "c6", e.SourceFields["monthly_income"])
	assert.Equal(t, "derived:taxpayer_monthly_gross", e.SourceFields["annual_income"])
}

func TestBuildGold_EmploymentMonthlyDerived(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:              uuid.New(),
		TaxpayerAnnualGross: fptr(50000),
	}
	set := BuildGold(rec)

	require.Len(t, set.Employments, 1)
	e := set.Employments[0]
	require.NotNil(t, e.MonthlyIncome)
	assert.Equal(t, 4166.67, *e.MonthlyIncome)
	assert.Equal(t, model.FrequencyMonthly, e.PayFrequency)
	assert.Equal(t, "derived:taxpayer_annual_gross", e.SourceFields["monthly_income"])
}

func TestBuildGold_SpouseOnlyWhenReported(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:               uuid.New(),
		TaxpayerMonthlyGross: fptr(3000),
	}
	set := BuildGold(rec)
	require.Len(t, set.Employments, 1)
	assert.Equal(t, model.RoleTaxpayer, set.Employments[0].Role)

	rec.SpouseEmployer = strptr("Mesa USD")
	rec.SpouseMonthlyGross = fptr(2900)
	set = BuildGold(rec)
	require.Len(t, set.Employments, 2)
	assert.Equal(t, model.RoleSpouse, set.Employments[1].Role)
	require.NotNil(t, set.Employments[1].AnnualIncome)
	assert.Equal(t, 34800.0, *set.Employments[1].AnnualIncome)
}

func TestBuildGold_HouseholdDefaults(t *testing.T) {
	set := BuildGold(&model.InterviewRecord{CaseID: uuid.New()})

	require.NotNil(t, set.Household)
	assert.Equal(t, "Single", set.Household.FilingStatus)
	assert.Equal(t, 1, set.Household.HouseholdSize)
	assert.Equal(t, 1, set.Count())
}

func TestBuildGold_HouseholdFromInterview(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:        uuid.New(),
		FilingStatus:  strptr("Married Filing Jointly"),
		HouseholdSize: iptr(4),
		HousingStatus: strptr("rent"),
		City:          strptr("Mesa"),
		State:         strptr("AZ"),
	}
	set := BuildGold(rec)

	h := set.Household
	require.NotNil(t, h)
	assert.Equal(t, "Married Filing Jointly", h.FilingStatus)
	assert.Equal(t, 4, h.HouseholdSize)
	require.NotNil(t, h.City)
	assert.Equal(t, "Mesa", *h.City)
}

func TestBuildGold_IncomeRowsSkipZeroAndAbsent(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:                  uuid.New(),
		SelfEmploymentIncome:    fptr(600),
		SelfEmploymentFrequency: strptr("weekly"),
		RentalIncome:            fptr(0),
		ChildSupportIncome:      fptr(400),
	}
	set := BuildGold(rec)

	require.Len(t, set.IncomeSources, 2)
	se := set.IncomeSources[0]
	assert.Equal(t, "self_employment", se.Category)
	assert.Equal(t, model.FrequencyWeekly, se.Frequency)
	assert.Equal(t, 2598.0, se.MonthlyAmount)

	cs := set.IncomeSources[1]
	assert.Equal(t, "child_support", cs.Category)
	assert.Equal(t, model.FrequencyMonthly, cs.Frequency)
	assert.Equal(t, 400.0, cs.MonthlyAmount)
}

func TestBuildGold_ExpenseNormalization(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:                  uuid.New(),
		FoodClothingExpense:     fptr(250),
		FoodClothingFrequency:   strptr("weekly"),
		HousingUtilitiesExpense: fptr(1850),
		OtherExpense:            fptr(-20),
	}
	set := BuildGold(rec)

	require.Len(t, set.MonthlyExpenses, 2)
	food := set.MonthlyExpenses[0]
	assert.Equal(t, "food_clothing", food.Category)
	assert.Equal(t, 1082.5, food.MonthlyAmount)

	housing := set.MonthlyExpenses[1]
	assert.Equal(t, "housing_utilities", housing.Category)
	assert.Equal(t, 1850.0, housing.MonthlyAmount)
}

func TestBuildGold_ZeroBalanceAccountKept(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:             uuid.New(),
		CheckingBalance:    fptr(0),
		SavingsInstitution: strptr("Desert Financial CU"),
	}
	set := BuildGold(rec)

	require.Len(t, set.FinancialAccounts, 2)
	checking := set.FinancialAccounts[0]
	assert.Equal(t, "checking", checking.AccountType)
	assert.Zero(t, checking.Balance)

	savings := set.FinancialAccounts[1]
	assert.Equal(t, "savings", savings.AccountType)
	assert.Zero(t, savings.Balance)
	require.NotNil(t, savings.Institution)
}

func TestBuildGold_VehicleEquity(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:              uuid.New(),
		Vehicle1Description: strptr("2019 Ford F-150"),
		Vehicle1Value:       fptr(18000),
		Vehicle1LoanBalance: fptr(11500),
		Vehicle2Value:       fptr(6200),
	}
	set := BuildGold(rec)

	require.Len(t, set.Vehicles, 2)
	v1 := set.Vehicles[0]
	assert.Equal(t, "vehicle1", v1.Slot)
	require.NotNil(t, v1.Equity)
	assert.Equal(t, 6500.0, *v1.Equity)

	// No loan balance reported means owned outright.
	v2 := set.Vehicles[1]
	assert.Equal(t, "vehicle2", v2.Slot)
	require.NotNil(t, v2.Equity)
	assert.Equal(t, 6200.0, *v2.Equity)
}

func TestBuildGold_PropertyNetRental(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:                  uuid.New(),
		Property1Value:          fptr(250000),
		Property1LoanBalance:    fptr(180000),
		Property1MonthlyPayment: fptr(1450),
		Property1MonthlyRent:    fptr(2100),
		Property2Description:    strptr("Vacant lot"),
	}
	set := BuildGold(rec)

	require.Len(t, set.RealProperties, 2)
	p1 := set.RealProperties[0]
	require.NotNil(t, p1.Equity)
	assert.Equal(t, 70000.0, *p1.Equity)
	require.NotNil(t, p1.NetMonthlyRental)
	assert.Equal(t, 650.0, *p1.NetMonthlyRental)

	p2 := set.RealProperties[1]
	assert.Nil(t, p2.Equity)
	assert.Nil(t, p2.NetMonthlyRental)
}

func TestBuildGold_UnknownFrequencyTreatedAsMonthly(t *testing.T) {
	rec := &model.InterviewRecord{
		CaseID:           uuid.New(),
		PensionIncome:    fptr(900),
		PensionFrequency: strptr("whenever"),
	}
	set := BuildGold(rec)

	require.Len(t, set.IncomeSources, 1)
	assert.Equal(t, model.FrequencyMonthly, set.IncomeSources[0].Frequency)
	assert.Equal(t, 900.0, set.IncomeSources[0].MonthlyAmount)
}
