package pipeline

import (
	"math"

	"github.com/meridian-tax/caseflow/internal/calc"
	"github.com/meridian-tax/caseflow/internal/model"
)

// defaultFilingStatus and a household of one are the assumptions for an
// interview that never answered the household questions.
const defaultFilingStatus = "Single"

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// BuildGold fans one resolved interview out into the normalized gold
// entity set. Pure: no store access, no clock. Income and expense rows
// exist only for positive amounts; a financial account keeps its row at
// zero balance because the client affirmed the account exists; vehicles
// and properties get a row whenever any field of the slot was reported.
func BuildGold(rec *model.InterviewRecord) *model.EntitySet {
	return &model.EntitySet{
		Employments:       buildEmployments(rec),
		Household:         buildHousehold(rec),
		IncomeSources:     buildIncomeSources(rec),
		MonthlyExpenses:   buildMonthlyExpenses(rec),
		FinancialAccounts: buildFinancialAccounts(rec),
		Vehicles:          buildVehicles(rec),
		RealProperties:    buildRealProperties(rec),
	}
}

func buildEmployments(rec *model.InterviewRecord) []model.Employment {
	specs := []struct {
		role       model.EmploymentRole
		prefix     string
		employer   *string
		occupation *string
		frequency  *string
		monthly    *float64
		annual     *float64
	}{
		{model.RoleTaxpayer, "taxpayer", rec.TaxpayerEmployer, rec.TaxpayerOccupation,
			rec.TaxpayerPayFrequency, rec.TaxpayerMonthlyGross, rec.TaxpayerAnnualGross},
		{model.RoleSpouse, "spouse", rec.SpouseEmployer, rec.SpouseOccupation,
			rec.SpousePayFrequency, rec.SpouseMonthlyGross, rec.SpouseAnnualGross},
	}

	var out []model.Employment
	for _, s := range specs {
		if s.employer == nil && s.occupation == nil && s.frequency == nil && s.monthly == nil && s.annual == nil {
			continue
		}
		e := model.Employment{
			CaseID:       rec.CaseID,
			Role:         s.role,
			Employer:     s.employer,
			Occupation:   s.occupation,
			PayFrequency: frequencyOf(s.frequency),
			SourceFields: make(map[string]string),
		}
		addSource := func(attr, column string) {
			if path, ok := rec.ResolvedPaths[column]; ok {
				e.SourceFields[attr] = path
			}
		}
		addSource("employer", s.prefix+"_employer")
		addSource("occupation", s.prefix+"_occupation")
		addSource("pay_frequency", s.prefix+"_pay_frequency")
		addSource("monthly_income", s.prefix+"_monthly_gross")
		addSource("annual_income", s.prefix+"_annual_gross")

		// Monthly and annual derive from each other when only one was
		// reported; the audit map marks the derived side.
		switch {
		case s.monthly != nil:
			e.MonthlyIncome = s.monthly
		case s.annual != nil:
			m := round2(*s.annual / 12)
			e.MonthlyIncome = &m
			e.SourceFields["monthly_income"] = "derived:" + s.prefix + "_annual_gross"
		}
		switch {
		case s.annual != nil:
			e.AnnualIncome = s.annual
		case s.monthly != nil:
			a := round2(*s.monthly * 12)
			e.AnnualIncome = &a
			e.SourceFields["annual_income"] = "derived:" + s.prefix + "_monthly_gross"
		}

		if len(e.SourceFields) == 0 {
			e.SourceFields = nil
		}
		out = append(out, e)
	}
	return out
}

// buildHousehold always produces a row; composition defaults stand in
// for unanswered questions so downstream expense standards have a basis.
func buildHousehold(rec *model.InterviewRecord) *model.Household {
	h := &model.Household{
		CaseID:        rec.CaseID,
		FilingStatus:  defaultFilingStatus,
		HouseholdSize: 1,
		HousingStatus: rec.HousingStatus,
		Street:        rec.Street,
		City:          rec.City,
		State:         rec.State,
		County:        rec.County,
		ZipCode:       rec.ZipCode,
	}
	if rec.FilingStatus != nil {
		h.FilingStatus = *rec.FilingStatus
	}
	if rec.HouseholdSize != nil && *rec.HouseholdSize > 0 {
		h.HouseholdSize = *rec.HouseholdSize
	}
	return h
}

func buildIncomeSources(rec *model.InterviewRecord) []model.IncomeSource {
	specs := []struct {
		category string
		amount   *float64
		freq     *string
	}{
		{"self_employment", rec.SelfEmploymentIncome, rec.SelfEmploymentFrequency},
		{"rental", rec.RentalIncome, rec.RentalFrequency},
		{"pension", rec.PensionIncome, rec.PensionFrequency},
		{"social_security", rec.SocialSecurityIncome, rec.SocialSecurityFrequency},
		{"child_support", rec.ChildSupportIncome, rec.ChildSupportFrequency},
		{"alimony", rec.AlimonyIncome, rec.AlimonyFrequency},
		{"other", rec.OtherIncome, rec.OtherIncomeFrequency},
	}

	var out []model.IncomeSource
	for _, s := range specs {
		if s.amount == nil || *s.amount <= 0 {
			continue
		}
		freq := frequencyOf(s.freq)
		out = append(out, model.IncomeSource{
			CaseID:        rec.CaseID,
			Category:      s.category,
			Amount:        *s.amount,
			Frequency:     freq,
			MonthlyAmount: calc.NormalizeMonthly(*s.amount, freq),
		})
	}
	return out
}

func buildMonthlyExpenses(rec *model.InterviewRecord) []model.MonthlyExpense {
	specs := []struct {
		category string
		amount   *float64
		freq     *string
	}{
		{"food_clothing", rec.FoodClothingExpense, rec.FoodClothingFrequency},
		{"housing_utilities", rec.HousingUtilitiesExpense, rec.HousingUtilitiesFrequency},
		{"vehicle_ownership", rec.VehicleOwnershipExpense, rec.VehicleOwnershipFrequency},
		{"vehicle_operating", rec.VehicleOperatingExpense, rec.VehicleOperatingFrequency},
		{"health_insurance", rec.HealthInsuranceExpense, rec.HealthInsuranceFrequency},
		{"healthcare", rec.HealthcareExpense, rec.HealthcareFrequency},
		{"life_insurance", rec.LifeInsuranceExpense, rec.LifeInsuranceFrequency},
		{"court_payments", rec.CourtPaymentsExpense, rec.CourtPaymentsFrequency},
		{"child_care", rec.ChildCareExpense, rec.ChildCareFrequency},
		{"other", rec.OtherExpense, rec.OtherExpenseFrequency},
	}

	var out []model.MonthlyExpense
	for _, s := range specs {
		if s.amount == nil || *s.amount <= 0 {
			continue
		}
		freq := frequencyOf(s.freq)
		out = append(out, model.MonthlyExpense{
			CaseID:        rec.CaseID,
			Category:      s.category,
			Amount:        *s.amount,
			Frequency:     freq,
			MonthlyAmount: calc.NormalizeMonthly(*s.amount, freq),
		})
	}
	return out
}

func buildFinancialAccounts(rec *model.InterviewRecord) []model.FinancialAccount {
	specs := []struct {
		accountType string
		balance     *float64
		institution *string
	}{
		{"cash", rec.CashOnHand, nil},
		{"checking", rec.CheckingBalance, rec.CheckingInstitution},
		{"savings", rec.SavingsBalance, rec.SavingsInstitution},
		{"investment", rec.InvestmentBalance, rec.InvestmentInstitution},
		{"retirement", rec.RetirementBalance, rec.RetirementInstitution},
	}

	var out []model.FinancialAccount
	for _, s := range specs {
		if s.balance == nil && s.institution == nil {
			continue
		}
		a := model.FinancialAccount{
			CaseID:      rec.CaseID,
			AccountType: s.accountType,
			Institution: s.institution,
		}
		if s.balance != nil {
			a.Balance = *s.balance
		}
		out = append(out, a)
	}
	return out
}

func buildVehicles(rec *model.InterviewRecord) []model.Vehicle {
	specs := []struct {
		slot        string
		description *string
		value       *float64
		loan        *float64
		payment     *float64
	}{
		{"vehicle1", rec.Vehicle1Description, rec.Vehicle1Value, rec.Vehicle1LoanBalance, rec.Vehicle1MonthlyPayment},
		{"vehicle2", rec.Vehicle2Description, rec.Vehicle2Value, rec.Vehicle2LoanBalance, rec.Vehicle2MonthlyPayment},
	}

	var out []model.Vehicle
	for _, s := range specs {
		if s.description == nil && s.value == nil && s.loan == nil && s.payment == nil {
			continue
		}
		out = append(out, model.Vehicle{
			CaseID:         rec.CaseID,
			Slot:           s.slot,
			Description:    s.description,
			CurrentValue:   s.value,
			LoanBalance:    s.loan,
			Equity:         equity(s.value, s.loan),
			MonthlyPayment: s.payment,
		})
	}
	return out
}

func buildRealProperties(rec *model.InterviewRecord) []model.RealProperty {
	specs := []struct {
		slot        string
		description *string
		value       *float64
		loan        *float64
		payment     *float64
		rent        *float64
	}{
		{"property1", rec.Property1Description, rec.Property1Value, rec.Property1LoanBalance,
			rec.Property1MonthlyPayment, rec.Property1MonthlyRent},
		{"property2", rec.Property2Description, rec.Property2Value, rec.Property2LoanBalance,
			rec.Property2MonthlyPayment, rec.Property2MonthlyRent},
	}

	var out []model.RealProperty
	for _, s := range specs {
		if s.description == nil && s.value == nil && s.loan == nil && s.payment == nil && s.rent == nil {
			continue
		}
		out = append(out, model.RealProperty{
			CaseID:           rec.CaseID,
			Slot:             s.slot,
			Description:      s.description,
			CurrentValue:     s.value,
			LoanBalance:      s.loan,
			Equity:           equity(s.value, s.loan),
			MonthlyPayment:   s.payment,
			MonthlyRent:      s.rent,
			NetMonthlyRental: netRental(s.rent, s.payment),
		})
	}
	return out
}

func frequencyOf(s *string) model.Frequency {
	if s == nil {
		return model.FrequencyMonthly
	}
	return model.ParseFrequency(*s)
}

// equity is current value minus loan balance. Without a reported value
// there is nothing to compute; a missing loan balance means owned
// outright, not unknown.
func equity(value, loan *float64) *float64 {
	if value == nil {
		return nil
	}
	e := *value
	if loan != nil {
		e -= *loan
	}
	e = round2(e)
	return &e
}

// netRental is monthly rent minus the mortgage payment, computed only
// when rent was reported.
func netRental(rent, payment *float64) *float64 {
	if rent == nil {
		return nil
	}
	n := *rent
	if payment != nil {
		n -= *payment
	}
	n = round2(n)
	return &n
}
