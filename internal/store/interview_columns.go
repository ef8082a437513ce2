package store

import (
	"fmt"
	"strings"

	"github.com/meridian-tax/caseflow/internal/model"
)

// interviewLeafColumns is the single source of truth for the typed leaf
// columns of silver_interviews. Insert values and scan destinations are
// generated from it so the two backends cannot drift.
var interviewLeafColumns = []string{
	"filing_status",
	"household_size",
	"housing_status",
	"street",
	"city",
	"state",
	"county",
	"zip_code",
	"taxpayer_employer",
	"taxpayer_occupation",
	"taxpayer_pay_frequency",
	"taxpayer_monthly_gross",
	"taxpayer_annual_gross",
	"spouse_employer",
	"spouse_occupation",
	"spouse_pay_frequency",
	"spouse_monthly_gross",
	"spouse_annual_gross",
	"self_employment_income",
	"self_employment_frequency",
	"rental_income",
	"rental_frequency",
	"pension_income",
	"pension_frequency",
	"social_security_income",
	"social_security_frequency",
	"child_support_income",
	"child_support_frequency",
	"alimony_income",
	"alimony_frequency",
	"other_income",
	"other_income_frequency",
	"food_clothing_expense",
	"food_clothing_frequency",
	"housing_utilities_expense",
	"housing_utilities_frequency",
	"vehicle_ownership_expense",
	"vehicle_ownership_frequency",
	"vehicle_operating_expense",
	"vehicle_operating_frequency",
	"health_insurance_expense",
	"health_insurance_frequency",
	"healthcare_expense",
	"healthcare_frequency",
	"life_insurance_expense",
	"life_insurance_frequency",
	"court_payments_expense",
	"court_payments_frequency",
	"child_care_expense",
	"child_care_frequency",
	"other_expense",
	"other_expense_frequency",
	"cash_on_hand",
	"checking_balance",
	"checking_institution",
	"savings_balance",
	"savings_institution",
	"investment_balance",
	"investment_institution",
	"retirement_balance",
	"retirement_institution",
	"vehicle1_description",
	"vehicle1_value",
	"vehicle1_loan_balance",
	"vehicle1_monthly_payment",
	"vehicle2_description",
	"vehicle2_value",
	"vehicle2_loan_balance",
	"vehicle2_monthly_payment",
	"property1_description",
	"property1_value",
	"property1_loan_balance",
	"property1_monthly_payment",
	"property1_monthly_rent",
	"property2_description",
	"property2_value",
	"property2_loan_balance",
	"property2_monthly_payment",
	"property2_monthly_rent",
}

// interviewLeafValues returns insert arguments in interviewLeafColumns
// order. Nil pointers bind as SQL NULL in both drivers.
func interviewLeafValues(r *model.InterviewRecord) []any {
	return []any{
		r.FilingStatus,
		r.HouseholdSize,
		r.HousingStatus,
		r.Street,
		r.City,
		r.State,
		r.County,
		r.ZipCode,
		r.TaxpayerEmployer,
		r.TaxpayerOccupation,
		r.TaxpayerPayFrequency,
		r.TaxpayerMonthlyGross,
		r.TaxpayerAnnualGross,
		r.SpouseEmployer,
		r.SpouseOccupation,
		r.SpousePayFrequency,
		r.SpouseMonthlyGross,
		r.SpouseAnnualGross,
		r.SelfEmploymentIncome,
		r.SelfEmploymentFrequency,
		r.RentalIncome,
		r.RentalFrequency,
		r.PensionIncome,
		r.PensionFrequency,
		r.SocialSecurityIncome,
		r.SocialSecurityFrequency,
		r.ChildSupportIncome,
		r.ChildSupportFrequency,
		r.AlimonyIncome,
		r.AlimonyFrequency,
		r.OtherIncome,
		r.OtherIncomeFrequency,
		r.FoodClothingExpense,
		r.FoodClothingFrequency,
		r.HousingUtilitiesExpense,
		r.HousingUtilitiesFrequency,
		r.VehicleOwnershipExpense,
		r.VehicleOwnershipFrequency,
		r.VehicleOperatingExpense,
		r.VehicleOperatingFrequency,
		r.HealthInsuranceExpense,
		r.HealthInsuranceFrequency,
		r.HealthcareExpense,
		r.HealthcareFrequency,
		r.LifeInsuranceExpense,
		r.LifeInsuranceFrequency,
		r.CourtPaymentsExpense,
		r.CourtPaymentsFrequency,
		r.ChildCareExpense,
		r.ChildCareFrequency,
		r.OtherExpense,
		r.OtherExpenseFrequency,
		r.CashOnHand,
		r.CheckingBalance,
		r.CheckingInstitution,
		r.SavingsBalance,
		r.SavingsInstitution,
		r.InvestmentBalance,
		r.InvestmentInstitution,
		r.RetirementBalance,
		r.RetirementInstitution,
		r.Vehicle1Description,
		r.Vehicle1Value,
		r.Vehicle1LoanBalance,
		r.Vehicle1MonthlyPayment,
		r.Vehicle2Description,
		r.Vehicle2Value,
		r.Vehicle2LoanBalance,
		r.Vehicle2MonthlyPayment,
		r.Property1Description,
		r.Property1Value,
		r.Property1LoanBalance,
		r.Property1MonthlyPayment,
		r.Property1MonthlyRent,
		r.Property2Description,
		r.Property2Value,
		r.Property2LoanBalance,
		r.Property2MonthlyPayment,
		r.Property2MonthlyRent,
	}
}

// interviewLeafDests returns scan destinations in interviewLeafColumns
// order. Destinations are pointers to the record's pointer fields, so
// NULL scans as nil.
func interviewLeafDests(r *model.InterviewRecord) []any {
	return []any{
		&r.FilingStatus,
		&r.HouseholdSize,
		&r.HousingStatus,
		&r.Street,
		&r.City,
		&r.State,
		&r.County,
		&r.ZipCode,
		&r.TaxpayerEmployer,
		&r.TaxpayerOccupation,
		&r.TaxpayerPayFrequency,
		&r.TaxpayerMonthlyGross,
		&r.TaxpayerAnnualGross,
		&r.SpouseEmployer,
		&r.SpouseOccupation,
		&r.SpousePayFrequency,
		&r.SpouseMonthlyGross,
		&r.SpouseAnnualGross,
		&r.SelfEmploymentIncome,
		&r.SelfEmploymentFrequency,
		&r.RentalIncome,
		&r.RentalFrequency,
		&r.PensionIncome,
		&r.PensionFrequency,
		&r.SocialSecurityIncome,
		&r.SocialSecurityFrequency,
		&r.ChildSupportIncome,
		&r.ChildSupportFrequency,
		&r.AlimonyIncome,
		&r.AlimonyFrequency,
		&r.OtherIncome,
		&r.OtherIncomeFrequency,
		&r.FoodClothingExpense,
		&r.FoodClothingFrequency,
		&r.HousingUtilitiesExpense,
		&r.HousingUtilitiesFrequency,
		&r.VehicleOwnershipExpense,
		&r.VehicleOwnershipFrequency,
		&r.VehicleOperatingExpense,
		&r.VehicleOperatingFrequency,
		&r.HealthInsuranceExpense,
		&r.HealthInsuranceFrequency,
		&r.HealthcareExpense,
		&r.HealthcareFrequency,
		&r.LifeInsuranceExpense,
		&r.LifeInsuranceFrequency,
		&r.CourtPaymentsExpense,
		&r.CourtPaymentsFrequency,
		&r.ChildCareExpense,
		&r.ChildCareFrequency,
		&r.OtherExpense,
		&r.OtherExpenseFrequency,
		&r.CashOnHand,
		&r.CheckingBalance,
		&r.CheckingInstitution,
		&r.SavingsBalance,
		&r.SavingsInstitution,
		&r.InvestmentBalance,
		&r.InvestmentInstitution,
		&r.RetirementBalance,
		&r.RetirementInstitution,
		&r.Vehicle1Description,
		&r.Vehicle1Value,
		&r.Vehicle1LoanBalance,
		&r.Vehicle1MonthlyPayment,
		&r.Vehicle2Description,
		&r.Vehicle2Value,
		&r.Vehicle2LoanBalance,
		&r.Vehicle2MonthlyPayment,
		&r.Property1Description,
		&r.Property1Value,
		&r.Property1LoanBalance,
		&r.Property1MonthlyPayment,
		&r.Property1MonthlyRent,
		&r.Property2Description,
		&r.Property2Value,
		&r.Property2LoanBalance,
		&r.Property2MonthlyPayment,
		&r.Property2MonthlyRent,
	}
}

// pgPlaceholders renders "$start, $start+1, ..." for n arguments.
func pgPlaceholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

// sqlitePlaceholders renders "?, ?, ..." for n arguments.
func sqlitePlaceholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}

// excludedSetClause renders "col = EXCLUDED.col, ..." for upserts.
func excludedSetClause(cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}
	return strings.Join(parts, ", ")
}
