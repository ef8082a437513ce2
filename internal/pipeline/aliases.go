package pipeline

import "github.com/meridian-tax/caseflow/internal/model"

// Interview alias tables. Order within an entry is precedence: the
// current intake provider's nested key first, then the legacy
// spreadsheet-export cell reference, then the flat key the oldest
// exports used. resolveInterview walks the tables with one loop per
// value kind, so adding a field is one table line plus its silver
// column.

type textField struct {
	name  string
	paths []string
	set   func(*model.InterviewRecord, *string)
}

type decimalField struct {
	name  string
	paths []string
	set   func(*model.InterviewRecord, *float64)
}

type intField struct {
	name  string
	paths []string
	set   func(*model.InterviewRecord, *int)
}

var interviewTextFields = []textField{
	{"filing_status", []string{"personalInfo.filingStatus", "b3", "filingStatus"}, func(r *model.InterviewRecord, v *string) { r.FilingStatus = v }},
	{"housing_status", []string{"personalInfo.housingStatus", "b5", "housingStatus"}, func(r *model.InterviewRecord, v *string) { r.HousingStatus = v }},
	{"street", []string{"personalInfo.address.street", "b6", "street"}, func(r *model.InterviewRecord, v *string) { r.Street = v }},
	{"city", []string{"personalInfo.address.city", "b7", "city"}, func(r *model.InterviewRecord, v *string) { r.City = v }},
	{"state", []string{"personalInfo.address.state", "b8", "state"}, func(r *model.InterviewRecord, v *string) { r.State = v }},
	{"county", []string{"personalInfo.address.county", "b9", "county"}, func(r *model.InterviewRecord, v *string) { r.County = v }},
	{"zip_code", []string{"personalInfo.address.zip", "b10", "zipCode"}, func(r *model.InterviewRecord, v *string) { r.ZipCode = v }},

	{"taxpayer_employer", []string{"employment.clientEmployerName", "c3", "employerName"}, func(r *model.InterviewRecord, v *string) { r.TaxpayerEmployer = v }},
	{"taxpayer_occupation", []string{"employment.clientOccupation", "c4", "occupation"}, func(r *model.InterviewRecord, v *string) { r.TaxpayerOccupation = v }},
	{"taxpayer_pay_frequency", []string{"employment.clientPayFrequency", "c5", "payFrequency"}, func(r *model.InterviewRecord, v *string) { r.TaxpayerPayFrequency = v }},
	{"spouse_employer", []string{"employment.spouseEmployerName", "d3", "spouseEmployer"}, func(r *model.InterviewRecord, v *string) { r.SpouseEmployer = v }},
	{"spouse_occupation", []string{"employment.spouseOccupation", "d4", "spouseOccupation"}, func(r *model.InterviewRecord, v *string) { r.SpouseOccupation = v }},
	{"spouse_pay_frequency", []string{"employment.spousePayFrequency", "d5", "spousePayFrequency"}, func(r *model.InterviewRecord, v *string) { r.SpousePayFrequency = v }},

	{"self_employment_frequency", []string{"otherIncome.selfEmployment.frequency", "e4", "selfEmploymentFrequency"}, func(r *model.InterviewRecord, v *string) { r.SelfEmploymentFrequency = v }},
	{"rental_frequency", []string{"otherIncome.rental.frequency", "e6", "rentalFrequency"}, func(r *model.InterviewRecord, v *string) { r.RentalFrequency = v }},
	{"pension_frequency", []string{"otherIncome.pension.frequency", "e8", "pensionFrequency"}, func(r *model.InterviewRecord, v *string) { r.PensionFrequency = v }},
	{"social_security_frequency", []string{"otherIncome.socialSecurity.frequency", "e10", "socialSecurityFrequency"}, func(r *model.InterviewRecord, v *string) { r.SocialSecurityFrequency = v }},
	{"child_support_frequency", []string{"otherIncome.childSupport.frequency", "e12", "childSupportFrequency"}, func(r *model.InterviewRecord, v *string) { r.ChildSupportFrequency = v }},
	{"alimony_frequency", []string{"otherIncome.alimony.frequency", "e14", "alimonyFrequency"}, func(r *model.InterviewRecord, v *string) { r.AlimonyFrequency = v }},
	{"other_income_frequency", []string{"otherIncome.other.frequency", "e16", "otherIncomeFrequency"}, func(r *model.InterviewRecord, v *string) { r.OtherIncomeFrequency = v }},

	{"food_clothing_frequency", []string{"expenses.foodClothing.frequency", "f4", "foodClothingFrequency"}, func(r *model.InterviewRecord, v *string) { r.FoodClothingFrequency = v }},
	{"housing_utilities_frequency", []string{"expenses.housingUtilities.frequency", "f6", "housingUtilitiesFrequency"}, func(r *model.InterviewRecord, v *string) { r.HousingUtilitiesFrequency = v }},
	{"vehicle_ownership_frequency", []string{"expenses.vehicleOwnership.frequency", "f8", "vehicleOwnershipFrequency"}, func(r *model.InterviewRecord, v *string) { r.VehicleOwnershipFrequency = v }},
	{"vehicle_operating_frequency", []string{"expenses.vehicleOperating.frequency", "f10", "vehicleOperatingFrequency"}, func(r *model.InterviewRecord, v *string) { r.VehicleOperatingFrequency = v }},
	{"health_insurance_frequency", []string{"expenses.healthInsurance.frequency", "f12", "healthInsuranceFrequency"}, func(r *model.InterviewRecord, v *string) { r.HealthInsuranceFrequency = v }},
	{"healthcare_frequency", []string{"expenses.healthcare.frequency", "f14", "healthcareFrequency"}, func(r *model.InterviewRecord, v *string) { r.HealthcareFrequency = v }},
	{"life_insurance_frequency", []string{"expenses.lifeInsurance.frequency", "f16", "lifeInsuranceFrequency"}, func(r *model.InterviewRecord, v *string) { r.LifeInsuranceFrequency = v }},
	{"court_payments_frequency", []string{"expenses.courtPayments.frequency", "f18", "courtPaymentsFrequency"}, func(r *model.InterviewRecord, v *string) { r.CourtPaymentsFrequency = v }},
	{"child_care_frequency", []string{"expenses.childCare.frequency", "f20", "childCareFrequency"}, func(r *model.InterviewRecord, v *string) { r.ChildCareFrequency = v }},
	{"other_expense_frequency", []string{"expenses.other.frequency", "f22", "otherExpenseFrequency"}, func(r *model.InterviewRecord, v *string) { r.OtherExpenseFrequency = v }},

	{"checking_institution", []string{"assets.checking.institution", "g5", "checkingInstitution"}, func(r *model.InterviewRecord, v *string) { r.CheckingInstitution = v }},
	{"savings_institution", []string{"assets.savings.institution", "g7", "savingsInstitution"}, func(r *model.InterviewRecord, v *string) { r.SavingsInstitution = v }},
	{"investment_institution", []string{"assets.investments.institution", "g9", "investmentInstitution"}, func(r *model.InterviewRecord, v *string) { r.InvestmentInstitution = v }},
	{"retirement_institution", []string{"assets.retirement.institution", "g11", "retirementInstitution"}, func(r *model.InterviewRecord, v *string) { r.RetirementInstitution = v }},

	{"vehicle1_description", []string{"assets.vehicle1.description", "h3", "vehicle1Description"}, func(r *model.InterviewRecord, v *string) { r.Vehicle1Description = v }},
	{"vehicle2_description", []string{"assets.vehicle2.description", "h7", "vehicle2Description"}, func(r *model.InterviewRecord, v *string) { r.Vehicle2Description = v }},
	{"property1_description", []string{"assets.property1.description", "i3", "property1Description"}, func(r *model.InterviewRecord, v *string) { r.Property1Description = v }},
	{"property2_description", []string{"assets.property2.description", "i8", "property2Description"}, func(r *model.InterviewRecord, v *string) { r.Property2Description = v }},
}

var interviewIntFields = []intField{
	{"household_size", []string{"personalInfo.householdSize", "b4", "householdSize"}, func(r *model.InterviewRecord, v *int) { r.HouseholdSize = v }},
}

var interviewDecimalFields = []decimalField{
	{"taxpayer_monthly_gross", []string{"employment.clientMonthlyGross", "c6", "monthlyGross"}, func(r *model.InterviewRecord, v *float64) { r.TaxpayerMonthlyGross = v }},
	{"taxpayer_annual_gross", []string{"employment.clientGrossIncome", "c7", "grossIncome"}, func(r *model.InterviewRecord, v *float64) { r.TaxpayerAnnualGross = v }},
	{"spouse_monthly_gross", []string{"employment.spouseMonthlyGross", "d6", "spouseMonthlyGross"}, func(r *model.InterviewRecord, v *float64) { r.SpouseMonthlyGross = v }},
	{"spouse_annual_gross", []string{"employment.spouseGrossIncome", "d7", "spouseGrossIncome"}, func(r *model.InterviewRecord, v *float64) { r.SpouseAnnualGross = v }},

	{"self_employment_income", []string{"otherIncome.selfEmployment.amount", "e3", "selfEmploymentIncome"}, func(r *model.InterviewRecord, v *float64) { r.SelfEmploymentIncome = v }},
	{"rental_income", []string{"otherIncome.rental.amount", "e5", "rentalIncome"}, func(r *model.InterviewRecord, v *float64) { r.RentalIncome = v }},
	{"pension_income", []string{"otherIncome.pension.amount", "e7", "pensionIncome"}, func(r *model.InterviewRecord, v *float64) { r.PensionIncome = v }},
	{"social_security_income", []string{"otherIncome.socialSecurity.amount", "e9", "socialSecurityIncome"}, func(r *model.InterviewRecord, v *float64) { r.SocialSecurityIncome = v }},
	{"child_support_income", []string{"otherIncome.childSupport.amount", "e11", "childSupportIncome"}, func(r *model.InterviewRecord, v *float64) { r.ChildSupportIncome = v }},
	{"alimony_income", []string{"otherIncome.alimony.amount", "e13", "alimonyIncome"}, func(r *model.InterviewRecord, v *float64) { r.AlimonyIncome = v }},
	{"other_income", []string{"otherIncome.other.amount", "e15", "otherIncome"}, func(r *model.InterviewRecord, v *float64) { r.OtherIncome = v }},

	{"food_clothing_expense", []string{"expenses.foodClothing.amount", "f3", "foodClothingExpense"}, func(r *model.InterviewRecord, v *float64) { r.FoodClothingExpense = v }},
	{"housing_utilities_expense", []string{"expenses.housingUtilities.amount", "f5", "housingUtilitiesExpense"}, func(r *model.InterviewRecord, v *float64) { r.HousingUtilitiesExpense = v }},
	{"vehicle_ownership_expense", []string{"expenses.vehicleOwnership.amount", "f7", "vehicleOwnershipExpense"}, func(r *model.InterviewRecord, v *float64) { r.VehicleOwnershipExpense = v }},
	{"vehicle_operating_expense", []string{"expenses.vehicleOperating.amount", "f9", "vehicleOperatingExpense"}, func(r *model.InterviewRecord, v *float64) { r.VehicleOperatingExpense = v }},
	{"health_insurance_expense", []string{"expenses.healthInsurance.amount", "f11", "healthInsuranceExpense"}, func(r *model.InterviewRecord, v *float64) { r.HealthInsuranceExpense = v }},
	{"healthcare_expense", []string{"expenses.healthcare.amount", "f13", "healthcareExpense"}, func(r *model.InterviewRecord, v *float64) { r.HealthcareExpense = v }},
	{"life_insurance_expense", []string{"expenses.lifeInsurance.amount", "f15", "lifeInsuranceExpense"}, func(r *model.InterviewRecord, v *float64) { r.LifeInsuranceExpense = v }},
	{"court_payments_expense", []string{"expenses.courtPayments.amount", "f17", "courtPaymentsExpense"}, func(r *model.InterviewRecord, v *float64) { r.CourtPaymentsExpense = v }},
	{"child_care_expense", []string{"expenses.childCare.amount", "f19", "childCareExpense"}, func(r *model.InterviewRecord, v *float64) { r.ChildCareExpense = v }},
	{"other_expense", []string{"expenses.other.amount", "f21", "otherExpense"}, func(r *model.InterviewRecord, v *float64) { r.OtherExpense = v }},

	{"cash_on_hand", []string{"assets.cashOnHand", "g3", "cashOnHand"}, func(r *model.InterviewRecord, v *float64) { r.CashOnHand = v }},
	{"checking_balance", []string{"assets.checking.balance", "g4", "checkingBalance"}, func(r *model.InterviewRecord, v *float64) { r.CheckingBalance = v }},
	{"savings_balance", []string{"assets.savings.balance", "g6", "savingsBalance"}, func(r *model.InterviewRecord, v *float64) { r.SavingsBalance = v }},
	{"investment_balance", []string{"assets.investments.balance", "g8", "investmentBalance"}, func(r *model.InterviewRecord, v *float64) { r.InvestmentBalance = v }},
	{"retirement_balance", []string{"assets.retirement.balance", "g10", "retirementBalance"}, func(r *model.InterviewRecord, v *float64) { r.RetirementBalance = v }},

	{"vehicle1_value", []string{"assets.vehicle1.currentValue", "h4", "vehicle1Value"}, func(r *model.InterviewRecord, v *float64) { r.Vehicle1Value = v }},
	{"vehicle1_loan_balance", []string{"assets.vehicle1.loanBalance", "h5", "vehicle1LoanBalance"}, func(r *model.InterviewRecord, v *float64) { r.Vehicle1LoanBalance = v }},
	{"vehicle1_monthly_payment", []string{"assets.vehicle1.monthlyPayment", "h6", "vehicle1MonthlyPayment"}, func(r *model.InterviewRecord, v *float64) { r.Vehicle1MonthlyPayment = v }},
	{"vehicle2_value", []string{"assets.vehicle2.currentValue", "h8", "vehicle2Value"}, func(r *model.InterviewRecord, v *float64) { r.Vehicle2Value = v }},
	{"vehicle2_loan_balance", []string{"assets.vehicle2.loanBalance", "h9", "vehicle2LoanBalance"}, func(r *model.InterviewRecord, v *float64) { r.Vehicle2LoanBalance = v }},
	{"vehicle2_monthly_payment", []string{"assets.vehicle2.monthlyPayment", "h10", "vehicle2MonthlyPayment"}, func(r *model.InterviewRecord, v *float64) { r.Vehicle2MonthlyPayment = v }},

	{"property1_value", []string{"assets.property1.currentValue", "i4", "property1Value"}, func(r *model.InterviewRecord, v *float64) { r.Property1Value = v }},
	{"property1_loan_balance", []string{"assets.property1.loanBalance", "i5", "property1LoanBalance"}, func(r *model.InterviewRecord, v *float64) { r.Property1LoanBalance = v }},
	{"property1_monthly_payment", []string{"assets.property1.monthlyPayment", "i6", "property1MonthlyPayment"}, func(r *model.InterviewRecord, v *float64) { r.Property1MonthlyPayment = v }},
	{"property1_monthly_rent", []string{"assets.property1.monthlyRent", "i7", "property1MonthlyRent"}, func(r *model.InterviewRecord, v *float64) { r.Property1MonthlyRent = v }},
	{"property2_value", []string{"assets.property2.currentValue", "i9", "property2Value"}, func(r *model.InterviewRecord, v *float64) { r.Property2Value = v }},
	{"property2_loan_balance", []string{"assets.property2.loanBalance", "i10", "property2LoanBalance"}, func(r *model.InterviewRecord, v *float64) { r.Property2LoanBalance = v }},
	{"property2_monthly_payment", []string{"assets.property2.monthlyPayment", "i11", "property2MonthlyPayment"}, func(r *model.InterviewRecord, v *float64) { r.Property2MonthlyPayment = v }},
	{"property2_monthly_rent", []string{"assets.property2.monthlyRent", "i12", "property2MonthlyRent"}, func(r *model.InterviewRecord, v *float64) { r.Property2MonthlyRent = v }},
}

// Transcript payloads vary by provider era in their top-level container
// key and per-element field names. Same precedence discipline as the
// interview tables: current provider spelling first.
var (
	accountContainers = []string{"accountTranscripts", "transcripts", "data"}
	wageContainers    = []string{"wageAndIncomeTranscripts", "wageIncome", "transcripts", "data"}
	returnContainers  = []string{"returnTranscripts", "returns", "transcripts", "data"}

	taxYearAliases = []string{"taxYear", "tax_year", "year", "period"}

	txListAliases   = []string{"transactions", "transactionList", "activity"}
	txCodeAliases   = []string{"code", "transactionCode", "tc"}
	txDescAliases   = []string{"description", "explanation", "meaning"}
	txDateAliases   = []string{"date", "transactionDate", "postedDate"}
	txAmountAliases = []string{"amount", "transactionAmount", "value"}

	formListAliases    = []string{"forms", "documents", "incomeDocuments"}
	formCodeAliases    = []string{"formType", "form", "documentType"}
	payerAliases       = []string{"payer", "payerName", "employerName"}
	wageIncomeAliases  = []string{"income", "wages", "amount"}
	withholdingAliases = []string{"withholding", "federalWithholding", "taxWithheld"}

	returnFilingStatusAliases = []string{"filingStatus", "filing_status", "status"}
	agiAliases                = []string{"adjustedGrossIncome", "agi"}
	taxableIncomeAliases      = []string{"taxableIncome", "taxable_income"}
	totalTaxAliases           = []string{"totalTax", "total_tax", "tax"}
	filedDateAliases          = []string{"filedDate", "dateFiled", "receivedDate"}
)
