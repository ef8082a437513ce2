package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountActivity is one account-transcript transaction, typed and
// enriched with its transaction-code classification. Classification
// fields are denormalized at write time so later rule changes do not
// rewrite history.
type AccountActivity struct {
	ID                  uuid.UUID  `json:"id"`
	CaseID              uuid.UUID  `json:"case_id"`
	RawRecordID         uuid.UUID  `json:"raw_record_id"`
	TaxYear             int        `json:"tax_year"`
	Code                string     `json:"code"`
	Description         string     `json:"description"`
	Date                *time.Time `json:"date,omitempty"`
	Amount              *float64   `json:"amount,omitempty"`
	Category            string     `json:"category"`
	AffectsBalance      bool       `json:"affects_balance"`
	IsPayment           bool       `json:"is_payment"`
	IsPenaltyOrInterest bool       `json:"is_penalty_or_interest"`
	StartsStatute       bool       `json:"starts_statute"`
	TollingCategory     string     `json:"tolling_category,omitempty"`
	TollingDays         int        `json:"tolling_days,omitempty"`
	DedupKey            string     `json:"dedup_key"`
	CreatedAt           time.Time  `json:"created_at"`
}

// WageDocument is one income document (W-2, 1099 variant, ...) from a
// wage-and-income transcript, enriched with its form classification.
type WageDocument struct {
	ID             uuid.UUID `json:"id"`
	CaseID         uuid.UUID `json:"case_id"`
	RawRecordID    uuid.UUID `json:"raw_record_id"`
	TaxYear        int       `json:"tax_year"`
	FormCode       string    `json:"form_code"`
	Payer          string    `json:"payer"`
	Income         *float64  `json:"income,omitempty"`
	Withholding    *float64  `json:"withholding,omitempty"`
	Category       string    `json:"category"`
	SelfEmployment bool      `json:"self_employment"`
	DedupKey       string    `json:"dedup_key"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReturnSummary is the per-year summary extracted from a return
// transcript. One row per case and tax year.
type ReturnSummary struct {
	ID            uuid.UUID  `json:"id"`
	CaseID        uuid.UUID  `json:"case_id"`
	RawRecordID   uuid.UUID  `json:"raw_record_id"`
	TaxYear       int        `json:"tax_year"`
	FilingStatus  *string    `json:"filing_status,omitempty"`
	AGI           *float64   `json:"agi,omitempty"`
	TaxableIncome *float64   `json:"taxable_income,omitempty"`
	TotalTax      *float64   `json:"total_tax,omitempty"`
	FiledDate     *time.Time `json:"filed_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// InterviewRecord is the wide, typed projection of a client financial
// interview. One row per case; a newer interview replaces it. Sections
// preserves the nested source document verbatim and ResolvedPaths records
// which alias produced each populated field.
type InterviewRecord struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"case_id"`
	RawRecordID uuid.UUID `json:"raw_record_id"`

	// Identity and household.
	FilingStatus  *string `json:"filing_status,omitempty"`
	HouseholdSize *int    `json:"household_size,omitempty"`
	HousingStatus *string `json:"housing_status,omitempty"`
	Street        *string `json:"street,omitempty"`
	City          *string `json:"city,omitempty"`
	State         *string `json:"state,omitempty"`
	County        *string `json:"county,omitempty"`
	ZipCode       *string `json:"zip_code,omitempty"`

	// Employment.
	TaxpayerEmployer     *string  `json:"taxpayer_employer,omitempty"`
	TaxpayerOccupation   *string  `json:"taxpayer_occupation,omitempty"`
	TaxpayerPayFrequency *string  `json:"taxpayer_pay_frequency,omitempty"`
	TaxpayerMonthlyGross *float64 `json:"taxpayer_monthly_gross,omitempty"`
	TaxpayerAnnualGross  *float64 `json:"taxpayer_annual_gross,omitempty"`
	SpouseEmployer       *string  `json:"spouse_employer,omitempty"`
	SpouseOccupation     *string  `json:"spouse_occupation,omitempty"`
	SpousePayFrequency   *string  `json:"spouse_pay_frequency,omitempty"`
	SpouseMonthlyGross   *float64 `json:"spouse_monthly_gross,omitempty"`
	SpouseAnnualGross    *float64 `json:"spouse_annual_gross,omitempty"`

	// Non-wage income, amount plus stated cadence.
	SelfEmploymentIncome    *float64 `json:"self_employment_income,omitempty"`
	SelfEmploymentFrequency *string  `json:"self_employment_frequency,omitempty"`
	RentalIncome            *float64 `json:"rental_income,omitempty"`
	RentalFrequency         *string  `json:"rental_frequency,omitempty"`
	PensionIncome           *float64 `json:"pension_income,omitempty"`
	PensionFrequency        *string  `json:"pension_frequency,omitempty"`
	SocialSecurityIncome    *float64 `json:"social_security_income,omitempty"`
	SocialSecurityFrequency *string  `json:"social_security_frequency,omitempty"`
	ChildSupportIncome      *float64 `json:"child_support_income,omitempty"`
	ChildSupportFrequency   *string  `json:"child_support_frequency,omitempty"`
	AlimonyIncome           *float64 `json:"alimony_income,omitempty"`
	AlimonyFrequency        *string  `json:"alimony_frequency,omitempty"`
	OtherIncome             *float64 `json:"other_income,omitempty"`
	OtherIncomeFrequency    *string  `json:"other_income_frequency,omitempty"`

	// Living expenses, amount plus stated cadence.
	FoodClothingExpense        *float64 `json:"food_clothing_expense,omitempty"`
	FoodClothingFrequency      *string  `json:"food_clothing_frequency,omitempty"`
	HousingUtilitiesExpense    *float64 `json:"housing_utilities_expense,omitempty"`
	HousingUtilitiesFrequency  *string  `json:"housing_utilities_frequency,omitempty"`
	VehicleOwnershipExpense    *float64 `json:"vehicle_ownership_expense,omitempty"`
	VehicleOwnershipFrequency  *string  `json:"vehicle_ownership_frequency,omitempty"`
	VehicleOperatingExpense    *float64 `json:"vehicle_operating_expense,omitempty"`
	VehicleOperatingFrequency  *string  `json:"vehicle_operating_frequency,omitempty"`
	HealthInsuranceExpense     *float64 `json:"health_insurance_expense,omitempty"`
	HealthInsuranceFrequency   *string  `json:"health_insurance_frequency,omitempty"`
	HealthcareExpense          *float64 `json:"healthcare_expense,omitempty"`
	HealthcareFrequency        *string  `json:"healthcare_frequency,omitempty"`
	LifeInsuranceExpense       *float64 `json:"life_insurance_expense,omitempty"`
	LifeInsuranceFrequency     *string  `json:"life_insurance_frequency,omitempty"`
	CourtPaymentsExpense       *float64 `json:"court_payments_expense,omitempty"`
	CourtPaymentsFrequency     *string  `json:"court_payments_frequency,omitempty"`
	ChildCareExpense           *float64 `json:"child_care_expense,omitempty"`
	ChildCareFrequency         *string  `json:"child_care_frequency,omitempty"`
	OtherExpense               *float64 `json:"other_expense,omitempty"`
	OtherExpenseFrequency      *string  `json:"other_expense_frequency,omitempty"`

	// Financial accounts.
	CashOnHand            *float64 `json:"cash_on_hand,omitempty"`
	CheckingBalance       *float64 `json:"checking_balance,omitempty"`
	CheckingInstitution   *string  `json:"checking_institution,omitempty"`
	SavingsBalance        *float64 `json:"savings_balance,omitempty"`
	SavingsInstitution    *string  `json:"savings_institution,omitempty"`
	InvestmentBalance     *float64 `json:"investment_balance,omitempty"`
	InvestmentInstitution *string  `json:"investment_institution,omitempty"`
	RetirementBalance     *float64 `json:"retirement_balance,omitempty"`
	RetirementInstitution *string  `json:"retirement_institution,omitempty"`

	// Vehicles.
	Vehicle1Description    *string  `json:"vehicle1_description,omitempty"`
	Vehicle1Value          *float64 `json:"vehicle1_value,omitempty"`
	Vehicle1LoanBalance    *float64 `json:"vehicle1_loan_balance,omitempty"`
	Vehicle1MonthlyPayment *float64 `json:"vehicle1_monthly_payment,omitempty"`
	Vehicle2Description    *string  `json:"vehicle2_description,omitempty"`
	Vehicle2Value          *float64 `json:"vehicle2_value,omitempty"`
	Vehicle2LoanBalance    *float64 `json:"vehicle2_loan_balance,omitempty"`
	Vehicle2MonthlyPayment *float64 `json:"vehicle2_monthly_payment,omitempty"`

	// Real property.
	Property1Description    *string  `json:"property1_description,omitempty"`
	Property1Value          *float64 `json:"property1_value,omitempty"`
	Property1LoanBalance    *float64 `json:"property1_loan_balance,omitempty"`
	Property1MonthlyPayment *float64 `json:"property1_monthly_payment,omitempty"`
	Property1MonthlyRent    *float64 `json:"property1_monthly_rent,omitempty"`
	Property2Description    *string  `json:"property2_description,omitempty"`
	Property2Value          *float64 `json:"property2_value,omitempty"`
	Property2LoanBalance    *float64 `json:"property2_loan_balance,omitempty"`
	Property2MonthlyPayment *float64 `json:"property2_monthly_payment,omitempty"`
	Property2MonthlyRent    *float64 `json:"property2_monthly_rent,omitempty"`

	Sections      []byte            `json:"sections,omitempty"`
	ResolvedPaths map[string]string `json:"resolved_paths,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
