package model

import "github.com/google/uuid"

// EmploymentRole distinguishes whose employment a gold row describes.
type EmploymentRole string

const (
	RoleTaxpayer EmploymentRole = "taxpayer"
	RoleSpouse   EmploymentRole = "spouse"
)

// Employment is a normalized employment record for one household member.
// Natural key: (case, role).
type Employment struct {
	ID            uuid.UUID         `json:"id"`
	CaseID        uuid.UUID         `json:"case_id"`
	Role          EmploymentRole    `json:"role"`
	Employer      *string           `json:"employer,omitempty"`
	Occupation    *string           `json:"occupation,omitempty"`
	PayFrequency  Frequency         `json:"pay_frequency"`
	MonthlyIncome *float64          `json:"monthly_income,omitempty"`
	AnnualIncome  *float64          `json:"annual_income,omitempty"`
	SourceFields  map[string]string `json:"source_fields,omitempty"`
}

// Household holds household composition. Exactly one row per case;
// FilingStatus and HouseholdSize always carry values, defaulted when the
// interview left them blank.
type Household struct {
	ID            uuid.UUID `json:"id"`
	CaseID        uuid.UUID `json:"case_id"`
	FilingStatus  string    `json:"filing_status"`
	HouseholdSize int       `json:"household_size"`
	HousingStatus *string   `json:"housing_status,omitempty"`
	Street        *string   `json:"street,omitempty"`
	City          *string   `json:"city,omitempty"`
	State         *string   `json:"state,omitempty"`
	County        *string   `json:"county,omitempty"`
	ZipCode       *string   `json:"zip_code,omitempty"`
}

// IncomeSource is one recurring non-wage income stream.
// Natural key: (case, category).
type IncomeSource struct {
	ID            uuid.UUID `json:"id"`
	CaseID        uuid.UUID `json:"case_id"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Frequency     Frequency `json:"frequency"`
	MonthlyAmount float64   `json:"monthly_amount"`
}

// MonthlyExpense is one recurring living expense, normalized to a
// monthly amount. Natural key: (case, category).
type MonthlyExpense struct {
	ID            uuid.UUID `json:"id"`
	CaseID        uuid.UUID `json:"case_id"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Frequency     Frequency `json:"frequency"`
	MonthlyAmount float64   `json:"monthly_amount"`
}

// FinancialAccount is one reported account or cash holding.
// Natural key: (case, account type). A zero balance is still a row; the
// client told us the account exists.
type FinancialAccount struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"case_id"`
	AccountType string    `json:"account_type"`
	Institution *string   `json:"institution,omitempty"`
	Balance     float64   `json:"balance"`
}

// Vehicle is one reported vehicle. Equity is derived from value and loan
// balance, never taken from the source document.
// Natural key: (case, slot).
type Vehicle struct {
	ID             uuid.UUID `json:"id"`
	CaseID         uuid.UUID `json:"case_id"`
	Slot           string    `json:"slot"`
	Description    *string   `json:"description,omitempty"`
	CurrentValue   *float64  `json:"current_value,omitempty"`
	LoanBalance    *float64  `json:"loan_balance,omitempty"`
	Equity         *float64  `json:"equity,omitempty"`
	MonthlyPayment *float64  `json:"monthly_payment,omitempty"`
}

// RealProperty is one reported real-estate holding. Equity and net
// rental are derived. Natural key: (case, slot).
type RealProperty struct {
	ID               uuid.UUID `json:"id"`
	CaseID           uuid.UUID `json:"case_id"`
	Slot             string    `json:"slot"`
	Description      *string   `json:"description,omitempty"`
	CurrentValue     *float64  `json:"current_value,omitempty"`
	LoanBalance      *float64  `json:"loan_balance,omitempty"`
	Equity           *float64  `json:"equity,omitempty"`
	MonthlyPayment   *float64  `json:"monthly_payment,omitempty"`
	MonthlyRent      *float64  `json:"monthly_rent,omitempty"`
	NetMonthlyRental *float64  `json:"net_monthly_rental,omitempty"`
}

// EntitySet is the full set of gold entities for one case, the unit the
// fan-out produces and the store replaces atomically.
type EntitySet struct {
	Employments       []Employment       `json:"employments"`
	Household         *Household         `json:"household,omitempty"`
	IncomeSources     []IncomeSource     `json:"income_sources"`
	MonthlyExpenses   []MonthlyExpense   `json:"monthly_expenses"`
	FinancialAccounts []FinancialAccount `json:"financial_accounts"`
	Vehicles          []Vehicle          `json:"vehicles"`
	RealProperties    []RealProperty     `json:"real_properties"`
}

// Count reports the total number of entity rows in the set.
func (s *EntitySet) Count() int {
	n := len(s.Employments) + len(s.IncomeSources) + len(s.MonthlyExpenses) +
		len(s.FinancialAccounts) + len(s.Vehicles) + len(s.RealProperties)
	if s.Household != nil {
		n++
	}
	return n
}
