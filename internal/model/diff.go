package model

// GoldDeletions lists the natural keys of gold rows that exist in the
// store but not in the desired set.
type GoldDeletions struct {
	Employments       []string `json:"employments,omitempty"`
	Household         bool     `json:"household,omitempty"`
	IncomeSources     []string `json:"income_sources,omitempty"`
	MonthlyExpenses   []string `json:"monthly_expenses,omitempty"`
	FinancialAccounts []string `json:"financial_accounts,omitempty"`
	Vehicles          []string `json:"vehicles,omitempty"`
	RealProperties    []string `json:"real_properties,omitempty"`
}

// GoldDiff is the reconciliation of a desired entity set against the
// stored one: rows to upsert (IDs preserved for survivors), keys to
// delete, and change counts. Applying it replaces the case's gold state
// without a transient empty window.
type GoldDiff struct {
	Desired   *EntitySet    `json:"desired"`
	Deletions GoldDeletions `json:"deletions"`
	Inserted  int           `json:"inserted"`
	Updated   int           `json:"updated"`
	Deleted   int           `json:"deleted"`
}

// Empty reports whether applying the diff would change nothing.
func (d *GoldDiff) Empty() bool {
	return d.Inserted == 0 && d.Updated == 0 && d.Deleted == 0
}
