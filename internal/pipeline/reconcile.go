package pipeline

import (
	"maps"
	"sort"

	"github.com/meridian-tax/caseflow/internal/model"
)

// Reconcile computes the diff that turns a case's stored gold set into
// the desired one. Desired rows that match an existing natural key adopt
// the existing row's id, so a replay updates rows in place instead of
// cycling them; keys present only in the stored set become deletions.
// Rows that match and carry identical values ride along in the desired
// set but are not counted as changes.
func Reconcile(existing, desired *model.EntitySet) *model.GoldDiff {
	if existing == nil {
		existing = &model.EntitySet{}
	}
	diff := &model.GoldDiff{Desired: desired}

	prevEmp := make(map[model.EmploymentRole]model.Employment, len(existing.Employments))
	for _, e := range existing.Employments {
		prevEmp[e.Role] = e
	}
	for i := range desired.Employments {
		d := &desired.Employments[i]
		prev, ok := prevEmp[d.Role]
		if !ok {
			diff.Inserted++
			continue
		}
		d.ID = prev.ID
		if !employmentEqual(prev, *d) {
			diff.Updated++
		}
		delete(prevEmp, d.Role)
	}
	for role := range prevEmp {
		diff.Deletions.Employments = append(diff.Deletions.Employments, string(role))
	}

	switch {
	case desired.Household == nil && existing.Household != nil:
		diff.Deletions.Household = true
	case desired.Household != nil && existing.Household == nil:
		diff.Inserted++
	case desired.Household != nil && existing.Household != nil:
		desired.Household.ID = existing.Household.ID
		if !householdEqual(*existing.Household, *desired.Household) {
			diff.Updated++
		}
	}

	prevInc := make(map[string]model.IncomeSource, len(existing.IncomeSources))
	for _, r := range existing.IncomeSources {
		prevInc[r.Category] = r
	}
	for i := range desired.IncomeSources {
		d := &desired.IncomeSources[i]
		prev, ok := prevInc[d.Category]
		if !ok {
			diff.Inserted++
			continue
		}
		d.ID = prev.ID
		if !incomeSourceEqual(prev, *d) {
			diff.Updated++
		}
		delete(prevInc, d.Category)
	}
	for category := range prevInc {
		diff.Deletions.IncomeSources = append(diff.Deletions.IncomeSources, category)
	}

	prevExp := make(map[string]model.MonthlyExpense, len(existing.MonthlyExpenses))
	for _, r := range existing.MonthlyExpenses {
		prevExp[r.Category] = r
	}
	for i := range desired.MonthlyExpenses {
		d := &desired.MonthlyExpenses[i]
		prev, ok := prevExp[d.Category]
		if !ok {
			diff.Inserted++
			continue
		}
		d.ID = prev.ID
		if !expenseEqual(prev, *d) {
			diff.Updated++
		}
		delete(prevExp, d.Category)
	}
	for category := range prevExp {
		diff.Deletions.MonthlyExpenses = append(diff.Deletions.MonthlyExpenses, category)
	}

	prevAcct := make(map[string]model.FinancialAccount, len(existing.FinancialAccounts))
	for _, r := range existing.FinancialAccounts {
		prevAcct[r.AccountType] = r
	}
	for i := range desired.FinancialAccounts {
		d := &desired.FinancialAccounts[i]
		prev, ok := prevAcct[d.AccountType]
		if !ok {
			diff.Inserted++
			continue
		}
		d.ID = prev.ID
		if !accountEqual(prev, *d) {
			diff.Updated++
		}
		delete(prevAcct, d.AccountType)
	}
	for accountType := range prevAcct {
		diff.Deletions.FinancialAccounts = append(diff.Deletions.FinancialAccounts, accountType)
	}

	prevVeh := make(map[string]model.Vehicle, len(existing.Vehicles))
	for _, r := range existing.Vehicles {
		prevVeh[r.Slot] = r
	}
	for i := range desired.Vehicles {
		d := &desired.Vehicles[i]
		prev, ok := prevVeh[d.Slot]
		if !ok {
			diff.Inserted++
			continue
		}
		d.ID = prev.ID
		if !vehicleEqual(prev, *d) {
			diff.Updated++
		}
		delete(prevVeh, d.Slot)
	}
	for slot := range prevVeh {
		diff.Deletions.Vehicles = append(diff.Deletions.Vehicles, slot)
	}

	prevProp := make(map[string]model.RealProperty, len(existing.RealProperties))
	for _, r := range existing.RealProperties {
		prevProp[r.Slot] = r
	}
	for i := range desired.RealProperties {
		d := &desired.RealProperties[i]
		prev, ok := prevProp[d.Slot]
		if !ok {
			diff.Inserted++
			continue
		}
		d.ID = prev.ID
		if !propertyEqual(prev, *d) {
			diff.Updated++
		}
		delete(prevProp, d.Slot)
	}
	for slot := range prevProp {
		diff.Deletions.RealProperties = append(diff.Deletions.RealProperties, slot)
	}

	// Deletion keys come out of map iteration; sort them so diffs are
	// stable for logging and tests.
	del := &diff.Deletions
	sort.Strings(del.Employments)
	sort.Strings(del.IncomeSources)
	sort.Strings(del.MonthlyExpenses)
	sort.Strings(del.FinancialAccounts)
	sort.Strings(del.Vehicles)
	sort.Strings(del.RealProperties)

	diff.Deleted = len(del.Employments) + len(del.IncomeSources) + len(del.MonthlyExpenses) +
		len(del.FinancialAccounts) + len(del.Vehicles) + len(del.RealProperties)
	if del.Household {
		diff.Deleted++
	}
	return diff
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func employmentEqual(a, b model.Employment) bool {
	return a.Role == b.Role &&
		eqStr(a.Employer, b.Employer) &&
		eqStr(a.Occupation, b.Occupation) &&
		a.PayFrequency == b.PayFrequency &&
		eqFloat(a.MonthlyIncome, b.MonthlyIncome) &&
		eqFloat(a.AnnualIncome, b.AnnualIncome) &&
		maps.Equal(a.SourceFields, b.SourceFields)
}

func householdEqual(a, b model.Household) bool {
	return a.FilingStatus == b.FilingStatus &&
		a.HouseholdSize == b.HouseholdSize &&
		eqStr(a.HousingStatus, b.HousingStatus) &&
		eqStr(a.Street, b.Street) &&
		eqStr(a.City, b.City) &&
		eqStr(a.State, b.State) &&
		eqStr(a.County, b.County) &&
		eqStr(a.ZipCode, b.ZipCode)
}

func incomeSourceEqual(a, b model.IncomeSource) bool {
	return a.Category == b.Category &&
		a.Amount == b.Amount &&
		a.Frequency == b.Frequency &&
		a.MonthlyAmount == b.MonthlyAmount
}

func expenseEqual(a, b model.MonthlyExpense) bool {
	return a.Category == b.Category &&
		a.Amount == b.Amount &&
		a.Frequency == b.Frequency &&
		a.MonthlyAmount == b.MonthlyAmount
}

func accountEqual(a, b model.FinancialAccount) bool {
	return a.AccountType == b.AccountType &&
		eqStr(a.Institution, b.Institution) &&
		a.Balance == b.Balance
}

func vehicleEqual(a, b model.Vehicle) bool {
	return a.Slot == b.Slot &&
		eqStr(a.Description, b.Description) &&
		eqFloat(a.CurrentValue, b.CurrentValue) &&
		eqFloat(a.LoanBalance, b.LoanBalance) &&
		eqFloat(a.Equity, b.Equity) &&
		eqFloat(a.MonthlyPayment, b.MonthlyPayment)
}

func propertyEqual(a, b model.RealProperty) bool {
	return a.Slot == b.Slot &&
		eqStr(a.Description, b.Description) &&
		eqFloat(a.CurrentValue, b.CurrentValue) &&
		eqFloat(a.LoanBalance, b.LoanBalance) &&
		eqFloat(a.Equity, b.Equity) &&
		eqFloat(a.MonthlyPayment, b.MonthlyPayment) &&
		eqFloat(a.MonthlyRent, b.MonthlyRent) &&
		eqFloat(a.NetMonthlyRental, b.NetMonthlyRental)
}
