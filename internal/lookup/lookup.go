// Package lookup holds the static classification tables the pipeline
// consults while typing transcript rows: IRS transaction-code rules,
// income-form rules, and statute tolling rules. Tables are read-only at
// runtime and shipped embedded; a config override can point at a YAML
// file when the curated set needs a hotfix before a release.
//
// A miss never fails: unknown codes classify to defined defaults so one
// unrecognized transaction cannot poison a whole transcript.
package lookup

import "strings"

// TransactionRule classifies one IRS account-transcript transaction code.
type TransactionRule struct {
	Code                string `yaml:"code"`
	Description         string `yaml:"description"`
	Category            string `yaml:"category"`
	AffectsBalance      bool   `yaml:"affects_balance"`
	IsPayment           bool   `yaml:"is_payment"`
	IsPenaltyOrInterest bool   `yaml:"is_penalty_or_interest"`
	StartsStatute       bool   `yaml:"starts_statute"`
	TollingCategory     string `yaml:"tolling_category"`
	Known               bool   `yaml:"-"`
}

// FormRule classifies one wage-and-income form code.
type FormRule struct {
	Code           string   `yaml:"code"`
	Category       string   `yaml:"category"`
	SelfEmployment bool     `yaml:"self_employment"`
	Aliases        []string `yaml:"aliases"`
	Known          bool     `yaml:"-"`
}

// TollingRule maps a collection-statute tolling category to the number
// of days it suspends the clock per occurrence.
type TollingRule struct {
	Category    string `yaml:"category"`
	Days        int    `yaml:"days"`
	Description string `yaml:"description"`
}

// CategoryUnknown is the classification for codes with no rule.
const CategoryUnknown = "unknown"

// Catalog answers classification lookups. The pipeline takes it as an
// injected dependency so tests can swap in fixture tables.
type Catalog interface {
	Transaction(code string) TransactionRule
	Form(code string) FormRule
	TollingDays(category string) int
}

// StaticCatalog is a Catalog backed by in-memory tables.
type StaticCatalog struct {
	transactions map[string]TransactionRule
	forms        map[string]FormRule
	tolling      map[string]TollingRule
}

// Transaction returns the rule for a transaction code. Unknown codes get
// the default classification with Known=false.
func (c *StaticCatalog) Transaction(code string) TransactionRule {
	norm := NormalizeTransactionCode(code)
	if r, ok := c.transactions[norm]; ok {
		return r
	}
	return TransactionRule{
		Code:        norm,
		Description: "Unknown transaction code",
		Category:    CategoryUnknown,
	}
}

// Form returns the rule for a form code. Unknown forms get the default
// classification with Known=false.
func (c *StaticCatalog) Form(code string) FormRule {
	norm := NormalizeFormCode(code)
	if r, ok := c.forms[norm]; ok {
		return r
	}
	return FormRule{
		Code:     norm,
		Category: CategoryUnknown,
	}
}

// TollingDays returns the per-occurrence suspension days for a tolling
// category, zero when the category has no rule.
func (c *StaticCatalog) TollingDays(category string) int {
	if r, ok := c.tolling[strings.ToLower(strings.TrimSpace(category))]; ok {
		return r.Days
	}
	return 0
}

// TransactionRules returns the curated transaction rules, for status
// displays. The slice is a copy.
func (c *StaticCatalog) TransactionRules() []TransactionRule {
	out := make([]TransactionRule, 0, len(c.transactions))
	for _, r := range c.transactions {
		out = append(out, r)
	}
	return out
}

// NormalizeTransactionCode canonicalizes provider spellings of a
// transaction code: "TC 0150", "tc150" and "150" all normalize to "150".
func NormalizeTransactionCode(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.TrimPrefix(s, "TC")
	s = strings.TrimSpace(s)
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}
	return trimmed
}

// NormalizeFormCode canonicalizes provider spellings of a form code:
// uppercased, "FORM" prefix dropped, separators collapsed. "w2",
// "Form W-2" and "W 2" all normalize to "W2"; rule aliases are indexed
// the same way.
func NormalizeFormCode(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	s = strings.TrimPrefix(s, "FORM")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}
