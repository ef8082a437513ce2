package model

import "strings"

// Frequency is a normalized payment cadence.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyBiweekly    Frequency = "biweekly"
	FrequencySemimonthly Frequency = "semimonthly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyQuarterly   Frequency = "quarterly"
	FrequencyAnnual      Frequency = "annual"
)

// frequencyAliases maps the cadence spellings seen across interview
// providers onto the normalized set.
var frequencyAliases = map[string]Frequency{
	"weekly":          FrequencyWeekly,
	"week":            FrequencyWeekly,
	"wk":              FrequencyWeekly,
	"per week":        FrequencyWeekly,
	"biweekly":        FrequencyBiweekly,
	"bi-weekly":       FrequencyBiweekly,
	"bi weekly":       FrequencyBiweekly,
	"every two weeks": FrequencyBiweekly,
	"every 2 weeks":   FrequencyBiweekly,
	"semimonthly":     FrequencySemimonthly,
	"semi-monthly":    FrequencySemimonthly,
	"semi monthly":    FrequencySemimonthly,
	"twice a month":   FrequencySemimonthly,
	"twice monthly":   FrequencySemimonthly,
	"monthly":         FrequencyMonthly,
	"month":           FrequencyMonthly,
	"per month":       FrequencyMonthly,
	"quarterly":       FrequencyQuarterly,
	"quarter":         FrequencyQuarterly,
	"annual":          FrequencyAnnual,
	"annually":        FrequencyAnnual,
	"yearly":          FrequencyAnnual,
	"year":            FrequencyAnnual,
	"per year":        FrequencyAnnual,
}

// ParseFrequency normalizes a free-text cadence. Unrecognized or empty
// input falls back to monthly, which treats the stated amount as already
// monthly rather than guessing a multiplier.
func ParseFrequency(s string) Frequency {
	key := strings.ToLower(strings.TrimSpace(s))
	if f, ok := frequencyAliases[key]; ok {
		return f
	}
	return FrequencyMonthly
}
