package calc

import (
	"sort"
	"time"

	"github.com/meridian-tax/caseflow/internal/model"
)

// collectionStatuteYears is the federal collection window that starts
// when the return posts.
const collectionStatuteYears = 10

// StatuteStatus describes where a collection statute stands today.
type StatuteStatus string

const (
	StatuteActive       StatuteStatus = "Active"
	StatuteExpiringSoon StatuteStatus = "ExpiringSoon"
	StatuteExpired      StatuteStatus = "Expired"
)

// FallbackMode controls the base date when a year has no return-filed
// transaction. The historical behavior anchored the statute at the
// evaluation date, which makes an unfiled year's clock appear to start
// today; it is kept as the default pending product clarification, with
// skip available to suppress the estimate instead.
type FallbackMode string

const (
	FallbackCurrentDate FallbackMode = "current_date"
	FallbackSkip        FallbackMode = "skip"
)

// StatuteOptions tunes statute evaluation.
type StatuteOptions struct {
	Fallback FallbackMode
}

// StatuteResult is the statute evaluation for one tax year.
type StatuteResult struct {
	TaxYear      int           `json:"tax_year"`
	BaseDate     time.Time     `json:"base_date"`
	ReturnFiled  bool          `json:"return_filed"`
	FallbackUsed bool          `json:"fallback_used"`
	TollingDays  int           `json:"tolling_days"`
	Expiration   time.Time     `json:"expiration"`
	Status       StatuteStatus `json:"status"`
}

// StatuteExpiration evaluates the collection statute for one tax year.
// Base date is the earliest statute-starting transaction for the year;
// expiration is base + 10 years + the summed tolling days of the year's
// tolling events. The second return is false when the year cannot be
// evaluated (skip fallback and no filed return).
func StatuteExpiration(activity []model.AccountActivity, taxYear int, now time.Time, opts StatuteOptions) (StatuteResult, bool) {
	res := StatuteResult{TaxYear: taxYear}

	for _, a := range activity {
		if a.TaxYear != taxYear {
			continue
		}
		if a.StartsStatute && a.Date != nil {
			if !res.ReturnFiled || a.Date.Before(res.BaseDate) {
				res.BaseDate = *a.Date
				res.ReturnFiled = true
			}
		}
		res.TollingDays += a.TollingDays
	}

	if !res.ReturnFiled {
		if opts.Fallback == FallbackSkip {
			return StatuteResult{}, false
		}
		res.BaseDate = now
		res.FallbackUsed = true
	}

	res.Expiration = res.BaseDate.AddDate(collectionStatuteYears, 0, 0).
		AddDate(0, 0, res.TollingDays)

	switch {
	case res.Expiration.Before(now):
		res.Status = StatuteExpired
	case res.Expiration.Before(now.AddDate(1, 0, 0)):
		res.Status = StatuteExpiringSoon
	default:
		res.Status = StatuteActive
	}
	return res, true
}

// StatuteExpirations evaluates every tax year present in the activity,
// ordered by year.
func StatuteExpirations(activity []model.AccountActivity, now time.Time, opts StatuteOptions) []StatuteResult {
	years := make(map[int]bool)
	for _, a := range activity {
		years[a.TaxYear] = true
	}
	sorted := make([]int, 0, len(years))
	for y := range years {
		sorted = append(sorted, y)
	}
	sort.Ints(sorted)

	out := make([]StatuteResult, 0, len(sorted))
	for _, y := range sorted {
		if res, ok := StatuteExpiration(activity, y, now, opts); ok {
			out = append(out, res)
		}
	}
	return out
}
