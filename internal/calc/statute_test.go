package calc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-tax/caseflow/internal/model"
)

func dptr(year, month, day int) *time.Time {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestStatuteExpiration_FiledNoTolling(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2014, Code: "150", StartsStatute: true, Date: dptr(2015, 4, 15)},
		{TaxYear: 2014, Code: "670", IsPayment: true, Date: dptr(2016, 1, 10)},
	}

	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	res, ok := StatuteExpiration(activity, 2014, now, StatuteOptions{})
	require.True(t, ok)

	assert.True(t, res.ReturnFiled)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, 0, res.TollingDays)
	assert.Equal(t, "2025-04-15", res.Expiration.Format("2006-01-02"))
	assert.Equal(t, StatuteActive, res.Status)
}

func TestStatuteExpiration_StatusByEvaluationDate(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2014, Code: "150", StartsStatute: true, Date: dptr(2015, 4, 15)},
	}

	tests := []struct {
		name     string
		now      time.Time
		expected StatuteStatus
	}{
		{"well before", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), StatuteActive},
		{"inside final year", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), StatuteExpiringSoon},
		{"after expiration", time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC), StatuteExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := StatuteExpiration(activity, 2014, tt.now, StatuteOptions{})
			require.True(t, ok)
			assert.Equal(t, tt.expected, res.Status)
		})
	}
}

func TestStatuteExpiration_TollingExtends(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2014, Code: "150", StartsStatute: true, Date: dptr(2015, 4, 15)},
		{TaxYear: 2014, Code: "520", TollingCategory: "bankruptcy", TollingDays: 180, Date: dptr(2017, 2, 1)},
		{TaxYear: 2014, Code: "480", TollingCategory: "offer_in_compromise", TollingDays: 30, Date: dptr(2019, 8, 1)},
	}

	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	res, ok := StatuteExpiration(activity, 2014, now, StatuteOptions{})
	require.True(t, ok)

	assert.Equal(t, 210, res.TollingDays)
	// 2025-04-15 + 210 days
	assert.Equal(t, "2025-11-11", res.Expiration.Format("2006-01-02"))
}

func TestStatuteExpiration_EarliestFilingWins(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2014, Code: "977", StartsStatute: false, Date: dptr(2018, 3, 1)},
		{TaxYear: 2014, Code: "150", StartsStatute: true, Date: dptr(2016, 6, 20)},
		{TaxYear: 2014, Code: "150", StartsStatute: true, Date: dptr(2015, 4, 15)},
	}

	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	res, ok := StatuteExpiration(activity, 2014, now, StatuteOptions{})
	require.True(t, ok)
	assert.Equal(t, "2015-04-15", res.BaseDate.Format("2006-01-02"))
}

func TestStatuteExpiration_FallbackCurrentDate(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2016, Code: "670", IsPayment: true, Date: dptr(2018, 1, 1)},
	}

	now := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	res, ok := StatuteExpiration(activity, 2016, now, StatuteOptions{Fallback: FallbackCurrentDate})
	require.True(t, ok)

	assert.False(t, res.ReturnFiled)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, now, res.BaseDate)
	assert.Equal(t, "2033-05-01", res.Expiration.Format("2006-01-02"))
	assert.Equal(t, StatuteActive, res.Status)
}

func TestStatuteExpiration_FallbackSkip(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2016, Code: "670", IsPayment: true, Date: dptr(2018, 1, 1)},
	}

	now := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	_, ok := StatuteExpiration(activity, 2016, now, StatuteOptions{Fallback: FallbackSkip})
	assert.False(t, ok)
}

func TestStatuteExpirations_AllYears(t *testing.T) {
	activity := []model.AccountActivity{
		{TaxYear: 2014, Code: "150", StartsStatute: true, Date: dptr(2015, 4, 15)},
		{TaxYear: 2016, Code: "150", StartsStatute: true, Date: dptr(2017, 4, 15)},
		{TaxYear: 2018, Code: "670", IsPayment: true, Date: dptr(2019, 1, 1)},
	}

	now := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	results := StatuteExpirations(activity, now, StatuteOptions{Fallback: FallbackSkip})
	require.Len(t, results, 2)
	assert.Equal(t, 2014, results[0].TaxYear)
	assert.Equal(t, 2016, results[1].TaxYear)

	results = StatuteExpirations(activity, now, StatuteOptions{Fallback: FallbackCurrentDate})
	require.Len(t, results, 3)
	assert.True(t, results[2].FallbackUsed)
}
