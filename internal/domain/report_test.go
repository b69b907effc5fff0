package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDailyRecord_DropsInvalidValues(t *testing.T) {
	dr := SanitizeDailyRecord(&DailyRecordInput{
		Mood:        "GOOD",
		Health:      "AMAZING", // not an allowed value
		MealStatus:  "A_LOT",
		BowelStatus: "normal", // case sensitive
	})

	assert.NotNil(t, dr)
	assert.Equal(t, "GOOD", dr.Mood)
	assert.Empty(t, dr.Health)
	assert.Equal(t, "A_LOT", dr.MealStatus)
	assert.Empty(t, dr.BowelStatus)
}

func TestSanitizeDailyRecord_NilWhenNothingValid(t *testing.T) {
	assert.Nil(t, SanitizeDailyRecord(nil))
	assert.Nil(t, SanitizeDailyRecord(&DailyRecordInput{}))
	assert.Nil(t, SanitizeDailyRecord(&DailyRecordInput{Mood: "ECSTATIC", Health: "SO-SO"}))
}

func TestCommentIsLiveAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	unscheduled := &ReportComment{}
	assert.True(t, unscheduled.IsLiveAt(now))

	past := now.Add(-time.Minute)
	due := &ReportComment{ScheduledAt: &past}
	assert.True(t, due.IsLiveAt(now))

	exact := now
	atBoundary := &ReportComment{ScheduledAt: &exact}
	assert.True(t, atBoundary.IsLiveAt(now))

	future := now.Add(time.Minute)
	pending := &ReportComment{ScheduledAt: &future}
	assert.False(t, pending.IsLiveAt(now))
}
