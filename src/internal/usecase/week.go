package usecase

import (
	"time"

	"github.com/jinzhu/now"
)

// Payout weeks run Sunday 00:00 UTC to the next Sunday 00:00, exclusive.
var weekConfig = &now.Config{
	WeekStartDay: time.Sunday,
	TimeLocation: time.UTC,
}

func weekStartOf(t time.Time) time.Time {
	return weekConfig.With(t.UTC()).BeginningOfWeek()
}

func weekEndOf(t time.Time) time.Time {
	return weekStartOf(t).AddDate(0, 0, 7)
}
