package pickup

import (
	"gfa-backend/internal/components/chrono"
	"time"
)

// DefaultWindowWeeks is how far ahead events are kept. The source publishes
// roughly twice a year without a year field, so anything further out is most
// likely last year's schedule read with the current year.
const DefaultWindowWeeks = 24

// FilterWindow keeps the events whose Stockholm date lies within
// [today, today + weeks]. Events with an unreadable start time are dropped.
func FilterWindow(events []Event, today time.Time, weeks int) []Event {
	loc := chrono.Stockholm()
	today = today.In(loc)
	first := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	last := first.AddDate(0, 0, weeks*7)

	var out []Event
	for _, e := range events {
		start, err := e.Start()
		if err != nil {
			continue
		}
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		if day.Before(first) || day.After(last) {
			continue
		}
		out = append(out, e)
	}
	return out
}
