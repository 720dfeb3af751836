package calendar

import (
	"fmt"
	"gfa-backend/internal/pickup"
	"time"

	ical "github.com/arran4/golang-ical"
)

// UID returns the stable iCalendar UID of an event.
func UID(e pickup.Event) string {
	return fmt.Sprintf("%s-%s@gfa", e.Date, e.LocationID)
}

// Export renders events as an iCalendar feed named name, one VEVENT per
// event. stamp is used as DTSTAMP of every event.
func Export(events []pickup.Event, name string, stamp time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//gfa-backend//farligt avfall//SV")
	cal.SetName(name)
	cal.SetXWRCalName(name)
	cal.SetTimezoneId("Europe/Stockholm")

	for _, e := range events {
		start, err := e.Start()
		if err != nil {
			return "", fmt.Errorf("export %s: %w", UID(e), err)
		}
		end, err := e.End()
		if err != nil {
			return "", fmt.Errorf("export %s: %w", UID(e), err)
		}

		ev := cal.AddEvent(UID(e))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary("Farligt avfall-bilen: " + e.Street)
		ev.SetLocation(fmt.Sprintf("%s, %s", e.Street, e.District))
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
	}

	return cal.Serialize(), nil
}
