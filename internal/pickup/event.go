package pickup

import (
	"fmt"
	"gfa-backend/internal/components/chrono"
	"strings"
	"time"
)

// DateLayout is the layout of Event.Date.
const DateLayout = "2006-01-02"

// Event is one collection window at one stop.
//
// Events compare equal and sort solely by LocationID (see Equal and Compare),
// two events at the same stop with different times are the same stop.
type Event struct {
	LocationID  string `json:"location_id"`
	Street      string `json:"street"`
	District    string `json:"district"`
	Description string `json:"description,omitempty"`
	// TimeStart and TimeEnd are RFC3339 with the Stockholm offset of that date.
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	// Date is the Stockholm calendar day of TimeStart.
	Date string `json:"date"`
}

// NewEvent builds an Event, failing if either timestamp is not RFC3339.
// An empty description means the entry had none.
func NewEvent(street, district, description, timeStart, timeEnd string) (Event, error) {
	start, err := time.Parse(time.RFC3339, timeStart)
	if err != nil {
		return Event{}, fmt.Errorf("parse start time: %w", err)
	}
	_, err = time.Parse(time.RFC3339, timeEnd)
	if err != nil {
		return Event{}, fmt.Errorf("parse end time: %w", err)
	}
	return Event{
		LocationID:  LocationID(district, street),
		Street:      street,
		District:    district,
		Description: description,
		TimeStart:   timeStart,
		TimeEnd:     timeEnd,
		Date:        start.In(chrono.Stockholm()).Format(DateLayout),
	}, nil
}

// Start returns TimeStart as a time in Stockholm.
func (e Event) Start() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, e.TimeStart)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(chrono.Stockholm()), nil
}

// End returns TimeEnd as a time in Stockholm.
func (e Event) End() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, e.TimeEnd)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(chrono.Stockholm()), nil
}

func (e Event) String() string {
	description := e.Description
	if description == "" {
		description = "-"
	}
	return fmt.Sprintf("%s - %s (%s): %s to %s", e.District, e.Street, description, e.TimeStart, e.TimeEnd)
}

func normalizeLocationPart(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), "")
	return strings.ReplaceAll(s, "/", "-")
}

// LocationID derives the key of a stop: lowercase district and street joined
// with "_", all whitespace removed and "/" replaced with "-".
func LocationID(district, street string) string {
	return normalizeLocationPart(district) + "_" + normalizeLocationPart(street)
}

// Compare orders events by LocationID only.
func Compare(a, b Event) int {
	return strings.Compare(a.LocationID, b.LocationID)
}

// Equal reports whether both events are at the same stop, times and
// descriptions are deliberately not considered.
func Equal(a, b Event) bool {
	return a.LocationID == b.LocationID
}
