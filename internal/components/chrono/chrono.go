package chrono

import (
	"time"
	_ "time/tzdata"
)

var stockholm *time.Location

func init() {
	var err error
	stockholm, err = time.LoadLocation("Europe/Stockholm")
	if err != nil {
		panic(err)
	}
}

// Stockholm returns a [*time.Location] for Europe/Stockholm, the zone every
// schedule on the source site is published in.
func Stockholm() *time.Location {
	return stockholm
}

// API is the interface that anything depending on the system clock should use.
type API interface {
	// Now returns the current time in Location().
	Now() time.Time
	Location() *time.Location
}

type StandardImpl struct{}

func NewStandardImpl() StandardImpl {
	return StandardImpl{}
}

func (StandardImpl) Now() time.Time {
	return time.Now().In(stockholm)
}

func (StandardImpl) Location() *time.Location {
	return stockholm
}

// FixedImpl always reports the same instant, used to pin the scrape year and
// "today" in tests and one-off replays.
type FixedImpl struct {
	now time.Time
}

func NewFixedImpl(now time.Time) FixedImpl {
	return FixedImpl{now: now.In(stockholm)}
}

func (f FixedImpl) Now() time.Time {
	return f.now
}

func (FixedImpl) Location() *time.Location {
	return stockholm
}
