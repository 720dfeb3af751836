package pickup

import (
	"fmt"
	"slices"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%v, %v", c.Latitude, c.Longitude)
}

// Stop is a physical collection location independent of any visit time.
type Stop struct {
	LocationID  string      `json:"location_id"`
	Street      string      `json:"street"`
	District    string      `json:"district"`
	Description string      `json:"description,omitempty"`
	Coordinate  *Coordinate `json:"coordinate,omitempty"`
}

func (s Stop) String() string {
	description := s.Description
	if description == "" {
		description = "-"
	}
	return fmt.Sprintf("%s - %s (%s)", s.District, s.Street, description)
}

// UniqueStops returns one stop per LocationID sorted ascending by it.
//
// When several events share a LocationID the stop takes its street, district
// and description from whichever of them sorts first, the rest are dropped.
func UniqueStops(events []Event) []Stop {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, Compare)
	sorted = slices.CompactFunc(sorted, Equal)

	stops := make([]Stop, len(sorted))
	for i, e := range sorted {
		stops[i] = Stop{
			LocationID:  e.LocationID,
			Street:      e.Street,
			District:    e.District,
			Description: e.Description,
		}
	}
	return stops
}
