package farligtavfall

import (
	"errors"
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/pickup"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func parserAt(year int) Parser {
	return NewParser(chrono.NewFixedImpl(time.Date(year, 8, 1, 12, 0, 0, 0, chrono.Stockholm())))
}

func findEvents(events []pickup.Event, street string) []pickup.Event {
	var out []pickup.Event
	for _, e := range events {
		if e.Street == street {
			out = append(out, e)
		}
	}
	return out
}

func TestParsePageWithItems(t *testing.T) {
	events, err := parserAt(2020).ParsePage(readFixture(t, "body_with_items.html"))
	require.NoError(t, err)
	require.Len(t, events, 39)

	require.Equal(t, pickup.Event{
		LocationID:  "västragöteborg_bankebergsgatan-kennedygatan",
		Street:      "Bankebergsgatan/Kennedygatan",
		District:    "Västra Göteborg",
		Description: "vid pizzerian",
		TimeStart:   "2020-10-06T19:00:00+02:00",
		TimeEnd:     "2020-10-06T19:45:00+02:00",
		Date:        "2020-10-06",
	}, events[0])

	gunnilse := findEvents(events, "Gunnilse")
	require.Len(t, gunnilse, 2)
	for _, e := range gunnilse {
		require.Equal(t, "vid ica gunnilse och återvinningsstationen", e.Description)
		require.Equal(t, "Nordost", e.District)
	}
	require.Equal(t, "2020-09-16T17:35:00+02:00", gunnilse[0].TimeStart)
	require.Equal(t, "2020-10-28T17:00:00+01:00", gunnilse[1].TimeStart)
	require.Equal(t, "2020-10-28T17:20:00+01:00", gunnilse[1].TimeEnd)

	doktorFries := findEvents(events, "Doktor Fries torg")
	require.Len(t, doktorFries, 1)
	require.Equal(t, "", doktorFries[0].Description)
	require.Equal(t, "centrum_doktorfriestorg", doktorFries[0].LocationID)

	skraBro := findEvents(events, "Skra bro")
	require.Len(t, skraBro, 1)
	require.Equal(t, "2020-10-25T16:00:00+01:00", skraBro[0].TimeStart)

	frolunda := findEvents(events, "Frölunda torg")
	require.Len(t, frolunda, 1)
	require.Equal(t, "2020-09-14T18:00:00+02:00", frolunda[0].TimeStart)

	for _, e := range events {
		require.NotEmpty(t, e.Street)
		require.NotEmpty(t, e.District)
		require.NotContains(t, e.District, "Kommunal")
		require.Equal(t, pickup.LocationID(e.District, e.Street), e.LocationID)
		require.Equal(t, e.TimeStart[:10], e.Date)
	}
}

func TestParsePageUsesClockYear(t *testing.T) {
	events, err := parserAt(2021).ParsePage(readFixture(t, "body_with_items.html"))
	require.NoError(t, err)
	require.Equal(t, "2021-10-06T19:00:00+02:00", events[0].TimeStart)
}

func TestParsePageWithoutItems(t *testing.T) {
	events, err := parserAt(2020).ParsePage(readFixture(t, "body_without_items.html"))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestParsePageWithVeryBadContent(t *testing.T) {
	events, err := parserAt(2020).ParsePage(readFixture(t, "body_with_very_bad_content.html"))
	require.Nil(t, events)

	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	require.Len(t, pageErr.Errors, 2)
	require.Equal(t, KindMarkupStructure, pageErr.Errors[0].Kind)
	require.Equal(t, KindSplit, pageErr.Errors[1].Kind)
	require.True(t, IsKind(err, KindSplit))
	require.False(t, IsKind(err, KindFetch))
}

func TestParsePageWithBadTimeRange(t *testing.T) {
	page := []byte(`
		<ul>
			<li class="c-snippet">
				<h3 class="c-snippet__title"><a href="#">Brunnsbo torg</a></h3>
				<p class="c-snippet__meta">Kommunal, Lundby</p>
				<div class="c-snippet__section">
					Torsdag 17 september 17-17.20 och torsdag 20 oktobr 17-17.20
				</div>
			</li>
		</ul>
	`)

	events, err := parserAt(2020).ParsePage(page)
	require.Nil(t, events)

	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	require.Len(t, pageErr.Errors, 1)
	require.Equal(t, KindTimestampFormat, pageErr.Errors[0].Kind)
	require.Equal(t, "oktobr", pageErr.Errors[0].Detail)
}

func TestParsePageReportsEveryBadTimeRange(t *testing.T) {
	page := []byte(`
		<ul>
			<li class="c-snippet">
				<h3 class="c-snippet__title"><a href="#">Bankebergsgatan</a></h3>
				<p class="c-snippet__meta">Kommunal, Västra Göteborg</p>
				<div class="c-snippet__section">
					Tisdag 6 oktober 19-19.45 och onsdag 7 oktobr 19-19.45 och torsdag 8 oktobr 19-19.45
				</div>
			</li>
		</ul>
	`)

	_, err := parserAt(2020).ParsePage(page)

	// one error per failing range, not one per entry, so every bad range
	// shows up in a single run
	var pageErr *PageError
	require.True(t, errors.As(err, &pageErr))
	require.Len(t, pageErr.Errors, 2)
	for _, e := range pageErr.Errors {
		require.Equal(t, KindTimestampFormat, e.Kind)
	}
}

func TestFormatDistrict(t *testing.T) {
	require.Equal(t, "Västra Göteborg", formatDistrict("Kommunal, Västra Göteborg"))
	require.Equal(t, "Västra Göteborg", formatDistrict("  Västra Göteborg\n"))
}
