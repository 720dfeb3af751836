package run

import (
	"context"
	"errors"
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/db"
	"gfa-backend/internal/events"
	"gfa-backend/internal/pickup"
	"gfa-backend/internal/scrapers/farligtavfall"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type staticFetcher struct {
	pages [][]byte
	err   error
}

func (f staticFetcher) FetchPages(context.Context) ([][]byte, error) {
	return f.pages, f.err
}

type recordingPublisher struct {
	events []pickup.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events []pickup.Event) error {
	p.events = append(p.events, events...)
	return nil
}

func readFixture(t testing.TB, name string) []byte {
	t.Helper()
	page, err := os.ReadFile("../scrapers/farligtavfall/testdata/" + name)
	require.NoError(t, err)
	return page
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	clock := chrono.NewFixedImpl(time.Date(2020, 9, 1, 8, 0, 0, 0, chrono.Stockholm()))

	database, err := db.Open(ctx, db.Config{File: ":memory:"})
	require.NoError(t, err)
	defer database.Close()

	tel := &telemetry.Recorder{}
	store := events.NewStore(database, tel)
	publisher := &recordingPublisher{}

	scraper := NewScraper(
		staticFetcher{pages: [][]byte{
			readFixture(t, "body_with_items.html"),
			readFixture(t, "body_with_very_bad_content.html"),
			readFixture(t, "body_without_items.html"),
		}},
		farligtavfall.NewParser(clock),
		store,
		publisher,
		clock,
		Options{},
		tel,
	)

	result, err := scraper.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, result.Pages)
	require.Equal(t, 1, result.FailedPages)
	require.Equal(t, 39, result.Parsed)
	// "måndag 29 mars" lies before 2020-09-01
	require.Equal(t, 38, result.Kept)
	require.Equal(t, 38, result.Saved)
	require.Equal(t, result.Events, publisher.events)

	for i := 1; i < len(result.Events); i++ {
		require.LessOrEqual(t, pickup.Compare(result.Events[i-1], result.Events[i]), 0)
	}

	warnings := tel.Reports("warning")
	require.Len(t, warnings, 1)
	require.Equal(t, "run: "+report_scraper_parse_page, warnings[0].ID)

	stops, err := store.Stops(ctx)
	require.NoError(t, err)
	require.Len(t, stops, 29)
}

func TestRunDropsEventsOutsideWindow(t *testing.T) {
	// 2020-10-10: everything in september and early october is in the past
	clock := chrono.NewFixedImpl(time.Date(2020, 10, 10, 8, 0, 0, 0, chrono.Stockholm()))
	scraper := NewScraper(
		staticFetcher{pages: [][]byte{readFixture(t, "body_with_items.html")}},
		farligtavfall.NewParser(clock),
		nil,
		nil,
		clock,
		Options{WindowWeeks: 2},
		&telemetry.Recorder{},
	)

	result, err := scraper.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 39, result.Parsed)
	require.Less(t, result.Kept, result.Parsed)
	require.Zero(t, result.Saved)
	for _, e := range result.Events {
		require.GreaterOrEqual(t, e.Date, "2020-10-10")
		require.LessOrEqual(t, e.Date, "2020-10-24")
	}
}

func TestRunFetchFailure(t *testing.T) {
	clock := chrono.NewFixedImpl(time.Date(2020, 9, 1, 8, 0, 0, 0, chrono.Stockholm()))
	tel := &telemetry.Recorder{}
	scraper := NewScraper(
		staticFetcher{err: errors.New("unexpected status 503")},
		farligtavfall.NewParser(clock),
		nil,
		nil,
		clock,
		Options{},
		tel,
	)

	_, err := scraper.Run(context.Background())
	require.Error(t, err)
	require.Len(t, tel.Reports("broken"), 1)
}
