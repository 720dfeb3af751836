package run

import (
	"context"
	"fmt"
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/pickup"
	"slices"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("internal/run")
	meter  = otel.Meter("internal/run")
)

const (
	report_scraper_parse_page = "scraper.parse-page"
	report_scraper_run        = "scraper.run"
)

type Fetcher interface {
	FetchPages(ctx context.Context) ([][]byte, error)
}

type Parser interface {
	ParsePage(page []byte) ([]pickup.Event, error)
}

type Saver interface {
	Save(ctx context.Context, events []pickup.Event) (int, error)
}

type Publisher interface {
	Publish(ctx context.Context, events []pickup.Event) error
}

type Options struct {
	// WindowWeeks defaults to pickup.DefaultWindowWeeks when zero.
	WindowWeeks int
}

// Scraper runs one complete scrape. Saver and Publisher may be nil, in
// which case that step is skipped.
type Scraper struct {
	fetcher   Fetcher
	parser    Parser
	saver     Saver
	publisher Publisher
	time      chrono.API
	opts      Options
	tel       telemetry.API
	counter   metric.Int64Counter
}

func NewScraper(
	fetcher Fetcher,
	parser Parser,
	saver Saver,
	publisher Publisher,
	time chrono.API,
	opts Options,
	tel telemetry.API,
) Scraper {
	if opts.WindowWeeks <= 0 {
		opts.WindowWeeks = pickup.DefaultWindowWeeks
	}
	// only an invalid instrument name makes this fail
	counter, _ := meter.Int64Counter(
		"scrape_events",
		metric.WithDescription("events seen by a scrape, by stage"),
	)
	return Scraper{
		fetcher:   fetcher,
		parser:    parser,
		saver:     saver,
		publisher: publisher,
		time:      time,
		opts:      opts,
		tel:       telemetry.NewScopedAPI("run", tel),
		counter:   counter,
	}
}

type Result struct {
	Pages       int
	FailedPages int
	Parsed      int
	Kept        int
	Saved       int
	// Events are the kept events sorted by location.
	Events []pickup.Event
}

// Run fetches every page, parses them concurrently, keeps the events
// inside the window and saves and publishes them. A failed fetch fails the
// run, a page that fails to parse is reported and skipped.
func (s Scraper) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	pages, err := s.fetcher.FetchPages(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch pages")
		s.tel.ReportBroken(report_scraper_run, err)
		return Result{}, fmt.Errorf("fetch pages: %w", err)
	}

	result := Result{Pages: len(pages)}

	parsed := make([][]pickup.Event, len(pages))
	failed := make([]bool, len(pages))
	wg := sync.WaitGroup{}
	for i, page := range pages {
		wg.Add(1)
		go func() {
			defer wg.Done()

			events, err := s.parser.ParsePage(page)
			if err != nil {
				s.tel.ReportWarning(report_scraper_parse_page, i, err)
				failed[i] = true
				return
			}
			parsed[i] = events
		}()
	}
	wg.Wait()

	var events []pickup.Event
	for i := range pages {
		if failed[i] {
			result.FailedPages++
			continue
		}
		events = append(events, parsed[i]...)
	}
	result.Parsed = len(events)

	slices.SortStableFunc(events, pickup.Compare)
	events = pickup.FilterWindow(events, s.time.Now(), s.opts.WindowWeeks)
	result.Kept = len(events)
	result.Events = events

	span.SetAttributes(
		attribute.Int("pages", result.Pages),
		attribute.Int("failed_pages", result.FailedPages),
		attribute.Int("parsed", result.Parsed),
		attribute.Int("kept", result.Kept),
	)
	s.tel.ReportCount(report_scraper_parse_page, int64(result.FailedPages))
	s.counter.Add(ctx, int64(result.Parsed), metric.WithAttributes(attribute.String("stage", "parsed")))
	s.counter.Add(ctx, int64(result.Kept), metric.WithAttributes(attribute.String("stage", "kept")))

	if s.saver != nil {
		result.Saved, err = s.saver.Save(ctx, events)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to save events")
			s.tel.ReportBroken(report_scraper_run, err)
			return result, fmt.Errorf("save events: %w", err)
		}
	}

	if s.publisher != nil {
		err = s.publisher.Publish(ctx, events)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to publish events")
			s.tel.ReportBroken(report_scraper_run, err)
			return result, fmt.Errorf("publish events: %w", err)
		}
	}

	return result, nil
}
