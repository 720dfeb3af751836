package events

import (
	"context"
	"database/sql"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/db"
	"gfa-backend/internal/pickup"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("internal/events")

const (
	report_store_save  = "store.save"
	report_store_stops = "store.stops"
)

// Subscriber is an authenticated subscription to one stop.
type Subscriber struct {
	Email            string
	UnsubscribeToken string
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
	tel telemetry.API
}

func NewStore(database *sql.DB, tel telemetry.API) Store {
	return Store{
		db:  database,
		qry: db.New(database),
		tel: telemetry.NewScopedAPI("events", tel),
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Save upserts every event keyed by (date, location_id) in one transaction
// and returns the number of distinct rows written. Later events in the batch
// win over earlier ones with the same key.
func (s Store) Save(ctx context.Context, events []pickup.Event) (int, error) {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()
	span.SetAttributes(attribute.Int("events", len(events)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	written := make(map[[2]string]struct{}, len(events))
	for _, e := range events {
		err = txqry.UpsertPickupEvent(ctx, toRow(e))
		if err != nil {
			recordError(span, err)
			s.tel.ReportBroken(report_store_save, err, e.LocationID, e.Date)
			return 0, err
		}
		written[[2]string{e.Date, e.LocationID}] = struct{}{}
	}

	err = tx.Commit()
	if err != nil {
		recordError(span, err)
		return 0, err
	}
	return len(written), nil
}

// ByDate returns the events on a Stockholm calendar day (YYYY-MM-DD),
// ordered by start time.
func (s Store) ByDate(ctx context.Context, date string) ([]pickup.Event, error) {
	ctx, span := tracer.Start(ctx, "ByDate")
	defer span.End()
	span.SetAttributes(attribute.String("date", date))

	rows, err := s.qry.GetPickupEventsByDate(ctx, date)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return fromRows(rows), nil
}

// ByLocation returns every stored event at a stop ordered by start time.
func (s Store) ByLocation(ctx context.Context, locationID string) ([]pickup.Event, error) {
	ctx, span := tracer.Start(ctx, "ByLocation")
	defer span.End()
	span.SetAttributes(attribute.String("location_id", locationID))

	rows, err := s.qry.GetPickupEventsByLocation(ctx, locationID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return fromRows(rows), nil
}

// Stops returns the unique stops of every stored event along with their
// coordinate, if one has been set.
func (s Store) Stops(ctx context.Context) ([]pickup.Stop, error) {
	ctx, span := tracer.Start(ctx, "Stops")
	defer span.End()

	rows, err := s.qry.ListPickupEvents(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	coordinates, err := s.qry.ListStopCoordinates(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	byLocation := make(map[string]pickup.Coordinate, len(coordinates))
	for _, c := range coordinates {
		byLocation[c.LocationID] = pickup.Coordinate{
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
		}
	}

	stops := pickup.UniqueStops(fromRows(rows))
	missing := 0
	for i, stop := range stops {
		coordinate, ok := byLocation[stop.LocationID]
		if !ok {
			missing++
			continue
		}
		stops[i].Coordinate = &coordinate
	}
	s.tel.ReportCount(report_store_stops, int64(missing))
	return stops, nil
}

func (s Store) SetCoordinate(ctx context.Context, locationID string, coordinate pickup.Coordinate) error {
	ctx, span := tracer.Start(ctx, "SetCoordinate")
	defer span.End()

	err := s.qry.UpsertStopCoordinate(ctx, db.StopCoordinate{
		LocationID: locationID,
		Latitude:   coordinate.Latitude,
		Longitude:  coordinate.Longitude,
	})
	if err != nil {
		recordError(span, err)
	}
	return err
}

// Subscribers returns the authenticated subscriptions of a stop.
func (s Store) Subscribers(ctx context.Context, locationID string) ([]Subscriber, error) {
	ctx, span := tracer.Start(ctx, "Subscribers")
	defer span.End()

	rows, err := s.qry.GetAuthenticatedSubscriptions(ctx, locationID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	out := make([]Subscriber, len(rows))
	for i, row := range rows {
		out[i] = Subscriber{
			Email:            row.Email,
			UnsubscribeToken: row.UnsubscribeToken,
		}
	}
	return out, nil
}

// Prune deletes every event before the given date.
func (s Store) Prune(ctx context.Context, before string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Prune")
	defer span.End()

	deleted, err := s.qry.DeletePickupEventsBefore(ctx, before)
	if err != nil {
		recordError(span, err)
	}
	return deleted, err
}

func toRow(e pickup.Event) db.PickupEvent {
	return db.PickupEvent{
		EventDate:  e.Date,
		LocationID: e.LocationID,
		Street:     e.Street,
		District:   e.District,
		Description: sql.NullString{
			String: e.Description,
			Valid:  e.Description != "",
		},
		StartTime: e.TimeStart,
		EndTime:   e.TimeEnd,
	}
}

func fromRows(rows []db.PickupEvent) []pickup.Event {
	out := make([]pickup.Event, len(rows))
	for i, row := range rows {
		out[i] = pickup.Event{
			LocationID:  row.LocationID,
			Street:      row.Street,
			District:    row.District,
			Description: row.Description.String,
			TimeStart:   row.StartTime,
			TimeEnd:     row.EndTime,
			Date:        row.EventDate,
		}
	}
	return out
}
