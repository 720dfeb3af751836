package db

import (
	"context"
)

const upsertPickupEvent = `
insert into pickup_event (
    event_date, location_id, street, district, description, start_time, end_time
) values (?, ?, ?, ?, ?, ?, ?)
on conflict (event_date, location_id) do update set
    street = excluded.street,
    district = excluded.district,
    description = excluded.description,
    start_time = excluded.start_time,
    end_time = excluded.end_time
`

func (q *Queries) UpsertPickupEvent(ctx context.Context, arg PickupEvent) error {
	_, err := q.db.ExecContext(ctx, upsertPickupEvent,
		arg.EventDate,
		arg.LocationID,
		arg.Street,
		arg.District,
		arg.Description,
		arg.StartTime,
		arg.EndTime,
	)
	return err
}

const selectPickupEvent = `
select event_date, location_id, street, district, description, start_time, end_time
from pickup_event
`

func (q *Queries) scanPickupEvents(ctx context.Context, query string, args ...interface{}) ([]PickupEvent, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PickupEvent
	for rows.Next() {
		var i PickupEvent
		if err := rows.Scan(
			&i.EventDate,
			&i.LocationID,
			&i.Street,
			&i.District,
			&i.Description,
			&i.StartTime,
			&i.EndTime,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getPickupEventsByDate = selectPickupEvent + `
where event_date = ?
order by start_time, location_id
`

func (q *Queries) GetPickupEventsByDate(ctx context.Context, eventDate string) ([]PickupEvent, error) {
	return q.scanPickupEvents(ctx, getPickupEventsByDate, eventDate)
}

const getPickupEventsByLocation = selectPickupEvent + `
where location_id = ?
order by start_time
`

func (q *Queries) GetPickupEventsByLocation(ctx context.Context, locationID string) ([]PickupEvent, error) {
	return q.scanPickupEvents(ctx, getPickupEventsByLocation, locationID)
}

const listPickupEvents = selectPickupEvent + `
order by location_id, start_time
`

func (q *Queries) ListPickupEvents(ctx context.Context) ([]PickupEvent, error) {
	return q.scanPickupEvents(ctx, listPickupEvents)
}

const deletePickupEventsBefore = `
delete from pickup_event where event_date < ?
`

func (q *Queries) DeletePickupEventsBefore(ctx context.Context, eventDate string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePickupEventsBefore, eventDate)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertStopCoordinate = `
insert into stop_coordinate (location_id, latitude, longitude)
values (?, ?, ?)
on conflict (location_id) do update set
    latitude = excluded.latitude,
    longitude = excluded.longitude
`

func (q *Queries) UpsertStopCoordinate(ctx context.Context, arg StopCoordinate) error {
	_, err := q.db.ExecContext(ctx, upsertStopCoordinate, arg.LocationID, arg.Latitude, arg.Longitude)
	return err
}

const listStopCoordinates = `
select location_id, latitude, longitude from stop_coordinate
`

func (q *Queries) ListStopCoordinates(ctx context.Context) ([]StopCoordinate, error) {
	rows, err := q.db.QueryContext(ctx, listStopCoordinates)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StopCoordinate
	for rows.Next() {
		var i StopCoordinate
		if err := rows.Scan(&i.LocationID, &i.Latitude, &i.Longitude); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getAuthenticatedSubscriptions = `
select email, location_id, authenticated, unsubscribe_token
from subscription
where location_id = ? and authenticated = 1
order by email
`

func (q *Queries) GetAuthenticatedSubscriptions(ctx context.Context, locationID string) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx, getAuthenticatedSubscriptions, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscription
	for rows.Next() {
		var i Subscription
		if err := rows.Scan(
			&i.Email,
			&i.LocationID,
			&i.Authenticated,
			&i.UnsubscribeToken,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
