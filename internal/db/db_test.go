package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openMemory(t testing.TB) *sql.DB {
	t.Helper()
	database, err := Open(context.Background(), Config{File: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenRequiresLocation(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	require.Error(t, err)
}

func TestOpenFileTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gfa.db")

	first, err := Open(context.Background(), Config{File: path})
	require.NoError(t, err)
	require.NoError(t, New(first).UpsertStopCoordinate(context.Background(), StopCoordinate{
		LocationID: "centrum_järntorget",
		Latitude:   57.6995,
		Longitude:  11.9530,
	}))
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), Config{File: path})
	require.NoError(t, err)
	defer second.Close()
	coordinates, err := New(second).ListStopCoordinates(context.Background())
	require.NoError(t, err)
	require.Len(t, coordinates, 1)
}

func TestUpsertPickupEvent(t *testing.T) {
	ctx := context.Background()
	qry := New(openMemory(t))

	event := PickupEvent{
		EventDate:  "2020-10-06",
		LocationID: "västragöteborg_bankebergsgatan-kennedygatan",
		Street:     "Bankebergsgatan/Kennedygatan",
		District:   "Västra Göteborg",
		StartTime:  "2020-10-06T19:00:00+02:00",
		EndTime:    "2020-10-06T19:45:00+02:00",
	}
	require.NoError(t, qry.UpsertPickupEvent(ctx, event))

	event.Description = sql.NullString{String: "vid pizzerian", Valid: true}
	event.EndTime = "2020-10-06T20:00:00+02:00"
	require.NoError(t, qry.UpsertPickupEvent(ctx, event))

	events, err := qry.GetPickupEventsByDate(ctx, "2020-10-06")
	require.NoError(t, err)
	require.Equal(t, []PickupEvent{event}, events)

	events, err = qry.GetPickupEventsByDate(ctx, "2020-10-07")
	require.NoError(t, err)
	require.Empty(t, events)

	deleted, err := qry.DeletePickupEventsBefore(ctx, "2020-10-07")
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}

func TestGetAuthenticatedSubscriptions(t *testing.T) {
	ctx := context.Background()
	database := openMemory(t)

	_, err := database.Exec(`
		insert into subscription (email, location_id, authenticated, unsubscribe_token) values
			('a@example.com', 'lundby_brunnsbotorg', 1, 'token-a'),
			('b@example.com', 'lundby_brunnsbotorg', 0, 'token-b'),
			('c@example.com', 'centrum_järntorget', 1, 'token-c')
	`)
	require.NoError(t, err)

	subs, err := New(database).GetAuthenticatedSubscriptions(ctx, "lundby_brunnsbotorg")
	require.NoError(t, err)
	require.Equal(t, []Subscription{{
		Email:            "a@example.com",
		LocationID:       "lundby_brunnsbotorg",
		Authenticated:    true,
		UnsubscribeToken: "token-a",
	}}, subs)
}
