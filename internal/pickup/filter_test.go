package pickup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilterWindowDropsPast(t *testing.T) {
	today, err := time.Parse(time.RFC3339, "2020-11-10T22:46:15+01:00")
	require.NoError(t, err)

	events := []Event{
		mustEvent(t, "some-street", "some-district", "", "2020-01-01T16:00:00+01:00", "2020-01-01T17:00:00+01:00"),
		mustEvent(t, "some-other-street", "some-other-district", "", "2020-11-15T16:00:00+01:00", "2020-11-15T17:00:00+01:00"),
	}

	kept := FilterWindow(events, today, DefaultWindowWeeks)
	require.Len(t, kept, 1)
	require.Equal(t, "some-other-street", kept[0].Street)
}

func TestFilterWindowDropsFarFuture(t *testing.T) {
	today, err := time.Parse(time.RFC3339, "2021-01-01T00:00:00+00:00")
	require.NoError(t, err)

	events := []Event{
		mustEvent(t, "some-street", "some-district", "", "2021-08-14T16:00:00+02:00", "2021-08-14T17:00:00+02:00"),
		mustEvent(t, "some-other-street", "some-other-district", "", "2021-05-15T16:00:00+02:00", "2021-05-15T17:00:00+02:00"),
	}

	kept := FilterWindow(events, today, DefaultWindowWeeks)
	require.Len(t, kept, 1)
	require.Equal(t, "some-other-street", kept[0].Street)
}

func TestFilterWindowKeepsToday(t *testing.T) {
	// earlier the same day still counts as today
	today, err := time.Parse(time.RFC3339, "2020-09-28T20:00:00+02:00")
	require.NoError(t, err)

	events := []Event{
		mustEvent(t, "Gatan 1", "Centrum", "", "2020-09-28T17:00:00+02:00", "2020-09-28T17:45:00+02:00"),
	}
	require.Len(t, FilterWindow(events, today, DefaultWindowWeeks), 1)
}
