package pickup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestUniqueStops(t *testing.T) {
	events := []Event{
		mustEvent(t, "zzz_gatan", "Hisingen", "Wieselgren", "2020-06-06T16:00:00+02:00", "2020-06-06T17:00:00+02:00"),
		mustEvent(t, "aaa_gatan", "Hisingen", "Hjalle!", "2020-01-01T16:00:00+01:00", "2020-01-01T17:00:00+01:00"),
		mustEvent(t, "aaa_gatan", "Hisingen", "vid pizzerian", "2020-06-06T16:00:00+02:00", "2020-06-06T17:00:00+02:00"),
	}

	stops := UniqueStops(events)

	expected := []Stop{
		{LocationID: "hisingen_aaa_gatan", Street: "aaa_gatan", District: "Hisingen", Description: "Hjalle!"},
		{LocationID: "hisingen_zzz_gatan", Street: "zzz_gatan", District: "Hisingen", Description: "Wieselgren"},
	}
	if diff := cmp.Diff(expected, stops); diff != "" {
		t.Fatalf("unexpected stops (-want +got):\n%s", diff)
	}

	// input order is left alone
	require.Equal(t, "zzz_gatan", events[0].Street)
}

func TestUniqueStopsEmpty(t *testing.T) {
	require.Empty(t, UniqueStops(nil))
}
