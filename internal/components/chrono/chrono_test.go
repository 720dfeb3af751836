package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFixedImplUsesStockholm(t *testing.T) {
	// 23:30 UTC on new year's eve is already the next year in Stockholm
	clock := NewFixedImpl(time.Date(2020, time.December, 31, 23, 30, 0, 0, time.UTC))
	require.Equal(t, 2021, clock.Now().Year())
	require.Equal(t, "Europe/Stockholm", clock.Location().String())
}

func TestStandardImplLocation(t *testing.T) {
	require.Equal(t, Stockholm(), NewStandardImpl().Now().Location())
}
