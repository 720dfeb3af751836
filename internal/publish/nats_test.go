package publish

import (
	"context"
	"encoding/json"
	"errors"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/pickup"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	msgs    []*nats.Msg
	failOn  string
	flushed bool
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	if msg.Subject == c.failOn {
		return errors.New("nats: connection closed")
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) FlushWithContext(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return nats.ErrNoDeadlineContext
	}
	c.flushed = true
	return nil
}

func (c *fakeConn) Drain() error { return nil }
func (c *fakeConn) Close()       {}

func testEvents(t testing.TB) []pickup.Event {
	a, err := pickup.NewEvent("Bankebergsgatan/Kennedygatan", "Västra Göteborg", "vid pizzerian",
		"2020-10-06T19:00:00+02:00", "2020-10-06T19:45:00+02:00")
	require.NoError(t, err)
	b, err := pickup.NewEvent("Doktor Fries torg", "Centrum", "",
		"2020-09-28T17:00:00+02:00", "2020-09-28T17:45:00+02:00")
	require.NoError(t, err)
	return []pickup.Event{a, b}
}

func TestPublish(t *testing.T) {
	nc := &fakeConn{}
	publisher := newPublisher(nc, "", &telemetry.Recorder{})

	events := testEvents(t)
	require.NoError(t, publisher.Publish(context.Background(), events))
	require.True(t, nc.flushed)
	require.Len(t, nc.msgs, 2)

	require.Equal(t, "gfa.events.2020-10-06.västragöteborg_bankebergsgatan-kennedygatan", nc.msgs[0].Subject)
	require.Equal(t, "2020-10-06/västragöteborg_bankebergsgatan-kennedygatan", nc.msgs[0].Header.Get(nats.MsgIdHdr))

	var decoded pickup.Event
	require.NoError(t, json.Unmarshal(nc.msgs[0].Data, &decoded))
	require.Equal(t, events[0], decoded)
}

func TestPublishJoinsFailures(t *testing.T) {
	nc := &fakeConn{failOn: "farligt.2020-10-06.västragöteborg_bankebergsgatan-kennedygatan"}
	tel := &telemetry.Recorder{}
	publisher := newPublisher(nc, "farligt", tel)

	err := publisher.Publish(context.Background(), testEvents(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection closed")
	require.Len(t, nc.msgs, 1)
	require.Len(t, tel.Reports("broken"), 1)
}

func TestSubjectToken(t *testing.T) {
	require.Equal(t, "centrum_doktorfriestorg,doktorbondesonsgata", subjectToken("centrum_doktorfriestorg,doktorbondesonsgata"))
	require.Equal(t, "a_b_c_d", subjectToken(" a.b>c*d "))
	require.Equal(t, "_", subjectToken(""))
	require.Equal(t, "torg,___doktor", subjectToken("torg,\n  doktor"))
	require.Equal(t, "a__b_c", subjectToken("a\r\nb\tc"))
}

func TestPublishWrappedStreetStaysOneSubject(t *testing.T) {
	e, err := pickup.NewEvent("Doktor Fries torg,\n  Doktor Bondesons Gata", "Centrum", "",
		"2020-09-28T17:00:00+02:00", "2020-09-28T17:45:00+02:00")
	require.NoError(t, err)

	nc := &fakeConn{}
	publisher := newPublisher(nc, "", &telemetry.Recorder{})
	require.NoError(t, publisher.Publish(context.Background(), []pickup.Event{e}))
	require.Len(t, nc.msgs, 1)
	require.Equal(t, "gfa.events.2020-09-28.centrum_doktorfriestorg,doktorbondesonsgata", nc.msgs[0].Subject)
	require.NotContains(t, nc.msgs[0].Subject, "\n")
}
