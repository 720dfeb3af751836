package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/pickup"
	"strings"
	"time"
	"unicode"

	"github.com/nats-io/nats.go"
)

const (
	report_nats_connection = "nats.connection"
	report_nats_publish    = "nats.publish"
)

// DefaultSubject is the subject prefix used when none is configured.
const DefaultSubject = "gfa.events"

// FlushTimeout bounds the flush after publishing when ctx has no deadline.
const FlushTimeout = 10 * time.Second

type conn interface {
	PublishMsg(msg *nats.Msg) error
	FlushWithContext(ctx context.Context) error
	Drain() error
	Close()
}

// NATSPublisher publishes scraped events, one message per event on
// "<subject>.<date>.<location>".
type NATSPublisher struct {
	nc      conn
	subject string
	tel     telemetry.API
}

func NewNATSPublisher(url, subject string, tel telemetry.API) (*NATSPublisher, error) {
	tel = telemetry.NewScopedAPI("publish", tel)
	nc, err := nats.Connect(url,
		nats.Name("gfa-backend"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			tel.ReportWarning(report_nats_connection, "disconnected", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			tel.ReportDebug("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			tel.ReportDebug("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return newPublisher(nc, subject, tel), nil
}

func newPublisher(nc conn, subject string, tel telemetry.API) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{nc: nc, subject: subject, tel: tel}
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(e pickup.Event) string {
	return fmt.Sprintf("%s.%s.%s", p.subject, subjectToken(e.Date), subjectToken(e.LocationID))
}

// Publish sends every event and flushes. A failed event does not stop the
// others, all failures are joined.
func (p *NATSPublisher) Publish(ctx context.Context, events []pickup.Event) error {
	var errList []error
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			errList = append(errList, err)
			break
		}

		data, err := json.Marshal(e)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		msg := nats.NewMsg(p.Subject(e))
		msg.Header.Set(nats.MsgIdHdr, e.Date+"/"+e.LocationID)
		msg.Header.Set("location_id", e.LocationID)
		msg.Data = data

		err = p.nc.PublishMsg(msg)
		if err != nil {
			p.tel.ReportBroken(report_nats_publish, err, msg.Subject)
			errList = append(errList, fmt.Errorf("publish %s: %w", msg.Subject, err))
		}
	}

	// nats refuses to flush with a context that has no deadline
	flushCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		flushCtx, cancel = context.WithTimeout(ctx, FlushTimeout)
		defer cancel()
	}
	err := p.nc.FlushWithContext(flushCtx)
	if err != nil {
		errList = append(errList, fmt.Errorf("flush: %w", err))
	}
	p.tel.ReportCount(report_nats_publish, int64(len(events)))
	return errors.Join(errList...)
}

// subjectToken makes s usable as a single subject token, tokens cannot
// contain whitespace, '.', '>' or '*'.
func subjectToken(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		switch r {
		case '.', '>', '*', '/':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		s = "_"
	}
	return s
}
