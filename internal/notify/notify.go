package notify

import (
	"context"
	"fmt"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/events"
	"gfa-backend/internal/pickup"
)

const (
	report_notifier_notify_day = "notifier.notify-day"
	report_notifier_send       = "notifier.send"
)

// Source is where the notifier reads events and subscribers from.
type Source interface {
	ByDate(ctx context.Context, date string) ([]pickup.Event, error)
	Subscribers(ctx context.Context, locationID string) ([]events.Subscriber, error)
}

type Notifier struct {
	source         Source
	mailer         Mailer
	unsubscribeURL string
	tel            telemetry.API
}

func NewNotifier(source Source, mailer Mailer, unsubscribeURL string, tel telemetry.API) Notifier {
	return Notifier{
		source:         source,
		mailer:         mailer,
		unsubscribeURL: unsubscribeURL,
		tel:            telemetry.NewScopedAPI("notify", tel),
	}
}

// NotifyDay emails every authenticated subscriber of every stop visited on
// date (YYYY-MM-DD) and returns the number of emails sent. Failed sends are
// reported and skipped, failing to read events or subscribers is an error.
func (n Notifier) NotifyDay(ctx context.Context, date string) (int, error) {
	ctx, span := tracer.Start(ctx, "NotifyDay")
	defer span.End()

	dayEvents, err := n.source.ByDate(ctx, date)
	if err != nil {
		n.tel.ReportBroken(report_notifier_notify_day, err, date)
		return 0, fmt.Errorf("events on %s: %w", date, err)
	}
	n.tel.ReportDebug("about to notify", date, len(dayEvents))

	sent := 0
	for _, event := range dayEvents {
		subscribers, err := n.source.Subscribers(ctx, event.LocationID)
		if err != nil {
			n.tel.ReportBroken(report_notifier_notify_day, err, event.LocationID)
			return sent, fmt.Errorf("subscribers of %s: %w", event.LocationID, err)
		}
		if len(subscribers) == 0 {
			n.tel.ReportDebug("no subscribers, skipping", event.LocationID)
			continue
		}

		for _, sub := range subscribers {
			msg, err := FormatMessage(event, UnsubscribeLink(n.unsubscribeURL, sub.Email, sub.UnsubscribeToken))
			if err != nil {
				n.tel.ReportBroken(report_notifier_send, err, event.LocationID)
				break
			}
			msg.To = sub.Email

			err = n.mailer.Send(ctx, msg)
			if err != nil {
				n.tel.ReportBroken(report_notifier_send, err, event.LocationID, sub.Email)
				continue
			}
			sent++
		}
	}

	n.tel.ReportCount(report_notifier_send, int64(sent))
	return sent, nil
}
