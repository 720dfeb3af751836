package notify

import (
	"fmt"
	"gfa-backend/internal/pickup"
	"net/url"
	"strings"
)

// UnsubscribeLink builds the per recipient link that removes a subscription.
func UnsubscribeLink(base, recipient, token string) string {
	query := url.Values{}
	query.Set("email", recipient)
	query.Set("unsubscribe_token", token)
	if strings.Contains(base, "?") {
		return base + "&" + query.Encode()
	}
	return base + "?" + query.Encode()
}

// FormatMessage renders the notification for one event. Times are local
// Stockholm HH:MM.
func FormatMessage(event pickup.Event, unsubscribeLink string) (Message, error) {
	start, err := event.Start()
	if err != nil {
		return Message{}, fmt.Errorf("format %s: %w", event.LocationID, err)
	}
	end, err := event.End()
	if err != nil {
		return Message{}, fmt.Errorf("format %s: %w", event.LocationID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Farligt avfall-bilen kommer till %s", event.Street)
	if event.Description != "" {
		fmt.Fprintf(&b, " (%s)", event.Description)
	}
	fmt.Fprintf(&b, " %s klockan %s-%s.\n\n", start.Format(pickup.DateLayout), start.Format("15:04"), end.Format("15:04"))
	fmt.Fprintf(&b, "Avsluta prenumerationen: %s\n", unsubscribeLink)

	return Message{
		Subject: fmt.Sprintf("Farligt avfall-bilen till %s", event.Street),
		Text:    b.String(),
	}, nil
}
