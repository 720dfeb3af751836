package farligtavfall

import (
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/htmlutil"
	"gfa-backend/internal/pickup"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Parser turns listing pages into events. Schedules on the site carry no
// year, the current year in Stockholm is assumed.
type Parser struct {
	time chrono.API
}

func NewParser(time chrono.API) Parser {
	return Parser{time: time}
}

// ParsePage parses every entry of a listing page. A page is all or
// nothing: if any entry or any of its time ranges fails, the result is a
// *PageError holding every failure and no events.
func (p Parser) ParsePage(page []byte) ([]pickup.Event, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return nil, &PageError{Errors: []*Error{asError(err, KindMarkupStructure)}}
	}

	year := p.time.Now().In(chrono.Stockholm()).Year()

	var events []pickup.Event
	var errs []*Error
	doc.Find(".c-snippet").Each(func(_ int, fragment *goquery.Selection) {
		parsed, fragmentErrs := parseFragment(fragment, year)
		events = append(events, parsed...)
		errs = append(errs, fragmentErrs...)
	})

	if len(errs) > 0 {
		return nil, &PageError{Errors: errs}
	}
	return events, nil
}

func parseFragment(fragment *goquery.Selection, year int) ([]pickup.Event, []*Error) {
	title := fragment.Find(".c-snippet__title").First().Children().First()
	if title.Length() == 0 {
		return nil, []*Error{newError(KindMarkupStructure, "title not found", "", nil)}
	}
	street := strings.TrimSpace(htmlutil.Text(title))

	meta := fragment.Find(".c-snippet__meta").First()
	if meta.Length() == 0 {
		return nil, []*Error{newError(KindMarkupStructure, "district not found", street, nil)}
	}
	district := formatDistrict(htmlutil.Text(meta))

	section := fragment.Find(".c-snippet__section").First()
	if section.Length() == 0 {
		return nil, []*Error{newError(KindMarkupStructure, "content not found", street, nil)}
	}

	description, times, err := SplitDescription(htmlutil.Text(section))
	if err != nil {
		return nil, []*Error{asError(err, KindSplit)}
	}

	ranges, errs := ParseTimes(times, year)
	var events []pickup.Event
	for _, r := range ranges {
		event, err := pickup.NewEvent(
			street,
			district,
			description,
			r.Start.Format(time.RFC3339),
			r.End.Format(time.RFC3339),
		)
		if err != nil {
			errs = append(errs, newError(KindTimestampFormat, "invalid event time", street, err))
			continue
		}
		events = append(events, event)
	}
	return events, errs
}

func formatDistrict(meta string) string {
	return strings.TrimSpace(strings.ReplaceAll(meta, "Kommunal,", ""))
}
