package farligtavfall

import (
	"fmt"
	"gfa-backend/internal/components/chrono"
	"regexp"
	"strings"
	"time"
)

// the weekday list carries "tisadg", a misspelling the site has published.
var descriptionTimeRegex = regexp.MustCompile(
	`([\p{L}\p{N}_\s]+\. |^)(måndag|tisdag|tisadg|onsdag|torsdag|fredag|lördag|söndag)`,
)

// SplitDescription separates the free text description in front of the first
// weekday from the time text that follows it. The input is lowercased, the
// description is "" when the text starts with the weekday.
func SplitDescription(raw string) (description string, times string, err error) {
	text := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " ")))

	loc := descriptionTimeRegex.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", newError(KindSplit, "no weekday found while splitting description and time", text, nil)
	}
	weekdayStart := loc[4]

	if weekdayStart > 0 {
		description = strings.TrimSpace(strings.ReplaceAll(text[:weekdayStart], ".", ""))
	}
	times = strings.Trim(text[weekdayStart:], ". ")
	return description, times, nil
}

// SplitTimeRanges splits time text on every "och", dropping a trailing empty
// piece, and trims each range.
func SplitTimeRanges(times string) []string {
	parts := strings.Split(times, "och")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

var (
	bareStartHourRegex = regexp.MustCompile(`(^|[^.\d])(\d{2})\s*-`)
	bareEndHourRegex   = regexp.MustCompile(`-\s*(\d{2})$`)
)

// RepairTimestamp adds ".00" to a start or end hour written without minutes,
// "17-17.20" becomes "17.00-17.20" and "19.15-20" becomes "19.15-20.00".
func RepairTimestamp(raw string) string {
	dt := strings.TrimSpace(raw)
	dt = bareStartHourRegex.ReplaceAllString(dt, "${1}${2}.00-")
	dt = bareEndHourRegex.ReplaceAllString(dt, "-${1}.00")
	return dt
}

// ZeroPadDay pads a single digit day of month to two digits.
func ZeroPadDay(day string) string {
	if len(day) == 1 {
		return "0" + day
	}
	return day
}

// months maps Swedish month names to English ones. "sepetmber" is a
// misspelling that has been seen on the site.
var months = map[string]string{
	"januari":   "january",
	"februari":  "february",
	"mars":      "march",
	"april":     "april",
	"maj":       "may",
	"juni":      "june",
	"juli":      "july",
	"augusti":   "august",
	"september": "september",
	"sepetmber": "september",
	"oktober":   "october",
	"november":  "november",
	"december":  "december",
}

// MonthToEnglish translates a lowercase Swedish month name.
func MonthToEnglish(month string) (string, error) {
	english, ok := months[month]
	if !ok {
		return "", newError(KindTimestampFormat, "unknown month", month, nil)
	}
	return english, nil
}

var timeRangeRegex = regexp.MustCompile(
	`\p{L}+\s+(?P<day>\d{1,2})\s+(?P<month>\p{L}+)\s+(?P<start>\d{2}\.\d{2})\s*-\s*(?P<end>\d{2}\.\d{2})`,
)

const localLayout = "2006-January-02 15.04"

// TimeRange is one parsed collection window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// ParseTimeRange parses a single range like "måndag 28 september 17-17.45"
// in Europe/Stockholm for the given year.
func ParseTimeRange(raw string, year int) (TimeRange, error) {
	dt := RepairTimestamp(raw)

	match := timeRangeRegex.FindStringSubmatch(dt)
	if match == nil {
		return TimeRange{}, newError(KindTimestampFormat, "time range did not match", dt, nil)
	}
	group := func(name string) (string, error) {
		value := match[timeRangeRegex.SubexpIndex(name)]
		if value == "" {
			return "", newError(KindTimestampFormat, "missing "+name, dt, nil)
		}
		return value, nil
	}

	day, err := group("day")
	if err != nil {
		return TimeRange{}, err
	}
	swedishMonth, err := group("month")
	if err != nil {
		return TimeRange{}, err
	}
	startText, err := group("start")
	if err != nil {
		return TimeRange{}, err
	}
	endText, err := group("end")
	if err != nil {
		return TimeRange{}, err
	}

	month, err := MonthToEnglish(strings.ToLower(swedishMonth))
	if err != nil {
		return TimeRange{}, err
	}

	date := fmt.Sprintf("%d-%s-%s", year, month, ZeroPadDay(day))
	start, err := time.ParseInLocation(localLayout, date+" "+startText, chrono.Stockholm())
	if err != nil {
		return TimeRange{}, newError(KindTimestampFormat, "invalid start time", dt, err)
	}
	end, err := time.ParseInLocation(localLayout, date+" "+endText, chrono.Stockholm())
	if err != nil {
		return TimeRange{}, newError(KindTimestampFormat, "invalid end time", dt, err)
	}

	return TimeRange{Start: start, End: end}, nil
}

// ParseTimes parses every range of a time text. Ranges that parse are
// returned even when others fail, every failing range adds one error.
func ParseTimes(times string, year int) ([]TimeRange, []*Error) {
	var ranges []TimeRange
	var errs []*Error
	for _, raw := range SplitTimeRanges(times) {
		r, err := ParseTimeRange(raw, year)
		if err != nil {
			errs = append(errs, asError(err, KindTimestampFormat))
			continue
		}
		ranges = append(ranges, r)
	}
	return ranges, errs
}
