package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MeetupLayout is the layout Meetup uses for event times, without the UTC offset.
// Example: "Sat, Nov 11, 2023, 4:00 PM"
const MeetupLayout = "Mon, Jan 2, 2006, 3:04 PM"

// ErrInvalidDate is returned when an event time does not follow MeetupLayout
var ErrInvalidDate = errors.New("invalid event date")

// ParseTime parses a Meetup event time like "Sat, Nov 11, 2023, 4:00 PM UTC+11".
// The text is split on the first "UTC": the part before follows MeetupLayout and
// the part after is a UTC offset. The result carries the offset as its location.
func ParseTime(text string) (time.Time, error) {
	dateText, offsetText, _ := strings.Cut(text, "UTC")

	naive, err := time.Parse(MeetupLayout, strings.TrimSpace(dateText))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, text, err)
	}

	// A missing "UTC" leaves offsetText empty, which ParseOffset rejects
	offset, err := ParseOffset(offsetText)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), 0, 0, offset.Location()), nil
}

// ParseTimestamp reads a millisecond Unix timestamp previously written by the
// time rewriter.
func ParseTimestamp(text string) (int64, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing timestamp %q: %w", text, err)
	}
	return ms, nil
}

// FormatTimestamp renders t as milliseconds since the Unix epoch
func FormatTimestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// Finished reports whether an event starting at timestamp (milliseconds)
// began strictly before now. Events without a timestamp are never finished.
func Finished(timestamp *int64, now time.Time) bool {
	if timestamp == nil {
		return false
	}
	return *timestamp < now.UnixMilli()
}
