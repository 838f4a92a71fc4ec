// Package calendar exports extracted events as an iCalendar feed.
//
// Only events with a time are exported. Hidden events are included: hiding is
// a display decision of the destination page, not a statement that the event
// is cancelled.
package calendar

import (
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pfrederiksen/meetup-sync/internal/event"
)

const (
	ProductID = "-//Meetup Sync//meetup-sync//EN"
	UIDDomain = "meetup-sync"

	// DefaultDuration is used for DTEND; the listing does not carry end times
	DefaultDuration = 2 * time.Hour
)

// GenerateICS generates an iCalendar (.ics) feed for the timed events
func GenerateICS(events []*event.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)

	for _, evt := range events {
		if evt.StartsAt == nil {
			continue
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@%s", evt.ID, UIDDomain))
		ve.SetDtStampTime(now.UTC())
		ve.SetStartAt(*evt.StartsAt)
		ve.SetEndAt(evt.StartsAt.Add(DefaultDuration))
		ve.SetSummary(evt.DisplayName())
		if evt.URL != "" {
			ve.SetURL(evt.URL)
		}
		ve.SetStatus(ical.ObjectStatusConfirmed)
	}

	return cal.Serialize(ical.WithNewLineWindows)
}

// WriteFile writes the feed for events to path
func WriteFile(path string, events []*event.Event) error {
	ics := GenerateICS(events, time.Now())
	if err := os.WriteFile(path, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// Count returns how many events GenerateICS would export
func Count(events []*event.Event) int {
	n := 0
	for _, evt := range events {
		if evt.Timestamp != nil {
			n++
		}
	}
	return n
}
