// Package filter decides which events of the list are shown on the page.
//
// The destination page hides any element carrying the "hidden" class and
// offers a "show more" control for them. Two rules apply to the immediate
// events of the list, in order:
//   - Finished events (start time before now) are hidden when HideFinishedEvents is set.
//     They do not use up a visible slot.
//   - Once VisiblePopulation events are visible, every later event is hidden.
//
// Events without a time are never finished; only the population cap applies
// to them.
//
// Example usage:
//
//	limit := 2
//	f := filter.New(filter.Options{VisiblePopulation: &limit}, log)
//	stats, err := f.Apply(list)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/meetup-sync/internal/event"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
)

// HiddenClass is the CSS class the destination page hides
const HiddenClass = "hidden"

// Options represents the visibility rules
type Options struct {
	// HideFinishedEvents hides events whose start time has passed
	HideFinishedEvents bool

	// VisiblePopulation caps the number of visible events. Nil means unlimited.
	VisiblePopulation *int
}

// Stats reports how many immediate events stayed visible
type Stats struct {
	Visible int `json:"visible"`
	Total   int `json:"total"`
}

// Filter marks events of a list as hidden
type Filter struct {
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new filter with the given rules
func New(opts Options, log *logger.Logger) *Filter {
	return &Filter{
		opts: opts,
		log:  log,
		now:  time.Now,
	}
}

// SetClock replaces the time source used to decide whether an event finished
func (f *Filter) SetClock(now func() time.Time) {
	f.now = now
}

// Apply walks the immediate li children of list and appends HiddenClass to
// those that should not be shown. Times must already be rewritten to
// millisecond timestamps.
func (f *Filter) Apply(list *goquery.Selection) (Stats, error) {
	items := list.ChildrenFiltered("li")
	stats := Stats{Total: items.Length()}
	now := f.now()

	var applyErr error
	items.EachWithBreak(func(i int, li *goquery.Selection) bool {
		var timestamp *int64
		if timeSel := li.Find("time").First(); timeSel.Length() > 0 {
			ms, err := event.ParseTimestamp(timeSel.Text())
			if err != nil {
				applyErr = fmt.Errorf("reading event %d time: %w", i, err)
				return false
			}
			timestamp = &ms
		} else {
			divID, _ := li.Find("div").First().Attr("id")
			f.log.Info("No time found for event", logger.Fields{"event": event.Label(divID, i)})
		}

		switch {
		case f.opts.HideFinishedEvents && event.Finished(timestamp, now):
			hide(li)
		case f.opts.VisiblePopulation != nil && stats.Visible >= *f.opts.VisiblePopulation:
			hide(li)
		default:
			stats.Visible++
		}
		return true
	})

	if applyErr != nil {
		return Stats{}, applyErr
	}

	f.log.Info(fmt.Sprintf("%d / %d events are to be displayed", stats.Visible, stats.Total), nil)
	return stats, nil
}

// hide appends HiddenClass to the element's class attribute
func hide(li *goquery.Selection) {
	classes := strings.Fields(li.AttrOr("class", ""))
	li.SetAttr("class", strings.Join(AppendClass(classes, HiddenClass), " "))
}

// AppendClass returns a new class list with class added at the end. The input
// is never modified, and an existing entry is not collapsed.
func AppendClass(classes []string, class string) []string {
	out := make([]string, len(classes), len(classes)+1)
	copy(out, classes)
	return append(out, class)
}

// String returns a human-readable description of the rules
func (o Options) String() string {
	var parts []string

	if o.HideFinishedEvents {
		parts = append(parts, "Hide finished events")
	}

	if o.VisiblePopulation != nil {
		parts = append(parts, fmt.Sprintf("Visible population: %d", *o.VisiblePopulation))
	} else {
		parts = append(parts, "Visible population: unlimited")
	}

	return strings.Join(parts, " | ")
}
