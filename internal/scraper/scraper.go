package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/meetup-sync/internal/event"
	"github.com/pfrederiksen/meetup-sync/internal/filter"
	"github.com/pfrederiksen/meetup-sync/internal/imagery"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
)

const (
	// ReliableDivID marks the first event. If it is missing, either there are
	// no events or Meetup has changed their HTML.
	ReliableDivID = "e-1"
	ListTag       = "ul"
	EventTag      = "li"
	TimeTag       = "time"
)

// ErrEventListNotFound is returned when the event list cannot be located
var ErrEventListNotFound = errors.New("event list not found")

// Scraper handles locating and rewriting the Meetup event list
type Scraper struct {
	log *logger.Logger
}

// New creates a new Scraper instance
func New(log *logger.Logger) *Scraper {
	return &Scraper{log: log}
}

// ParseFile reads a saved Meetup page and returns its event list with every
// time rewritten to a millisecond timestamp.
func (s *Scraper) ParseFile(path string) (*goquery.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return s.parseEvents(bytes.NewReader(data))
}

// parseEvents locates the event list in HTML and rewrites its times
func (s *Scraper) parseEvents(r io.Reader) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	list, err := s.LocateEventList(doc.Selection)
	if err != nil {
		return nil, err
	}

	if err := s.RewriteTimes(list); err != nil {
		return nil, err
	}
	return list, nil
}

// FindByID returns the first tag element below root whose id is exactly id.
// The result is empty when there is no such element.
func FindByID(root *goquery.Selection, tag, id string) *goquery.Selection {
	return root.Find(tag).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		v, ok := sel.Attr("id")
		return ok && v == id
	}).First()
}

// NearestAncestor returns the closest strict ancestor of sel with the given
// tag. The result is empty when there is none.
func NearestAncestor(sel *goquery.Selection, tag string) *goquery.Selection {
	return sel.Parent().Closest(tag)
}

// LocateEventList finds the stable marker and walks up to its list
func (s *Scraper) LocateEventList(root *goquery.Selection) (*goquery.Selection, error) {
	marker := FindByID(root, "div", ReliableDivID)
	if marker.Length() == 0 {
		s.log.Error("Could not find stable event marker", logger.Fields{
			"id":         ReliableDivID,
			"characters": len(root.Text()),
		}, nil)
		return nil, fmt.Errorf("%w: no div#%s", ErrEventListNotFound, ReliableDivID)
	}

	list := NearestAncestor(marker, ListTag)
	if list.Length() == 0 {
		s.log.Error("Stable event marker lacks a list ancestor", logger.Fields{
			"id":       ReliableDivID,
			"ancestor": ListTag,
		}, nil)
		return nil, fmt.Errorf("%w: div#%s has no %s ancestor", ErrEventListNotFound, ReliableDivID, ListTag)
	}

	return list, nil
}

// RewriteTimes replaces the text of every time element in list, at any depth,
// with its millisecond Unix timestamp. The original text is discarded, so the
// rewrite cannot be applied twice.
func (s *Scraper) RewriteTimes(list *goquery.Selection) error {
	var rewriteErr error
	rewritten := 0

	list.Find(TimeTag).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t, err := event.ParseTime(sel.Text())
		if err != nil {
			rewriteErr = fmt.Errorf("rewriting time: %w", err)
			return false
		}
		sel.SetText(event.FormatTimestamp(t))
		rewritten++
		return true
	})

	if rewriteErr != nil {
		return rewriteErr
	}

	s.log.Debug("Rewrote event times", logger.Fields{"count": rewritten})
	return nil
}

// Events returns the immediate event children of list
func Events(list *goquery.Selection) *goquery.Selection {
	return list.ChildrenFiltered(EventTag)
}

// LabelFor names an event for log messages: the id of its first div, or its
// position in the list.
func LabelFor(li *goquery.Selection, index int) string {
	id, _ := li.Find("div").First().Attr("id")
	return event.Label(id, index)
}

// Summarize describes every immediate event of a rewritten list
func Summarize(list *goquery.Selection) ([]*event.Event, error) {
	events := make([]*event.Event, 0)
	var summaryErr error

	Events(list).EachWithBreak(func(i int, li *goquery.Selection) bool {
		var timestamp *int64
		if timeSel := li.Find(TimeTag).First(); timeSel.Length() > 0 {
			ms, err := event.ParseTimestamp(timeSel.Text())
			if err != nil {
				summaryErr = err
				return false
			}
			timestamp = &ms
		}

		title := collapseSpace(li.Find("h1, h2, h3, h4, h5, h6").First().Text())
		url, _ := li.Find("a[href]").First().Attr("href")

		events = append(events, event.NewEvent(
			i,
			LabelFor(li, i),
			title,
			url,
			timestamp,
			li.HasClass(filter.HiddenClass),
			imagery.Collect(li),
		))
		return true
	})

	if summaryErr != nil {
		return nil, summaryErr
	}
	return events, nil
}

// collapseSpace trims text and folds internal whitespace runs to one space
func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
