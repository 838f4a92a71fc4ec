// Package publish runs one meetup-sync pass: read the saved Meetup page,
// rewrite and filter its event list, splice it into the destination page and
// report the images the list references.
package publish

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/meetup-sync/internal/calendar"
	"github.com/pfrederiksen/meetup-sync/internal/event"
	"github.com/pfrederiksen/meetup-sync/internal/filter"
	"github.com/pfrederiksen/meetup-sync/internal/imagery"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
	"github.com/pfrederiksen/meetup-sync/internal/scraper"
	"github.com/pfrederiksen/meetup-sync/internal/storage"
)

// Status describes how a run ended
type Status string

const (
	StatusWritten Status = "written"
	StatusDryRun  Status = "dry_run"
	StatusAborted Status = "aborted"
)

// Metric names recorded for every run
const (
	MetricEventsTotal    = "events.total"
	MetricEventsVisible  = "events.visible"
	MetricEventsHidden   = "events.hidden"
	MetricImagesReported = "images.reported"
	MetricRunsAborted    = "runs.aborted"
	MetricRunDuration    = "run.duration"
)

// Options configures a single run
type Options struct {
	SourcePath string

	// DestinationPath is the page to splice into. Empty means dry run: the
	// list is printed instead.
	DestinationPath string

	HideFinishedEvents bool

	// VisiblePopulation caps visible events. Nil means unlimited.
	VisiblePopulation *int

	// CalendarPath, if set, receives an iCalendar feed of the events
	CalendarPath string
}

// Result summarizes a run
type Result struct {
	Status       Status         `json:"status"`
	Reason       string         `json:"reason,omitempty"`
	Source       string         `json:"source"`
	Destination  string         `json:"destination,omitempty"`
	Events       []*event.Event `json:"events"`
	Visible      int            `json:"visible"`
	Total        int            `json:"total"`
	Images       []string       `json:"images"`
	CalendarPath string         `json:"calendar_path,omitempty"`
}

// Publisher wires the pipeline stages together
type Publisher struct {
	log      *logger.Logger
	metrics  *logger.Metrics
	scraper  *scraper.Scraper
	storage  *storage.Storage
	reporter imagery.Reporter
	out      io.Writer
	now      func() time.Time
}

// New creates a Publisher that logs through log and prints dry-run output to out
func New(log *logger.Logger, out io.Writer) *Publisher {
	return &Publisher{
		log:      log,
		metrics:  logger.NewMetrics(),
		scraper:  scraper.New(log),
		storage:  storage.New(log),
		reporter: imagery.NewLogReporter(log),
		out:      out,
		now:      time.Now,
	}
}

// SetReporter replaces the image reporter
func (p *Publisher) SetReporter(r imagery.Reporter) {
	p.reporter = r
}

// Metrics returns the metrics recorded so far
func (p *Publisher) Metrics() *logger.Metrics {
	return p.metrics
}

// Run executes one pass. Missing elements in either page end the run with
// StatusAborted and a nil error; I/O failures and malformed times are returned.
func (p *Publisher) Run(opts Options) (*Result, error) {
	start := p.now()
	defer func() {
		p.metrics.RecordTiming(MetricRunDuration, p.now().Sub(start))
	}()

	result := &Result{
		Source:      opts.SourcePath,
		Destination: opts.DestinationPath,
		Events:      make([]*event.Event, 0),
		Images:      make([]string, 0),
	}

	list, err := p.scraper.ParseFile(opts.SourcePath)
	if err != nil {
		if errors.Is(err, scraper.ErrEventListNotFound) {
			p.log.Warn("Events could not be parsed", logger.Fields{"source": opts.SourcePath})
			return p.abort(result, err), nil
		}
		return nil, err
	}

	rules := filter.Options{
		HideFinishedEvents: opts.HideFinishedEvents,
		VisiblePopulation:  opts.VisiblePopulation,
	}
	p.log.Debug("Applying visibility rules", logger.Fields{"rules": rules.String()})

	f := filter.New(rules, p.log)
	f.SetClock(p.now)

	stats, err := f.Apply(list)
	if err != nil {
		return nil, err
	}
	result.Visible = stats.Visible
	result.Total = stats.Total

	events, err := scraper.Summarize(list)
	if err != nil {
		return nil, fmt.Errorf("summarizing events: %w", err)
	}
	result.Events = events

	if opts.DestinationPath == "" {
		if err := p.print(list); err != nil {
			return nil, err
		}
		result.Status = StatusDryRun
	} else {
		err := p.write(opts.DestinationPath, list)
		switch {
		case errors.Is(err, storage.ErrAnchorNotFound):
			return p.abort(result, err), nil
		case err != nil:
			return nil, err
		}
		result.Status = StatusWritten
	}

	if opts.CalendarPath != "" {
		if err := calendar.WriteFile(opts.CalendarPath, events); err != nil {
			return nil, err
		}
		result.CalendarPath = opts.CalendarPath
		p.log.Info("Calendar has been written", logger.Fields{
			"path":   opts.CalendarPath,
			"events": calendar.Count(events),
		})
	}

	if err := p.report(list, result); err != nil {
		return nil, err
	}

	p.metrics.AddCounter(MetricEventsTotal, int64(stats.Total))
	p.metrics.AddCounter(MetricEventsVisible, int64(stats.Visible))
	p.metrics.AddCounter(MetricEventsHidden, int64(stats.Total-stats.Visible))

	return result, nil
}

// print writes the pretty-printed list to the output writer
func (p *Publisher) print(list *goquery.Selection) error {
	rendered, err := storage.Prettify(list)
	if err != nil {
		return fmt.Errorf("rendering events: %w", err)
	}
	if _, err := io.WriteString(p.out, rendered); err != nil {
		return fmt.Errorf("printing events: %w", err)
	}
	return nil
}

// write splices list into the destination page and saves it. Nothing is
// written when the page has no anchor.
func (p *Publisher) write(path string, list *goquery.Selection) error {
	doc, err := p.storage.Load(path)
	if err != nil {
		return err
	}

	if err := storage.Splice(doc, list); err != nil {
		p.log.Error("Element could not be found", logger.Fields{
			"id":          storage.DestinationID,
			"destination": path,
		}, err)
		return err
	}

	if err := p.storage.Save(path, doc); err != nil {
		return err
	}

	p.log.Info("Events have been written", logger.Fields{"path": path})
	return nil
}

// report hands every image source of list to the reporter
func (p *Publisher) report(list *goquery.Selection, result *Result) error {
	if missing := imagery.CountMissing(list); missing > 0 {
		p.log.Warn("Skipping images without a source", logger.Fields{"count": missing})
	}

	images := imagery.Collect(list)
	if err := p.reporter.Report(images); err != nil {
		return fmt.Errorf("reporting images: %w", err)
	}

	result.Images = images
	p.metrics.AddCounter(MetricImagesReported, int64(len(images)))
	return nil
}

func (p *Publisher) abort(result *Result, reason error) *Result {
	result.Status = StatusAborted
	result.Reason = reason.Error()
	p.metrics.IncrCounter(MetricRunsAborted)
	return result
}
