package imagery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
)

// Sentinel prefixes every image line. Downstream scripts split on it, so it
// must stay glued to the path.
const Sentinel = "🖼"

// Reporter defines the interface for publishing image references
type Reporter interface {
	// Report publishes the given image sources
	Report(sources []string) error
}

// Collect returns the src of every img element inside sel, at any depth, in
// document order. Images without a src are skipped.
func Collect(sel *goquery.Selection) []string {
	sources := make([]string, 0)
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			sources = append(sources, src)
		}
	})
	return sources
}

// Line formats a single sentinel-prefixed image line
func Line(src string) string {
	return Sentinel + src
}

// LogReporter writes one INFO log line per image
type LogReporter struct {
	log *logger.Logger
}

// NewLogReporter creates a reporter that logs through log
func NewLogReporter(log *logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

// Report logs each source as "🖼<src>"
func (r *LogReporter) Report(sources []string) error {
	for _, src := range sources {
		r.log.Info(Line(src), nil)
	}
	return nil
}

// CountMissing returns how many img elements inside sel have no usable src
func CountMissing(sel *goquery.Selection) int {
	missing := 0
	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); !ok || src == "" {
			missing++
		}
	})
	return missing
}
