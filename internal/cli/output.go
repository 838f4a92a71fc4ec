package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/meetup-sync/internal/logger"
	"github.com/pfrederiksen/meetup-sync/internal/publish"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains the run summary to be output
type OutputResult struct {
	CheckedAt time.Time `json:"checked_at"`
	*publish.Result
	Metrics logger.Snapshot `json:"metrics"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "Status: %s\n", result.Status)
	if result.Reason != "" {
		fmt.Fprintf(w, "Reason: %s\n", result.Reason)
	}
	fmt.Fprintf(w, "Source: %s\n", result.Source)
	if result.Destination != "" {
		fmt.Fprintf(w, "Destination: %s\n", result.Destination)
	}

	if len(result.Events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	fmt.Fprintln(w)
	for _, evt := range result.Events {
		state := "SHOWN"
		if evt.Hidden {
			state = "HIDDEN"
		}
		when := "no time"
		if evt.StartsAt != nil {
			when = evt.StartsAt.Format("Mon, Jan 2, 2006 15:04 MST")
		}
		fmt.Fprintf(w, "  %-6s %s (%s)\n", state, evt.DisplayName(), when)

		if verbose {
			fmt.Fprintf(w, "         ID: %s\n", evt.ID)
			fmt.Fprintf(w, "         Label: %s\n", evt.Label)
			if evt.URL != "" {
				fmt.Fprintf(w, "         URL: %s\n", evt.URL)
			}
			for _, src := range evt.Images {
				fmt.Fprintf(w, "         Image: %s\n", src)
			}
		}
	}

	fmt.Fprintf(w, "\nVisible: %d / %d events\n", result.Visible, result.Total)
	fmt.Fprintf(w, "Images: %d\n", len(result.Images))
	if result.CalendarPath != "" {
		fmt.Fprintf(w, "Calendar: %s\n", result.CalendarPath)
	}
	if timing, ok := result.Metrics.Timings[publish.MetricRunDuration]; ok && verbose {
		fmt.Fprintf(w, "Duration: %s\n", timing.Total)
	}

	return nil
}
