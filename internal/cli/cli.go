package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/meetup-sync/internal/config"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
	"github.com/pfrederiksen/meetup-sync/internal/publish"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is reported by --version
var Version = "dev"

type options struct {
	configPath         string
	source             string
	destination        string
	visiblePopulation  int
	hideFinishedEvents bool
	calendar           string
	logLevel           string
	logFormat          string
	summary            string
	verbose            bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "meetup-sync",
		Short: "Copy a Meetup event listing into a static page",
		Long: `A CLI tool that extracts the event list from a saved Meetup group page,
rewrites event times as millisecond timestamps, hides events past the visible
population and splices the list into a destination HTML page.

Every image the list references is logged as a line starting with 🖼 so a
follow-up step can copy the files.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, opts)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&opts.source, "source", "", "Saved Meetup page to read (required)")
	cmd.Flags().StringVar(&opts.destination, "destination", "", "HTML page to splice events into; empty prints the list")
	cmd.Flags().IntVar(&opts.visiblePopulation, "visible-population", config.DefaultVisiblePopulation, "Events shown before 'show more'; negative means unlimited (older versions hid every event)")
	cmd.Flags().BoolVar(&opts.hideFinishedEvents, "hide-finished-events", false, "Hide events that already started")
	cmd.Flags().StringVar(&opts.calendar, "ics", "", "Also write an iCalendar feed to this path")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "Print a run summary to stderr: text or json")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// resolveConfig layers explicitly set flags over the file and environment
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Resolve(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = opts.source
	}
	if flags.Changed("destination") {
		cfg.Destination = opts.destination
	}
	if flags.Changed("visible-population") {
		population := opts.visiblePopulation
		cfg.VisiblePopulation = &population
	}
	if flags.Changed("hide-finished-events") {
		cfg.HideFinishedEvents = opts.hideFinishedEvents
	}
	if flags.Changed("ics") {
		cfg.Calendar = opts.calendar
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if opts.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}

	cfg.Normalize()
	return cfg, nil
}

// runSync is the main command logic
func runSync(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Source) == "" {
		return fmt.Errorf("--source is required (or set source in the config file or %s)", config.EnvSource)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logFormat, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}

	var summary OutputFormat
	if opts.summary != "" {
		summary = OutputFormat(strings.ToLower(opts.summary))
		if summary != FormatText && summary != FormatJSON {
			return fmt.Errorf("invalid summary format: %s (must be 'text' or 'json')", opts.summary)
		}
	}

	log := logger.New(level, logFormat, cmd.ErrOrStderr())
	log.Debug("Resolved configuration", logger.Fields{
		"source":      cfg.Source,
		"destination": cfg.Destination,
		"ics":         cfg.Calendar,
		"config":      opts.configPath,
	})

	p := publish.New(log, cmd.OutOrStdout())
	result, err := p.Run(publish.Options{
		SourcePath:         cfg.Source,
		DestinationPath:    cfg.Destination,
		HideFinishedEvents: cfg.HideFinishedEvents,
		VisiblePopulation:  cfg.VisiblePopulation,
		CalendarPath:       cfg.Calendar,
	})
	if err != nil {
		return err
	}

	if summary == "" {
		return nil
	}

	out := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Result:    result,
		Metrics:   p.Metrics().Snapshot(),
	}
	if err := WriteOutput(cmd.ErrOrStderr(), out, summary, opts.verbose); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
