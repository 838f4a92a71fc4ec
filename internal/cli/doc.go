// Package cli implements the command-line interface for meetup-sync.
//
// The cli package provides the Cobra-based root command. It resolves settings
// from the config file, the environment and flags, runs one publish pass and
// optionally prints a run summary (text/JSON) to stderr.
package cli
