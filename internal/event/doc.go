// Package event provides types and functions for Meetup event times and summaries.
//
// The event package parses the human-readable times Meetup prints next to each
// event ("Sat, Nov 11, 2023, 4:00 PM UTC+11") into absolute instants, reads back
// the millisecond timestamps those times are rewritten to, and describes each
// extracted event with a deterministic SHA1-based ID so it can be reported and
// exported across runs.
package event
