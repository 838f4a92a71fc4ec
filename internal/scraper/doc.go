// Package scraper extracts the event list from a saved Meetup group page.
//
// Meetup's markup gives the event list itself no stable identifier, but the
// first event inside it always carries div#e-1. The scraper finds that marker,
// walks up to the nearest ul, and rewrites every time element in the list from
// Meetup's human-readable form ("Sat, Nov 11, 2023, 4:00 PM UTC+11") to a
// millisecond Unix timestamp that the destination page localises in the
// browser.
package scraper
