package storage

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// DestinationID identifies the event list in the destination document
const DestinationID = "eventList"

// ErrAnchorNotFound is returned when the destination has no ul#eventList
var ErrAnchorNotFound = errors.New("destination anchor not found")

// FindAnchor returns the destination's event list element
func FindAnchor(doc *goquery.Document) *goquery.Selection {
	return doc.Find("ul").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		id, ok := sel.Attr("id")
		return ok && id == DestinationID
	}).First()
}

// Splice replaces the destination's event list with list. The list is given
// the destination id and its nodes move into doc.
func Splice(doc *goquery.Document, list *goquery.Selection) error {
	anchor := FindAnchor(doc)
	if anchor.Length() == 0 {
		return fmt.Errorf("%w: no ul#%s", ErrAnchorNotFound, DestinationID)
	}

	// Keep the id so the next run can find the list again
	list.SetAttr("id", DestinationID)
	anchor.ReplaceWithSelection(list)
	return nil
}
