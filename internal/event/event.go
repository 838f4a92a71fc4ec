package event

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// Event summarises one event of the extracted list after filtering
type Event struct {
	ID        string    `json:"id"`
	Index     int       `json:"index"`
	Label     string    `json:"label"` // id of the event's first div, or "element N"
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp *int64    `json:"timestamp_ms,omitempty"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	Hidden    bool      `json:"hidden"`
	Images    []string  `json:"images,omitempty"`
}

// GenerateID creates a deterministic ID for an event based on stable fields
func GenerateID(label, title string) string {
	h := sha1.New()
	h.Write([]byte(label + "|" + title))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Label returns the name used for an event in log messages: the id of its
// first div when it has one, otherwise its position in the list.
func Label(divID string, index int) string {
	if divID != "" {
		return divID
	}
	return fmt.Sprintf("element %d", index)
}

// NewEvent creates a new Event with ID populated. A nil timestamp means the
// event had no time element.
func NewEvent(index int, label, title, url string, timestamp *int64, hidden bool, images []string) *Event {
	evt := &Event{
		ID:        GenerateID(label, title),
		Index:     index,
		Label:     label,
		Title:     title,
		URL:       url,
		Timestamp: timestamp,
		Hidden:    hidden,
		Images:    images,
	}
	if timestamp != nil {
		startsAt := time.UnixMilli(*timestamp).UTC()
		evt.StartsAt = &startsAt
	}
	return evt
}

// DisplayName returns the title, falling back to the label
func (e *Event) DisplayName() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Label
}
