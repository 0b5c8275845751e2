// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
)

// AnnotationHighlight tags quotes derived from e-reader highlights.
const AnnotationHighlight = "highlight"

// Quote is a validated passage from the user's highlights library.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is stable across re-imports of the same highlight.
	ID string `json:"id"`

	// Content is the highlighted passage.
	Content string `json:"content"`

	// BookTitle is the title of the book the passage came from.
	BookTitle string `json:"bookTitle"`

	// BookAuthor is the author of the book.
	BookAuthor string `json:"bookAuthor"`

	// Location is the device location range, e.g. "100-105".
	Location string `json:"location"`

	// Page is the printed page number when the device reported one.
	Page *int `json:"page,omitempty"`

	// CreatedAt is when the highlight was made on the device.
	CreatedAt time.Time `json:"createdAt"`

	// AnnotationType distinguishes highlight-derived quotes from other sources.
	AnnotationType string `json:"annotationType"`
}

// Validate checks the invariants every stored quote must satisfy.
func (q *Quote) Validate() error {
	switch {
	case strings.TrimSpace(q.ID) == "":
		return NewValidationError("id", "cannot be empty")
	case strings.TrimSpace(q.Content) == "":
		return NewValidationError("content", "cannot be empty")
	case strings.TrimSpace(q.BookTitle) == "":
		return NewValidationError("bookTitle", "cannot be empty")
	case strings.TrimSpace(q.BookAuthor) == "":
		return NewValidationError("bookAuthor", "cannot be empty")
	case q.CreatedAt.IsZero():
		return NewValidationError("createdAt", "must be a valid time")
	}

	return nil
}

// DailySelection records which quote was chosen for a calendar day.
type DailySelection struct {
	// Date is the local calendar day in YYYY-MM-DD form.
	Date string

	// Index points into the quote collection that was current when chosen.
	Index int
}

// Reminder is a single local notification to be delivered at FireAt.
type Reminder struct {
	FireAt  time.Time `json:"fireAt"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	QuoteID string    `json:"quoteId"`
}

// ScheduledReminder is a Reminder that the notifier has accepted.
type ScheduledReminder struct {
	// ID is assigned by the notifier and is opaque to the application.
	ID string `json:"id"`

	Reminder
}
