// Package domain holds the quote, reminder and clock types shared by every
// layer, and the errors they fail with. Adapters decide how each error kind
// is rendered; nothing here knows about HTTP or D-Bus.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is or the Is helpers below.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")

	// ErrParse marks a highlights export that could not be interpreted.
	ErrParse = errors.New("parse failed")

	// ErrStore marks the absence of any usable quote collection.
	ErrStore = errors.New("quote store failed")

	ErrSelection = errors.New("daily selection failed")
	ErrScheduler = errors.New("scheduling failed")
)

// NotFoundError names the missing entity, such as a quote or reminder.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError rejects one input field. Value, when set, is the offending
// input as given.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError reports a collaborator that cannot be reached: the key
// value store, the desktop notifier or a webhook receiver.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	msg := e.Service + " unavailable"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// ParseError describes why a highlights export was rejected.
// Record is the 1-based ordinal of the offending highlight; 0 means the
// input as a whole.
type ParseError struct {
	Record int
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Record == 0 {
		return "parse highlights: " + e.Reason
	}

	if e.Field != "" {
		return fmt.Sprintf("parse highlight %d: %s: %s", e.Record, e.Field, e.Reason)
	}

	return fmt.Sprintf("parse highlight %d: %s", e.Record, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a parse error for the given record.
func NewParseError(record int, field, reason string) *ParseError {
	return &ParseError{Record: record, Field: field, Reason: reason}
}

// StoreError reports that no quote collection can be served.
type StoreError struct {
	Source string
	Reason string
	Cause  error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s quotes: %s", e.Source, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the sentinel and the underlying cause.
func (e *StoreError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStore}
	}

	return []error{ErrStore, e.Cause}
}

// NewStoreError creates a store error.
func NewStoreError(source, reason string, cause error) error {
	return &StoreError{Source: source, Reason: reason, Cause: cause}
}

// SelectionError reports that the daily quote could not be chosen.
type SelectionError struct {
	Attempts int
	Cause    error
}

func (e *SelectionError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("select daily quote after %d attempts: %v", e.Attempts, e.Cause)
	}

	return fmt.Sprintf("select daily quote: %v", e.Cause)
}

// Unwrap returns the sentinel and the underlying cause.
func (e *SelectionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSelection}
	}

	return []error{ErrSelection, e.Cause}
}

// NewSelectionError creates a selection error.
func NewSelectionError(attempts int, cause error) error {
	return &SelectionError{Attempts: attempts, Cause: cause}
}

// SchedulerError reports a rejected or partially scheduled reminder batch.
// Scheduled counts the reminders that were accepted before the failure; a
// precondition failure always has Scheduled == 0 and no Cause.
type SchedulerError struct {
	Reason    string
	Scheduled int
	Cause     error
}

func (e *SchedulerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schedule reminders: %s (%d scheduled): %v", e.Reason, e.Scheduled, e.Cause)
	}

	return "schedule reminders: " + e.Reason
}

// Unwrap returns the sentinel and the underlying cause.
func (e *SchedulerError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrScheduler}
	}

	return []error{ErrScheduler, e.Cause}
}

// Precondition reports whether the batch was rejected before anything changed.
func (e *SchedulerError) Precondition() bool {
	return e.Cause == nil
}

// NewSchedulerError creates a precondition scheduler error.
func NewSchedulerError(reason string) error {
	return &SchedulerError{Reason: reason}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
func IsParse(err error) bool       { return errors.Is(err, ErrParse) }
func IsStore(err error) bool       { return errors.Is(err, ErrStore) }
func IsSelection(err error) bool   { return errors.Is(err, ErrSelection) }
func IsScheduler(err error) bool   { return errors.Is(err, ErrScheduler) }
