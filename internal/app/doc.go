// Package app holds the use cases of the quote service: the quote store with
// its highlights import, the daily selector and the reminder scheduler.
//
// Everything here talks to storage, parsing and notification through the
// interfaces in package ports, so the same services run against badger,
// SQLite or an in-memory store and against any reminder sink.
//
// Writes that touch more than one key go through Execute, which runs an
// Operation's perform, verify and archive steps in order and calls its
// Rollback when the archive step fails.
package app
