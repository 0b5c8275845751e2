// Package notify holds the local reminder queue and the sinks that show a
// reminder once it is due.
//
// LocalScheduler implements ports.Notifier. It keeps pending reminders in
// memory with one timer each and hands every due reminder to a
// ports.ReminderSink:
//
//   - [LogSink] writes the reminder to the structured log
//   - [DBusSink] raises a freedesktop desktop notification
//
// The webhook sink lives with the other HTTP integrations in adapters/clients/acl.
package notify
