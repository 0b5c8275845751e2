package ports

// DomainMetrics records business events. Adapters back it with a metrics
// backend; NopMetrics is used when none is configured.
type DomainMetrics interface {
	// QuotesImported records a successful import of n quotes.
	QuotesImported(n int)

	// ImportRejected records an import that failed, labelled by domain error kind.
	ImportRejected(kind string)

	// DailyQuoteServed records a daily quote; reused is false when a new one was drawn.
	DailyQuoteServed(reused bool)

	// RemindersScheduled records n reminders accepted by the notifier.
	RemindersScheduled(n int)

	// ReminderDelivered records one delivery attempt through the named sink.
	ReminderDelivered(sink string, err error)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

// QuotesImported implements DomainMetrics.
func (NopMetrics) QuotesImported(int) {}

// ImportRejected implements DomainMetrics.
func (NopMetrics) ImportRejected(string) {}

// DailyQuoteServed implements DomainMetrics.
func (NopMetrics) DailyQuoteServed(bool) {}

// RemindersScheduled implements DomainMetrics.
func (NopMetrics) RemindersScheduled(int) {}

// ReminderDelivered implements DomainMetrics.
func (NopMetrics) ReminderDelivered(string, error) {}
