package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/daily-quote/internal/ports"
)

const metricsNamespace = "daily_quote"

// DomainMetrics records quote and reminder events as Prometheus counters.
type DomainMetrics struct {
	quotesImported     prometheus.Counter
	importsTotal       *prometheus.CounterVec
	dailyQuotes        *prometheus.CounterVec
	remindersScheduled prometheus.Counter
	deliveries         *prometheus.CounterVec
}

var _ ports.DomainMetrics = (*DomainMetrics)(nil)

// NewDomainMetrics registers the domain counters with reg.
// A nil reg uses prometheus.DefaultRegisterer, which /-/metrics serves.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &DomainMetrics{
		quotesImported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "quotes",
			Name:      "imported_total",
			Help:      "Quotes written by successful imports.",
		}),
		// Labels: result (ok, parse, store)
		importsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "quotes",
			Name:      "imports_total",
			Help:      "Highlight import attempts by result.",
		}, []string{"result"}),
		// Labels: reused (true, false)
		dailyQuotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "selector",
			Name:      "daily_quotes_total",
			Help:      "Daily quotes served, split by whether the stored selection was reused.",
		}, []string{"reused"}),
		remindersScheduled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "reminders",
			Name:      "scheduled_total",
			Help:      "Reminders accepted by the notifier.",
		}),
		// Labels: sink, result (success, error)
		deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "reminders",
			Name:      "deliveries_total",
			Help:      "Reminder delivery attempts by sink and result.",
		}, []string{"sink", "result"}),
	}
}

// QuotesImported implements ports.DomainMetrics.
func (m *DomainMetrics) QuotesImported(n int) {
	m.importsTotal.WithLabelValues("ok").Inc()
	m.quotesImported.Add(float64(n))
}

// ImportRejected implements ports.DomainMetrics.
func (m *DomainMetrics) ImportRejected(kind string) {
	m.importsTotal.WithLabelValues(kind).Inc()
}

// DailyQuoteServed implements ports.DomainMetrics.
func (m *DomainMetrics) DailyQuoteServed(reused bool) {
	m.dailyQuotes.WithLabelValues(strconv.FormatBool(reused)).Inc()
}

// RemindersScheduled implements ports.DomainMetrics.
func (m *DomainMetrics) RemindersScheduled(n int) {
	if n <= 0 {
		return
	}

	m.remindersScheduled.Add(float64(n))
}

// ReminderDelivered implements ports.DomainMetrics.
func (m *DomainMetrics) ReminderDelivered(sink string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}

	m.deliveries.WithLabelValues(sink, result).Inc()
}
