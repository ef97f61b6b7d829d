package apartmentsearch

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-leadform/pkg/intake"
)

const metricsNamespace = "leadform"

// Session outcomes counted by leadform_sessions_total.
const (
	outcomeCreated   = "created"
	outcomeSubmitted = "submitted"
	outcomeAbandoned = "abandoned"
	outcomeEvicted   = "evicted"
)

// Event results counted by leadform_events_total.
const (
	resultCommitted = "committed"
	resultFlagged   = "flagged"
	resultRejected  = "rejected"
	resultError     = "error"
)

// Metrics holds the component's collectors. A nil *Metrics records nothing.
type Metrics struct {
	sessions *prometheus.CounterVec
	events   *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. live reports the number of
// sessions currently held by the store.
func NewMetrics(reg prometheus.Registerer, live func() int) *Metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "active_sessions",
		Help:      "Number of live intake sessions.",
	}, func() float64 {
		if live == nil {
			return 0
		}
		return float64(live())
	})

	return &Metrics{
		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_total",
			Help:      "Intake sessions by lifecycle outcome.",
		}, []string{"outcome"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Input events by field and result.",
		}, []string{"field", "result"}),
		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) session(outcome string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) event(field intake.Field, out intake.Outcome, err error) {
	if m == nil {
		return
	}
	label := string(field)
	if !knownField(field) {
		label = "unknown"
	}
	m.events.WithLabelValues(label, eventResult(out, err)).Inc()
}

func (m *Metrics) request(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

func eventResult(out intake.Outcome, err error) string {
	switch {
	case err != nil:
		return resultError
	case !out.Committed:
		return resultRejected
	case !out.Result.Valid:
		return resultFlagged
	default:
		return resultCommitted
	}
}

// knownField keeps label cardinality bounded to the form's fields.
func knownField(f intake.Field) bool {
	for _, known := range intake.Fields() {
		if f == known {
			return true
		}
	}
	return false
}
