// Package metrics exposes exchange statistics as Prometheus collectors.
package metrics

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/backkem/teleclient/pkg/exchange"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	defaultNamespace  = "teleclient"
	subsystemExchange = "exchange"
)

// Outcome labels of the exchanges counter.
const (
	OutcomeMatched     = "matched"
	OutcomeExhausted   = "exhausted"
	OutcomeCanceled    = "canceled"
	OutcomeResolveFail = "resolve_error"
	OutcomeEncodeFail  = "encode_error"
)

// ExchangeCollector counts exchanges, attempts and categorised failures.
// It implements exchange.Observer and is safe for concurrent use.
type ExchangeCollector struct {
	registry *prometheus.Registry

	exchanges  *prometheus.CounterVec
	attempts   prometheus.Counter
	failures   *prometheus.CounterVec
	responses  *prometheus.CounterVec
	duration   prometheus.Histogram
	perRequest prometheus.Histogram
}

// NewExchangeCollector creates a collector registered on its own registry.
// An empty namespace defaults to "teleclient".
func NewExchangeCollector(namespace string) *ExchangeCollector {
	if strings.TrimSpace(namespace) == "" {
		namespace = defaultNamespace
	}

	c := &ExchangeCollector{
		registry: prometheus.NewRegistry(),
		exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemExchange,
			Name:      "total",
			Help:      "Exchanges finished, by outcome.",
		}, []string{"outcome"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemExchange,
			Name:      "attempts_total",
			Help:      "Transmission attempts started.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemExchange,
			Name:      "attempt_failures_total",
			Help:      "Failed attempts, by failure kind.",
		}, []string{"kind"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemExchange,
			Name:      "responses_total",
			Help:      "Matched responses, by code class.",
		}, []string{"class"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemExchange,
			Name:      "duration_seconds",
			Help:      "Time from resolution to the final outcome.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
		}),
		perRequest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemExchange,
			Name:      "attempts",
			Help:      "Attempts used per exchange.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
	}

	c.registry.MustRegister(c.exchanges, c.attempts, c.failures, c.responses, c.duration, c.perRequest)
	return c
}

// Registry returns the prometheus registry managed by this collector.
func (c *ExchangeCollector) Registry() *prometheus.Registry {
	return c.registry
}

// AttemptStarted implements exchange.Observer.
func (c *ExchangeCollector) AttemptStarted(_ exchange.Config, _, _ int) {
	c.attempts.Inc()
}

// AttemptFailed implements exchange.Observer.
func (c *ExchangeCollector) AttemptFailed(_ exchange.Config, err *exchange.AttemptError) {
	c.failures.WithLabelValues(err.Kind.String()).Inc()
}

// ExchangeFinished implements exchange.Observer.
func (c *ExchangeCollector) ExchangeFinished(_ exchange.Config, res exchange.Result) {
	outcome := Outcome(res)
	c.exchanges.WithLabelValues(outcome).Inc()
	c.duration.Observe(res.Duration.Seconds())
	if res.Attempts > 0 {
		c.perRequest.Observe(float64(res.Attempts))
	}
	if outcome == OutcomeMatched {
		c.responses.WithLabelValues(codeClass(res)).Inc()
	}
}

// Outcome maps a result to its exchanges counter label.
func Outcome(res exchange.Result) string {
	switch {
	case res.State == exchange.StateMatched:
		return OutcomeMatched
	case errors.Is(res.Err, exchange.ErrCanceled):
		return OutcomeCanceled
	case res.State == exchange.StateExhausted:
		return OutcomeExhausted
	case res.State == exchange.StateResolving:
		return OutcomeResolveFail
	default:
		return OutcomeEncodeFail
	}
}

func codeClass(res exchange.Result) string {
	return strconv.Itoa(int(res.Code.Class()))
}

// WriteText writes the Prometheus text exposition of every collected
// metric family to w.
func (c *ExchangeCollector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

var _ exchange.Observer = (*ExchangeCollector)(nil)
