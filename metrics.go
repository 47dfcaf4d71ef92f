package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	if registerer == nil {
		return nil, nil
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbar_client",
		Name:      "requests_total",
		Help:      "Rollbar API requests by operation and outcome.",
	}, []string{"op", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rollbar_client",
		Name:      "request_duration_seconds",
		Help:      "Latency of Rollbar API requests by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	var err error
	if requests, err = registerOrReuse(registerer, requests); err != nil {
		return nil, err
	}

	if duration, err = registerOrReuse(registerer, duration); err != nil {
		return nil, err
	}

	return &metrics{requests: requests, duration: duration}, nil
}

// registerOrReuse lets several clients share one registry.
func registerOrReuse[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return collector, err
}

func (m *metrics) observe(op string, started time.Time, err error) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(op, kindName(err)).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}
