package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Label values for probe and notification outcomes.
const (
	outcomeSuccess = "success"
	outcomeError   = "error"

	probeReachable   = "reachable"
	probeUnreachable = "unreachable"
	probeError       = "error"
)

var (
	cyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reach_monitor",
			Name:      "cycles_total",
			Help:      "Total number of completed monitoring cycles.",
		},
	)

	probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reach_monitor",
			Name:      "probes_total",
			Help:      "Total probes issued, partitioned by result.",
		},
		[]string{"result"},
	)

	hostsAlerting = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "reach_monitor",
			Name:      "hosts_alerting",
			Help:      "Hosts at or above the failure threshold after the last cycle.",
		},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reach_monitor",
			Name:      "notifications_total",
			Help:      "Alert dispatches, partitioned by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	cycleSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reach_monitor",
			Name:      "cycle_seconds",
			Help:      "Monitoring cycle duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
)

// registerMetrics attaches the monitor's collectors to the supplied
// Prometheus registerer.
func registerMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		cyclesTotal,
		probesTotal,
		hostsAlerting,
		notificationsTotal,
		cycleSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// observeCycle records a finished cycle and the size of its alert set.
func observeCycle(duration time.Duration, alerting int) {
	cyclesTotal.Inc()
	if duration < 0 {
		duration = 0
	}
	cycleSeconds.Observe(duration.Seconds())
	hostsAlerting.Set(float64(alerting))
}

// observeProbe records one probe outcome.
func observeProbe(result string) {
	probesTotal.WithLabelValues(result).Inc()
}

// observeNotification records one channel dispatch outcome.
func observeNotification(channel, outcome string) {
	notificationsTotal.WithLabelValues(channel, outcome).Inc()
}
