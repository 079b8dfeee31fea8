package main

import "time"

// Host is a single monitored target loaded from the host list. The address is
// the host's identity; duplicate addresses collapse to one failure counter.
type Host struct {
	Name    string
	Address string
}

// ProbeResult is the outcome of one reachability check. LatencyMs and TTL are
// nil when the probe produced no parseable diagnostics; that is normal, not an
// error.
type ProbeResult struct {
	Address   string
	Reachable bool
	LatencyMs *int
	TTL       *int
}

// AlertEntry is one row of the consolidated alert report: a host whose
// consecutive-failure count has reached the configured threshold.
type AlertEntry struct {
	Name         string
	Address      string
	FailureCount int
}

// HostStatus is the per-host view exposed by the status endpoint.
type HostStatus struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Failures  int    `json:"failures"`
	Reachable bool   `json:"reachable"`
	LatencyMs *int   `json:"latency_ms,omitempty"`
	TTL       *int   `json:"ttl,omitempty"`
}

// CycleStatus is the snapshot served by the status endpoint, refreshed by the
// control goroutine at the end of every cycle.
type CycleStatus struct {
	Cycle         int64        `json:"cycle"`
	StartedAt     time.Time    `json:"started_at"`
	DurationMs    int64        `json:"duration_ms"`
	HostsAlerting int          `json:"hosts_alerting"`
	Hosts         []HostStatus `json:"hosts"`
}
