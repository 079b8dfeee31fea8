package main

import (
	"log"
	"sort"
	"sync"
	"time"
)

// maxConcurrentProbes is a hard ceiling on in-flight probes per cycle,
// independent of host-list size, so a large fleet cannot exhaust sockets or
// file descriptors.
const maxConcurrentProbes = 50

// Monitor owns the monitoring state and drives the cycle loop: probe every
// host concurrently, fold the results into the per-address failure counters,
// dispatch a consolidated alert for everything at or above the threshold,
// sleep, repeat.
type Monitor struct {
	config    Config
	hosts     []Host
	hostOrder map[string]int
	prober    Prober
	sink      NotificationSink
	semaphore chan struct{}

	// failures maps address to its consecutive-failure count. It is touched
	// only by the control goroutine after a cycle's probes have joined, so it
	// needs no lock.
	failures map[string]int

	statusMu sync.RWMutex
	status   CycleStatus
}

// NewMonitor creates a Monitor with every known address seeded to zero
// failures.
func NewMonitor(config Config, hosts []Host, prober Prober, sink NotificationSink) *Monitor {
	failures := make(map[string]int, len(hosts))
	hostOrder := make(map[string]int, len(hosts))
	for i, h := range hosts {
		failures[h.Address] = 0
		if _, seen := hostOrder[h.Address]; !seen {
			hostOrder[h.Address] = i
		}
	}

	return &Monitor{
		config:    config,
		hosts:     hosts,
		hostOrder: hostOrder,
		prober:    prober,
		sink:      sink,
		semaphore: make(chan struct{}, maxConcurrentProbes),
		failures:  failures,
	}
}

// Start runs the scheduler loop forever. The loop has no terminal state; the
// process dies by signal, never by a host or channel failure.
func (m *Monitor) Start() {
	interval := m.config.Interval()
	for {
		log.Printf("🔄 Starting monitoring cycle at %s", time.Now().Format("2006-01-02 15:04:05"))
		m.runOnce()
		log.Printf("✅ Cycle complete, sleeping %v...", interval)
		time.Sleep(interval)
	}
}

// runOnce executes a single cycle end to end.
func (m *Monitor) runOnce() {
	start := time.Now()
	results := m.runCycle()
	entries := m.applyResults(results)
	dispatchAlerts(m.sink, entries, m.config.Channels(), m.config.NotifyTimeout())
	m.updateStatus(start, time.Since(start), results, len(entries))
	observeCycle(time.Since(start), len(entries))
}

// cycleResult pairs a host with its probe outcome. A non-nil err marks a
// probe fault, which is distinct from an unreachable host.
type cycleResult struct {
	host   Host
	result ProbeResult
	err    error
}

// runCycle fans one probe per host out across the worker pool and waits for
// all of them. A cycle is atomic: nothing downstream sees partial results.
func (m *Monitor) runCycle() []cycleResult {
	results := make([]cycleResult, 0, len(m.hosts))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, host := range m.hosts {
		wg.Add(1)
		go func(h Host) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("🆘 Recovered from panic probing %s: %v", formatHostInfo(h), r)
				}
			}()

			m.semaphore <- struct{}{}
			defer func() { <-m.semaphore }()

			result, err := m.prober.Probe(h.Address)

			mu.Lock()
			results = append(results, cycleResult{host: h, result: result, err: err})
			mu.Unlock()
		}(host)
	}

	wg.Wait()
	return results
}

// applyResults folds one cycle's results into the failure counters and
// returns an alert entry for every host at or above the threshold, in
// host-list order. The threshold is inclusive and re-asserted every cycle a
// host stays down; recovery resets the counter immediately. Faulted probes
// are logged and leave their counter untouched.
func (m *Monitor) applyResults(results []cycleResult) []AlertEntry {
	threshold := m.config.Ping.FailureThreshold

	entries := make([]AlertEntry, 0)
	for _, r := range results {
		if r.err != nil {
			log.Printf("❌ Error probing %s: %v", formatHostInfo(r.host), r.err)
			observeProbe(probeError)
			continue
		}

		if r.result.Reachable {
			m.failures[r.host.Address] = 0
			log.Printf("🟢 %s reachable - latency: %sms, TTL: %s",
				formatHostInfo(r.host), latencyLabel(r.result.LatencyMs), latencyLabel(r.result.TTL))
			observeProbe(probeReachable)
			continue
		}

		m.failures[r.host.Address]++
		count := m.failures[r.host.Address]
		observeProbe(probeUnreachable)
		if count >= threshold {
			log.Printf("🔴 %s unreachable (failure count: %d)", formatHostInfo(r.host), count)
			entries = append(entries, AlertEntry{Name: r.host.Name, Address: r.host.Address, FailureCount: count})
		} else {
			log.Printf("🟡 %s unreachable (failure count: %d, below threshold)", formatHostInfo(r.host), count)
		}
	}

	sortByHostOrder(entries, m.hostOrder)
	return entries
}

// sortByHostOrder arranges alert entries in the order their addresses appear
// in the host list, keeping the report stable across cycles.
func sortByHostOrder(entries []AlertEntry, order map[string]int) {
	sort.SliceStable(entries, func(i, j int) bool {
		return order[entries[i].Address] < order[entries[j].Address]
	})
}

// updateStatus refreshes the snapshot served by the status endpoint.
func (m *Monitor) updateStatus(start time.Time, duration time.Duration, results []cycleResult, alerting int) {
	byAddress := make(map[string]cycleResult, len(results))
	for _, r := range results {
		byAddress[r.host.Address] = r
	}

	hosts := make([]HostStatus, 0, len(m.hosts))
	for _, h := range m.hosts {
		hs := HostStatus{Name: h.Name, Address: h.Address, Failures: m.failures[h.Address]}
		if r, ok := byAddress[h.Address]; ok && r.err == nil {
			hs.Reachable = r.result.Reachable
			hs.LatencyMs = r.result.LatencyMs
			hs.TTL = r.result.TTL
		}
		hosts = append(hosts, hs)
	}

	m.statusMu.Lock()
	m.status = CycleStatus{
		Cycle:         m.status.Cycle + 1,
		StartedAt:     start,
		DurationMs:    duration.Milliseconds(),
		HostsAlerting: alerting,
		Hosts:         hosts,
	}
	m.statusMu.Unlock()
}

// Status returns the last cycle's snapshot.
func (m *Monitor) Status() CycleStatus {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}
