package main

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// proberFunc adapts a function to the Prober interface for tests.
type proberFunc func(address string) (ProbeResult, error)

func (f proberFunc) Probe(address string) (ProbeResult, error) { return f(address) }

func testConfig(threshold int) Config {
	var c Config
	applyConfigDefaults(&c)
	c.Ping.FailureThreshold = threshold
	return c
}

func reachableResult(h Host) cycleResult {
	return cycleResult{host: h, result: ProbeResult{Address: h.Address, Reachable: true}}
}

func unreachableResult(h Host) cycleResult {
	return cycleResult{host: h, result: ProbeResult{Address: h.Address}}
}

func TestFailureCountingAndReset(t *testing.T) {
	h := Host{Name: "A", Address: "10.0.0.1"}
	m := NewMonitor(testConfig(100), []Host{h}, nil, nil)

	for i := 1; i <= 5; i++ {
		m.applyResults([]cycleResult{unreachableResult(h)})
		if got := m.failures[h.Address]; got != i {
			t.Fatalf("after %d unreachable cycles: failures = %d, want %d", i, got, i)
		}
	}

	m.applyResults([]cycleResult{reachableResult(h)})
	if got := m.failures[h.Address]; got != 0 {
		t.Fatalf("after recovery: failures = %d, want 0", got)
	}
}

func TestThresholdIsInclusive(t *testing.T) {
	h := Host{Name: "A", Address: "10.0.0.1"}
	m := NewMonitor(testConfig(3), []Host{h}, nil, nil)

	for cycle := 1; cycle <= 2; cycle++ {
		entries := m.applyResults([]cycleResult{unreachableResult(h)})
		if len(entries) != 0 {
			t.Fatalf("cycle %d (below threshold): got %d alert entries, want 0", cycle, len(entries))
		}
	}

	entries := m.applyResults([]cycleResult{unreachableResult(h)})
	if len(entries) != 1 {
		t.Fatalf("cycle 3 (at threshold): got %d alert entries, want 1", len(entries))
	}
	if entries[0].FailureCount != 3 {
		t.Fatalf("alert entry failure count = %d, want 3", entries[0].FailureCount)
	}
}

func TestAlertRepeatsWhileDown(t *testing.T) {
	h := Host{Name: "A", Address: "10.0.0.1"}
	m := NewMonitor(testConfig(2), []Host{h}, nil, nil)

	wantCounts := []int{0, 1, 1, 1}
	wantFailures := []int{1, 2, 3, 4}
	for cycle, want := range wantCounts {
		entries := m.applyResults([]cycleResult{unreachableResult(h)})
		if len(entries) != want {
			t.Fatalf("cycle %d: got %d alert entries, want %d", cycle+1, len(entries), want)
		}
		if want == 1 && entries[0].FailureCount != wantFailures[cycle] {
			t.Fatalf("cycle %d: failure count = %d, want %d", cycle+1, entries[0].FailureCount, wantFailures[cycle])
		}
	}
}

func TestTwoHostScenario(t *testing.T) {
	a := Host{Name: "A", Address: "10.0.0.1"}
	b := Host{Name: "B", Address: "10.0.0.2"}
	m := NewMonitor(testConfig(2), []Host{a, b}, nil, nil)

	// Cycle 1: A unreachable, B reachable.
	entries := m.applyResults([]cycleResult{unreachableResult(a), reachableResult(b)})
	if m.failures[a.Address] != 1 || m.failures[b.Address] != 0 {
		t.Fatalf("cycle 1 counts = {A:%d,B:%d}, want {A:1,B:0}", m.failures[a.Address], m.failures[b.Address])
	}
	if len(entries) != 0 {
		t.Fatalf("cycle 1: got %d alert entries, want 0", len(entries))
	}

	// Cycle 2: both unreachable.
	entries = m.applyResults([]cycleResult{unreachableResult(a), unreachableResult(b)})
	if m.failures[a.Address] != 2 || m.failures[b.Address] != 1 {
		t.Fatalf("cycle 2 counts = {A:%d,B:%d}, want {A:2,B:1}", m.failures[a.Address], m.failures[b.Address])
	}
	if len(entries) != 1 || entries[0].Address != a.Address {
		t.Fatalf("cycle 2 alert set = %v, want just A", entries)
	}

	// Cycle 3: A recovers, B still unreachable.
	entries = m.applyResults([]cycleResult{reachableResult(a), unreachableResult(b)})
	if m.failures[a.Address] != 0 || m.failures[b.Address] != 2 {
		t.Fatalf("cycle 3 counts = {A:%d,B:%d}, want {A:0,B:2}", m.failures[a.Address], m.failures[b.Address])
	}
	if len(entries) != 1 || entries[0].Address != b.Address {
		t.Fatalf("cycle 3 alert set = %v, want just B", entries)
	}
}

func TestProbeFaultLeavesCounterUntouched(t *testing.T) {
	h := Host{Name: "A", Address: "10.0.0.1"}
	m := NewMonitor(testConfig(2), []Host{h}, nil, nil)

	m.applyResults([]cycleResult{unreachableResult(h)})
	if m.failures[h.Address] != 1 {
		t.Fatalf("setup: failures = %d, want 1", m.failures[h.Address])
	}

	entries := m.applyResults([]cycleResult{{host: h, err: errors.New("resolver exploded")}})
	if m.failures[h.Address] != 1 {
		t.Fatalf("after fault: failures = %d, want unchanged 1", m.failures[h.Address])
	}
	if len(entries) != 0 {
		t.Fatalf("after fault: got %d alert entries, want 0", len(entries))
	}
}

func TestAlertEntriesFollowHostListOrder(t *testing.T) {
	hosts := []Host{
		{Name: "C", Address: "10.0.0.3"},
		{Name: "A", Address: "10.0.0.1"},
		{Name: "B", Address: "10.0.0.2"},
	}
	m := NewMonitor(testConfig(1), hosts, nil, nil)

	// Results arrive in completion order, not list order.
	results := []cycleResult{
		unreachableResult(hosts[2]),
		unreachableResult(hosts[0]),
		unreachableResult(hosts[1]),
	}
	entries := m.applyResults(results)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"C", "A", "B"} {
		if entries[i].Name != want {
			t.Fatalf("entry %d = %s, want %s (host-list order)", i, entries[i].Name, want)
		}
	}
}

func TestCycleRunnerConcurrencyCap(t *testing.T) {
	hosts := make([]Host, 200)
	for i := range hosts {
		hosts[i] = Host{Name: fmt.Sprintf("host-%d", i), Address: fmt.Sprintf("10.0.%d.%d", i/250, i%250)}
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0
	prober := proberFunc(func(address string) (ProbeResult, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return ProbeResult{Address: address, Reachable: true}, nil
	})

	m := NewMonitor(testConfig(3), hosts, prober, nil)
	results := m.runCycle()

	if len(results) != len(hosts) {
		t.Fatalf("got %d results, want %d (cycle must be atomic)", len(results), len(hosts))
	}
	if peak > maxConcurrentProbes {
		t.Fatalf("peak in-flight probes = %d, exceeds cap %d", peak, maxConcurrentProbes)
	}
	if peak == 0 {
		t.Fatal("instrumentation never observed an in-flight probe")
	}
}

func TestRunCycleSurvivesProberPanic(t *testing.T) {
	hosts := []Host{
		{Name: "A", Address: "10.0.0.1"},
		{Name: "B", Address: "10.0.0.2"},
	}
	prober := proberFunc(func(address string) (ProbeResult, error) {
		if address == "10.0.0.1" {
			panic("prober bug")
		}
		return ProbeResult{Address: address, Reachable: true}, nil
	})

	m := NewMonitor(testConfig(3), hosts, prober, nil)
	results := m.runCycle()

	// The panicking host contributes no result; the other host still does.
	if len(results) != 1 || results[0].host.Address != "10.0.0.2" {
		t.Fatalf("results = %v, want just 10.0.0.2", results)
	}
}

func TestStatusSnapshotReflectsLastCycle(t *testing.T) {
	a := Host{Name: "A", Address: "10.0.0.1"}
	b := Host{Name: "B", Address: "10.0.0.2"}
	m := NewMonitor(testConfig(1), []Host{a, b}, nil, nil)

	latency, ttl := 12, 64
	results := []cycleResult{
		{host: a, result: ProbeResult{Address: a.Address, Reachable: true, LatencyMs: &latency, TTL: &ttl}},
		unreachableResult(b),
	}
	entries := m.applyResults(results)
	m.updateStatus(time.Now(), 40*time.Millisecond, results, len(entries))

	status := m.Status()
	if status.Cycle != 1 {
		t.Fatalf("cycle counter = %d, want 1", status.Cycle)
	}
	if status.HostsAlerting != 1 {
		t.Fatalf("hosts alerting = %d, want 1", status.HostsAlerting)
	}
	if len(status.Hosts) != 2 {
		t.Fatalf("got %d host statuses, want 2", len(status.Hosts))
	}
	if !status.Hosts[0].Reachable || status.Hosts[0].LatencyMs == nil || *status.Hosts[0].LatencyMs != 12 {
		t.Fatalf("host A status = %+v, want reachable with latency 12", status.Hosts[0])
	}
	if status.Hosts[1].Reachable || status.Hosts[1].Failures != 1 {
		t.Fatalf("host B status = %+v, want unreachable with 1 failure", status.Hosts[1])
	}
}
