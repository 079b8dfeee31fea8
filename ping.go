package main

import (
	"fmt"
	"math"
	"time"

	"github.com/go-ping/ping"
)

// Prober issues a single reachability check against one address. The error
// return is reserved for probe faults (pinger construction or run failures);
// an unreachable host is a successful probe with Reachable false.
type Prober interface {
	Probe(address string) (ProbeResult, error)
}

// icmpProber probes with ICMP echo requests via the go-ping library, in
// unprivileged UDP mode so the monitor runs without raw-socket capabilities.
type icmpProber struct {
	count   int
	timeout time.Duration
}

func newICMPProber(count int, timeout time.Duration) *icmpProber {
	return &icmpProber{count: count, timeout: timeout}
}

// Probe sends the configured number of echo requests and reports the host
// reachable iff at least one reply arrived. On success the mean round-trip
// time (rounded to whole milliseconds) and the TTL of the last reply are
// attached; either may be absent and absence is not an error.
func (p *icmpProber) Probe(address string) (ProbeResult, error) {
	result := ProbeResult{Address: address}

	pinger, err := ping.NewPinger(address)
	if err != nil {
		return result, fmt.Errorf("failed to create pinger for %s: %w", address, err)
	}

	pinger.Count = p.count
	pinger.Timeout = p.timeout * time.Duration(p.count)
	pinger.SetPrivileged(false)

	var lastTTL int
	var sawTTL bool
	pinger.OnRecv = func(pkt *ping.Packet) {
		lastTTL = pkt.Ttl
		sawTTL = true
	}

	// Run blocks until all replies arrive or the timeout lapses; OnRecv is
	// not called after it returns.
	if err := pinger.Run(); err != nil {
		return result, fmt.Errorf("failed to ping %s: %w", address, err)
	}

	stats := pinger.Statistics()
	result.Reachable = stats.PacketsRecv > 0
	if result.Reachable {
		if ms, ok := meanLatencyMs(stats.AvgRtt); ok {
			result.LatencyMs = &ms
		}
		if sawTTL {
			ttl := lastTTL
			result.TTL = &ttl
		}
	}
	return result, nil
}

// meanLatencyMs converts an average round-trip time to whole milliseconds,
// rounding to nearest. A non-positive RTT means the library had nothing to
// average, so the latency is reported as unknown.
func meanLatencyMs(avg time.Duration) (int, bool) {
	if avg <= 0 {
		return 0, false
	}
	return int(math.Round(float64(avg) / float64(time.Millisecond))), true
}

// latencyLabel renders an optional diagnostic value for log output.
func latencyLabel(v *int) string {
	if v == nil {
		return "unknown"
	}
	return fmt.Sprintf("%d", *v)
}
