package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Report column headers.
const (
	headerName     = "Host"
	headerAddress  = "Address"
	headerFailures = "Failures"
)

// buildAlertReport renders the consolidated alert as a plain-text table.
// Column widths grow with the widest value so nothing is ever truncated; the
// failure count column is centered under its header.
func buildAlertReport(entries []AlertEntry, now time.Time) string {
	nameWidth := len(headerName)
	addrWidth := len(headerAddress)
	countWidth := len(headerFailures)
	for _, e := range entries {
		if len(e.Name) > nameWidth {
			nameWidth = len(e.Name)
		}
		if len(e.Address) > addrWidth {
			addrWidth = len(e.Address)
		}
		if w := len(fmt.Sprintf("%d", e.FailureCount)); w > countWidth {
			countWidth = w
		}
	}

	rule := strings.Repeat("-", nameWidth+addrWidth+countWidth+4)

	var b strings.Builder
	b.WriteString("The monitor detected unreachable hosts, please investigate:\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "%-*s  %-*s  %s\n", nameWidth, headerName, addrWidth, headerAddress, center(headerFailures, countWidth))
	b.WriteString(rule + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-*s  %-*s  %s\n", nameWidth, e.Name, addrWidth, e.Address, center(fmt.Sprintf("%d", e.FailureCount), countWidth))
	}
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Alert time: %s", now.Format("2006-01-02 15:04:05"))
	return b.String()
}

// center pads s with spaces to width, favoring the right side on odd padding.
func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}

// dispatchAlerts sends one formatted report to every enabled channel. It is a
// no-op when there is nothing to report. Channel dispatches are independent:
// a failing sink is logged and the remaining channels still get the report.
// Alerting is best-effort and must never take down the monitoring loop.
func dispatchAlerts(sink NotificationSink, entries []AlertEntry, channels []string, timeout time.Duration) {
	if len(entries) == 0 {
		return
	}

	report := buildAlertReport(entries, time.Now())
	for _, channel := range channels {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := sink.Notify(ctx, channel, report)
		cancel()
		if err != nil {
			log.Printf("⚠️  Alert dispatch to %s failed: %v", channel, err)
			observeNotification(channel, outcomeError)
			continue
		}
		log.Printf("📣 Alert pushed to %s", channel)
		observeNotification(channel, outcomeSuccess)
	}
}
