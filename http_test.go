package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandleStatus(t *testing.T) {
	h := Host{Name: "A", Address: "10.0.0.1"}
	m := NewMonitor(testConfig(1), []Host{h}, nil, nil)

	results := []cycleResult{unreachableResult(h)}
	entries := m.applyResults(results)
	m.updateStatus(time.Now(), 25*time.Millisecond, results, len(entries))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	m.handleStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q, want application/json", ct)
	}

	var status CycleStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if status.Cycle != 1 || status.HostsAlerting != 1 {
		t.Fatalf("status = %+v, want cycle 1 with one alerting host", status)
	}
	if len(status.Hosts) != 1 || status.Hosts[0].Failures != 1 {
		t.Fatalf("hosts = %+v, want A with one failure", status.Hosts)
	}
}

func TestHandleStatusRejectsNonGet(t *testing.T) {
	m := NewMonitor(testConfig(1), nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/status", nil)
	rec := httptest.NewRecorder()
	m.handleStatus(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status code = %d, want 405", rec.Code)
	}
}

func TestHandleHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}
