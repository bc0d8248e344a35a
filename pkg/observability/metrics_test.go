package observability_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/airwave-net/airwave/pkg/observability"
)

func TestNewCollector_RegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := observability.NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	c.ObserveRequest("GET", "/api/v1/wireless/wireless-lans", 200, 0.01)
	c.SetObjectCounts(3, 1, 2, 4)
	c.SetDanglingRefs(2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{
		"airwave_http_requests_total",
		"airwave_http_request_duration_seconds",
		"airwave_wireless_lans",
		"airwave_wireless_links",
		"airwave_vlans",
		"airwave_interfaces",
		"airwave_dangling_references",
	} {
		if !found[name] {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestNewCollector_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := observability.NewCollector(reg); err != nil {
		t.Fatalf("first collector: %v", err)
	}
	// Registering against the same registry reuses the existing collectors
	// instead of failing.
	c, err := observability.NewCollector(reg)
	if err != nil {
		t.Fatalf("second collector: %v", err)
	}
	c.ObserveRequest("GET", "/healthz", 200, 0.001)
}

func TestCollector_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := observability.NewCollector(reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	c.SetObjectCounts(5, 2, 3, 6)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "airwave_wireless_lans 5") {
		t.Fatalf("expected gauge value in exposition:\n%s", body)
	}
	if !strings.Contains(body, "airwave_vlans 3") {
		t.Fatalf("expected vlan gauge value in exposition:\n%s", body)
	}
	if !strings.Contains(body, "airwave_interfaces 6") {
		t.Fatalf("expected interface gauge value in exposition:\n%s", body)
	}
}

func TestCollector_NilSafety(t *testing.T) {
	var c *observability.Collector
	c.ObserveRequest("GET", "/x", 200, 0)
	c.SetObjectCounts(1, 1, 1, 1)
	c.SetDanglingRefs(1)
	if c.Handler() == nil {
		t.Fatal("expected a usable handler from a nil collector")
	}
}
