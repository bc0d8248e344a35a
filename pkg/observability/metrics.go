// Package observability bundles the Prometheus metrics for the Airwave API
// server and exposes them over /metrics.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics for the API surface.
type Collector struct {
	gatherer prometheus.Gatherer

	Requests  *prometheus.CounterVec
	Durations *prometheus.HistogramVec

	WirelessLANs  prometheus.Gauge
	WirelessLinks prometheus.Gauge
	VLANs         prometheus.Gauge
	Interfaces    prometheus.Gauge
	DanglingRefs  prometheus.Gauge
}

// NewCollector registers the Airwave metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airwave_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by method, route, and status code.",
	}, []string{"method", "route", "code"})
	requests, err := registerCounterVec(reg, requests, "airwave_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airwave_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route"})
	durations, err = registerHistogramVec(reg, durations, "airwave_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	lans, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airwave_wireless_lans",
		Help: "Current number of wireless LAN records.",
	}), "airwave_wireless_lans")
	if err != nil {
		return nil, err
	}
	links, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airwave_wireless_links",
		Help: "Current number of wireless link records.",
	}), "airwave_wireless_links")
	if err != nil {
		return nil, err
	}
	vlans, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airwave_vlans",
		Help: "Current number of VLAN records.",
	}), "airwave_vlans")
	if err != nil {
		return nil, err
	}
	interfaces, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airwave_interfaces",
		Help: "Current number of interface records.",
	}), "airwave_interfaces")
	if err != nil {
		return nil, err
	}
	dangling, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airwave_dangling_references",
		Help: "Number of relational references that no longer resolve, as seen by the reference auditor.",
	}), "airwave_dangling_references")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Requests:      requests,
		Durations:     durations,
		WirelessLANs:  lans,
		WirelessLinks: links,
		VLANs:         vlans,
		Interfaces:    interfaces,
		DanglingRefs:  dangling,
	}, nil
}

// ObserveRequest records one handled HTTP request.
func (c *Collector) ObserveRequest(method, route string, code int, seconds float64) {
	if c == nil {
		return
	}
	if c.Requests != nil {
		c.Requests.WithLabelValues(method, route, fmt.Sprintf("%d", code)).Inc()
	}
	if c.Durations != nil {
		c.Durations.WithLabelValues(method, route).Observe(seconds)
	}
}

// SetObjectCounts updates the per-entity gauges.
func (c *Collector) SetObjectCounts(lans, links, vlans, interfaces int) {
	if c == nil {
		return
	}
	if c.WirelessLANs != nil {
		c.WirelessLANs.Set(float64(lans))
	}
	if c.WirelessLinks != nil {
		c.WirelessLinks.Set(float64(links))
	}
	if c.VLANs != nil {
		c.VLANs.Set(float64(vlans))
	}
	if c.Interfaces != nil {
		c.Interfaces.Set(float64(interfaces))
	}
}

// SetDanglingRefs updates the dangling-reference gauge.
func (c *Collector) SetDanglingRefs(n int) {
	if c == nil || c.DanglingRefs == nil {
		return
	}
	c.DanglingRefs.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	var gatherer prometheus.Gatherer
	if c != nil {
		gatherer = c.gatherer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
