package controller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/airwave-net/airwave/pkg/observability"
	"github.com/airwave-net/airwave/pkg/store"
)

// Finding records a dangling reference discovered during an audit sweep.
type Finding struct {
	Kind     string `json:"kind"`
	ObjectID int64  `json:"object_id"`
	Field    string `json:"field"`
	RefID    int64  `json:"ref_id"`
}

// Auditor periodically scans wireless LANs and links for references to
// VLANs or interfaces that no longer exist. Findings are kept in memory
// and exported as a gauge so dangling data shows up in dashboards before
// a client trips over a missing relation.
type Auditor struct {
	store    store.Store
	metrics  *observability.Collector
	log      *zap.Logger
	interval time.Duration

	mu       sync.RWMutex
	findings []Finding
}

// NewAuditor creates an Auditor that sweeps at the given interval. A
// non-positive interval falls back to 30 seconds.
func NewAuditor(s store.Store, metrics *observability.Collector, log *zap.Logger, interval time.Duration) *Auditor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Auditor{
		store:    s,
		metrics:  metrics,
		log:      log,
		interval: interval,
	}
}

// Start runs the audit loop until ctx is cancelled. One sweep runs
// immediately so the gauge is populated at startup.
func (a *Auditor) Start(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	a.log.Info("reference auditor started", zap.Duration("interval", a.interval))
	a.audit()
	for {
		select {
		case <-ctx.Done():
			a.log.Info("reference auditor stopped")
			return
		case <-ticker.C:
			a.audit()
		}
	}
}

// Findings returns the dangling references found by the most recent sweep.
func (a *Auditor) Findings() []Finding {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Finding, len(a.findings))
	copy(out, a.findings)
	return out
}

func (a *Auditor) audit() {
	var found []Finding

	vlans, err := a.store.VLANs().List()
	if err != nil {
		a.log.Error("auditor: list vlans", zap.Error(err))
		return
	}
	vlanIDs := make(map[int64]struct{}, len(vlans))
	for _, v := range vlans {
		vlanIDs[v.ID] = struct{}{}
	}

	ifaces, err := a.store.Interfaces().List()
	if err != nil {
		a.log.Error("auditor: list interfaces", zap.Error(err))
		return
	}
	ifaceIDs := make(map[int64]struct{}, len(ifaces))
	for _, i := range ifaces {
		ifaceIDs[i.ID] = struct{}{}
	}

	lans, err := a.store.WirelessLANs().List()
	if err != nil {
		a.log.Error("auditor: list wireless lans", zap.Error(err))
		return
	}
	for _, lan := range lans {
		if lan.VLANID == nil {
			continue
		}
		if _, ok := vlanIDs[*lan.VLANID]; !ok {
			found = append(found, Finding{
				Kind:     "wireless-lan",
				ObjectID: lan.ID,
				Field:    "vlan",
				RefID:    *lan.VLANID,
			})
		}
	}

	links, err := a.store.WirelessLinks().List()
	if err != nil {
		a.log.Error("auditor: list wireless links", zap.Error(err))
		return
	}
	for _, link := range links {
		if _, ok := ifaceIDs[link.InterfaceAID]; !ok {
			found = append(found, Finding{
				Kind:     "wireless-link",
				ObjectID: link.ID,
				Field:    "interface_a",
				RefID:    link.InterfaceAID,
			})
		}
		if _, ok := ifaceIDs[link.InterfaceBID]; !ok {
			found = append(found, Finding{
				Kind:     "wireless-link",
				ObjectID: link.ID,
				Field:    "interface_b",
				RefID:    link.InterfaceBID,
			})
		}
	}

	a.mu.Lock()
	a.findings = found
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.SetDanglingRefs(len(found))
	}
	for _, f := range found {
		a.log.Warn("dangling reference",
			zap.String("kind", f.Kind),
			zap.Int64("object_id", f.ObjectID),
			zap.String("field", f.Field),
			zap.Int64("ref_id", f.RefID))
	}
}
