package controller_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/airwave-net/airwave/pkg/controller"
	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/store"
)

func seededStore(t *testing.T) store.Store {
	t.Helper()
	s := store.NewMemoryStore()

	vlan := &model.VLAN{VID: 100, Name: "backbone"}
	if err := s.VLANs().Create(vlan); err != nil {
		t.Fatalf("create vlan: %v", err)
	}
	ifaceA := &model.Interface{Device: "ap-east-01", Name: "wlan0"}
	ifaceB := &model.Interface{Device: "ap-west-01", Name: "wlan0"}
	if err := s.Interfaces().Create(ifaceA); err != nil {
		t.Fatalf("create interface: %v", err)
	}
	if err := s.Interfaces().Create(ifaceB); err != nil {
		t.Fatalf("create interface: %v", err)
	}

	lan := &model.WirelessLAN{SSID: "corp-wifi", VLANID: &vlan.ID}
	if err := s.WirelessLANs().Create(lan); err != nil {
		t.Fatalf("create lan: %v", err)
	}
	link := &model.WirelessLink{InterfaceAID: ifaceA.ID, InterfaceBID: ifaceB.ID}
	if err := s.WirelessLinks().Create(link); err != nil {
		t.Fatalf("create link: %v", err)
	}
	return s
}

// runOneSweep starts the auditor with a long interval so exactly the initial
// sweep runs, then cancels.
func runOneSweep(t *testing.T, s store.Store) *controller.Auditor {
	t.Helper()
	a := controller.NewAuditor(s, nil, zap.NewNop(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Start(ctx)
		close(done)
	}()
	// The initial sweep runs synchronously before the ticker loop; give the
	// goroutine a moment to get through it.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done
	return a
}

func TestAuditor_CleanStore(t *testing.T) {
	a := runOneSweep(t, seededStore(t))
	if findings := a.Findings(); len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestAuditor_DanglingVLAN(t *testing.T) {
	s := store.NewMemoryStore()
	missing := int64(99)
	lan := &model.WirelessLAN{SSID: "corp-wifi", VLANID: &missing}
	if err := s.WirelessLANs().Create(lan); err != nil {
		t.Fatalf("create lan: %v", err)
	}

	a := runOneSweep(t, s)
	findings := a.Findings()
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", findings)
	}
	f := findings[0]
	if f.Kind != "wireless-lan" || f.Field != "vlan" || f.RefID != 99 || f.ObjectID != lan.ID {
		t.Fatalf("unexpected finding: %+v", f)
	}
}

func TestAuditor_DanglingInterfaces(t *testing.T) {
	s := store.NewMemoryStore()
	link := &model.WirelessLink{InterfaceAID: 41, InterfaceBID: 42}
	if err := s.WirelessLinks().Create(link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	a := runOneSweep(t, s)
	findings := a.Findings()
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %+v", findings)
	}
	fields := map[string]bool{}
	for _, f := range findings {
		if f.Kind != "wireless-link" || f.ObjectID != link.ID {
			t.Fatalf("unexpected finding: %+v", f)
		}
		fields[f.Field] = true
	}
	if !fields["interface_a"] || !fields["interface_b"] {
		t.Fatalf("expected findings for both endpoints, got %+v", findings)
	}
}

func TestAuditor_FindingsClearAfterRepair(t *testing.T) {
	s := store.NewMemoryStore()
	missing := int64(99)
	lan := &model.WirelessLAN{SSID: "corp-wifi", VLANID: &missing}
	if err := s.WirelessLANs().Create(lan); err != nil {
		t.Fatalf("create lan: %v", err)
	}

	a := runOneSweep(t, s)
	if len(a.Findings()) != 1 {
		t.Fatalf("expected 1 finding, got %+v", a.Findings())
	}

	// Detach the dangling reference and sweep again.
	lan.VLANID = nil
	if err := s.WirelessLANs().Update(lan); err != nil {
		t.Fatalf("update lan: %v", err)
	}
	a = runOneSweep(t, s)
	if findings := a.Findings(); len(findings) != 0 {
		t.Fatalf("expected findings to clear, got %+v", findings)
	}
}
