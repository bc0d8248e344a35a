package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/airwave-net/airwave/pkg/cli/api"
	"github.com/airwave-net/airwave/pkg/cli/output"
)

func sampleLANs() []api.WirelessLANInfo {
	return []api.WirelessLANInfo{
		{
			ID:      1,
			URL:     "http://airwave.test/api/v1/wireless/wireless-lans/1/",
			Display: "corp-wifi",
			SSID:    "corp-wifi",
			VLAN:    &api.VLANInfo{ID: 7, Display: "backbone (100)", VID: 100, Name: "backbone"},
		},
		{
			ID:      2,
			URL:     "http://airwave.test/api/v1/wireless/wireless-lans/2/",
			Display: "guest-wifi",
			SSID:    "guest-wifi",
		},
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	f := output.NewFormatter("table")
	out := f.Format(sampleLANs())

	// Headers come from json tags.
	if !strings.Contains(out, "SSID") || !strings.Contains(out, "VLAN") {
		t.Fatalf("missing headers in output:\n%s", out)
	}
	if !strings.Contains(out, "corp-wifi") || !strings.Contains(out, "guest-wifi") {
		t.Fatalf("missing rows in output:\n%s", out)
	}
	// A set reference cell shows its display label; an unset one shows "-".
	if !strings.Contains(out, "backbone (100)") {
		t.Fatalf("expected vlan display label in output:\n%s", out)
	}
	if !strings.Contains(out, "-") {
		t.Fatalf("expected '-' placeholder for nil vlan in output:\n%s", out)
	}
}

func TestTableFormatter_Empty(t *testing.T) {
	f := output.NewFormatter("table")
	out := f.Format([]api.WirelessLANInfo{})
	if !strings.Contains(out, "No resources found") {
		t.Fatalf("unexpected output for empty slice: %q", out)
	}
}

func TestTableFormatter_SingleStruct(t *testing.T) {
	f := output.NewFormatter("table")
	status := api.StatusInfo{Version: "0.1.0", WirelessLANs: 3}
	out := f.Format(status)
	if !strings.Contains(out, "VERSION") || !strings.Contains(out, "0.1.0") {
		t.Fatalf("unexpected struct output:\n%s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	f := output.NewFormatter("json")
	out := f.Format(sampleLANs())

	var decoded []api.WirelessLANInfo
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("JSON output does not parse: %v\n%s", err, out)
	}
	if len(decoded) != 2 || decoded[0].SSID != "corp-wifi" {
		t.Fatalf("unexpected decoded output: %+v", decoded)
	}
}

func TestYAMLFormatter(t *testing.T) {
	f := output.NewFormatter("yaml")
	out := f.Format(sampleLANs())
	if !strings.Contains(out, "ssid: corp-wifi") {
		t.Fatalf("unexpected yaml output:\n%s", out)
	}
}

func TestNewFormatter_DefaultsToTable(t *testing.T) {
	if _, ok := output.NewFormatter("bogus").(*output.TableFormatter); !ok {
		t.Fatal("expected unknown format to fall back to table")
	}
}
