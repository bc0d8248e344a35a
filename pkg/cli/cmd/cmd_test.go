package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/airwave-net/airwave/pkg/cli/api"
	"github.com/airwave-net/airwave/pkg/cli/cmd"
	"github.com/airwave-net/airwave/pkg/cli/output"
)

func setupTest() *api.MockClient {
	mock := api.NewMockClient()
	cmd.SetClient(mock)
	cmd.SetFormatter(output.NewFormatter("table"))
	return mock
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root := cmd.RootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	setupTest()
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "airwavectl version") {
		t.Errorf("expected output to contain 'airwavectl version', got: %s", out)
	}
	if !strings.Contains(out, "API server:") {
		t.Errorf("expected output to contain 'API server:', got: %s", out)
	}
}

func TestLanListCommand(t *testing.T) {
	setupTest()
	out, err := executeCommand("lan", "list")
	if err != nil {
		t.Fatalf("lan list command failed: %v", err)
	}
	if !strings.Contains(out, "corp-wifi") {
		t.Errorf("expected output to contain 'corp-wifi', got: %s", out)
	}
	if !strings.Contains(out, "guest-wifi") {
		t.Errorf("expected output to contain 'guest-wifi', got: %s", out)
	}
	if !strings.Contains(out, "backbone (100)") {
		t.Errorf("expected vlan display label, got: %s", out)
	}
}

func TestLanGetCommand(t *testing.T) {
	setupTest()
	out, err := executeCommand("lan", "get", "1")
	if err != nil {
		t.Fatalf("lan get command failed: %v", err)
	}
	if !strings.Contains(out, "corp-wifi") {
		t.Errorf("expected output to contain 'corp-wifi', got: %s", out)
	}
}

func TestLanGetCommand_InvalidID(t *testing.T) {
	setupTest()
	if _, err := executeCommand("lan", "get", "abc"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestLanCreateCommand(t *testing.T) {
	mock := setupTest()
	out, err := executeCommand("lan", "create", "--ssid", "new-net")
	if err != nil {
		t.Fatalf("lan create command failed: %v", err)
	}
	if !strings.Contains(out, "new-net") {
		t.Errorf("expected output to contain 'new-net', got: %s", out)
	}
	if len(mock.LANs) != 3 {
		t.Errorf("expected mock to hold 3 lans, got %d", len(mock.LANs))
	}
}

func TestLanDeleteCommand_Yes(t *testing.T) {
	mock := setupTest()
	out, err := executeCommand("lan", "delete", "2", "--yes")
	if err != nil {
		t.Fatalf("lan delete command failed: %v", err)
	}
	if !strings.Contains(out, "deleted") {
		t.Errorf("expected deletion confirmation, got: %s", out)
	}
	if len(mock.LANs) != 1 {
		t.Errorf("expected 1 lan left, got %d", len(mock.LANs))
	}
}

func TestLinkListCommand(t *testing.T) {
	setupTest()
	out, err := executeCommand("link", "list")
	if err != nil {
		t.Fatalf("link list command failed: %v", err)
	}
	if !strings.Contains(out, "backhaul-east-west") {
		t.Errorf("expected output to contain 'backhaul-east-west', got: %s", out)
	}
}

func TestVlanListCommand(t *testing.T) {
	setupTest()
	out, err := executeCommand("vlan", "list")
	if err != nil {
		t.Fatalf("vlan list command failed: %v", err)
	}
	if !strings.Contains(out, "backbone") {
		t.Errorf("expected output to contain 'backbone', got: %s", out)
	}
}

func TestInterfaceListCommand_DeviceFilter(t *testing.T) {
	setupTest()
	out, err := executeCommand("interface", "list", "--device", "ap-east-01")
	if err != nil {
		t.Fatalf("interface list command failed: %v", err)
	}
	if !strings.Contains(out, "ap-east-01") {
		t.Errorf("expected output to contain 'ap-east-01', got: %s", out)
	}
	if strings.Contains(out, "ap-west-01") {
		t.Errorf("expected filtered output without 'ap-west-01', got: %s", out)
	}
}

func TestStatusCommand(t *testing.T) {
	setupTest()
	out, err := executeCommand("status")
	if err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	if !strings.Contains(out, "WIRELESS_LANS") {
		t.Errorf("expected status fields in output, got: %s", out)
	}
}

func TestJSONOutputFlag(t *testing.T) {
	setupTest()
	out, err := executeCommand("vlan", "list", "-o", "json")
	if err != nil {
		t.Fatalf("vlan list -o json failed: %v", err)
	}
	if !strings.Contains(out, `"name": "backbone"`) {
		t.Errorf("expected JSON output, got: %s", out)
	}
}
