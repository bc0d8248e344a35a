package apiserver_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/airwave-net/airwave/pkg/apiserver"
	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/observability"
	"github.com/airwave-net/airwave/pkg/store"
)

// setupTestServer creates an API test server backed by the in-memory store.
func setupTestServer(t *testing.T, opts apiserver.ServerOptions) (*httptest.Server, store.Store) {
	t.Helper()

	memStore := store.NewMemoryStore()
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	srv := apiserver.NewServer(memStore, metrics, nil, opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, memStore
}

// jsonBody encodes v as JSON and returns an io.Reader.
func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("jsonBody marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// decodeJSON reads the response body and decodes it into v.
func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func doRequest(t *testing.T, method, url string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

// lanResource mirrors the wireless LAN JSON representation.
type lanResource struct {
	ID          int64           `json:"id"`
	URL         string          `json:"url"`
	Display     string          `json:"display"`
	SSID        string          `json:"ssid"`
	Description string          `json:"description"`
	VLAN        json.RawMessage `json:"vlan"`
}

func TestWirelessLAN_CreateMinimal(t *testing.T) {
	ts, _ := setupTestServer(t, apiserver.DefaultServerOptions())

	resp := doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-lans",
		bytes.NewReader([]byte(`{"ssid":"new-net"}`)))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var lan lanResource
	decodeJSON(t, resp, &lan)
	if lan.SSID != "new-net" {
		t.Fatalf("expected ssid new-net, got %q", lan.SSID)
	}
	if lan.ID == 0 {
		t.Fatal("expected assigned id")
	}
	wantURL := fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID)
	if lan.URL != wantURL {
		t.Fatalf("expected url %s, got %s", wantURL, lan.URL)
	}
	// Absent vlan serializes as explicit null.
	if string(lan.VLAN) != "null" {
		t.Fatalf("expected vlan null, got %s", lan.VLAN)
	}
}

func TestWirelessLAN_CreateEmptyBodyRejected(t *testing.T) {
	ts, _ := setupTestServer(t, apiserver.DefaultServerOptions())

	resp := doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-lans",
		bytes.NewReader([]byte(`{}`)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var fields map[string][]string
	decodeJSON(t, resp, &fields)
	if len(fields["ssid"]) == 0 {
		t.Fatalf("expected ssid error, got %v", fields)
	}
}

func TestWirelessLAN_FullCRUD(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	// Seed a VLAN through the API.
	resp := doRequest(t, "POST", ts.URL+"/api/v1/ipam/vlans",
		jsonBody(t, map[string]any{"vid": 100, "name": "backbone"}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create vlan: expected 201, got %d", resp.StatusCode)
	}
	var vlan struct {
		ID int64 `json:"id"`
	}
	decodeJSON(t, resp, &vlan)

	// Create a LAN referencing it.
	resp = doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-lans",
		jsonBody(t, map[string]any{"ssid": "corp-wifi", "description": "office", "vlan": vlan.ID}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create lan: expected 201, got %d", resp.StatusCode)
	}
	var lan lanResource
	decodeJSON(t, resp, &lan)

	// Get via the canonical trailing-slash URL.
	resp = doRequest(t, "GET", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get lan: expected 200, got %d", resp.StatusCode)
	}
	var got lanResource
	decodeJSON(t, resp, &got)
	if got.Display != "corp-wifi" {
		t.Fatalf("expected display corp-wifi, got %q", got.Display)
	}
	var nested struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		VID  int    `json:"vid"`
	}
	if err := json.Unmarshal(got.VLAN, &nested); err != nil {
		t.Fatalf("decode nested vlan: %v", err)
	}
	if nested.ID != vlan.ID || nested.Name != "backbone" || nested.VID != 100 {
		t.Fatalf("unexpected nested vlan: %+v", nested)
	}

	// The non-slash form of the detail route works too.
	resp = doRequest(t, "GET", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d", ts.URL, lan.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get lan without slash: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// PATCH is a partial update: ssid survives.
	resp = doRequest(t, "PATCH", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID),
		jsonBody(t, map[string]any{"description": "changed"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch lan: expected 200, got %d", resp.StatusCode)
	}
	var patched lanResource
	decodeJSON(t, resp, &patched)
	if patched.SSID != "corp-wifi" || patched.Description != "changed" {
		t.Fatalf("unexpected patched lan: %+v", patched)
	}

	// PUT is a full replacement: ssid is required again.
	resp = doRequest(t, "PUT", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID),
		jsonBody(t, map[string]any{"description": "only"}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("put without ssid: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// PUT with ssid resets the detached fields.
	resp = doRequest(t, "PUT", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID),
		jsonBody(t, map[string]any{"ssid": "renamed"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put lan: expected 200, got %d", resp.StatusCode)
	}
	var replaced lanResource
	decodeJSON(t, resp, &replaced)
	if replaced.SSID != "renamed" || replaced.Description != "" || string(replaced.VLAN) != "null" {
		t.Fatalf("expected full replacement, got %+v vlan=%s", replaced, replaced.VLAN)
	}

	// Delete.
	resp = doRequest(t, "DELETE", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete lan: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, "GET", fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted lan: expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	if lans, _ := memStore.WirelessLANs().List(); len(lans) != 0 {
		t.Fatalf("expected empty store, got %d lans", len(lans))
	}
}

func TestWirelessLAN_UnknownRelatedVLAN(t *testing.T) {
	ts, _ := setupTestServer(t, apiserver.DefaultServerOptions())

	resp := doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-lans",
		jsonBody(t, map[string]any{"ssid": "net", "vlan": 999}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var fields map[string][]string
	decodeJSON(t, resp, &fields)
	if len(fields["vlan"]) == 0 {
		t.Fatalf("expected vlan error, got %v", fields)
	}
}

func TestWirelessLAN_ListPaginationAndBrief(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	for i := 0; i < 5; i++ {
		lan := &model.WirelessLAN{SSID: fmt.Sprintf("net-%d", i)}
		if err := memStore.WirelessLANs().Create(lan); err != nil {
			t.Fatalf("seed lan: %v", err)
		}
	}

	resp := doRequest(t, "GET", ts.URL+"/api/v1/wireless/wireless-lans?limit=2&offset=2", nil)
	var page struct {
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	decodeJSON(t, resp, &page)
	if page.Count != 5 {
		t.Fatalf("expected count 5, got %d", page.Count)
	}
	if len(page.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page.Results))
	}

	// Brief mode trims each result to the reference field set.
	resp = doRequest(t, "GET", ts.URL+"/api/v1/wireless/wireless-lans?brief=true&limit=1", nil)
	decodeJSON(t, resp, &page)
	var briefFields map[string]json.RawMessage
	if err := json.Unmarshal(page.Results[0], &briefFields); err != nil {
		t.Fatalf("decode brief result: %v", err)
	}
	for _, key := range []string{"id", "url", "display", "ssid"} {
		if _, ok := briefFields[key]; !ok {
			t.Fatalf("brief result missing %q: %v", key, briefFields)
		}
	}
	if _, ok := briefFields["vlan"]; ok {
		t.Fatal("brief result should not carry the vlan relation")
	}
}

func TestWirelessLAN_SSIDFilter(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	for _, ssid := range []string{"alpha", "beta", "alpha"} {
		if err := memStore.WirelessLANs().Create(&model.WirelessLAN{SSID: ssid}); err != nil {
			t.Fatalf("seed lan: %v", err)
		}
	}

	resp := doRequest(t, "GET", ts.URL+"/api/v1/wireless/wireless-lans?ssid=alpha", nil)
	var page struct {
		Count int `json:"count"`
	}
	decodeJSON(t, resp, &page)
	if page.Count != 2 {
		t.Fatalf("expected 2 alpha lans, got %d", page.Count)
	}
}

func TestWirelessLink_CRUD(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	ifaceA := &model.Interface{Device: "ap-east-01", Name: "wlan0"}
	ifaceB := &model.Interface{Device: "ap-west-01", Name: "wlan0"}
	if err := memStore.Interfaces().Create(ifaceA); err != nil {
		t.Fatalf("seed interface: %v", err)
	}
	if err := memStore.Interfaces().Create(ifaceB); err != nil {
		t.Fatalf("seed interface: %v", err)
	}

	resp := doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-links",
		jsonBody(t, map[string]any{"interface_a": ifaceA.ID, "interface_b": ifaceB.ID, "ssid": "backhaul"}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create link: expected 201, got %d", resp.StatusCode)
	}
	var link struct {
		ID         int64 `json:"id"`
		Display    string
		InterfaceA struct {
			Device string `json:"device"`
			Name   string `json:"name"`
		} `json:"interface_a"`
	}
	decodeJSON(t, resp, &link)
	if link.InterfaceA.Device != "ap-east-01" || link.InterfaceA.Name != "wlan0" {
		t.Fatalf("unexpected interface_a: %+v", link.InterfaceA)
	}

	// Both endpoints must be distinct.
	resp = doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-links",
		jsonBody(t, map[string]any{"interface_a": ifaceA.ID, "interface_b": ifaceA.ID}))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("same-interface link: expected 400, got %d", resp.StatusCode)
	}
	var fields map[string][]string
	decodeJSON(t, resp, &fields)
	if len(fields["interface_b"]) == 0 {
		t.Fatalf("expected interface_b error, got %v", fields)
	}

	// Endpoints are required.
	resp = doRequest(t, "POST", ts.URL+"/api/v1/wireless/wireless-links",
		bytes.NewReader([]byte(`{}`)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty link body: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doRequest(t, "DELETE", fmt.Sprintf("%s/api/v1/wireless/wireless-links/%d/", ts.URL, link.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete link: expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestVLAN_DeleteGuard(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	vlan := &model.VLAN{VID: 100, Name: "backbone"}
	if err := memStore.VLANs().Create(vlan); err != nil {
		t.Fatalf("seed vlan: %v", err)
	}
	lan := &model.WirelessLAN{SSID: "corp-wifi", VLANID: &vlan.ID}
	if err := memStore.WirelessLANs().Create(lan); err != nil {
		t.Fatalf("seed lan: %v", err)
	}

	resp := doRequest(t, "DELETE", fmt.Sprintf("%s/api/v1/ipam/vlans/%d/", ts.URL, vlan.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 while referenced, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// After the LAN is gone the VLAN can be deleted.
	if err := memStore.WirelessLANs().Delete(lan.ID); err != nil {
		t.Fatalf("delete lan: %v", err)
	}
	resp = doRequest(t, "DELETE", fmt.Sprintf("%s/api/v1/ipam/vlans/%d/", ts.URL, vlan.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestInterface_DeleteGuard(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	ifaceA := &model.Interface{Device: "ap-east-01", Name: "wlan0"}
	ifaceB := &model.Interface{Device: "ap-west-01", Name: "wlan0"}
	memStore.Interfaces().Create(ifaceA)
	memStore.Interfaces().Create(ifaceB)
	link := &model.WirelessLink{InterfaceAID: ifaceA.ID, InterfaceBID: ifaceB.ID}
	if err := memStore.WirelessLinks().Create(link); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	resp := doRequest(t, "DELETE", fmt.Sprintf("%s/api/v1/dcim/interfaces/%d/", ts.URL, ifaceB.ID), nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 while referenced, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestVLAN_CreateValidation(t *testing.T) {
	ts, _ := setupTestServer(t, apiserver.DefaultServerOptions())

	cases := []map[string]any{
		{"vid": 100},               // missing name
		{"name": "x"},              // missing vid
		{"vid": 0, "name": "x"},    // vid below range
		{"vid": 4095, "name": "x"}, // vid above range
	}
	for _, body := range cases {
		resp := doRequest(t, "POST", ts.URL+"/api/v1/ipam/vlans", jsonBody(t, body))
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", body, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestAuthAndRBAC(t *testing.T) {
	opts := apiserver.DefaultServerOptions()
	opts.APIKeys = map[string]apiserver.APIKeyInfo{
		"viewer-token":   {Description: "read only", Role: apiserver.RoleViewer},
		"operator-token": {Description: "writes", Role: apiserver.RoleOperator},
		"admin-token":    {Description: "full", Role: apiserver.RoleAdmin},
	}
	ts, memStore := setupTestServer(t, opts)

	lan := &model.WirelessLAN{SSID: "corp-wifi"}
	if err := memStore.WirelessLANs().Create(lan); err != nil {
		t.Fatalf("seed lan: %v", err)
	}

	authed := func(method, url, token string, body io.Reader) *http.Response {
		req, err := http.NewRequest(method, url, body)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, url, err)
		}
		resp.Body.Close()
		return resp
	}

	listURL := ts.URL + "/api/v1/wireless/wireless-lans"
	detailURL := fmt.Sprintf("%s/api/v1/wireless/wireless-lans/%d/", ts.URL, lan.ID)
	createBody := func() io.Reader { return bytes.NewReader([]byte(`{"ssid":"x"}`)) }

	// No token and bad token are rejected.
	if resp := authed("GET", listURL, "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.StatusCode)
	}
	if resp := authed("GET", listURL, "wrong", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", resp.StatusCode)
	}

	// Probes stay open.
	if resp := authed("GET", ts.URL+"/healthz", "", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", resp.StatusCode)
	}

	// Viewer reads but cannot write or delete.
	if resp := authed("GET", listURL, "viewer-token", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("viewer GET: expected 200, got %d", resp.StatusCode)
	}
	if resp := authed("POST", listURL, "viewer-token", createBody()); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer POST: expected 403, got %d", resp.StatusCode)
	}
	if resp := authed("DELETE", detailURL, "viewer-token", nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("viewer DELETE: expected 403, got %d", resp.StatusCode)
	}

	// Operator writes but cannot delete.
	if resp := authed("POST", listURL, "operator-token", createBody()); resp.StatusCode != http.StatusCreated {
		t.Fatalf("operator POST: expected 201, got %d", resp.StatusCode)
	}
	if resp := authed("DELETE", detailURL, "operator-token", nil); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("operator DELETE: expected 403, got %d", resp.StatusCode)
	}

	// Admin deletes.
	if resp := authed("DELETE", detailURL, "admin-token", nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("admin DELETE: expected 204, got %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts, memStore := setupTestServer(t, apiserver.DefaultServerOptions())

	memStore.WirelessLANs().Create(&model.WirelessLAN{SSID: "a"})
	memStore.WirelessLANs().Create(&model.WirelessLAN{SSID: "b"})
	memStore.WirelessLinks().Create(&model.WirelessLink{InterfaceAID: 1, InterfaceBID: 2})

	resp := doRequest(t, "GET", ts.URL+"/api/v1/status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var status struct {
		Version       string `json:"version"`
		WirelessLANs  int    `json:"wireless_lans"`
		WirelessLinks int    `json:"wireless_links"`
	}
	decodeJSON(t, resp, &status)
	if status.Version == "" {
		t.Fatal("expected version in status")
	}
	if status.WirelessLANs != 2 || status.WirelessLinks != 1 {
		t.Fatalf("unexpected counts: %+v", status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t, apiserver.DefaultServerOptions())

	resp := doRequest(t, "GET", ts.URL+"/metrics", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

// outageVLANStore simulates a backend outage on delete while delegating
// everything else to the real store.
type outageVLANStore struct {
	store.VLANStore
}

func (s outageVLANStore) Delete(int64) error {
	return errors.New("request timed out")
}

type outageStore struct {
	store.Store
}

func (s outageStore) VLANs() store.VLANStore {
	return outageVLANStore{s.Store.VLANs()}
}

func TestDeleteVLAN_BackendOutageIsServerError(t *testing.T) {
	memStore := store.NewMemoryStore()
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	srv := apiserver.NewServer(outageStore{memStore}, metrics, nil, apiserver.DefaultServerOptions())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	vlan := &model.VLAN{VID: 100, Name: "backbone"}
	if err := memStore.VLANs().Create(vlan); err != nil {
		t.Fatalf("seed vlan: %v", err)
	}

	// A backend failure is the server's fault, never the client's.
	resp := doRequest(t, "DELETE", fmt.Sprintf("%s/api/v1/ipam/vlans/%d/", ts.URL, vlan.ID), nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a backend outage, got %d", resp.StatusCode)
	}
}
