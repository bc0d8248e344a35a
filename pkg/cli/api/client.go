// Package api provides the typed HTTP client airwavectl uses to talk to
// the Airwave API server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// APIClient defines the operations airwavectl performs against the server.
type APIClient interface {
	// Wireless LANs
	ListWirelessLANs() ([]WirelessLANInfo, error)
	GetWirelessLAN(id int64) (*WirelessLANInfo, error)
	CreateWirelessLAN(body map[string]any) (*WirelessLANInfo, error)
	DeleteWirelessLAN(id int64) error

	// Wireless links
	ListWirelessLinks() ([]WirelessLinkInfo, error)
	GetWirelessLink(id int64) (*WirelessLinkInfo, error)
	CreateWirelessLink(body map[string]any) (*WirelessLinkInfo, error)
	DeleteWirelessLink(id int64) error

	// VLANs
	ListVLANs() ([]VLANInfo, error)
	CreateVLAN(body map[string]any) (*VLANInfo, error)
	DeleteVLAN(id int64) error

	// Interfaces
	ListInterfaces() ([]InterfaceInfo, error)
	ListInterfacesByDevice(device string) ([]InterfaceInfo, error)
	CreateInterface(body map[string]any) (*InterfaceInfo, error)
	DeleteInterface(id int64) error

	// Status
	Status() (*StatusInfo, error)
}

// Client talks to the Airwave REST API over HTTP with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL. token may be empty
// when the server runs without API keys.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode, decodeAPIError(resp.StatusCode, data)
	}
	return data, resp.StatusCode, nil
}

// decodeAPIError turns an error response body into a readable error. The
// server emits either {"error": "..."} or a per-field validation map.
func decodeAPIError(code int, data []byte) error {
	var e apiError
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return fmt.Errorf("server returned %d: %s", code, e.Error)
	}
	var fields map[string][]string
	if err := json.Unmarshal(data, &fields); err == nil && len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		var parts []string
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(fields[name], "; ")))
		}
		return fmt.Errorf("server returned %d: %s", code, strings.Join(parts, ", "))
	}
	return fmt.Errorf("server returned %d", code)
}

func list[T any](c *Client, path string) ([]T, error) {
	data, _, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var env listEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return env.Results, nil
}

func get[T any](c *Client, path string) (*T, error) {
	data, _, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &out, nil
}

func create[T any](c *Client, path string, body map[string]any) (*T, error) {
	data, _, err := c.do(http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &out, nil
}

func (c *Client) ListWirelessLANs() ([]WirelessLANInfo, error) {
	return list[WirelessLANInfo](c, "/api/v1/wireless/wireless-lans")
}

func (c *Client) GetWirelessLAN(id int64) (*WirelessLANInfo, error) {
	return get[WirelessLANInfo](c, fmt.Sprintf("/api/v1/wireless/wireless-lans/%d/", id))
}

func (c *Client) CreateWirelessLAN(body map[string]any) (*WirelessLANInfo, error) {
	return create[WirelessLANInfo](c, "/api/v1/wireless/wireless-lans", body)
}

func (c *Client) DeleteWirelessLAN(id int64) error {
	_, _, err := c.do(http.MethodDelete, fmt.Sprintf("/api/v1/wireless/wireless-lans/%d/", id), nil)
	return err
}

func (c *Client) ListWirelessLinks() ([]WirelessLinkInfo, error) {
	return list[WirelessLinkInfo](c, "/api/v1/wireless/wireless-links")
}

func (c *Client) GetWirelessLink(id int64) (*WirelessLinkInfo, error) {
	return get[WirelessLinkInfo](c, fmt.Sprintf("/api/v1/wireless/wireless-links/%d/", id))
}

func (c *Client) CreateWirelessLink(body map[string]any) (*WirelessLinkInfo, error) {
	return create[WirelessLinkInfo](c, "/api/v1/wireless/wireless-links", body)
}

func (c *Client) DeleteWirelessLink(id int64) error {
	_, _, err := c.do(http.MethodDelete, fmt.Sprintf("/api/v1/wireless/wireless-links/%d/", id), nil)
	return err
}

func (c *Client) ListVLANs() ([]VLANInfo, error) {
	return list[VLANInfo](c, "/api/v1/ipam/vlans")
}

func (c *Client) CreateVLAN(body map[string]any) (*VLANInfo, error) {
	return create[VLANInfo](c, "/api/v1/ipam/vlans", body)
}

func (c *Client) DeleteVLAN(id int64) error {
	_, _, err := c.do(http.MethodDelete, fmt.Sprintf("/api/v1/ipam/vlans/%d/", id), nil)
	return err
}

func (c *Client) ListInterfaces() ([]InterfaceInfo, error) {
	return list[InterfaceInfo](c, "/api/v1/dcim/interfaces")
}

// ListInterfacesByDevice lists interfaces filtered to a single device.
func (c *Client) ListInterfacesByDevice(device string) ([]InterfaceInfo, error) {
	return list[InterfaceInfo](c, "/api/v1/dcim/interfaces?device="+url.QueryEscape(device))
}

func (c *Client) CreateInterface(body map[string]any) (*InterfaceInfo, error) {
	return create[InterfaceInfo](c, "/api/v1/dcim/interfaces", body)
}

func (c *Client) DeleteInterface(id int64) error {
	_, _, err := c.do(http.MethodDelete, fmt.Sprintf("/api/v1/dcim/interfaces/%d/", id), nil)
	return err
}

func (c *Client) Status() (*StatusInfo, error) {
	return get[StatusInfo](c, "/api/v1/status")
}
