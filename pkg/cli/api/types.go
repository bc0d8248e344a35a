package api

// VLANInfo is the wire representation of a VLAN reference.
type VLANInfo struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	VID     int    `json:"vid"`
	Name    string `json:"name"`
}

// InterfaceInfo is the wire representation of a device interface reference.
type InterfaceInfo struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	Device  string `json:"device"`
	Name    string `json:"name"`
}

// WirelessLANInfo is the full wire representation of a wireless LAN.
type WirelessLANInfo struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Display     string    `json:"display"`
	SSID        string    `json:"ssid"`
	Description string    `json:"description"`
	VLAN        *VLANInfo `json:"vlan"`
}

// WirelessLinkInfo is the full wire representation of a wireless link.
type WirelessLinkInfo struct {
	ID          int64          `json:"id"`
	URL         string         `json:"url"`
	Display     string         `json:"display"`
	InterfaceA  *InterfaceInfo `json:"interface_a"`
	InterfaceB  *InterfaceInfo `json:"interface_b"`
	SSID        string         `json:"ssid"`
	Description string         `json:"description"`
}

// StatusInfo is the wire representation of the server status endpoint.
type StatusInfo struct {
	Version       string `json:"version"`
	WirelessLANs  int    `json:"wireless_lans"`
	WirelessLinks int    `json:"wireless_links"`
	VLANs         int    `json:"vlans"`
	Interfaces    int    `json:"interfaces"`
}

// listEnvelope is the pagination envelope wrapping every list response.
type listEnvelope[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// apiError is the error body returned by the server on non-2xx responses.
type apiError struct {
	Error  string              `json:"error,omitempty"`
	Fields map[string][]string `json:"errors,omitempty"`
}
