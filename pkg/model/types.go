// Package model defines the core data types for the Airwave wireless
// management plane.
package model

import "fmt"

// VLAN is a logical network segment that a wireless LAN may be bridged onto.
// VLANs are owned by the IPAM side of the system; Airwave only references
// them.
type VLAN struct {
	ID   int64  `json:"id"`
	VID  int    `json:"vid"`
	Name string `json:"name"`
}

// Display returns the human-readable label for a VLAN.
func (v *VLAN) Display() string {
	return fmt.Sprintf("%s (%d)", v.Name, v.VID)
}

// Interface is a physical or logical device interface that can terminate a
// wireless point-to-point link.
type Interface struct {
	ID     int64  `json:"id"`
	Device string `json:"device"`
	Name   string `json:"name"`
}

// Display returns the human-readable label for an Interface.
func (i *Interface) Display() string {
	return i.Name
}

// WirelessLAN is a multi-access wireless network identified by its SSID.
// VLANID is nil when the network is not bridged onto a VLAN.
type WirelessLAN struct {
	ID          int64  `json:"id"`
	SSID        string `json:"ssid"`
	Description string `json:"description"`
	VLANID      *int64 `json:"vlan_id,omitempty"`
}

// Display returns the human-readable label for a WirelessLAN.
func (w *WirelessLAN) Display() string {
	return w.SSID
}

// WirelessLink is a point-to-point wireless connection between two device
// interfaces. Both interface references are mandatory and must be distinct.
type WirelessLink struct {
	ID           int64  `json:"id"`
	InterfaceAID int64  `json:"interface_a_id"`
	InterfaceBID int64  `json:"interface_b_id"`
	SSID         string `json:"ssid"`
	Description  string `json:"description"`
}

// Display returns the human-readable label for a WirelessLink.
func (w *WirelessLink) Display() string {
	return fmt.Sprintf("#%d", w.ID)
}
