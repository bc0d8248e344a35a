// Package serializer maps persisted wireless entities to and from their
// external resource representations.
//
// Each resource type has a fixed, ordered field set declared as a struct: the
// representation is an allow-list, so entity attributes outside the struct
// never leak into a response. Relational fields are rendered as nested
// references — a minimal subset of the related entity (id, self-link,
// display label, identifying fields) sufficient for a client to navigate to
// it. Nested references are never expanded further; expansion depth is
// exactly one.
//
// Serialization is stateless and request-scoped: every call takes the request
// context (for absolute self-links) and a RefResolver (for relationship
// traversal) and touches no shared state.
package serializer

import "github.com/airwave-net/airwave/pkg/model"

// RefResolver resolves relational ids to their entities. The store layer
// provides the production implementation.
type RefResolver interface {
	VLAN(id int64) (*model.VLAN, error)
	Interface(id int64) (*model.Interface, error)
}

// VLANRef is the nested reference representation of a VLAN.
type VLANRef struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	VID     int    `json:"vid"`
	Name    string `json:"name"`
}

// InterfaceRef is the nested reference representation of a device interface.
// Device is the owning device's name as a plain string, keeping the
// expansion depth at one.
type InterfaceRef struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	Device  string `json:"device"`
	Name    string `json:"name"`
}

// WirelessLANResource is the external representation of a WirelessLAN.
// VLAN is a pointer so an absent relation renders as an explicit null,
// never a missing key.
type WirelessLANResource struct {
	ID          int64    `json:"id"`
	URL         string   `json:"url"`
	Display     string   `json:"display"`
	SSID        string   `json:"ssid"`
	Description string   `json:"description"`
	VLAN        *VLANRef `json:"vlan"`
}

// WirelessLinkResource is the external representation of a WirelessLink.
// Both interface references are mandatory; serialization fails rather than
// render a null endpoint.
type WirelessLinkResource struct {
	ID          int64         `json:"id"`
	URL         string        `json:"url"`
	Display     string        `json:"display"`
	InterfaceA  *InterfaceRef `json:"interface_a"`
	InterfaceB  *InterfaceRef `json:"interface_b"`
	SSID        string        `json:"ssid"`
	Description string        `json:"description"`
}

// NewVLANRef builds the nested reference for a VLAN.
func NewVLANRef(ctx RequestContext, v *model.VLAN) (*VLANRef, error) {
	url, err := ctx.SelfLink(RouteVLAN, v.ID)
	if err != nil {
		return nil, err
	}
	return &VLANRef{
		ID:      v.ID,
		URL:     url,
		Display: v.Display(),
		VID:     v.VID,
		Name:    v.Name,
	}, nil
}

// NewInterfaceRef builds the nested reference for an Interface.
func NewInterfaceRef(ctx RequestContext, i *model.Interface) (*InterfaceRef, error) {
	url, err := ctx.SelfLink(RouteInterface, i.ID)
	if err != nil {
		return nil, err
	}
	return &InterfaceRef{
		ID:      i.ID,
		URL:     url,
		Display: i.Display(),
		Device:  i.Device,
		Name:    i.Name,
	}, nil
}

// NewWirelessLAN maps a persisted WirelessLAN to its resource representation.
// An unset VLAN reference renders as null; a dangling one fails with an
// error marked ErrReferenceNotFound.
func NewWirelessLAN(ctx RequestContext, lan *model.WirelessLAN, refs RefResolver) (*WirelessLANResource, error) {
	url, err := ctx.SelfLink(RouteWirelessLAN, lan.ID)
	if err != nil {
		return nil, err
	}
	res := &WirelessLANResource{
		ID:          lan.ID,
		URL:         url,
		Display:     lan.Display(),
		SSID:        lan.SSID,
		Description: lan.Description,
	}
	if lan.VLANID != nil {
		vlan, err := refs.VLAN(*lan.VLANID)
		if err != nil {
			return nil, err
		}
		if res.VLAN, err = NewVLANRef(ctx, vlan); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// NewWirelessLink maps a persisted WirelessLink to its resource
// representation. Both interface references must be set and resolvable.
func NewWirelessLink(ctx RequestContext, link *model.WirelessLink, refs RefResolver) (*WirelessLinkResource, error) {
	if link.InterfaceAID == 0 || link.InterfaceBID == 0 {
		return nil, serializationErrorf("wireless link %d has an unset interface reference", link.ID)
	}
	url, err := ctx.SelfLink(RouteWirelessLink, link.ID)
	if err != nil {
		return nil, err
	}
	ifaceA, err := refs.Interface(link.InterfaceAID)
	if err != nil {
		return nil, err
	}
	ifaceB, err := refs.Interface(link.InterfaceBID)
	if err != nil {
		return nil, err
	}
	refA, err := NewInterfaceRef(ctx, ifaceA)
	if err != nil {
		return nil, err
	}
	refB, err := NewInterfaceRef(ctx, ifaceB)
	if err != nil {
		return nil, err
	}
	return &WirelessLinkResource{
		ID:          link.ID,
		URL:         url,
		Display:     link.Display(),
		InterfaceA:  refA,
		InterfaceB:  refB,
		SSID:        link.SSID,
		Description: link.Description,
	}, nil
}
