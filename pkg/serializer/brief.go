package serializer

import "github.com/airwave-net/airwave/pkg/model"

// WirelessLANRef is the brief representation of a WirelessLAN, used when a
// client asks for a collection in brief mode.
type WirelessLANRef struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	SSID    string `json:"ssid"`
}

// WirelessLinkRef is the brief representation of a WirelessLink.
type WirelessLinkRef struct {
	ID      int64  `json:"id"`
	URL     string `json:"url"`
	Display string `json:"display"`
	SSID    string `json:"ssid"`
}

// NewWirelessLANRef builds the brief representation of a WirelessLAN.
func NewWirelessLANRef(ctx RequestContext, lan *model.WirelessLAN) (*WirelessLANRef, error) {
	url, err := ctx.SelfLink(RouteWirelessLAN, lan.ID)
	if err != nil {
		return nil, err
	}
	return &WirelessLANRef{
		ID:      lan.ID,
		URL:     url,
		Display: lan.Display(),
		SSID:    lan.SSID,
	}, nil
}

// NewWirelessLinkRef builds the brief representation of a WirelessLink.
func NewWirelessLinkRef(ctx RequestContext, link *model.WirelessLink) (*WirelessLinkRef, error) {
	url, err := ctx.SelfLink(RouteWirelessLink, link.ID)
	if err != nil {
		return nil, err
	}
	return &WirelessLinkRef{
		ID:      link.ID,
		URL:     url,
		Display: link.Display(),
		SSID:    link.SSID,
	}, nil
}
