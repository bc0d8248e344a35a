package serializer

import (
	"fmt"
	"net/http"
	"strings"
)

// Route names for hyperlink identity. Each name maps to the path template of
// the resource's detail view.
const (
	RouteWirelessLAN  = "wireless-lan"
	RouteWirelessLink = "wireless-link"
	RouteVLAN         = "vlan"
	RouteInterface    = "interface"
)

// routeTemplates maps a route name to its detail path template. Canonical
// resource URLs carry a trailing slash.
var routeTemplates = map[string]string{
	RouteWirelessLAN:  "/api/v1/wireless/wireless-lans/%d/",
	RouteWirelessLink: "/api/v1/wireless/wireless-links/%d/",
	RouteVLAN:         "/api/v1/ipam/vlans/%d/",
	RouteInterface:    "/api/v1/dcim/interfaces/%d/",
}

// RoutePath returns the relative detail path for a route name and id, without
// the request's base URL. It is the pure (route, id) → path half of self-link
// generation and can be tested without any HTTP plumbing.
func RoutePath(route string, id int64) (string, error) {
	tmpl, ok := routeTemplates[route]
	if !ok {
		return "", serializationErrorf("unknown route %q", route)
	}
	return fmt.Sprintf(tmpl, id), nil
}

// RequestContext carries the request-scoped information the serializer needs
// to produce absolute self-link URLs. A zero RequestContext is invalid and
// causes self-link resolution to fail.
type RequestContext struct {
	// BaseURL is the scheme and authority of the serving endpoint, without a
	// trailing slash, e.g. "https://airwave.example.com".
	BaseURL string
}

// ContextFromRequest derives a RequestContext from an inbound request. The
// scheme honours X-Forwarded-Proto so self-links survive TLS-terminating
// proxies.
func ContextFromRequest(r *http.Request) RequestContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return RequestContext{BaseURL: scheme + "://" + r.Host}
}

// SelfLink resolves the absolute URL identifying the resource of the given
// route and id. Fails with ErrSerialization when the context is empty or the
// route name is unknown.
func (c RequestContext) SelfLink(route string, id int64) (string, error) {
	if c.BaseURL == "" {
		return "", serializationErrorf("request context has no base URL for route %q", route)
	}
	path, err := RoutePath(route, id)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(c.BaseURL, "/") + path, nil
}
