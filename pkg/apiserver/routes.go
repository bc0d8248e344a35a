package apiserver

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/airwave-net/airwave/pkg/serializer"
	"github.com/airwave-net/airwave/pkg/store"
)

// registerRoutes wires all API v1 routes into the server mux. Detail routes
// are registered with and without a trailing slash: the canonical self-link
// URLs carry the slash, but plain paths work too.
func (s *Server) registerRoutes() {
	// Health probes
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)

	// Metrics endpoint
	s.mux.Handle("GET /metrics", s.metrics.Handler())

	// Status
	s.mux.HandleFunc("GET /api/v1/status", s.handleStatus)

	// Wireless LANs
	s.mux.HandleFunc("GET /api/v1/wireless/wireless-lans", s.handleListWirelessLANs)
	s.mux.HandleFunc("POST /api/v1/wireless/wireless-lans", s.handleCreateWirelessLAN)
	s.detail("GET", "/api/v1/wireless/wireless-lans", s.handleGetWirelessLAN)
	s.detail("PUT", "/api/v1/wireless/wireless-lans", s.handleUpdateWirelessLAN)
	s.detail("PATCH", "/api/v1/wireless/wireless-lans", s.handlePatchWirelessLAN)
	s.detail("DELETE", "/api/v1/wireless/wireless-lans", s.handleDeleteWirelessLAN)

	// Wireless links
	s.mux.HandleFunc("GET /api/v1/wireless/wireless-links", s.handleListWirelessLinks)
	s.mux.HandleFunc("POST /api/v1/wireless/wireless-links", s.handleCreateWirelessLink)
	s.detail("GET", "/api/v1/wireless/wireless-links", s.handleGetWirelessLink)
	s.detail("PUT", "/api/v1/wireless/wireless-links", s.handleUpdateWirelessLink)
	s.detail("PATCH", "/api/v1/wireless/wireless-links", s.handlePatchWirelessLink)
	s.detail("DELETE", "/api/v1/wireless/wireless-links", s.handleDeleteWirelessLink)

	// VLANs (referenced collection)
	s.mux.HandleFunc("GET /api/v1/ipam/vlans", s.handleListVLANs)
	s.mux.HandleFunc("POST /api/v1/ipam/vlans", s.handleCreateVLAN)
	s.detail("GET", "/api/v1/ipam/vlans", s.handleGetVLAN)
	s.detail("DELETE", "/api/v1/ipam/vlans", s.handleDeleteVLAN)

	// Interfaces (referenced collection)
	s.mux.HandleFunc("GET /api/v1/dcim/interfaces", s.handleListInterfaces)
	s.mux.HandleFunc("POST /api/v1/dcim/interfaces", s.handleCreateInterface)
	s.detail("GET", "/api/v1/dcim/interfaces", s.handleGetInterface)
	s.detail("DELETE", "/api/v1/dcim/interfaces", s.handleDeleteInterface)
}

// detail registers a handler for both "<base>/{id}" and "<base>/{id}/".
func (s *Server) detail(method, base string, h http.HandlerFunc) {
	s.mux.HandleFunc(method+" "+base+"/{id}", h)
	s.mux.HandleFunc(method+" "+base+"/{id}/{$}", h)
}

// handleHealthz is a liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz is a readiness probe.
func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleStatus reports object counts, mostly for the CLI dashboard.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	lans, err := s.store.WirelessLANs().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	links, err := s.store.WirelessLinks().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	vlans, err := s.store.VLANs().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	ifaces, err := s.store.Interfaces().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.metrics.SetObjectCounts(len(lans), len(links), len(vlans), len(ifaces))
	writeJSON(w, http.StatusOK, map[string]any{
		"version":        Version,
		"wireless_lans":  len(lans),
		"wireless_links": len(links),
		"vlans":          len(vlans),
		"interfaces":     len(ifaces),
	})
}

// listResponse is the envelope for collection endpoints.
type listResponse struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeSerializerError maps a serializer failure to the right status code:
// validation problems are the client's fault, everything else is ours.
func (s *Server) writeSerializerError(w http.ResponseWriter, err error) {
	if verr, ok := serializer.AsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, verr.Fields)
		return
	}
	s.log.Error("serialization failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal serialization error")
}

// writeStoreError maps a store failure to 404/409/500.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case store.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("store operation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
