package apiserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/serializer"
)

func (s *Server) handleListWirelessLANs(w http.ResponseWriter, r *http.Request) {
	lans, err := s.store.WirelessLANs().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	// Field filters.
	if ssid := r.URL.Query().Get("ssid"); ssid != "" {
		filtered := lans[:0]
		for _, lan := range lans {
			if lan.SSID == ssid {
				filtered = append(filtered, lan)
			}
		}
		lans = filtered
	}
	if raw := r.URL.Query().Get("vlan_id"); raw != "" {
		vlanID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid vlan_id filter")
			return
		}
		filtered := lans[:0]
		for _, lan := range lans {
			if lan.VLANID != nil && *lan.VLANID == vlanID {
				filtered = append(filtered, lan)
			}
		}
		lans = filtered
	}

	limit, offset, brief := listParams(r)
	count := len(lans)
	page := paginate(lans, limit, offset)
	ctx := serializer.ContextFromRequest(r)

	if brief {
		results := make([]*serializer.WirelessLANRef, 0, len(page))
		for i := range page {
			ref, err := serializer.NewWirelessLANRef(ctx, &page[i])
			if err != nil {
				s.writeSerializerError(w, err)
				return
			}
			results = append(results, ref)
		}
		writeJSON(w, http.StatusOK, listResponse{Count: count, Results: results})
		return
	}

	results := make([]*serializer.WirelessLANResource, 0, len(page))
	for i := range page {
		res, err := serializer.NewWirelessLAN(ctx, &page[i], s.resolver)
		if err != nil {
			s.writeSerializerError(w, err)
			return
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, listResponse{Count: count, Results: results})
}

func (s *Server) handleGetWirelessLAN(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lan, err := s.store.WirelessLANs().Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	res, err := serializer.NewWirelessLAN(serializer.ContextFromRequest(r), lan, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateWirelessLAN(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	lan, err := serializer.DecodeWirelessLAN(body, nil, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	if err := s.store.WirelessLANs().Create(lan); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	res, err := serializer.NewWirelessLAN(serializer.ContextFromRequest(r), lan, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleUpdateWirelessLAN handles PUT: a full replacement, so required fields
// are enforced exactly as on create.
func (s *Server) handleUpdateWirelessLAN(w http.ResponseWriter, r *http.Request) {
	s.updateWirelessLAN(w, r, false)
}

// handlePatchWirelessLAN handles PATCH: a partial update of the stored
// entity.
func (s *Server) handlePatchWirelessLAN(w http.ResponseWriter, r *http.Request) {
	s.updateWirelessLAN(w, r, true)
}

func (s *Server) updateWirelessLAN(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	existing, err := s.store.WirelessLANs().Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	var base *model.WirelessLAN
	if partial {
		base = existing
	}
	lan, err := serializer.DecodeWirelessLAN(body, base, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	lan.ID = id
	if err := s.store.WirelessLANs().Update(lan); err != nil {
		s.writeStoreError(w, err)
		return
	}
	res, err := serializer.NewWirelessLAN(serializer.ContextFromRequest(r), lan, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteWirelessLAN(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.WirelessLANs().Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	w.WriteHeader(http.StatusNoContent)
}

// refreshObjectCounts updates the object-count gauges after a mutation.
// Failures are ignored: gauges are best-effort.
func (s *Server) refreshObjectCounts() {
	lans, err := s.store.WirelessLANs().List()
	if err != nil {
		return
	}
	links, err := s.store.WirelessLinks().List()
	if err != nil {
		return
	}
	vlans, err := s.store.VLANs().List()
	if err != nil {
		return
	}
	ifaces, err := s.store.Interfaces().List()
	if err != nil {
		return
	}
	s.metrics.SetObjectCounts(len(lans), len(links), len(vlans), len(ifaces))
}
