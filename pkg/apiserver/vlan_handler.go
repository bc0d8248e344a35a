package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/serializer"
)

func (s *Server) handleListVLANs(w http.ResponseWriter, r *http.Request) {
	vlans, err := s.store.VLANs().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	limit, offset, _ := listParams(r)
	count := len(vlans)
	page := paginate(vlans, limit, offset)
	ctx := serializer.ContextFromRequest(r)
	results := make([]*serializer.VLANRef, 0, len(page))
	for i := range page {
		ref, err := serializer.NewVLANRef(ctx, &page[i])
		if err != nil {
			s.writeSerializerError(w, err)
			return
		}
		results = append(results, ref)
	}
	writeJSON(w, http.StatusOK, listResponse{Count: count, Results: results})
}

func (s *Server) handleGetVLAN(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vlan, err := s.store.VLANs().Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	ref, err := serializer.NewVLANRef(serializer.ContextFromRequest(r), vlan)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

func (s *Server) handleCreateVLAN(w http.ResponseWriter, r *http.Request) {
	var vlan model.VLAN
	if err := json.NewDecoder(r.Body).Decode(&vlan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if vlan.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if vlan.VID < 1 || vlan.VID > 4094 {
		writeError(w, http.StatusBadRequest, "vid must be between 1 and 4094")
		return
	}
	vlan.ID = 0
	if err := s.store.VLANs().Create(&vlan); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	ref, err := serializer.NewVLANRef(serializer.ContextFromRequest(r), &vlan)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (s *Server) handleDeleteVLAN(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The store refuses to delete a VLAN that a wireless LAN still
	// references; that surfaces here as a conflict.
	if err := s.store.VLANs().Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	w.WriteHeader(http.StatusNoContent)
}
