package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/serializer"
)

func (s *Server) handleListInterfaces(w http.ResponseWriter, r *http.Request) {
	ifaces, err := s.store.Interfaces().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if device := r.URL.Query().Get("device"); device != "" {
		filtered := ifaces[:0]
		for _, iface := range ifaces {
			if iface.Device == device {
				filtered = append(filtered, iface)
			}
		}
		ifaces = filtered
	}
	limit, offset, _ := listParams(r)
	count := len(ifaces)
	page := paginate(ifaces, limit, offset)
	ctx := serializer.ContextFromRequest(r)
	results := make([]*serializer.InterfaceRef, 0, len(page))
	for i := range page {
		ref, err := serializer.NewInterfaceRef(ctx, &page[i])
		if err != nil {
			s.writeSerializerError(w, err)
			return
		}
		results = append(results, ref)
	}
	writeJSON(w, http.StatusOK, listResponse{Count: count, Results: results})
}

func (s *Server) handleGetInterface(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	iface, err := s.store.Interfaces().Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	ref, err := serializer.NewInterfaceRef(serializer.ContextFromRequest(r), iface)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

func (s *Server) handleCreateInterface(w http.ResponseWriter, r *http.Request) {
	var iface model.Interface
	if err := json.NewDecoder(r.Body).Decode(&iface); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if iface.Device == "" {
		writeError(w, http.StatusBadRequest, "device is required")
		return
	}
	if iface.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	iface.ID = 0
	if err := s.store.Interfaces().Create(&iface); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	ref, err := serializer.NewInterfaceRef(serializer.ContextFromRequest(r), &iface)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (s *Server) handleDeleteInterface(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The store refuses to delete an interface that a wireless link still
	// terminates on; that surfaces here as a conflict.
	if err := s.store.Interfaces().Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	w.WriteHeader(http.StatusNoContent)
}
