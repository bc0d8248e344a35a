package apiserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/airwave-net/airwave/pkg/model"
	"github.com/airwave-net/airwave/pkg/serializer"
)

func (s *Server) handleListWirelessLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.store.WirelessLinks().List()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	if ssid := r.URL.Query().Get("ssid"); ssid != "" {
		filtered := links[:0]
		for _, l := range links {
			if l.SSID == ssid {
				filtered = append(filtered, l)
			}
		}
		links = filtered
	}
	if raw := r.URL.Query().Get("interface_id"); raw != "" {
		ifaceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid interface_id filter")
			return
		}
		filtered := links[:0]
		for _, l := range links {
			if l.InterfaceAID == ifaceID || l.InterfaceBID == ifaceID {
				filtered = append(filtered, l)
			}
		}
		links = filtered
	}

	limit, offset, brief := listParams(r)
	count := len(links)
	page := paginate(links, limit, offset)
	ctx := serializer.ContextFromRequest(r)

	if brief {
		results := make([]*serializer.WirelessLinkRef, 0, len(page))
		for i := range page {
			ref, err := serializer.NewWirelessLinkRef(ctx, &page[i])
			if err != nil {
				s.writeSerializerError(w, err)
				return
			}
			results = append(results, ref)
		}
		writeJSON(w, http.StatusOK, listResponse{Count: count, Results: results})
		return
	}

	results := make([]*serializer.WirelessLinkResource, 0, len(page))
	for i := range page {
		res, err := serializer.NewWirelessLink(ctx, &page[i], s.resolver)
		if err != nil {
			s.writeSerializerError(w, err)
			return
		}
		results = append(results, res)
	}
	writeJSON(w, http.StatusOK, listResponse{Count: count, Results: results})
}

func (s *Server) handleGetWirelessLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	link, err := s.store.WirelessLinks().Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	res, err := serializer.NewWirelessLink(serializer.ContextFromRequest(r), link, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateWirelessLink(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	link, err := serializer.DecodeWirelessLink(body, nil, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	if err := s.store.WirelessLinks().Create(link); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	res, err := serializer.NewWirelessLink(serializer.ContextFromRequest(r), link, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateWirelessLink(w http.ResponseWriter, r *http.Request) {
	s.updateWirelessLink(w, r, false)
}

func (s *Server) handlePatchWirelessLink(w http.ResponseWriter, r *http.Request) {
	s.updateWirelessLink(w, r, true)
}

func (s *Server) updateWirelessLink(w http.ResponseWriter, r *http.Request, partial bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	existing, err := s.store.WirelessLinks().Get(id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	var base *model.WirelessLink
	if partial {
		base = existing
	}
	link, err := serializer.DecodeWirelessLink(body, base, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	link.ID = id
	if err := s.store.WirelessLinks().Update(link); err != nil {
		s.writeStoreError(w, err)
		return
	}
	res, err := serializer.NewWirelessLink(serializer.ContextFromRequest(r), link, s.resolver)
	if err != nil {
		s.writeSerializerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteWirelessLink(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.WirelessLinks().Delete(id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.refreshObjectCounts()
	w.WriteHeader(http.StatusNoContent)
}
