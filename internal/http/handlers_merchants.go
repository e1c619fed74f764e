package http

import (
	"net/http"

	"tracker/internal/core"
)

type merchantRequest struct {
	Name               string          `json:"name"`
	CategoryName       string          `json:"categoryName"`
	CategoryMultiplier core.Multiplier `json:"categoryMultiplier"`
}

func (s *Server) handleCreateMerchant(w http.ResponseWriter, r *http.Request) {
	var req merchantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := s.merchants.Create(r.Context(), req.Name, req.CategoryName, req.CategoryMultiplier)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetMerchant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	merchant, err := s.merchants.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merchant)
}

func (s *Server) handleGetMerchantByName(w http.ResponseWriter, r *http.Request) {
	merchant, err := s.merchants.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merchant)
}

func (s *Server) handleListMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := s.merchants.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, merchants)
}

func (s *Server) handleUpdateMerchant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req merchantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.merchants.Update(r.Context(), id, req.Name, req.CategoryName, req.CategoryMultiplier); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "merchant updated"})
}

func (s *Server) handleDeleteMerchant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	policy, err := core.ParseDeletePolicy(r.URL.Query().Get("policy"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.merchants.Delete(r.Context(), id, policy); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "merchant deleted"})
}
