package http

import (
	"fmt"
	"net/http"

	"tracker/internal/core"
	"tracker/internal/services"
)

// transactionRequest is the JSON body for both adding and updating a
// transaction. On update every field is optional.
type transactionRequest struct {
	MerchantName       string          `json:"merchantName"`
	CategoryName       string          `json:"categoryName"`
	CategoryMultiplier core.Multiplier `json:"categoryMultiplier"`
	Amount             *core.Money     `json:"amount"`
	Date               *core.Date      `json:"date"`
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Amount == nil {
		writeError(w, r, fmt.Errorf("%w: amount is required", core.ErrInvalidInput))
		return
	}
	if req.Date == nil {
		writeError(w, r, fmt.Errorf("%w: date is required", core.ErrInvalidInput))
		return
	}

	draft := core.TransactionDraft{
		MerchantName:       req.MerchantName,
		CategoryName:       req.CategoryName,
		CategoryMultiplier: req.CategoryMultiplier,
		Amount:             *req.Amount,
		Date:               *req.Date,
	}
	id, err := s.transactions.Add(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := s.transactions.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	report, err := s.transactions.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListTransactionsByMerchantID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := s.transactions.ListByMerchantID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListTransactionsByMerchantName(w http.ResponseWriter, r *http.Request) {
	report, err := s.transactions.ListByMerchantName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListTransactionsByCategory(w http.ResponseWriter, r *http.Request) {
	report, err := s.transactions.ListByCategoryName(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListTransactionsByDate(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := s.transactions.ListByDateRange(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	upd := services.TransactionUpdate{
		MerchantName:       req.MerchantName,
		CategoryName:       req.CategoryName,
		CategoryMultiplier: req.CategoryMultiplier,
		Amount:             req.Amount,
		Date:               req.Date,
	}
	if err := s.transactions.Update(r.Context(), id, upd); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction updated"})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
}

func parseDateParam(r *http.Request, key string) (core.Date, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return core.Date{}, fmt.Errorf("%w: query parameter %q is required", core.ErrInvalidInput, key)
	}
	date, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, err
	}
	return date, nil
}
