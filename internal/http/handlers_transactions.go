package http

import (
	"net/http"

	"spendwise/internal/core"
)

func (s *Server) today() core.Date {
	return core.DateOf(s.clock())
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	txns, err := s.svc.Transactions.List(r.Context(), q.Filter, q.SortBy, q.Descending)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(txns).Write(w, r)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.svc.Transactions.Create(r.Context(), req.transaction("", s.today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).Header("Location", "/api/transactions/"+t.ID).JSON(t).Write(w, r)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(t).Write(w, r)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.svc.Transactions.Update(r.Context(), req.transaction(r.PathValue("id"), s.today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(t).Write(w, r)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryView struct {
	Name  core.Category `json:"name"`
	Color string        `json:"color"`
}

func handleCategories(w http.ResponseWriter, r *http.Request) {
	cats := core.Categories()
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView{Name: c, Color: c.Color()})
	}
	NewResponse().JSON(out).Write(w, r)
}
