package http

import (
	"net/http"

	"spendwise/internal/core"
)

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Recurring.ListWithStatus(r.Context(), s.clock())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(views).Write(w, r)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.Recurring.Create(r.Context(), req.recurring("", s.today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(rec).Write(w, r)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := s.svc.Recurring.Update(r.Context(), req.recurring(r.PathValue("id"), s.today()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(rec).Write(w, r)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Recurring.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Recurring.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type executeResponse struct {
	Transaction core.Transaction      `json:"transaction"`
	Recurring   core.RecurringExpense `json:"recurring"`
}

func (s *Server) handleExecuteRecurring(w http.ResponseWriter, r *http.Request) {
	tx, rec, err := s.svc.Recurring.Execute(r.Context(), r.PathValue("id"), s.clock())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(executeResponse{Transaction: tx, Recurring: rec}).Write(w, r)
}
