package http

import (
	"net/http"
)

func (s *Server) handleListQuickAdd(w http.ResponseWriter, r *http.Request) {
	options, err := s.svc.QuickAdd.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(options).Write(w, r)
}

func (s *Server) handleAddQuickAdd(w http.ResponseWriter, r *http.Request) {
	var req quickAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := s.svc.QuickAdd.Add(r.Context(), req.option(""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).JSON(q).Write(w, r)
}

func (s *Server) handleUpdateQuickAdd(w http.ResponseWriter, r *http.Request) {
	var req quickAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := s.svc.QuickAdd.Update(r.Context(), req.option(r.PathValue("id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(q).Write(w, r)
}

func (s *Server) handleDeleteQuickAdd(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.QuickAdd.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearQuickAdd(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.QuickAdd.ClearAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderQuickAdd(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	options, err := s.svc.QuickAdd.Reorder(r.Context(), req.IDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(options).Write(w, r)
}

func (s *Server) handleApplyQuickAdd(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.QuickAdd.Apply(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).Header("Location", "/api/transactions/"+t.ID).JSON(t).Write(w, r)
}
