package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"spendwise/internal/export"
	"spendwise/internal/services"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := s.svc.Data.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, snap); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		Attachment(format.Filename(s.today())).
		Body(format.ContentType(), buf.Bytes()).
		Write(w, r)
}

// handleImport replaces all data with a backup document.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	snap, err := export.ReadBackup(body)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if !errors.As(err, &maxBytes) {
			err = fmt.Errorf("%w: %w", services.ErrInvalidInput, err)
		}
		writeError(w, r, err)
		return
	}
	if err := s.svc.Data.Import(r.Context(), snap); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(map[string]int{
		"transactions": len(snap.Transactions),
		"budgets":      len(snap.Budgets),
		"recurring":    len(snap.Recurring),
		"quickAdd":     len(snap.QuickAdd),
	}).Write(w, r)
}

func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Data.ClearAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
