package http

import (
	"bytes"
	"net/http"

	"spendwise/internal/budget"
	"spendwise/internal/report"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Analytics.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(ov).Write(w, r)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Analytics.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(ov.Analytics).Write(w, r)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ov, err := s.svc.Analytics.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(ov.Insights).Write(w, r)
}

// handleBudgetProgress lists progress for every budget, or with
// ?status=warning|danger|exceeded only those at least that severe.
func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	threshold := budget.Safe
	if v := r.URL.Query().Get("status"); v != "" {
		switch st := budget.Status(v); st {
		case budget.Safe, budget.Warning, budget.Danger, budget.Exceeded:
			threshold = st
		default:
			writeError(w, r, badRequest("unknown budget status %q", v))
			return
		}
	}
	ov, err := s.svc.Analytics.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(ov.Alerts(threshold)).Write(w, r)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseChartKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ov, err := s.svc.Analytics.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.RenderChart(&buf, kind, ov.Analytics); err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().
		Header("Cache-Control", "no-store").
		Body("image/png", buf.Bytes()).
		Write(w, r)
}
