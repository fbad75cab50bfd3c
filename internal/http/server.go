// Package http serves the JSON API over the application services.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/security"
	"spendwise/internal/middleware/trace"
	"spendwise/internal/services"
)

// Options configures a Server.
type Options struct {
	Addr     string
	Services *services.Services
	// Clock supplies "today" for default dates and export file names.
	Clock services.Clock
	// Ready backs /readyz; nil always reports ready.
	Ready     func(ctx context.Context) error
	RateLimit ratelimit.Config
	Logger    *applog.Logger
}

type Server struct {
	http.Server
	svc      *services.Services
	clock    services.Clock
	ready    func(ctx context.Context) error
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}
	clock := opts.Clock
	if clock == nil {
		clock = services.SystemClock(time.Local)
	}

	s := &Server{
		svc:      opts.Services,
		clock:    clock,
		ready:    opts.Ready,
		limiter:  ratelimit.NewLimiter(opts.RateLimit),
		detector: security.NewDetector(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr: opts.Addr,
		Handler: chain(mux,
			applog.Middleware(logger),
			trace.Middleware,
			applog.AccessLog(s.detector.ClientIP),
			security.Headers(security.DefaultHeadersConfig()),
			s.detector.Middleware(false),
			s.limiter.Middleware(s.detector.ClientIP, onRateLimit, http.MethodPost, http.MethodPut, http.MethodDelete),
		),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// chain wraps h so the first middleware is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func onRateLimit(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later").Write(w, r)
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/categories", handleCategories)

	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/insights", s.handleInsights)
	mux.HandleFunc("GET /api/budgets/progress", s.handleBudgetProgress)
	mux.HandleFunc("GET /api/charts/{kind}", s.handleChart)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions", s.handleClearTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("DELETE /api/budgets", s.handleClearBudgets)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("DELETE /api/recurring", s.handleClearRecurring)
	mux.HandleFunc("PUT /api/recurring/{id}", s.handleUpdateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)
	mux.HandleFunc("POST /api/recurring/{id}/execute", s.handleExecuteRecurring)

	mux.HandleFunc("GET /api/quick-add", s.handleListQuickAdd)
	mux.HandleFunc("POST /api/quick-add", s.handleAddQuickAdd)
	mux.HandleFunc("DELETE /api/quick-add", s.handleClearQuickAdd)
	mux.HandleFunc("POST /api/quick-add/reorder", s.handleReorderQuickAdd)
	mux.HandleFunc("PUT /api/quick-add/{id}", s.handleUpdateQuickAdd)
	mux.HandleFunc("DELETE /api/quick-add/{id}", s.handleDeleteQuickAdd)
	mux.HandleFunc("POST /api/quick-add/{id}/apply", s.handleApplyQuickAdd)

	mux.HandleFunc("GET /api/export/{format}", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("DELETE /api/data", s.handleClearData)
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]string{"status": "ok"}).Write(w, r)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", "error", err)
			ErrorResponse(http.StatusServiceUnavailable, "not ready").Write(w, r)
			return
		}
	}
	NewResponse().JSON(map[string]string{"status": "ready"}).Write(w, r)
}
