// Package http exposes the ledger engine as a JSON API. Requests carry an
// X-Owner-Token header that the identity provider resolves to an owner;
// every downstream call is scoped to that owner.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"orcamento/internal/identity"
	"orcamento/internal/ledger"
	"orcamento/internal/log"
	"orcamento/internal/middleware/ratelimit"
	"orcamento/internal/middleware/security"
	"orcamento/internal/middleware/trace"
)

type Server struct {
	http.Server
	svc      *ledger.Service
	ids      identity.Provider
	logs     *log.StructuredLogger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *ledger.Service, ids identity.Provider) *Server {
	mux := http.NewServeMux()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:      svc,
		ids:      ids,
		logs:     log.NewStructuredLogger(logger),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, s.logs)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/accounts", s.withOwner(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withOwner(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", s.withOwner(s.handleGetAccount))
	mux.HandleFunc("GET /api/accounts/{id}/balance", s.withOwner(s.handleAccountBalance))
	mux.HandleFunc("GET /api/accounts/{id}/credit-usage", s.withOwner(s.handleCreditUsage))
	mux.HandleFunc("GET /api/accounts/{id}/invoice", s.withOwner(s.handleInvoice))

	mux.HandleFunc("GET /api/categories", s.withOwner(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withOwner(s.handleCreateCategory))

	mux.HandleFunc("GET /api/entries", s.withOwner(s.handleListEntries))
	mux.HandleFunc("POST /api/entries", s.withOwner(s.handleCreateEntry))
	mux.HandleFunc("GET /api/entries/{id}", s.withOwner(s.handleGetEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.withOwner(s.handleDeleteEntry))
	mux.HandleFunc("POST /api/entries/{id}/status", s.withOwner(s.handleChangeStatus))

	mux.HandleFunc("POST /api/installments", s.withOwner(s.handleCreateInstallmentPlan))
	mux.HandleFunc("GET /api/installments/{groupID}", s.withOwner(s.handleInstallmentGroup))

	mux.HandleFunc("POST /api/transfers", s.withOwner(s.handleTransfer))
	mux.HandleFunc("GET /api/transfers/{transferID}", s.withOwner(s.handleTransferPair))
	mux.HandleFunc("POST /api/invoices/settle", s.withOwner(s.handleSettleInvoice))

	mux.HandleFunc("GET /api/debts", s.withOwner(s.handleListDebts))
	mux.HandleFunc("POST /api/debts", s.withOwner(s.handleCreateDebt))
	mux.HandleFunc("POST /api/debts/{id}/payments", s.withOwner(s.handleDebtPayment))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, nil)

	withLogger := log.Middleware(logger)
	withRequestID := log.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: withLogger(headers.Middleware(s.tracer.Middleware(withRequestID(s.flagSuspicious(limited(mux)))))),
	}

	return s
}

// flagSuspicious records and logs requests matching known scanner patterns.
// Detection is advisory; the request still proceeds to the router, which
// will 404 anything that is not a real route.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Suspicious request detected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r),
				log.FieldComponent, log.ComponentSecurity)
		}
		next.ServeHTTP(w, r)
	})
}

// TrustProxies registers proxy networks whose forwarded headers are
// honored when resolving client IPs.
func (s *Server) TrustProxies(cidrs []string) error {
	for _, cidr := range cidrs {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// ownerHandler is a request handler that has already been authenticated.
type ownerHandler func(w http.ResponseWriter, r *http.Request, ownerID string)

// withOwner resolves the X-Owner-Token header to an owner id before
// dispatching. No token or an unknown token means 401; handlers never see
// unauthenticated requests.
func (s *Server) withOwner(next ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := s.ids.Resolve(r.Context(), r.Header.Get("X-Owner-Token"))
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
		next(w, r, ownerID)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{
		"rate_limiter": map[string]any{
			"active_clients": s.limiter.ActiveClients(),
			"status":         "ok",
		},
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}
