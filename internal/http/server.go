// Package http exposes the tracker as a JSON API: the chatbot endpoint, CRUD
// for transactions, budgets and categories, the dashboard, and the websocket
// chat channel.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/cache"
	"fintrack/internal/chat"
	"fintrack/internal/files"
	"fintrack/internal/storage"
)

// EventPublisher notifies the budget worker of transaction changes. Nil when
// messaging is not configured; the server then recalculates inline.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, transactionID int64, userID, category, op string) error
}

type Server struct {
	http.Server

	store  storage.Store
	router *chat.Router
	files  *files.Manager
	events EventPublisher
	auth   Authenticator

	rateLimiter  *rateLimiter
	chartCache   *cache.LRU[[]byte]
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
// events and auth may be nil; auth falls back to header identification.
func NewServer(addr string, store storage.Store, router *chat.Router, fm *files.Manager, events EventPublisher, auth Authenticator) *Server {
	mux := http.NewServeMux()

	if auth == nil {
		auth = HeaderAuthenticator{}
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		router:      router,
		files:       fm,
		events:      events,
		auth:        auth,
		rateLimiter: newRateLimiter(),
		chartCache:  cache.NewLRU[[]byte](64, time.Minute),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /api/chatbot/sendMessage", s.withCommon(s.withAuth(s.handleSendMessage)))

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withCommon(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withCommon(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.withAuth(s.handleDeleteTransaction)))
	mux.HandleFunc("GET /api/transactions/{id}/attachment", s.withCommon(s.withAuth(s.handleGetAttachment)))

	mux.HandleFunc("GET /api/budgets", s.withCommon(s.withAuth(s.handleListBudgets)))
	mux.HandleFunc("POST /api/budgets", s.withCommon(s.withAuth(s.handleCreateBudget)))
	mux.HandleFunc("GET /api/budgets/{id}", s.withCommon(s.withAuth(s.handleGetBudget)))
	mux.HandleFunc("PUT /api/budgets/{id}", s.withCommon(s.withAuth(s.handleUpdateBudget)))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withCommon(s.withAuth(s.handleDeleteBudget)))

	mux.HandleFunc("GET /api/categories", s.withCommon(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withCommon(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withCommon(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/dashboard/summary", s.withCommon(s.withAuth(s.handleDashboardSummary)))
	mux.HandleFunc("GET /api/dashboard/chart", s.withCommon(s.withAuth(s.handleDashboardChart)))

	mux.HandleFunc("GET /ws/chat", s.withAuth(s.handleChatSocket))

	return s
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withCommon adds a request ID, security headers, rate limiting on writes,
// and request logging.
func (s *Server) withCommon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter captures the status code for request logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
