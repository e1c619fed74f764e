// Package http exposes the tracker services over a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"tracker/internal/services"
)

type Server struct {
	http.Server
	transactions *services.TransactionService
	merchants    *services.MerchantService
	categories   *services.CategoryService
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, ts *services.TransactionService, ms *services.MerchantService, cs *services.CategoryService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		transactions: ts,
		merchants:    ms,
		categories:   cs,
		rateLimiter:  newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /transactions", s.wrap(s.handleAddTransaction))
	mux.HandleFunc("GET /transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("GET /transactions/by-date", s.wrap(s.handleListTransactionsByDate))
	mux.HandleFunc("GET /transactions/by-merchant/{id}", s.wrap(s.handleListTransactionsByMerchantID))
	mux.HandleFunc("GET /transactions/by-merchant-name/{name}", s.wrap(s.handleListTransactionsByMerchantName))
	mux.HandleFunc("GET /transactions/by-category/{name}", s.wrap(s.handleListTransactionsByCategory))
	mux.HandleFunc("GET /transactions/{id}", s.wrap(s.handleGetTransaction))
	mux.HandleFunc("PATCH /transactions/{id}", s.wrap(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.wrap(s.handleDeleteTransaction))

	mux.HandleFunc("POST /merchants", s.wrap(s.handleCreateMerchant))
	mux.HandleFunc("GET /merchants", s.wrap(s.handleListMerchants))
	mux.HandleFunc("GET /merchants/by-name/{name}", s.wrap(s.handleGetMerchantByName))
	mux.HandleFunc("GET /merchants/{id}", s.wrap(s.handleGetMerchant))
	mux.HandleFunc("PATCH /merchants/{id}", s.wrap(s.handleUpdateMerchant))
	mux.HandleFunc("DELETE /merchants/{id}", s.wrap(s.handleDeleteMerchant))

	mux.HandleFunc("POST /categories", s.wrap(s.handleCreateCategory))
	mux.HandleFunc("GET /categories", s.wrap(s.handleListCategories))
	mux.HandleFunc("GET /categories/by-name/{name}", s.wrap(s.handleGetCategoryByName))
	mux.HandleFunc("GET /categories/{id}", s.wrap(s.handleGetCategory))
	mux.HandleFunc("PATCH /categories/{id}", s.wrap(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.wrap(s.handleDeleteCategory))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
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

// wrap adds security headers, rate limiting, and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Mutating requests are rate limited; reads are not.
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
