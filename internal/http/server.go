package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/cache"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/core"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/engine"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/log"
	"github.com/tekinf2025/controle-financeiro-tekinfo/internal/repository"
	appweb "github.com/tekinf2025/controle-financeiro-tekinfo/web"
)

// filteredView is a derived view of the ledger: the records matching a
// filter plus their totals. Cached per filter key and discarded whole
// on any mutation.
type filteredView struct {
	Items  []core.Lancamento
	Totals engine.Totals
}

type Server struct {
	http.Server
	templates   *template.Template
	repo        *repository.Repository
	rateLimiter *rateLimiter

	viewCache *cache.LRUCache[filteredView]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, repo *repository.Repository, viewTTL time.Duration) *Server {
	mux := http.NewServeMux()

	if viewTTL <= 0 {
		viewTTL = 5 * time.Minute
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		repo:             repo,
		rateLimiter:      newRateLimiter(),
		viewCache:        cache.NewLRUCache[filteredView](100, viewTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/lancamentos", s.withSecurityHeaders(s.handleCreateLancamento))
	mux.HandleFunc("/lancamentos/update", s.withSecurityHeaders(s.handleUpdateLancamento))
	mux.HandleFunc("/lancamentos/pagar", s.withSecurityHeaders(s.handleMarkPaid))
	mux.HandleFunc("/lancamentos/delete", s.withSecurityHeaders(s.handleDeleteLancamento))
	mux.HandleFunc("/export/csv", s.withSecurityHeaders(s.handleExportCSV))
	// UI partials
	mux.HandleFunc("/ui/lancamentos", s.withSecurityHeaders(s.handleTablePartial))
	mux.HandleFunc("/ui/resumo", s.withSecurityHeaders(s.handleSummaryPartial))

	return s
}

// startCacheCleanup drops expired view entries in the background.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.viewCache.CleanExpired(); cleaned > 0 {
				slog.Debug("View cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// view returns the filtered records and totals for a filter, serving
// from the view cache when the ledger has not changed since.
func (s *Server) view(ctx context.Context, f engine.Filter) filteredView {
	key := f.Key()
	if v, found := s.viewCache.Get(key); found {
		slog.DebugContext(ctx, "View cache hit", "filter", key)
		return v
	}

	items := engine.Apply(s.repo.Snapshot(), f)
	v := filteredView{Items: items, Totals: engine.Aggregate(items)}
	s.viewCache.Set(key, v)
	slog.DebugContext(ctx, "View cached", "filter", key, "count", len(items))
	return v
}

// invalidateViews drops every cached view. Called after any mutation:
// a changed ledger can invalidate any filter's result.
func (s *Server) invalidateViews() {
	s.viewCache.Clear()
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
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
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldURL, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"),
			log.FieldComponent, log.ComponentHTTP)

		// Rate limit mutations only; reads are cheap against the cache.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldURL, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Limite de requisições atingido. Tente novamente em instantes.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldURL, r.URL.Path,
			log.FieldStatus, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP,
			log.FieldComponent, log.ComponentHTTP)
	}
}

type requestIDKey struct{}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
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

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil || !s.repo.Loaded() {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
