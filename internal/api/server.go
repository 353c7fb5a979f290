// Package api serves parallel verse text over HTTP and WebSocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FocuswithJustin/JuniperParallel/core/catalog"
	"github.com/FocuswithJustin/JuniperParallel/internal/config"
	"github.com/FocuswithJustin/JuniperParallel/internal/logging"
	"github.com/FocuswithJustin/JuniperParallel/internal/reader"
	"github.com/FocuswithJustin/JuniperParallel/internal/server"
)

// TranslationLister lists installed translations.
type TranslationLister interface {
	List(ctx context.Context) ([]catalog.Translation, error)
}

// Options configures a Server.
type Options struct {
	Config  config.ServerConfig
	Reader  *reader.Service
	Catalog TranslationLister
	Version string
}

// Server is the API server.
type Server struct {
	opts    Options
	started time.Time
	limiter *RateLimiter
}

// New creates a Server. Rate limiting is enabled when
// Config.RateLimit is positive.
func New(opts Options) *Server {
	s := &Server{opts: opts, started: time.Now()}
	if opts.Config.RateLimit > 0 {
		s.limiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: opts.Config.RateLimit,
			BurstSize:         opts.Config.RateBurst,
		})
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /translations", s.handleTranslations)
	mux.HandleFunc("GET /verses", s.handleVerses)
	mux.HandleFunc("GET /translation", s.handleTranslation)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	})
	return mux
}

// Handler returns the routes wrapped in the middleware chain. From the
// outside in: request ID and access log, CORS, rate limit, auth, security
// headers.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = server.SecurityHeaders(server.APICSPConfig(), s.routes())

	handler = AuthMiddleware(s.opts.Config.APIKey, handler)
	logging.SecurityEvent("authentication_configured", "api", "enabled", s.opts.Config.APIKey != "")

	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
		logging.Info("rate limiting enabled",
			"requests_per_minute", s.opts.Config.RateLimit,
			"burst_size", s.limiter.config.BurstSize)
	}

	handler = server.CORSMiddleware(server.CORSConfig{AllowedOrigins: s.opts.Config.AllowedOrigins}, handler)
	if len(s.opts.Config.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.opts.Config.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api", "mode", "permissive")
	}

	return logging.CombinedMiddleware(handler)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	cfg := s.opts.Config
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	tls := cfg.TLSCertFile != ""
	protocol, wsProtocol := "http", "ws"
	if tls {
		protocol, wsProtocol = "https", "wss"
	}
	logging.ServerStartup("rest_api", protocol, cfg.Port, "websocket_protocol", wsProtocol)

	errCh := make(chan error, 1)
	go func() {
		var err error
		if tls {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.Info("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	}
}
