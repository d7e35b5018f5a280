// Package gin exposes the conversion boundary over HTTP.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fwojciec/postpdf"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// Server defaults.
const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultFormat          = "pdf"
	DefaultRateLimit       = 10
	DefaultRateBurst       = 20
)

// Server serves the HTTP API.
type Server struct {
	converter postpdf.Converter
	renderers map[string]postpdf.Renderer
	spool     postpdf.Spool

	logger          *slog.Logger
	now             func() time.Time
	limiter         *rate.Limiter
	shutdownTimeout time.Duration
	defaultFormat   string

	router  *gin.Engine
	handler http.Handler

	mu     sync.Mutex
	server *http.Server
	ln     net.Listener

	// OnShutdown runs after the listener has stopped, before Close returns.
	OnShutdown func() error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock sets the time source for health timestamps and timings.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithShutdownTimeout bounds how long Close waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithDefaultFormat sets the output format used when a request omits one.
func WithDefaultFormat(format string) Option {
	return func(s *Server) {
		s.defaultFormat = format
	}
}

// NewServer creates a Server. renderers maps format names (pdf, html, md)
// to the renderer producing them.
func NewServer(converter postpdf.Converter, renderers map[string]postpdf.Renderer, spool postpdf.Spool, opts ...Option) *Server {
	s := &Server{
		converter:       converter,
		renderers:       renderers,
		spool:           spool,
		logger:          slog.New(slog.DiscardHandler),
		now:             time.Now,
		limiter:         rate.NewLimiter(DefaultRateLimit, DefaultRateBurst),
		shutdownTimeout: DefaultShutdownTimeout,
		defaultFormat:   DefaultFormat,
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(LoggerMiddleware(s.logger))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter))
	}
	s.routes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "ETag", "X-Processing-Time", "X-Content-Type"},
		MaxAge:         300,
	}).Handler(s.router)

	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/validate", s.handleValidate)
	s.router.POST("/convert", s.handleConvert)
	s.router.NoRoute(s.handleNotFound)
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the listening address, or empty before Open.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Open starts listening on addr and serves in the background.
func (s *Server) Open(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.ln, s.server = ln, srv
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "err", err)
		}
	}()
	return nil
}

// Close stops the server, waiting up to the shutdown timeout for
// in-flight requests, then runs OnShutdown.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	var errs []error
	if srv != nil {
		s.logger.Info("shutting down HTTP server", "timeout", s.shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}
	if s.OnShutdown != nil {
		if err := s.OnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run serves on addr until ctx is done or SIGINT/SIGTERM arrives, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Open(addr); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context canceled, shutting down")
	}

	// The parent context may already be canceled.
	return s.Close(context.Background())
}
