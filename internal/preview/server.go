package preview

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jjfiv/quizdown/pkg/invoker"
	"github.com/jjfiv/quizdown/pkg/orchestrator"
)

//go:embed static/index.html
var staticFiles embed.FS

// DefaultMaxBodyBytes limits request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger routes request logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigins sets the CORS origins. "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append([]string(nil), origins...)
	}
}

// WithConfiguration sets the render configuration that per-request theme and
// lang parameters are applied on top of.
func WithConfiguration(cfg invoker.Configuration) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// Server is the preview HTTP server.
type Server struct {
	orch    *orchestrator.Orchestrator
	config  invoker.Configuration
	logger  *log.Logger
	origins []string
	maxBody int64
	router  chi.Router
}

// New builds a Server over orch.
func New(orch *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("preview: orchestrator is required")
	}
	s := &Server{
		orch:    orch,
		logger:  log.New(io.Discard),
		origins: []string{"*"},
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.logger), middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleIndex)
	r.Post("/render", s.handleRender)
	r.Post("/qti", s.handleQTI)
	r.Get("/themes", s.handleThemes)
	r.Get("/config", s.handleConfig)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("preview: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("preview: shutdown: %w", err)
		}
		return nil
	}
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// requestConfiguration applies the theme and lang query parameters.
func (s *Server) requestConfiguration(r *http.Request) (invoker.Configuration, error) {
	cfg := s.config
	var err error
	if theme := strings.TrimSpace(r.URL.Query().Get("theme")); theme != "" {
		if cfg, err = invoker.Override(cfg, "syntax.theme", theme); err != nil {
			return nil, err
		}
	}
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		if cfg, err = invoker.Override(cfg, "syntax.default_lang", lang); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
