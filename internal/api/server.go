// Package api serves the bodyweight persistence API over HTTP.
//
// Each model kind gets one collection path (/exercises, /routines, /sections,
// /sectionExercises) with list, create, show, update and delete. Bodies are
// wrapped in an envelope keyed by the model name and relationships are
// integer ids.
package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Server struct {
	db        *sql.DB
	logger    *zap.Logger
	token     string
	namespace string
	tracer    trace.TracerProvider
	registry  *prometheus.Registry
	metrics   *metrics
	engine    *gin.Engine
}

type Option func(*Server)

// WithToken requires "Authorization: Token <token>" on every resource route.
func WithToken(token string) Option {
	return func(s *Server) { s.token = strings.TrimSpace(token) }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracerProvider sets where request spans go; the global provider is used
// otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracer = tp }
}

func WithNamespace(ns string) Option {
	return func(s *Server) { s.namespace = strings.Trim(strings.TrimSpace(ns), "/") }
}

func New(db *sql.DB, opts ...Option) *Server {
	s := &Server{
		db:       db,
		logger:   zap.NewNop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.GetTracerProvider()
	}
	s.metrics = newMetrics(s.registry)
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		otelgin.Middleware("bodyweight-api", otelgin.WithTracerProvider(s.tracer)),
		requestID(),
		s.accessLog(),
		s.metrics.middleware(),
	)

	r.GET("/healthz", func(c *gin.Context) {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	base := "/"
	if s.namespace != "" {
		base += s.namespace
	}
	g := r.Group(base, tokenAuth(s.token))

	g.GET("/exercises", listExercises(s.db))
	g.POST("/exercises", createExercise(s.db))
	g.GET("/exercises/:id", showExercise(s.db))
	g.PUT("/exercises/:id", updateExercise(s.db))
	g.DELETE("/exercises/:id", deleteExercise(s.db))

	g.GET("/routines", listRoutines(s.db))
	g.POST("/routines", createRoutine(s.db))
	g.GET("/routines/:id", showRoutine(s.db))
	g.PUT("/routines/:id", updateRoutine(s.db))
	g.DELETE("/routines/:id", deleteRoutine(s.db))

	g.GET("/sections", listSections(s.db))
	g.POST("/sections", createSection(s.db))
	g.GET("/sections/:id", showSection(s.db))
	g.PUT("/sections/:id", updateSection(s.db))
	g.DELETE("/sections/:id", deleteSection(s.db))

	g.GET("/sectionExercises", listSectionExercises(s.db))
	g.POST("/sectionExercises", createSectionExercise(s.db))
	g.GET("/sectionExercises/:id", showSectionExercise(s.db))
	g.PUT("/sectionExercises/:id", updateSectionExercise(s.db))
	g.DELETE("/sectionExercises/:id", deleteSectionExercise(s.db))

	return r
}

func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	s.logger.Info("api stopped")
	return nil
}
