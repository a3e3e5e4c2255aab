// Package server exposes the agents and Sophie over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sweetpotato0/socratiq/api"
	"github.com/sweetpotato0/socratiq/config"
	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/pkg/logging"
)

// Attributor returns the attribution metadata of a document collection.
type Attributor interface {
	Attribution(ctx context.Context, collection string) (map[string]any, error)
}

type agentEntry struct {
	handler    api.AgentHandler
	collection string
}

// Server routes HTTP requests to the agent and orchestrator handlers.
type Server struct {
	pipeline   *api.Pipeline
	agents     map[string]agentEntry
	sophie     api.OrchestratorHandler
	attributor Attributor
	ready      func(context.Context) error
	metrics    http.Handler
	mcp        http.Handler
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithPipeline sets the api pipeline requests are served through.
func WithPipeline(p *api.Pipeline) Option {
	return func(s *Server) { s.pipeline = p }
}

// WithAgent serves h at /v1/agents/<name> with its document collection.
func WithAgent(name string, h api.AgentHandler, collection string) Option {
	return func(s *Server) {
		s.agents[strings.ToUpper(name)] = agentEntry{handler: h, collection: collection}
	}
}

// WithOrchestrator serves h at /v1/sophie.
func WithOrchestrator(h api.OrchestratorHandler) Option {
	return func(s *Server) { s.sophie = h }
}

// WithAttributor serves collection attribution metadata.
func WithAttributor(a Attributor) Option {
	return func(s *Server) { s.attributor = a }
}

// WithReadiness sets the /readyz check.
func WithReadiness(fn func(context.Context) error) Option {
	return func(s *Server) { s.ready = fn }
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithMCPHandler serves the streamable MCP endpoint h at /mcp.
func WithMCPHandler(h http.Handler) Option {
	return func(s *Server) { s.mcp = h }
}

// WithLogger overrides the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server.
func New(opts ...Option) *Server {
	s := &Server{
		agents: make(map[string]agentEntry),
		logger: logging.WithComponent("server"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pipeline == nil {
		s.pipeline = api.NewPipeline(api.WithLogger(s.logger))
	}
	return s
}

// Handler builds the gin engine.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	r.Use(traceMiddleware(s.logger))

	r.GET("/healthz", s.healthz)
	r.GET("/readyz", s.readyz)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}
	if s.mcp != nil {
		r.Any("/mcp", gin.WrapH(s.mcp))
	}

	v1 := r.Group("/v1")
	{
		v1.POST("/sophie", s.handleSophie)
		v1.POST("/agents/:agent", s.handleAgent)
		v1.GET("/agents/:agent/attribution", s.handleAttribution)
		v1.GET("/agents", s.listAgents)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) readyz(c *gin.Context) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) handleSophie(c *gin.Context) {
	if s.sophie == nil {
		s.notFound(c, "Orchestrator is not served by this instance")
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.writeError(c, errorskg.Validation("Invalid JSON in request body"))
		return
	}
	status, body := s.pipeline.ServeOrchestrator(c.Request.Context(), s.sophie, raw)
	c.Data(status, "application/json", body)
}

func (s *Server) handleAgent(c *gin.Context) {
	name := strings.ToUpper(c.Param("agent"))
	entry, ok := s.agents[name]
	if !ok {
		s.notFound(c, "Unknown agent: "+name)
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.writeError(c, errorskg.Validation("Invalid JSON in request body"))
		return
	}
	status, body := s.pipeline.ServeAgent(c.Request.Context(), entry.handler, api.AgentSurface(name), raw)
	c.Data(status, "application/json", body)
}

func (s *Server) handleAttribution(c *gin.Context) {
	name := strings.ToUpper(c.Param("agent"))
	entry, ok := s.agents[name]
	if !ok || s.attributor == nil {
		s.notFound(c, "Unknown agent: "+name)
		return
	}
	if entry.collection == "" {
		s.writeError(c, errorskg.MissingConfig(config.CollectionEnv(name)))
		return
	}
	meta, err := s.attributor.Attribution(c.Request.Context(), entry.collection)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agent": name, "collection": entry.collection, "attribution": meta})
}

func (s *Server) listAgents(c *gin.Context) {
	names := make([]string, 0, len(s.agents))
	for _, name := range config.AgentNames {
		if _, ok := s.agents[name]; ok {
			names = append(names, name)
		}
	}
	c.JSON(http.StatusOK, gin.H{"agents": names, "orchestrator": s.sophie != nil})
}

func (s *Server) writeError(c *gin.Context, err error) {
	body := api.NewErrorBody(err, traceFrom(c), s.now())
	logging.FromContext(c.Request.Context(), s.logger).Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(body.StatusCode, body)
}

func (s *Server) notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, api.ErrorBody{
		Error:      "NotFoundError",
		Message:    msg,
		StatusCode: http.StatusNotFound,
		TraceID:    traceFrom(c),
		Timestamp:  s.now().UTC(),
	})
}
