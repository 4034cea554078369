package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"demodeck/internal/metrics"
	"demodeck/internal/vercel"

	"github.com/gin-gonic/gin"
)

// DefaultAddr is where `demodeck serve` listens unless configured.
const DefaultAddr = "127.0.0.1:3000"

// NewRouter builds the gin engine serving the proxy route, a health check
// and, when m is non-nil, the metrics endpoint.
func NewRouter(b Backend, m *metrics.Metrics, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), observe(m))

	h := &handler{backend: b}
	r.GET(vercel.Path, h.get)
	r.POST(vercel.Path, h.post)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return r
}

type handler struct {
	backend Backend
}

func (h *handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	switch action := c.Query("action"); action {
	case vercel.ActionTeams:
		teams, err := h.backend.Teams(ctx)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"teams": teams})
	case vercel.ActionProjects:
		projects, err := h.backend.Projects(ctx, c.Query("teamId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects})
	case vercel.ActionProject:
		id, ok := projectID(c)
		if !ok {
			return
		}
		p, err := h.backend.Project(ctx, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	case vercel.ActionEnv:
		id, ok := projectID(c)
		if !ok {
			return
		}
		envs, err := h.backend.Envs(ctx, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"envs": envs})
	default:
		fail(c, unknownAction(action))
	}
}

func (h *handler) post(c *gin.Context) {
	action := c.Query("action")
	if action != vercel.ActionEnv {
		fail(c, unknownAction(action))
		return
	}
	id, ok := projectID(c)
	if !ok {
		return
	}
	var req vercel.CreateEnvRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidEnv.Error() + ": " + err.Error()})
		return
	}
	created, err := h.backend.CreateEnv(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": created})
}

func projectID(c *gin.Context) (string, bool) {
	id := c.Query("projectId")
	if id == "" {
		fail(c, ErrMissingProject)
		return "", false
	}
	return id, true
}

func unknownAction(action string) error {
	return &actionError{action: action}
}

type actionError struct{ action string }

func (e *actionError) Error() string {
	if e.action == "" {
		return "action is required"
	}
	return ErrUnknownAction.Error() + ": " + e.action
}
func (e *actionError) Unwrap() error { return ErrUnknownAction }

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEnv):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrMissingProject), errors.Is(err, ErrInvalidEnv):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"action", c.Query("action"),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.URL.Path == vercel.Path {
			m.ObserveRequest(c.Query("action"), c.Request.Method, c.Writer.Status())
		}
	}
}

// Server runs the router on a TCP listener.
type Server struct {
	server *http.Server
	logger *slog.Logger
	ln     net.Listener
}

// NewServer wraps handler for addr ("" uses DefaultAddr).
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start binds the listener and serves in a background goroutine. Bind
// errors are returned; serve errors are logged.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("proxy server stopped", "error", err)
		}
	}()
	s.logger.Info("proxy listening", "addr", ln.Addr().String())
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.server.Addr
}
