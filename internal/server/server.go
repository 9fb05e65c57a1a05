// Package server exposes the dashboard service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rcliao/educator-insights/internal/dashboard"
	"github.com/rcliao/educator-insights/internal/result"
)

const (
	HeaderRequestID  = "X-Request-Id"
	HeaderPrincipal  = "X-Principal-Id"
	HeaderEmail      = "X-Principal-Email"
	HeaderAttributes = "X-Principal-Attributes"

	sessionKey = "session"
)

// Server wires the gin engine to a dashboard.Service.
type Server struct {
	svc    *dashboard.Service
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the engine and registers every route.
func New(svc *dashboard.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestID(), s.accessLog())
	s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/api/v1", s.session())
	v1.GET("/whoami", s.handleWhoami)
	v1.GET("/conversations", s.handleConversations)
	v1.GET("/conversations/raw", s.handleRawConversations)
	v1.GET("/conversations/:id", s.handleConversationDetails)
	v1.GET("/characters/stats", s.handleCharacterStats)
	v1.GET("/dashboard/stats", s.handleDashboardStats)
	v1.GET("/children", s.handleChildren)
	v1.GET("/children/:id/:kind", s.handleChildAnalytics)
	v1.GET("/students", s.handleStudents)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(HeaderRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", c.GetString(HeaderRequestID)),
		)
	}
}

// session resolves the caller once per request and stores the Session.
func (s *Server) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := PrincipalFromHeaders(c.Request.Header)
		if err != nil {
			respond(c, result.Fail[struct{}](http.StatusBadRequest, err.Error()))
			c.Abort()
			return
		}
		c.Set(sessionKey, s.svc.Session(c.Request.Context(), p))
		c.Next()
	}
}

func sessionFrom(c *gin.Context) dashboard.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(dashboard.Session); ok {
			return sess
		}
	}
	return dashboard.Session{}
}

// respond writes r with its own status. Status 0 means no upstream
// response was received and is reported as 502.
func respond[T any](c *gin.Context, r result.Result[T]) {
	status := r.Status()
	if status == result.StatusNetwork {
		status = http.StatusBadGateway
	}
	c.JSON(status, r)
}
