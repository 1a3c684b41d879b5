package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/audiovault/logger"
	"github.com/kbukum/audiovault/server/endpoint"
	"github.com/kbukum/audiovault/server/middleware"
)

// Server is an HTTP server backed by Gin. Plain listeners speak h2c so
// HTTP/2 clients work without TLS; with TLS configured HTTP/2 is
// negotiated through ALPN.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	mux        *http.ServeMux
	handler    http.Handler
	config     Config
	log        *logger.Logger
	middleware []middleware.Middleware
}

// New creates a new Server. No middleware is applied yet.
func New(cfg Config, log *logger.Logger) *Server {
	// Set Gin mode based on global zerolog level.
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	mux := http.NewServeMux()
	mux.Handle("/", engine)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s := &Server{
		engine: engine,
		mux:    mux,
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	s.rebuildHandler()
	return s
}

func (s *Server) rebuildHandler() {
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	inner := middleware.Chain(s.middleware...)(s.mux)
	s.handler = h2c.NewHandler(inner, h2s)
	s.httpServer.Handler = s.handler
}

// GinEngine returns the underlying Gin engine for route registration.
func (s *Server) GinEngine() *gin.Engine {
	return s.engine
}

// Handler returns the full handler stack, including server-level middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start binds the port and begins serving. It returns once the listener is
// bound so the caller knows the port is ready; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("Starting HTTP server", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})

	useTLS := s.config.TLS.ServerEnabled()
	if useTLS {
		tlsCfg, err := s.config.TLS.ServerConfig()
		if err != nil {
			return err
		}
		s.httpServer.TLSConfig = tlsCfg
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.httpServer.Addr = listener.Addr().String()

	go func() {
		var err error
		if useTLS {
			err = s.httpServer.ServeTLS(listener, "", "")
		} else {
			err = s.httpServer.Serve(listener)
		}
		if err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("HTTP server started", map[string]interface{}{
		"addr": s.httpServer.Addr,
		"tls":  useTLS,
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("Server shutdown error", logger.ErrorFields("shutdown", err))
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("HTTP server shut down successfully")
	return nil
}

// URL returns the base URL clients should use.
func (s *Server) URL() string {
	if s.config.TLS.ServerEnabled() {
		return "https://" + s.httpServer.Addr
	}
	return "http://" + s.httpServer.Addr
}

// Addr returns the listen address; after Start it is the bound address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ApplyMiddleware installs the standard stack: recovery and request id on
// the Gin engine, then CORS, body-size limit and request logging around
// the whole handler.
func (s *Server) ApplyMiddleware() {
	s.engine.Use(middleware.Recovery(s.log))
	s.engine.Use(middleware.RequestID())

	s.middleware = append(s.middleware, middleware.CORS(&s.config.CORS))
	if s.config.MaxBodySize != "" {
		s.middleware = append(s.middleware, middleware.BodySizeLimit(s.config.MaxBodySize))
	}
	s.middleware = append(s.middleware, middleware.RequestLogger(s.log))
	s.rebuildHandler()
}

// RegisterDefaultEndpoints registers /health and /info.
func (s *Server) RegisterDefaultEndpoints(serviceName string, checker endpoint.HealthChecker) {
	s.engine.GET("/health", endpoint.Health(serviceName, checker))
	s.engine.GET("/info", endpoint.Info(serviceName))
}
