package devstub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradeforge/accountsync/internal/config"
	"github.com/tradeforge/accountsync/pkg/logger"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second

	// seededCacheEntries is the initial size of the simulated AI cache.
	seededCacheEntries = 42
)

// Server is the local development backend: it fakes the platform's account
// API and the payment processor's checkout/return redirect so the
// synchronization layer can be exercised without real services.
type Server struct {
	// logger is the logger instance
	logger *logger.Logger

	// router is the HTTP router
	router *gin.Engine
	// port is the port on which the server will listen
	port int

	// server is the underlying HTTP server
	server *http.Server

	store *Store
	cfg   *config.Config

	// cacheMu guards the simulated AI cache entry count.
	cacheMu      sync.Mutex
	cacheEntries int
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// NewServer creates a new local backend server instance
func NewServer(store *Store, cfg *config.Config, logger *logger.Logger) *Server {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Add CORS middleware
	router.Use(corsMiddleware())

	server := &Server{
		router:       router,
		port:         cfg.APIPort,
		store:        store,
		cfg:          cfg,
		logger:       logger,
		cacheEntries: seededCacheEntries,
	}

	// Define routes
	server.routes()

	return server
}

// Handler exposes the router for httptest-driven tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() {
	addr := fmt.Sprintf("0.0.0.0:%v", s.port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.logger.Info("Starting local backend server", "address", addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("Failed to start the local backend server: ", err)
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down local backend server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.logger.Info("Local backend server shut down successfully")
	return nil
}
