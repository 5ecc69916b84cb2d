// Package stubapi is a self-contained stand-in for the compliance review
// backend. It implements the same wire contract the client speaks, backed
// by sqlite, so the full annotation flow can run locally and in integration
// tests without the real service.
package stubapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sedhha/policy-mate-sub000/internal/database"
)

// Server represents the stub HTTP server
type Server struct {
	engine             *gin.Engine
	httpServer         *http.Server
	db                 *database.DB
	routeConfig        RouteConfig
	rateLimiters       *sync.Map
	cleanupInitialized sync.Once
	cleanupStop        chan struct{}

	dependencies *Dependencies
}

// NewServer creates a new stub server listening on address
func NewServer(address string) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		engine:       engine,
		rateLimiters: &sync.Map{},
		cleanupStop:  make(chan struct{}),
		httpServer: &http.Server{
			Addr:           address,
			Handler:        engine,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(db *database.DB) {
	s.db = db
	s.dependencies = &Dependencies{DB: db}
}

// SetRouteConfig sets auth and rate limit settings. Call before Initialize.
func (s *Server) SetRouteConfig(cfg RouteConfig) {
	s.routeConfig = cfg
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware, routes and the schema
func (s *Server) Initialize() error {
	if s.db != nil {
		err := s.db.AutoMigrate(&AnnotationRecord{}, &MessageRecord{}, &SessionMetricsRecord{})
		if err != nil {
			return err
		}
	}

	s.engine.Use(gin.Logger())
	s.engine.Use(CORS())
	s.engine.Use(RequestSizeLimit())

	return RegisterRoutes(s.engine, s.dependencies, s.routeConfig, s.rateLimiters, s.cleanupStop, &s.cleanupInitialized)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.cleanupStop)
	return s.httpServer.Shutdown(ctx)
}
