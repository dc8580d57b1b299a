package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/config"
	"example.com/storebunk/services/pos/handlers"
)

// Server is the HTTP server for the API
type Server struct {
	cfg             config.Config
	router          *gin.Engine
	httpServer      *http.Server
	db              *gorm.DB
	terminalHandler *handlers.TerminalHandler
	shiftHandler    *handlers.ShiftHandler
	sessionHandler  *handlers.SessionHandler
	offlineHandler  *handlers.OfflineHandler
	nrApp           *newrelic.Application
}

// NewServer creates a new API server
func NewServer(
	cfg config.Config,
	db *gorm.DB,
	terminalHandler *handlers.TerminalHandler,
	shiftHandler *handlers.ShiftHandler,
	sessionHandler *handlers.SessionHandler,
	offlineHandler *handlers.OfflineHandler,
	nrApp *newrelic.Application,
) *Server {
	server := &Server{
		cfg:             cfg,
		router:          gin.Default(),
		db:              db,
		terminalHandler: terminalHandler,
		shiftHandler:    shiftHandler,
		sessionHandler:  sessionHandler,
		offlineHandler:  offlineHandler,
		nrApp:           nrApp,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware adds middleware to the router
func (s *Server) setupMiddleware() {
	// Add request ID middleware
	s.router.Use(RequestIDMiddleware())

	// Add CORS middleware
	s.router.Use(CORSMiddleware())

	// Add recovery middleware
	s.router.Use(gin.Recovery())

	// Add logging middleware
	s.router.Use(LoggingMiddleware())

	// Add New Relic middleware
	if s.nrApp != nil {
		s.router.Use(nrgin.Middleware(s.nrApp))
	}
}

// setupRoutes defines the API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// API v1 group
	v1 := s.router.Group("/api/v1")

	// Terminal routes
	terminalRoutes := v1.Group("/terminals")
	{
		terminalRoutes.POST("", s.registerTerminal)
		terminalRoutes.GET("/:id", s.getTerminal)
		terminalRoutes.POST("/:id/activate", s.activateTerminal)
		terminalRoutes.POST("/:id/disable", s.disableTerminal)
		terminalRoutes.POST("/:id/maintenance", s.setTerminalMaintenance)
		terminalRoutes.POST("/:id/decommission", s.decommissionTerminal)
		terminalRoutes.POST("/:id/recommission", s.recommissionTerminal)
		terminalRoutes.POST("/:id/rename", s.renameTerminal)
		terminalRoutes.POST("/:id/reassign", s.reassignTerminal)
	}

	// Shift routes
	shiftRoutes := v1.Group("/shifts")
	{
		shiftRoutes.POST("", s.openShift)
		shiftRoutes.GET("/:id", s.getShift)
		shiftRoutes.POST("/:id/cash-drops", s.recordCashDrop)
		shiftRoutes.POST("/:id/close", s.closeShift)
		shiftRoutes.POST("/:id/force-close", s.forceCloseShift)
	}

	// Session routes
	sessionRoutes := v1.Group("/sessions")
	{
		sessionRoutes.POST("", s.startSession)
		sessionRoutes.GET("/:id", s.getSession)
		sessionRoutes.POST("/:id/orders", s.startNewOrder)
		sessionRoutes.POST("/:id/orders/offline", s.startNewOrderOffline)
		sessionRoutes.POST("/:id/orders/park", s.parkOrder)
		sessionRoutes.POST("/:id/orders/resume", s.resumeOrder)
		sessionRoutes.POST("/:id/orders/reactivate", s.reactivateOrder)
		sessionRoutes.POST("/:id/orders/sync", s.syncOrderOnline)
		sessionRoutes.POST("/:id/checkout", s.initiateCheckout)
		sessionRoutes.POST("/:id/payments", s.requestPayment)
		sessionRoutes.POST("/:id/complete", s.completeOrder)
		sessionRoutes.POST("/:id/cancel", s.cancelOrder)
		sessionRoutes.POST("/:id/end", s.endSession)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.HTTPServerAddress,
		Handler: s.router,
	}

	log.Info().Msgf("HTTP server starting on %s", s.cfg.HTTPServerAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
