package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/api"
	"example.com/storebunk/services/pos/cache"
	"example.com/storebunk/services/pos/clients"
	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
	"example.com/storebunk/services/pos/handlers"
	"example.com/storebunk/services/pos/messaging"
	"example.com/storebunk/services/pos/models"
	"example.com/storebunk/services/pos/projections"
	"example.com/storebunk/services/pos/repository"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Run:   runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) {
	log.Info().Msg("Starting server")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DBSource), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Auto migrate tables
	if cfg.EnableMigrations {
		err = db.AutoMigrate(&models.Event{}, &models.Terminal{}, &models.Shift{}, &models.PosSession{}, &models.SessionOrder{})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	// Initialize event store and repositories
	eventStore := eventstore.NewGormEventStore(db)
	terminalRepo := repository.NewTerminalRepository(eventStore)
	shiftRepo := repository.NewShiftRepository(eventStore)
	sessionRepo := repository.NewPosSessionRepository(eventStore)

	// Initialize read-model queries
	sessionQueries := projections.NewSessionQueries(db)
	shiftQueries := projections.NewShiftQueries(db)

	// Initialize domain services
	enforcement := domain.NewMultiTerminalEnforcementService()
	closePolicy := domain.NewShiftClosePolicy()
	pendingSync := domain.NewPendingSyncQueue()

	// Initialize idempotency registry, falling back to in-process when Redis
	// is unreachable
	var idempotency handlers.IdempotencyRegistry
	redisRegistry, err := cache.NewRedisIdempotencyRegistry(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis, using in-memory idempotency registry")
		idempotency = handlers.NewMemoryIdempotencyRegistry()
	} else {
		idempotency = redisRegistry
		defer redisRegistry.Close()
	}

	// Initialize external context clients
	ordering := clients.NewLoggingOrderingService()
	inventory := clients.NewLoggingInventoryService()
	payment := clients.NewLoggingPaymentService()

	// Initialize command handlers
	terminalHandler := handlers.NewTerminalHandler(terminalRepo)
	shiftHandler := handlers.NewShiftHandler(shiftRepo, terminalRepo, enforcement, closePolicy, shiftQueries, sessionQueries)
	sessionHandler := handlers.NewSessionHandler(sessionRepo, shiftRepo, enforcement, sessionQueries, ordering, inventory, payment)
	offlineHandler := handlers.NewOfflineHandler(sessionRepo, idempotency, pendingSync, ordering)

	// Initialize Azure Service Bus client
	azureClient, err := messaging.NewAzureClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Azure Service Bus")
	}

	// Initialize message processor
	msgProcessor := messaging.NewProcessor(sessionHandler, offlineHandler, shiftHandler)

	// Start message consumers
	go func() {
		if err := azureClient.StartConsumers(cfg.AzureOfflineCommandsQueue, msgProcessor); err != nil {
			log.Fatal().Err(err).Msg("Failed to start offline commands queue consumer")
		}
	}()

	// Initialize New Relic
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize New Relic, continuing without tracing")
		}
	}

	// Initialize server
	server := api.NewServer(cfg, db, terminalHandler, shiftHandler, sessionHandler, offlineHandler, nrApp)

	// Start HTTP server
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
