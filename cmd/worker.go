package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"example.com/storebunk/services/pos/clients"
	"example.com/storebunk/services/pos/domain"
	"example.com/storebunk/services/pos/eventstore"
	"example.com/storebunk/services/pos/handlers"
	"example.com/storebunk/services/pos/models"
	"example.com/storebunk/services/pos/projections"
	"example.com/storebunk/services/pos/repository"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the projection and lifecycle worker",
	Long:  `Start the background worker that projects events into the read models and sweeps idle draft orders`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	log.Info().Msg("Starting worker")

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DBSource), &gorm.Config{})
	if err != nil {
		return err
	}

	// Auto migrate tables
	if cfg.EnableMigrations {
		err = db.AutoMigrate(&models.Event{}, &models.Terminal{}, &models.Shift{}, &models.PosSession{}, &models.SessionOrder{})
		if err != nil {
			return err
		}
	}

	// Initialize Elasticsearch client
	esClient, err := projections.NewElasticsearchClient(cfg)
	if err != nil {
		return err
	}

	if err := projections.EnsureIndices(esClient, cfg); err != nil {
		return err
	}

	// Initialize projectors
	terminalProjector := projections.NewTerminalProjector(db, esClient, cfg)
	shiftProjector := projections.NewShiftProjector(db, esClient, cfg)
	sessionProjector := projections.NewSessionProjector(db, esClient, cfg)

	// Initialize and start the event processor
	processor := projections.NewEventProcessor(db, terminalProjector, shiftProjector, sessionProjector)
	processor.Start()

	// Initialize the draft lifecycle sweeps
	eventStore := eventstore.NewGormEventStore(db)
	sessionRepo := repository.NewPosSessionRepository(eventStore)
	shiftRepo := repository.NewShiftRepository(eventStore)
	sessionQueries := projections.NewSessionQueries(db)
	enforcement := domain.NewMultiTerminalEnforcementService()

	sessionHandler := handlers.NewSessionHandler(
		sessionRepo,
		shiftRepo,
		enforcement,
		sessionQueries,
		clients.NewLoggingOrderingService(),
		clients.NewLoggingInventoryService(),
		clients.NewLoggingPaymentService(),
	)

	lifecycle := handlers.NewDraftLifecycleService(
		sessionHandler,
		sessionQueries,
		time.Duration(cfg.DraftDeactivationMinutes)*time.Minute,
		time.Duration(cfg.DraftCancellationMinutes)*time.Minute,
	)

	// Run the sweeps on a schedule
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(time.Minute),
			gocron.NewTask(func() {
				if err := lifecycle.SweepDeactivations(ctx); err != nil {
					log.Error().Err(err).Msg("Draft deactivation sweep failed")
				}
				if err := lifecycle.SweepCancellations(ctx); err != nil {
					log.Error().Err(err).Msg("Draft cancellation sweep failed")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		// Wait for context cancellation
		<-ctx.Done()

		return scheduler.Shutdown()
	})

	// Wait for any goroutine to exit
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("Worker error")
		processor.Stop()
		return err
	}

	log.Info().Msg("Shutting down worker...")
	processor.Stop()

	log.Info().Msg("Worker exited properly")
	return nil
}
