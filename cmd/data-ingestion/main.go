// Package main provides the data ingestion command.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pitch-edge/internal/config"
	"github.com/yourusername/pitch-edge/internal/database"
	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/health"
	applogger "github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/repository"
	"github.com/yourusername/pitch-edge/internal/scheduler"
	"github.com/yourusername/pitch-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	sourceName string
	fromDate   string
	toDate     string

	logger       *logrus.Logger
	cfg          *config.Config
	db           *database.DB
	repos        *repository.Repositories
	ingestionSvc *service.IngestionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&sourceName, "source", "s", "", "Data source name (defaults to the first enabled source)")
	resultsCmd.Flags().StringVar(&fromDate, "from", "", "Start date (YYYY-MM-DD), defaults to the configured history start")
	resultsCmd.Flags().StringVar(&toDate, "to", "", "End date (YYYY-MM-DD), defaults to today")
}

var rootCmd = &cobra.Command{
	Use:   "data-ingestion",
	Short: "Football data ingestion service",
	Long:  `Fetches match results, upcoming fixtures and market odds from the configured providers into the canonical store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Backfill historical match results",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDateOr(fromDate, cfg.Pipeline.HistoryStartDate)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		end, err := parseDateOr(toDate, time.Now().UTC().Format("2006-01-02"))
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}

		run, err := ingestionSvc.IngestHistoricalResults(cmd.Context(), resolveSource(), start, end)
		if err != nil {
			return err
		}
		fmt.Println(run.String())
		return nil
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Fetch upcoming fixtures for the prediction horizon",
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := ingestionSvc.IngestUpcomingFixtures(cmd.Context(), resolveSource(), time.Now().UTC(), cfg.Pipeline.UpcomingDays)
		if err != nil {
			return err
		}
		fmt.Println(run.String())
		return nil
	},
}

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Refresh odds for stored upcoming fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := ingestionSvc.RefreshOdds(cmd.Context(), resolveSource(), time.Now().UTC(), cfg.Pipeline.UpcomingDays)
		if err != nil {
			return err
		}
		fmt.Printf("updated odds for %d fixtures\n", updated)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled ingestion jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(resultsCmd, fixturesCmd, oddsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	db, err = database.NewDB(dbCtx, &cfg.Database)
	if err != nil {
		return err
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return err
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.Provider.RetryAttempts,
		RetryWaitMin:      time.Second,
		RetryWaitMax:      30 * time.Second,
		RequestsPerMinute: cfg.Provider.RateLimitPerMinute,
		CircuitBreakerMax: 5,
	}, logger)

	factory := datasource.NewFactory(cfg, logger)
	sources, err := factory.NewDataSources(cfg.DataIngestion, httpClient)
	if err != nil {
		return err
	}

	batchSize := 0
	for _, src := range cfg.DataIngestion.Sources {
		if src.Enabled && src.BatchSize > 0 {
			batchSize = src.BatchSize
			break
		}
	}

	ingestionSvc = service.NewIngestionService(
		sources,
		repos.Match,
		repos.Fixture,
		service.NewDataValidator(logger),
		service.NewDataNormalizer(logger),
		logger,
		batchSize,
	)
	return nil
}

func serve(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	schedule := cfg.DataIngestion.Schedule
	source := resolveSource()

	sched := scheduler.NewScheduler(ingestionSvc, nil, logger)
	if err := sched.ScheduleResultsSync(schedule.ResultsSync, source); err != nil {
		return err
	}
	if err := sched.ScheduleFixtureSync(schedule.FixtureSync, source, cfg.Pipeline.UpcomingDays); err != nil {
		return err
	}
	if err := sched.ScheduleOddsPolling(schedule.OddsPollingIntervalSeconds, source, cfg.Pipeline.UpcomingDays); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	// Live odds pushes supplement the polling cycle when the provider exposes
	// a stream endpoint.
	if cfg.Provider.StreamURL != "" {
		if err := startOddsStream(ctx); err != nil {
			logger.WithError(err).Warn("Odds stream unavailable, relying on polling only")
		}
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsHandler = metrics.Handler()
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: "pitch-edge-ingestion",
		Version:     Version,
		Commit:      GitCommit,
		Logger:      logger,
		DB:          db,
		Metrics:     metricsHandler,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}
	healthServer.SetReady(true)

	logger.WithField("next_run", sched.GetNextRun()).Info("Ingestion scheduler running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")
	return sched.Stop()
}

func startOddsStream(ctx context.Context) error {
	stream := datasource.NewOddsStreamClient(cfg.Provider.StreamURL, cfg.Provider.APIKey, logger)
	stream.AddHandler(func(update datasource.OddsUpdate) error {
		handlerCtx, handlerCancel := context.WithTimeout(ctx, 5*time.Second)
		defer handlerCancel()
		return ingestionSvc.HandleStreamUpdate(handlerCtx, update)
	})

	if err := stream.Connect(ctx); err != nil {
		return err
	}
	if err := stream.Authenticate(ctx); err != nil {
		return err
	}

	fixtures, err := repos.Fixture.GetUpcoming(ctx, time.Now().UTC(), cfg.Pipeline.UpcomingDays)
	if err != nil {
		return err
	}
	fixtureIDs := make([]int64, len(fixtures))
	for i := range fixtures {
		fixtureIDs[i] = fixtures[i].FixtureID
	}
	if err := stream.SubscribeToFixtures(ctx, fixtureIDs); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		stream.Close()
	}()

	return nil
}

// resolveSource returns the --source flag value or the first enabled source.
func resolveSource() string {
	if sourceName != "" {
		return sourceName
	}
	for _, src := range cfg.DataIngestion.Sources {
		if src.Enabled {
			return src.Name
		}
	}
	return ""
}

func parseDateOr(value, fallback string) (time.Time, error) {
	if value == "" {
		value = fallback
	}
	return time.Parse("2006-01-02", value)
}
