// Package main provides the prediction pipeline command.
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
	"github.com/yourusername/pitch-edge/internal/features"
	"github.com/yourusername/pitch-edge/internal/health"
	applogger "github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/ml"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/repository"
	"github.com/yourusername/pitch-edge/internal/scheduler"
	"github.com/yourusername/pitch-edge/internal/service"
	"github.com/yourusername/pitch-edge/internal/valuebets"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	runDate    string
	minEV      float64
	limit      int
	outPath    string

	logger      *logrus.Logger
	cfg         *config.Config
	db          *database.DB
	repos       *repository.Repositories
	pipelineSvc *service.PipelineService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	valueBetsCmd.Flags().StringVar(&runDate, "date", "", "Run date (YYYY-MM-DD), defaults to today")
	valueBetsCmd.Flags().Float64Var(&minEV, "min-ev", -1, "Minimum expected value, defaults to the configured threshold")
	valueBetsCmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to print")
	featuresCmd.Flags().StringVarP(&outPath, "out", "o", "data/features.csv", "Output path for the feature table")
}

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Football match prediction pipeline",
	Long:  `Scores upcoming fixtures with the trained outcome model and ranks value bets against market odds.`,
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

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		recommendations, err := pipelineSvc.Run(cmd.Context(), time.Now().UTC())
		if err != nil {
			return err
		}
		printRecommendations(recommendations)
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score upcoming fixtures without ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		predictions, err := pipelineSvc.PredictUpcoming(cmd.Context(), time.Now().UTC())
		if err != nil {
			return err
		}
		for i := range predictions {
			p := &predictions[i]
			fmt.Printf("%s  %s vs %s  H %.3f  D %.3f  A %.3f\n",
				p.Date.Format("2006-01-02"), p.HomeTeam, p.AwayTeam,
				p.Probs.Home, p.Probs.Draw, p.Probs.Away)
		}
		return nil
	},
}

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Rebuild the historical feature table",
	Long:  `Replays the full match history chronologically and exports one labeled feature row per played match.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()

		written, skipped, err := pipelineSvc.RebuildFeatures(cmd.Context(), out)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d feature rows to %s (%d skipped)\n", written, outPath, skipped)
		return nil
	},
}

var valueBetsCmd = &cobra.Command{
	Use:   "value-bets",
	Short: "Show the stored value-bet table for a run date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if runDate != "" {
			parsed, err := time.Parse("2006-01-02", runDate)
			if err != nil {
				return fmt.Errorf("invalid --date: %w", err)
			}
			date = parsed
		}

		threshold := minEV
		if threshold < 0 {
			threshold = cfg.Pipeline.MinExpectedValue
		}

		recommendations, err := pipelineSvc.GetRankedValueBets(cmd.Context(), date, threshold, limit)
		if err != nil {
			return err
		}
		printRecommendations(recommendations)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline on its configured schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		sched := scheduler.NewScheduler(nil, pipelineSvc, logger)
		if err := sched.SchedulePipelineRun(cfg.DataIngestion.Schedule.PipelineRun); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		healthServer := health.NewServer(health.Config{
			ServiceName: "pitch-edge-pipeline",
			Version:     Version,
			Commit:      GitCommit,
			Logger:      logger,
			DB:          db,
			Metrics:     metricsHandler(),
		})
		if err := healthServer.Start(ctx); err != nil {
			return err
		}
		healthServer.SetReady(true)

		logger.WithField("next_run", sched.GetNextRun()).Info("Pipeline scheduler running")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("Shutting down")
		return sched.Stop()
	},
}

func main() {
	rootCmd.AddCommand(runCmd, predictCmd, featuresCmd, valueBetsCmd, serveCmd)

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

	artifact, err := ml.LoadArtifact(cfg.Model.ArtifactPath)
	if err != nil {
		return err
	}

	var calibrator ml.Calibrator
	if cfg.Model.CalibratorPath != "" {
		isotonic, err := ml.LoadCalibrator(cfg.Model.CalibratorPath)
		if err != nil {
			return err
		}
		calibrator = isotonic
	} else {
		logger.Warn("No calibrator configured, raw model probabilities pass through")
	}

	runLog := applogger.NewPipelineLogger(logger)
	runLog.LogModelLoad(artifact.Version(), len(artifact.FeatureColumns()), calibrator != nil)

	scorer := ml.NewScorer(artifact, calibrator, logger).
		WithClipBounds(cfg.Model.ClipLow, cfg.Model.ClipHigh)

	pipelineSvc = service.NewPipelineService(
		repos,
		features.NewAssembler(artifact, logger),
		scorer,
		valuebets.NewRanker(logger),
		cfg.Pipeline.UpcomingDays,
		logger,
	)
	return nil
}

func metricsHandler() http.Handler {
	if !cfg.Metrics.Enabled {
		return nil
	}
	metrics.InitRegistry()
	return metrics.Handler()
}

func printRecommendations(recommendations []models.Recommendation) {
	if len(recommendations) == 0 {
		fmt.Println("No recommendations")
		return
	}

	fmt.Printf("%-12s %-22s %-22s %-6s %8s %8s\n", "DATE", "HOME", "AWAY", "BET", "EV", "ODDS")
	for i := range recommendations {
		rec := &recommendations[i]
		odds := map[string]float64{
			models.OutcomeHome: rec.Odds.Home,
			models.OutcomeDraw: rec.Odds.Draw,
			models.OutcomeAway: rec.Odds.Away,
		}[rec.BestBet]

		marker := ""
		if !rec.Priced {
			marker = " (unpriced)"
		}
		fmt.Printf("%-12s %-22s %-22s %-6s %+8.3f %8.2f%s\n",
			rec.Date.Format("2006-01-02"), rec.HomeTeam, rec.AwayTeam, rec.BestBet, rec.BestEV, odds, marker)
	}
}
