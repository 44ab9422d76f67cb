package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/axiomhq/constellation"
	"github.com/axiomhq/constellation/samplefile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	format     string
	seed       int64
	jsonPath   string

	// users flags
	userID       string
	historyLimit int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "constellation",
	Short: "Lay out sanity samples as a constellation of decile buckets",
	Long: `constellation groups sanity samples (0-100) into ten decile buckets,
places the active buckets in 3D with a force-directed layout and prints
each bucket's average, color and position.

Inputs are JSON or CSV files, optionally gzip or xz compressed. JSON may be
an array of records or an object with "sessions" and "snapshots" arrays.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout [file or glob]",
	Short: "Compute one constellation snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayout,
}

var statsCmd = &cobra.Command{
	Use:   "stats [file or glob]",
	Short: "Print aggregate statistics and the current mood",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var usersCmd = &cobra.Command{
	Use:   "users [file or glob]",
	Short: "Print per-user session counts, or one user's history with --user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsers,
}

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Recompute the constellation whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML layout configuration")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed for the layout (0 = time based)")
	rootCmd.PersistentFlags().StringVar(&jsonPath, "jsonpath", "", "JSONPath selecting sample records")

	usersCmd.Flags().StringVar(&userID, "user", "", "Show this user's session history")
	usersCmd.Flags().IntVar(&historyLimit, "limit", constellation.DefaultHistoryLimit, "Maximum history entries")

	rootCmd.AddCommand(layoutCmd, statsCmd, usersCmd, watchCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (constellation.Config, error) {
	if configPath == "" {
		return constellation.DefaultConfig(), nil
	}
	cfg, err := constellation.LoadConfig(configPath)
	if err != nil {
		return constellation.Config{}, err
	}
	logger.Debug("Loaded config", zap.String("path", configPath), zap.Any("config", cfg))
	return cfg, nil
}

func newEngine(cfg constellation.Config) (*constellation.Engine, error) {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	return constellation.NewEngine(cfg, rng)
}

func loadSamples(ctx context.Context, input string) ([]constellation.Sample, error) {
	opts := samplefile.Options{JSONPath: jsonPath}
	var (
		samples []constellation.Sample
		err     error
	)
	if _, statErr := os.Stat(input); statErr == nil {
		samples, err = samplefile.Load(ctx, input, opts)
	} else {
		samples, err = samplefile.LoadGlob(ctx, input, opts)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded samples", zap.String("input", input), zap.Int("count", len(samples)))
	return samples, nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	samples, err := loadSamples(cmd.Context(), args[0])
	if err != nil {
		logger.Error("Failed to load samples", zap.Error(err))
		return err
	}
	snap, err := constellation.Build(samples, eng, time.Now())
	if err != nil {
		logger.Error("Failed to build snapshot", zap.Error(err))
		return err
	}
	logger.Debug("Built snapshot",
		zap.String("id", snap.ID),
		zap.Ints("active", snap.Active),
		zap.Int("connections", len(snap.Connections)))
	return writeSnapshot(cmd.OutOrStdout(), snap, format)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	samples, err := loadSamples(cmd.Context(), args[0])
	if err != nil {
		logger.Error("Failed to load samples", zap.Error(err))
		return err
	}
	stats := constellation.Summarize(samples, time.Now(), cfg)
	return writeStats(cmd.OutOrStdout(), stats, format)
}

func runUsers(cmd *cobra.Command, args []string) error {
	samples, err := loadSamples(cmd.Context(), args[0])
	if err != nil {
		logger.Error("Failed to load samples", zap.Error(err))
		return err
	}
	now := time.Now()
	if userID != "" {
		return writeHistory(cmd.OutOrStdout(), constellation.UserHistory(samples, userID, historyLimit, now), format)
	}
	return writeUsers(cmd.OutOrStdout(), constellation.SummarizeUsers(samples, now), format)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, err := newEngine(cfg)
	if err != nil {
		return err
	}
	w, err := samplefile.NewWatcher(args[0], samplefile.Options{JSONPath: jsonPath}, 0)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := cmd.Context()
	w.Start(ctx)
	logger.Info("Watching samples", zap.String("path", args[0]))
	for u := range w.Updates() {
		if u.Err != nil {
			logger.Warn("Reload failed", zap.Error(u.Err))
			continue
		}
		snap, err := constellation.Build(u.Samples, eng, time.Now())
		if err != nil {
			logger.Warn("Failed to build snapshot", zap.Error(err))
			continue
		}
		logger.Info("Snapshot", zap.String("id", snap.ID), zap.Int("samples", len(u.Samples)))
		if err := writeSnapshot(cmd.OutOrStdout(), snap, format); err != nil {
			return err
		}
	}
	logger.Info("Stopped watching", zap.NamedError("reason", ctx.Err()))
	return nil
}
