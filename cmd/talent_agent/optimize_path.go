package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-allocator/internal/db"
	"github.com/jonathan/talent-allocator/internal/observability"
	"github.com/jonathan/talent-allocator/internal/pathopt"
	"github.com/jonathan/talent-allocator/internal/provider"
)

var optimizePathCmd = &cobra.Command{
	Use:   "optimize-path",
	Short: "Build an optimized certificate learning path for a user",
	Long:  "Runs the certificate-path ensemble: every perturbed agent ranks the full certificate set, consensus voting selects the winners, and the rebalancing engine places them into ordered learning levels.",
	RunE:  runOptimizePath,
}

var (
	optimizePathID      string
	optimizePathUser    string
	optimizePathConfig  string
	optimizePathOutput  string
	optimizePathSeed    int64
	optimizePathVerbose bool
)

func init() {
	optimizePathCmd.Flags().StringVar(&optimizePathID, "path", "", "Career path ID to optimize (required)")
	optimizePathCmd.Flags().StringVarP(&optimizePathUser, "user", "u", "", "User ID the path is optimized for (required)")
	optimizePathCmd.Flags().StringVarP(&optimizePathConfig, "config", "c", "", "Path to JSON config file")
	optimizePathCmd.Flags().StringVarP(&optimizePathOutput, "out", "o", "", "Path to output PathOptimizationResult JSON file")
	optimizePathCmd.Flags().Int64Var(&optimizePathSeed, "seed", 0, "RNG seed for reproducible runs (0 = nondeterministic)")
	optimizePathCmd.Flags().BoolVarP(&optimizePathVerbose, "verbose", "v", false, "Print detailed progress information")

	if err := optimizePathCmd.MarkFlagRequired("path"); err != nil {
		panic(fmt.Sprintf("failed to mark path flag as required: %v", err))
	}
	if err := optimizePathCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(optimizePathCmd)
}

func runOptimizePath(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(optimizePathConfig)
	if err != nil {
		return err
	}
	if optimizePathSeed != 0 {
		cfg.Seed = optimizePathSeed
	}
	if optimizePathVerbose {
		cfg.Verbose = true
	}

	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database URL is required (config 'database_url' or DATABASE_URL env)")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	dataProvider := provider.WithRetry(database, cfg.MaxAttempts, time.Duration(cfg.BackoffMS)*time.Millisecond)

	optimizer, err := pathopt.NewOptimizer(dataProvider, pathopt.Options{
		AgentCount:  cfg.AgentCount,
		Seed:        cfg.Seed,
		LevelCount:  cfg.LevelCount,
		MaxPerLevel: cfg.MaxPerLevel,
		MinScore:    cfg.MinScore,
	})
	if err != nil {
		return fmt.Errorf("failed to build optimizer: %w", err)
	}

	result, err := optimizer.OptimizePath(ctx, optimizePathID, optimizePathUser)
	if err != nil {
		return fmt.Errorf("path optimization failed: %w", err)
	}

	if result.Evaluations == 0 {
		fmt.Printf("Path %s is already optimized (%d levels); nothing to do\n",
			optimizePathID, len(result.Levels))
		return nil
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintPathResult(result)
	}

	if optimizePathOutput != "" {
		if err := writeResultJSON(optimizePathOutput, result, "schemas/path_optimization.schema.json"); err != nil {
			return err
		}
	}

	fmt.Printf("Optimized path %s: %d levels, score %.2f\n",
		result.PathID, len(result.Levels), result.Score)
	return nil
}
