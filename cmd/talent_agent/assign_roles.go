package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-allocator/internal/assignment"
	"github.com/jonathan/talent-allocator/internal/config"
	"github.com/jonathan/talent-allocator/internal/db"
	"github.com/jonathan/talent-allocator/internal/observability"
	"github.com/jonathan/talent-allocator/internal/provider"
	"github.com/jonathan/talent-allocator/internal/schemas"
)

var assignRolesCmd = &cobra.Command{
	Use:   "assign-roles",
	Short: "Assign available employees to a project's open roles",
	Long:  "Runs the role-assignment simulation: roles are processed sequentially, each role's candidate pool is partitioned across parallel scoring agents, and every employee ends up in at most one role.",
	RunE:  runAssignRoles,
}

var (
	assignRolesProject string
	assignRolesConfig  string
	assignRolesOutput  string
	assignRolesSeed    int64
	assignRolesVerbose bool
)

func init() {
	assignRolesCmd.Flags().StringVarP(&assignRolesProject, "project", "p", "", "Project ID whose open roles should be filled (required)")
	assignRolesCmd.Flags().StringVarP(&assignRolesConfig, "config", "c", "", "Path to JSON config file")
	assignRolesCmd.Flags().StringVarP(&assignRolesOutput, "out", "o", "", "Path to output AssignmentResult JSON file")
	assignRolesCmd.Flags().Int64Var(&assignRolesSeed, "seed", 0, "RNG seed for reproducible runs (0 = nondeterministic)")
	assignRolesCmd.Flags().BoolVarP(&assignRolesVerbose, "verbose", "v", false, "Print detailed progress information")

	if err := assignRolesCmd.MarkFlagRequired("project"); err != nil {
		panic(fmt.Sprintf("failed to mark project flag as required: %v", err))
	}

	rootCmd.AddCommand(assignRolesCmd)
}

func runAssignRoles(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadMergedConfig(assignRolesConfig)
	if err != nil {
		return err
	}
	if assignRolesSeed != 0 {
		cfg.Seed = assignRolesSeed
	}
	if assignRolesVerbose {
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

	opts := assignment.Options{Seed: cfg.Seed}
	if cfg.Verbose {
		opts.OnProgress = func(event assignment.ProgressEvent) {
			if event.RoleID == "" {
				return
			}
			fmt.Printf("[%s] %s", event.State, event.RoleName)
			if event.EmployeeID != "" {
				fmt.Printf(" → %s (%.2f)", event.EmployeeID, event.Score)
			}
			fmt.Println()
		}
	}

	orchestrator, err := assignment.NewOrchestrator(dataProvider, opts)
	if err != nil {
		return fmt.Errorf("failed to build orchestrator: %w", err)
	}

	results := orchestrator.AssignRoles(ctx, assignRolesProject)

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintAssignments(results)
	}

	if assignRolesOutput != "" {
		if err := writeResultJSON(assignRolesOutput, results, "schemas/assignment_results.schema.json"); err != nil {
			return err
		}
	}

	fmt.Printf("Assigned %d roles for project %s\n", len(results), assignRolesProject)
	return nil
}

// loadMergedConfig loads the optional config file and applies engine defaults,
// falling back to the DATABASE_URL environment variable for the connection.
func loadMergedConfig(path string) (config.Config, error) {
	defaults := config.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		AgentCount:  10,
		LevelCount:  5,
		MaxPerLevel: 4,
		MinScore:    0.3,
		MaxAttempts: 3,
		BackoffMS:   200,
	}

	if path == "" {
		return defaults, nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg.MergeWithDefaults(defaults), nil
}

// writeResultJSON marshals a result to disk and validates it against the
// given schema when the schema can be resolved. Validation is non-fatal.
func writeResultJSON(outputPath string, result any, schemaRelPath string) error {
	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	outputDir := filepath.Dir(outputPath)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(outputPath, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write result to output file %s: %w", outputPath, err)
	}

	schemaPath := schemas.ResolveSchemaPath(schemaRelPath)
	if schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, outputPath); err != nil {
			// Output validation is a safety check, not a requirement
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
		}
	}

	return nil
}
