package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/bizbooks/ledgercore/internal/adapter/repository/postgres"
	"github.com/bizbooks/ledgercore/internal/depreciation"
	"github.com/bizbooks/ledgercore/internal/infrastructure/config"
	infrapostgres "github.com/bizbooks/ledgercore/internal/infrastructure/postgres"
	"github.com/bizbooks/ledgercore/internal/usecase"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Accounting ledger operations tool",
		Long:  `Operational commands for the ledgercore database: migrations, balance verification and depreciation schedules.`,
	}

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if err := infrapostgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				fmt.Printf("Migration failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if err := infrapostgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				fmt.Printf("Rollback failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify every account balance against entry replay",
		Run: func(cmd *cobra.Command, args []string) {
			verifyBalances()
		},
	}
	rootCmd.AddCommand(verifyCmd)

	var (
		assetID     string
		granularity string
		asOf        string
	)

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the depreciation schedule for an asset",
		Run: func(cmd *cobra.Command, args []string) {
			printSchedule(assetID, granularity, asOf)
		},
	}
	scheduleCmd.Flags().StringVar(&assetID, "asset", "", "Asset ID (required)")
	scheduleCmd.Flags().StringVar(&granularity, "granularity", "yearly", "Schedule granularity: yearly or monthly")
	scheduleCmd.Flags().StringVar(&asOf, "as-of", "", "Reference date for the current-period marker (YYYY-MM-DD, default today)")
	scheduleCmd.MarkFlagRequired("asset")
	rootCmd.AddCommand(scheduleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

func connect(ctx context.Context, cfg *config.Config) *pgxpool.Pool {
	pool, err := infrapostgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	return pool
}

func verifyBalances() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	defer cancel()

	pool := connect(ctx, cfg)
	defer pool.Close()

	reconciliation := usecase.NewReconciliationUseCase(
		postgres.NewAccountRepository(pool),
		postgres.NewEntryRepository(pool),
		postgres.NewLedgerRepository(pool),
		nil,
	)

	results, err := reconciliation.ReconcileAll(ctx)
	if err != nil {
		fmt.Printf("Verification failed: %v\n", err)
		os.Exit(1)
	}

	drifts := 0

	for _, r := range results {
		if r.IsReconciled {
			continue
		}

		drifts++
		fmt.Printf("DRIFT %s: cached=%s computed=%s difference=%s\n",
			r.AccountID, r.RecordedBalance, r.CalculatedBalance, r.Difference)
	}

	if drifts > 0 {
		fmt.Printf("Verification FAILED: %d of %d accounts drifted\n", drifts, len(results))
		os.Exit(1)
	}

	fmt.Printf("Verification PASSED: %d accounts reconciled\n", len(results))
}

func parseGranularity(s string) depreciation.Granularity {
	if s == "monthly" {
		return depreciation.GranularityMonthly
	}

	return depreciation.GranularityYearly
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}

	return time.Parse("2006-01-02", s)
}

func printSchedule(assetID, granularity, asOf string) {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	defer cancel()

	pool := connect(ctx, cfg)
	defer pool.Close()

	gran := parseGranularity(granularity)

	refDate, err := parseAsOf(asOf)
	if err != nil {
		fmt.Printf("Invalid --as-of date: %v\n", err)
		os.Exit(1)
	}

	queries := usecase.NewQueryUseCase(postgres.NewAssetRepository(pool), postgres.NewEntryRepository(pool), nil)

	entries, err := queries.Schedule(ctx, assetID, gran, refDate)
	if err != nil {
		fmt.Printf("Failed to compute schedule: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-18s %14s %14s %14s %14s\n", "Period", "Beginning", "Depreciation", "Accumulated", "Ending")

	for _, e := range entries {
		marker := " "
		if e.IsCurrent {
			marker = "*"
		}

		fmt.Printf("%s%-17s %14s %14s %14s %14s\n",
			marker, e.PeriodLabel, e.BeginningBookValue, e.Depreciation, e.AccumulatedDepreciation, e.EndingBookValue)
	}
}
