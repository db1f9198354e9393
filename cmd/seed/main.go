package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"investing-backend/internal/investing/config"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/internal/investing/service"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/postgres"
	"investing-backend/pkg/redis"

	"github.com/spf13/cobra"
)

var configPath string

type importFunc func(ctx context.Context, r io.Reader) (*dto.ImportSummary, error)

// runImport wires the catalog importer and feeds it the file named in args.
func runImport(pick func(service.CatalogImporter) importFunc) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer func() { _ = appLogger.Sync() }()

		db, err := postgres.NewDB(postgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
			TimeZone: cfg.Database.TimeZone,
			LogLevel: cfg.Database.LogLevel,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			defer sqlDB.Close()
		}

		var cache repository.CatalogCache = repository.NopCatalogCache{}
		if client, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}); err == nil {
			defer client.Close()
			cache = repository.NewRedisCatalogCache(client.Client, cfg.Catalog.CacheTTL)
		} else {
			appLogger.Warn("Redis unavailable, cached catalog will expire on its own", logger.ErrorField(err))
		}

		file, err := os.Open(args[0])
		if err != nil {
			appLogger.Fatal("Failed to open import file", logger.ErrorField(err), logger.StringField("path", args[0]))
		}
		defer file.Close()

		importer := service.NewCatalogImporter(repository.NewMasterRepository(db.DB), cache, appLogger)
		summary, err := pick(importer)(cmd.Context(), file)
		if err != nil {
			appLogger.Fatal("Catalog import failed", logger.ErrorField(err))
		}
		fmt.Printf("Imported %d records (%d skipped, %d samples appended)\n", summary.Records, summary.Skipped, summary.AppendedSamples)
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "seed", Short: "Imports catalog data from JSON files"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "stocks <file>",
			Short: "Import stock masters and their price history",
			Args:  cobra.ExactArgs(1),
			Run: runImport(func(i service.CatalogImporter) importFunc {
				return i.ImportStocks
			}),
		},
		&cobra.Command{
			Use:   "funds <file>",
			Short: "Import mutual fund masters and their NAV history",
			Args:  cobra.ExactArgs(1),
			Run: runImport(func(i service.CatalogImporter) importFunc {
				return i.ImportFunds
			}),
		},
	)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing seed CLI: %s\n", err)
		os.Exit(1)
	}
}
