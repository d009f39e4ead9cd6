package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	goutils "github.com/jkaninda/go-utils"
	"github.com/spf13/cobra"

	"github.com/jkaninda/siri/internal/config"
	pgstore "github.com/jkaninda/siri/internal/storage/postgres"
	sqlitestore "github.com/jkaninda/siri/internal/storage/sqlite"
)

var migrateConfigPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateConfigPath, "config", config.DefaultConfigPath(), "path to config file")
}

func runMigrate(_ *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load(goutils.Env("SIRI_CONFIG", migrateConfigPath))
	if err != nil {
		return err
	}

	switch driver := cfg.StorageDriverName(); driver {
	case "postgres":
		pg := cfg.Storage.Postgres
		db, err := pgstore.Open(pgstore.Config{
			DSN:             pg.DSN,
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(pg.ConnMaxLifetimeS) * time.Second,
		}, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("postgres schema up to date")
	case "sqlite":
		var sqliteCfg sqlitestore.Config
		sqliteCfg.Path = cfg.DatabasePath()
		if cfg.Storage != nil && cfg.Storage.SQLite != nil {
			sqliteCfg.JournalMode = cfg.Storage.SQLite.JournalMode
		}
		store, err := sqlitestore.Open(sqliteCfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(context.Background()); err != nil {
			return err
		}
		logger.Info("sqlite schema up to date", slog.String("path", sqliteCfg.Path))
	default:
		return fmt.Errorf("unknown storage driver %q", driver)
	}
	return nil
}
