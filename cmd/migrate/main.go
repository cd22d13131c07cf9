package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"slot-capacity-engine/internal/handler/middleware"
	"slot-capacity-engine/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/kelseyhightower/envconfig"
)

// Only the DB and log sections are needed, so the rest of the app config is not required here.
type migrateConfig struct {
	DB  config.DBConfig
	Log config.LogConfig
}

func main() {
	dir := flag.String("dir", "migrations", "directory holding the migration files and atlas.sum")
	statusOnly := flag.Bool("status", false, "print migration status without applying")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	var cfg migrateConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	if err := run(cfg.DB, *dir, *statusOnly, *timeout, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(db config.DBConfig, dir string, statusOnly bool, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(os.DirFS(dir)))
	if err != nil {
		return err
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), "atlas")
	if err != nil {
		return err
	}

	url := db.BuildDSN()

	if statusOnly {
		status, err := client.MigrateStatus(ctx, &atlasexec.MigrateStatusParams{URL: url})
		if err != nil {
			return err
		}
		logger.Info("migration status",
			"current", status.Current,
			"next", status.Next,
			"pending", len(status.Pending),
			"applied", len(status.Applied))
		return nil
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{URL: url})
	if err != nil {
		return err
	}
	logger.Info("migrations applied",
		"count", len(res.Applied),
		"current", res.Current,
		"target", res.Target)
	return nil
}
