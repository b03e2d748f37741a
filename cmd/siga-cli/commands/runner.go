package commands

import (
	"context"
	"database/sql"
	"log/slog"
	"sigahorarios/internal/chrono"
	"sigahorarios/internal/db"
	"sigahorarios/internal/importer"
	"sigahorarios/internal/notify"
	"sigahorarios/internal/pipeline"
	"sigahorarios/internal/portal"
	"sigahorarios/internal/telemetry"
	"sigahorarios/lib/configutil"
	"sigahorarios/lib/serviceutil"
)

func loadConfig() Config {
	cfg, err := configutil.ReadConfigWithDefaults(*configPath, defaultConfig())
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}

// openDatabase opens and migrates the configured database, it returns nil
// when no database is configured.
func openDatabase(ctx context.Context, cfg Config) *sql.DB {
	if !cfg.Database.Configured() {
		return nil
	}
	database, err := cfg.Database.OpenDB()
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	err = db.Migrate(ctx, database)
	if err != nil {
		serviceutil.Fatal("failed to migrate database", err)
	}
	return database
}

func newImporter(cfg Config, database *sql.DB, clock chrono.API, tel telemetry.API) importer.Importer {
	return importer.New(importer.Options{
		DB:             database,
		Time:           clock,
		LastImportFile: cfg.Scrape.LastImportFile,
	}, tel)
}

// newRunner wires a pipeline from the config, the returned function releases
// everything the runner holds.
func newRunner(ctx context.Context, cfg Config, withImport bool, tel telemetry.API) (pipeline.Runner, func()) {
	clock := chrono.NewStandardTime()
	options, err := cfg.Scrape.pipelineOptions(clock.Now())
	if err != nil {
		serviceutil.Fatal("invalid scrape config", err)
	}
	if cfg.Portal.Username == "" {
		serviceutil.Fatal("invalid portal config", errMissingUsername)
	}

	deps := pipeline.Dependencies{
		Open: func(ctx context.Context) (pipeline.Browser, error) {
			session, err := portal.Open(ctx, cfg.Portal.options(), tel)
			if err != nil {
				return nil, err
			}
			return session, nil
		},
		Notifier: notify.New(cfg.Notify),
		Time:     clock,
	}

	release := func() {}
	if withImport {
		database := openDatabase(ctx, cfg)
		if database == nil {
			slog.Warn("no database configured, the snapshot will be the only output")
		} else {
			deps.Importer = newImporter(cfg, database, clock, tel)
			release = func() {
				database.Close()
			}
		}
	}

	slog.Info(
		"scrape configured",
		"campus", options.Campus.Name,
		"period", options.Period.Display(),
		"shift", options.Shift.Name,
		"import", deps.Importer != nil,
	)
	return pipeline.NewRunner(deps, options, tel), release
}

func runOnce(ctx context.Context, runner pipeline.Runner) error {
	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	slog.Info(
		"run finished",
		"run_id", result.RunID,
		"attempts", result.Attempts,
		"processed", result.Summary.Processed,
		"skipped", result.Summary.Skipped,
		"limited", result.Summary.Limited,
		"snapshot", result.SnapshotPath,
		"imported", result.Imported,
	)
	return nil
}
