package commands

import (
	"errors"
	"log/slog"
	"sigahorarios/internal/chrono"
	"sigahorarios/internal/snapshot"
	"sigahorarios/internal/telemetry"
	"sigahorarios/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [path/to/snapshot.json]",
	Short: "Imports a json snapshot into the database, defaults to the latest snapshot.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			latest, err := snapshot.Latest(cfg.Scrape.OutputDir)
			if err != nil {
				serviceutil.Fatal("failed to find a snapshot", err)
			}
			path = latest
		}

		tree, err := snapshot.Load(path)
		if err != nil {
			serviceutil.Fatal("failed to load snapshot", err)
		}

		database := openDatabase(cmd.Context(), cfg)
		if database == nil {
			serviceutil.Fatal("cannot import", errors.New("database.file or database.url is required"))
		}
		defer database.Close()

		imp := newImporter(cfg, database, chrono.NewStandardTime(), telemetry.NewSlogAPI())
		err = imp.Import(cmd.Context(), tree)
		if err != nil {
			database.Close()
			serviceutil.Fatal("import failed", err)
		}
		slog.Info("imported snapshot", "path", path)
	},
}
