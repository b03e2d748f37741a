package commands

import (
	"log/slog"
	"sigahorarios/internal/chrono"
	"sigahorarios/internal/telemetry"
	"sigahorarios/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Runs scrape and import on the configured cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := cmd.Context()
		tel := telemetry.NewSlogAPI()

		_, err := cfg.Scrape.pipelineOptions(chrono.NewStandardTime().Now())
		if err != nil {
			serviceutil.Fatal("invalid scrape config", err)
		}

		cron := chrono.NewStandardCron(tel)
		err = cron.Cron(cfg.Cron, func() {
			// the current period is resolved again on every run.
			runner, release := newRunner(ctx, cfg, true, tel)
			defer release()

			err := runOnce(ctx, runner)
			if err != nil {
				slog.Error("scheduled run failed", "err", err)
			}
		})
		if err != nil {
			serviceutil.Fatal("invalid cron spec", err)
		}
		slog.Info("waiting for the next scheduled run", "cron", cfg.Cron, "timezone", chrono.Santiago().String())

		<-ctx.Done()
		slog.Info("stopping scheduler")
		cron.Stop()
	},
}
