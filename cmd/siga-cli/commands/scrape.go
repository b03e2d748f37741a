package commands

import (
	"errors"
	"sigahorarios/internal/telemetry"
	"sigahorarios/lib/serviceutil"

	"github.com/spf13/cobra"
)

var errMissingUsername = errors.New("portal.username is required")

var (
	scrapeCampus   *string
	scrapePeriod   *string
	scrapeShift    *string
	scrapeLimit    *int
	scrapeNoImport *bool
)

func init() {
	scrapeCampus = scrapeCmd.Flags().String("campus", "", "Campus name or portal code, overrides scrape.campus.")
	scrapePeriod = scrapeCmd.Flags().String("period", "", "Period like 2024-1, overrides scrape.period.")
	scrapeShift = scrapeCmd.Flags().String("shift", "", "Diurno or Vespertino, overrides scrape.shift.")
	scrapeLimit = scrapeCmd.Flags().Int("limit", 0, "Stop after this many rows.")
	scrapeNoImport = scrapeCmd.Flags().Bool("no-import", false, "Only write the json snapshot.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--campus <campus>] [--period <yyyy-h>] [--limit <rows>] [--no-import]",
	Short: "Scrapes the schedule of every section once, resuming an interrupted run.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		flags := cmd.Flags()
		if flags.Changed("campus") {
			cfg.Scrape.Campus = *scrapeCampus
		}
		if flags.Changed("period") {
			cfg.Scrape.Period = *scrapePeriod
		}
		if flags.Changed("shift") {
			cfg.Scrape.Shift = *scrapeShift
		}
		if flags.Changed("limit") {
			cfg.Scrape.Limit = *scrapeLimit
		}

		runner, release := newRunner(cmd.Context(), cfg, !*scrapeNoImport, telemetry.NewSlogAPI())
		defer release()

		err := runOnce(cmd.Context(), runner)
		if err != nil {
			release()
			serviceutil.Fatal("scrape failed", err)
		}
	},
}
