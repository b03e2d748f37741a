package commands

import (
	"context"
	"fmt"
	"os"
	"sigahorarios/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "siga-cli",
	Short: "siga-cli scrapes the course schedules of the SIGA portal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file, <name>.local.<ext> is merged on top of it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug reports.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
