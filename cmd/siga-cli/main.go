package main

import (
	"context"
	"sigahorarios/cmd/siga-cli/commands"
	"sigahorarios/lib/serviceutil"
	"sigahorarios/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	tel, err := telemetry.SetupFromEnv(ctx, "siga-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	commands.ExecuteContext(ctx)
}
