package main

import (
	"context"
	"log/slog"
	"os"

	"krxtrend/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("failed to start application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}
