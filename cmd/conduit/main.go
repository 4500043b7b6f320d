// File: cmd/conduit/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/conduit/cmd"
	"github.com/xkilldash9x/conduit/internal/observability"
)

// main is the entry point of the application.
func main() {
	// Listen for interrupt signals (SIGINT, SIGTERM) for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Graceful shutdown during a run is a clean exit.
			os.Exit(0)
		}
		os.Exit(1)
	}
}
