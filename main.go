// ./main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tmcneil/chatprobe/cmd"
	"github.com/tmcneil/chatprobe/internal/observability"
)

// main is the entry point for the chatprobe CLI.
func main() {
	// Listen for interrupt signals (SIGINT, SIGTERM) for graceful shutdown;
	// an aborted run still closes the browser and writes partial results.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Graceful shutdown requested by the user.
			os.Exit(0)
		}
		os.Exit(1)
	}
}
