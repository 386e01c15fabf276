// Package main is the entry point for the codemode gateway command-line
// application.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcpgateway/codemode/cmd/codemode/app"
	"github.com/mcpgateway/codemode/pkg/logger"
)

func main() {
	logger.Initialize()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		logger.Errorf("Error executing command: %v", err)
		os.Exit(1)
	}
}
