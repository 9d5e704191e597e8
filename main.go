package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/llehouerou/calliope/internal/app"
)

func main() {
	// Writes to a closed stdout pipe return EPIPE instead of killing the process.
	signal.Ignore(syscall.SIGPIPE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.New().Run(ctx, os.Args)
	stop()
	os.Exit(code)
}
