package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ats-gateway/internal/cli"
	"ats-gateway/internal/pkg/logger"
)

func main() {
	lggr, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	cmd, err := cli.NewCommand(cli.Config{Logger: lggr.Named("atsctl")})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cmd.ExecuteContext(ctx)
	stop()
	_ = lggr.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
