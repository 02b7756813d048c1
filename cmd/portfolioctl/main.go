package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/subham12r/portfolio/internal/portfolio/cli"
)

// Version information set via ldflags during build
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
