package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/chartsmith/chartsmith/pkg/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.New(version).Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
