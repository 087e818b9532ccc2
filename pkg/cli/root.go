package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/chartsmith/chartsmith/pkg/logging"
)

// New builds the chartsmith root command.
func New(version string) *cli.Command {
	return &cli.Command{
		Name:    "chartsmith",
		Usage:   "Generate Helm chart packages from typed chart definitions",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("debug") {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return logging.WithLogger(ctx, logger), nil
		},
		Commands: []*cli.Command{
			generateCmd(),
			packageCmd(),
		},
	}
}
