package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/chartsmith/chartsmith/pkg/chart"
	"github.com/chartsmith/chartsmith/pkg/errors"
)

func packageCmd() *cli.Command {
	return &cli.Command{
		Name:  "package",
		Usage: "Archive a generated chart directory into a .tgz package",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "chart",
				Usage:    "Path to a generated chart directory",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "destination",
				Value: ".",
				Usage: "Directory to write the archive into",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			chartDir := cmd.String("chart")
			meta, err := readChartMetadata(chartDir)
			if err != nil {
				return err
			}

			archive, err := chart.Package(ctx, chartDir, cmd.String("destination"), meta)
			if err != nil {
				return err
			}
			slog.Info("chart packaged", "archive", archive)
			return nil
		},
	}
}

// readChartMetadata re-validates Chart.yaml from a generated directory so
// package can run standalone against an existing chart tree.
func readChartMetadata(chartDir string) (*chart.Metadata, error) {
	data, err := os.ReadFile(filepath.Join(chartDir, "Chart.yaml"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "reading Chart.yaml", err)
	}

	var parsed struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Description string `yaml:"description"`
		AppVersion  string `yaml:"appVersion"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "decoding Chart.yaml", err)
	}

	var opts []chart.MetadataOption
	if parsed.Description != "" {
		opts = append(opts, chart.WithDescription(parsed.Description))
	}
	if parsed.AppVersion != "" {
		opts = append(opts, chart.WithAppVersion(parsed.AppVersion))
	}
	return chart.NewMetadata(parsed.Name, parsed.Version, opts...)
}
