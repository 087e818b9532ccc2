package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/chartsmith/chartsmith/pkg/chart"
	"github.com/chartsmith/chartsmith/pkg/values"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a chart tree from a chart definition file",
		Description: `Reads a chart definition and writes the complete chart layout:
Chart.yaml, values.yaml, one values-<env>.yaml per environment,
templates/<id>.yaml per manifest, and charts/<name>/ for subcharts.

# Examples

Generate a chart:
  chartsmith generate --config chart.yaml --output ./dist/web

Generate only the dev environment values and override a value:
  chartsmith generate --config chart.yaml --output ./dist/web \
    --env dev --set image.tag=1.28`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Path to the chart definition file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Output directory for the generated chart",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "env",
				Usage: "Environment overlays to write (default: all defined)",
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Override a default value, e.g. --set image.tag=1.28",
			},
			&cli.BoolFlag{
				Name:  "skip-lint",
				Usage: "Skip image reference linting",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configPath := cmd.String("config")
			outputDir := cmd.String("output")

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c, err := BuildChart(cfg, filepath.Dir(configPath))
			if err != nil {
				return err
			}

			if err := applyOverrides(c, cmd.StringSlice("set")); err != nil {
				return err
			}
			if err := selectEnvironments(c, cmd.StringSlice("env")); err != nil {
				return err
			}

			if !cmd.Bool("skip-lint") {
				if err := chart.LintImages(c); err != nil {
					return err
				}
			}

			slog.Info("generating chart",
				slog.String("chart", c.Meta.Name),
				slog.String("config", configPath),
				slog.String("output", outputDir),
			)

			if err := chart.Write(ctx, outputDir, c); err != nil {
				slog.Error("chart generation failed", "error", err)
				return err
			}
			return nil
		},
	}
}

// applyOverrides applies --set path=value pairs over the chart defaults.
// Values parse as YAML scalars so numbers and booleans keep their type.
func applyOverrides(c *chart.Chart, overrides []string) error {
	for _, raw := range overrides {
		path, val, found := strings.Cut(raw, "=")
		if !found || path == "" {
			return fmt.Errorf("invalid --set flag %q: expected path=value", raw)
		}
		var parsed any
		if err := yaml.Unmarshal([]byte(val), &parsed); err != nil {
			parsed = val
		}
		updated, err := values.SetPath(c.Values, path, parsed)
		if err != nil {
			return err
		}
		c.Values = updated
	}
	return nil
}

// selectEnvironments narrows the chart's overlays to the requested set.
// An unknown name fails with a closest-match suggestion.
func selectEnvironments(c *chart.Chart, envs []string) error {
	if len(envs) == 0 {
		return nil
	}

	selected := make(map[string]map[string]any, len(envs))
	for _, env := range envs {
		overlay, ok := c.Overlays[env]
		if !ok {
			msg := fmt.Sprintf("unknown environment %q", env)
			if suggestion := closestName(env, overlayNames(c.Overlays)); suggestion != "" {
				msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			return fmt.Errorf("%s", msg)
		}
		selected[env] = overlay
	}
	c.Overlays = selected
	return nil
}

func overlayNames(overlays map[string]map[string]any) []string {
	names := make([]string, 0, len(overlays))
	for name := range overlays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// closestName returns the known name nearest to input, or empty when
// nothing is close enough to be a plausible typo.
func closestName(input string, known []string) string {
	const maxDistance = 3
	best, bestDist := "", maxDistance+1
	for _, candidate := range known {
		if d := levenshtein.ComputeDistance(input, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
