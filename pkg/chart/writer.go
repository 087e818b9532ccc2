package chart

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/logging"
	"github.com/chartsmith/chartsmith/pkg/pathguard"
	"github.com/chartsmith/chartsmith/pkg/synth"
	"github.com/chartsmith/chartsmith/pkg/values"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Write renders the chart into outDir. It creates outDir and templates/ if
// absent, writes one file per manifest, the values files, chart metadata,
// and a default .helmignore when none exists. For umbrella charts, sibling
// subcharts write concurrently into charts/<name>/ and parent-level files
// are written only after every subchart succeeded; on any subchart failure
// the error carries the failing subchart's name and nothing parent-level is
// written.
func Write(ctx context.Context, outDir string, c *Chart) error {
	start := time.Now()
	err := write(ctx, outDir, c)

	status := "success"
	if err != nil {
		status = "error"
	}
	chartWritesTotal.WithLabelValues(status).Inc()
	chartWriteDuration.Observe(time.Since(start).Seconds())
	return err
}

func write(ctx context.Context, outDir string, c *Chart) error {
	if c == nil || c.Meta == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "chart has no metadata")
	}
	if err := pathguard.Validate(outDir); err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	logger.Debug("writing chart",
		"chart", c.Meta.Name,
		"output_dir", outDir,
		"manifests", len(c.Manifests),
		"subcharts", len(c.Subcharts),
	)

	templatesDir := filepath.Join(outDir, "templates")
	if err := os.MkdirAll(templatesDir, dirMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "creating templates directory", err)
	}

	// Subcharts first: parent-level files must not exist if any sibling
	// fails. Sibling writes are independent and I/O-bound, so they run in
	// parallel against disjoint subdirectories.
	if err := writeSubcharts(ctx, outDir, c); err != nil {
		return err
	}

	if err := writeManifests(ctx, templatesDir, c); err != nil {
		return err
	}
	if c.Helpers != "" {
		if err := writeFile(filepath.Join(templatesDir, "_helpers.tpl"), []byte(c.Helpers)); err != nil {
			return err
		}
	}
	if c.Notes != "" {
		if err := writeFile(filepath.Join(templatesDir, "NOTES.txt"), []byte(c.Notes)); err != nil {
			return err
		}
	}

	if err := writeValues(outDir, c); err != nil {
		return err
	}
	if err := writeChartYAML(outDir, c); err != nil {
		return err
	}
	if len(c.Schema) > 0 {
		if err := writeFile(filepath.Join(outDir, "values.schema.json"), c.Schema); err != nil {
			return err
		}
	}
	if err := writeHelmignore(outDir); err != nil {
		return err
	}

	logger.Info("chart written", "chart", c.Meta.Name, "output_dir", outDir)
	return nil
}

func writeSubcharts(ctx context.Context, outDir string, c *Chart) error {
	if len(c.Subcharts) == 0 {
		return nil
	}

	// Validate all names before starting any write.
	for _, sub := range c.Subcharts {
		if _, err := pathguard.SanitizeName(sub.Name); err != nil {
			return errors.Wrap(errors.ErrCodeSubchartWrite, "subchart "+sub.Name, err)
		}
		if sub.Chart == nil {
			return errors.Newf(errors.ErrCodeSubchartWrite, "subchart %s has no chart", sub.Name)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sub := range c.Subcharts {
		sub := sub
		g.Go(func() error {
			subDir, err := pathguard.Resolve(filepath.Join("charts", sub.Name), outDir, pathguard.ResolveOptions{})
			if err != nil {
				return errors.Wrap(errors.ErrCodeSubchartWrite, "subchart "+sub.Name, err)
			}
			if err := write(ctx, subDir, sub.Chart); err != nil {
				return errors.Wrap(errors.ErrCodeSubchartWrite, "subchart "+sub.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func writeManifests(ctx context.Context, templatesDir string, c *Chart) error {
	logger := logging.FromContext(ctx)

	for _, m := range c.Manifests {
		id, err := pathguard.SanitizeManifestID(m.ID)
		if err != nil {
			return err
		}
		target, err := pathguard.Resolve(filepath.FromSlash(id)+".yaml", templatesDir, pathguard.ResolveOptions{})
		if err != nil {
			return err
		}
		if dir := filepath.Dir(target); dir != templatesDir {
			if err := os.MkdirAll(dir, dirMode); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, "creating manifest directory", err)
			}
		}

		text, err := synth.Serialize(m.Document())
		if err != nil {
			return err
		}
		if err := writeFile(target, []byte(text)); err != nil {
			return err
		}
		chartManifestsWritten.Inc()
		logger.Debug("manifest written", "id", id, "kind", m.Kind)
	}
	return nil
}

func writeValues(outDir string, c *Chart) error {
	base := effectiveValues(c)

	text, err := synth.Serialize(base)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "values.yaml"), []byte(text)); err != nil {
		return err
	}

	envs := make([]string, 0, len(c.Overlays))
	for env := range c.Overlays {
		envs = append(envs, env)
	}
	sort.Strings(envs)

	for _, env := range envs {
		if _, err := pathguard.SanitizeName(env); err != nil {
			return err
		}
		merged := values.Merge(base, c.Overlays[env])
		text, err := synth.Serialize(merged)
		if err != nil {
			return err
		}
		if err := writeFile(filepath.Join(outDir, "values-"+env+".yaml"), []byte(text)); err != nil {
			return err
		}
	}
	return nil
}

// effectiveValues returns the chart's default values tree. For umbrella
// charts the subchart defaults aggregate under per-subchart keys plus a
// shared global section, with the parent's own values merged on top.
func effectiveValues(c *Chart) map[string]any {
	if len(c.Subcharts) == 0 {
		return c.Values
	}

	agg := make(map[string]any)
	for _, sub := range c.Subcharts {
		child := sub.Chart.Values
		if child == nil {
			child = map[string]any{}
		}
		agg = values.Merge(agg, map[string]any{sub.Name: child})

		// A conditional subchart defaults to enabled unless the child's
		// values already decide.
		if sub.Condition != "" && !hasPath(agg, sub.Condition) {
			if seeded, err := values.SetPath(agg, sub.Condition, true); err == nil {
				agg = seeded
			}
		}
	}
	if _, ok := agg["global"]; !ok {
		agg["global"] = map[string]any{}
	}
	return values.Merge(agg, c.Values)
}

func hasPath(doc map[string]any, dotted string) bool {
	current := doc
	segments := strings.Split(dotted, ".")
	for i, s := range segments {
		v, ok := current[s]
		if !ok {
			return false
		}
		if i == len(segments)-1 {
			return true
		}
		current, ok = v.(map[string]any)
		if !ok {
			return false
		}
	}
	return false
}

func writeChartYAML(outDir string, c *Chart) error {
	meta := c.Meta
	doc := synth.Map{
		{Key: "apiVersion", Value: meta.APIVersion},
		{Key: "name", Value: meta.Name},
	}
	if meta.Description != "" {
		doc = append(doc, synth.Entry{Key: "description", Value: meta.Description})
	}
	if meta.Type != "" {
		doc = append(doc, synth.Entry{Key: "type", Value: meta.Type})
	}
	doc = append(doc, synth.Entry{Key: "version", Value: meta.Version})
	if meta.AppVersion != "" {
		doc = append(doc, synth.Entry{Key: "appVersion", Value: meta.AppVersion})
	}
	if len(meta.Keywords) > 0 {
		doc = append(doc, synth.Entry{Key: "keywords", Value: meta.Keywords})
	}
	if len(c.Subcharts) > 0 {
		deps := make([]any, 0, len(c.Subcharts))
		for _, sub := range c.Subcharts {
			deps = append(deps, dependencyEntry(sub))
		}
		doc = append(doc, synth.Entry{Key: "dependencies", Value: deps})
	}

	text, err := synth.Serialize(doc)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(outDir, "Chart.yaml"), []byte(text))
}

func dependencyEntry(sub *Subchart) synth.Map {
	version := sub.Version
	if version == "" && sub.Chart != nil && sub.Chart.Meta != nil {
		version = sub.Chart.Meta.Version
	}
	repository := sub.Repository
	if repository == "" {
		repository = "file://" + path.Join("charts", sub.Name)
	}

	dep := synth.Map{
		{Key: "name", Value: sub.Name},
		{Key: "version", Value: version},
		{Key: "repository", Value: repository},
	}
	if sub.Condition != "" {
		dep = append(dep, synth.Entry{Key: "condition", Value: sub.Condition})
	}
	if len(sub.Tags) > 0 {
		dep = append(dep, synth.Entry{Key: "tags", Value: sub.Tags})
	}
	return dep
}

func writeHelmignore(outDir string) error {
	target := filepath.Join(outDir, ".helmignore")
	if _, err := os.Stat(target); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, "checking .helmignore", err)
	}
	return writeFile(target, []byte(defaultHelmignore))
}

func writeFile(target string, data []byte) error {
	if err := os.WriteFile(target, data, fileMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "writing "+filepath.Base(target), err)
	}
	return nil
}
