package chart

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chartsmith/chartsmith/pkg/errors"
	"github.com/chartsmith/chartsmith/pkg/logging"
	"github.com/chartsmith/chartsmith/pkg/pathguard"
)

// Package archives a written chart directory into
// <destDir>/<name>-<version>.tgz using the standard chart package layout:
// every path inside the archive is prefixed with the chart name. Returns
// the archive path.
func Package(ctx context.Context, chartDir, destDir string, meta *Metadata) (string, error) {
	if meta == nil {
		return "", errors.New(errors.ErrCodeInvalidRequest, "chart has no metadata")
	}
	if err := pathguard.Validate(chartDir); err != nil {
		return "", err
	}
	if err := pathguard.Validate(destDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, dirMode); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "creating destination directory", err)
	}

	target := filepath.Join(destDir, meta.Name+"-"+meta.Version+".tgz")
	out, err := os.Create(target)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "creating archive", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(chartDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(chartDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr := &tar.Header{
			Name: filepath.ToSlash(filepath.Join(meta.Name, rel)),
			Mode: int64(fileMode),
			Size: info.Size(),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if walkErr != nil {
		tw.Close()
		gz.Close()
		os.Remove(target)
		return "", errors.Wrap(errors.ErrCodeInternal, "archiving chart", walkErr)
	}

	if err := tw.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "finalizing archive", err)
	}
	if err := gz.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "finalizing archive", err)
	}

	logging.FromContext(ctx).Info("chart packaged", "chart", meta.Name, "archive", target)
	return target, nil
}
