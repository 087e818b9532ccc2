// Package pathguard validates filesystem paths and identifiers before any
// on-disk write. Every chart, environment, and manifest name passes through
// this package so a hostile identifier can never climb out of the output
// directory.
package pathguard

import (
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/chartsmith/chartsmith/pkg/errors"
)

// MaxPathLength is the longest path accepted by Resolve and Validate.
const MaxPathLength = 4096

// ResolveOptions controls Resolve behavior.
type ResolveOptions struct {
	// AllowAbsolute permits an absolute candidate path. The resolved path
	// must still fall inside base.
	AllowAbsolute bool
}

// Validate rejects paths containing a null byte, empty paths, and paths
// longer than MaxPathLength. It performs no base containment check.
func Validate(path string) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "path is empty")
	}
	if strings.ContainsRune(path, 0) {
		return errors.New(errors.ErrCodeInvalidPath, "path contains a null byte")
	}
	if len(path) > MaxPathLength {
		return errors.Newf(errors.ErrCodeInvalidPath, "path exceeds %d characters", MaxPathLength)
	}
	return nil
}

// Resolve joins candidate under base, cleans the result, and verifies it
// did not escape base. Candidates carrying a ".." path element are rejected
// before cleaning, even when the cleaned result would stay inside base.
// Absolute candidates fail unless opts.AllowAbsolute is set, and even then
// the resolved path is validated against base. The returned path is
// absolute.
func Resolve(candidate, base string, opts ResolveOptions) (string, error) {
	if err := Validate(candidate); err != nil {
		return "", err
	}
	if err := Validate(base); err != nil {
		return "", err
	}
	for _, elem := range strings.Split(filepath.ToSlash(candidate), "/") {
		if elem == ".." {
			return "", errors.Newf(errors.ErrCodeInvalidPath, "path %s contains a parent directory element", candidate)
		}
	}

	baseAbs, err := filepath.Abs(base)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, "resolving base", err)
	}
	baseAbs = filepath.Clean(baseAbs)

	var resolved string
	if filepath.IsAbs(candidate) {
		if !opts.AllowAbsolute {
			return "", errors.Newf(errors.ErrCodeInvalidPath, "absolute path not permitted: %s", candidate)
		}
		resolved = filepath.Clean(candidate)
	} else {
		resolved = filepath.Clean(filepath.Join(baseAbs, candidate))
	}

	if resolved != baseAbs && !strings.HasPrefix(resolved, baseAbs+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrCodeInvalidPath, "path %s escapes base %s", candidate, base)
	}
	return resolved, nil
}

// SanitizeName validates a chart or environment name: a lowercase DNS-1123
// label (alphanumerics and hyphens, at most 63 characters). Returns the
// name unchanged on success.
func SanitizeName(name string) (string, error) {
	if msgs := validation.IsDNS1123Label(name); len(msgs) > 0 {
		return "", errors.Newf(errors.ErrCodeInvalidIdentifier,
			"invalid name %q: %s", name, strings.Join(msgs, "; "))
	}
	return name, nil
}

// SanitizeManifestID validates a manifest identifier. Identifiers become
// filenames under templates/, so slashes nest directories and every
// slash-separated segment must be a non-empty run of alphanumerics, dots,
// hyphens, or underscores. An identifier containing ".." anywhere is
// rejected outright, dotted segments like "a..b" included.
// Returns the identifier unchanged on success.
func SanitizeManifestID(id string) (string, error) {
	if id == "" {
		return "", errors.New(errors.ErrCodeInvalidIdentifier, "manifest identifier is empty")
	}
	if strings.ContainsRune(id, 0) {
		return "", errors.Newf(errors.ErrCodeInvalidIdentifier, "manifest identifier %q contains a null byte", id)
	}
	if strings.Contains(id, "..") {
		return "", errors.Newf(errors.ErrCodeInvalidIdentifier, "manifest identifier %q contains a parent reference", id)
	}
	if len(id) > MaxPathLength {
		return "", errors.Newf(errors.ErrCodeInvalidIdentifier, "manifest identifier exceeds %d characters", MaxPathLength)
	}
	if strings.HasPrefix(id, "/") {
		return "", errors.Newf(errors.ErrCodeInvalidIdentifier, "manifest identifier %q is absolute", id)
	}
	for _, segment := range strings.Split(id, "/") {
		if segment == "" {
			return "", errors.Newf(errors.ErrCodeInvalidIdentifier, "manifest identifier %q contains an empty segment", id)
		}
		if segment == "." {
			return "", errors.Newf(errors.ErrCodeInvalidIdentifier, "manifest identifier %q contains a relative segment", id)
		}
		if !isIdentifierSegment(segment) {
			return "", errors.Newf(errors.ErrCodeInvalidIdentifier,
				"manifest identifier segment %q: only alphanumerics, dots, hyphens, and underscores are allowed", segment)
		}
	}
	return id, nil
}

func isIdentifierSegment(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
