// Package manifest renders ordered source paths as a TypeScript reference manifest:
// one triple-slash reference directive per unit, in compilation order.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Options controls how paths are written.
type Options struct {
	// Relative writes each path relative to BaseDir with forward slashes.
	// Otherwise paths are made absolute.
	Relative bool
	// BaseDir anchors relative paths. WriteFile defaults it to the manifest's directory.
	BaseDir string
}

// Line returns the reference directive for one path, including the trailing newline.
func Line(path string) string {
	return `///<reference path="` + path + `"/>` + "\n"
}

// Render writes one directive per path in the given order.
func Render(w io.Writer, paths []string, opts Options) error {
	bw := bufio.NewWriter(w)
	for _, p := range paths {
		ref, err := opts.reference(p)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(Line(ref)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (o Options) reference(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if !o.Relative {
		return abs, nil
	}

	base, err := filepath.Abs(o.BaseDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", o.BaseDir, err)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", fmt.Errorf("relativizing %s: %w", path, err)
	}
	return filepath.ToSlash(rel), nil
}

// WriteFile renders the manifest to path, replacing it atomically.
func WriteFile(path string, paths []string, opts Options) error {
	if opts.Relative && opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := Render(tmp, paths, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
