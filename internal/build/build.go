// Package build hands an ordered unit list to the TypeScript compiler.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/panbanda/tsorder/internal/manifest"
	"github.com/panbanda/tsorder/pkg/config"
)

// Invoker compiles ordered units into a single output file.
type Invoker interface {
	Build(ctx context.Context, paths []string, output string) error
}

// BuildError reports a compiler run that did not succeed.
type BuildError struct {
	Command  []string
	ExitCode int // -1 when the process could not be started or was killed
	Err      error
}

func (e *BuildError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s exited with status %d", e.Command[0], e.ExitCode)
	}
	return fmt.Sprintf("running %s: %v", e.Command[0], e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Runner executes a command. Tests replace it; the default uses os/exec.
type Runner func(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error

func execRunner(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// TscInvoker stages a reference manifest and runs the compiler on it.
type TscInvoker struct {
	command  string
	args     []string
	stdout   io.Writer
	stderr   io.Writer
	manifest string
	relative bool
	run      Runner
}

// Option configures a TscInvoker.
type Option func(*TscInvoker)

// WithOutput sets where the compiler's stdout and stderr go.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(t *TscInvoker) {
		t.stdout = stdout
		t.stderr = stderr
	}
}

// WithManifestPath keeps the manifest at path instead of a removed temp file.
func WithManifestPath(path string) Option {
	return func(t *TscInvoker) {
		t.manifest = path
	}
}

// WithRelativePaths writes manifest paths relative to the manifest's directory.
func WithRelativePaths(relative bool) Option {
	return func(t *TscInvoker) {
		t.relative = relative
	}
}

// WithRunner replaces process execution.
func WithRunner(run Runner) Option {
	return func(t *TscInvoker) {
		if run != nil {
			t.run = run
		}
	}
}

// NewTsc creates an invoker from build settings.
func NewTsc(cfg config.BuildConfig, opts ...Option) *TscInvoker {
	t := &TscInvoker{
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		run:     execRunner,
	}
	if t.command == "" {
		t.command = "tsc"
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CommandLine returns the full compiler invocation for a manifest and output.
func (t *TscInvoker) CommandLine(manifestPath, output string) []string {
	line := make([]string, 0, len(t.args)+4)
	line = append(line, t.command)
	line = append(line, t.args...)
	return append(line, "--out", output, manifestPath)
}

// Build writes the manifest, runs the compiler, and removes a temporary manifest
// whatever the outcome.
func (t *TscInvoker) Build(ctx context.Context, paths []string, output string) error {
	manifestPath, cleanup, err := t.stage(paths)
	if err != nil {
		return err
	}
	defer cleanup()

	line := t.CommandLine(manifestPath, output)
	if err := t.run(ctx, line[0], line[1:], t.stdout, t.stderr); err != nil {
		be := &BuildError{Command: line, ExitCode: -1, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			be.ExitCode = exitErr.ExitCode()
		}
		return be
	}
	return nil
}

// stage writes the manifest and returns its path and a cleanup function.
func (t *TscInvoker) stage(paths []string) (string, func(), error) {
	opts := manifest.Options{Relative: t.relative}

	if t.manifest != "" {
		if err := manifest.WriteFile(t.manifest, paths, opts); err != nil {
			return "", nil, fmt.Errorf("writing manifest: %w", err)
		}
		return t.manifest, func() {}, nil
	}

	tmp, err := os.CreateTemp("", "__tmp*.ts")
	if err != nil {
		return "", nil, fmt.Errorf("creating manifest: %w", err)
	}
	cleanup := func() { os.Remove(tmp.Name()) }

	opts.BaseDir = filepath.Dir(tmp.Name())
	if err := manifest.Render(tmp, paths, opts); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing manifest: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

// DryRunInvoker prints the compiler command and manifest instead of running them.
type DryRunInvoker struct {
	tsc *TscInvoker
	out io.Writer
}

// NewDryRun wraps an invoker's command construction.
func NewDryRun(tsc *TscInvoker, out io.Writer) *DryRunInvoker {
	return &DryRunInvoker{tsc: tsc, out: out}
}

// Build implements Invoker.
func (d *DryRunInvoker) Build(ctx context.Context, paths []string, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	manifestPath := d.tsc.manifest
	if manifestPath == "" {
		manifestPath = "__tmp.ts"
	}
	if _, err := fmt.Fprintln(d.out, quoteLine(d.tsc.CommandLine(manifestPath, output))); err != nil {
		return err
	}
	return manifest.Render(d.out, paths, manifest.Options{
		Relative: d.tsc.relative,
		BaseDir:  filepath.Dir(manifestPath),
	})
}

// quoteLine joins a command line, quoting arguments with spaces.
func quoteLine(line []string) string {
	parts := make([]string, len(line))
	for i, arg := range line {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", arg)
		} else {
			parts[i] = arg
		}
	}
	return strings.Join(parts, " ")
}
