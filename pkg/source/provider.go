package source

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/panbanda/tsorder/internal/fileproc"
	"github.com/panbanda/tsorder/internal/scanner"
	"github.com/panbanda/tsorder/internal/vcs"
	"github.com/panbanda/tsorder/pkg/config"
	"github.com/panbanda/tsorder/pkg/models"
)

// Tracker receives read progress. internal/progress.Tracker satisfies it.
type Tracker interface {
	Tick()
	FinishSuccess()
}

type options struct {
	workers    int
	newTracker func(total int) Tracker
	opener     vcs.Opener
}

// Option configures a provider.
type Option func(*options)

// WithWorkers bounds the number of concurrent reads.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTracker reports progress through a tracker created once the unit count is known.
// fn may return nil to skip tracking.
func WithTracker(fn func(total int) Tracker) Option {
	return func(o *options) {
		o.newTracker = fn
	}
}

// WithOpener replaces the git opener used by GitSource.
func WithOpener(opener vcs.Opener) Option {
	return func(o *options) {
		o.opener = opener
	}
}

func buildOptions(opts []Option) options {
	o := options{opener: vcs.DefaultOpener()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// readAll reads paths concurrently and keeps their order.
func readAll(ctx context.Context, src ContentSource, paths []string, unitPath func(string) string, o options) ([]models.SourceUnit, error) {
	procOpts := []fileproc.Option{fileproc.WithMaxWorkers(o.workers)}
	if o.newTracker != nil && len(paths) > 0 {
		if tracker := o.newTracker(len(paths)); tracker != nil {
			defer tracker.FinishSuccess()
			procOpts = append(procOpts, fileproc.WithProgress(tracker.Tick))
		}
	}

	contents, err := fileproc.ForEachFile(ctx, paths, src.Read, procOpts...)
	if err != nil {
		return nil, err
	}

	units := make([]models.SourceUnit, len(paths))
	for i, p := range paths {
		units[i] = models.SourceUnit{Path: unitPath(p), Content: contents[i]}
	}
	return units, nil
}

// DirSource provides the source files under a directory from disk.
type DirSource struct {
	root string
	cfg  *config.Config
	opts options
}

// NewDir creates a provider for the files under root.
func NewDir(root string, cfg *config.Config, opts ...Option) *DirSource {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &DirSource{root: root, cfg: cfg, opts: buildOptions(opts)}
}

// Root returns the scanned directory.
func (d *DirSource) Root() string {
	return d.root
}

// Units scans the directory and reads every matching file. Paths keep the
// scanner's lexical walk order.
func (d *DirSource) Units(ctx context.Context) ([]models.SourceUnit, error) {
	files, err := scanner.NewScanner(d.cfg).ScanDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", d.root, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	units, err := readAll(ctx, NewFilesystem(), files, func(p string) string { return p }, d.opts)
	if err != nil {
		return nil, fmt.Errorf("reading sources: %w", err)
	}
	return units, nil
}

// GitSource provides the source files under a directory as committed at a revision.
type GitSource struct {
	dir  string
	ref  string
	cfg  *config.Config
	opts options
}

// NewGit creates a provider reading dir's files at ref (branch, tag, or hash).
func NewGit(dir, ref string, cfg *config.Config, opts ...Option) *GitSource {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &GitSource{dir: dir, ref: ref, cfg: cfg, opts: buildOptions(opts)}
}

// Units lists the tree at the revision and reads the matching blobs. Unit paths
// are joined onto the directory as given, so they match what DirSource returns
// for the same checkout. Paths are sorted.
func (g *GitSource) Units(ctx context.Context) ([]models.SourceUnit, error) {
	repo, err := g.opts.opener.PlainOpenWithDetect(g.dir)
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", g.dir, err)
	}

	prefix, err := g.treePrefix(repo.RepoPath())
	if err != nil {
		return nil, err
	}

	hash, err := repo.ResolveRevision(g.ref)
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("loading tree %s: %w", hash, err)
	}
	entries, err := tree.Entries()
	if err != nil {
		return nil, fmt.Errorf("listing tree %s: %w", hash, err)
	}

	// Paths relative to dir, slash separated.
	var rel []string
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if prefix == "" {
			rel = append(rel, e.Path)
		} else if strings.HasPrefix(e.Path, prefix+"/") {
			rel = append(rel, strings.TrimPrefix(e.Path, prefix+"/"))
		}
	}
	rel = scanner.NewScanner(g.cfg).FilterTree(rel)
	sort.Strings(rel)

	blobPaths := make([]string, len(rel))
	for i, r := range rel {
		blobPaths[i] = path.Join(prefix, r)
	}

	units, err := readAll(ctx, NewTree(tree), blobPaths, func(p string) string {
		return filepath.Join(g.dir, filepath.FromSlash(strings.TrimPrefix(p, prefix+"/")))
	}, g.opts)
	if err != nil {
		return nil, fmt.Errorf("reading sources at %s: %w", g.ref, err)
	}
	return units, nil
}

// treePrefix is dir's slash-separated location inside the repository, "" for the root.
func (g *GitSource) treePrefix(repoRoot string) (string, error) {
	absDir, err := filepath.Abs(g.dir)
	if err != nil {
		return "", err
	}
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside repository %s", g.dir, repoRoot)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
