// Package analysis wires configuration, source providers, the extractor, and the
// descriptor cache into the ordering and checking pipelines.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/panbanda/tsorder/internal/cache"
	"github.com/panbanda/tsorder/internal/vcs"
	"github.com/panbanda/tsorder/pkg/analyzer/inherit"
	"github.com/panbanda/tsorder/pkg/config"
	"github.com/panbanda/tsorder/pkg/extract"
	"github.com/panbanda/tsorder/pkg/models"
	"github.com/panbanda/tsorder/pkg/source"
)

// Service orchestrates ordering operations.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Options configures a single run.
type Options struct {
	// Ref reads units from a git revision instead of the working tree.
	Ref string
	// NoCache bypasses the descriptor cache.
	NoCache bool
	// Workers bounds concurrent reads; 0 uses the default.
	Workers int
	// Tracker, when set, is created once the unit count is known.
	Tracker func(total int) source.Tracker
	// Stats, when set, receives counts from the run.
	Stats *Stats
}

// Stats describes one run.
type Stats struct {
	Units       int
	CacheHits   int64
	CacheMisses int64
	Cached      bool
}

// Provider returns the source provider for dir, reading from ref when set.
func (s *Service) Provider(dir string, opts Options) source.Provider {
	var srcOpts []source.Option
	if opts.Workers > 0 {
		srcOpts = append(srcOpts, source.WithWorkers(opts.Workers))
	}
	if opts.Tracker != nil {
		srcOpts = append(srcOpts, source.WithTracker(opts.Tracker))
	}
	if opts.Ref != "" {
		srcOpts = append(srcOpts, source.WithOpener(s.opener))
		return source.NewGit(dir, opts.Ref, s.config, srcOpts...)
	}
	return source.NewDir(dir, s.config, srcOpts...)
}

// extractor builds the configured extractor, wrapped in the cache unless disabled.
// The returned cache extractor is nil when caching is off.
func (s *Service) extractor(dir string, noCache bool) (extract.Extractor, *cache.Extractor, error) {
	mode, err := extract.ParseMode(s.config.Extract.Mode)
	if err != nil {
		return nil, nil, err
	}
	inner := extract.New(mode)
	if noCache || !s.config.Cache.Enabled {
		return inner, nil, nil
	}

	c, err := s.openCache(dir)
	if err != nil {
		return nil, nil, err
	}
	cached := cache.NewExtractor(inner, mode, c)
	return cached, cached, nil
}

// openCache opens the descriptor cache for an absolute source directory.
// Relative cache directories are resolved against it.
func (s *Service) openCache(dir string) (*cache.Cache, error) {
	cacheDir := s.config.Cache.Dir
	if !filepath.IsAbs(cacheDir) {
		cacheDir = filepath.Join(dir, cacheDir)
	}
	c, err := cache.New(cacheDir, s.config.Cache.TTL, true)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", cacheDir, err)
	}
	return c, nil
}

// Cache opens the descriptor cache used for dir, whether or not caching is enabled.
func (s *Service) Cache(dir string) (*cache.Cache, error) {
	abs, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}
	return s.openCache(abs)
}

// Describe reads the units under dir and extracts one descriptor per unit, in
// discovery order.
func (s *Service) Describe(ctx context.Context, dir string, opts Options) ([]models.ClassDescriptor, error) {
	abs, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	ex, cached, err := s.extractor(abs, opts.NoCache)
	if err != nil {
		return nil, err
	}

	units, err := s.Provider(abs, opts).Units(ctx)
	if err != nil {
		return nil, err
	}

	descs := inherit.New(inherit.WithExtractor(ex)).Describe(units)

	if opts.Stats != nil {
		opts.Stats.Units = len(units)
		if cached != nil {
			opts.Stats.Cached = true
			opts.Stats.CacheHits = cached.Hits()
			opts.Stats.CacheMisses = cached.Misses()
		}
	}
	return descs, nil
}

// Order computes the inheritance order of the units under dir.
func (s *Service) Order(ctx context.Context, dir string, opts Options) (*models.OrderResult, error) {
	descs, err := s.Describe(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	return inherit.OrderDescriptors(descs)
}

// Check reports inheritance problems in the units under dir.
func (s *Service) Check(ctx context.Context, dir string, opts Options) (*models.InheritanceReport, error) {
	descs, err := s.Describe(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	return inherit.CheckDescriptors(descs), nil
}

// resolveDir returns dir as an absolute path after checking it is a directory.
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", &PathError{Path: dir, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &PathError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return "", &PathError{Path: dir, Err: fmt.Errorf("not a directory")}
	}
	return abs, nil
}

// PathError reports a source directory that cannot be used.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid source directory " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
