package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/tsorder/pkg/config"
)

// Scanner finds source units in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for a .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns builds matchers from config patterns and .gitignore files.
// Gitignore patterns are relative to the git root, so paths under root are
// prefixed with root's offset from it before matching.
func (s *Scanner) loadExcludePatterns(root string) {
	s.loadConfigPatterns()

	if !s.config.Exclude.Gitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil)
	if err != nil || len(gitPatterns) == 0 {
		return
	}
	s.matchers = append(s.matchers, &prefixed{
		matcher: gitignore.NewMatcher(gitPatterns),
		prefix:  splitRel(gitRoot, root),
	})
}

// loadConfigPatterns resets the matchers to the configured exclude patterns.
func (s *Scanner) loadConfigPatterns() {
	s.matchers = nil

	var patterns []gitignore.Pattern
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// prefixed evaluates paths relative to the scan root against a matcher rooted higher up.
type prefixed struct {
	matcher gitignore.Matcher
	prefix  []string
}

func (p *prefixed) Match(path []string, isDir bool) bool {
	full := make([]string, 0, len(p.prefix)+len(path))
	full = append(full, p.prefix...)
	full = append(full, path...)
	return p.matcher.Match(full, isDir)
}

func splitRel(base, target string) []string {
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}

// isExcluded checks a root-relative path against the exclusion rules.
func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	parts := strings.Split(relPath, string(filepath.Separator))
	if isDir && slices.Contains(s.config.Exclude.Dirs, parts[len(parts)-1]) {
		return true
	}
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively scans a directory for source units.
// Results are in lexical walk order. Symlinks that resolve outside root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		if relPath == "." {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || info.IsDir() {
				// WalkDir does not descend into linked directories.
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(relPath, false) {
			return nil
		}
		if s.config.HasSourceExtension(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, walkErr
}

// ScanFile checks if a single file would be picked up by ScanDir rooted at its directory.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return false, err
	}
	s.loadExcludePatterns(dir)

	if s.isExcluded(filepath.Base(path), false) {
		return false, nil
	}
	return s.config.HasSourceExtension(path), nil
}

// FilterTree keeps the slash-separated relative paths that ScanDir would keep,
// for file lists that do not come from disk such as a git tree. Gitignore rules
// are not applied since tracked files are listed regardless of them.
func (s *Scanner) FilterTree(paths []string) []string {
	s.loadConfigPatterns()

	var kept []string
	for _, p := range paths {
		rel := filepath.FromSlash(p)
		if !s.config.HasSourceExtension(rel) || s.isExcluded(rel, false) {
			continue
		}
		if s.dirExcluded(filepath.Dir(rel)) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// dirExcluded reports whether dir or any of its parents is excluded.
func (s *Scanner) dirExcluded(dir string) bool {
	for dir != "." && dir != string(filepath.Separator) && dir != "" {
		if s.isExcluded(dir, true) {
			return true
		}
		dir = filepath.Dir(dir)
	}
	return false
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Separator suffix keeps "/root2" from matching "/root".
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}
