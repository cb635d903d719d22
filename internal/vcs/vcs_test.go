package vcs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/panbanda/tsorder/internal/testutil"
)

func TestNewGitOpener(t *testing.T) {
	opener := NewGitOpener()
	if opener == nil {
		t.Fatal("NewGitOpener() returned nil")
	}
}

func TestGitOpener_PlainOpen(t *testing.T) {
	repoPath := initTestRepo(t)

	repo, err := NewGitOpener().PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	if repo.RepoPath() != repoPath {
		t.Errorf("RepoPath() = %q, want %q", repo.RepoPath(), repoPath)
	}
}

func TestGitOpener_PlainOpen_NonExistent(t *testing.T) {
	_, err := NewGitOpener().PlainOpen("/nonexistent/path")
	if err == nil {
		t.Error("PlainOpen() should return error for non-existent path")
	}
}

func TestGitOpener_PlainOpen_Bare(t *testing.T) {
	repoPath := t.TempDir()
	if _, err := git.PlainInit(repoPath, true); err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	if _, err := NewGitOpener().PlainOpen(repoPath); err != ErrNoWorktree {
		t.Errorf("PlainOpen() on bare repo error = %v, want ErrNoWorktree", err)
	}
}

func TestGitOpener_PlainOpenWithDetect(t *testing.T) {
	repoPath := initTestRepo(t)

	subDir := filepath.Join(repoPath, "subdir")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	repo, err := NewGitOpener().PlainOpenWithDetect(subDir)
	if err != nil {
		t.Fatalf("PlainOpenWithDetect() error = %v", err)
	}
	if repo.RepoPath() != repoPath {
		t.Errorf("RepoPath() = %q, want %q", repo.RepoPath(), repoPath)
	}
}

func TestGitRepository_Head(t *testing.T) {
	repoPath := initTestRepoWithCommits(t)

	repo, err := NewGitOpener().PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if head.Hash().IsZero() {
		t.Error("Head() returned zero hash")
	}
	if head.Name() != "master" {
		t.Errorf("Head().Name() = %q, want master", head.Name())
	}
}

func TestGitRepository_Head_Empty(t *testing.T) {
	repo, err := NewGitOpener().PlainOpen(initTestRepo(t))
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	if _, err := repo.Head(); err == nil {
		t.Error("Head() should fail for a repository without commits")
	}
}

func TestGitRepository_ResolveRevision(t *testing.T) {
	repoPath := initTestRepoWithCommits(t)

	repo, err := NewGitOpener().PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}

	for _, rev := range []string{"HEAD", "master", head.Hash().String()} {
		hash, err := repo.ResolveRevision(rev)
		if err != nil {
			t.Fatalf("ResolveRevision(%q) error = %v", rev, err)
		}
		if hash != head.Hash() {
			t.Errorf("ResolveRevision(%q) = %s, want %s", rev, hash, head.Hash())
		}
	}

	parent, err := repo.ResolveRevision("HEAD~1")
	if err != nil {
		t.Fatalf("ResolveRevision(HEAD~1) error = %v", err)
	}
	if parent == head.Hash() {
		t.Error("HEAD~1 should differ from HEAD")
	}

	if _, err := repo.ResolveRevision("no-such-branch"); err == nil {
		t.Error("ResolveRevision() should fail for unknown revision")
	}
}

func TestTreeEntries(t *testing.T) {
	tree := headTree(t, initTestRepoWithCommits(t))

	entries, err := tree.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}

	byPath := make(map[string]TreeEntry)
	for _, e := range entries {
		byPath[e.Path] = e
	}

	if e, ok := byPath["src/Shape.ts"]; !ok || e.IsDir || e.Size == 0 {
		t.Errorf("src/Shape.ts entry = %+v, %v", e, ok)
	}
	if e, ok := byPath["src"]; !ok || !e.IsDir {
		t.Errorf("src entry = %+v, %v", e, ok)
	}
	if _, ok := byPath["README.md"]; !ok {
		t.Error("should find README.md in tree entries")
	}
}

func TestTreeFile(t *testing.T) {
	tree := headTree(t, initTestRepoWithCommits(t))

	content, err := tree.File("src/Circle.ts")
	if err != nil {
		t.Fatalf("File() error = %v", err)
	}
	if !bytes.Contains(content, []byte("extends Shape")) {
		t.Errorf("File() = %q, want committed content", content)
	}

	if _, err := tree.File("nonexistent.ts"); err == nil {
		t.Error("File() should return error for non-existent file")
	}
}

func TestTreeFileAtOlderRevision(t *testing.T) {
	repoPath := initTestRepoWithCommits(t)

	repo, err := NewGitOpener().PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	hash, err := repo.ResolveRevision("HEAD~1")
	if err != nil {
		t.Fatalf("ResolveRevision() error = %v", err)
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}

	if _, err := tree.File("src/Circle.ts"); err == nil {
		t.Error("src/Circle.ts should not exist in the first commit")
	}
}

func TestDefaultOpener(t *testing.T) {
	if DefaultOpener() == nil {
		t.Error("DefaultOpener() returned nil")
	}
}

func TestSetDefaultOpener(t *testing.T) {
	original := DefaultOpener()
	defer SetDefaultOpener(original)

	custom := NewGitOpener()
	SetDefaultOpener(custom)
	if DefaultOpener() != custom {
		t.Error("SetDefaultOpener() did not set the opener")
	}
}

func headTree(t *testing.T, repoPath string) Tree {
	t.Helper()
	repo, err := NewGitOpener().PlainOpen(repoPath)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}
	return tree
}

func initTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	if _, err := git.PlainInit(repoPath, false); err != nil {
		t.Fatalf("Failed to init repo: %v", err)
	}
	return repoPath
}

// initTestRepoWithCommits commits src/Shape.ts and README.md, then src/Circle.ts.
func initTestRepoWithCommits(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	w := testutil.InitRepo(t, repoPath, map[string]string{
		"src/Shape.ts": "export class Shape {}\n",
		"README.md":    "# shapes\n",
	})
	testutil.Commit(t, w, repoPath, "Add circle", map[string]string{
		"src/Circle.ts": "export class Circle extends Shape {}\n",
	})
	return repoPath
}
