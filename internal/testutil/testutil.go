// Package testutil builds source trees and git repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// WriteFile writes content to a file, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// CreateFileTree creates multiple files from a map of slash-separated path -> content.
func CreateFileTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
}

// SourceTree creates files in a fresh temporary directory and returns it.
func SourceTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	CreateFileTree(t, dir, files)
	return dir
}

// Shapes is a three-level hierarchy listed in reverse dependency order, plus a
// unit without a class. Its inheritance order is d_util, c_Shape, b_Rect, a_Square.
func Shapes() map[string]string {
	return map[string]string{
		"a_Square.ts": "export class Square extends Rect {}",
		"b_Rect.ts":   "export class Rect extends Shape {}",
		"c_Shape.ts":  "export class Shape {}",
		"d_util.ts":   "export const PI = 3.14;",
	}
}

// InitRepo initializes a repository at dir and commits files as "initial".
func InitRepo(t *testing.T, dir string, files map[string]string) *git.Worktree {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit(%s) error: %v", dir, err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error: %v", err)
	}
	Commit(t, w, dir, "initial", files)
	return w
}

// Commit writes files under dir and commits them.
func Commit(t *testing.T, w *git.Worktree, dir, msg string, files map[string]string) {
	t.Helper()
	CreateFileTree(t, dir, files)
	for name := range files {
		if _, err := w.Add(name); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}
	_, err := w.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("Commit(%s) error: %v", msg, err)
	}
}
