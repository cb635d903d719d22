// Package vcs reads committed source trees out of git repositories.
package vcs

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Opener locates and opens repositories. Tests substitute their own.
type Opener interface {
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect also searches parent directories for .git.
	PlainOpenWithDetect(path string) (Repository, error)
}

// Repository is the subset of a git repository that source listing needs.
type Repository interface {
	Head() (Reference, error)
	// ResolveRevision accepts anything rev-parse would: branch, tag, hash, HEAD~n.
	ResolveRevision(rev string) (plumbing.Hash, error)
	CommitObject(hash plumbing.Hash) (Commit, error)
	// RepoPath is the working tree root.
	RepoPath() string
}

type Reference interface {
	Hash() plumbing.Hash
	// Name is the short branch name, or the hash when HEAD is detached.
	Name() string
}

type Commit interface {
	Hash() plumbing.Hash
	Tree() (Tree, error)
}

// Tree is a commit's file tree.
type Tree interface {
	// Entries walks the whole tree in path order.
	Entries() ([]TreeEntry, error)
	// File reads the blob at a slash-separated path.
	File(path string) ([]byte, error)
}

// TreeEntry is one path in a Tree. Paths are slash separated and relative to
// the repository root.
type TreeEntry struct {
	Path  string
	Size  int64
	IsDir bool
}
