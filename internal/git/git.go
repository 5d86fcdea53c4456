// Package git wraps the repository operations the release workflow needs:
// staging the changelog, committing, and tagging. It uses the go-git library
// throughout, so releases work without a git binary on the PATH.
package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Repo is an open git repository and its worktree.
type Repo struct {
	repo *git.Repository
	wt   *git.Worktree
}

// Open opens the git repository containing path, searching parent directories
// for the .git directory the way the git CLI does. If path is empty, the
// current working directory is used.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: repo, wt: wt}, nil
}

// Root returns the absolute path of the repository's working tree root.
func (r *Repo) Root() string {
	return r.wt.Filesystem.Root()
}

// Stage adds a file to the index. The path may be absolute or relative to the
// current directory; it is converted to be relative to the repository root.
func (r *Repo) Stage(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path %s: %w", path, err)
	}

	rel, err := filepath.Rel(r.Root(), abs)
	if err != nil {
		return fmt.Errorf("path %s is outside the repository: %w", path, err)
	}

	if _, err := r.wt.Add(filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("staging %s: %w", rel, err)
	}
	return nil
}

// Changes counts the staged and untracked files in the worktree, so callers
// can warn before committing with untracked files present.
func (r *Repo) Changes() (staged, untracked int, err error) {
	status, err := r.wt.Status()
	if err != nil {
		return 0, 0, fmt.Errorf("getting worktree status: %w", err)
	}

	for _, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			staged++
		}
		if s.Worktree == git.Untracked {
			untracked++
		}
	}
	return staged, untracked, nil
}

// Commit commits the index with the given message, using the author from the
// repository's git config. It returns the abbreviated commit hash.
func (r *Repo) Commit(message string) (string, error) {
	hash, err := r.wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}
	return hash.String()[:7], nil
}

// Tag creates an annotated tag with the given message pointing at HEAD. An
// empty message creates a lightweight tag instead.
func (r *Repo) Tag(name, message string) error {
	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}

	var opts *git.CreateTagOptions
	if message != "" {
		opts = &git.CreateTagOptions{Message: message}
	}

	if _, err := r.repo.CreateTag(name, head.Hash(), opts); err != nil {
		return fmt.Errorf("creating tag %q: %w", name, err)
	}
	return nil
}

// SetAuthor writes user.name and user.email into the repository's local
// config, for repositories that have no author configured.
func (r *Repo) SetAuthor(name, email string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return fmt.Errorf("reading repository config: %w", err)
	}
	cfg.User.Name = name
	cfg.User.Email = email
	if err := r.repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("writing repository config: %w", err)
	}
	return nil
}
