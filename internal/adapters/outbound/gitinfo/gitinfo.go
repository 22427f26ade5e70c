// Package gitinfo records which commit an exported invoice came from.
package gitinfo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Repo implements domain.GitInfo using go-git. It never shells out.
type Repo struct{}

func New() *Repo {
	return &Repo{}
}

// IsGitRepo reports whether path, or a parent of it, is inside a work tree.
func (r *Repo) IsGitRepo(path string) bool {
	_, _, err := open(path)
	return err == nil
}

// CommitHash returns the last commit that changed the file at path. For a
// directory, or a file git does not track yet, it returns HEAD.
func (r *Repo) CommitHash(path string) (string, error) {
	repo, root, err := open(path)
	if err != nil {
		return "", fmt.Errorf("opening git repo: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return head.Hash().String(), nil
	}
	rel, err := relative(root, path)
	if err != nil {
		return head.Hash().String(), nil
	}

	commits, err := repo.Log(&git.LogOptions{From: head.Hash(), FileName: &rel})
	if err != nil {
		return "", fmt.Errorf("reading log of %s: %w", rel, err)
	}
	defer commits.Close()

	c, err := commits.Next()
	switch {
	case errors.Is(err, io.EOF):
		return head.Hash().String(), nil
	case err != nil:
		return "", fmt.Errorf("reading log of %s: %w", rel, err)
	}
	return c.Hash.String(), nil
}

func open(path string) (*git.Repository, string, error) {
	dir := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", err
	}
	return repo, wt.Filesystem.Root(), nil
}

// relative returns path inside root in the slash form git logs use.
func relative(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// Temp dirs are often behind symlinks (macOS /var); compare resolved paths.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
