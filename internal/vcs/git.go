package vcs

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/starford/shelfmark/internal/apperr"
)

// Git implements System by shelling out to the git binary.
type Git struct {
	dir  string
	push bool
}

// NewGit returns a Git rooted at dir. When push is false, commits stay
// local (useful for repos without a remote).
func NewGit(dir string, push bool) *Git {
	return &Git{dir: dir, push: push}
}

// run executes git with args in the repository directory, returning
// stdout. Failures carry the captured stderr so the caller can show
// git's own diagnostic.
func (g *Git) run(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return nil, fmt.Errorf("git %s: %w: %s", args[0], apperr.ErrExternalOperation, diag)
	}
	return out, nil
}

// IsRepository reports whether dir is inside a git working tree.
func (g *Git) IsRepository() bool {
	_, err := g.run("rev-parse", "--git-dir")
	return err == nil
}

// HasUncommittedChanges checks `git status --porcelain`, optionally
// narrowed to paths.
func (g *Git) HasUncommittedChanges(paths ...string) (bool, error) {
	args := []string{"status", "--porcelain"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	out, err := g.run(args...)
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

// ReadFileAtLastRevision returns the content of path at HEAD.
func (g *Git) ReadFileAtLastRevision(path string) ([]byte, error) {
	out, err := g.run("show", "HEAD:"+path)
	if err != nil {
		// An unborn branch or a path absent from HEAD both mean there
		// is no prior copy to diff against.
		msg := err.Error()
		if strings.Contains(msg, "does not exist") ||
			strings.Contains(msg, "invalid object name") ||
			strings.Contains(msg, "unknown revision") ||
			strings.Contains(msg, "bad revision") ||
			strings.Contains(msg, "exists on disk, but not in") {
			return nil, fmt.Errorf("vcs: %s at HEAD: %w", path, apperr.ErrNoPriorRevision)
		}
		return nil, err
	}
	return out, nil
}

// StageCommitPush stages paths, commits with message, and pushes when
// pushing is enabled.
func (g *Git) StageCommitPush(paths []string, message string) error {
	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := g.run(addArgs...); err != nil {
		return err
	}
	if _, err := g.run("commit", "-m", message); err != nil {
		return err
	}
	if !g.push {
		return nil
	}
	if _, err := g.run("push"); err != nil {
		return err
	}
	return nil
}

// Status returns `git status --short --branch` output for the debug
// dump.
func (g *Git) Status() (string, error) {
	out, err := g.run("status", "--short", "--branch")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
