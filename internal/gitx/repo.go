// Package gitx provides the VCS queries monover needs: locating the
// repository root, resolving a base reference, and listing the files changed
// relative to it. It shells out to the git binary; no git plumbing is
// reimplemented here.
package gitx

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// ErrNotInRepo indicates the given directory is not inside a git repository.
var ErrNotInRepo = errors.New("not in a git repository")

// GitRepo provides an abstraction for git repository queries.
type GitRepo interface {
	// Root returns the repository root containing dir.
	// Returns ErrNotInRepo when dir is not inside a repository.
	Root(dir string) (string, error)

	// CurrentBranch returns the name of the checked-out branch, or an empty
	// string on a detached HEAD.
	CurrentBranch(root string) (string, error)

	// MergeBase returns the merge base between HEAD and the first of refs
	// that resolves. Returns an empty string when none of them do.
	MergeBase(root string, refs []string) (string, error)

	// ChangedFiles lists the paths changed relative to base, including
	// uncommitted and untracked files. Paths are relative to the repository
	// root. An empty base limits the diff to the working tree.
	ChangedFiles(root, base string) ([]string, error)
}

// RealGitRepo implements GitRepo using the git binary.
type RealGitRepo struct{}

// NewRealGitRepo creates a new RealGitRepo.
func NewRealGitRepo() *RealGitRepo {
	return &RealGitRepo{}
}

// run executes a git command in dir and returns its trimmed stdout.
func (g *RealGitRepo) run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Root returns the repository root containing dir.
func (g *RealGitRepo) Root(dir string) (string, error) {
	root, err := g.run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInRepo, dir)
	}
	return root, nil
}

// CurrentBranch returns the name of the checked-out branch.
func (g *RealGitRepo) CurrentBranch(root string) (string, error) {
	branch, err := g.run(root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch == "HEAD" {
		// Detached HEAD.
		return "", nil
	}
	return branch, nil
}

// MergeBase returns the merge base between HEAD and the first resolvable ref.
func (g *RealGitRepo) MergeBase(root string, refs []string) (string, error) {
	for _, ref := range refs {
		base, err := g.run(root, "merge-base", ref, "HEAD")
		if err == nil && base != "" {
			return base, nil
		}
	}
	// No base ref resolves; callers fall back to working-tree changes only.
	return "", nil
}

// ChangedFiles lists the paths changed relative to base.
func (g *RealGitRepo) ChangedFiles(root, base string) ([]string, error) {
	seen := make(map[string]struct{})

	diffArgs := []string{"diff", "--name-only"}
	if base != "" {
		diffArgs = append(diffArgs, base)
	} else {
		diffArgs = append(diffArgs, "HEAD")
	}
	diff, err := g.run(root, diffArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to diff against base: %w", err)
	}
	for _, line := range strings.Split(diff, "\n") {
		if line != "" {
			seen[line] = struct{}{}
		}
	}

	untracked, err := g.run(root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}
	for _, line := range strings.Split(untracked, "\n") {
		if line != "" {
			seen[line] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// FakeGitRepo implements GitRepo with predetermined values for testing.
type FakeGitRepo struct {
	RootDir      string
	Branch       string
	Base         string
	Changed      []string
	Err          error
	NotInRepoErr bool
}

// NewFakeGitRepo creates a new FakeGitRepo rooted at root.
func NewFakeGitRepo(root string) *FakeGitRepo {
	return &FakeGitRepo{RootDir: root, Branch: "feature", Base: "abc123"}
}

// Root returns the predetermined root.
func (g *FakeGitRepo) Root(dir string) (string, error) {
	if g.NotInRepoErr {
		return "", fmt.Errorf("%w: %s", ErrNotInRepo, dir)
	}
	if g.Err != nil {
		return "", g.Err
	}
	return g.RootDir, nil
}

// CurrentBranch returns the predetermined branch.
func (g *FakeGitRepo) CurrentBranch(root string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	return g.Branch, nil
}

// MergeBase returns the predetermined base.
func (g *FakeGitRepo) MergeBase(root string, refs []string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	return g.Base, nil
}

// ChangedFiles returns the predetermined changed file list.
func (g *FakeGitRepo) ChangedFiles(root, base string) ([]string, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Changed, nil
}
