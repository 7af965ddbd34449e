package gitx

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// initRepo creates a git repository with one commit in a temp directory.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	run("init", "--initial-branch=master")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")

	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	run("add", ".")
	run("commit", "-m", "initial")

	// macOS temp dirs resolve through /private; normalize like git does.
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return resolved
}

func TestRoot(t *testing.T) {
	dir := initRepo(t)
	g := NewRealGitRepo()

	sub := filepath.Join(dir, "packages", "pkg-a")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}

	root, err := g.Root(sub)
	if err != nil {
		t.Fatalf("Root returned error: %v", err)
	}
	if root != dir {
		t.Errorf("Root = %q, want %q", root, dir)
	}
}

func TestRoot_NotInRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	g := NewRealGitRepo()

	_, err := g.Root(t.TempDir())
	if !errors.Is(err, ErrNotInRepo) {
		t.Errorf("expected ErrNotInRepo, got: %v", err)
	}
}

func TestMergeBase_FallsBackAcrossRefs(t *testing.T) {
	dir := initRepo(t)
	g := NewRealGitRepo()

	// "main" does not exist in this repo, "master" does.
	base, err := g.MergeBase(dir, []string{"main", "master"})
	if err != nil {
		t.Fatalf("MergeBase returned error: %v", err)
	}
	if base == "" {
		t.Error("expected a merge base against master")
	}
}

func TestMergeBase_NoRefResolves(t *testing.T) {
	dir := initRepo(t)
	g := NewRealGitRepo()

	base, err := g.MergeBase(dir, []string{"does-not-exist"})
	if err != nil {
		t.Fatalf("MergeBase returned error: %v", err)
	}
	if base != "" {
		t.Errorf("expected empty base, got %q", base)
	}
}

func TestChangedFiles(t *testing.T) {
	dir := initRepo(t)
	g := NewRealGitRepo()

	// Modify a tracked file and add an untracked one.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "packages", "pkg-a"), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "packages", "pkg-a", "index.js"), []byte("x\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	base, err := g.MergeBase(dir, []string{"master"})
	if err != nil {
		t.Fatalf("MergeBase returned error: %v", err)
	}

	files, err := g.ChangedFiles(dir, base)
	if err != nil {
		t.Fatalf("ChangedFiles returned error: %v", err)
	}

	want := []string{"README.md", "packages/pkg-a/index.js"}
	if len(files) != len(want) {
		t.Fatalf("ChangedFiles = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("ChangedFiles[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestFakeGitRepo(t *testing.T) {
	g := NewFakeGitRepo("/repo")
	g.Changed = []string{"packages/pkg-a/index.js"}

	root, err := g.Root("/repo/anywhere")
	if err != nil {
		t.Fatalf("Root returned error: %v", err)
	}
	if root != "/repo" {
		t.Errorf("Root = %q, want /repo", root)
	}

	g.NotInRepoErr = true
	if _, err := g.Root("/elsewhere"); !errors.Is(err, ErrNotInRepo) {
		t.Errorf("expected ErrNotInRepo, got: %v", err)
	}
}
