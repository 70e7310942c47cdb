package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TempGitRepo creates a temporary git repository for testing
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a new temporary git repository with one commit
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "prlink-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	repo := &TempGitRepo{Path: tmpDir, T: t}

	repo.Git("init", "--initial-branch=main")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "user.email", "test@example.com")

	if err := os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# Test Repository\n"), 0644); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create test file: %v", err)
	}

	repo.Git("add", ".")
	repo.Git("commit", "-m", "Initial commit")

	return repo
}

// Cleanup removes the temporary git repository
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// Git runs a git command inside the repository and fails the test on error
func (r *TempGitRepo) Git(args ...string) string {
	r.T.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.T.Fatalf("git %v failed: %v\n%s", args, err, output)
	}
	return string(output)
}

// AddRemote registers a remote with the given URL
func (r *TempGitRepo) AddRemote(name, url string) {
	r.T.Helper()
	r.Git("remote", "add", name, url)
}

// Checkout creates and switches to a new branch
func (r *TempGitRepo) Checkout(branch string) {
	r.T.Helper()
	r.Git("checkout", "-b", branch)
}

// Chdir switches the working directory into the repository until the test ends
func (r *TempGitRepo) Chdir() {
	r.T.Helper()

	oldWd, err := os.Getwd()
	if err != nil {
		r.T.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(r.Path); err != nil {
		r.T.Fatalf("failed to chdir: %v", err)
	}
	r.T.Cleanup(func() {
		os.Chdir(oldWd)
	})
}
