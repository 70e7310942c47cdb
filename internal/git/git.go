package git

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// IsGitRepo checks if current directory is a git repository
func IsGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// GetCurrentBranch returns the current branch name
func GetCurrentBranch() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "HEAD" {
		return "", fmt.Errorf("failed to get current branch: HEAD is detached")
	}
	return branch, nil
}

// GetRemoteURL returns the fetch URL of a remote
func GetRemoteURL(remote string) (string, error) {
	cmd := exec.Command("git", "remote", "get-url", remote)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get url of remote %s: %w", remote, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetDefaultBranch returns the branch a remote's HEAD points at
func GetDefaultBranch(remote string) (string, error) {
	cmd := exec.Command("git", "symbolic-ref", "--short", "refs/remotes/"+remote+"/HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get default branch of %s: %w", remote, err)
	}
	return strings.TrimPrefix(strings.TrimSpace(string(output)), remote+"/"), nil
}

// githubRemote matches https, ssh and scp-style GitHub remotes
var githubRemote = regexp.MustCompile(`^(?:https?://(?:[^@/]+@)?github\.com/|ssh://git@github\.com/|git@github\.com:)([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseGitHubRemote extracts owner and repository from a GitHub remote URL
func ParseGitHubRemote(remoteURL string) (owner, repo string, ok bool) {
	m := githubRemote.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// RepoInfo is what can be inferred about the current repository
type RepoInfo struct {
	Owner         string
	Repo          string
	CurrentBranch string
	DefaultBranch string
}

// Inspect collects whatever it can about the repository in the current
// directory. Missing pieces are left empty rather than reported as errors.
func Inspect(remote string) RepoInfo {
	var info RepoInfo
	if !IsGitRepo() {
		return info
	}

	if branch, err := GetCurrentBranch(); err == nil {
		info.CurrentBranch = branch
	}
	if u, err := GetRemoteURL(remote); err == nil {
		info.Owner, info.Repo, _ = ParseGitHubRemote(u)
	}
	if branch, err := GetDefaultBranch(remote); err == nil {
		info.DefaultBranch = branch
	}
	return info
}
