// Package git wraps the git binary for sage. It shells out rather than
// linking a git library, so it behaves identically to the git the user runs
// by hand. The journal and undo engine never touch git object storage; this
// package is the only place git is invoked.
package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// run executes git with combined output, wrapping failures with whatever git
// printed so the user sees the real complaint.
func run(repoPath string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", args[0], msg)
	}
	return string(output), nil
}

// output executes a read-only git command and returns trimmed stdout.
func output(repoPath string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// MetaDir returns the absolute path of the git metadata directory for the
// working copy at repoPath. The journal lives underneath it.
func MetaDir(repoPath string) (string, error) {
	dir, err := output(repoPath, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoPath, dir)
	}
	return filepath.Clean(dir), nil
}

// CurrentBranch returns the checked-out branch name, or an error on a
// detached HEAD.
func CurrentBranch(repoPath string) (string, error) {
	branch, err := output(repoPath, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if branch == "" {
		return "", fmt.Errorf("HEAD is detached; not on a branch")
	}
	return branch, nil
}

// Head returns the full commit id of HEAD.
func Head(repoPath string) (string, error) {
	return output(repoPath, "rev-parse", "HEAD")
}

// ResolveCommit returns the full commit id a ref points at.
func ResolveCommit(repoPath, ref string) (string, error) {
	return output(repoPath, "rev-parse", ref)
}

// StageAll stages every change in the working copy.
func StageAll(repoPath string) error {
	_, err := run(repoPath, "add", "-A")
	return err
}

// StagedFiles returns the paths currently staged for commit.
func StagedFiles(repoPath string) ([]string, error) {
	out, err := output(repoPath, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// StagedDiff returns the full diff of the index against HEAD.
func StagedDiff(repoPath string) (string, error) {
	cmd := exec.Command("git", "diff", "--cached")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return string(out), nil
}

// Commit creates a commit from the index and returns its id.
func Commit(repoPath, message string) (string, error) {
	if _, err := run(repoPath, "commit", "-m", message); err != nil {
		return "", err
	}
	return Head(repoPath)
}

// Amend rewrites the current HEAD commit, keeping or replacing its message,
// and returns the new commit id.
func Amend(repoPath, message string) (string, error) {
	args := []string{"commit", "--amend"}
	if message != "" {
		args = append(args, "-m", message)
	} else {
		args = append(args, "--no-edit")
	}
	if _, err := run(repoPath, args...); err != nil {
		return "", err
	}
	return Head(repoPath)
}

// CreateBranch creates a branch. An empty from means the current HEAD.
func CreateBranch(repoPath, name, from string) error {
	args := []string{"branch", name}
	if from != "" {
		args = append(args, from)
	}
	_, err := run(repoPath, args...)
	return err
}

// Switch checks out the given branch.
func Switch(repoPath, branch string) error {
	_, err := run(repoPath, "switch", branch)
	return err
}

// Push uploads a branch to the remote, setting the upstream on first push.
func Push(repoPath, remote, branch string, force bool) error {
	args := []string{"push", "-u", remote, branch}
	if force {
		args = append(args, "--force")
	}
	_, err := run(repoPath, args...)
	return err
}

// AheadOf returns the commits on branch that the remote tracking branch does
// not have, newest first. When the remote branch does not exist yet, every
// commit on the branch counts.
func AheadOf(repoPath, remote, branch string) ([]string, error) {
	out, err := output(repoPath, "rev-list", fmt.Sprintf("%s/%s..%s", remote, branch, branch))
	if err != nil {
		out, err = output(repoPath, "rev-list", branch)
		if err != nil {
			return nil, err
		}
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
