// Package git inspects the user's working directory with go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xvierd/prep-cli/internal/ports"
)

// Detector implements the ports.WorkspaceDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new workspace detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.WorkspaceDetector.
var _ ports.WorkspaceDetector = (*Detector)(nil)

// Detect reports the branch, HEAD and uncommitted files of the repository
// containing workingDir.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.WorkspaceInfo, error) {
	repo, err := openRepo(workingDir)
	if err != nil {
		return nil, err
	}

	info := &ports.WorkspaceInfo{IsClean: true}

	head, err := repo.Head()
	switch {
	case err == nil:
		info.Branch = head.Name().Short()
		if info.Branch == "HEAD" {
			info.Branch = "HEAD detached"
		}
		info.Commit = head.Hash().String()
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Fresh repository without commits.
	default:
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = extractRepoName(urls[0])
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	for file, s := range status {
		switch {
		case s.Worktree == git.Untracked:
			info.Untracked = append(info.Untracked, file)
		case s.Staging != git.Unmodified || s.Worktree != git.Unmodified:
			info.Modified = append(info.Modified, file)
		}
	}
	sort.Strings(info.Modified)
	sort.Strings(info.Untracked)
	info.IsClean = status.IsClean()

	return info, nil
}

// IsAvailable reports whether the current directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	_, err := openRepo("")
	return err == nil
}

func openRepo(workingDir string) (*git.Repository, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("git repository not found: %w", err)
	}
	return repo, nil
}

// extractRepoName extracts "owner/name" from a remote URL.
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	if strings.HasPrefix(url, "git@") {
		if _, path, ok := strings.Cut(url, ":"); ok {
			return path
		}
	}

	if strings.HasPrefix(url, "http") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
	}

	return url
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
