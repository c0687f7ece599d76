package ports

import (
	"context"
)

// WorkspaceInfo describes the git repository the user is studying in.
type WorkspaceInfo struct {
	Branch     string
	Commit     string
	Modified   []string
	Untracked  []string
	IsClean    bool
	Repository string
}

// WorkspaceDetector inspects the working directory for repository state.
// This is a driven port (implemented by adapters).
type WorkspaceDetector interface {
	// Detect scans workingDir (or the current directory when empty).
	Detect(ctx context.Context, workingDir string) (*WorkspaceInfo, error)

	// IsAvailable reports whether the current directory is inside a repository.
	IsAvailable() bool
}
