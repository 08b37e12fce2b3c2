// Package vcs resolves document revisions and diff snapshots through the
// git command line.
package vcs

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/errors"
)

// Git runs git as an external process.
type Git struct {
	// Binary is the git executable, "git" when empty.
	Binary string
}

// NewGit creates a Git using the git found on PATH.
func NewGit() *Git {
	return &Git{Binary: "git"}
}

// Revision returns the HEAD commit of the repository that contains dir.
func (g *Git) Revision(ctx context.Context, dir string) (string, error) {
	root, err := g.run(ctx, "resolve repository root", "-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	head, err := g.run(ctx, "resolve HEAD", "-C", strings.TrimSpace(root), "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(head), nil
}

// Diff returns the uncommitted changes to paths, run from dir.
func (g *Git) Diff(ctx context.Context, dir string, paths ...string) (string, error) {
	args := append([]string{"-C", dir, "diff", "--"}, paths...)
	return g.run(ctx, "diff documents", args...)
}

func (g *Git) run(ctx context.Context, operation string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GitCommandTimeout)
	defer cancel()

	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.NewProcessError(operation, bin+" "+strings.Join(args, " "), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// ErrorCode condenses a failed git invocation into a short code: the exit
// status, ENOENT when git is not installed, or "unknown".
func ErrorCode(err error) string {
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return strconv.Itoa(exitErr.ExitCode())
	case errors.Is(err, exec.ErrNotFound):
		return "ENOENT"
	default:
		return "unknown"
	}
}
