package vcs_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/internal/vcs"
	"github.com/agentstation/specalign/pkg/errors"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	git(t, dir, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>v1</p>\n"), 0o644))
	git(t, dir, "add", "index.html")
	git(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func TestRevision(t *testing.T) {
	requireGit(t)
	dir := newRepo(t)
	sub := filepath.Join(dir, "peers", "gdis")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	rev, err := vcs.NewGit().Revision(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, git(t, dir, "rev-parse", "HEAD"), rev)
	assert.Len(t, rev, 40)
}

func TestRevisionOutsideRepository(t *testing.T) {
	requireGit(t)
	_, err := vcs.NewGit().Revision(context.Background(), t.TempDir())
	require.Error(t, err)

	var perr *errors.ProcessError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "resolve repository root", perr.Operation)
	assert.Contains(t, perr.Command, "rev-parse --show-toplevel")
	assert.NotEqual(t, "unknown", vcs.ErrorCode(err))
}

func TestDiff(t *testing.T) {
	requireGit(t)
	dir := newRepo(t)
	g := vcs.NewGit()

	clean, err := g.Diff(context.Background(), dir, "index.html", "openapi.yaml")
	require.NoError(t, err)
	assert.Empty(t, clean)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>v2</p>\n"), 0o644))
	diff, err := g.Diff(context.Background(), dir, "index.html", "openapi.yaml")
	require.NoError(t, err)
	assert.Contains(t, diff, "-<p>v1</p>")
	assert.Contains(t, diff, "+<p>v2</p>")
}

func TestErrorCode(t *testing.T) {
	g := &vcs.Git{Binary: "specalign-no-such-git"}
	_, err := g.Revision(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, "ENOENT", vcs.ErrorCode(err))

	assert.Equal(t, "unknown", vcs.ErrorCode(errors.New("boom")))

	t.Run("non-zero exit reports the status", func(t *testing.T) {
		requireGit(t)
		_, err := vcs.NewGit().Revision(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Regexp(t, `^[1-9][0-9]*$`, vcs.ErrorCode(err))
	})
}
