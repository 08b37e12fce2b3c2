package align_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/cmd/specalign/cmd/align"
	"github.com/agentstation/specalign/internal/cmd/application"
	"github.com/agentstation/specalign/pkg/errors"
)

const config = `{
  "self": {"specId": "GQSCD-CORE", "repo": "z-base/gqscd", "homeUrl": "https://z-base.github.io/gqscd/"},
  "peers": [
    {"specId": "GQTS-CORE", "repo": "z-base/gqts", "homeUrl": "https://z-base.github.io/gqts/",
     "localSnapshotPaths": ["peers/gqts"]}
  ]
}`

const selfMarkup = `<section id="terminology"><dl>
<dt><dfn id="device">Device</dfn></dt><dd>A unit holding keys.</dd>
</dl></section>`

const peerMarkup = `<section id="terms"><dl>
<dt><dfn id="event-log">Event Log</dfn></dt><dd>An append-only log.</dd>
</dl></section>`

func setup(t *testing.T, withPeer bool) (*application.Mock, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/alignment.config.json", []byte(config), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/work/index.html", []byte(selfMarkup), 0o644))
	if withPeer {
		require.NoError(t, afero.WriteFile(fs, "/work/peers/gqts/index.html", []byte(peerMarkup), 0o644))
	}
	return &application.Mock{
		FSFunc:           func() afero.Fs { return fs },
		OutputFormatFunc: func() string { return "json" },
	}, fs
}

func run(t *testing.T, app *application.Mock) (string, error) {
	t.Helper()
	cmd := align.NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAlign(t *testing.T) {
	app, fs := setup(t, true)

	out, err := run(t, app)
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "GQSCD-CORE", summary["self"])
	assert.EqualValues(t, 1, summary["peers_indexed"])
	assert.Equal(t, "/work/.alignment", summary["artifacts"])

	for _, name := range []string{
		"spec-index.self.json",
		"spec-index.peers.json",
		"cross-spec-map.json",
		"alignment-report.md",
		"proposed-changes.patch",
	} {
		ok, err := afero.Exists(fs, "/work/.alignment/"+name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}

	patch, err := afero.ReadFile(fs, "/work/.alignment/proposed-changes.patch")
	require.NoError(t, err)
	assert.Equal(t, "# Unable to generate git diff in this runtime (unknown).\n", string(patch))
}

func TestAlignMissingPeer(t *testing.T) {
	app, fs := setup(t, false)

	out, err := run(t, app)
	require.Error(t, err)
	assert.True(t, errors.IsPeersMissing(err), "missing peers fail the command")
	assert.Contains(t, out, `"spec_id": "GQTS-CORE"`)

	crossMap, err := afero.ReadFile(fs, "/work/.alignment/cross-spec-map.json")
	require.NoError(t, err, "degraded artifacts are still written")
	assert.Contains(t, string(crossMap), `"status": "peer-snapshots-missing"`)

	report, err := afero.ReadFile(fs, "/work/.alignment/alignment-report.md")
	require.NoError(t, err)
	assert.Contains(t, string(report), "Status: FAILED (missing peer snapshots)")
}

func TestAlignConfigError(t *testing.T) {
	app := &application.Mock{}

	_, err := run(t, app)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.True(t, errors.IsNotFound(err))
}
