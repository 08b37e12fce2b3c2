package authority_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/pkg/authority"
	"github.com/agentstation/specalign/pkg/errors"
)

func TestDefaultTable(t *testing.T) {
	table := authority.Default()
	require.NoError(t, table.Validate())
	assert.Equal(t, []string{"GQSCD-CORE", "GDIS-CORE", "GQTS-CORE"}, table.SpecIDs())
	assert.Equal(t, []string{"gqscd", "gdis", "gqts"}, table.Slugs())
	assert.Equal(t, "GDIS-CORE", table.BySlug("GDIS").SpecID)
	assert.Nil(t, table.BySlug("nope"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		table *authority.Table
	}{
		{name: "nil", table: nil},
		{name: "empty", table: &authority.Table{}},
		{name: "missing slug", table: &authority.Table{Families: []authority.Family{{SpecID: "A"}}}},
		{name: "duplicate id", table: &authority.Table{Families: []authority.Family{{SpecID: "A", Slug: "a"}, {SpecID: "A", Slug: "b"}}}},
		{name: "duplicate slug", table: &authority.Table{Families: []authority.Family{{SpecID: "A", Slug: "a"}, {SpecID: "B", Slug: "A"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestScores(t *testing.T) {
	scores := authority.Default().Scores("Signature Creation DEVICE with hardware attestation; event log")
	assert.Equal(t, []authority.Score{
		{SpecID: "GQSCD-CORE", Hits: 4},
		{SpecID: "GDIS-CORE", Hits: 0},
		{SpecID: "GQTS-CORE", Hits: 2},
	}, scores)
}

func TestTermOwner(t *testing.T) {
	table := authority.Default()

	tests := []struct {
		name    string
		corpus  string
		members []string
		want    string
	}{
		{
			name:    "top family is a member",
			corpus:  "device controller",
			members: []string{"GDIS-CORE", "GQSCD-CORE"},
			want:    "GQSCD-CORE",
		},
		{
			name:    "top family absent falls back to first sorted member",
			corpus:  "device controller",
			members: []string{"GQTS-CORE", "GDIS-CORE"},
			want:    "GDIS-CORE",
		},
		{
			name:    "no keywords falls back",
			corpus:  "widget",
			members: []string{"ZETA", "ALPHA"},
			want:    "ALPHA",
		},
		{
			name:    "tie goes to earlier family",
			corpus:  "device identity",
			members: []string{"GDIS-CORE", "GQSCD-CORE"},
			want:    "GQSCD-CORE",
		},
		{
			name:    "no members",
			corpus:  "device",
			members: nil,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.TermOwner(tt.corpus, tt.members))
		})
	}
}

func TestOperationOwner(t *testing.T) {
	table := authority.Default()

	owner, ok := table.OperationOwner([]string{"/issue", "/gqts/events"})
	assert.True(t, ok)
	assert.Equal(t, "GQTS-CORE", owner)

	_, ok = table.OperationOwner([]string{"/issue"})
	assert.False(t, ok)
}

func TestCustomTable(t *testing.T) {
	table := &authority.Table{
		Host: "specs.example.org",
		Families: []authority.Family{
			{SpecID: "WIDGET", Slug: "widget", Keywords: []string{"widget"}, PathSegment: "/w/"},
		},
	}
	require.NoError(t, table.Validate())
	assert.Equal(t, "WIDGET", table.TermOwner("A Widget", []string{"OTHER", "WIDGET"}))
	owner, ok := table.OperationOwner([]string{"/w/1"})
	assert.True(t, ok)
	assert.Equal(t, "WIDGET", owner)
}
