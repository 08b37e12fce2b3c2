package canon_test

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/pkg/canon"
)

func TestCanon(t *testing.T) {
	assert.Equal(t, "a b c", canon.Canon("  a\n\tb   c \r\n"))
	assert.Equal(t, "", canon.Canon(" \n\t "))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plural folds to singular", in: "Devices", want: "device"},
		{name: "singular untouched", in: "Device", want: "device"},
		{name: "short tokens keep s", in: "bus gas", want: "bus gas"},
		{name: "double s kept", in: "Access Class", want: "access class"},
		{name: "punctuation becomes space", in: "Service-Descriptor (v2)", want: "service descriptor v2"},
		{name: "underscores collapse", in: "event__logs", want: "event log"},
		{name: "unicode letters kept", in: "Identités", want: "identité"},
		{name: "empty", in: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canon.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"assess", "Devices", "glasses", "sssss", "Signature Creation Devices",
		"REQ-GQTS-01", "x", "İstanbul logs", "a--b__c", "Pass-through things",
	}
	for _, in := range inputs {
		once := canon.Normalize(in)
		assert.Equal(t, once, canon.Normalize(once), "input %q", in)
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "A <b> & c", canon.Clean("<p>A\n &lt;b&gt; <em>&amp;</em> c</p>"))
	assert.Equal(t, `it's "x"`, canon.Clean("it&#39;s &quot;x&quot;"))
	assert.Equal(t, "a", canon.Clean("<dfn id='a'>a</dfn>"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "signature-creation-device", canon.Slug("Signature Creation Device"))
	assert.Equal(t, "event-log", canon.Slug("Event-Log!"))
	assert.Equal(t, "term", canon.Slug("!!!"))
}

func TestCut(t *testing.T) {
	assert.Equal(t, "short", canon.Cut("short", 10))
	assert.Equal(t, "abcdefg...", canon.Cut("abcdefghijklmnop", 10))
	assert.Len(t, []rune(canon.Cut("ééééééééééééé", 10)), 10)
}

func TestHash(t *testing.T) {
	// sha256("") is a well known vector.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", canon.HashString(""))
	assert.Len(t, canon.HashString("device"), 64)
	assert.NotEqual(t, canon.HashString("a"), canon.HashString("b"))
}

func TestUniq(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, canon.Uniq([]string{"b", "a", "b", "c", "a"}))
	assert.NotNil(t, canon.Uniq[string](nil))
}

func TestStableSerialize(t *testing.T) {
	t.Run("scalars", func(t *testing.T) {
		for in, want := range map[any]string{
			"a<b": `"a<b"`,
			true:  `true`,
			42:    `42`,
			1.5:   `1.5`,
		} {
			got, err := canon.StableSerialize(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
		got, err := canon.StableSerialize(nil)
		require.NoError(t, err)
		assert.Equal(t, "null", got)
	})

	t.Run("nested objects sort keys", func(t *testing.T) {
		got, err := canon.StableSerialize(map[string]any{
			"b": []any{map[string]any{"z": 1, "a": nil}},
			"a": "x",
		})
		require.NoError(t, err)
		assert.Equal(t, `{"a":"x","b":[{"a":null,"z":1}]}`, got)
	})

	t.Run("key order does not matter", func(t *testing.T) {
		first := yaml.MapSlice{{Key: "type", Value: "object"}, {Key: "required", Value: []any{"id"}}}
		second := yaml.MapSlice{{Key: "required", Value: []any{"id"}}, {Key: "type", Value: "object"}}
		a, err := canon.StableSerialize(first)
		require.NoError(t, err)
		b, err := canon.StableSerialize(second)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		plain, err := canon.StableSerialize(map[string]any{"type": "object", "required": []any{"id"}})
		require.NoError(t, err)
		assert.Equal(t, a, plain)
	})

	t.Run("arrays keep order", func(t *testing.T) {
		a, err := canon.StableSerialize([]string{"b", "a"})
		require.NoError(t, err)
		assert.Equal(t, `["b","a"]`, a)

		var empty []string
		b, err := canon.StableSerialize(empty)
		require.NoError(t, err)
		assert.Equal(t, `[]`, b)
	})

	t.Run("structs use json tags", func(t *testing.T) {
		type rec struct {
			Path   string `json:"path"`
			Method string `json:"method"`
		}
		got, err := canon.StableSerialize(rec{Path: "/issue", Method: "POST"})
		require.NoError(t, err)
		assert.Equal(t, `{"method":"POST","path":"/issue"}`, got)
	})

	t.Run("unsupported values error", func(t *testing.T) {
		_, err := canon.StableSerialize(map[string]any{"f": func() {}})
		assert.Error(t, err)
	})
}

func TestStableHash(t *testing.T) {
	a, err := canon.StableHash(map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	b, err := canon.StableHash(map[string]any{"y": 2, "x": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
