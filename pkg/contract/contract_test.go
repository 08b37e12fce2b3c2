package contract_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specalign/pkg/contract"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/logging"
)

const issueContract = `
openapi: 3.1.0
info:
  title: Trust Services
  version: 1.4.0
x-gqts-requirements:
  REQ-GQTS-01: Events are append-only
  REQ-GQTS-02: Logs replicate
x-notes: ignored
paths:
  /gqts/issue:
    summary: not an operation
    post:
      operationId: issueEvent
      x-gqts-requirement: REQ-GQTS-01
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/EventRequest'
          application/cbor:
            schema:
              oneOf:
                - $ref: '#/components/schemas/EventRequest'
                - $ref: '#/components/schemas/CborEnvelope'
      responses:
        '201':
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Event'
        '400':
          content:
            application/problem+json:
              schema:
                $ref: '#/components/schemas/Problem'
        '204':
          description: no content
    get:
      responses:
        '200':
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Event'
components:
  schemas:
    Event:
      type: object
      required: [id]
    Problem:
      type: object
`

func TestParseOperations(t *testing.T) {
	set, err := contract.Parse(context.Background(), []byte(issueContract))
	require.NoError(t, err)

	assert.Equal(t, "1.4.0", set.InfoVersion)
	require.Len(t, set.Operations, 2)

	// get is emitted before post regardless of document order
	get := set.Operations[0]
	assert.Equal(t, "GET", get.Method)
	assert.Equal(t, "/gqts/issue", get.Path)
	assert.Nil(t, get.OperationID)
	assert.Nil(t, get.RequirementID)
	assert.Equal(t, []string{}, get.RequestMediaTypes)
	assert.Equal(t, []string{"#/components/schemas/Event"}, get.ResponseSchemaPointers)

	post := set.Operations[1]
	assert.Equal(t, "POST", post.Method)
	require.NotNil(t, post.OperationID)
	assert.Equal(t, "issueEvent", *post.OperationID)
	require.NotNil(t, post.RequirementID)
	assert.Equal(t, "REQ-GQTS-01", *post.RequirementID)
	assert.Equal(t, []string{"application/cbor", "application/json"}, post.RequestMediaTypes)
	assert.Equal(t, []string{
		"#/components/schemas/CborEnvelope",
		"#/components/schemas/EventRequest",
	}, post.RequestSchemaPointers)
	assert.Equal(t, []string{"application/json", "application/problem+json"}, post.ResponseMediaTypes)
	assert.Equal(t, []string{
		"#/components/schemas/Event",
		"#/components/schemas/Problem",
	}, post.ResponseSchemaPointers)
	assert.Len(t, post.ContractHash, 64)
	assert.False(t, post.SchemaPointersTruncated)
}

func TestParseRequirementSetsAndSchemas(t *testing.T) {
	set, err := contract.Parse(context.Background(), []byte(issueContract))
	require.NoError(t, err)

	require.Len(t, set.RequirementSets, 1)
	rs := set.RequirementSets[0]
	assert.Equal(t, "x-gqts-requirements", rs.Extension)
	require.Len(t, rs.Entries, 2)
	assert.Equal(t, "REQ-GQTS-01", rs.Entries[0].RequirementID)
	assert.Equal(t, "Events are append-only", rs.Entries[0].Description)
	assert.Equal(t, "REQ-GQTS-02", rs.Entries[1].RequirementID)

	require.Len(t, set.Schemas, 2)
	assert.Equal(t, "Event", set.Schemas[0].Name)
	assert.Equal(t, "#/components/schemas/Event", set.Schemas[0].JSONPointer)
	assert.Len(t, set.Schemas[0].KeyConstraintsHash, 64)
	assert.NotEqual(t, set.Schemas[0].KeyConstraintsHash, set.Schemas[1].KeyConstraintsHash)
}

func TestContractHashIgnoresKeyOrder(t *testing.T) {
	a := `
paths:
  /issue:
    post:
      operationId: issue
      responses:
        '200':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/A'}
`
	b := `
paths:
  /issue:
    post:
      responses:
        '200':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/A'}
      operationId: issue
`
	first, err := contract.Parse(context.Background(), []byte(a))
	require.NoError(t, err)
	second, err := contract.Parse(context.Background(), []byte(b))
	require.NoError(t, err)
	assert.Equal(t, first.Operations[0].ContractHash, second.Operations[0].ContractHash)
}

func TestContractHashChangesWithSchemaPointers(t *testing.T) {
	base := `
paths:
  /issue:
    post:
      operationId: issue
      responses:
        '200':
          content:
            application/json:
              schema: {$ref: '#/components/schemas/%s'}
`
	first, err := contract.Parse(context.Background(), []byte(strings.Replace(base, "%s", "A", 1)))
	require.NoError(t, err)
	second, err := contract.Parse(context.Background(), []byte(strings.Replace(base, "%s", "B", 1)))
	require.NoError(t, err)
	assert.NotEqual(t, first.Operations[0].ContractHash, second.Operations[0].ContractHash)
}

func TestSchemaPointerDepthBound(t *testing.T) {
	nested := func(depth int) string {
		return "paths:\n  /deep:\n    get:\n      responses:\n        '200':\n          content:\n            application/json:\n              schema: " +
			strings.Repeat("{a: ", depth) + `{"$ref": "#/deep"}` + strings.Repeat("}", depth) + "\n"
	}

	t.Run("within bound", func(t *testing.T) {
		set, err := contract.Parse(context.Background(), []byte(nested(5)))
		require.NoError(t, err)
		op := set.Operations[0]
		assert.Equal(t, []string{"#/deep"}, op.ResponseSchemaPointers)
		assert.False(t, op.SchemaPointersTruncated)
	})

	t.Run("beyond bound", func(t *testing.T) {
		testLogger := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), testLogger.Logger)

		set, err := contract.Parse(ctx, []byte(nested(40)))
		require.NoError(t, err)
		op := set.Operations[0]
		assert.Empty(t, op.ResponseSchemaPointers)
		assert.True(t, op.SchemaPointersTruncated)
		testLogger.AssertContains(t, "truncated")
	})
}

func TestLinkedRequirementMustBeString(t *testing.T) {
	doc := `
paths:
  /a:
    get:
      x-spec-requirement: [REQ-A-1]
      x-other-requirement: REQ-A-2
`
	set, err := contract.Parse(context.Background(), []byte(doc))
	require.NoError(t, err)
	assert.Nil(t, set.Operations[0].RequirementID)
}

func TestParseDegenerateDocuments(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		set, err := contract.Parse(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "unspecified", set.InfoVersion)
		assert.Empty(t, set.Operations)
		assert.NotNil(t, set.Operations)
		assert.NotNil(t, set.RequirementSets)
		assert.NotNil(t, set.Schemas)
	})

	t.Run("sequence root", func(t *testing.T) {
		set, err := contract.Parse(context.Background(), []byte("- a\n- b\n"))
		require.NoError(t, err)
		assert.Empty(t, set.Operations)
	})

	t.Run("numeric version", func(t *testing.T) {
		set, err := contract.Parse(context.Background(), []byte("info:\n  version: 2\n"))
		require.NoError(t, err)
		assert.Equal(t, "2", set.InfoVersion)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := contract.Parse(context.Background(), []byte("paths: [unclosed\n"))
		require.Error(t, err)
		var perr *errors.ParseError
		assert.ErrorAs(t, err, &perr)
	})
}
