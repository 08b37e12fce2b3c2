// Package contract extracts per-operation API contracts from an OpenAPI
// style document: which media types and schema references each operation
// accepts and returns, which requirement it is linked to, and a content hash
// that changes whenever any of that changes.
package contract

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/specalign/pkg/canon"
	"github.com/agentstation/specalign/pkg/constants"
	"github.com/agentstation/specalign/pkg/errors"
	"github.com/agentstation/specalign/pkg/logging"
	"github.com/agentstation/specalign/pkg/specs"
)

// Methods are the operation keys recognized under a path item, in the order
// operations are emitted.
var Methods = []string{"get", "post", "put", "patch", "delete", "options", "head", "trace"}

var (
	requirementsSuffix = regexp.MustCompile(`(?i)requirements$`)
	requirementSuffix  = regexp.MustCompile(`(?i)requirement$`)
)

const (
	extensionPrefix = "x-"
	schemaPointer   = "#/components/schemas/"
)

// Parse decodes an API contract document and extracts its requirement sets,
// operations and schema components. Only undecodable input is an error;
// unexpected shapes inside a valid document are skipped.
func Parse(ctx context.Context, data []byte) (*specs.ContractSet, error) {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, errors.WrapParse("yaml", constants.ContractFileName, err)
	}

	doc, ok := asMapping(raw)
	if !ok && raw != nil {
		logging.FromContext(ctx).Warn().Msgf("API contract root is %T, not a mapping; ignoring it", raw)
	}

	set := &specs.ContractSet{
		InfoVersion:     constants.UnspecifiedVersion,
		RequirementSets: requirementSets(doc),
		Operations:      operations(ctx, doc),
		Schemas:         schemas(doc),
	}
	if v := scalarString(path(doc, "info", "version")); v != "" {
		set.InfoVersion = v
	}
	return set, nil
}

// requirementSets collects every top-level x-...requirements mapping.
func requirementSets(doc yaml.MapSlice) []specs.RequirementSet {
	sets := []specs.RequirementSet{}
	for _, item := range doc {
		key := keyString(item.Key)
		if !strings.HasPrefix(key, extensionPrefix) || !requirementsSuffix.MatchString(key) {
			continue
		}
		entries, ok := asMapping(item.Value)
		if !ok {
			continue
		}
		set := specs.RequirementSet{Extension: key, Entries: make([]specs.RequirementEntry, 0, len(entries))}
		for _, e := range entries {
			set.Entries = append(set.Entries, specs.RequirementEntry{
				RequirementID: keyString(e.Key),
				Description:   describe(e.Value),
			})
		}
		sets = append(sets, set)
	}
	return sets
}

func operations(ctx context.Context, doc yaml.MapSlice) []specs.Operation {
	ops := []specs.Operation{}
	for _, pathItem := range mappingOrEmpty(lookup(doc, "paths")) {
		item, ok := asMapping(pathItem.Value)
		if !ok {
			continue
		}
		p := keyString(pathItem.Key)
		for _, method := range Methods {
			op, ok := asMapping(lookup(item, method))
			if !ok {
				continue
			}
			ops = append(ops, buildOperation(ctx, strings.ToUpper(method), p, op))
		}
	}
	return ops
}

func buildOperation(ctx context.Context, method, p string, op yaml.MapSlice) specs.Operation {
	var truncated bool

	reqContent := mappingOrEmpty(path(op, "requestBody", "content"))
	reqMedia := make([]string, 0, len(reqContent))
	reqRefs := newRefSet()
	for _, media := range reqContent {
		reqMedia = append(reqMedia, keyString(media.Key))
		truncated = reqRefs.collect(path(media.Value, "schema"), 0) || truncated
	}
	sort.Strings(reqMedia)

	resMedia := newRefSet()
	resRefs := newRefSet()
	for _, resp := range mappingOrEmpty(lookup(op, "responses")) {
		content, ok := asMapping(path(resp.Value, "content"))
		if !ok {
			continue
		}
		for _, media := range content {
			resMedia.add(keyString(media.Key))
			truncated = resRefs.collect(path(media.Value, "schema"), 0) || truncated
		}
	}

	operation := specs.Operation{
		Method:                  method,
		Path:                    p,
		OperationID:             optional(scalarString(lookup(op, "operationId"))),
		RequirementID:           linkedRequirement(op),
		RequestMediaTypes:       reqMedia,
		RequestSchemaPointers:   reqRefs.sorted(),
		ResponseMediaTypes:      resMedia.sorted(),
		ResponseSchemaPointers:  resRefs.sorted(),
		SchemaPointersTruncated: truncated,
	}

	hash, err := canon.StableHash(operation.Record())
	if err != nil {
		// Record only holds strings and string slices.
		panic("programming error: contract record not serializable: " + err.Error())
	}
	operation.ContractHash = hash

	if truncated {
		logging.FromContext(ctx).Warn().
			Str("method", method).
			Str("path", p).
			Int("max_depth", constants.MaxSchemaRefDepth).
			Msg("Schema pointer walk truncated; deeper $ref pointers were not collected")
	}
	return operation
}

// linkedRequirement returns the value of the first x-...requirement key of
// an operation when that value is a string.
func linkedRequirement(op yaml.MapSlice) *string {
	for _, item := range op {
		key := keyString(item.Key)
		if !strings.HasPrefix(key, extensionPrefix) || !requirementSuffix.MatchString(key) {
			continue
		}
		if s, ok := item.Value.(string); ok {
			return &s
		}
		return nil
	}
	return nil
}

func schemas(doc yaml.MapSlice) []specs.Schema {
	out := []specs.Schema{}
	for _, item := range mappingOrEmpty(path(doc, "components", "schemas")) {
		name := keyString(item.Key)
		hash, err := canon.StableHash(item.Value)
		if err != nil {
			hash = canon.HashString(describe(item.Value))
		}
		out = append(out, specs.Schema{
			Name:               name,
			JSONPointer:        schemaPointer + name,
			KeyConstraintsHash: hash,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
