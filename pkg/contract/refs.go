package contract

import (
	"sort"

	"github.com/agentstation/specalign/pkg/constants"
)

const refKey = "$ref"

// refSet is an insertion-ordered string set.
type refSet struct {
	seen  map[string]struct{}
	items []string
}

func newRefSet() *refSet {
	return &refSet{seen: make(map[string]struct{})}
}

func (r *refSet) add(s string) {
	if _, ok := r.seen[s]; ok {
		return
	}
	r.seen[s] = struct{}{}
	r.items = append(r.items, s)
}

func (r *refSet) sorted() []string {
	out := append([]string{}, r.items...)
	sort.Strings(out)
	return out
}

// collect walks a schema body and records every string $ref it finds. The
// walk stops below constants.MaxSchemaRefDepth; the return value reports
// whether a mapping or sequence was left unvisited because of that bound.
func (r *refSet) collect(schema any, depth int) bool {
	if !truthy(schema) {
		return false
	}
	if depth > constants.MaxSchemaRefDepth {
		if _, ok := schema.([]any); ok {
			return true
		}
		_, ok := asMapping(schema)
		return ok
	}

	if seq, ok := schema.([]any); ok {
		truncated := false
		for _, v := range seq {
			truncated = r.collect(v, depth+1) || truncated
		}
		return truncated
	}

	m, ok := asMapping(schema)
	if !ok {
		return false
	}
	if ref, ok := lookup(m, refKey).(string); ok {
		r.add(ref)
	}
	truncated := false
	for _, item := range m {
		truncated = r.collect(item.Value, depth+1) || truncated
	}
	return truncated
}
