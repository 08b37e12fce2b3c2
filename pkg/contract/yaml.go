package contract

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/specalign/pkg/canon"
)

// The contract is decoded with yaml.UseOrderedMap, so every mapping arrives
// as a yaml.MapSlice in document order. These helpers keep the extraction
// code free of type switches.

// asMapping reports whether v is a mapping and returns it in key order.
func asMapping(v any) (yaml.MapSlice, bool) {
	switch m := v.(type) {
	case yaml.MapSlice:
		return m, true
	case map[string]any:
		out := make(yaml.MapSlice, 0, len(m))
		for k, val := range m {
			out = append(out, yaml.MapItem{Key: k, Value: val})
		}
		return out, true
	}
	return nil, false
}

// mappingOrEmpty returns v as a mapping, or an empty one.
func mappingOrEmpty(v any) yaml.MapSlice {
	m, _ := asMapping(v)
	return m
}

// lookup returns the value stored under key, or nil.
func lookup(m yaml.MapSlice, key string) any {
	for _, item := range m {
		if keyString(item.Key) == key {
			return item.Value
		}
	}
	return nil
}

// path walks nested mappings, returning nil as soon as a step is missing.
func path(v any, keys ...string) any {
	cur := v
	for _, k := range keys {
		m, ok := asMapping(cur)
		if !ok {
			return nil
		}
		cur = lookup(m, k)
	}
	return cur
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// truthy mirrors how loosely typed contract values are tested for presence:
// nil, false, zero numbers and empty strings count as absent.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0 && val == val
	}
	return true
}

// scalarString renders a present scalar as text; absent values yield "".
func scalarString(v any) string {
	if !truthy(v) {
		return ""
	}
	return describe(v)
}

// describe renders any value as text. Composite values use the stable
// serialization so the description is deterministic.
func describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(val)
	}
	s, err := canon.StableSerialize(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
