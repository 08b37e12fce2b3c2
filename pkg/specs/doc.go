// Package specs defines the records produced by one alignment run: the
// per-document Spec Index (terms, clauses, references, API contract) and the
// cross-document Map built from a set of indexes.
//
// Field tags match the artifact shapes written to disk, so a Map marshalled
// with encoding/json is the cross-spec-map artifact verbatim.
//
// All records are built once and never mutated afterwards.
package specs
