package specs

// ContractSet is the extraction of one API contract document.
type ContractSet struct {
	InfoVersion     string           `json:"info_version" yaml:"info_version"`
	RequirementSets []RequirementSet `json:"requirement_sets" yaml:"requirement_sets"`
	Operations      []Operation      `json:"operations" yaml:"operations"`
	Schemas         []Schema         `json:"schemas" yaml:"schemas"`
}

// RequirementSet lists the requirements declared under one top-level
// extension key.
type RequirementSet struct {
	Extension string             `json:"extension" yaml:"extension"`
	Entries   []RequirementEntry `json:"entries" yaml:"entries"`
}

// RequirementEntry is one (requirement id, description) pair.
type RequirementEntry struct {
	RequirementID string `json:"requirement_id" yaml:"requirement_id"`
	Description   string `json:"description" yaml:"description"`
}

// Operation is the contract of one method on one path.
type Operation struct {
	Method                  string   `json:"method" yaml:"method"`
	Path                    string   `json:"path" yaml:"path"`
	OperationID             *string  `json:"operation_id" yaml:"operation_id"`
	RequirementID           *string  `json:"requirement_id" yaml:"requirement_id"`
	RequestMediaTypes       []string `json:"request_media_types" yaml:"request_media_types"`
	RequestSchemaPointers   []string `json:"request_schema_pointers" yaml:"request_schema_pointers"`
	ResponseMediaTypes      []string `json:"response_media_types" yaml:"response_media_types"`
	ResponseSchemaPointers  []string `json:"response_schema_pointers" yaml:"response_schema_pointers"`
	ContractHash            string   `json:"contract_hash" yaml:"contract_hash"`
	SchemaPointersTruncated bool     `json:"schema_pointers_truncated,omitempty" yaml:"schema_pointers_truncated,omitempty"`
}

// Record returns the fields that identify the contract, i.e. everything
// except the hash itself and the truncation flag. ContractHash is computed
// over the stable serialization of this record.
func (o Operation) Record() map[string]any {
	return map[string]any{
		"method":                   o.Method,
		"path":                     o.Path,
		"operation_id":             o.OperationID,
		"requirement_id":           o.RequirementID,
		"request_media_types":      nonNil(o.RequestMediaTypes),
		"request_schema_pointers":  nonNil(o.RequestSchemaPointers),
		"response_media_types":     nonNil(o.ResponseMediaTypes),
		"response_schema_pointers": nonNil(o.ResponseSchemaPointers),
	}
}

// ConceptKey is the clustering identity of an operation: its operation id,
// or "METHOD path" when it has none.
func (o Operation) ConceptKey() string {
	if o.OperationID != nil && *o.OperationID != "" {
		return *o.OperationID
	}
	return o.Method + " " + o.Path
}

// Schema is one declared schema component.
type Schema struct {
	Name               string `json:"name" yaml:"name"`
	JSONPointer        string `json:"json_pointer" yaml:"json_pointer"`
	KeyConstraintsHash string `json:"key_constraints_hash" yaml:"key_constraints_hash"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
