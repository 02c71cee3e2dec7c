package salesforce

// SObject represents a generic Salesforce record (map of field names to
// values). Parent-field projections appear as nested maps (Account.Name),
// aggregate results as top-level aliased keys.
type SObject = map[string]interface{}

// QueryResponse is the envelope returned by the /query endpoint.
type QueryResponse struct {
	TotalSize int       `json:"totalSize"`
	Done      bool      `json:"done"`
	Records   []SObject `json:"records"`
}

// SearchResponse is the envelope returned by the /search endpoint.
type SearchResponse struct {
	SearchRecords []SObject `json:"searchRecords"`
}

// PicklistValue is a single entry in an enumerated field's value set.
type PicklistValue struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// FieldDescriptor describes a single field on an object (describe payload
// subset — the full payload carries far more keys than the engine consumes).
type FieldDescriptor struct {
	Name           string          `json:"name"`
	Label          string          `json:"label"`
	Type           string          `json:"type"` // string, double, boolean, reference, picklist, date, currency, ...
	Nillable       bool            `json:"nillable"`
	Updateable     bool            `json:"updateable"`
	ReferenceTo    []string        `json:"referenceTo,omitempty"`
	PicklistValues []PicklistValue `json:"picklistValues,omitempty"`
}

// ChildRelationship describes a child object reachable from this object.
type ChildRelationship struct {
	ChildSObject     string `json:"childSObject"`
	Field            string `json:"field"` // foreign-key field on the child
	RelationshipName string `json:"relationshipName"`
}

// ObjectSchema is the describe result for one object. Fetched on demand and
// cached per object name for the life of the client.
type ObjectSchema struct {
	Name               string              `json:"name"`
	Label              string              `json:"label"`
	Fields             []FieldDescriptor   `json:"fields"`
	ChildRelationships []ChildRelationship `json:"childRelationships"`
}

// apiError is one entry of the platform's structured error list.
type apiError struct {
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// ParentNavigation is the result of an upward relationship walk: the matched
// record plus the reference fields that were selected for it.
type ParentNavigation struct {
	Record       SObject           `json:"record"`
	ParentFields []FieldDescriptor `json:"parentFields"`
}

// ChildNavigation maps relationship names to bounded child record lists.
// Relationships whose sub-query failed are absent rather than nil.
type ChildNavigation struct {
	Children map[string][]SObject `json:"children"`
}

// SearchProvenance records which search strategy produced a lookup result.
type SearchProvenance string

const (
	ProvenanceSOSL         SearchProvenance = "sosl"
	ProvenanceSOQLFallback SearchProvenance = "soql-fallback"
)

// LookupResult is an ordered list of matched records plus the strategy that
// found them.
type LookupResult struct {
	Records    []SObject        `json:"records"`
	Provenance SearchProvenance `json:"provenance"`
}
