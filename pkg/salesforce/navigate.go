package salesforce

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const (
	defaultMaxParentFields  = 3
	defaultMaxRelationships = 3

	// row caps for fan-out sub-queries
	childRowCap   = 5
	relatedRowCap = 10
	namedRelCap   = 100
)

// ResolveParents walks upward from a record: it selects the first maxFields
// reference fields in schema-declared order (declared order is the
// tie-break) and fetches their values in a single query.
func (c *Client) ResolveParents(ctx context.Context, objectName, recordID string, maxFields int) (*ParentNavigation, error) {
	if maxFields <= 0 {
		maxFields = defaultMaxParentFields
	}

	schema, err := c.DescribeCached(ctx, objectName)
	if err != nil {
		return nil, err
	}

	var parentFields []FieldDescriptor
	for _, f := range schema.Fields {
		if f.Type == "reference" && strings.HasSuffix(f.Name, "Id") && f.Name != identityField {
			parentFields = append(parentFields, f)
			if len(parentFields) == maxFields {
				break
			}
		}
	}

	if len(parentFields) == 0 {
		return &ParentNavigation{Record: SObject{}, ParentFields: []FieldDescriptor{}}, nil
	}

	names := make([]string, len(parentFields))
	for i, f := range parentFields {
		names[i] = f.Name
	}
	soql := fmt.Sprintf("SELECT Id, %s FROM %s WHERE Id = '%s'",
		strings.Join(names, ", "), objectName, recordID)

	resp, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(resp.Records) == 0 {
		return nil, NewNotFoundError(objectName, recordID)
	}

	return &ParentNavigation{Record: resp.Records[0], ParentFields: parentFields}, nil
}

// parentOriented reports whether a child relationship looks like a real
// parent/child link by naming convention. This is a heuristic, not a
// structural guarantee; callers degrade to every discovered relationship
// when it matches nothing.
func parentOriented(rel ChildRelationship) bool {
	return strings.Contains(rel.Field, "Parent") || rel.RelationshipName != ""
}

// relationshipKey names a relationship in result mappings: the relationship
// alias when the platform provides one, the child object name otherwise.
func relationshipKey(rel ChildRelationship) string {
	if rel.RelationshipName != "" {
		return rel.RelationshipName
	}
	return rel.ChildSObject
}

// ResolveChildren walks downward from a record across up to
// maxRelationships schema-discovered child relationships, one bounded query
// per relationship. The fan-out is best-effort: a failing sub-query
// (permissions, unknown field) drops that relationship from the mapping and
// never fails the overall call.
func (c *Client) ResolveChildren(ctx context.Context, objectName, recordID string, maxRelationships int) (*ChildNavigation, error) {
	if maxRelationships <= 0 {
		maxRelationships = defaultMaxRelationships
	}

	schema, err := c.DescribeCached(ctx, objectName)
	if err != nil {
		return nil, err
	}

	var eligible []ChildRelationship
	for _, rel := range schema.ChildRelationships {
		if rel.Field != "" && parentOriented(rel) {
			eligible = append(eligible, rel)
		}
	}
	if len(eligible) == 0 {
		// Naming heuristic matched nothing: take whatever relationships
		// exist rather than returning an empty walk.
		for _, rel := range schema.ChildRelationships {
			if rel.Field != "" {
				eligible = append(eligible, rel)
			}
		}
	}
	if len(eligible) > maxRelationships {
		eligible = eligible[:maxRelationships]
	}

	return c.fanOut(ctx, eligible, recordID, childRowCap), nil
}

// RelatedRecords is the undirected variant of ResolveChildren used by the
// related-records tool: every discovered relationship is eligible, with a
// wider scan (5 relationships, 10 rows each).
func (c *Client) RelatedRecords(ctx context.Context, objectName, recordID string) (*ChildNavigation, error) {
	schema, err := c.DescribeCached(ctx, objectName)
	if err != nil {
		return nil, err
	}

	var eligible []ChildRelationship
	for _, rel := range schema.ChildRelationships {
		if rel.Field != "" {
			eligible = append(eligible, rel)
		}
		if len(eligible) == 5 {
			break
		}
	}

	return c.fanOut(ctx, eligible, recordID, relatedRowCap), nil
}

// fanOut issues one bounded query per relationship, sequentially, swallowing
// individual failures. Precision is sacrificed for availability.
func (c *Client) fanOut(ctx context.Context, rels []ChildRelationship, recordID string, rowCap int) *ChildNavigation {
	children := make(map[string][]SObject)
	for _, rel := range rels {
		soql := fmt.Sprintf("SELECT Id, Name FROM %s WHERE %s = '%s' LIMIT %d",
			rel.ChildSObject, rel.Field, recordID, rowCap)
		resp, err := c.Query(ctx, soql)
		if err != nil {
			log.Printf("⚠️ Skipping relationship %s: %v", relationshipKey(rel), err)
			continue
		}
		children[relationshipKey(rel)] = resp.Records
	}
	return &ChildNavigation{Children: children}
}

// ResolveNamedRelationship is the direct path when the caller already knows
// the relationship name. With exactly one relationship requested, silent
// omission would hide the only result, so sub-query failures propagate.
func (c *Client) ResolveNamedRelationship(ctx context.Context, objectName, recordID, relationshipName string) ([]SObject, error) {
	parentQuery := fmt.Sprintf("SELECT Id, Name FROM %s WHERE Id = '%s'", objectName, recordID)
	resp, err := c.Query(ctx, parentQuery)
	if err != nil {
		return nil, err
	}
	if len(resp.Records) == 0 {
		return nil, NewNotFoundError(objectName, recordID)
	}

	relQuery := fmt.Sprintf("SELECT Id, Name FROM %s WHERE %sId = '%s' LIMIT %d",
		relationshipName, objectName, recordID, namedRelCap)
	relResp, err := c.Query(ctx, relQuery)
	if err != nil {
		return nil, err
	}
	return relResp.Records, nil
}
