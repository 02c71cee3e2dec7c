package salesforce

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const defaultLookupLimit = 10

// Lookup finds records matching searchTerm on objectName. Full-text search
// is the platform's purpose-built mechanism and wins whenever reachable:
// its result is terminal even when empty. Only a transport-level failure
// falls back to a field-pattern SOQL query, whose own failure surfaces to
// the caller unmodified.
func (c *Client) Lookup(ctx context.Context, objectName, searchTerm string, searchFields []string, limit int) (*LookupResult, error) {
	if len(searchFields) == 0 {
		searchFields = []string{"Name"}
	}
	if limit <= 0 {
		limit = defaultLookupLimit
	}
	projection := strings.Join(searchFields, ", ")

	sosl := fmt.Sprintf("FIND {%s*} IN ALL FIELDS RETURNING %s(Id, %s) LIMIT %d",
		searchTerm, objectName, projection, limit)

	searchResp, err := c.Search(ctx, sosl)
	if err == nil {
		return &LookupResult{Records: searchResp.SearchRecords, Provenance: ProvenanceSOSL}, nil
	}
	log.Printf("SOSL search failed for %s, falling back to SOQL: %v", objectName, err)

	predicates := make([]string, len(searchFields))
	for i, field := range searchFields {
		predicates[i] = fmt.Sprintf("%s LIKE '%%%s%%'", field, searchTerm)
	}
	soql := fmt.Sprintf("SELECT Id, %s FROM %s WHERE %s LIMIT %d",
		projection, objectName, strings.Join(predicates, " OR "), limit)

	queryResp, err := c.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	return &LookupResult{Records: queryResp.Records, Provenance: ProvenanceSOQLFallback}, nil
}
