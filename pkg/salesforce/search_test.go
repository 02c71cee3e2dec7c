package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSearchRecords(w http.ResponseWriter, records ...SObject) {
	json.NewEncoder(w).Encode(SearchResponse{SearchRecords: records})
}

func TestLookupPrefersFullTextSearch(t *testing.T) {
	var capturedSOSL string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path, "SOQL fallback must not run when SOSL succeeds")
		capturedSOSL = r.URL.Query().Get("q")
		writeSearchRecords(w, SObject{"Id": "001xx", "Name": "Acme Corp"})
	})

	result, err := client.Lookup(context.Background(), "Account", "acme", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, "FIND {acme*} IN ALL FIELDS RETURNING Account(Id, Name) LIMIT 10", capturedSOSL)
	assert.Equal(t, ProvenanceSOSL, result.Provenance)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Acme Corp", result.Records[0]["Name"])
}

func TestLookupEmptySearchResultIsTerminal(t *testing.T) {
	var soqlHit bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/query" {
			soqlHit = true
			return
		}
		writeSearchRecords(w)
	})

	result, err := client.Lookup(context.Background(), "Account", "nobody", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, ProvenanceSOSL, result.Provenance)
	assert.False(t, soqlHit, "zero rows is a valid terminal outcome, not a fallback trigger")
}

func TestLookupFallsBackOnTransportFailure(t *testing.T) {
	var capturedSOQL string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			writeQueryError(w, http.StatusBadRequest, "MALFORMED_SEARCH", "search not supported")
			return
		}
		capturedSOQL = r.URL.Query().Get("q")
		writeRecords(w, SObject{"Id": "003xx", "Name": "John Smith", "Email": "john@example.com"})
	})

	result, err := client.Lookup(context.Background(), "Contact", "john", []string{"Name", "Email"}, 5)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT Id, Name, Email FROM Contact WHERE Name LIKE '%john%' OR Email LIKE '%john%' LIMIT 5",
		capturedSOQL)
	assert.Equal(t, ProvenanceSOQLFallback, result.Provenance)
	require.Len(t, result.Records, 1)
}

func TestLookupFallbackFailureSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeQueryError(w, http.StatusBadRequest, "INVALID_FIELD", "no such field")
	})

	_, err := client.Lookup(context.Background(), "Contact", "john", []string{"Bogus"}, 5)
	var remote *RemoteError
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, "INVALID_FIELD", remote.Code)
}
