package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient("", "token")
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewClient("https://example.my.salesforce.com", "")
	assert.ErrorAs(t, err, &cfgErr)
}

func TestQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "SELECT Id FROM Account", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(QueryResponse{
			TotalSize: 1,
			Done:      true,
			Records:   []SObject{{"Id": "001xx0001"}},
		})
	})

	resp, err := client.Query(context.Background(), "SELECT Id FROM Account")
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.TotalSize)
	assert.True(t, resp.Done)
	assert.Equal(t, "001xx0001", resp.Records[0]["Id"])
}

func TestExpiredSessionClassification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode([]apiError{
			{Message: "Session expired or invalid", ErrorCode: "INVALID_SESSION_ID"},
		})
	})

	_, err := client.Query(context.Background(), "SELECT Id FROM Account")
	assert.True(t, IsAuthExpired(err))
}

func TestUnauthorizedWithOtherCodeIsRemoteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode([]apiError{
			{Message: "nope", ErrorCode: "INSUFFICIENT_ACCESS"},
		})
	})

	_, err := client.Query(context.Background(), "SELECT Id FROM Account")
	assert.False(t, IsAuthExpired(err))

	var remote *RemoteError
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
	assert.Equal(t, "INSUFFICIENT_ACCESS", remote.Code)
}

func TestRemoteErrorJoinsMessages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode([]apiError{
			{Message: "unknown field Foo", ErrorCode: "INVALID_FIELD"},
			{Message: "malformed query", ErrorCode: "MALFORMED_QUERY"},
		})
	})

	_, err := client.Query(context.Background(), "SELECT Foo FROM Account")
	var remote *RemoteError
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, "unknown field Foo, malformed query", remote.Message)
	assert.Equal(t, "INVALID_FIELD", remote.Code)
}

func TestRemoteErrorRawBodyFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})

	_, err := client.Query(context.Background(), "SELECT Id FROM Account")
	var remote *RemoteError
	assert.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.Status)
	assert.Equal(t, "upstream unavailable", remote.Message)
}

func TestDescribeCached(t *testing.T) {
	var describeCalls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sobjects/Account/describe", r.URL.Path)
		atomic.AddInt32(&describeCalls, 1)
		json.NewEncoder(w).Encode(ObjectSchema{
			Name:   "Account",
			Fields: []FieldDescriptor{{Name: "Id", Type: "id"}},
		})
	})

	first, err := client.DescribeCached(context.Background(), "Account")
	assert.NoError(t, err)
	second, err := client.DescribeCached(context.Background(), "Account")
	assert.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&describeCalls))
}

func TestDescribeCacheSkipsFailures(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode([]apiError{{Message: "sobject type 'Bogus' not supported", ErrorCode: "NOT_FOUND"}})
			return
		}
		json.NewEncoder(w).Encode(ObjectSchema{Name: "Bogus"})
	})

	_, err := client.DescribeCached(context.Background(), "Bogus")
	assert.Error(t, err)

	// failure was not cached; a later call fetches again
	schema, err := client.DescribeCached(context.Background(), "Bogus")
	assert.NoError(t, err)
	assert.Equal(t, "Bogus", schema.Name)
}

func TestCreateUpdateDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/sobjects/Account", r.URL.Path)
			var body SObject
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "Acme", body["Name"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "001xxNew", "success": true})
		case http.MethodPatch:
			assert.Equal(t, "/sobjects/Account/001xxNew", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			assert.Equal(t, "/sobjects/Account/001xxNew", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	created, err := client.Create(ctx, "Account", SObject{"Name": "Acme"})
	assert.NoError(t, err)
	assert.Equal(t, "001xxNew", created["id"])

	assert.NoError(t, client.Update(ctx, "Account", "001xxNew", SObject{"Name": "Acme Corp"}))
	assert.NoError(t, client.Delete(ctx, "Account", "001xxNew"))
}
