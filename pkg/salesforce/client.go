package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Client is a thin Salesforce REST API client. It is retry-free: the single
// retry-worthy condition (expired session) is surfaced as AuthExpiredError so
// the caller layer can refresh and re-issue the whole operation.
type Client struct {
	BaseURL     string
	AccessToken string
	HTTPClient  *http.Client

	// describe cache, keyed by object name. Entries are immutable once
	// written; concurrent first-access races do duplicate work but always
	// agree on content.
	schemas sync.Map
}

// NewClient creates a client for the given instance URL and bearer token.
func NewClient(baseURL, accessToken string) (*Client, error) {
	if baseURL == "" || accessToken == "" {
		return nil, &ConfigError{Message: "base URL and access token are required"}
	}
	return &Client{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// doRequest executes a request against the API and decodes the JSON response
// into result (when non-nil). Responses with status >= 400 are classified
// into the error taxonomy.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	fullURL := c.BaseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// classifyError maps an error response onto the taxonomy. A 401 carrying the
// INVALID_SESSION_ID error code becomes AuthExpiredError; everything else
// >= 400 becomes RemoteError with the message extracted from the platform's
// structured error list when the body parses, otherwise the raw body text.
func classifyError(resp *http.Response) error {
	respBytes, _ := io.ReadAll(resp.Body)

	var errs []apiError
	if json.Unmarshal(respBytes, &errs) == nil && len(errs) > 0 {
		if resp.StatusCode == http.StatusUnauthorized {
			for _, e := range errs {
				if e.ErrorCode == "INVALID_SESSION_ID" {
					return &AuthExpiredError{Message: e.Message}
				}
			}
		}
		msg := errs[0].Message
		for _, e := range errs[1:] {
			msg += ", " + e.Message
		}
		return NewRemoteError(resp.StatusCode, errs[0].ErrorCode, msg)
	}

	return NewRemoteError(resp.StatusCode, "", string(respBytes))
}

// Query executes a SOQL query.
func (c *Client) Query(ctx context.Context, soql string) (*QueryResponse, error) {
	var result QueryResponse
	q := url.Values{"q": {soql}}
	if err := c.doRequest(ctx, http.MethodGet, "/query", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Search executes a SOSL search.
func (c *Client) Search(ctx context.Context, sosl string) (*SearchResponse, error) {
	var result SearchResponse
	q := url.Values{"q": {sosl}}
	if err := c.doRequest(ctx, http.MethodGet, "/search", q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SObjects lists all objects available in the org.
func (c *Client) SObjects(ctx context.Context) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := c.doRequest(ctx, http.MethodGet, "/sobjects", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Recent fetches recently accessed records.
func (c *Client) Recent(ctx context.Context, limit int) ([]SObject, error) {
	var result []SObject
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.doRequest(ctx, http.MethodGet, "/recent", q, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Describe fetches field and relationship metadata for an object, bypassing
// the cache. Use DescribeCached unless a fresh fetch is required.
func (c *Client) Describe(ctx context.Context, objectName string) (*ObjectSchema, error) {
	var result ObjectSchema
	path := fmt.Sprintf("/sobjects/%s/describe", url.PathEscape(objectName))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DescribeCached returns the schema for objectName, fetching it at most
// effectively once per client. Concurrent first calls may each fetch, but
// LoadOrStore keeps a single winner so all callers agree.
func (c *Client) DescribeCached(ctx context.Context, objectName string) (*ObjectSchema, error) {
	if cached, ok := c.schemas.Load(objectName); ok {
		return cached.(*ObjectSchema), nil
	}
	schema, err := c.Describe(ctx, objectName)
	if err != nil {
		return nil, err
	}
	actual, _ := c.schemas.LoadOrStore(objectName, schema)
	return actual.(*ObjectSchema), nil
}

// Create creates a new record and returns the platform response ({id, success, errors}).
func (c *Client) Create(ctx context.Context, objectName string, data SObject) (map[string]interface{}, error) {
	var result map[string]interface{}
	path := "/sobjects/" + url.PathEscape(objectName)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Update patches an existing record. The platform returns 204 on success.
func (c *Client) Update(ctx context.Context, objectName, recordID string, data SObject) error {
	path := fmt.Sprintf("/sobjects/%s/%s", url.PathEscape(objectName), url.PathEscape(recordID))
	return c.doRequest(ctx, http.MethodPatch, path, nil, data, nil)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, objectName, recordID string) error {
	path := fmt.Sprintf("/sobjects/%s/%s", url.PathEscape(objectName), url.PathEscape(recordID))
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}
