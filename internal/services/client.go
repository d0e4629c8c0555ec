// GraphQL transport for the remote API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/todox/internal/shared"
	"golang.org/x/oauth2"
)

// DefaultEndpoint is the public GraphQL API.
const DefaultEndpoint = "http://graphql.unicaen.fr:4000"

// GraphClient sends GraphQL documents to a single endpoint.
type GraphClient struct {
	endpoint   string
	httpClient *http.Client
}

// GraphRequest is the JSON body of a GraphQL POST.
type GraphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphError is one entry of a GraphQL "errors" array.
type GraphError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// GraphErrors collects the errors returned alongside a response.
type GraphErrors []GraphError

func (e GraphErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ge := range e {
		msgs[i] = ge.Message
	}
	return strings.Join(msgs, "; ")
}

// Unwrap makes GraphQL errors match [shared.ErrAPIRequest].
func (e GraphErrors) Unwrap() error {
	return shared.ErrAPIRequest
}

// contains reports whether any message mentions one of the given words, case-insensitively.
func (e GraphErrors) contains(words ...string) bool {
	for _, ge := range e {
		msg := strings.ToLower(ge.Message)
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
	}
	return false
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors GraphErrors     `json:"errors"`
}

// NewGraphClient creates a client for endpoint. An empty endpoint uses [DefaultEndpoint];
// a nil client uses a plain [http.Client] with timeout.
func NewGraphClient(endpoint string, client *http.Client, timeout time.Duration) *GraphClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &GraphClient{endpoint: endpoint, httpClient: client}
}

// Endpoint returns the URL requests are sent to.
func (c *GraphClient) Endpoint() string {
	return c.endpoint
}

// WithToken returns a copy of c that sends token as a bearer token. An empty token returns c unchanged.
func (c *GraphClient) WithToken(token string) *GraphClient {
	if token == "" {
		return c
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := &http.Client{
		Timeout:   c.httpClient.Timeout,
		Transport: &oauth2.Transport{Source: src, Base: c.httpClient.Transport},
	}
	return &GraphClient{endpoint: c.endpoint, httpClient: hc}
}

// Do sends query with variables and decodes the "data" member into result.
//
// GraphQL errors are returned as [GraphErrors]; the data is still decoded when present.
func (c *GraphClient) Do(ctx context.Context, query string, variables map[string]any, result any) error {
	body, err := json.Marshal(GraphRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope graphResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}

	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}
