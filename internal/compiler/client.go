// Package compiler wraps the remote command compiler: a service that turns
// free text plus the current screen state into screen mutations. The client
// carries no business logic; any failure is total and the dispatcher falls
// back to the local rule path.
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voxfolio/internal/screen"
)

// DefaultTimeout bounds one compile call.
const DefaultTimeout = 10 * time.Second

// Request is the compile request payload.
type Request struct {
	Text          string          `json:"text"`
	CurrentScreen screen.Screen   `json:"currentScreen"`
	History       []screen.Screen `json:"history"`
}

// Result is a successfully validated compile response.
type Result struct {
	Mutations    []screen.Mutation
	SystemPrompt string
}

// Client talks to the compiler service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a compiler client. apiKey may be empty for services that
// authenticate elsewhere.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Compile posts the request and validates the response. Non-2xx status, an
// unparsable body, or a missing mutations array are all returned as errors:
// the contract has no partial success.
func (c *Client) Compile(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal compile request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build compile request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("compile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{}, fmt.Errorf("compiler returned status %d: %s", resp.StatusCode, string(body))
	}

	var wire struct {
		Mutations    []json.RawMessage `json:"mutations"`
		SystemPrompt string            `json:"systemPrompt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return Result{}, fmt.Errorf("failed to decode compile response: %w", err)
	}
	if wire.Mutations == nil {
		return Result{}, fmt.Errorf("compile response missing mutations array")
	}

	result := Result{SystemPrompt: wire.SystemPrompt}
	for _, raw := range wire.Mutations {
		m, err := screen.UnmarshalMutation(raw)
		if err != nil {
			return Result{}, fmt.Errorf("failed to decode mutation: %w", err)
		}
		result.Mutations = append(result.Mutations, m)
	}
	return result, nil
}
