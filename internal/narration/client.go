// Package narration wraps the remote narration service: it turns the state
// that resulted from a command into a short spoken or written explanation,
// plus an optional focus hint. The client carries no business logic; callers
// treat any failure as "no narration this time".
package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voxfolio/internal/screen"
	"voxfolio/internal/session"
)

// DefaultTimeout bounds one narration call.
const DefaultTimeout = 10 * time.Second

// Tone classifies the delivery of a narration.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneCurious Tone = "curious"
	ToneExcited Tone = "excited"
	ToneWarning Tone = "warning"
)

// Request is the narration request payload. FactsPack optionally carries a
// synthesized description request, as the loop scheduler issues per step.
type Request struct {
	Text          string          `json:"text"`
	CurrentScreen screen.Screen   `json:"currentScreen"`
	History       []screen.Screen `json:"history"`
	Session       session.Context `json:"sessionContext"`
	FactsPack     string          `json:"factsPack,omitempty"`
}

// Result is a narration response. FocusTarget is raw and must be validated
// by the caller against the ids actually present on the current screen.
type Result struct {
	Narration     string `json:"narration"`
	IntentSummary string `json:"intentSummary"`
	FocusTarget   string `json:"focusTarget"`
	Tone          Tone   `json:"tone"`
}

// Client talks to the narration service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a narration client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Narrate posts the request and decodes the response.
func (c *Client) Narrate(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal narration request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build narration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("narration request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{}, fmt.Errorf("narrator returned status %d: %s", resp.StatusCode, string(body))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("failed to decode narration response: %w", err)
	}
	if result.Tone == "" {
		result.Tone = ToneNeutral
	}
	return result, nil
}
