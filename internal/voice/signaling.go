package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignalingClient performs the HTTPS side of session setup: minting a
// short-lived credential and exchanging the SDP offer for an answer. All
// later control traffic flows over the established data channel, not here.
type SignalingClient struct {
	credentialURL string
	sdpURL        string
	apiKey        string
	httpClient    *http.Client
}

// NewSignalingClient creates a signaling client. apiKey authenticates the
// credential mint; the minted credential authenticates the SDP exchange.
func NewSignalingClient(credentialURL, sdpURL, apiKey string) *SignalingClient {
	return &SignalingClient{
		credentialURL: credentialURL,
		sdpURL:        sdpURL,
		apiKey:        apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// MintCredential obtains a short-lived session credential.
func (c *SignalingClient) MintCredential(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.credentialURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", fmt.Errorf("failed to build credential request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("credential request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("credential mint returned status %d", resp.StatusCode)
	}

	var wire struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return "", fmt.Errorf("failed to decode credential response: %w", err)
	}
	if wire.Credential == "" {
		return "", fmt.Errorf("credential response missing credential")
	}
	return wire.Credential, nil
}

// ExchangeSDP posts the local offer and returns the remote answer.
func (c *SignalingClient) ExchangeSDP(ctx context.Context, credential, offerSDP string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sdpURL, bytes.NewReader([]byte(offerSDP)))
	if err != nil {
		return "", fmt.Errorf("failed to build sdp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/sdp")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sdp exchange failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("sdp exchange returned status %d", resp.StatusCode)
	}

	answer, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read sdp answer: %w", err)
	}
	if len(answer) == 0 {
		return "", fmt.Errorf("sdp exchange returned empty answer")
	}
	return string(answer), nil
}
