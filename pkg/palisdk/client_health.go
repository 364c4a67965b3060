package palisdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	health, err := do[HealthResponse](ctx, c, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service can reach its store.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	health, err := do[HealthResponse](ctx, c, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}
	return &health, nil
}

// Health calls the plain-text health endpoint and returns its body.
func (c *Client) Health(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", parseErrorResponse(resp, body)
	}
	return strings.TrimSpace(string(body)), nil
}
