package palisdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to a pali server. APIKey is sent on every request when set;
// RecoveryToken only on the lifecycle endpoints.
type Client struct {
	BaseURL       string
	APIKey        string
	RecoveryToken string
	HTTPClient    *http.Client
}

// NewClient creates a client with a 10 second request timeout.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithAPIKey returns a copy of c that authenticates with apiKey.
func (c *Client) WithAPIKey(apiKey string) *Client {
	cp := *c
	cp.APIKey = apiKey
	return &cp
}
