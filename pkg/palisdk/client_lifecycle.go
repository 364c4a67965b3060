package palisdk

import (
	"context"
	"net/http"
)

func (c *Client) recoveryHeaders() map[string]string {
	if c.RecoveryToken == "" {
		return nil
	}
	return map[string]string{HeaderRecoveryToken: c.RecoveryToken}
}

// Initialize mints the first admin key. It fails with 409 once the server
// has been initialized.
func (c *Client) Initialize(ctx context.Context) (*KeyResponse, error) {
	key, err := do[KeyResponse](ctx, c, http.MethodPost, "/initialize", nil, c.recoveryHeaders())
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// Reinitialize revokes every admin key and returns a single replacement.
func (c *Client) Reinitialize(ctx context.Context) (*KeyResponse, error) {
	key, err := do[KeyResponse](ctx, c, http.MethodPost, "/reinitialize", nil, c.recoveryHeaders())
	if err != nil {
		return nil, err
	}
	return &key, nil
}
