package palisdk

import (
	"context"
	"net/http"
	"net/url"
)

// GenerateKey mints a new key. Requires an admin key.
func (c *Client) GenerateKey(ctx context.Context, req CreateKeyRequest) (*KeyResponse, error) {
	key, err := do[KeyResponse](ctx, c, http.MethodPost, "/admin/keys/generate", req, nil)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// ListKeys returns every key, newest first. Requires an admin key.
func (c *Client) ListKeys(ctx context.Context) ([]KeyInfo, error) {
	return do[[]KeyInfo](ctx, c, http.MethodGet, "/admin/keys", nil, nil)
}

// RevokeKey deactivates a key. Revoking an unknown or revoked key succeeds.
func (c *Client) RevokeKey(ctx context.Context, id string) (*RevokeResponse, error) {
	out, err := do[RevokeResponse](ctx, c, http.MethodDelete, "/admin/keys/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PurgeKey permanently deletes a key that is not protected.
func (c *Client) PurgeKey(ctx context.Context, id string) error {
	_, err := do[RevokeResponse](ctx, c, http.MethodDelete, "/admin/keys/"+url.PathEscape(id)+"?purge=true", nil, nil)
	return err
}
