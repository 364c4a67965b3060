package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

const maxBodyBytes = 1 << 20

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: Invalid JSON body", service.ErrInvalidInput)
	}
	return nil
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func timePtr(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

func keyResponse(k service.IssuedKey) palisdk.KeyResponse {
	return palisdk.KeyResponse{
		ID:         k.Credential.ID,
		ClientName: k.Credential.OwnerLabel,
		KeyType:    k.Credential.Role.String(),
		APIKey:     k.Secret,
		CreatedAt:  k.Credential.CreatedAt.Unix(),
	}
}

// keyInfo omits the secret hash.
func keyInfo(c domain.Credential) palisdk.KeyInfo {
	return palisdk.KeyInfo{
		ID:         c.ID,
		ClientName: c.OwnerLabel,
		KeyType:    c.Role.String(),
		LastUsed:   unixPtr(c.LastUsedAt),
		CreatedAt:  c.CreatedAt.Unix(),
		Active:     c.Active,
		Protected:  c.Protected,
	}
}

func todoView(t domain.Todo) palisdk.Todo {
	return palisdk.Todo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     unixPtr(t.DueDate),
		CreatedAt:   t.CreatedAt.Unix(),
		UpdatedAt:   t.UpdatedAt.Unix(),
	}
}

func todoViews(ts []domain.Todo) []palisdk.Todo {
	out := make([]palisdk.Todo, len(ts))
	for i, t := range ts {
		out[i] = todoView(t)
	}
	return out
}
