package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/pkg/cryptox"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

// AuthService validates presented API keys.
type AuthService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Validate resolves a presented secret to the identity of an active
// credential. Unknown and revoked keys are both reported as ErrInvalidAPIKey.
func (s *AuthService) Validate(ctx context.Context, presented string) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	secret := strings.TrimSpace(presented)
	if secret == "" {
		return domain.Identity{}, ErrMissingAPIKey
	}
	if !cryptox.LooksLikeAPIKey(secret) {
		return domain.Identity{}, ErrInvalidAPIKey
	}

	hash := cryptox.HashAPIKey(secret)
	cred, err := s.Store.Credentials().GetActiveCredentialByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, ErrInvalidAPIKey
		}
		l.Error("credential lookup failed", slog.Any("error", err))
		return domain.Identity{}, unavailable(err)
	}

	if !cred.Active || !cryptox.EqualAPIKeyHash(cred.SecretHash, hash) {
		return domain.Identity{}, ErrInvalidAPIKey
	}

	// Usage tracking is best-effort; a failed stamp never rejects the key.
	if err := s.Store.Credentials().TouchLastUsed(ctx, cred.ID, s.now()); err != nil {
		l.Warn("failed to record key usage",
			slog.String("credential_id", cred.ID),
			slog.Any("error", err),
		)
	}

	return domain.Identity{
		CredentialID: cred.ID,
		Role:         cred.Role,
		OwnerLabel:   cred.OwnerLabel,
	}, nil
}
