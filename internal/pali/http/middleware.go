package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

type identityKey struct{}

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// identityFromContext returns the caller set by the authn middleware. Routes
// without authn see the zero Identity, which has no capabilities.
func identityFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey{}).(domain.Identity)
	return id
}

// apiKeyAuthn validates the X-API-Key header on every request it wraps.
func apiKeyAuthn(auth *service.AuthService) httpx.Middleware {
	verify := httpx.VerifierFunc(func(ctx context.Context, key string) (context.Context, httpx.Principal, error) {
		id, err := auth.Validate(ctx, key)
		if err != nil {
			return ctx, httpx.Principal{}, err
		}
		ctx = slogx.With(ctx,
			slog.String("credential_id", id.CredentialID),
			slog.String("owner_label", id.OwnerLabel),
		)
		return withIdentity(ctx, id), httpx.Principal{ID: id.CredentialID, Scopes: id.Role.Scopes()}, nil
	})

	return func(next http.Handler) http.Handler {
		logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slogx.FromContext(r.Context()).Info("auth_success")
			next.ServeHTTP(w, r)
		})
		return httpx.HeaderAuthn(palisdk.HeaderAPIKey, verify, authnFailed)(logged)
	}
}

func authnFailed(w http.ResponseWriter, r *http.Request, err error) {
	l := slogx.FromContext(r.Context())
	if errors.Is(err, service.ErrStoreUnavailable) {
		l.Error("auth_failed", slog.Any("error", err))
	} else {
		l.Warn("auth_failed", slog.String("reason", err.Error()))
	}
	writeError(w, r, err)
}

// requireCapability rejects callers whose role lacks c.
func requireCapability(c domain.Capability) httpx.Middleware {
	return httpx.RequireAllScopes("Admin privileges required", string(c))
}

// requireAnyCapability admits callers holding at least one of cs.
func requireAnyCapability(msg string, cs ...domain.Capability) httpx.Middleware {
	scopes := make([]string, len(cs))
	for i, c := range cs {
		scopes[i] = string(c)
	}
	return httpx.RequireAnyScope(msg, scopes...)
}

// recoveryToken guards the unauthenticated lifecycle endpoints when a token
// is configured. With no token configured they stay open and rely on the
// server state alone.
func recoveryToken(token string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(palisdk.HeaderRecoveryToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				slogx.FromContext(r.Context()).Warn("recovery token rejected", slog.Bool("present", got != ""))
				httpx.WriteError(w, http.StatusUnauthorized, "invalid recovery token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
