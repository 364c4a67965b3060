package httpx

import (
	"context"
	"net/http"
	"strings"
)

// Verifier checks a presented credential. On success it returns the caller
// and a context enriched with whatever the application needs downstream.
type Verifier interface {
	Verify(ctx context.Context, credential string) (context.Context, Principal, error)
}

// VerifierFunc adapts a function to the Verifier interface.
type VerifierFunc func(ctx context.Context, credential string) (context.Context, Principal, error)

func (f VerifierFunc) Verify(ctx context.Context, credential string) (context.Context, Principal, error) {
	return f(ctx, credential)
}

// ErrorHandler renders an authentication failure.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// HeaderAuthn reads the credential from header and hands it to v. An absent
// header is passed through as an empty string so the verifier decides how
// to report it.
func HeaderAuthn(header string, v Verifier, onError ErrorHandler) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(header))

			ctx, p, err := v.Verify(r.Context(), raw)
			if err != nil {
				onError(w, r, err)
				return
			}

			// Inject into context for downstream handlers.
			ctx = WithPrincipal(ctx, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
