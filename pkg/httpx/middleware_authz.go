package httpx

import (
	"net/http"
)

// RequireAnyScope the caller must have at least one of the provided scopes.
func RequireAnyScope(msg string, required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range scopesFromCtx(r.Context()) {
				if _, ok := want[s]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			WriteError(w, http.StatusForbidden, msg)
		})
	}
}

// RequireAllScopes the caller must have every scope listed.
func RequireAllScopes(msg string, required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			have := make(map[string]struct{})
			for _, s := range scopesFromCtx(r.Context()) {
				have[s] = struct{}{}
			}

			for _, req := range required {
				if _, ok := have[req]; !ok {
					WriteError(w, http.StatusForbidden, msg)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
