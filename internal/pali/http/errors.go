package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/pkg/httpx"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

// errorStatus maps a service error onto the status code and message sent to
// clients. Messages never reveal whether a key was revoked or unknown.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMissingAPIKey):
		return http.StatusUnauthorized, "missing API key"
	case errors.Is(err, service.ErrInvalidAPIKey):
		return http.StatusUnauthorized, "invalid API key"
	case errors.Is(err, service.ErrLifecycleInconsistent):
		return http.StatusInternalServerError, "lifecycle state inconsistent, manual intervention required"
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "credential store unavailable"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "Admin privileges required"
	case errors.Is(err, service.ErrAlreadyInitialized):
		return http.StatusConflict, "Server already initialized"
	case errors.Is(err, service.ErrNotInitialized):
		return http.StatusBadRequest, "Server not initialized. Use POST /initialize first"
	case errors.Is(err, service.ErrCredentialNotFound):
		return http.StatusNotFound, "API key not found"
	case errors.Is(err, service.ErrTodoNotFound):
		return http.StatusNotFound, "Todo not found"
	case errors.Is(err, service.ErrCredentialProtected):
		return http.StatusConflict, "API key is protected and cannot be purged"
	case errors.Is(err, service.ErrAmbiguousID):
		return http.StatusConflict, "ID prefix matches more than one todo"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError renders err as an envelope, logging anything that is not a
// client mistake.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := errorStatus(err)
	if code >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			slog.Int("status", code),
			slog.Any("error", err),
		)
	}
	httpx.WriteError(w, code, msg)
}
