package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
)

var (
	ErrMissingAPIKey = errors.New("missing API key")
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrForbidden     = errors.New("admin privileges required")

	ErrAlreadyInitialized = errors.New("server already initialized")
	ErrNotInitialized     = errors.New("server not initialized")

	ErrCredentialNotFound  = errors.New("API key not found")
	ErrCredentialProtected = errors.New("API key is protected and cannot be purged")

	ErrTodoNotFound = errors.New("todo not found")
	ErrAmbiguousID  = errors.New("ID prefix matches more than one todo")

	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrLifecycleInconsistent means a lifecycle transaction failed and
	// could not be rolled back. Manual intervention is required.
	ErrLifecycleInconsistent = errors.New("lifecycle state inconsistent")
)

// unavailable marks err as a store availability failure.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// isConnectivity reports whether err means the store could not be reached
// rather than that it rejected the operation.
func isConnectivity(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn)
}

// storeFailure wraps an unexpected store error, flagging connectivity
// failures as ErrStoreUnavailable.
func storeFailure(op string, err error) error {
	if isConnectivity(err) {
		return fmt.Errorf("%s: %w", op, unavailable(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

var defaultValidator = NewValidator()

// NewValidator returns a validator with the domain's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := domain.RegisterWithValidator(v); err != nil {
		panic(err)
	}
	return v
}

// validationError converts validator output into ErrInvalidInput naming the
// first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return invalid("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return invalid("%s failed %s", fe.Field(), fe.Tag())
	}
	return invalid("%v", err)
}
