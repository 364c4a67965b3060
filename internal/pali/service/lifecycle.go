package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/pkg/cryptox"
	"github.com/aussiebroadwan/pali/pkg/idx"
	"github.com/aussiebroadwan/pali/pkg/slogx"
)

// IssuedKey is a freshly minted credential together with its plaintext
// secret. The secret is never stored and cannot be recovered later.
type IssuedKey struct {
	Credential domain.Credential
	Secret     string
}

// RevokeOutcome reports what a revoke call found. All outcomes are success
// from the caller's point of view.
type RevokeOutcome string

const (
	RevokeOutcomeRevoked        RevokeOutcome = "revoked"
	RevokeOutcomeAlreadyRevoked RevokeOutcome = "already_revoked"
	RevokeOutcomeNotFound       RevokeOutcome = "not_found"
)

// LifecycleService owns bootstrap, issuance, revocation and reinitialize.
// Whether the server is initialized is always derived from the store.
type LifecycleService struct {
	Store     store.Store
	Validator *validator.Validate

	// Now defaults to time.Now.
	Now func() time.Time
}

type issueRequest struct {
	OwnerLabel string      `json:"client_name" validate:"required,max=100"`
	Role       domain.Role `json:"key_type" validate:"required,key_role"`
}

func (s *LifecycleService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	// Stored at second precision.
	return now().UTC().Truncate(time.Second)
}

func (s *LifecycleService) validate() *validator.Validate {
	if s.Validator != nil {
		return s.Validator
	}
	return defaultValidator
}

func (s *LifecycleService) mint(label string, role domain.Role, protected bool) IssuedKey {
	secret := cryptox.MustGenerateAPIKey()
	return IssuedKey{
		Secret: secret,
		Credential: domain.Credential{
			ID:         idx.New().String(),
			SecretHash: cryptox.HashAPIKey(secret),
			OwnerLabel: label,
			Role:       role,
			Protected:  protected,
			CreatedAt:  s.now(),
			Active:     true,
		},
	}
}

func authorize(ctx context.Context, caller domain.Identity, op string) error {
	if caller.Can(domain.CapabilityManageKeys) {
		return nil
	}
	slogx.FromContext(ctx).Warn("key management denied",
		slog.String("op", op),
		slog.String("credential_id", caller.CredentialID),
		slog.String("role", caller.Role.String()),
	)
	return ErrForbidden
}

// lifecycleFailure maps the error of a lifecycle transaction onto the
// service taxonomy.
func lifecycleFailure(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, ErrAlreadyInitialized), errors.Is(err, ErrNotInitialized):
		return err
	case errors.Is(err, store.ErrRollbackFailed):
		slogx.FromContext(ctx).Error("lifecycle transaction could not be rolled back, manual intervention required",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return errors.Join(ErrLifecycleInconsistent, err)
	default:
		return storeFailure(op, err)
	}
}

// IsInitialized reports whether any admin credential exists, active or not.
func (s *LifecycleService) IsInitialized(ctx context.Context) (bool, error) {
	ok, err := s.Store.Credentials().HasAdmin(ctx)
	if err != nil {
		return false, storeFailure("check initialization", err)
	}
	return ok, nil
}

// Bootstrap mints the first admin key. It succeeds at most once per store.
func (s *LifecycleService) Bootstrap(ctx context.Context) (IssuedKey, error) {
	l := slogx.FromContext(ctx)
	key := s.mint(domain.LabelInitialAdmin, domain.RoleAdmin, true)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockLifecycle(ctx); err != nil {
			return err
		}
		initialized, err := tx.Credentials().HasAdmin(ctx)
		if err != nil {
			return err
		}
		if initialized {
			return ErrAlreadyInitialized
		}
		if err := tx.Credentials().CreateInitialAdmin(ctx, key.Credential); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyInitialized
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyInitialized) {
			l.Warn("attempted bootstrap on already-initialized server")
		}
		return IssuedKey{}, lifecycleFailure(ctx, "bootstrap", err)
	}

	l.Info("server initialized", slog.String("credential_id", key.Credential.ID))
	return key, nil
}

// SeedInitialKey stores a pre-generated admin secret when the server is not
// yet initialized. It reports whether a credential was created.
func (s *LifecycleService) SeedInitialKey(ctx context.Context, secret string) (bool, error) {
	l := slogx.FromContext(ctx)

	secret = strings.TrimSpace(secret)
	if !cryptox.LooksLikeAPIKey(secret) {
		return false, invalid("initial admin key is not a well-formed API key")
	}

	cred := domain.Credential{
		ID:         idx.New().String(),
		SecretHash: cryptox.HashAPIKey(secret),
		OwnerLabel: domain.LabelSeededAdmin,
		Role:       domain.RoleAdmin,
		Protected:  true,
		CreatedAt:  s.now(),
		Active:     true,
	}

	created := false
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockLifecycle(ctx); err != nil {
			return err
		}
		initialized, err := tx.Credentials().HasAdmin(ctx)
		if err != nil || initialized {
			return err
		}
		if err := tx.Credentials().CreateInitialAdmin(ctx, cred); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, lifecycleFailure(ctx, "seed initial key", err)
	}

	if created {
		l.Info("seeded initial admin key", slog.String("credential_id", cred.ID))
	} else {
		l.Debug("initial admin key ignored, server already initialized")
	}
	return created, nil
}

// Issue mints a new key of the given role. Admin only.
func (s *LifecycleService) Issue(ctx context.Context, caller domain.Identity, ownerLabel string, role domain.Role) (IssuedKey, error) {
	l := slogx.FromContext(ctx)
	if err := authorize(ctx, caller, "issue"); err != nil {
		return IssuedKey{}, err
	}

	req := issueRequest{OwnerLabel: strings.TrimSpace(ownerLabel), Role: role}
	if err := s.validate().Struct(req); err != nil {
		return IssuedKey{}, validationError(err)
	}

	key := s.mint(req.OwnerLabel, req.Role, false)
	if err := s.Store.Credentials().CreateCredential(ctx, key.Credential); err != nil {
		l.Error("failed to create API key", slog.Any("error", err))
		return IssuedKey{}, storeFailure("issue", err)
	}

	l.Info("API key issued",
		slog.String("credential_id", key.Credential.ID),
		slog.String("owner_label", key.Credential.OwnerLabel),
		slog.String("role", key.Credential.Role.String()),
		slog.String("issued_by", caller.CredentialID),
	)
	return key, nil
}

// Revoke deactivates a key. Revoking an unknown or already revoked key is
// not an error; the outcome tells the caller which case applied.
func (s *LifecycleService) Revoke(ctx context.Context, caller domain.Identity, id string) (RevokeOutcome, error) {
	l := slogx.FromContext(ctx)
	if err := authorize(ctx, caller, "revoke"); err != nil {
		return "", err
	}

	if strings.TrimSpace(id) == "" {
		return "", invalid("missing key ID")
	}

	// A malformed ID cannot name a stored key.
	parsed, err := idx.Parse(id)
	if err != nil {
		l.Info("API key revoke",
			slog.String("credential_id", id),
			slog.String("outcome", string(RevokeOutcomeNotFound)),
			slog.String("revoked_by", caller.CredentialID),
		)
		return RevokeOutcomeNotFound, nil
	}
	id = parsed.String()

	changed, err := s.Store.Credentials().RevokeCredential(ctx, id)
	outcome := RevokeOutcomeAlreadyRevoked
	switch {
	case errors.Is(err, store.ErrNotFound):
		outcome = RevokeOutcomeNotFound
	case err != nil:
		return "", storeFailure("revoke", err)
	case changed:
		outcome = RevokeOutcomeRevoked
	}

	l.Info("API key revoke",
		slog.String("credential_id", id),
		slog.String("outcome", string(outcome)),
		slog.String("revoked_by", caller.CredentialID),
	)
	return outcome, nil
}

// Purge physically deletes a key that is not protected. Admin only.
func (s *LifecycleService) Purge(ctx context.Context, caller domain.Identity, id string) error {
	l := slogx.FromContext(ctx)
	if err := authorize(ctx, caller, "purge"); err != nil {
		return err
	}
	parsed, err := idx.Parse(id)
	if err != nil {
		return ErrCredentialNotFound
	}
	id = parsed.String()

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		cred, err := tx.Credentials().GetCredentialByID(ctx, id)
		if err != nil {
			return err
		}
		if cred.Protected {
			return ErrCredentialProtected
		}
		return tx.Credentials().DeleteCredential(ctx, id)
	})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		return ErrCredentialNotFound
	case errors.Is(err, ErrCredentialProtected):
		l.Warn("attempted to purge protected API key", slog.String("credential_id", id))
		return ErrCredentialProtected
	default:
		return storeFailure("purge", err)
	}

	l.Info("API key purged",
		slog.String("credential_id", id),
		slog.String("purged_by", caller.CredentialID),
	)
	return nil
}

// Reinitialize revokes every admin key and mints one replacement, all in one
// transaction. It is the recovery path for a lost or leaked admin key.
func (s *LifecycleService) Reinitialize(ctx context.Context) (IssuedKey, error) {
	l := slogx.FromContext(ctx)
	key := s.mint(domain.LabelReinitializedAdmin, domain.RoleAdmin, true)

	var revoked int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockLifecycle(ctx); err != nil {
			return err
		}
		initialized, err := tx.Credentials().HasAdmin(ctx)
		if err != nil {
			return err
		}
		if !initialized {
			return ErrNotInitialized
		}
		if revoked, err = tx.Credentials().DeactivateAdmins(ctx); err != nil {
			return err
		}
		return tx.Credentials().CreateCredential(ctx, key.Credential)
	})
	if err != nil {
		return IssuedKey{}, lifecycleFailure(ctx, "reinitialize", err)
	}

	l.Warn("admin keys reinitialized",
		slog.Int64("revoked_admin_keys", revoked),
		slog.String("credential_id", key.Credential.ID),
	)
	return key, nil
}

// List returns every credential, newest first. Admin only.
func (s *LifecycleService) List(ctx context.Context, caller domain.Identity) ([]domain.Credential, error) {
	if err := authorize(ctx, caller, "list"); err != nil {
		return nil, err
	}
	creds, err := s.Store.Credentials().ListCredentials(ctx)
	if err != nil {
		return nil, storeFailure("list keys", err)
	}
	return creds, nil
}
