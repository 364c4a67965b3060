package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/pali/internal/pali/domain"
	"github.com/aussiebroadwan/pali/internal/pali/store"
	"github.com/aussiebroadwan/pali/internal/pali/store/drivers/sqlite"
	"github.com/aussiebroadwan/pali/pkg/cryptox"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

type services struct {
	store     store.Store
	auth      *AuthService
	lifecycle *LifecycleService
	todos     *TodoService
}

func newServices(t *testing.T) services {
	st := newTestStore(t)
	return services{
		store:     st,
		auth:      &AuthService{Store: st},
		lifecycle: &LifecycleService{Store: st},
		todos:     &TodoService{Store: st},
	}
}

func (s services) bootstrap(t *testing.T) (IssuedKey, domain.Identity) {
	t.Helper()
	key, err := s.lifecycle.Bootstrap(t.Context())
	require.NoError(t, err)
	id, err := s.auth.Validate(t.Context(), key.Secret)
	require.NoError(t, err)
	return key, id
}

// faultyCredentials overrides selected repository calls with failures.
type faultyCredentials struct {
	store.Credentials
	lookupErr error
	touchErr  error
}

func (f faultyCredentials) GetActiveCredentialByHash(ctx context.Context, hash string) (domain.Credential, error) {
	if f.lookupErr != nil {
		return domain.Credential{}, f.lookupErr
	}
	return f.Credentials.GetActiveCredentialByHash(ctx, hash)
}

func (f faultyCredentials) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	return f.Credentials.TouchLastUsed(ctx, id, at)
}

type faultyStore struct {
	store.Store
	creds faultyCredentials
	txErr error
}

func (f faultyStore) Credentials() store.Credentials { return f.creds }

func (f faultyStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return f.Store.WithTx(ctx, fn)
}

/* -------------------------------------------------------------------------- */
/*                                 Validation                                 */
/* -------------------------------------------------------------------------- */

func TestValidate(t *testing.T) {
	s := newServices(t)
	key, _ := s.bootstrap(t)

	t.Run("missing", func(t *testing.T) {
		for _, in := range []string{"", "   "} {
			_, err := s.auth.Validate(t.Context(), in)
			require.ErrorIs(t, err, ErrMissingAPIKey)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := s.auth.Validate(t.Context(), "not-a-key")
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := s.auth.Validate(t.Context(), cryptox.MustGenerateAPIKey())
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("valid stamps last used", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		auth := &AuthService{Store: s.store, Now: func() time.Time { return at }}

		id, err := auth.Validate(t.Context(), "  "+key.Secret+"\n")
		require.NoError(t, err)
		require.Equal(t, key.Credential.ID, id.CredentialID)
		require.Equal(t, domain.RoleAdmin, id.Role)
		require.Equal(t, domain.LabelInitialAdmin, id.OwnerLabel)

		cred, err := s.store.Credentials().GetCredentialByID(t.Context(), key.Credential.ID)
		require.NoError(t, err)
		require.NotNil(t, cred.LastUsedAt)
		require.True(t, at.Equal(*cred.LastUsedAt))
	})
}

func TestValidate_RevokedKeyIsInvalid(t *testing.T) {
	s := newServices(t)
	_, admin := s.bootstrap(t)

	client, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
	require.NoError(t, err)
	_, err = s.auth.Validate(t.Context(), client.Secret)
	require.NoError(t, err)

	_, err = s.lifecycle.Revoke(t.Context(), admin, client.Credential.ID)
	require.NoError(t, err)

	_, err = s.auth.Validate(t.Context(), client.Secret)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestValidate_StoreUnavailable(t *testing.T) {
	s := newServices(t)
	key, _ := s.bootstrap(t)

	for _, cause := range []error{context.DeadlineExceeded, errors.New("disk I/O error")} {
		fs := faultyStore{Store: s.store, creds: faultyCredentials{Credentials: s.store.Credentials(), lookupErr: cause}}
		auth := &AuthService{Store: fs}

		_, err := auth.Validate(t.Context(), key.Secret)
		require.ErrorIs(t, err, ErrStoreUnavailable)
		require.NotErrorIs(t, err, ErrInvalidAPIKey)
	}
}

func TestValidate_TouchFailureIsIgnored(t *testing.T) {
	s := newServices(t)
	key, _ := s.bootstrap(t)

	fs := faultyStore{Store: s.store, creds: faultyCredentials{Credentials: s.store.Credentials(), touchErr: store.ErrNotFound}}
	auth := &AuthService{Store: fs}

	id, err := auth.Validate(t.Context(), key.Secret)
	require.NoError(t, err)
	require.Equal(t, key.Credential.ID, id.CredentialID)
}

/* -------------------------------------------------------------------------- */
/*                                  Lifecycle                                 */
/* -------------------------------------------------------------------------- */

func TestBootstrap(t *testing.T) {
	s := newServices(t)

	initialized, err := s.lifecycle.IsInitialized(t.Context())
	require.NoError(t, err)
	require.False(t, initialized)

	key, err := s.lifecycle.Bootstrap(t.Context())
	require.NoError(t, err)
	require.True(t, cryptox.LooksLikeAPIKey(key.Secret))
	require.Equal(t, domain.RoleAdmin, key.Credential.Role)
	require.Equal(t, domain.LabelInitialAdmin, key.Credential.OwnerLabel)
	require.True(t, key.Credential.Protected)
	require.True(t, key.Credential.Active)
	require.NotContains(t, key.Credential.SecretHash, key.Secret)

	initialized, err = s.lifecycle.IsInitialized(t.Context())
	require.NoError(t, err)
	require.True(t, initialized)

	_, err = s.lifecycle.Bootstrap(t.Context())
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	creds, err := s.store.Credentials().ListCredentials(t.Context())
	require.NoError(t, err)
	require.Len(t, creds, 1)
}

func TestBootstrap_Concurrent(t *testing.T) {
	s := newServices(t)

	const n = 8
	errs := make(chan error, n)
	for range n {
		go func() {
			_, err := s.lifecycle.Bootstrap(context.Background())
			errs <- err
		}()
	}

	succeeded := 0
	for range n {
		err := <-errs
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, ErrAlreadyInitialized)
	}
	require.Equal(t, 1, succeeded)

	counts, err := s.store.Credentials().CountCredentials(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Admins)
}

func TestBootstrap_StillRefusedWhenAllAdminsRevoked(t *testing.T) {
	s := newServices(t)
	key, admin := s.bootstrap(t)

	_, err := s.lifecycle.Revoke(t.Context(), admin, key.Credential.ID)
	require.NoError(t, err)

	_, err = s.lifecycle.Bootstrap(t.Context())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestReinitialize(t *testing.T) {
	s := newServices(t)

	t.Run("requires initialization", func(t *testing.T) {
		_, err := s.lifecycle.Reinitialize(t.Context())
		require.ErrorIs(t, err, ErrNotInitialized)

		creds, err := s.store.Credentials().ListCredentials(t.Context())
		require.NoError(t, err)
		require.Empty(t, creds)
	})

	initial, admin := s.bootstrap(t)
	second, err := s.lifecycle.Issue(t.Context(), admin, "second admin", domain.RoleAdmin)
	require.NoError(t, err)
	client, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
	require.NoError(t, err)

	fresh, err := s.lifecycle.Reinitialize(t.Context())
	require.NoError(t, err)
	require.Equal(t, domain.LabelReinitializedAdmin, fresh.Credential.OwnerLabel)
	require.True(t, fresh.Credential.Protected)

	for _, old := range []IssuedKey{initial, second} {
		_, err := s.auth.Validate(t.Context(), old.Secret)
		require.ErrorIs(t, err, ErrInvalidAPIKey)
	}

	id, err := s.auth.Validate(t.Context(), fresh.Secret)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, id.Role)

	// Client keys survive.
	_, err = s.auth.Validate(t.Context(), client.Secret)
	require.NoError(t, err)

	counts, err := s.store.Credentials().CountCredentials(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.ActiveAdmins)
	require.EqualValues(t, 3, counts.Admins)
}

func TestReinitialize_RollbackFailureIsInconsistent(t *testing.T) {
	s := newServices(t)
	s.bootstrap(t)

	cause := fmt.Errorf("%w: connection reset (after: insert failed)", store.ErrRollbackFailed)
	lc := &LifecycleService{Store: faultyStore{Store: s.store, creds: faultyCredentials{Credentials: s.store.Credentials()}, txErr: cause}}

	_, err := lc.Reinitialize(t.Context())
	require.ErrorIs(t, err, ErrLifecycleInconsistent)
}

func TestIssue(t *testing.T) {
	s := newServices(t)
	_, admin := s.bootstrap(t)

	t.Run("admin issues client key", func(t *testing.T) {
		key, err := s.lifecycle.Issue(t.Context(), admin, "  mobile app ", domain.RoleClient)
		require.NoError(t, err)
		require.Equal(t, "mobile app", key.Credential.OwnerLabel)
		require.False(t, key.Credential.Protected)

		id, err := s.auth.Validate(t.Context(), key.Secret)
		require.NoError(t, err)
		require.Equal(t, domain.RoleClient, id.Role)
	})

	t.Run("client is forbidden", func(t *testing.T) {
		key, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
		require.NoError(t, err)
		client, err := s.auth.Validate(t.Context(), key.Secret)
		require.NoError(t, err)

		_, err = s.lifecycle.Issue(t.Context(), client, "escalate", domain.RoleAdmin)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("invalid input", func(t *testing.T) {
		cases := []struct {
			label string
			role  domain.Role
		}{
			{"", domain.RoleClient},
			{"   ", domain.RoleClient},
			{strings.Repeat("x", 101), domain.RoleClient},
			{"ok", "superuser"},
			{"ok", ""},
		}
		for _, tc := range cases {
			_, err := s.lifecycle.Issue(t.Context(), admin, tc.label, tc.role)
			require.ErrorIs(t, err, ErrInvalidInput, "label=%q role=%q", tc.label, tc.role)
		}
	})
}

func TestRevokeOutcomes(t *testing.T) {
	s := newServices(t)
	_, admin := s.bootstrap(t)

	key, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
	require.NoError(t, err)

	outcome, err := s.lifecycle.Revoke(t.Context(), admin, key.Credential.ID)
	require.NoError(t, err)
	require.Equal(t, RevokeOutcomeRevoked, outcome)

	outcome, err = s.lifecycle.Revoke(t.Context(), admin, key.Credential.ID)
	require.NoError(t, err)
	require.Equal(t, RevokeOutcomeAlreadyRevoked, outcome)

	outcome, err = s.lifecycle.Revoke(t.Context(), admin, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.NoError(t, err)
	require.Equal(t, RevokeOutcomeNotFound, outcome)

	_, err = s.lifecycle.Revoke(t.Context(), domain.Identity{Role: domain.RoleClient}, key.Credential.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRevokeMalformedOrLowercaseID(t *testing.T) {
	s := newServices(t)
	_, admin := s.bootstrap(t)

	key, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
	require.NoError(t, err)

	outcome, err := s.lifecycle.Revoke(t.Context(), admin, "not-a-key-id")
	require.NoError(t, err)
	require.Equal(t, RevokeOutcomeNotFound, outcome)

	_, err = s.lifecycle.Revoke(t.Context(), admin, "  ")
	require.ErrorIs(t, err, ErrInvalidInput)

	outcome, err = s.lifecycle.Revoke(t.Context(), admin, strings.ToLower(key.Credential.ID))
	require.NoError(t, err)
	require.Equal(t, RevokeOutcomeRevoked, outcome)

	_, err = s.auth.Validate(t.Context(), key.Secret)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestRevokeOwnKey(t *testing.T) {
	s := newServices(t)
	key, admin := s.bootstrap(t)

	outcome, err := s.lifecycle.Revoke(t.Context(), admin, admin.CredentialID)
	require.NoError(t, err)
	require.Equal(t, RevokeOutcomeRevoked, outcome)

	_, err = s.auth.Validate(t.Context(), key.Secret)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestPurge(t *testing.T) {
	s := newServices(t)
	initial, admin := s.bootstrap(t)

	key, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
	require.NoError(t, err)

	require.ErrorIs(t, s.lifecycle.Purge(t.Context(), admin, initial.Credential.ID), ErrCredentialProtected)
	require.ErrorIs(t, s.lifecycle.Purge(t.Context(), admin, "missing"), ErrCredentialNotFound)
	require.ErrorIs(t, s.lifecycle.Purge(t.Context(), domain.Identity{Role: domain.RoleClient}, key.Credential.ID), ErrForbidden)

	require.NoError(t, s.lifecycle.Purge(t.Context(), admin, " "+strings.ToLower(key.Credential.ID)+" "))
	_, err = s.store.Credentials().GetCredentialByID(t.Context(), key.Credential.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestList(t *testing.T) {
	s := newServices(t)
	_, admin := s.bootstrap(t)

	_, err := s.lifecycle.Issue(t.Context(), admin, "ci", domain.RoleClient)
	require.NoError(t, err)

	creds, err := s.lifecycle.List(t.Context(), admin)
	require.NoError(t, err)
	require.Len(t, creds, 2)

	_, err = s.lifecycle.List(t.Context(), domain.Identity{Role: domain.RoleClient})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = s.lifecycle.List(t.Context(), domain.OperatorIdentity())
	require.NoError(t, err)
}

func TestSeedInitialKey(t *testing.T) {
	s := newServices(t)

	_, err := s.lifecycle.SeedInitialKey(t.Context(), "not-a-key")
	require.ErrorIs(t, err, ErrInvalidInput)

	secret := cryptox.MustGenerateAPIKey()
	created, err := s.lifecycle.SeedInitialKey(t.Context(), secret)
	require.NoError(t, err)
	require.True(t, created)

	id, err := s.auth.Validate(t.Context(), secret)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, id.Role)
	require.Equal(t, domain.LabelSeededAdmin, id.OwnerLabel)

	created, err = s.lifecycle.SeedInitialKey(t.Context(), cryptox.MustGenerateAPIKey())
	require.NoError(t, err)
	require.False(t, created)

	_, err = s.lifecycle.Bootstrap(t.Context())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

/* -------------------------------------------------------------------------- */
/*                                    Audit                                   */
/* -------------------------------------------------------------------------- */

func TestAudit(t *testing.T) {
	s := newServices(t)
	audit := NewAuditService(s.store, discardLogger(), 0)
	require.Equal(t, time.Hour, audit.Interval)

	counts, err := audit.Audit(t.Context())
	require.NoError(t, err)
	require.Zero(t, counts.Admins)

	key, admin := s.bootstrap(t)
	_, err = s.lifecycle.Revoke(t.Context(), admin, key.Credential.ID)
	require.NoError(t, err)

	counts, err = audit.Audit(t.Context())
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Admins)
	require.Zero(t, counts.ActiveAdmins)

	// Auditing never repairs state.
	_, err = s.auth.Validate(t.Context(), key.Secret)
	require.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestAudit_StartStop(t *testing.T) {
	s := newServices(t)
	audit := NewAuditService(s.store, discardLogger(), time.Millisecond)
	audit.Start()
	time.Sleep(5 * time.Millisecond)
	audit.Stop()
}
