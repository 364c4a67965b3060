package palisdk_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	palihttp "github.com/aussiebroadwan/pali/internal/pali/http"
	"github.com/aussiebroadwan/pali/internal/pali/service"
	"github.com/aussiebroadwan/pali/internal/pali/store/drivers/sqlite"
	"github.com/aussiebroadwan/pali/pkg/cryptox"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "palisdk-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newServer runs the full router over an in-memory store.
func newServer(t *testing.T, recoveryToken string) *palisdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	router := palihttp.NewRouter("sdk-test", st, slog.New(slog.DiscardHandler), palihttp.RouterConfig{CORSOrigins: []string{"*"}})
	router.AuthService = &service.AuthService{Store: st}
	router.LifecycleService = &service.LifecycleService{Store: st}
	router.TodoService = &service.TodoService{Store: st}
	router.RecoveryToken = recoveryToken
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c := palisdk.NewClient(srv.URL+"/", "")
	c.RecoveryToken = recoveryToken
	return c
}

func TestClient_Health(t *testing.T) {
	c := newServer(t, "")

	body, err := c.Health(t.Context())
	require.NoError(t, err)
	require.Equal(t, "OK", body)

	live, err := c.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "sdk-test", live.Version)

	ready, err := c.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestClient_Lifecycle(t *testing.T) {
	c := newServer(t, "recover-me")

	_, err := c.Reinitialize(t.Context())
	require.True(t, palisdk.IsStatus(err, http.StatusBadRequest), "got %v", err)

	first, err := c.Initialize(t.Context())
	require.NoError(t, err)
	require.Equal(t, palisdk.KeyTypeAdmin, first.KeyType)

	_, err = c.Initialize(t.Context())
	require.True(t, palisdk.IsConflict(err), "got %v", err)

	wrong := *c
	wrong.RecoveryToken = "guess"
	_, err = wrong.Reinitialize(t.Context())
	require.True(t, palisdk.IsUnauthorized(err), "got %v", err)

	second, err := c.Reinitialize(t.Context())
	require.NoError(t, err)

	_, err = c.WithAPIKey(first.APIKey).ListKeys(t.Context())
	require.True(t, palisdk.IsUnauthorized(err), "got %v", err)

	keys, err := c.WithAPIKey(second.APIKey).ListKeys(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 2)
}

func TestClient_Keys(t *testing.T) {
	c := newServer(t, "")
	admin, err := c.Initialize(t.Context())
	require.NoError(t, err)
	ac := c.WithAPIKey(admin.APIKey)

	client, err := ac.GenerateKey(t.Context(), palisdk.CreateKeyRequest{ClientName: "cli", KeyType: palisdk.KeyTypeClient})
	require.NoError(t, err)
	require.NotEmpty(t, client.APIKey)

	_, err = c.WithAPIKey(client.APIKey).ListKeys(t.Context())
	require.True(t, palisdk.IsForbidden(err), "got %v", err)

	var apiErr *palisdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Admin privileges required", apiErr.Message)

	out, err := ac.RevokeKey(t.Context(), client.ID)
	require.NoError(t, err)
	require.Equal(t, "revoked", out.Outcome)

	require.NoError(t, ac.PurgeKey(t.Context(), client.ID))
	err = ac.PurgeKey(t.Context(), client.ID)
	require.True(t, palisdk.IsNotFound(err), "got %v", err)

	err = ac.PurgeKey(t.Context(), admin.ID)
	require.True(t, palisdk.IsConflict(err), "got %v", err)
}

func TestClient_Todos(t *testing.T) {
	c := newServer(t, "")
	admin, err := c.Initialize(t.Context())
	require.NoError(t, err)
	tc := c.WithAPIKey(admin.APIKey)

	_, err = c.ListTodos(t.Context(), nil)
	require.True(t, palisdk.IsUnauthorized(err), "got %v", err)

	todo, err := tc.CreateTodo(t.Context(), palisdk.CreateTodoRequest{Title: "Water plants"})
	require.NoError(t, err)

	full, err := tc.ResolveTodoID(t.Context(), todo.ID[:6])
	require.NoError(t, err)
	require.Equal(t, todo.ID, full)

	toggled, err := tc.ToggleTodo(t.Context(), todo.ID)
	require.NoError(t, err)
	require.True(t, toggled.Completed)

	open := false
	pending, err := tc.ListTodos(t.Context(), &open)
	require.NoError(t, err)
	require.Empty(t, pending)

	priority := 4
	updated, err := tc.UpdateTodo(t.Context(), todo.ID, palisdk.UpdateTodoRequest{Priority: &priority})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Priority)

	found, err := tc.SearchTodos(t.Context(), "plants")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, tc.DeleteTodo(t.Context(), todo.ID))
	_, err = tc.GetTodo(t.Context(), todo.ID)
	require.True(t, palisdk.IsNotFound(err), "got %v", err)
}

func TestAPIError_NonEnvelopeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := palisdk.NewClient(srv.URL, "k").ListTodos(t.Context(), nil)
	var apiErr *palisdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "upstream exploded", apiErr.Message)
}
