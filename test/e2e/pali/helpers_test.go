package pali_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/pali/internal/pali/app"
	"github.com/aussiebroadwan/pali/pkg/palisdk"
)

/*
 * End-to-end tests run the complete server (config, postgres store,
 * migrations, router) and talk to it only through the SDK.
 */

const recoveryToken = "e2e-recovery-token"

// startPostgres runs a throwaway PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "pali",
			"POSTGRES_PASSWORD": "pali",
			"POSTGRES_DB":       "pali",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://pali:pali@%s:%s/pali?sslmode=disable", host, port.Port())
}

// setupServer starts pali against a fresh postgres database and returns an
// SDK client without an API key.
func setupServer(t *testing.T) *palisdk.Client {
	t.Helper()

	dir := t.TempDir()
	cfg := app.Config{
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 5 * time.Second,
		AuditInterval:       time.Hour,
		Database:            app.DatabaseConfig{Driver: app.DriverPostgres, DSN: startPostgres(t)},
		PepperFile:          filepath.Join(dir, "pepper"),
		RecoveryToken:       recoveryToken,
		CORSOrigins:         []string{"*"},
	}

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		if err := application.Shutdown(); err != nil {
			t.Logf("shutdown: %v", err)
		}
	})

	c := palisdk.NewClient(srv.URL, "")
	c.RecoveryToken = recoveryToken
	return c
}

// initialize mints the first admin key and returns a client using it.
func initialize(t *testing.T, c *palisdk.Client) (*palisdk.KeyResponse, *palisdk.Client) {
	t.Helper()
	key, err := c.Initialize(t.Context())
	require.NoError(t, err, "initialize should succeed")
	require.Equal(t, palisdk.KeyTypeAdmin, key.KeyType)
	require.NotEmpty(t, key.APIKey)
	return key, c.WithAPIKey(key.APIKey)
}

func assertStatus(t *testing.T, err error, code int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, palisdk.IsStatus(err, code), "%s: expected %d, got %v", context, code, err)
}
