package app

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/pali/pkg/httpx"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(newViper())
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.AuditInterval)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "pali.db", cfg.Database.File)
	require.Equal(t, "pepper", cfg.PepperFile)
	require.Empty(t, cfg.InitialAdminKey)
	require.Empty(t, cfg.RecoveryToken)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, httpx.DefaultLimits(), cfg.RateLimits)
	require.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PALI_PORT", "9090")
	t.Setenv("PALI_DATABASE_DRIVER", "Postgres")
	t.Setenv("PALI_DATABASE_DSN", "postgres://pali@localhost/pali")
	t.Setenv("PALI_AUDIT_INTERVAL", "15")
	t.Setenv("PALI_RECOVERY_TOKEN", "break-glass")
	t.Setenv("PALI_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("PALI_RATE_LIMIT_STRICT_REQUESTS", "10")
	t.Setenv("PALI_RATE_LIMIT_STRICT_WINDOW", "30")
	t.Setenv("PALI_RATE_LIMIT_STRICT_BURST", "12")
	t.Setenv("PALI_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1")

	cfg, err := LoadConfig(newViper())
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, DriverPostgres, cfg.Database.Driver)
	require.Equal(t, "postgres://pali@localhost/pali", cfg.Database.DSN)
	require.Equal(t, 15*time.Minute, cfg.AuditInterval)
	require.Equal(t, "break-glass", cfg.RecoveryToken)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, httpx.Limit{Requests: 10, Window: 30 * time.Second, Burst: 12}, cfg.RateLimits.Strict)
	require.Equal(t, httpx.DefaultLimits().Moderate, cfg.RateLimits.Moderate)
	require.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
	}, cfg.TrustedProxies)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pali.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_format: text
shutdown_grace_period: 30s
database:
  file: /var/lib/pali/pali.db
cors_origins:
  - https://todo.example
trusted_proxies:
  - 172.16.0.0/12
rate_limit:
  lenient:
    requests: 300
    window: 2m
    burst: 50
`), 0o600))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, "text", cfg.LogFormat)
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, "/var/lib/pali/pali.db", cfg.Database.File)
	require.Equal(t, []string{"https://todo.example"}, cfg.CORSOrigins)
	require.Equal(t, []netip.Prefix{netip.MustParsePrefix("172.16.0.0/12")}, cfg.TrustedProxies)
	require.Equal(t, httpx.Limit{Requests: 300, Window: 2 * time.Minute, Burst: 50}, cfg.RateLimits.Lenient)
	require.Equal(t, httpx.DefaultLimits().Strict, cfg.RateLimits.Strict)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":    {"PALI_DATABASE_DRIVER": "mysql"},
		"postgres no dsn":   {"PALI_DATABASE_DRIVER": "postgres"},
		"bad duration":      {"PALI_SHUTDOWN_GRACE_PERIOD": "soon"},
		"port out of range": {"PALI_PORT": "70000"},
		"zero burst":        {"PALI_RATE_LIMIT_PUBLIC_BURST": "0"},
		"negative requests": {"PALI_RATE_LIMIT_STRICT_REQUESTS": "-1"},
		"bad window":        {"PALI_RATE_LIMIT_MODERATE_WINDOW": "often"},
		"bad proxy":         {"PALI_TRUSTED_PROXIES": "proxy.internal"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(newViper())
			require.Error(t, err)
		})
	}
}
