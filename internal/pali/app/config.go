package app

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/aussiebroadwan/pali/pkg/httpx"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DatabaseConfig struct {
	Driver string // sqlite or postgres (default: sqlite)
	File   string // SQLite database file (default: ./pali.db)
	DSN    string // PostgreSQL connection string, required for postgres
}

type Config struct {
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	AuditInterval       time.Duration // Credential audit interval (default: 1h)

	Database   DatabaseConfig
	PepperFile string // File holding the pepper for key hashing (default: ./pepper)

	InitialAdminKey string   // Optional: admin secret seeded on first start
	RecoveryToken   string   // Optional: required on /initialize and /reinitialize when set
	CORSOrigins     []string // Allowed origins (default: *)

	RateLimits     httpx.Limits   // Per-client limits by route class (default: httpx.DefaultLimits)
	TrustedProxies []netip.Prefix // Peers allowed to set X-Forwarded-For (default: none)
}

// rateLimitProfiles maps config section names onto Limits fields.
var rateLimitProfiles = []struct {
	name string
	pick func(*httpx.Limits) *httpx.Limit
}{
	{"strict", func(ls *httpx.Limits) *httpx.Limit { return &ls.Strict }},
	{"moderate", func(ls *httpx.Limits) *httpx.Limit { return &ls.Moderate }},
	{"lenient", func(ls *httpx.Limits) *httpx.Limit { return &ls.Lenient }},
	{"public", func(ls *httpx.Limits) *httpx.Limit { return &ls.Public }},
}

// SetDefaults registers every configuration key with its default so that
// environment variables are picked up even without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("port", 8080)
	v.SetDefault("shutdown_grace_period", "10s")
	v.SetDefault("audit_interval", "1h")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.file", "pali.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("pepper_file", "pepper")
	v.SetDefault("initial_admin_key", "")
	v.SetDefault("recovery_token", "")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("trusted_proxies", []string{})

	defaults := httpx.DefaultLimits()
	for _, p := range rateLimitProfiles {
		l := p.pick(&defaults)
		key := "rate_limit." + p.name
		v.SetDefault(key+".requests", l.Requests)
		v.SetDefault(key+".window", l.Window.String())
		v.SetDefault(key+".burst", l.Burst)
	}
}

// BindEnv makes PALI_<KEY> override any key, with dots replaced by
// underscores (PALI_DATABASE_DRIVER for database.driver).
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PALI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadConfig reads the configuration from v. Callers are expected to have
// applied SetDefaults and BindEnv, and optionally read a config file.
func LoadConfig(v *viper.Viper) (Config, error) {
	shutdown, err := parseDuration(v.GetString("shutdown_grace_period"))
	if err != nil {
		return Config{}, fmt.Errorf("shutdown_grace_period: %w", err)
	}
	audit, err := parseDuration(v.GetString("audit_interval"))
	if err != nil {
		return Config{}, fmt.Errorf("audit_interval: %w", err)
	}
	limits, err := loadRateLimits(v)
	if err != nil {
		return Config{}, err
	}
	proxies, err := httpx.ParseTrustedProxies(stringList(v.GetStringSlice("trusted_proxies")))
	if err != nil {
		return Config{}, fmt.Errorf("trusted_proxies: %w", err)
	}

	cfg := Config{
		Env:                 v.GetString("env"),
		LogLevel:            v.GetString("log_level"),
		LogFormat:           v.GetString("log_format"),
		Port:                v.GetInt("port"),
		ShutdownGracePeriod: shutdown,
		AuditInterval:       audit,
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			File:   v.GetString("database.file"),
			DSN:    v.GetString("database.dsn"),
		},
		PepperFile:      v.GetString("pepper_file"),
		InitialAdminKey: v.GetString("initial_admin_key"),
		RecoveryToken:   v.GetString("recovery_token"),
		CORSOrigins:     stringList(v.GetStringSlice("cors_origins")),
		RateLimits:      limits,
		TrustedProxies:  proxies,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.File == "" {
			return errors.New("database.file is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if err := c.RateLimits.Validate(); err != nil {
		return fmt.Errorf("rate_limit.%w", err)
	}
	return nil
}

func loadRateLimits(v *viper.Viper) (httpx.Limits, error) {
	var ls httpx.Limits
	for _, p := range rateLimitProfiles {
		key := "rate_limit." + p.name
		window, err := parseSeconds(v.GetString(key + ".window"))
		if err != nil {
			return httpx.Limits{}, fmt.Errorf("%s.window: %w", key, err)
		}
		*p.pick(&ls) = httpx.Limit{
			Requests: v.GetInt(key + ".requests"),
			Window:   window,
			Burst:    v.GetInt(key + ".burst"),
		}
	}
	return ls, nil
}

// parseDuration accepts Go duration syntax ("90s", "1h") or a bare integer
// number of minutes.
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if minutes, err := strconv.Atoi(s); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

// parseSeconds accepts Go duration syntax or a bare integer number of seconds.
func parseSeconds(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

// stringList splits comma separated entries, which is how lists arrive from
// environment variables.
func stringList(in []string) []string {
	var out []string
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
