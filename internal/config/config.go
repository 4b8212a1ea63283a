// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes the HTTP server,
// logging, bot identity, admin set, backing store and observability settings.
// Everything here is read once at start-up and never mutated.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-access-bot")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// BotConfig holds the Telegram-facing settings.
type BotConfig struct {
	Token            string        // BOT_TOKEN
	AdminIDs         []int64       // ADMIN_IDS
	MiniAppURL       string        // MINI_APP_URL
	SupportURL       string        // SUPPORT_URL
	WebhookSecret    string        // WEBHOOK_SECRET; empty disables the webhook (404)
	InteractionToken string        // INTERACTIONS_TOKEN; empty disables the interaction API
	WebAppAuthMaxAge time.Duration // WEBAPP_AUTH_MAX_AGE
	DefaultLocale    string        // DEFAULT_LOCALE
}

// StoreConfig holds the backing-store settings.
type StoreConfig struct {
	DBPath        string        // DB_PATH; empty means unconfigured
	Timeout       time.Duration // STORE_TIMEOUT
	ListPageSize  int           // LIST_PAGE_SIZE
	UpdateTTL     time.Duration // UPDATE_TTL
	PurgeSchedule string        // UPDATE_PURGE_SCHEDULE (cron spec)
}

// Configured reports whether a database path was given.
func (s StoreConfig) Configured() bool { return strings.TrimSpace(s.DBPath) != "" }

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	Bot   BotConfig
	Store StoreConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	admins, err := parseIDs(getenv("ADMIN_IDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		Bot: BotConfig{
			Token:            strings.TrimSpace(getenv("BOT_TOKEN", "")),
			AdminIDs:         admins,
			MiniAppURL:       getenv("MINI_APP_URL", "https://t.me/ai_trade_bot/app"),
			SupportURL:       getenv("SUPPORT_URL", "https://t.me/ai_trade_support"),
			WebhookSecret:    getenv("WEBHOOK_SECRET", ""),
			InteractionToken: getenv("INTERACTIONS_TOKEN", ""),
			WebAppAuthMaxAge: getdur("WEBAPP_AUTH_MAX_AGE", 24*time.Hour),
			DefaultLocale:    strings.ToLower(getenv("DEFAULT_LOCALE", "en")),
		},
		Store: StoreConfig{
			DBPath:        strings.TrimSpace(getenv("DB_PATH", "")),
			Timeout:       getdur("STORE_TIMEOUT", 5*time.Second),
			ListPageSize:  getint("LIST_PAGE_SIZE", 20),
			UpdateTTL:     getdur("UPDATE_TTL", 24*time.Hour),
			PurgeSchedule: getenv("UPDATE_PURGE_SCHEDULE", "@hourly"),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-access-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if u, err := url.Parse(cfg.Bot.MiniAppURL); err != nil || u.Scheme != "https" || u.Host == "" {
		return cfg, errors.New("MINI_APP_URL must be an absolute https URL")
	}
	if cfg.Bot.SupportURL != "" {
		if u, err := url.Parse(cfg.Bot.SupportURL); err != nil || u.Host == "" {
			return cfg, errors.New("SUPPORT_URL must be an absolute URL")
		}
	}
	if cfg.Bot.WebAppAuthMaxAge < 0 {
		return cfg, errors.New("WEBAPP_AUTH_MAX_AGE must be >= 0")
	}
	if _, err := language.Parse(cfg.Bot.DefaultLocale); err != nil {
		return cfg, fmt.Errorf("DEFAULT_LOCALE: %w", err)
	}
	if cfg.Store.Timeout <= 0 {
		return cfg, errors.New("STORE_TIMEOUT must be > 0")
	}
	if cfg.Store.ListPageSize < 1 {
		return cfg, errors.New("LIST_PAGE_SIZE must be >= 1")
	}
	if cfg.Store.UpdateTTL <= 0 {
		return cfg, errors.New("UPDATE_TTL must be > 0")
	}
	if _, err := cron.ParseStandard(cfg.Store.PurgeSchedule); err != nil {
		return cfg, fmt.Errorf("UPDATE_PURGE_SCHEDULE: %w", err)
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}

// parseIDs parses a comma-separated list of positive identifiers.
func parseIDs(s string) ([]int64, error) {
	parts := splitCSV(s)
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid identifier %q", p)
		}
		out = append(out, id)
	}
	return out, nil
}
