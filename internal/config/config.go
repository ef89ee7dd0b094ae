package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":3000"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Remote API
	APIBaseURL       string        // ex: https://api.linkstart.example
	LoginEndpoint    string        // ex: /auth/login
	RegisterEndpoint string        // ex: /auth/register
	RefreshEndpoint  string        // ex: /auth/refresh
	MeEndpoint       string        // ex: /auth/me
	PingEndpoint     string        // ex: /ping
	RequestTimeout   time.Duration // timeout for API calls (default: 10s)
	PingTimeout      time.Duration // timeout for reachability probes (default: 5s)

	// Credential store
	StoreBackend string // "file" | "redis"
	StoreFile    string // path to the session file (file backend)

	SeedFile        string        // path to a YAML seed file of service drafts (optional, empty = disabled)
	RefreshInterval time.Duration // interval to re-fetch the collection (0 = manual refresh only)

	// Redis (only read when StoreBackend == "redis")
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // Redis dial timeout
	RedisRT             time.Duration // Redis read timeout
	RedisWT             time.Duration // Redis write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time to retry connecting
	RedisRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, restrict dashboard access to specific Host headers
	AllowedCIDRS []string // optional, restrict dashboard access to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	// Login/register form rate limiting
	LoginBurst        int
	LoginRefillPerMin int
}

func Load() *Config {
	// Best effort, same as the original stack: a missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKSTART_LISTEN_PORT", ":3000"),
		ShutdownTimeout: mustDuration("LINKSTART_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKSTART_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKSTART_PRETTY_LOG", true),

		// Remote API
		APIBaseURL:       requireEnv("LINKSTART_API_BASE_URL"),
		LoginEndpoint:    getenv("LINKSTART_AUTH_LOGIN_ENDPOINT", "/auth/login"),
		RegisterEndpoint: getenv("LINKSTART_AUTH_REGISTER_ENDPOINT", "/auth/register"),
		RefreshEndpoint:  getenv("LINKSTART_AUTH_REFRESH_ENDPOINT", "/auth/refresh"),
		MeEndpoint:       getenv("LINKSTART_AUTH_ME_ENDPOINT", "/auth/me"),
		PingEndpoint:     getenv("LINKSTART_PING_ENDPOINT", "/ping"),
		RequestTimeout:   mustDuration("LINKSTART_REQUEST_TIMEOUT", 10*time.Second),
		PingTimeout:      mustDuration("LINKSTART_PING_TIMEOUT", 5*time.Second),

		// Credential store
		StoreBackend: getenv("LINKSTART_STORE_BACKEND", "file"),
		StoreFile:    getenv("LINKSTART_STORE_FILE", defaultStoreFile()),

		SeedFile:        getenv("LINKSTART_SEED_FILE", ""), // Optional, empty = seed import disabled
		RefreshInterval: mustDuration("LINKSTART_REFRESH_INTERVAL", 0),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LINKSTART_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("LINKSTART_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKSTART_TRUST_PROXY", false),

		// Rate limiting for credential forms
		LoginBurst:        getenvInt("LINKSTART_LOGIN_BURST", 5),
		LoginRefillPerMin: getenvInt("LINKSTART_LOGIN_REFILL_PER_MIN", 10),
	}

	switch cfg.StoreBackend {
	case "file":
		// nothing more to read
	case "redis":
		cfg.RedisAddr = requireEnv("LINKSTART_REDIS_ADDR")
		cfg.RedisUser = getenv("LINKSTART_REDIS_USERNAME", "default")
		cfg.RedisPassword = getenv("LINKSTART_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("LINKSTART_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown LINKSTART_STORE_BACKEND %q (want \"file\" or \"redis\")", cfg.StoreBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// defaultStoreFile resolves the session file under the user config dir,
// falling back to the working directory when the home cannot be resolved.
func defaultStoreFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "linkstart-session.json"
	}
	return filepath.Join(dir, "linkstart", "session.json")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
