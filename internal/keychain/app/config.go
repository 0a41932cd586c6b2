package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/keychain/pkg/jwtx"
)

type Config struct {
	Issuer string // Required: issuer claim for tokens

	Algorithm string // Optional: JWT signing algorithm (HS256, EdDSA) (default: EdDSA)
	KeyMode   string // Optional: key source (ephemeral, env) (default: ephemeral)

	// Per-purpose HMAC secrets, only read in env key mode with HS256.
	AccessSecret  string
	RefreshSecret string
	ResetSecret   string

	// Per-purpose Ed25519 private key files (PKCS8 PEM), only read in
	// env key mode with EdDSA.
	AccessKeyFile  string
	RefreshKeyFile string
	ResetKeyFile   string

	AccessTTL     time.Duration // Access token lifetime (default: 15m)
	RefreshTTL    time.Duration // Refresh token lifetime (default: 168h)
	ResetTTL      time.Duration // Reset token lifetime (default: 30m)
	EnableRefresh bool          // Whether refresh tokens are issued at all (default: true)

	DatabaseFile        string        // Path to SQLite database file (default: ./keychain.db)
	PepperFile          string        // Path to pepper file for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("KEYCHAIN_ISSUER", "keychain"),
		Algorithm: getEnvOrDefault("KEYCHAIN_ALGORITHM", "EdDSA"),
		KeyMode:   getEnvOrDefault("KEYCHAIN_KEY_MODE", "ephemeral"),

		AccessSecret:  os.Getenv("KEYCHAIN_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("KEYCHAIN_REFRESH_SECRET"),
		ResetSecret:   os.Getenv("KEYCHAIN_RESET_SECRET"),

		AccessKeyFile:  os.Getenv("KEYCHAIN_ACCESS_KEY_FILE"),
		RefreshKeyFile: os.Getenv("KEYCHAIN_REFRESH_KEY_FILE"),
		ResetKeyFile:   os.Getenv("KEYCHAIN_RESET_KEY_FILE"),

		AccessTTL:     getEnvDurationOrDefault("KEYCHAIN_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:    getEnvDurationOrDefault("KEYCHAIN_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		ResetTTL:      getEnvDurationOrDefault("KEYCHAIN_RESET_TTL", jwtx.DefaultResetTokenTTL),
		EnableRefresh: getEnvBoolOrDefault("KEYCHAIN_ENABLE_REFRESH", true),

		DatabaseFile:        getEnvOrDefault("KEYCHAIN_DATABASE_FILE", "keychain.db"),
		PepperFile:          getEnvOrDefault("KEYCHAIN_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
