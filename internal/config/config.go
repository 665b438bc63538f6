// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AuthMode selects which Auth Gate strategy protects the pages.
type AuthMode string

const (
	// AuthModeToken verifies a signed access-token cookie.
	AuthModeToken AuthMode = "token"
	// AuthModeUsername admits requests whose username cookie equals the
	// configured principal.
	AuthModeUsername AuthMode = "username"
)

// ErrMissingSecret is returned when no token signing secret is configured.
var ErrMissingSecret = errors.New("token signing secret not configured: set CONTACTS_JWT_SECRET")

// Config holds the application configuration loaded from environment variables.
type Config struct {
	JWTSecret          string
	AuthMode           AuthMode
	Username           string
	Password           string
	ListenAddr         string
	DBPath             string
	StrictDBInit       bool
	CookieSecure       bool
	LoginPath          string
	LoginFailureStatus int
}

// Load reads configuration from environment variables and returns a validated Config.
// A dotenv file (CONTACTS_ENV_FILE, default .env) is read first when present;
// variables already set in the environment win over the file.
//
// CONTACTS_JWT_SECRET is required (JWT_SECRET is accepted as a fallback).
// Optional variables with defaults: CONTACTS_AUTH_MODE (token),
// CONTACTS_USERNAME / CONTACTS_PASSWORD (demo / demo),
// CONTACTS_LISTEN_ADDR (127.0.0.1:3000), CONTACTS_DB_PATH (contacts.sqlite),
// CONTACTS_DB_STRICT_INIT (false), CONTACTS_COOKIE_SECURE (true),
// CONTACTS_LOGIN_PATH (/accounts/login), CONTACTS_LOGIN_FAILURE_STATUS (200).
func Load() (*Config, error) {
	if err := LoadEnvFile(envOr("CONTACTS_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	secret := os.Getenv("CONTACTS_JWT_SECRET")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, ErrMissingSecret
	}

	mode := AuthMode(envOr("CONTACTS_AUTH_MODE", string(AuthModeToken)))
	switch mode {
	case AuthModeToken, AuthModeUsername:
	default:
		return nil, fmt.Errorf("CONTACTS_AUTH_MODE has invalid value %q: want %q or %q", mode, AuthModeToken, AuthModeUsername)
	}

	strictInit, err := envBool("CONTACTS_DB_STRICT_INIT", false)
	if err != nil {
		return nil, err
	}

	cookieSecure, err := envBool("CONTACTS_COOKIE_SECURE", true)
	if err != nil {
		return nil, err
	}

	failureStatus := http.StatusOK
	if v, ok := os.LookupEnv("CONTACTS_LOGIN_FAILURE_STATUS"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || (parsed != http.StatusOK && parsed != http.StatusUnauthorized) {
			return nil, fmt.Errorf("CONTACTS_LOGIN_FAILURE_STATUS has invalid value %q: want 200 or 401", v)
		}
		failureStatus = parsed
	}

	username := envOr("CONTACTS_USERNAME", "demo")
	if username == "" {
		return nil, errors.New("CONTACTS_USERNAME must not be empty")
	}

	loginPath := envOr("CONTACTS_LOGIN_PATH", "/accounts/login")
	if !strings.HasPrefix(loginPath, "/") || loginPath == "/" || strings.ContainsAny(loginPath, " {}") {
		return nil, fmt.Errorf("CONTACTS_LOGIN_PATH has invalid value %q: want an absolute path other than /", loginPath)
	}

	return &Config{
		JWTSecret:          secret,
		AuthMode:           mode,
		Username:           username,
		Password:           envOr("CONTACTS_PASSWORD", "demo"),
		ListenAddr:         envOr("CONTACTS_LISTEN_ADDR", "127.0.0.1:3000"),
		DBPath:             envOr("CONTACTS_DB_PATH", "contacts.sqlite"),
		StrictDBInit:       strictInit,
		CookieSecure:       cookieSecure,
		LoginPath:          loginPath,
		LoginFailureStatus: failureStatus,
	}, nil
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment without overriding ones already set. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return parsed, nil
}
