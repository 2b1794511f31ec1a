// Package config reads the service settings from the environment.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the service settings.
type Config struct {
	Port              string
	DatabaseURL       string
	MigrationsPath    string
	PagesFile         string
	ValidationTimeout time.Duration
	CurrencyEndpoint  string
	FormEndpoint      string
	LogLevel          string

	ABNLookupURL      string
	ABNLookupGUID     string
	ABNLookupCallback string
	RuleServers       RuleServers
}

// RuleServers holds the decision server settings used by the /form route.
type RuleServers struct {
	FirstNameURL string
	LastNameURL  string
	ABNURL       string
	Username     string
	Password     string
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:             getenv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		MigrationsPath:   getenv("MIGRATIONS_PATH", "migrations"),
		PagesFile:        os.Getenv("PAGES_FILE"),
		CurrencyEndpoint: os.Getenv("CURRENCY_VALIDATION_URL"),
		FormEndpoint:     os.Getenv("FORM_VALIDATION_URL"),
		LogLevel:         getenv("LOG_LEVEL", "info"),

		ABNLookupURL:      os.Getenv("ABN_LOOKUP_URL"),
		ABNLookupCallback: os.Getenv("ABN_LOOKUP_CALLBACK"),
		RuleServers: RuleServers{
			FirstNameURL: os.Getenv("RULES_FIRST_NAME_URL"),
			LastNameURL:  os.Getenv("RULES_LAST_NAME_URL"),
			ABNURL:       os.Getenv("RULES_ABN_URL"),
			Username:     os.Getenv("RULES_USERNAME"),
			Password:     os.Getenv("RULES_PASSWORD"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL not set")
	}

	timeout, err := time.ParseDuration(getenv("VALIDATION_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("config: VALIDATION_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config: VALIDATION_TIMEOUT must be positive")
	}
	cfg.ValidationTimeout = timeout

	guid, err := decodeGUID(os.Getenv("ABN_LOOKUP_GUID"))
	if err != nil {
		return Config{}, fmt.Errorf("config: ABN_LOOKUP_GUID: %w", err)
	}
	cfg.ABNLookupGUID = guid

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// decodeGUID accepts the register GUID either plain or as "base64:<encoded>".
func decodeGUID(v string) (string, error) {
	encoded, ok := strings.CutPrefix(v, "base64:")
	if !ok {
		return v, nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
