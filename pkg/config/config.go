package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/santorres/salesforce-fastmcp/pkg/salesforce"
)

// Config holds the connection parameters for the Salesforce org and the
// local server. All values come from the environment; a .env file is probed
// for convenience in development.
type Config struct {
	BaseURL     string
	AccessToken string
	Port        string
}

// Load reads configuration from the environment. Missing connection
// parameters are fatal at startup and never retried.
func Load() (*Config, error) {
	// Probe common locations so the server works from the repo root or a
	// package directory.
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg := &Config{
		BaseURL:     os.Getenv("SALESFORCE_BASE_URL"),
		AccessToken: os.Getenv("SALESFORCE_ACCESS_TOKEN"),
		Port:        os.Getenv("PORT"),
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = os.Getenv("SALESFORCE_SID")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.BaseURL == "" || cfg.AccessToken == "" {
		return nil, &salesforce.ConfigError{
			Message: "missing required environment variables: SALESFORCE_BASE_URL and SALESFORCE_ACCESS_TOKEN (or SALESFORCE_SID)",
		}
	}
	return cfg, nil
}
