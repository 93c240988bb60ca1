package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/deskbridge/internal/config"
	"github.com/agentstation/deskbridge/pkg/constants"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
// Credentials are not kept here; they are read when a sync needs them.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Remote endpoints
	GitHubAPIURL       string
	FreshdeskSubdomain string
	FreshdeskHost      string
	FreshdeskBaseURL   string
	HTTPTimeout        time.Duration

	// Snapshot store; empty disables it
	SnapshotDSN string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// settings bound to the environment so viper sees them even when they come
// from a .env file loaded after start-up.
var envKeys = []string{
	"GITHUB_TOKEN",
	"GITHUB_API_URL",
	"FRESHDESK_TOKEN",
	"FRESHDESK_SUBDOMAIN",
	"FRESHDESK_HOST",
	"FRESHDESK_BASE_URL",
	"SNAPSHOT_DSN",
	"HTTP_TIMEOUT",
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.deskbridge.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindEnvKeys()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".deskbridge")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		GitHubAPIURL:       config.GetString("GITHUB_API_URL"),
		FreshdeskSubdomain: config.GetString("FRESHDESK_SUBDOMAIN"),
		FreshdeskHost:      config.GetString("FRESHDESK_HOST"),
		FreshdeskBaseURL:   config.GetString("FRESHDESK_BASE_URL"),
		HTTPTimeout:        config.GetDuration("HTTP_TIMEOUT", constants.DefaultHTTPTimeout),

		SnapshotDSN: config.GetString("SNAPSHOT_DSN"),

		// An empty level lets -v/-q decide, see determineLogLevel
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if cfg.GitHubAPIURL == "" {
		cfg.GitHubAPIURL = constants.DefaultGitHubAPIURL
	}
	if cfg.FreshdeskHost == "" {
		cfg.FreshdeskHost = constants.DefaultFreshdeskHost
	}

	return cfg, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the process environment are never overwritten,
// and .env is read before .env.local.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

func bindEnvKeys() {
	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
