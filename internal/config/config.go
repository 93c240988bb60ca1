// Package config reads settings that may come from the environment, .env
// files or the config file, all of which are merged by viper.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/agentstation/deskbridge/pkg/errors"
)

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return strings.TrimSpace(osValue)
	}
	return strings.TrimSpace(viperValue)
}

// Require returns the value for key or a ConfigError naming the missing key.
func Require(key string) (string, error) {
	value := GetString(key)
	if value == "" {
		return "", errors.NewMissingEnvError(key)
	}
	return value, nil
}

// GetDuration returns a duration setting, or fallback when it is unset or
// does not parse.
func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := GetString(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
