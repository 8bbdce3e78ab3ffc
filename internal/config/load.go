package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load,
// e.g. DUETICK_SERVER_PORT, DUETICK_DATABASE_URL.
const envPrefix = "DUETICK"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory or /etc/duetick.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/duetick")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; a malformed one is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal, so bind explicitly.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.url",
		"auth.jwt_secret", "auth.token_lifetime_minutes", "auth.bcrypt_cost",
		"push.vapid_public_key", "push.vapid_private_key", "push.subscriber",
		"dispatch.window_past_minutes", "dispatch.window_future_minutes",
		"dispatch.send_timeout_seconds", "dispatch.max_concurrent_sends",
		"dispatch.run_interval_minutes", "dispatch.trigger_token",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values so a minimal environment (database
// URL, JWT secret, VAPID keys) is enough to boot.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)

	// Due window per the dispatch design: an hour of catch-up behind,
	// five minutes of early warning ahead.
	v.SetDefault("dispatch.window_past_minutes", 60)
	v.SetDefault("dispatch.window_future_minutes", 5)
	v.SetDefault("dispatch.send_timeout_seconds", 10)
	v.SetDefault("dispatch.max_concurrent_sends", 8)
	v.SetDefault("dispatch.run_interval_minutes", 0)
}
