package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Push     PushConfig     `mapstructure:"push"     validate:"required"`
	Dispatch DispatchConfig `mapstructure:"dispatch" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"omitempty,gte=4,lte=31"`
}

// PushConfig contains the web-push delivery settings. The VAPID key pair
// identifies this server to browser push services; Subscriber is the
// contact address push services may use to reach the operator.
type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"  validate:"required"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key" validate:"required"`
	Subscriber      string `mapstructure:"subscriber"        validate:"required,email"`
}

// DispatchConfig contains the reminder dispatcher settings.
type DispatchConfig struct {
	// WindowPastMinutes is how far back the due window reaches, catching up
	// tasks whose due time passed while cycles were missed.
	WindowPastMinutes int `mapstructure:"window_past_minutes" validate:"required,gt=0"`

	// WindowFutureMinutes is the early-warning margin ahead of now.
	WindowFutureMinutes int `mapstructure:"window_future_minutes" validate:"required,gt=0"`

	// SendTimeoutSeconds bounds each push delivery call so one unresponsive
	// endpoint cannot stall the cycle.
	SendTimeoutSeconds int `mapstructure:"send_timeout_seconds" validate:"required,gt=0"`

	// MaxConcurrentSends caps the per-subscription delivery fan-out.
	MaxConcurrentSends int `mapstructure:"max_concurrent_sends" validate:"required,gt=0"`

	// RunIntervalMinutes, when positive, starts the in-process scheduler on
	// that interval. Zero disables it; an external scheduler then drives the
	// dispatch trigger endpoint.
	RunIntervalMinutes int `mapstructure:"run_interval_minutes" validate:"gte=0"`

	// TriggerToken, when set, is the bearer token the dispatch trigger
	// endpoint requires. Empty leaves the endpoint unguarded (local use).
	TriggerToken string `mapstructure:"trigger_token"`
}
