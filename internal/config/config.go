// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers a YAML file and the environment on top of New().
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SchemaPath points at a feature schema YAML file. Empty selects the
	// built-in 19-feature schema.
	SchemaPath string `koanf:"schema_path"`

	// ModelPath points at the serialized model artifact.
	ModelPath string `koanf:"model_path"`

	// ArtifactMaxBytes caps the size of the model artifact file.
	ArtifactMaxBytes int64 `koanf:"artifact_max_bytes"`

	// MaxBodyBytes caps request bodies on the form and API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// MetricsEnabled exposes /metrics and runs the metric updaters.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		SchemaPath:       "",
		ModelPath:        "models/student_score_model-3.json",
		ArtifactMaxBytes: 64 << 20,
		MaxBodyBytes:     64 << 10,
		MetricsEnabled:   true,
	}
}
