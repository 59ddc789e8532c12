// Package config provides the configuration schema and loader for the
// ttsdeck client.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for ttsdeck. It is typically
// loaded from a YAML file using [Load] or [LoadFromReader]; every field has
// a usable default so running without a config file works too.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig describes the TTS server to talk to.
type ServerConfig struct {
	// BaseURL is the server address (e.g. "http://localhost:8000").
	BaseURL string `yaml:"base_url"`

	// APIKey is sent in the X-API-Key header. The TTSDECK_API_KEY
	// environment variable and the saved settings store take precedence
	// when set.
	APIKey string `yaml:"api_key"`

	// TimeoutSeconds is the per-request HTTP timeout. 0 keeps the client
	// default.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// StoreConfig locates the local settings store.
type StoreConfig struct {
	// Path of the settings JSON file. Empty selects ttsdeck/settings.json
	// under the user config directory.
	Path string `yaml:"path"`
}

// OutputConfig controls where generated audio lands.
type OutputConfig struct {
	// Dir receives generated WAV files. Defaults to the working directory.
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level controls verbosity. Defaults to "info".
	Level LogLevel `yaml:"level"`

	// File, when set, additionally writes JSON logs to this path with
	// rotation.
	File string `yaml:"file"`
}

// MetricsConfig configures the optional Prometheus metrics listener.
type MetricsConfig struct {
	// ListenAddr is the TCP address for the /metrics endpoint (e.g.
	// ":9464"). Empty disables the listener; instruments still record.
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultBaseURL is used when server.base_url is not configured.
const DefaultBaseURL = "http://localhost:8000"
