// Package config provides configuration management for g2p.
//
// Configuration is layered the same way for every entry point: built-in
// defaults, then g2p.yaml, then G2P_ environment variables, then explicitly
// set command-line flags.
package config

// ServerConfig holds configuration for the HTTP conversion service.
type ServerConfig struct {
	Port int `koanf:"port"`
	// Watch reloads the mapping network when files in the mappings directory change.
	Watch bool `koanf:"watch"`
}

// Config holds all configuration options.
type Config struct {
	MappingsDir  string       `koanf:"mappings_dir"`
	NormForm     string       `koanf:"norm_form"`
	LogLevel     string       `koanf:"log_level"`
	LogFormat    string       `koanf:"log_format"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	Server       ServerConfig `koanf:"server"`
}

// Default configuration values.
const (
	DefaultMappingsDir = "mappings"
	DefaultNormForm    = "NFC"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultOutput      = "text"
	DefaultPort        = 5000
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		MappingsDir:  DefaultMappingsDir,
		NormForm:     DefaultNormForm,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		OutputFormat: DefaultOutput,
		Server: ServerConfig{
			Port:  DefaultPort,
			Watch: true,
		},
	}
}
