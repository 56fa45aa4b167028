package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "g2p.yaml"
	ConfigFileNameAlt = "g2p.yml"
)

// EnvPrefix prefixes environment variables read by LoadConfig.
const EnvPrefix = "G2P_"

// flagKeys maps flag names whose config key is not the snake_case flag name.
var flagKeys = map[string]string{
	"port":  "server.port",
	"watch": "server.watch",
}

var configFileUsed string

// findConfigFile finds the config file to use.
// Priority: explicit path > g2p.yaml > g2p.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from defaults, file, environment variables,
// and flags. Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	def := Default()

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"mappings_dir": def.MappingsDir,
		"norm_form":    def.NormForm,
		"log_level":    def.LogLevel,
		"log_format":   def.LogFormat,
		"verbose":      def.Verbose,
		"output":       def.OutputFormat,
		"server.port":  def.Server.Port,
		"server.watch": def.Server.Watch,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables: G2P_MAPPINGS_DIR -> mappings_dir,
	// G2P_SERVER__PORT -> server.port
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// A mappings dir from the config file is relative to that file, unless a
	// flag or env var overrode it.
	mappingsOverridden := os.Getenv(EnvPrefix+"MAPPINGS_DIR") != "" ||
		(flags != nil && flags.Changed("mappings-dir"))
	if configFileUsed != "" && !mappingsOverridden {
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			cfg.MappingsDir = resolvePathRelativeTo(cfg.MappingsDir, filepath.Dir(abs))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file loaded by the last
// LoadConfig call, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
