package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/soghomon-b/g2p/pkg/mapping"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MappingsDir == "" {
		return fmt.Errorf("mappings_dir is required")
	}
	if _, _, err := mapping.ParseNormForm(c.NormForm); err != nil {
		return fmt.Errorf("norm_form: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}
	switch strings.ToLower(c.OutputFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown output %q (want text or json)", c.OutputFormat)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// ValidateDirectories checks if required directories exist.
func (c *Config) ValidateDirectories() error {
	if _, err := os.Stat(c.MappingsDir); os.IsNotExist(err) {
		return fmt.Errorf("mappings directory does not exist: %s\nHint: Create the directory or use --mappings-dir to specify a different path", c.MappingsDir)
	}
	return nil
}
