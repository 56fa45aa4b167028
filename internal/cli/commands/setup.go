package commands

import (
	"log/slog"

	"github.com/soghomon-b/g2p/internal/config"
	"github.com/soghomon-b/g2p/internal/loader"
	"github.com/soghomon-b/g2p/pkg/mapping"
	"github.com/soghomon-b/g2p/pkg/network"
	"github.com/spf13/cobra"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext collects the config and logger stored on the command's
// context by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    config.FromContext(cmd.Context()),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// JSON reports whether JSON output was requested.
func (c *CommandContext) JSON() bool {
	return c.Cfg.OutputFormat == FormatJSON
}

// Loader returns a mapping loader using the configured normalization form
// as the default for every mapping.
func (c *CommandContext) Loader() *loader.Loader {
	opts := mapping.DefaultOptions()
	opts.NormForm = c.Cfg.NormForm
	return loader.New(opts, c.Logger)
}

// LoadNetwork loads the mapping network from the configured directory.
func (c *CommandContext) LoadNetwork() (*network.Network, error) {
	if err := c.Cfg.ValidateDirectories(); err != nil {
		return nil, err
	}
	return c.Loader().LoadDir(c.Cfg.MappingsDir)
}
