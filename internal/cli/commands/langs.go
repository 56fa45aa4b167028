package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// LangsOptions holds options for the langs command.
type LangsOptions struct {
	From string
	To   string
}

// NewLangsCommand creates the langs command.
func NewLangsCommand() *cobra.Command {
	opts := &LangsOptions{}

	cmd := &cobra.Command{
		Use:   "langs",
		Short: "List the nodes of the mapping network",
		Long: `List every node of the mapping network, sorted.

With --from, list only the nodes reachable from the given node.
With --to, list only the nodes from which the given node is reachable.`,
		Example: `  g2p langs
  g2p langs --from dan
  g2p langs --to eng-arpabet --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLangs(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "List nodes reachable from this node")
	cmd.Flags().StringVar(&opts.To, "to", "", "List nodes that can reach this node")

	return cmd
}

func runLangs(cmd *cobra.Command, opts *LangsOptions) error {
	if opts.From != "" && opts.To != "" {
		return errors.New("--from and --to are mutually exclusive")
	}

	cmdCtx := NewCommandContext(cmd)
	n, err := cmdCtx.LoadNetwork()
	if err != nil {
		return err
	}

	var nodes []string
	switch {
	case opts.From != "":
		nodes, err = n.Descendants(opts.From)
	case opts.To != "":
		nodes, err = n.Ancestors(opts.To)
	default:
		nodes = n.Nodes()
	}
	if err != nil {
		return err
	}

	if cmdCtx.JSON() {
		return renderJSON(cmd.OutOrStdout(), nodes)
	}
	renderList(cmd.OutOrStdout(), nodes)
	return nil
}
