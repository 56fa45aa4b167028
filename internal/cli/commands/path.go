package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type hopJSON struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Mapping string `json:"mapping"`
	Rules   int    `json:"rules"`
}

// NewPathCommand creates the path command.
func NewPathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path <in-lang> <out-lang>",
		Short: "Show the conversion path between two nodes",
		Long: `Show the sequence of mappings a conversion from <in-lang> to <out-lang>
would apply. The path is the one with the fewest mappings; ties go to the
mapping defined first.`,
		Example: `  g2p path dan eng-arpabet
  g2p path dan eng-arpabet -v
  g2p path dan eng-arpabet --output json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd, args[0], args[1])
		},
	}
	return cmd
}

func runPath(cmd *cobra.Command, inLang, outLang string) error {
	cmdCtx := NewCommandContext(cmd)

	n, err := cmdCtx.LoadNetwork()
	if err != nil {
		return err
	}
	edges, err := n.FindPath(inLang, outLang)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cmdCtx.JSON() {
		hops := make([]hopJSON, len(edges))
		for i, e := range edges {
			hops[i] = hopJSON{From: e.From, To: e.To, Mapping: e.Name, Rules: e.Correspondence.Len()}
		}
		return renderJSON(w, hops)
	}

	if cmdCtx.Cfg.Verbose {
		t := newTable(w, "", table.Row{"#", "From", "To", "Mapping", "Rules"})
		for i, e := range edges {
			t.AppendRow(table.Row{i + 1, e.From, e.To, e.Name, e.Correspondence.Len()})
		}
		renderTable(w, t)
		return nil
	}

	nodes := []string{inLang}
	for _, e := range edges {
		nodes = append(nodes, e.To)
	}
	_, _ = fmt.Fprintln(w, strings.Join(nodes, " -> "))
	return nil
}
