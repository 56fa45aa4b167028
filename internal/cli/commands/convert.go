package commands

import (
	"github.com/soghomon-b/g2p/pkg/convert"
	"github.com/soghomon-b/g2p/pkg/transducer"
	"github.com/spf13/cobra"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	Index bool
	Debug bool
}

// convertJSON mirrors the HTTP conversion response, plus the path taken.
type convertJSON struct {
	Input      string                     `json:"input"`
	OutputText string                     `json:"output-text"`
	Path       []string                   `json:"path"`
	Index      [][2][2]any                `json:"index,omitempty"`
	Debugger   [][]transducer.Application `json:"debugger,omitempty"`
	Stages     []convert.StageTrace       `json:"stages,omitempty"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <in-lang> <out-lang> <text>",
		Short: "Convert text between two representations",
		Long: `Convert text from one node of the mapping network to another.

The shortest path between the two nodes is found and each mapping along it
is applied in turn. Use --index to print the character alignment between the
input and the final output, and --debug to print every rule that fired.`,
		Example: `  # Danish orthography to ARPABET
  g2p convert dan eng-arpabet hej

  # Show the alignment
  g2p convert dan eng-arpabet hej --index

  # Machine-readable output
  g2p convert dan eng-arpabet hej --debug --output json`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0], args[1], args[2])
		},
	}

	cmd.Flags().BoolVarP(&opts.Index, "index", "i", false, "Print the input/output alignment")
	cmd.Flags().BoolVarP(&opts.Debug, "debug", "d", false, "Print every rule application per stage")

	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions, inLang, outLang, text string) error {
	cmdCtx := NewCommandContext(cmd)

	n, err := cmdCtx.LoadNetwork()
	if err != nil {
		return err
	}

	conv, err := convert.New(n).Convert(inLang, outLang, text, convert.Options{
		Index: opts.Index,
		Debug: opts.Debug,
	})
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("converted", "path", conv.Path, "input", conv.Input, "output", conv.Output)

	w := cmd.OutOrStdout()
	if cmdCtx.JSON() {
		out := convertJSON{
			Input:      conv.Input,
			OutputText: conv.Output,
			Path:       conv.Path,
			Debugger:   conv.Debugger(),
			Stages:     conv.Trace(),
		}
		if opts.Index {
			out.Index = conv.Index.Tuples()
		}
		return renderJSON(w, out)
	}

	renderOutput(w, conv.Output)
	if opts.Index {
		renderIndex(w, "Alignment", conv.Index)
	}
	if opts.Debug {
		renderStages(w, conv.Debug)
	}
	return nil
}
