// Package convert performs end-to-end conversions across the mapping
// network: it finds a path between two representations, runs one transducer
// per edge, and composes the per-stage alignments into a single alignment
// from the first stage's input to the final output.
package convert

import (
	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/network"
	"github.com/soghomon-b/g2p/pkg/transducer"
)

// Options selects the optional parts of a Conversion.
type Options struct {
	// Debug retains every stage's raw alignment and rule firings.
	Debug bool
	// Index composes the end-to-end alignment.
	Index bool
}

// Stage is the debug record of one edge along the conversion path.
type Stage struct {
	From         string                   `json:"from"`
	To           string                   `json:"to"`
	Mapping      string                   `json:"mapping,omitempty"`
	Input        string                   `json:"input"`
	Output       string                   `json:"output"`
	Alignment    core.Alignment           `json:"-"`
	Applications []transducer.Application `json:"applications"`
}

// Conversion is the result of Converter.Convert.
type Conversion struct {
	// Input is the text actually converted, after normalization.
	Input  string
	Output string
	// Path lists the nodes visited, source first.
	Path []string
	// Index is the composed alignment; nil unless Options.Index is set.
	Index core.Alignment
	// Debug holds one Stage per edge in path order; nil unless Options.Debug is set.
	Debug []Stage
}

// StageTrace is the wire form of one Stage's raw alignment.
type StageTrace struct {
	From    string      `json:"from"`
	To      string      `json:"to"`
	Mapping string      `json:"mapping,omitempty"`
	Index   [][2][2]any `json:"index"`
}

// Debugger returns the rule firings of every stage in path order. Stages where
// nothing fired yield an empty, non-nil list.
func (c *Conversion) Debugger() [][]transducer.Application {
	if c.Debug == nil {
		return nil
	}
	out := make([][]transducer.Application, len(c.Debug))
	for i, st := range c.Debug {
		out[i] = st.Applications
		if out[i] == nil {
			out[i] = []transducer.Application{}
		}
	}
	return out
}

// Trace returns every stage's raw alignment in path order.
func (c *Conversion) Trace() []StageTrace {
	if c.Debug == nil {
		return nil
	}
	out := make([]StageTrace, len(c.Debug))
	for i, st := range c.Debug {
		out[i] = StageTrace{
			From:    st.From,
			To:      st.To,
			Mapping: st.Mapping,
			Index:   st.Alignment.Tuples(),
		}
	}
	return out
}

// Converter runs conversions over one immutable network.
// It is safe for concurrent use.
type Converter struct {
	net *network.Network
}

// New creates a converter for n.
func New(n *network.Network) *Converter {
	return &Converter{net: n}
}

// Network returns the network the converter runs over.
func (c *Converter) Network() *network.Network {
	return c.net
}

// Convert converts text from src to dst.
// It returns *core.UnknownNodeError or *core.NoPathError when no conversion
// exists; any other outcome is a pure function of the inputs.
func (c *Converter) Convert(src, dst, text string, opts Options) (*Conversion, error) {
	path, err := c.net.FindPath(src, dst)
	if err != nil {
		return nil, err
	}

	if len(path) > 0 {
		text = path[0].Correspondence.Normalize(text)
	}

	conv := &Conversion{
		Input: text,
		Path:  []string{src},
	}

	alignments := make([]core.Alignment, 0, len(path))
	cur := text
	for _, e := range path {
		res := transducer.New(e.Correspondence).Apply(cur)
		alignments = append(alignments, res.Alignment)
		conv.Path = append(conv.Path, e.To)

		if opts.Debug {
			conv.Debug = append(conv.Debug, Stage{
				From:         e.From,
				To:           e.To,
				Mapping:      e.Name,
				Input:        res.Input,
				Output:       res.Output,
				Alignment:    res.Alignment,
				Applications: res.Applications,
			})
		}
		cur = res.Output
	}
	conv.Output = cur

	if opts.Index {
		if len(alignments) == 0 {
			conv.Index = transducer.New(nil).Apply(text).Alignment
		} else {
			conv.Index = Compose(alignments[0], alignments[1:]...)
		}
	}

	return conv, nil
}
