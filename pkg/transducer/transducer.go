// Package transducer applies a Correspondence to text in a single
// left-to-right scan, producing the rewritten text together with a
// character-level alignment between input and output.
package transducer

import (
	"strings"

	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/mapping"
)

// Application records one rule firing during a scan.
// Start and End delimit the consumed input characters, [Start, End).
type Application struct {
	Input  string           `json:"input"`
	Output string           `json:"output"`
	Rule   mapping.RuleSpec `json:"rule"`
	Start  int              `json:"start"`
	End    int              `json:"end"`
}

// Result is the outcome of one Apply call.
type Result struct {
	Input     string
	Output    string
	Alignment core.Alignment
	// Applications lists rule firings in output-generation order.
	Applications []Application
}

// Transducer applies one Correspondence. It holds no per-call state and is
// safe for concurrent use.
type Transducer struct {
	cors *mapping.Correspondence
}

// New creates a transducer for c. A nil c behaves as the identity.
func New(c *mapping.Correspondence) *Transducer {
	if c == nil {
		c = mapping.Identity()
	}
	return &Transducer{cors: c}
}

// Apply rewrites text. Identical inputs always yield identical results.
func (t *Transducer) Apply(text string) *Result {
	in := t.cors.Prepare(text)
	s := &scan{
		in:        in,
		alignment: make(core.Alignment, 0, len(in.Chars)),
	}

	n := len(in.Chars)
	for p := 0; p <= n; {
		r := t.match(in, p, true)
		if r != nil && r.IsInsertion() {
			s.apply(r, p)
			r = t.match(in, p, false)
		}
		if p == n {
			break
		}
		if r == nil {
			s.copy(p)
			p++
			continue
		}
		s.apply(r, p)
		p += r.Len()
	}

	return &Result{
		Input:        text,
		Output:       s.out.String(),
		Alignment:    s.alignment,
		Applications: s.applications,
	}
}

// match returns the first rule matching at p, skipping insertions unless
// allowed. At most one insertion fires per position.
func (t *Transducer) match(in *mapping.Input, p int, insertions bool) *mapping.Rule {
	for _, r := range t.cors.Rules() {
		if r.IsInsertion() && !insertions {
			continue
		}
		if r.Match(in, p) {
			return r
		}
	}
	return nil
}

// scan accumulates the output of one Apply call.
type scan struct {
	in           *mapping.Input
	out          strings.Builder
	slot         int
	alignment    core.Alignment
	applications []Application
}

// copy passes the character at p through unchanged.
func (s *scan) copy(p int) {
	ch := s.in.Chars[p]
	s.out.WriteString(ch)
	s.alignment = append(s.alignment, core.IndexPair{
		In:  core.CharIndex{Position: p, Char: ch},
		Out: core.CharIndex{Position: s.slot, Char: ch},
	})
	s.slot++
}

// apply emits the rewrite of rule r matched at p.
func (s *scan) apply(r *mapping.Rule, p int) {
	var produced strings.Builder
	for _, seg := range r.Segments() {
		ins := make([]core.CharIndex, len(seg.Source))
		for i, off := range seg.Source {
			ins[i] = core.CharIndex{Position: p + off, Char: s.in.Chars[p+off]}
		}
		s.emit(ins, seg.Output)
		for _, ch := range seg.Output {
			produced.WriteString(ch)
		}
	}
	s.out.WriteString(produced.String())

	end := p + r.Len()
	s.applications = append(s.applications, Application{
		Input:  s.in.Text[s.in.Offsets[p]:s.in.Offsets[end]],
		Output: produced.String(),
		Rule:   r.Spec(),
		Start:  p,
		End:    end,
	})
}

// emit aligns consumed characters ins with produced characters outs.
//
//   - nothing consumed: every output character is epenthetic
//   - nothing produced: every input character takes its own deletion slot
//   - outs at least as long: output j aligns to input j*len(ins)/len(outs)
//   - outs shorter: input i aligns to output i*len(outs)/len(ins), so the
//     surplus input characters attach to the leftmost outputs
func (s *scan) emit(ins []core.CharIndex, outs []string) {
	m, k := len(ins), len(outs)
	switch {
	case m == 0:
		for j, ch := range outs {
			s.pair(core.CharIndex{Position: core.Epenthesis, Char: ch}, s.slot+j, ch)
		}
		s.slot += k

	case k == 0:
		for i, in := range ins {
			s.pair(in, s.slot+i, "")
		}
		s.slot += m

	case k >= m:
		for j, ch := range outs {
			s.pair(ins[j*m/k], s.slot+j, ch)
		}
		s.slot += k

	default:
		for i, in := range ins {
			j := i * k / m
			s.pair(in, s.slot+j, outs[j])
		}
		s.slot += k
	}
}

func (s *scan) pair(in core.CharIndex, slot int, ch string) {
	s.alignment = append(s.alignment, core.IndexPair{
		In:  in,
		Out: core.CharIndex{Position: slot, Char: ch},
	})
}
