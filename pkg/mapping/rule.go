package mapping

import (
	"fmt"
	"regexp"
	"strings"
)

// RuleSpec is one rule as supplied by configuration.
// Empty contexts are unconstrained.
type RuleSpec struct {
	From          string `json:"in"`
	To            string `json:"out"`
	ContextBefore string `json:"context_before"`
	ContextAfter  string `json:"context_after"`
}

// Rule is a compiled RuleSpec. Rules are immutable once built.
type Rule struct {
	spec    RuleSpec
	indexed bool

	// from holds pattern atoms in pattern order, to holds replacement atoms
	// in output order.
	from []atom
	to   []atom

	// pattern is the concatenated pattern characters, case-folded when the
	// correspondence is case-insensitive.
	pattern []string
	atomAt  map[int]int // atom index -> position in from

	segments []Segment

	before *regexp.Regexp
	after  *regexp.Regexp
}

// Spec returns the rule as it was defined (after reversal, if any).
func (r *Rule) Spec() RuleSpec {
	return r.spec
}

// Len returns the number of input characters the rule consumes.
func (r *Rule) Len() int {
	return len(r.pattern)
}

// IsInsertion reports whether the rule consumes nothing.
func (r *Rule) IsInsertion() bool {
	return len(r.pattern) == 0
}

// Indexed reports whether the rule uses {n} atoms.
func (r *Rule) Indexed() bool {
	return r.indexed
}

func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q -> %q", r.spec.From, r.spec.To)
	if r.spec.ContextBefore != "" {
		fmt.Fprintf(&b, " / %q _", r.spec.ContextBefore)
	}
	if r.spec.ContextAfter != "" {
		fmt.Fprintf(&b, " _ %q", r.spec.ContextAfter)
	}
	return b.String()
}

// Match reports whether the rule applies at character position p of in.
func (r *Rule) Match(in *Input, p int) bool {
	end := p + len(r.pattern)
	if end > len(in.Chars) {
		return false
	}

	chars := in.Chars
	if in.folded != nil {
		chars = in.folded
	}
	for i, c := range r.pattern {
		if chars[p+i] != c {
			return false
		}
	}

	if r.before != nil && !r.before.MatchString(in.Text[:in.Offsets[p]]) {
		return false
	}
	if r.after != nil && !r.after.MatchString(in.Text[in.Offsets[end]:]) {
		return false
	}
	return true
}

// Segment is one replacement piece paired with the input characters it
// replaces. Positions are relative to the match start.
type Segment struct {
	// Source holds offsets of consumed characters, relative to the match start.
	Source []int
	// Output holds the produced characters.
	Output []string
}

// Segments describes how the rule rewrites a match: one segment per
// replacement atom in output order, followed by one empty-output segment for
// each pattern atom the replacement never references.
// The returned slice is shared and must not be modified.
func (r *Rule) Segments() []Segment {
	return r.segments
}

func (r *Rule) buildSegments() []Segment {
	starts := make([]int, len(r.from))
	offset := 0
	for i, a := range r.from {
		starts[i] = offset
		offset += len(a.chars)
	}

	source := func(i int) []int {
		idx := make([]int, len(r.from[i].chars))
		for k := range idx {
			idx[k] = starts[i] + k
		}
		return idx
	}

	segs := make([]Segment, 0, len(r.to)+len(r.from))
	used := make(map[int]bool, len(r.to))
	for _, a := range r.to {
		i := r.atomAt[a.index]
		used[i] = true
		segs = append(segs, Segment{Source: source(i), Output: a.chars})
	}
	for i := range r.from {
		if !used[i] && len(r.from[i].chars) > 0 {
			segs = append(segs, Segment{Source: source(i)})
		}
	}
	return segs
}
