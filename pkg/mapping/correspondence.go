// Package mapping compiles correspondence rules into immutable, precompiled
// rule sets ready for transduction.
//
// A rule rewrites a literal pattern to a replacement, optionally constrained by
// regular-expression contexts on either side. Patterns and replacements may be
// carved into indexed atoms ("e{1}s{2}t{3}" -> "h{2}i{1}s{3}") to express
// reordering and many-to-many substitutions with exact character alignment.
package mapping

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/soghomon-b/g2p/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Correspondence is an ordered, immutable rule set: one mapping step.
// Order is priority; the first rule matching at a scan position wins.
// A Correspondence is safe for concurrent use.
type Correspondence struct {
	rules     []*Rule
	opts      Options
	form      norm.Form
	normalize bool
}

// New compiles specs into a Correspondence. It fails fast on the first
// malformed rule with a *core.ConfigError naming the rule index.
func New(specs []RuleSpec, opts Options) (*Correspondence, error) {
	form, normalize, err := ParseNormForm(opts.NormForm)
	if err != nil {
		return nil, &core.ConfigError{Rule: -1, Err: err}
	}

	c := &Correspondence{
		rules:     make([]*Rule, 0, len(specs)),
		opts:      opts,
		form:      form,
		normalize: normalize,
	}

	for i, spec := range specs {
		r, err := c.compile(spec)
		if err != nil {
			return nil, &core.ConfigError{Rule: i, Err: err}
		}
		c.rules = append(c.rules, r)
	}

	if !opts.AsIs {
		sort.SliceStable(c.rules, func(i, j int) bool {
			return c.rules[i].Len() > c.rules[j].Len()
		})
	}

	return c, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed tables.
func MustNew(specs []RuleSpec, opts Options) *Correspondence {
	c, err := New(specs, opts)
	if err != nil {
		panic(err)
	}
	return c
}

// Identity returns a Correspondence with no rules.
func Identity() *Correspondence {
	return MustNew(nil, DefaultOptions())
}

// Rules returns the compiled rules in priority order.
func (c *Correspondence) Rules() []*Rule {
	return c.rules
}

// Len returns the number of rules.
func (c *Correspondence) Len() int {
	return len(c.rules)
}

// Options returns the options the correspondence was compiled with.
func (c *Correspondence) Options() Options {
	return c.opts
}

// Normalize applies the correspondence's normalization form to s.
func (c *Correspondence) Normalize(s string) string {
	if !c.normalize {
		return s
	}
	return c.form.String(s)
}

// Input is text prepared for matching against a Correspondence.
type Input struct {
	Text string
	// Chars holds the characters of Text.
	Chars []string
	// Offsets holds the byte offset of each character, plus len(Text).
	Offsets []int

	folded []string
}

// Prepare splits text into characters for matching.
func (c *Correspondence) Prepare(text string) *Input {
	in := &Input{
		Text:    text,
		Chars:   make([]string, 0, len(text)),
		Offsets: make([]int, 0, len(text)+1),
	}
	for off, r := range text {
		in.Chars = append(in.Chars, string(r))
		in.Offsets = append(in.Offsets, off)
	}
	in.Offsets = append(in.Offsets, len(text))

	if !c.opts.CaseSensitive {
		// A Caser carries state, so each Input gets its own.
		in.folded = foldChars(cases.Fold(), in.Chars)
	}
	return in
}

func (c *Correspondence) compile(spec RuleSpec) (*Rule, error) {
	if c.opts.Reverse {
		spec.From, spec.To = spec.To, spec.From
	}
	spec.From = c.Normalize(spec.From)
	spec.To = c.Normalize(spec.To)

	if spec.From == "" && spec.To == "" {
		return nil, fmt.Errorf("pattern and replacement are both empty")
	}
	r := &Rule{spec: spec}

	switch {
	case isIndexed(spec.From) && isIndexed(spec.To):
		from, err := parseAtoms(spec.From)
		if err != nil {
			return nil, fmt.Errorf("pattern: %w", err)
		}
		to, err := parseAtoms(spec.To)
		if err != nil {
			return nil, fmt.Errorf("replacement: %w", err)
		}
		r.indexed = true
		r.from, r.to = from, to

	case isIndexed(spec.To):
		// Any index in an unindexed pattern is undefined.
		to, err := parseAtoms(spec.To)
		if err != nil {
			return nil, fmt.Errorf("replacement: %w", err)
		}
		return nil, &core.MatchInvariantError{From: spec.From, To: spec.To, Index: to[0].index}

	default:
		// An indexed pattern with a plain replacement rewrites the whole match.
		r.from = []atom{{chars: splitChars(stripMarkers(spec.From))}}
		r.to = []atom{{chars: splitChars(spec.To)}}
	}

	r.atomAt = make(map[int]int, len(r.from))
	for i, a := range r.from {
		if _, dup := r.atomAt[a.index]; dup {
			return nil, fmt.Errorf("pattern %q defines atom {%d} twice", spec.From, a.index)
		}
		r.atomAt[a.index] = i
		r.pattern = append(r.pattern, a.chars...)
	}
	for _, a := range r.to {
		if _, ok := r.atomAt[a.index]; !ok {
			return nil, &core.MatchInvariantError{From: spec.From, To: spec.To, Index: a.index}
		}
	}
	if !c.opts.CaseSensitive {
		r.pattern = foldChars(cases.Fold(), r.pattern)
	}

	var err error
	if r.before, err = c.compileContext(spec.ContextBefore, false); err != nil {
		return nil, fmt.Errorf("context_before: %w", err)
	}
	if r.after, err = c.compileContext(spec.ContextAfter, true); err != nil {
		return nil, fmt.Errorf("context_after: %w", err)
	}

	r.segments = r.buildSegments()
	return r, nil
}

// compileContext anchors a context against the end of the preceding text
// (before) or the start of the following text (after).
func (c *Correspondence) compileContext(ctx string, after bool) (*regexp.Regexp, error) {
	if ctx == "" {
		return nil, nil
	}
	ctx = c.Normalize(ctx)

	expr := ctx
	anchor := (after && ctx == "$") || (!after && ctx == "^")
	if c.opts.EscapeSpecial && !anchor {
		expr = regexp.QuoteMeta(ctx)
	}
	if after {
		expr = `^(?:` + expr + `)`
	} else {
		expr = `(?:` + expr + `)$`
	}
	if !c.opts.CaseSensitive {
		expr = `(?i)` + expr
	}
	return regexp.Compile(expr)
}

// foldChars case-folds each character independently so positions survive
// folds that change length.
func foldChars(caser cases.Caser, chars []string) []string {
	folded := make([]string, len(chars))
	for i, ch := range chars {
		folded[i] = caser.String(ch)
	}
	return folded
}
