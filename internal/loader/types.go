// Package loader reads mapping definition files and builds the mapping
// network from them.
//
// A mapping file (YAML or TOML) defines one mapping, or several under a
// top-level "mappings" list. Rules are given inline or in a CSV file named by
// rules_path, with columns from,to,before,after.
package loader

import "github.com/soghomon-b/g2p/pkg/mapping"

// RuleDef is one rule as written in a mapping file.
// context_before and context_after are accepted as aliases of before and after.
type RuleDef struct {
	From          string `yaml:"from" toml:"from"`
	To            string `yaml:"to" toml:"to"`
	Before        string `yaml:"before" toml:"before"`
	After         string `yaml:"after" toml:"after"`
	ContextBefore string `yaml:"context_before" toml:"context_before"`
	ContextAfter  string `yaml:"context_after" toml:"context_after"`
}

// Spec converts the definition into a mapping.RuleSpec.
func (r RuleDef) Spec() mapping.RuleSpec {
	spec := mapping.RuleSpec{
		From:          r.From,
		To:            r.To,
		ContextBefore: r.Before,
		ContextAfter:  r.After,
	}
	if spec.ContextBefore == "" {
		spec.ContextBefore = r.ContextBefore
	}
	if spec.ContextAfter == "" {
		spec.ContextAfter = r.ContextAfter
	}
	return spec
}

// MappingDef is one mapping as written in a mapping file.
// Unset options fall back to the loader defaults.
type MappingDef struct {
	InLang        string    `yaml:"in_lang" toml:"in_lang"`
	OutLang       string    `yaml:"out_lang" toml:"out_lang"`
	DisplayName   string    `yaml:"display_name" toml:"display_name"`
	CaseSensitive *bool     `yaml:"case_sensitive" toml:"case_sensitive"`
	Reverse       *bool     `yaml:"reverse" toml:"reverse"`
	AsIs          *bool     `yaml:"as_is" toml:"as_is"`
	EscapeSpecial *bool     `yaml:"escape_special" toml:"escape_special"`
	NormForm      string    `yaml:"norm_form" toml:"norm_form"`
	RulesPath     string    `yaml:"rules_path" toml:"rules_path"`
	Rules         []RuleDef `yaml:"rules" toml:"rules"`
}

// options resolves the definition's options over defaults.
func (d *MappingDef) options(defaults mapping.Options) mapping.Options {
	opts := defaults
	if d.CaseSensitive != nil {
		opts.CaseSensitive = *d.CaseSensitive
	}
	if d.Reverse != nil {
		opts.Reverse = *d.Reverse
	}
	if d.AsIs != nil {
		opts.AsIs = *d.AsIs
	}
	if d.EscapeSpecial != nil {
		opts.EscapeSpecial = *d.EscapeSpecial
	}
	if d.NormForm != "" {
		opts.NormForm = d.NormForm
	}
	return opts
}

// fileDef is the top level of a mapping file: a single inline mapping,
// a list of mappings, or both.
type fileDef struct {
	MappingDef `yaml:",inline"`
	Mappings   []MappingDef `yaml:"mappings" toml:"mappings"`
}

// Mapping is a validated mapping ready to become a network edge.
type Mapping struct {
	// Source names where the mapping was defined, e.g. "dan/dan_to_ipa.yaml#0".
	Source         string
	InLang         string
	OutLang        string
	DisplayName    string
	Correspondence *mapping.Correspondence
}

// Name returns the display name, falling back to in_lang->out_lang.
func (m *Mapping) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.InLang + "->" + m.OutLang
}
