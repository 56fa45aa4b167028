package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/mapping"
	"github.com/soghomon-b/g2p/pkg/network"
	"gopkg.in/yaml.v3"
)

// Loader reads mapping files.
type Loader struct {
	defaults mapping.Options
	logger   *slog.Logger
}

// New creates a loader. defaults apply to every option a mapping leaves
// unset. A nil logger discards output.
func New(defaults mapping.Options, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{defaults: defaults, logger: logger}
}

// IsMappingFile reports whether path has a mapping definition extension.
func IsMappingFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// IsRulesFile reports whether path has a rules table extension.
func IsRulesFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// LoadDir loads every mapping file under dir, in lexical path order, and
// builds the network. The first error aborts loading.
func (l *Loader) LoadDir(dir string) (*network.Network, error) {
	var mappings []*Mapping
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMappingFile(path) {
			return nil
		}
		ms, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		mappings = append(mappings, ms...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	n, err := Build(mappings)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded mapping network",
		"dir", dir,
		"mappings", len(mappings),
		"nodes", n.NodeCount(),
		"edges", n.EdgeCount())
	return n, nil
}

// LoadFile loads the mappings defined in one YAML or TOML file.
func (l *Loader) LoadFile(path string) ([]*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var def fileDef
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, &def)
	case ".toml":
		err = decodeTOML(data, &def)
	default:
		err = fmt.Errorf("unsupported mapping file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, &core.ConfigError{Source: path, Rule: -1, Err: err}
	}

	defs := def.Mappings
	if def.InLang != "" || def.OutLang != "" || len(def.Rules) > 0 || def.RulesPath != "" {
		defs = append([]MappingDef{def.MappingDef}, defs...)
	}
	if len(defs) == 0 {
		return nil, &core.ConfigError{Source: path, Rule: -1, Err: errors.New("file defines no mappings")}
	}

	mappings := make([]*Mapping, 0, len(defs))
	for i := range defs {
		source := fmt.Sprintf("%s#%d", path, i)
		m, err := l.compile(&defs[i], source, filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		l.logger.Debug("loaded mapping",
			"source", source,
			"in_lang", m.InLang,
			"out_lang", m.OutLang,
			"rules", m.Correspondence.Len())
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// compile validates def and builds its correspondence.
func (l *Loader) compile(def *MappingDef, source, baseDir string) (*Mapping, error) {
	if def.InLang == "" || def.OutLang == "" {
		return nil, &core.ConfigError{Source: source, Rule: -1, Err: errors.New("in_lang and out_lang are required")}
	}

	rules := def.Rules
	if def.RulesPath != "" {
		if len(rules) > 0 {
			return nil, &core.ConfigError{Source: source, Rule: -1, Err: errors.New("rules and rules_path are mutually exclusive")}
		}
		path := def.RulesPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		var err error
		if rules, err = ReadRulesFile(path); err != nil {
			return nil, &core.ConfigError{Source: source, Rule: -1, Err: err}
		}
	}

	specs := make([]mapping.RuleSpec, len(rules))
	for i, r := range rules {
		specs[i] = r.Spec()
	}

	c, err := mapping.New(specs, def.options(l.defaults))
	if err != nil {
		var cfgErr *core.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = source
			return nil, cfgErr
		}
		return nil, &core.ConfigError{Source: source, Rule: -1, Err: err}
	}

	return &Mapping{
		Source:         source,
		InLang:         def.InLang,
		OutLang:        def.OutLang,
		DisplayName:    def.DisplayName,
		Correspondence: c,
	}, nil
}

// Build assembles mappings into a network, in order. Earlier mappings take
// priority in path lookup.
func Build(mappings []*Mapping) (*network.Network, error) {
	b := network.NewBuilder()
	for _, m := range mappings {
		err := b.AddEdge(&network.Edge{
			From:           m.InLang,
			To:             m.OutLang,
			Name:           m.Name(),
			Correspondence: m.Correspondence,
		})
		if err != nil {
			return nil, &core.ConfigError{Source: m.Source, Rule: -1, Err: err}
		}
	}
	return b.Build(), nil
}

// ReadRulesFile reads a CSV rules table: from,to[,before[,after]] per row.
// Lines starting with # are comments; a leading "from,to" header is skipped.
func ReadRulesFile(path string) ([]RuleDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadRules(f)
}

// ReadRules reads a CSV rules table from r.
func ReadRules(r io.Reader) ([]RuleDef, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid rules table: %w", err)
	}

	rules := make([]RuleDef, 0, len(records))
	for i, rec := range records {
		if i == 0 && len(rec) >= 2 && rec[0] == "from" && rec[1] == "to" {
			continue
		}
		if len(rec) < 2 || len(rec) > 4 {
			return nil, fmt.Errorf("rules table row %d: want 2 to 4 columns, got %d", i+1, len(rec))
		}
		rule := RuleDef{From: rec[0], To: rec[1]}
		if len(rec) > 2 {
			rule.Before = rec[2]
		}
		if len(rec) > 3 {
			rule.After = rec[3]
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// decodeYAML decodes strictly: unknown fields are errors.
func decodeYAML(data []byte, def *fileDef) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// decodeTOML decodes strictly: undecoded keys are errors.
func decodeTOML(data []byte, def *fileDef) error {
	md, err := toml.Decode(string(data), def)
	if err != nil {
		return fmt.Errorf("invalid TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown fields: %s", strings.Join(keys, ", "))
	}
	return nil
}
