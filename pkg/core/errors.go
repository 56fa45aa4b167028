package core

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks at the request boundary.
var (
	// ErrUnknownNode is matched by every *UnknownNodeError.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNoPath is matched by every *NoPathError.
	ErrNoPath = errors.New("no path")
)

// ConfigError is returned when a rule, mapping or network definition is malformed.
// It is fatal at load time.
type ConfigError struct {
	// Source names the mapping (file or in_lang->out_lang) being built.
	Source string
	// Rule is the zero-based index of the offending rule, or -1.
	Rule int
	Err  error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Source != "" && e.Rule >= 0:
		return fmt.Sprintf("%s: rule %d: %v", e.Source, e.Rule, e.Err)
	case e.Rule >= 0:
		return fmt.Sprintf("rule %d: %v", e.Rule, e.Err)
	case e.Source != "":
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MatchInvariantError is returned when an indexed rule's replacement references
// an atom that its pattern does not define.
type MatchInvariantError struct {
	From  string
	To    string
	Index int
}

func (e *MatchInvariantError) Error() string {
	return fmt.Sprintf("replacement %q references atom {%d} not defined in pattern %q", e.To, e.Index, e.From)
}

// UnknownNodeError is returned when a representation is absent from the network.
type UnknownNodeError struct {
	Node string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Node)
}

// Is makes errors.Is(err, ErrUnknownNode) hold.
func (e *UnknownNodeError) Is(target error) bool {
	return target == ErrUnknownNode
}

// NoPathError is returned when both nodes exist but dst is unreachable from src.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no path from %q to %q", e.From, e.To)
}

// Is makes errors.Is(err, ErrNoPath) hold.
func (e *NoPathError) Is(target error) bool {
	return target == ErrNoPath
}
