package mapping

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalization form names accepted in configuration.
const (
	NormNone = "none"
	NormNFC  = "NFC"
	NormNFD  = "NFD"
	NormNFKC = "NFKC"
	NormNFKD = "NFKD"
)

// Options control how a Correspondence is compiled.
type Options struct {
	// CaseSensitive matches patterns and contexts exactly when true.
	CaseSensitive bool
	// Reverse swaps each rule's pattern and replacement.
	Reverse bool
	// AsIs keeps declaration order. When false, rules are stably reordered
	// longest pattern first.
	AsIs bool
	// EscapeSpecial matches contexts literally instead of as regular expressions.
	// A context that is exactly "^" (before) or "$" (after) still anchors.
	EscapeSpecial bool
	// NormForm is the Unicode normalization applied to rule strings and to
	// text passed through Normalize.
	NormForm string
}

// DefaultOptions returns the options used when a mapping sets none.
func DefaultOptions() Options {
	return Options{
		CaseSensitive: true,
		AsIs:          true,
		NormForm:      NormNone,
	}
}

// ParseNormForm resolves a normalization form name.
// The boolean is false for "none" (or empty), meaning no normalization.
func ParseNormForm(name string) (norm.Form, bool, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "NONE":
		return 0, false, nil
	case NormNFC:
		return norm.NFC, true, nil
	case NormNFD:
		return norm.NFD, true, nil
	case NormNFKC:
		return norm.NFKC, true, nil
	case NormNFKD:
		return norm.NFKD, true, nil
	default:
		return 0, false, fmt.Errorf("unknown normalization form %q (want none, NFC, NFD, NFKC or NFKD)", name)
	}
}
