package mapping

import (
	"fmt"
	"regexp"
	"strconv"
)

// atomMarker matches an index marker such as {1}.
var atomMarker = regexp.MustCompile(`\{(\d+)\}`)

// atom is one indexed piece of a pattern or replacement.
// Unindexed rules compile to a single atom with index 0.
type atom struct {
	index int
	chars []string
}

// isIndexed reports whether s carries atom markers.
func isIndexed(s string) bool {
	return atomMarker.MatchString(s)
}

// stripMarkers removes atom markers, leaving the literal text.
func stripMarkers(s string) string {
	return atomMarker.ReplaceAllString(s, "")
}

// parseAtoms splits s into atoms. The text preceding each marker belongs to
// that marker's index; an atom may be empty.
func parseAtoms(s string) ([]atom, error) {
	locs := atomMarker.FindAllStringSubmatchIndex(s, -1)
	atoms := make([]atom, 0, len(locs))

	prev := 0
	for _, loc := range locs {
		idx, err := strconv.Atoi(s[loc[2]:loc[3]])
		if err != nil {
			return nil, fmt.Errorf("bad atom index in %q: %w", s, err)
		}
		atoms = append(atoms, atom{index: idx, chars: splitChars(s[prev:loc[0]])})
		prev = loc[1]
	}

	if prev < len(s) {
		return nil, fmt.Errorf("text %q follows the last atom marker in %q", s[prev:], s)
	}
	return atoms, nil
}

// splitChars splits s into its characters (runes), each as a string.
func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}
