package core

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// CharIndex
// =============================================================================

// Epenthesis is the input position of a character that has no input origin.
const Epenthesis = -1

// CharIndex identifies one character by its position in a string.
// Positions count characters (runes), not bytes.
type CharIndex struct {
	Position int
	Char     string
}

// IsInserted reports whether the character was inserted with no input origin.
func (c CharIndex) IsInserted() bool {
	return c.Position == Epenthesis
}

// IsDeleted reports whether this output slot marks a deleted input character.
func (c CharIndex) IsDeleted() bool {
	return c.Char == ""
}

func (c CharIndex) String() string {
	return fmt.Sprintf("(%d,%q)", c.Position, c.Char)
}

// =============================================================================
// IndexPair
// =============================================================================

// IndexPair is one alignment edge from an input character to an output character.
//
// An Out with an empty Char marks a deletion: the input character was consumed
// and produced nothing, and Out.Position is the slot it would have occupied.
// An In with Position Epenthesis marks an inserted output character.
type IndexPair struct {
	In  CharIndex
	Out CharIndex
}

func (p IndexPair) String() string {
	return p.In.String() + "->" + p.Out.String()
}

// =============================================================================
// Alignment
// =============================================================================

// Alignment is an ordered list of alignment edges, ordered by output position.
type Alignment []IndexPair

// Sort orders edges by output position, then by input position.
// The sort is stable so edges sharing both positions keep generation order.
func (a Alignment) Sort() {
	sort.SliceStable(a, func(i, j int) bool {
		if a[i].Out.Position != a[j].Out.Position {
			return a[i].Out.Position < a[j].Out.Position
		}
		return a[i].In.Position < a[j].In.Position
	})
}

// Slots returns the number of output slots the alignment spans, counting
// deletion slots.
func (a Alignment) Slots() int {
	n := 0
	for _, p := range a {
		if p.Out.Position+1 > n {
			n = p.Out.Position + 1
		}
	}
	return n
}

// Offsets maps each output slot to the character offset it has in the output
// string. Deletion slots map to the offset of the next surviving character,
// so a slot past the last character maps to the output length.
func (a Alignment) Offsets() []int {
	slots := a.Slots()
	deleted := make([]bool, slots)
	for i := range deleted {
		deleted[i] = true
	}
	for _, p := range a {
		if !p.Out.IsDeleted() {
			deleted[p.Out.Position] = false
		}
	}

	offsets := make([]int, slots)
	next := 0
	for slot := 0; slot < slots; slot++ {
		offsets[slot] = next
		if !deleted[slot] {
			next++
		}
	}
	return offsets
}

// Output rebuilds the output string from the alignment.
func (a Alignment) Output() string {
	var b strings.Builder
	seen := make(map[int]bool, len(a))
	for _, p := range a {
		if p.Out.IsDeleted() || seen[p.Out.Position] {
			continue
		}
		seen[p.Out.Position] = true
		b.WriteString(p.Out.Char)
	}
	return b.String()
}

// Tuples returns the alignment in the wire shape
// [[[in_pos, in_char], [out_pos, out_char]], ...].
func (a Alignment) Tuples() [][2][2]any {
	out := make([][2][2]any, len(a))
	for i, p := range a {
		out[i] = [2][2]any{
			{p.In.Position, p.In.Char},
			{p.Out.Position, p.Out.Char},
		}
	}
	return out
}
