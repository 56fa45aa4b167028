package convert

import (
	"sort"

	"github.com/soghomon-b/g2p/pkg/core"
)

// Compose joins consecutive stage alignments into one alignment from the
// first stage's input to the last stage's output. Each stage's input must be
// the previous stage's output.
func Compose(first core.Alignment, rest ...core.Alignment) core.Alignment {
	acc := make(core.Alignment, len(first))
	copy(acc, first)
	acc.Sort()
	for _, next := range rest {
		acc = join(acc, next)
	}
	return acc
}

// joined is an edge of a join in progress. carried marks a deletion from an
// earlier stage that still needs a slot of its own.
type joined struct {
	core.IndexPair
	carried bool
}

// join matches output positions of prev against input positions of next.
//
// Output slots of prev are first translated to character offsets, since
// deletion slots take no room in the string next consumed. A deletion in prev
// is carried to just before the first next-stage slot produced from the
// character that followed it (or to the end), and later slots shift right so
// every deletion keeps a slot of its own. When next merged the characters on
// both sides of the deletion into one slot, the deletion goes just after that
// slot instead, so it stays behind the output of the character preceding it.
func join(prev, next core.Alignment) core.Alignment {
	offsets := prev.Offsets()

	byInput := make(map[int][]core.IndexPair)
	firstSlot := make(map[int]int)
	lastSlot := make(map[int]int)
	for _, q := range next {
		if q.In.IsInserted() {
			continue
		}
		k := q.In.Position
		byInput[k] = append(byInput[k], q)
		if slot, ok := firstSlot[k]; !ok || q.Out.Position < slot {
			firstSlot[k] = q.Out.Position
		}
		if slot, ok := lastSlot[k]; !ok || q.Out.Position > slot {
			lastSlot[k] = q.Out.Position
		}
	}
	end := next.Slots()

	edges := make([]joined, 0, len(next))
	for _, p := range prev {
		k := offsets[p.Out.Position]
		if p.Out.IsDeleted() {
			slot, ok := firstSlot[k]
			if !ok {
				slot = end
			} else if before, ok := lastSlot[k-1]; ok && before == slot {
				slot++
			}
			edges = append(edges, joined{
				IndexPair: core.IndexPair{In: p.In, Out: core.CharIndex{Position: slot}},
				carried:   true,
			})
			continue
		}
		for _, q := range byInput[k] {
			edges = append(edges, joined{IndexPair: core.IndexPair{In: p.In, Out: q.Out}})
		}
	}
	for _, q := range next {
		if q.In.IsInserted() {
			edges = append(edges, joined{IndexPair: q})
		}
	}

	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Out.Position != b.Out.Position {
			return a.Out.Position < b.Out.Position
		}
		if a.carried != b.carried {
			return a.carried
		}
		return a.In.Position < b.In.Position
	})

	out := make(core.Alignment, len(edges))
	shift := 0
	for i, e := range edges {
		e.Out.Position += shift
		if e.carried {
			shift++
		}
		out[i] = e.IndexPair
	}
	return out
}
