package transducer

import (
	"testing"

	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(inPos int, inChar string, outPos int, outChar string) core.IndexPair {
	return core.IndexPair{
		In:  core.CharIndex{Position: inPos, Char: inChar},
		Out: core.CharIndex{Position: outPos, Char: outChar},
	}
}

func newTransducer(t *testing.T, specs ...mapping.RuleSpec) *Transducer {
	t.Helper()
	c, err := mapping.New(specs, mapping.DefaultOptions())
	require.NoError(t, err)
	return New(c)
}

func TestApply_Indices(t *testing.T) {
	tests := []struct {
		name    string
		rules   []mapping.RuleSpec
		input   string
		want    string
		wantIdx core.Alignment
	}{
		{
			name:  "substitution with right context",
			rules: []mapping.RuleSpec{{From: "t", To: "p", ContextAfter: "e"}},
			input: "test",
			want:  "pest",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "p"),
				edge(1, "e", 1, "e"),
				edge(2, "s", 2, "s"),
				edge(3, "t", 3, "t"),
			},
		},
		{
			name:  "deletion",
			rules: []mapping.RuleSpec{{From: "e", To: ""}},
			input: "test",
			want:  "tst",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "t"),
				edge(1, "e", 1, ""),
				edge(2, "s", 2, "s"),
				edge(3, "t", 3, "t"),
			},
		},
		{
			name:  "one to many with context",
			rules: []mapping.RuleSpec{{From: "t", To: "ch", ContextAfter: "e"}},
			input: "test",
			want:  "chest",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "c"),
				edge(0, "t", 1, "h"),
				edge(1, "e", 2, "e"),
				edge(2, "s", 3, "s"),
				edge(3, "t", 4, "t"),
			},
		},
		{
			name:  "many to one",
			rules: []mapping.RuleSpec{{From: "te", To: "p"}},
			input: "test",
			want:  "pst",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "p"),
				edge(1, "e", 0, "p"),
				edge(2, "s", 1, "s"),
				edge(3, "t", 2, "t"),
			},
		},
		{
			name:  "epenthesis at end of string",
			rules: []mapping.RuleSpec{{ContextBefore: "t", ContextAfter: "$", From: "", To: "y"}},
			input: "test",
			want:  "testy",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "t"),
				edge(1, "e", 1, "e"),
				edge(2, "s", 2, "s"),
				edge(3, "t", 3, "t"),
				edge(-1, "y", 4, "y"),
			},
		},
		{
			name:  "metathesis",
			rules: []mapping.RuleSpec{{From: "e{1}s{2}t{3}", To: "h{2}i{1}s{3}"}},
			input: "test",
			want:  "this",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "t"),
				edge(2, "s", 1, "h"),
				edge(1, "e", 2, "i"),
				edge(3, "t", 3, "s"),
			},
		},
		{
			name:  "partial many to one is left biased",
			rules: []mapping.RuleSpec{{From: "abc", To: "xy"}},
			input: "abc",
			want:  "xy",
			wantIdx: core.Alignment{
				edge(0, "a", 0, "x"),
				edge(1, "b", 0, "x"),
				edge(2, "c", 1, "y"),
			},
		},
		{
			name:  "two to three",
			rules: []mapping.RuleSpec{{From: "ab", To: "xyz"}},
			input: "ab",
			want:  "xyz",
			wantIdx: core.Alignment{
				edge(0, "a", 0, "x"),
				edge(0, "a", 1, "y"),
				edge(1, "b", 2, "z"),
			},
		},
		{
			name:  "multi-character deletion takes one slot each",
			rules: []mapping.RuleSpec{{From: "es", To: ""}},
			input: "test",
			want:  "tt",
			wantIdx: core.Alignment{
				edge(0, "t", 0, "t"),
				edge(1, "e", 1, ""),
				edge(2, "s", 2, ""),
				edge(3, "t", 3, "t"),
			},
		},
		{
			name:  "unreferenced atom is deleted",
			rules: []mapping.RuleSpec{{From: "a{1}b{2}", To: "x{2}"}},
			input: "ab",
			want:  "x",
			wantIdx: core.Alignment{
				edge(1, "b", 0, "x"),
				edge(0, "a", 1, ""),
			},
		},
		{
			name:  "repeated atom",
			rules: []mapping.RuleSpec{{From: "a{1}", To: "b{1}b{1}"}},
			input: "a",
			want:  "bb",
			wantIdx: core.Alignment{
				edge(0, "a", 0, "b"),
				edge(0, "a", 1, "b"),
			},
		},
		{
			name:  "empty atom inserts",
			rules: []mapping.RuleSpec{{From: "{1}a{2}", To: "x{1}a{2}"}},
			input: "a",
			want:  "xa",
			wantIdx: core.Alignment{
				edge(-1, "x", 0, "x"),
				edge(0, "a", 1, "a"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTransducer(t, tt.rules...).Apply(tt.input)
			assert.Equal(t, tt.want, res.Output)
			assert.Equal(t, tt.wantIdx, res.Alignment)
			assert.Equal(t, tt.input, res.Input)
		})
	}
}

func TestApply_Identity(t *testing.T) {
	tr := New(nil)
	for _, s := range []string{"", "a", "test", "hɛj", "日本語"} {
		res := tr.Apply(s)
		assert.Equal(t, s, res.Output)
		assert.Empty(t, res.Applications)

		i := 0
		for _, r := range s {
			require.Less(t, i, len(res.Alignment))
			assert.Equal(t, edge(i, string(r), i, string(r)), res.Alignment[i])
			i++
		}
		assert.Len(t, res.Alignment, i)
	}
}

func TestApply_FirstRuleWins(t *testing.T) {
	tr := newTransducer(t,
		mapping.RuleSpec{From: "a", To: "1"},
		mapping.RuleSpec{From: "ab", To: "2"},
	)
	assert.Equal(t, "1b", tr.Apply("ab").Output)

	tr = newTransducer(t,
		mapping.RuleSpec{From: "ab", To: "2"},
		mapping.RuleSpec{From: "a", To: "1"},
	)
	assert.Equal(t, "2", tr.Apply("ab").Output)
}

func TestApply_NonOverlapping(t *testing.T) {
	// Contexts read the input, not the rewritten output.
	tr := newTransducer(t,
		mapping.RuleSpec{From: "a", To: "b"},
		mapping.RuleSpec{From: "b", To: "c", ContextBefore: "b"},
	)
	assert.Equal(t, "bbc", tr.Apply("abb").Output)
	assert.Equal(t, "bb", tr.Apply("ab").Output)
}

func TestApply_InsertionThenRule(t *testing.T) {
	tr := newTransducer(t,
		mapping.RuleSpec{From: "", To: "'", ContextBefore: "^"},
		mapping.RuleSpec{From: "a", To: "A"},
	)
	res := tr.Apply("ab")
	assert.Equal(t, "'Ab", res.Output)
	assert.Equal(t, core.Alignment{
		edge(-1, "'", 0, "'"),
		edge(0, "a", 1, "A"),
		edge(1, "b", 2, "b"),
	}, res.Alignment)
}

func TestApply_InsertionOnEmptyInput(t *testing.T) {
	tr := newTransducer(t, mapping.RuleSpec{From: "", To: "y", ContextAfter: "$"})
	res := tr.Apply("")
	assert.Equal(t, "y", res.Output)
	assert.Equal(t, core.Alignment{edge(-1, "y", 0, "y")}, res.Alignment)
}

func TestApply_Applications(t *testing.T) {
	tr := newTransducer(t,
		mapping.RuleSpec{From: "e", To: "ɛ"},
		mapping.RuleSpec{From: "", To: "y", ContextAfter: "$"},
	)
	res := tr.Apply("hej")
	assert.Equal(t, "hɛjy", res.Output)
	assert.Equal(t, []Application{
		{Input: "e", Output: "ɛ", Rule: mapping.RuleSpec{From: "e", To: "ɛ"}, Start: 1, End: 2},
		{Input: "", Output: "y", Rule: mapping.RuleSpec{To: "y", ContextAfter: "$"}, Start: 3, End: 3},
	}, res.Applications)
}

func TestApply_CaseInsensitive(t *testing.T) {
	opts := mapping.DefaultOptions()
	opts.CaseSensitive = false
	tr := New(mapping.MustNew([]mapping.RuleSpec{{From: "sh", To: "ʃ"}}, opts))

	res := tr.Apply("SHe")
	assert.Equal(t, "ʃe", res.Output)
	assert.Equal(t, core.Alignment{
		edge(0, "S", 0, "ʃ"),
		edge(1, "H", 0, "ʃ"),
		edge(2, "e", 1, "e"),
	}, res.Alignment)
}

func TestApply_Deterministic(t *testing.T) {
	tr := newTransducer(t,
		mapping.RuleSpec{From: "e{1}s{2}t{3}", To: "h{2}i{1}s{3}"},
		mapping.RuleSpec{From: "t", To: "ch", ContextAfter: "e"},
		mapping.RuleSpec{From: "", To: "y", ContextBefore: "t", ContextAfter: "$"},
	)
	inputs := []string{"test", "testtest", "tet", ""}
	for _, in := range inputs {
		first := tr.Apply(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, tr.Apply(in))
		}
	}
}

func TestApply_Coverage(t *testing.T) {
	// None of these rules contract, so every output slot has exactly one edge.
	tr := newTransducer(t,
		mapping.RuleSpec{From: "e{1}s{2}t{3}", To: "h{2}i{1}s{3}"},
		mapping.RuleSpec{From: "t", To: "ch", ContextAfter: "e"},
		mapping.RuleSpec{From: "o", To: ""},
		mapping.RuleSpec{From: "", To: "y", ContextBefore: "t", ContextAfter: "$"},
	)

	for _, in := range []string{"test", "toast", "tot", "settest"} {
		res := tr.Apply(in)

		outSeen := make(map[int]int)
		inSeen := make(map[int]bool)
		for _, p := range res.Alignment {
			outSeen[p.Out.Position]++
			if !p.In.IsInserted() {
				inSeen[p.In.Position] = true
			}
		}
		for slot := 0; slot < res.Alignment.Slots(); slot++ {
			assert.Equal(t, 1, outSeen[slot], "input %q slot %d", in, slot)
		}
		for i := range []rune(in) {
			assert.True(t, inSeen[i], "input %q position %d", in, i)
		}
		assert.Equal(t, res.Output, res.Alignment.Output())
	}
}
