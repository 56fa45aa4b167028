package convert

import (
	"errors"
	"sync"
	"testing"

	"github.com/soghomon-b/g2p/pkg/core"
	"github.com/soghomon-b/g2p/pkg/mapping"
	"github.com/soghomon-b/g2p/pkg/network"
	"github.com/soghomon-b/g2p/pkg/transducer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edge(inPos int, inChar string, outPos int, outChar string) core.IndexPair {
	return core.IndexPair{
		In:  core.CharIndex{Position: inPos, Char: inChar},
		Out: core.CharIndex{Position: outPos, Char: outChar},
	}
}

func cors(t *testing.T, specs ...mapping.RuleSpec) *mapping.Correspondence {
	t.Helper()
	c, err := mapping.New(specs, mapping.DefaultOptions())
	require.NoError(t, err)
	return c
}

type testEdge struct {
	from, to string
	rules    []mapping.RuleSpec
}

func buildNetwork(t *testing.T, edges []testEdge, nodes ...string) *network.Network {
	t.Helper()
	b := network.NewBuilder()
	for _, n := range nodes {
		require.NoError(t, b.AddNode(n))
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(&network.Edge{
			From:           e.from,
			To:             e.to,
			Name:           e.from + "-" + e.to,
			Correspondence: cors(t, e.rules...),
		}))
	}
	return b.Build()
}

func TestConvert_PathComposition(t *testing.T) {
	ab := []mapping.RuleSpec{{From: "t", To: "ch", ContextAfter: "e"}, {From: "e", To: ""}}
	bc := []mapping.RuleSpec{{From: "s", To: "sh"}, {From: "", To: "y", ContextAfter: "$"}}
	net := buildNetwork(t, []testEdge{{"A", "B", ab}, {"B", "C", bc}})

	for _, text := range []string{"test", "tet", "s", "", "stets"} {
		conv, err := New(net).Convert("A", "C", text, Options{Index: true, Debug: true})
		require.NoError(t, err)

		first := transducer.New(cors(t, ab...)).Apply(text)
		second := transducer.New(cors(t, bc...)).Apply(first.Output)

		assert.Equal(t, second.Output, conv.Output, text)
		assert.Equal(t, Compose(first.Alignment, second.Alignment), conv.Index, text)
		assert.Equal(t, []string{"A", "B", "C"}, conv.Path)
		require.Len(t, conv.Debug, 2)
		assert.Equal(t, first.Alignment, conv.Debug[0].Alignment)
		assert.Equal(t, second.Alignment, conv.Debug[1].Alignment)
	}
}

func TestConvert_ComposedIndex(t *testing.T) {
	net := buildNetwork(t, []testEdge{
		{"A", "B", []mapping.RuleSpec{{From: "e", To: ""}}},
		{"B", "C", []mapping.RuleSpec{{From: "s", To: "sh"}, {From: "", To: "y", ContextAfter: "$"}}},
	})

	conv, err := New(net).Convert("A", "C", "test", Options{Index: true})
	require.NoError(t, err)

	assert.Equal(t, "tshty", conv.Output)
	assert.Equal(t, core.Alignment{
		edge(0, "t", 0, "t"),
		edge(1, "e", 1, ""),
		edge(2, "s", 2, "s"),
		edge(2, "s", 3, "h"),
		edge(3, "t", 4, "t"),
		edge(-1, "y", 5, "y"),
	}, conv.Index)
	assert.Nil(t, conv.Debug)
}

func TestCompose_IdentityIsNeutral(t *testing.T) {
	cases := [][]mapping.RuleSpec{
		{{From: "t", To: "p", ContextAfter: "e"}},
		{{From: "e", To: ""}},
		{{From: "t", To: "ch", ContextAfter: "e"}},
		{{From: "te", To: "p"}},
		{{ContextBefore: "t", ContextAfter: "$", From: "", To: "y"}},
		{{From: "e{1}s{2}t{3}", To: "h{2}i{1}s{3}"}},
		{{From: "es", To: ""}},
	}
	identity := transducer.New(nil)

	for _, rules := range cases {
		res := transducer.New(cors(t, rules...)).Apply("test")
		after := identity.Apply(res.Output).Alignment
		before := identity.Apply("test").Alignment

		want := make(core.Alignment, len(res.Alignment))
		copy(want, res.Alignment)
		want.Sort()

		assert.Equal(t, want, Compose(res.Alignment, after), "%v then identity", rules)
		assert.Equal(t, want, Compose(before, res.Alignment), "identity then %v", rules)
	}
}

func TestCompose_ManyToOneThenOneToMany(t *testing.T) {
	first := transducer.New(cors(t, mapping.RuleSpec{From: "sh", To: "ʃ"})).Apply("shy")
	second := transducer.New(cors(t, mapping.RuleSpec{From: "ʃ", To: "SH"})).Apply(first.Output)

	assert.Equal(t, core.Alignment{
		edge(0, "s", 0, "S"),
		edge(1, "h", 0, "S"),
		edge(0, "s", 1, "H"),
		edge(1, "h", 1, "H"),
		edge(2, "y", 2, "y"),
	}, Compose(first.Alignment, second.Alignment))
}

func TestCompose_SingleStageOrdersByOutput(t *testing.T) {
	res := transducer.New(cors(t, mapping.RuleSpec{From: "e{1}s{2}", To: "s{2}e{1}"})).Apply("test")
	require.Equal(t, "tset", res.Output)

	got := Compose(res.Alignment)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Out.Position, got[i].Out.Position, "edge %d out of order", i)
	}
	assert.ElementsMatch(t, res.Alignment, got)
}

func TestCompose_DeletionInsideMerge(t *testing.T) {
	first := transducer.New(cors(t, mapping.RuleSpec{From: "es", To: ""})).Apply("test")
	second := transducer.New(cors(t, mapping.RuleSpec{From: "tt", To: "q"})).Apply(first.Output)
	require.Equal(t, "q", second.Output)

	// Both deletions follow the merged output of the first t.
	assert.Equal(t, core.Alignment{
		edge(0, "t", 0, "q"),
		edge(3, "t", 0, "q"),
		edge(1, "e", 1, ""),
		edge(2, "s", 2, ""),
	}, Compose(first.Alignment, second.Alignment))
}

func TestCompose_DeletionBetweenSeparateOutputs(t *testing.T) {
	first := transducer.New(cors(t, mapping.RuleSpec{From: "es", To: ""})).Apply("test")
	second := transducer.New(cors(t, mapping.RuleSpec{From: "t", To: "d", ContextBefore: "t"})).Apply(first.Output)
	require.Equal(t, "td", second.Output)

	assert.Equal(t, core.Alignment{
		edge(0, "t", 0, "t"),
		edge(1, "e", 1, ""),
		edge(2, "s", 2, ""),
		edge(3, "t", 3, "d"),
	}, Compose(first.Alignment, second.Alignment))
}

func TestConvert_Debug(t *testing.T) {
	net := buildNetwork(t, []testEdge{
		{"dan", "dan-ipa", []mapping.RuleSpec{{From: "e", To: "ɛ"}}},
		{"dan-ipa", "eng-arpabet", []mapping.RuleSpec{
			{From: "ɛ", To: "EH "},
			{From: "h", To: "HH "},
			{From: "j", To: "Y"},
		}},
	})

	conv, err := New(net).Convert("dan", "eng-arpabet", "hej", Options{Debug: true})
	require.NoError(t, err)

	assert.Equal(t, "HH EH Y", conv.Output)
	assert.Nil(t, conv.Index)
	require.Len(t, conv.Debug, 2)

	assert.Equal(t, "dan", conv.Debug[0].From)
	assert.Equal(t, "dan-ipa", conv.Debug[0].To)
	assert.Equal(t, "hej", conv.Debug[0].Input)
	assert.Equal(t, "hɛj", conv.Debug[0].Output)
	assert.Equal(t, []transducer.Application{
		{Input: "e", Output: "ɛ", Rule: mapping.RuleSpec{From: "e", To: "ɛ"}, Start: 1, End: 2},
	}, conv.Debug[0].Applications)

	apps := conv.Debug[1].Applications
	require.Len(t, apps, 3)
	assert.Equal(t, "h", apps[0].Input)
	assert.Equal(t, "HH ", apps[0].Output)
	assert.Equal(t, [2]int{1, 2}, [2]int{apps[1].Start, apps[1].End})
	assert.Equal(t, "Y", apps[2].Output)
}

func TestConvert_SameNode(t *testing.T) {
	net := buildNetwork(t, nil, "eng")
	conv, err := New(net).Convert("eng", "eng", "abc", Options{Index: true, Debug: true})
	require.NoError(t, err)

	assert.Equal(t, "abc", conv.Output)
	assert.Equal(t, []string{"eng"}, conv.Path)
	assert.Empty(t, conv.Debug)
	assert.Equal(t, core.Alignment{edge(0, "a", 0, "a"), edge(1, "b", 1, "b"), edge(2, "c", 2, "c")}, conv.Index)
}

func TestConvert_Errors(t *testing.T) {
	net := buildNetwork(t, []testEdge{
		{"A", "B", nil},
		{"B", "C", nil},
	}, "D")
	c := New(net)

	_, err := c.Convert("not-here", "eng", "text", Options{})
	var unknown *core.UnknownNodeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "not-here", unknown.Node)

	_, err = c.Convert("A", "D", "text", Options{})
	assert.True(t, errors.Is(err, core.ErrNoPath))
	assert.False(t, errors.Is(err, core.ErrUnknownNode))
}

func TestConvert_Normalizes(t *testing.T) {
	opts := mapping.DefaultOptions()
	opts.NormForm = mapping.NormNFC
	b := network.NewBuilder()
	require.NoError(t, b.AddEdge(&network.Edge{
		From:           "fra",
		To:             "fra-ipa",
		Correspondence: mapping.MustNew([]mapping.RuleSpec{{From: "e\u0301", To: "e"}}, opts),
	}))

	conv, err := New(b.Build()).Convert("fra", "fra-ipa", "cafe\u0301", Options{Index: true})
	require.NoError(t, err)
	assert.Equal(t, "cafe", conv.Output)
	assert.Equal(t, "caf\u00e9", conv.Input)
	assert.Len(t, conv.Index, 4)
}

func TestConvert_Concurrent(t *testing.T) {
	insensitive := mapping.DefaultOptions()
	insensitive.CaseSensitive = false
	b := network.NewBuilder()
	require.NoError(t, b.AddEdge(&network.Edge{
		From: "A",
		To:   "B",
		Correspondence: mapping.MustNew([]mapping.RuleSpec{
			{From: "th", To: "T", ContextAfter: "i"},
			{From: "s", To: "z", ContextBefore: "[aeiou]", ContextAfter: "$"},
		}, insensitive),
	}))
	require.NoError(t, b.AddEdge(&network.Edge{
		From:           "B",
		To:             "C",
		Correspondence: cors(t, mapping.RuleSpec{From: "i", To: "iy"}, mapping.RuleSpec{From: "", To: "!", ContextAfter: "$"}),
	}))
	c := New(b.Build())

	const text = "This is"
	opts := Options{Index: true, Debug: true}
	want, err := c.Convert("A", "C", text, opts)
	require.NoError(t, err)

	const workers, calls = 32, 200
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range calls {
				got, err := c.Convert("A", "C", text, opts)
				if !assert.NoError(t, err) || !assert.Equal(t, want, got) {
					return
				}
			}
		}()
	}
	wg.Wait()
}
