package forest

import (
	"strings"
	"testing"

	"github.com/dekarrin/earley/chart"
	"github.com/dekarrin/earley/grammar"
	"github.com/stretchr/testify/assert"
)

const roundTripGrammar = `
	S    -> NP VP ;
	NP   -> Noun ;
	VP   -> Verb NP ;
	Noun -> John | Mary ;
	Verb -> called ;
	%pos Noun Verb ;
`

func parse(g grammar.Grammar, sentence string) []*chart.Chart {
	_, charts := chart.NewParser(g).Parse(strings.Fields(sentence))
	return charts
}

func Test_Extract(t *testing.T) {
	testCases := []struct {
		name   string
		g      grammar.Grammar
		input  string
		expect []string
	}{
		{
			name:  "round trip sentence",
			g:     grammar.MustParse(roundTripGrammar),
			input: "John called Mary",
			expect: []string{
				"[S [NP [Noun John]] [VP [Verb called] [NP [Noun Mary]]]]",
			},
		},
		{
			name:   "rejected sentence has no trees",
			g:      grammar.MustParse(roundTripGrammar),
			input:  "John called Bob",
			expect: nil,
		},
		{
			name:   "empty input has no trees",
			g:      grammar.MustParse(roundTripGrammar),
			input:  "",
			expect: nil,
		},
		{
			name:  "prepositional phrase attachment",
			g:     grammar.Simple(),
			input: "John called Mary from Denver",
			expect: []string{
				"[S [NP [Noun John]] [VP [VP [Verb called] [NP [Noun Mary]]] [PP [Prep from] [NP [Noun Denver]]]]]",
				"[S [NP [Noun John]] [VP [Verb called] [NP [NP [Noun Mary]] [PP [Prep from] [NP [Noun Denver]]]]]]",
			},
		},
		{
			name:  "adjective scope over conjunction",
			g:     grammar.Extended(),
			input: "old men and women like dogs",
			expect: []string{
				"[S [NP [Adj old] [NP [NP [Noun men]] [Conj and] [NP [Noun women]]]] [VP [Verb like] [NP [Noun dogs]]]]",
				"[S [NP [NP [Adj old] [NP [Noun men]]] [Conj and] [NP [Noun women]]] [VP [Verb like] [NP [Noun dogs]]]]",
			},
		},
		{
			name:  "article and attachment ambiguity",
			g:     grammar.Extended(),
			input: "John called the Police from Denver",
			expect: []string{
				"[S [NP [Noun John]] [VP [VP [Verb called] [NP [Article the] [NP [Noun Police]]]] [PP [Prep from] [NP [Noun Denver]]]]]",
				"[S [NP [Noun John]] [VP [Verb called] [NP [Article the] [NP [NP [Noun Police]] [PP [Prep from] [NP [Noun Denver]]]]]]]",
				"[S [NP [Noun John]] [VP [Verb called] [NP [NP [Article the] [NP [Noun Police]]] [PP [Prep from] [NP [Noun Denver]]]]]]",
			},
		},
		{
			name:  "homographs",
			g:     grammar.Homographs(),
			input: "wang fanyi zai fanyi xiaoshuo",
			expect: []string{
				"[S [NP [Surname wang] [Noun fanyi]] [VP [Verb zai] [NP [Verb fanyi] [Noun xiaoshuo]]]]",
				"[S [NP [Surname wang] [Noun fanyi]] [VP [ADV zai] [VP [Verb fanyi] [NP [Noun xiaoshuo]]]]]",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			charts := parse(tc.g, tc.input)

			// execute
			trees, err := Extract(tc.g, charts)

			// assert
			if !assert.NoError(err) {
				return
			}
			var actual []string
			for _, tr := range trees {
				actual = append(actual, tr.Bracketed())
			}
			assert.ElementsMatch(tc.expect, actual)
		})
	}
}

func Test_Extract_Outline(t *testing.T) {
	assert := assert.New(t)

	// setup
	g := grammar.MustParse(roundTripGrammar)
	charts := parse(g, "John called Mary")
	expect := "S\n" +
		"\tNP\n" +
		"\t\tNoun\n" +
		"\t\t\tJohn\n" +
		"\tVP\n" +
		"\t\tVerb\n" +
		"\t\t\tcalled\n" +
		"\t\tNP\n" +
		"\t\t\tNoun\n" +
		"\t\t\t\tMary\n"

	// execute
	trees, err := Extract(g, charts)

	// assert
	if !assert.NoError(err) {
		return
	}
	if !assert.Len(trees, 1) {
		return
	}
	assert.Equal(expect, trees[0].String())
}

func Test_Extract_LeavesMatchInput(t *testing.T) {
	testCases := []struct {
		name  string
		g     grammar.Grammar
		input string
	}{
		{name: "simple", g: grammar.Simple(), input: "John called Mary from Denver"},
		{name: "differing case", g: grammar.Simple(), input: "JOHN Called mary FROM denver"},
		{name: "extended", g: grammar.Extended(), input: "John called the Police from Denver"},
		{name: "homographs", g: grammar.Homographs(), input: "wang fanyi zai fanyi xiaoshuo"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			tokens := strings.Fields(tc.input)
			charts := parse(tc.g, tc.input)

			// execute
			trees, err := Extract(tc.g, charts)

			// assert
			assert.NoError(err)
			assert.NotEmpty(trees)
			for _, tr := range trees {
				leaves := tr.Leaves()
				if !assert.Len(leaves, len(tokens)) {
					continue
				}
				for i := range tokens {
					assert.Truef(strings.EqualFold(tokens[i], leaves[i]), "leaf %d: %q does not match token %q", i, leaves[i], tokens[i])
				}
				assert.Equal(tc.g.StartSymbol(), tr.Value)
			}
		})
	}
}

func Test_Extract_NoDuplicates(t *testing.T) {
	assert := assert.New(t)

	// setup
	g := grammar.Extended()
	charts := parse(g, "old men and women like the dogs from Denver")

	// execute
	trees, err := Extract(g, charts)

	// assert
	assert.NoError(err)
	assert.NotEmpty(trees)
	seen := map[string]bool{}
	for _, tr := range trees {
		key := tr.Bracketed()
		assert.Falsef(seen[key], "tree produced more than once: %s", key)
		seen[key] = true
	}
}

func Test_Extract_Deterministic(t *testing.T) {
	assert := assert.New(t)

	// setup
	g := grammar.Extended()
	input := "John called the Police from Denver"

	// execute
	first, err1 := Extract(g, parse(g, input))
	second, err2 := Extract(g, parse(g, input))

	// assert
	assert.NoError(err1)
	assert.NoError(err2)
	if !assert.Len(second, len(first)) {
		return
	}
	for i := range first {
		assert.True(first[i].Equal(second[i]), "tree %d differs between runs", i)
	}
}

func Test_Extract_MaxTrees(t *testing.T) {
	assert := assert.New(t)

	// setup
	g := grammar.Simple()
	charts := parse(g, "John called Mary from Denver")

	// execute
	trees, err := Extract(g, charts, MaxTrees(1))

	// assert
	assert.NoError(err)
	assert.Len(trees, 1)
}

func Test_Extract_MaxSteps(t *testing.T) {
	assert := assert.New(t)

	// setup
	g := grammar.Simple()
	charts := parse(g, "John called Mary from Denver")

	// execute
	trees, err := Extract(g, charts, MaxSteps(5))

	// assert
	assert.ErrorIs(err, ErrStepLimit)
	assert.Empty(trees)
}

func Test_Extractor_Next(t *testing.T) {
	assert := assert.New(t)

	// setup
	g := grammar.Simple()
	charts := parse(g, "John called Mary from Denver")
	ext := NewExtractor(g, charts)

	// execute
	first, ok1 := ext.Next()
	second, ok2 := ext.Next()
	_, ok3 := ext.Next()

	// assert
	assert.True(ok1)
	assert.True(ok2)
	assert.False(ok3)
	assert.False(first.Equal(second))
	assert.NoError(ext.Err())
	assert.Greater(ext.Steps(), 0)
}

// buildScanCharts returns hand-built charts for the one-word sentence "dogs"
// in which the scanned Noun item is credited to the two predictions given.
func buildScanCharts(predicted ...string) []*chart.Chart {
	initial := chart.InitialItem("S")

	charts := []*chart.Chart{{}, {}}
	charts[0].Add(initial)

	var preds []*chart.Item
	for _, lhs := range predicted {
		p := chart.NewItem(lhs, chart.NewDottedProductionAt(0, "Noun"), 0, 0, initial)
		preds = append(preds, charts[0].Add(p))
	}

	noun := charts[1].Add(chart.NewItem("Noun", chart.NewDottedProductionAt(1, "dogs"), 0, 1, preds...))
	sentence := charts[1].Add(chart.NewItem("S", chart.NewDottedProductionAt(1, "Noun"), 0, 1, noun))
	charts[1].Add(chart.NewItem(chart.AugmentedStart, chart.NewDottedProductionAt(1, "S"), 0, 1, sentence))

	return charts
}

func Test_Extract_ScanSourceSelection(t *testing.T) {
	testCases := []struct {
		name      string
		predicted []string
		expect    []string
	}{
		{
			name:      "consistent source is selected",
			predicted: []string{"X", "S"},
			expect:    []string{"[S [Noun dogs]]"},
		},
		{
			name:      "no consistent source abandons the path",
			predicted: []string{"X", "Y"},
			expect:    nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			g := grammar.MustParse("S -> Noun ; X -> Noun ; Y -> Noun ; Noun -> dogs ; %pos Noun ;")
			charts := buildScanCharts(tc.predicted...)

			// execute
			trees, err := Extract(g, charts)

			// assert
			assert.NoError(err)
			var actual []string
			for _, tr := range trees {
				actual = append(actual, tr.Bracketed())
			}
			assert.Equal(tc.expect, actual)
		})
	}
}
