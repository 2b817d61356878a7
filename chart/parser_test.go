package chart

import (
	"strings"
	"testing"

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

func Test_Parser_Parse(t *testing.T) {
	testCases := []struct {
		name         string
		grammar      grammar.Grammar
		input        string
		expectAccept bool
	}{
		{
			name:         "round trip sentence",
			grammar:      grammar.MustParse(roundTripGrammar),
			input:        "John called Mary",
			expectAccept: true,
		},
		{
			name:         "terminals match regardless of case",
			grammar:      grammar.MustParse(roundTripGrammar),
			input:        "JOHN called mary",
			expectAccept: true,
		},
		{
			name:    "out of vocabulary word",
			grammar: grammar.MustParse(roundTripGrammar),
			input:   "John called Bob",
		},
		{
			name:    "incomplete sentence",
			grammar: grammar.MustParse(roundTripGrammar),
			input:   "John called",
		},
		{
			name:    "trailing tokens",
			grammar: grammar.MustParse(roundTripGrammar),
			input:   "John called Mary Mary",
		},
		{
			name:    "empty input",
			grammar: grammar.MustParse(roundTripGrammar),
			input:   "",
		},
		{
			name:    "undefined nonterminal derives nothing",
			grammar: grammar.MustParse("S -> NP VP ; NP -> Noun ; Noun -> John ; %pos Noun ;"),
			input:   "John",
		},
		{
			name:         "ambiguous attachment",
			grammar:      grammar.Simple(),
			input:        "John called Mary from Denver",
			expectAccept: true,
		},
		{
			name:         "extended grammar",
			grammar:      grammar.Extended(),
			input:        "old men and women like dogs",
			expectAccept: true,
		},
		{
			name:         "homographs",
			grammar:      grammar.Homographs(),
			input:        "wang fanyi zai fanyi xiaoshuo",
			expectAccept: true,
		},
		{
			name:         "custom start symbol",
			grammar:      grammar.MustParse("%start Top ; Top -> Noun Verb ; Noun -> dogs ; Verb -> bark ;"),
			input:        "dogs bark",
			expectAccept: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)
			p := NewParser(tc.grammar)
			tokens := strings.Fields(tc.input)

			// execute
			accepted, charts := p.Parse(tokens)

			// assert
			assert.Equal(tc.expectAccept, accepted)
			assert.Len(charts, len(tokens)+1)
			_, found := Accepting(charts, tc.grammar.StartSymbol())
			assert.Equal(tc.expectAccept, found)
		})
	}
}

func Test_Parser_Parse_Charts(t *testing.T) {
	// setup
	assert := assert.New(t)
	p := NewParser(grammar.MustParse(roundTripGrammar))

	// execute
	accepted, charts := p.Parse([]string{"John", "called", "Mary"})

	// assert
	assert.True(accepted)
	expect := []string{
		"$\t-> @ S\t[0, 0]\n" +
			"S\t-> @ NP VP\t[0, 0]\n" +
			"NP\t-> @ Noun\t[0, 0]\n",

		"Noun\t-> John @\t[0, 1]\n" +
			"NP\t-> Noun @\t[0, 1]\n" +
			"S\t-> NP @ VP\t[0, 1]\n" +
			"VP\t-> @ Verb NP\t[1, 1]\n",

		"Verb\t-> called @\t[1, 2]\n" +
			"VP\t-> Verb @ NP\t[1, 2]\n" +
			"NP\t-> @ Noun\t[2, 2]\n",

		"Noun\t-> Mary @\t[2, 3]\n" +
			"NP\t-> Noun @\t[2, 3]\n" +
			"VP\t-> Verb NP @\t[1, 3]\n" +
			"S\t-> NP VP @\t[0, 3]\n" +
			"$\t-> S @\t[0, 3]\n",
	}
	if !assert.Len(charts, len(expect)) {
		return
	}
	for i := range expect {
		assert.Equal(expect[i], charts[i].String(), "chart %d", i)
	}
}

func Test_Parser_Parse_Sources(t *testing.T) {
	// setup
	assert := assert.New(t)
	p := NewParser(grammar.MustParse(roundTripGrammar))

	// execute
	_, charts := p.Parse([]string{"John", "called", "Mary"})

	// assert
	scanned := charts[1].MustGet(0)
	assert.Equal("Noun\t-> John @\t[0, 1]", scanned.String())
	if assert.Equal(1, scanned.NumSources()) {
		assert.Equal("NP\t-> @ Noun\t[0, 0]", scanned.Sources()[0].String())
	}

	// the completed item, not the advanced one, is the source of a completion
	completed := charts[1].MustGet(1)
	assert.Equal("NP\t-> Noun @\t[0, 1]", completed.String())
	if assert.Equal(1, completed.NumSources()) {
		assert.Same(scanned, completed.Sources()[0])
	}

	predicted := charts[0].MustGet(1)
	assert.Equal("S\t-> @ NP VP\t[0, 0]", predicted.String())
	if assert.Equal(1, predicted.NumSources()) {
		assert.Same(charts[0].MustGet(0), predicted.Sources()[0])
	}
}

func Test_Parser_Parse_MergesAmbiguousSources(t *testing.T) {
	// setup
	assert := assert.New(t)
	g := grammar.Simple()
	p := NewParser(g)

	// execute
	accepted, charts := p.Parse([]string{"John", "called", "Mary", "from", "Denver"})

	// assert
	if !assert.True(accepted) {
		return
	}
	accept, _ := Accepting(charts, g.StartSymbol())
	if !assert.Equal(1, accept.NumSources()) {
		return
	}
	sentence := accept.Sources()[0]
	assert.Equal("S\t-> NP VP @\t[0, 5]", sentence.String())

	var srcs []string
	for _, src := range sentence.Sources() {
		srcs = append(srcs, src.String())
	}
	assert.ElementsMatch([]string{
		"VP\t-> Verb NP @\t[1, 5]",
		"VP\t-> VP PP @\t[1, 5]",
	}, srcs)
}

func Test_Parser_Parse_NoDuplicateItems(t *testing.T) {
	assert := assert.New(t)
	p := NewParser(grammar.Extended())

	_, charts := p.Parse(strings.Fields("John called the Police from Denver"))

	for i, c := range charts {
		seen := map[string]bool{}
		for _, it := range c.Items() {
			assert.False(seen[it.Key()], "chart %d has duplicate item %s", i, it)
			seen[it.Key()] = true
		}
	}
}

func Test_Parser_Parse_EmptyInput(t *testing.T) {
	assert := assert.New(t)
	p := NewParser(grammar.MustParse(roundTripGrammar))

	accepted, charts := p.Parse(nil)

	assert.False(accepted)
	if assert.Len(charts, 1) {
		assert.Equal(3, charts[0].Len())
	}
}

func Test_Render(t *testing.T) {
	assert := assert.New(t)
	p := NewParser(grammar.MustParse(roundTripGrammar))
	_, charts := p.Parse([]string{"John"})

	actual := Render(charts)

	assert.True(strings.HasPrefix(actual, "Chart 0:\n$\t-> @ S\t[0, 0]\n"))
	assert.Contains(actual, "Chart 1:\nNoun\t-> John @\t[0, 1]\n")
}
