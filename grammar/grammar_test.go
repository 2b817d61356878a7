package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectRules []Rule
		expectStart string
		expectPOS   []string
		expectErr   bool
	}{
		{
			name:        "empty grammar",
			input:       "",
			expectStart: "S",
		},
		{
			name:  "single rule",
			input: "S -> a b ;",
			expectRules: []Rule{
				{NonTerminal: "S", Productions: []Production{{"a", "b"}}},
			},
			expectStart: "S",
		},
		{
			name: "alternatives across statements are merged",
			input: `
				S -> NP VP ;
				NP -> Noun | NP PP ;
				NP -> Article Noun ;
			`,
			expectRules: []Rule{
				{NonTerminal: "S", Productions: []Production{{"NP", "VP"}}},
				{NonTerminal: "NP", Productions: []Production{{"Noun"}, {"NP", "PP"}, {"Article", "Noun"}}},
			},
			expectStart: "S",
		},
		{
			name: "directives and comments",
			input: `
				# sentences
				%start Sentence ;
				Sentence -> Noun Verb ; # trailing
				Noun -> dogs ;
				Verb -> bark ;
				%pos Noun Verb ;
			`,
			expectRules: []Rule{
				{NonTerminal: "Sentence", Productions: []Production{{"Noun", "Verb"}}},
				{NonTerminal: "Noun", Productions: []Production{{"dogs"}}},
				{NonTerminal: "Verb", Productions: []Production{{"bark"}}},
			},
			expectStart: "Sentence",
			expectPOS:   []string{"Noun", "Verb"},
		},
		{
			name:      "missing arrow",
			input:     "S NP VP ;",
			expectErr: true,
		},
		{
			name:      "empty alternative",
			input:     "S -> NP | ;",
			expectErr: true,
		},
		{
			name:      "augmented start cannot be a nonterminal",
			input:     "$ -> S ;",
			expectErr: true,
		},
		{
			name:      "dot cannot be a symbol",
			input:     "S -> NP @ VP ;",
			expectErr: true,
		},
		{
			name:      "unknown directive",
			input:     "%lexicon Noun ;",
			expectErr: true,
		},
		{
			name:      "start directive with two symbols",
			input:     "%start S T ;",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)

			// execute
			actual, err := Parse(tc.input)

			// assert
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			if tc.expectRules == nil {
				assert.Empty(actual.Rules())
			} else {
				assert.Equal(tc.expectRules, actual.Rules())
			}
			assert.Equal(tc.expectStart, actual.StartSymbol())
			assert.Equal(tc.expectPOS, actual.DeclaredPartsOfSpeech())
		})
	}
}

func Test_Grammar_IsPartOfSpeech(t *testing.T) {
	testCases := []struct {
		name   string
		g      Grammar
		sym    string
		expect bool
	}{
		{
			name:   "inferred lexical rule",
			g:      MustParse("S -> Noun ; Noun -> dogs | cats ;"),
			sym:    "Noun",
			expect: true,
		},
		{
			name:   "unit rule to nonterminal is not inferred",
			g:      MustParse("S -> NP ; NP -> Noun ; Noun -> dogs ;"),
			sym:    "NP",
			expect: false,
		},
		{
			name:   "rule with a multi-symbol alternative is not inferred",
			g:      MustParse("S -> Noun ; Noun -> dogs | big dogs ;"),
			sym:    "Noun",
			expect: false,
		},
		{
			name:   "undefined symbol",
			g:      MustParse("S -> Noun ; Noun -> dogs ;"),
			sym:    "Verb",
			expect: false,
		},
		{
			name:   "declaration disables inference",
			g:      MustParse("S -> Noun Verb ; Noun -> dogs ; Verb -> bark ; %pos Noun ;"),
			sym:    "Verb",
			expect: false,
		},
		{
			name:   "declared part of speech",
			g:      MustParse("S -> Noun Verb ; Noun -> dogs ; Verb -> bark ; %pos Noun ;"),
			sym:    "Noun",
			expect: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.g.IsPartOfSpeech(tc.sym))
		})
	}
}

func Test_Grammar_Alternatives(t *testing.T) {
	assert := assert.New(t)
	g := Simple()

	assert.Equal([][]string{{"NP", "PP"}, {"Noun"}}, g.Alternatives("NP"))
	assert.Nil(g.Alternatives("Adj"))

	// returned slices do not alias the grammar
	alts := g.Alternatives("S")
	alts[0][0] = "XP"
	assert.Equal([][]string{{"NP", "VP"}}, g.Alternatives("S"))
}

func Test_Grammar_AddRule(t *testing.T) {
	assert := assert.New(t)
	var g Grammar

	g.AddRule("S", []string{"A"})
	g.AddRule("S", []string{"A"})
	g.AddRule("S", []string{"B", "C"})

	assert.Equal(Rule{NonTerminal: "S", Productions: []Production{{"A"}, {"B", "C"}}}, g.Rule("S"))
	assert.Panics(func() { g.AddRule("", []string{"A"}) })
	assert.Panics(func() { g.AddRule("S", nil) })
	assert.Panics(func() { g.AddRule("S", []string{"two words"}) })
}

func Test_Grammar_RemoveRule(t *testing.T) {
	assert := assert.New(t)
	g := Simple()

	g.RemoveRule("NP")

	assert.Equal([]string{"S", "VP", "PP", "Noun", "Verb", "Prep"}, g.NonTerminals())
	assert.Equal("", g.Rule("NP").NonTerminal)
	assert.Equal("PP", g.Rule("PP").NonTerminal)
	assert.Equal([][]string{{"Prep", "NP"}}, g.Alternatives("PP"))

	g.RemoveRule("Prep")
	assert.Equal([]string{"Noun", "Verb"}, g.DeclaredPartsOfSpeech())
}

func Test_Grammar_Words(t *testing.T) {
	assert := assert.New(t)
	g := Simple()

	assert.Equal([]string{"Noun", "Verb", "Prep"}, g.PartsOfSpeech())
	assert.Equal([]string{"Denver", "John", "Mary", "called", "from"}, g.Words())
}

func Test_Grammar_String_ParsesBack(t *testing.T) {
	testCases := []struct {
		name string
		g    Grammar
	}{
		{name: "simple", g: Simple()},
		{name: "extended", g: Extended()},
		{name: "custom start", g: MustParse("%start Top ; Top -> Noun ; Noun -> x ;")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)

			// execute
			actual, err := Parse(tc.g.String())

			// assert
			if !assert.NoError(err) {
				return
			}
			assert.True(tc.g.Equal(actual), "expected:\n%s\nactual:\n%s", tc.g.String(), actual.String())
		})
	}
}

func Test_Grammar_Table(t *testing.T) {
	assert := assert.New(t)
	g := MustParse("S -> Noun ; Noun -> dogs | cats ;")

	actual := g.Table()

	assert.Contains(actual, "NONTERMINAL")
	assert.Contains(actual, "dogs")
	assert.Contains(actual, "cats")
	assert.Contains(actual, "yes")
}

func Test_Grammar_Copy(t *testing.T) {
	assert := assert.New(t)
	g := Simple()

	cp := g.Copy()
	cp.AddRule("Noun", []string{"Alice"})
	cp.AddPartOfSpeech("Adj")

	assert.False(g.Equal(cp))
	assert.Equal([][]string{{"John"}, {"Mary"}, {"Denver"}}, g.Alternatives("Noun"))
	assert.Equal([]string{"Noun", "Prep", "Verb"}, g.DeclaredPartsOfSpeech())
}

func Test_Grammar_Merge(t *testing.T) {
	assert := assert.New(t)
	g := MustParse("S -> NP VP ; NP -> Noun ; %pos Noun ;")
	o := MustParse("%start X ; VP -> Verb NP ; Noun -> dogs ; Verb -> chase ; %pos Verb ;")

	g.Merge(o)

	assert.Equal("X", g.StartSymbol())
	assert.Equal([]string{"S", "NP", "VP", "Noun", "Verb"}, g.NonTerminals())
	assert.Equal([]string{"Noun", "Verb"}, g.DeclaredPartsOfSpeech())
}

func Test_Grammar_Binary(t *testing.T) {
	assert := assert.New(t)
	g := Extended()
	g.Start = "S"

	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var actual Grammar
	err = actual.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.True(g.Equal(actual))
	assert.Equal(g.NonTerminals(), actual.NonTerminals())
}

func Test_Grammar_UnmarshalBinary_Truncated(t *testing.T) {
	assert := assert.New(t)
	data, err := Simple().MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var actual Grammar
	err = actual.UnmarshalBinary(data[:len(data)/2])

	assert.Error(err)
}

func Test_ParseEBNF(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		start        string
		expectNTs    []string
		expectAlts   map[string][][]string
		expectPOS    []string
		expectNotPOS []string
		expectErr    bool
	}{
		{
			name: "tokens become parts of speech",
			input: `
				S = NP VP .
				NP = Noun | NP PP .
				VP = Verb NP .
				PP = "from" NP .
				Noun = "John" | "Mary" .
				Verb = "called" .
			`,
			expectNTs: []string{"S", "NP", "VP", "Noun", "PP", `"from"`, "Verb"},
			expectAlts: map[string][][]string{
				"NP":     {{"Noun"}, {"NP", "PP"}},
				"PP":     {{`"from"`, "NP"}},
				"Noun":   {{"John"}, {"Mary"}},
				`"from"`: {{"from"}},
			},
			expectPOS:    []string{"Noun", "Verb", `"from"`},
			expectNotPOS: []string{"S", "NP", "PP"},
		},
		{
			name: "option is expanded in place",
			input: `
				S = [ "the" ] Noun .
				Noun = "dogs" .
			`,
			expectAlts: map[string][][]string{
				"S": {{"Noun"}, {`"the"`, "Noun"}},
			},
		},
		{
			name: "repetition becomes a recursive rule",
			input: `
				S = Noun { Noun } .
				Noun = "dogs" .
			`,
			expectNTs: []string{"S", "S_rep1", "Noun"},
			expectAlts: map[string][][]string{
				"S":      {{"Noun"}, {"Noun", "S_rep1"}},
				"S_rep1": {{"Noun"}, {"Noun", "S_rep1"}},
			},
		},
		{
			name: "lifted token follows its first user only",
			input: `
				S = NP VP .
				NP = Noun | NP "and" NP .
				VP = Verb | VP "and" VP .
				Noun = "dogs" .
				Verb = "bark" .
			`,
			expectNTs: []string{"S", "NP", `"and"`, "VP", "Noun", "Verb"},
			expectAlts: map[string][][]string{
				"VP":    {{"Verb"}, {"VP", `"and"`, "VP"}},
				`"and"`: {{"and"}},
			},
			expectPOS: []string{`"and"`},
		},
		{
			name:  "custom start",
			start: "Top",
			input: `
				Top = Noun .
				Noun = "dogs" .
			`,
			expectAlts: map[string][][]string{
				"Top": {{"Noun"}},
			},
		},
		{
			name: "empty derivation",
			input: `
				S = [ Noun ] .
				Noun = "dogs" .
			`,
			expectErr: true,
		},
		{
			name: "undefined production",
			input: `
				S = Noun Verb .
				Noun = "dogs" .
			`,
			expectErr: true,
		},
		{
			name: "ranges are unsupported",
			input: `
				S = Noun Letter .
				Noun = "dogs" .
				Letter = "a" … "z" .
			`,
			expectErr: true,
		},
		{
			name:      "syntax error",
			input:     `S = Noun`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			assert := assert.New(t)

			// execute
			actual, err := ParseEBNF("test.ebnf", strings.NewReader(tc.input), tc.start)

			// assert
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			if tc.expectNTs != nil {
				assert.Equal(tc.expectNTs, actual.NonTerminals())
			}
			for nt, alts := range tc.expectAlts {
				assert.Equal(alts, actual.Alternatives(nt), "alternatives of %s", nt)
			}
			for _, pos := range tc.expectPOS {
				assert.True(actual.IsPartOfSpeech(pos), "%s should be a part of speech", pos)
			}
			for _, notPOS := range tc.expectNotPOS {
				assert.False(actual.IsPartOfSpeech(notPOS), "%s should not be a part of speech", notPOS)
			}
		})
	}
}

func Test_Grammar_EBNF_ParsesBack(t *testing.T) {
	assert := assert.New(t)
	input := `
		S = NP VP .
		NP = Noun | NP PP .
		VP = Verb NP .
		PP = "from" NP .
		Noun = "John" | "Mary" .
		Verb = "called" .
	`
	g, err := ParseEBNF("first.ebnf", strings.NewReader(input), "")
	if !assert.NoError(err) {
		return
	}

	actual, err := ParseEBNF("second.ebnf", strings.NewReader(g.EBNF()), "")
	if !assert.NoError(err) {
		return
	}

	assert.True(g.Equal(actual), "expected:\n%s\nactual:\n%s", g.String(), actual.String())
}
