package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/earley"
	"github.com/dekarrin/earley/grammar"
	"github.com/dekarrin/earley/internal/gramfile"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func useGrammar(t *testing.T, path string) {
	viper.Set("grammar", path)
	t.Cleanup(func() { viper.Set("grammar", "") })
}

func Test_loadBundle(t *testing.T) {
	testCases := []struct {
		name        string
		path        string
		expect      grammar.Grammar
		expectNumSm int
		expectErr   bool
	}{
		{
			name:   "no path gives built-in grammar",
			path:   "",
			expect: grammar.Simple(),
		},
		{
			name:        "egf file",
			path:        filepath.Join("..", "..", "testdata", "simple.egf"),
			expect:      grammar.Simple(),
			expectNumSm: 2,
		},
		{
			name:      "missing file",
			path:      filepath.Join("..", "..", "testdata", "nope.egf"),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			useGrammar(t, tc.path)

			// execute
			actual, err := loadBundle()

			// assert
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.True(tc.expect.Equal(actual.Grammar), "grammars not equal:\nexpected: %s\nactual:   %s", tc.expect, actual.Grammar)
			assert.Len(actual.Samples, tc.expectNumSm)
		})
	}
}

func Test_encodeBundle_reloads(t *testing.T) {
	testCases := []struct {
		name   string
		format string
		file   string
	}{
		{name: "binary", format: "binary", file: "g.egb"},
		{name: "egf", format: "egf", file: "g.egf"},
		{name: "text", format: "text", file: "g.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			b := gramfile.Bundle{Grammar: grammar.Simple()}
			path := filepath.Join(t.TempDir(), tc.file)

			// execute
			data, err := encodeBundle(b, tc.format)
			if !assert.NoError(err) {
				return
			}
			if !assert.NoError(os.WriteFile(path, data, 0644)) {
				return
			}
			useGrammar(t, path)
			actual, err := loadBundle()

			// assert
			if !assert.NoError(err) {
				return
			}
			assert.True(b.Grammar.Equal(actual.Grammar), "grammars not equal:\nexpected: %s\nactual:   %s", b.Grammar, actual.Grammar)
		})
	}
}

func Test_encodeBundle_unknownFormat(t *testing.T) {
	_, err := encodeBundle(gramfile.Bundle{Grammar: grammar.Simple()}, "yaml")
	assert.Error(t, err)
}

func Test_renderResult(t *testing.T) {
	testCases := []struct {
		name     string
		sentence string
		style    string
		expect   []string
	}{
		{
			name:     "rejected",
			sentence: "Mary called",
			style:    "outline",
			expect:   []string{"is not accepted by the grammar"},
		},
		{
			name:     "ambiguous in brackets",
			sentence: "John called Mary from Denver",
			style:    "bracket",
			expect: []string{
				"accepted with 2 parse trees",
				"[S [NP [Noun John]] [VP [VP [Verb called] [NP [Noun Mary]]] [PP [Prep from] [NP [Noun Denver]]]]]",
				"[S [NP [Noun John]] [VP [Verb called] [NP [NP [Noun Mary]] [PP [Prep from] [NP [Noun Denver]]]]]]",
			},
		},
		{
			name:     "single tree",
			sentence: "John called Mary",
			style:    "bracket",
			expect:   []string{"accepted with 1 parse tree.", "Parse Tree 0:"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			// setup
			res := earley.Parse(grammar.Simple(), tc.sentence)

			// execute
			actual := renderResult(res, tc.style)

			// assert
			for _, s := range tc.expect {
				assert.Contains(actual, s)
			}
		})
	}
}

func Test_runCheck(t *testing.T) {
	assert := assert.New(t)

	// setup
	useGrammar(t, filepath.Join("..", "..", "testdata", "simple.egf"))
	var out bytes.Buffer
	checkCmd.SetOut(&out)
	defer checkCmd.SetOut(nil)

	// execute
	err := runCheck(checkCmd, nil)

	// assert
	assert.NoError(err)
	assert.Contains(out.String(), "2 of 2 samples behaved as expected")
}

func Test_runCheck_noSamples(t *testing.T) {
	useGrammar(t, "")

	err := runCheck(checkCmd, nil)

	assert.Error(t, err)
}
