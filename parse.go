package earley

import (
	"errors"

	"github.com/dekarrin/earley/chart"
	"github.com/dekarrin/earley/forest"
	"github.com/dekarrin/earley/grammar"
	"github.com/dekarrin/earley/internal/sentence"
)

// Result is the outcome of parsing a single sentence.
type Result struct {
	// Tokens is the tokens that were parsed.
	Tokens []string

	// Accepted is whether the grammar derives the tokens.
	Accepted bool

	// Charts holds one chart per input position, plus one.
	Charts []*chart.Chart

	// Trees is every distinct parse tree of the sentence, subject to any
	// limits given. It is empty if the sentence was not accepted.
	Trees []forest.Tree

	// Truncated is whether tree extraction stopped at its step limit before
	// every tree was found.
	Truncated bool
}

// Parse tokenizes s and parses it with g. See ParseTokens.
func Parse(g grammar.Grammar, s string, opts ...forest.Option) Result {
	return ParseTokens(g, sentence.Tokenize(s), opts...)
}

// ParseTokens builds the charts for tokens using g and, if the tokens are
// accepted, extracts their parse trees. Limits on extraction are given with
// opts.
func ParseTokens(g grammar.Grammar, tokens []string, opts ...forest.Option) Result {
	res := Result{Tokens: tokens}
	res.Accepted, res.Charts = chart.NewParser(g).Parse(tokens)
	if !res.Accepted {
		return res
	}

	trees, err := forest.Extract(g, res.Charts, opts...)
	res.Trees = trees
	res.Truncated = errors.Is(err, forest.ErrStepLimit)
	return res
}

// Sentence returns the tokens as a sentence.
func (r Result) Sentence() string {
	return sentence.Format(r.Tokens)
}
