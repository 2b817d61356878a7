// Package chart implements the chart-construction half of an Earley parser.
// A Parser fills one Chart per input position with Items, each recording which
// earlier Items justify it, so that every derivation of the input can later be
// recovered from the charts.
package chart

import (
	"github.com/dekarrin/earley/internal/util"
	"github.com/tliron/commonlog"
	"golang.org/x/text/cases"
)

// AugmentedStart is the left-hand symbol of the item that seeds every parse.
const AugmentedStart = "$"

// Grammar is the grammar a Parser recognizes input with.
type Grammar interface {
	// Alternatives returns every right-hand side of the given nonterminal.
	// Each is a non-empty sequence of symbols. It returns an empty result if
	// the nonterminal is not defined.
	Alternatives(nonterminal string) [][]string

	// IsPartOfSpeech returns whether the symbol is a part-of-speech category,
	// that is, a nonterminal whose alternatives are single words matched
	// directly against input tokens.
	IsPartOfSpeech(symbol string) bool

	// StartSymbol returns the nonterminal that a complete parse derives.
	StartSymbol() string
}

// Parser builds Earley charts for token sequences using a Grammar. A Parser
// keeps no state between calls to Parse, but a single Parse call must not be
// run concurrently with itself on the same charts.
type Parser struct {
	g Grammar

	// Log receives diagnostics about the grammar found while parsing. It
	// defaults to the "earley.chart" logger.
	Log commonlog.Logger
}

// NewParser returns a Parser for the given grammar.
func NewParser(g Grammar) *Parser {
	return &Parser{
		g:   g,
		Log: commonlog.GetLogger("earley.chart"),
	}
}

// Grammar returns the grammar used by the parser.
func (p *Parser) Grammar() Grammar {
	return p.g
}

// InitialItem returns the item that seeds a parse for the given start symbol,
// "$ -> @ S" over the empty span at position 0.
func InitialItem(start string) *Item {
	return NewItem(AugmentedStart, NewDottedProductionAt(0, start), 0, 0)
}

// AcceptingItem returns the item whose presence in the last chart means a
// parse of n tokens succeeded, "$ -> S @" over the span [0, n).
func AcceptingItem(start string, n int) *Item {
	return NewItem(AugmentedStart, NewDottedProductionAt(1, start), 0, n)
}

// Accepting returns the accepting item of charts for the given start symbol,
// if the last chart contains one.
func Accepting(charts []*Chart, start string) (*Item, bool) {
	if len(charts) < 1 {
		return nil, false
	}
	return charts[len(charts)-1].Find(AcceptingItem(start, len(charts)-1))
}

// Parse runs the Earley algorithm over tokens and returns whether the tokens
// form a sentence of the grammar, along with the len(tokens)+1 charts that
// were built. Tokens are matched against the words of parts of speech without
// regard to case.
//
// An empty token sequence is never accepted, as every alternative of a
// grammar has at least one symbol.
func (p *Parser) Parse(tokens []string) (accepted bool, charts []*Chart) {
	run := parseRun{
		Parser:    p,
		fold:      cases.Fold(),
		tokens:    make([]string, len(tokens)),
		charts:    make([]*Chart, len(tokens)+1),
		undefined: util.NewStringSet(),
	}
	for i := range tokens {
		run.tokens[i] = run.fold.String(tokens[i])
	}
	for i := range run.charts {
		run.charts[i] = &Chart{}
	}

	start := p.g.StartSymbol()
	run.charts[0].Add(InitialItem(start))

	for i := 0; i < len(run.charts); i++ {
		cur := run.charts[i]

		// cur.Len() grows while its items are processed; items appended here
		// must be processed too.
		for j := 0; j < cur.Len(); j++ {
			item := cur.MustGet(j)
			prod := item.Production()

			if prod.CursorAtEnd() {
				run.complete(item)
			} else if p.g.IsPartOfSpeech(prod.SymbolAfterCursor()) {
				run.scan(item)
			} else {
				run.predict(item)
			}
		}
	}

	_, accepted = Accepting(run.charts, start)
	return accepted, run.charts
}

type parseRun struct {
	*Parser
	fold      cases.Caser
	tokens    []string
	charts    []*Chart
	undefined util.StringSet
}

// predict adds "B -> @ γ" at [j, j) for every alternative γ of the
// nonterminal B after the cursor of item.
func (run *parseRun) predict(item *Item) {
	next := item.Production().SymbolAfterCursor()
	j := item.End()

	alts := run.alternatives(next)
	for _, alt := range alts {
		predicted := NewItem(next, NewDottedProduction(alt...).WithCursorPrepended(), j, j, item)
		run.charts[j].Add(predicted)
	}
}

// scan adds "B -> w @" at [j, j+1) for every single-word alternative w of the
// part of speech B after the cursor of item that matches token j.
func (run *parseRun) scan(item *Item) {
	next := item.Production().SymbolAfterCursor()
	j := item.End()

	if j >= len(run.tokens) {
		return
	}

	alts := run.alternatives(next)
	for _, alt := range alts {
		if len(alt) != 1 {
			continue
		}
		if run.fold.String(alt[0]) != run.tokens[j] {
			continue
		}

		scanned := NewItem(next, NewDottedProduction(alt...).WithCursorAppended(), j, j+1, item)
		run.charts[j+1].Add(scanned)
	}
}

// complete advances every item in chart i waiting on the left-hand symbol of
// the completed item over [i, j), adding the result to chart j with the
// completed item as its source.
func (run *parseRun) complete(item *Item) {
	lhs := item.LHS()
	i := item.Start()
	j := item.End()

	origin := run.charts[i]
	for k := 0; k < origin.Len(); k++ {
		waiting := origin.MustGet(k)
		if waiting.Production().SymbolAfterCursor() != lhs {
			continue
		}

		advanced := NewItem(waiting.LHS(), waiting.Production().AdvanceCursor(), waiting.Start(), j, item)
		run.charts[j].Add(advanced)
	}
}

func (run *parseRun) alternatives(nonterminal string) [][]string {
	alts := run.g.Alternatives(nonterminal)
	if len(alts) == 0 && !run.undefined.Has(nonterminal) {
		run.undefined.Add(nonterminal)
		run.Log.Debugf("symbol %q has no alternatives in the grammar; it derives nothing", nonterminal)
	}
	return alts
}
