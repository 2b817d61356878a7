package grammar

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"
)

// ParseEBNF reads a grammar written in the EBNF notation understood by
// golang.org/x/exp/ebnf and converts it to a Grammar with the given start
// symbol. If start is empty, DefaultStart is used.
//
// A production whose alternatives are all single tokens becomes a part of
// speech, with each token a word it matches:
//
//	Noun = "John" | "Mary" .
//
// A token used anywhere else is lifted into its own part of speech named by
// the quoted token, so `Conj = NP "and" NP .` gets a rule `"and" -> and`.
// Groups and options are expanded in place. Repetitions become a synthesized
// right-recursive nonterminal. Synthesized rules are placed right after the
// production that first needs them. Character ranges are not supported, and no
// production may be able to derive the empty sequence.
func ParseEBNF(filename string, src io.Reader, start string) (Grammar, error) {
	if start == "" {
		start = DefaultStart
	}

	eg, err := ebnf.Parse(filename, src)
	if err != nil {
		return Grammar{}, err
	}
	if err := ebnf.Verify(eg, start); err != nil {
		return Grammar{}, err
	}

	conv := ebnfConverter{g: Grammar{Start: start}}

	// rules go in the order they are reached from the start symbol so the
	// result is stable across runs.
	order := []string{start}
	seen := map[string]bool{start: true}
	for i := 0; i < len(order); i++ {
		prod := eg[order[i]]
		for _, ref := range referencedNames(prod.Expr) {
			if !seen[ref] {
				seen[ref] = true
				order = append(order, ref)
			}
		}
	}

	for _, name := range order {
		if err := conv.convertProduction(eg[name]); err != nil {
			return Grammar{}, err
		}
	}

	return conv.g, nil
}

// synthRule is a rule made up while converting a production: a lifted token
// or a repetition helper.
type synthRule struct {
	name string
	alts [][]string
	pos  bool
}

type ebnfConverter struct {
	g       Grammar
	repeats int

	// rules synthesized for the production being converted. They are added
	// right after it.
	pending []synthRule
	lifted  map[string]bool
}

func (c *ebnfConverter) convertProduction(p *ebnf.Production) error {
	name := p.Name.String

	if words, ok := tokenAlternatives(p.Expr); ok {
		for _, w := range words {
			if err := checkSymbol(w); err != nil {
				return fmt.Errorf("%s: %w", p.Pos(), err)
			}
			c.g.AddRule(name, []string{w})
		}
		c.g.AddPartOfSpeech(name)
		return nil
	}

	c.pending = nil
	alts, err := c.alternatives(p.Expr, name)
	if err != nil {
		return fmt.Errorf("%s: production %s: %w", p.Pos(), name, err)
	}
	if err := c.addAlternatives(name, alts); err != nil {
		return err
	}

	for _, r := range c.pending {
		if err := c.addAlternatives(r.name, r.alts); err != nil {
			return err
		}
		if r.pos {
			c.g.AddPartOfSpeech(r.name)
		}
	}
	c.pending = nil
	return nil
}

func (c *ebnfConverter) addAlternatives(name string, alts [][]string) error {
	for _, alt := range alts {
		if len(alt) < 1 {
			return fmt.Errorf("production %s can derive the empty sequence, which is not supported", name)
		}
		if err := checkProduction(alt); err != nil {
			return fmt.Errorf("production %s: %w", name, err)
		}
		c.g.AddRule(name, alt)
	}
	return nil
}

// alternatives expands expr into every sequence of symbols it can stand for.
// owner is the production being converted, used to name synthesized rules.
func (c *ebnfConverter) alternatives(expr ebnf.Expression, owner string) ([][]string, error) {
	switch e := expr.(type) {
	case nil:
		return [][]string{{}}, nil
	case ebnf.Alternative:
		var all [][]string
		for _, sub := range e {
			subAlts, err := c.alternatives(sub, owner)
			if err != nil {
				return nil, err
			}
			all = append(all, subAlts...)
		}
		return all, nil
	case ebnf.Sequence:
		product := [][]string{{}}
		for _, sub := range e {
			subAlts, err := c.alternatives(sub, owner)
			if err != nil {
				return nil, err
			}
			var next [][]string
			for _, prefix := range product {
				for _, suffix := range subAlts {
					combined := make([]string, 0, len(prefix)+len(suffix))
					combined = append(combined, prefix...)
					combined = append(combined, suffix...)
					next = append(next, combined)
				}
			}
			product = next
		}
		return product, nil
	case *ebnf.Name:
		return [][]string{{e.String}}, nil
	case *ebnf.Token:
		name, err := c.liftToken(e.String)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Pos(), err)
		}
		return [][]string{{name}}, nil
	case *ebnf.Group:
		return c.alternatives(e.Body, owner)
	case *ebnf.Option:
		bodyAlts, err := c.alternatives(e.Body, owner)
		if err != nil {
			return nil, err
		}
		return append([][]string{{}}, bodyAlts...), nil
	case *ebnf.Repetition:
		bodyAlts, err := c.alternatives(e.Body, owner)
		if err != nil {
			return nil, err
		}
		c.repeats++
		repName := fmt.Sprintf("%s_rep%d", owner, c.repeats)
		var repAlts [][]string
		for _, alt := range bodyAlts {
			repAlts = append(repAlts, alt)
			recursive := append(append([]string{}, alt...), repName)
			repAlts = append(repAlts, recursive)
		}
		c.pending = append(c.pending, synthRule{name: repName, alts: repAlts})
		return [][]string{{}, {repName}}, nil
	case *ebnf.Range:
		return nil, fmt.Errorf("%s: character ranges are not supported", e.Pos())
	default:
		return nil, fmt.Errorf("%s: unsupported expression", expr.Pos())
	}
}

// liftToken returns the part of speech standing for a literal word. The first
// time a word is seen its rule is queued to follow the production using it.
func (c *ebnfConverter) liftToken(word string) (string, error) {
	if err := checkSymbol(word); err != nil {
		return "", err
	}
	name := strconv.Quote(word)
	if c.lifted == nil {
		c.lifted = map[string]bool{}
	}
	if !c.lifted[name] {
		c.lifted[name] = true
		c.pending = append(c.pending, synthRule{name: name, alts: [][]string{{word}}, pos: true})
	}
	return name, nil
}

// tokenAlternatives returns the words of expr if expr is a single token or an
// alternative of single tokens.
func tokenAlternatives(expr ebnf.Expression) ([]string, bool) {
	switch e := expr.(type) {
	case *ebnf.Token:
		return []string{e.String}, true
	case ebnf.Alternative:
		words := make([]string, 0, len(e))
		for _, sub := range e {
			tok, ok := sub.(*ebnf.Token)
			if !ok {
				return nil, false
			}
			words = append(words, tok.String)
		}
		return words, true
	}
	return nil, false
}

// referencedNames returns the names of productions used in expr, in order of
// first appearance.
func referencedNames(expr ebnf.Expression) []string {
	var names []string
	seen := map[string]bool{}

	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case ebnf.Alternative:
			for _, sub := range e {
				walk(sub)
			}
		case ebnf.Sequence:
			for _, sub := range e {
				walk(sub)
			}
		case *ebnf.Name:
			if !seen[e.String] {
				seen[e.String] = true
				names = append(names, e.String)
			}
		case *ebnf.Group:
			walk(e.Body)
		case *ebnf.Option:
			walk(e.Body)
		case *ebnf.Repetition:
			walk(e.Body)
		}
	}
	walk(expr)

	return names
}

// EBNF renders the grammar in the EBNF notation read by ParseEBNF. Parts of
// speech are written as alternatives of tokens, and parts of speech that were
// lifted from a literal token are written back inline as that token.
func (g Grammar) EBNF() string {
	var sb strings.Builder
	for _, r := range g.rules {
		if g.isLiftedToken(r.NonTerminal) {
			continue
		}

		sb.WriteString(r.NonTerminal)
		sb.WriteString(" = ")
		isPOS := g.IsPartOfSpeech(r.NonTerminal)
		for i, p := range r.Productions {
			if i > 0 {
				sb.WriteString(" | ")
			}
			if isPOS && len(p) == 1 {
				sb.WriteString(strconv.Quote(p[0]))
				continue
			}
			for j, sym := range p {
				if j > 0 {
					sb.WriteRune(' ')
				}
				if g.isLiftedToken(sym) {
					sb.WriteString(strconv.Quote(g.Rule(sym).Productions[0][0]))
				} else {
					sb.WriteString(sym)
				}
			}
		}
		sb.WriteString(" .\n")
	}
	return sb.String()
}

func (g Grammar) isLiftedToken(sym string) bool {
	r := g.Rule(sym)
	if r.NonTerminal == "" || len(r.Productions) != 1 || len(r.Productions[0]) != 1 {
		return false
	}
	return sym == strconv.Quote(r.Productions[0][0]) && g.IsPartOfSpeech(sym)
}
