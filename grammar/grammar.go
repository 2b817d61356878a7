// Package grammar holds the context-free grammars consumed by the Earley
// parser. A Grammar maps each nonterminal to its ordered alternatives and
// records which nonterminals are parts of speech, that is, categories whose
// alternatives are single words matched directly against input tokens.
package grammar

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dekarrin/earley/internal/util"
	"github.com/dekarrin/rosed"
)

const (
	// DefaultStart is the start symbol used when a Grammar does not name one.
	DefaultStart = "S"

	// AugmentedStart is the left-hand symbol of the synthetic item that seeds
	// every parse. It may not be used as a nonterminal.
	AugmentedStart = "$"

	// Dot is how the cursor of a dotted production is rendered. It may not be
	// used as a symbol.
	Dot = "@"
)

// Production is one alternative right-hand side of a rule: an ordered,
// non-empty sequence of symbols.
type Production []string

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)
	return p2
}

// Equal returns whether Production is equal to another value. It will not be
// equal if the other value cannot be cast to Production, *Production, or
// []string.
func (p Production) Equal(o any) bool {
	var other Production
	switch v := o.(type) {
	case Production:
		other = v
	case *Production:
		if v == nil {
			return false
		}
		other = *v
	case []string:
		other = Production(v)
	default:
		return false
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Production) String() string {
	return strings.Join(p, " ")
}

// HasSymbol returns whether the production has the given symbol in it.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, p)
}

// Rule is every alternative of a single nonterminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Copy returns a deep-copy duplicate of the given Rule.
func (r Rule) Copy() Rule {
	r2 := Rule{
		NonTerminal: r.NonTerminal,
		Productions: make([]Production, len(r.Productions)),
	}

	for i := range r.Productions {
		r2.Productions[i] = r.Productions[i].Copy()
	}

	return r2
}

func (r Rule) String() string {
	var sb strings.Builder

	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")

	for i := range r.Productions {
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" | ")
		}
	}

	return sb.String()
}

// Equal returns whether Rule is equal to another value. It will not be equal
// if the other value cannot be casted to a Rule or *Rule.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	return r.NonTerminal == other.NonTerminal && util.EqualSlices(r.Productions, other.Productions)
}

// HasProduction returns whether the rule has a production of the exact sequence
// of symbols entirely.
func (r Rule) HasProduction(prod Production) bool {
	for _, alt := range r.Productions {
		if alt.Equal(prod) {
			return true
		}
	}
	return false
}

// IsLexical returns whether every alternative of the rule is a single symbol.
func (r Rule) IsLexical() bool {
	if len(r.Productions) < 1 {
		return false
	}
	for _, alt := range r.Productions {
		if len(alt) != 1 {
			return false
		}
	}
	return true
}

// Grammar is a context-free grammar used by the Earley parser to build charts
// from a sequence of input tokens. The zero value is an empty grammar with a
// start symbol of DefaultStart.
type Grammar struct {
	rulesByName map[string]int

	// main rules store, not just doing a simple map bc
	// rules may have order that matters
	rules []Rule

	// explicitly declared parts of speech. when empty, parts of speech are
	// inferred; see IsPartOfSpeech.
	pos util.StringSet

	// name of the start symbol. If not set, assumed to be S.
	Start string
}

// Copy makes a duplicate deep copy of the grammar.
func (g Grammar) Copy() Grammar {
	g2 := Grammar{
		rulesByName: make(map[string]int, len(g.rulesByName)),
		rules:       make([]Rule, len(g.rules)),
		pos:         g.pos.Copy(),
		Start:       g.Start,
	}

	for k := range g.rulesByName {
		g2.rulesByName[k] = g.rulesByName[k]
	}

	for i := range g.rules {
		g2.rules[i] = g.rules[i].Copy()
	}

	return g2
}

// StartSymbol returns the start symbol of the grammar.
func (g Grammar) StartSymbol() string {
	if g.Start == "" {
		return DefaultStart
	}
	return g.Start
}

// Rule returns the grammar rule for the given nonterminal symbol. If there is
// no rule defined for that nonterminal, a Rule with an empty NonTerminal field
// is returned; else it will be the same string as the one passed in to the
// function.
func (g Grammar) Rule(nonterminal string) Rule {
	if g.rulesByName == nil {
		return Rule{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		return Rule{}
	}

	return g.rules[curIdx]
}

// Rules returns a copy of every rule in the grammar in definition order.
func (g Grammar) Rules() []Rule {
	rules := make([]Rule, len(g.rules))
	for i := range g.rules {
		rules[i] = g.rules[i].Copy()
	}
	return rules
}

// Alternatives returns the right-hand sides of every rule for the given
// nonterminal in definition order. If no rule is defined for it, nil is
// returned. The returned slices are copies and may be modified by the caller.
func (g Grammar) Alternatives(nonterminal string) [][]string {
	r := g.Rule(nonterminal)
	if r.NonTerminal == "" {
		return nil
	}

	alts := make([][]string, len(r.Productions))
	for i := range r.Productions {
		alts[i] = r.Productions[i].Copy()
	}
	return alts
}

// IsPartOfSpeech returns whether the given symbol is a part-of-speech category.
//
// If any part of speech has been declared with AddPartOfSpeech, only declared
// symbols are parts of speech. Otherwise, a symbol is a part of speech if it
// has a rule, every alternative of that rule is a single symbol, and none of
// those symbols has a rule of its own.
func (g Grammar) IsPartOfSpeech(symbol string) bool {
	if !g.pos.Empty() {
		return g.pos.Has(symbol)
	}

	r := g.Rule(symbol)
	if !r.IsLexical() {
		return false
	}
	for _, alt := range r.Productions {
		if g.Rule(alt[0]).NonTerminal != "" {
			return false
		}
	}
	return true
}

// AddPartOfSpeech declares the given nonterminal to be a part of speech. Once
// any part of speech is declared, inference of parts of speech is disabled.
func (g *Grammar) AddPartOfSpeech(nonterminal string) {
	if g.pos == nil {
		g.pos = util.NewStringSet()
	}
	g.pos.Add(nonterminal)
}

// DeclaredPartsOfSpeech returns the explicitly declared parts of speech in
// alphabetical order.
func (g Grammar) DeclaredPartsOfSpeech() []string {
	return g.pos.Elements()
}

// PartsOfSpeech returns every nonterminal that IsPartOfSpeech reports as a
// part of speech, in definition order.
func (g Grammar) PartsOfSpeech() []string {
	var pos []string
	for _, r := range g.rules {
		if g.IsPartOfSpeech(r.NonTerminal) {
			pos = append(pos, r.NonTerminal)
		}
	}
	return pos
}

// Words returns every word a part of speech can match, deduplicated and in
// alphabetical order.
func (g Grammar) Words() []string {
	words := util.NewStringSet()
	for _, nt := range g.PartsOfSpeech() {
		for _, alt := range g.Rule(nt).Productions {
			if len(alt) == 1 {
				words.Add(alt[0])
			}
		}
	}
	return words.Elements()
}

// NonTerminals returns list of all the non-terminal symbols, in definition
// order.
func (g Grammar) NonTerminals() []string {
	nts := make([]string, len(g.rules))
	for i := range g.rules {
		nts[i] = g.rules[i].NonTerminal
	}
	return nts
}

// AddRule adds the given production for a nonterminal. If the nonterminal has
// already been given, the production is added as an alternative for that
// nonterminal with lower priority than all others already added. Adding an
// alternative that the rule already has does nothing.
//
// It panics if nonterminal is not a valid symbol or is AugmentedStart, or if
// production is empty or contains an invalid symbol. Use Parse for checked
// construction from text.
func (g *Grammar) AddRule(nonterminal string, production []string) {
	if err := g.TryAddRule(nonterminal, production); err != nil {
		panic(err.Error())
	}
}

// TryAddRule is like AddRule but returns an error instead of panicking if the
// rule is not valid.
func (g *Grammar) TryAddRule(nonterminal string, production []string) error {
	if err := checkNonTerminal(nonterminal); err != nil {
		return err
	}
	if err := checkProduction(production); err != nil {
		return fmt.Errorf("rule for %q: %w", nonterminal, err)
	}

	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		g.rules = append(g.rules, Rule{NonTerminal: nonterminal})
		curIdx = len(g.rules) - 1
		g.rulesByName[nonterminal] = curIdx
	}

	curRule := g.rules[curIdx]
	if curRule.HasProduction(production) {
		return nil
	}
	curRule.Productions = append(curRule.Productions, Production(production).Copy())
	g.rules[curIdx] = curRule
	return nil
}

// RemoveRule eliminates all productions of the given nonterminal from the
// grammar. If no productions remain and the nonterminal is a declared part of
// speech, the declaration is removed as well.
func (g *Grammar) RemoveRule(nonterminal string) {
	if g.rulesByName == nil {
		return
	}

	curIdx, ok := g.rulesByName[nonterminal]
	if !ok {
		return
	}

	g.rules = append(g.rules[:curIdx], g.rules[curIdx+1:]...)
	delete(g.rulesByName, nonterminal)
	for i := curIdx; i < len(g.rules); i++ {
		g.rulesByName[g.rules[i].NonTerminal] = i
	}

	if g.pos != nil {
		g.pos.Remove(nonterminal)
	}
}

// Merge adds every rule and part-of-speech declaration of o to g. Rules for a
// nonterminal g already has are appended as lower-priority alternatives. The
// start symbol of g is kept unless g has none and o does.
func (g *Grammar) Merge(o Grammar) {
	for _, r := range o.rules {
		for _, p := range r.Productions {
			g.AddRule(r.NonTerminal, p)
		}
	}
	for _, pos := range o.pos.Elements() {
		g.AddPartOfSpeech(pos)
	}
	if g.Start == "" {
		g.Start = o.Start
	}
}

func (g Grammar) String() string {
	var sb strings.Builder
	if g.Start != "" && g.Start != DefaultStart {
		sb.WriteString(fmt.Sprintf("%%start %s ;\n", g.Start))
	}
	if !g.pos.Empty() {
		sb.WriteString(fmt.Sprintf("%%pos %s ;\n", strings.Join(g.pos.Elements(), " ")))
	}
	for _, r := range g.rules {
		sb.WriteString(r.String())
		sb.WriteString(" ;\n")
	}
	return sb.String()
}

// Table returns a text table of every rule in the grammar with one row per
// alternative, noting which nonterminals are parts of speech.
func (g Grammar) Table() string {
	data := [][]string{{"NONTERMINAL", "POS", "ALTERNATIVE"}}

	for _, r := range g.rules {
		posMark := ""
		if g.IsPartOfSpeech(r.NonTerminal) {
			posMark = "yes"
		}
		for i, p := range r.Productions {
			name := r.NonTerminal
			if i > 0 {
				name = ""
				posMark = ""
			}
			data = append(data, []string{name, posMark, p.String()})
		}
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableHeaders:             true,
			TableBorders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// Equal returns whether o is a Grammar or *Grammar with the same start symbol,
// the same rules in the same order, and the same declared parts of speech.
func (g Grammar) Equal(o any) bool {
	other, ok := o.(Grammar)
	if !ok {
		otherPtr, ok := o.(*Grammar)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if g.StartSymbol() != other.StartSymbol() {
		return false
	}
	if !util.EqualSlices(g.rules, other.rules) {
		return false
	}
	if g.pos.Len() != other.pos.Len() {
		return false
	}
	for _, p := range g.pos.Elements() {
		if !other.pos.Has(p) {
			return false
		}
	}
	return true
}

// ValidateNonTerminal returns an error describing why nt cannot be used as a
// nonterminal, or nil if it can.
func ValidateNonTerminal(nt string) error {
	return checkNonTerminal(nt)
}

func checkSymbol(sym string) error {
	if sym == "" {
		return fmt.Errorf("empty symbol not allowed")
	}
	if sym == Dot {
		return fmt.Errorf("%q is reserved and cannot be used as a symbol", Dot)
	}
	for _, ch := range sym {
		if unicode.IsSpace(ch) {
			return fmt.Errorf("invalid symbol %q; symbols cannot contain whitespace", sym)
		}
	}
	return nil
}

func checkNonTerminal(nt string) error {
	if nt == "" {
		return fmt.Errorf("empty nonterminal name not allowed for production rule")
	}
	if nt == AugmentedStart {
		return fmt.Errorf("%q is reserved and cannot be used as a nonterminal", AugmentedStart)
	}
	return checkSymbol(nt)
}

func checkProduction(p []string) error {
	if len(p) < 1 {
		return fmt.Errorf("empty productions are not supported; every alternative needs at least one symbol")
	}
	for _, sym := range p {
		if err := checkSymbol(sym); err != nil {
			return err
		}
	}
	return nil
}
