package grammar

import (
	"fmt"
	"strings"
)

// MustParse is identical to Parse but panics if an error is encountered.
func MustParse(gr string) Grammar {
	g, err := Parse(gr)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// Parse reads a grammar from its text notation. Statements are separated by
// ";" and each is either a rule or a directive:
//
//	S    -> NP VP ;
//	NP   -> NP PP | Noun ;
//	Noun -> John | Mary ;
//	%start S ;
//	%pos Noun Verb Prep ;
//
// Symbols within an alternative are separated by whitespace. A rule for a
// nonterminal that was already given adds more alternatives to it. Everything
// from a "#" to the end of the line is a comment.
func Parse(gr string) (Grammar, error) {
	gr = stripComments(gr)
	stmts := strings.Split(gr, ";")

	var g Grammar
	for i, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if strings.HasPrefix(stmt, "%") {
			if err := parseDirective(&g, stmt); err != nil {
				return Grammar{}, fmt.Errorf("statement %d: %w", i+1, err)
			}
			continue
		}

		rule, err := parseRule(stmt)
		if err != nil {
			return Grammar{}, fmt.Errorf("statement %d: %w", i+1, err)
		}

		for _, p := range rule.Productions {
			g.AddRule(rule.NonTerminal, p)
		}
	}

	return g, nil
}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if idx := strings.Index(lines[i], "#"); idx >= 0 {
			lines[i] = lines[i][:idx]
		}
	}
	return strings.Join(lines, "\n")
}

func parseDirective(g *Grammar, d string) error {
	fields := strings.Fields(d)
	switch fields[0] {
	case "%start":
		if len(fields) != 2 {
			return fmt.Errorf("%%start takes exactly one symbol")
		}
		if err := checkNonTerminal(fields[1]); err != nil {
			return err
		}
		g.Start = fields[1]
	case "%pos":
		if len(fields) < 2 {
			return fmt.Errorf("%%pos needs at least one symbol")
		}
		for _, sym := range fields[1:] {
			if err := checkNonTerminal(sym); err != nil {
				return err
			}
			g.AddPartOfSpeech(sym)
		}
	default:
		return fmt.Errorf("unknown directive %q", fields[0])
	}
	return nil
}

func parseRule(r string) (Rule, error) {
	sides := strings.Split(r, "->")
	if len(sides) != 2 {
		return Rule{}, fmt.Errorf("not a rule of form 'NONTERM -> SYMBOL SYMBOL | SYMBOL ...': %q", r)
	}
	nonTerminal := strings.TrimSpace(sides[0])

	if err := checkNonTerminal(nonTerminal); err != nil {
		return Rule{}, err
	}

	parsedRule := Rule{NonTerminal: nonTerminal}

	prodStrings := strings.Split(sides[1], "|")
	for _, p := range prodStrings {
		parsedProd := Production(strings.Fields(p))
		if err := checkProduction(parsedProd); err != nil {
			return Rule{}, fmt.Errorf("rule for %q: %w", nonTerminal, err)
		}
		parsedRule.Productions = append(parsedRule.Productions, parsedProd)
	}

	return parsedRule, nil
}
