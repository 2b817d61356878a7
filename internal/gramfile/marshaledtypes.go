package gramfile

import (
	"fmt"
	"strings"

	"github.com/dekarrin/earley/grammar"
)

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelGrammarData is the top-level structure containing all keys in a
// complete EGF 'GRAMMAR' type file.
type topLevelGrammarData struct {
	Format  string       `toml:"format"`
	Type    string       `toml:"type"`
	Grammar grammarTable `toml:"grammar"`
	Rules   []rule       `toml:"rule"`
	Samples []sample     `toml:"sample"`
}

type grammarTable struct {
	Start string   `toml:"start,omitempty"`
	POS   []string `toml:"pos,omitempty"`
	Text  string   `toml:"text,omitempty"`
}

type rule struct {
	LHS         string   `toml:"lhs"`
	Productions []string `toml:"productions"`
}

type sample struct {
	Sentence string `toml:"sentence"`
	Reject   bool   `toml:"reject,omitempty"`
}

func parseManifest(egf topLevelManifest) Manifest {
	return Manifest{
		Files: egf.Files,
	}
}

// parseBundle converts combined file data into a Bundle, checking every rule
// and declaration as it goes.
func parseBundle(egf topLevelGrammarData) (Bundle, error) {
	var g grammar.Grammar

	if egf.Grammar.Text != "" {
		textGrammar, err := grammar.Parse(egf.Grammar.Text)
		if err != nil {
			return Bundle{}, fmt.Errorf("grammar: text: %w", err)
		}
		g = textGrammar
	}

	if egf.Grammar.Start != "" {
		if err := grammar.ValidateNonTerminal(egf.Grammar.Start); err != nil {
			return Bundle{}, fmt.Errorf("grammar: start: %w", err)
		}
		if g.Start != "" && g.Start != egf.Grammar.Start {
			return Bundle{}, fmt.Errorf("grammar: start: %q conflicts with %%start %q given in text", egf.Grammar.Start, g.Start)
		}
		g.Start = egf.Grammar.Start
	}

	for i, pos := range egf.Grammar.POS {
		if err := grammar.ValidateNonTerminal(pos); err != nil {
			return Bundle{}, fmt.Errorf("grammar: pos[%d]: %w", i, err)
		}
		g.AddPartOfSpeech(pos)
	}

	for i, r := range egf.Rules {
		if len(r.Productions) < 1 {
			return Bundle{}, fmt.Errorf("rule[%d]: must have at least one production", i)
		}
		for j, p := range r.Productions {
			if strings.Contains(p, "|") {
				return Bundle{}, fmt.Errorf("rule[%d]: productions[%d]: give each alternative as its own production instead of using '|'", i, j)
			}
			if err := g.TryAddRule(r.LHS, strings.Fields(p)); err != nil {
				return Bundle{}, fmt.Errorf("rule[%d]: productions[%d]: %w", i, j, err)
			}
		}
	}

	if len(g.Rules()) < 1 {
		return Bundle{}, fmt.Errorf("no rules are defined")
	}
	if len(g.Alternatives(g.StartSymbol())) < 1 {
		return Bundle{}, fmt.Errorf("start symbol %q has no rule", g.StartSymbol())
	}

	b := Bundle{Grammar: g}
	for i, s := range egf.Samples {
		if strings.TrimSpace(s.Sentence) == "" {
			return Bundle{}, fmt.Errorf("sample[%d]: sentence cannot be blank", i)
		}
		b.Samples = append(b.Samples, Sample{Sentence: s.Sentence, Reject: s.Reject})
	}

	return b, nil
}

func bundleToTopLevel(b Bundle) topLevelGrammarData {
	egf := topLevelGrammarData{
		Format: FormatName,
		Type:   TypeGrammar,
		Grammar: grammarTable{
			POS: b.Grammar.DeclaredPartsOfSpeech(),
		},
	}

	if b.Grammar.StartSymbol() != grammar.DefaultStart {
		egf.Grammar.Start = b.Grammar.StartSymbol()
	}

	for _, r := range b.Grammar.Rules() {
		mr := rule{LHS: r.NonTerminal}
		for _, p := range r.Productions {
			mr.Productions = append(mr.Productions, p.String())
		}
		egf.Rules = append(egf.Rules, mr)
	}

	for _, s := range b.Samples {
		egf.Samples = append(egf.Samples, sample{Sentence: s.Sentence, Reject: s.Reject})
	}

	return egf
}
