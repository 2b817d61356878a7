package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary converts g into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(g.Start)...)

	pos := g.pos.Elements()
	data = append(data, rezi.EncInt(len(pos))...)
	for _, p := range pos {
		data = append(data, rezi.EncString(p)...)
	}

	data = append(data, rezi.EncInt(len(g.rules))...)
	for _, r := range g.rules {
		data = append(data, rezi.EncString(r.NonTerminal)...)
		data = append(data, rezi.EncInt(len(r.Productions))...)
		for _, p := range r.Productions {
			data = append(data, rezi.EncInt(len(p))...)
			for _, sym := range p {
				data = append(data, rezi.EncString(sym)...)
			}
		}
	}

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into g.
// All of g's existing contents are replaced.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var n int
	var err error
	var dec Grammar

	dec.Start, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("start symbol: %w", err)
	}
	data = data[n:]

	var posCount int
	posCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("part-of-speech count: %w", err)
	}
	data = data[n:]
	for i := 0; i < posCount; i++ {
		var p string
		p, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("part of speech %d: %w", i, err)
		}
		data = data[n:]
		if err := checkNonTerminal(p); err != nil {
			return fmt.Errorf("part of speech %d: %w", i, err)
		}
		dec.AddPartOfSpeech(p)
	}

	var ruleCount int
	ruleCount, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]

	for i := 0; i < ruleCount; i++ {
		var nt string
		nt, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("rule %d: nonterminal: %w", i, err)
		}
		data = data[n:]
		if err := checkNonTerminal(nt); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}

		var prodCount int
		prodCount, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("rule %d: production count: %w", i, err)
		}
		data = data[n:]

		for j := 0; j < prodCount; j++ {
			var symCount int
			symCount, n, err = rezi.DecInt(data)
			if err != nil {
				return fmt.Errorf("rule %d: production %d: symbol count: %w", i, j, err)
			}
			data = data[n:]
			if symCount < 1 {
				return fmt.Errorf("rule %d: production %d: symbol count must be positive", i, j)
			}

			prod := make(Production, symCount)
			for k := 0; k < symCount; k++ {
				prod[k], n, err = rezi.DecString(data)
				if err != nil {
					return fmt.Errorf("rule %d: production %d: symbol %d: %w", i, j, k, err)
				}
				data = data[n:]
			}
			if err := checkProduction(prod); err != nil {
				return fmt.Errorf("rule %d: production %d: %w", i, j, err)
			}
			dec.AddRule(nt, prod)
		}
	}

	*g = dec
	return nil
}
