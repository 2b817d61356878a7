package chart

import (
	"fmt"
	"strings"
)

// Dot is how the cursor is rendered in the text form of a DottedProduction.
const Dot = "@"

// DottedProduction is an ordered sequence of grammar symbols with an optional
// cursor marking how much of the sequence has been matched. The cursor sits
// before the symbol at its index, so a cursor equal to the number of symbols
// is at the end.
//
// DottedProduction is immutable; operations that move the cursor return a new
// value. The zero value is an empty production with no cursor.
type DottedProduction struct {
	symbols   []string
	cursor    int
	hasCursor bool
}

// NewDottedProduction creates a DottedProduction of the given symbols with no
// cursor.
func NewDottedProduction(symbols ...string) DottedProduction {
	p := DottedProduction{symbols: make([]string, len(symbols))}
	copy(p.symbols, symbols)
	return p
}

// NewDottedProductionAt creates a DottedProduction of the given symbols with
// the cursor before the symbol at index cursor. It panics if cursor is not in
// the range 0 to len(symbols) inclusive.
func NewDottedProductionAt(cursor int, symbols ...string) DottedProduction {
	if cursor < 0 || cursor > len(symbols) {
		panic(fmt.Sprintf("cursor %d out of range for production of %d symbols", cursor, len(symbols)))
	}
	p := NewDottedProduction(symbols...)
	p.cursor = cursor
	p.hasCursor = true
	return p
}

// Symbols returns a copy of the symbols of the production, not including the
// cursor.
func (p DottedProduction) Symbols() []string {
	syms := make([]string, len(p.symbols))
	copy(syms, p.symbols)
	return syms
}

// Len returns the number of symbols in the production.
func (p DottedProduction) Len() int {
	return len(p.symbols)
}

// Symbol returns the symbol at index i.
func (p DottedProduction) Symbol(i int) string {
	return p.symbols[i]
}

// HasCursor returns whether the production has a cursor.
func (p DottedProduction) HasCursor() bool {
	return p.hasCursor
}

// Cursor returns the index of the symbol the cursor is before, or -1 if the
// production has no cursor.
func (p DottedProduction) Cursor() int {
	if !p.hasCursor {
		return -1
	}
	return p.cursor
}

// SymbolBeforeCursor returns the symbol immediately before the cursor. It
// returns "" if there is no cursor or the cursor is at the start.
func (p DottedProduction) SymbolBeforeCursor() string {
	if !p.hasCursor || p.cursor == 0 {
		return ""
	}
	return p.symbols[p.cursor-1]
}

// SymbolAfterCursor returns the symbol immediately after the cursor. It
// returns "" if there is no cursor or the cursor is at the end.
func (p DottedProduction) SymbolAfterCursor() string {
	if !p.hasCursor || p.cursor >= len(p.symbols) {
		return ""
	}
	return p.symbols[p.cursor]
}

// CursorAtEnd returns whether the production has a cursor and it is after the
// last symbol.
func (p DottedProduction) CursorAtEnd() bool {
	return p.hasCursor && p.cursor == len(p.symbols)
}

// CursorAtStart returns whether the production has a cursor and it is before
// the first symbol.
func (p DottedProduction) CursorAtStart() bool {
	return p.hasCursor && p.cursor == 0
}

// WithCursorPrepended returns a copy of p with the cursor before the first
// symbol. It panics if p already has a cursor.
func (p DottedProduction) WithCursorPrepended() DottedProduction {
	if p.hasCursor {
		panic("production already has a cursor")
	}
	return NewDottedProductionAt(0, p.symbols...)
}

// WithCursorAppended returns a copy of p with the cursor after the last
// symbol. It panics if p already has a cursor.
func (p DottedProduction) WithCursorAppended() DottedProduction {
	if p.hasCursor {
		panic("production already has a cursor")
	}
	return NewDottedProductionAt(len(p.symbols), p.symbols...)
}

// AdvanceCursor returns a copy of p with the cursor moved one symbol to the
// right. If the cursor is already at the end, or there is no cursor, the copy
// is identical to p.
func (p DottedProduction) AdvanceCursor() DottedProduction {
	adv := DottedProduction{symbols: p.symbols, cursor: p.cursor, hasCursor: p.hasCursor}
	if adv.hasCursor && adv.cursor < len(adv.symbols) {
		adv.cursor++
	}
	return adv
}

// Equal returns whether o is a DottedProduction or *DottedProduction with the
// same symbols and the same cursor position.
func (p DottedProduction) Equal(o any) bool {
	other, ok := o.(DottedProduction)
	if !ok {
		otherPtr, ok := o.(*DottedProduction)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if p.hasCursor != other.hasCursor {
		return false
	}
	if p.hasCursor && p.cursor != other.cursor {
		return false
	}
	if len(p.symbols) != len(other.symbols) {
		return false
	}
	for i := range p.symbols {
		if p.symbols[i] != other.symbols[i] {
			return false
		}
	}
	return true
}

// String returns the symbols separated by spaces, with the cursor rendered as
// Dot.
func (p DottedProduction) String() string {
	terms := make([]string, 0, len(p.symbols)+1)
	for i := range p.symbols {
		if p.hasCursor && p.cursor == i {
			terms = append(terms, Dot)
		}
		terms = append(terms, p.symbols[i])
	}
	if p.CursorAtEnd() {
		terms = append(terms, Dot)
	}
	return strings.Join(terms, " ")
}

// writeKey writes an unambiguous encoding of p to sb. Each symbol is prefixed
// with its length so that symbols containing separators cannot collide.
func (p DottedProduction) writeKey(sb *strings.Builder) {
	fmt.Fprintf(sb, "%d:", p.Cursor())
	for _, sym := range p.symbols {
		fmt.Fprintf(sb, "%d:%s", len(sym), sym)
	}
}
