package chart

import (
	"fmt"
	"strings"
)

// Item is a dotted production together with the nonterminal it derives, the
// span of input positions [Start, End) it covers, and the items that justify
// its presence in a chart.
//
// Everything about an Item except its sources is fixed when it is created.
// Sources only grow, and only when a Chart merges an equivalent Item into a
// stored one.
type Item struct {
	lhs     string
	prod    DottedProduction
	start   int
	end     int
	sources []*Item
}

// NewItem creates an Item deriving lhs through prod over the span [start,
// end), justified by the given sources.
func NewItem(lhs string, prod DottedProduction, start, end int, sources ...*Item) *Item {
	it := &Item{
		lhs:   lhs,
		prod:  prod,
		start: start,
		end:   end,
	}
	if len(sources) > 0 {
		it.sources = make([]*Item, len(sources))
		copy(it.sources, sources)
	}
	return it
}

// LHS returns the nonterminal the item derives.
func (it *Item) LHS() string {
	return it.lhs
}

// Production returns the dotted production of the item.
func (it *Item) Production() DottedProduction {
	return it.prod
}

// Start returns the input position the item's span begins at.
func (it *Item) Start() int {
	return it.start
}

// End returns the input position just past the end of the item's span.
func (it *Item) End() int {
	return it.end
}

// Sources returns a copy of the items that justify this one, in the order
// they were recorded. The same source can appear more than once.
func (it *Item) Sources() []*Item {
	srcs := make([]*Item, len(it.sources))
	copy(srcs, it.sources)
	return srcs
}

// NumSources returns the number of recorded sources.
func (it *Item) NumSources() int {
	return len(it.sources)
}

// MergeSourcesFrom appends the sources of other to the sources of it.
func (it *Item) MergeSourcesFrom(other *Item) {
	it.sources = append(it.sources, other.sources...)
}

// Advanced returns a new Item with the cursor of its production moved one
// symbol to the right and no sources.
func (it *Item) Advanced() *Item {
	return NewItem(it.lhs, it.prod.AdvanceCursor(), it.start, it.end)
}

// WithEnd returns a new Item identical to it except for its end position and
// having no sources.
func (it *Item) WithEnd(end int) *Item {
	return NewItem(it.lhs, it.prod, it.start, end)
}

// Equal returns whether o is an Item or *Item equivalent to it. Two items are
// equivalent when their left-hand symbols, productions including cursor
// position, and spans all match. Sources are not considered.
func (it *Item) Equal(o any) bool {
	var other *Item
	switch v := o.(type) {
	case *Item:
		other = v
	case Item:
		other = &v
	default:
		return false
	}

	if it == nil || other == nil {
		return it == other
	}

	return it.lhs == other.lhs &&
		it.start == other.start &&
		it.end == other.end &&
		it.prod.Equal(other.prod)
}

// SameRule returns whether other has the same left-hand symbol, production,
// and start position as it. The end positions are not compared.
func (it *Item) SameRule(other *Item) bool {
	return it.lhs == other.lhs && it.start == other.start && it.prod.Equal(other.prod)
}

// Key returns a string that is identical for two items exactly when they are
// equivalent.
func (it *Item) Key() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%s|%d|%d|", len(it.lhs), it.lhs, it.start, it.end)
	it.prod.writeKey(&sb)
	return sb.String()
}

// String returns the item in the form "A\t-> x @ y\t[start, end]".
func (it *Item) String() string {
	return fmt.Sprintf("%s\t-> %s\t[%d, %d]", it.lhs, it.prod.String(), it.start, it.end)
}
