package chart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
)

// ErrOutOfRange is returned when an item or chart is requested at an index
// that does not exist.
var ErrOutOfRange = errors.New("index out of range")

// Chart is the deduplicated set of items valid at a single input position.
// Items are kept in insertion order. No two stored items are equivalent;
// adding an item equivalent to a stored one merges its sources into the stored
// item instead.
//
// The zero value is an empty Chart ready for use.
type Chart struct {
	items []*Item
	index map[string]int
}

// Add puts item in the chart. If an equivalent item is already present, the
// sources of item are appended to it and the stored item is returned;
// otherwise item itself is stored and returned.
func (c *Chart) Add(item *Item) *Item {
	if c.index == nil {
		c.index = map[string]int{}
	}

	key := item.Key()
	if idx, ok := c.index[key]; ok {
		stored := c.items[idx]
		stored.MergeSourcesFrom(item)
		return stored
	}

	c.items = append(c.items, item)
	c.index[key] = len(c.items) - 1
	return item
}

// Get returns the item at index i. If i is out of range, a non-nil error
// matching ErrOutOfRange is returned.
func (c *Chart) Get(i int) (*Item, error) {
	if i < 0 || i >= len(c.items) {
		return nil, fmt.Errorf("item %d of chart with %d items: %w", i, len(c.items), ErrOutOfRange)
	}
	return c.items[i], nil
}

// MustGet is like Get but panics if i is out of range.
func (c *Chart) MustGet(i int) *Item {
	item, err := c.Get(i)
	if err != nil {
		panic(err.Error())
	}
	return item
}

// Find returns the stored item equivalent to item, if there is one.
func (c *Chart) Find(item *Item) (*Item, bool) {
	idx, ok := c.index[item.Key()]
	if !ok {
		return nil, false
	}
	return c.items[idx], true
}

// Len returns the number of items in the chart.
func (c *Chart) Len() int {
	return len(c.items)
}

// Items returns the items of the chart in insertion order.
func (c *Chart) Items() []*Item {
	items := make([]*Item, len(c.items))
	copy(items, c.items)
	return items
}

// String returns every item in the chart on its own line, in insertion order.
func (c *Chart) String() string {
	var sb strings.Builder
	for _, it := range c.items {
		sb.WriteString(it.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Table returns the items of the chart as a text table with one row per item,
// including how many sources each one has.
func (c *Chart) Table() string {
	data := [][]string{{"#", "LHS", "PRODUCTION", "SPAN", "SOURCES"}}

	for i, it := range c.items {
		data = append(data, []string{
			strconv.Itoa(i),
			it.LHS(),
			it.Production().String(),
			fmt.Sprintf("[%d, %d]", it.Start(), it.End()),
			strconv.Itoa(it.NumSources()),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 80, rosed.Options{
			TableHeaders:             true,
			TableBorders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// At returns the chart at index i of charts. If i is out of range, a non-nil
// error matching ErrOutOfRange is returned.
func At(charts []*Chart, i int) (*Chart, error) {
	if i < 0 || i >= len(charts) {
		return nil, fmt.Errorf("chart %d of %d: %w", i, len(charts), ErrOutOfRange)
	}
	return charts[i], nil
}

// Render returns every chart in charts, each preceded by a "Chart N:" heading
// and followed by a blank line.
func Render(charts []*Chart) string {
	var sb strings.Builder
	for i, c := range charts {
		fmt.Fprintf(&sb, "Chart %d:\n", i)
		sb.WriteString(c.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}
