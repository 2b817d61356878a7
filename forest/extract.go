// Package forest recovers the parse trees of an accepted sentence from the
// charts built by package chart.
//
// Extraction walks backward from the accepting item, following the source
// links recorded on each item. Every divergence in the source links is a
// point of ambiguity and forks the walk, so all trees licensed by the charts
// are found. Trees that are structurally identical are reported only once.
package forest

import (
	"errors"

	"github.com/dekarrin/earley/chart"
	"github.com/dekarrin/earley/internal/util"
	"github.com/tliron/commonlog"
)

// ErrStepLimit is the error reported by an Extractor that stopped because it
// exceeded its configured step limit.
var ErrStepLimit = errors.New("tree extraction step limit exceeded")

// Grammar is the view of a grammar that extraction needs.
type Grammar interface {
	IsPartOfSpeech(symbol string) bool
	StartSymbol() string
}

// Option configures an Extractor.
type Option func(e *Extractor)

// MaxTrees limits the number of distinct trees that are produced. A value
// less than 1 means no limit.
func MaxTrees(n int) Option {
	return func(e *Extractor) {
		e.maxTrees = n
	}
}

// MaxSteps limits the number of backward steps taken over the whole
// extraction. Once exceeded, no further trees are produced and Err returns
// ErrStepLimit. A value less than 1 means no limit.
func MaxSteps(n int) Option {
	return func(e *Extractor) {
		e.maxSteps = n
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(log commonlog.Logger) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// frame is one in-progress path of the backward walk.
type frame struct {
	nodes *arena
	stack util.Stack[*chart.Item]
	child int
	item  *chart.Item
}

// Extractor lazily produces the distinct parse trees of a sentence. Use
// NewExtractor to create one, then call Next until it returns false.
type Extractor struct {
	g        Grammar
	initial  *chart.Item
	work     util.Stack[*frame]
	seen     util.StringSet
	maxTrees int
	maxSteps int
	steps    int
	yielded  int
	err      error
	log      commonlog.Logger
}

// NewExtractor creates an Extractor over the charts produced by parsing a
// sentence with g. If the charts do not accept the sentence, the Extractor
// produces no trees.
func NewExtractor(g Grammar, charts []*chart.Chart, opts ...Option) *Extractor {
	e := &Extractor{
		g:       g,
		initial: chart.InitialItem(g.StartSymbol()),
		seen:    util.NewStringSet(),
		log:     commonlog.GetLogger("earley.forest"),
	}
	for _, o := range opts {
		o(e)
	}

	accept, ok := chart.Accepting(charts, g.StartSymbol())
	if !ok {
		return e
	}

	srcs := accept.Sources()
	for i := len(srcs) - 1; i >= 0; i-- {
		f := &frame{
			nodes: newArena(chart.AugmentedStart),
			child: 0,
			item:  srcs[i],
		}
		f.stack.Push(accept)
		e.work.Push(f)
	}

	return e
}

// Next returns the next distinct tree. ok is false once there are no more
// trees or a limit has been reached.
func (e *Extractor) Next() (t Tree, ok bool) {
	for !e.work.Empty() && e.err == nil {
		if e.maxTrees > 0 && e.yielded >= e.maxTrees {
			e.work = util.Stack[*frame]{}
			break
		}

		e.steps++
		if e.maxSteps > 0 && e.steps > e.maxSteps {
			e.log.Warningf("stopping tree extraction after %d steps", e.maxSteps)
			e.err = ErrStepLimit
			e.work = util.Stack[*frame]{}
			break
		}

		f := e.work.Pop()
		t, done := e.step(f)
		if !done {
			continue
		}

		key := t.Key()
		if e.seen.Has(key) {
			continue
		}
		e.seen.Add(key)
		e.yielded++
		return t, true
	}

	return Tree{}, false
}

// Err returns the error that stopped extraction early, if any.
func (e *Extractor) Err() error {
	return e.err
}

// Steps returns the number of backward steps taken so far.
func (e *Extractor) Steps() int {
	return e.steps
}

// step advances a single frame. If the frame reaches the initial item, its
// finished tree is returned with done set to true. Otherwise any successor
// frames are pushed onto the worklist.
func (e *Extractor) step(f *frame) (t Tree, done bool) {
	cur := f.item

	if cur.Equal(e.initial) {
		if !f.stack.Empty() {
			f.stack.Pop()
		}
		return f.nodes.export(), true
	}

	prod := cur.Production()
	addedLHS := false
	alreadyRemoved := false

	if prod.CursorAtEnd() {
		f.nodes.add(f.child, cur.LHS(), false)
		addedLHS = true
	} else if top, ok := f.stack.Peek(); ok && top.SameRule(cur.Advanced()) {
		// the consumer of the previous symbol is now this item
		f.stack.Pop()
	}
	f.stack.Push(cur)

	if e.g.IsPartOfSpeech(cur.LHS()) {
		f.stack.Pop()

		posNode, ok := f.nodes.lastChild(f.child)
		if !ok {
			return Tree{}, false
		}
		f.nodes.add(posNode, prod.Symbol(0), true)

		src, ok := e.scanSource(cur, f.stack)
		if !ok {
			e.log.Debugf("abandoning path at %s: no source is consistent with the item that consumed it", cur)
			return Tree{}, false
		}

		if !f.stack.Empty() {
			f.stack.Pop()
		}
		cur = src
		prod = cur.Production()
		if prod.Cursor() > 0 {
			f.stack.Push(cur)
		}
		alreadyRemoved = true
		addedLHS = false
	}

	if prod.CursorAtStart() && !alreadyRemoved {
		f.stack.Pop()
	}

	var nextChild int
	if prod.CursorAtStart() {
		nextChild = f.nodes.parent(f.child)
		if nextChild < 0 {
			return Tree{}, false
		}
	} else if addedLHS {
		nextChild, _ = f.nodes.lastChild(f.child)
	} else {
		nextChild = f.child
	}

	var valid []*chart.Item
	visited := map[*chart.Item]bool{}
	for _, src := range cur.Sources() {
		if visited[src] {
			continue
		}
		visited[src] = true
		if e.follows(cur, src, f.stack) {
			valid = append(valid, src)
		}
	}

	// pushed in reverse so the first source is explored first. the first
	// source takes over this frame's state as no other frame needs it after.
	for i := len(valid) - 1; i >= 0; i-- {
		var next *frame
		if i == 0 {
			next = f
		} else {
			next = &frame{
				nodes: f.nodes.copy(),
				stack: f.stack.Copy(),
			}
		}
		next.child = nextChild
		next.item = valid[i]
		e.work.Push(next)
	}

	return Tree{}, false
}

// scanSource selects which of the sources of the part-of-speech item cur was
// the one scanned to create the item on top of stack.
func (e *Extractor) scanSource(cur *chart.Item, stack util.Stack[*chart.Item]) (*chart.Item, bool) {
	srcs := cur.Sources()
	if len(srcs) == 1 {
		return srcs[0], true
	}

	top, ok := stack.Peek()
	if !ok {
		return nil, false
	}
	for _, src := range srcs {
		if src.Advanced().WithEnd(src.End() + 1).Equal(top) {
			return src, true
		}
	}
	return nil, false
}

// follows returns whether src is a consistent next step back from cur given
// the items still awaiting completion on stack.
func (e *Extractor) follows(cur, src *chart.Item, stack util.Stack[*chart.Item]) bool {
	if cur.Production().SymbolBeforeCursor() == src.LHS() {
		return true
	}

	top, ok := stack.Peek()
	if !ok {
		return false
	}
	return top.SameRule(src.Advanced())
}

// Extract returns every distinct parse tree for the sentence whose charts are
// given. If the charts do not accept the sentence, the returned slice is
// empty. The error is non-nil only if a limit given in opts stopped extraction
// early, in which case the trees found up to that point are returned with it.
func Extract(g Grammar, charts []*chart.Chart, opts ...Option) ([]Tree, error) {
	e := NewExtractor(g, charts, opts...)

	var trees []Tree
	for {
		t, ok := e.Next()
		if !ok {
			break
		}
		trees = append(trees, t)
	}

	return trees, e.Err()
}
