package forest

import (
	"fmt"
	"strings"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

func makeTreeLevelPrefix(format string) string {
	msg := ""
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(format, msg)
}

// Tree is a single parse tree of a sentence. Interior nodes are labeled with
// nonterminals and leaves with the words of the sentence.
type Tree struct {
	// Terminal is whether this node is a word of the input.
	Terminal bool

	// Value is the symbol or word at this node.
	Value string

	// Children is all children of the node in left-to-right order.
	Children []*Tree
}

// String returns the tree as an indented outline: the value of each node on
// its own line, with each child one tab deeper than its parent.
func (t Tree) String() string {
	var sb strings.Builder
	t.writeOutline(&sb, "")
	return sb.String()
}

func (t Tree) writeOutline(sb *strings.Builder, offset string) {
	sb.WriteString(offset)
	sb.WriteString(t.Value)
	sb.WriteRune('\n')

	for _, c := range t.Children {
		c.writeOutline(sb, offset+"\t")
	}
}

// Pretty returns a box-drawn rendering of the tree suitable for line-by-line
// comparisons of tree structure.
func (t Tree) Pretty() string {
	return t.leveledStr("", "")
}

func (t Tree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if t.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %q)", t.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", t.Value))
	}

	for i := range t.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix string
		var leveledContPrefix string
		if i+1 < len(t.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix(treeLevelPrefix)
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix(treeLevelPrefixLast)
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		sb.WriteString(t.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix))
	}

	return sb.String()
}

// Bracketed returns the tree in labeled-bracket notation, such as
// "[S [NP [Noun John]] [VP [Verb sleeps]]]".
func (t Tree) Bracketed() string {
	if t.Terminal {
		return t.Value
	}

	var sb strings.Builder
	sb.WriteRune('[')
	sb.WriteString(t.Value)
	for _, c := range t.Children {
		sb.WriteRune(' ')
		sb.WriteString(c.Bracketed())
	}
	sb.WriteRune(']')
	return sb.String()
}

// Leaves returns the values of every terminal node in left-to-right order.
func (t Tree) Leaves() []string {
	var leaves []string
	var walk func(n Tree)
	walk = func(n Tree) {
		if n.Terminal {
			leaves = append(leaves, n.Value)
		}
		for _, c := range n.Children {
			walk(*c)
		}
	}
	walk(t)
	return leaves
}

// Copy returns a duplicate, deeply-copied tree.
func (t Tree) Copy() Tree {
	newT := Tree{
		Terminal: t.Terminal,
		Value:    t.Value,
		Children: make([]*Tree, len(t.Children)),
	}

	for i := range t.Children {
		if t.Children[i] != nil {
			newChild := t.Children[i].Copy()
			newT.Children[i] = &newChild
		}
	}

	return newT
}

// Equal returns whether the tree is equal to the given object. If the given
// object is not a Tree or *Tree, returns false, else returns whether the two
// trees have the exact same structure.
func (t Tree) Equal(o any) bool {
	other, ok := o.(Tree)
	if !ok {
		otherPtr, ok := o.(*Tree)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if t.Terminal != other.Terminal || t.Value != other.Value {
		return false
	}
	if len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Key returns a string that is identical for two trees exactly when they are
// Equal.
func (t Tree) Key() string {
	var sb strings.Builder
	t.writeKey(&sb)
	return sb.String()
}

func (t Tree) writeKey(sb *strings.Builder) {
	if t.Terminal {
		sb.WriteRune('t')
	} else {
		sb.WriteRune('n')
	}
	fmt.Fprintf(sb, "%d:%s(", len(t.Value), t.Value)
	for _, c := range t.Children {
		c.writeKey(sb)
	}
	sb.WriteRune(')')
}
