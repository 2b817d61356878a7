package forest

// node is a tree node under construction. Children are recorded in the order
// they were discovered, which is right-to-left with respect to the sentence.
type node struct {
	label    string
	terminal bool
	parent   int
	children []int
}

// arena holds the nodes of one partially-built tree. A node's id is its index
// in nodes, so ids remain valid in copies of the arena.
type arena struct {
	nodes []node
}

func newArena(rootLabel string) *arena {
	return &arena{nodes: []node{{label: rootLabel, parent: -1}}}
}

// add creates a new node under parent and returns its id.
func (a *arena) add(parent int, label string, terminal bool) int {
	id := len(a.nodes)
	a.nodes = append(a.nodes, node{label: label, terminal: terminal, parent: parent})
	a.nodes[parent].children = append(a.nodes[parent].children, id)
	return id
}

// lastChild returns the most recently added child of n.
func (a *arena) lastChild(n int) (int, bool) {
	ch := a.nodes[n].children
	if len(ch) < 1 {
		return -1, false
	}
	return ch[len(ch)-1], true
}

// parent returns the parent of n, or -1 if n is the root.
func (a *arena) parent(n int) int {
	return a.nodes[n].parent
}

func (a *arena) copy() *arena {
	cp := &arena{nodes: make([]node, len(a.nodes))}
	for i, n := range a.nodes {
		cp.nodes[i] = n
		if n.children != nil {
			cp.nodes[i].children = make([]int, len(n.children))
			copy(cp.nodes[i].children, n.children)
		}
	}
	return cp
}

// tree exports the subtree rooted at n with children in left-to-right order.
func (a *arena) tree(n int) Tree {
	nd := a.nodes[n]
	t := Tree{Terminal: nd.terminal, Value: nd.label}
	for i := len(nd.children) - 1; i >= 0; i-- {
		child := a.tree(nd.children[i])
		t.Children = append(t.Children, &child)
	}
	return t
}

// export returns the finished tree below the augmented root.
func (a *arena) export() Tree {
	root := a.nodes[0]
	if len(root.children) == 1 {
		return a.tree(root.children[0])
	}
	return a.tree(0)
}
