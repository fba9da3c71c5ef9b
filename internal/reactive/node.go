package reactive

import "slices"

// Node is anything a computation can depend on.
type Node struct {
	// computations to rerun when this node changes
	subs []*Computed

	// the node's height in the dependency graph, 0 for sources
	height int
}

func (n *Node) addSub(c *Computed) {
	if !slices.Contains(n.subs, c) {
		n.subs = append(n.subs, c)
	}
}

func (n *Node) removeSub(c *Computed) {
	if i := slices.Index(n.subs, c); i >= 0 {
		n.subs = slices.Delete(n.subs, i, i+1)
	}
}

// Subs returns the computations currently depending on n.
func (n *Node) Subs() []*Computed {
	return slices.Clone(n.subs)
}

func (n *Node) Height() int {
	return n.height
}
