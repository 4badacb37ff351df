package ast

// Walk traverses the tree rooted at n depth-first in source order. enter is
// called before a node's children and exit after them; either may be nil.
// Returning false from enter skips the node's children and its exit call.
func Walk(n Node, enter func(Node) bool, exit func(Node)) {
	if n == nil {
		return
	}
	if enter != nil && !enter(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, enter, exit)
	}
	if exit != nil {
		exit(n)
	}
}

// Inspect calls fn for every node under n, including n itself, until fn
// returns false for a subtree.
func Inspect(n Node, fn func(Node) bool) {
	Walk(n, fn, nil)
}
