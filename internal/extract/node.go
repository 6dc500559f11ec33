package extract

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// node mirrors the teacher's chunk.Node: a plain-data copy of a
// tree-sitter node, detached from the underlying C parser so it can
// outlive one Parse call without pinning cgo-adjacent memory (tree-sitter
// goes through cgo even via the pure-Go smacker bindings' runtime).
type node struct {
	Type      string
	StartByte uint32
	EndByte   uint32
	StartRow  uint32
	EndRow    uint32
	StartCol  uint32
	EndCol    uint32
	Children  []*node
}

func convertNode(n *sitter.Node) *node {
	if n == nil {
		return nil
	}
	out := &node{
		Type:      n.Type(),
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartRow:  n.StartPoint().Row,
		EndRow:    n.EndPoint().Row,
		StartCol:  n.StartPoint().Column,
		EndCol:    n.EndPoint().Column,
		Children:  make([]*node, 0, int(n.ChildCount())),
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil {
			out.Children = append(out.Children, convertNode(c))
		}
	}
	return out
}

func (n *node) content(source []byte) string {
	if n == nil || n.StartByte >= n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}

func (n *node) firstChildOfType(types ...string) *node {
	for _, c := range n.Children {
		for _, t := range types {
			if c.Type == t {
				return c
			}
		}
	}
	return nil
}

func (n *node) childrenOfType(typ string) []*node {
	var out []*node
	for _, c := range n.Children {
		if c.Type == typ {
			out = append(out, c)
		}
	}
	return out
}

func matchType(typ string, table []string) bool {
	for _, t := range table {
		if t == typ {
			return true
		}
	}
	return false
}
