// Package query implements the sift search language parser.
//
// The parser produces an immutable tree of Nodes. The set of node types is
// closed: every Node is one of the types declared in this file, so consumers
// can switch over them exhaustively.
package query

import "strings"

// Node is a node in a parsed search query.
type Node interface {
	searchNode()
}

// Toplevel is the root of a parsed query. Its children are adjacent
// expressions and are combined with AND.
type Toplevel struct {
	Children []Node
}

// Word is an unquoted token. A run of adjacent bare words is kept together
// as a single Word ("apple banana").
type Word struct {
	Token string
}

// Field is a name:value constraint. Value is a *Word, a *Quotes or, for
// values written as name:(a b), a *Group.
type Field struct {
	Name  string
	Value Node
}

// Group is a parenthesized sequence of adjacent expressions.
type Group struct {
	Children []Node
}

// And is an explicit a AND b conjunction.
type And struct {
	Children []Node
}

// Or is an a OR b disjunction.
type Or struct {
	Children []Node
}

// Not negates its children, which are combined with AND.
type Not struct {
	Children []Node
}

// Quotes is a double-quoted phrase. Token excludes the quote characters.
type Quotes struct {
	Token string
}

func (*Toplevel) searchNode() {}
func (*Word) searchNode()     {}
func (*Field) searchNode()    {}
func (*Group) searchNode()    {}
func (*And) searchNode()      {}
func (*Or) searchNode()       {}
func (*Not) searchNode()      {}
func (*Quotes) searchNode()   {}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Toplevel:
		return n.Children
	case *Group:
		return n.Children
	case *And:
		return n.Children
	case *Or:
		return n.Children
	case *Not:
		return n.Children
	case *Field:
		return []Node{n.Value}
	default:
		return nil
	}
}

// Walk calls fn for n and each of its descendants, depth first. If fn
// returns false the node's children are skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// HasField reports whether the tree contains a Field named name.
func HasField(n Node, name string) bool {
	found := false
	Walk(n, func(n Node) bool {
		if f, ok := n.(*Field); ok && f.Name == name {
			found = true
		}
		return !found
	})
	return found
}

// Format renders n back into query text. Trees produced by Parse format to
// text that parses to the same tree.
func Format(n Node) string {
	switch n := n.(type) {
	case *Toplevel:
		return formatList(n.Children, " ")
	case *Group:
		return "(" + formatList(n.Children, " ") + ")"
	case *And:
		return formatList(parenthesizeBinary(n.Children), " AND ")
	case *Or:
		return formatList(n.Children, " OR ")
	case *Not:
		return "NOT " + formatList(parenthesizeBinary(n.Children), " ")
	case *Field:
		return n.Name + ":" + Format(n.Value)
	case *Word:
		return n.Token
	case *Quotes:
		return `"` + n.Token + `"`
	default:
		return ""
	}
}

// parenthesizeBinary wraps And/Or children in a Group so they keep binding
// under a tighter operator.
func parenthesizeBinary(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, child := range nodes {
		switch child.(type) {
		case *And, *Or:
			out[i] = &Group{Children: []Node{child}}
		default:
			out[i] = child
		}
	}
	return out
}

func formatList(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, child := range nodes {
		parts[i] = Format(child)
	}
	return strings.Join(parts, sep)
}
