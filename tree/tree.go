// Package tree builds syntax trees from the reductions the parsing
// drivers perform.
package tree

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pipit-parser/pipit/lexer"
)

// Value is a value a reduction produces: a *Node, a *lexer.Token, or
// whatever a transform handler returned.
type Value = interface{}

// Node is a syntax tree node labeled with a rule name. Children holds
// *Node and *lexer.Token values unless a transform handler replaced a
// subtree. A node is immutable once built.
type Node struct {
	Label    string
	Children []Value
}

// Print writes a tree in a rule-lined form:
//
//	expr
//	├─ expr
//	│  └─ id "a"
//	├─ add "+"
//	└─ expr
//	   └─ id "b"
func Print(w io.Writer, v Value) {
	printTree(w, v, "", "")
}

func printTree(w io.Writer, v Value, ruledLine string, childRuledLinePrefix string) {
	switch n := v.(type) {
	case nil:
		return
	case *lexer.Token:
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, n.KindName, n.Text)
	case *Node:
		fmt.Fprintf(w, "%v%v\n", ruledLine, n.Label)

		num := len(n.Children)
		for i, child := range n.Children {
			var line string
			if num > 1 && i < num-1 {
				line = "├─ "
			} else {
				line = "└─ "
			}

			var prefix string
			if i >= num-1 {
				prefix = "   "
			} else {
				prefix = "│  "
			}

			printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
		}
	default:
		fmt.Fprintf(w, "%v%#v\n", ruledLine, v)
	}
}

// Equal reports whether two trees have the same structure. Nodes are
// compared by label and children, tokens by kind name and text. Token
// positions don't take part in the comparison.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case *Node:
		y, ok := b.(*Node)
		if !ok || x.Label != y.Label || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case *lexer.Token:
		y, ok := b.(*lexer.Token)
		return ok && x.KindName == y.KindName && x.Text == y.Text
	default:
		return reflect.DeepEqual(a, b)
	}
}
