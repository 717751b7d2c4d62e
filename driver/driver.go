// Package driver provides the parsing runtimes: a table-driven
// LALR(1) driver and a chart-based Earley driver. Both report
// reductions to the same callback, bottom-up, so they produce
// identical trees for any input both accept.
package driver

import (
	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
	"github.com/pipit-parser/pipit/tree"
)

// Callback makes the value of one reduction. prod is a production
// number of the compiled grammar and handle holds the values of the
// production's RHS, leftmost first. tree.(*Builder).Build is the
// usual callback.
type Callback func(prod int, handle []tree.Value) (tree.Value, error)

func tokenTerminal(gram *grammar.CompiledGrammar, tok *lexer.Token) int {
	if tok.EOF {
		return gram.EOFTerminal
	}
	return gram.KindToTerminal[tok.Kind]
}
