package driver

import (
	"fmt"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
	"github.com/pipit-parser/pipit/tree"
)

// LALRParser is the table-driven LALR(1) runtime. A parser is
// immutable; each Parse call owns its own stacks, so a single parser
// is safe for concurrent use.
type LALRParser struct {
	gram *grammar.CompiledGrammar
	cb   Callback
}

// NewLALRParser makes a parser for a grammar compiled with
// grammar.ClassLALR.
func NewLALRParser(gram *grammar.CompiledGrammar, cb Callback) (*LALRParser, error) {
	if gram == nil {
		return nil, fmt.Errorf("a compiled grammar is missing")
	}
	if gram.ParsingTable == nil {
		return nil, fmt.Errorf("the grammar is not compiled for the LALR class")
	}
	if cb == nil {
		return nil, fmt.Errorf("a reduction callback is missing")
	}
	return &LALRParser{
		gram: gram,
		cb:   cb,
	}, nil
}

// Parse parses a token sequence and returns the value of the start
// rule. toks doesn't have to end with the EOF token; when it does, the
// token only marks the end of the sequence and never reaches the tree.
func (p *LALRParser) Parse(toks []*lexer.Token) (tree.Value, error) {
	tab := p.gram.ParsingTable
	stateStack := []int{tab.InitialState}
	var semStack []tree.Value

	next := 0
	for {
		tok := tokenAt(toks, next)
		top := stateStack[len(stateStack)-1]
		act := tab.Action[top*tab.TerminalCount+tokenTerminal(p.gram, tok)]
		switch {
		case act < 0: // Shift
			stateStack = append(stateStack, act*-1)
			semStack = append(semStack, tok)
			next++
		case act > 0: // Reduce
			prodNum := act
			lhs := p.gram.LHSSymbols[prodNum]
			if lhs == p.gram.LHSSymbols[p.gram.StartProduction] {
				return semStack[len(semStack)-1], nil
			}

			// When an alternative is empty, n is 0, and the handle is
			// an empty slice.
			n := p.gram.AlternativeSymbolCounts[prodNum]
			v, err := p.cb(prodNum, semStack[len(semStack)-n:])
			if err != nil {
				return nil, err
			}
			semStack = semStack[:len(semStack)-n]
			semStack = append(semStack, v)

			stateStack = stateStack[:len(stateStack)-n]
			top = stateStack[len(stateStack)-1]
			stateStack = append(stateStack, tab.GoTo[top*tab.NonTerminalCount+lhs])
		default: // Error
			expected := p.expectedTerminals(top)
			if tok.EOF {
				return nil, &UnexpectedEOFError{
					Expected: expected,
				}
			}
			return nil, &UnexpectedTokenError{
				Token:    tok,
				Expected: expected,
			}
		}
	}
}

func tokenAt(toks []*lexer.Token, i int) *lexer.Token {
	if i < len(toks) {
		return toks[i]
	}
	return &lexer.Token{
		EOF: true,
	}
}

// expectedTerminals lists the terminals a state has any action on, in
// terminal number order.
func (p *LALRParser) expectedTerminals(state int) []string {
	tab := p.gram.ParsingTable
	var names []string
	base := state * tab.TerminalCount
	for term := 1; term < tab.TerminalCount; term++ {
		if tab.Action[base+term] == 0 {
			continue
		}
		names = append(names, p.gram.Terminals[term])
	}
	return names
}
