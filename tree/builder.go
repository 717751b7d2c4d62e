package tree

import (
	"fmt"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
)

// FilterPolicy selects how the builder treats tokens of filtered-out
// kinds.
type FilterPolicy int

const (
	// DropFiltered omits filtered-out tokens from node children.
	DropFiltered FilterPolicy = iota

	// KeepAll would keep every token. The builder doesn't support it
	// yet and rejects it at construction.
	KeepAll
)

// Builder assembles syntax tree values from reductions. Its Build
// method is the callback both parsing drivers invoke, once per node,
// bottom-up. A builder keeps no state between calls and is safe to
// share.
type Builder struct {
	gram *grammar.CompiledGrammar

	// transforms maps non-terminal numbers to handlers. A nil entry
	// means the default node construction.
	transforms []Func
}

// NewBuilder makes a builder for a compiled grammar. The transformer
// may be nil. Every transform target must name a rule of the grammar.
func NewBuilder(gram *grammar.CompiledGrammar, policy FilterPolicy, transformer *Transformer) (*Builder, error) {
	if gram == nil {
		return nil, fmt.Errorf("a compiled grammar is missing")
	}
	switch policy {
	case DropFiltered:
	case KeepAll:
		return nil, fmt.Errorf("the keep-all filter policy is not supported")
	default:
		return nil, fmt.Errorf("unknown filter policy: %v", policy)
	}

	transforms := make([]Func, len(gram.NonTerminals))
	if transformer != nil {
		augStart := gram.LHSSymbols[gram.StartProduction]
		nonTermNums := map[string]int{}
		for num, text := range gram.NonTerminals {
			if num == 0 || num == augStart {
				continue
			}
			nonTermNums[text] = num
		}
		for _, head := range transformer.heads {
			num, ok := nonTermNums[head]
			if !ok {
				return nil, fmt.Errorf("transform target is not a rule: %v", head)
			}
			transforms[num] = transformer.handlers[head]
		}
	}

	return &Builder{
		gram:       gram,
		transforms: transforms,
	}, nil
}

// Build makes the value of one reduction. prod is a production number
// and handle holds the values of the production's RHS, leftmost first.
// Tokens of filtered-out kinds are dropped from the children. When a
// transform handler is bound to the production's rule, its return
// value replaces the node.
func (b *Builder) Build(prod int, handle []Value) (Value, error) {
	children := make([]Value, 0, len(handle))
	for _, v := range handle {
		if tok, ok := v.(*lexer.Token); ok && b.filteredOut(tok) {
			continue
		}
		children = append(children, v)
	}

	lhs := b.gram.LHSSymbols[prod]
	if fn := b.transforms[lhs]; fn != nil {
		return fn(children)
	}

	return &Node{
		Label:    b.gram.NonTerminals[lhs],
		Children: children,
	}, nil
}

func (b *Builder) filteredOut(tok *lexer.Token) bool {
	if tok.EOF {
		return false
	}
	return b.gram.FilteredOutKinds[tok.Kind] != 0
}
