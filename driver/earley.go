package driver

import (
	"fmt"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
	"github.com/pipit-parser/pipit/tree"
)

// earleyItem is one chart entry: the production prod with the dot
// before the RHS index dot, started at the column origin. An advanced
// item links back to the item it advanced from, and to what advanced
// it: a token for a terminal, a completed item for a non-terminal,
// nothing for a nullable non-terminal skipped in place.
type earleyItem struct {
	prod   int
	dot    int
	origin int

	left  *earleyItem
	cause *earleyItem
	tok   *lexer.Token
}

type earleyItemKey struct {
	prod   int
	dot    int
	origin int
}

type earleyColumn struct {
	items []*earleyItem
	index map[earleyItemKey]*earleyItem
}

func newEarleyColumn() *earleyColumn {
	return &earleyColumn{
		index: map[earleyItemKey]*earleyItem{},
	}
}

// EarleyParser is the chart-based Earley runtime. Any context-free
// grammar works, ambiguous ones included; when an input has several
// derivations, the parser keeps the one completing the production
// declared earliest. A parser is immutable; each Parse call owns its
// own chart, so a single parser is safe for concurrent use.
type EarleyParser struct {
	gram *grammar.CompiledGrammar
	cb   Callback

	// nullProds maps nullable non-terminal numbers to the production
	// their empty derivation is built from.
	nullProds []int
}

func NewEarleyParser(gram *grammar.CompiledGrammar, cb Callback) (*EarleyParser, error) {
	if gram == nil {
		return nil, fmt.Errorf("a compiled grammar is missing")
	}
	if cb == nil {
		return nil, fmt.Errorf("a reduction callback is missing")
	}
	return &EarleyParser{
		gram:      gram,
		cb:        cb,
		nullProds: genNullProductions(gram),
	}, nil
}

// genNullProductions picks, per nullable non-terminal, the production
// its empty derivation uses. A production is viable once every RHS
// symbol is a non-terminal with a pick of its own; empty alternatives
// are viable immediately. The picks reach a fixpoint with declaration
// order breaking ties, and every pick bottoms out in an empty
// alternative even when rules are cyclic.
func genNullProductions(gram *grammar.CompiledGrammar) []int {
	nullProds := make([]int, len(gram.NonTerminals))
	for {
		changed := false
		for lhs := 1; lhs < len(gram.NonTerminals); lhs++ {
			if nullProds[lhs] != 0 || gram.NullableNonTerminals[lhs] == 0 {
				continue
			}
			for _, prod := range gram.ProductionsByLHS[lhs] {
				viable := true
				for _, sym := range gram.AlternativeSymbols[prod] {
					if sym > 0 || nullProds[-sym] == 0 {
						viable = false
						break
					}
				}
				if viable {
					nullProds[lhs] = prod
					changed = true
					break
				}
			}
		}
		if !changed {
			return nullProds
		}
	}
}

// Parse parses a token sequence and returns the value of the start
// rule. toks doesn't have to end with the EOF token; when it does, the
// token only marks the end of the sequence and never reaches the tree.
func (p *EarleyParser) Parse(toks []*lexer.Token) (tree.Value, error) {
	if n := len(toks); n > 0 && toks[n-1].EOF {
		toks = toks[:n-1]
	}

	cols := make([]*earleyColumn, len(toks)+1)
	for i := range cols {
		cols[i] = newEarleyColumn()
	}

	p.addItem(cols[0], &earleyItem{
		prod: p.gram.StartProduction,
	})

	for k := 0; k <= len(toks); k++ {
		col := cols[k]
		if len(col.items) == 0 {
			// The previous token cut every derivation off.
			return nil, p.syntaxError(toks, k-1, cols[k-1])
		}

		var scanTerm int
		if k < len(toks) {
			scanTerm = tokenTerminal(p.gram, toks[k])
		}

		// Predictions and completions append to the column while it is
		// being iterated.
		for i := 0; i < len(col.items); i++ {
			item := col.items[i]
			syms := p.gram.AlternativeSymbols[item.prod]
			if item.dot == len(syms) {
				p.complete(cols, k, item)
				continue
			}

			sym := syms[item.dot]
			if sym > 0 {
				if k < len(toks) && sym == scanTerm {
					p.addItem(cols[k+1], &earleyItem{
						prod:   item.prod,
						dot:    item.dot + 1,
						origin: item.origin,
						left:   item,
						tok:    toks[k],
					})
				}
				continue
			}

			p.predict(col, k, item, -sym)
		}
	}

	final := cols[len(toks)].index[earleyItemKey{
		prod:   p.gram.StartProduction,
		dot:    p.gram.AlternativeSymbolCounts[p.gram.StartProduction],
		origin: 0,
	}]
	if final == nil {
		return nil, p.syntaxError(toks, len(toks), cols[len(toks)])
	}

	// The augmented start production reduces without a callback; the
	// result is the value of the start rule itself.
	if final.cause != nil {
		return p.value(final.cause)
	}
	return p.buildNull(-p.gram.AlternativeSymbols[p.gram.StartProduction][0])
}

// predict adds the rules of a non-terminal to the column. When the
// non-terminal is nullable, the waiting item also advances in place
// over the empty derivation.
func (p *EarleyParser) predict(col *earleyColumn, k int, item *earleyItem, lhs int) {
	for _, prod := range p.gram.ProductionsByLHS[lhs] {
		p.addItem(col, &earleyItem{
			prod:   prod,
			origin: k,
		})
	}
	if p.gram.NullableNonTerminals[lhs] != 0 {
		p.addItem(col, &earleyItem{
			prod:   item.prod,
			dot:    item.dot + 1,
			origin: item.origin,
			left:   item,
		})
	}
}

// complete advances every item in the origin column waiting for the
// completed item's rule. Completions spanning no input are skipped;
// predict already advanced their parents in place.
func (p *EarleyParser) complete(cols []*earleyColumn, k int, item *earleyItem) {
	if item.origin == k {
		return
	}
	lhs := p.gram.LHSSymbols[item.prod]
	for _, waiting := range cols[item.origin].items {
		syms := p.gram.AlternativeSymbols[waiting.prod]
		if waiting.dot == len(syms) || syms[waiting.dot] != -lhs {
			continue
		}
		p.addItem(cols[k], &earleyItem{
			prod:   waiting.prod,
			dot:    waiting.dot + 1,
			origin: waiting.origin,
			left:   waiting,
			cause:  item,
		})
	}
}

// addItem inserts an item into a column. When an equivalent item is
// already there, the derivation whose completed production has the
// lower number wins, the first recorded winning ties. Links are
// rewritten in place so items that already reference the existing one
// follow the better derivation too.
func (p *EarleyParser) addItem(col *earleyColumn, item *earleyItem) {
	key := earleyItemKey{
		prod:   item.prod,
		dot:    item.dot,
		origin: item.origin,
	}
	if existing, ok := col.index[key]; ok {
		if item.tok != nil || item.dot == 0 {
			// Scans and predictions can't reach an item along two
			// derivations.
			return
		}
		if p.causeProd(item) < p.causeProd(existing) && !reaches(item, existing) {
			existing.left = item.left
			existing.cause = item.cause
		}
		return
	}
	col.index[key] = item
	col.items = append(col.items, item)
}

// causeProd is the production an item's last advance completed: the
// cause item's production, or the chosen empty production for an
// in-place advance over a nullable non-terminal.
func (p *EarleyParser) causeProd(item *earleyItem) int {
	if item.cause != nil {
		return item.cause.prod
	}
	return p.nullProds[-p.gram.AlternativeSymbols[item.prod][item.dot-1]]
}

// reaches reports whether an item's derivation links lead back to
// target. Rewriting target's links to such a derivation would make
// target derive itself; only cyclic rules produce one, and the
// derivation the target already has is the one with finite height.
func reaches(item, target *earleyItem) bool {
	visited := map[*earleyItem]struct{}{}
	stack := []*earleyItem{item.left, item.cause}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		if cur == target {
			return true
		}
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		stack = append(stack, cur.left, cur.cause)
	}
	return false
}

// value builds the value of a completed item, walking its derivation
// bottom-up and invoking the callback once per reduction.
func (p *EarleyParser) value(item *earleyItem) (tree.Value, error) {
	n := p.gram.AlternativeSymbolCounts[item.prod]
	handle := make([]tree.Value, n)
	cur := item
	for i := n - 1; i >= 0; i-- {
		var err error
		switch {
		case cur.tok != nil:
			handle[i] = cur.tok
		case cur.cause != nil:
			handle[i], err = p.value(cur.cause)
		default:
			handle[i], err = p.buildNull(-p.gram.AlternativeSymbols[cur.prod][cur.dot-1])
		}
		if err != nil {
			return nil, err
		}
		cur = cur.left
	}
	return p.cb(item.prod, handle)
}

// buildNull builds the empty derivation of a nullable non-terminal
// from its chosen empty production.
func (p *EarleyParser) buildNull(lhs int) (tree.Value, error) {
	prod := p.nullProds[lhs]
	syms := p.gram.AlternativeSymbols[prod]
	handle := make([]tree.Value, len(syms))
	for i, sym := range syms {
		v, err := p.buildNull(-sym)
		if err != nil {
			return nil, err
		}
		handle[i] = v
	}
	return p.cb(prod, handle)
}

// syntaxError reports the failure at the furthest position the chart
// reached. k is the index of the offending token, or len(toks) when
// the input ended too early.
func (p *EarleyParser) syntaxError(toks []*lexer.Token, k int, col *earleyColumn) error {
	expected := p.expectedAt(col)
	if k >= len(toks) {
		return &UnexpectedEOFError{
			Expected: expected,
		}
	}
	return &UnexpectedTokenError{
		Token:    toks[k],
		Expected: expected,
	}
}

// expectedAt lists the terminals any live item was waiting for, in
// terminal number order. When the column holds a completed derivation
// of the whole input so far, EOF would have been accepted too.
func (p *EarleyParser) expectedAt(col *earleyColumn) []string {
	await := map[int]struct{}{}
	if _, ok := col.index[earleyItemKey{
		prod: p.gram.StartProduction,
		dot:  p.gram.AlternativeSymbolCounts[p.gram.StartProduction],
	}]; ok {
		await[p.gram.EOFTerminal] = struct{}{}
	}
	for _, item := range col.items {
		syms := p.gram.AlternativeSymbols[item.prod]
		if item.dot < len(syms) && syms[item.dot] > 0 {
			await[syms[item.dot]] = struct{}{}
		}
	}
	var names []string
	for term := 1; term < len(p.gram.Terminals); term++ {
		if _, ok := await[term]; ok {
			names = append(names, p.gram.Terminals[term])
		}
	}
	return names
}
