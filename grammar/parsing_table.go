package grammar

import (
	"fmt"
	"sort"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeError  = ActionType("error")
)

type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

type conflict interface {
	conflict()
}

type shiftReduceConflict struct {
	state     stateNum
	sym       symbol
	nextState stateNum
	prodNum   productionNum
}

func (c *shiftReduceConflict) conflict() {
}

type reduceReduceConflict struct {
	state    stateNum
	sym      symbol
	prodNum1 productionNum
	prodNum2 productionNum
}

func (c *reduceReduceConflict) conflict() {
}

var (
	_ conflict = &shiftReduceConflict{}
	_ conflict = &reduceReduceConflict{}
)

// lrParsingTable is the working form the table builder fills in. The
// compiler flattens it into a ParsingTable afterward.
type lrParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int
	initialState     stateNum
}

func (t *lrParsingTable) getAction(state stateNum, sym symbolNum) (ActionType, stateNum, productionNum) {
	pos := state.Int()*t.terminalCount + sym.Int()
	return t.actionTable[pos].describe()
}

func (t *lrParsingTable) getGoTo(state stateNum, sym symbolNum) (GoToType, stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Int()
	return t.goToTable[pos].describe()
}

func (t *lrParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *lrParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *lrParsingTable) writeGoTo(state stateNum, sym symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

type lrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	termCount    int
	nonTermCount int
	symTab       *symbolTableReader

	conflicts []conflict
}

func (b *lrTableBuilder) build() (*lrParsingTable, error) {
	var ptab *lrParsingTable
	{
		initialState := b.automaton.states[b.automaton.initialState]
		ptab = &lrParsingTable{
			actionTable:      make([]actionEntry, len(b.automaton.states)*b.termCount),
			goToTable:        make([]goToEntry, len(b.automaton.states)*b.nonTermCount),
			stateCount:       len(b.automaton.states),
			terminalCount:    b.termCount,
			nonTerminalCount: b.nonTermCount,
			initialState:     initialState.num,
		}
	}

	for _, state := range b.automaton.states {
		for sym, kID := range state.next {
			nextState := b.automaton.states[kID]
			if sym.isTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState.num)
			} else {
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		for prodID := range state.reducible {
			reducibleProd, ok := b.prods.findByID(prodID)
			if !ok {
				return nil, fmt.Errorf("reducible production not found: %v", prodID)
			}

			var reducibleItem *lrItem
			for _, item := range state.items {
				if item.prod != reducibleProd.id {
					continue
				}

				reducibleItem = item
				break
			}
			if reducibleItem == nil {
				for _, item := range state.emptyProdItems {
					if item.prod != reducibleProd.id {
						continue
					}

					reducibleItem = item
					break
				}
				if reducibleItem == nil {
					return nil, fmt.Errorf("reducible item not found; state: %v, production: %v", state.num, reducibleProd.num)
				}
			}

			for a := range reducibleItem.lookAhead.symbols {
				b.writeReduceAction(ptab, state.num, a, reducibleProd.num)
			}
		}
	}

	return ptab, nil
}

// writeShiftAction writes a shift action to the parsing table. A
// conflicted cell keeps the shift action. The conflict record makes
// compilation fail afterward; the cell content only keeps reports
// deterministic.
func (b *lrTableBuilder) writeShiftAction(tab *lrParsingTable, state stateNum, sym symbol, nextState stateNum) {
	act := tab.readAction(state.Int(), sym.num().Int())
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:     state,
				sym:       sym,
				nextState: nextState,
				prodNum:   p,
			})
		}
	}
	tab.writeAction(state.Int(), sym.num().Int(), newShiftActionEntry(nextState))
}

// writeReduceAction writes a reduce action to the parsing table. On a
// shift/reduce conflict the cell keeps the shift action, and on a
// reduce/reduce conflict it keeps the lower production number.
func (b *lrTableBuilder) writeReduceAction(tab *lrParsingTable, state stateNum, sym symbol, prod productionNum) {
	act := tab.readAction(state.Int(), sym.num().Int())
	if !act.isEmpty() {
		ty, s, p := act.describe()
		switch ty {
		case ActionTypeReduce:
			if p == prod {
				return
			}

			// The order reduce actions are written in depends on map
			// iteration, so normalize the pair.
			p1, p2 := p, prod
			if p2 < p1 {
				p1, p2 = p2, p1
			}
			b.conflicts = append(b.conflicts, &reduceReduceConflict{
				state:    state,
				sym:      sym,
				prodNum1: p1,
				prodNum2: p2,
			})
			if p < prod {
				tab.writeAction(state.Int(), sym.num().Int(), newReduceActionEntry(p))
			} else {
				tab.writeAction(state.Int(), sym.num().Int(), newReduceActionEntry(prod))
			}
		case ActionTypeShift:
			b.conflicts = append(b.conflicts, &shiftReduceConflict{
				state:     state,
				sym:       sym,
				nextState: s,
				prodNum:   prod,
			})
		}
		return
	}
	tab.writeAction(state.Int(), sym.num().Int(), newReduceActionEntry(prod))
}

// ShiftReduceConflict describes a state that can either shift a symbol
// or reduce a production when that symbol is the look-ahead.
type ShiftReduceConflict struct {
	// State is a state number of the LALR automaton.
	State int

	// Symbol is the name of the conflicting look-ahead symbol.
	Symbol string

	// NextState is the state the shift action would move to.
	NextState int

	// Production is the number of the production the reduce action
	// would apply.
	Production int
}

// ReduceReduceConflict describes a state that can reduce two different
// productions on the same look-ahead symbol.
type ReduceReduceConflict struct {
	State       int
	Symbol      string
	Production1 int
	Production2 int
}

// ConflictError occurs when a grammar is not LALR(1). The parsing
// table cannot choose a single action for some state and look-ahead,
// and the grammar is rejected before any input is parsed.
type ConflictError struct {
	ShiftReduce  []*ShiftReduceConflict
	ReduceReduce []*ReduceReduceConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("grammar is not LALR(1): %v shift/reduce and %v reduce/reduce conflicts", len(e.ShiftReduce), len(e.ReduceReduce))
}

func newConflictError(conflicts []conflict, symTab *symbolTableReader) *ConflictError {
	cErr := &ConflictError{}
	for _, con := range conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			name, _ := symTab.toText(c.sym)
			cErr.ShiftReduce = append(cErr.ShiftReduce, &ShiftReduceConflict{
				State:      c.state.Int(),
				Symbol:     name,
				NextState:  c.nextState.Int(),
				Production: c.prodNum.Int(),
			})
		case *reduceReduceConflict:
			name, _ := symTab.toText(c.sym)
			cErr.ReduceReduce = append(cErr.ReduceReduce, &ReduceReduceConflict{
				State:       c.state.Int(),
				Symbol:      name,
				Production1: c.prodNum1.Int(),
				Production2: c.prodNum2.Int(),
			})
		}
	}
	sort.Slice(cErr.ShiftReduce, func(i, j int) bool {
		if cErr.ShiftReduce[i].State != cErr.ShiftReduce[j].State {
			return cErr.ShiftReduce[i].State < cErr.ShiftReduce[j].State
		}
		return cErr.ShiftReduce[i].Symbol < cErr.ShiftReduce[j].Symbol
	})
	sort.Slice(cErr.ReduceReduce, func(i, j int) bool {
		if cErr.ReduceReduce[i].State != cErr.ReduceReduce[j].State {
			return cErr.ReduceReduce[i].State < cErr.ReduceReduce[j].State
		}
		return cErr.ReduceReduce[i].Symbol < cErr.ReduceReduce[j].Symbol
	})
	return cErr
}
