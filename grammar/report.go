package grammar

import (
	"fmt"
	"sort"
	"strings"
)

type Terminal struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Anonymous bool   `json:"anonymous"`
	Pattern   string `json:"pattern"`
	Ignored   bool   `json:"ignored"`
	FilterOut bool   `json:"filter_out"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int    `json:"number"`
	LHS    int    `json:"lhs"`
	RHS    []int  `json:"rhs"`
}

type Item struct {
	Production int `json:"production"`
	Dot        int `json:"dot"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type SRConflict struct {
	Symbol     int `json:"symbol"`
	State      int `json:"state"`
	Production int `json:"production"`
}

type RRConflict struct {
	Symbol      int `json:"symbol"`
	Production1 int `json:"production_1"`
	Production2 int `json:"production_2"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

// Report describes a compiled grammar: its symbols, its productions,
// and, for the LALR class, every state of the automaton together with
// any conflicts found while building the parsing table.
type Report struct {
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}

// anonymousKindNamePrefix marks terminals that were registered for
// literals appearing directly in rule bodies.
const anonymousKindNamePrefix = "__"

func genSymbolReport(gram *Grammar) (*Report, error) {
	symTab := gram.symbolTable.reader()

	var terms []*Terminal
	{
		termSyms := symTab.terminalSymbols()
		terms = make([]*Terminal, len(termSyms)+1)

		for _, sym := range termSyms {
			name, ok := symTab.toText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
			}

			term := &Terminal{
				Number: sym.num().Int(),
				Name:   name,
			}
			if !sym.isEOF() {
				kind := gram.termToKind[sym.num()]
				def := gram.lexSpec.Def(kind)
				term.Anonymous = strings.HasPrefix(name, anonymousKindNamePrefix)
				term.Pattern = def.Pattern
				term.Ignored = def.Ignore
				term.FilterOut = def.FilterOut
			}

			terms[sym.num()] = term
		}
	}

	var nonTerms []*NonTerminal
	{
		nonTermSyms := symTab.nonTerminalSymbols()
		nonTerms = make([]*NonTerminal, len(nonTermSyms)+1)
		for _, sym := range nonTermSyms {
			name, ok := symTab.toText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
			}

			nonTerms[sym.num()] = &NonTerminal{
				Number: sym.num().Int(),
				Name:   name,
			}
		}
	}

	var prods []*Production
	{
		ps := gram.productionSet.getAllProductions()
		prods = make([]*Production, len(ps)+1)
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				if e.isTerminal() {
					rhs[i] = e.num().Int()
				} else {
					rhs[i] = e.num().Int() * -1
				}
			}

			prods[p.num.Int()] = &Production{
				Number: p.num.Int(),
				LHS:    p.lhs.num().Int(),
				RHS:    rhs,
			}
		}
	}

	return &Report{
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
	}, nil
}

func (b *lrTableBuilder) genReport(tab *lrParsingTable, gram *Grammar) (*Report, error) {
	report, err := genSymbolReport(gram)
	if err != nil {
		return nil, err
	}

	srConflicts := map[stateNum][]*shiftReduceConflict{}
	rrConflicts := map[stateNum][]*reduceReduceConflict{}
	for _, con := range b.conflicts {
		switch c := con.(type) {
		case *shiftReduceConflict:
			srConflicts[c.state] = append(srConflicts[c.state], c)
		case *reduceReduceConflict:
			rrConflicts[c.state] = append(rrConflicts[c.state], c)
		}
	}

	states := make([]*State, len(b.automaton.states))
	for _, s := range b.automaton.states {
		kernel := make([]*Item, len(s.items))
		for i, item := range s.items {
			p, ok := b.prods.findByID(item.prod)
			if !ok {
				return nil, fmt.Errorf("failed to generate states: production of kernel item not found: %v", item.prod)
			}

			kernel[i] = &Item{
				Production: p.num.Int(),
				Dot:        item.dot,
			}
		}

		sort.Slice(kernel, func(i, j int) bool {
			if kernel[i].Production != kernel[j].Production {
				return kernel[i].Production < kernel[j].Production
			}
			return kernel[i].Dot < kernel[j].Dot
		})

		var shift []*Transition
		var reduce []*Reduce
		var goTo []*Transition
		{
		TERMINALS_LOOP:
			for _, t := range b.symTab.terminalSymbols() {
				act, next, prod := tab.getAction(s.num, t.num())
				switch act {
				case ActionTypeShift:
					shift = append(shift, &Transition{
						Symbol: t.num().Int(),
						State:  next.Int(),
					})
				case ActionTypeReduce:
					for _, r := range reduce {
						if r.Production == prod.Int() {
							r.LookAhead = append(r.LookAhead, t.num().Int())
							continue TERMINALS_LOOP
						}
					}
					reduce = append(reduce, &Reduce{
						LookAhead:  []int{t.num().Int()},
						Production: prod.Int(),
					})
				}
			}

			for _, n := range b.symTab.nonTerminalSymbols() {
				ty, next := tab.getGoTo(s.num, n.num())
				if ty == GoToTypeRegistered {
					goTo = append(goTo, &Transition{
						Symbol: n.num().Int(),
						State:  next.Int(),
					})
				}
			}

			sort.Slice(shift, func(i, j int) bool {
				return shift[i].State < shift[j].State
			})
			sort.Slice(reduce, func(i, j int) bool {
				return reduce[i].Production < reduce[j].Production
			})
			sort.Slice(goTo, func(i, j int) bool {
				return goTo[i].State < goTo[j].State
			})
		}

		sr := []*SRConflict{}
		rr := []*RRConflict{}
		{
			for _, c := range srConflicts[s.num] {
				sr = append(sr, &SRConflict{
					Symbol:     c.sym.num().Int(),
					State:      c.nextState.Int(),
					Production: c.prodNum.Int(),
				})
			}

			sort.Slice(sr, func(i, j int) bool {
				return sr[i].Symbol < sr[j].Symbol
			})

			for _, c := range rrConflicts[s.num] {
				rr = append(rr, &RRConflict{
					Symbol:      c.sym.num().Int(),
					Production1: c.prodNum1.Int(),
					Production2: c.prodNum2.Int(),
				})
			}

			sort.Slice(rr, func(i, j int) bool {
				return rr[i].Symbol < rr[j].Symbol
			})
		}

		states[s.num.Int()] = &State{
			Number:     s.num.Int(),
			Kernel:     kernel,
			Shift:      shift,
			Reduce:     reduce,
			GoTo:       goTo,
			SRConflict: sr,
			RRConflict: rr,
		}
	}

	report.States = states

	return report, nil
}
