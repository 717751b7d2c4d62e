// Package grammar compiles rule sets into the immutable forms the
// parsing drivers run on: an LALR(1) parsing table or a plain rule
// index for the Earley driver.
package grammar

import (
	"fmt"

	"github.com/pipit-parser/pipit/lexer"
)

// Rule is one production rule. Body elements name either terminals
// from the lexical specification or heads of other rules. An empty
// body derives the empty string.
type Rule struct {
	Head string
	Body []string
}

// Grammar is a validated rule set bound to a lexical specification.
// It is immutable after construction.
type Grammar struct {
	lexSpec              *lexer.Spec
	symbolTable          *symbolTable
	productionSet        *productionSet
	augmentedStartSymbol symbol
	startSymbol          symbol
	kindToTerm           []symbol
	termToKind           []lexer.KindID
}

// New validates rules against a lexical specification and builds a
// grammar whose start symbol is the head named by start. Rule order is
// preserved: it determines production numbering, which in turn drives
// every declaration-order tie-break downstream.
func New(lexSpec *lexer.Spec, rules []*Rule, start string) (*Grammar, error) {
	if lexSpec == nil {
		return nil, fmt.Errorf("a lexical specification is missing")
	}
	if len(rules) == 0 {
		return nil, semErrNoProduction
	}
	if start == "" {
		return nil, semErrNoStartSymbol
	}

	heads := map[string]struct{}{}
	for _, rule := range rules {
		if rule.Head == "" {
			return nil, fmt.Errorf("a rule head must not be empty")
		}
		heads[rule.Head] = struct{}{}
	}
	if _, ok := heads[start]; !ok {
		return nil, fmt.Errorf("%w: %v", semErrUndefinedStart, start)
	}

	symTab := newSymbolTable()
	w := symTab.writer()
	r := symTab.reader()

	augStartText := start + "'"
	augStartSym, err := w.registerStartSymbol(augStartText)
	if err != nil {
		return nil, err
	}

	kindToTerm := make([]symbol, lexSpec.KindCount()+1)
	termToKind := make([]lexer.KindID, lexSpec.KindCount()+2)
	kindToTerm[lexer.KindIDNil] = symbolEOF
	for i := 1; i <= lexSpec.KindCount(); i++ {
		kind := lexer.KindID(i)
		name := lexSpec.KindName(kind)
		if _, ok := heads[name]; ok {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateName, name)
		}
		sym, err := w.registerTerminalSymbol(name)
		if err != nil {
			return nil, err
		}
		kindToTerm[kind] = sym
		termToKind[sym.num()] = kind
	}

	for _, rule := range rules {
		if rule.Head == augStartText {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateName, rule.Head)
		}
		if sym, ok := r.toSymbol(rule.Head); ok && !sym.isNonTerminal() {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateName, rule.Head)
		}
		if _, err := w.registerNonTerminalSymbol(rule.Head); err != nil {
			return nil, err
		}
	}

	startSym, ok := r.toSymbol(start)
	if !ok {
		return nil, fmt.Errorf("%w: %v", semErrUndefinedStart, start)
	}

	prods := newProductionSet()
	augProd, err := newProduction(augStartSym, []symbol{startSym})
	if err != nil {
		return nil, err
	}
	prods.append(augProd)

	for _, rule := range rules {
		lhs, _ := r.toSymbol(rule.Head)
		rhs := make([]symbol, len(rule.Body))
		for i, b := range rule.Body {
			sym, ok := r.toSymbol(b)
			if !ok || sym.isEOF() || sym.isStart() {
				return nil, fmt.Errorf("%w: %v", semErrUndefinedSym, b)
			}
			if sym.isTerminal() && lexSpec.Ignored(termToKind[sym.num()]) {
				return nil, fmt.Errorf("%w: %v", semErrTermCannotBeIgnored, b)
			}
			rhs[i] = sym
		}
		prod, err := newProduction(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if added := prods.append(prod); !added {
			return nil, fmt.Errorf("%w: %v", semErrDuplicateProduction, rule.Head)
		}
	}

	// Every non-terminal must be reachable from the start symbol, and
	// every terminal must appear in some rule unless the lexer ignores
	// its tokens anyway.
	usedTerms := map[symbol]struct{}{}
	visited := map[symbol]struct{}{
		startSym: {},
	}
	frontier := []symbol{startSym}
	for len(frontier) > 0 {
		var next []symbol
		for _, nt := range frontier {
			ps, _ := prods.findByLHS(nt)
			for _, p := range ps {
				for _, sym := range p.rhs {
					if sym.isTerminal() {
						usedTerms[sym] = struct{}{}
						continue
					}
					if _, ok := visited[sym]; ok {
						continue
					}
					visited[sym] = struct{}{}
					next = append(next, sym)
				}
			}
		}
		frontier = next
	}
	for _, rule := range rules {
		sym, _ := r.toSymbol(rule.Head)
		if _, ok := visited[sym]; !ok {
			return nil, fmt.Errorf("%w: %v", semErrUnusedProduction, rule.Head)
		}
	}
	for i := 1; i <= lexSpec.KindCount(); i++ {
		kind := lexer.KindID(i)
		if lexSpec.Ignored(kind) {
			continue
		}
		if _, ok := usedTerms[kindToTerm[kind]]; !ok {
			return nil, fmt.Errorf("%w: %v", semErrUnusedTerminal, lexSpec.KindName(kind))
		}
	}

	return &Grammar{
		lexSpec:              lexSpec,
		symbolTable:          symTab,
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		startSymbol:          startSym,
		kindToTerm:           kindToTerm,
		termToKind:           termToKind,
	}, nil
}

// LexSpec returns the lexical specification the grammar was built
// against.
func (g *Grammar) LexSpec() *lexer.Spec {
	return g.lexSpec
}

// StartSymbol returns the name of the start symbol.
func (g *Grammar) StartSymbol() string {
	text, _ := g.symbolTable.reader().toText(g.startSymbol)
	return text
}

// Class selects the parsing algorithm a grammar is compiled for.
type Class string

const (
	ClassLALR   = Class("lalr")
	ClassEarley = Class("earley")
)

// ParsingTable is the LALR(1) parsing table. An action entry is
// sign-coded: a negative value means shifting to state -n, a positive
// value means reducing the production n, and zero means an error.
type ParsingTable struct {
	Action           []int
	GoTo             []int
	StateCount       int
	InitialState     int
	TerminalCount    int
	NonTerminalCount int
}

// CompiledGrammar is the flat, immutable form of a grammar the
// parsing drivers run on. RHS symbols in AlternativeSymbols are
// sign-coded: positive values are terminal numbers and negative
// values are non-terminal numbers.
type CompiledGrammar struct {
	Class Class

	// Terminals and NonTerminals map symbol numbers to names. The
	// index 0 of both is reserved, and the terminal 1 is always EOF.
	Terminals    []string
	NonTerminals []string

	EOFTerminal int

	// KindToTerminal maps lexical kinds to terminal numbers.
	KindToTerminal []int

	// FilteredOutKinds marks lexical kinds whose tokens are omitted
	// from syntax tree nodes.
	FilteredOutKinds []int

	StartProduction         int
	LHSSymbols              []int
	AlternativeSymbols      [][]int
	AlternativeSymbolCounts []int

	// ProductionsByLHS lists production numbers per non-terminal in
	// declaration order.
	ProductionsByLHS [][]int

	// NullableNonTerminals marks non-terminals that derive the empty
	// string.
	NullableNonTerminals []int

	// ParsingTable is present only for ClassLALR.
	ParsingTable *ParsingTable
}

type compileConfig struct {
	reportingEnabled bool
}

type CompileOption func(config *compileConfig)

// EnableReporting makes Compile also generate a Report describing the
// compiled grammar. When table construction finds conflicts, the
// report is returned alongside the ConflictError so callers can still
// render the conflicting states.
func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.reportingEnabled = true
	}
}

// Compile compiles a grammar for one parsing class. For ClassLALR it
// builds the parsing table and fails with a ConflictError when the
// grammar is not LALR(1). For ClassEarley it only lays out the rule
// index; any context-free grammar compiles.
func Compile(gram *Grammar, class Class, opts ...CompileOption) (*CompiledGrammar, *Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	first, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	symTabReader := gram.symbolTable.reader()
	termTexts := symTabReader.terminalTexts()
	nonTermTexts := symTabReader.nonTerminalTexts()

	prodCount := gram.productionSet.count()
	lhsSymbols := make([]int, prodCount+1)
	altSymbols := make([][]int, prodCount+1)
	altSymCounts := make([]int, prodCount+1)
	prodsByLHS := make([][]int, len(nonTermTexts))
	for num := 1; num <= prodCount; num++ {
		p, ok := gram.productionSet.findByNum(productionNum(num))
		if !ok {
			return nil, nil, fmt.Errorf("production not found: #%v", num)
		}
		lhsSymbols[num] = p.lhs.num().Int()
		rhs := make([]int, p.rhsLen)
		for i, sym := range p.rhs {
			if sym.isTerminal() {
				rhs[i] = sym.num().Int()
			} else {
				rhs[i] = sym.num().Int() * -1
			}
		}
		altSymbols[num] = rhs
		altSymCounts[num] = p.rhsLen
		lhs := p.lhs.num().Int()
		prodsByLHS[lhs] = append(prodsByLHS[lhs], num)
	}

	nullable := make([]int, len(nonTermTexts))
	for _, sym := range symTabReader.nonTerminalSymbols() {
		if e := first.findBySymbol(sym); e != nil && e.empty {
			nullable[sym.num()] = 1
		}
	}

	kindToTerm := make([]int, len(gram.kindToTerm))
	for kind, sym := range gram.kindToTerm {
		kindToTerm[kind] = sym.num().Int()
	}
	filteredOut := make([]int, gram.lexSpec.KindCount()+1)
	for i := 1; i <= gram.lexSpec.KindCount(); i++ {
		if gram.lexSpec.FilteredOut(lexer.KindID(i)) {
			filteredOut[i] = 1
		}
	}

	cGram := &CompiledGrammar{
		Class:                   class,
		Terminals:               termTexts,
		NonTerminals:            nonTermTexts,
		EOFTerminal:             symbolEOF.num().Int(),
		KindToTerminal:          kindToTerm,
		FilteredOutKinds:        filteredOut,
		StartProduction:         productionNumStart.Int(),
		LHSSymbols:              lhsSymbols,
		AlternativeSymbols:      altSymbols,
		AlternativeSymbolCounts: altSymCounts,
		ProductionsByLHS:        prodsByLHS,
		NullableNonTerminals:    nullable,
	}

	switch class {
	case ClassLALR:
		lr0, err := genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol)
		if err != nil {
			return nil, nil, err
		}
		if _, err := genLALR1Automaton(lr0, gram.productionSet, first); err != nil {
			return nil, nil, err
		}

		b := &lrTableBuilder{
			automaton:    lr0,
			prods:        gram.productionSet,
			termCount:    len(termTexts),
			nonTermCount: len(nonTermTexts),
			symTab:       symTabReader,
		}
		ptab, err := b.build()
		if err != nil {
			return nil, nil, err
		}

		var report *Report
		if config.reportingEnabled {
			report, err = b.genReport(ptab, gram)
			if err != nil {
				return nil, nil, err
			}
		}

		if len(b.conflicts) > 0 {
			return nil, report, newConflictError(b.conflicts, symTabReader)
		}

		action := make([]int, len(ptab.actionTable))
		for i, e := range ptab.actionTable {
			action[i] = int(e)
		}
		goTo := make([]int, len(ptab.goToTable))
		for i, e := range ptab.goToTable {
			goTo[i] = int(e)
		}
		cGram.ParsingTable = &ParsingTable{
			Action:           action,
			GoTo:             goTo,
			StateCount:       ptab.stateCount,
			InitialState:     ptab.initialState.Int(),
			TerminalCount:    ptab.terminalCount,
			NonTerminalCount: ptab.nonTerminalCount,
		}

		return cGram, report, nil
	case ClassEarley:
		var report *Report
		if config.reportingEnabled {
			report, err = genSymbolReport(gram)
			if err != nil {
				return nil, nil, err
			}
		}

		return cGram, report, nil
	default:
		return nil, nil, fmt.Errorf("unknown grammar class: %v", class)
	}
}
