package grammar

import (
	"testing"

	"github.com/pipit-parser/pipit/lexer"
)

type first struct {
	lhs     string
	num     int
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		defs    []*lexer.TokenDef
		rules   []*Rule
		start   string
		first   []first
	}{
		{
			caption: "productions contain only non-empty productions",
			defs: []*lexer.TokenDef{
				{Name: "add", Pattern: `\+`},
				{Name: "mul", Pattern: `\*`},
				{Name: "l_paren", Pattern: `\(`},
				{Name: "r_paren", Pattern: `\)`},
				{Name: "id", Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
			},
			rules: []*Rule{
				{Head: "expr", Body: []string{"expr", "add", "term"}},
				{Head: "expr", Body: []string{"term"}},
				{Head: "term", Body: []string{"term", "mul", "factor"}},
				{Head: "term", Body: []string{"factor"}},
				{Head: "factor", Body: []string{"l_paren", "expr", "r_paren"}},
				{Head: "factor", Body: []string{"id"}},
			},
			start: "expr",
			first: []first{
				{lhs: "expr'", num: 0, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "expr", num: 0, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "expr", num: 0, dot: 1, symbols: []string{"add"}},
				{lhs: "expr", num: 0, dot: 2, symbols: []string{"l_paren", "id"}},
				{lhs: "expr", num: 1, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "term", num: 0, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "term", num: 0, dot: 1, symbols: []string{"mul"}},
				{lhs: "term", num: 0, dot: 2, symbols: []string{"l_paren", "id"}},
				{lhs: "term", num: 1, dot: 0, symbols: []string{"l_paren", "id"}},
				{lhs: "factor", num: 0, dot: 0, symbols: []string{"l_paren"}},
				{lhs: "factor", num: 0, dot: 1, symbols: []string{"l_paren", "id"}},
				{lhs: "factor", num: 0, dot: 2, symbols: []string{"r_paren"}},
				{lhs: "factor", num: 1, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "productions contain the empty start production",
			defs: []*lexer.TokenDef{
				{Name: "ws", Pattern: `\s+`, Ignore: true},
			},
			rules: []*Rule{
				{Head: "s", Body: []string{}},
			},
			start: "s",
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{}, empty: true},
				{lhs: "s", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "productions contain an empty production",
			defs: []*lexer.TokenDef{
				{Name: "bar", Pattern: `bar`},
			},
			rules: []*Rule{
				{Head: "s", Body: []string{"foo", "bar"}},
				{Head: "foo", Body: []string{}},
			},
			start: "s",
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"bar"}, empty: false},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"bar"}, empty: false},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a start production contains a non-empty alternative and empty alternative",
			defs: []*lexer.TokenDef{
				{Name: "foo", Pattern: `foo`},
			},
			rules: []*Rule{
				{Head: "s", Body: []string{"foo"}},
				{Head: "s", Body: []string{}},
			},
			start: "s",
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"foo"}, empty: true},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"foo"}},
				{lhs: "s", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			caption: "a production contains non-empty alternative and empty alternative",
			defs: []*lexer.TokenDef{
				{Name: "bar", Pattern: `bar`},
			},
			rules: []*Rule{
				{Head: "s", Body: []string{"foo"}},
				{Head: "foo", Body: []string{"bar"}},
				{Head: "foo", Body: []string{}},
			},
			start: "s",
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"bar"}, empty: true},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"bar"}, empty: true},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{"bar"}},
				{lhs: "foo", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
		{
			// The symbols a nullable non-terminal contributes must reach
			// every production that depends on it, even when the
			// following terminal was already a member of the entry.
			caption: "a nullable non-terminal propagates through a chain of productions",
			defs: []*lexer.TokenDef{
				{Name: "t", Pattern: `t`},
				{Name: "u", Pattern: `u`},
			},
			rules: []*Rule{
				{Head: "s", Body: []string{"y", "u"}},
				{Head: "y", Body: []string{"x", "t"}},
				{Head: "x", Body: []string{"n", "t"}},
				{Head: "n", Body: []string{"t"}},
				{Head: "n", Body: []string{}},
			},
			start: "s",
			first: []first{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"t"}},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"t"}},
				{lhs: "y", num: 0, dot: 0, symbols: []string{"t"}},
				{lhs: "x", num: 0, dot: 0, symbols: []string{"t"}},
				{lhs: "n", num: 0, dot: 0, symbols: []string{"t"}},
				{lhs: "n", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := newTestGrammar(t, tt.defs, tt.rules, tt.start)
			fst, err := genFirstSet(gram.productionSet)
			if err != nil {
				t.Fatal(err)
			}
			if fst == nil {
				t.Fatal("genFirstSet returned nil without any error")
			}

			symTab := gram.symbolTable.reader()
			for _, ttFirst := range tt.first {
				lhsSym, ok := symTab.toSymbol(ttFirst.lhs)
				if !ok {
					t.Fatalf("a symbol was not found; symbol: %v", ttFirst.lhs)
				}

				prod, ok := gram.productionSet.findByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; LHS: %v (%v)", ttFirst.lhs, lhsSym)
				}

				actualFirst, err := fst.find(prod[ttFirst.num], ttFirst.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v (%v), num: %v, dot: %v, error: %v", ttFirst.lhs, lhsSym, ttFirst.num, ttFirst.dot, err)
				}

				expectedFirst := newFirstEntry()
				if ttFirst.empty {
					expectedFirst.addEmpty()
				}
				for _, sym := range ttFirst.symbols {
					symSym, ok := symTab.toSymbol(sym)
					if !ok {
						t.Fatalf("a symbol was not found; symbol: %v", sym)
					}
					expectedFirst.add(symSym)
				}

				testFirst(t, actualFirst, expectedFirst)
			}
		})
	}
}

func testFirst(t *testing.T, actual, expected *firstEntry) {
	if actual.empty != expected.empty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expected.empty, actual.empty)
	}

	if len(actual.symbols) != len(expected.symbols) {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
	}

	for eSym := range expected.symbols {
		if _, ok := actual.symbols[eSym]; !ok {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected.symbols, actual.symbols)
		}
	}
}
