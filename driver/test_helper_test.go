package driver

import (
	"strings"
	"testing"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
	"github.com/pipit-parser/pipit/tree"
)

func compileTestGrammar(t *testing.T, class grammar.Class, defs []*lexer.TokenDef, rules []*grammar.Rule, start string) (*grammar.CompiledGrammar, *lexer.Spec) {
	t.Helper()

	spec, err := lexer.CompileSpec(defs)
	if err != nil {
		t.Fatal(err)
	}
	g, err := grammar.New(spec, rules, start)
	if err != nil {
		t.Fatal(err)
	}
	cGram, _, err := grammar.Compile(g, class)
	if err != nil {
		t.Fatal(err)
	}
	return cGram, spec
}

func testTokens(t *testing.T, spec *lexer.Spec, src string) []*lexer.Token {
	t.Helper()

	l, err := lexer.New(spec, strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	toks, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return toks
}

// newTestCallback makes the default tree-building callback.
func newTestCallback(t *testing.T, gram *grammar.CompiledGrammar) Callback {
	t.Helper()

	b, err := tree.NewBuilder(gram, tree.DropFiltered, nil)
	if err != nil {
		t.Fatal(err)
	}
	return b.Build
}

func termNode(kind string, text string) *lexer.Token {
	return &lexer.Token{
		KindName: kind,
		Text:     text,
	}
}

func nonTermNode(label string, children ...tree.Value) *tree.Node {
	return &tree.Node{
		Label:    label,
		Children: children,
	}
}

func testTree(t *testing.T, got, want tree.Value) {
	t.Helper()

	if !tree.Equal(got, want) {
		var b strings.Builder
		b.WriteString("want:\n")
		tree.Print(&b, want)
		b.WriteString("got:\n")
		tree.Print(&b, got)
		t.Fatalf("unexpected tree;\n%v", b.String())
	}
}

func testStringSlice(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("unexpected strings; want: %v, got: %v", want, got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("unexpected strings; want: %v, got: %v", want, got)
		}
	}
}
