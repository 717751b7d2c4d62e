package langdef

import (
	"errors"
	"strings"
	"testing"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
)

func TestParse(t *testing.T) {
	termDef := func(name string, pattern string) *lexer.TokenDef {
		return &lexer.TokenDef{
			Name:    name,
			Pattern: pattern,
		}
	}
	litDef := func(name string, pattern string) *lexer.TokenDef {
		return &lexer.TokenDef{
			Name:    name,
			Pattern: pattern,
			Literal: true,
		}
	}
	ignored := func(def *lexer.TokenDef) *lexer.TokenDef {
		def.Ignore = true
		return def
	}
	filtered := func(def *lexer.TokenDef) *lexer.TokenDef {
		def.FilterOut = true
		return def
	}
	rule := func(head string, body ...string) *grammar.Rule {
		return &grammar.Rule{
			Head: head,
			Body: body,
		}
	}

	tests := []struct {
		caption string
		src     string
		defs    []*lexer.TokenDef
		rules   []*grammar.Rule
		start   string
	}{
		{
			caption: "terminals, rules, and directives make a grammar",
			src: `
%start expr
%ignore WS

WS: /[\t ]+/
NUMBER: /[0-9]+/
ADD: "+"

expr: expr ADD term
    | term
term: NUMBER
`,
			defs: []*lexer.TokenDef{
				ignored(termDef("WS", `[\t ]+`)),
				termDef("NUMBER", `[0-9]+`),
				litDef("ADD", `+`),
			},
			rules: []*grammar.Rule{
				rule("expr", "expr", "ADD", "term"),
				rule("expr", "term"),
				rule("term", "NUMBER"),
			},
			start: "expr",
		},
		{
			caption: "the start symbol defaults to start",
			src: `
A: "a"
start: A
`,
			defs: []*lexer.TokenDef{
				litDef("A", `a`),
			},
			rules: []*grammar.Rule{
				rule("start", "A"),
			},
			start: "start",
		},
		{
			caption: "inline literals define anonymous terminals ahead of the declared ones",
			src: `
%start stmt
ID: /[a-z]+/
stmt: "if" ID ";"
`,
			defs: []*lexer.TokenDef{
				litDef("__if", `if`),
				filtered(litDef("__semicolon", `;`)),
				termDef("ID", `[a-z]+`),
			},
			rules: []*grammar.Rule{
				rule("stmt", "__if", "ID", "__semicolon"),
			},
			start: "stmt",
		},
		{
			caption: "the same literal reuses its anonymous terminal",
			src: `
%start s
s: "(" s ")"
 | "(" ")"
`,
			defs: []*lexer.TokenDef{
				filtered(litDef("__lparen", `(`)),
				filtered(litDef("__rparen", `)`)),
			},
			rules: []*grammar.Rule{
				rule("s", "__lparen", "s", "__rparen"),
				rule("s", "__lparen", "__rparen"),
			},
			start: "s",
		},
		{
			caption: "compound punctuation joins the spelled-out names",
			src: `
%start s
ID: /[a-z]+/
s: ID "==" ID
`,
			defs: []*lexer.TokenDef{
				filtered(litDef("__eqeq", `==`)),
				termDef("ID", `[a-z]+`),
			},
			rules: []*grammar.Rule{
				rule("s", "ID", "__eqeq", "ID"),
			},
			start: "s",
		},
		{
			caption: "a literal mixing word and punctuation characters is numbered",
			src: `
%start s
s: "+a"
`,
			defs: []*lexer.TokenDef{
				filtered(litDef("__anon0", `+a`)),
			},
			rules: []*grammar.Rule{
				rule("s", "__anon0"),
			},
			start: "s",
		},
		{
			caption: "an underscore prefix filters a terminal out of trees",
			src: `
%start list
_LPAREN: "("
_RPAREN: ")"
ID: /[a-z]+/
list: _LPAREN ID _RPAREN
`,
			defs: []*lexer.TokenDef{
				filtered(litDef("_LPAREN", `(`)),
				filtered(litDef("_RPAREN", `)`)),
				termDef("ID", `[a-z]+`),
			},
			rules: []*grammar.Rule{
				rule("list", "_LPAREN", "ID", "_RPAREN"),
			},
			start: "list",
		},
		{
			caption: "a trailing alternative can be empty",
			src: `
%start s
A: "a"
s: A s |
`,
			defs: []*lexer.TokenDef{
				litDef("A", `a`),
			},
			rules: []*grammar.Rule{
				rule("s", "A", "s"),
				rule("s"),
			},
			start: "s",
		},
		{
			caption: "escape sequences in literals are decoded",
			src: `
%start s
Q: "\"quoted\""
NL: "\n"
s: Q NL
`,
			defs: []*lexer.TokenDef{
				litDef("Q", `"quoted"`),
				litDef("NL", "\n"),
			},
			rules: []*grammar.Rule{
				rule("s", "Q", "NL"),
			},
			start: "s",
		},
		{
			caption: "comments and blank lines are skipped",
			src: `
// The whole grammar is one keyword.

%start s

A: "a" // a trailing comment
s: A
`,
			defs: []*lexer.TokenDef{
				litDef("A", `a`),
			},
			rules: []*grammar.Rule{
				rule("s", "A"),
			},
			start: "s",
		},
		{
			caption: "%ignore can precede the terminal it names",
			src: `
%ignore WS
%start s
WS: /[\t ]+/
A: "a"
s: A
`,
			defs: []*lexer.TokenDef{
				ignored(termDef("WS", `[\t ]+`)),
				litDef("A", `a`),
			},
			rules: []*grammar.Rule{
				rule("s", "A"),
			},
			start: "s",
		},
		{
			caption: "terminal-only grammars are valid",
			src: `
WS: /[\t ]+/
ID: /[a-z]+/
`,
			defs: []*lexer.TokenDef{
				termDef("WS", `[\t ]+`),
				termDef("ID", `[a-z]+`),
			},
			start: "start",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			def, err := Parse(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testTokenDefs(t, def.TokenDefs, tt.defs)
			testRules(t, def.Rules, tt.rules)
			if def.Start != tt.start {
				t.Fatalf("unexpected start symbol; want: %v, got: %v", tt.start, def.Start)
			}
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		synErr  *SyntaxError
		row     int
		col     int
	}{
		{
			caption: "a grammar must have at least one definition",
			src:     "// nothing here\n",
			synErr:  synErrEmptyGrammar,
			row:     1,
			col:     0,
		},
		{
			caption: "a definition needs a colon",
			src:     `A "a"`,
			synErr:  synErrNoColon,
			row:     0,
			col:     2,
		},
		{
			caption: "a terminal needs a pattern",
			src:     `A: b`,
			synErr:  synErrNoPattern,
			row:     0,
			col:     3,
		},
		{
			caption: "an empty literal is invalid",
			src:     `A: ""`,
			synErr:  synErrEmptyPattern,
			row:     0,
			col:     3,
		},
		{
			caption: "a pattern must compile",
			src:     `A: /[/`,
			synErr:  synErrInvalidPattern,
			row:     0,
			col:     3,
		},
		{
			caption: "a mixed-case name is invalid",
			src:     `Foo: "a"`,
			synErr:  synErrInvalidName,
			row:     0,
			col:     0,
		},
		{
			caption: "a rule name must not start with an underscore",
			src:     `_foo: A`,
			synErr:  synErrInvalidName,
			row:     0,
			col:     0,
		},
		{
			caption: "terminal names must be unique",
			src:     "A: \"a\"\nA: \"b\"",
			synErr:  synErrDuplicateName,
			row:     1,
			col:     0,
		},
		{
			caption: "a rule can only use defined symbols",
			src:     "%start s\ns: B",
			synErr:  synErrUndefinedSymbol,
			row:     1,
			col:     3,
		},
		{
			caption: "the start symbol needs a rule",
			src:     "%start s\nA: \"a\"",
			synErr:  synErrUndefinedSymbol,
			row:     0,
			col:     7,
		},
		{
			caption: "the start symbol must be a rule name",
			src:     `%start FOO`,
			synErr:  synErrStartNotRule,
			row:     0,
			col:     7,
		},
		{
			caption: "the start symbol can be set only once",
			src:     "%start s\n%start s\ns: \"x\"",
			synErr:  synErrDuplicateStart,
			row:     1,
			col:     0,
		},
		{
			caption: "only terminals can be ignored",
			src:     `%ignore foo`,
			synErr:  synErrIgnoreNotTerm,
			row:     0,
			col:     8,
		},
		{
			caption: "an ignored terminal must be defined",
			src:     "%ignore WS\n%start s\ns: \"a\"",
			synErr:  synErrUndefinedSymbol,
			row:     0,
			col:     8,
		},
		{
			caption: "a directive must be known",
			src:     `%foo bar`,
			synErr:  synErrUnknownDirective,
			row:     0,
			col:     0,
		},
		{
			caption: "a directive needs a parameter",
			src:     `%ignore`,
			synErr:  synErrNoDirectiveParam,
			row:     0,
			col:     7,
		},
		{
			caption: "a definition ends at a newline",
			src:     `A: "a" B: "b"`,
			synErr:  synErrNoEndOfDef,
			row:     0,
			col:     7,
		},
		{
			caption: "a pattern cannot appear in a rule",
			src:     `s: /[a-z]+/`,
			synErr:  synErrPatternInRule,
			row:     0,
			col:     3,
		},
		{
			caption: "escape sequences are restricted",
			src:     `A: "\q"`,
			synErr:  synErrInvalidEscSeq,
			row:     0,
			col:     3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			def, err := Parse(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("an expected error didn't occur")
			}
			if def != nil {
				t.Fatal("a grammar definition must be nil on error")
			}
			var defErr *Error
			if !errors.As(err, &defErr) {
				t.Fatalf("unexpected error: %v", err)
			}
			if !errors.Is(err, tt.synErr) {
				t.Fatalf("unexpected error; want: %v, got: %v", tt.synErr, err)
			}
			if defErr.Row != tt.row || defErr.Col != tt.col {
				t.Fatalf("unexpected position; want: %v:%v, got: %v:%v", tt.row, tt.col, defErr.Row, defErr.Col)
			}
		})
	}
}

func TestParse_LexicalError(t *testing.T) {
	_, err := Parse(strings.NewReader(`A: @`))
	var charErr *lexer.UnexpectedCharacterError
	if !errors.As(err, &charErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	if charErr.Offset != 3 {
		t.Fatalf("unexpected offset; want: %v, got: %v", 3, charErr.Offset)
	}
}

func testTokenDefs(t *testing.T, defs, expected []*lexer.TokenDef) {
	t.Helper()

	if len(defs) != len(expected) {
		t.Fatalf("unexpected number of token definitions; want: %v, got: %v", len(expected), len(defs))
	}
	for i, def := range defs {
		e := expected[i]
		if def.Name != e.Name || def.Pattern != e.Pattern || def.Literal != e.Literal ||
			def.Ignore != e.Ignore || def.FilterOut != e.FilterOut {
			t.Fatalf("unexpected token definition; want: %+v, got: %+v", e, def)
		}
	}
}

func testRules(t *testing.T, rules, expected []*grammar.Rule) {
	t.Helper()

	if len(rules) != len(expected) {
		t.Fatalf("unexpected number of rules; want: %v, got: %v", len(expected), len(rules))
	}
	for i, r := range rules {
		e := expected[i]
		if r.Head != e.Head {
			t.Fatalf("unexpected rule head; want: %v, got: %v", e.Head, r.Head)
		}
		if len(r.Body) != len(e.Body) {
			t.Fatalf("unexpected rule body; want: %v, got: %v", e.Body, r.Body)
		}
		for j, sym := range r.Body {
			if sym != e.Body[j] {
				t.Fatalf("unexpected rule body; want: %v, got: %v", e.Body, r.Body)
			}
		}
	}
}
