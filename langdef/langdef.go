// Package langdef loads textual grammar definitions.
//
// A definition is a sequence of terminal definitions, rules, and
// directives, one per line:
//
//	%ignore WS COMMENT
//	%start expr
//
//	WS: /[\t ]+/
//	NUMBER: /[0-9]+(\.[0-9]+)?/
//	ADD: "+"
//	_LPAREN: "("
//	_RPAREN: ")"
//
//	expr: expr ADD term
//	    | term
//	term: NUMBER
//	    | _LPAREN expr _RPAREN
//
// An uppercase name defines a terminal, a lowercase name a rule. A
// terminal whose name starts with an underscore is matched but omitted
// from syntax trees. A literal inside a rule defines an anonymous
// terminal; anonymous terminals that aren't made of word characters
// are omitted from syntax trees too.
package langdef

import (
	"io"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
)

// GrammarDef is a loaded grammar definition.
type GrammarDef struct {
	TokenDefs []*lexer.TokenDef
	Rules     []*grammar.Rule
	Start     string
}

// The grammar definition language is scanned by the toolkit's own
// lexer.
const (
	kindWS        = "ws"
	kindComment   = "comment"
	kindNewline   = "newline"
	kindDirective = "directive"
	kindName      = "name"
	kindRegexp    = "regexp"
	kindString    = "string"
	kindColon     = "colon"
	kindOr        = "or"
)

var defLangSpec = func() *lexer.Spec {
	spec, err := lexer.CompileSpec([]*lexer.TokenDef{
		{Name: kindWS, Pattern: `[\t ]+`, Ignore: true},
		{Name: kindComment, Pattern: `//[^\n]*`, Ignore: true},
		{Name: kindNewline, Pattern: `\r?\n`},
		{Name: kindDirective, Pattern: `%[a-z][0-9a-z_]*`},
		{Name: kindName, Pattern: `[A-Za-z_][0-9A-Za-z_]*`},
		{Name: kindRegexp, Pattern: `/(\\.|[^\n\\/])*/`},
		{Name: kindString, Pattern: `"(\\.|[^\n\\"])*"`},
		{Name: kindColon, Pattern: `:`},
		{Name: kindOr, Pattern: `\|`},
	})
	if err != nil {
		// The definitions above are static, so failing to compile them
		// is a bug.
		panic(err)
	}
	return spec
}()

// Parse loads a grammar definition. Lexical errors are reported as
// *lexer.UnexpectedCharacterError and all other errors as *Error, both
// carrying the position they occurred at.
func Parse(src io.Reader) (*GrammarDef, error) {
	l, err := lexer.New(defLangSpec, src)
	if err != nil {
		return nil, err
	}
	toks, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	return p.parse()
}
