// Package pipit is a grammar-driven parsing toolkit. A grammar
// definition produces a lexer and a parser that turns input text into
// a syntax tree, on one of two interchangeable engines: a table-driven
// LALR(1) engine that rejects ambiguous grammars at construction time,
// and a chart-based Earley engine that accepts every context-free
// grammar.
package pipit

import (
	"strings"

	"github.com/pipit-parser/pipit/driver"
	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/langdef"
	"github.com/pipit-parser/pipit/lexer"
	"github.com/pipit-parser/pipit/tree"
)

type engineParser interface {
	Parse(toks []*lexer.Token) (tree.Value, error)
}

// Parser ties a lexer and a parsing engine together. It is immutable
// after construction and safe to share across goroutines; each call
// owns all of its scanning and parsing state.
type Parser struct {
	spec    *lexer.Spec
	engine  Engine
	postLex PostLexer
	parser  engineParser
}

// New builds a parser from token definitions and rules. Construction
// validates the options, then the token definitions, then the grammar,
// and finally builds the engine, so every configuration and grammar
// error surfaces without parsing any input.
func New(defs []*lexer.TokenDef, rules []*grammar.Rule, opts ...Option) (*Parser, error) {
	c := config{
		engine: Earley,
		start:  "start",
	}
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}
	if c.transformer != nil && c.engine == Earley {
		return nil, newConfigError("a transformer requires the lalr engine")
	}
	var class grammar.Class
	switch c.engine {
	case LALR:
		class = grammar.ClassLALR
	case Earley:
		class = grammar.ClassEarley
	default:
		return nil, newConfigError("unknown engine: %v", c.engine)
	}

	spec, err := lexer.CompileSpec(defs)
	if err != nil {
		return nil, err
	}
	p := &Parser{
		spec:    spec,
		engine:  c.engine,
		postLex: c.postLex,
	}
	if c.onlyLex {
		return p, nil
	}

	gram, err := grammar.New(spec, rules, c.start)
	if err != nil {
		return nil, err
	}
	cGram, _, err := grammar.Compile(gram, class)
	if err != nil {
		return nil, err
	}
	b, err := tree.NewBuilder(cGram, tree.DropFiltered, c.transformer)
	if err != nil {
		return nil, err
	}
	switch c.engine {
	case LALR:
		p.parser, err = driver.NewLALRParser(cGram, b.Build)
	case Earley:
		p.parser, err = driver.NewEarleyParser(cGram, b.Build)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Load builds a parser from a textual grammar definition. Options
// override what the definition declares, so WithStart wins over a
// %start directive.
func Load(grammarText string, opts ...Option) (*Parser, error) {
	def, err := langdef.Parse(strings.NewReader(grammarText))
	if err != nil {
		return nil, err
	}
	return New(def.TokenDefs, def.Rules, append([]Option{WithStart(def.Start)}, opts...)...)
}

// Engine returns the engine the parser runs on.
func (p *Parser) Engine() Engine {
	return p.engine
}

// Lex scans a text into tokens. Ignored kinds are dropped and the
// sequence carries no EOF marker.
func (p *Parser) Lex(text string) ([]*lexer.Token, error) {
	l, err := lexer.New(p.spec, strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	toks, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	toks = toks[:len(toks)-1]
	if p.postLex != nil {
		return p.postLex.Process(toks)
	}
	return toks, nil
}

// Parse parses a text and returns the value of the start rule: a
// *tree.Node unless a transformer replaced it.
func (p *Parser) Parse(text string) (tree.Value, error) {
	if p.parser == nil {
		return nil, newConfigError("the parser was built for lexing only")
	}
	toks, err := p.Lex(text)
	if err != nil {
		return nil, err
	}
	return p.parser.Parse(toks)
}

// ParseTree parses a text and returns the syntax tree.
func (p *Parser) ParseTree(text string) (*tree.Node, error) {
	v, err := p.Parse(text)
	if err != nil {
		return nil, err
	}
	node, ok := v.(*tree.Node)
	if !ok {
		return nil, newConfigError("the transformer replaced the root with %T, not a syntax tree", v)
	}
	return node, nil
}
