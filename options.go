package pipit

import (
	"fmt"

	"github.com/pipit-parser/pipit/lexer"
	"github.com/pipit-parser/pipit/tree"
)

// Engine selects the parsing engine a parser runs on.
type Engine int

const (
	// LALR is the table-driven LALR(1) engine. It rejects ambiguous
	// grammars at construction time and parses in linear time.
	LALR Engine = iota

	// Earley is the chart-based engine. It accepts every context-free
	// grammar, ambiguous ones included, at a cubic worst-case cost.
	Earley
)

func (e Engine) String() string {
	switch e {
	case LALR:
		return "lalr"
	case Earley:
		return "earley"
	}
	return fmt.Sprintf("engine(%v)", int(e))
}

// ParseEngine maps an engine name to the engine it names.
func ParseEngine(name string) (Engine, error) {
	switch name {
	case "lalr":
		return LALR, nil
	case "earley":
		return Earley, nil
	}
	return 0, newConfigError("unknown engine: %v", name)
}

// ConfigError reports an illegal parser configuration. It always
// occurs at construction time, never during parsing.
type ConfigError struct {
	msg string
}

func newConfigError(format string, a ...interface{}) *ConfigError {
	return &ConfigError{
		msg: fmt.Sprintf(format, a...),
	}
}

func (e *ConfigError) Error() string {
	return e.msg
}

// PostLexer rewrites a token sequence between the lexer and the
// parser.
type PostLexer interface {
	Process(toks []*lexer.Token) ([]*lexer.Token, error)
}

type config struct {
	engine      Engine
	start       string
	transformer *tree.Transformer
	postLex     PostLexer
	onlyLex     bool
}

// Option configures a parser.
type Option func(c *config) error

// WithEngine selects the parsing engine. The default is Earley.
func WithEngine(e Engine) Option {
	return func(c *config) error {
		c.engine = e
		return nil
	}
}

// WithStart overrides the start symbol. The default is "start".
func WithStart(start string) Option {
	return func(c *config) error {
		if start == "" {
			return newConfigError("the start symbol must not be empty")
		}
		c.start = start
		return nil
	}
}

// WithTransformer registers a transformer the tree builder applies on
// reductions. A transformer requires the LALR engine.
func WithTransformer(t *tree.Transformer) Option {
	return func(c *config) error {
		c.transformer = t
		return nil
	}
}

// WithKeepAllTokens asks for filtered-out tokens to stay in syntax
// trees. The policy is not supported, so the option always reports a
// configuration error.
func WithKeepAllTokens() Option {
	return func(c *config) error {
		return newConfigError("the keep-all token policy is not supported")
	}
}

// OnlyLex skips parser construction. The parser can then only scan.
func OnlyLex() Option {
	return func(c *config) error {
		c.onlyLex = true
		return nil
	}
}

// WithPostLex hooks a post-lexer between scanning and parsing.
func WithPostLex(pl PostLexer) Option {
	return func(c *config) error {
		c.postLex = pl
		return nil
	}
}
