package lexer

import (
	"fmt"
	"regexp"
)

type KindID int

func (id KindID) Int() int {
	return int(id)
}

// KindIDNil is never assigned to a token definition. The EOF token
// carries it.
const KindIDNil KindID = 0

const kindIDMin KindID = 1

// TokenDef defines one lexical kind.
type TokenDef struct {
	// Name is the kind name. It must be unique within a specification.
	Name string

	// Pattern is a regular expression when Literal is false, otherwise
	// an exact character sequence.
	Pattern string

	// Literal means Pattern is matched verbatim, not as a regular
	// expression.
	Literal bool

	// Ignore means the lexer matches this kind but doesn't yield its
	// tokens. Used for whitespace and comments.
	Ignore bool

	// FilterOut means tokens of this kind appear in the token stream
	// but are omitted from syntax tree nodes. Used for punctuation.
	FilterOut bool
}

// Spec is a compiled lexical specification. It is immutable and safe
// to share across lexers.
type Spec struct {
	defs     []*TokenDef
	patterns []*regexp.Regexp
	kinds    map[string]KindID
}

// CompileSpec compiles token definitions into a lexical specification.
// Definition order matters: when two patterns match spans of the same
// length, the lexer picks the one defined earlier.
func CompileSpec(defs []*TokenDef) (*Spec, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("a lexical specification must have at least one token definition")
	}
	kinds := map[string]KindID{}
	patterns := make([]*regexp.Regexp, len(defs))
	for i, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("token definition #%v has no name", i)
		}
		if _, defined := kinds[d.Name]; defined {
			return nil, fmt.Errorf("duplicated token name: %v", d.Name)
		}
		kinds[d.Name] = kindIDMin + KindID(i)

		pat := d.Pattern
		if d.Literal {
			if pat == "" {
				return nil, fmt.Errorf("token %v: a literal pattern must not be empty", d.Name)
			}
			pat = regexp.QuoteMeta(pat)
		}
		re, err := regexp.Compile(`\A(?:` + pat + `)`)
		if err != nil {
			return nil, fmt.Errorf("token %v: invalid pattern: %w", d.Name, err)
		}
		// Leftmost-longest matching makes alternations inside a single
		// pattern behave the same way as competition between patterns.
		re.Longest()
		if re.MatchString("") {
			return nil, fmt.Errorf("token %v: a pattern must not match the empty string", d.Name)
		}
		patterns[i] = re
	}
	return &Spec{
		defs:     defs,
		patterns: patterns,
		kinds:    kinds,
	}, nil
}

// KindIDOf looks a kind up by name.
func (s *Spec) KindIDOf(name string) (KindID, bool) {
	id, ok := s.kinds[name]
	return id, ok
}

func (s *Spec) KindName(id KindID) string {
	if id == KindIDNil {
		return tokenNameEOF
	}
	return s.defs[id-kindIDMin].Name
}

func (s *Spec) KindCount() int {
	return len(s.defs)
}

func (s *Spec) Ignored(id KindID) bool {
	return s.defs[id-kindIDMin].Ignore
}

func (s *Spec) FilteredOut(id KindID) bool {
	return s.defs[id-kindIDMin].FilterOut
}

// Def returns the definition a kind was compiled from.
func (s *Spec) Def(id KindID) *TokenDef {
	return s.defs[id-kindIDMin]
}
