package lexer

import (
	"fmt"
	"io"
)

const tokenNameEOF = "<eof>"

// Token represents a token.
type Token struct {
	// Kind is an ID of the kind the token belongs to.
	Kind KindID

	// KindName is the name of the kind the token belongs to.
	KindName string

	// Text is the character sequence the pattern matched.
	Text string

	// Offset is a byte offset where the text appears.
	Offset int

	// Row is a row number where the text appears.
	Row int

	// Col is a column number where the text appears.
	// Note that Col is counted in code points, not bytes.
	Col int

	// When this field is true, it means the token is the EOF token.
	EOF bool
}

// UnexpectedCharacterError occurs when no token pattern matches at the
// current scanning position.
type UnexpectedCharacterError struct {
	// Offset is a byte offset where scanning stopped.
	Offset int

	Row int
	Col int

	// Snippet is the beginning of the unmatched input.
	Snippet string
}

func (e *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("%v:%v: no token matches %#v", e.Row+1, e.Col+1, e.Snippet)
}

const snippetLenMax = 10

// Lexer scans a source text into tokens following a lexical
// specification. The specification is shared; each lexer owns its own
// scanning position.
type Lexer struct {
	spec   *Spec
	src    string
	offset int
	row    int
	col    int
}

// New returns a new lexer that scans src following spec.
func New(spec *Spec, src io.Reader) (*Lexer, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return &Lexer{
		spec: spec,
		src:  string(b),
	}, nil
}

// Next returns a next token. Tokens of ignored kinds are consumed but
// never returned. After the source is exhausted, Next keeps returning
// the EOF token.
func (l *Lexer) Next() (*Token, error) {
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !tok.EOF && l.spec.Ignored(tok.Kind) {
			continue
		}
		return tok, nil
	}
}

// next matches one token at the current position, ignored kinds
// included. Every pattern competes at each position. The longest match
// wins, and a tie goes to the kind defined earliest.
func (l *Lexer) next() (*Token, error) {
	if l.offset >= len(l.src) {
		return &Token{
			Kind:     KindIDNil,
			KindName: tokenNameEOF,
			Offset:   l.offset,
			Row:      l.row,
			Col:      l.col,
			EOF:      true,
		}, nil
	}

	rest := l.src[l.offset:]
	longest := -1
	kind := -1
	for i, re := range l.spec.patterns {
		loc := re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		if loc[1] > longest {
			longest = loc[1]
			kind = i
		}
	}
	if kind < 0 {
		return nil, &UnexpectedCharacterError{
			Offset:  l.offset,
			Row:     l.row,
			Col:     l.col,
			Snippet: snippet(rest),
		}
	}

	text := rest[:longest]
	tok := &Token{
		Kind:     kindIDMin + KindID(kind),
		KindName: l.spec.defs[kind].Name,
		Text:     text,
		Offset:   l.offset,
		Row:      l.row,
		Col:      l.col,
	}
	l.offset += len(text)

	// The lexer treats LF as the end of lines and counts columns in
	// code points, not bytes.
	for _, c := range text {
		if c == '\n' {
			l.row++
			l.col = 0
		} else {
			l.col++
		}
	}

	return tok, nil
}

// ReadAll returns all remaining tokens. The last element is always the
// EOF token.
func (l *Lexer) ReadAll() ([]*Token, error) {
	var toks []*Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.EOF {
			return toks, nil
		}
	}
}

func snippet(rest string) string {
	n := 0
	for i := range rest {
		if n == snippetLenMax {
			return rest[:i]
		}
		n++
	}
	return rest
}
