package driver

import (
	"fmt"
	"strings"

	"github.com/pipit-parser/pipit/lexer"
)

// UnexpectedTokenError occurs when a parser meets a token none of the
// viable actions accept.
type UnexpectedTokenError struct {
	// Token is the offending token.
	Token *lexer.Token

	// Expected lists the names of the terminals the parser would have
	// accepted instead, in terminal number order. The EOF terminal
	// appears as <eof>.
	Expected []string
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("%v:%v: unexpected token %#v; expected: %v", e.Token.Row+1, e.Token.Col+1, e.Token.Text, strings.Join(e.Expected, ", "))
}

// UnexpectedEOFError occurs when the input ends while a parser still
// expects more tokens.
type UnexpectedEOFError struct {
	// Expected lists the names of the terminals the parser would have
	// accepted, in terminal number order.
	Expected []string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of the input; expected: %v", strings.Join(e.Expected, ", "))
}
