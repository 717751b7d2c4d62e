package langdef

import "fmt"

// Error is a grammar definition error tied to the position it occurred
// at. Row and Col are 0-based.
type Error struct {
	Row int
	Col int
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row+1, e.Col+1, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

var (
	synErrEmptyGrammar     = newSyntaxError("a grammar must have at least one definition")
	synErrNoDefinitionName = newSyntaxError("a definition must start with a name or a directive")
	synErrInvalidName      = newSyntaxError("a terminal name must be uppercase and a rule name lowercase")
	synErrNoColon          = newSyntaxError("the colon must follow a definition name")
	synErrNoPattern        = newSyntaxError("a terminal needs a pattern or a literal")
	synErrEmptyPattern     = newSyntaxError("a pattern must not be empty")
	synErrInvalidPattern   = newSyntaxError("invalid pattern")
	synErrInvalidEscSeq    = newSyntaxError("invalid escape sequence")
	synErrPatternInRule    = newSyntaxError("a pattern cannot appear in a rule; define a terminal for it")
	synErrNoEndOfDef       = newSyntaxError("a definition must end with a newline")
	synErrDuplicateName    = newSyntaxError("duplicate name")
	synErrUndefinedSymbol  = newSyntaxError("undefined symbol")
	synErrNoDirectiveParam = newSyntaxError("a directive needs a parameter")
	synErrUnknownDirective = newSyntaxError("unknown directive")
	synErrDuplicateStart   = newSyntaxError("the start symbol is set more than once")
	synErrStartNotRule     = newSyntaxError("the start symbol must be a rule name")
	synErrIgnoreNotTerm    = newSyntaxError("only terminals can be ignored")
)
