package grammar

type SemanticError struct {
	message string
}

func newSemanticError(message string) *SemanticError {
	return &SemanticError{
		message: message,
	}
}

func (e *SemanticError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newSemanticError("a grammar needs at least one rule")
	semErrNoStartSymbol       = newSemanticError("a start symbol is missing")
	semErrUndefinedStart      = newSemanticError("the start symbol has no rule")
	semErrUndefinedSym        = newSemanticError("undefined symbol")
	semErrDuplicateProduction = newSemanticError("duplicate rule")
	semErrDuplicateName       = newSemanticError("duplicate names are not allowed between terminals and non-terminals")
	semErrUnusedProduction    = newSemanticError("unused rule")
	semErrUnusedTerminal      = newSemanticError("unused terminal")
	semErrTermCannotBeIgnored = newSemanticError("a terminal used in rules cannot be ignored")
)
