package langdef

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pipit-parser/pipit/grammar"
	"github.com/pipit-parser/pipit/lexer"
)

const defaultStart = "start"

func raiseSyntaxError(tok *lexer.Token, err error) {
	panic(&Error{
		Row: tok.Row,
		Col: tok.Col,
		Err: err,
	})
}

type symRef struct {
	name string
	tok  *lexer.Token
}

type parser struct {
	toks    []*lexer.Token
	pos     int
	lastTok *lexer.Token

	userDefs []*lexer.TokenDef
	anonDefs []*lexer.TokenDef
	rules    []*grammar.Rule
	start    string
	startSet bool

	termDefs  map[string]*lexer.TokenDef
	ruleHeads map[string]bool
	literals  map[string]string
	refs      []symRef
	ignores   []*lexer.Token
	anonNum   int
}

func newParser(toks []*lexer.Token) *parser {
	return &parser{
		toks:      toks,
		start:     defaultStart,
		termDefs:  map[string]*lexer.TokenDef{},
		ruleHeads: map[string]bool{},
		literals:  map[string]string{},
	}
}

func (p *parser) parse() (def *GrammarDef, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			retErr = err.(error)
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *GrammarDef {
	for {
		p.skipNewlines()
		if p.peek(0).EOF {
			break
		}
		switch {
		case p.consume(kindDirective):
			p.parseDirective(p.lastTok)
		case p.consume(kindName):
			name := p.lastTok
			switch {
			case isTerminalName(name.Text):
				p.parseTerminalDef(name)
			case isRuleName(name.Text):
				p.parseRule(name)
			default:
				raiseSyntaxError(name, synErrInvalidName)
			}
		default:
			raiseSyntaxError(p.peek(0), synErrNoDefinitionName)
		}
	}
	return p.finish()
}

func (p *parser) parseDirective(dir *lexer.Token) {
	switch dir.Text {
	case "%start":
		if !p.consume(kindName) {
			raiseSyntaxError(p.peek(0), synErrNoDirectiveParam)
		}
		name := p.lastTok
		if p.startSet {
			raiseSyntaxError(dir, synErrDuplicateStart)
		}
		if !isRuleName(name.Text) {
			raiseSyntaxError(name, synErrStartNotRule)
		}
		p.start = name.Text
		p.startSet = true
		p.refs = append(p.refs, symRef{
			name: name.Text,
			tok:  name,
		})
	case "%ignore":
		if !p.consume(kindName) {
			raiseSyntaxError(p.peek(0), synErrNoDirectiveParam)
		}
		for {
			name := p.lastTok
			if !isTerminalName(name.Text) {
				raiseSyntaxError(name, synErrIgnoreNotTerm)
			}
			p.ignores = append(p.ignores, name)
			if !p.consume(kindName) {
				break
			}
		}
	default:
		raiseSyntaxError(dir, fmt.Errorf("%w: %v", synErrUnknownDirective, dir.Text))
	}
	p.endOfDefinition()
}

func (p *parser) parseTerminalDef(name *lexer.Token) {
	if !p.consume(kindColon) {
		raiseSyntaxError(p.peek(0), synErrNoColon)
	}
	def := &lexer.TokenDef{
		Name:      name.Text,
		FilterOut: strings.HasPrefix(name.Text, "_"),
	}
	switch {
	case p.consume(kindRegexp):
		pat := p.lastTok.Text
		pat = pat[1 : len(pat)-1]
		if pat == "" {
			raiseSyntaxError(p.lastTok, synErrEmptyPattern)
		}
		if _, err := regexp.Compile(pat); err != nil {
			raiseSyntaxError(p.lastTok, fmt.Errorf("%w: %v", synErrInvalidPattern, err))
		}
		def.Pattern = pat
	case p.consume(kindString):
		lit := p.unescapeString(p.lastTok)
		if lit == "" {
			raiseSyntaxError(p.lastTok, synErrEmptyPattern)
		}
		def.Pattern = lit
		def.Literal = true
	default:
		raiseSyntaxError(p.peek(0), synErrNoPattern)
	}
	if _, defined := p.termDefs[def.Name]; defined {
		raiseSyntaxError(name, fmt.Errorf("%w: %v", synErrDuplicateName, def.Name))
	}
	p.termDefs[def.Name] = def
	p.userDefs = append(p.userDefs, def)
	p.endOfDefinition()
}

func (p *parser) parseRule(head *lexer.Token) {
	if !p.consume(kindColon) {
		raiseSyntaxError(p.peek(0), synErrNoColon)
	}
	alts := [][]string{p.parseAlternative()}
	for {
		if p.consume(kindOr) {
			alts = append(alts, p.parseAlternative())
			continue
		}
		// An alternative list continues across newlines only when the
		// next line starts with |.
		if p.atContinuation() {
			p.skipNewlines()
			continue
		}
		break
	}
	p.endOfDefinition()
	p.ruleHeads[head.Text] = true
	for _, body := range alts {
		p.rules = append(p.rules, &grammar.Rule{
			Head: head.Text,
			Body: body,
		})
	}
}

// parseAlternative parses one sequence of symbols. An empty sequence
// is a valid alternative and derives the empty string.
func (p *parser) parseAlternative() []string {
	var body []string
	for {
		switch {
		case p.consume(kindName):
			tok := p.lastTok
			if !isTerminalName(tok.Text) && !isRuleName(tok.Text) {
				raiseSyntaxError(tok, synErrInvalidName)
			}
			p.refs = append(p.refs, symRef{
				name: tok.Text,
				tok:  tok,
			})
			body = append(body, tok.Text)
		case p.consume(kindString):
			body = append(body, p.anonTerminal(p.lastTok))
		case p.peek(0).KindName == kindRegexp:
			raiseSyntaxError(p.peek(0), synErrPatternInRule)
		default:
			return body
		}
	}
}

// anonTerminal defines the terminal a literal inside a rule implies.
// The same literal always maps to the same terminal.
func (p *parser) anonTerminal(tok *lexer.Token) string {
	lit := p.unescapeString(tok)
	if lit == "" {
		raiseSyntaxError(tok, synErrEmptyPattern)
	}
	if name, ok := p.literals[lit]; ok {
		return name
	}
	name, word := literalName(lit)
	if name == "" {
		name = p.nextAnonName()
	} else if _, taken := p.termDefs[name]; taken {
		name = p.nextAnonName()
	}
	def := &lexer.TokenDef{
		Name:      name,
		Pattern:   lit,
		Literal:   true,
		FilterOut: !word,
	}
	p.termDefs[name] = def
	p.anonDefs = append(p.anonDefs, def)
	p.literals[lit] = name
	return name
}

func (p *parser) nextAnonName() string {
	for {
		name := fmt.Sprintf("__anon%v", p.anonNum)
		p.anonNum++
		if _, taken := p.termDefs[name]; !taken {
			return name
		}
	}
}

func (p *parser) unescapeString(tok *lexer.Token) string {
	text := tok.Text[1 : len(tok.Text)-1]
	if !strings.Contains(text, `\`) {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		// The string pattern never matches a trailing backslash, so a
		// character always follows.
		i++
		switch text[i] {
		case '\\', '"':
			b.WriteByte(text[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			raiseSyntaxError(tok, synErrInvalidEscSeq)
		}
	}
	return b.String()
}

func (p *parser) finish() *GrammarDef {
	if len(p.termDefs) == 0 && len(p.rules) == 0 {
		raiseSyntaxError(p.peek(0), synErrEmptyGrammar)
	}
	for _, ref := range p.refs {
		defined := false
		if isTerminalName(ref.name) {
			_, defined = p.termDefs[ref.name]
		} else {
			defined = p.ruleHeads[ref.name]
		}
		if !defined {
			raiseSyntaxError(ref.tok, fmt.Errorf("%w: %v", synErrUndefinedSymbol, ref.name))
		}
	}
	for _, name := range p.ignores {
		def, ok := p.termDefs[name.Text]
		if !ok {
			raiseSyntaxError(name, fmt.Errorf("%w: %v", synErrUndefinedSymbol, name.Text))
		}
		def.Ignore = true
	}
	return &GrammarDef{
		TokenDefs: append(p.anonDefs, p.userDefs...),
		Rules:     p.rules,
		Start:     p.start,
	}
}

func (p *parser) peek(i int) *lexer.Token {
	if p.pos+i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+i]
}

func (p *parser) consume(kind string) bool {
	tok := p.peek(0)
	if tok.EOF || tok.KindName != kind {
		return false
	}
	p.pos++
	p.lastTok = tok
	return true
}

func (p *parser) skipNewlines() {
	for p.consume(kindNewline) {
	}
}

func (p *parser) atContinuation() bool {
	if p.peek(0).KindName != kindNewline {
		return false
	}
	i := 0
	for p.peek(i).KindName == kindNewline {
		i++
	}
	return p.peek(i).KindName == kindOr
}

func (p *parser) endOfDefinition() {
	if p.peek(0).EOF {
		return
	}
	if !p.consume(kindNewline) {
		raiseSyntaxError(p.peek(0), synErrNoEndOfDef)
	}
}

// isTerminalName reports whether a name defines a terminal: uppercase,
// optionally prefixed with underscores.
func isTerminalName(name string) bool {
	core := strings.TrimLeft(name, "_")
	if core == "" {
		return false
	}
	for i, c := range core {
		if i == 0 && !(c >= 'A' && c <= 'Z') {
			return false
		}
		if !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

// isRuleName reports whether a name defines a rule: lowercase, no
// underscore prefix.
func isRuleName(name string) bool {
	for i, c := range name {
		if i == 0 && !(c >= 'a' && c <= 'z') {
			return false
		}
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
			return false
		}
	}
	return name != ""
}

// literalName derives a terminal name from a literal: word literals
// keep their text, punctuation maps to spelled-out names. The second
// return value reports whether the literal is made of word characters
// only, in which case its tokens stay in syntax trees.
func literalName(lit string) (string, bool) {
	word := true
	for _, c := range lit {
		if !isWordChar(c) {
			word = false
			break
		}
	}
	if word {
		return "__" + lit, true
	}
	var b strings.Builder
	b.WriteString("__")
	for _, c := range lit {
		name, ok := punctNames[c]
		if !ok {
			return "", false
		}
		b.WriteString(name)
	}
	return b.String(), false
}

func isWordChar(c rune) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_'
}

var punctNames = map[rune]string{
	'(':  "lparen",
	')':  "rparen",
	'{':  "lbrace",
	'}':  "rbrace",
	'[':  "lbracket",
	']':  "rbracket",
	'<':  "lt",
	'>':  "gt",
	'=':  "eq",
	'!':  "bang",
	'+':  "plus",
	'-':  "minus",
	'*':  "star",
	'/':  "slash",
	'%':  "percent",
	'^':  "circumflex",
	'&':  "amp",
	'|':  "vbar",
	'~':  "tilde",
	'@':  "at",
	'#':  "hash",
	'$':  "dollar",
	'.':  "dot",
	',':  "comma",
	':':  "colon",
	';':  "semicolon",
	'?':  "qmark",
	'\'': "quote",
	'"':  "dquote",
	'`':  "backquote",
	'\\': "backslash",
}
