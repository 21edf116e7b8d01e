package lexer

import (
	"io"
	"io/ioutil"
	"strconv"
	"strings"
	"unicode"

	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

const eofRune rune = -1

type Lexer struct {
	src []rune
	off int
	pos types.Position
	err error

	peeked *types.Token
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	l := &Lexer{
		pos: types.Position{Line: 1, Column: 0, Filename: filename},
	}
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		l.err = err
		return l
	}
	l.src = []rune(string(data))
	return l
}

// Tokenize lexes the whole of src. Whitespace and comments produce no tokens.
func Tokenize(src string) ([]types.Token, error) {
	return TokenizeReader(strings.NewReader(src), "")
}

func TokenizeReader(r io.Reader, filename string) (toks []types.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	l := NewLexer(r, filename)
	for !l.PeekIs(types.EOF) {
		toks = append(toks, l.Lex())
	}
	return toks, nil
}

func (l *Lexer) at(i int) rune {
	if l.off+i >= len(l.src) {
		return eofRune
	}
	return l.src[l.off+i]
}

func (l *Lexer) advance() rune {
	r := l.src[l.off]
	l.off++
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}
	return r
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// nextPos is the position of the rune about to be read.
func (l *Lexer) nextPos() types.Position {
	p := l.pos
	p.Column++
	return p
}

func (l *Lexer) kinded(t types.TokenKind, from types.Position) types.Token {
	return types.Token{
		Kind:     t,
		Location: types.Span{From: from, To: l.pos},
	}
}

func firstChar(r rune) bool {
	return r == '_' || r == '`' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func otherChar(r rune) bool {
	return firstChar(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// nameEnd returns the offset just past an identifier starting at i, or i.
func (l *Lexer) nameEnd(i int) int {
	if !firstChar(l.at(i)) {
		return i
	}
	i++
	for otherChar(l.at(i)) {
		i++
	}
	return i
}

func (l *Lexer) skipBlanks(i int) int {
	for l.at(i) == ' ' || l.at(i) == '\t' {
		i++
	}
	return i
}

// typeRefEnd returns the length of a type reference starting at the current
// offset, or 0 if the `<` there doesn't open one.
func (l *Lexer) typeRefEnd() int {
	i := 1
	for {
		j := l.nameEnd(i)
		if j == i {
			return 0
		}
		i = l.skipBlanks(j)

		switch l.at(i) {
		case '>':
			return i + 1
		case ',':
			i = l.skipBlanks(i + 1)
			if l.at(i) == '>' {
				return i + 1
			}
		default:
			return 0
		}
	}
}

func (l *Lexer) startsNumber() bool {
	i := 0
	if l.at(0) == '-' {
		i = 1
	}
	if isDigit(l.at(i)) {
		return true
	}
	return l.at(i) == '.' && isDigit(l.at(i+1))
}

func (l *Lexer) lexNumber(from types.Position) types.Token {
	var lit strings.Builder
	if l.at(0) == '-' {
		lit.WriteRune(l.advance())
	}
	for isDigit(l.at(0)) {
		lit.WriteRune(l.advance())
	}

	if l.at(0) == '.' && isDigit(l.at(1)) {
		lit.WriteRune(l.advance())
		for isDigit(l.at(0)) {
			lit.WriteRune(l.advance())
		}

		tok := l.kinded(types.FLTVAL, from)
		f, err := strconv.ParseFloat(lit.String(), 64)
		if err != nil {
			panic(errors.InvalidNumber{Text: lit.String(), Location: tok.Location})
		}
		tok.Float = f
		return tok
	}

	tok := l.kinded(types.INTVAL, from)
	i, err := strconv.ParseInt(lit.String(), 10, 64)
	if err != nil {
		panic(errors.InvalidNumber{Text: lit.String(), Location: tok.Location})
	}
	tok.Int = i
	return tok
}

func (l *Lexer) lexString(from types.Position) types.Token {
	l.advance()

	var lit strings.Builder
	for {
		r := l.at(0)
		if r == eofRune {
			panic(errors.UnterminatedString{Location: types.Span{From: from, To: l.pos}})
		}
		l.advance()
		if r == '"' {
			tok := l.kinded(types.STRINGVAL, from)
			tok.Text = lit.String()
			return tok
		}
		lit.WriteRune(r)
	}
}

func (l *Lexer) lexIdent(from types.Position) types.Token {
	end := l.nameEnd(0)
	lit := string(l.src[l.off : l.off+end])
	l.advanceN(end)

	if kind, ok := types.Keywords[lit]; ok {
		return l.kinded(kind, from)
	}

	tok := l.kinded(types.TEXT, from)
	tok.Text = lit
	return tok
}

var punctuation = map[rune]types.TokenKind{
	'.':  types.PERIOD,
	',':  types.COMMA,
	'\'': types.APOST,
	'(':  types.LPAREN,
	')':  types.RPAREN,
	'[':  types.LBRACK,
	']':  types.RBRACK,
	'{':  types.LBRACE,
	'}':  types.RBRACE,
	';':  types.SEMICOLON,
	':':  types.COLON,
	'|':  types.PIPE,
	'+':  types.PLUS,
	'-':  types.DASH,
	'*':  types.STAR,
	'/':  types.FSLASH,
	'%':  types.PERCENT,
	'=':  types.ASSIGNEQUAL,
	'<':  types.LESS,
	'>':  types.GREATER,
}

var compound = map[string]types.TokenKind{
	"==": types.COMPEQUAL,
	"<=": types.LEQ,
	">=": types.GEQ,
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() types.Token {
	if l.peeked != nil {
		return *l.peeked
	}

	tok := l.lex()
	l.peeked = &tok
	return tok
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

// LexExpecting consumes the next token, panicking unless it is one of k.
func (l *Lexer) LexExpecting(k ...types.TokenKind) types.Token {
	token := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token
		}
	}

	if len(k) == 1 {
		panic(errors.ExpectedKindGotKind{Expected: k[0], Got: token.Kind, Location: token.Location})
	}
	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token.Kind,
		Location: token.Location,
	})
}

// Lex returns the next token, or an EOF token once input is exhausted.
// Lexical errors are raised as panics carrying a typed error.
func (l *Lexer) Lex() types.Token {
	if l.peeked != nil {
		defer func() { l.peeked = nil }()
		return *l.peeked
	}
	return l.lex()
}

func (l *Lexer) lex() types.Token {
	if l.err != nil {
		panic(l.err)
	}

	for {
		r := l.at(0)
		if r == eofRune {
			return l.kinded(types.EOF, l.nextPos())
		}

		if unicode.IsSpace(r) {
			l.advance()
			continue
		}
		if r == '/' && l.at(1) == '/' {
			for l.at(0) != '\n' && l.at(0) != eofRune {
				l.advance()
			}
			continue
		}

		from := l.nextPos()

		switch {
		case r == '"':
			return l.lexString(from)
		case r == '<':
			if n := l.typeRefEnd(); n > 0 {
				lit := string(l.src[l.off : l.off+n])
				l.advanceN(n)
				tok := l.kinded(types.TYPEREF, from)
				tok.Text = lit
				return tok
			}
		case l.startsNumber():
			return l.lexNumber(from)
		case firstChar(r):
			return l.lexIdent(from)
		}

		if l.at(1) != eofRune {
			if kind, ok := compound[string([]rune{r, l.at(1)})]; ok {
				l.advanceN(2)
				return l.kinded(kind, from)
			}
		}
		if kind, ok := punctuation[r]; ok {
			l.advance()
			return l.kinded(kind, from)
		}

		l.advance()
		panic(errors.UnexpectedCharacter{Char: r, Location: types.SingleCharSpan(from)})
	}
}
