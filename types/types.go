package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	PERIOD
	COMMA
	APOST
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	SEMICOLON
	COLON
	PIPE

	PLUS
	DASH
	STAR
	FSLASH
	PERCENT
	ASSIGNEQUAL
	COMPEQUAL
	LESS
	GREATER
	LEQ
	GEQ

	AND
	OR
	NOT
	THE
	INT
	FLOAT
	STRING
	BOOL
	LET
	FUNCTION
	RETURN
	IF
	ELSE
	WHILE
	TRUE
	FALSE

	INTVAL
	FLTVAL
	STRINGVAL
	TEXT
	TYPEREF
)

var kindNames = map[TokenKind]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	PERIOD:      "PERIOD",
	COMMA:       "COMMA",
	APOST:       "APOST",
	LPAREN:      "LPAREN",
	RPAREN:      "RPAREN",
	LBRACK:      "LBRACK",
	RBRACK:      "RBRACK",
	LBRACE:      "LBRACE",
	RBRACE:      "RBRACE",
	SEMICOLON:   "SEMICOLON",
	COLON:       "COLON",
	PIPE:        "PIPE",
	PLUS:        "PLUS",
	DASH:        "DASH",
	STAR:        "STAR",
	FSLASH:      "FSLASH",
	PERCENT:     "PERCENT",
	ASSIGNEQUAL: "ASSIGNEQUAL",
	COMPEQUAL:   "COMPEQUAL",
	LESS:        "LESS",
	GREATER:     "GREATER",
	LEQ:         "LEQ",
	GEQ:         "GEQ",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	THE:         "THE",
	INT:         "INT",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	BOOL:        "BOOL",
	LET:         "LET",
	FUNCTION:    "FUNCTION",
	RETURN:      "RETURN",
	IF:          "IF",
	ELSE:        "ELSE",
	WHILE:       "WHILE",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	INTVAL:      "INTVAL",
	FLTVAL:      "FLTVAL",
	STRINGVAL:   "STRINGVAL",
	TEXT:        "TEXT",
	TYPEREF:     "TYPEREF",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// Keywords maps every reserved word to its token kind.
var Keywords = map[string]TokenKind{
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"function": FUNCTION,
	"return":   RETURN,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"the":      THE,
	"int":      INT,
	"float":    FLOAT,
	"string":   STRING,
	"bool":     BOOL,
	"true":     TRUE,
	"false":    FALSE,
}

// Builtin type names. Annotations may name any other identifier as well.
const (
	IntType    = "int"
	FloatType  = "float"
	StringType = "string"
	BoolType   = "bool"
)

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Join returns the span covering a through b.
func Join(a, b Span) Span {
	return Span{a.From, b.To}
}

// Token is one lexical unit. Only the payload field matching Kind is set:
// Int for INTVAL, Float for FLTVAL, Text for STRINGVAL, TEXT and TYPEREF.
type Token struct {
	Kind     TokenKind
	Location Span

	Text  string
	Int   int64
	Float float64
}

// IsTypeName reports whether the token can name a type in a `the T` clause.
func (t Token) IsTypeName() bool {
	switch t.Kind {
	case INT, FLOAT, STRING, BOOL, TEXT:
		return true
	}
	return false
}

// TypeName returns the type named by the token; see IsTypeName.
func (t Token) TypeName() string {
	switch t.Kind {
	case INT:
		return IntType
	case FLOAT:
		return FloatType
	case STRING:
		return StringType
	case BOOL:
		return BoolType
	}
	return t.Text
}

func (t Token) String() string {
	switch t.Kind {
	case INTVAL:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Int)
	case FLTVAL:
		return fmt.Sprintf("%s(%g)", t.Kind, t.Float)
	case STRINGVAL, TEXT, TYPEREF:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}
