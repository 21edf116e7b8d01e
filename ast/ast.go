package ast

//go:generate go run ../tool expression.adt expression_gen.go ast

import "github.com/pontaoski/homonym/types"

type Boolean struct {
	Value bool
	Pos   types.Span
}

type Integer struct {
	Value int64
	Pos   types.Span
}

type Float struct {
	Value float64
	Pos   types.Span
}

type String struct {
	Value string
	Pos   types.Span
}

// Text is an identifier. Type is the declared type it is read under, taken
// from the enclosing annotation; empty means the name's default type.
type Text struct {
	Name string
	Type string
	Pos  types.Span
}

type Operator int

const (
	Plus Operator = iota
	Minus
	Times
	DividedBy
	Modulo
	Equal
	Less
	Greater
	LessEq
	GreaterEq
	And
	Or
)

var operatorNames = [...]string{
	Plus:      "PLUS",
	Minus:     "MINUS",
	Times:     "TIMES",
	DividedBy: "DIVIDEDBY",
	Modulo:    "MODULO",
	Equal:     "EQUAL",
	Less:      "LESS",
	Greater:   "GREATER",
	LessEq:    "LESSEQ",
	GreaterEq: "GREATEREQ",
	And:       "AND",
	Or:        "OR",
}

var operatorSymbols = [...]string{
	Plus:      "+",
	Minus:     "-",
	Times:     "*",
	DividedBy: "/",
	Modulo:    "%",
	Equal:     "==",
	Less:      "<",
	Greater:   ">",
	LessEq:    "<=",
	GreaterEq: ">=",
	And:       "and",
	Or:        "or",
}

func (o Operator) String() string { return operatorNames[o] }

// Symbol is the operator as written in source.
func (o Operator) Symbol() string { return operatorSymbols[o] }

func (o Operator) IsArithmetic() bool { return o <= Modulo }

func (o Operator) IsComparison() bool { return o >= Equal && o <= GreaterEq }

// Binary is an operator applied to two operands whose types were declared by
// the annotation following the operator.
type Binary struct {
	Op        Operator
	LeftType  string
	RightType string
	Left      Expression
	Right     Expression
	Pos       types.Span
}

type Not struct {
	Type  string
	Value Expression
	Pos   types.Span
}

// Let binds Name under Type. It is only valid as a whole statement.
type Let struct {
	Name  string
	Type  string
	Value Expression
	Pos   types.Span
}

type If struct {
	Condition Expression
	Then      []Expression
	Else      []Expression
	Pos       types.Span
}

type While struct {
	Condition Expression
	Body      []Expression
	Pos       types.Span
}

type Param struct {
	Name string
	Type string
}

type Function struct {
	Name    string
	Params  []Param
	Returns string
	Body    []Expression
	Pos     types.Span
}

type Return struct {
	Type  string
	Value Expression
	Pos   types.Span
}

type Call struct {
	Function string
	Args     []Expression
	Pos      types.Span
}

// PosOf returns the source span of e.
func PosOf(e Expression) types.Span {
	switch v := e.(type) {
	case Boolean:
		return v.Pos
	case Integer:
		return v.Pos
	case Float:
		return v.Pos
	case String:
		return v.Pos
	case Text:
		return v.Pos
	case Binary:
		return v.Pos
	case Not:
		return v.Pos
	case Let:
		return v.Pos
	case If:
		return v.Pos
	case While:
		return v.Pos
	case Function:
		return v.Pos
	case Return:
		return v.Pos
	case Call:
		return v.Pos
	}
	return types.Span{}
}
