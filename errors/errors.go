package errors

import (
	"fmt"

	"github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

type lexError interface{ isLexError() }
type parseError interface{ isParseError() }
type typeError interface{ isTypeError() }
type evalError interface{ isEvalError() }

func unwrap(err error) error {
	if err == nil {
		return nil
	}
	return tracerr.Unwrap(err)
}

func IsLexError(err error) bool {
	_, ok := unwrap(err).(lexError)
	return ok
}

func IsParseError(err error) bool {
	_, ok := unwrap(err).(parseError)
	return ok
}

func IsTypeError(err error) bool {
	_, ok := unwrap(err).(typeError)
	return ok
}

func IsEvalError(err error) bool {
	_, ok := unwrap(err).(evalError)
	return ok
}

// Lexical errors

type UnexpectedCharacter struct {
	Char     rune
	Location types.Span
}

func (e UnexpectedCharacter) Error() string {
	return fmt.Sprintf("unexpected character %q. %s", e.Char, e.Location)
}
func (UnexpectedCharacter) isLexError() {}

type UnterminatedString struct {
	Location types.Span
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("string literal is never closed. %s", e.Location)
}
func (UnterminatedString) isLexError() {}

type InvalidNumber struct {
	Text     string
	Location types.Span
}

func (e InvalidNumber) Error() string {
	return fmt.Sprintf("%s is not a representable number. %s", e.Text, e.Location)
}
func (InvalidNumber) isLexError() {}

// Parse errors

type ExpectedKindGotKind struct {
	Expected types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected a %s. %s", e.Got, e.Expected, e.Location)
}
func (ExpectedKindGotKind) isParseError() {}

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected one of %s. %s", e.Got, e.Expected, e.Location)
}
func (ExpectedOneOfKindGotKind) isParseError() {}

// UnbalancedBracket is a closer with no open bracket, or one that closes the
// wrong kind of bracket.
type UnbalancedBracket struct {
	Got      types.TokenKind
	Open     types.TokenKind
	Location types.Span
}

func (e UnbalancedBracket) Error() string {
	if e.Open == types.EOF {
		return fmt.Sprintf("%s closes nothing. %s", e.Got, e.Location)
	}
	return fmt.Sprintf("%s cannot close %s. %s", e.Got, e.Open, e.Location)
}
func (UnbalancedBracket) isParseError() {}

type UnclosedBracket struct {
	Open     types.TokenKind
	Location types.Span
}

func (e UnclosedBracket) Error() string {
	return fmt.Sprintf("%s is never closed. %s", e.Open, e.Location)
}
func (UnclosedBracket) isParseError() {}

type NotAnExpression struct {
	Got      types.TokenKind
	Location types.Span
}

func (e NotAnExpression) Error() string {
	return fmt.Sprintf("a lone %s can't be parsed as its own expression. %s", e.Got, e.Location)
}
func (NotAnExpression) isParseError() {}

type EmptyExpression struct {
	Location types.Span
}

func (e EmptyExpression) Error() string {
	return fmt.Sprintf("expected an expression. %s", e.Location)
}
func (EmptyExpression) isParseError() {}

type NoOperator struct {
	Location types.Span
}

func (e NoOperator) Error() string {
	return fmt.Sprintf("didn't know how to parse that: no operator to split on. %s", e.Location)
}
func (NoOperator) isParseError() {}

type MissingTypeReference struct {
	Operator types.TokenKind
	Location types.Span
}

func (e MissingTypeReference) Error() string {
	return fmt.Sprintf("%s is not accompanied by a type reference. %s", e.Operator, e.Location)
}
func (MissingTypeReference) isParseError() {}

type TypeReferenceArity struct {
	Operator types.TokenKind
	Want     int
	Got      int
	Location types.Span
}

func (e TypeReferenceArity) Error() string {
	return fmt.Sprintf("%s needs a type reference with %d names, got %d. %s", e.Operator, e.Want, e.Got, e.Location)
}
func (TypeReferenceArity) isParseError() {}

type EmptyTypeReference struct {
	Raw      string
	Location types.Span
}

func (e EmptyTypeReference) Error() string {
	return fmt.Sprintf("type reference %q names no types. %s", e.Raw, e.Location)
}
func (EmptyTypeReference) isParseError() {}

type MalformedTypeReference struct {
	Raw      string
	Reason   string
	Location types.Span
}

func (e MalformedTypeReference) Error() string {
	return fmt.Sprintf("malformed type reference %q: %s. %s", e.Raw, e.Reason, e.Location)
}
func (MalformedTypeReference) isParseError() {}

// NestedLet is a binding that is not a whole statement.
type NestedLet struct {
	Location types.Span
}

func (e NestedLet) Error() string {
	return fmt.Sprintf("let must be a whole statement, not part of an expression. %s", e.Location)
}
func (NestedLet) isParseError() {}
func (NestedLet) isTypeError()  {}
func (NestedLet) isEvalError()  {}

type DuplicateParameter struct {
	Name     string
	Location types.Span
}

func (e DuplicateParameter) Error() string {
	return fmt.Sprintf("parameter %s specified more than once. %s", e.Name, e.Location)
}
func (DuplicateParameter) isParseError() {}

// Type errors

type UndefinedVariable struct {
	Name     string
	Location types.Span
}

func (e UndefinedVariable) Error() string {
	return fmt.Sprintf("%s is not a defined variable. %s", e.Name, e.Location)
}
func (UndefinedVariable) isTypeError() {}

type UndefinedFunction struct {
	Name     string
	Location types.Span
}

func (e UndefinedFunction) Error() string {
	return fmt.Sprintf("%s is not a defined function. %s", e.Name, e.Location)
}
func (UndefinedFunction) isTypeError() {}
func (UndefinedFunction) isEvalError() {}

type TypeMismatch struct {
	Expected string
	Got      string
	Location types.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("expected a value of type %s, got %s. %s", e.Expected, e.Got, e.Location)
}
func (TypeMismatch) isTypeError() {}

type OperatorNotDefined struct {
	Operator string
	Left     string
	Right    string
	Location types.Span
}

func (e OperatorNotDefined) Error() string {
	return fmt.Sprintf("%s is not defined for <%s,%s>. %s", e.Operator, e.Left, e.Right, e.Location)
}
func (OperatorNotDefined) isTypeError() {}

type ArgumentCount struct {
	Function string
	Want     int
	Got      int
	Location types.Span
}

func (e ArgumentCount) Error() string {
	return fmt.Sprintf("%s takes %d arguments, got %d. %s", e.Function, e.Want, e.Got, e.Location)
}
func (ArgumentCount) isTypeError() {}
func (ArgumentCount) isEvalError() {}

type UncheckableNode struct {
	Node string
}

func (e UncheckableNode) Error() string {
	return fmt.Sprintf("I don't know how to typecheck %s", e.Node)
}
func (UncheckableNode) isTypeError() {}

// IllTyped is a statement whose parts don't agree with its annotations.
type IllTyped struct {
	Statement string
	Location  types.Span
}

func (e IllTyped) Error() string {
	return fmt.Sprintf("%s is not well typed. %s", e.Statement, e.Location)
}
func (IllTyped) isTypeError() {}

// Evaluation errors

// UnboundVariable is a name with no value in the requested type bucket.
type UnboundVariable struct {
	Name     string
	Type     string
	Location types.Span
}

func (e UnboundVariable) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("%s has no value under any type. %s", e.Name, e.Location)
	}
	return fmt.Sprintf("%s has no value of type %s. %s", e.Name, e.Type, e.Location)
}
func (UnboundVariable) isEvalError() {}

// ValueMismatch is a value whose runtime type differs from the type it was
// declared under.
type ValueMismatch struct {
	Expected string
	Got      string
	Location types.Span
}

func (e ValueMismatch) Error() string {
	return fmt.Sprintf("expected a value of type %s, got a %s. %s", e.Expected, e.Got, e.Location)
}
func (ValueMismatch) isEvalError() {}

type OperandMismatch struct {
	Operator string
	Left     string
	Right    string
	Location types.Span
}

func (e OperandMismatch) Error() string {
	return fmt.Sprintf("can't apply %s to %s and %s. %s", e.Operator, e.Left, e.Right, e.Location)
}
func (OperandMismatch) isEvalError() {}

type DivisionByZero struct {
	Location types.Span
}

func (e DivisionByZero) Error() string {
	return fmt.Sprintf("integer division by zero. %s", e.Location)
}
func (DivisionByZero) isEvalError() {}

type UnevaluableNode struct {
	Node string
}

func (e UnevaluableNode) Error() string {
	return fmt.Sprintf("I don't know how to evaluate %s", e.Node)
}
func (UnevaluableNode) isEvalError() {}

// Unsupported is a construct the IR emitter can't lower.
type Unsupported struct {
	What     string
	Location types.Span
}

func (e Unsupported) Error() string {
	return fmt.Sprintf("%s can't be compiled to IR yet. %s", e.What, e.Location)
}
