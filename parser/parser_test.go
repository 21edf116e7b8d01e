package parser

import (
	"fmt"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/lexer"
	"github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

func tokens(t *testing.T, src string) []types.Token {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return toks
}

func parseSrc(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, err := Parse(tokens(t, src))
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return expr
}

var parseTests = []struct {
	input string
	want  string
}{
	{"4", "4"},
	{"4 +<int,int> 4", "PLUS<int,int>(4, 4)"},
	{"4 +<int,int> 5 *<int,int> 7", "PLUS<int,int>(4, TIMES<int,int>(5, 7))"},
	{"4 *<int,int> 5 +<int,int> 7", "PLUS<int,int>(TIMES<int,int>(4, 5), 7)"},
	{"4 +<int,int> 5 -<int,int> 7", "MINUS<int,int>(PLUS<int,int>(4, 5), 7)"},
	{"8 /<int,int> 4 /<int,int> 2", "DIVIDEDBY<int,int>(DIVIDEDBY<int,int>(8, 4), 2)"},
	{"(4 +<int,int> 5) *<int,int> 7", "TIMES<int,int>(PLUS<int,int>(4, 5), 7)"},
	{"((4))", "4"},
	{"4 -<int,int> (5 -<int,int> 7)", "MINUS<int,int>(4, MINUS<int,int>(5, 7))"},
	{"1.5 *<float,float> .5 %<float,float> x", "MODULO<float,float>(TIMES<float,float>(1.5, 0.5), x)"},
	{`"a" +<string,string> "b"`, `PLUS<string,string>("a", "b")`},
	{"a <<int,int> b and<bool,bool> c ==<int,int> d", "AND<bool,bool>(LESS<int,int>(a, b), EQUAL<int,int>(c, d))"},
	{"a or<bool,bool> b and<bool,bool> c", "OR<bool,bool>(a, AND<bool,bool>(b, c))"},
	{"not<bool> true or<bool,bool> false", "OR<bool,bool>(NOT<bool>(true), false)"},
	{"f(1, 2 +<int,int> 3)", "CALL f(1, PLUS<int,int>(2, 3))"},
	{"f()", "CALL f()"},
	{"f(g(1)) +<int,int> 1", "PLUS<int,int>(CALL f(CALL g(1)), 1)"},
	{"let x the int = 4 +<int,int> 5;", "LET(x the int = PLUS<int,int>(4, 5))"},
	{"let x the meters = 4", "LET(x the meters = 4)"},
	{"return the float 1.5", "RETURN(the float 1.5)"},
	{"if a <<int,int> 1 { let y the int = 2; y } else { 3 }", "IF(LESS<int,int>(a, 1), {LET(y the int = 2); y}, {3})"},
	{"if true { 1 }", "IF(true, {1}, {})"},
	{"if a { 1 } else if b { 2 } else { 3 }", "IF(a, {1}, {IF(b, {2}, {3})})"},
	{"while c { let c the bool = false }", "WHILE(c, {LET(c the bool = false)})"},
	{
		"function add(a the int, b the int) the int { return the int a +<int,int> b }",
		"FUNCTION add(a the int, b the int) the int {RETURN(the int PLUS<int,int>(a, b))}",
	},
	{"function noop() { }", "FUNCTION noop() {}"},
	{"x the string", "x the string"},
	{"f(x the int) +<int,int> x", "PLUS<int,int>(CALL f(x the int), x)"},
	{"let y the int = x the float", "LET(y the int = x the float)"},
}

func TestParse(t *testing.T) {
	for _, tt := range parseTests {
		got := ast.Render(parseSrc(t, tt.input))
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestIdentifierTypesFromAnnotation(t *testing.T) {
	expr := parseSrc(t, "x +<int,string> y")
	bin, ok := expr.(ast.Binary)
	if !ok {
		t.Fatalf("got %s", repr.String(expr))
	}
	if left := bin.Left.(ast.Text); left.Type != "int" {
		t.Errorf("left operand read as %q, want int", left.Type)
	}
	if right := bin.Right.(ast.Text); right.Type != "string" {
		t.Errorf("right operand read as %q, want string", right.Type)
	}

	let := parseSrc(t, "let y the float = x").(ast.Let)
	if v := let.Value.(ast.Text); v.Type != "float" {
		t.Errorf("initializer read as %q, want float", v.Type)
	}

	bare := parseSrc(t, "x").(ast.Text)
	if bare.Type != "" {
		t.Errorf("bare identifier read as %q, want no type", bare.Type)
	}

	annotated := parseSrc(t, "x the string").(ast.Text)
	if annotated.Type != "string" {
		t.Errorf("annotated identifier read as %q, want string", annotated.Type)
	}
}

func TestParseProgram(t *testing.T) {
	src := `
		function one() the int { return the int 1 }
		let x the int = one();
		let x the string = "x";
		if true { x the int } else { 0 }
		x the string
	`
	stmts, err := ParseProgram(tokens(t, src))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"FUNCTION one() the int {RETURN(the int 1)}",
		"LET(x the int = CALL one())",
		`LET(x the string = "x")`,
		"IF(true, {x the int}, {0})",
		"x the string",
	}
	if len(stmts) != len(want) {
		t.Fatalf("got %d statements, want %d: %s", len(stmts), len(want), repr.String(stmts))
	}
	for i, stmt := range stmts {
		if got := ast.Render(stmt); got != want[i] {
			t.Errorf("statement %d = %s, want %s", i, got, want[i])
		}
	}
}

func TestCheckBalanced(t *testing.T) {
	balanced := []string{"", "()", "(())", "([]{})", "f(a, (b))", "{ ( [ ] ) }"}
	for _, src := range balanced {
		if err := CheckBalanced(tokens(t, src)); err != nil {
			t.Errorf("CheckBalanced(%q): %v", src, err)
		}
	}

	unbalanced := []string{")", ")(", "())", "(]", "{)", "(", "(()"}
	for _, src := range unbalanced {
		if err := CheckBalanced(tokens(t, src)); err == nil {
			t.Errorf("CheckBalanced(%q) accepted unbalanced brackets", src)
		}
	}
}

func TestTypeReferenceErrorsHaveLocation(t *testing.T) {
	at := types.Span{
		From: types.Position{Filename: "test.hom", Line: 1, Column: 3},
		To:   types.Position{Filename: "test.hom", Line: 1, Column: 4},
	}
	for _, raw := range []string{"<>", "<1nt>"} {
		toks := []types.Token{
			{Kind: types.INTVAL, Int: 4, Text: "4"},
			{Kind: types.PLUS, Text: "+"},
			{Kind: types.TYPEREF, Text: raw, Location: at},
			{Kind: types.INTVAL, Int: 5, Text: "5"},
		}
		_, err := Parse(toks)
		switch e := tracerr.Unwrap(err).(type) {
		case errors.EmptyTypeReference:
			if e.Location != at {
				t.Errorf("%s reported at %s, want %s", raw, e.Location, at)
			}
		case errors.MalformedTypeReference:
			if e.Location != at {
				t.Errorf("%s reported at %s, want %s", raw, e.Location, at)
			}
		default:
			t.Errorf("Parse with %s = %v, want a type reference error", raw, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{")(", errors.UnbalancedBracket{}},
		{"(1", errors.UnclosedBracket{}},
		{"[1)", errors.UnbalancedBracket{}},
		{"4 + 5", errors.MissingTypeReference{}},
		{"4 +<int> 5", errors.TypeReferenceArity{}},
		{"4 +<int,int,int> 5", errors.TypeReferenceArity{}},
		{"+", errors.NotAnExpression{}},
		{"the", errors.NotAnExpression{}},
		{"1 2", errors.NoOperator{}},
		{"4 +<int,int>", errors.EmptyExpression{}},
		{"let x the int =", errors.EmptyExpression{}},
		{"let 4 the int = 1", errors.ExpectedKindGotKind{}},
		{"let x int = 1", errors.ExpectedKindGotKind{}},
		{"1 +<int,int> (let x the int = 1)", errors.NestedLet{}},
		{"return the int let x the int = 1", errors.NestedLet{}},
		{"function f(a the int, a the int) { }", errors.DuplicateParameter{}},
		{"if true { 1 } 2", errors.ExpectedKindGotKind{}},
		{"1; 2", errors.ExpectedKindGotKind{}},
		{"", errors.EmptyExpression{}},
	}

	for _, tt := range tests {
		toks, err := lexer.Tokenize(tt.input)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", tt.input, err)
		}
		_, err = Parse(toks)
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want %T", tt.input, tt.want)
			continue
		}
		if !errors.IsParseError(err) {
			t.Errorf("Parse(%q) = %v, not a parse error", tt.input, err)
		}
		if got := tracerr.Unwrap(err); fmt.Sprintf("%T", got) != fmt.Sprintf("%T", tt.want) {
			t.Errorf("Parse(%q) = %T (%v), want %T", tt.input, got, got, tt.want)
		}
	}
}
