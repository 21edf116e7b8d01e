package typechecker

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/lexer"
	"github.com/pontaoski/homonym/parser"
	"github.com/ztrue/tracerr"
)

func parse(t *testing.T, src string) ast.Expression {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	expr, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return expr
}

// run checks each statement against its own result type, failing the test on
// any error or mismatch.
func run(t *testing.T, env *Env, srcs ...string) {
	t.Helper()
	for _, src := range srcs {
		expr := parse(t, src)
		typ, err := ResultType(expr, env)
		if err != nil {
			t.Fatalf("ResultType(%q): %v", src, err)
		}
		ok, err := CheckTypes(expr, typ, env)
		if err != nil {
			t.Fatalf("CheckTypes(%q): %v", src, err)
		}
		if !ok {
			t.Fatalf("CheckTypes(%q) = false", src)
		}
	}
}

var checkTests = []struct {
	input    string
	expected string
	want     bool
}{
	{"true", "bool", true},
	{"1", "int", true},
	{"1", "float", false},
	{"1.5", "float", true},
	{`"s"`, "string", true},
	{`"s"`, "int", false},
	{"1 +<int,int> 2", "int", true},
	{"1 +<int,int> 2", "float", false},
	{"1 +<float,float> 2.5", "float", false},
	{"1.5 *<float,float> 2.5", "float", true},
	{`"a" +<string,string> "b"`, "string", true},
	{"1 <<int,int> 2", "bool", true},
	{`"a" ==<string,string> "b"`, "bool", true},
	{"true and<bool,bool> false", "bool", true},
	{"not<bool> true", "bool", true},
	{"not<bool> 1", "bool", false},
	{"7 %<int,int> 2", "int", true},
	{"let y the int = 3", "", true},
	{"let y the int = 3.5", "", false},
	{"return the int 1", "", true},
	{"return the int 1.5", "", false},
	{"if 1 <<int,int> 2 { 1 } else { 2 }", "", true},
	{"if 1 { 2 }", "", false},
	{"while false { 1 }", "", true},
}

func TestCheckTypes(t *testing.T) {
	for _, tt := range checkTests {
		ok, err := CheckTypes(parse(t, tt.input), tt.expected, NewEnv())
		if err != nil {
			t.Errorf("CheckTypes(%q, %q): unexpected error: %v", tt.input, tt.expected, err)
			continue
		}
		if ok != tt.want {
			t.Errorf("CheckTypes(%q, %q) = %v, want %v", tt.input, tt.expected, ok, tt.want)
		}
	}
}

func TestUndefinedVariable(t *testing.T) {
	_, err := CheckTypes(parse(t, "x +<int,int> 1"), "int", NewEnv())
	if err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
	if !errors.IsTypeError(err) {
		t.Fatalf("got %v, want a type error", err)
	}
	undef, ok := tracerr.Unwrap(err).(errors.UndefinedVariable)
	if !ok {
		t.Fatalf("got %T, want errors.UndefinedVariable", tracerr.Unwrap(err))
	}
	if undef.Name != "x" {
		t.Errorf("undefined variable reported as %q, want x", undef.Name)
	}
}

func TestOverloads(t *testing.T) {
	env := NewEnv()
	run(t, env, "let x the int = 1", `let x the string = "one"`)

	if diff := pretty.Diff(env.Types("x"), []string{"int", "string"}); len(diff) > 0 {
		t.Errorf("x declared under: %v", diff)
	}

	tests := []struct {
		input    string
		expected string
		want     bool
	}{
		{"x +<int,int> 1", "int", true},
		{`x +<string,string> "!"`, "string", true},
		{"x +<float,float> 1.5", "float", false},
		{"x the int", "int", true},
		{"x the string", "string", true},
		{"x the int", "string", false},
	}
	for _, tt := range tests {
		ok, err := CheckTypes(parse(t, tt.input), tt.expected, env)
		if err != nil {
			t.Errorf("CheckTypes(%q): %v", tt.input, err)
			continue
		}
		if ok != tt.want {
			t.Errorf("CheckTypes(%q, %q) = %v, want %v", tt.input, tt.expected, ok, tt.want)
		}
	}

	typ, err := ResultType(parse(t, "x"), env)
	if err != nil {
		t.Fatal(err)
	}
	if typ != "string" {
		t.Errorf("bare x has type %q, want the latest declaration, string", typ)
	}
}

func TestFailedLetDeclaresNothing(t *testing.T) {
	env := NewEnv()
	ok, err := CheckTypes(parse(t, "let z the int = 1.5"), "int", env)
	if err != nil || ok {
		t.Fatalf("CheckTypes = %v, %v; want false, nil", ok, err)
	}
	if _, declared := env.Lookup("z"); declared {
		t.Error("z was declared by a let that failed to check")
	}
}

func TestFunctions(t *testing.T) {
	env := NewEnv()
	run(t, env,
		"function add(a the int, b the int) the int { return the int a +<int,int> b }",
		"add(1, 2 *<int,int> 3) +<int,int> 4",
	)

	ok, err := CheckTypes(parse(t, "add(1, 2)"), "float", env)
	if err != nil || ok {
		t.Errorf("add(1, 2) as float = %v, %v; want false, nil", ok, err)
	}

	ok, err = CheckTypes(parse(t, "add(1, 2.5)"), "int", env)
	if err != nil || ok {
		t.Errorf("add(1, 2.5) = %v, %v; want false, nil", ok, err)
	}

	ok, err = CheckTypes(parse(t, "function half(f the float) the int { return the float f }"), "", env)
	if err != nil || ok {
		t.Errorf("wrong return type = %v, %v; want false, nil", ok, err)
	}
}

func TestFunctionBodyOnlySeesParameters(t *testing.T) {
	env := NewEnv()
	run(t, env, "let y the int = 1")

	_, err := CheckTypes(parse(t, "function f() the int { return the int y }"), "", env)
	if _, ok := tracerr.Unwrap(err).(errors.UndefinedVariable); !ok {
		t.Errorf("got %v, want an undefined variable error", err)
	}
}

func TestCheckErrors(t *testing.T) {
	env := NewEnv()
	run(t, env, "function one() the int { return the int 1 }")

	tests := []struct {
		expr     ast.Expression
		expected string
	}{
		{parse(t, "1 +<int,float> 2.5"), "int"},
		{parse(t, "true +<bool,bool> false"), "bool"},
		{parse(t, "1.5 %<float,float> 2.5"), "float"},
		{parse(t, "not<int> 1"), "bool"},
		{parse(t, "one(1)"), "int"},
		{parse(t, "two()"), "int"},
		{ast.Binary{
			Op:        ast.Plus,
			LeftType:  "int",
			RightType: "int",
			Left:      ast.Let{Name: "n", Type: "int", Value: ast.Integer{Value: 1}},
			Right:     ast.Integer{Value: 2},
		}, "int"},
	}
	for _, tt := range tests {
		_, err := CheckTypes(tt.expr, tt.expected, env)
		if !errors.IsTypeError(err) {
			t.Errorf("CheckTypes(%s) = %v, want a type error", ast.Render(tt.expr), err)
		}
	}
}

func TestFunctionBodyValue(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"function a() the int { 1 }", true},
		{"function b() the int { 1.5 }", false},
		{"function c() the int { }", false},
		{"function d() the int { let r the int = 3 }", true},
		{"function e(f the bool) the int { if f { return the int 1 } else { return the int 2 } }", true},
		{"function g(f the bool) the int { if f { return the int 1 } }", false},
		{"function h(f the bool) the int { if f { return the int 1 } else { 2 } }", true},
		{"function i(f the bool) the int { if f { 1 } else { 2.5 } }", false},
		{"function j() the int { return the int 1; 2.5 }", true},
		{"function k() the int { while false { return the int 1 } }", false},
		{"function l() { 1.5 }", true},
	}
	for _, tt := range tests {
		env := NewEnv()
		ok, err := CheckTypes(parse(t, tt.input), "", env)
		if err != nil {
			t.Errorf("CheckTypes(%q): %v", tt.input, err)
			continue
		}
		if ok != tt.want {
			t.Errorf("CheckTypes(%q) = %v, want %v", tt.input, ok, tt.want)
		}

		fn := parse(t, tt.input).(ast.Function)
		if _, declared := env.Function(fn.Name); declared != tt.want {
			t.Errorf("%s declared = %v after checking, want %v", fn.Name, declared, tt.want)
		}
	}
}

func TestFailedStatementLeavesEnvUnchanged(t *testing.T) {
	env := NewEnv()
	run(t, env, "let x the int = 1")

	ok, err := CheckTypes(parse(t, "if true { let y the int = 1; let z the int = 2.5 } else { let y the int = 2; let z the int = 3 }"), "", env)
	if err != nil || ok {
		t.Fatalf("CheckTypes = %v, %v; want false, nil", ok, err)
	}
	if _, declared := env.Lookup("y"); declared {
		t.Error("y was declared by a statement that failed to check")
	}

	_, err = CheckTypes(parse(t, "function f() the int { return the int nope }"), "", env)
	if !errors.IsTypeError(err) {
		t.Fatalf("got %v, want a type error", err)
	}
	if _, declared := env.Function("f"); declared {
		t.Error("f was declared by a definition that failed to check")
	}
}

func TestBranchBindings(t *testing.T) {
	env := NewEnv()
	run(t, env,
		"if true { let both the int = 1; let one the int = 1 } else { let both the int = 2 }",
		"while false { let loop the int = 1 }",
	)

	if _, declared := env.Lookup("both"); !declared {
		t.Error("a binding made in both arms should be known after the if")
	}
	for _, name := range []string{"one", "loop"} {
		if _, declared := env.Lookup(name); declared {
			t.Errorf("%s should not be known after its branch", name)
		}
	}

	run(t, env, "if true { let inner the int = 1; inner +<int,int> 1 }")
}
