package main

import (
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/eval"
	"github.com/pontaoski/homonym/lexer"
	"github.com/pontaoski/homonym/parser"
	"github.com/pontaoski/homonym/typechecker"
	"github.com/ztrue/tracerr"
)

// Session is one run of the interpreter: the declarations seen so far and the
// values bound to them.
type Session struct {
	Env     *typechecker.Env
	Context *eval.Context

	EchoTree bool
	Out      io.Writer
}

func NewSession(conf Config, out io.Writer) *Session {
	return &Session{
		Env:      typechecker.NewEnv(),
		Context:  eval.NewContext(),
		EchoTree: conf.EchoTree,
		Out:      out,
	}
}

// Parse tokenizes and parses a whole program.
func Parse(r io.Reader, filename string) ([]ast.Expression, error) {
	toks, err := lexer.TokenizeReader(r, filename)
	if err != nil {
		return nil, err
	}
	return parser.ParseProgram(toks)
}

// Check type checks stmt against its own result type, declaring its bindings
// in the session.
func (s *Session) Check(stmt ast.Expression) error {
	return check(stmt, s.Env)
}

func check(stmt ast.Expression, env *typechecker.Env) error {
	typ, err := typechecker.ResultType(stmt, env)
	if err != nil {
		return err
	}
	ok, err := typechecker.CheckTypes(stmt, typ, env)
	if err != nil {
		return err
	}
	if !ok {
		return tracerr.Wrap(errors.IllTyped{Statement: ast.Render(stmt), Location: ast.PosOf(stmt)})
	}
	return nil
}

// Exec checks and evaluates every statement read from r, stopping at the first
// failure. It returns the value of the last statement run. The declarations of
// a statement are kept only once it has been evaluated without error.
func (s *Session) Exec(r io.Reader, filename string) (eval.Value, error) {
	stmts, err := Parse(r, filename)
	if err != nil {
		return nil, err
	}

	var last eval.Value = eval.Unit{}
	for _, stmt := range stmts {
		if s.EchoTree {
			fmt.Fprintln(s.Out, repr.String(stmt, repr.Indent("  ")))
		}
		staged := s.Env.Clone()
		if err := check(stmt, staged); err != nil {
			return nil, err
		}
		last, err = eval.Evaluate(stmt, s.Context)
		if err != nil {
			return nil, err
		}
		s.Env = staged
	}
	return last, nil
}

// ExecFile runs the program in path.
func (s *Session) ExecFile(path string) (eval.Value, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	defer fi.Close()

	return s.Exec(fi, path)
}

// Bindings lists every bound name with the types it is bound under.
func (s *Session) Bindings() []string {
	var ret []string
	for _, name := range s.Context.Names() {
		for _, typ := range s.Context.Types(name) {
			v, _ := s.Context.Lookup(typ, name)
			ret = append(ret, fmt.Sprintf("%s the %s = %s", name, typ, v))
		}
	}
	return ret
}

// REPL reads statements from in line by line until EOF. Errors are reported
// and the session carries on.
func (s *Session) REPL(in io.Reader, prompt string, report func(error)) {
	scanner := bufio.NewScanner(in)
	line := 0
	for {
		fmt.Fprint(s.Out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.Out)
			return
		}
		line++

		src := strings.TrimSpace(scanner.Text())
		switch src {
		case "":
			continue
		case ":env":
			for _, b := range s.Bindings() {
				fmt.Fprintln(s.Out, b)
			}
			continue
		}

		v, err := s.Exec(strings.NewReader(src), fmt.Sprintf("<repl:%d>", line))
		if err != nil {
			report(err)
			continue
		}
		if _, unit := v.(eval.Unit); !unit {
			fmt.Fprintln(s.Out, v)
		}
	}
}

// checkFile parses and type checks the program in path without running it.
func checkFile(conf Config, path string) ([]ast.Expression, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	defer fi.Close()

	stmts, err := Parse(fi, path)
	if err != nil {
		return nil, err
	}

	s := NewSession(conf, ioutil.Discard)
	for _, stmt := range stmts {
		if err := s.Check(stmt); err != nil {
			return nil, err
		}
	}
	return stmts, nil
}
