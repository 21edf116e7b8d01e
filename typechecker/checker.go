// Package typechecker verifies declared types before a statement is
// evaluated.
//
// Operand types are never inferred: every operator carries the types of its
// operands in its annotation, and checking confirms that each subtree really
// has the type declared for it. Mixed-type arithmetic is rejected; there is no
// promotion from int to float.
//
// For let and return, the expected type passed to CheckTypes is ignored and
// the node's own declared type is used instead. The same holds for if, while
// and function definitions, which have no value type of their own.
//
// A binding made inside one arm of an if is only known after the if when the
// other arm makes the same binding. Bindings made in a while body are never
// known after it, since the body may not run.
package typechecker

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/homonym", "typechecker")

func recoverInto(err *error) {
	if r := recover(); r != nil {
		rerr, ok := r.(error)
		if ok {
			*err = tracerr.Wrap(rerr)
		} else {
			panic(r)
		}
	}
}

// CheckTypes reports whether the statement expr has type expected, declaring
// any binding it makes in env. Undefined names and ill-formed operators are
// errors rather than a false result. A statement that fails either way leaves
// env as it was.
func CheckTypes(expr ast.Expression, expected string, env *Env) (ok bool, err error) {
	staged := env.Clone()
	defer func() {
		if !ok {
			env.restore(staged)
		}
	}()
	defer recoverInto(&err)

	c := &checker{env: env}
	return c.statement(expr, expected), nil
}

// ResultType computes the type a statement or expression produces. Statements
// without a value type (if, while, function) have the empty type.
func ResultType(expr ast.Expression, env *Env) (typ string, err error) {
	defer recoverInto(&err)

	c := &checker{env: env}
	return c.resultType(expr), nil
}

// OperatorResult returns the type op produces for operands of the given
// types, or false if op isn't defined for them.
func OperatorResult(op ast.Operator, left, right string) (string, bool) {
	if left != right {
		return "", false
	}

	switch op {
	case ast.Plus:
		switch left {
		case types.IntType, types.FloatType, types.StringType:
			return left, true
		}
	case ast.Minus, ast.Times, ast.DividedBy:
		switch left {
		case types.IntType, types.FloatType:
			return left, true
		}
	case ast.Modulo:
		if left == types.IntType {
			return left, true
		}
	case ast.Equal:
		return types.BoolType, true
	case ast.Less, ast.Greater, ast.LessEq, ast.GreaterEq:
		switch left {
		case types.IntType, types.FloatType, types.StringType:
			return types.BoolType, true
		}
	case ast.And, ast.Or:
		if left == types.BoolType {
			return types.BoolType, true
		}
	}
	return "", false
}

type checker struct {
	env *Env
}

func (c *checker) statement(e ast.Expression, expected string) bool {
	switch e.(type) {
	case ast.Let, ast.Return, ast.If, ast.While, ast.Function:
		ok, _, _ := c.run(e)
		return ok
	}

	return c.expr(e, expected)
}

// run checks one statement of a block. value is the type of the value the
// statement leaves behind, empty for Unit, and returned reports whether every
// path through it executes a return.
func (c *checker) run(e ast.Expression) (ok bool, value string, returned bool) {
	switch v := e.(type) {
	case ast.Let:
		ok := c.expr(v.Value, v.Type)
		if ok {
			c.env.Declare(v.Name, v.Type)
			plog.Tracef("declared %s under %s", v.Name, v.Type)
		}
		return ok, v.Type, false
	case ast.Return:
		ok := c.expr(v.Value, v.Type)
		if c.env.returns != "" && v.Type != c.env.returns {
			ok = false
		}
		return ok, v.Type, true
	case ast.If:
		ok := c.expr(v.Condition, types.BoolType)

		then := &checker{env: c.env.Clone()}
		thenOk, thenValue, thenReturned := then.block(v.Then)
		els := &checker{env: c.env.Clone()}
		elseOk, elseValue, elseReturned := els.block(v.Else)

		ok = ok && thenOk && elseOk
		if ok {
			c.env.adoptCommon(then.env, els.env)
		}

		switch {
		case thenReturned && elseReturned:
			return ok, "", true
		case thenReturned:
			return ok, elseValue, false
		case elseReturned, thenValue == elseValue:
			return ok, thenValue, false
		}
		return ok, "", false
	case ast.While:
		ok := c.expr(v.Condition, types.BoolType)
		body := &checker{env: c.env.Clone()}
		bodyOk, _, _ := body.block(v.Body)
		return ok && bodyOk, "", false
	case ast.Function:
		c.env.DeclareFunction(v)
		body := &checker{env: c.env.child(v)}
		ok, value, returned := body.block(v.Body)
		if v.Returns != "" && !returned && value != v.Returns {
			plog.Debugf("body of %s leaves a %q, want %s", v.Name, value, v.Returns)
			ok = false
		}
		return ok, "", false
	}

	typ := c.resultType(e)
	return c.expr(e, typ), typ, false
}

// block checks stmts in order. Its value is that of the last statement.
func (c *checker) block(stmts []ast.Expression) (ok bool, value string, returned bool) {
	ok = true
	for _, stmt := range stmts {
		stmtOk, stmtValue, stmtReturned := c.run(stmt)
		ok = stmtOk && ok
		value = stmtValue
		returned = returned || stmtReturned
	}
	return ok, value, returned
}

func (c *checker) expr(e ast.Expression, expected string) bool {
	switch v := e.(type) {
	case ast.Boolean:
		return expected == types.BoolType
	case ast.Integer:
		return expected == types.IntType
	case ast.Float:
		return expected == types.FloatType
	case ast.String:
		return expected == types.StringType
	case ast.Text:
		if _, ok := c.env.Lookup(v.Name); !ok {
			panic(errors.UndefinedVariable{Name: v.Name, Location: v.Pos})
		}
		typ := v.Type
		if typ == "" {
			typ = expected
		}
		return typ == expected && c.env.Has(v.Name, typ)
	case ast.Binary:
		result := c.operator(v)
		left := c.expr(v.Left, v.LeftType)
		right := c.expr(v.Right, v.RightType)
		return left && right && result == expected
	case ast.Not:
		if v.Type != types.BoolType {
			panic(errors.OperatorNotDefined{Operator: "not", Left: v.Type, Right: v.Type, Location: v.Pos})
		}
		return c.expr(v.Value, v.Type) && expected == types.BoolType
	case ast.Call:
		fn := c.function(v)
		ok := true
		for i, arg := range v.Args {
			ok = c.expr(arg, fn.Params[i].Type) && ok
		}
		return ok && fn.Returns == expected
	case ast.Let:
		panic(errors.NestedLet{Location: v.Pos})
	}

	panic(errors.UncheckableNode{Node: fmt.Sprintf("%T", e)})
}

func (c *checker) operator(v ast.Binary) string {
	result, ok := OperatorResult(v.Op, v.LeftType, v.RightType)
	if !ok {
		panic(errors.OperatorNotDefined{Operator: v.Op.Symbol(), Left: v.LeftType, Right: v.RightType, Location: v.Pos})
	}
	return result
}

func (c *checker) function(v ast.Call) ast.Function {
	fn, ok := c.env.Function(v.Function)
	if !ok {
		panic(errors.UndefinedFunction{Name: v.Function, Location: v.Pos})
	}
	if len(fn.Params) != len(v.Args) {
		panic(errors.ArgumentCount{Function: v.Function, Want: len(fn.Params), Got: len(v.Args), Location: v.Pos})
	}
	return fn
}

func (c *checker) resultType(e ast.Expression) string {
	switch v := e.(type) {
	case ast.Boolean:
		return types.BoolType
	case ast.Integer:
		return types.IntType
	case ast.Float:
		return types.FloatType
	case ast.String:
		return types.StringType
	case ast.Text:
		if v.Type != "" {
			return v.Type
		}
		typ, ok := c.env.Lookup(v.Name)
		if !ok {
			panic(errors.UndefinedVariable{Name: v.Name, Location: v.Pos})
		}
		return typ
	case ast.Binary:
		return c.operator(v)
	case ast.Not:
		return types.BoolType
	case ast.Call:
		return c.function(v).Returns
	case ast.Let:
		return v.Type
	case ast.Return:
		return v.Type
	case ast.If, ast.While, ast.Function:
		return ""
	}

	panic(errors.UncheckableNode{Node: fmt.Sprintf("%T", e)})
}
