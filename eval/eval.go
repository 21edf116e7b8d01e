// Package eval runs type-checked statements against a Context.
//
// An identifier is always read from the bucket of the type it is declared
// under at its use site: the operand type of the enclosing operator, the
// declared type of a let or return, a function's parameter type, or an
// explicit `x the T`. An identifier with none of these, such as a bare `x`
// typed at the REPL, is read under the type it was most recently bound under.
package eval

import (
	"fmt"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/homonym", "eval")

// Evaluate runs one statement. If it fails, ctx is left as it was before the
// statement started.
func Evaluate(expr ast.Expression, ctx *Context) (v Value, err error) {
	staged := ctx.clone()
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			ctx.restore(staged)
			plog.Debugf("statement failed, context rolled back: %v", rerr)
			err = tracerr.Wrap(rerr)
		}
	}()

	e := &evaluator{ctx: ctx}
	v, _ = e.statement(expr)
	return v, nil
}

type evaluator struct {
	ctx *Context
}

// statement runs e and reports whether a return was executed.
func (e *evaluator) statement(expr ast.Expression) (Value, bool) {
	switch v := expr.(type) {
	case ast.Let:
		val := e.expect(e.expr(v.Value, v.Type), v.Type, v.Pos)
		e.ctx.Bind(v.Type, v.Name, val)
		plog.Debugf("bound %s under %s to %s", v.Name, v.Type, val)
		return val, false
	case ast.Return:
		return e.expect(e.expr(v.Value, v.Type), v.Type, v.Pos), true
	case ast.If:
		cond := e.expect(e.expr(v.Condition, types.BoolType), types.BoolType, ast.PosOf(v.Condition))
		if cond.(Bool) {
			return e.block(v.Then)
		}
		return e.block(v.Else)
	case ast.While:
		for {
			cond := e.expect(e.expr(v.Condition, types.BoolType), types.BoolType, ast.PosOf(v.Condition))
			if !cond.(Bool) {
				return Unit{}, false
			}
			if val, returned := e.block(v.Body); returned {
				return val, true
			}
		}
	case ast.Function:
		e.ctx.functions[v.Name] = v
		return Unit{}, false
	}

	return e.expr(expr, ""), false
}

// block runs stmts in order and yields the last value, or Unit if empty.
func (e *evaluator) block(stmts []ast.Expression) (Value, bool) {
	var last Value = Unit{}
	for _, stmt := range stmts {
		val, returned := e.statement(stmt)
		if returned {
			return val, true
		}
		last = val
	}
	return last, false
}

func (e *evaluator) expect(v Value, typ string, pos types.Span) Value {
	if v.Type() != typ {
		panic(errors.ValueMismatch{Expected: typ, Got: v.Type(), Location: pos})
	}
	return v
}

// expr evaluates an expression. hint is the type a bare identifier is read
// under when it carries no declared type of its own.
func (e *evaluator) expr(expr ast.Expression, hint string) Value {
	switch v := expr.(type) {
	case ast.Boolean:
		return Bool(v.Value)
	case ast.Integer:
		return Int(v.Value)
	case ast.Float:
		return Float(v.Value)
	case ast.String:
		return String(v.Value)
	case ast.Text:
		return e.variable(v, hint)
	case ast.Binary:
		return e.binary(v)
	case ast.Not:
		val := e.expect(e.expr(v.Value, v.Type), types.BoolType, v.Pos)
		return !val.(Bool)
	case ast.Call:
		return e.call(v)
	case ast.Let:
		panic(errors.NestedLet{Location: v.Pos})
	}

	panic(errors.UnevaluableNode{Node: fmt.Sprintf("%T", expr)})
}

func (e *evaluator) variable(v ast.Text, hint string) Value {
	typ := v.Type
	if typ == "" {
		typ = hint
	}
	if typ == "" {
		def, ok := e.ctx.DefaultType(v.Name)
		if !ok {
			panic(errors.UnboundVariable{Name: v.Name, Location: v.Pos})
		}
		typ = def
	}

	val, ok := e.ctx.Lookup(typ, v.Name)
	if !ok {
		panic(errors.UnboundVariable{Name: v.Name, Type: typ, Location: v.Pos})
	}
	return val
}

func (e *evaluator) binary(v ast.Binary) Value {
	left := e.expect(e.expr(v.Left, v.LeftType), v.LeftType, ast.PosOf(v.Left))

	switch v.Op {
	case ast.And:
		if l, ok := left.(Bool); ok && !bool(l) {
			return Bool(false)
		}
	case ast.Or:
		if l, ok := left.(Bool); ok && bool(l) {
			return Bool(true)
		}
	}

	right := e.expect(e.expr(v.Right, v.RightType), v.RightType, ast.PosOf(v.Right))
	return apply(v, left, right)
}

func mismatch(v ast.Binary, left, right Value) errors.OperandMismatch {
	return errors.OperandMismatch{Operator: v.Op.Symbol(), Left: left.Type(), Right: right.Type(), Location: v.Pos}
}

func apply(v ast.Binary, left, right Value) Value {
	switch l := left.(type) {
	case Int:
		r, ok := right.(Int)
		if !ok {
			panic(mismatch(v, left, right))
		}
		switch v.Op {
		case ast.Plus:
			return l + r
		case ast.Minus:
			return l - r
		case ast.Times:
			return l * r
		case ast.DividedBy:
			if r == 0 {
				panic(errors.DivisionByZero{Location: v.Pos})
			}
			return l / r
		case ast.Modulo:
			if r == 0 {
				panic(errors.DivisionByZero{Location: v.Pos})
			}
			return l % r
		}
		if v.Op.IsComparison() {
			sign := 0
			if l < r {
				sign = -1
			} else if l > r {
				sign = 1
			}
			return ordered(v.Op, sign)
		}
	case Float:
		r, ok := right.(Float)
		if !ok {
			panic(mismatch(v, left, right))
		}
		switch v.Op {
		case ast.Plus:
			return l + r
		case ast.Minus:
			return l - r
		case ast.Times:
			return l * r
		case ast.DividedBy:
			return Float(float64(l) / float64(r))
		}
		if v.Op.IsComparison() {
			return compareFloats(v.Op, float64(l), float64(r))
		}
	case String:
		r, ok := right.(String)
		if !ok {
			panic(mismatch(v, left, right))
		}
		if v.Op == ast.Plus {
			return l + r
		}
		if v.Op.IsComparison() {
			return ordered(v.Op, strings.Compare(string(l), string(r)))
		}
	case Bool:
		r, ok := right.(Bool)
		if !ok {
			panic(mismatch(v, left, right))
		}
		switch v.Op {
		case ast.And:
			return l && r
		case ast.Or:
			return l || r
		case ast.Equal:
			return Bool(l == r)
		}
	}

	panic(mismatch(v, left, right))
}

// ordered turns the sign of a three-way comparison into the result of op.
func ordered(op ast.Operator, sign int) Value {
	switch op {
	case ast.Equal:
		return Bool(sign == 0)
	case ast.Less:
		return Bool(sign < 0)
	case ast.Greater:
		return Bool(sign > 0)
	case ast.LessEq:
		return Bool(sign <= 0)
	}
	return Bool(sign >= 0)
}

func compareFloats(op ast.Operator, l, r float64) Value {
	switch op {
	case ast.Equal:
		return Bool(l == r)
	case ast.Less:
		return Bool(l < r)
	case ast.Greater:
		return Bool(l > r)
	case ast.LessEq:
		return Bool(l <= r)
	}
	return Bool(l >= r)
}

// call runs a function body in a fresh context holding only its parameters.
func (e *evaluator) call(v ast.Call) Value {
	fn, ok := e.ctx.Function(v.Function)
	if !ok {
		panic(errors.UndefinedFunction{Name: v.Function, Location: v.Pos})
	}
	if len(fn.Params) != len(v.Args) {
		panic(errors.ArgumentCount{Function: v.Function, Want: len(fn.Params), Got: len(v.Args), Location: v.Pos})
	}

	callee := &evaluator{ctx: e.ctx.child()}
	for i, arg := range v.Args {
		p := fn.Params[i]
		callee.ctx.Bind(p.Type, p.Name, e.expect(e.expr(arg, p.Type), p.Type, ast.PosOf(arg)))
	}

	plog.Tracef("calling %s", fn.Name)
	val, _ := callee.block(fn.Body)
	if fn.Returns != "" {
		return e.expect(val, fn.Returns, v.Pos)
	}
	return val
}
