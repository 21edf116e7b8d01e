// Package codegen lowers straight-line programs to LLVM IR.
//
// Only let statements over int, float and bool values are supported. Every
// overload of a name becomes its own global, mangled as name.type, and a
// homonym_main function performs the statements in order.
package codegen

import (
	"fmt"
	"sort"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/typechecker"
	htypes "github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/homonym", "codegen")

// EntryPoint is the name of the generated function.
const EntryPoint = "homonym_main"

type global struct {
	*ir.Global
	typ types.Type
}

type ctx struct {
	module  *ir.Module
	globals map[string]global
	bound   map[string]map[string]bool
	latest  map[string]string
}

// Mangle is the global name that name bound under typ is stored in.
func Mangle(name, typ string) string {
	return name + "." + typ
}

func (c *ctx) lookup(name, typ string, pos htypes.Span) global {
	g, ok := c.globals[Mangle(name, typ)]
	if !ok {
		panic(errors.UnboundVariable{Name: name, Type: typ, Location: pos})
	}
	return g
}

func (c *ctx) declare(name, typ string) global {
	key := Mangle(name, typ)
	if g, ok := c.globals[key]; ok {
		return g
	}

	var init constant.Constant
	switch typ {
	case htypes.IntType:
		init = constant.NewInt(Int, 0)
	case htypes.FloatType:
		init = constant.NewFloat(Float, 0)
	case htypes.BoolType:
		init = constant.NewInt(Bool, 0)
	}

	g := global{Global: c.module.NewGlobalDef(key, init), typ: lowered[typ]}
	c.globals[key] = g
	if c.bound[name] == nil {
		c.bound[name] = map[string]bool{}
	}
	c.bound[name][typ] = true
	plog.Debugf("declared global %s", key)
	return g
}

func (c *ctx) typeInfo() TypeInfo {
	t := TypeInfo{Variables: map[string][]string{}}
	for name, typs := range c.bound {
		for typ := range typs {
			t.Variables[name] = append(t.Variables[name], typ)
		}
		sort.Strings(t.Variables[name])
	}
	return t
}

func unsupported(e ast.Expression, what string) errors.Unsupported {
	return errors.Unsupported{What: what, Location: ast.PosOf(e)}
}

func (c *ctx) statement(e ast.Expression, b *ir.Block) {
	let, ok := e.(ast.Let)
	if !ok {
		panic(unsupported(e, fmt.Sprintf("a %T statement", e)))
	}
	if _, ok := lowered[let.Type]; !ok {
		panic(unsupported(e, fmt.Sprintf("a variable of type %s", let.Type)))
	}

	val, typ := c.expression(let.Value, let.Type, b)
	if typ != let.Type {
		panic(errors.TypeMismatch{Expected: let.Type, Got: typ, Location: ast.PosOf(let.Value)})
	}

	g := c.declare(let.Name, let.Type)
	b.NewStore(val, g.Global)
	c.latest[let.Name] = let.Type
}

// expression lowers e into b, returning the value and its source type. hint
// is the type an identifier without a declared type is read under.
func (c *ctx) expression(e ast.Expression, hint string, b *ir.Block) (value.Value, string) {
	switch expr := e.(type) {
	case ast.Integer:
		return constant.NewInt(Int, expr.Value), htypes.IntType
	case ast.Float:
		return constant.NewFloat(Float, expr.Value), htypes.FloatType
	case ast.Boolean:
		if expr.Value {
			return constant.NewInt(Bool, 1), htypes.BoolType
		}
		return constant.NewInt(Bool, 0), htypes.BoolType
	case ast.Text:
		typ := expr.Type
		if typ == "" {
			typ = hint
		}
		if typ == "" {
			typ = c.latest[expr.Name]
		}
		g := c.lookup(expr.Name, typ, expr.Pos)
		return b.NewLoad(g.typ, g.Global), typ
	case ast.Not:
		val, typ := c.expression(expr.Value, expr.Type, b)
		if typ != htypes.BoolType {
			panic(errors.OperatorNotDefined{Operator: "not", Left: typ, Location: expr.Pos})
		}
		return b.NewXor(val, constant.NewInt(Bool, 1)), htypes.BoolType
	case ast.Binary:
		return c.binary(expr, b)
	case ast.String:
		panic(unsupported(e, "a string"))
	case ast.Call:
		panic(unsupported(e, "a call to "+expr.Function))
	}

	panic(unsupported(e, fmt.Sprintf("a %T", e)))
}

var intPredicates = map[ast.Operator]enum.IPred{
	ast.Equal:     enum.IPredEQ,
	ast.Less:      enum.IPredSLT,
	ast.Greater:   enum.IPredSGT,
	ast.LessEq:    enum.IPredSLE,
	ast.GreaterEq: enum.IPredSGE,
}

var floatPredicates = map[ast.Operator]enum.FPred{
	ast.Equal:     enum.FPredOEQ,
	ast.Less:      enum.FPredOLT,
	ast.Greater:   enum.FPredOGT,
	ast.LessEq:    enum.FPredOLE,
	ast.GreaterEq: enum.FPredOGE,
}

func (c *ctx) binary(expr ast.Binary, b *ir.Block) (value.Value, string) {
	result, ok := typechecker.OperatorResult(expr.Op, expr.LeftType, expr.RightType)
	if !ok {
		panic(errors.OperatorNotDefined{Operator: expr.Op.Symbol(), Left: expr.LeftType, Right: expr.RightType, Location: expr.Pos})
	}
	if _, ok := lowered[expr.LeftType]; !ok {
		panic(unsupported(expr, fmt.Sprintf("%s on %s", expr.Op.Symbol(), expr.LeftType)))
	}

	l, ltyp := c.expression(expr.Left, expr.LeftType, b)
	r, rtyp := c.expression(expr.Right, expr.RightType, b)
	if ltyp != expr.LeftType || rtyp != expr.RightType {
		panic(errors.OperatorNotDefined{Operator: expr.Op.Symbol(), Left: ltyp, Right: rtyp, Location: expr.Pos})
	}

	if expr.Op.IsComparison() {
		if ltyp == htypes.FloatType {
			return b.NewFCmp(floatPredicates[expr.Op], l, r), result
		}
		return b.NewICmp(intPredicates[expr.Op], l, r), result
	}

	if ltyp == htypes.FloatType {
		switch expr.Op {
		case ast.Plus:
			return b.NewFAdd(l, r), result
		case ast.Minus:
			return b.NewFSub(l, r), result
		case ast.Times:
			return b.NewFMul(l, r), result
		case ast.DividedBy:
			return b.NewFDiv(l, r), result
		}
	}

	switch expr.Op {
	case ast.Plus:
		return b.NewAdd(l, r), result
	case ast.Minus:
		return b.NewSub(l, r), result
	case ast.Times:
		return b.NewMul(l, r), result
	case ast.DividedBy:
		return b.NewSDiv(l, r), result
	case ast.Modulo:
		return b.NewSRem(l, r), result
	case ast.And:
		return b.NewAnd(l, r), result
	case ast.Or:
		return b.NewOr(l, r), result
	}

	panic(unsupported(expr, expr.Op.Symbol()))
}

// Emit lowers a type-checked program into a module.
func Emit(stmts []ast.Expression) (modu *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if !ok {
				panic(r)
			}
			modu = nil
			err = tracerr.Wrap(rerr)
		}
	}()

	modu = ir.NewModule()
	for _, name := range loweredOrder {
		modu.NewTypeDef(name, lowered[name])
	}

	c := &ctx{
		module:  modu,
		globals: map[string]global{},
		bound:   map[string]map[string]bool{},
		latest:  map[string]string{},
	}

	fn := modu.NewFunc(EntryPoint, types.Void)
	entry := fn.NewBlock("entry")
	for _, stmt := range stmts {
		c.statement(stmt, entry)
	}
	entry.NewRet(nil)

	registerTypeInfoWithModule(c.typeInfo(), modu)
	return modu, nil
}
