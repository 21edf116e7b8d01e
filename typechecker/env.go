package typechecker

import (
	"sort"

	"github.com/pontaoski/homonym/ast"
)

// Env records, for every variable name, the types it has been declared
// under. A name may be declared under several types at once; the most recent
// declaration is its default type.
type Env struct {
	declared  map[string]map[string]bool
	latest    map[string]string
	functions map[string]ast.Function

	// returns is the declared return type of the function being checked.
	returns string
}

func NewEnv() *Env {
	return &Env{
		declared:  map[string]map[string]bool{},
		latest:    map[string]string{},
		functions: map[string]ast.Function{},
	}
}

func (e *Env) Declare(name, typ string) {
	if e.declared[name] == nil {
		e.declared[name] = map[string]bool{}
	}
	e.declared[name][typ] = true
	e.latest[name] = typ
}

// Lookup returns the default type of name.
func (e *Env) Lookup(name string) (string, bool) {
	typ, ok := e.latest[name]
	return typ, ok
}

// Has reports whether name is declared under typ.
func (e *Env) Has(name, typ string) bool {
	return e.declared[name][typ]
}

// Types lists every type name is declared under, sorted.
func (e *Env) Types(name string) []string {
	var ret []string
	for typ := range e.declared[name] {
		ret = append(ret, typ)
	}
	sort.Strings(ret)
	return ret
}

func (e *Env) DeclareFunction(fn ast.Function) {
	e.functions[fn.Name] = fn
}

func (e *Env) Function(name string) (ast.Function, bool) {
	fn, ok := e.functions[name]
	return fn, ok
}

// child is the environment a function body is checked in: the parameters and
// the known functions, nothing else.
func (e *Env) child(fn ast.Function) *Env {
	c := NewEnv()
	c.functions = e.functions
	c.returns = fn.Returns
	for _, p := range fn.Params {
		c.Declare(p.Name, p.Type)
	}
	return c
}

// Clone copies e. Declarations made in the copy don't reach e.
func (e *Env) Clone() *Env {
	n := NewEnv()
	for name, typs := range e.declared {
		n.declared[name] = map[string]bool{}
		for typ := range typs {
			n.declared[name][typ] = true
		}
	}
	for name, typ := range e.latest {
		n.latest[name] = typ
	}
	for name, fn := range e.functions {
		n.functions[name] = fn
	}
	n.returns = e.returns
	return n
}

func (e *Env) restore(from *Env) {
	e.declared = from.declared
	e.latest = from.latest
	e.functions = from.functions
	e.returns = from.returns
}

// adoptCommon declares in e every binding that both a and b made beyond
// what e already has. a and b are clones of e used for the two arms of a
// branch.
func (e *Env) adoptCommon(a, b *Env) {
	var names []string
	for name := range a.declared {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, typ := range a.Types(name) {
			if b.Has(name, typ) && !e.Has(name, typ) {
				e.Declare(name, typ)
			}
		}
	}
}
