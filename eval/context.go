package eval

import (
	"sort"

	"github.com/pontaoski/homonym/ast"
)

// Context is the state of one session: variables bucketed first by declared
// type and then by name, and the defined functions.
type Context struct {
	variables map[string]map[string]Value
	latest    map[string]string
	functions map[string]ast.Function
}

func NewContext() *Context {
	return &Context{
		variables: map[string]map[string]Value{},
		latest:    map[string]string{},
		functions: map[string]ast.Function{},
	}
}

// Bind stores v as name under typ. Bindings of name under other types are
// left alone.
func (c *Context) Bind(typ, name string, v Value) {
	bucket, ok := c.variables[typ]
	if !ok {
		bucket = map[string]Value{}
		c.variables[typ] = bucket
	}
	bucket[name] = v
	c.latest[name] = typ
}

func (c *Context) Lookup(typ, name string) (Value, bool) {
	v, ok := c.variables[typ][name]
	return v, ok
}

// DefaultType is the type name was most recently bound under.
func (c *Context) DefaultType(name string) (string, bool) {
	typ, ok := c.latest[name]
	return typ, ok
}

// Types lists the types name is bound under, sorted.
func (c *Context) Types(name string) []string {
	var ret []string
	for typ, bucket := range c.variables {
		if _, ok := bucket[name]; ok {
			ret = append(ret, typ)
		}
	}
	sort.Strings(ret)
	return ret
}

func (c *Context) Function(name string) (ast.Function, bool) {
	fn, ok := c.functions[name]
	return fn, ok
}

// Names lists every bound name, sorted.
func (c *Context) Names() []string {
	var ret []string
	for name := range c.latest {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// child is the context a call runs in: the functions of c and nothing else.
func (c *Context) child() *Context {
	return &Context{
		variables: map[string]map[string]Value{},
		latest:    map[string]string{},
		functions: c.functions,
	}
}

func (c *Context) clone() *Context {
	n := NewContext()
	for typ, bucket := range c.variables {
		for name, v := range bucket {
			n.Bind(typ, name, v)
		}
	}
	for name, typ := range c.latest {
		n.latest[name] = typ
	}
	for name, fn := range c.functions {
		n.functions[name] = fn
	}
	return n
}

func (c *Context) restore(from *Context) {
	c.variables = from.variables
	c.latest = from.latest
	c.functions = from.functions
}
