package eval

import (
	"strconv"

	"github.com/pontaoski/homonym/types"
)

// Value is a concrete runtime value. Values are immutable; rebinding a name
// replaces the table entry.
type Value interface {
	is_Value()
	Type() string
	String() string
}

type Int int64

func (v Int) is_Value()      {}
func (v Int) Type() string   { return types.IntType }
func (v Int) String() string { return strconv.FormatInt(int64(v), 10) }

type Float float64

func (v Float) is_Value()      {}
func (v Float) Type() string   { return types.FloatType }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type String string

func (v String) is_Value()      {}
func (v String) Type() string   { return types.StringType }
func (v String) String() string { return strconv.Quote(string(v)) }

type Bool bool

func (v Bool) is_Value()      {}
func (v Bool) Type() string   { return types.BoolType }
func (v Bool) String() string { return strconv.FormatBool(bool(v)) }

// Unit is the result of statements that produce nothing, such as an if whose
// chosen branch is empty.
type Unit struct{}

func (v Unit) is_Value()      {}
func (v Unit) Type() string   { return "" }
func (v Unit) String() string { return "()" }
