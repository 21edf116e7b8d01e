package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pontaoski/homonym/typeref"
	"github.com/pontaoski/homonym/types"
)

func block(stmts []Expression) string {
	var parts []string
	for _, stmt := range stmts {
		parts = append(parts, Render(stmt))
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

// operand renders e read under typ. An identifier whose type is already
// shown by the enclosing annotation is printed bare.
func operand(e Expression, typ string) string {
	if t, ok := e.(Text); ok && t.Type == typ {
		return t.Name
	}
	return Render(e)
}

// Render renders e in the compact tree form used by the REPL and tests,
// e.g. PLUS<int,int>(4, TIMES<int,int>(5, 7)).
func Render(e Expression) string {
	if e == nil {
		return ""
	}

	switch v := e.(type) {
	case Boolean:
		return strconv.FormatBool(v.Value)
	case Integer:
		return strconv.FormatInt(v.Value, 10)
	case Float:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case String:
		return strconv.Quote(v.Value)
	case Text:
		if v.Type == "" {
			return v.Name
		}
		return v.Name + " the " + v.Type
	case Binary:
		return fmt.Sprintf("%s%s(%s, %s)", v.Op, typeref.Encode([]string{v.LeftType, v.RightType}), operand(v.Left, v.LeftType), operand(v.Right, v.RightType))
	case Not:
		return fmt.Sprintf("NOT%s(%s)", typeref.Encode([]string{v.Type}), operand(v.Value, v.Type))
	case Let:
		return fmt.Sprintf("LET(%s the %s = %s)", v.Name, v.Type, operand(v.Value, v.Type))
	case If:
		return fmt.Sprintf("IF(%s, %s, %s)", operand(v.Condition, types.BoolType), block(v.Then), block(v.Else))
	case While:
		return fmt.Sprintf("WHILE(%s, %s)", operand(v.Condition, types.BoolType), block(v.Body))
	case Function:
		var params []string
		for _, p := range v.Params {
			params = append(params, p.Name+" the "+p.Type)
		}
		ret := ""
		if v.Returns != "" {
			ret = " the " + v.Returns
		}
		return fmt.Sprintf("FUNCTION %s(%s)%s %s", v.Name, strings.Join(params, ", "), ret, block(v.Body))
	case Return:
		return fmt.Sprintf("RETURN(the %s %s)", v.Type, operand(v.Value, v.Type))
	case Call:
		var args []string
		for _, a := range v.Args {
			args = append(args, Render(a))
		}
		return fmt.Sprintf("CALL %s(%s)", v.Function, strings.Join(args, ", "))
	}

	panic(fmt.Sprintf("unhandled expression %T", e))
}
