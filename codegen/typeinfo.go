package codegen

import (
	"encoding/json"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
)

// TypeInfoGlobal holds a NUL-terminated JSON TypeInfo.
const TypeInfoGlobal = "__homonym_types"

// TypeInfo records which types each global name was bound under.
type TypeInfo struct {
	Variables map[string][]string `json:"variables"`
}

func registerTypeInfoWithModule(t TypeInfo, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(TypeInfoGlobal, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// ReadTypeInfo decodes the type info global of a module produced by Emit.
func ReadTypeInfo(m *ir.Module) (t TypeInfo, ok bool, err error) {
	for _, g := range m.Globals {
		if g.Name() != TypeInfoGlobal {
			continue
		}
		arr, isArr := g.Init.(*constant.CharArray)
		if !isArr || len(arr.X) == 0 {
			return TypeInfo{}, false, nil
		}
		err = json.Unmarshal(arr.X[:len(arr.X)-1], &t)
		return t, err == nil, err
	}
	return TypeInfo{}, false, nil
}
