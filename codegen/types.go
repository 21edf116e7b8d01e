package codegen

import (
	"github.com/llir/llvm/ir/types"
	htypes "github.com/pontaoski/homonym/types"
)

var (
	Int   = &types.IntType{BitSize: 64, TypeName: htypes.IntType}
	Float = &types.FloatType{Kind: types.FloatKindDouble, TypeName: htypes.FloatType}
	Bool  = &types.IntType{BitSize: 1, TypeName: htypes.BoolType}
)

// lowered maps the source types that have an IR representation to it.
var lowered = map[string]types.Type{
	htypes.IntType:   Int,
	htypes.FloatType: Float,
	htypes.BoolType:  Bool,
}

var loweredOrder = []string{htypes.IntType, htypes.FloatType, htypes.BoolType}
