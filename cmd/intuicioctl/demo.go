package main

import (
	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
	"github.com/PsichiX/Intuicio-sub002/pkg/script"
	"github.com/PsichiX/Intuicio-sub002/pkg/stdtypes"
)

// buildDemoRegistry assembles the registry shared by every demo scenario:
// the basic native types plus stdtypes' arithmetic/comparison/logical
// functions.
func buildDemoRegistry(indexCapacity int) (*core.Registry, error) {
	opts := []core.RegistryOption{core.WithBasicTypes()}
	if indexCapacity > 0 {
		opts = append(opts, core.WithIndexCapacity(indexCapacity))
	}
	registry := core.NewRegistry(opts...)
	if err := stdtypes.Register(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

func strp(s string) *string { return &s }

// constExpr is a constant i32 literal, the only expression shape the demo
// scenarios need - a real front-end's expression type would cover its full
// grammar instead.
type constExpr struct {
	typeName string
	value    int32
}

func constI32(value int32) constExpr {
	return constExpr{typeName: "i32", value: value}
}

func (e constExpr) Evaluate(ctx *core.Context, registry *core.Registry) error {
	typ, ok := registry.FindType(core.TypeQuery{Name: &e.typeName})
	if !ok {
		return core.ErrNoSuchType
	}
	return data.Push[int32](ctx.Stack(), typ.TypeHash(), nil, e.value)
}

// demoAddScript builds a script equivalent to "7 + 35 via the native i32_add
// function", exercising CallFunctionOp with a cached lookup.
func demoAddScript(registry *core.Registry) *script.Script[constExpr] {
	return script.NewScript[constExpr]("demo_add", []script.ScriptOperation[constExpr]{
		script.ExpressionOp[constExpr](constI32(7)),
		script.ExpressionOp[constExpr](constI32(35)),
		script.CallFunctionOp[constExpr](core.FunctionQuery{Name: strp("i32_add")}),
	})
}

// demoLoopSumScript sums 0..3 using two registers (s, i) and a LoopScope
// whose body's single ContinueScopeConditionallyOp both gates and ends each
// iteration (i32_lt, then i32_add twice), demonstrating register barriers
// and negative relative indices reaching into the enclosing scope from
// inside the loop body.
func demoLoopSumScript(registry *core.Registry) *script.Script[constExpr] {
	i32Query := core.TypeQuery{Name: strp("i32")}
	// The loop's own barrier floor is 2 (registers 0=s, 1=i were defined
	// before the loop opened), so relative -2 resolves to absolute 0 (s)
	// and relative -1 resolves to absolute 1 (i).
	body := []script.ScriptOperation[constExpr]{
		// i < 4
		script.PushFromRegisterOp[constExpr](-1), // i
		script.ExpressionOp[constExpr](constI32(4)),
		script.CallFunctionOp[constExpr](core.FunctionQuery{Name: strp("i32_lt")}),
		script.ContinueScopeConditionallyOp[constExpr](),
		// s = s + i
		script.PushFromRegisterOp[constExpr](-2), // s
		script.PushFromRegisterOp[constExpr](-1), // i
		script.CallFunctionOp[constExpr](core.FunctionQuery{Name: strp("i32_add")}),
		script.PopToRegisterOp[constExpr](-2),
		// i = i + 1
		script.PushFromRegisterOp[constExpr](-1),
		script.ExpressionOp[constExpr](constI32(1)),
		script.CallFunctionOp[constExpr](core.FunctionQuery{Name: strp("i32_add")}),
		script.PopToRegisterOp[constExpr](-1),
	}

	return script.NewScript[constExpr]("demo_loop_sum", []script.ScriptOperation[constExpr]{
		script.DefineRegisterOp[constExpr](i32Query), // register 0: s
		script.ExpressionOp[constExpr](constI32(0)),
		script.PopToRegisterOp[constExpr](0),
		script.DefineRegisterOp[constExpr](i32Query), // register 1: i
		script.ExpressionOp[constExpr](constI32(0)),
		script.PopToRegisterOp[constExpr](1),
		script.LoopScopeOp[constExpr](body),
		script.PushFromRegisterOp[constExpr](0),
	})
}
