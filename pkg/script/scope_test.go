package script_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
	"github.com/PsichiX/Intuicio-sub002/pkg/script"
)

// exprFunc adapts a plain function to script.ScriptExpression, the way
// tests stand in for a front-end's real expression node.
type exprFunc func(ctx *core.Context, registry *core.Registry) error

func (f exprFunc) Evaluate(ctx *core.Context, registry *core.Registry) error {
	return f(ctx, registry)
}

func pushI32(hash data.TypeHash, value int32) exprFunc {
	return func(ctx *core.Context, registry *core.Registry) error {
		return data.Push[int32](ctx.Stack(), hash, nil, value)
	}
}

func strp(s string) *string { return &s }

func newArithmeticRegistry(t *testing.T) (*core.Registry, *core.TypeDescriptor, *core.TypeDescriptor) {
	t.Helper()
	registry := core.NewRegistry(core.WithBasicTypes())
	i32, ok := registry.FindType(core.TypeQuery{Name: strp("i32")})
	require.True(t, ok)
	boolType, ok := registry.FindType(core.TypeQuery{Name: strp("bool")})
	require.True(t, ok)

	i32Hash := i32.TypeHash()
	boolHash := boolType.TypeHash()

	addSig := core.Signature{
		Name:    "add",
		Inputs:  []core.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []core.Parameter{{Name: "result", Type: i32}},
	}
	addBody := func(ctx *core.Context, registry *core.Registry) error {
		b, err := data.Pop[int32](ctx.Stack(), i32Hash)
		if err != nil {
			return err
		}
		a, err := data.Pop[int32](ctx.Stack(), i32Hash)
		if err != nil {
			return err
		}
		return data.Push[int32](ctx.Stack(), i32Hash, nil, a+b)
	}
	registry.AddFunction(core.NewFunction(addSig, addBody))

	ltSig := core.Signature{
		Name:    "lt",
		Inputs:  []core.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []core.Parameter{{Name: "result", Type: boolType}},
	}
	ltBody := func(ctx *core.Context, registry *core.Registry) error {
		b, err := data.Pop[int32](ctx.Stack(), i32Hash)
		if err != nil {
			return err
		}
		a, err := data.Pop[int32](ctx.Stack(), i32Hash)
		if err != nil {
			return err
		}
		return data.Push[bool](ctx.Stack(), boolHash, nil, a < b)
	}
	registry.AddFunction(core.NewFunction(ltSig, ltBody))

	return registry, i32, boolType
}

type addInputs struct {
	A int32
	B int32
}

type addOutputs struct {
	Result int32
}

func TestScenarioS2VmCallOfNative(t *testing.T) {
	registry, i32, _ := newArithmeticRegistry(t)

	callAddSig := core.Signature{
		Name:    "call_add",
		Inputs:  []core.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []core.Parameter{{Name: "result", Type: i32}},
	}
	scr := script.NewScript("call_add", []script.ScriptOperation[exprFunc]{
		script.CallFunctionOp[exprFunc](core.FunctionQuery{Name: strp("add")}),
	})
	callAddBody := func(ctx *core.Context, registry *core.Registry) error {
		return script.NewVmScope(scr).Run(ctx, registry)
	}
	fn := registry.AddFunction(core.NewFunction(callAddSig, callAddBody))

	ctx := core.NewDefaultContext()
	out, err := core.Call[addInputs, addOutputs](fn, ctx, registry, addInputs{A: 40, B: 2}, true)
	require.NoError(t, err)
	assert.Equal(t, int32(42), out.Result)
	assert.Equal(t, uintptr(0), ctx.Stack().Position())
}

func TestScenarioS3RegisterLocals(t *testing.T) {
	registry, i32, _ := newArithmeticRegistry(t)
	i32Hash := i32.TypeHash()

	ctx := core.NewDefaultContext()
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 41))

	scr := script.NewScript("s3", []script.ScriptOperation[exprFunc]{
		script.DefineRegisterOp[exprFunc](core.TypeQuery{Name: strp("i32")}),
		script.PopToRegisterOp[exprFunc](0),
		script.PushFromRegisterOp[exprFunc](0),
		script.PushFromRegisterOp[exprFunc](0),
		script.CallFunctionOp[exprFunc](core.FunctionQuery{Name: strp("add")}),
	})

	require.NoError(t, script.NewVmScope(scr).Run(ctx, registry))

	result, err := data.Pop[int32](ctx.Stack(), i32Hash)
	require.NoError(t, err)
	assert.Equal(t, int32(82), result)
}

func TestScenarioS4Branch(t *testing.T) {
	registry, i32, boolType := newArithmeticRegistry(t)
	i32Hash := i32.TypeHash()
	boolHash := boolType.TypeHash()

	run := func(cond bool) int32 {
		ctx := core.NewDefaultContext()
		require.NoError(t, data.Push[bool](ctx.Stack(), boolHash, nil, cond))

		scr := script.NewScript("s4", []script.ScriptOperation[exprFunc]{
			script.BranchScopeOp[exprFunc](
				[]script.ScriptOperation[exprFunc]{script.ExpressionOp[exprFunc](pushI32(i32Hash, 1))},
				[]script.ScriptOperation[exprFunc]{script.ExpressionOp[exprFunc](pushI32(i32Hash, 0))},
			),
		})
		require.NoError(t, script.NewVmScope(scr).Run(ctx, registry))

		result, err := data.Pop[int32](ctx.Stack(), i32Hash)
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, int32(1), run(true))
	assert.Equal(t, int32(0), run(false))
}

func TestScenarioS5LoopSum(t *testing.T) {
	registry, i32, _ := newArithmeticRegistry(t)
	i32Hash := i32.TypeHash()

	ctx := core.NewDefaultContext()
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 0)) // initial s, pushed first
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 1)) // initial i, ends up on top

	loopBody := []script.ScriptOperation[exprFunc]{
		script.PushFromRegisterOp[exprFunc](-1), // s
		script.ExpressionOp[exprFunc](pushI32(i32Hash, 4)),
		script.CallFunctionOp[exprFunc](core.FunctionQuery{Name: strp("lt")}),
		script.ContinueScopeConditionallyOp[exprFunc](),
		script.PushFromRegisterOp[exprFunc](-1), // s
		script.PushFromRegisterOp[exprFunc](-2), // i
		script.CallFunctionOp[exprFunc](core.FunctionQuery{Name: strp("add")}),
		script.PopToRegisterOp[exprFunc](-1), // s += i
		script.PushFromRegisterOp[exprFunc](-2), // i
		script.ExpressionOp[exprFunc](pushI32(i32Hash, 1)),
		script.CallFunctionOp[exprFunc](core.FunctionQuery{Name: strp("add")}),
		script.PopToRegisterOp[exprFunc](-2), // i += 1
	}

	scr := script.NewScript("s5", []script.ScriptOperation[exprFunc]{
		script.DefineRegisterOp[exprFunc](core.TypeQuery{Name: strp("i32")}), // index 0: i
		script.PopToRegisterOp[exprFunc](0),
		script.DefineRegisterOp[exprFunc](core.TypeQuery{Name: strp("i32")}), // index 1: s
		script.PopToRegisterOp[exprFunc](1),
		script.LoopScopeOp[exprFunc](loopBody),
	})

	require.NoError(t, script.NewVmScope(scr).Run(ctx, registry))

	s, err := ctx.Registers().RegisterBytes(1)
	require.NoError(t, err)
	i, err := ctx.Registers().RegisterBytes(0)
	require.NoError(t, err)
	assert.Equal(t, int32(6), *(*int32)(unsafe.Pointer(&s[0])))
	assert.Equal(t, int32(4), *(*int32)(unsafe.Pointer(&i[0])))
}
