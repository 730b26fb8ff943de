package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

type addInputs struct {
	A int32
	B int32
}

type addOutputs struct {
	Result int32
}

func newAddFunction(registry *core.Registry) *core.Function {
	i32, _ := registry.FindType(core.TypeQuery{Name: strPtr("i32")})
	sig := core.Signature{
		Name:    "add",
		Inputs:  []core.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []core.Parameter{{Name: "result", Type: i32}},
	}
	body := func(ctx *core.Context, registry *core.Registry) error {
		hash := i32.TypeHash()
		a, err := data.Pop[int32](ctx.Stack(), hash)
		if err != nil {
			return err
		}
		b, err := data.Pop[int32](ctx.Stack(), hash)
		if err != nil {
			return err
		}
		return data.Push[int32](ctx.Stack(), hash, nil, a+b)
	}
	return registry.AddFunction(core.NewFunction(sig, body))
}

func strPtr(s string) *string { return &s }

func TestFunctionCallRoundTrip(t *testing.T) {
	registry := core.NewRegistry(core.WithBasicTypes())
	fn := newAddFunction(registry)
	ctx := core.NewDefaultContext()

	out, err := core.Call[addInputs, addOutputs](fn, ctx, registry, addInputs{A: 3, B: 4}, true)
	require.NoError(t, err)
	assert.Equal(t, int32(7), out.Result)
	assert.Equal(t, 0, ctx.Stack().Depth())
}

type mismatchedInputs struct {
	A int32
	B int64
}

func TestFunctionCallStrictRejectsMismatchedArgumentType(t *testing.T) {
	registry := core.NewRegistry(core.WithBasicTypes())
	fn := newAddFunction(registry)
	ctx := core.NewDefaultContext()
	ctx.Strict = true

	_, err := core.Call[mismatchedInputs, addOutputs](fn, ctx, registry, mismatchedInputs{A: 3, B: 4}, true)
	assert.ErrorIs(t, err, core.ErrArgumentsDoNotMatch)
}
