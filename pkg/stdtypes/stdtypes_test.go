package stdtypes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
	"github.com/PsichiX/Intuicio-sub002/pkg/stdtypes"
)

func strp(s string) *string { return &s }

func TestRegisterArithmeticAndCompare(t *testing.T) {
	registry := core.NewRegistry(core.WithBasicTypes())
	require.NoError(t, stdtypes.Register(registry))

	i32, ok := registry.FindType(core.TypeQuery{Name: strp("i32")})
	require.True(t, ok)
	boolType, ok := registry.FindType(core.TypeQuery{Name: strp("bool")})
	require.True(t, ok)
	i32Hash := i32.TypeHash()
	boolHash := boolType.TypeHash()

	addFn, ok := registry.FindFunction(core.FunctionQuery{Name: strp("i32_add")})
	require.True(t, ok)
	ctx := core.NewDefaultContext()
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 2))
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 3))
	require.NoError(t, addFn.Invoke(ctx, registry))
	sum, err := data.Pop[int32](ctx.Stack(), i32Hash)
	require.NoError(t, err)
	assert.Equal(t, int32(5), sum)

	ltFn, ok := registry.FindFunction(core.FunctionQuery{Name: strp("i32_lt")})
	require.True(t, ok)
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 2))
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 3))
	require.NoError(t, ltFn.Invoke(ctx, registry))
	lt, err := data.Pop[bool](ctx.Stack(), boolHash)
	require.NoError(t, err)
	assert.True(t, lt)
}

func TestRegisterDivisionByZero(t *testing.T) {
	registry := core.NewRegistry(core.WithBasicTypes())
	require.NoError(t, stdtypes.Register(registry))

	i32, ok := registry.FindType(core.TypeQuery{Name: strp("i32")})
	require.True(t, ok)
	i32Hash := i32.TypeHash()

	divFn, ok := registry.FindFunction(core.FunctionQuery{Name: strp("i32_div")})
	require.True(t, ok)
	ctx := core.NewDefaultContext()
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 1))
	require.NoError(t, data.Push[int32](ctx.Stack(), i32Hash, nil, 0))
	err := divFn.Invoke(ctx, registry)
	assert.ErrorIs(t, err, stdtypes.ErrDivisionByZero)
}

func TestRegisterBooleanOps(t *testing.T) {
	registry := core.NewRegistry(core.WithBasicTypes())
	require.NoError(t, stdtypes.Register(registry))

	boolType, ok := registry.FindType(core.TypeQuery{Name: strp("bool")})
	require.True(t, ok)
	boolHash := boolType.TypeHash()

	notFn, ok := registry.FindFunction(core.FunctionQuery{Name: strp("bool_not")})
	require.True(t, ok)
	ctx := core.NewDefaultContext()
	require.NoError(t, data.Push[bool](ctx.Stack(), boolHash, nil, true))
	require.NoError(t, notFn.Invoke(ctx, registry))
	v, err := data.Pop[bool](ctx.Stack(), boolHash)
	require.NoError(t, err)
	assert.False(t, v)
}
