package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

func TestContextRegisterBarrierScoping(t *testing.T) {
	ctx := core.NewContext(256, 256)
	hash := data.ComputeTypeHash("i32", "")
	layout := data.NativeLayout[int32]()

	_, err := ctx.Registers().DefineRegister(hash, layout, nil)
	require.NoError(t, err)

	require.NoError(t, ctx.StoreRegisters())
	_, err = ctx.Registers().DefineRegister(hash, layout, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Registers().RegistersCount())

	require.NoError(t, ctx.RestoreRegisters())
	assert.Equal(t, 1, ctx.Registers().RegistersCount())
}

func TestContextRestoreRegistersWithoutBarrier(t *testing.T) {
	ctx := core.NewContext(256, 256)
	err := ctx.RestoreRegisters()
	assert.ErrorIs(t, err, core.ErrNoRegisterBarrier)
}

func TestContextAbsoluteRegisterIndex(t *testing.T) {
	ctx := core.NewContext(256, 256)
	hash := data.ComputeTypeHash("i32", "")
	layout := data.NativeLayout[int32]()

	_, err := ctx.Registers().DefineRegister(hash, layout, nil)
	require.NoError(t, err)
	require.NoError(t, ctx.StoreRegisters())

	assert.Equal(t, 1, ctx.AbsoluteRegisterIndex(0))

	_, err = ctx.Registers().DefineRegister(hash, layout, nil)
	require.NoError(t, err)
	require.NoError(t, ctx.Registers().WriteRegisterRaw(1, hash, nil, []byte{9, 0, 0, 0}))

	gotHash, _, bytes, valid, err := ctx.AccessRegister(0)
	require.NoError(t, err)
	assert.Equal(t, hash, gotHash)
	assert.True(t, valid)
	assert.Equal(t, byte(9), bytes[0])
}

func TestContextCustomExtensions(t *testing.T) {
	ctx := core.NewContext(64, 64)
	_, ok := ctx.Custom("missing")
	assert.False(t, ok)

	ctx.SetCustom("budget", 42)
	v, ok := ctx.Custom("budget")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}
