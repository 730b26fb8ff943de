package data_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

func i32Hash() data.TypeHash {
	return data.ComputeTypeHash("i32", "")
}

func TestDataStackPushPopRoundTrip(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeValues)
	hash := i32Hash()

	require.NoError(t, data.Push[int32](stack, hash, nil, 42))
	assert.Equal(t, 1, stack.Depth())

	got, err := data.Pop[int32](stack, hash)
	require.NoError(t, err)
	assert.Equal(t, int32(42), got)
	assert.Equal(t, 0, stack.Depth())
	assert.Equal(t, uintptr(0), stack.Position())
}

func TestDataStackPopTypeMismatch(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeValues)
	require.NoError(t, data.Push[int32](stack, i32Hash(), nil, 1))

	_, err := data.Pop[int32](stack, data.ComputeTypeHash("f32", ""))
	assert.ErrorIs(t, err, data.ErrTypeMismatch)
}

func TestDataStackPopEmpty(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeValues)
	_, err := data.Pop[int32](stack, i32Hash())
	assert.ErrorIs(t, err, data.ErrEmpty)
}

func TestDataStackCapacityExhausted(t *testing.T) {
	stack := data.NewDataStack(2, data.ModeValues)
	err := data.Push[int32](stack, i32Hash(), nil, 1)
	assert.ErrorIs(t, err, data.ErrCapacityExhausted)
}

func TestDataStackFinalizerRunsOnDrop(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeRegisters)
	var finalized int
	finalizer := func(unsafe.Pointer) { finalized++ }

	index, err := stack.DefineRegister(i32Hash(), data.NativeLayout[int32](), finalizer)
	require.NoError(t, err)
	require.NoError(t, stack.WriteRegisterRaw(index, i32Hash(), finalizer, []byte{7, 0, 0, 0}))

	require.NoError(t, stack.DropRegister(index))
	assert.Equal(t, 1, finalized)
}

func TestDataStackDropRegisterMustBeTopmost(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeRegisters)
	first, err := stack.DefineRegister(i32Hash(), data.NativeLayout[int32](), nil)
	require.NoError(t, err)
	_, err = stack.DefineRegister(i32Hash(), data.NativeLayout[int32](), nil)
	require.NoError(t, err)

	err = stack.DropRegister(first)
	assert.ErrorIs(t, err, data.ErrInvalidRegister)
}

func TestDataStackSwapRegisters(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeRegisters)
	hash := i32Hash()
	layout := data.NativeLayout[int32]()
	a, err := stack.DefineRegister(hash, layout, nil)
	require.NoError(t, err)
	b, err := stack.DefineRegister(hash, layout, nil)
	require.NoError(t, err)
	require.NoError(t, stack.WriteRegisterRaw(a, hash, nil, []byte{1, 0, 0, 0}))
	require.NoError(t, stack.WriteRegisterRaw(b, hash, nil, []byte{2, 0, 0, 0}))

	require.NoError(t, stack.SwapRegisters(a, b))

	aBytes, err := stack.RegisterBytes(a)
	require.NoError(t, err)
	bBytes, err := stack.RegisterBytes(b)
	require.NoError(t, err)
	assert.Equal(t, byte(2), aBytes[0])
	assert.Equal(t, byte(1), bBytes[0])
}

func TestDataStackRegisterUninitializedRejectsRead(t *testing.T) {
	stack := data.NewDataStack(256, data.ModeRegisters)
	index, err := stack.DefineRegister(i32Hash(), data.NativeLayout[int32](), nil)
	require.NoError(t, err)

	_, _, valid, ok := stack.RegisterInfo(index)
	require.True(t, ok)
	assert.False(t, valid)
}
