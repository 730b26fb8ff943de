package core_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
)

func TestRegistryAddTypeDeduplicates(t *testing.T) {
	registry := core.NewRegistry()
	a := registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("i32").Build())
	b := registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("i32").Build())

	assert.Same(t, a, b)
	assert.Equal(t, 1, registry.TypeCount())
}

func TestRegistryFindTypeByName(t *testing.T) {
	registry := core.NewRegistry(core.WithBasicTypes())

	name := "i64"
	found, ok := registry.FindType(core.TypeQuery{Name: &name})
	require.True(t, ok)
	assert.Equal(t, "i64", found.Name)
}

func TestRegistryFindTypesUsesIndexingAboveThreshold(t *testing.T) {
	registry := core.NewRegistry(core.WithUseIndexingThreshold(2))
	registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("a").Build())
	registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("b").Build())
	registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("c").Build())

	name := "b"
	matches := registry.FindTypes(core.TypeQuery{Name: &name})
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].Name)

	// A second lookup should hit the LRU cache and return the same slice.
	matches2 := registry.FindTypes(core.TypeQuery{Name: &name})
	assert.Equal(t, matches, matches2)
}

func TestRegistryAddFunctionDeduplicatesBySignature(t *testing.T) {
	registry := core.NewRegistry()
	i32 := registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("i32").Build())
	sig := core.Signature{
		Name:    "add",
		Inputs:  []core.Parameter{{Name: "a", Type: i32}, {Name: "b", Type: i32}},
		Outputs: []core.Parameter{{Name: "result", Type: i32}},
	}
	noop := func(ctx *core.Context, registry *core.Registry) error { return nil }

	f1 := registry.AddFunction(core.NewFunction(sig, noop))
	f2 := registry.AddFunction(core.NewFunction(sig, noop))
	assert.Same(t, f1, f2)
	assert.Equal(t, 1, registry.FunctionCount())
}

func TestRegistryRemoveType(t *testing.T) {
	registry := core.NewRegistry()
	registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("i32").Build())

	name := "i32"
	removed := registry.RemoveType(core.TypeQuery{Name: &name})
	assert.True(t, removed)
	assert.Equal(t, 0, registry.TypeCount())
}

func TestRegistryTypeForGoType(t *testing.T) {
	registry := core.NewRegistry()
	registered := registry.AddType(core.NewNativeTypeBuilder[int32]().WithName("i32").Build())

	found, ok := registry.TypeForGoType(reflect.TypeOf(int32(0)))
	require.True(t, ok)
	assert.Same(t, registered, found)
}
