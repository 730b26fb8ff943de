// Package stdtypes registers the arithmetic, comparison, logical, and
// string functions over the trivial native numeric, boolean, and string
// types that core.WithBasicTypes provides, for scripts and tests that run
// before any front-end has installed its own domain types. The types
// themselves are not registered here. This is deliberately small: spec's Non-goals
// exclude a full scripted standard library, so this package covers only
// what trivial numerics and their operators require.
package stdtypes

import (
	"errors"

	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

// ErrDivisionByZero is returned by the registered division functions
// instead of panicking or producing a platform-dependent Inf/NaN.
var ErrDivisionByZero = errors.New("division by zero")

type numeric interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Register installs the arithmetic/comparison/logical/string functions
// operating on the basic types into registry. It does not add the types:
// they must already be registered (see core.WithBasicTypes), and Register
// returns core.ErrNoSuchType if one is missing.
func Register(registry *core.Registry) error {
	if err := registerArithmetic[int32](registry, "i32"); err != nil {
		return err
	}
	if err := registerArithmetic[int64](registry, "i64"); err != nil {
		return err
	}
	if err := registerArithmetic[uint32](registry, "u32"); err != nil {
		return err
	}
	if err := registerArithmetic[uint64](registry, "u64"); err != nil {
		return err
	}
	if err := registerArithmetic[float32](registry, "f32"); err != nil {
		return err
	}
	if err := registerArithmetic[float64](registry, "f64"); err != nil {
		return err
	}
	if err := registerBooleanOps(registry); err != nil {
		return err
	}
	return registerStringOps(registry)
}

func registerArithmetic[T numeric](registry *core.Registry, typeName string) error {
	typ, ok := registry.FindType(core.TypeQuery{Name: &typeName})
	if !ok {
		return core.ErrNoSuchType
	}
	boolType, ok := registry.FindType(core.TypeQuery{Name: strPtr("bool")})
	if !ok {
		return core.ErrNoSuchType
	}
	hash := typ.TypeHash()
	boolHash := boolType.TypeHash()

	binary := func(name string, f func(a, b T) (T, error)) {
		sig := core.Signature{
			Name:    typeName + "_" + name,
			Inputs:  []core.Parameter{{Name: "a", Type: typ}, {Name: "b", Type: typ}},
			Outputs: []core.Parameter{{Name: "result", Type: typ}},
		}
		body := func(ctx *core.Context, registry *core.Registry) error {
			b, err := data.Pop[T](ctx.Stack(), hash)
			if err != nil {
				return err
			}
			a, err := data.Pop[T](ctx.Stack(), hash)
			if err != nil {
				return err
			}
			result, err := f(a, b)
			if err != nil {
				return err
			}
			return data.Push[T](ctx.Stack(), hash, nil, result)
		}
		registry.AddFunction(core.NewFunction(sig, body))
	}

	compare := func(name string, f func(a, b T) bool) {
		sig := core.Signature{
			Name:    typeName + "_" + name,
			Inputs:  []core.Parameter{{Name: "a", Type: typ}, {Name: "b", Type: typ}},
			Outputs: []core.Parameter{{Name: "result", Type: boolType}},
		}
		body := func(ctx *core.Context, registry *core.Registry) error {
			b, err := data.Pop[T](ctx.Stack(), hash)
			if err != nil {
				return err
			}
			a, err := data.Pop[T](ctx.Stack(), hash)
			if err != nil {
				return err
			}
			return data.Push[bool](ctx.Stack(), boolHash, nil, f(a, b))
		}
		registry.AddFunction(core.NewFunction(sig, body))
	}

	var zero T
	binary("add", func(a, b T) (T, error) { return a + b, nil })
	binary("sub", func(a, b T) (T, error) { return a - b, nil })
	binary("mul", func(a, b T) (T, error) { return a * b, nil })
	binary("div", func(a, b T) (T, error) {
		if b == zero {
			return zero, ErrDivisionByZero
		}
		return a / b, nil
	})

	compare("lt", func(a, b T) bool { return a < b })
	compare("lte", func(a, b T) bool { return a <= b })
	compare("gt", func(a, b T) bool { return a > b })
	compare("gte", func(a, b T) bool { return a >= b })
	compare("eq", func(a, b T) bool { return a == b })

	return nil
}

func registerBooleanOps(registry *core.Registry) error {
	boolType, ok := registry.FindType(core.TypeQuery{Name: strPtr("bool")})
	if !ok {
		return core.ErrNoSuchType
	}
	hash := boolType.TypeHash()

	binary := func(name string, f func(a, b bool) bool) {
		sig := core.Signature{
			Name:    "bool_" + name,
			Inputs:  []core.Parameter{{Name: "a", Type: boolType}, {Name: "b", Type: boolType}},
			Outputs: []core.Parameter{{Name: "result", Type: boolType}},
		}
		body := func(ctx *core.Context, registry *core.Registry) error {
			b, err := data.Pop[bool](ctx.Stack(), hash)
			if err != nil {
				return err
			}
			a, err := data.Pop[bool](ctx.Stack(), hash)
			if err != nil {
				return err
			}
			return data.Push[bool](ctx.Stack(), hash, nil, f(a, b))
		}
		registry.AddFunction(core.NewFunction(sig, body))
	}
	binary("and", func(a, b bool) bool { return a && b })
	binary("or", func(a, b bool) bool { return a || b })

	notSig := core.Signature{
		Name:    "bool_not",
		Inputs:  []core.Parameter{{Name: "a", Type: boolType}},
		Outputs: []core.Parameter{{Name: "result", Type: boolType}},
	}
	notBody := func(ctx *core.Context, registry *core.Registry) error {
		a, err := data.Pop[bool](ctx.Stack(), hash)
		if err != nil {
			return err
		}
		return data.Push[bool](ctx.Stack(), hash, nil, !a)
	}
	registry.AddFunction(core.NewFunction(notSig, notBody))
	return nil
}

func registerStringOps(registry *core.Registry) error {
	stringType, ok := registry.FindType(core.TypeQuery{Name: strPtr("string")})
	if !ok {
		return core.ErrNoSuchType
	}
	hash := stringType.TypeHash()

	sig := core.Signature{
		Name:    "string_concat",
		Inputs:  []core.Parameter{{Name: "a", Type: stringType}, {Name: "b", Type: stringType}},
		Outputs: []core.Parameter{{Name: "result", Type: stringType}},
	}
	body := func(ctx *core.Context, registry *core.Registry) error {
		b, err := data.Pop[string](ctx.Stack(), hash)
		if err != nil {
			return err
		}
		a, err := data.Pop[string](ctx.Stack(), hash)
		if err != nil {
			return err
		}
		return data.Push[string](ctx.Stack(), hash, nil, a+b)
	}
	registry.AddFunction(core.NewFunction(sig, body))
	return nil
}

func strPtr(s string) *string { return &s }
