package script

import (
	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/data"
)

// boolTypeHash is the fingerprint of the "bool" native type as registered
// by core.Registry.WithBasicTypes. Branch and loop continuation values are
// always tagged with this hash; a script that pushes some other type where
// a condition is expected fails with data.ErrTypeMismatch.
var boolTypeHash = data.ComputeTypeHash("bool", "")

// controlSignal tracks how a nested operation list asked to unwind. It
// never crosses a VmScope.Run boundary - Run only reports the error.
type controlSignal int

const (
	signalNone controlSignal = iota
	// signalPopScope terminates exactly the operation list that directly
	// contains the PopScope (or out-of-loop ContinueScopeConditionally)
	// that raised it; the immediate composite-operation caller absorbs it.
	signalPopScope
	// signalBreakLoop terminates the innermost enclosing LoopScope. It
	// passes transparently through PushScope/BranchScope boundaries, which
	// are not loops, until a LoopScope absorbs it.
	signalBreakLoop
)

// VmScope interprets a Script[E] against a context and registry, following
// the operation semantics table exactly: DefineRegister/DropRegister
// allocate and release register-file slots scoped to the current barrier,
// PushFromRegister/PopToRegister move values between the register file and
// the value stack, MoveRegister swaps two registers' contents,
// CallFunction resolves and invokes a function (caching the resolved
// handle on the operation itself), BranchScope/LoopScope/PushScope manage
// nested register barriers, PopScope/ContinueScopeConditionally provide
// structured early exit.
type VmScope[E ScriptExpression] struct {
	script   *Script[E]
	debugger Debugger[E]
}

func NewVmScope[E ScriptExpression](script *Script[E]) *VmScope[E] {
	return &VmScope[E]{script: script, debugger: noopDebugger[E]{}}
}

func (s *VmScope[E]) WithDebugger(debugger Debugger[E]) *VmScope[E] {
	if debugger != nil {
		s.debugger = debugger
	}
	return s
}

// Run executes the script's operations in order against ctx and registry.
func (s *VmScope[E]) Run(ctx *core.Context, registry *core.Registry) error {
	s.debugger.OnEnterScope(s.script.Name)
	_, _, err := executeOps(s.script.Name, s.script.Operations, ctx, registry, false, s.debugger)
	s.debugger.OnExitScope(s.script.Name)
	return err
}

// executeOps runs one operation list (a script body, a branch arm, a loop
// body, a pushed scope) to completion or early exit. It returns the control
// signal to relay to its caller, and whether a ContinueScopeConditionally
// fired anywhere in the list (at any depth not itself crossing a nested
// LoopScope) - the signal each enclosing LoopScope needs to tell "the body
// already made its explicit continue/break decision this iteration" apart
// from "the body fell off the end, so the implicit trailing boolean still
// needs popping".
func executeOps[E ScriptExpression](scopeLabel string, ops []ScriptOperation[E], ctx *core.Context, registry *core.Registry, inLoop bool, debugger Debugger[E]) (controlSignal, bool, error) {
	decided := false
	for i := range ops {
		op := &ops[i]
		debugger.OnEnterOperation(i, *op)
		signal, opDecided, err := executeOp(scopeLabel, op, ctx, registry, inLoop, debugger)
		debugger.OnExitOperation(i, *op, err)
		if err != nil {
			return signalNone, false, err
		}
		if opDecided {
			decided = true
		}
		if signal != signalNone {
			return signal, decided, nil
		}
	}
	return signalNone, decided, nil
}

func executeOp[E ScriptExpression](scopeLabel string, op *ScriptOperation[E], ctx *core.Context, registry *core.Registry, inLoop bool, debugger Debugger[E]) (controlSignal, bool, error) {
	switch op.Kind {
	case OpNone:
		return signalNone, false, nil

	case OpExpression:
		return signalNone, false, op.Expression.Evaluate(ctx, registry)

	case OpDefineRegister:
		typ, ok := registry.FindType(op.TypeQuery)
		if !ok {
			return signalNone, false, core.ErrNoSuchType
		}
		_, err := ctx.Registers().DefineRegister(typ.TypeHash(), typ.Layout, typ.Finalizer)
		return signalNone, false, err

	case OpDropRegister:
		abs := ctx.AbsoluteRegisterIndex(op.Index)
		return signalNone, false, ctx.Registers().DropRegister(abs)

	case OpPushFromRegister:
		hash, layout, bytes, valid, err := ctx.AccessRegister(op.Index)
		if err != nil {
			return signalNone, false, err
		}
		if !valid {
			return signalNone, false, data.ErrRegisterUninitialized
		}
		var finalizer data.FinalizerFunc
		if typ, ok := registry.FindType(core.TypeQuery{TypeHash: &hash}); ok {
			finalizer = typ.Finalizer
		}
		return signalNone, false, ctx.Stack().PushRaw(hash, layout, finalizer, bytes)

	case OpPopToRegister:
		abs := ctx.AbsoluteRegisterIndex(op.Index)
		expectedHash, _, _, ok := ctx.Registers().RegisterInfo(abs)
		if !ok {
			return signalNone, false, data.ErrInvalidRegister
		}
		_, bytes, err := ctx.Stack().PopRaw(expectedHash)
		if err != nil {
			return signalNone, false, err
		}
		var finalizer data.FinalizerFunc
		if typ, ok := registry.FindType(core.TypeQuery{TypeHash: &expectedHash}); ok {
			finalizer = typ.Finalizer
		}
		return signalNone, false, ctx.Registers().WriteRegisterRaw(abs, expectedHash, finalizer, bytes)

	case OpMoveRegister:
		from := ctx.AbsoluteRegisterIndex(op.From)
		to := ctx.AbsoluteRegisterIndex(op.To)
		return signalNone, false, ctx.Registers().SwapRegisters(from, to)

	case OpCallFunction:
		fn := op.cachedFunction
		if fn == nil {
			resolved, ok := registry.FindFunction(op.FunctionQuery)
			if !ok {
				return signalNone, false, core.ErrNoSuchFunction
			}
			fn = resolved
			op.cachedFunction = resolved
		}
		return signalNone, false, fn.Invoke(ctx, registry)

	case OpBranchScope:
		cond, err := data.Pop[bool](ctx.Stack(), boolTypeHash)
		if err != nil {
			return signalNone, false, err
		}
		branch := op.Failure
		if cond {
			branch = op.Success
		}
		if branch == nil {
			return signalNone, false, nil
		}
		if err := ctx.StoreRegisters(); err != nil {
			return signalNone, false, err
		}
		debugger.OnEnterScope(scopeLabel + "/branch")
		childSignal, childDecided, err := executeOps(scopeLabel+"/branch", branch, ctx, registry, inLoop, debugger)
		debugger.OnExitScope(scopeLabel + "/branch")
		if restoreErr := ctx.RestoreRegisters(); err == nil {
			err = restoreErr
		}
		if err != nil {
			return signalNone, false, err
		}
		if childSignal == signalBreakLoop {
			return signalBreakLoop, childDecided, nil
		}
		return signalNone, childDecided, nil

	case OpPushScope:
		if err := ctx.StoreRegisters(); err != nil {
			return signalNone, false, err
		}
		debugger.OnEnterScope(scopeLabel + "/push")
		childSignal, childDecided, err := executeOps(scopeLabel+"/push", op.Body, ctx, registry, inLoop, debugger)
		debugger.OnExitScope(scopeLabel + "/push")
		if restoreErr := ctx.RestoreRegisters(); err == nil {
			err = restoreErr
		}
		if err != nil {
			return signalNone, false, err
		}
		if childSignal == signalBreakLoop {
			return signalBreakLoop, childDecided, nil
		}
		return signalNone, childDecided, nil

	case OpLoopScope:
		for {
			if err := ctx.StoreRegisters(); err != nil {
				return signalNone, false, err
			}
			debugger.OnEnterScope(scopeLabel + "/loop")
			childSignal, childDecided, err := executeOps(scopeLabel+"/loop", op.Body, ctx, registry, true, debugger)
			debugger.OnExitScope(scopeLabel + "/loop")
			if err != nil {
				_ = ctx.RestoreRegisters()
				return signalNone, false, err
			}

			var cont bool
			switch {
			case childSignal == signalBreakLoop:
				// An explicit ContinueScopeConditionally already decided
				// to stop this iteration short - nothing left to pop.
				cont = false
			case childDecided:
				// The body ran an explicit ContinueScopeConditionally that
				// evaluated true and then fell through to the end of the
				// body normally: that op already consumed the iteration's
				// continuation boolean, so there is no separate trailing
				// one left on the stack to pop.
				cont = true
			default:
				// The body never made an explicit continuation decision;
				// fall back to the implicit end-of-iteration check the
				// boolean it left on the stack.
				cond, popErr := data.Pop[bool](ctx.Stack(), boolTypeHash)
				if popErr != nil {
					_ = ctx.RestoreRegisters()
					return signalNone, false, popErr
				}
				cont = cond
			}

			if restoreErr := ctx.RestoreRegisters(); restoreErr != nil {
				return signalNone, false, restoreErr
			}
			if !cont {
				break
			}
		}
		return signalNone, false, nil

	case OpPopScope:
		return signalPopScope, false, nil

	case OpContinueScopeConditionally:
		cond, err := data.Pop[bool](ctx.Stack(), boolTypeHash)
		if err != nil {
			return signalNone, false, err
		}
		if cond {
			return signalNone, true, nil
		}
		if inLoop {
			return signalBreakLoop, true, nil
		}
		return signalPopScope, true, nil

	default:
		return signalNone, false, nil
	}
}
