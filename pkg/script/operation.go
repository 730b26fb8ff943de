// Package script implements the core's script intermediate representation
// and its VM interpreter: a structured, front-end-agnostic instruction set
// over an opaque expression type, executed against a core.Context and
// core.Registry.
package script

import (
	"github.com/PsichiX/Intuicio-sub002/pkg/core"
)

// ScriptExpression is the single responsibility a front-end's expression
// type must honor: evaluating itself pushes exactly one value onto the
// context's value stack.
type ScriptExpression interface {
	Evaluate(ctx *core.Context, registry *core.Registry) error
}

// OperationKind tags the variant a ScriptOperation carries.
type OperationKind int

const (
	OpNone OperationKind = iota
	OpExpression
	OpDefineRegister
	OpDropRegister
	OpPushFromRegister
	OpPopToRegister
	OpMoveRegister
	OpCallFunction
	OpBranchScope
	OpLoopScope
	OpPushScope
	OpPopScope
	OpContinueScopeConditionally
)

func (k OperationKind) String() string {
	switch k {
	case OpNone:
		return "None"
	case OpExpression:
		return "Expression"
	case OpDefineRegister:
		return "DefineRegister"
	case OpDropRegister:
		return "DropRegister"
	case OpPushFromRegister:
		return "PushFromRegister"
	case OpPopToRegister:
		return "PopToRegister"
	case OpMoveRegister:
		return "MoveRegister"
	case OpCallFunction:
		return "CallFunction"
	case OpBranchScope:
		return "BranchScope"
	case OpLoopScope:
		return "LoopScope"
	case OpPushScope:
		return "PushScope"
	case OpPopScope:
		return "PopScope"
	case OpContinueScopeConditionally:
		return "ContinueScopeConditionally"
	default:
		return "Unknown"
	}
}

// ScriptOperation is one instruction of a Script[E]: a tagged union over
// OperationKind, carrying only the payload fields its kind uses. E is the
// opaque expression type a front-end supplies for OpExpression.
type ScriptOperation[E ScriptExpression] struct {
	Kind OperationKind

	Expression E

	TypeQuery core.TypeQuery // DefineRegister
	Index     int            // DropRegister, PushFromRegister, PopToRegister
	From, To  int            // MoveRegister

	FunctionQuery  core.FunctionQuery // CallFunction
	cachedFunction *core.Function     // small per-operation resolution cache

	Success []ScriptOperation[E] // BranchScope: executed when the branch value is true
	Failure []ScriptOperation[E] // BranchScope: executed when false, if present

	Body []ScriptOperation[E] // LoopScope, PushScope
}

func NoneOp[E ScriptExpression]() ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpNone}
}

func ExpressionOp[E ScriptExpression](e E) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpExpression, Expression: e}
}

func DefineRegisterOp[E ScriptExpression](query core.TypeQuery) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpDefineRegister, TypeQuery: query}
}

func DropRegisterOp[E ScriptExpression](index int) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpDropRegister, Index: index}
}

func PushFromRegisterOp[E ScriptExpression](index int) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpPushFromRegister, Index: index}
}

func PopToRegisterOp[E ScriptExpression](index int) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpPopToRegister, Index: index}
}

func MoveRegisterOp[E ScriptExpression](from, to int) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpMoveRegister, From: from, To: to}
}

func CallFunctionOp[E ScriptExpression](query core.FunctionQuery) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpCallFunction, FunctionQuery: query}
}

func BranchScopeOp[E ScriptExpression](success, failure []ScriptOperation[E]) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpBranchScope, Success: success, Failure: failure}
}

func LoopScopeOp[E ScriptExpression](body []ScriptOperation[E]) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpLoopScope, Body: body}
}

func PushScopeOp[E ScriptExpression](body []ScriptOperation[E]) ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpPushScope, Body: body}
}

func PopScopeOp[E ScriptExpression]() ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpPopScope}
}

func ContinueScopeConditionallyOp[E ScriptExpression]() ScriptOperation[E] {
	return ScriptOperation[E]{Kind: OpContinueScopeConditionally}
}

// Script is a named, ordered sequence of operations - the unit a VmScope
// interprets and the unit a Function's VM-generated body closes over.
type Script[E ScriptExpression] struct {
	Name       string
	Operations []ScriptOperation[E]
}

func NewScript[E ScriptExpression](name string, operations []ScriptOperation[E]) *Script[E] {
	return &Script[E]{Name: name, Operations: operations}
}
