// Package nativizer defines the collaborator hook a front-end compiler
// implements to turn its own AST into the core's runtime structures
// (types, function signatures, and script.ScriptOperation sequences). The
// core ships no concrete visitor: front-ends differ too much in source
// language and IR shape for one implementation to serve them all.
package nativizer

import (
	"github.com/PsichiX/Intuicio-sub002/pkg/core"
	"github.com/PsichiX/Intuicio-sub002/pkg/script"
)

// Visitor is implemented by a front-end compiler that walks its own
// structured program representation and emits the corresponding core
// registrations: one method per script.ScriptOperation[E] kind, plus
// begin/end hooks bracketing the larger units (a struct definition, a
// function definition, its signature, its body, and the enclosing
// script/module). The core's VM and registry never call into a Visitor
// themselves - it is purely a front-end-facing contract.
type Visitor[E script.ScriptExpression] interface {
	BeginScript(name string)
	EndScript(name string)

	BeginStruct(name, moduleName string)
	VisitStructField(name string, visibility core.Visibility, fieldType core.TypeQuery)
	EndStruct(name, moduleName string)

	BeginFunction(name, moduleName string)
	VisitSignature(signature core.Signature)
	BeginBody()
	EndBody()
	EndFunction(name, moduleName string)

	VisitNone()
	VisitExpression(expression E)
	VisitDefineRegister(query core.TypeQuery)
	VisitDropRegister(index int)
	VisitPushFromRegister(index int)
	VisitPopToRegister(index int)
	VisitMoveRegister(from, to int)
	VisitCallFunction(query core.FunctionQuery)
	BeginBranchScope()
	EndBranchSuccess()
	EndBranchFailure()
	EndBranchScope()
	BeginLoopScope()
	EndLoopScope()
	BeginPushScope()
	EndPushScope()
	VisitPopScope()
	VisitContinueScopeConditionally()
}
