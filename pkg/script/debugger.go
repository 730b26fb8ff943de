package script

import (
	"fmt"

	"go.uber.org/zap"
)

// Debugger receives callbacks as a VmScope enters and exits nested scopes
// and individual operations. Implementations may inspect ctx/registry state
// through whatever side channel they were constructed with (PrintDebugger
// takes none and only reports structure); the interpreter itself passes no
// context into these hooks so a debugger cannot mutate execution state.
type Debugger[E ScriptExpression] interface {
	OnEnterScope(label string)
	OnExitScope(label string)
	OnEnterOperation(index int, op ScriptOperation[E])
	OnExitOperation(index int, op ScriptOperation[E], err error)
}

// SourceMapLocation names the front-end source position an operation came
// from, for debuggers and error messages that need to point back at
// original-language source rather than IR indices.
type SourceMapLocation struct {
	File   string
	Line   int
	Column int
	Label  string
}

// SourceMap maps a (scope symbol, optional operation index) pair to a
// front-end-defined location. OperationIndex of -1 addresses the scope as
// a whole (e.g. a function's entry point) rather than one operation in it.
type SourceMap struct {
	entries map[sourceMapKey]SourceMapLocation
}

type sourceMapKey struct {
	scope string
	index int
}

func NewSourceMap() *SourceMap {
	return &SourceMap{entries: make(map[sourceMapKey]SourceMapLocation)}
}

// Set records the location of operationIndex within scope. Pass -1 to
// record the location of the scope itself.
func (m *SourceMap) Set(scope string, operationIndex int, location SourceMapLocation) {
	m.entries[sourceMapKey{scope: scope, index: operationIndex}] = location
}

// Lookup retrieves a previously recorded location.
func (m *SourceMap) Lookup(scope string, operationIndex int) (SourceMapLocation, bool) {
	loc, ok := m.entries[sourceMapKey{scope: scope, index: operationIndex}]
	return loc, ok
}

// PrintDebugger is a ready-to-use Debugger that logs scope and operation
// transitions through zap, optionally only every step (StepThrough) rather
// than only on errors.
type PrintDebugger[E ScriptExpression] struct {
	logger       *zap.Logger
	StepThrough  bool
	sourceMap    *SourceMap
	currentScope string
}

func NewPrintDebugger[E ScriptExpression](logger *zap.Logger) *PrintDebugger[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintDebugger[E]{logger: logger}
}

func (d *PrintDebugger[E]) WithSourceMap(m *SourceMap) *PrintDebugger[E] {
	d.sourceMap = m
	return d
}

func (d *PrintDebugger[E]) OnEnterScope(label string) {
	d.currentScope = label
	if d.StepThrough {
		d.logger.Debug("enter scope", zap.String("scope", label))
	}
}

func (d *PrintDebugger[E]) OnExitScope(label string) {
	if d.StepThrough {
		d.logger.Debug("exit scope", zap.String("scope", label))
	}
}

func (d *PrintDebugger[E]) OnEnterOperation(index int, op ScriptOperation[E]) {
	if !d.StepThrough {
		return
	}
	d.logger.Debug("operation", zap.Int("index", index), zap.String("kind", op.Kind.String()), zap.String("location", d.locate(index)))
}

func (d *PrintDebugger[E]) OnExitOperation(index int, op ScriptOperation[E], err error) {
	if err == nil {
		return
	}
	d.logger.Error("operation failed",
		zap.Int("index", index),
		zap.String("kind", op.Kind.String()),
		zap.String("scope", d.currentScope),
		zap.String("location", d.locate(index)),
		zap.Error(err),
	)
}

func (d *PrintDebugger[E]) locate(index int) string {
	if d.sourceMap == nil {
		return ""
	}
	loc, ok := d.sourceMap.Lookup(d.currentScope, index)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d (%s)", loc.File, loc.Line, loc.Column, loc.Label)
}

// noopDebugger is installed by default so the interpreter's hot path never
// has to nil-check.
type noopDebugger[E ScriptExpression] struct{}

func (noopDebugger[E]) OnEnterScope(string)                              {}
func (noopDebugger[E]) OnExitScope(string)                               {}
func (noopDebugger[E]) OnEnterOperation(int, ScriptOperation[E])         {}
func (noopDebugger[E]) OnExitOperation(int, ScriptOperation[E], error)   {}
