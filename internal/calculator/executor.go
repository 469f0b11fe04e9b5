// Package calculator holds a replaceable two-operand operation and applies it
// on demand.
package calculator

import (
	"fmt"

	"patternkit/internal/sink"
)

const (
	msgCleared  = "калькулятор: Действие сброшено"
	msgAwaiting = "калькулятор: Жду указаний"
)

// Executor keeps zero or one current Operation.
//
// Not safe for concurrent use.
type Executor struct {
	out sink.Sink
	op  Operation // nil: no operation set
}

// NewExecutor returns an executor with an empty slot. Lines go to out.
func NewExecutor(out sink.Sink) *Executor {
	return &Executor{out: sink.OrDiscard(out)}
}

// SetOperation replaces the current operation. A nil op empties the slot
// without a notice.
func (e *Executor) SetOperation(op Operation) {
	e.op = op
}

// ClearOperation empties the slot and reports it, even if it was already empty.
func (e *Executor) ClearOperation() {
	e.op = nil
	e.out.Emit(msgCleared)
}

// Operation returns the current operation, if any.
func (e *Executor) Operation() (Operation, bool) {
	return e.op, e.op != nil
}

// Execute applies the current operation to x and y and emits the result line.
// Without an operation it emits the awaiting notice and returns ok=false.
func (e *Executor) Execute(x, y int) (result int, ok bool) {
	if e.op == nil {
		e.out.Emit(msgAwaiting)
		return 0, false
	}
	result = e.op.Apply(x, y)
	e.out.Emit(formatResult(e.op.Symbol(), x, y, result))
	return result, true
}

func formatResult(sym string, x, y, result int) string {
	return fmt.Sprintf("калькулятор:%d %s %d = %d", x, sym, y, result)
}
