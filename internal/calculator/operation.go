package calculator

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownOperation = errors.New("unknown operation")

// Operation is a binary integer function the Executor can hold.
type Operation interface {
	Apply(x, y int) int
	// Symbol is the operator shown in result lines, e.g. "+".
	Symbol() string
}

// Add is integer addition. Overflow wraps around.
type Add struct{}

func (Add) Apply(x, y int) int { return x + y }
func (Add) Symbol() string     { return "+" }

// Subtract is integer subtraction. Overflow wraps around.
type Subtract struct{}

func (Subtract) Apply(x, y int) int { return x - y }
func (Subtract) Symbol() string     { return "-" }

// ParseOperation resolves a configured operation name.
func ParseOperation(name string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "add", "plus", "+":
		return Add{}, nil
	case "subtract", "sub", "minus", "-":
		return Subtract{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
}
