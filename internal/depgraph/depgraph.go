// Package depgraph tracks the chain of service contracts being initiated
// during a lazy resolution and detects cycles in it.
//
// A container resolve call starts with an empty Stack; every nested resolve
// performed by an initiator pushes the requested contract. Pushing a contract
// that is already on the stack means the initiators form a cycle, which would
// otherwise deadlock on the per-binding once guard.
package depgraph

import (
	"reflect"
	"strings"
)

// CircularDependencyError reports a cycle in the initiation chain.
// Chain holds the contracts on the resolution path, ending with the
// contract that closed the cycle.
type CircularDependencyError struct {
	Chain []reflect.Type
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular service dependency: ")
	for i, t := range e.Chain {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(typeName(t))
	}
	return b.String()
}

// Stack is an immutable resolution path. Push returns a new Stack so that
// sibling resolutions performed by the same initiator do not observe each
// other's frames.
type Stack struct {
	frames []reflect.Type
}

// NewStack returns an empty resolution stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push appends contract to the path. It fails with CircularDependencyError
// if contract is already on the path.
func (s *Stack) Push(contract reflect.Type) (*Stack, error) {
	for _, f := range s.frames {
		if f == contract {
			chain := make([]reflect.Type, len(s.frames), len(s.frames)+1)
			copy(chain, s.frames)
			chain = append(chain, contract)
			return nil, CircularDependencyError{Chain: chain}
		}
	}

	frames := make([]reflect.Type, len(s.frames), len(s.frames)+1)
	copy(frames, s.frames)
	frames = append(frames, contract)
	return &Stack{frames: frames}, nil
}

// Depth returns the number of contracts on the path.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Path returns a copy of the contracts on the path, outermost first.
func (s *Stack) Path() []reflect.Type {
	out := make([]reflect.Type, len(s.frames))
	copy(out, s.frames)
	return out
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer && t.Elem().Name() != "" {
		return "*" + t.Elem().Name()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
