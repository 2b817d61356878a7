package util

// Stack is a LIFO stack backed by a slice. The top of the stack is the last
// element of Of. The zero value is an empty stack ready for use.
type Stack[E any] struct {
	Of []E
}

// Push adds v to the top of the stack.
func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. It panics if the stack is
// empty.
func (s *Stack[E]) Pop() E {
	if len(s.Of) < 1 {
		panic("pop of empty stack")
	}
	v := s.Of[len(s.Of)-1]
	var zero E
	s.Of[len(s.Of)-1] = zero
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

// Peek returns the top of the stack without removing it. ok is false if the
// stack is empty.
func (s Stack[E]) Peek() (v E, ok bool) {
	if len(s.Of) < 1 {
		return v, false
	}
	return s.Of[len(s.Of)-1], true
}

// Len returns the number of elements in the stack.
func (s Stack[E]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no elements.
func (s Stack[E]) Empty() bool {
	return len(s.Of) == 0
}

// Copy returns a stack with its own backing slice holding the same elements.
func (s Stack[E]) Copy() Stack[E] {
	cp := Stack[E]{Of: make([]E, len(s.Of))}
	copy(cp.Of, s.Of)
	return cp
}
