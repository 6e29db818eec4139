// Package history provides a bounded undo/redo stack and the gesture
// bookkeeping that folds a continuous interaction into one undo step.
package history

// DefaultLimit bounds both the past and the future stack.
const DefaultLimit = 200

// Stack keeps past and future states. Callers push the state as it is before
// a change; Undo and Redo take the current state and return the one to restore.
type Stack[T any] struct {
	limit  int
	past   []T
	future []T
}

// New creates a stack bounded to limit entries per direction; limit <= 0 uses
// DefaultLimit.
func New[T any](limit int) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{limit: limit}
}

// Push records state as the newest past entry and clears the redo side.
func (s *Stack[T]) Push(state T) {
	s.past = appendBounded(s.past, state, s.limit)
	clear(s.future)
	s.future = s.future[:0]
}

// Undo moves current onto the future stack and returns the newest past state.
// It is a no-op returning false when there is nothing to undo.
func (s *Stack[T]) Undo(current T) (T, bool) {
	var zero T
	if len(s.past) == 0 {
		return zero, false
	}
	prev := s.past[len(s.past)-1]
	s.past[len(s.past)-1] = zero
	s.past = s.past[:len(s.past)-1]
	s.future = appendBounded(s.future, current, s.limit)
	return prev, true
}

// Redo is the mirror of Undo.
func (s *Stack[T]) Redo(current T) (T, bool) {
	var zero T
	if len(s.future) == 0 {
		return zero, false
	}
	next := s.future[len(s.future)-1]
	s.future[len(s.future)-1] = zero
	s.future = s.future[:len(s.future)-1]
	s.past = appendBounded(s.past, current, s.limit)
	return next, true
}

func (s *Stack[T]) CanUndo() bool { return len(s.past) > 0 }
func (s *Stack[T]) CanRedo() bool { return len(s.future) > 0 }

// Len returns the number of past and future entries.
func (s *Stack[T]) Len() (past, future int) { return len(s.past), len(s.future) }

// appendBounded appends v and drops the oldest entries beyond limit. Index 0
// is always the oldest entry.
func appendBounded[T any](list []T, v T, limit int) []T {
	list = append(list, v)
	if over := len(list) - limit; over > 0 {
		var zero T
		for i := 0; i < over; i++ {
			list[i] = zero
		}
		list = append(list[:0], list[over:]...)
	}
	return list
}
