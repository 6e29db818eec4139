package history

import "testing"

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New[int](0)
	state := 0

	s.Push(state)
	state = 1
	s.Push(state)
	state = 2

	var ok bool
	state, ok = s.Undo(state)
	if !ok || state != 1 {
		t.Fatalf("first undo: got=%d ok=%v want=1", state, ok)
	}
	state, ok = s.Undo(state)
	if !ok || state != 0 {
		t.Fatalf("second undo: got=%d ok=%v want=0", state, ok)
	}
	if _, ok := s.Undo(state); ok {
		t.Fatalf("undo on empty past must be a no-op")
	}

	state, ok = s.Redo(state)
	if !ok || state != 1 {
		t.Fatalf("redo: got=%d ok=%v want=1", state, ok)
	}
	state, _ = s.Redo(state)
	if state != 2 {
		t.Fatalf("second redo: got=%d want=2", state)
	}
	if _, ok := s.Redo(state); ok {
		t.Fatalf("redo on empty future must be a no-op")
	}
}

func TestPushClearsFuture(t *testing.T) {
	s := New[string](0)
	s.Push("a")
	cur, _ := s.Undo("b")
	if cur != "a" || !s.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}
	s.Push(cur)
	if s.CanRedo() {
		t.Fatalf("push must clear the future")
	}
	if _, ok := s.Redo("c"); ok {
		t.Fatalf("redo after a new edit must be a no-op")
	}
}

func TestStackIsBounded(t *testing.T) {
	s := New[int](0)
	for i := 0; i < DefaultLimit+50; i++ {
		s.Push(i)
	}
	past, _ := s.Len()
	if past != DefaultLimit {
		t.Fatalf("past length: got=%d want=%d", past, DefaultLimit)
	}
	// 最旧的 50 条被丢弃，最早可恢复的是 50
	cur := -1
	for s.CanUndo() {
		cur, _ = s.Undo(cur)
	}
	if cur != 50 {
		t.Fatalf("oldest retained state: got=%d want=50", cur)
	}
	_, future := s.Len()
	if future != DefaultLimit {
		t.Fatalf("future length: got=%d want=%d", future, DefaultLimit)
	}
}

func TestCoalescerBeginsOnce(t *testing.T) {
	c := NewCoalescer[string]()
	if !c.Begin("drag") {
		t.Fatalf("first begin must report a start")
	}
	if c.Begin("drag") {
		t.Fatalf("repeated begin inside a gesture must not report a start")
	}
	if !c.Begin("rotate") {
		t.Fatalf("gesture kinds are independent")
	}
	if !c.Active("drag") || !c.End("drag") || c.Active("drag") {
		t.Fatalf("end must deactivate the gesture")
	}
	if c.End("drag") {
		t.Fatalf("ending an idle gesture reports false")
	}
	c.Reset()
	if c.Active("rotate") {
		t.Fatalf("reset must end all gestures")
	}
}
