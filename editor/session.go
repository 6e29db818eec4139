package editor

import (
	"slices"
	"time"
)

const (
	// TypingIdle ends a typing session; edits within it share one history entry.
	TypingIdle = 800 * time.Millisecond
	// RegenerateDelay debounces layout after text, spacing and line-height edits.
	RegenerateDelay = 150 * time.Millisecond
)

// Session 保存一次编辑会话的计时状态（输入会话与重新排版的防抖）。
// 它由 Editor 持有，不依赖任何全局计时器。
type Session struct {
	typingUntil time.Time
	pending     map[string]time.Time
}

// NewSession returns an idle session.
func NewSession() Session {
	return Session{pending: map[string]time.Time{}}
}

// Typing reports whether a typing session is open at now.
func (s *Session) Typing(now time.Time) bool {
	return !s.typingUntil.IsZero() && now.Before(s.typingUntil)
}

// Touch extends the typing session and reports whether a new one started.
func (s *Session) Touch(now time.Time) bool {
	started := !s.Typing(now)
	s.typingUntil = now.Add(TypingIdle)
	return started
}

// Schedule (re)arms the regeneration timer of a layer.
func (s *Session) Schedule(id string, now time.Time) {
	if s.pending == nil {
		s.pending = map[string]time.Time{}
	}
	s.pending[id] = now.Add(RegenerateDelay)
}

// Pending lists layers waiting for regeneration.
func (s *Session) Pending() []string {
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Due removes and returns the layers whose timer expired at now.
func (s *Session) Due(now time.Time) []string {
	var ids []string
	for id, at := range s.pending {
		if !now.Before(at) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(s.pending, id)
	}
	slices.Sort(ids)
	if !s.Typing(now) {
		s.typingUntil = time.Time{}
	}
	return ids
}

// Cancel drops the pending regeneration of a layer.
func (s *Session) Cancel(id string) { delete(s.pending, id) }

// Reset ends typing and forgets pending work.
func (s *Session) Reset() {
	s.typingUntil = time.Time{}
	clear(s.pending)
}
