package usecase

import "restorag/internal/domain"

// Session holds the rolling conversation history for one chat. Only the
// last maxTurns entries are kept; older ones fall off silently.
type Session struct {
	maxTurns int
	turns    []domain.Turn
}

func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = 10
	}
	return &Session{maxTurns: maxTurns}
}

func (s *Session) Append(role, text string) {
	s.turns = append(s.turns, domain.Turn{Role: role, Text: text})
	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
}

// Turns returns a copy of the retained history, oldest first.
func (s *Session) Turns() []domain.Turn {
	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	return len(s.turns)
}
