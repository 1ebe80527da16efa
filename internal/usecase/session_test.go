package usecase

import "testing"

func TestSession_AppendAndTurns(t *testing.T) {
	s := NewSession(10)
	s.Append("user", "bonjour")
	s.Append("assistant", "bonjour, que puis-je faire ?")

	turns := s.Turns()
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("roles out of order: %+v", turns)
	}
}

func TestSession_TrimsOldest(t *testing.T) {
	s := NewSession(3)
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		s.Append("user", text)
	}

	turns := s.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 retained turns, got %d", len(turns))
	}
	if turns[0].Text != "c" || turns[2].Text != "e" {
		t.Errorf("wrong turns retained: %+v", turns)
	}
}

func TestSession_TurnsIsCopy(t *testing.T) {
	s := NewSession(5)
	s.Append("user", "original")

	turns := s.Turns()
	turns[0].Text = "mutated"

	if s.Turns()[0].Text != "original" {
		t.Error("Turns must return a copy")
	}
}
