package memory

import (
	"testing"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/quiz"
)

func newSession(id string) *app.Session {
	return app.NewSession(quiz.NewSession(quiz.SessionConfig{ID: id, UserID: "u1"}, nil))
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	store.Put("u1", newSession("s1"))
	if _, ok := store.Get("u1"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfCurrent("u1", "s1")
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreKeepsNewerSession(t *testing.T) {
	store := NewSessionStore()
	store.Put("u1", newSession("s1"))
	store.Put("u1", newSession("s2"))

	store.DeleteIfCurrent("u1", "s1")
	session, ok := store.Get("u1")
	if !ok || session.ID() != "s2" {
		t.Fatalf("expected newer session to survive, got %v", session)
	}
}
