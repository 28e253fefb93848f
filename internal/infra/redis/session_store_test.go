package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/quiz"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)

	store.Put("u1", newSession("s1"))
	if !mr.Exists("quiz:session:u1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:u1"); got != "s1" {
		t.Fatalf("expected marker to hold session id, got %q", got)
	}

	store.DeleteIfCurrent("u1", "s1")
	if mr.Exists("quiz:session:u1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session to be removed")
	}
}

func TestSessionStoreKeepsReplacedSession(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Put("u1", newSession("old"))
	store.Put("u1", newSession("new"))

	store.DeleteIfCurrent("u1", "old")
	got, ok := store.Get("u1")
	if !ok || got.ID() != "new" {
		t.Fatalf("expected newer session to survive")
	}
	if !mr.Exists("quiz:session:u1") {
		t.Fatalf("expected marker of newer session to stay")
	}
}

func TestSessionStoreHidesSessionTakenOverElsewhere(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	store.Put("u1", newSession("local"))

	if err := mr.Set("quiz:session:u1", "remote"); err != nil {
		t.Fatalf("set marker: %v", err)
	}
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session owned by another instance to be hidden")
	}

	mr.Del("quiz:session:u1")
	if got, ok := store.Get("u1"); !ok || got.ID() != "local" {
		t.Fatalf("expected local session when the marker is missing")
	}

	mr.Close()
	if got, ok := store.Get("u1"); !ok || got.ID() != "local" {
		t.Fatalf("expected local session when redis is down")
	}
}

func newSession(id string) *app.Session {
	return app.NewSession(quiz.NewSession(quiz.SessionConfig{ID: id, UserID: "u1"}, nil))
}
