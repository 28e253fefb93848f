package memory

import (
	"context"
	"errors"
	"testing"

	"vocab-quiz-service/internal/domain"
)

func TestAddOrFindWordDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := NewVocabularyStore(nil)

	first, err := store.AddOrFindWord(ctx, domain.NewWord{Eng: "Apple", Tr: "Elma"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := store.AddOrFindWord(ctx, domain.NewWord{Eng: "apple", Tr: "elma"})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the existing word back, got %s and %s", first.ID, second.ID)
	}
	other, _ := store.AddOrFindWord(ctx, domain.NewWord{Eng: "apple", Tr: "elmalar"})
	if other.ID == first.ID {
		t.Fatalf("a different translation is a different word")
	}

	all, _ := store.ListAllWords(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 words in the pool, got %d", len(all))
	}
}

func TestUserWordSubscriptions(t *testing.T) {
	ctx := context.Background()
	store := NewVocabularyStore(nil)
	w, _ := store.AddOrFindWord(ctx, domain.NewWord{Eng: "sea", Tr: "deniz"})

	added, err := store.AddWordToUser(ctx, "u1", w.ID)
	if err != nil || !added {
		t.Fatalf("expected word added, got added=%v err=%v", added, err)
	}
	added, _ = store.AddWordToUser(ctx, "u1", w.ID)
	if added {
		t.Fatalf("expected duplicate subscription to be reported")
	}
	if _, err := store.AddWordToUser(ctx, "u1", "missing"); !errors.Is(err, domain.ErrWordNotFound) {
		t.Fatalf("expected word not found, got %v", err)
	}

	ids, _ := store.ListUserWordIDs(ctx, "u1")
	if len(ids) != 1 || ids[0] != w.ID {
		t.Fatalf("unexpected ids %v", ids)
	}

	if err := store.RemoveWordFromUser(ctx, "u1", w.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	words, _ := store.ListUserWords(ctx, "u1")
	if len(words) != 0 {
		t.Fatalf("expected no words after removal, got %v", words)
	}
}

func TestResultStoreAggregates(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore()

	id, err := store.SaveResult(ctx, "u1", domain.Result{FinalScore: 30, Type: domain.ResultDaily, QuizDate: "2026-10-15"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := store.GetResult(ctx, id)
	if err != nil || res.UserID != "u1" {
		t.Fatalf("get: %+v %v", res, err)
	}
	if _, err := store.GetResult(ctx, "nope"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	done, _ := store.HasDailyResult(ctx, "u1", "2026-10-15")
	if !done {
		t.Fatalf("expected daily result to be found")
	}

	_ = store.UpdateAggregateScore(ctx, "u1", 30)
	_ = store.UpdateAggregateScore(ctx, "u1", 12)
	if got := store.AggregateScore("u1"); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}
