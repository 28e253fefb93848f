package quiz

import (
	"errors"
	"testing"

	"vocab-quiz-service/internal/domain"
)

// stubPicker always returns the same offset, wrapped into range.
type stubPicker int

func (p stubPicker) Intn(n int) int { return int(p) % n }

func TestBuildGroupsByAnswerLetter(t *testing.T) {
	words := []domain.Word{
		{ID: "w1", Eng: "APPLE", Tr: "ELMA"},
		{ID: "w2", Eng: "AIRPORT", Tr: "HAVALİMANI"},
	}

	for pick, wantID := range map[int]string{0: "w1", 1: "w2"} {
		b := NewBuilder(nil, stubPicker(pick), AlphabetUsed)
		questions, err := b.Build(words, domain.DirectionTrEng)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if len(questions) != 1 || questions[0].Letter != "A" {
			t.Fatalf("expected a single A question, got %+v", questions)
		}
		q := questions[0]
		if q.ID != wantID {
			t.Fatalf("pick %d: expected representative %s, got %s", pick, wantID, q.ID)
		}
		// different prompts, so only the representative's own answer is valid
		if len(q.ValidAnswers) != 1 || q.ValidAnswers[0] != q.CorrectAnswer {
			t.Fatalf("expected only %q to be valid, got %v", q.CorrectAnswer, q.ValidAnswers)
		}
		if q.Status != domain.StatusEmpty {
			t.Fatalf("expected empty status, got %s", q.Status)
		}
	}
}

func TestBuildSortsLettersAndCoversInput(t *testing.T) {
	words := []domain.Word{
		{ID: "1", Eng: "tea", Tr: "çay"},
		{ID: "2", Eng: "apple", Tr: "elma"},
		{ID: "3", Eng: "light", Tr: "ışık"},
		{ID: "4", Eng: "fig", Tr: "incir"},
		{ID: "5", Eng: "water", Tr: "su"},
		{ID: "6", Eng: "six", Tr: "altı"},
		{ID: "7", Eng: "bread", Tr: "ekmek"},
		{ID: "8", Eng: "empty", Tr: "  "},
	}
	b := NewBuilder(nil, stubPicker(0), AlphabetUsed)

	questions, err := b.Build(words, domain.DirectionEngTr)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := Letters(questions)
	want := []string{"A", "Ç", "E", "I", "İ", "S"}
	if len(got) != len(want) {
		t.Fatalf("expected letters %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected letters %v, got %v", want, got)
		}
	}

	seen := make(map[string]bool)
	for _, letter := range got {
		if seen[letter] {
			t.Fatalf("letter %s repeated in %v", letter, got)
		}
		seen[letter] = true
	}
	for _, w := range words {
		if letter := b.norm.Group(w.Tr, domain.DirectionEngTr); letter != "" && !seen[letter] {
			t.Fatalf("letter %s of %q missing from %v", letter, w.Tr, got)
		}
	}
}

func TestBuildAcceptsEveryTranslationOfPrompt(t *testing.T) {
	words := []domain.Word{
		{ID: "1", Eng: "light", Tr: "hafif"},
		{ID: "2", Eng: "Light ", Tr: "hafif"},
		{ID: "3", Eng: "light", Tr: "ışık"},
	}
	b := NewBuilder(nil, stubPicker(0), AlphabetUsed)

	questions, err := b.Build(words, domain.DirectionEngTr)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected H and I questions, got %+v", questions)
	}
	for _, q := range questions {
		if len(q.ValidAnswers) != 2 {
			t.Fatalf("question %s: expected both translations, got %v", q.Letter, q.ValidAnswers)
		}
	}
}

func TestBuildMatchesTurkishPromptsAcrossDottedCapitalI(t *testing.T) {
	words := []domain.Word{
		{ID: "1", Eng: "first", Tr: "İLK"},
		{ID: "2", Eng: "initial", Tr: "ilk"},
	}
	b := NewBuilder(nil, stubPicker(0), AlphabetUsed)

	questions, err := b.Build(words, domain.DirectionTrEng)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected F and I questions, got %+v", questions)
	}
	for _, q := range questions {
		if len(q.ValidAnswers) != 2 {
			t.Fatalf("question %s (%s): expected first and initial, got %v", q.Letter, q.Text, q.ValidAnswers)
		}
	}
}

func TestBuildWithPoolAddsPoolTranslations(t *testing.T) {
	words := []domain.Word{{ID: "1", Eng: "light", Tr: "hafif"}}
	pool := []domain.Word{{ID: "9", Eng: "LIGHT", Tr: "ışık"}}
	b := NewBuilder(nil, stubPicker(0), AlphabetUsed)

	questions, err := b.BuildWithPool(words, pool, domain.DirectionEngTr)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	valid := questions[0].ValidAnswers
	if len(valid) != 2 || valid[0] != "ışık" || valid[1] != "hafif" {
		t.Fatalf("expected pool answer plus primary, got %v", valid)
	}
}

func TestBuildRejectsEmptyVocabulary(t *testing.T) {
	b := NewBuilder(nil, stubPicker(0), AlphabetUsed)

	if _, err := b.Build(nil, domain.DirectionEngTr); !errors.Is(err, domain.ErrInsufficientVocabulary) {
		t.Fatalf("expected insufficient vocabulary, got %v", err)
	}
	blank := []domain.Word{{ID: "1", Eng: "apple", Tr: ""}}
	if _, err := b.Build(blank, domain.DirectionEngTr); !errors.Is(err, domain.ErrInsufficientVocabulary) {
		t.Fatalf("expected insufficient vocabulary for blank answers, got %v", err)
	}
}

func TestBuildFixedAlphabetLocksMissingLetters(t *testing.T) {
	b := NewBuilder(nil, stubPicker(0), AlphabetFixed)
	questions, err := b.Build([]domain.Word{{ID: "1", Eng: "apple", Tr: "elma"}}, domain.DirectionEngTr)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(questions) != 29 {
		t.Fatalf("expected full turkish alphabet, got %d", len(questions))
	}
	locked := 0
	for _, q := range questions {
		if q.Locked() {
			locked++
			if q.ID != "locked-"+q.Letter {
				t.Fatalf("unexpected placeholder id %s", q.ID)
			}
		}
	}
	if locked != 28 {
		t.Fatalf("expected 28 locked letters, got %d", locked)
	}
	if questions[5].Letter != "E" || questions[5].Locked() {
		t.Fatalf("expected answerable E at index 5, got %+v", questions[5])
	}
}

func TestLimitKeepsOrder(t *testing.T) {
	words := []domain.Word{
		{ID: "1", Eng: "a", Tr: "ayı"},
		{ID: "2", Eng: "b", Tr: "balık"},
		{ID: "3", Eng: "c", Tr: "cam"},
		{ID: "4", Eng: "d", Tr: "deniz"},
		{ID: "5", Eng: "e", Tr: "ev"},
	}
	b := NewBuilder(nil, stubPicker(0), AlphabetUsed)
	questions, err := b.Build(words, domain.DirectionEngTr)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	limited := b.Limit(questions, 2)
	if len(limited) != 2 || limited[0].Letter != "A" || limited[1].Letter != "B" {
		t.Fatalf("expected A and B, got %v", Letters(limited))
	}
	if got := b.Limit(questions, 0); len(got) != 5 {
		t.Fatalf("expected no limit, got %d", len(got))
	}
	if got := b.Limit(questions, 9); len(got) != 5 {
		t.Fatalf("expected all questions when limit exceeds size, got %d", len(got))
	}
}
