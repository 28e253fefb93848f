package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vocab-quiz-service/internal/config"
)

const sampleSeed = `
categories:
  - id: A
    name: A
  - id: cat-s
    name: Ş harfi
words:
  - eng: apple
    tr: elma
  - eng: sun
    tr: güneş
  - eng: Apple
    tr: Elma
`

func TestSeedFromFileInMemory(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := buildComponents(ctx, config.Config{}, logger)
	if err != nil {
		t.Fatalf("build components: %v", err)
	}
	defer c.Close()

	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	if err := os.WriteFile(path, []byte(sampleSeed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if err := seedFromFile(ctx, path, c, "u1", logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	pool, _ := c.vocabulary.Pool(ctx)
	if len(pool) != 2 {
		t.Fatalf("expected duplicates to collapse into 2 words, got %d", len(pool))
	}
	words, _ := c.vocabulary.UserWords(ctx, "u1")
	if len(words) != 2 {
		t.Fatalf("expected user to own 2 words, got %d", len(words))
	}
	categories, _ := c.vocabulary.Categories(ctx)
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", categories)
	}
	for _, w := range pool {
		if w.Eng == "apple" && w.EngCategoryID != "A" {
			t.Fatalf("expected apple in category A, got %+v", w)
		}
	}
}

func TestDecodeSeedRejectsUnknownFields(t *testing.T) {
	if _, err := decodeSeed(strings.NewReader("wordz: []\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := decodeSeed(strings.NewReader("words:\n  - eng: sea\n")); err == nil {
		t.Fatalf("expected missing translation error")
	}
	data, err := decodeSeed(strings.NewReader(""))
	if err != nil || len(data.Words) != 0 {
		t.Fatalf("expected empty file to decode, got %v %v", data, err)
	}
}
