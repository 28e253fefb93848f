package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Categories []domain.Category `yaml:"categories"`
	Words      []seedWord        `yaml:"words"`
}

type seedWord struct {
	Eng string `yaml:"eng"`
	Tr  string `yaml:"tr"`
}

// NewSeedCmd loads a vocabulary file into the configured stores.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		file   string
		userID string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load categories and words from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(*configPath)
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg.Log)
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured; use start --seed-file for in-memory runs")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg, logger); err != nil {
				return err
			}

			c, err := buildComponents(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()
			return seedFromFile(cmd.Context(), file, c, userID, logger)
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/vocabulary.yaml", "YAML vocabulary file")
	cmd.Flags().StringVar(&userID, "user", "", "subscribe this user to every seeded word")
	return cmd
}

func seedFromFile(ctx context.Context, path string, c *components, userID string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	data, err := decodeSeed(f)
	if err != nil {
		return fmt.Errorf("decode seed file %s: %w", path, err)
	}

	for _, cat := range data.Categories {
		if err := c.categories.UpsertCategory(ctx, cat); err != nil {
			return err
		}
	}

	var imported, subscribed int
	for _, w := range data.Words {
		if userID != "" {
			_, added, err := c.vocabulary.AddWord(ctx, userID, w.Eng, w.Tr)
			if err != nil {
				return fmt.Errorf("seed %s/%s: %w", w.Eng, w.Tr, err)
			}
			if added {
				subscribed++
			}
		} else if _, err := c.vocabulary.ImportWord(ctx, w.Eng, w.Tr); err != nil {
			return fmt.Errorf("seed %s/%s: %w", w.Eng, w.Tr, err)
		}
		imported++
	}

	logger.InfoContext(ctx, "vocabulary seeded",
		slog.String("file", path),
		slog.Int("categories", len(data.Categories)),
		slog.Int("words", imported),
		slog.Int("subscribed", subscribed),
	)
	return nil
}

func decodeSeed(r io.Reader) (seedFile, error) {
	var data seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return seedFile{}, err
	}
	for i, w := range data.Words {
		if w.Eng == "" || w.Tr == "" {
			return seedFile{}, fmt.Errorf("word %d: eng and tr are required", i)
		}
	}
	return data, nil
}
