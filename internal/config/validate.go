package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate checks cross-field rules that struct tags cannot express.
func (c Config) Validate() error {
	var errs []error

	if c.Quiz.DurationSeconds <= 0 {
		errs = append(errs, fmt.Errorf("quiz.duration_seconds must be positive, got %d", c.Quiz.DurationSeconds))
	}
	if c.Quiz.DailyWordCount <= 0 {
		errs = append(errs, fmt.Errorf("quiz.daily_word_count must be positive, got %d", c.Quiz.DailyWordCount))
	}
	switch c.Quiz.AlphabetMode {
	case "used", "fixed":
	default:
		errs = append(errs, fmt.Errorf("quiz.alphabet_mode must be used or fixed, got %q", c.Quiz.AlphabetMode))
	}
	if c.Quiz.Scoring.Correct <= 0 {
		errs = append(errs, fmt.Errorf("quiz.scoring.correct must be positive, got %d", c.Quiz.Scoring.Correct))
	}
	for from, to := range c.Quiz.ExtraFolds {
		if utf8.RuneCountInString(from) != 1 || utf8.RuneCountInString(to) != 1 {
			errs = append(errs, fmt.Errorf("quiz.extra_folds entry %q: %q must map one letter to one letter", from, to))
		}
	}

	return errors.Join(errs...)
}

// Folds returns the extra fold table as runes. Call after Validate.
func (q QuizConfig) Folds() map[rune]rune {
	out := make(map[rune]rune, len(q.ExtraFolds))
	for from, to := range q.ExtraFolds {
		f, _ := utf8.DecodeRuneInString(from)
		t, _ := utf8.DecodeRuneInString(to)
		out[f] = t
	}
	return out
}
