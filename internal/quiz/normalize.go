package quiz

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"vocab-quiz-service/internal/domain"
)

// FoldTable maps accented letters to the base letter used for answer comparison.
type FoldTable map[rune]rune

// DefaultFolds tolerates answers typed without Turkish diacritics.
var DefaultFolds = FoldTable{
	'ı': 'i',
	'ğ': 'g',
	'ü': 'u',
	'ş': 's',
	'ö': 'o',
	'ç': 'c',
}

// Normalizer folds text for letter grouping and answer comparison.
// Casers and collators are not safe for concurrent use, so they are built per call.
type Normalizer struct {
	folds FoldTable
}

// NewNormalizer returns a Normalizer using DefaultFolds extended (or overridden) by extra.
func NewNormalizer(extra FoldTable) *Normalizer {
	folds := make(FoldTable, len(DefaultFolds)+len(extra))
	for from, to := range DefaultFolds {
		folds[from] = to
	}
	for from, to := range extra {
		folds[from] = to
	}
	return &Normalizer{folds: folds}
}

// Locale returns the casing locale of the answer side for d.
func Locale(d domain.Direction) language.Tag {
	if d == domain.DirectionEngTr {
		return language.Turkish
	}
	return language.English
}

// PromptLocale returns the casing locale of the prompt side for d.
func PromptLocale(d domain.Direction) language.Tag {
	if d == domain.DirectionTrEng {
		return language.Turkish
	}
	return language.English
}

// combiningDot is left behind when İ is lower-cased outside a Turkish locale.
const combiningDot = '\u0307'

// Group returns the bucket key of text: its first letter upper-cased with the
// answer-side locale. Diacritics are kept so Ç and C stay separate buckets.
// Upper-casing can expand a rune (ß to SS); only the first rune is kept.
func (n *Normalizer) Group(text string, d domain.Direction) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(text)
	upper := cases.Upper(Locale(d)).String(string(r))
	first, _ := utf8.DecodeRuneInString(upper)
	return string(first)
}

// Compare returns the comparison form of answer text: trimmed, lower-cased with
// the answer-side locale and folded through the fold table.
func (n *Normalizer) Compare(text string, d domain.Direction) string {
	return n.CompareIn(text, Locale(d))
}

// ComparePrompt is Compare for prompt text, cased with the prompt-side locale.
func (n *Normalizer) ComparePrompt(text string, d domain.Direction) string {
	return n.CompareIn(text, PromptLocale(d))
}

// CompareIn lower-cases text with tag, drops stray combining dots and applies the fold table.
func (n *Normalizer) CompareIn(text string, tag language.Tag) string {
	lower := cases.Lower(tag).String(strings.TrimSpace(text))
	return strings.Map(func(r rune) rune {
		if r == combiningDot {
			return -1
		}
		if to, ok := n.folds[r]; ok {
			return to
		}
		return r
	}, lower)
}

// Equal reports whether a and b match in comparison mode.
func (n *Normalizer) Equal(a, b string, d domain.Direction) bool {
	return n.Compare(a, d) == n.Compare(b, d)
}

// SortLetters orders letters with the answer-side collation, in place.
func SortLetters(letters []string, d domain.Direction) {
	c := collate.New(Locale(d))
	sort.SliceStable(letters, func(i, j int) bool {
		return c.CompareString(letters[i], letters[j]) < 0
	})
}
