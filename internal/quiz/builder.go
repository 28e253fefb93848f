package quiz

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// AlphabetMode controls which letters a question set covers.
type AlphabetMode string

const (
	// AlphabetUsed emits one question per letter that actually occurs.
	AlphabetUsed AlphabetMode = "used"
	// AlphabetFixed walks the whole answer alphabet and locks letters without words.
	AlphabetFixed AlphabetMode = "fixed"
)

var alphabets = map[domain.Direction]string{
	domain.DirectionEngTr: "ABCÇDEFGĞHIİJKLMNOÖPRSŞTUÜVYZ",
	domain.DirectionTrEng: "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
}

// Builder turns a word collection into a letter-ordered question set.
type Builder struct {
	norm *Normalizer
	mode AlphabetMode

	mu   sync.Mutex
	pick Picker
}

// NewBuilder returns a Builder. A nil picker falls back to a time-seeded source.
func NewBuilder(norm *Normalizer, pick Picker, mode AlphabetMode) *Builder {
	if norm == nil {
		norm = NewNormalizer(nil)
	}
	if pick == nil {
		pick = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if mode == "" {
		mode = AlphabetUsed
	}
	return &Builder{norm: norm, pick: pick, mode: mode}
}

// Build groups words by the first letter of their answer side and picks one
// representative per letter. Valid answers come from the same collection.
func (b *Builder) Build(words []domain.Word, d domain.Direction) ([]domain.Question, error) {
	return b.BuildWithPool(words, words, d)
}

// BuildWithPool is Build with valid answers gathered from pool instead of words.
func (b *Builder) BuildWithPool(words, pool []domain.Word, d domain.Direction) ([]domain.Question, error) {
	groups := make(map[string][]domain.Word)
	for _, w := range words {
		answer := strings.TrimSpace(d.Answer(w))
		if answer == "" {
			continue
		}
		letter := b.norm.Group(answer, d)
		groups[letter] = append(groups[letter], w)
	}
	if len(groups) == 0 {
		return nil, domain.ErrInsufficientVocabulary
	}

	letters := make([]string, 0, len(groups))
	for letter := range groups {
		letters = append(letters, letter)
	}
	if b.mode == AlphabetFixed {
		for _, r := range alphabets[d] {
			if _, ok := groups[string(r)]; !ok {
				letters = append(letters, string(r))
			}
		}
	}
	SortLetters(letters, d)

	questions := make([]domain.Question, 0, len(letters))
	for _, letter := range letters {
		bucket := groups[letter]
		if len(bucket) == 0 {
			questions = append(questions, lockedQuestion(letter))
			continue
		}
		rep := bucket[b.intn(len(bucket))]
		questions = append(questions, b.question(letter, rep, pool, d))
	}
	return questions, nil
}

// Limit keeps n randomly chosen answerable questions, preserving their order.
// Locked placeholders are kept. n <= 0 keeps everything.
func (b *Builder) Limit(questions []domain.Question, n int) []domain.Question {
	answerable := make([]int, 0, len(questions))
	for i, q := range questions {
		if !q.Locked() {
			answerable = append(answerable, i)
		}
	}
	if n <= 0 || n >= len(answerable) {
		return questions
	}

	// partial Fisher-Yates over the answerable indexes
	for i := 0; i < n; i++ {
		j := i + b.intn(len(answerable)-i)
		answerable[i], answerable[j] = answerable[j], answerable[i]
	}
	keep := make(map[int]bool, n)
	for _, idx := range answerable[:n] {
		keep[idx] = true
	}

	out := make([]domain.Question, 0, n)
	for i, q := range questions {
		if q.Locked() || keep[i] {
			out = append(out, q)
		}
	}
	return out
}

func (b *Builder) question(letter string, rep domain.Word, pool []domain.Word, d domain.Direction) domain.Question {
	prompt := strings.TrimSpace(d.Prompt(rep))
	primary := strings.TrimSpace(d.Answer(rep))
	key := b.norm.ComparePrompt(prompt, d)

	seen := make(map[string]bool)
	valid := make([]string, 0, 1)
	for _, w := range pool {
		if b.norm.ComparePrompt(d.Prompt(w), d) != key {
			continue
		}
		answer := strings.TrimSpace(d.Answer(w))
		if answer == "" || seen[answer] {
			continue
		}
		seen[answer] = true
		valid = append(valid, answer)
	}
	if !seen[primary] {
		valid = append(valid, primary)
	}

	return domain.Question{
		ID:            rep.ID,
		Letter:        letter,
		Text:          prompt,
		CorrectAnswer: primary,
		ValidAnswers:  valid,
		Status:        domain.StatusEmpty,
	}
}

func (b *Builder) intn(n int) int {
	if n <= 1 {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pick.Intn(n)
}

func lockedQuestion(letter string) domain.Question {
	return domain.Question{
		ID:     "locked-" + letter,
		Letter: letter,
		Status: domain.StatusLocked,
	}
}

// Letters returns the letter of each question, in question order.
func Letters(questions []domain.Question) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Letter)
	}
	return out
}
