package quiz

import "vocab-quiz-service/internal/domain"

// Points per question status under the default policy.
const (
	CorrectPoints = 15
	WrongPoints   = -5
	EmptyPoints   = -2
)

// ScoringPolicy holds the points awarded for each question outcome.
type ScoringPolicy struct {
	Correct int
	Wrong   int
	Empty   int
}

// DefaultScoring is the +15/-5/-2 policy.
var DefaultScoring = ScoringPolicy{
	Correct: CorrectPoints,
	Wrong:   WrongPoints,
	Empty:   EmptyPoints,
}

// Tally is the scored summary of a question list.
type Tally struct {
	CorrectCount   int
	WrongCount     int
	EmptyCount     int
	TotalQuestions int
	FinalScore     int
}

// Score counts outcomes and sums points. Locked questions are ignored and the
// final score never drops below zero. There is no time bonus.
func Score(questions []domain.Question, policy ScoringPolicy) Tally {
	var (
		t   Tally
		sum int
	)
	for _, q := range questions {
		switch q.Status {
		case domain.StatusLocked:
			continue
		case domain.StatusCorrect:
			t.CorrectCount++
			sum += policy.Correct
		case domain.StatusWrong:
			t.WrongCount++
			sum += policy.Wrong
		default:
			t.EmptyCount++
			sum += policy.Empty
		}
		t.TotalQuestions++
	}
	t.FinalScore = max(0, sum)
	return t
}

// MaxScore is the best achievable score for n answerable questions.
func (p ScoringPolicy) MaxScore(n int) int {
	return max(0, p.Correct*n)
}
