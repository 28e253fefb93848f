package quiz

import (
	"slices"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"
)

// FinishReason records why a session ended.
type FinishReason string

const (
	ReasonExplicit FinishReason = "explicit"
	ReasonTimeout  FinishReason = "timeout"
)

// DefaultDurationSeconds is the time budget of a session.
const DefaultDurationSeconds = 300

// NavigationKind selects how Navigate moves the cursor.
type NavigationKind string

const (
	NavigateNext     NavigationKind = "next"
	NavigatePrevious NavigationKind = "previous"
	NavigateLetter   NavigationKind = "letter"
)

// Navigation is a cursor move request.
type Navigation struct {
	Kind   NavigationKind
	Letter string
}

// SessionConfig describes a session at creation time.
type SessionConfig struct {
	ID              string
	UserID          string
	Direction       domain.Direction
	Type            domain.ResultType
	QuizDate        string
	DurationSeconds int
	Scoring         ScoringPolicy
	Normalizer      *Normalizer
	Now             func() time.Time
}

// SubmitOutcome reports what a submission did.
type SubmitOutcome struct {
	Applied bool
	Status  domain.QuestionStatus
	Letter  string
}

// Session is the state machine of one timed quiz. Questions move from empty to
// correct or wrong at most once; locked questions are never visited.
// Every method takes the session lock, so the timer goroutine and the user's
// actions are applied one at a time.
type Session struct {
	mu        sync.Mutex
	cfg       SessionConfig
	questions []domain.Question
	cursor    int
	remaining int
	draft     string
	finished  bool
	reason    FinishReason
	result    domain.Result
}

// NewSession creates a session positioned on the first non-locked question.
func NewSession(cfg SessionConfig, questions []domain.Question) *Session {
	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = DefaultDurationSeconds
	}
	if cfg.Scoring == (ScoringPolicy{}) {
		cfg.Scoring = DefaultScoring
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = NewNormalizer(nil)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Type == "" {
		cfg.Type = domain.ResultNormal
	}

	s := &Session{
		cfg:       cfg,
		questions: slices.Clone(questions),
		remaining: cfg.DurationSeconds,
	}
	for i, q := range s.questions {
		if !q.Locked() {
			s.cursor = i
			break
		}
	}
	return s
}

func (s *Session) ID() string                  { return s.cfg.ID }
func (s *Session) UserID() string              { return s.cfg.UserID }
func (s *Session) Direction() domain.Direction { return s.cfg.Direction }

// Submit evaluates text against the current question. It is a no-op on locked
// or already answered questions and after the session finished.
func (s *Session) Submit(text string) SubmitOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished || len(s.questions) == 0 {
		return SubmitOutcome{}
	}
	q := &s.questions[s.cursor]
	if q.Locked() || q.Status.Answered() {
		return SubmitOutcome{Status: q.Status, Letter: q.Letter}
	}

	input := s.cfg.Normalizer.Compare(text, s.cfg.Direction)
	q.Status = domain.StatusWrong
	for _, answer := range q.ValidAnswers {
		if s.cfg.Normalizer.Compare(answer, s.cfg.Direction) == input {
			q.Status = domain.StatusCorrect
			break
		}
	}
	q.UserAnswer = text
	out := SubmitOutcome{Applied: true, Status: q.Status, Letter: q.Letter}

	s.draft = ""
	s.advanceLocked()
	return out
}

// SetDraft stores the working input of the current question.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.draft = text
	}
}

// Draft returns the working input.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Advance moves to the next non-locked question, or wraps to the first empty one.
// When nothing qualifies the cursor stays put.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		s.advanceLocked()
	}
}

// Previous moves to the nearest earlier non-locked question, answered or not.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	for i := s.cursor - 1; i >= 0; i-- {
		if !s.questions[i].Locked() {
			s.cursor = i
			s.draft = ""
			return
		}
	}
}

// JumpTo moves the cursor to the question of letter. Locked or unknown letters are ignored.
func (s *Session) JumpTo(letter string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	for i, q := range s.questions {
		if q.Letter != letter {
			continue
		}
		if q.Locked() {
			return false
		}
		s.cursor = i
		s.draft = q.UserAnswer
		return true
	}
	return false
}

// Navigate dispatches a Navigation.
func (s *Session) Navigate(nav Navigation) bool {
	switch nav.Kind {
	case NavigateNext:
		s.Advance()
		return true
	case NavigatePrevious:
		s.Previous()
		return true
	case NavigateLetter:
		return s.JumpTo(nav.Letter)
	default:
		return false
	}
}

func (s *Session) advanceLocked() {
	for i := s.cursor + 1; i < len(s.questions); i++ {
		if !s.questions[i].Locked() {
			s.cursor = i
			s.draft = s.questions[i].UserAnswer
			return
		}
	}
	for i, q := range s.questions {
		if i != s.cursor && !q.Locked() && q.Status == domain.StatusEmpty {
			s.cursor = i
			s.draft = ""
			return
		}
	}
}

// Tick consumes one second of the budget and reports whether it ran out.
func (s *Session) Tick() (remaining int, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return s.remaining, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return s.remaining, s.remaining == 0
}

// Finish freezes the session and snapshots its result. Only the first call has
// an effect; it returns false for every later call.
func (s *Session) Finish(reason FinishReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	s.finished = true
	s.reason = reason
	s.draft = ""
	if reason == ReasonTimeout {
		s.remaining = 0
	}
	s.result = s.resultLocked()
	return true
}

// Finished reports whether the session is frozen.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Result returns the frozen result. ok is false until Finish was called.
func (s *Session) Result() (res domain.Result, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return domain.Result{}, false
	}
	res = s.result
	res.Answers = slices.Clone(s.result.Answers)
	return res, true
}

// AllAnswered reports whether no answerable question is still empty.
func (s *Session) AllAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allAnsweredLocked()
}

func (s *Session) allAnsweredLocked() bool {
	for _, q := range s.questions {
		if !q.Locked() && q.Status == domain.StatusEmpty {
			return false
		}
	}
	return true
}

// Questions returns a copy of the question list.
func (s *Session) Questions() []domain.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.questions)
}

// Cursor returns the index of the current question.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Remaining returns the seconds left on the budget.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) resultLocked() domain.Result {
	tally := Score(s.questions, s.cfg.Scoring)
	answers := make([]domain.AnswerRecord, 0, tally.TotalQuestions)
	for _, q := range s.questions {
		if q.Locked() {
			continue
		}
		answers = append(answers, domain.AnswerRecord{
			ID:            q.ID,
			Letter:        q.Letter,
			Question:      q.Text,
			CorrectAnswer: q.CorrectAnswer,
			ValidAnswers:  slices.Clone(q.ValidAnswers),
			UserAnswer:    q.UserAnswer,
			Status:        q.Status,
		})
	}

	res := domain.Result{
		UserID:           s.cfg.UserID,
		Direction:        s.cfg.Direction,
		FinalScore:       tally.FinalScore,
		CorrectCount:     tally.CorrectCount,
		WrongCount:       tally.WrongCount,
		EmptyCount:       tally.EmptyCount,
		Answers:          answers,
		TotalQuestions:   tally.TotalQuestions,
		TimeTakenSeconds: max(0, s.cfg.DurationSeconds-s.remaining),
		CompletedAt:      s.cfg.Now().UTC(),
		Type:             s.cfg.Type,
	}
	if s.cfg.Type == domain.ResultDaily {
		res.QuizDate = s.cfg.QuizDate
	}
	return res
}
