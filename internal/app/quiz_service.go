package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/quiz"
)

// Options tunes a QuizService. Zero values fall back to the engine defaults.
type Options struct {
	DurationSeconds int
	Scoring         quiz.ScoringPolicy
	Normalizer      *quiz.Normalizer
	Builder         *quiz.Builder
	Logger          *slog.Logger
	Now             func() time.Time
}

// StartRequest describes a quiz the user wants to play.
type StartRequest struct {
	UserID        string
	Direction     domain.Direction
	QuestionCount int
	Mode          domain.ResultType
}

// Session is a user's active quiz. The embedded engine session owns the
// question state; the wrapper makes sure a finished session is persisted once.
type Session struct {
	*quiz.Session

	persistMu sync.Mutex
	recorded  *Recorded
	discarded bool
}

// NewSession wraps an engine session. Exported for infrastructure layers and tests.
func NewSession(s *quiz.Session) *Session {
	return &Session{Session: s}
}

// Recorded returns the persisted outcome, if the session was already saved.
func (s *Session) Recorded() (Recorded, bool) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if s.recorded == nil {
		return Recorded{}, false
	}
	return *s.recorded, true
}

// discard freezes a session replaced by a newer one. A session that was
// already saved keeps its result.
func (s *Session) discard() {
	s.persistMu.Lock()
	if s.recorded != nil {
		s.persistMu.Unlock()
		return
	}
	s.discarded = true
	s.persistMu.Unlock()
	s.Finish(quiz.ReasonExplicit)
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions SessionRepository
	vocab    VocabularyCache
	results  ResultStore
	daily    *DailyQuizService
	recorder *Recorder
	builder  *quiz.Builder
	norm     *quiz.Normalizer
	opts     Options
	logger   *slog.Logger
}

func NewQuizService(sessions SessionRepository, vocab VocabularyCache, results ResultStore, daily *DailyQuizService, opts Options) *QuizService {
	if opts.Normalizer == nil {
		opts.Normalizer = quiz.NewNormalizer(nil)
	}
	if opts.Builder == nil {
		opts.Builder = quiz.NewBuilder(opts.Normalizer, nil, quiz.AlphabetUsed)
	}
	if opts.DurationSeconds <= 0 {
		opts.DurationSeconds = quiz.DefaultDurationSeconds
	}
	if opts.Scoring == (quiz.ScoringPolicy{}) {
		opts.Scoring = quiz.DefaultScoring
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &QuizService{
		sessions: sessions,
		vocab:    vocab,
		results:  results,
		daily:    daily,
		recorder: NewRecorder(results, opts.Logger),
		builder:  opts.Builder,
		norm:     opts.Normalizer,
		opts:     opts,
		logger:   opts.Logger,
	}
}

// StartSession builds a question set and registers it as the user's only session.
// Any previous session of the user is discarded without a result.
func (s *QuizService) StartSession(ctx context.Context, req StartRequest) (*Session, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if !req.Direction.Valid() {
		return nil, fmt.Errorf("%w: unknown direction %q", domain.ErrValidation, req.Direction)
	}
	if req.Mode == "" {
		req.Mode = domain.ResultNormal
	}

	cfg := quiz.SessionConfig{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		Direction:       req.Direction,
		Type:            req.Mode,
		DurationSeconds: s.opts.DurationSeconds,
		Scoring:         s.opts.Scoring,
		Normalizer:      s.norm,
		Now:             s.opts.Now,
	}

	var words, pool []domain.Word
	switch req.Mode {
	case domain.ResultNormal:
		userWords, err := s.vocab.UserWords(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("load user words: %w", err)
		}
		words, pool = userWords, userWords
	case domain.ResultDaily:
		if s.daily == nil {
			return nil, fmt.Errorf("%w: daily quiz is not available", domain.ErrValidation)
		}
		done, err := s.daily.Completed(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, domain.ErrDailyAlreadyTaken
		}
		dq, err := s.daily.Today(ctx)
		if err != nil {
			return nil, err
		}
		// the user's own translations are accepted for daily prompts too
		userWords, err := s.vocab.UserWords(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("load user words: %w", err)
		}
		words = dq.Words
		pool = append(slices.Clone(dq.Words), userWords...)
		cfg.QuizDate = dq.Date
	default:
		return nil, fmt.Errorf("%w: unknown quiz mode %q", domain.ErrValidation, req.Mode)
	}

	questions, err := s.builder.BuildWithPool(words, pool, req.Direction)
	if err != nil {
		return nil, err
	}
	questions = s.builder.Limit(questions, req.QuestionCount)

	session := NewSession(quiz.NewSession(cfg, questions))
	if prev, ok := s.sessions.Get(req.UserID); ok {
		prev.discard()
	}
	s.sessions.Put(req.UserID, session)
	s.logger.DebugContext(ctx, "quiz session started",
		slog.String("user_id", req.UserID),
		slog.String("session_id", cfg.ID),
		slog.String("direction", string(req.Direction)),
		slog.Int("questions", len(questions)),
	)
	return session, nil
}

// Session returns the user's active session.
func (s *QuizService) Session(_ context.Context, userID string) (*Session, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SubmitAnswer evaluates text against the current question of the user's session.
func (s *QuizService) SubmitAnswer(ctx context.Context, userID, text string) (quiz.SubmitOutcome, quiz.SessionView, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return quiz.SubmitOutcome{}, quiz.SessionView{}, err
	}
	out := session.Submit(text)
	return out, session.View(), nil
}

// SetDraft stores the working input of the user's current question.
func (s *QuizService) SetDraft(ctx context.Context, userID, text string) error {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return err
	}
	session.SetDraft(text)
	return nil
}

// Navigate moves the cursor of the user's session.
func (s *QuizService) Navigate(ctx context.Context, userID string, nav quiz.Navigation) (quiz.SessionView, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return quiz.SessionView{}, err
	}
	session.Navigate(nav)
	return session.View(), nil
}

// Finish ends the user's active session and persists its result.
func (s *QuizService) Finish(ctx context.Context, userID string, reason quiz.FinishReason) (Recorded, error) {
	session, err := s.Session(ctx, userID)
	if err != nil {
		return Recorded{}, err
	}
	return s.FinishSession(ctx, session, reason)
}

// FinishSession freezes session and persists its result exactly once. Later
// calls, from the timer or the user, return the first recorded outcome. When the
// save fails the session stays frozen and registered so the caller can retry.
// A session replaced by a newer one is never saved and yields ErrSessionNotFound.
func (s *QuizService) FinishSession(ctx context.Context, session *Session, reason quiz.FinishReason) (Recorded, error) {
	session.Finish(reason)

	session.persistMu.Lock()
	defer session.persistMu.Unlock()
	if session.recorded != nil {
		return *session.recorded, nil
	}
	if session.discarded || !s.isCurrent(session) {
		session.discarded = true
		return Recorded{}, domain.ErrSessionNotFound
	}

	res, _ := session.Result()
	rec, err := s.recorder.Record(ctx, session.UserID(), res)
	if err != nil {
		s.logger.ErrorContext(ctx, "quiz result not saved",
			slog.String("user_id", session.UserID()),
			slog.String("session_id", session.ID()),
			slog.Any("error", err),
		)
		return Recorded{}, err
	}
	session.recorded = &rec
	s.sessions.DeleteIfCurrent(session.UserID(), session.ID())
	return rec, nil
}

func (s *QuizService) isCurrent(session *Session) bool {
	cur, ok := s.sessions.Get(session.UserID())
	return ok && cur.ID() == session.ID()
}

// Abandon drops the user's session without recording a result.
func (s *QuizService) Abandon(ctx context.Context, userID string) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return
	}
	s.AbandonSession(ctx, session)
}

// AbandonSession drops session unless its result was already saved or a newer
// session replaced it.
func (s *QuizService) AbandonSession(ctx context.Context, session *Session) {
	if _, saved := session.Recorded(); saved {
		return
	}
	session.Finish(quiz.ReasonExplicit)
	s.sessions.DeleteIfCurrent(session.UserID(), session.ID())
	s.logger.DebugContext(ctx, "quiz session abandoned",
		slog.String("user_id", session.UserID()),
		slog.String("session_id", session.ID()),
	)
}

// Result returns a persisted result by id.
func (s *QuizService) Result(ctx context.Context, id string) (domain.Result, error) {
	return s.results.GetResult(ctx, id)
}

// History lists the user's results, newest first.
func (s *QuizService) History(ctx context.Context, userID string) ([]domain.Result, error) {
	results, err := s.results.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(results, func(a, b domain.Result) int {
		return b.CompletedAt.Compare(a.CompletedAt)
	})
	return results, nil
}
