package quiz

import "vocab-quiz-service/internal/domain"

// QuestionView is what a player may see of a question. Valid answers stay hidden;
// the expected answer is revealed once the question is answered.
type QuestionView struct {
	ID            string                `json:"id"`
	Letter        string                `json:"letter"`
	Text          string                `json:"questionText"`
	Status        domain.QuestionStatus `json:"status"`
	UserAnswer    string                `json:"userAnswer,omitempty"`
	CorrectAnswer string                `json:"correctAnswer,omitempty"`
}

// SessionView is a read model of a session for the UI layer.
type SessionView struct {
	ID          string            `json:"id"`
	Direction   domain.Direction  `json:"direction"`
	Type        domain.ResultType `json:"type"`
	Questions   []QuestionView    `json:"questions"`
	Cursor      int               `json:"cursor"`
	Letter      string            `json:"letter"`
	Draft       string            `json:"draft"`
	Remaining   int               `json:"remainingSeconds"`
	Duration    int               `json:"durationSeconds"`
	AllAnswered bool              `json:"allAnswered"`
	Finished    bool              `json:"finished"`
}

// View snapshots the session.
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]QuestionView, 0, len(s.questions))
	for _, q := range s.questions {
		v := QuestionView{
			ID:         q.ID,
			Letter:     q.Letter,
			Text:       q.Text,
			Status:     q.Status,
			UserAnswer: q.UserAnswer,
		}
		if q.Status.Answered() || (s.finished && !q.Locked()) {
			v.CorrectAnswer = q.CorrectAnswer
		}
		views = append(views, v)
	}

	view := SessionView{
		ID:          s.cfg.ID,
		Direction:   s.cfg.Direction,
		Type:        s.cfg.Type,
		Questions:   views,
		Cursor:      s.cursor,
		Draft:       s.draft,
		Remaining:   s.remaining,
		Duration:    s.cfg.DurationSeconds,
		AllAnswered: s.allAnsweredLocked(),
		Finished:    s.finished,
	}
	if s.cursor < len(s.questions) {
		view.Letter = s.questions[s.cursor].Letter
	}
	return view
}
