package domain

import "time"

// Direction selects which side of a word pair is the prompt and which is the answer.
type Direction string

const (
	// DirectionEngTr prompts with the English side and expects the Turkish side.
	DirectionEngTr Direction = "eng-tr"
	// DirectionTrEng prompts with the Turkish side and expects the English side.
	DirectionTrEng Direction = "tr-eng"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == DirectionEngTr || d == DirectionTrEng
}

// Prompt returns the question-side text of w for this direction.
func (d Direction) Prompt(w Word) string {
	if d == DirectionEngTr {
		return w.Eng
	}
	return w.Tr
}

// Answer returns the answer-side text of w for this direction.
func (d Direction) Answer(w Word) string {
	if d == DirectionEngTr {
		return w.Tr
	}
	return w.Eng
}

// Word is a single entry of the shared vocabulary pool.
type Word struct {
	ID            string `json:"id"`
	Eng           string `json:"eng"`
	Tr            string `json:"tr"`
	EngCategoryID string `json:"eng_categoryId"`
	TrCategoryID  string `json:"tr_categoryId"`
}

// NewWord carries the fields needed to add (or find) a word in the pool.
type NewWord struct {
	Eng           string
	Tr            string
	EngCategoryID string
	TrCategoryID  string
}

// Category tags words by their first letter.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QuestionStatus is the per-question state inside a quiz session.
type QuestionStatus string

const (
	StatusEmpty   QuestionStatus = "empty"
	StatusCorrect QuestionStatus = "correct"
	StatusWrong   QuestionStatus = "wrong"
	StatusLocked  QuestionStatus = "locked"
)

// Answered reports whether the status is terminal after an evaluation.
func (s QuestionStatus) Answered() bool {
	return s == StatusCorrect || s == StatusWrong
}

// Question is one letter of a quiz session.
type Question struct {
	ID            string         `json:"id"`
	Letter        string         `json:"letter"`
	Text          string         `json:"questionText"`
	CorrectAnswer string         `json:"correctAnswer"`
	ValidAnswers  []string       `json:"validAnswers"`
	Status        QuestionStatus `json:"status"`
	UserAnswer    string         `json:"userAnswer,omitempty"`
}

// Locked reports whether q is a placeholder without answerable content.
func (q Question) Locked() bool {
	return q.Status == StatusLocked
}

// ResultType distinguishes the regular quiz from the daily one.
type ResultType string

const (
	ResultNormal ResultType = "normal"
	ResultDaily  ResultType = "daily"
)

// AnswerRecord is the frozen copy of a question kept inside a Result.
type AnswerRecord struct {
	ID            string         `json:"id"`
	Letter        string         `json:"letter"`
	Question      string         `json:"question"`
	CorrectAnswer string         `json:"correctAnswer"`
	ValidAnswers  []string       `json:"validAnswers"`
	UserAnswer    string         `json:"userAnswer"`
	Status        QuestionStatus `json:"status"`
}

// Result is the immutable record of a finished quiz session.
type Result struct {
	ID               string         `json:"id,omitempty"`
	UserID           string         `json:"userId,omitempty"`
	Direction        Direction      `json:"direction"`
	FinalScore       int            `json:"finalScore"`
	CorrectCount     int            `json:"correctCount"`
	WrongCount       int            `json:"wrongCount"`
	EmptyCount       int            `json:"emptyCount"`
	Answers          []AnswerRecord `json:"answers"`
	TotalQuestions   int            `json:"totalQuestions"`
	TimeTakenSeconds int            `json:"timeTakenSeconds"`
	CompletedAt      time.Time      `json:"completedAt"`
	Type             ResultType     `json:"type"`
	QuizDate         string         `json:"quizDate,omitempty"`
}

// DailyQuiz is the shared word sample for one calendar day.
type DailyQuiz struct {
	Date      string    `json:"date"`
	Words     []Word    `json:"words"`
	CreatedAt time.Time `json:"createdAt"`
}
