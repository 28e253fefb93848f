package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
)

// RESTHandler serves vocabulary management, results and daily quiz status.
type RESTHandler struct {
	quiz   *app.QuizService
	vocab  *app.VocabularyService
	daily  *app.DailyQuizService
	logger *slog.Logger
}

func NewRESTHandler(quiz *app.QuizService, vocab *app.VocabularyService, daily *app.DailyQuizService, logger *slog.Logger) *RESTHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RESTHandler{quiz: quiz, vocab: vocab, daily: daily, logger: logger}
}

// Register mounts the REST routes on mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /words", h.listWords)
	mux.HandleFunc("GET /categories", h.listCategories)
	mux.HandleFunc("GET /users/{userId}/words", h.listUserWords)
	mux.HandleFunc("POST /users/{userId}/words", h.addUserWord)
	mux.HandleFunc("DELETE /users/{userId}/words/{wordId}", h.removeUserWord)
	mux.HandleFunc("GET /users/{userId}/results", h.listResults)
	mux.HandleFunc("GET /results/{id}", h.getResult)
	mux.HandleFunc("GET /daily", h.getDaily)
	mux.HandleFunc("GET /users/{userId}/daily", h.getDailyStatus)
}

type addWordRequest struct {
	Eng string `json:"eng"`
	Tr  string `json:"tr"`
}

type addWordResponse struct {
	Word  domain.Word `json:"word"`
	Added bool        `json:"added"`
}

type dailyStatus struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func (h *RESTHandler) listWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.vocab.Pool(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(words))
}

func (h *RESTHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.vocab.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(categories))
}

func (h *RESTHandler) listUserWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.vocab.UserWords(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(words))
}

func (h *RESTHandler) addUserWord(w http.ResponseWriter, r *http.Request) {
	var req addWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid json body"})
		return
	}
	word, added, err := h.vocab.AddWord(r.Context(), r.PathValue("userId"), req.Eng, req.Tr)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, addWordResponse{Word: word, Added: added})
}

func (h *RESTHandler) removeUserWord(w http.ResponseWriter, r *http.Request) {
	if err := h.vocab.RemoveWord(r.Context(), r.PathValue("userId"), r.PathValue("wordId")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RESTHandler) listResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.quiz.History(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(results))
}

func (h *RESTHandler) getResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.quiz.Result(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *RESTHandler) getDaily(w http.ResponseWriter, r *http.Request) {
	q, err := h.daily.Today(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *RESTHandler) getDailyStatus(w http.ResponseWriter, r *http.Request) {
	done, err := h.daily.Completed(r.Context(), r.PathValue("userId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dailyStatus{Date: h.daily.Date(), Completed: done})
}

func (h *RESTHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrWordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientVocabulary),
		errors.Is(err, domain.ErrDailyAlreadyTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
