package app

import (
	"context"
	"log/slog"

	"vocab-quiz-service/internal/domain"
)

// Recorded is the outcome of persisting a result.
type Recorded struct {
	ID               string        `json:"id"`
	Result           domain.Result `json:"result"`
	AggregateUpdated bool          `json:"aggregateUpdated"`
}

// Recorder hands finished results to the result store.
type Recorder struct {
	results ResultStore
	logger  *slog.Logger
}

func NewRecorder(results ResultStore, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = discardLogger()
	}
	return &Recorder{results: results, logger: logger}
}

// Record saves res for userID and then adds its score to the user's total.
// A failed save is returned as a *domain.StoreError; a failed score update
// is only logged because the result is already durable.
func (r *Recorder) Record(ctx context.Context, userID string, res domain.Result) (Recorded, error) {
	res.UserID = userID
	id, err := r.results.SaveResult(ctx, userID, res)
	if err != nil {
		return Recorded{}, &domain.StoreError{Op: "save result", Err: err}
	}
	res.ID = id
	out := Recorded{ID: id, Result: res}

	if err := r.results.UpdateAggregateScore(ctx, userID, res.FinalScore); err != nil {
		r.logger.WarnContext(ctx, "aggregate score update failed",
			slog.String("user_id", userID),
			slog.String("result_id", id),
			slog.Int("delta", res.FinalScore),
			slog.Any("error", err),
		)
		return out, nil
	}
	out.AggregateUpdated = true
	return out, nil
}
