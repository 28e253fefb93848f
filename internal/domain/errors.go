package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientVocabulary is returned when there are no words to build a quiz from.
	ErrInsufficientVocabulary = errors.New("insufficient vocabulary")
	// ErrSessionNotFound is returned when the user has no active quiz session.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrResultNotFound indicates an unknown result id.
	ErrResultNotFound = errors.New("quiz result not found")
	// ErrWordNotFound indicates an unknown word id.
	ErrWordNotFound = errors.New("word not found")
	// ErrDailyAlreadyTaken is returned when the user already finished today's daily quiz.
	ErrDailyAlreadyTaken = errors.New("daily quiz already completed")
	// ErrValidation marks bad caller input.
	ErrValidation = errors.New("validation error")
	// ErrPersistence marks a failed write to a backing store.
	ErrPersistence = errors.New("persistence failure")
)

// StoreError wraps a failed store call with the operation that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrPersistence and the underlying cause to errors.Is.
func (e *StoreError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
