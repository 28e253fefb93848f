package quiz

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"vocab-quiz-service/internal/domain"
)

func shortSession(seconds int) *Session {
	return NewSession(SessionConfig{
		UserID:          "u1",
		Direction:       domain.DirectionEngTr,
		DurationSeconds: seconds,
	}, []domain.Question{question("A", "bear", "ayı")})
}

func TestCountdownFiresTimeUpOnce(t *testing.T) {
	s := shortSession(4)
	var ticks []int
	var halves, timeUps int
	c := NewCountdown(s, CountdownHooks{
		OnTick:     func(remaining int) { ticks = append(ticks, remaining) },
		OnHalfTime: func(int) { halves++ },
		OnTimeUp: func() {
			timeUps++
			s.Finish(ReasonTimeout)
		},
	})

	for i := 0; i < 3; i++ {
		if !c.Tick() {
			t.Fatalf("tick %d: countdown stopped early", i)
		}
	}
	if c.Tick() {
		t.Fatalf("expected countdown to stop on expiry")
	}
	for i := 0; i < 3; i++ {
		c.Tick()
	}

	if timeUps != 1 {
		t.Fatalf("expected one time-up, got %d", timeUps)
	}
	if halves != 1 {
		t.Fatalf("expected one half-time alert, got %d", halves)
	}
	if len(ticks) != 3 || ticks[0] != 3 || ticks[2] != 1 {
		t.Fatalf("unexpected ticks %v", ticks)
	}
	res, _ := s.Result()
	if res.TimeTakenSeconds != 4 {
		t.Fatalf("expected full budget taken, got %d", res.TimeTakenSeconds)
	}
}

func TestCountdownStopsAfterExplicitFinish(t *testing.T) {
	s := shortSession(2)
	fired := false
	c := NewCountdown(s, CountdownHooks{OnTimeUp: func() { fired = true }})

	s.Finish(ReasonExplicit)
	if c.Tick() {
		t.Fatalf("expected countdown to stop once the session finished")
	}
	c.Tick()
	if fired {
		t.Fatalf("time-up must not fire after an explicit finish")
	}
}

func TestCountdownRun(t *testing.T) {
	s := shortSession(3)
	var fired atomic.Int32
	done := make(chan struct{})
	c := NewCountdown(s, CountdownHooks{OnTimeUp: func() {
		fired.Add(1)
		close(done)
	}}).WithInterval(time.Millisecond)

	go c.Run(context.Background())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not expire")
	}
	if fired.Load() != 1 {
		t.Fatalf("expected a single time-up, got %d", fired.Load())
	}
}
