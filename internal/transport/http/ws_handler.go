package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/quiz"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *slog.Logger
	interval time.Duration
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service:  service,
		logger:   logger,
		interval: time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WithTickInterval shortens the countdown period; each tick still counts as one second.
func (h *WSHandler) WithTickInterval(d time.Duration) *WSHandler {
	h.interval = d
	return h
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type textPayload struct {
	Text string `json:"text"`
}

type navigatePayload struct {
	To     quiz.NavigationKind `json:"to"`
	Letter string              `json:"letter"`
}

type clockPayload struct {
	Remaining int `json:"remaining"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and plays one quiz session per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	req := app.StartRequest{
		UserID:    userID,
		Direction: domain.Direction(q.Get("direction")),
		Mode:      domain.ResultType(q.Get("mode")),
	}
	if req.Direction == "" {
		req.Direction = domain.DirectionEngTr
	}
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "count must be a non-negative integer", http.StatusBadRequest)
			return
		}
		req.QuestionCount = n
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	// persistence must not be cut short by the socket closing
	ctx := context.WithoutCancel(r.Context())

	session, err := h.service.StartSession(ctx, req)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	countdownDone := make(chan struct{})

	emit := func(typ string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
		case <-closeSignals:
		}
	}
	finish := func(reason quiz.FinishReason) {
		rec, err := h.service.FinishSession(ctx, session, reason)
		if err != nil {
			emit("error", errorPayload{Message: err.Error()})
			return
		}
		emit("finished", rec)
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", slog.String("user_id", userID), slog.Any("error", err))
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: session.View()}

	countdown := quiz.NewCountdown(session.Session, quiz.CountdownHooks{
		OnTick:     func(remaining int) { emit("tick", clockPayload{Remaining: remaining}) },
		OnHalfTime: func(remaining int) { emit("halftime", clockPayload{Remaining: remaining}) },
		OnTimeUp:   func() { finish(quiz.ReasonTimeout) },
	}).WithInterval(h.interval)
	countdownCtx, stopCountdown := context.WithCancel(ctx)
	go func() {
		defer close(countdownDone)
		countdown.Run(countdownCtx)
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload textPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			if strings.TrimSpace(payload.Text) == "" {
				emit("error", errorPayload{Message: "answer must not be empty"})
				continue
			}
			session.Submit(payload.Text)
			emit("state", session.View())
		case "draft":
			var payload textPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", errorPayload{Message: "invalid draft payload"})
				continue
			}
			session.SetDraft(payload.Text)
		case "navigate":
			var payload navigatePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit("error", errorPayload{Message: "invalid navigate payload"})
				continue
			}
			session.Navigate(quiz.Navigation{Kind: payload.To, Letter: payload.Letter})
			emit("state", session.View())
		case "finish":
			countdown.Stop()
			finish(quiz.ReasonExplicit)
		default:
			emit("error", errorPayload{Message: "unsupported message type"})
		}
	}

	close(closeSignals)
	stopCountdown()
	<-countdownDone
	close(send)
	<-writerDone

	if _, saved := session.Recorded(); !saved {
		if session.Finished() {
			h.logger.Warn("ws closed before result was saved",
				slog.String("user_id", userID),
				slog.String("session_id", session.ID()),
			)
		}
		h.service.AbandonSession(ctx, session)
	}
}
