package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quizhub/internal/app"
	"quizhub/internal/domain"
)

// elapsedInterval is how often the displayed elapsed time is refreshed. The
// tick is purely observational; scoring never depends on it.
const elapsedInterval = time.Second

// WSHandler drives a quiz attempt over a websocket: one connection per
// attempt, typed messages in both directions, elapsed-time ticks until the
// attempt is submitted or the view is torn down.
type WSHandler struct {
	sessions *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(sessions *app.SessionService) *WSHandler {
	return &WSHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionIndex int `json:"optionIndex"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type elapsedPayload struct {
	Seconds int `json:"seconds"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request, starts an attempt for the requested quiz and
// runs the answer/navigate/submit loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	view, err := h.sessions.Start(r.Context(), quizID, userID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	attemptID := view.AttemptID

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The elapsed ticker stops once the attempt is gone (submitted) or the
	// connection is torn down.
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(elapsedInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				elapsed, err := h.sessions.Elapsed(attemptID)
				if err != nil {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "elapsed", Payload: elapsedPayload{Seconds: int(elapsed.Seconds())}}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "started", Payload: view}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			view, err := h.sessions.SelectAnswer(attemptID, payload.OptionIndex)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: view}
		case "next":
			view, err := h.sessions.Next(attemptID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: view}
		case "previous":
			view, err := h.sessions.Previous(attemptID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: view}
		case "submit":
			result, quiz, err := h.sessions.Submit(r.Context(), attemptID)
			if err != nil {
				if errors.Is(err, domain.ErrCurrentUnanswered) {
					send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "answer the current question before submitting"}}
				} else {
					send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				}
				continue
			}
			send <- outboundMessage[any]{Type: "result", Payload: app.Summarize(result, quiz)}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}
