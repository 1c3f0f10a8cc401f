package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	"vineyard-quiz/internal/app"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type welcomePayload struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// ServeWS upgrades the request and streams the caller's view of one session.
// Inbound messages drive the same operations as the REST endpoints. Closing
// the socket cancels any operation still in flight.
func (a *API) ServeWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code, err := app.NormalizeCode(ps.ByName("code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if _, err := a.games.Get(r.Context(), code); err != nil {
		writeServiceError(w, err)
		return
	}

	id, header := identityForUpgrade(r)
	conn, err := a.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	views := app.NewViewSynchronizer(a.store, id)
	defer views.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	viewsDone := make(chan struct{})
	var inflight sync.WaitGroup

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-closeSignals:
		}
	}
	fail := func(err error) {
		_, message := classifyError(err)
		emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}})
	}

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	emit(outboundMessage[any]{Type: "welcome", Payload: welcomePayload{ID: id, Code: code}})

	go func() {
		defer close(viewsDone)
		ch := views.Views()
		for {
			select {
			case view, ok := <-ch:
				if !ok {
					return
				}
				emit(outboundMessage[any]{Type: "view", Payload: view})
			case <-closeSignals:
				return
			}
		}
	}()

	if name := r.URL.Query().Get("name"); name != "" {
		if err := a.joinAs(ctx, code, id, name); err != nil {
			fail(err)
		}
	}
	if err := views.Follow(ctx, code); err != nil {
		fail(err)
	}
	a.logf("WS: %s connected to %s", id, code)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "join":
			var payload nameRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid join payload"}})
				continue
			}
			if err := a.joinAs(ctx, code, id, payload.UserName); err != nil {
				fail(err)
			}
		case "answer":
			var payload answerRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			out, err := a.games.SubmitAnswer(ctx, code, id, payload.Answer)
			if err != nil {
				fail(err)
				continue
			}
			emit(outboundMessage[any]{Type: "answerResult", Payload: answerPayloadFor(out, id)})
		case "advance":
			if _, err := a.games.AdvanceQuestion(ctx, code, id); err != nil {
				fail(err)
			}
		case "restart":
			if _, err := a.games.RestartSession(ctx, code, id, a.games.Supply().SampleTen()); err != nil {
				fail(err)
			}
		case "generate":
			var payload topicRequest
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Topic == "" {
				emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid generate payload"}})
				continue
			}
			// Generation is slow; keep reading while it runs.
			inflight.Add(1)
			go func(topic string) {
				defer inflight.Done()
				q, _, err := a.games.GenerateQuestion(ctx, code, id, topic)
				if ctx.Err() != nil {
					// the socket closed; nothing was appended
					return
				}
				if err != nil {
					fail(err)
					return
				}
				emit(outboundMessage[any]{Type: "generated", Payload: q})
			}(payload.Topic)
		default:
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	a.logf("WS: %s left %s", id, code)
	cancel()
	close(closeSignals)
	inflight.Wait()
	<-viewsDone
	close(send)
	<-writerDone
}

// joinAs adds the caller as a player; the change reaches the client as a view.
func (a *API) joinAs(ctx context.Context, code, id, name string) error {
	name, err := a.resolveName(ctx, id, name)
	if err != nil {
		return err
	}
	_, err = a.games.JoinSession(ctx, code, id, name)
	return err
}
