// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/quizcraft/arena/internal/arena"
	"github.com/quizcraft/arena/internal/middleware"
)

// EventFeed fans arena notifications out to connected WebSocket observers.
// Publishing never blocks the arena: a subscriber that falls behind has its
// oldest events dropped.
type EventFeed struct {
	mu   sync.Mutex
	subs map[chan arena.Event]bool
}

// NewEventFeed returns an empty feed.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		subs: make(map[chan arena.Event]bool),
	}
}

// Publish delivers the event to every subscriber, non-blockingly.
func (f *EventFeed) Publish(ev arena.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is saturated. Drop the oldest so the feed keeps
			// moving, then retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}

func (f *EventFeed) subscribe() chan arena.Event {
	ch := make(chan arena.Event, 32)
	f.mu.Lock()
	f.subs[ch] = true
	f.mu.Unlock()
	return ch
}

func (f *EventFeed) unsubscribe(ch chan arena.Event) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

// LobbyFeedHandler upgrades the request to a WebSocket and streams arena
// notifications to the client until it disconnects. The feed is read-only;
// anything the client sends is discarded.
func LobbyFeedHandler(logger *logrus.Logger, feed *EventFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"arena-feed"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "arena-feed" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the arena-feed subprotocol")
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		ctx := r.Context()
		ch := feed.subscribe()
		defer feed.unsubscribe(ch)

		// Discard inbound frames; their only effect is surfacing a close.
		go func() {
			for {
				if _, _, err := c.Read(ctx); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, ctx.Err())
				c.Close(websocket.StatusNormalClosure, "feed closed")
				return
			case ev := <-ch:
				writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := wsjson.Write(writeCtx, c, ev)
				cancel()
				if err != nil {
					middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
					return
				}
			}
		}
	}
}
