package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/HugoSbl/clipster/internal/clipboard"
	"github.com/HugoSbl/clipster/internal/logger"
)

// broker fans monitor events out to any number of SSE subscribers. A slow
// subscriber drops events rather than stalling the capture loop.
type broker struct {
	log logger.Logger

	mu     sync.Mutex
	subs   map[chan clipboard.Event]struct{}
	closed bool
}

func newBroker(log logger.Logger) *broker {
	return &broker{
		log:  log,
		subs: make(map[chan clipboard.Event]struct{}),
	}
}

func (b *broker) run(events <-chan clipboard.Event) {
	for ev := range events {
		b.mu.Lock()
		for ch := range b.subs {
			select {
			case ch <- ev:
			default:
			}
		}
		b.mu.Unlock()
	}
}

func (b *broker) subscribe() chan clipboard.Event {
	ch := make(chan clipboard.Event, 16)
	b.mu.Lock()
	if !b.closed {
		b.subs[ch] = struct{}{}
	}
	b.mu.Unlock()
	return ch
}

func (b *broker) unsubscribe(ch chan clipboard.Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

func (b *broker) close() {
	b.mu.Lock()
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
	}
	b.mu.Unlock()
}

func (b *broker) serveSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch := b.subscribe()
	defer b.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				b.log.Warn("failed to encode event", logger.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: clipboard-changed\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
