// marketbot/routes/progress.go
package routes

import (
	"encoding/json"
	"sync"
)

// ProgressHub fans engine progress updates out to connected websocket
// clients. It satisfies bot.Reporter, so the engine never knows whether
// anyone is watching.
type ProgressHub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: map[chan []byte]struct{}{}}
}

func (h *ProgressHub) Report(step string, detail map[string]interface{}, countdownSeconds int) {
	payload, err := json.Marshal(map[string]interface{}{
		"step":      step,
		"detail":    detail,
		"countdown": countdownSeconds,
	})
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// Slow client; drop the update rather than stall the run.
		}
	}
}

func (h *ProgressHub) subscribe() chan []byte {
	ch := make(chan []byte, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *ProgressHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}
