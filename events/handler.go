package events

import (
	"net/http"
	"time"
)

// KeepAlive is how often an idle stream gets a comment line so proxies do
// not close it.
const KeepAlive = 25 * time.Second

// Handler streams the broadcaster's events to one client until the client
// goes away or the broadcaster drops it.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		// Streams outlive the server's write timeout.
		_ = rc.SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		id, ch := b.Subscribe()
		defer b.Unsubscribe(id)

		hello := Event{ID: id, Name: "ready", Data: id}
		if _, err := hello.WriteTo(w); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			return
		}

		ticker := time.NewTicker(KeepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				if _, err := e.WriteTo(w); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
