// Package events fans session changes out to console clients over
// Server-Sent Events.
package events

import (
	"fmt"
	"io"
	"strings"
)

// Event is one Server-Sent Event. Name becomes the `event:` field and Data
// the `data:` lines.
type Event struct {
	ID   string
	Name string
	Data string
}

// NewEvent creates an Event with the given name and payload.
func NewEvent(name, data string) Event {
	return Event{Name: name, Data: data}
}

// WriteTo writes e in the text/event-stream format.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if e.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", e.ID)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, "event: %s\n", e.Name)
	}
	for _, line := range strings.Split(e.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
