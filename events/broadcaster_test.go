package events

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/labconsole/logger"
)

func TestEvent_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	e := Event{ID: "7", Name: "signed_in", Data: "line one\nline two"}
	if _, err := e.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	want := "id: 7\nevent: signed_in\ndata: line one\ndata: line two\n\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestBroadcaster_PublishReachesEveryClient(t *testing.T) {
	b := NewBroadcaster(logger.Discard())
	_, a := b.Subscribe()
	_, c := b.Subscribe()

	if n := b.Publish(NewEvent("evicted", "{}")); n != 2 {
		t.Fatalf("delivered = %d, want 2", n)
	}
	for _, ch := range []<-chan Event{a, c} {
		if e := <-ch; e.Name != "evicted" {
			t.Errorf("event = %+v", e)
		}
	}
}

func TestBroadcaster_LaggingClientDropsEvents(t *testing.T) {
	b := NewBroadcaster(logger.Discard())
	b.Subscribe()
	for i := 0; i < clientBuffer; i++ {
		b.Publish(NewEvent("tick", ""))
	}
	if n := b.Publish(NewEvent("tick", "")); n != 0 {
		t.Errorf("delivered to full client = %d, want 0", n)
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(logger.Discard())
	id, ch := b.Subscribe()
	b.Unsubscribe(id)
	b.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
	if len(b.Clients()) != 0 {
		t.Errorf("clients = %v", b.Clients())
	}
}

func TestHandler_StreamsEvents(t *testing.T) {
	b := NewBroadcaster(logger.Discard())
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	readEvent := func() map[string]string {
		fields := map[string]string{}
		for sc.Scan() {
			line := sc.Text()
			if line == "" {
				return fields
			}
			k, v, _ := strings.Cut(line, ": ")
			fields[k] = v
		}
		t.Fatalf("stream ended: %v", sc.Err())
		return nil
	}

	if e := readEvent(); e["event"] != "ready" {
		t.Fatalf("first event = %v", e)
	}
	b.Publish(NewEvent("signed_out", `{"kind":"signed_out"}`))
	e := readEvent()
	if e["event"] != "signed_out" || e["data"] != `{"kind":"signed_out"}` {
		t.Errorf("event = %v", e)
	}
}
