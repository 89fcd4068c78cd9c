package hub

import (
	"testing"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/smooth"
)

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for %s", what)
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	h := New("test", nil)
	go h.Run()

	fast := &Client{hub: h, send: make(chan []byte, 8)}
	slow := &Client{hub: h, send: make(chan []byte)} // never read
	h.register <- fast
	h.register <- slow
	waitFor(t, "both clients to register", func() bool { return h.ClientCount() == 2 })

	if err := h.Publish(StatusEvent(smooth.State{}, time.Now())); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// ClientCount races the broadcast loop here; run with -race
	waitFor(t, "the slow client to drop", func() bool { return h.ClientCount() == 1 })

	select {
	case data := <-fast.send:
		if len(data) == 0 {
			t.Error("Fast client received an empty frame")
		}
	default:
		t.Error("Fast client missed the broadcast")
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New("test", nil)
	go h.Run()

	client := &Client{hub: h, send: make(chan []byte, 1)}
	h.register <- client
	waitFor(t, "the client to register", func() bool { return h.ClientCount() == 1 })

	h.unregister <- client
	waitFor(t, "the client to unregister", func() bool { return h.ClientCount() == 0 })

	if _, ok := <-client.send; ok {
		t.Error("Expected the send channel closed")
	}
}
