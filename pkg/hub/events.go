package hub

import (
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
	"github.com/Techy2419/Focus-Flow/pkg/notify"
	"github.com/Techy2419/Focus-Flow/pkg/session"
	"github.com/Techy2419/Focus-Flow/pkg/smooth"
)

// Event names carried on the feed.
const (
	EventStatus      = "status"
	EventDistraction = "distraction"
	EventAlert       = "alert"
	EventSession     = "session"
)

// Envelope is the wire format for one feed event.
type Envelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StatusEvent carries the smoothed detection state each tick.
func StatusEvent(st smooth.State, at time.Time) Envelope {
	return Envelope{Event: EventStatus, Timestamp: at, Payload: st}
}

// DistractionEvent carries one routed distraction.
func DistractionEvent(e distraction.Event) Envelope {
	return Envelope{Event: EventDistraction, Timestamp: e.Timestamp, Payload: e}
}

// AlertEvent carries an admitted intervention alert.
func AlertEvent(a notify.Alert) Envelope {
	return Envelope{Event: EventAlert, Timestamp: a.ShownAt, Payload: a}
}

// SessionEvent carries a session snapshot after a transition or clock tick.
func SessionEvent(snap session.Snapshot, at time.Time) Envelope {
	return Envelope{Event: EventSession, Timestamp: at, Payload: snap}
}
