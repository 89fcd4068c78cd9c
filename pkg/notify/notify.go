// Package notify keeps the set of currently visible distraction alerts,
// dropping repeats of a type that is already on screen.
package notify

import (
	"sync"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
)

// DefaultTTL is how long one alert stays visible.
const DefaultTTL = 6 * time.Second

// Alert is one visible notification.
type Alert struct {
	Event     distraction.Event `json:"event"`
	Message   string            `json:"message"`
	ShownAt   time.Time         `json:"shown_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Deduplicator admits an alert only when no alert of the same type is
// still visible. Each admitted alert expires on its own clock.
type Deduplicator struct {
	mu      sync.Mutex
	ttl     time.Duration
	visible []Alert

	now func() time.Time
}

// New creates a deduplicator with the default visibility window.
func New() *Deduplicator {
	return NewWithTTL(DefaultTTL)
}

// NewWithTTL creates a deduplicator with an explicit visibility window.
func NewWithTTL(ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		ttl: ttl,
		now: time.Now,
	}
}

// Offer shows the event unless its type is already visible. It returns
// the admitted alert and whether it was admitted.
func (d *Deduplicator) Offer(e distraction.Event, message string) (Alert, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.expireLocked(now)

	for _, a := range d.visible {
		if a.Event.Type == e.Type {
			return Alert{}, false
		}
	}

	alert := Alert{
		Event:     e,
		Message:   message,
		ShownAt:   now,
		ExpiresAt: now.Add(d.ttl),
	}
	d.visible = append(d.visible, alert)
	return alert, true
}

// Visible returns the alerts still on screen, oldest first.
func (d *Deduplicator) Visible() []Alert {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.expireLocked(d.now())
	out := make([]Alert, len(d.visible))
	copy(out, d.visible)
	return out
}

// Clear drops all visible alerts immediately.
func (d *Deduplicator) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = nil
}

// expireLocked removes alerts whose window has passed.
func (d *Deduplicator) expireLocked(now time.Time) {
	kept := d.visible[:0]
	for _, a := range d.visible {
		if now.Before(a.ExpiresAt) {
			kept = append(kept, a)
		}
	}
	d.visible = kept
}
