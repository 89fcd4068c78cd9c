package session

import (
	"context"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
)

// Store persists sessions and their distraction events.
type Store interface {
	// CreateSession records a newly started session.
	CreateSession(ctx context.Context, snap *Snapshot) error

	// SaveSession writes the final snapshot of an ended session.
	SaveSession(ctx context.Context, snap *Snapshot) error

	// LogEvent appends one distraction event to a session's history.
	LogEvent(ctx context.Context, sessionID string, e distraction.Event) error
}

// NopStore discards everything. Used when persistence is disabled.
type NopStore struct{}

func (NopStore) CreateSession(context.Context, *Snapshot) error { return nil }

func (NopStore) SaveSession(context.Context, *Snapshot) error { return nil }

func (NopStore) LogEvent(context.Context, string, distraction.Event) error { return nil }

var _ Store = NopStore{}
