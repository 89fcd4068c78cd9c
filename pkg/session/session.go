// Package session tracks one focus session at a time: elapsed and
// focused seconds, the distraction history, break countdowns, and the
// final focus score.
package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
)

// Status is the accumulator's lifecycle state.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
)

const (
	// DefaultBreakSeconds is the pause countdown length.
	DefaultBreakSeconds = 300

	// logDebounce suppresses a repeat log of the same type.
	logDebounce = 3000 * time.Millisecond

	// distractedClear re-enables focused accrual after the last log.
	distractedClear = 5000 * time.Millisecond

	// maxPenalty caps the distraction-count deduction on the score.
	maxPenalty = 30
)

var (
	ErrNoActiveSession = errors.New("session: no active session")
	ErrAlreadyActive   = errors.New("session: a session is already running")
)

// Snapshot is the externally visible session state.
type Snapshot struct {
	ID             string              `json:"id"`
	Goal           string              `json:"goal"`
	Status         Status              `json:"status"`
	StartedAt      time.Time           `json:"started_at"`
	EndedAt        time.Time           `json:"ended_at,omitempty"`
	ElapsedSeconds int                 `json:"elapsed_seconds"`
	FocusedSeconds int                 `json:"focused_seconds"`
	BreakRemaining int                 `json:"break_remaining,omitempty"`
	Distracted     bool                `json:"distracted"`
	FocusScore     int                 `json:"focus_score"`
	Distractions   []distraction.Event `json:"distractions"`
}

// Accumulator is the session state machine. All methods are safe for
// concurrent use; the 1-second clock calls Tick while HTTP handlers
// call the transitions.
type Accumulator struct {
	mu sync.Mutex

	status    Status
	id        string
	goal      string
	startedAt time.Time

	elapsed int // seconds, accrues only while active
	focused int // seconds, accrues while active and not distracted

	events     []distraction.Event
	distracted bool
	lastLogAt  time.Time

	breakRemaining int

	store  Store
	logger *slog.Logger

	now func() time.Time
}

// New creates an idle accumulator backed by the given store.
func New(store Store, logger *slog.Logger) *Accumulator {
	if store == nil {
		store = NopStore{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Accumulator{
		status: StatusIdle,
		store:  store,
		logger: logger.With("component", "session"),
		now:    time.Now,
	}
}

// Start begins a new session and returns its ID.
func (a *Accumulator) Start(ctx context.Context, goal string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != StatusIdle {
		return "", ErrAlreadyActive
	}

	a.id = uuid.New().String()
	a.goal = goal
	a.startedAt = a.now()
	a.elapsed = 0
	a.focused = 0
	a.events = nil
	a.distracted = false
	a.lastLogAt = time.Time{}
	a.breakRemaining = 0
	a.status = StatusActive

	snap := a.snapshotLocked()
	if err := a.store.CreateSession(ctx, &snap); err != nil {
		a.logger.Error("failed to persist session start", "session_id", a.id, "error", err)
	}

	a.logger.Info("session started", "session_id", a.id, "goal", goal)
	return a.id, nil
}

// Tick advances the session clock by one second. While active it
// accrues elapsed time, and focused time unless distracted; while
// paused it counts the break down and auto-resumes at zero.
func (a *Accumulator) Tick(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()

	switch a.status {
	case StatusActive:
		if a.distracted && now.Sub(a.lastLogAt) >= distractedClear {
			a.distracted = false
			a.logger.Debug("distraction cleared", "session_id", a.id)
		}
		a.elapsed++
		if !a.distracted {
			a.focused++
		}

	case StatusPaused:
		if a.breakRemaining > 0 {
			a.breakRemaining--
		}
		if a.breakRemaining == 0 {
			a.status = StatusActive
			a.logger.Info("break finished, session resumed", "session_id", a.id)
		}
	}
}

// LogDistraction records an event and reports whether a new occurrence
// was recorded. A repeat of the same type within the debounce window
// refreshes the distracted flag without a new record.
func (a *Accumulator) LogDistraction(ctx context.Context, e distraction.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != StatusActive {
		a.logger.Warn("distraction dropped, no active session", "type", e.Type)
		return false
	}

	now := a.now()
	defer func() {
		a.distracted = true
		a.lastLogAt = now
	}()

	if n := len(a.events); n > 0 {
		last := a.events[n-1]
		if last.Type == e.Type && now.Sub(last.Timestamp) < logDebounce {
			return false
		}
	}

	a.events = append(a.events, e)
	if err := a.store.LogEvent(ctx, a.id, e); err != nil {
		a.logger.Error("failed to persist distraction", "session_id", a.id, "type", e.Type, "error", err)
	}
	a.logger.Info("distraction logged", "session_id", a.id, "type", e.Type, "count", len(a.events))
	return true
}

// Pause starts a break. A zero or negative breakSeconds uses the default.
func (a *Accumulator) Pause(breakSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != StatusActive {
		return ErrNoActiveSession
	}
	if breakSeconds <= 0 {
		breakSeconds = DefaultBreakSeconds
	}

	a.status = StatusPaused
	a.breakRemaining = breakSeconds
	a.logger.Info("session paused", "session_id", a.id, "break_seconds", breakSeconds)
	return nil
}

// Resume cancels the remaining break immediately.
func (a *Accumulator) Resume() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != StatusPaused {
		return ErrNoActiveSession
	}

	a.status = StatusActive
	a.breakRemaining = 0
	a.logger.Info("session resumed", "session_id", a.id)
	return nil
}

// End finalizes the session, persists the snapshot, and returns it.
func (a *Accumulator) End(ctx context.Context) (*Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == StatusIdle {
		return nil, ErrNoActiveSession
	}

	snap := a.snapshotLocked()
	snap.Status = StatusIdle
	snap.EndedAt = a.now()
	snap.FocusScore = Score(a.elapsed/60, a.focused/60, len(a.events))

	if err := a.store.SaveSession(ctx, &snap); err != nil {
		a.logger.Error("failed to persist session end", "session_id", a.id, "error", err)
	}

	a.logger.Info("session ended",
		"session_id", a.id,
		"elapsed_s", a.elapsed,
		"focused_s", a.focused,
		"distractions", len(a.events),
		"focus_score", snap.FocusScore,
	)

	a.status = StatusIdle
	a.id = ""
	a.goal = ""
	return &snap, nil
}

// Snapshot returns the current state with a live focus score.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Status returns the current lifecycle state.
func (a *Accumulator) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// DistractionCount returns occurrences of one type this session.
func (a *Accumulator) DistractionCount(t distraction.Type) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, e := range a.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (a *Accumulator) snapshotLocked() Snapshot {
	events := make([]distraction.Event, len(a.events))
	copy(events, a.events)

	return Snapshot{
		ID:             a.id,
		Goal:           a.goal,
		Status:         a.status,
		StartedAt:      a.startedAt,
		ElapsedSeconds: a.elapsed,
		FocusedSeconds: a.focused,
		BreakRemaining: a.breakRemaining,
		Distracted:     a.distracted,
		FocusScore:     LiveScore(a.elapsed, a.focused, len(a.events)),
		Distractions:   events,
	}
}

// Score computes the final focus score from whole minutes. A session
// shorter than one minute always scores 100.
func Score(totalMinutes, focusedMinutes, distractions int) int {
	if totalMinutes == 0 {
		return 100
	}

	timeScore := math.Round(100 * float64(focusedMinutes) / float64(totalMinutes))
	penalty := 5 * distractions
	if penalty > maxPenalty {
		penalty = maxPenalty
	}

	score := int(timeScore) - penalty
	if score < 0 {
		score = 0
	}
	return score
}

// LiveScore computes the mid-session score from raw seconds, using at
// least one minute as the denominator.
func LiveScore(elapsedSeconds, focusedSeconds, distractions int) int {
	total := elapsedSeconds / 60
	if total < 1 {
		total = 1
	}

	timeScore := math.Round(100 * float64(focusedSeconds/60) / float64(total))
	penalty := 5 * distractions
	if penalty > maxPenalty {
		penalty = maxPenalty
	}

	score := int(timeScore) - penalty
	if score < 0 {
		score = 0
	}
	return score
}
