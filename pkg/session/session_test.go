package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
)

// fakeClock drives the accumulator without sleeping.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// recordStore captures persistence calls.
type recordStore struct {
	mu       sync.Mutex
	created  []Snapshot
	saved    []Snapshot
	events   []distraction.Event
	eventIDs []string
}

func (s *recordStore) CreateSession(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *snap)
	return nil
}

func (s *recordStore) SaveSession(_ context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *snap)
	return nil
}

func (s *recordStore) LogEvent(_ context.Context, sessionID string, e distraction.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	s.eventIDs = append(s.eventIDs, sessionID)
	return nil
}

func newTestAccumulator(t *testing.T) (*Accumulator, *fakeClock, *recordStore) {
	t.Helper()
	clock := newFakeClock()
	store := &recordStore{}
	a := New(store, nil)
	a.now = clock.now
	return a, clock, store
}

// tick advances the clock one second and ticks the accumulator, the way
// the 1-second timer does.
func tick(a *Accumulator, clock *fakeClock, seconds int) {
	for i := 0; i < seconds; i++ {
		clock.advance(time.Second)
		a.Tick(context.Background())
	}
}

func event(clock *fakeClock, t distraction.Type) distraction.Event {
	return distraction.NewEvent(t, clock.now(), t.Label())
}

func TestStartTransitions(t *testing.T) {
	a, _, store := newTestAccumulator(t)

	if a.Status() != StatusIdle {
		t.Fatalf("Expected idle, got %s", a.Status())
	}

	id, err := a.Start(context.Background(), "write the report")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a session ID")
	}
	if a.Status() != StatusActive {
		t.Errorf("Expected active, got %s", a.Status())
	}
	if len(store.created) != 1 || store.created[0].Goal != "write the report" {
		t.Errorf("Session start not persisted: %+v", store.created)
	}

	if _, err := a.Start(context.Background(), "second"); err != ErrAlreadyActive {
		t.Errorf("Expected ErrAlreadyActive, got %v", err)
	}
}

func TestTickAccruesFocusedTime(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	tick(a, clock, 60)

	snap := a.Snapshot()
	if snap.ElapsedSeconds != 60 {
		t.Errorf("Expected 60s elapsed, got %d", snap.ElapsedSeconds)
	}
	if snap.FocusedSeconds != 60 {
		t.Errorf("Expected 60s focused, got %d", snap.FocusedSeconds)
	}
}

func TestTickIgnoredWhenIdle(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)

	tick(a, clock, 10)
	if snap := a.Snapshot(); snap.ElapsedSeconds != 0 {
		t.Errorf("Idle ticks accrued time: %d", snap.ElapsedSeconds)
	}
}

func TestDistractionStopsFocusedAccrual(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	tick(a, clock, 10)
	a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup))
	tick(a, clock, 3)

	snap := a.Snapshot()
	if snap.ElapsedSeconds != 13 {
		t.Errorf("Expected 13s elapsed, got %d", snap.ElapsedSeconds)
	}
	if snap.FocusedSeconds != 10 {
		t.Errorf("Expected 10s focused, got %d", snap.FocusedSeconds)
	}
	if !snap.Distracted {
		t.Error("Expected distracted flag set")
	}
}

func TestDistractionAutoClears(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	a.LogDistraction(context.Background(), event(clock, distraction.TypeLookingAway))

	// Well past the 5s clear window with no new logs
	tick(a, clock, 10)

	snap := a.Snapshot()
	if snap.Distracted {
		t.Error("Expected distracted flag cleared")
	}
	// Ticks 1-4 are distracted, tick 5 onward clears first then accrues
	if snap.FocusedSeconds != 6 {
		t.Errorf("Expected 6s focused, got %d", snap.FocusedSeconds)
	}
}

func TestLogDebounceSameType(t *testing.T) {
	a, clock, store := newTestAccumulator(t)
	a.Start(context.Background(), "")

	if !a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup)) {
		t.Fatal("First log should record an occurrence")
	}
	clock.advance(2 * time.Second)
	if a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup)) {
		t.Error("Debounced log reported a new occurrence")
	}

	snap := a.Snapshot()
	if len(snap.Distractions) != 1 {
		t.Fatalf("Expected 1 event after debounce, got %d", len(snap.Distractions))
	}
	if len(store.events) != 1 {
		t.Errorf("Expected 1 persisted event, got %d", len(store.events))
	}
	if !snap.Distracted {
		t.Error("Debounced log should still refresh the distracted flag")
	}

	// Past the debounce window the same type logs again
	clock.advance(4 * time.Second)
	if !a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup)) {
		t.Error("Log past the window should record an occurrence")
	}
	if got := len(a.Snapshot().Distractions); got != 2 {
		t.Errorf("Expected 2 events after window, got %d", got)
	}
}

func TestLogDifferentTypeNotDebounced(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup))
	clock.advance(time.Second)
	a.LogDistraction(context.Background(), event(clock, distraction.TypeLookingAway))

	if got := len(a.Snapshot().Distractions); got != 2 {
		t.Errorf("Expected 2 events, got %d", got)
	}
}

func TestLogIgnoredWhenNotActive(t *testing.T) {
	a, clock, store := newTestAccumulator(t)

	if a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup)) {
		t.Error("Idle accumulator recorded an event")
	}
	if len(store.events) != 0 {
		t.Error("Idle accumulator logged an event")
	}

	a.Start(context.Background(), "")
	a.Pause(60)
	if a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup)) {
		t.Error("Paused accumulator recorded an event")
	}
	if len(store.events) != 0 {
		t.Error("Paused accumulator logged an event")
	}
}

func TestPauseFreezesAccrual(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	tick(a, clock, 10)
	if err := a.Pause(30); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	tick(a, clock, 20)

	snap := a.Snapshot()
	if snap.ElapsedSeconds != 10 || snap.FocusedSeconds != 10 {
		t.Errorf("Paused time accrued: elapsed=%d focused=%d", snap.ElapsedSeconds, snap.FocusedSeconds)
	}
	if snap.BreakRemaining != 10 {
		t.Errorf("Expected 10s break remaining, got %d", snap.BreakRemaining)
	}
}

func TestBreakCountdownAutoResumes(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	a.Pause(5)
	tick(a, clock, 5)

	if a.Status() != StatusActive {
		t.Fatalf("Expected auto-resume, got %s", a.Status())
	}

	// Accrual resumes from where it left off
	tick(a, clock, 3)
	if snap := a.Snapshot(); snap.ElapsedSeconds != 3 {
		t.Errorf("Expected 3s elapsed after resume, got %d", snap.ElapsedSeconds)
	}
}

func TestResumeCancelsCountdown(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	a.Pause(0) // default 300s
	if snap := a.Snapshot(); snap.BreakRemaining != DefaultBreakSeconds {
		t.Errorf("Expected default break, got %d", snap.BreakRemaining)
	}

	if err := a.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if a.Status() != StatusActive {
		t.Errorf("Expected active, got %s", a.Status())
	}
	if snap := a.Snapshot(); snap.BreakRemaining != 0 {
		t.Errorf("Expected countdown cancelled, got %d", snap.BreakRemaining)
	}

	tick(a, clock, 2)
	if snap := a.Snapshot(); snap.ElapsedSeconds != 2 {
		t.Errorf("Expected accrual after resume, got %d", snap.ElapsedSeconds)
	}
}

func TestResumeRequiresPaused(t *testing.T) {
	a, _, _ := newTestAccumulator(t)
	if err := a.Resume(); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
	if err := a.Pause(10); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
}

func TestEndComputesScore(t *testing.T) {
	a, clock, store := newTestAccumulator(t)
	a.Start(context.Background(), "deep work")

	// Two minutes of focus, then a phone pickup that clears after 5s
	tick(a, clock, 120)
	a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup))
	tick(a, clock, 10)

	snap, err := a.End(context.Background())
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if snap.ElapsedSeconds != 130 {
		t.Fatalf("Expected 130s elapsed, got %d", snap.ElapsedSeconds)
	}
	// Ticks inside the 5s clear window do not count as focused
	if snap.FocusedSeconds != 126 {
		t.Fatalf("Expected 126s focused, got %d", snap.FocusedSeconds)
	}
	// 2 total minutes, 2 focused minutes, 1 distraction: 100 - 5
	if snap.FocusScore != 95 {
		t.Errorf("Expected score 95, got %d", snap.FocusScore)
	}
	if snap.EndedAt.IsZero() {
		t.Error("Expected EndedAt set")
	}
	if len(store.saved) != 1 {
		t.Fatalf("Expected final snapshot persisted, got %d", len(store.saved))
	}
	if a.Status() != StatusIdle {
		t.Errorf("Expected idle after end, got %s", a.Status())
	}
}

func TestEndWithoutSession(t *testing.T) {
	a, _, _ := newTestAccumulator(t)
	if _, err := a.End(context.Background()); err != ErrNoActiveSession {
		t.Errorf("Expected ErrNoActiveSession, got %v", err)
	}
}

func TestDistractionCount(t *testing.T) {
	a, clock, _ := newTestAccumulator(t)
	a.Start(context.Background(), "")

	a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup))
	clock.advance(5 * time.Second)
	a.LogDistraction(context.Background(), event(clock, distraction.TypePhonePickup))
	clock.advance(5 * time.Second)
	a.LogDistraction(context.Background(), event(clock, distraction.TypeLookingAway))

	if got := a.DistractionCount(distraction.TypePhonePickup); got != 2 {
		t.Errorf("Expected 2 phone pickups, got %d", got)
	}
	if got := a.DistractionCount(distraction.TypeLookingAway); got != 1 {
		t.Errorf("Expected 1 looking away, got %d", got)
	}
	if got := a.DistractionCount(distraction.TypeLeftDesk); got != 0 {
		t.Errorf("Expected 0 left desk, got %d", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name                string
		total, focused, cnt int
		want                int
	}{
		{"sub-minute session", 0, 0, 5, 100},
		{"perfect session", 25, 25, 0, 100},
		{"reference session", 25, 22, 3, 73},
		{"penalty capped at 30", 10, 10, 20, 70},
		{"clamped at zero", 10, 1, 20, 0},
		{"rounding up", 3, 2, 0, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.total, tt.focused, tt.cnt); got != tt.want {
				t.Errorf("Score(%d,%d,%d) = %d, want %d", tt.total, tt.focused, tt.cnt, got, tt.want)
			}
		})
	}
}

func TestLiveScoreFirstMinute(t *testing.T) {
	// 30s in, no full minute elapsed: denominator is 1 minute
	if got := LiveScore(30, 30, 0); got != 0 {
		t.Errorf("Expected 0 (no full focused minute yet), got %d", got)
	}
	if got := LiveScore(120, 120, 0); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
	if got := LiveScore(1500, 1350, 3); got != 73 {
		t.Errorf("Expected 73, got %d", got)
	}
}
