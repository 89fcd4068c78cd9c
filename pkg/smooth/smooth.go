// Package smooth stabilizes per-frame classification signals over time.
// A signal that fires once stays asserted for its hold window, so a
// single dropped detection does not flicker the downstream state.
package smooth

import (
	"sync"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/classify"
)

// Hold windows. Phone signals linger longer than presence signals
// because phone detections drop out more often mid-use.
const (
	PhoneHold = 2000 * time.Millisecond
	FaceHold  = 1000 * time.Millisecond
)

// Category identifies one smoothed signal.
type Category string

const (
	CategoryPhoneNearLeftEar   Category = "phone_near_left_ear"
	CategoryPhoneNearRightEar  Category = "phone_near_right_ear"
	CategoryPhoneInFrontOfFace Category = "phone_in_front_of_face"
	CategoryPhoneDetected      Category = "phone_detected"
	CategoryFaceDetected       Category = "face_detected"
)

// State is one smoothed snapshot.
type State struct {
	PhoneNearLeftEar   bool
	PhoneNearRightEar  bool
	PhoneInFrontOfFace bool
	PhoneDetected      bool
	FaceDetected       bool
	PoseDetected       bool
}

// AnyPhone reports whether any smoothed phone signal is asserted.
func (s State) AnyPhone() bool {
	return s.PhoneNearLeftEar || s.PhoneNearRightEar || s.PhoneInFrontOfFace || s.PhoneDetected
}

// Smoother holds the last time each signal was instantaneously true.
// Callers pass the observation time explicitly so ticks and tests share
// one clock.
type Smoother struct {
	mu        sync.Mutex
	lastTrue  map[Category]time.Time
	lastPose  bool
	phoneHold time.Duration
	faceHold  time.Duration
}

// New creates a smoother with the default hold windows.
func New() *Smoother {
	return NewWithHolds(PhoneHold, FaceHold)
}

// NewWithHolds creates a smoother with explicit hold windows.
func NewWithHolds(phoneHold, faceHold time.Duration) *Smoother {
	return &Smoother{
		lastTrue:  make(map[Category]time.Time),
		phoneHold: phoneHold,
		faceHold:  faceHold,
	}
}

// Observe records one frame's instantaneous signals at the given time.
func (s *Smoother) Observe(sig classify.Signals, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sig.PhoneNearLeftEar {
		s.lastTrue[CategoryPhoneNearLeftEar] = now
	}
	if sig.PhoneNearRightEar {
		s.lastTrue[CategoryPhoneNearRightEar] = now
	}
	if sig.PhoneInFrontOfFace {
		s.lastTrue[CategoryPhoneInFrontOfFace] = now
	}
	if sig.AnyPhone() {
		s.lastTrue[CategoryPhoneDetected] = now
	}
	if sig.FaceDetected {
		s.lastTrue[CategoryFaceDetected] = now
	}
	s.lastPose = sig.PoseDetected
}

// State returns the smoothed snapshot at the given time. A signal never
// observed true is false regardless of the hold windows.
func (s *Smoother) State(now time.Time) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		PhoneNearLeftEar:   s.held(CategoryPhoneNearLeftEar, now, s.phoneHold),
		PhoneNearRightEar:  s.held(CategoryPhoneNearRightEar, now, s.phoneHold),
		PhoneInFrontOfFace: s.held(CategoryPhoneInFrontOfFace, now, s.phoneHold),
		PhoneDetected:      s.held(CategoryPhoneDetected, now, s.phoneHold),
		FaceDetected:       s.held(CategoryFaceDetected, now, s.faceHold),
		PoseDetected:       s.lastPose,
	}
}

// held reports whether the category was seen true within its hold window.
func (s *Smoother) held(cat Category, now time.Time, hold time.Duration) bool {
	last, ok := s.lastTrue[cat]
	if !ok {
		return false
	}
	return now.Sub(last) < hold
}

// Reset clears all recorded observations.
func (s *Smoother) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTrue = make(map[Category]time.Time)
	s.lastPose = false
}
