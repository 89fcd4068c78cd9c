package distraction

import (
	"sync"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/smooth"
)

// Listener receives the single distraction event chosen for a tick.
type Listener func(Event)

// Router selects at most one distraction type per tick from the smoothed
// state, most specific first. It does no debouncing of its own.
type Router struct {
	mu       sync.RWMutex
	listener Listener
}

// NewRouter creates a router with no listener attached.
func NewRouter() *Router {
	return &Router{}
}

// SetListener replaces the registered listener. Passing nil detaches it.
func (r *Router) SetListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

// Route picks the distraction type for this tick and notifies the
// listener. It returns the chosen type and whether an event fired.
func (r *Router) Route(st smooth.State, now time.Time) (Type, bool) {
	t, ok := Select(st)
	if !ok {
		return "", false
	}

	r.mu.RLock()
	listener := r.listener
	r.mu.RUnlock()

	if listener != nil {
		listener(NewEvent(t, now, t.Label()))
	}
	return t, true
}

// Select maps a smoothed state to a distraction type without side
// effects. Phone signals outrank presence signals; within phones the
// specific postures outrank the generic pickup.
func Select(st smooth.State) (Type, bool) {
	switch {
	case st.PhoneNearLeftEar:
		return TypePhoneNearLeftEar, true
	case st.PhoneNearRightEar:
		return TypePhoneNearRightEar, true
	case st.PhoneInFrontOfFace:
		return TypePhoneInFrontOfFace, true
	case st.PhoneDetected:
		return TypePhonePickup, true
	case st.PoseDetected && !st.FaceDetected:
		return TypeLookingAway, true
	case !st.PoseDetected && !st.FaceDetected:
		return TypeLeftDesk, true
	}
	return "", false
}
