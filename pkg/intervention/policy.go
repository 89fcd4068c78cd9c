// Package intervention decides when a distraction warrants interrupting
// the user, and produces the coaching message shown when it does.
package intervention

import (
	"sync"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/distraction"
)

// DefaultCooldown is the minimum gap between interventions of any type.
// It bounds calls to the generative text service.
const DefaultCooldown = 60 * time.Second

// DefaultThreshold is applied to distraction types with no explicit entry.
const DefaultThreshold = 2

// Policy gates interventions by per-type occurrence thresholds and a
// global cooldown shared across all types.
type Policy struct {
	mu         sync.Mutex
	cooldown   time.Duration
	thresholds map[distraction.Type]int
	lastAt     time.Time
	counts     map[distraction.Type]int

	now func() time.Time
}

// NewPolicy creates a policy with the default thresholds: phone
// sub-types escalate on the first occurrence, presence lapses need a
// few repeats.
func NewPolicy() *Policy {
	return &Policy{
		cooldown: DefaultCooldown,
		thresholds: map[distraction.Type]int{
			distraction.TypePhoneNearLeftEar:   1,
			distraction.TypePhoneNearRightEar:  1,
			distraction.TypePhoneInFrontOfFace: 1,
			distraction.TypePhonePickup:        1,
			distraction.TypeLeftDesk:           2,
			distraction.TypeLookingAway:        3,
			distraction.TypePoorPosture:        5,
		},
		counts: make(map[distraction.Type]int),
		now:    time.Now,
	}
}

// SetCooldown overrides the global cooldown.
func (p *Policy) SetCooldown(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cooldown = d
}

// SetThreshold overrides the occurrence threshold for one type.
func (p *Policy) SetThreshold(t distraction.Type, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.thresholds[t] = n
}

// Record counts one occurrence and returns the running total for the type.
func (p *Policy) Record(t distraction.Type) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[t]++
	return p.counts[t]
}

// ShouldIntervene reports whether the given occurrence count for the
// type crosses its threshold, subject to the global cooldown. On a true
// decision the cooldown resets immediately, before the user sees or
// responds to anything.
func (p *Policy) ShouldIntervene(t distraction.Type, countSoFar int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if !p.lastAt.IsZero() && now.Sub(p.lastAt) < p.cooldown {
		return false
	}

	threshold, ok := p.thresholds[t]
	if !ok {
		threshold = DefaultThreshold
	}
	if countSoFar < threshold {
		return false
	}

	p.lastAt = now
	return true
}

// Reset clears the cooldown and all per-type counts for a new session.
func (p *Policy) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastAt = time.Time{}
	p.counts = make(map[distraction.Type]int)
}
