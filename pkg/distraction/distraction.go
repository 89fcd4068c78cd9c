// Package distraction defines distraction event types and the router
// that turns smoothed signals into at most one event per tick.
package distraction

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies a kind of distraction.
type Type string

const (
	TypePhoneNearLeftEar   Type = "phone_near_left_ear"
	TypePhoneNearRightEar  Type = "phone_near_right_ear"
	TypePhoneInFrontOfFace Type = "phone_in_front_of_face"
	TypePhonePickup        Type = "phone_pickup"
	TypeLookingAway        Type = "looking_away"
	TypeLeftDesk           Type = "left_desk"
	TypePoorPosture        Type = "poor_posture"
)

// IsPhone reports whether the type is one of the phone sub-types.
func (t Type) IsPhone() bool {
	switch t {
	case TypePhoneNearLeftEar, TypePhoneNearRightEar, TypePhoneInFrontOfFace, TypePhonePickup:
		return true
	}
	return false
}

// Label returns a short human-readable name for UI and logs.
func (t Type) Label() string {
	switch t {
	case TypePhoneNearLeftEar:
		return "Phone at left ear"
	case TypePhoneNearRightEar:
		return "Phone at right ear"
	case TypePhoneInFrontOfFace:
		return "Phone in front of face"
	case TypePhonePickup:
		return "Phone pickup"
	case TypeLookingAway:
		return "Looking away"
	case TypeLeftDesk:
		return "Left desk"
	case TypePoorPosture:
		return "Poor posture"
	}
	return string(t)
}

// Event is one observed distraction.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// NewEvent creates an event with a fresh ID.
func NewEvent(t Type, at time.Time, detail string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: at,
		Detail:    detail,
	}
}
