package distraction

import (
	"testing"
	"time"

	"github.com/Techy2419/Focus-Flow/pkg/smooth"
)

var routeTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestSelectPriority(t *testing.T) {
	tests := []struct {
		name  string
		state smooth.State
		want  Type
		fires bool
	}{
		{
			name: "left ear outranks everything",
			state: smooth.State{
				PhoneNearLeftEar: true, PhoneNearRightEar: true,
				PhoneInFrontOfFace: true, PhoneDetected: true,
				FaceDetected: true, PoseDetected: true,
			},
			want: TypePhoneNearLeftEar, fires: true,
		},
		{
			name: "right ear outranks in-front",
			state: smooth.State{
				PhoneNearRightEar: true, PhoneInFrontOfFace: true,
				PhoneDetected: true, FaceDetected: true, PoseDetected: true,
			},
			want: TypePhoneNearRightEar, fires: true,
		},
		{
			name: "in-front outranks generic pickup",
			state: smooth.State{
				PhoneInFrontOfFace: true, PhoneDetected: true,
				FaceDetected: true, PoseDetected: true,
			},
			want: TypePhoneInFrontOfFace, fires: true,
		},
		{
			name:  "generic pickup fallback",
			state: smooth.State{PhoneDetected: true, FaceDetected: true, PoseDetected: true},
			want:  TypePhonePickup, fires: true,
		},
		{
			name:  "pose without face is looking away",
			state: smooth.State{PoseDetected: true},
			want:  TypeLookingAway, fires: true,
		},
		{
			name:  "empty scene is left desk",
			state: smooth.State{},
			want:  TypeLeftDesk, fires: true,
		},
		{
			name:  "focused user produces no event",
			state: smooth.State{FaceDetected: true, PoseDetected: true},
			fires: false,
		},
		{
			name: "phone outranks missing face",
			state: smooth.State{
				PhoneDetected: true, PoseDetected: true,
			},
			want: TypePhonePickup, fires: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.state)
			if ok != tt.fires {
				t.Fatalf("fires = %v, want %v", ok, tt.fires)
			}
			if ok && got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRouteNotifiesListener(t *testing.T) {
	r := NewRouter()

	var got []Event
	r.SetListener(func(e Event) { got = append(got, e) })

	if _, ok := r.Route(smooth.State{PhoneDetected: true}, routeTime); !ok {
		t.Fatal("Expected an event")
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 listener call, got %d", len(got))
	}
	if got[0].Type != TypePhonePickup {
		t.Errorf("Unexpected type: %s", got[0].Type)
	}
	if got[0].ID == "" {
		t.Error("Expected a generated event ID")
	}
	if !got[0].Timestamp.Equal(routeTime) {
		t.Errorf("Unexpected timestamp: %v", got[0].Timestamp)
	}
}

func TestRouteSkipsListenerWhenFocused(t *testing.T) {
	r := NewRouter()

	calls := 0
	r.SetListener(func(Event) { calls++ })

	if _, ok := r.Route(smooth.State{FaceDetected: true, PoseDetected: true}, routeTime); ok {
		t.Fatal("Expected no event for a focused user")
	}
	if calls != 0 {
		t.Errorf("Listener called %d times for a no-event tick", calls)
	}
}

func TestRouteWithoutListener(t *testing.T) {
	r := NewRouter()
	// Must not panic with no listener attached
	if got, ok := r.Route(smooth.State{}, routeTime); !ok || got != TypeLeftDesk {
		t.Errorf("Route = (%s, %v), want (left_desk, true)", got, ok)
	}
}

func TestTypeIsPhone(t *testing.T) {
	for _, phone := range []Type{TypePhoneNearLeftEar, TypePhoneNearRightEar, TypePhoneInFrontOfFace, TypePhonePickup} {
		if !phone.IsPhone() {
			t.Errorf("%s should be a phone type", phone)
		}
	}
	for _, other := range []Type{TypeLookingAway, TypeLeftDesk, TypePoorPosture, Type("unknown")} {
		if other.IsPhone() {
			t.Errorf("%s should not be a phone type", other)
		}
	}
}
