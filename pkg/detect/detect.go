// Package detect provides a client for the FocusFlow vision detection
// service.
//
// The service receives one camera frame per request and returns phone
// bounding boxes, pose keypoints, and presence flags. This package only
// consumes that contract; how the service performs detection (MediaPipe,
// YOLO, ...) is opaque to the rest of the pipeline.
//
// Example usage:
//
//	client, _ := detect.NewClient(
//	    detect.WithBaseURL("http://localhost:8000"),
//	)
//	defer client.Close()
//
//	if err := client.Health(ctx); err != nil {
//	    // service not ready, do not start polling
//	}
//	result, err := client.Detect(ctx, jpegFrame)
package detect

import (
	"context"

	"github.com/Techy2419/Focus-Flow/pkg/geometry"
)

// Detector is the interface for detection backends.
type Detector interface {
	// Detect analyzes one JPEG frame and returns the detection result.
	Detect(ctx context.Context, jpeg []byte) (*Result, error)

	// Health checks service readiness. Returns ErrNotReady when the
	// service responds but its models are not loaded.
	Health(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// MediaPipe pose landmark names consumed by the classifier.
const (
	KeypointNose          = "nose"
	KeypointLeftEye       = "left_eye"
	KeypointRightEye      = "right_eye"
	KeypointLeftEar       = "left_ear"
	KeypointRightEar      = "right_ear"
	KeypointLeftShoulder  = "left_shoulder"
	KeypointRightShoulder = "right_shoulder"
	KeypointLeftWrist     = "left_wrist"
	KeypointRightWrist    = "right_wrist"
)

// BoundingBox is a detected object box in frame pixel coordinates.
type BoundingBox struct {
	XMin       float64 `json:"x_min"`
	YMin       float64 `json:"y_min"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

// Box converts the detection to a geometry box.
func (b BoundingBox) Box() geometry.Box {
	return geometry.Box{X: b.XMin, Y: b.YMin, Width: b.Width, Height: b.Height}
}

// Keypoint is a pose landmark in frame pixel coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
	Name       string  `json:"name"`
}

// Point converts the keypoint to a geometry point.
func (k Keypoint) Point() geometry.Point {
	return geometry.Point{X: k.X, Y: k.Y}
}

// Usable reports whether the keypoint's visibility clears the given floor.
func (k Keypoint) Usable(floor float64) bool {
	return k.Visibility >= floor
}

// Result is one detection response from the service.
type Result struct {
	PhoneDetected bool          `json:"phone_detected"`
	PhoneBoxes    []BoundingBox `json:"phone_boxes"`
	PoseDetected  bool          `json:"pose_detected"`
	FaceDetected  bool          `json:"face_detected"`
	Keypoints     []Keypoint    `json:"keypoints"`

	// Proximity flags precomputed upstream. The classifier derives its
	// own from configured thresholds; these are kept for diagnostics.
	PhoneNearLeftEar   bool `json:"phone_near_left_ear"`
	PhoneNearRightEar  bool `json:"phone_near_right_ear"`
	PhoneInFrontOfFace bool `json:"phone_in_front_of_face"`

	ProcessingTimeMs float64 `json:"processing_time_ms"`
	Backend          string  `json:"backend"`
}

// Keypoint returns the named landmark, or nil if absent.
func (r *Result) Keypoint(name string) *Keypoint {
	for i := range r.Keypoints {
		if r.Keypoints[i].Name == name {
			return &r.Keypoints[i]
		}
	}
	return nil
}

// UsableKeypoint returns the named landmark only if its visibility clears
// the floor.
func (r *Result) UsableKeypoint(name string, floor float64) *Keypoint {
	kp := r.Keypoint(name)
	if kp == nil || !kp.Usable(floor) {
		return nil
	}
	return kp
}

// ServiceStatus is the detection service's health response.
type ServiceStatus struct {
	Status       string          `json:"status"`
	Ready        bool            `json:"ready"`
	ModelsLoaded map[string]bool `json:"models_loaded"`
	CPUBackend   bool            `json:"cpu_backend"`
}
