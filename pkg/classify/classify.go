// Package classify turns one detection result into instantaneous
// distraction signals. It is stateless; temporal smoothing happens
// downstream.
package classify

import (
	"github.com/Techy2419/Focus-Flow/pkg/detect"
	"github.com/Techy2419/Focus-Flow/pkg/geometry"
)

// Config holds all tunable classification thresholds.
type Config struct {
	// Phone-near-ear
	EarDistanceMax float64 // Phone center must be within this of the ear (px)
	EarCloseRange  float64 // Below this distance the raised-wrist check is waived (px)

	// Phone-in-front-of-face
	NoseDistanceMax float64 // Phone center must be within this of the nose (px)
	FaceMargin      float64 // Padding around facial keypoints (px)

	// Per-landmark confidence floors
	NoseFloor     float64
	EyeFloor      float64
	EarFloor      float64
	ShoulderFloor float64
	WristFloor    float64
}

// DefaultConfig returns the recommended thresholds for 640x480 frames.
func DefaultConfig() Config {
	return Config{
		EarDistanceMax: 140,
		EarCloseRange:  100,

		NoseDistanceMax: 200,
		FaceMargin:      geometry.FaceMargin,

		NoseFloor:     0.2,
		EyeFloor:      0.2,
		EarFloor:      0.3,
		ShoulderFloor: 0.2,
		WristFloor:    0.3,
	}
}

// Signals are the instantaneous per-frame booleans fed to the smoother.
type Signals struct {
	PhoneNearLeftEar   bool
	PhoneNearRightEar  bool
	PhoneInFrontOfFace bool
	PhoneDetected      bool // service's phone flag, or any proximity signal

	FaceDetected bool // pass-through of the service's presence flag
	PoseDetected bool // pass-through of the service's presence flag
}

// AnyPhone reports whether any phone signal is set.
func (s Signals) AnyPhone() bool {
	return s.PhoneNearLeftEar || s.PhoneNearRightEar || s.PhoneInFrontOfFace || s.PhoneDetected
}

// Classifier evaluates detection results against the configured thresholds.
type Classifier struct {
	config Config
}

// New creates a classifier.
func New(config Config) *Classifier {
	return &Classifier{config: config}
}

// Classify evaluates one detection result. Each phone box is checked in
// priority order: near-ear is more specific than in-front-of-face, so a box
// matching an ear never also counts as in-front. The service's own phone
// flag carries through even when no box matches a posture, so a phone in
// view without a recognized pose still registers as a generic pickup.
func (c *Classifier) Classify(r *detect.Result) Signals {
	s := Signals{
		PhoneDetected: r.PhoneDetected,
		FaceDetected:  r.FaceDetected,
		PoseDetected:  r.PoseDetected,
	}

	if !r.PoseDetected || len(r.PhoneBoxes) == 0 {
		return s
	}

	for _, box := range r.PhoneBoxes {
		switch {
		case c.phoneNearEar(r, box, detect.KeypointLeftEar, detect.KeypointLeftWrist, detect.KeypointLeftShoulder):
			s.PhoneNearLeftEar = true
		case c.phoneNearEar(r, box, detect.KeypointRightEar, detect.KeypointRightWrist, detect.KeypointRightShoulder):
			s.PhoneNearRightEar = true
		case c.phoneInFrontOfFace(r, box):
			s.PhoneInFrontOfFace = true
		}
	}

	s.PhoneDetected = s.PhoneDetected || s.PhoneNearLeftEar || s.PhoneNearRightEar || s.PhoneInFrontOfFace
	return s
}

// phoneNearEar checks one side. The ear itself must be visible; beyond
// close range the matching arm must also be raised (wrist above shoulder
// in image coordinates).
func (c *Classifier) phoneNearEar(r *detect.Result, box detect.BoundingBox, earName, wristName, shoulderName string) bool {
	ear := r.UsableKeypoint(earName, c.config.EarFloor)
	if ear == nil {
		return false
	}

	center := box.Box().Center()
	earPos := ear.Point()
	dist := geometry.Distance(&center, &earPos)

	// Very close to the ear: trust the detection even if the wrist is
	// occluded by the phone itself.
	if dist < c.config.EarCloseRange {
		return true
	}
	if dist >= c.config.EarDistanceMax {
		return false
	}

	return c.wristRaised(r, wristName, shoulderName)
}

// phoneInFrontOfFace checks the scrolling/watching posture: the phone box
// overlaps the face region, sits near the nose, and an arm is raised to
// hold it. Without a usable nose there is no face region and the answer is
// always false.
func (c *Classifier) phoneInFrontOfFace(r *detect.Result, box detect.BoundingBox) bool {
	nose := r.UsableKeypoint(detect.KeypointNose, c.config.NoseFloor)
	if nose == nil {
		return false
	}

	region := c.faceRegion(r, nose)
	if region == nil {
		return false
	}

	phoneBox := box.Box()
	if !geometry.Intersects(phoneBox, *region) {
		return false
	}

	center := phoneBox.Center()
	nosePos := nose.Point()
	if geometry.Distance(&center, &nosePos) >= c.config.NoseDistanceMax {
		return false
	}

	return c.wristRaised(r, detect.KeypointLeftWrist, detect.KeypointLeftShoulder) ||
		c.wristRaised(r, detect.KeypointRightWrist, detect.KeypointRightShoulder)
}

// faceRegion builds the padded facial bounding box from the usable
// eye/ear landmarks around the nose, extended down to the shoulder line
// when shoulders are visible.
func (c *Classifier) faceRegion(r *detect.Result, nose *detect.Keypoint) *geometry.Box {
	var facial []geometry.Point
	for _, name := range []string{
		detect.KeypointLeftEye, detect.KeypointRightEye,
		detect.KeypointLeftEar, detect.KeypointRightEar,
	} {
		if kp := r.UsableKeypoint(name, c.config.EyeFloor); kp != nil {
			facial = append(facial, kp.Point())
		}
	}

	var shoulderY *float64
	var sum float64
	var n int
	for _, name := range []string{detect.KeypointLeftShoulder, detect.KeypointRightShoulder} {
		if kp := r.UsableKeypoint(name, c.config.ShoulderFloor); kp != nil {
			sum += kp.Y
			n++
		}
	}
	if n > 0 {
		y := sum / float64(n)
		shoulderY = &y
	}

	nosePos := nose.Point()
	return geometry.FaceRegion(&nosePos, facial, shoulderY, c.config.FaceMargin)
}

// wristRaised reports whether the wrist is visible and above its shoulder.
// Y grows downward in image coordinates, so raised means numerically less.
func (c *Classifier) wristRaised(r *detect.Result, wristName, shoulderName string) bool {
	wrist := r.UsableKeypoint(wristName, c.config.WristFloor)
	shoulder := r.UsableKeypoint(shoulderName, c.config.ShoulderFloor)
	if wrist == nil || shoulder == nil {
		return false
	}
	return wrist.Y < shoulder.Y
}
