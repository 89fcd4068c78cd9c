// Package geometry provides pure box and point math for the detection
// pipeline. All functions are total: missing inputs produce nil, zero, or
// +Inf rather than errors.
package geometry

import "math"

// Default construction parameters, tuned against webcam frames.
const (
	// FaceMargin pads the facial keypoint hull when building a face region.
	FaceMargin = 30.0

	// HandBoxSize is the edge length of the box centered on a wrist.
	HandBoxSize = 60.0

	// HandExpand grows the wrist box to cover a held object.
	HandExpand = 1.8

	// DefaultExpand is the generic box expansion factor.
	DefaultExpand = 1.5
)

// Point is a position in frame pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Box is an axis-aligned rectangle in frame pixel coordinates.
// Width and Height are never negative after clamping.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.Height
}

// Area returns the box area.
func (b Box) Area() float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Intersects reports whether two boxes overlap on both axes.
// Touching edges count as non-intersecting.
func Intersects(a, b Box) bool {
	return a.X < b.Right() && b.X < a.Right() &&
		a.Y < b.Bottom() && b.Y < a.Bottom()
}

// Expand grows a box around its own center by factor.
// Factor 1.0 is the identity.
func Expand(b Box, factor float64) Box {
	c := b.Center()
	w := b.Width * factor
	h := b.Height * factor
	return Box{
		X:      c.X - w/2,
		Y:      c.Y - h/2,
		Width:  w,
		Height: h,
	}
}

// Distance returns the Euclidean distance between two points.
// Returns +Inf if either point is absent.
func Distance(a, b *Point) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// IoU returns the intersection-over-union of two boxes in [0, 1].
// Returns 0 if either box is absent or the union area is 0.
func IoU(a, b *Box) float64 {
	if a == nil || b == nil {
		return 0
	}

	ix := math.Max(a.X, b.X)
	iy := math.Max(a.Y, b.Y)
	ir := math.Min(a.Right(), b.Right())
	ib := math.Min(a.Bottom(), b.Bottom())

	iw := ir - ix
	ih := ib - iy
	if iw <= 0 || ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// FaceRegion builds a bounding box around facial keypoints, padded by margin.
// The nose is mandatory: callers pass nil when the nose landmark is absent or
// below its confidence floor, and the region is nil in that case. Extra
// eye/ear points widen the hull. If shoulderY is non-nil the bottom edge
// extends down to the shoulder line instead of the fixed margin, to better
// cover the lower face.
func FaceRegion(nose *Point, facial []Point, shoulderY *float64, margin float64) *Box {
	if nose == nil {
		return nil
	}

	minX, maxX := nose.X, nose.X
	minY, maxY := nose.Y, nose.Y
	for _, p := range facial {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	bottom := maxY + margin
	if shoulderY != nil && *shoulderY > bottom {
		bottom = *shoulderY
	}

	return &Box{
		X:      minX - margin,
		Y:      minY - margin,
		Width:  (maxX + margin) - (minX - margin),
		Height: bottom - (minY - margin),
	}
}

// HandRegion builds a fixed-size box centered on a wrist, then expands it to
// cover an object held in the hand. Returns nil if the wrist is absent.
func HandRegion(wrist *Point, size, factor float64) *Box {
	if wrist == nil {
		return nil
	}
	box := Box{
		X:      wrist.X - size/2,
		Y:      wrist.Y - size/2,
		Width:  size,
		Height: size,
	}
	expanded := Expand(box, factor)
	return &expanded
}

// ClampToFrame clamps a box's position and size into [0,w] x [0,h].
// The result never has negative width or height.
func ClampToFrame(b Box, w, h float64) Box {
	x := math.Max(0, math.Min(b.X, w))
	y := math.Max(0, math.Min(b.Y, h))
	right := math.Max(x, math.Min(b.Right(), w))
	bottom := math.Max(y, math.Min(b.Bottom(), h))
	return Box{X: x, Y: y, Width: right - x, Height: bottom - y}
}
