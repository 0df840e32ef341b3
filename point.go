package depthgrad

import "math"

// CameraPoint is a surface point in the camera's frame of reference.
// The camera looks along its negative Z axis with Y as the up vector.
type CameraPoint struct {
	X, Y, Z float64
}

// Pt is a convenience function to create a CameraPoint.
func Pt(x, y, z float64) CameraPoint {
	return CameraPoint{X: x, Y: y, Z: z}
}

// Depth returns the point's distance along the viewing axis.
// Points in front of the camera have negative Z, so the absolute value
// is taken.
func (p CameraPoint) Depth() float64 {
	return math.Abs(p.Z)
}
