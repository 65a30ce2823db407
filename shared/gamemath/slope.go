package gamemath

import (
	"github.com/automoto/groundmesh/tags"
	"github.com/solarlune/resolv"
)

// SlopeSurfaceY returns the surface Y of a ramp object at world X, with X
// clamped to the ramp's extent. A ramp without a slope tag is flat.
func SlopeSurfaceY(x float64, ramp *resolv.Object) float64 {
	relativeX := min(max(x-ramp.X, 0), ramp.W)
	slope := relativeX / ramp.W

	if ramp.HasTags(tags.Slope45UpRight) {
		return ramp.Y + ramp.H*(1-slope)
	}
	if ramp.HasTags(tags.Slope45UpLeft) {
		return ramp.Y + ramp.H*slope
	}
	return ramp.Y
}

// SnapToSlopeY returns the Y position to snap an object onto a slope surface.
func SnapToSlopeY(objectH, surfaceY float64) float64 {
	return surfaceY - objectH
}
