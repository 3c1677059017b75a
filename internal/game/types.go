package game

import (
	"math"

	"chosenoffset.com/lightcaster/internal/core/shadows"
)

// Controls tuning, per tick at 60 TPS.
const (
	moveSpeed   = 2.0
	radiusScale = 1.02
	minRadius   = 20.0
	maxRadius   = 2000.0
	fovStep     = 0.02
)

// Camera maps world coordinates onto the screen. The world is scaled to fit
// the window and centred in it.
type Camera struct {
	Scale            float64
	OffsetX, OffsetY float64
}

// FitCamera returns the camera that shows a worldW x worldH world in a
// screenW x screenH window.
func FitCamera(worldW, worldH float64, screenW, screenH int) Camera {
	sw, sh := float64(screenW), float64(screenH)
	scale := math.Min(sw/worldW, sh/worldH)
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}
	return Camera{
		Scale:   scale,
		OffsetX: (sw - worldW*scale) / 2,
		OffsetY: (sh - worldH*scale) / 2,
	}
}

// ToScreen converts a world position to screen coordinates.
func (c Camera) ToScreen(p shadows.Point) (x, y float32) {
	return float32(p.X*c.Scale + c.OffsetX), float32(p.Y*c.Scale + c.OffsetY)
}

// ToScreenPoint is ToScreen returning a point.
func (c Camera) ToScreenPoint(p shadows.Point) shadows.Point {
	return p.Scale(c.Scale).AddXY(c.OffsetX, c.OffsetY)
}

// ToWorld converts screen coordinates, such as the cursor position, to a
// world position.
func (c Camera) ToWorld(x, y int) shadows.Point {
	return shadows.Point{
		X: (float64(x) - c.OffsetX) / c.Scale,
		Y: (float64(y) - c.OffsetY) / c.Scale,
	}
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}
