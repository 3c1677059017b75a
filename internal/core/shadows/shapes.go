package shadows

import (
	"math"
	"math/rand"

	"chosenoffset.com/lightcaster/internal/core/geom"
)

// NewRectangle creates a closed rectangle of size w by h rotated by rotation
// radians about its centre. When centred is false, pos is the top-left
// corner of the unrotated rectangle instead of its centre.
func NewRectangle(pos Point, w, h, rotation float64, centred bool) *Obstacle {
	corners := []Point{
		geom.V(-w/2, -h/2), // top-left
		geom.V(w/2, -h/2),  // top-right
		geom.V(w/2, h/2),   // bottom-right
		geom.V(-w/2, h/2),  // bottom-left
	}

	offset := pos
	if !centred {
		offset = offset.AddXY(w/2, h/2)
	}
	for i, c := range corners {
		corners[i] = c.Rotate(rotation).Add(offset)
	}
	return NewPolygon(corners...)
}

// NewRandomPolygon creates a closed star-shaped polygon with n vertices
// evenly spaced in angle around center, each at radius ± variance/2.
func NewRandomPolygon(rng *rand.Rand, center Point, radius float64, n int, variance float64) *Obstacle {
	points := make([]Point, n)
	for i := range points {
		angle := float64(i) * (2 * math.Pi / float64(n))
		r := radius - variance/2 + variance*rng.Float64()
		points[i] = center.Add(geom.FromHeading(angle).Scale(r))
	}
	return NewPolygon(points...)
}
