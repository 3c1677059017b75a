// Package geom holds the 2D vector type and the stateless intersection and
// angle helpers the shadow caster is built on.
package geom

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// Vec2 is a 2D point or free vector. It is a value type: every operation
// returns a new Vec2 and never mutates its receiver.
type Vec2 struct {
	X, Y float64
}

// V is a shorthand constructor for Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromHeading returns the unit vector pointing at the given angle.
func FromHeading(rad float64) Vec2 {
	return Vec2{math.Cos(rad), math.Sin(rad)}
}

// Add returns v + q.
func (v Vec2) Add(q Vec2) Vec2 {
	return Vec2{v.X + q.X, v.Y + q.Y}
}

// AddXY returns v + (x, y).
func (v Vec2) AddXY(x, y float64) Vec2 {
	return Vec2{v.X + x, v.Y + y}
}

// Sub returns v - q.
func (v Vec2) Sub(q Vec2) Vec2 {
	return Vec2{v.X - q.X, v.Y - q.Y}
}

// SubXY returns v - (x, y).
func (v Vec2) SubXY(x, y float64) Vec2 {
	return Vec2{v.X - x, v.Y - y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Div returns v / s.
func (v Vec2) Div(s float64) Vec2 {
	return Vec2{v.X / s, v.Y / s}
}

// Mag returns the Euclidean length of v.
func (v Vec2) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// SqrMag returns the squared length of v.
func (v Vec2) SqrMag() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns v scaled to unit length.
// The zero vector is not checked; callers must not normalize it.
func (v Vec2) Normalize() Vec2 {
	return v.Div(v.Mag())
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Dot returns the dot product of v and q.
func (v Vec2) Dot(q Vec2) float64 {
	return v.X*q.X + v.Y*q.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(q Vec2) float64 {
	return v.X*q.Y - v.Y*q.X
}

// Dist returns the distance between v and q.
func (v Vec2) Dist(q Vec2) float64 {
	return v.Sub(q).Mag()
}

// Heading returns the angle of v from the positive X axis in [0, 2π).
func (v Vec2) Heading() float64 {
	return math.Mod(math.Atan2(v.Y, v.X)+TwoPi, TwoPi)
}

// Rotate returns v rotated by rad around the origin.
func (v Vec2) Rotate(rad float64) Vec2 {
	c, s := math.Cos(rad), math.Sin(rad)
	return Vec2{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
	}
}

// WithHeading returns v rotated so that its heading equals rad.
func (v Vec2) WithHeading(rad float64) Vec2 {
	return v.Rotate(rad - v.Heading())
}

// ApproxEqual reports whether v and q differ by at most tol on each axis.
func (v Vec2) ApproxEqual(q Vec2, tol float64) bool {
	return math.Abs(v.X-q.X) <= tol && math.Abs(v.Y-q.Y) <= tol
}
