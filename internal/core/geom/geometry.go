package geom

import "math"

// Tolerances used across the caster.
const (
	// RayTolerance guards the near-vertical case split in RayIntersection.
	RayTolerance = 0.0001
	// CastTolerance widens a segment's span when a ray is cast against it,
	// so rays aimed exactly at an endpoint still register.
	CastTolerance = 0.001
	// AngleTolerance is the residue below which angular distances snap to 0.
	AngleTolerance = 0.00001
)

// AngleMode selects which traversal AngleDifference reports.
type AngleMode int

const (
	// AngleMin is the smaller of the clockwise and counter-clockwise distances.
	AngleMin AngleMode = iota
	// AngleCCW is the counter-clockwise distance from a1 to a2.
	AngleCCW
	// AngleCW is the clockwise distance from a1 to a2.
	AngleCW
)

// String returns the mode name.
func (m AngleMode) String() string {
	switch m {
	case AngleCCW:
		return "ccw"
	case AngleCW:
		return "cw"
	default:
		return "min"
	}
}

// Intersection describes where a ray struck a segment.
type Intersection struct {
	Point Vec2
	// SegT is the distance along the segment from its start.
	SegT float64
	// RayT is the distance along the ray from its origin.
	RayT float64
}

// RayIntersection solves p1 + t*d1 = p2 + s*d2 for t and s.
// It reports false when either direction is zero or the rays are parallel.
// The returned scalars are signed; bounding them is up to the caller.
func RayIntersection(p1, d1, p2, d2 Vec2, tol float64) (t, s float64, ok bool) {
	switch {
	case d1.IsZero(), d2.IsZero():
		return 0, 0, false
	case d1.X == 0 && d2.X == 0,
		d1.Y == 0 && d2.Y == 0,
		d1 == d2,
		d1.X == -d2.X && d1.Y == -d2.Y:
		return 0, 0, false
	}

	// A near-zero d2.X would blow up the general solution below, so
	// treat it as exactly vertical.
	if math.Abs(d2.X) < tol {
		if d1.X == 0 || d2.Y == 0 {
			return 0, 0, false
		}
		t = (p2.X - p1.X) / d1.X
		s = ((p1.Y - p2.Y) + t*d1.Y) / d2.Y
	} else {
		den := d1.Y - (d1.X/d2.X)*d2.Y
		if den == 0 {
			return 0, 0, false
		}
		t = ((p2.Y - p1.Y) + (p1.X-p2.X)*d2.Y/d2.X) / den
		s = ((p1.X - p2.X) + t*d1.X) / d2.X
	}

	if !finite(t) || !finite(s) {
		return 0, 0, false
	}
	return t, s, true
}

// SegmentIntersection returns the point where segments a1-b1 and a2-b2 cross.
func SegmentIntersection(a1, b1, a2, b2 Vec2) (Vec2, bool) {
	seg1 := b1.Sub(a1)
	seg2 := b2.Sub(a2)
	len1, len2 := seg1.Mag(), seg2.Mag()
	dir1, dir2 := seg1.Div(len1), seg2.Div(len2)

	t, s, ok := RayIntersection(a1, dir1, a2, dir2, RayTolerance)
	if !ok || t < 0 || s < 0 || t > len1 || s > len2 {
		return Vec2{}, false
	}
	return a1.Add(dir1.Scale(t)), true
}

// Raycast casts a ray from origin along the unit vector dir against the
// segment segStart-segEnd. The segment span is widened by tol at both ends;
// hits behind the origin are rejected.
func Raycast(segStart, segEnd, origin, dir Vec2, tol float64) (Intersection, bool) {
	seg := segEnd.Sub(segStart)
	length := seg.Mag()

	segT, rayT, ok := RayIntersection(segStart, seg.Div(length), origin, dir, RayTolerance)
	if !ok {
		return Intersection{}, false
	}
	if segT < -tol || segT > length+tol || rayT < 0 {
		return Intersection{SegT: segT, RayT: rayT}, false
	}
	return Intersection{
		Point: origin.Add(dir.Scale(rayT)),
		SegT:  segT,
		RayT:  rayT,
	}, true
}

// SegmentCircleIntersection returns the points where the line through start
// and end meets the circle. A tangent line yields a single point. With
// boundsCheck set, points outside the segment are dropped.
func SegmentCircleIntersection(start, end, center Vec2, radius float64, boundsCheck bool) []Vec2 {
	d := end.Sub(start)
	f := start.Sub(center)

	a := d.Dot(d)
	if a == 0 {
		return nil
	}
	b := 2 * f.Dot(d)
	c := f.Dot(f) - radius*radius

	disc := b*b - 4*a*c
	var roots []float64
	switch {
	case disc < 0:
		return nil
	case disc == 0:
		roots = []float64{-b / (2 * a)}
	default:
		sq := math.Sqrt(disc)
		roots = []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	}

	points := make([]Vec2, 0, len(roots))
	for _, u := range roots {
		if boundsCheck && (u < 0 || u > 1) {
			continue
		}
		points = append(points, start.Add(d.Scale(u)))
	}
	return points
}

// NormalizeAngle maps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// AngleDifference returns the angular distance from a1 to a2 in the given
// mode. Results within AngleTolerance of 0 or 2π snap to exactly 0.
func AngleDifference(a1, a2 float64, mode AngleMode) float64 {
	a1 = NormalizeAngle(a1)
	a2 = NormalizeAngle(a2)

	ccw := snapAngle(NormalizeAngle(a2 - a1))
	cw := snapAngle(NormalizeAngle(a1 - a2))

	switch mode {
	case AngleCCW:
		return ccw
	case AngleCW:
		return cw
	default:
		return math.Min(ccw, cw)
	}
}

func snapAngle(a float64) float64 {
	if a < AngleTolerance || TwoPi-a < AngleTolerance {
		return 0
	}
	return a
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
