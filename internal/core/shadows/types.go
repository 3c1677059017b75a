package shadows

import (
	"math"

	"chosenoffset.com/lightcaster/internal/core/geom"
)

// Point is a position in world space.
type Point = geom.Vec2

// Coord represents a tile coordinate
type Coord struct {
	X, Y int
}

// RayKind classifies why a ray was cast.
type RayKind int

const (
	// RayRegular rays bound the field of view or sit on an obstacle vertex.
	RayRegular RayKind = iota
	// RayLineIntersection rays aim where segments of two obstacles cross.
	RayLineIntersection
	// RayPerimeterIntersection rays aim where a segment crosses the view circle.
	RayPerimeterIntersection
	// RayPerimeterFill marks synthesized points on the view circle.
	RayPerimeterFill
)

// String returns the kind name.
func (k RayKind) String() string {
	switch k {
	case RayLineIntersection:
		return "lineIntersection"
	case RayPerimeterIntersection:
		return "perimeterIntersection"
	case RayPerimeterFill:
		return "perimeterFill"
	default:
		return "regular"
	}
}

// Segment is an immutable oriented wall edge.
// Start and End must differ.
type Segment struct {
	Start, End Point
	Dir        geom.Vec2 // unit vector from Start to End
	Length     float64
}

// NewSegment creates a segment from a to b.
func NewSegment(a, b Point) Segment {
	d := b.Sub(a)
	length := d.Mag()
	return Segment{
		Start:  a,
		End:    b,
		Dir:    d.Div(length),
		Length: length,
	}
}

// Raycast casts a ray against the segment. The hit references s so callers
// can tell which edge was struck.
func (s *Segment) Raycast(origin, dir geom.Vec2) (RaycastHit, bool) {
	in, ok := geom.Raycast(s.Start, s.End, origin, dir, geom.CastTolerance)
	if !ok {
		return RaycastHit{}, false
	}
	return RaycastHit{
		Hit:     true,
		Point:   in.Point,
		RayT:    in.RayT,
		SegT:    in.SegT,
		Segment: s,
	}, true
}

// Intersects returns the point where s and other cross.
func (s *Segment) Intersects(other *Segment) (Point, bool) {
	return geom.SegmentIntersection(s.Start, s.End, other.Start, other.End)
}

// RaycastHit is one stitched result of a visibility sweep. Hit is false for
// rays that reached the view radius without striking anything and for
// synthesized fill points; Point is then unset and the boundary lies on the
// view circle at Heading. Rays aimed at a perimeter crossing always report
// a hit on the circle.
type RaycastHit struct {
	Hit     bool
	Point   Point
	RayT    float64
	SegT    float64
	Segment *Segment // nil for perimeter points that struck no edge
	Heading float64
	Kind    RayKind
}

// Obstacle is a polyline of connected segments. A closed obstacle's last
// segment ends where its first begins.
type Obstacle struct {
	segments []Segment
	vertices []Point
	closed   bool
}

// NewObstacle creates an obstacle owning segs.
func NewObstacle(segs []Segment, closed bool) *Obstacle {
	o := &Obstacle{
		segments: segs,
		closed:   closed,
	}
	o.vertices = make([]Point, 0, len(segs)+1)
	for _, s := range segs {
		o.vertices = append(o.vertices, s.Start)
	}
	if !closed && len(segs) > 0 {
		o.vertices = append(o.vertices, segs[len(segs)-1].End)
	}
	return o
}

// NewPolyline creates an open obstacle through points.
func NewPolyline(points ...Point) *Obstacle {
	segs := make([]Segment, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		segs = append(segs, NewSegment(points[i], points[i+1]))
	}
	return NewObstacle(segs, false)
}

// NewPolygon creates a closed obstacle through points.
func NewPolygon(points ...Point) *Obstacle {
	segs := make([]Segment, 0, len(points))
	for i := range points {
		segs = append(segs, NewSegment(points[i], points[(i+1)%len(points)]))
	}
	return NewObstacle(segs, true)
}

// Segments returns the owned segments. Callers must not modify them.
func (o *Obstacle) Segments() []Segment {
	return o.segments
}

// Vertices returns segment start points, plus the final end point when the
// obstacle is open.
func (o *Obstacle) Vertices() []Point {
	return o.vertices
}

// Closed reports whether the obstacle is a closed loop.
func (o *Obstacle) Closed() bool {
	return o.closed
}

// Raycast returns the nearest hit along the ray among the obstacle's segments.
func (o *Obstacle) Raycast(origin, dir geom.Vec2) (RaycastHit, bool) {
	var closest RaycastHit
	found := false
	for i := range o.segments {
		hit, ok := o.segments[i].Raycast(origin, dir)
		if ok && (!found || hit.RayT < closest.RayT) {
			closest = hit
			found = true
		}
	}
	return closest, found
}

// Bounds returns the axis-aligned bounding box of the obstacle.
func (o *Obstacle) Bounds() (min, max Point) {
	if len(o.vertices) == 0 {
		return Point{}, Point{}
	}
	min, max = o.vertices[0], o.vertices[0]
	for _, v := range o.vertices[1:] {
		min = geom.V(math.Min(min.X, v.X), math.Min(min.Y, v.Y))
		max = geom.V(math.Max(max.X, v.X), math.Max(max.Y, v.Y))
	}
	return min, max
}
