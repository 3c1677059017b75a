package shadows

import (
	"math"
	"math/rand"
	"testing"

	"chosenoffset.com/lightcaster/internal/core/geom"
)

func TestNewSegment(t *testing.T) {
	s := NewSegment(geom.V(1, 1), geom.V(4, 5))
	if s.Length != 5 {
		t.Errorf("Expected length 5, got %f", s.Length)
	}
	if !s.Dir.ApproxEqual(geom.V(0.6, 0.8), tolerance) {
		t.Errorf("Expected direction (0.6,0.8), got %v", s.Dir)
	}
}

func TestSegmentRaycastReferencesItself(t *testing.T) {
	s := NewSegment(geom.V(10, -5), geom.V(10, 5))
	hit, ok := s.Raycast(geom.V(0, 0), geom.V(1, 0))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if !hit.Hit || hit.Segment != &s {
		t.Errorf("Expected hit referencing the segment, got %+v", hit)
	}
	if math.Abs(hit.RayT-10) > tolerance || math.Abs(hit.SegT-5) > tolerance {
		t.Errorf("Expected rayT 10 and segT 5, got %f and %f", hit.RayT, hit.SegT)
	}

	if _, ok := s.Raycast(geom.V(0, 0), geom.V(-1, 0)); ok {
		t.Error("Expected no hit behind the origin")
	}
}

func TestObstacleVertices(t *testing.T) {
	open := NewPolyline(geom.V(0, 0), geom.V(10, 0), geom.V(10, 10))
	if open.Closed() {
		t.Error("Polyline should be open")
	}
	if len(open.Segments()) != 2 {
		t.Errorf("Expected 2 segments, got %d", len(open.Segments()))
	}
	if got := open.Vertices(); len(got) != 3 || got[2] != geom.V(10, 10) {
		t.Errorf("Expected 3 vertices ending at (10,10), got %v", got)
	}

	closed := NewPolygon(geom.V(0, 0), geom.V(10, 0), geom.V(10, 10))
	if !closed.Closed() {
		t.Error("Polygon should be closed")
	}
	segs := closed.Segments()
	if len(segs) != 3 {
		t.Fatalf("Expected 3 segments, got %d", len(segs))
	}
	for i := range segs {
		if segs[i].End != segs[(i+1)%len(segs)].Start {
			t.Errorf("Segment %d does not join the next one", i)
		}
	}
	if len(closed.Vertices()) != 3 {
		t.Errorf("Expected 3 vertices, got %d", len(closed.Vertices()))
	}
}

func TestObstacleRaycastNearest(t *testing.T) {
	box := NewRectangle(geom.V(20, 0), 10, 10, 0, true)

	hit, ok := box.Raycast(geom.V(0, 0), geom.V(1, 0))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if !hit.Point.ApproxEqual(geom.V(15, 0), tolerance) {
		t.Errorf("Expected nearest hit at (15,0), got %v", hit.Point)
	}
	if hit.Segment == nil || hit.Segment.Start.X != 15 {
		t.Errorf("Expected the near face, got %+v", hit.Segment)
	}

	if _, ok := box.Raycast(geom.V(0, 0), geom.V(0, 1)); ok {
		t.Error("Expected a miss when aiming away")
	}
}

func TestObstacleBounds(t *testing.T) {
	o := NewPolyline(geom.V(3, -1), geom.V(-2, 4), geom.V(5, 2))
	min, max := o.Bounds()
	if min != geom.V(-2, -1) || max != geom.V(5, 4) {
		t.Errorf("Expected bounds (-2,-1)-(5,4), got %v-%v", min, max)
	}
}

func TestNewRectangle(t *testing.T) {
	tests := []struct {
		name     string
		rect     *Obstacle
		expected []Point
	}{
		{
			name:     "centred",
			rect:     NewRectangle(geom.V(0, 0), 20, 10, 0, true),
			expected: []Point{geom.V(-10, -5), geom.V(10, -5), geom.V(10, 5), geom.V(-10, 5)},
		},
		{
			name:     "top-left anchored",
			rect:     NewRectangle(geom.V(0, 0), 20, 10, 0, false),
			expected: []Point{geom.V(0, 0), geom.V(20, 0), geom.V(20, 10), geom.V(0, 10)},
		},
		{
			name:     "rotated quarter turn",
			rect:     NewRectangle(geom.V(0, 0), 20, 10, math.Pi/2, true),
			expected: []Point{geom.V(5, -10), geom.V(5, 10), geom.V(-5, 10), geom.V(-5, -10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rect.Vertices()
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d vertices, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if !got[i].ApproxEqual(tt.expected[i], tolerance) {
					t.Errorf("Vertex %d: expected %v, got %v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestNewRandomPolygon(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	center := geom.V(50, 50)
	poly := NewRandomPolygon(rng, center, 20, 9, 6)

	if !poly.Closed() {
		t.Error("Random polygon should be closed")
	}
	verts := poly.Vertices()
	if len(verts) != 9 {
		t.Fatalf("Expected 9 vertices, got %d", len(verts))
	}
	for i, v := range verts {
		if d := v.Dist(center); d < 17-tolerance || d > 23+tolerance {
			t.Errorf("Vertex %d at distance %f, expected within [17,23]", i, d)
		}
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{geom.V(0, 0), geom.V(10, 0), geom.V(10, 10), geom.V(0, 10)}

	if !PointInPolygon(geom.V(5, 5), square) {
		t.Error("Expected (5,5) inside")
	}
	if PointInPolygon(geom.V(15, 5), square) {
		t.Error("Expected (15,5) outside")
	}
	if PointInPolygon(geom.V(5, 5), nil) {
		t.Error("Expected empty polygon to contain nothing")
	}
}

func TestPolygonArea(t *testing.T) {
	square := []Point{geom.V(0, 0), geom.V(10, 0), geom.V(10, 10), geom.V(0, 10)}
	if a := PolygonArea(square); a != 100 {
		t.Errorf("Expected area 100, got %f", a)
	}

	reversed := []Point{square[3], square[2], square[1], square[0]}
	if a := PolygonArea(reversed); a != 100 {
		t.Errorf("Expected winding to be ignored, got %f", a)
	}
}

func TestIsFacingPoint(t *testing.T) {
	seg := NewSegment(geom.V(0, 0), geom.V(10, 0))
	if !IsFacingPoint(seg, geom.V(5, 5)) {
		t.Error("Expected segment to face (5,5)")
	}
	if IsFacingPoint(seg, geom.V(5, -5)) {
		t.Error("Expected segment to face away from (5,-5)")
	}
}

func TestRayKindString(t *testing.T) {
	kinds := map[RayKind]string{
		RayRegular:               "regular",
		RayLineIntersection:      "lineIntersection",
		RayPerimeterIntersection: "perimeterIntersection",
		RayPerimeterFill:         "perimeterFill",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
