package geom

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Vec2 tests ---

func TestVecArithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(3, -4)

	if got := a.Add(b); got != V(4, -2) {
		t.Errorf("Add: expected (4,-2), got %v", got)
	}
	if got := a.Sub(b); got != V(-2, 6) {
		t.Errorf("Sub: expected (-2,6), got %v", got)
	}
	if got := a.AddXY(1, 1).SubXY(2, 2); got != V(0, 1) {
		t.Errorf("AddXY/SubXY: expected (0,1), got %v", got)
	}
	if got := b.Scale(2).Div(4); got != V(1.5, -2) {
		t.Errorf("Scale/Div: expected (1.5,-2), got %v", got)
	}
	if a != V(1, 2) {
		t.Errorf("receiver was mutated: %v", a)
	}
}

func TestVecMagnitude(t *testing.T) {
	v := V(3, 4)
	if v.Mag() != 5 {
		t.Errorf("expected magnitude 5, got %f", v.Mag())
	}
	if v.SqrMag() != 25 {
		t.Errorf("expected squared magnitude 25, got %f", v.SqrMag())
	}
	n := v.Normalize()
	if !approxEqual(n.Mag(), 1, tolerance) {
		t.Errorf("expected unit length, got %f", n.Mag())
	}
	if !n.ApproxEqual(V(0.6, 0.8), tolerance) {
		t.Errorf("expected (0.6,0.8), got %v", n)
	}
}

func TestVecHeading(t *testing.T) {
	tests := []struct {
		v    Vec2
		want float64
	}{
		{V(1, 0), 0},
		{V(0, 1), math.Pi / 2},
		{V(-1, 0), math.Pi},
		{V(0, -1), 3 * math.Pi / 2},
		{V(1, -1), 7 * math.Pi / 4},
	}
	for _, tt := range tests {
		got := tt.v.Heading()
		if !approxEqual(got, tt.want, tolerance) {
			t.Errorf("Heading(%v): expected %f, got %f", tt.v, tt.want, got)
		}
		if got < 0 || got >= TwoPi {
			t.Errorf("Heading(%v) = %f outside [0, 2π)", tt.v, got)
		}
	}
}

func TestVecRotate(t *testing.T) {
	r := V(1, 0).Rotate(math.Pi / 2)
	if !r.ApproxEqual(V(0, 1), tolerance) {
		t.Errorf("expected (0,1), got %v", r)
	}

	w := V(2, 0).WithHeading(math.Pi)
	if !w.ApproxEqual(V(-2, 0), tolerance) {
		t.Errorf("expected (-2,0), got %v", w)
	}

	f := FromHeading(-math.Pi / 2)
	if !f.ApproxEqual(V(0, -1), tolerance) {
		t.Errorf("expected (0,-1), got %v", f)
	}
}

// --- RayIntersection tests ---

func TestRayIntersection(t *testing.T) {
	tests := []struct {
		name   string
		p1, d1 Vec2
		p2, d2 Vec2
		wantT  float64
		wantS  float64
		wantOK bool
	}{
		{"vertical second ray", V(0, 0), V(1, 0), V(5, -5), V(0, 1), 5, 5, true},
		{"general", V(0, 0), V(1, 1).Normalize(), V(0, 2), V(1, 0), 2 * math.Sqrt2, 2, true},
		{"behind origin", V(0, 0), V(1, 0), V(-3, 4), V(0, -1), -3, 4, true},
		{"zero first direction", V(0, 0), V(0, 0), V(1, 1), V(1, 0), 0, 0, false},
		{"zero second direction", V(0, 0), V(1, 0), V(1, 1), V(0, 0), 0, 0, false},
		{"both vertical", V(0, 0), V(0, 1), V(3, 0), V(0, -1), 0, 0, false},
		{"both horizontal", V(0, 0), V(1, 0), V(0, 3), V(-1, 0), 0, 0, false},
		{"identical", V(0, 0), V(0.6, 0.8), V(5, 1), V(0.6, 0.8), 0, 0, false},
		{"opposite", V(0, 0), V(0.6, 0.8), V(5, 1), V(-0.6, -0.8), 0, 0, false},
		{"scaled parallel", V(0, 0), V(1, 1), V(5, 1), V(2, 2), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, s, ok := RayIntersection(tt.p1, tt.d1, tt.p2, tt.d2, RayTolerance)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (t=%f s=%f)", tt.wantOK, ok, ts, s)
			}
			if !ok {
				return
			}
			if !approxEqual(ts, tt.wantT, tolerance) || !approxEqual(s, tt.wantS, tolerance) {
				t.Errorf("expected (t,s)=(%f,%f), got (%f,%f)", tt.wantT, tt.wantS, ts, s)
			}
			a := tt.p1.Add(tt.d1.Scale(ts))
			b := tt.p2.Add(tt.d2.Scale(s))
			if !a.ApproxEqual(b, tolerance) {
				t.Errorf("scalars do not meet: %v vs %v", a, b)
			}
		})
	}
}

// --- SegmentIntersection tests ---

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name           string
		a1, b1, a2, b2 Vec2
		want           Vec2
		wantOK         bool
	}{
		{"crossing diagonals", V(0, 0), V(10, 10), V(0, 10), V(10, 0), V(5, 5), true},
		{"plus sign", V(-5, 0), V(5, 0), V(0, -5), V(0, 5), V(0, 0), true},
		{"crosses beyond first span", V(0, 0), V(1, 1), V(0, 10), V(10, 0), Vec2{}, false},
		{"crosses beyond second span", V(0, 0), V(10, 10), V(20, 0), V(15, 5), Vec2{}, false},
		{"crosses behind both starts", V(5, 5), V(10, 10), V(5, -5), V(10, -10), Vec2{}, false},
		{"parallel", V(0, 0), V(10, 0), V(0, 1), V(10, 1), Vec2{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.a1, tt.b1, tt.a2, tt.b2)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v (%v)", tt.wantOK, ok, got)
			}
			if ok && !got.ApproxEqual(tt.want, tolerance) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// --- Raycast tests ---

func TestRaycastProjectsOntoSegment(t *testing.T) {
	start, end := V(0, 5), V(10, 5)
	origin := V(5, 0)
	length := end.Sub(start).Mag()

	hits := 0
	for deg := 0; deg < 360; deg += 7 {
		dir := FromHeading(float64(deg) * math.Pi / 180)
		in, ok := Raycast(start, end, origin, dir, CastTolerance)
		if !ok {
			continue
		}
		hits++

		projected := origin.Add(dir.Scale(in.RayT))
		if !projected.ApproxEqual(in.Point, tolerance) {
			t.Errorf("deg %d: ray scalar projects to %v, point is %v", deg, projected, in.Point)
		}
		if in.SegT < -CastTolerance || in.SegT > length+CastTolerance {
			t.Errorf("deg %d: segment scalar %f outside [0,%f]", deg, in.SegT, length)
		}
		if in.RayT < 0 {
			t.Errorf("deg %d: negative ray scalar %f", deg, in.RayT)
		}
		if !approxEqual(in.Point.Y, 5, 1e-9) {
			t.Errorf("deg %d: hit %v is not on the segment line", deg, in.Point)
		}
	}
	if hits == 0 {
		t.Fatal("expected at least one hit")
	}
}

func TestRaycastRejects(t *testing.T) {
	start, end := V(0, 5), V(10, 5)

	if _, ok := Raycast(start, end, V(5, 0), V(0, -1), CastTolerance); ok {
		t.Error("expected no hit for a ray pointing away")
	}
	if _, ok := Raycast(start, end, V(20, 0), V(0, 1), CastTolerance); ok {
		t.Error("expected no hit for a ray passing beyond the segment end")
	}
	if _, ok := Raycast(start, end, V(5, 0), V(1, 0), CastTolerance); ok {
		t.Error("expected no hit for a parallel ray")
	}

	in, ok := Raycast(start, end, V(10, 0), V(0, 1), CastTolerance)
	if !ok {
		t.Fatal("expected a ray aimed at the endpoint to hit")
	}
	if !in.Point.ApproxEqual(end, tolerance) {
		t.Errorf("expected endpoint hit %v, got %v", end, in.Point)
	}
}

// --- SegmentCircleIntersection tests ---

func TestSegmentCircleIntersection(t *testing.T) {
	center := V(0, 0)
	radius := 5.0

	tests := []struct {
		name        string
		start, end  Vec2
		boundsCheck bool
		wantCount   int
	}{
		{"secant", V(-10, 0), V(10, 0), true, 2},
		{"tangent", V(-10, 5), V(10, 5), true, 1},
		{"miss", V(-10, 6), V(10, 6), true, 0},
		{"half inside", V(0, 0), V(10, 0), true, 1},
		{"fully inside", V(-1, 0), V(1, 0), true, 0},
		{"fully inside unbounded", V(-1, 0), V(1, 0), false, 2},
		{"vertical secant", V(3, -10), V(3, 10), true, 2},
		{"diagonal", V(-10, -10), V(10, 10), true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := SegmentCircleIntersection(tt.start, tt.end, center, radius, tt.boundsCheck)
			if len(pts) != tt.wantCount {
				t.Fatalf("expected %d points, got %d: %v", tt.wantCount, len(pts), pts)
			}
			for _, p := range pts {
				if !approxEqual(p.Dist(center), radius, tolerance) {
					t.Errorf("point %v lies %f from center, expected %f", p, p.Dist(center), radius)
				}
			}
		})
	}
}

func TestSegmentCircleIntersectionOffCenter(t *testing.T) {
	center := V(100, 100)
	pts := SegmentCircleIntersection(V(50, 120), V(350, 120), center, 200, true)
	if len(pts) != 1 {
		t.Fatalf("expected 1 point, got %d", len(pts))
	}
	if !approxEqual(pts[0].Dist(center), 200, tolerance) {
		t.Errorf("point %v is not on the circle", pts[0])
	}
	if pts[0].X < 50 || pts[0].X > 350 {
		t.Errorf("point %v outside segment span", pts[0])
	}
}

// --- AngleDifference tests ---

func TestAngleDifference(t *testing.T) {
	tests := []struct {
		a1, a2 float64
		mode   AngleMode
		want   float64
	}{
		{0, math.Pi / 2, AngleCCW, math.Pi / 2},
		{0, math.Pi / 2, AngleCW, 3 * math.Pi / 2},
		{0, math.Pi / 2, AngleMin, math.Pi / 2},
		{-math.Pi / 4, math.Pi / 4, AngleCCW, math.Pi / 2},
		{math.Pi / 4, -math.Pi / 4, AngleMin, math.Pi / 2},
		{7 * math.Pi / 4, math.Pi / 4, AngleCCW, math.Pi / 2},
		{0, math.Pi, AngleMin, math.Pi},
		{0, TwoPi - 1e-7, AngleCCW, 0},
	}

	for _, tt := range tests {
		got := AngleDifference(tt.a1, tt.a2, tt.mode)
		if !approxEqual(got, tt.want, tolerance) {
			t.Errorf("AngleDifference(%f, %f, %s): expected %f, got %f", tt.a1, tt.a2, tt.mode, tt.want, got)
		}
	}
}

func TestAngleDifferenceSameAngle(t *testing.T) {
	for _, a := range []float64{0, 1, -7, math.Pi, TwoPi, 100.25, -0.0001} {
		for _, mode := range []AngleMode{AngleMin, AngleCCW, AngleCW} {
			if got := AngleDifference(a, a, mode); got != 0 {
				t.Errorf("AngleDifference(%f, %f, %s) = %f, expected 0", a, a, mode, got)
			}
		}
	}
}

func TestAngleDifferenceDirectionsSum(t *testing.T) {
	for a1 := -7.0; a1 < 7; a1 += 0.37 {
		for a2 := -7.0; a2 < 7; a2 += 0.53 {
			sum := AngleDifference(a1, a2, AngleCW) + AngleDifference(a1, a2, AngleCCW)
			if !approxEqual(sum, 0, 1e-9) && !approxEqual(sum, TwoPi, 1e-9) {
				t.Errorf("cw+ccw for (%f, %f) = %f, expected 0 or 2π", a1, a2, sum)
			}
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	for _, a := range []float64{-10, -TwoPi, -1e-17, 0, 3, TwoPi, 50} {
		n := NormalizeAngle(a)
		if n < 0 || n >= TwoPi {
			t.Errorf("NormalizeAngle(%g) = %g outside [0, 2π)", a, n)
		}
	}
}
