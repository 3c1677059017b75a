package shadows

import (
	"errors"
	"fmt"
	"math"

	"chosenoffset.com/lightcaster/internal/core/geom"
)

// Configuration errors returned by NewCaster and the setters.
var (
	ErrInvalidRadius     = errors.New("radius must be a positive finite number")
	ErrInvalidFOV        = errors.New("field of view must be a non-negative angle")
	ErrInvalidResolution = errors.New("resolution must be a positive finite number")
)

// Config holds the parameters a Caster starts with.
type Config struct {
	Position Point
	Radius   float64
	Heading  float64 // radians
	FOV      float64 // full cone width in radians, clamped to 2π
	// Resolution is the largest angular step, in radians, between two
	// synthesized points on the view circle.
	Resolution float64
	// Workers > 1 casts rays concurrently. Output is unchanged.
	Workers int
}

// Caster computes the region visible from a point light. A Caster holds no
// state between calls besides its parameters; it is not safe to mutate it
// while a computation is in flight.
type Caster struct {
	position   Point
	radius     float64
	heading    float64
	fov        float64
	resolution float64
	workers    int
}

// NewCaster validates cfg and creates a Caster.
func NewCaster(cfg Config) (*Caster, error) {
	c := &Caster{position: cfg.Position}
	if err := c.SetRadius(cfg.Radius); err != nil {
		return nil, err
	}
	if err := c.SetFOV(cfg.FOV); err != nil {
		return nil, err
	}
	if err := c.SetResolution(cfg.Resolution); err != nil {
		return nil, err
	}
	c.SetHeading(cfg.Heading)
	c.SetWorkers(cfg.Workers)
	return c, nil
}

// Position returns the light position.
func (c *Caster) Position() Point { return c.position }

// Radius returns the view radius.
func (c *Caster) Radius() float64 { return c.radius }

// Heading returns the view direction in [0, 2π).
func (c *Caster) Heading() float64 { return c.heading }

// FOV returns the full field of view angle.
func (c *Caster) FOV() float64 { return c.fov }

// Resolution returns the perimeter fill step.
func (c *Caster) Resolution() float64 { return c.resolution }

// SetRadius sets the view radius.
func (c *Caster) SetRadius(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("set radius %g: %w", r, ErrInvalidRadius)
	}
	c.radius = r
	return nil
}

// SetFOV sets the field of view, clamping it to a full turn.
func (c *Caster) SetFOV(fov float64) error {
	if math.IsNaN(fov) || fov < 0 {
		return fmt.Errorf("set fov %g: %w", fov, ErrInvalidFOV)
	}
	c.fov = math.Min(geom.TwoPi, fov)
	return nil
}

// SetResolution sets the perimeter fill step.
func (c *Caster) SetResolution(res float64) error {
	if !(res > 0) || math.IsInf(res, 0) {
		return fmt.Errorf("set resolution %g: %w", res, ErrInvalidResolution)
	}
	c.resolution = res
	return nil
}

// SetHeading sets the view direction.
func (c *Caster) SetHeading(rad float64) {
	c.heading = geom.NormalizeAngle(rad)
}

// SetPosition moves the light to p.
func (c *Caster) SetPosition(p Point) {
	c.position = p
}

// SetWorkers sets how many goroutines cast rays. Values below 2 cast
// sequentially.
func (c *Caster) SetWorkers(n int) {
	c.workers = n
}

// FaceTowards points the light at target. Facing its own position leaves
// the heading at 0.
func (c *Caster) FaceTowards(target Point) {
	c.heading = target.Sub(c.position).Heading()
}

// Move translates the light by delta.
func (c *Caster) Move(delta geom.Vec2) {
	c.position = c.position.Add(delta)
}

// ComputeVisibility returns the boundary of the region visible from the
// light, ordered from the start of the field of view to its end. Drawing a
// fan from the light position through these points fills the lit area.
func (c *Caster) ComputeVisibility(obstacles []*Obstacle) []Point {
	return c.Finalize(c.Trace(obstacles))
}

// ComputeVisibilityWith is ComputeVisibility using candidates generated
// beforehand from the same obstacles.
func (c *Caster) ComputeVisibilityWith(obstacles []*Obstacle, cands Candidates) []Point {
	return c.Finalize(c.TraceWith(obstacles, cands))
}

// Trace runs the sweep and returns the stitched results before they are
// reduced to points, for debug drawing of the raw hits.
func (c *Caster) Trace(obstacles []*Obstacle) []RaycastHit {
	return c.TraceWith(obstacles, GenerateCandidates(obstacles))
}

// TraceWith is Trace using pre-generated candidates.
func (c *Caster) TraceWith(obstacles []*Obstacle, cands Candidates) []RaycastHit {
	vertices, crossings, perimeter := c.filterVertices(cands.Vertices, cands.Intersections, c.perimeterVertices(obstacles))

	rays := c.generateRays(vertices, crossings, perimeter)
	sortRays(rays)

	casts := c.castRays(rays, obstacles)
	return c.stitch(rays, casts)
}

// Finalize reduces stitched results to boundary points: the hit point when
// there is one, else the point on the view circle at the result's heading.
func (c *Caster) Finalize(hits []RaycastHit) []Point {
	points := make([]Point, len(hits))
	for i, h := range hits {
		if h.Hit {
			points[i] = h.Point
		} else {
			points[i] = c.perimeterPoint(h.Heading)
		}
	}
	return points
}

func (c *Caster) perimeterPoint(heading float64) Point {
	return c.position.Add(geom.FromHeading(heading).Scale(c.radius))
}

// Candidates are the obstacle-derived points rays are aimed at. They depend
// only on the obstacles, so lights sharing a snapshot can share them.
type Candidates struct {
	Vertices      []Point // every obstacle vertex
	Intersections []Point // crossings between segments of different obstacles
}

// GenerateCandidates collects obstacle vertices and the points where
// segments of different obstacles cross.
func GenerateCandidates(obstacles []*Obstacle) Candidates {
	type taggedSegment struct {
		seg   *Segment
		group int
	}

	var cands Candidates
	var segs []taggedSegment
	for group, o := range obstacles {
		cands.Vertices = append(cands.Vertices, o.Vertices()...)
		owned := o.Segments()
		for i := range owned {
			segs = append(segs, taggedSegment{seg: &owned[i], group: group})
		}
	}

	for i := range segs {
		for j := i + 1; j < len(segs); j++ {
			if segs[i].group == segs[j].group {
				continue
			}
			if p, ok := segs[i].seg.Intersects(segs[j].seg); ok {
				cands.Intersections = append(cands.Intersections, p)
			}
		}
	}
	return cands
}

// perimeterVertices returns where obstacle segments cross the view circle.
func (c *Caster) perimeterVertices(obstacles []*Obstacle) []Point {
	var points []Point
	for _, o := range obstacles {
		for _, s := range o.Segments() {
			points = append(points, geom.SegmentCircleIntersection(s.Start, s.End, c.position, c.radius, true)...)
		}
	}
	return points
}

// filterVertices keeps candidates inside the view radius and the field of
// view. Perimeter points are on the radius by construction, so only their
// angle is checked.
func (c *Caster) filterVertices(vertices, crossings, perimeter []Point) ([]Point, []Point, []Point) {
	inRange := func(v Point) bool {
		return v.Dist(c.position) <= c.radius && c.inCone(v)
	}
	return filterPoints(vertices, inRange), filterPoints(crossings, inRange), filterPoints(perimeter, c.inCone)
}

func (c *Caster) inCone(v Point) bool {
	bearing := v.Sub(c.position).Heading()
	return geom.AngleDifference(c.heading, bearing, geom.AngleMin) <= c.fov/2
}

func filterPoints(points []Point, keep func(Point) bool) []Point {
	kept := make([]Point, 0, len(points))
	for _, p := range points {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	return kept
}
