package shadows

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/lightcaster/internal/core/geom"
)

// AngleOffset is how far either side of an obstacle vertex the flanking
// rays are cast, so both sides of an occluding corner are sampled.
const AngleOffset = 0.0001

// minParallelRays is the ray count below which concurrent casting is not
// worth the goroutine overhead.
const minParallelRays = 64

// ray is a direction cast from the light.
type ray struct {
	dir     geom.Vec2 // unit length
	heading float64
	kind    RayKind
	offset  float64 // counter-clockwise distance from the start of the FOV
}

// generateRays builds the FOV boundary rays, three rays around every
// obstacle vertex and one ray per crossing and perimeter point. Rays that
// fall outside the field of view are dropped.
func (c *Caster) generateRays(vertices, crossings, perimeter []Point) []ray {
	start := c.heading - c.fov/2
	end := c.heading + c.fov/2

	rays := make([]ray, 0, 2+3*len(vertices)+len(crossings)+len(perimeter))
	rays = append(rays,
		ray{dir: geom.FromHeading(start), heading: geom.NormalizeAngle(start), kind: RayRegular, offset: 0},
		ray{dir: geom.FromHeading(end), heading: geom.NormalizeAngle(end), kind: RayRegular, offset: c.fov},
	)

	add := func(dir geom.Vec2, heading float64, kind RayKind) {
		offset := geom.AngleDifference(start, heading, geom.AngleCCW)
		if offset > c.fov {
			return
		}
		rays = append(rays, ray{dir: dir, heading: heading, kind: kind, offset: offset})
	}

	for _, v := range vertices {
		bearing := v.Sub(c.position).Heading()
		for _, d := range [...]float64{-AngleOffset, 0, AngleOffset} {
			h := geom.NormalizeAngle(bearing + d)
			add(geom.FromHeading(h), h, RayRegular)
		}
	}

	aimed := func(points []Point, kind RayKind) {
		for _, v := range points {
			rel := v.Sub(c.position)
			if rel.IsZero() {
				continue
			}
			dir := rel.Normalize()
			add(dir, dir.Heading(), kind)
		}
	}
	aimed(crossings, RayLineIntersection)
	aimed(perimeter, RayPerimeterIntersection)

	return rays
}

// sortRays orders rays by their sweep position across the field of view.
func sortRays(rays []ray) {
	sort.SliceStable(rays, func(i, j int) bool {
		return rays[i].offset < rays[j].offset
	})
}

// castRays finds the nearest hit for every ray. Each ray is independent, so
// with workers configured they are split across goroutines; results land at
// the ray's own index so ordering is preserved.
func (c *Caster) castRays(rays []ray, obstacles []*Obstacle) []RaycastHit {
	casts := make([]RaycastHit, len(rays))

	if c.workers < 2 || len(rays) < minParallelRays {
		for i := range rays {
			casts[i] = c.castRay(rays[i], obstacles)
		}
		return casts
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	chunk := (len(rays) + c.workers - 1) / c.workers
	for lo := 0; lo < len(rays); lo += chunk {
		hi := min(lo+chunk, len(rays))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				casts[i] = c.castRay(rays[i], obstacles)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return casts
}

// castRay returns the nearest hit along r within the view radius.
func (c *Caster) castRay(r ray, obstacles []*Obstacle) RaycastHit {
	var closest RaycastHit
	for _, o := range obstacles {
		hit, ok := o.Raycast(c.position, r.dir)
		if ok && (!closest.Hit || hit.RayT < closest.RayT) {
			closest = hit
		}
	}

	struck := closest.Segment
	if closest.Hit && closest.RayT > c.radius {
		closest = RaycastHit{}
	}
	closest.Heading = r.heading
	closest.Kind = r.kind

	// A ray aimed at a perimeter crossing can land a hair beyond the radius
	// or slip past the segment end; pin it to the circle.
	if r.kind == RayPerimeterIntersection && !closest.Hit {
		closest.Hit = true
		closest.Point = c.position.Add(r.dir.Scale(c.radius))
		closest.RayT = c.radius
		closest.Segment = struck
	}
	return closest
}

// stitch walks the sorted casts and inserts perimeter points wherever the
// boundary between two neighbours would otherwise cut straight across space
// that is lit up to the view radius.
func (c *Caster) stitch(rays []ray, casts []RaycastHit) []RaycastHit {
	out := make([]RaycastHit, 0, 2*len(casts))
	out = append(out, casts[0])

	for i := 1; i < len(casts); i++ {
		prev, cur := casts[i-1], casts[i]
		if needsFill(prev, cur) {
			out = c.fillPerimeter(out, prev, cur, rays[i].offset-rays[i-1].offset)
		}
		out = append(out, cur)
	}
	return out
}

// needsFill reports whether the arc between two neighbouring casts must be
// traced: either one reached the radius without a hit, or both cross the
// view circle on different segments.
func needsFill(prev, cur RaycastHit) bool {
	if !prev.Hit || !cur.Hit {
		return true
	}
	return prev.Kind == RayPerimeterIntersection &&
		cur.Kind == RayPerimeterIntersection &&
		(prev.Segment == nil || prev.Segment != cur.Segment)
}

// fillPerimeter appends evenly spaced points on the view circle between the
// headings of prev and cur, no further apart than the resolution. Endpoints
// that already lie on the circle are not repeated.
func (c *Caster) fillPerimeter(out []RaycastHit, prev, cur RaycastHit, span float64) []RaycastHit {
	if span <= 0 {
		return out
	}

	n := int(math.Ceil(span / c.resolution))
	step := span / float64(n)

	first, last := 0, n
	if c.onPerimeter(prev) {
		first = 1
	}
	if c.onPerimeter(cur) {
		last = n - 1
	}

	for k := first; k <= last; k++ {
		out = append(out, RaycastHit{
			Heading: geom.NormalizeAngle(prev.Heading + float64(k)*step),
			RayT:    c.radius,
			Kind:    RayPerimeterFill,
		})
	}
	return out
}

func (c *Caster) onPerimeter(h RaycastHit) bool {
	return !h.Hit || math.Abs(h.RayT-c.radius) <= geom.CastTolerance
}
