package scene

import (
	"fmt"
	"math"
	"math/rand"

	"chosenoffset.com/lightcaster/internal/core/geom"
	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/render/lighting"
)

// World is a built scene ready to be cast and drawn.
type World struct {
	Name          string
	Width, Height float64
	Obstacles     []*shadows.Obstacle
	Lighting      *lighting.Manager
}

// Build turns the scene description into obstacles and lights. Random
// obstacles are drawn from the scene seed, so a scene always builds the same
// geometry.
func (s *Scene) Build() (*World, error) {
	w := &World{
		Name:     s.Name,
		Width:    s.Width,
		Height:   s.Height,
		Lighting: lighting.NewManager(),
	}
	w.Lighting.SetAmbientLight(s.Ambient)

	rng := rand.New(rand.NewSource(s.Seed))
	for i := range s.Obstacles {
		obs, err := s.buildObstacle(&s.Obstacles[i], rng)
		if err != nil {
			return nil, fmt.Errorf("obstacle %d (%s): %w", i, s.Obstacles[i].Type, err)
		}
		w.Obstacles = append(w.Obstacles, obs...)
	}

	if s.Grid != nil {
		grid := &shadows.Grid{
			Rows:     s.Grid.Rows,
			TileSize: s.Grid.TileSize,
			Origin:   s.Grid.Origin.point(),
		}
		w.Obstacles = append(w.Obstacles, shadows.CreateWallObstaclesFromGrid(grid)...)
	}

	for i := range s.Lights {
		l, err := s.buildLight(&s.Lights[i])
		if err != nil {
			return nil, fmt.Errorf("light %d (%s): %w", i, s.Lights[i].Name, err)
		}
		w.Lighting.AddLight(l)
	}

	return w, nil
}

func (s *Scene) buildLight(def *LightDef) (*lighting.Light, error) {
	fov := DefaultFOV
	if def.FOV != nil {
		fov = *def.FOV
	}
	intensity := DefaultIntensity
	if def.Intensity != nil {
		intensity = *def.Intensity
	}

	caster, err := shadows.NewCaster(shadows.Config{
		Position:   def.Position.point(),
		Radius:     def.Radius,
		Heading:    radians(def.Heading),
		FOV:        radians(fov),
		Resolution: radians(def.Resolution),
		Workers:    s.Workers,
	})
	if err != nil {
		return nil, err
	}

	col, err := lighting.ParseColor(def.Color)
	if err != nil {
		return nil, err
	}
	return lighting.NewLight(def.Name, caster, col, intensity), nil
}

func (s *Scene) buildObstacle(def *ObstacleDef, rng *rand.Rand) ([]*shadows.Obstacle, error) {
	switch def.Type {
	case TypeRect:
		return []*shadows.Obstacle{
			shadows.NewRectangle(def.Center.point(), def.Width, def.Height, radians(def.Rotation), !def.Corner),
		}, nil
	case TypePolygon:
		return []*shadows.Obstacle{shadows.NewPolygon(points(def.Points)...)}, nil
	case TypePolyline, TypeSegment:
		return []*shadows.Obstacle{shadows.NewPolyline(points(def.Points)...)}, nil
	case TypeRandom:
		return []*shadows.Obstacle{
			shadows.NewRandomPolygon(rng, def.Center.point(), def.Radius, def.Vertices, def.Variance),
		}, nil
	case TypeRandomLines:
		lines := make([]*shadows.Obstacle, 0, def.Count)
		for len(lines) < def.Count {
			a := geom.V(rng.Float64()*s.Width, rng.Float64()*s.Height)
			b := geom.V(rng.Float64()*s.Width, rng.Float64()*s.Height)
			if a == b {
				continue
			}
			lines = append(lines, shadows.NewPolyline(a, b))
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("unknown type %q", def.Type)
	}
}

func (v Vec) point() shadows.Point {
	return geom.V(v.X, v.Y)
}

func points(vs []Vec) []shadows.Point {
	ps := make([]shadows.Point, len(vs))
	for i, v := range vs {
		ps[i] = v.point()
	}
	return ps
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
