// Package scene loads light and obstacle layouts from YAML files.
// Angles in scene files are in degrees; they are converted to radians when
// the scene is built.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is wrapped by every validation failure.
var ErrInvalidScene = errors.New("invalid scene")

// Obstacle types understood by Build.
const (
	TypeRect        = "rect"
	TypePolygon     = "polygon"
	TypePolyline    = "polyline"
	TypeSegment     = "segment"
	TypeRandom      = "random"
	TypeRandomLines = "random_lines"
)

// Defaults applied to lights that leave a field unset.
const (
	DefaultRadius     = 200.0
	DefaultFOV        = 90.0
	DefaultResolution = 1.0
	DefaultIntensity  = 1.0
)

// Scene is the top-level layout of a scene file.
type Scene struct {
	Name      string        `yaml:"name" json:"name"`
	Width     float64       `yaml:"width" json:"width"`
	Height    float64       `yaml:"height" json:"height"`
	Seed      int64         `yaml:"seed" json:"seed"`       // drives random obstacles
	Ambient   float64       `yaml:"ambient" json:"ambient"` // 0.0 = pitch black, 1.0 = fully lit
	Workers   int           `yaml:"workers" json:"workers"` // concurrent ray casting per light
	Lights    []LightDef    `yaml:"lights" json:"lights"`
	Obstacles []ObstacleDef `yaml:"obstacles" json:"obstacles"`
	Grid      *GridDef      `yaml:"grid,omitempty" json:"grid,omitempty"`
}

// LightDef describes one light.
type LightDef struct {
	Name       string   `yaml:"name" json:"name"`
	Position   Vec      `yaml:"position" json:"position"`
	Radius     float64  `yaml:"radius" json:"radius"`
	Heading    float64  `yaml:"heading" json:"heading"`         // degrees, 0 = +X, clockwise on screen
	FOV        *float64 `yaml:"fov,omitempty" json:"fov"`       // degrees
	Resolution float64  `yaml:"resolution" json:"resolution"`   // degrees between perimeter points
	Color      string   `yaml:"color" json:"color"`             // RRGGBB or RRGGBBAA
	Intensity  *float64 `yaml:"intensity,omitempty" json:"intensity"`
}

// ObstacleDef describes one obstacle. Which fields apply depends on Type.
type ObstacleDef struct {
	Type     string  `yaml:"type" json:"type"`
	Points   []Vec   `yaml:"points,omitempty" json:"points,omitempty"` // polygon, polyline, segment
	Center   Vec     `yaml:"center" json:"center"`                     // rect, random
	Width    float64 `yaml:"width,omitempty" json:"width,omitempty"`   // rect
	Height   float64 `yaml:"height,omitempty" json:"height,omitempty"` // rect
	Rotation float64 `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Corner   bool    `yaml:"corner,omitempty" json:"corner,omitempty"` // rect: center is the top-left corner
	Radius   float64 `yaml:"radius,omitempty" json:"radius,omitempty"` // random
	Vertices int     `yaml:"vertices,omitempty" json:"vertices,omitempty"`
	Variance float64 `yaml:"variance,omitempty" json:"variance,omitempty"`
	Count    int     `yaml:"count,omitempty" json:"count,omitempty"` // random_lines
}

// GridDef is a tile map whose '#' tiles become wall obstacles.
type GridDef struct {
	TileSize float64  `yaml:"tile_size" json:"tile_size"`
	Origin   Vec      `yaml:"origin" json:"origin"`
	Rows     []string `yaml:"rows" json:"rows"`
}

// Vec is a point written as a two element sequence, e.g. [400, 300].
type Vec struct {
	X, Y float64
}

// UnmarshalYAML decodes a [x, y] sequence.
func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	var xy []float64
	if err := node.Decode(&xy); err != nil {
		return fmt.Errorf("line %d: point must be [x, y]: %w", node.Line, err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point must have 2 coordinates, got %d", node.Line, len(xy))
	}
	v.X, v.Y = xy[0], xy[1]
	return nil
}

// MarshalYAML encodes v as a flow sequence.
func (v Vec) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range []float64{v.X, v.Y} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: strconv.FormatFloat(f, 'g', -1, 64),
		})
	}
	return node, nil
}

// MarshalJSON encodes v as [x, y].
func (v Vec) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{v.X, v.Y})
}

// DefaultScene returns the built-in demo: a few rotated boxes, a random
// blob and some stray walls around a single forward-facing light.
func DefaultScene() *Scene {
	fov := DefaultFOV
	s := &Scene{
		Name:    "demo",
		Width:   800,
		Height:  600,
		Seed:    1,
		Ambient: 0.15,
		Lights: []LightDef{
			{
				Name:       "torch",
				Position:   Vec{400, 300},
				Radius:     DefaultRadius,
				Heading:    315,
				FOV:        &fov,
				Resolution: DefaultResolution,
				Color:      "ff000080",
			},
		},
		Obstacles: []ObstacleDef{
			{Type: TypeRect, Center: Vec{666, 300}, Width: 100, Height: 100, Rotation: 57.3},
			{Type: TypeRect, Center: Vec{200, 200}, Width: 100, Height: 50, Rotation: 30},
			{Type: TypeRect, Center: Vec{400, 50}, Width: 100, Height: 100, Rotation: 45, Corner: true},
			{Type: TypeRandom, Center: Vec{450, 300}, Radius: 80, Vertices: 6, Variance: 20},
			{Type: TypeRandomLines, Count: 4},
		},
	}
	s.applyDefaults()
	return s
}

// Load reads and validates a scene file. A scene without a name is named
// after the file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}

	s, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates scene YAML.
func Parse(data []byte) (*Scene, error) {
	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func decode(data []byte) (*Scene, error) {
	// Start with defaults
	s := &Scene{Width: 800, Height: 600, Ambient: 0.15}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scene YAML: %w", err)
	}
	s.applyDefaults()
	return s, nil
}

// applyDefaults fills unset light fields.
func (s *Scene) applyDefaults() {
	for i := range s.Lights {
		l := &s.Lights[i]
		if l.Name == "" {
			l.Name = fmt.Sprintf("light%d", i+1)
		}
		if l.Radius == 0 {
			l.Radius = DefaultRadius
		}
		if l.FOV == nil {
			fov := DefaultFOV
			l.FOV = &fov
		}
		if l.Resolution == 0 {
			l.Resolution = DefaultResolution
		}
		if l.Intensity == nil {
			intensity := DefaultIntensity
			l.Intensity = &intensity
		}
	}
}

// Validate checks the scene for values the caster or Build would reject.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %gx%g", ErrInvalidScene, s.Width, s.Height)
	}
	if s.Ambient < 0 || s.Ambient > 1 {
		return fmt.Errorf("%w: ambient must be within [0, 1], got %g", ErrInvalidScene, s.Ambient)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidScene, s.Workers)
	}
	if len(s.Lights) == 0 {
		return fmt.Errorf("%w: at least one light is required", ErrInvalidScene)
	}

	names := make(map[string]bool, len(s.Lights))
	for i := range s.Lights {
		l := &s.Lights[i]
		if err := validateLight(l); err != nil {
			return fmt.Errorf("%w: light %d (%s): %v", ErrInvalidScene, i, l.Name, err)
		}
		if names[l.Name] {
			return fmt.Errorf("%w: light %d: duplicate name %q", ErrInvalidScene, i, l.Name)
		}
		names[l.Name] = true
	}

	for i := range s.Obstacles {
		if err := validateObstacle(&s.Obstacles[i]); err != nil {
			return fmt.Errorf("%w: obstacle %d (%s): %v", ErrInvalidScene, i, s.Obstacles[i].Type, err)
		}
	}

	if s.Grid != nil {
		if s.Grid.TileSize <= 0 {
			return fmt.Errorf("%w: grid: invalid tile size %g", ErrInvalidScene, s.Grid.TileSize)
		}
		if len(s.Grid.Rows) == 0 {
			return fmt.Errorf("%w: grid: no rows", ErrInvalidScene)
		}
	}
	return nil
}

func validateLight(l *LightDef) error {
	if !(l.Radius > 0) || math.IsInf(l.Radius, 0) {
		return fmt.Errorf("radius must be positive, got %g", l.Radius)
	}
	if !(l.Resolution > 0) || math.IsInf(l.Resolution, 0) {
		return fmt.Errorf("resolution must be positive, got %g", l.Resolution)
	}
	if l.FOV != nil && (math.IsNaN(*l.FOV) || *l.FOV < 0) {
		return fmt.Errorf("fov must not be negative, got %g", *l.FOV)
	}
	if l.Intensity != nil && (*l.Intensity < 0 || *l.Intensity > 1) {
		return fmt.Errorf("intensity must be within [0, 1], got %g", *l.Intensity)
	}
	return nil
}

func validateObstacle(o *ObstacleDef) error {
	switch o.Type {
	case TypeRect:
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("invalid size %gx%g", o.Width, o.Height)
		}
	case TypePolygon:
		if len(o.Points) < 3 {
			return fmt.Errorf("needs at least 3 points, got %d", len(o.Points))
		}
	case TypePolyline:
		if len(o.Points) < 2 {
			return fmt.Errorf("needs at least 2 points, got %d", len(o.Points))
		}
	case TypeSegment:
		if len(o.Points) != 2 {
			return fmt.Errorf("needs exactly 2 points, got %d", len(o.Points))
		}
	case TypeRandom:
		if o.Radius <= 0 {
			return fmt.Errorf("radius must be positive, got %g", o.Radius)
		}
		if o.Vertices < 3 {
			return fmt.Errorf("needs at least 3 vertices, got %d", o.Vertices)
		}
		if o.Variance < 0 || o.Variance >= 2*o.Radius {
			return fmt.Errorf("variance must be within [0, %g), got %g", 2*o.Radius, o.Variance)
		}
	case TypeRandomLines:
		if o.Count <= 0 {
			return fmt.Errorf("count must be positive, got %d", o.Count)
		}
	case "":
		return errors.New("type is required")
	default:
		return fmt.Errorf("unknown type %q", o.Type)
	}

	// Zero-length edges have no direction.
	for i := 1; i < len(o.Points); i++ {
		if o.Points[i] == o.Points[i-1] {
			return fmt.Errorf("point %d repeats the previous point", i)
		}
	}
	if o.Type == TypePolygon && o.Points[0] == o.Points[len(o.Points)-1] {
		return errors.New("last point repeats the first; polygons close automatically")
	}
	return nil
}
