package lighting

import (
	"context"
	"fmt"
	"image/color"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"chosenoffset.com/lightcaster/internal/core/shadows"
)

// DefaultColor is the warm torch colour used when a light has none.
var DefaultColor = color.NRGBA{255, 200, 100, 255}

// Light is a visibility caster with the presentation attributes needed to
// draw it.
type Light struct {
	Name      string
	Color     color.NRGBA
	Intensity float64 // 0.0 to 1.0
	Caster    *shadows.Caster

	hits    []shadows.RaycastHit
	polygon []shadows.Point
}

// NewLight creates a light around caster.
func NewLight(name string, caster *shadows.Caster, col color.NRGBA, intensity float64) *Light {
	return &Light{
		Name:      name,
		Color:     col,
		Intensity: intensity,
		Caster:    caster,
	}
}

// Polygon returns the boundary computed by the last Update.
func (l *Light) Polygon() []shadows.Point {
	return l.polygon
}

// Hits returns the raw stitched results of the last Update.
func (l *Light) Hits() []shadows.RaycastHit {
	return l.hits
}

// Fan returns the closed visibility polygon anchored at the light.
func (l *Light) Fan() []shadows.Point {
	return shadows.Fan(l.Caster.Position(), l.polygon)
}

// Contains reports whether p lies in the lit region.
func (l *Light) Contains(p shadows.Point) bool {
	if len(l.polygon) == 0 {
		return false
	}
	return shadows.PointInPolygon(p, l.Fan())
}

// update recomputes the light against a shared obstacle snapshot.
func (l *Light) update(obstacles []*shadows.Obstacle, cands shadows.Candidates) {
	l.hits = l.Caster.TraceWith(obstacles, cands)
	l.polygon = l.Caster.Finalize(l.hits)
}

// Manager handles all light sources in a scene
type Manager struct {
	lights       []*Light
	ambientLight float64 // Global ambient light level (0.0 = pitch black, 1.0 = fully lit)
	active       int
	workers      int
}

// NewManager creates a new lighting manager
func NewManager() *Manager {
	return &Manager{
		lights:       make([]*Light, 0),
		ambientLight: 0.15,
		workers:      runtime.GOMAXPROCS(0),
	}
}

// SetAmbientLight sets the global ambient light level
func (m *Manager) SetAmbientLight(level float64) {
	m.ambientLight = level
}

// GetAmbientLight returns the current ambient light level
func (m *Manager) GetAmbientLight() float64 {
	return m.ambientLight
}

// SetWorkers limits how many lights are updated concurrently.
func (m *Manager) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	m.workers = n
}

// AddLight appends a light. The first light added becomes active.
func (m *Manager) AddLight(l *Light) {
	m.lights = append(m.lights, l)
}

// RemoveLight removes the light with the given name.
func (m *Manager) RemoveLight(name string) bool {
	for i, l := range m.lights {
		if l.Name != name {
			continue
		}
		m.lights = append(m.lights[:i], m.lights[i+1:]...)
		if m.active >= len(m.lights) {
			m.active = 0
		}
		return true
	}
	return false
}

// Lights returns all lights in insertion order.
func (m *Manager) Lights() []*Light {
	return m.lights
}

// Active returns the light under user control, or nil when there are none.
func (m *Manager) Active() *Light {
	if len(m.lights) == 0 {
		return nil
	}
	return m.lights[m.active]
}

// CycleActive moves control to the next light.
func (m *Manager) CycleActive() *Light {
	if len(m.lights) == 0 {
		return nil
	}
	m.active = (m.active + 1) % len(m.lights)
	return m.lights[m.active]
}

// Clear removes all lights (called when loading a new scene)
func (m *Manager) Clear() {
	m.lights = m.lights[:0]
	m.active = 0
}

// Update recomputes every light against obstacles. Candidate points are
// generated once and shared; lights are independent so they are computed
// concurrently.
func (m *Manager) Update(ctx context.Context, obstacles []*shadows.Obstacle) error {
	cands := shadows.GenerateCandidates(obstacles)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, l := range m.lights {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("update light %q: %w", l.Name, err)
			}
			l.update(obstacles, cands)
			return nil
		})
	}
	return g.Wait()
}

// Lit reports whether any light reaches p.
func (m *Manager) Lit(p shadows.Point) bool {
	for _, l := range m.lights {
		if l.Contains(p) {
			return true
		}
	}
	return false
}

// Brightness returns the light level at p: the ambient level plus each
// reaching light's intensity, falling off linearly to zero at its radius.
// The result is clamped to 1.
func (m *Manager) Brightness(p shadows.Point) float64 {
	level := m.ambientLight
	for _, l := range m.lights {
		if !l.Contains(p) {
			continue
		}
		falloff := 1 - p.Dist(l.Caster.Position())/l.Caster.Radius()
		if falloff > 0 {
			level += l.Intensity * falloff
		}
	}
	if level > 1 {
		level = 1
	}
	return level
}

// ParseColor parses a hex colour in RRGGBB or RRGGBBAA form, with or
// without a leading '#'. An empty string yields DefaultColor.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return DefaultColor, nil
	}

	c := color.NRGBA{A: 255}
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return color.NRGBA{}, fmt.Errorf("color %q: expected RRGGBB or RRGGBBAA", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}
