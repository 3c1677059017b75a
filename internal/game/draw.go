package game

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"chosenoffset.com/lightcaster/internal/core/geom"
	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/render"
	"chosenoffset.com/lightcaster/internal/render/lighting"
)

var (
	backgroundColor = color.NRGBA{24, 24, 28, 255}
	obstacleColor   = color.NRGBA{100, 100, 100, 255}
	outlineColor    = color.NRGBA{160, 160, 160, 255}
	hudColor        = color.NRGBA{230, 230, 230, 255}
	debugEdgeColor  = color.NRGBA{80, 160, 255, 255}
)

// markerSize is the side of the square image holding the facing arrow.
const markerSize = 24

// Draw renders the scene and the HUD to the screen.
func (g *Game) Draw(screen render.Image) {
	g.tickFPS(time.Now())
	g.FrameCount++

	screen.Fill(backgroundColor)

	// World outline
	x0, y0 := g.Camera.ToScreen(shadows.Point{})
	x1, y1 := g.Camera.ToScreen(shadows.Point{X: g.World.Width, Y: g.World.Height})
	g.Renderer.FillRect(screen, x0, y0, x1-x0, y1-y0, ambientColor(g.World.Lighting.GetAmbientLight()))

	for _, l := range g.World.Lighting.Lights() {
		g.drawLight(screen, l)
	}
	g.drawObstacles(screen)

	if g.Debug {
		for _, l := range g.World.Lighting.Lights() {
			g.drawDebug(screen, l)
		}
	}
	g.drawMarkers(screen)

	g.drawUI(screen)
	g.drawHUD(screen)
}

// ambientColor shades the world floor by the ambient level.
func ambientColor(level float64) color.NRGBA {
	v := uint8(40 + 120*math.Max(0, math.Min(1, level)))
	return color.NRGBA{v, v, v, 255}
}

func (g *Game) drawLight(screen render.Image, l *lighting.Light) {
	fan := l.Fan()
	if len(fan) < 3 {
		return
	}
	pts := make([]geom.Vec2, len(fan))
	for i, p := range fan {
		pts[i] = g.Camera.ToScreenPoint(p)
	}
	g.Renderer.FillPolygon(screen, pts, lightFill(l.Color, l.Intensity))
}

// lightFill scales the colour's alpha by the light intensity.
func lightFill(clr color.NRGBA, intensity float64) color.NRGBA {
	clr.A = uint8(float64(clr.A) * math.Max(0, math.Min(1, intensity)))
	return clr
}

func (g *Game) drawObstacles(screen render.Image) {
	width := float32(math.Max(1, 2*g.Camera.Scale))
	for _, o := range g.World.Obstacles {
		if o.Closed() {
			verts := o.Vertices()
			pts := make([]geom.Vec2, len(verts))
			for i, v := range verts {
				pts[i] = g.Camera.ToScreenPoint(v)
			}
			g.Renderer.FillPolygon(screen, pts, obstacleColor)
		}
		for _, seg := range o.Segments() {
			sx, sy := g.Camera.ToScreen(seg.Start)
			ex, ey := g.Camera.ToScreen(seg.End)
			g.Renderer.StrokeLine(screen, sx, sy, ex, ey, width, outlineColor)
		}
	}
}

// drawDebug shows the view circle, the field of view edges and every raw
// ray result coloured by kind.
func (g *Game) drawDebug(screen render.Image, l *lighting.Light) {
	c := l.Caster
	cx, cy := g.Camera.ToScreen(c.Position())
	r := float32(c.Radius() * g.Camera.Scale)
	g.Renderer.StrokeCircle(screen, cx, cy, r, 1, debugEdgeColor)

	if c.FOV() < 2*math.Pi {
		start := c.Heading() - c.FOV()/2
		for _, a := range []float64{start, start + c.FOV()} {
			ex, ey := g.Camera.ToScreen(c.Position().Add(geom.FromHeading(a).Scale(c.Radius())))
			g.Renderer.StrokeLine(screen, cx, cy, ex, ey, 1, debugEdgeColor)
		}
	}

	for _, h := range l.Hits() {
		hx, hy := g.Camera.ToScreen(h.Point)
		g.Renderer.FillCircle(screen, hx, hy, 3, kindColor(h.Kind))
	}
}

func kindColor(k shadows.RayKind) color.NRGBA {
	switch k {
	case shadows.RayLineIntersection:
		return color.NRGBA{255, 0, 255, 255}
	case shadows.RayPerimeterIntersection:
		return color.NRGBA{0, 200, 255, 255}
	case shadows.RayPerimeterFill:
		return color.NRGBA{0, 255, 120, 255}
	default:
		return color.NRGBA{255, 0, 0, 255}
	}
}

// drawMarkers draws a facing arrow at each light. Inactive lights are faded.
func (g *Game) drawMarkers(screen render.Image) {
	if g.marker == nil {
		g.marker = g.buildMarker()
	}
	active := g.World.Lighting.Active()
	for _, l := range g.World.Lighting.Lights() {
		x, y := g.Camera.ToScreen(l.Caster.Position())
		opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
		opts.GeoM.Translate(-markerSize/2, -markerSize/2)
		opts.GeoM.Rotate(l.Caster.Heading())
		opts.GeoM.Translate(float64(x), float64(y))
		if l != active {
			opts.Alpha = 0.5
		}
		screen.DrawImage(g.marker, opts)
	}
}

// buildMarker renders a white arrow pointing along +X.
func (g *Game) buildMarker() render.Image {
	if g.whiteImg == nil {
		g.whiteImg = g.Renderer.NewImage(1, 1)
		g.whiteImg.Fill(color.White)
	}
	img := g.Renderer.NewImage(markerSize, markerSize)
	s := float32(markerSize)
	vertices := []render.Vertex{
		{DstX: s, DstY: s / 2, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: s / 4, DstY: s / 8, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: s / 4, DstY: s * 7 / 8, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	img.DrawTriangles(vertices, []uint16{0, 1, 2}, g.whiteImg, &render.DrawTrianglesOptions{AntiAlias: true})
	return img
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	y := 50.0
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 20, int(y), color.NRGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}
}

func (g *Game) drawHUD(screen render.Image) {
	lines := []string{fmt.Sprintf("%s  FPS: %.0f", g.World.Name, g.fps)}
	if l := g.World.Lighting.Active(); l != nil {
		c := l.Caster
		lines = append(lines, fmt.Sprintf("%s  radius %.0f  fov %.0f°  points %d",
			l.Name, c.Radius(), c.FOV()*180/math.Pi, len(l.Polygon())))
	}
	if g.Paused {
		lines = append(lines, "PAUSED")
	}

	y := 8
	for _, line := range lines {
		g.Renderer.DrawText(screen, line, 8, y, hudColor, 1.0)
		_, h := g.Renderer.MeasureText(line, 1.0)
		y += h + 4
	}

	help := "WASD move  mouse aim  -/= radius  [/] fov  Tab light  N scene  R reload  Z debug  X pause"
	tw, th := g.Renderer.MeasureText(help, 1.0)
	g.Renderer.DrawText(screen, help, g.ScreenWidth-tw-8, g.ScreenHeight-th-8, hudColor, 1.0)
}
