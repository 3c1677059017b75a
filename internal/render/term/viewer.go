package term

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/lightcaster/internal/core/geom"
	"chosenoffset.com/lightcaster/internal/render/lighting"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

const (
	frameInterval = 33 * time.Millisecond // ~30 FPS
	radiusScale   = 1.1
	fovStep       = math.Pi / 36
	statusRows    = 1
)

// Viewer runs a scene in a terminal screen.
type Viewer struct {
	screen tcell.Screen
	world  *scene.World
	vp     Viewport
	paused bool
	status string
}

// NewViewer creates a viewer drawing w onto an initialized screen.
func NewViewer(screen tcell.Screen, w *scene.World) *Viewer {
	v := &Viewer{screen: screen, world: w}
	v.resize()
	return v
}

// Run polls input and redraws until the user quits or ctx is done. The
// caller owns the screen and must Fini it.
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	if err := v.frame(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !v.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := v.frame(ctx); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}

// frame recomputes lighting and redraws the screen.
func (v *Viewer) frame(ctx context.Context) error {
	if !v.paused {
		if err := v.world.Lighting.Update(ctx, v.world.Obstacles); err != nil {
			return fmt.Errorf("update lighting: %w", err)
		}
	}
	v.draw()
	return nil
}

func (v *Viewer) resize() {
	cols, rows := v.screen.Size()
	v.vp = NewViewport(v.world.Width, v.world.Height, cols, rows-statusRows)
}

// handleEvent applies one input event. It returns false when the viewer
// should exit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		if l := v.world.Lighting.Active(); l != nil && !v.paused {
			l.Caster.FaceTowards(v.vp.Center(x, y))
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.resize()
	}
	return true
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		if l := v.world.Lighting.CycleActive(); l != nil {
			v.status = "controlling " + l.Name
		}
		return true
	case tcell.KeyUp:
		v.move(0, -1)
	case tcell.KeyDown:
		v.move(0, 1)
	case tcell.KeyLeft:
		v.move(-1, 0)
	case tcell.KeyRight:
		v.move(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'x':
			v.paused = !v.paused
		case 'w':
			v.move(0, -1)
		case 's':
			v.move(0, 1)
		case 'a':
			v.move(-1, 0)
		case 'd':
			v.move(1, 0)
		case '-':
			v.scaleRadius(1 / radiusScale)
		case '=', '+':
			v.scaleRadius(radiusScale)
		case '[':
			v.stepFOV(-fovStep)
		case ']':
			v.stepFOV(fovStep)
		}
	}
	return true
}

// move shifts the active light by whole cells.
func (v *Viewer) move(dx, dy float64) {
	l := v.world.Lighting.Active()
	if l == nil || v.paused {
		return
	}
	l.Caster.Move(geom.V(dx*v.vp.CellW, dy*v.vp.CellH))
	p := l.Caster.Position()
	p.X = math.Max(0, math.Min(v.world.Width, p.X))
	p.Y = math.Max(0, math.Min(v.world.Height, p.Y))
	l.Caster.SetPosition(p)
}

func (v *Viewer) scaleRadius(f float64) {
	if l := v.world.Lighting.Active(); l != nil && !v.paused {
		if err := l.Caster.SetRadius(l.Caster.Radius() * f); err != nil {
			log.Printf("Failed to set radius: %v", err)
		}
	}
}

func (v *Viewer) stepFOV(d float64) {
	if l := v.world.Lighting.Active(); l != nil && !v.paused {
		if err := l.Caster.SetFOV(math.Max(0, l.Caster.FOV()+d)); err != nil {
			log.Printf("Failed to set fov: %v", err)
		}
	}
}

func (v *Viewer) draw() {
	v.screen.Clear()
	cells := Rasterize(v.world, v.vp)
	for row, line := range cells {
		for col, c := range line {
			v.screen.SetContent(col, row, c.Rune(), nil, cellStyle(c))
		}
	}
	v.drawStatus()
	v.screen.Show()
}

func cellStyle(c Cell) tcell.Style {
	switch c.Kind {
	case CellWall:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case CellLight, CellActiveLight:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	}
	if !c.Lit {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(shade(c.Color, c.Brightness))
}

// shade scales a light colour by brightness.
func shade(clr color.NRGBA, brightness float64) tcell.Color {
	b := math.Max(0, math.Min(1, brightness))
	return tcell.NewRGBColor(int32(float64(clr.R)*b), int32(float64(clr.G)*b), int32(float64(clr.B)*b))
}

func (v *Viewer) drawStatus() {
	line := v.world.Name
	if l := v.world.Lighting.Active(); l != nil {
		c := l.Caster
		line += fmt.Sprintf("  %s r=%.0f fov=%.0f°", l.Name, c.Radius(), c.FOV()*180/math.Pi)
	}
	if v.paused {
		line += "  PAUSED"
	}
	if v.status != "" {
		line += "  " + v.status
	}
	line += "  [wasd move, mouse aim, -/= radius, [/] fov, tab, x, q]"

	row := v.vp.Rows
	style := tcell.StyleDefault.Reverse(true)
	for col, r := range []rune(line) {
		if col >= v.vp.Cols {
			break
		}
		v.screen.SetContent(col, row, r, nil, style)
	}
}

// Active returns the light the viewer controls.
func (v *Viewer) Active() *lighting.Light {
	return v.world.Lighting.Active()
}
