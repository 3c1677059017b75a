package term

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

const wallScene = `
name: wall
width: 100
height: 100
lights:
  - name: lamp
    position: [50, 50]
    radius: 60
    fov: 360
obstacles:
  - type: rect
    center: [80, 50]
    width: 10
    height: 40
`

func buildWorld(t *testing.T) *scene.World {
	t.Helper()
	s, err := scene.Parse([]byte(wallScene))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	w, err := s.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := w.Lighting.Update(context.Background(), w.Obstacles); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	return w
}

func TestViewport(t *testing.T) {
	vp := NewViewport(100, 50, 10, 5)
	if vp.CellW != 10 || vp.CellH != 10 {
		t.Fatalf("cell = %gx%g, want 10x10", vp.CellW, vp.CellH)
	}
	if c := vp.Center(2, 3); c != (shadows.Point{X: 25, Y: 35}) {
		t.Errorf("Center = %v, want (25, 35)", c)
	}
	if col, row, ok := vp.CellAt(shadows.Point{X: 99, Y: 0}); !ok || col != 9 || row != 0 {
		t.Errorf("CellAt = %d,%d,%v, want 9,0,true", col, row, ok)
	}
	if _, _, ok := vp.CellAt(shadows.Point{X: -1, Y: 0}); ok {
		t.Error("CellAt accepted a point outside the world")
	}
	if vp := NewViewport(100, 100, 0, -3); vp.Cols != 1 || vp.Rows != 1 {
		t.Errorf("degenerate viewport = %dx%d, want 1x1", vp.Cols, vp.Rows)
	}
}

func TestRasterize(t *testing.T) {
	w := buildWorld(t)
	cells := Rasterize(w, NewViewport(100, 100, 10, 10))

	if got := cells[5][5].Kind; got != CellActiveLight {
		t.Errorf("light cell kind = %v, want active light", got)
	}
	if got := cells[5][8].Kind; got != CellWall {
		t.Errorf("wall edge cell kind = %v, want wall", got)
	}

	lit := cells[5][2]
	if !lit.Lit || lit.Rune() != '+' {
		t.Errorf("near cell = %+v rune %q, want lit '+'", lit, lit.Rune())
	}

	if shadowed := cells[5][9]; shadowed.Lit {
		t.Error("cell behind the wall is lit")
	}
	if far := cells[0][0]; far.Lit || far.Rune() != ' ' {
		t.Errorf("far cell = %+v, want unlit blank", far)
	}
}

func TestCellRune(t *testing.T) {
	tests := []struct {
		cell Cell
		want rune
	}{
		{Cell{Kind: CellWall}, '#'},
		{Cell{Kind: CellLight}, '*'},
		{Cell{Kind: CellActiveLight}, '@'},
		{Cell{Brightness: 1}, ' '},
		{Cell{Lit: true, Brightness: 0}, '.'},
		{Cell{Lit: true, Brightness: 1}, '%'},
	}
	for _, tt := range tests {
		if got := tt.cell.Rune(); got != tt.want {
			t.Errorf("%+v.Rune() = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func newSimViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(10, 11)
	return NewViewer(screen, buildWorld(t)), screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewerKeys(t *testing.T) {
	v, _ := newSimViewer(t)
	c := v.Active().Caster

	v.handleEvent(key('d'))
	if want := (shadows.Point{X: 60, Y: 50}); c.Position() != want {
		t.Errorf("position = %v, want %v", c.Position(), want)
	}

	r := c.Radius()
	v.handleEvent(key('='))
	if c.Radius() <= r {
		t.Errorf("radius = %v, want above %v", c.Radius(), r)
	}
	v.handleEvent(key('['))
	if c.FOV() >= 2*3.14159 {
		t.Errorf("fov = %v, want narrowed", c.FOV())
	}

	v.handleEvent(key('x'))
	v.handleEvent(key('a'))
	if c.Position().X != 60 {
		t.Errorf("light moved while paused: %v", c.Position())
	}

	if !v.handleEvent(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)) {
		t.Error("Tab ended the viewer")
	}
	if v.handleEvent(key('q')) {
		t.Error("q did not end the viewer")
	}
	if v.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Escape did not end the viewer")
	}
}

func TestViewerDraw(t *testing.T) {
	v, screen := newSimViewer(t)
	if err := v.frame(context.Background()); err != nil {
		t.Fatalf("frame failed: %v", err)
	}

	if r, _, _, _ := screen.GetContent(5, 5); r != '@' {
		t.Errorf("light cell = %q, want '@'", r)
	}
	if r, _, _, _ := screen.GetContent(8, 5); r != '#' {
		t.Errorf("wall cell = %q, want '#'", r)
	}
	if r, _, _, _ := screen.GetContent(0, 10); r != 'w' {
		t.Errorf("status line starts with %q, want the scene name", r)
	}
}

func TestViewerRunStopsOnCancel(t *testing.T) {
	v, _ := newSimViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := v.Run(ctx); err != nil {
		t.Errorf("Run = %v, want nil after cancel", err)
	}
}
