// Package term draws scenes as shaded character cells in a terminal.
package term

import (
	"image/color"
	"math"

	"chosenoffset.com/lightcaster/internal/core/shadows"
	"chosenoffset.com/lightcaster/internal/world/scene"
)

// CellKind classifies what occupies a cell.
type CellKind int

const (
	CellFloor CellKind = iota
	CellWall
	CellLight
	CellActiveLight
)

// shades maps brightness to glyphs, darkest first.
var shades = []rune(" .:-=+*%")

// Cell is one sampled terminal cell.
type Cell struct {
	Kind       CellKind
	Brightness float64     // 0.0 to 1.0
	Lit        bool        // inside some light's polygon
	Color      color.NRGBA // colour of the first light covering the cell
}

// Rune returns the glyph used to draw the cell.
func (c Cell) Rune() rune {
	switch c.Kind {
	case CellWall:
		return '#'
	case CellLight:
		return '*'
	case CellActiveLight:
		return '@'
	}
	if !c.Lit {
		return ' '
	}
	i := int(c.Brightness * float64(len(shades)))
	if i >= len(shades) {
		i = len(shades) - 1
	}
	if i < 1 {
		i = 1
	}
	return shades[i]
}

// Viewport maps a world onto a cols x rows cell grid.
type Viewport struct {
	Cols, Rows   int
	CellW, CellH float64
}

// NewViewport fits a width x height world into cols x rows cells.
func NewViewport(width, height float64, cols, rows int) Viewport {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return Viewport{
		Cols:  cols,
		Rows:  rows,
		CellW: width / float64(cols),
		CellH: height / float64(rows),
	}
}

// Center returns the world position at the centre of a cell.
func (v Viewport) Center(col, row int) shadows.Point {
	return shadows.Point{
		X: (float64(col) + 0.5) * v.CellW,
		Y: (float64(row) + 0.5) * v.CellH,
	}
}

// CellAt returns the cell containing p.
func (v Viewport) CellAt(p shadows.Point) (col, row int, ok bool) {
	col = int(math.Floor(p.X / v.CellW))
	row = int(math.Floor(p.Y / v.CellH))
	return col, row, col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
}

// Rasterize samples the world at every cell centre. Cells are indexed
// [row][col]. Light polygons must already be up to date.
func Rasterize(w *scene.World, vp Viewport) [][]Cell {
	cells := make([][]Cell, vp.Rows)
	lights := w.Lighting.Lights()
	for row := range cells {
		cells[row] = make([]Cell, vp.Cols)
		for col := range cells[row] {
			p := vp.Center(col, row)
			c := &cells[row][col]
			c.Brightness = w.Lighting.Brightness(p)
			for _, l := range lights {
				if l.Contains(p) {
					c.Lit = true
					c.Color = l.Color
					break
				}
			}
		}
	}

	for _, o := range w.Obstacles {
		markObstacle(cells, vp, o)
	}

	active := w.Lighting.Active()
	for _, l := range lights {
		col, row, ok := vp.CellAt(l.Caster.Position())
		if !ok {
			continue
		}
		if l == active {
			cells[row][col].Kind = CellActiveLight
		} else {
			cells[row][col].Kind = CellLight
		}
	}
	return cells
}

// markObstacle marks every cell an obstacle's edges pass through, plus the
// interior of closed obstacles.
func markObstacle(cells [][]Cell, vp Viewport, o *shadows.Obstacle) {
	step := math.Min(vp.CellW, vp.CellH) / 2
	for _, seg := range o.Segments() {
		n := int(math.Ceil(seg.Length/step)) + 1
		for i := 0; i <= n; i++ {
			p := seg.Start.Add(seg.Dir.Scale(seg.Length * float64(i) / float64(n)))
			if col, row, ok := vp.CellAt(p); ok {
				cells[row][col].Kind = CellWall
			}
		}
	}

	if !o.Closed() {
		return
	}
	verts := o.Vertices()
	lo, hi := o.Bounds()
	c0, r0, _ := vp.CellAt(lo)
	c1, r1, _ := vp.CellAt(hi)
	for row := max(r0, 0); row <= min(r1, vp.Rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, vp.Cols-1); col++ {
			if shadows.PointInPolygon(vp.Center(col, row), verts) {
				cells[row][col].Kind = CellWall
			}
		}
	}
}
