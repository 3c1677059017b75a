package game

import (
	"image"
	"image/color"

	"chosenoffset.com/lightcaster/internal/core/geom"
	"chosenoffset.com/lightcaster/internal/render"
)

type fakeInput struct {
	pressed map[render.Key]bool
	just    map[render.Key]bool
	x, y    int
}

func newFakeInput() *fakeInput {
	return &fakeInput{pressed: map[render.Key]bool{}, just: map[render.Key]bool{}}
}

func (f *fakeInput) IsKeyPressed(k render.Key) bool     { return f.pressed[k] }
func (f *fakeInput) IsKeyJustPressed(k render.Key) bool { return f.just[k] }
func (f *fakeInput) GetCursorPosition() (int, int)      { return f.x, f.y }
func (f *fakeInput) IsMouseButtonPressed(render.MouseButton) bool {
	return false
}

// tap marks k as just pressed for one Update.
func (f *fakeInput) tap(k render.Key) {
	f.just = map[render.Key]bool{k: true}
}

func (f *fakeInput) release() {
	f.pressed = map[render.Key]bool{}
	f.just = map[render.Key]bool{}
}

type fakeImage struct {
	w, h  int
	draws int
}

func (i *fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, i.w, i.h) }
func (i *fakeImage) Size() (int, int)        { return i.w, i.h }
func (i *fakeImage) Fill(color.Color)        {}
func (i *fakeImage) Clear()                  {}
func (i *fakeImage) DrawImage(render.Image, *render.DrawImageOptions) {
	i.draws++
}
func (i *fakeImage) DrawTriangles([]render.Vertex, []uint16, render.Image, *render.DrawTrianglesOptions) {
}
func (i *fakeImage) Dispose() {}

type fakeRenderer struct {
	polygons []color.Color
	lines    int
	circles  int
	texts    []string
}

func (r *fakeRenderer) NewImage(w, h int) render.Image { return &fakeImage{w: w, h: h} }
func (r *fakeRenderer) FillCircle(render.Image, float32, float32, float32, color.Color) {
	r.circles++
}
func (r *fakeRenderer) StrokeCircle(render.Image, float32, float32, float32, float32, color.Color) {
	r.circles++
}
func (r *fakeRenderer) StrokeLine(render.Image, float32, float32, float32, float32, float32, color.Color) {
	r.lines++
}
func (r *fakeRenderer) FillRect(render.Image, float32, float32, float32, float32, color.Color) {}
func (r *fakeRenderer) FillPolygon(_ render.Image, _ []geom.Vec2, clr color.Color) {
	r.polygons = append(r.polygons, clr)
}
func (r *fakeRenderer) DrawText(_ render.Image, text string, _, _ int, _ color.Color, _ float64) {
	r.texts = append(r.texts, text)
}
func (r *fakeRenderer) MeasureText(text string, _ float64) (int, int) { return 6 * len(text), 13 }

type fakeGeoM struct{}

func (fakeGeoM) Translate(float64, float64) {}
func (fakeGeoM) Scale(float64, float64)     {}
func (fakeGeoM) Rotate(float64)             {}
func (fakeGeoM) Reset()                     {}

func init() {
	render.NewGeoM = func() render.GeoM { return fakeGeoM{} }
}
