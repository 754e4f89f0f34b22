// Package screen draws the HUD onto an ebiten image.
package screen

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"elrs-hud/internal/hud"
)

// Canvas implements hud.Canvas on top of an *ebiten.Image.
type Canvas struct {
	dst   *ebiten.Image
	faces *Faces
	t     hud.Transform
}

// NewCanvas wraps dst. faces is shared across frames.
func NewCanvas(dst *ebiten.Image, faces *Faces) *Canvas {
	return &Canvas{dst: dst, faces: faces, t: hud.Identity}
}

func (c *Canvas) Line(x0, y0, x1, y1, thickness float64, clr color.Color) {
	sx0, sy0 := c.t.Apply(x0, y0)
	sx1, sy1 := c.t.Apply(x1, y1)
	vector.StrokeLine(c.dst, float32(sx0), float32(sy0), float32(sx1), float32(sy1), float32(thickness*c.t.Zoom), clr, true)
}

func (c *Canvas) CircleOutline(cx, cy, radius float64, clr color.Color) {
	sx, sy := c.t.Apply(cx, cy)
	vector.StrokeCircle(c.dst, float32(sx), float32(sy), float32(radius*c.t.Zoom), 1, clr, true)
}

func (c *Canvas) Text(s string, x, y, size float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM = textGeoM(c.t, x, y+c.faces.Ascent(size))
	op.ColorScale.ScaleWithColor(clr)
	text.DrawWithOptions(c.dst, s, c.faces.Face(size), op)
}

func (c *Canvas) Transformed(t hud.Transform, draw func(hud.Canvas)) {
	prev := c.t
	c.t = t
	defer func() { c.t = prev }()
	draw(c)
}

// textGeoM places a glyph run whose baseline origin is the local point
// (x, baseline), rotated and offset like every other primitive under t.
func textGeoM(t hud.Transform, x, baseline float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(x, baseline)
	g.Scale(t.Zoom, t.Zoom)
	g.Rotate(t.Rotation * math.Pi / 180)
	g.Translate(t.OffsetX, t.OffsetY)
	return g
}
