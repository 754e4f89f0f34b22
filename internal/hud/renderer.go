package hud

import (
	"strconv"

	"elrs-hud/internal/config"
	"elrs-hud/internal/flight"
)

// Renderer draws the HUD. It keeps no state between frames; identical
// inputs always produce identical draw calls.
type Renderer struct {
	cfg config.HUDConfig
}

// NewRenderer creates a renderer using the given layout.
func NewRenderer(cfg config.HUDConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Draw renders one frame for a width x height surface: the pitch ladder,
// then the heading tape, then the flight path marker.
func (r *Renderer) Draw(c Canvas, att flight.Attitude, width, height int) {
	cx := float64(width) / 2
	cy := float64(height) / 2

	// Boresight at screen center; the ladder counter-rotates with roll.
	c.Transformed(Transform{OffsetX: cx, OffsetY: cy, Rotation: -att.Roll, Zoom: 1}, func(c Canvas) {
		r.drawPitchLadder(c, att.Pitch)
	})

	r.drawHeadingTape(c, att.Heading, float64(width), float64(height))
	r.drawFlightPathMarker(c, cx, cy)
}

// RungY returns the ladder-frame y of the rung for pitch value p.
func (r *Renderer) RungY(pitch float64, p int) float64 {
	return (pitch - float64(p)) * r.cfg.PitchScale
}

// HorizonY returns the ladder-frame y of the zero-pitch horizon.
func (r *Renderer) HorizonY(pitch float64) float64 {
	return pitch * r.cfg.PitchScale
}

// TickX returns the screen x of heading tick hdg for a surface of the given
// width.
func (r *Renderer) TickX(heading float64, hdg int, width float64) float64 {
	return width/2 + (float64(hdg)-heading)*r.cfg.HeadingScale
}

// CompassLabel normalizes a tape value to [0, 360).
func CompassLabel(hdg int) int {
	return ((hdg%360 + 360) % 360)
}

func (r *Renderer) drawPitchLadder(c Canvas, pitch float64) {
	cfg := r.cfg
	half := cfg.FontSize / 2

	for p := cfg.PitchMin; p <= cfg.PitchMax; p += cfg.PitchStep {
		y := r.RungY(pitch, p)
		hw := cfg.MinorRungHalfWidth
		if p%10 == 0 {
			hw = cfg.MajorRungHalfWidth
		}

		c.Line(-hw, y, hw, y, cfg.RungThickness, cfg.Color)

		if p%10 == 0 && p != 0 {
			label := strconv.Itoa(p)
			c.Text(label, hw+cfg.LabelGapRight, y-half, cfg.FontSize, cfg.Color)
			c.Text(label, -hw-cfg.LabelGapLeft, y-half, cfg.FontSize, cfg.Color)
		}
	}

	// Drawn last so it sits on top of the zero rung.
	hy := r.HorizonY(pitch)
	c.Line(-cfg.HorizonHalfLength, hy, cfg.HorizonHalfLength, hy, cfg.HorizonThickness, cfg.Color)
}

func (r *Renderer) drawHeadingTape(c Canvas, heading, width, height float64) {
	cfg := r.cfg
	tapeY := height - cfg.TapeInset

	c.Line(0, tapeY, width, tapeY, cfg.LineThickness, cfg.Color)

	for hdg := cfg.HeadingMin; hdg <= cfg.HeadingMax; hdg += cfg.HeadingStep {
		x := r.TickX(heading, hdg, width)
		if x < 0 || x > width {
			continue
		}

		length := cfg.MinorTickLength
		if hdg%10 == 0 {
			length = cfg.MajorTickLength
		}
		c.Line(x, tapeY, x, tapeY-length, cfg.LineThickness, cfg.Color)

		if hdg%cfg.HeadingLabelEvery == 0 {
			c.Text(strconv.Itoa(CompassLabel(hdg)), x-cfg.HeadingLabelOffsetX, tapeY-cfg.HeadingLabelOffsetY, cfg.FontSize, cfg.Color)
		}
	}
}

func (r *Renderer) drawFlightPathMarker(c Canvas, cx, cy float64) {
	cfg := r.cfg
	c.CircleOutline(cx, cy, cfg.MarkerRadius, cfg.Color)
	c.Line(cx-cfg.MarkerWingSpan, cy, cx+cfg.MarkerWingSpan, cy, cfg.MarkerThickness, cfg.Color)
	c.Line(cx, cy-cfg.MarkerStemSpan, cx, cy+cfg.MarkerStemSpan, cfg.MarkerThickness, cfg.Color)
}
