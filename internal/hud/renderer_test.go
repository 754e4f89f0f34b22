package hud

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elrs-hud/internal/config"
	"elrs-hud/internal/flight"
)

const epsilon = 1e-9

func render(t *testing.T, att flight.Attitude, w, h int) *Recorder {
	t.Helper()
	rec := NewRecorder()
	NewRenderer(config.Default().HUD).Draw(rec, att, w, h)
	return rec
}

func rungs(rec *Recorder) []Command {
	return rec.Filter(func(c Command) bool {
		return c.Transformed && c.Op == OpLine && c.Thickness == 2
	})
}

func horizon(t *testing.T, rec *Recorder) Command {
	t.Helper()
	lines := rec.Filter(func(c Command) bool {
		return c.Transformed && c.Op == OpLine && c.Thickness == 3
	})
	require.Len(t, lines, 1)
	return lines[0]
}

// rung returns the rung for pitch value p (ladder runs -90..90 step 5).
func rung(t *testing.T, rec *Recorder, p int) Command {
	t.Helper()
	rs := rungs(rec)
	require.Len(t, rs, 37)
	return rs[(p+90)/5]
}

func tapeTicks(rec *Recorder) []Command {
	return rec.Filter(func(c Command) bool {
		return !c.Transformed && c.Op == OpLine && c.Thickness == 1 && c.X0 == c.X1
	})
}

func tapeLabels(rec *Recorder) []Command {
	return rec.Filter(func(c Command) bool {
		return !c.Transformed && c.Op == OpText
	})
}

func untransformed(rec *Recorder) []Command {
	return rec.Filter(func(c Command) bool { return !c.Transformed })
}

func TestLevelFlightScenario(t *testing.T) {
	rec := render(t, flight.Attitude{}, 1920, 1080)

	hz := horizon(t, rec)
	assert.Equal(t, 0.0, hz.Y0)
	assert.Equal(t, Transform{OffsetX: 960, OffsetY: 540, Rotation: 0, Zoom: 1}, hz.Transform)
	x0, y0, x1, y1 := hz.Screen()
	assert.InDelta(t, -1040, x0, epsilon)
	assert.InDelta(t, 2960, x1, epsilon)
	assert.InDelta(t, 540, y0, epsilon)
	assert.InDelta(t, 540, y1, epsilon)

	r10 := rung(t, rec, 10)
	assert.Equal(t, -80.0, r10.Y0)
	assert.Equal(t, -60.0, r10.X0)
	assert.Equal(t, 60.0, r10.X1)

	r5 := rung(t, rec, 5)
	assert.Equal(t, -30.0, r5.X0)
	assert.Equal(t, 30.0, r5.X1)

	var zeroTick *Command
	for _, c := range tapeTicks(rec) {
		if c.X0 == 960 {
			c := c
			zeroTick = &c
		}
	}
	require.NotNil(t, zeroTick)
	assert.Equal(t, 1020.0, zeroTick.Y0)
	assert.Equal(t, 1005.0, zeroTick.Y1)

	cmds := rec.Commands()
	marker := cmds[len(cmds)-3]
	assert.Equal(t, OpCircle, marker.Op)
	assert.Equal(t, 960.0, marker.X0)
	assert.Equal(t, 540.0, marker.Y0)
	assert.Equal(t, 20.0, marker.Radius)
}

func TestPitchedScenario(t *testing.T) {
	rec := render(t, flight.Attitude{Pitch: 10}, 1920, 1080)
	assert.Equal(t, 80.0, horizon(t, rec).Y0)
	assert.Equal(t, 0.0, rung(t, rec, 10).Y0)
}

func TestHeadingScenario(t *testing.T) {
	r := NewRenderer(config.Default().HUD)
	assert.Equal(t, 960.0, r.TickX(45, 45, 1920))
	assert.Equal(t, 1860.0, r.TickX(45, 225, 1920))
	assert.Equal(t, -165.0, r.TickX(45, -180, 1920))

	rec := render(t, flight.Attitude{Heading: 45}, 1920, 1080)
	ticks := tapeTicks(rec)
	// hdg -145..180 lands inside [0, 1920].
	assert.Len(t, ticks, 66)
	for _, c := range ticks {
		assert.GreaterOrEqual(t, c.X0, 0.0)
		assert.LessOrEqual(t, c.X0, 1920.0)
		assert.NotEqual(t, -165.0, c.X0)
	}
	assert.Equal(t, 10.0, ticks[0].X0)
}

func TestHeadingTickVisibility(t *testing.T) {
	cfg := config.Default().HUD
	r := NewRenderer(cfg)

	for _, heading := range []float64{0, 45, -90.5, 170, 400} {
		rec := render(t, flight.Attitude{Heading: heading}, 1280, 720)
		drawn := map[float64]bool{}
		for _, c := range tapeTicks(rec) {
			drawn[c.X0] = true
		}
		for hdg := cfg.HeadingMin; hdg <= cfg.HeadingMax; hdg += cfg.HeadingStep {
			x := r.TickX(heading, hdg, 1280)
			visible := x >= 0 && x <= 1280
			assert.Equal(t, visible, drawn[x], "heading %v tick %d at x=%v", heading, hdg, x)
		}
	}
}

func TestHeadingTickLengths(t *testing.T) {
	rec := render(t, flight.Attitude{}, 1920, 1080)
	for _, c := range tapeTicks(rec) {
		hdg := int(math.Round((c.X0 - 960) / 5))
		want := 8.0
		if hdg%10 == 0 {
			want = 15
		}
		assert.Equal(t, want, c.Y0-c.Y1, "tick %d", hdg)
	}
}

func TestHeadingLabelsNormalized(t *testing.T) {
	rec := render(t, flight.Attitude{}, 1920, 1080)
	labels := tapeLabels(rec)
	require.Len(t, labels, 13)

	var got []string
	for _, c := range labels {
		v, err := strconv.Atoi(c.Text)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 360)
		assert.Equal(t, 16.0, c.Size)
		assert.Equal(t, 990.0, c.Y0)
		got = append(got, c.Text)
	}
	assert.Equal(t, []string{
		"180", "210", "240", "270", "300", "330",
		"0", "30", "60", "90", "120", "150", "180",
	}, got)

	// The "0" label sits 10 px left of its tick.
	assert.Equal(t, 950.0, labels[6].X0)
}

func TestCompassLabel(t *testing.T) {
	for hdg := -720; hdg <= 720; hdg += 30 {
		v := CompassLabel(hdg)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 360)
	}
	assert.Equal(t, 180, CompassLabel(-180))
	assert.Equal(t, 330, CompassLabel(-30))
	assert.Equal(t, 0, CompassLabel(0))
	assert.Equal(t, 180, CompassLabel(180))
}

func TestPitchLabels(t *testing.T) {
	rec := render(t, flight.Attitude{}, 1920, 1080)
	labels := rec.Filter(func(c Command) bool { return c.Transformed && c.Op == OpText })
	// 18 non-zero multiples of ten, labelled on both ends.
	require.Len(t, labels, 36)

	var right, left *Command
	for i := range labels {
		if labels[i].Text != "10" {
			continue
		}
		if labels[i].X0 > 0 {
			right = &labels[i]
		} else {
			left = &labels[i]
		}
	}
	require.NotNil(t, right)
	require.NotNil(t, left)
	assert.Equal(t, 65.0, right.X0)
	assert.Equal(t, -88.0, right.Y0)
	assert.Equal(t, -85.0, left.X0)
	assert.Equal(t, -88.0, left.Y0)

	for _, c := range labels {
		assert.NotEqual(t, "0", c.Text)
	}
}

func TestPitchTranslationInvariance(t *testing.T) {
	const p1, p2 = 3.5, -12.25
	a := rungs(render(t, flight.Attitude{Pitch: p1}, 1920, 1080))
	b := rungs(render(t, flight.Attitude{Pitch: p2}, 1920, 1080))
	require.Len(t, a, len(b))
	for i := range a {
		assert.InDelta(t, (p1-p2)*8, a[i].Y0-b[i].Y0, epsilon)
	}

	ha := horizon(t, render(t, flight.Attitude{Pitch: p1}, 1920, 1080))
	hb := horizon(t, render(t, flight.Attitude{Pitch: p2}, 1920, 1080))
	assert.InDelta(t, (p1-p2)*8, ha.Y0-hb.Y0, epsilon)
}

func TestRollRotatesLadderRigidly(t *testing.T) {
	const roll = 37.0
	level := render(t, flight.Attitude{Pitch: 4}, 1920, 1080)
	rolled := render(t, flight.Attitude{Pitch: 4, Roll: roll}, 1920, 1080)

	sin, cos := math.Sincos(-roll * math.Pi / 180)
	rot := func(x, y float64) (float64, float64) {
		return 960 + x*cos - y*sin, 540 + x*sin + y*cos
	}

	lv := level.Filter(func(c Command) bool { return c.Transformed })
	rv := rolled.Filter(func(c Command) bool { return c.Transformed })
	require.Len(t, rv, len(lv))
	for i := range rv {
		assert.Equal(t, -roll, rv[i].Transform.Rotation)
		// Local geometry is independent of roll.
		assert.Equal(t, lv[i].X0, rv[i].X0)
		assert.Equal(t, lv[i].Y0, rv[i].Y0)

		lx0, ly0, lx1, ly1 := lv[i].Screen()
		rx0, ry0, rx1, ry1 := rv[i].Screen()
		ex0, ey0 := rot(lx0-960, ly0-540)
		ex1, ey1 := rot(lx1-960, ly1-540)
		assert.InDelta(t, ex0, rx0, 1e-6)
		assert.InDelta(t, ey0, ry0, 1e-6)
		assert.InDelta(t, ex1, rx1, 1e-6)
		assert.InDelta(t, ey1, ry1, 1e-6)
	}

	assert.Equal(t, untransformed(level), untransformed(rolled))
}

func TestFlightPathMarkerFixed(t *testing.T) {
	want := render(t, flight.Attitude{}, 800, 600).Commands()
	want = want[len(want)-3:]

	for _, att := range []flight.Attitude{
		{Pitch: 45, Roll: -30, Heading: 270},
		{Pitch: -1000, Roll: 1e6, Heading: -3600},
	} {
		cmds := render(t, att, 800, 600).Commands()
		assert.Equal(t, want, cmds[len(cmds)-3:])
	}

	assert.Equal(t, OpCircle, want[0].Op)
	assert.Equal(t, 400.0, want[0].X0)
	assert.Equal(t, 300.0, want[0].Y0)
	assert.Equal(t, [4]float64{380, 300, 420, 300}, [4]float64{want[1].X0, want[1].Y0, want[1].X1, want[1].Y1})
	assert.Equal(t, [4]float64{400, 290, 400, 310}, [4]float64{want[2].X0, want[2].Y0, want[2].X1, want[2].Y1})
}

func TestDrawOrder(t *testing.T) {
	cmds := render(t, flight.Attitude{Pitch: 2, Roll: 5, Heading: 12}, 1920, 1080).Commands()

	// Ladder block first, closed by the horizon line.
	i := 0
	for i < len(cmds) && cmds[i].Transformed {
		i++
	}
	require.Greater(t, i, 0)
	assert.Equal(t, 3.0, cmds[i-1].Thickness)
	for _, c := range cmds[i:] {
		assert.False(t, c.Transformed)
	}

	// Tape baseline spans the full width.
	base := cmds[i]
	assert.Equal(t, [4]float64{0, 1020, 1920, 1020}, [4]float64{base.X0, base.Y0, base.X1, base.Y1})

	n := len(cmds)
	assert.Equal(t, OpCircle, cmds[n-3].Op)
	assert.Equal(t, OpLine, cmds[n-2].Op)
	assert.Equal(t, OpLine, cmds[n-1].Op)
}

func TestRenderIsIdempotent(t *testing.T) {
	att := flight.Attitude{Pitch: 7.3, Roll: -14.2, Heading: 123.4}
	assert.Equal(t, render(t, att, 1920, 1080).Commands(), render(t, att, 1920, 1080).Commands())
}

func TestUsesConfiguredColor(t *testing.T) {
	cfg := config.Default().HUD
	cfg.Color.R = 200
	rec := NewRecorder()
	NewRenderer(cfg).Draw(rec, flight.Attitude{}, 640, 480)
	for _, c := range rec.Commands() {
		assert.Equal(t, cfg.Color, c.Color)
	}
}

func TestDegenerateSurface(t *testing.T) {
	assert.NotPanics(t, func() {
		render(t, flight.Attitude{Heading: 10}, 0, 0)
		render(t, flight.Attitude{}, -100, -50)
	})
}
