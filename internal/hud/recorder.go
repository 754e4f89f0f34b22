package hud

import "image/color"

// Op identifies a recorded drawing primitive.
type Op uint8

const (
	OpLine Op = iota
	OpCircle
	OpText
)

func (o Op) String() string {
	switch o {
	case OpLine:
		return "line"
	case OpCircle:
		return "circle"
	case OpText:
		return "text"
	}
	return "unknown"
}

// Command is one recorded primitive in local coordinates together with the
// transform that was active when it was issued.
type Command struct {
	Op          Op
	X0, Y0      float64 // line start, circle center or text origin
	X1, Y1      float64 // line end
	Thickness   float64
	Radius      float64
	Text        string
	Size        float64
	Color       color.Color
	Transformed bool
	Transform   Transform
}

// Screen returns the command's points mapped to screen space.
func (c Command) Screen() (x0, y0, x1, y1 float64) {
	t := Identity
	if c.Transformed {
		t = c.Transform
	}
	x0, y0 = t.Apply(c.X0, c.Y0)
	x1, y1 = t.Apply(c.X1, c.Y1)
	return x0, y0, x1, y1
}

// Recorder is a Canvas that captures commands instead of drawing them.
type Recorder struct {
	cmds   []Command
	active bool
	t      Transform
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Line(x0, y0, x1, y1, thickness float64, clr color.Color) {
	r.add(Command{Op: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Thickness: thickness, Color: clr})
}

func (r *Recorder) CircleOutline(cx, cy, radius float64, clr color.Color) {
	r.add(Command{Op: OpCircle, X0: cx, Y0: cy, X1: cx, Y1: cy, Radius: radius, Color: clr})
}

func (r *Recorder) Text(s string, x, y, size float64, clr color.Color) {
	r.add(Command{Op: OpText, X0: x, Y0: y, X1: x, Y1: y, Text: s, Size: size, Color: clr})
}

func (r *Recorder) Transformed(t Transform, draw func(Canvas)) {
	prevActive, prev := r.active, r.t
	r.active, r.t = true, t
	defer func() { r.active, r.t = prevActive, prev }()
	draw(r)
}

func (r *Recorder) add(cmd Command) {
	if r.active {
		cmd.Transformed = true
		cmd.Transform = r.t
	}
	r.cmds = append(r.cmds, cmd)
}

// Commands returns the recorded commands in issue order.
func (r *Recorder) Commands() []Command {
	return r.cmds
}

// Filter returns the recorded commands accepted by keep, in issue order.
func (r *Recorder) Filter(keep func(Command) bool) []Command {
	var out []Command
	for _, cmd := range r.cmds {
		if keep(cmd) {
			out = append(out, cmd)
		}
	}
	return out
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.cmds = r.cmds[:0]
	r.active = false
}

// Replay issues the recorded commands against c, regrouping consecutive
// transformed commands into a single block.
func (r *Recorder) Replay(c Canvas) {
	for i := 0; i < len(r.cmds); {
		cmd := r.cmds[i]
		if !cmd.Transformed {
			replayOne(c, cmd)
			i++
			continue
		}
		j := i
		for j < len(r.cmds) && r.cmds[j].Transformed && r.cmds[j].Transform == cmd.Transform {
			j++
		}
		block := r.cmds[i:j]
		c.Transformed(cmd.Transform, func(c Canvas) {
			for _, b := range block {
				replayOne(c, b)
			}
		})
		i = j
	}
}

func replayOne(c Canvas, cmd Command) {
	switch cmd.Op {
	case OpLine:
		c.Line(cmd.X0, cmd.Y0, cmd.X1, cmd.Y1, cmd.Thickness, cmd.Color)
	case OpCircle:
		c.CircleOutline(cmd.X0, cmd.Y0, cmd.Radius, cmd.Color)
	case OpText:
		c.Text(cmd.Text, cmd.X0, cmd.Y0, cmd.Size, cmd.Color)
	}
}
