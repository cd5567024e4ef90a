package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/geom"
	"github.com/san-kum/sandbox/internal/mechanics"
	"github.com/san-kum/sandbox/internal/sandbox"
)

// heatRamp runs from cold to hot.
var heatRamp = []rune(" .:-=+*#%@")

var componentGlyph = map[circuit.ComponentType]rune{
	circuit.Wire:      'W',
	circuit.Battery:   'B',
	circuit.Resistor:  'R',
	circuit.Bulb:      'L',
	circuit.Switch:    'S',
	circuit.Capacitor: 'C',
}

type canvas struct {
	cells [][]rune
	w, h  int
	m     model
}

func (m model) newCanvas() *canvas {
	w, h := m.canvasSize()
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = make([]rune, w)
		for j := range cells[i] {
			cells[i][j] = ' '
		}
	}
	return &canvas{cells: cells, w: w, h: h, m: m}
}

func (c *canvas) plot(p cp.Vector, r rune) {
	x, y := c.m.toCell(p)
	set(c.cells, x, y, r, c.w, c.h)
}

func (c *canvas) line(a, b cp.Vector, r rune) {
	x1, y1 := c.m.toCell(a)
	x2, y2 := c.m.toCell(b)
	drawLine(c.cells, c.w, c.h, x1, y1, x2, y2, r)
}

func (c *canvas) outline(rect geom.Rect, r rune) {
	v := rect.Vertices()
	for i := range v {
		c.line(v[i], v[(i+1)%len(v)], r)
	}
}

func (c *canvas) fill(rect geom.Rect, r rune) {
	x1, y1 := c.m.toCell(cp.Vector{X: rect.X, Y: rect.Y})
	x2, y2 := c.m.toCell(cp.Vector{X: rect.Right(), Y: rect.Bottom()})
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			set(c.cells, x, y, r, c.w, c.h)
		}
	}
}

func (c *canvas) text(p cp.Vector, s string) {
	x, y := c.m.toCell(p)
	for i, r := range []rune(s) {
		set(c.cells, x+i, y, r, c.w, c.h)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	pad := strings.Repeat(" ", canvasLeft)
	for _, row := range c.cells {
		b.WriteString(pad + string(row) + "\n")
	}
	return b.String()
}

func (m model) View() string {
	f := m.ctrl.Frame()
	c := m.newCanvas()

	switch f.Mode {
	case sandbox.Mechanics:
		c.drawBodies(f.Bodies)
	case sandbox.Electricity:
		c.drawCircuit(f.Components)
	case sandbox.Fluid:
		c.drawFluid(f)
	case sandbox.Thermal:
		c.drawHeat(f.Heat)
	}
	c.drawFloor()
	c.drawControls(f)

	var b strings.Builder
	b.WriteString(m.header(f))
	b.WriteString(c.String())
	b.WriteString(m.chart(f))
	b.WriteString(m.footer())
	return b.String()
}

func (m model) header(f sandbox.Frame) string {
	icon, state := green.Render("●"), green.Render("running")
	if m.paused {
		icon, state = yellow.Render("○"), yellow.Render("paused")
	}
	mat := f.Material
	if f.Mode == sandbox.Fluid {
		mat = f.FluidMaterial
	}
	line := fmt.Sprintf(" %s %s  %s  %s  %s",
		icon, cyan.Render(f.Mode.String()), state,
		dim.Render(fmt.Sprintf("t=%.2fs", f.Time)), magenta.Render(mat))
	if f.Mode == sandbox.Electricity && f.Circuit.Fault {
		line += "  " + yellow.Render("short circuit")
	}
	return line + "\n\n"
}

func (c *canvas) drawFloor() {
	y := c.m.world.FloorY()
	c.line(cp.Vector{X: 0, Y: y}, cp.Vector{X: c.m.world.Width - 1, Y: y}, '─')
}

func (c *canvas) drawControls(f sandbox.Frame) {
	for _, b := range f.Buttons {
		label := "[" + b.Label + "]"
		if b.Selected {
			label = "▸" + b.Label + "◂"
		}
		c.text(cp.Vector{X: b.Rect.X, Y: b.Rect.Y + b.Rect.H/2}, label)
	}
	for _, s := range f.Sliders {
		y := s.Rect.Y + s.Rect.H/2
		c.line(cp.Vector{X: s.Rect.X, Y: y}, cp.Vector{X: s.Rect.Right(), Y: y}, '─')
		frac := 0.0
		if s.Max > s.Min {
			frac = (s.Value - s.Min) / (s.Max - s.Min)
		}
		c.plot(cp.Vector{X: s.Rect.X + frac*s.Rect.W, Y: y}, '●')
		c.text(cp.Vector{X: s.Rect.Right() + 10, Y: y}, fmt.Sprintf("%s %.2f", s.Label, s.Value))
	}
}

func (c *canvas) drawBodies(bodies []sandbox.BodyView) {
	for _, b := range bodies {
		if b.Anchored {
			glyph := '·'
			if b.Role == mechanics.SpringWeight {
				glyph = '~'
			}
			c.line(b.Anchor, b.Position, glyph)
			c.plot(b.Anchor, '◆')
		}
		glyph := shade(b.Color)
		switch b.Kind {
		case mechanics.Circle:
			steps := max(12, int(b.Radius))
			for i := range steps {
				a := 2 * math.Pi * float64(i) / float64(steps)
				c.plot(b.Position.Add(cp.Vector{X: b.Radius * math.Cos(a), Y: b.Radius * math.Sin(a)}), glyph)
			}
			c.line(b.Position, b.Position.Add(cp.ForAngle(b.Angle).Mult(b.Radius)), glyph)
		case mechanics.Box:
			for i := range b.Vertices {
				c.line(b.Vertices[i], b.Vertices[(i+1)%len(b.Vertices)], glyph)
			}
		}
	}
}

func (c *canvas) drawCircuit(components []sandbox.ComponentView) {
	centers := make(map[int]cp.Vector, len(components))
	for _, comp := range components {
		centers[comp.ID] = comp.Rect.Center()
	}
	for _, comp := range components {
		for _, id := range comp.Connections {
			if id > comp.ID {
				c.line(centers[comp.ID], centers[id], '·')
			}
		}
	}
	for _, comp := range components {
		c.outline(comp.Rect, '□')
		if comp.Type == circuit.Bulb && comp.Lit {
			c.fill(comp.Rect, '*')
		}
		glyph := componentGlyph[comp.Type]
		if comp.Type == circuit.Switch && !comp.On {
			glyph = 's'
		}
		c.plot(comp.Rect.Center(), glyph)
	}
}

func (c *canvas) drawFluid(f sandbox.Frame) {
	for _, o := range f.Obstacles {
		c.fill(o, '▓')
	}
	for _, p := range f.Particles {
		c.plot(p.Position, shade(p.Color))
	}
	if f.Surface < c.m.world.FloorY() {
		x1, y := c.m.toCell(cp.Vector{X: 0, Y: f.Surface})
		x2, _ := c.m.toCell(cp.Vector{X: c.m.world.Width - 1, Y: f.Surface})
		for x := x1; x <= x2; x++ {
			if y >= 0 && y < c.h && x >= 0 && x < c.w && c.cells[y][x] == ' ' {
				c.cells[y][x] = '≈'
			}
		}
	}
	for _, o := range f.Floating {
		c.outline(o.Rect, shade(o.Color))
	}
}

func (c *canvas) drawHeat(h *sandbox.HeatView) {
	if h == nil || h.Cols == 0 {
		return
	}
	span := h.Max - h.Min
	for y := range c.h {
		for x := range c.w {
			col := x * h.Cols / c.w
			row := y * h.Rows / c.h
			v := h.Cells[row*h.Cols+col]
			idx := 0
			if span > 0 {
				idx = int((v - h.Min) / span * float64(len(heatRamp)-1))
			}
			c.cells[y][x] = heatRamp[min(max(idx, 0), len(heatRamp)-1)]
		}
	}
	for _, e := range h.Elements {
		c.outline(e.Rect, '═')
	}
	for _, s := range h.Sources {
		c.plot(s.Center, '☼')
	}
}

// shade picks a glyph by perceived brightness so materials stay
// distinguishable without colour.
func shade(col color.RGBA) rune {
	lum := 0.299*float64(col.R) + 0.587*float64(col.G) + 0.114*float64(col.B)
	switch {
	case lum > 220:
		return '·'
	case lum > 160:
		return 'o'
	case lum > 100:
		return '%'
	case lum > 40:
		return '~'
	}
	return '@'
}

func (m model) chart(f sandbox.Frame) string {
	names := m.ctrl.Metrics().Active()
	if len(names) == 0 {
		return strings.Repeat("\n", chartRows)
	}
	name := names[0]
	s, _ := m.ctrl.Metrics().Series(name)
	data := s.Values()
	if len(data) < 2 {
		return strings.Repeat("\n", chartRows)
	}
	cols, _ := m.canvasSize()
	graph := asciigraph.Plot(data,
		asciigraph.Height(chartRows-3),
		asciigraph.Width(max(cols-12, 10)),
		asciigraph.Caption(fmt.Sprintf("%s %.3f", name, f.Metrics[name])))
	return "\n" + dim.Render(graph) + "\n"
}

func (m model) footer() string {
	line := dimmer.Render(" 1-4 mode  click act  right-drag fling  r reset  space pause  esc quit")
	if m.status != "" {
		line += "  " + white.Render(m.status)
	}
	return "\n" + line + "\n"
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}

func drawLine(canvas [][]rune, w, h, x1, y1, x2, y2 int, c rune) {
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		set(canvas, x1, y1, c, w, h)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
