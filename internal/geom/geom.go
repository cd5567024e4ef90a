// Package geom holds the 2-D hit-testing used for picking sandbox objects.
// Vectors are cp.Vector so values flow straight from the rigid-body engine.
package geom

import "github.com/jakecoffman/cp"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
// Containment is half-open: [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H float64
}

// RectAround builds a rect of the given size centred on c.
func RectAround(c cp.Vector, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) Contains(p cp.Vector) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Touches reports whether r and o overlap or lie within gap of each other.
func (r Rect) Touches(o Rect, gap float64) bool {
	return r.X <= o.Right()+gap && o.X <= r.Right()+gap &&
		r.Y <= o.Bottom()+gap && o.Y <= r.Bottom()+gap
}

// Overlap returns the penetration depth of r into o along each axis, or
// ok=false when they do not intersect.
func (r Rect) Overlap(o Rect) (dx, dy float64, ok bool) {
	dx = min(r.Right(), o.Right()) - max(r.X, o.X)
	dy = min(r.Bottom(), o.Bottom()) - max(r.Y, o.Y)
	if dx <= 0 || dy <= 0 {
		return 0, 0, false
	}
	return dx, dy, true
}

// Vertices returns the corners in winding order.
func (r Rect) Vertices() []cp.Vector {
	return []cp.Vector{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// PointInCircle is inclusive on the boundary.
func PointInCircle(p, center cp.Vector, radius float64) bool {
	dx, dy := p.X-center.X, p.Y-center.Y
	return dx*dx+dy*dy <= radius*radius
}

// PointInPolygon is the even-odd ray-casting test over ordered vertices.
// An edge counts only when it straddles the ray's y, so horizontal edges
// never cross and there is no division by zero. Fewer than three vertices
// is always outside.
func PointInPolygon(p cp.Vector, verts []cp.Vector) bool {
	n := len(verts)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := verts[i], verts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xinters := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xinters {
				inside = !inside
			}
		}
	}
	return inside
}
