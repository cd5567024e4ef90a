package thermal

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/sandbox/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CellSize is the edge length of one grid cell in pixels.
const CellSize = 10.0

// Grid is a row-major temperature field. Diffusion is not in place, so a
// second buffer receives each pass and the two are swapped.
type Grid struct {
	Cols, Rows int
	cells      []float64
	next       []float64
}

func NewGrid(cols, rows int, ambient float64) *Grid {
	g := &Grid{
		Cols: max(cols, 1),
		Rows: max(rows, 1),
	}
	g.cells = make([]float64, g.Cols*g.Rows)
	g.next = make([]float64, g.Cols*g.Rows)
	floats.AddConst(ambient, g.cells)
	return g
}

func (g *Grid) At(col, row int) float64 {
	return g.cells[row*g.Cols+col]
}

func (g *Grid) Set(col, row int, t float64) {
	g.cells[row*g.Cols+col] = t
}

// Cells exposes the live buffer, row-major.
func (g *Grid) Cells() []float64 {
	return g.cells
}

// CellCenter is the pixel position of a cell's centre.
func (g *Grid) CellCenter(col, row int) cp.Vector {
	return cp.Vector{X: (float64(col) + 0.5) * CellSize, Y: (float64(row) + 0.5) * CellSize}
}

// CellAt maps a pixel position to its cell, reporting false outside the grid.
func (g *Grid) CellAt(p cp.Vector) (col, row int, ok bool) {
	if p.X < 0 || p.Y < 0 {
		return 0, 0, false
	}
	col, row = int(p.X/CellSize), int(p.Y/CellSize)
	return col, row, col < g.Cols && row < g.Rows
}

// diffuse runs one explicit pass: each cell moves toward the mean of its
// existing 4-neighbours by a fraction alpha(i). Missing neighbours at the
// border are simply left out, which makes the border insulating.
func (g *Grid) diffuse(alpha func(i int) float64) {
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			i := row*g.Cols + col
			sum, n := 0.0, 0
			if col > 0 {
				sum += g.cells[i-1]
				n++
			}
			if col < g.Cols-1 {
				sum += g.cells[i+1]
				n++
			}
			if row > 0 {
				sum += g.cells[i-g.Cols]
				n++
			}
			if row < g.Rows-1 {
				sum += g.cells[i+g.Cols]
				n++
			}
			t := g.cells[i]
			if n == 0 {
				g.next[i] = t
				continue
			}
			a := dynamo.Clamp(alpha(i), 0, 1)
			g.next[i] = (1-a)*t + a*sum/float64(n)
		}
	}
	g.cells, g.next = g.next, g.cells
}

func (g *Grid) Mean() float64 {
	return stat.Mean(g.cells, nil)
}

func (g *Grid) Variance() float64 {
	if len(g.cells) < 2 {
		return 0
	}
	return stat.Variance(g.cells, nil)
}

// Range returns the coldest and hottest cell temperatures.
func (g *Grid) Range() (lo, hi float64) {
	return floats.Min(g.cells), floats.Max(g.cells)
}
