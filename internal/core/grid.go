package core

import (
	"errors"
	"fmt"
	"slices"
)

// ErrShape reports rows that cannot form a rectangular grid.
var ErrShape = errors.New("core: rows do not form a rectangular grid")

// SpinGrid stores a 2D grid of spin values in row-major order.
type SpinGrid struct {
	W, H int
	data []float64
}

// NewSpinGrid allocates a zeroed grid with the given dimensions.
func NewSpinGrid(w, h int) *SpinGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &SpinGrid{W: w, H: h, data: make([]float64, w*h)}
}

// SpinGridFromRows builds a grid from rows of equal length. Empty or ragged
// rows wrap ErrShape.
func SpinGridFromRows(rows [][]float64) (*SpinGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrShape)
	}
	w := len(rows[0])
	g := NewSpinGrid(w, len(rows))
	for r, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrShape, r, len(row), w)
		}
		copy(g.data[r*w:(r+1)*w], row)
	}
	return g, nil
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *SpinGrid) Cells() []float64 { return g.data }

// Size reports the grid dimensions.
func (g *SpinGrid) Size() Size { return Size{W: g.W, H: g.H} }

// Index returns the linear slice index for c.
func (g *SpinGrid) Index(c Coord) int { return c.Row*g.W + c.Col }

// Wrap applies toroidal wrapping to the provided coordinate.
func (g *SpinGrid) Wrap(c Coord) Coord {
	c.Row = (c.Row%g.H + g.H) % g.H
	c.Col = (c.Col%g.W + g.W) % g.W
	return c
}

// At returns the spin at c after wrapping.
func (g *SpinGrid) At(c Coord) float64 { return g.data[g.Index(g.Wrap(c))] }

// Set stores v at c after wrapping.
func (g *SpinGrid) Set(c Coord, v float64) { g.data[g.Index(g.Wrap(c))] = v }

// NeighborCoords returns the periodic neighbours of c in the order up, down,
// left, right.
func (g *SpinGrid) NeighborCoords(c Coord) [4]Coord {
	return [4]Coord{
		g.Wrap(Coord{Row: c.Row - 1, Col: c.Col}),
		g.Wrap(Coord{Row: c.Row + 1, Col: c.Col}),
		g.Wrap(Coord{Row: c.Row, Col: c.Col - 1}),
		g.Wrap(Coord{Row: c.Row, Col: c.Col + 1}),
	}
}

// Neighbors returns the spins of the four periodic neighbours of c in the
// order up, down, left, right.
func (g *SpinGrid) Neighbors(c Coord) [4]float64 {
	var out [4]float64
	for i, n := range g.NeighborCoords(c) {
		out[i] = g.data[g.Index(n)]
	}
	return out
}

// NeighborSum returns the sum of the four neighbour spins of c.
func (g *SpinGrid) NeighborSum(c Coord) float64 {
	n := g.Neighbors(c)
	return n[0] + n[1] + n[2] + n[3]
}

// Clone returns a deep copy of the grid.
func (g *SpinGrid) Clone() *SpinGrid {
	return &SpinGrid{W: g.W, H: g.H, data: slices.Clone(g.data)}
}

// Equal reports whether both grids have the same shape and values.
func (g *SpinGrid) Equal(o *SpinGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.W == o.W && g.H == o.H && slices.Equal(g.data, o.data)
}

// Rows returns a copy of the grid as a slice of rows.
func (g *SpinGrid) Rows() [][]float64 {
	rows := make([][]float64, g.H)
	for r := range rows {
		rows[r] = slices.Clone(g.data[r*g.W : (r+1)*g.W])
	}
	return rows
}

// Fill sets every cell to v.
func (g *SpinGrid) Fill(v float64) {
	for i := range g.data {
		g.data[i] = v
	}
}
