package systems

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Neighbor holds a nearby agent with precomputed spatial data.
type Neighbor struct {
	Index  int    // index into the snapshot the grid was built from
	Delta  r2.Vec // offset from the query origin
	DistSq float64
}

// SpatialGrid provides cell-based neighbour lookups over agent positions.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int // snapshot indices per cell
}

// NewSpatialGrid creates a spatial grid covering the given canvas size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all agents from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds the agent with snapshot index i at p. Positions outside the
// canvas land in the nearest edge cell.
func (g *SpatialGrid) Insert(i int, p r2.Vec) {
	col, row := g.cellCoords(p.X, p.Y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// QueryRadiusInto appends every agent within radius of origin, other than
// exclude, to dst and returns it. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, origin r2.Vec, radius float64, exclude int, pts []r2.Vec) []Neighbor {
	minCol, minRow := g.cellCoords(origin.X-radius, origin.Y-radius)
	maxCol, maxRow := g.cellCoords(origin.X+radius, origin.Y+radius)
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, j := range g.cells[row*g.cols+col] {
				if j == exclude {
					continue
				}
				delta := r2.Sub(pts[j], origin)
				distSq := r2.Norm2(delta)
				if distSq < radiusSq {
					dst = append(dst, Neighbor{Index: j, Delta: delta, DistSq: distSq})
				}
			}
		}
	}

	return dst
}

// cellCoords returns the clamped cell column and row for a position.
func (g *SpatialGrid) cellCoords(x, y float64) (int, int) {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)
	if x < 0 {
		col = 0
	}
	if y < 0 {
		row = 0
	}

	// Clamp to valid range
	if col >= g.cols {
		col = g.cols - 1
	}
	if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
