package sim

// gridParams describes the uniform grid used to bound neighbor search.
// The grid covers the whole simulation cube [-scale, scale]^3 with one cell
// of margin per side, so wrapped positions never index out of range.
type gridParams struct {
	cellWidth    float32
	invCellWidth float32
	side         int // cells per axis
	cellCount    int // side^3
	origin       Vec3
}

// newGridParams derives grid geometry from the scene half-extent and the
// largest interaction radius. Cell width is twice the largest radius so a
// single ring of cells around a boid always contains every in-radius
// neighbor.
func newGridParams(scale, maxRadius float32) gridParams {
	cellWidth := 2 * maxRadius
	halfSide := int(scale/cellWidth) + 1
	side := 2 * halfSide

	half := float32(halfSide) * cellWidth
	return gridParams{
		cellWidth:    cellWidth,
		invCellWidth: 1 / cellWidth,
		side:         side,
		cellCount:    side * side * side,
		origin:       Vec3{-half, -half, -half},
	}
}

// flatten maps 3D cell coordinates to a 1D cell id. X varies fastest; the
// neighbor loops iterate z-outermost to walk cell ids in memory order.
func (g gridParams) flatten(x, y, z int) int {
	return x + y*g.side + z*g.side*g.side
}

// cellCoord returns the clamped per-axis cell coordinate for one position
// component. Positions sit inside the margin cells at worst, but clamping
// keeps a stray boundary value from indexing outside the grid.
func (g gridParams) cellCoord(p, origin float32) int {
	c := int((p - origin) * g.invCellWidth)
	if c < 0 {
		c = 0
	} else if c >= g.side {
		c = g.side - 1
	}
	return c
}

// cellOf returns the 1D cell id containing position p.
func (g gridParams) cellOf(p Vec3) int {
	x := g.cellCoord(p.X, g.origin.X)
	y := g.cellCoord(p.Y, g.origin.Y)
	z := g.cellCoord(p.Z, g.origin.Z)
	return g.flatten(x, y, z)
}

// computeIndices labels every boid with its containing cell and resets the
// array-index mapping to identity. Runs once per step, before the sort.
func (s *Simulation) computeIndices() {
	s.pool.forEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			s.arrayIdx[i] = int32(i)
			s.cellIdx[i] = int32(s.grid.cellOf(s.pos[i]))
		}
	})
}
