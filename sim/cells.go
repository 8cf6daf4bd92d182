package sim

// resetRanges fills both range tables with fill so that cells untouched by
// the boundary scan read as empty (start == end). Must run before
// identifyCellBoundaries every step.
func (s *Simulation) resetRanges(fill int32) {
	s.pool.forEach(len(s.cellStart), func(start, end int) {
		for c := start; c < end; c++ {
			s.cellStart[c] = fill
			s.cellEnd[c] = fill
		}
	})
}

// identifyCellBoundaries derives each cell's [start, end) range over the
// sorted boid order. Each sorted position compares its cell id against its
// predecessor; a mismatch closes the previous cell's run and opens its own.
// Every write target is owned by exactly one position, so the pass is safe
// to run in parallel. Correct only because the sort grouped equal cell ids
// contiguously.
func (s *Simulation) identifyCellBoundaries() {
	n := len(s.cellIdx)
	s.pool.forEach(n, func(start, end int) {
		for i := start; i < end; i++ {
			c := s.cellIdx[i]
			if i == 0 {
				s.cellStart[c] = 0
			} else if prev := s.cellIdx[i-1]; prev != c {
				s.cellEnd[prev] = int32(i)
				s.cellStart[c] = int32(i)
			}
			if i == n-1 {
				s.cellEnd[c] = int32(n)
			}
		}
	})
}

// reorderCoherent copies position and velocity data into sorted order so the
// coherent strategy can walk cell ranges over contiguous memory with no
// indirection.
func (s *Simulation) reorderCoherent() {
	s.pool.forEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			src := s.arrayIdx[i]
			s.posSorted[i] = s.pos[src]
			s.velSorted[i] = s.vel[src]
		}
	})
}

// scatterCoherent copies per-step coherent results back into the
// stable-identity next-velocity buffer. arrayIdx is a permutation, so no two
// writes target the same slot.
func (s *Simulation) scatterCoherent() {
	s.pool.forEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			s.velNext[s.arrayIdx[i]] = s.velNextSorted[i]
		}
	})
}
