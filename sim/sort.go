package sim

import "sort"

// cellKeySorter sorts the (gridCellIndex, arrayIndex) pair arrays by cell id.
// Intra-cell order after the sort is unspecified; only cell membership
// matters for the boundary scan.
type cellKeySorter struct {
	keys []int32 // grid cell ids
	vals []int32 // boid array indices
}

func (s cellKeySorter) Len() int           { return len(s.keys) }
func (s cellKeySorter) Less(i, j int) bool { return s.keys[i] < s.keys[j] }

func (s cellKeySorter) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}

// sortByCell groups boids by cell id, reordering the identity mapping in
// arrayIdx alongside the keys.
func (s *Simulation) sortByCell() {
	sort.Sort(cellKeySorter{keys: s.cellIdx, vals: s.arrayIdx})
}
