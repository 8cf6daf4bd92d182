package sim

// ruleAccum accumulates the three flocking rules over one pass of a boid's
// neighbors: cohesion (steer toward the perceived center), separation (push
// away from close neighbors) and alignment (match the perceived heading).
type ruleAccum struct {
	center       Vec3
	centerCount  int
	push         Vec3
	heading      Vec3
	headingCount int
}

// observe folds one neighbor into the accumulators. All three radii are
// tested in the same pass.
func (a *ruleAccum) observe(selfPos, nPos, nVel Vec3, r *Rules) {
	distSq := nPos.Sub(selfPos).LenSq()

	if distSq < r.CohesionRadius*r.CohesionRadius {
		a.center = a.center.Add(nPos)
		a.centerCount++
	}
	if distSq < r.SeparationRadius*r.SeparationRadius {
		a.push = a.push.Add(selfPos.Sub(nPos))
	}
	if distSq < r.AlignmentRadius*r.AlignmentRadius {
		a.heading = a.heading.Add(nVel)
		a.headingCount++
	}
}

// delta combines the accumulators into a velocity change. Rules with no
// in-radius neighbor contribute nothing; separation always contributes its
// (possibly zero) sum since it never averages.
func (a *ruleAccum) delta(selfPos Vec3, r *Rules) Vec3 {
	var d Vec3
	if a.centerCount > 0 {
		avg := a.center.Scale(1 / float32(a.centerCount))
		d = d.Add(avg.Sub(selfPos).Scale(r.CohesionScale))
	}
	d = d.Add(a.push.Scale(r.SeparationScale))
	if a.headingCount > 0 {
		avg := a.heading.Scale(1 / float32(a.headingCount))
		d = d.Add(avg.Scale(r.AlignmentScale))
	}
	return d
}

// searchBounds returns the inclusive per-axis cell coordinate range that can
// contain any boid within maxRadius of the exact position p. Measuring from
// the position rather than its cell shrinks the range to as few as 8 cells
// when p sits near a cell corner.
func (g gridParams) searchBounds(p Vec3, maxRadius float32) (lo, hi [3]int) {
	axes := [3]struct{ p, origin float32 }{
		{p.X, g.origin.X},
		{p.Y, g.origin.Y},
		{p.Z, g.origin.Z},
	}
	for a, ax := range axes {
		l := int((ax.p - ax.origin - maxRadius) * g.invCellWidth)
		h := int((ax.p - ax.origin + maxRadius) * g.invCellWidth)
		if l < 0 {
			l = 0
		}
		if h >= g.side {
			h = g.side - 1
		}
		lo[a], hi[a] = l, h
	}
	return lo, hi
}

// velocityBrute computes boid i's next velocity against every other boid.
func (s *Simulation) velocityBrute(i int) Vec3 {
	selfPos := s.pos[i]
	var acc ruleAccum
	for j := range s.pos {
		if j == i {
			continue
		}
		acc.observe(selfPos, s.pos[j], s.vel[j], &s.rules)
	}
	return clampSpeed(s.vel[i].Add(acc.delta(selfPos, &s.rules)), s.rules.MaxSpeed)
}

// velocityScattered computes boid i's next velocity by walking the cell
// ranges around it. Each sorted slot is resolved to its original array slot
// through the index permutation.
func (s *Simulation) velocityScattered(i int) Vec3 {
	selfPos := s.pos[i]
	var acc ruleAccum

	lo, hi := s.grid.searchBounds(selfPos, s.rules.maxRadius())
	// z outermost, x innermost: walks cell ids in memory order.
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				cell := s.grid.flatten(x, y, z)
				for k := s.cellStart[cell]; k < s.cellEnd[cell]; k++ {
					j := int(s.arrayIdx[k])
					if j == i {
						continue
					}
					acc.observe(selfPos, s.pos[j], s.vel[j], &s.rules)
				}
			}
		}
	}

	return clampSpeed(s.vel[i].Add(acc.delta(selfPos, &s.rules)), s.rules.MaxSpeed)
}

// velocityCoherent computes the next velocity for the boid at sorted slot i,
// reading neighbors directly from the reordered contiguous arrays.
func (s *Simulation) velocityCoherent(i int) Vec3 {
	selfPos := s.posSorted[i]
	var acc ruleAccum

	lo, hi := s.grid.searchBounds(selfPos, s.rules.maxRadius())
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				cell := s.grid.flatten(x, y, z)
				for k := s.cellStart[cell]; k < s.cellEnd[cell]; k++ {
					if int(k) == i {
						continue
					}
					acc.observe(selfPos, s.posSorted[k], s.velSorted[k], &s.rules)
				}
			}
		}
	}

	return clampSpeed(s.velSorted[i].Add(acc.delta(selfPos, &s.rules)), s.rules.MaxSpeed)
}
