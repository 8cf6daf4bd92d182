package sim

// wrapCoord teleports a coordinate that left the simulation cube to the
// opposite face. A hard teleport, not a modulo wrap: a boid fast enough to
// cross the whole domain in one step still wraps only once.
func wrapCoord(v, scale float32) float32 {
	if v < -scale {
		return scale
	}
	if v > scale {
		return -scale
	}
	return v
}

// integrate advances positions by the freshly computed next velocities and
// applies the boundary wraparound.
func (s *Simulation) integrate(dt float32) {
	scale := s.params.Scale
	s.pool.forEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			p := s.pos[i].Add(s.velNext[i].Scale(dt))
			p.X = wrapCoord(p.X, scale)
			p.Y = wrapCoord(p.Y, scale)
			p.Z = wrapCoord(p.Z, scale)
			s.pos[i] = p
		}
	})
}
