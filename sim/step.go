package sim

// Phase names reported to the PhaseTimer.
const (
	PhaseGridIndex  = "grid_index"
	PhaseSort       = "sort"
	PhaseCellBounds = "cell_bounds"
	PhaseReorder    = "reorder"
	PhaseVelocity   = "velocity"
	PhaseScatter    = "scatter"
	PhaseIntegrate  = "integrate"
)

// PhaseTimer receives per-phase timing callbacks from Step. The telemetry
// package provides an implementation; sim only depends on the interface.
type PhaseTimer interface {
	StartTick()
	StartPhase(name string)
	EndTick()
}

func (s *Simulation) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Step advances the simulation one timestep with the chosen neighbor-search
// strategy. Each phase is a barrier: its writes complete before the next
// phase reads. Velocities are double-buffered, so per-boid updates within
// the velocity phase are independent and order-insensitive.
func (s *Simulation) Step(dt float32, strategy Strategy) {
	if s.timer != nil {
		s.timer.StartTick()
	}

	switch strategy {
	case BruteForce:
		s.stepBruteForce(dt)
	case ScatteredGrid:
		s.stepGrid(dt, false)
	default:
		s.stepGrid(dt, true)
	}

	s.vel, s.velNext = s.velNext, s.vel
	s.tick++

	if s.timer != nil {
		s.timer.EndTick()
	}
}

func (s *Simulation) stepBruteForce(dt float32) {
	s.phase(PhaseVelocity)
	s.pool.forEach(len(s.pos), func(start, end int) {
		for i := start; i < end; i++ {
			s.velNext[i] = s.velocityBrute(i)
		}
	})

	s.phase(PhaseIntegrate)
	s.integrate(dt)
}

func (s *Simulation) stepGrid(dt float32, coherent bool) {
	s.phase(PhaseGridIndex)
	s.computeIndices()

	s.phase(PhaseSort)
	s.sortByCell()

	s.phase(PhaseCellBounds)
	s.resetRanges(0)
	s.identifyCellBoundaries()

	if coherent {
		s.phase(PhaseReorder)
		s.reorderCoherent()

		s.phase(PhaseVelocity)
		s.pool.forEach(len(s.pos), func(start, end int) {
			for i := start; i < end; i++ {
				s.velNextSorted[i] = s.velocityCoherent(i)
			}
		})

		// Copy coherent results back so boid identity keeps its array
		// slot across steps.
		s.phase(PhaseScatter)
		s.scatterCoherent()
	} else {
		s.phase(PhaseVelocity)
		s.pool.forEach(len(s.pos), func(start, end int) {
			for i := start; i < end; i++ {
				s.velNext[i] = s.velocityScattered(i)
			}
		})
	}

	s.phase(PhaseIntegrate)
	s.integrate(dt)
}
