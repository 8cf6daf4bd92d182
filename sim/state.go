// Package sim implements the flocking simulation core: particle state, the
// uniform spatial grid rebuilt every step, the three neighbor-search
// strategies, and position integration.
package sim

import (
	"fmt"
	"math/rand"
	"sync"
)

// Rules holds the three flocking rule radii and strengths plus the speed
// limit. Radii are fixed for a run (the grid is sized from them); strengths
// may be adjusted between steps.
type Rules struct {
	CohesionRadius   float32
	SeparationRadius float32
	AlignmentRadius  float32

	CohesionScale   float32
	SeparationScale float32
	AlignmentScale  float32

	MaxSpeed float32
}

// maxRadius returns the largest interaction radius, which bounds the
// neighbor-cell search.
func (r Rules) maxRadius() float32 {
	return max3(r.CohesionRadius, r.SeparationRadius, r.AlignmentRadius)
}

// Params configures a simulation run.
type Params struct {
	Count int     // number of boids, fixed for the run
	Scale float32 // scene half-extent; boids live in [-Scale, Scale]^3
	Rules Rules
	Seed  int64 // position seed; equal seeds reproduce equal runs
	// Workers sets the worker pool size. Zero means GOMAXPROCS.
	Workers int
}

// Simulation owns all per-boid and per-cell buffers for one run. Buffers are
// allocated once by New and reused every step; strategies and the integrator
// borrow them per phase and never retain references.
type Simulation struct {
	params Params
	rules  Rules
	grid   gridParams

	pos     []Vec3
	vel     []Vec3 // read-only during a step
	velNext []Vec3 // write-only during a step; swapped in after

	// Per-step grid scratch, rebuilt from scratch each step.
	arrayIdx  []int32 // identity before sort, permutation after
	cellIdx   []int32 // cell id per boid, sorted alongside arrayIdx
	cellStart []int32 // per-cell range start into sorted order
	cellEnd   []int32 // per-cell range end (half-open)

	// Coherent-strategy buffers in sorted order.
	posSorted     []Vec3
	velSorted     []Vec3
	velNextSorted []Vec3

	pool    *workerPool
	timer   PhaseTimer
	release sync.Once
	tick    int64
}

// New allocates and seeds a simulation. Initial positions are derived from a
// deterministic hash of (boid index, seed), so runs with equal parameters are
// reproducible.
func New(params Params) (*Simulation, error) {
	if params.Count <= 0 {
		return nil, fmt.Errorf("sim: boid count must be positive, got %d", params.Count)
	}
	if params.Scale <= 0 {
		return nil, fmt.Errorf("sim: scene scale must be positive, got %g", params.Scale)
	}
	maxR := params.Rules.maxRadius()
	if maxR <= 0 {
		return nil, fmt.Errorf("sim: at least one rule radius must be positive")
	}
	if params.Rules.MaxSpeed <= 0 {
		return nil, fmt.Errorf("sim: max speed must be positive, got %g", params.Rules.MaxSpeed)
	}

	grid := newGridParams(params.Scale, maxR)

	n := params.Count
	s := &Simulation{
		params: params,
		rules:  params.Rules,
		grid:   grid,

		pos:     make([]Vec3, n),
		vel:     make([]Vec3, n),
		velNext: make([]Vec3, n),

		arrayIdx:  make([]int32, n),
		cellIdx:   make([]int32, n),
		cellStart: make([]int32, grid.cellCount),
		cellEnd:   make([]int32, grid.cellCount),

		posSorted:     make([]Vec3, n),
		velSorted:     make([]Vec3, n),
		velNextSorted: make([]Vec3, n),

		pool: newWorkerPool(params.Workers),
	}

	for i := range s.pos {
		s.pos[i] = seededUnitVec(params.Seed, i).Scale(params.Scale)
	}

	s.pool.start()
	return s, nil
}

// seededUnitVec returns a deterministic pseudo-random vector in [-1, 1]^3
// keyed by (seed, index).
func seededUnitVec(seed int64, index int) Vec3 {
	rng := rand.New(rand.NewSource(seed ^ int64(uint64(index+1)*0x9e3779b97f4a7c15)))
	return Vec3{
		X: rng.Float32()*2 - 1,
		Y: rng.Float32()*2 - 1,
		Z: rng.Float32()*2 - 1,
	}
}

// Count returns the number of boids.
func (s *Simulation) Count() int { return len(s.pos) }

// Scale returns the scene half-extent.
func (s *Simulation) Scale() float32 { return s.params.Scale }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int64 { return s.tick }

// Rules returns the active rule configuration.
func (s *Simulation) Rules() Rules { return s.rules }

// SetRuleScales adjusts the three rule strengths between steps. Radii stay
// fixed because the grid geometry is derived from them.
func (s *Simulation) SetRuleScales(cohesion, separation, alignment float32) {
	s.rules.CohesionScale = cohesion
	s.rules.SeparationScale = separation
	s.rules.AlignmentScale = alignment
}

// Snapshot copies current positions and velocities into the given slices,
// growing them if needed, and returns them. Call between steps; the
// simulation is not safe for concurrent stepping and reading.
func (s *Simulation) Snapshot(pos, vel []Vec3) ([]Vec3, []Vec3) {
	if cap(pos) < len(s.pos) {
		pos = make([]Vec3, len(s.pos))
	}
	if cap(vel) < len(s.vel) {
		vel = make([]Vec3, len(s.vel))
	}
	pos = pos[:len(s.pos)]
	vel = vel[:len(s.vel)]
	copy(pos, s.pos)
	copy(vel, s.vel)
	return pos, vel
}

// SetPhaseTimer installs an optional per-phase timing hook (see the
// telemetry package). Pass nil to disable.
func (s *Simulation) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

// Release stops the worker pool and drops all buffers. Safe to call more
// than once; only the first call does work.
func (s *Simulation) Release() {
	s.release.Do(func() {
		s.pool.stop()
		s.pos = nil
		s.vel = nil
		s.velNext = nil
		s.arrayIdx = nil
		s.cellIdx = nil
		s.cellStart = nil
		s.cellEnd = nil
		s.posSorted = nil
		s.velSorted = nil
		s.velNextSorted = nil
	})
}
