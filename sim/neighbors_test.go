package sim

import (
	"math"
	"testing"
)

// approxEqual compares two velocities with a mixed absolute/relative
// tolerance; strategies sum neighbors in different orders, so bit equality
// is not expected.
func approxEqual(a, b Vec3, tol float32) bool {
	near := func(x, y float32) bool {
		d := float32(math.Abs(float64(x - y)))
		m := float32(math.Max(math.Abs(float64(x)), math.Abs(float64(y))))
		return d <= 1e-6 || d <= tol*m
	}
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

// TestStrategyEquivalence checks that all three strategies see the same
// conceptual neighbor set: for equal seeds they must produce equal velocity
// updates within floating-point tolerance, step after step.
func TestStrategyEquivalence(t *testing.T) {
	const (
		n     = 400
		steps = 5
		tol   = 1e-4
	)

	brute := newTestSim(t, n, 11)
	scattered := newTestSim(t, n, 11)
	coherent := newTestSim(t, n, 11)
	defer brute.Release()
	defer scattered.Release()
	defer coherent.Release()

	var bPos, bVel, oPos, oVel []Vec3
	for step := 0; step < steps; step++ {
		brute.Step(0.2, BruteForce)
		scattered.Step(0.2, ScatteredGrid)
		coherent.Step(0.2, CoherentGrid)

		bPos, bVel = brute.Snapshot(bPos, bVel)

		for name, s := range map[string]*Simulation{
			"scattered": scattered,
			"coherent":  coherent,
		} {
			oPos, oVel = s.Snapshot(oPos, oVel)
			for i := 0; i < n; i++ {
				if !approxEqual(bVel[i], oVel[i], tol) {
					t.Fatalf("step %d: %s vel[%d] = %v, brute force says %v",
						step, name, i, oVel[i], bVel[i])
				}
				if !approxEqual(bPos[i], oPos[i], tol) {
					t.Fatalf("step %d: %s pos[%d] = %v, brute force says %v",
						step, name, i, oPos[i], bPos[i])
				}
			}
		}
	}
}

// TestEmptyNeighborhood: a boid with no neighbor in range gets zero delta
// from every rule and keeps its velocity.
func TestEmptyNeighborhood(t *testing.T) {
	s := newTestSim(t, 2, 1)
	defer s.Release()

	// Far outside every interaction radius of each other.
	s.pos[0] = Vec3{-50, -50, -50}
	s.pos[1] = Vec3{50, 50, 50}
	s.vel[0] = Vec3{0.25, -0.25, 0.1}
	s.vel[1] = Vec3{-0.5, 0, 0}

	for _, strategy := range Strategies {
		t.Run(strategy.String(), func(t *testing.T) {
			var got Vec3
			switch strategy {
			case BruteForce:
				got = s.velocityBrute(0)
			case ScatteredGrid, CoherentGrid:
				s.computeIndices()
				s.sortByCell()
				s.resetRanges(0)
				s.identifyCellBoundaries()
				if strategy == ScatteredGrid {
					got = s.velocityScattered(0)
				} else {
					s.reorderCoherent()
					// Find boid 0's sorted slot.
					slot := -1
					for k, src := range s.arrayIdx {
						if src == 0 {
							slot = k
							break
						}
					}
					got = s.velocityCoherent(slot)
				}
			}
			if got != s.vel[0] {
				t.Errorf("velocity changed with no neighbors: %v -> %v", s.vel[0], got)
			}
		})
	}
}

func TestSpeedClamp(t *testing.T) {
	const n = 200
	s := newTestSim(t, n, 5)
	defer s.Release()

	// Blow the speed limit so every boid needs clamping.
	for i := range s.vel {
		s.vel[i] = Vec3{10, -10, 10}
	}

	s.Step(0.2, CoherentGrid)

	pos, vel := s.Snapshot(nil, nil)
	_ = pos
	maxSpeed := s.Rules().MaxSpeed
	for i := range vel {
		if speed := vel[i].Len(); speed > maxSpeed+1e-4 {
			t.Fatalf("vel[%d] speed = %v, exceeds max %v", i, speed, maxSpeed)
		}
	}
}

func TestClampSpeedPreservesDirection(t *testing.T) {
	v := Vec3{3, 4, 0} // length 5
	got := clampSpeed(v, 1)

	if math.Abs(float64(got.Len()-1)) > 1e-6 {
		t.Errorf("clamped length = %v, want 1", got.Len())
	}
	if math.Abs(float64(got.X/got.Y-0.75)) > 1e-5 {
		t.Errorf("direction changed: %v", got)
	}

	// Below the limit it must pass through untouched.
	slow := Vec3{0.1, 0.2, -0.1}
	if clampSpeed(slow, 1) != slow {
		t.Errorf("slow velocity modified: %v", clampSpeed(slow, 1))
	}
}

// TestRuleContributions checks the three rules in isolation with two boids
// at hand-computable positions.
func TestRuleContributions(t *testing.T) {
	rules := Rules{
		CohesionRadius:   5,
		SeparationRadius: 3,
		AlignmentRadius:  5,
		CohesionScale:    0.01,
		SeparationScale:  0.1,
		AlignmentScale:   0.1,
		MaxSpeed:         100, // avoid clamping here
	}

	self := Vec3{0, 0, 0}
	neighborPos := Vec3{2, 0, 0}
	neighborVel := Vec3{0, 1, 0}

	var acc ruleAccum
	acc.observe(self, neighborPos, neighborVel, &rules)
	delta := acc.delta(self, &rules)

	// Cohesion: (avg(2,0,0) - self) * 0.01 = (0.02, 0, 0)
	// Separation: (self - neighbor) * 0.1 = (-0.2, 0, 0)
	// Alignment: avg(0,1,0) * 0.1 = (0, 0.1, 0)
	want := Vec3{0.02 - 0.2, 0.1, 0}
	if !approxEqual(delta, want, 1e-5) {
		t.Errorf("delta = %v, want %v", delta, want)
	}
}

// TestRuleRadiiIndependent: a neighbor inside the separation radius but
// outside cohesion/alignment should only trigger separation, and vice versa.
func TestRuleRadiiIndependent(t *testing.T) {
	rules := Rules{
		CohesionRadius:   5,
		SeparationRadius: 1,
		AlignmentRadius:  5,
		CohesionScale:    1,
		SeparationScale:  1,
		AlignmentScale:   1,
		MaxSpeed:         100,
	}

	self := Vec3{0, 0, 0}

	// Inside cohesion/alignment, outside separation.
	var acc ruleAccum
	acc.observe(self, Vec3{2, 0, 0}, Vec3{0, 1, 0}, &rules)
	if acc.push != (Vec3{}) {
		t.Errorf("separation triggered at distance 2 with radius 1: %v", acc.push)
	}
	if acc.centerCount != 1 || acc.headingCount != 1 {
		t.Errorf("cohesion/alignment missed an in-radius neighbor")
	}

	// Inside all three.
	acc = ruleAccum{}
	acc.observe(self, Vec3{0.5, 0, 0}, Vec3{0, 1, 0}, &rules)
	if acc.push == (Vec3{}) {
		t.Errorf("separation missed a neighbor at distance 0.5")
	}
}
