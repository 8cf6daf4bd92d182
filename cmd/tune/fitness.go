package main

import (
	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

// evaluator runs short headless simulations and scores rule strengths by the
// mean flock polarization over the back half of each run. The front half is
// discarded as transient.
type evaluator struct {
	baseCfg *config.Config
	boids   int
	ticks   int64
	seeds   []int64

	collector *telemetry.Collector
	pos       []sim.Vec3
	vel       []sim.Vec3
}

func newEvaluator(baseCfg *config.Config, boids int, ticks int64, seeds []int64) *evaluator {
	return &evaluator{
		baseCfg:   baseCfg,
		boids:     boids,
		ticks:     ticks,
		seeds:     seeds,
		collector: telemetry.NewCollector(),
	}
}

// evaluate returns the negated mean polarization across seeds, since the
// optimizer minimizes.
func (e *evaluator) evaluate(raw []float64) float64 {
	var total float64
	for _, seed := range e.seeds {
		total += e.runOne(raw, seed)
	}
	return -total / float64(len(e.seeds))
}

func (e *evaluator) runOne(raw []float64, seed int64) float64 {
	cfg := e.baseCfg
	s, err := sim.New(sim.Params{
		Count: e.boids,
		Scale: cfg.Derived.Scale32,
		Rules: sim.Rules{
			CohesionRadius:   float32(cfg.Rules.CohesionRadius),
			SeparationRadius: float32(cfg.Rules.SeparationRadius),
			AlignmentRadius:  float32(cfg.Rules.AlignmentRadius),
			CohesionScale:    float32(raw[0]),
			SeparationScale:  float32(raw[1]),
			AlignmentScale:   float32(raw[2]),
			MaxSpeed:         float32(cfg.Boids.MaxSpeed),
		},
		Seed: seed,
	})
	if err != nil {
		// Parameter bounds guarantee a valid config; a failure here is a
		// programming error.
		panic(err)
	}
	defer s.Release()

	dt := cfg.Derived.DT32
	warmup := e.ticks / 2

	var sum float64
	var samples int
	for t := int64(0); t < e.ticks; t++ {
		s.Step(dt, sim.CoherentGrid)

		if t >= warmup && t%20 == 0 {
			e.pos, e.vel = s.Snapshot(e.pos, e.vel)
			stats := e.collector.Collect(s.Tick(), e.pos, e.vel)
			sum += stats.Polarization
			samples++
		}
	}

	if samples == 0 {
		return 0
	}
	return sum / float64(samples)
}
