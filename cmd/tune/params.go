package main

import "github.com/pthm-cable/flock/config"

// paramSpec defines a single optimizable parameter.
type paramSpec struct {
	name string
	min  float64
	max  float64
	def  float64
}

// paramVector holds the set of optimizable rule strengths. Radii are not
// tuned: the grid geometry is derived from them at initialization.
type paramVector struct {
	specs []paramSpec
}

func newParamVector() *paramVector {
	return &paramVector{
		specs: []paramSpec{
			{name: "cohesion_scale", min: 0, max: 0.05, def: 0.01},
			{name: "separation_scale", min: 0, max: 0.5, def: 0.1},
			{name: "alignment_scale", min: 0, max: 0.5, def: 0.1},
		},
	}
}

func (pv *paramVector) dim() int { return len(pv.specs) }

func (pv *paramVector) defaults() []float64 {
	v := make([]float64, len(pv.specs))
	for i, spec := range pv.specs {
		v[i] = spec.def
	}
	return v
}

// normalize converts raw parameter values to [0,1] range.
func (pv *paramVector) normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.specs))
	for i, spec := range pv.specs {
		out[i] = (raw[i] - spec.min) / (spec.max - spec.min)
	}
	return out
}

// denormalize converts [0,1] values back to raw parameter values.
func (pv *paramVector) denormalize(x []float64) []float64 {
	out := make([]float64, len(pv.specs))
	for i, spec := range pv.specs {
		out[i] = spec.min + x[i]*(spec.max-spec.min)
	}
	return out
}

// clamp bounds raw values to each parameter's range. CMA-ES may probe
// outside [0,1]; the evaluator always runs the clamped values.
func (pv *paramVector) clamp(raw []float64) []float64 {
	out := make([]float64, len(pv.specs))
	for i, spec := range pv.specs {
		v := raw[i]
		if v < spec.min {
			v = spec.min
		} else if v > spec.max {
			v = spec.max
		}
		out[i] = v
	}
	return out
}

// applyToConfig writes the parameter values into a config.
func (pv *paramVector) applyToConfig(cfg *config.Config, raw []float64) {
	cfg.Rules.CohesionScale = raw[0]
	cfg.Rules.SeparationScale = raw[1]
	cfg.Rules.AlignmentScale = raw[2]
}
