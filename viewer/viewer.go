// Package viewer renders the flock with raylib. It consumes read-only
// snapshots from the simulation; the core knows nothing about vertex layout.
package viewer

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

const panelWidth = 240

// Viewer owns the window loop, camera and HUD state.
type Viewer struct {
	sim      *sim.Simulation
	cfg      *config.Config
	strategy sim.Strategy
	perf     *telemetry.PerfCollector

	camera rl.Camera3D
	paused bool

	// Reused snapshot buffers.
	pos []sim.Vec3
	vel []sim.Vec3

	// HUD slider state, pushed into the simulation when changed.
	cohesion   float32
	separation float32
	alignment  float32
}

// New creates a viewer around a running simulation.
func New(s *sim.Simulation, cfg *config.Config, strategy sim.Strategy, perf *telemetry.PerfCollector) *Viewer {
	scale := s.Scale()
	rules := s.Rules()
	return &Viewer{
		sim:      s,
		cfg:      cfg,
		strategy: strategy,
		perf:     perf,
		camera: rl.Camera3D{
			Position:   rl.Vector3{X: scale * 2.2, Y: scale * 1.6, Z: scale * 2.2},
			Target:     rl.Vector3{},
			Up:         rl.Vector3{Y: 1},
			Fovy:       50,
			Projection: rl.CameraPerspective,
		},
		cohesion:   rules.CohesionScale,
		separation: rules.SeparationScale,
		alignment:  rules.AlignmentScale,
	}
}

// Run opens the window and drives the update/draw loop until closed.
func (v *Viewer) Run() {
	rl.InitWindow(int32(v.cfg.Screen.Width), int32(v.cfg.Screen.Height), "flock")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(v.cfg.Screen.TargetFPS))

	for !rl.WindowShouldClose() {
		v.update()
		v.draw()
	}
}

func (v *Viewer) update() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		v.strategy = sim.BruteForce
	case rl.IsKeyPressed(rl.KeyTwo):
		v.strategy = sim.ScatteredGrid
	case rl.IsKeyPressed(rl.KeyThree):
		v.strategy = sim.CoherentGrid
	}

	rl.UpdateCamera(&v.camera, rl.CameraOrbital)

	if !v.paused {
		v.sim.Step(v.cfg.Derived.DT32, v.strategy)
	}
	v.pos, v.vel = v.sim.Snapshot(v.pos, v.vel)
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(12, 14, 24, 255))

	scale := v.sim.Scale()
	maxSpeed := v.sim.Rules().MaxSpeed

	rl.BeginMode3D(v.camera)
	rl.DrawCubeWires(rl.Vector3{}, scale*2, scale*2, scale*2, rl.NewColor(70, 80, 110, 255))
	for i := range v.pos {
		p := v.pos[i]
		c := speedColor(v.vel[i].Len(), maxSpeed)
		rl.DrawPoint3D(rl.Vector3{X: p.X, Y: p.Y, Z: p.Z}, c)
	}
	rl.EndMode3D()

	v.drawPanel()

	rl.EndDrawing()
}

// drawPanel renders the HUD: run info, rule sliders and strategy buttons.
func (v *Viewer) drawPanel() {
	x := float32(10)
	y := float32(10)

	rl.DrawText(fmt.Sprintf("boids: %d  tick: %d  fps: %d", v.sim.Count(), v.sim.Tick(), rl.GetFPS()),
		int32(x), int32(y), 18, rl.RayWhite)
	y += 24
	status := "running"
	if v.paused {
		status = "paused (space)"
	}
	rl.DrawText(fmt.Sprintf("strategy: %s (1/2/3)  %s", v.strategy, status),
		int32(x), int32(y), 18, rl.LightGray)
	y += 30

	sliders := []struct {
		label string
		value *float32
		min   float32
		max   float32
	}{
		{"cohesion", &v.cohesion, 0, 0.05},
		{"separation", &v.separation, 0, 0.5},
		{"alignment", &v.alignment, 0, 0.5},
	}

	changed := false
	for _, s := range sliders {
		rl.DrawText(s.label, int32(x), int32(y), 14, rl.Gray)
		y += 16
		next := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: panelWidth - 60, Height: 18},
			"", fmt.Sprintf("%.3f", *s.value),
			*s.value, s.min, s.max,
		)
		if next != *s.value {
			*s.value = next
			changed = true
		}
		y += 26
	}
	if changed {
		v.sim.SetRuleScales(v.cohesion, v.separation, v.alignment)
	}

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 100, Height: 26}, pauseLabel(v.paused)) {
		v.paused = !v.paused
	}
	y += 36

	if v.perf != nil {
		stats := v.perf.Stats()
		rl.DrawText(fmt.Sprintf("step: %s  (%.0f tps)",
			stats.AvgTickDuration.Round(10*time.Microsecond), stats.TicksPerSecond),
			int32(x), int32(y), 14, rl.Gray)
	}
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

// speedColor maps speed to a cold-to-hot color ramp.
func speedColor(speed, maxSpeed float32) rl.Color {
	t := speed / maxSpeed
	if t > 1 {
		t = 1
	}
	return rl.NewColor(
		uint8(60+195*t),
		uint8(120+80*(1-t)),
		uint8(255-175*t),
		255,
	)
}
