package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
	"github.com/pthm-cable/flock/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	strategyName := flag.String("strategy", "", "Neighbor search strategy: brute, scattered or coherent (empty = use config)")
	count := flag.Int("n", 0, "Boid count (0 = use config)")
	seed := flag.Int64("seed", 0, "Position seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output windowed stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Resolve strategy: CLI overrides config
	name := cfg.Sim.Strategy
	if *strategyName != "" {
		name = *strategyName
	}
	strategy, err := sim.ParseStrategy(name)
	if err != nil {
		slog.Error("invalid strategy", "error", err)
		os.Exit(1)
	}

	n := cfg.Boids.Count
	if *count > 0 {
		n = *count
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := sim.New(sim.Params{
		Count: n,
		Scale: cfg.Derived.Scale32,
		Rules: sim.Rules{
			CohesionRadius:   float32(cfg.Rules.CohesionRadius),
			SeparationRadius: float32(cfg.Rules.SeparationRadius),
			AlignmentRadius:  float32(cfg.Rules.AlignmentRadius),
			CohesionScale:    float32(cfg.Rules.CohesionScale),
			SeparationScale:  float32(cfg.Rules.SeparationScale),
			AlignmentScale:   float32(cfg.Rules.AlignmentScale),
			MaxSpeed:         float32(cfg.Boids.MaxSpeed),
		},
		Seed:    rngSeed,
		Workers: cfg.Sim.Workers,
	})
	if err != nil {
		slog.Error("failed to initialize simulation", "error", err)
		os.Exit(1)
	}
	defer s.Release()

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	s.SetPhaseTimer(perf)

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()

	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"boids", n,
		"strategy", strategy.String(),
		"seed", rngSeed,
		"scale", cfg.World.Scale,
		"headless", *headless,
	)

	if *headless {
		runHeadless(s, strategy, cfg, perf, output, *maxTicks, *logStats)
		return
	}

	v := viewer.New(s, cfg, strategy, perf)
	v.Run()
}

// runHeadless steps the simulation without graphics, emitting windowed stats
// and CSV rows until max ticks (if set).
func runHeadless(s *sim.Simulation, strategy sim.Strategy, cfg *config.Config,
	perf *telemetry.PerfCollector, output *telemetry.OutputManager,
	maxTicks int64, logStats bool) {

	collector := telemetry.NewCollector()
	dt := cfg.Derived.DT32
	window := int64(cfg.Telemetry.StatsWindowTicks)
	if window < 1 {
		window = 1
	}

	var pos, vel []sim.Vec3
	for {
		s.Step(dt, strategy)

		if s.Tick()%window == 0 {
			pos, vel = s.Snapshot(pos, vel)
			stats := collector.Collect(s.Tick(), pos, vel)
			perfStats := perf.Stats()

			if logStats {
				slog.Info("stats", "flock", stats, "perf", perfStats)
			}
			if err := output.WriteStats(stats); err != nil {
				slog.Error("failed to write stats", "error", err)
				os.Exit(1)
			}
			if err := output.WritePerf(perfStats, s.Tick()); err != nil {
				slog.Error("failed to write perf", "error", err)
				os.Exit(1)
			}
		}

		if maxTicks > 0 && s.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
	}
}
