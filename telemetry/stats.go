package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/sim"
)

// FlockStats summarizes a snapshot of the flock. Polarization is the length
// of the mean velocity direction: 1 when every boid flies the same way, near
// 0 for random headings.
type FlockStats struct {
	Tick int64 `csv:"tick"`

	MeanSpeed float64 `csv:"mean_speed"`
	P50Speed  float64 `csv:"p50_speed"`
	P90Speed  float64 `csv:"p90_speed"`
	MaxSpeed  float64 `csv:"max_speed"`

	Polarization float64 `csv:"polarization"`

	CenterX float64 `csv:"center_x"`
	CenterY float64 `csv:"center_y"`
	CenterZ float64 `csv:"center_z"`
}

// Collector computes windowed flock statistics from snapshots. The speeds
// buffer is reused across calls.
type Collector struct {
	speeds []float64
}

// NewCollector creates a stats collector.
func NewCollector() *Collector {
	return &Collector{speeds: make([]float64, 0, 1024)}
}

// Collect computes flock statistics for one snapshot.
func (c *Collector) Collect(tick int64, pos, vel []sim.Vec3) FlockStats {
	n := len(pos)
	if n == 0 {
		return FlockStats{Tick: tick}
	}

	c.speeds = c.speeds[:0]

	var center sim.Vec3
	var meanDir [3]float64
	for i := 0; i < n; i++ {
		center = center.Add(pos[i])

		speed := float64(vel[i].Len())
		c.speeds = append(c.speeds, speed)
		if speed > 0 {
			meanDir[0] += float64(vel[i].X) / speed
			meanDir[1] += float64(vel[i].Y) / speed
			meanDir[2] += float64(vel[i].Z) / speed
		}
	}
	center = center.Scale(1 / float32(n))

	polarization := math.Sqrt(meanDir[0]*meanDir[0]+meanDir[1]*meanDir[1]+meanDir[2]*meanDir[2]) / float64(n)

	sort.Float64s(c.speeds)
	maxSpeed := c.speeds[len(c.speeds)-1]

	return FlockStats{
		Tick:         tick,
		MeanSpeed:    stat.Mean(c.speeds, nil),
		P50Speed:     stat.Quantile(0.5, stat.Empirical, c.speeds, nil),
		P90Speed:     stat.Quantile(0.9, stat.Empirical, c.speeds, nil),
		MaxSpeed:     maxSpeed,
		Polarization: polarization,
		CenterX:      float64(center.X),
		CenterY:      float64(center.Y),
		CenterZ:      float64(center.Z),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlockStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Tick),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("p90_speed", s.P90Speed),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("polarization", s.Polarization),
	)
}
