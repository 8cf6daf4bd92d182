package sim

import "testing"

func TestWrapCoord(t *testing.T) {
	const scale = 100

	tests := []struct {
		name string
		v    float32
		want float32
	}{
		{"inside", 50, 50},
		{"at positive boundary", 100, 100},
		{"at negative boundary", -100, -100},
		{"just past positive", 100.001, -100},
		{"just past negative", -100.001, 100},
		// Hard teleport: crossing the whole domain still wraps only once.
		{"far past positive", 500, -100},
		{"far past negative", -500, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapCoord(tt.v, scale); got != tt.want {
				t.Errorf("wrapCoord(%v, %v) = %v, want %v", tt.v, scale, got, tt.want)
			}
		})
	}
}

func TestIntegrateAdvancesAndWraps(t *testing.T) {
	s := newTestSim(t, 3, 1)
	defer s.Release()

	s.pos[0] = Vec3{0, 0, 0}
	s.pos[1] = Vec3{99.9, 0, 0}
	s.pos[2] = Vec3{-99.9, 50, 0}
	s.velNext[0] = Vec3{1, 2, -1}
	s.velNext[1] = Vec3{1, 0, 0}
	s.velNext[2] = Vec3{-1, 0, 0}

	s.integrate(0.5)

	if s.pos[0] != (Vec3{0.5, 1, -0.5}) {
		t.Errorf("pos[0] = %v, want (0.5, 1, -0.5)", s.pos[0])
	}
	if s.pos[1].X != -100 {
		t.Errorf("pos[1].X = %v, want teleport to -100", s.pos[1].X)
	}
	if s.pos[2].X != 100 {
		t.Errorf("pos[2].X = %v, want teleport to 100", s.pos[2].X)
	}
	if s.pos[2].Y != 50 {
		t.Errorf("pos[2].Y = %v, want 50 (other axes untouched)", s.pos[2].Y)
	}
}

// TestPositionsStayInGrid: after many steps with the wraparound active,
// every position must still map to a valid grid cell.
func TestPositionsStayInGrid(t *testing.T) {
	s := newTestSim(t, 500, 21)
	defer s.Release()

	for i := range s.vel {
		s.vel[i] = Vec3{1, -1, 1}
	}

	for step := 0; step < 50; step++ {
		s.Step(1.0, CoherentGrid)
	}

	for i, p := range s.pos {
		if p.X < -100 || p.X > 100 || p.Y < -100 || p.Y > 100 || p.Z < -100 || p.Z > 100 {
			t.Fatalf("pos[%d] = %v escaped the simulation cube", i, p)
		}
		if c := s.grid.cellOf(p); c < 0 || c >= s.grid.cellCount {
			t.Fatalf("pos[%d] = %v maps to out-of-range cell %d", i, p, c)
		}
	}
}
