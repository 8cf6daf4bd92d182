package sim

import "fmt"

// Strategy selects how a step finds each boid's neighbors.
type Strategy int

const (
	// BruteForce tests every boid against every other. O(N^2), no grid
	// dependency; kept as the reference oracle.
	BruteForce Strategy = iota
	// ScatteredGrid walks the cell ranges and resolves each neighbor's
	// original array slot through the sorted index permutation.
	ScatteredGrid
	// CoherentGrid walks the cell ranges over physically reordered,
	// cache-contiguous position/velocity copies.
	CoherentGrid
)

func (s Strategy) String() string {
	switch s {
	case BruteForce:
		return "brute"
	case ScatteredGrid:
		return "scattered"
	case CoherentGrid:
		return "coherent"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name as used in config files and flags.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "brute", "bruteforce":
		return BruteForce, nil
	case "scattered":
		return ScatteredGrid, nil
	case "coherent":
		return CoherentGrid, nil
	default:
		return 0, fmt.Errorf("sim: unknown strategy %q (want brute, scattered or coherent)", name)
	}
}

// Strategies lists all neighbor-search strategies, for benchmarks and CLIs.
var Strategies = []Strategy{BruteForce, ScatteredGrid, CoherentGrid}
