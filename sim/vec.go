package sim

import "math"

// Vec3 is a position or velocity in simulation space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// LenSq returns the squared length of v.
func (v Vec3) LenSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len returns the length of v.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.LenSq())))
}

// clampSpeed rescales v to maxSpeed if it is faster, preserving direction.
func clampSpeed(v Vec3, maxSpeed float32) Vec3 {
	lenSq := v.LenSq()
	if lenSq <= maxSpeed*maxSpeed {
		return v
	}
	return v.Scale(maxSpeed / float32(math.Sqrt(float64(lenSq))))
}

func max3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
