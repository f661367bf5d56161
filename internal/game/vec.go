package game

import "math"

// Vec is a 2D point or displacement in world units. Value type; no identity.
type Vec struct {
	X float64
	Y float64
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec) Dist(o Vec) float64 {
	return v.Sub(o).Len()
}

func (v Vec) DistSq(o Vec) float64 {
	return v.Sub(o).LenSq()
}

// Normalized returns the unit-length vector in the same direction,
// or the zero vector when v is (near-)degenerate.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l < 1e-12 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Lerp returns the point at parameter t along the segment v→o.
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{X: v.X + (o.X-v.X)*t, Y: v.Y + (o.Y-v.Y)*t}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
