package game

import "math"

// standardCollisionRadius is the default unit footprint, also the yardstick
// for avoidance probe distances.
const standardCollisionRadius = 0.25

// avoidanceProbeCount / avoidanceProbeScale parameterise the radial search
// for a free position around a blocked destination.
const (
	avoidanceProbeCount = 8
	avoidanceProbeScale = 2.5
)

// Contact describes the earliest point along a path at which a moving
// circle first touches another unit's circle.
type Contact struct {
	T    float64 // segment parameter in [0,1]
	Pos  Vec     // mover centre at contact
	Unit *Unit   // the contacted unit
}

// All collision queries are pure functions of their inputs: they never
// mutate units and are safe to call any number of times as previews.

// HasOverlapAt reports whether a circle of movingRadius at pos overlaps any
// other living unit. Strict comparison, so exact tangency is not overlap.
func HasOverlapAt(pos Vec, units []*Unit, excludeID int, movingRadius float64) bool {
	for _, other := range units {
		if other.id == excludeID || !other.Alive() {
			continue
		}
		rr := movingRadius + other.stats.CollisionRadius
		if pos.DistSq(other.pos) < rr*rr {
			return true
		}
	}
	return false
}

// HasOverlapOnSegment reports whether a circle of movingRadius sweeping
// start→end would overlap any other living unit anywhere along the path.
// Each unit's centre is projected onto the segment (clamped to [0,1]) and
// the closest point tested, so grazing contact is detected even when
// neither endpoint overlaps.
func HasOverlapOnSegment(start, end Vec, units []*Unit, excludeID int, movingRadius float64) bool {
	d := end.Sub(start)
	lenSq := d.LenSq()
	for _, other := range units {
		if other.id == excludeID || !other.Alive() {
			continue
		}
		t := 0.0
		if lenSq > 1e-24 {
			t = clamp01(other.pos.Sub(start).Dot(d) / lenSq)
		}
		closest := start.Add(d.Scale(t))
		rr := movingRadius + other.stats.CollisionRadius
		if closest.DistSq(other.pos) < rr*rr {
			return true
		}
	}
	return false
}

// FindFirstContact solves, for each candidate unit, the quadratic
//
//	|start + t·(end−start) − centre|² = (movingRadius+otherRadius)²
//
// for t ∈ [0,1] and returns the earliest contact along the path. A
// degenerate (zero-length) segment falls back to a point test at t=0, and a
// start already inside the combined radius reports contact at t=0 even when
// the motion points away from the obstacle.
func FindFirstContact(start, end Vec, units []*Unit, excludeID int, movingRadius float64) (Contact, bool) {
	d := end.Sub(start)
	a := d.LenSq()

	best := Contact{T: math.MaxFloat64}
	for _, other := range units {
		if other.id == excludeID || !other.Alive() {
			continue
		}
		rr := movingRadius + other.stats.CollisionRadius
		f := start.Sub(other.pos)
		c := f.LenSq() - rr*rr

		var t float64
		switch {
		case c < 0:
			// Already overlapping at the start.
			t = 0
		case a < 1e-24:
			// Degenerate segment and not overlapping: no contact possible.
			continue
		default:
			b := 2 * f.Dot(d)
			disc := b*b - 4*a*c
			if disc < 0 {
				continue
			}
			t = (-b - math.Sqrt(disc)) / (2 * a)
			if t < 0 || t > 1 {
				continue
			}
		}
		if t < best.T {
			best = Contact{T: t, Pos: start.Add(d.Scale(t)), Unit: other}
		}
	}
	if best.Unit == nil {
		return Contact{}, false
	}
	return best, true
}

// AvoidancePosition returns desired when it is free of other units,
// otherwise the first free position among eight probes spaced evenly around
// desired. When every probe is blocked the unit's current position comes
// back unchanged and the caller must treat the result as "stay put".
func AvoidancePosition(u *Unit, desired Vec, units []*Unit) Vec {
	r := u.stats.CollisionRadius
	if !HasOverlapAt(desired, units, u.id, r) {
		return desired
	}
	probeDist := avoidanceProbeScale * standardCollisionRadius
	for i := 0; i < avoidanceProbeCount; i++ {
		angle := 2 * math.Pi * float64(i) / avoidanceProbeCount
		p := Vec{
			X: desired.X + math.Cos(angle)*probeDist,
			Y: desired.Y + math.Sin(angle)*probeDist,
		}
		if !HasOverlapAt(p, units, u.id, r) {
			return p
		}
	}
	return u.pos
}
