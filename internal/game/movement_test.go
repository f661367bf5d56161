package game

import (
	"math"
	"testing"
)

// circleField is a Field double built from circular no-go zones on an
// otherwise open rectangle. It keeps movement tests independent of grid
// granularity.
type circleField struct {
	min, max Vec
	blocked  []circleZone
}

type circleZone struct {
	centre Vec
	r      float64
}

func newCircleField(w, h float64) *circleField {
	return &circleField{max: Vec{X: w, Y: h}}
}

func (f *circleField) block(x, y, r float64) {
	f.blocked = append(f.blocked, circleZone{centre: Vec{X: x, Y: y}, r: r})
}

func (f *circleField) ClampIntoBounds(p Vec, radius float64) Vec {
	return Vec{
		X: clamp(p.X, f.min.X+radius, f.max.X-radius),
		Y: clamp(p.Y, f.min.Y+radius, f.max.Y-radius),
	}
}

func (f *circleField) IsWalkable(p Vec, radius float64) bool {
	for _, z := range f.blocked {
		rr := z.r + radius
		if p.DistSq(z.centre) < rr*rr {
			return false
		}
	}
	return true
}

func (f *circleField) MovementMultiplier(p Vec, radius float64) float64 {
	if !f.IsWalkable(p, radius) {
		return 0
	}
	return 1
}

// walkAlong returns the furthest point on start→desired reachable without
// entering a blocked zone, sampled at fine steps.
func (f *circleField) walkAlong(start, desired Vec, radius float64) Vec {
	d := desired.Sub(start)
	length := d.Len()
	if length < 1e-12 {
		return start
	}
	const step = 0.005
	last := start
	for t := step; t < length; t += step {
		p := start.Add(d.Scale(t / length))
		if !f.IsWalkable(p, radius) {
			return last
		}
		last = p
	}
	if f.IsWalkable(desired, radius) {
		return desired
	}
	return last
}

func (f *circleField) ResolveMovementTarget(start, desired Vec, radius float64) Vec {
	return f.walkAlong(start, desired, radius)
}

func (f *circleField) ClipMovementRaycast(start, desired Vec, radius float64) Vec {
	return f.walkAlong(start, desired, radius)
}

func newTestOrchestrator(f Field, clock Clock) *MovementOrchestrator {
	return NewMovementOrchestrator(f, nil, clock)
}

// --- OrderMove failure taxonomy ---

func TestOrderMove_GateClosed(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	mo.SetMovementEnabled(false, "camera pan in progress")
	u := unitAt(1, 2, 2)

	out := mo.OrderMove(u, Vec{X: 5, Y: 5})
	if out.OK || out.Failure != MoveFailureMovementDisabled {
		t.Fatalf("expected movement_disabled, got %+v", out)
	}
	if out.Reason != "camera pan in progress" {
		t.Fatalf("expected gate reason to surface, got %q", out.Reason)
	}
	if u.State() != UnitIdle {
		t.Fatal("refused order must not change unit state")
	}

	mo.SetMovementEnabled(true, "")
	if out := mo.OrderMove(u, Vec{X: 5, Y: 5}); !out.OK {
		t.Fatalf("reopened gate should accept orders, got %+v", out)
	}
}

func TestOrderMove_NilUnit(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	out := mo.OrderMove(nil, Vec{X: 5, Y: 5})
	if out.OK || out.Failure != MoveFailureUnitNotFound {
		t.Fatalf("expected unit_not_found, got %+v", out)
	}
}

func TestOrderMove_DeadUnit(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	u := unitAt(1, 2, 2)
	u.TakeDamage(1000)
	out := mo.OrderMove(u, Vec{X: 5, Y: 5})
	if out.OK || out.Failure != MoveFailureUnitDead {
		t.Fatalf("expected unit_dead, got %+v", out)
	}
}

func TestOrderMove_TargetBlocked(t *testing.T) {
	f := newCircleField(10, 10)
	f.block(5, 5, 1.0)
	mo := newTestOrchestrator(f, nil)
	u := unitAt(1, 2, 5)

	out := mo.OrderMove(u, Vec{X: 5, Y: 5})
	if out.OK || out.Failure != MoveFailureTargetBlocked {
		t.Fatalf("expected target_blocked_by_terrain, got %+v", out)
	}
	if u.State() != UnitIdle {
		t.Fatal("blocked target must not start movement")
	}
}

func TestOrderMove_NoViablePath(t *testing.T) {
	f := newCircleField(10, 10)
	// A zone that denies passage immediately in front of the unit while
	// leaving the far target walkable.
	f.block(1.31, 1, 0.05)
	mo := newTestOrchestrator(f, nil)
	u := unitAt(1, 1, 1)

	out := mo.OrderMove(u, Vec{X: 5, Y: 1})
	if out.OK || out.Failure != MoveFailureNoViablePath {
		t.Fatalf("expected no_viable_path, got %+v", out)
	}
	if u.State() != UnitIdle {
		t.Fatal("refused order must not start movement")
	}
}

func TestOrderMove_PathBlockedAcceptsPartialProgress(t *testing.T) {
	f := newCircleField(10, 10)
	f.block(6, 1, 0.5)
	mo := newTestOrchestrator(f, nil)
	u := unitAt(1, 1, 1)

	out := mo.OrderMove(u, Vec{X: 8, Y: 1})
	if !out.OK {
		t.Fatalf("partial progress should still be accepted, got %+v", out)
	}
	if out.Failure != MoveFailurePathBlocked {
		t.Fatalf("expected path_blocked marker, got %v", out.Failure)
	}
	if u.State() != UnitMoving {
		t.Fatal("accepted order must start movement")
	}
	// Effective target is the reachable point short of the zone, not the
	// requested one.
	if u.Target().X > 6-0.5-u.CollisionRadius() {
		t.Fatalf("effective target %v reaches into the blocked zone", u.Target())
	}
	if u.Target().Dist(Vec{X: 8, Y: 1}) < 1 {
		t.Fatalf("effective target %v should be well short of the request", u.Target())
	}
}

func TestOrderMove_SuccessSuppressesAttacks(t *testing.T) {
	clk := &ManualClock{}
	mo := newTestOrchestrator(newCircleField(10, 10), clk.Now)
	u := unitAt(1, 2, 2)

	out := mo.OrderMove(u, Vec{X: 5, Y: 5})
	if !out.OK || out.Failure != MoveFailureNone {
		t.Fatalf("clear order should succeed, got %+v", out)
	}
	if u.State() != UnitMoving {
		t.Fatalf("expected moving state, got %v", u.State())
	}
	if !u.AttackSuppressed(1.0) {
		t.Fatal("a fresh order must suppress attacks inside the window")
	}
	if u.AttackSuppressed(attackSuppressWindow) {
		t.Fatal("suppression must lapse exactly at the window boundary")
	}
}

// --- CanMoveTo ---

func TestCanMoveTo(t *testing.T) {
	f := newCircleField(10, 10)
	f.block(5, 5, 1.0)
	mo := newTestOrchestrator(f, nil)
	u := unitAt(1, 2, 2)
	other := unitAt(2, 8, 8)
	units := []*Unit{u, other}

	if mo.CanMoveTo(u, Vec{X: 5, Y: 5}, units) {
		t.Fatal("blocked terrain must preview as unreachable")
	}
	if mo.CanMoveTo(u, Vec{X: 8, Y: 8}, units) {
		t.Fatal("an occupied spot must preview as unreachable")
	}
	if !mo.CanMoveTo(u, Vec{X: 3, Y: 3}, units) {
		t.Fatal("open ground must preview as reachable")
	}

	dead := unitAt(3, 4, 4)
	dead.TakeDamage(1000)
	if mo.CanMoveTo(dead, Vec{X: 3, Y: 3}, units) {
		t.Fatal("dead units cannot move anywhere")
	}
}

func TestCanMoveTo_IsPure(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	u := unitAt(1, 2, 2)
	units := []*Unit{u}

	for i := 0; i < 3; i++ {
		if !mo.CanMoveTo(u, Vec{X: 5, Y: 5}, units) {
			t.Fatal("preview answer changed between identical calls")
		}
	}
	if u.State() != UnitIdle || u.Pos() != (Vec{X: 2, Y: 2}) {
		t.Fatal("preview must not mutate the unit")
	}
}

// --- Advance ---

func TestAdvance_ReachesAndSnapsToTarget(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	u := unitAt(1, 2, 5)
	units := []*Unit{u}
	target := Vec{X: 5, Y: 5}
	if out := mo.OrderMove(u, target); !out.OK {
		t.Fatalf("order failed: %+v", out)
	}

	dt := 1.0 / 60.0
	for i := 0; i < 60*5 && u.State() == UnitMoving; i++ {
		mo.Advance(dt, units)
	}
	if u.State() != UnitIdle {
		t.Fatalf("unit never arrived, pos %v", u.Pos())
	}
	if u.Pos() != target {
		t.Fatalf("arrival must snap exactly onto the target, got %v", u.Pos())
	}
}

func TestAdvance_StopsAtUnitContact(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	mover := unitAt(1, 2, 5)
	blocker := unitAt(2, 4, 5)
	units := []*Unit{mover, blocker}
	if out := mo.OrderMove(mover, Vec{X: 6, Y: 5}); !out.OK {
		t.Fatalf("order failed: %+v", out)
	}

	dt := 1.0 / 60.0
	combined := mover.CollisionRadius() + blocker.CollisionRadius()
	for i := 0; i < 60*5; i++ {
		mo.Advance(dt, units)
		if blocker.Pos().Dist(mover.Pos()) < combined-1e-3 {
			t.Fatalf("tick %d: mover interpenetrates blocker at %v", i, mover.Pos())
		}
	}
	// The mover has to park just short of the blocker's surface.
	gap := blocker.Pos().Dist(mover.Pos()) - combined
	if gap < -1e-3 || gap > 0.1 {
		t.Fatalf("expected mover parked at contact distance, gap %.4f", gap)
	}
	if math.Abs(mover.Pos().Y-5) > 0.2 {
		t.Fatalf("head-on approach should stay near the line, got %v", mover.Pos())
	}
}

func TestAdvance_TargetInsideBlockerKeepsSeparation(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	mover := unitAt(1, 3, 5)
	blocker := unitAt(2, 6, 5)
	units := []*Unit{mover, blocker}
	// The ordered point sits 0.04 inside the blocker's margin, within the
	// arrival threshold of the contact surface at x=5.5.
	target := Vec{X: 5.54, Y: 5}
	if out := mo.OrderMove(mover, target); !out.OK {
		t.Fatalf("order failed: %+v", out)
	}

	dt := 1.0 / 60.0
	combined := mover.CollisionRadius() + blocker.CollisionRadius()
	for i := 0; i < 60*2; i++ {
		mo.Advance(dt, units)
		if d := blocker.Pos().Dist(mover.Pos()); d < combined-1e-3 {
			t.Fatalf("tick %d: mover sank into the blocker, dist %.5f pos %v", i, d, mover.Pos())
		}
	}
	if mover.Pos() == target {
		t.Fatal("mover must not claim a point inside another body")
	}
	if mover.State() != UnitMoving {
		t.Fatalf("an occupied target keeps the unit pressing, got %v", mover.State())
	}
}

func TestAdvance_TerrainClipStopsShort(t *testing.T) {
	f := newCircleField(10, 10)
	f.block(6, 5, 0.5)
	mo := newTestOrchestrator(f, nil)
	u := unitAt(1, 2, 5)
	units := []*Unit{u}
	if out := mo.OrderMove(u, Vec{X: 9, Y: 5}); out.Failure != MoveFailurePathBlocked {
		t.Fatalf("expected a cut-short order, got %+v", out)
	}

	dt := 1.0 / 60.0
	for i := 0; i < 60*6; i++ {
		mo.Advance(dt, units)
		if !f.IsWalkable(u.Pos(), u.CollisionRadius()) {
			t.Fatalf("tick %d: unit stands in a blocked zone at %v", i, u.Pos())
		}
	}
	if u.State() != UnitIdle {
		t.Fatalf("unit should settle at the reachable point, still %v at %v", u.State(), u.Pos())
	}
	if u.Pos().X > 6-0.5-u.CollisionRadius()+1e-9 {
		t.Fatalf("unit ended past the zone boundary at %v", u.Pos())
	}
}

func TestAdvance_IgnoresIdleAndDeadUnits(t *testing.T) {
	mo := newTestOrchestrator(newCircleField(10, 10), nil)
	idle := unitAt(1, 2, 2)
	dead := unitAt(2, 3, 3)
	dead.SetTargetPosition(Vec{X: 6, Y: 6})
	dead.TakeDamage(1000)
	units := []*Unit{idle, dead}

	mo.Advance(1.0, units)
	if idle.Pos() != (Vec{X: 2, Y: 2}) || dead.Pos() != (Vec{X: 3, Y: 3}) {
		t.Fatal("idle and dead units must not move")
	}
}
