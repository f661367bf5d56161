package game

const (
	// collisionBackoff is the fixed distance stepped away from a contact or
	// interpenetration, opposite the direction of travel.
	collisionBackoff = 0.02

	// immediateContactEpsilon: contacts this close to the start of a step
	// count as "about to touch" and resolve short of the contact point.
	immediateContactEpsilon = 1e-3

	// attackSuppressWindow is how long a fresh move order keeps a unit from
	// voluntarily halting to fight, letting it push through a skirmish.
	attackSuppressWindow = 1.5
)

// Field is the walkability capability movement consumes: terrain queries,
// speed multipliers and swept raycasts over a bounded area. The grid
// TerrainMap is the sole production implementation; tests substitute a
// circle-obstacle double.
type Field interface {
	ClampIntoBounds(p Vec, radius float64) Vec
	IsWalkable(p Vec, radius float64) bool
	MovementMultiplier(p Vec, radius float64) float64
	ResolveMovementTarget(start, desired Vec, radius float64) Vec
	ClipMovementRaycast(start, desired Vec, radius float64) Vec
}

// MoveOutcome reports how a move order was handled. OK with
// MoveFailurePathBlocked means the order was accepted but terrain cuts the
// path short, so only partial progress toward the requested target is
// possible.
type MoveOutcome struct {
	OK      bool
	Failure MoveFailure
	Reason  string
}

// MovementOrchestrator advances every moving unit each tick, combining
// terrain clipping with unit-unit contact resolution. It holds no unit
// state of its own; the live collection is borrowed per call.
type MovementOrchestrator struct {
	field    Field
	listener EventListener
	clock    Clock

	enabled        bool
	disabledReason string
}

// NewMovementOrchestrator wires the per-tick movement driver. Movement
// starts enabled.
func NewMovementOrchestrator(field Field, listener EventListener, clock Clock) *MovementOrchestrator {
	if listener == nil {
		listener = NopListener{}
	}
	if clock == nil {
		clock = WallClock()
	}
	return &MovementOrchestrator{
		field:    field,
		listener: listener,
		clock:    clock,
		enabled:  true,
	}
}

// SetMovementEnabled opens or closes the external command gate. While
// closed, move orders fail immediately with the given reason and no unit
// state is touched. Exists so an input layer can park commands mid-gesture;
// Advance itself keeps running.
func (mo *MovementOrchestrator) SetMovementEnabled(enabled bool, reason string) {
	mo.enabled = enabled
	if enabled {
		mo.disabledReason = ""
	} else {
		mo.disabledReason = reason
	}
}

// MovementEnabled reports the gate state.
func (mo *MovementOrchestrator) MovementEnabled() bool {
	return mo.enabled
}

// OrderMove validates and issues a move order for u. Failures fire the
// movement-failed callback and successes fire movement-started.
func (mo *MovementOrchestrator) OrderMove(u *Unit, target Vec) MoveOutcome {
	fail := func(failure MoveFailure, reason string) MoveOutcome {
		mo.listener.MovementFailed(u, target, failure, reason)
		return MoveOutcome{OK: false, Failure: failure, Reason: reason}
	}

	if !mo.enabled {
		reason := mo.disabledReason
		if reason == "" {
			reason = "movement is disabled"
		}
		return fail(MoveFailureMovementDisabled, reason)
	}
	if u == nil {
		return fail(MoveFailureUnitNotFound, "no unit with that id")
	}
	if !u.CanMove() {
		return fail(MoveFailureUnitDead, "unit is dead")
	}

	r := u.CollisionRadius()
	clamped := mo.field.ClampIntoBounds(target, r)
	if !mo.field.IsWalkable(clamped, r) {
		return fail(MoveFailureTargetBlocked, "target lies in impassable terrain")
	}

	resolved := mo.field.ResolveMovementTarget(u.Pos(), clamped, r)
	cutShort := resolved.Dist(clamped) > walkableMargin+raycastBackoff
	if cutShort && resolved.Dist(u.Pos()) <= arrivalThreshold {
		return fail(MoveFailureNoViablePath, "target resolves to the current position")
	}

	from := u.Pos()
	effective := clamped
	outcome := MoveOutcome{OK: true, Failure: MoveFailureNone}
	if cutShort {
		// Partial progress: walk to the reachable point instead of grinding
		// against the obstruction every tick.
		effective = resolved
		outcome.Failure = MoveFailurePathBlocked
		outcome.Reason = "terrain blocks the direct path; moving as far as possible"
	}
	if !u.SetTargetPosition(effective) {
		return fail(MoveFailureUnitDead, "unit is dead")
	}
	u.SuppressAttackUntil(mo.clock() + attackSuppressWindow)
	mo.listener.MovementStarted(u, from, effective)
	return outcome
}

// CanMoveTo is a read-only feasibility preview: the clamped position must
// be walkable for the unit's footprint and free of other living units.
// Never mutates unit or map state, so UIs may poll it freely.
func (mo *MovementOrchestrator) CanMoveTo(u *Unit, pos Vec, units []*Unit) bool {
	if u == nil || !u.CanMove() {
		return false
	}
	r := u.CollisionRadius()
	clamped := mo.field.ClampIntoBounds(pos, r)
	if !mo.field.IsWalkable(clamped, r) {
		return false
	}
	return !HasOverlapAt(clamped, units, u.ID(), r)
}

// Advance steps every living, moving unit by dt seconds. Callers clamp dt
// (typically to one display frame) before calling; the driver itself does
// not reject oversized steps.
func (mo *MovementOrchestrator) Advance(dt float64, units []*Unit) {
	for _, u := range units {
		if u.State() != UnitMoving {
			continue
		}
		mo.advanceUnit(dt, u, units)
	}
}

// advanceUnit resolves one unit's step: terrain-clipped straight-line
// motion, then unit-unit contact policy, then a final terrain re-clip so a
// collision sidestep can never land in a blocked cell.
func (mo *MovementOrchestrator) advanceUnit(dt float64, u *Unit, units []*Unit) {
	r := u.CollisionRadius()
	u.target = mo.field.ClampIntoBounds(u.target, r)

	mult := mo.field.MovementMultiplier(u.pos, r)
	desired, _ := u.stepTowardTarget(dt, mult)
	next := mo.field.ClipMovementRaycast(u.pos, desired, r)

	dir := next.Sub(u.pos).Normalized()
	if dir == (Vec{}) {
		dir = u.target.Sub(u.pos).Normalized()
	}

	contact, hit := FindFirstContact(u.pos, next, units, u.id, r)

	var resolved Vec
	switch {
	case HasOverlapAt(u.pos, units, u.id, r):
		// Interpenetrating already: back off opposite the travel direction,
		// radial avoidance when that is blocked too.
		back := u.pos.Sub(dir.Scale(collisionBackoff))
		if HasOverlapAt(back, units, u.id, r) {
			resolved = AvoidancePosition(u, u.pos, units)
		} else {
			resolved = back
		}
	case hit && contact.T <= immediateContactEpsilon:
		// About to touch: stop just short of the contact point.
		resolved = contact.Pos.Sub(dir.Scale(collisionBackoff))
	case hit:
		// Contact further along the path: stop exactly at it.
		resolved = contact.Pos
	default:
		resolved = next
	}

	final := mo.field.ClipMovementRaycast(u.pos, resolved, r)
	u.setPos(final)

	// Snap only onto an unoccupied point. A target inside another body's
	// margin keeps the unit pressing from the contact-resolved position.
	if u.pos.Dist(u.target) <= arrivalThreshold && !HasOverlapAt(u.target, units, u.id, r) {
		u.pos = u.target
		u.state = UnitIdle
	}
}
