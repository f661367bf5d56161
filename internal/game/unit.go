package game

// arrivalThreshold is the remaining distance at which a moving unit
// snaps to its target and returns to idle.
const arrivalThreshold = 0.05

// UnitState is the high-level behaviour state of a unit.
type UnitState int

const (
	UnitIdle   UnitState = iota // holding position
	UnitMoving                  // advancing toward target
	UnitCombat                  // halted, engaging an enemy
	UnitDead                    // terminal; only a game reset revives
)

func (s UnitState) String() string {
	switch s {
	case UnitIdle:
		return "idle"
	case UnitMoving:
		return "moving"
	case UnitCombat:
		return "combat"
	case UnitDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Unit is a single entity on the battlefield. Identity is the integer id;
// two units are the same unit iff their ids match.
type Unit struct {
	id      int
	name    string
	faction int

	pos    Vec
	target Vec
	stats  UnitStats
	state  UnitState

	lastAttackAt    float64 // seconds, clock time of the last attack
	suppressedUntil float64 // until this time the unit will not halt to fight
}

// NewUnit creates an idle unit at pos. CurrentHP in stats is respected so
// rosters can spawn pre-damaged units; a zero CurrentHP spawns at full health.
func NewUnit(id int, name string, pos Vec, faction int, stats UnitStats) *Unit {
	if stats.CurrentHP <= 0 {
		stats.CurrentHP = stats.MaxHP
	}
	if stats.CollisionRadius <= 0 {
		stats.CollisionRadius = standardCollisionRadius
	}
	return &Unit{
		id:           id,
		name:         name,
		faction:      faction,
		pos:          pos,
		target:       pos,
		stats:        stats,
		state:        UnitIdle,
		lastAttackAt: -maxAttackInterval,
	}
}

func (u *Unit) ID() int          { return u.id }
func (u *Unit) Name() string     { return u.name }
func (u *Unit) Faction() int     { return u.faction }
func (u *Unit) Pos() Vec         { return u.pos }
func (u *Unit) Target() Vec      { return u.target }
func (u *Unit) Stats() UnitStats { return u.stats }
func (u *Unit) State() UnitState { return u.state }

func (u *Unit) Alive() bool {
	return u.state != UnitDead
}

// CollisionRadius is the radius used for all unit-unit and unit-terrain
// overlap tests, distinct from any render size.
func (u *Unit) CollisionRadius() float64 {
	return u.stats.CollisionRadius
}

// CanMove reports whether the unit can accept a move order.
func (u *Unit) CanMove() bool {
	return u.state != UnitDead
}

// SetTargetPosition sets a new movement target. It fails without mutation
// when the unit cannot move. A target equal to the current position leaves
// the unit idle; anything else starts it moving (leaving combat if needed).
func (u *Unit) SetTargetPosition(p Vec) bool {
	if !u.CanMove() {
		return false
	}
	u.target = p
	if u.pos.Dist(p) <= arrivalThreshold {
		u.pos = p
		u.target = p
		u.state = UnitIdle
	} else {
		u.state = UnitMoving
	}
	return true
}

// EnterCombat halts a unit to engage. Dead units never enter combat.
func (u *Unit) EnterCombat() {
	if u.state == UnitIdle || u.state == UnitMoving {
		u.state = UnitCombat
	}
}

// ExitCombat leaves the combat state, resuming movement if an unreached
// target remains, otherwise returning to idle.
func (u *Unit) ExitCombat() {
	if u.state != UnitCombat {
		return
	}
	if u.pos.Dist(u.target) > arrivalThreshold {
		u.state = UnitMoving
	} else {
		u.state = UnitIdle
	}
}

// CanAttack reports whether the attack cooldown has elapsed at clock time now.
func (u *Unit) CanAttack(now float64) bool {
	if u.state == UnitDead {
		return false
	}
	return now-u.lastAttackAt >= u.stats.AttackInterval()
}

// MarkAttack stamps the cooldown clock.
func (u *Unit) MarkAttack(now float64) {
	u.lastAttackAt = now
}

// SuppressAttackUntil delays voluntary combat halts until clock time t.
// A freshly issued move order uses this to push through a skirmish.
func (u *Unit) SuppressAttackUntil(t float64) {
	u.suppressedUntil = t
}

// AttackSuppressed reports whether the unit is still inside its
// push-through window at clock time now.
func (u *Unit) AttackSuppressed(now float64) bool {
	return now < u.suppressedUntil
}

// IsInAttackRange reports whether other's body surface is inside this
// unit's attack range. Range is measured from the attacker's centre to the
// target's collision circle; the attacker's own radius is not added.
func (u *Unit) IsInAttackRange(other *Unit) bool {
	return u.pos.Dist(other.pos) <= u.stats.AttackRange+other.stats.CollisionRadius
}

// TakeDamage applies damage, flipping the state to dead exactly when HP
// reaches 0. Returns whether the unit is still alive.
func (u *Unit) TakeDamage(amount float64) bool {
	u.stats = u.stats.TakeDamage(amount)
	if u.stats.CurrentHP <= 0 {
		u.state = UnitDead
	}
	return u.state != UnitDead
}

// Heal restores HP on a living unit. Dead units stay dead; only
// ResetToInitialState revives.
func (u *Unit) Heal(amount float64) {
	if u.state == UnitDead {
		return
	}
	u.stats = u.stats.Heal(amount)
}

// AdvanceTowardTarget moves the unit straight toward its target at
// MoveSpeed scaled by the terrain multiplier. It snaps to the target and
// goes idle when the remaining distance drops under the arrival threshold
// or the step would overshoot. Returns true on arrival.
func (u *Unit) AdvanceTowardTarget(dt, speedMultiplier float64) bool {
	if u.state != UnitMoving {
		return false
	}
	if speedMultiplier < 0 {
		speedMultiplier = 0
	}
	step := u.stats.MoveSpeed * speedMultiplier * dt
	remaining := u.pos.Dist(u.target)
	if remaining <= arrivalThreshold || step >= remaining {
		u.pos = u.target
		u.state = UnitIdle
		return true
	}
	if step > 0 {
		dir := u.target.Sub(u.pos).Normalized()
		u.pos = u.pos.Add(dir.Scale(step))
	}
	return false
}

// stepTowardTarget computes the naive next position for dt without writing
// it, so the movement driver can clip and contact-test the step first.
// The bool reports whether the step reaches the target.
func (u *Unit) stepTowardTarget(dt, speedMultiplier float64) (Vec, bool) {
	if speedMultiplier < 0 {
		speedMultiplier = 0
	}
	step := u.stats.MoveSpeed * speedMultiplier * dt
	remaining := u.pos.Dist(u.target)
	if remaining <= arrivalThreshold || step >= remaining {
		return u.target, true
	}
	dir := u.target.Sub(u.pos).Normalized()
	return u.pos.Add(dir.Scale(step)), false
}

// setPos writes a resolved position. The movement driver is the only caller;
// it has already clipped the value against terrain and other units.
func (u *Unit) setPos(p Vec) {
	u.pos = p
}

// ResetToInitialState restores full HP and idle state, targets the current
// position and clears cooldown and suppression. Used for game restarts,
// not normal play.
func (u *Unit) ResetToInitialState() {
	u.stats = u.stats.WithFullHP()
	u.state = UnitIdle
	u.target = u.pos
	u.lastAttackAt = -maxAttackInterval
	u.suppressedUntil = 0
}
