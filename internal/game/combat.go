package game

import (
	"math"
	"math/rand"
)

const (
	// Randomised damage spread applied on top of the uniform attack roll.
	damageFactorMin = 0.85
	damageFactorMax = 1.15

	// minDamage is the floor every resolved attack deals regardless of
	// stats. Defense can never reduce a hit to nothing.
	minDamage = 1.0
)

// CombatResult is the outcome of one resolved attack. Pure output value,
// not persisted anywhere.
type CombatResult struct {
	Damage         float64
	TargetKilled   bool
	AttackerKilled bool // set when a counter-attack kills the attacker
}

// CombatOrchestrator scans for in-range enemies, enforces attack cooldowns
// and applies randomised damage. It owns its RNG; the unit collection is
// borrowed per call.
type CombatOrchestrator struct {
	rng      *rand.Rand
	clock    Clock
	listener EventListener
}

// NewCombatOrchestrator creates a combat driver with its own seeded RNG.
func NewCombatOrchestrator(seed int64, listener EventListener, clock Clock) *CombatOrchestrator {
	if listener == nil {
		listener = NopListener{}
	}
	if clock == nil {
		clock = WallClock()
	}
	return &CombatOrchestrator{
		rng:      rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
		clock:    clock,
		listener: listener,
	}
}

// CalculateDamage rolls uniform(MinAttack, MaxAttack), applies the random
// spread factor and the target's flat defense, and floors the result at 1.
func (co *CombatOrchestrator) CalculateDamage(attacker, target UnitStats) float64 {
	lo, hi := attacker.MinAttack, attacker.MaxAttack
	if hi < lo {
		hi = lo
	}
	base := lo + co.rng.Float64()*(hi-lo)
	factor := damageFactorMin + co.rng.Float64()*(damageFactorMax-damageFactorMin)
	dmg := base*factor - target.Defense
	if dmg < minDamage {
		dmg = minDamage
	}
	return dmg
}

// nearestEnemyInRange returns the closest living unit of a different
// faction whose body surface is inside the attacker's reach, or nil.
func nearestEnemyInRange(attacker *Unit, units []*Unit) *Unit {
	var best *Unit
	bestDist := math.MaxFloat64
	for _, other := range units {
		if other.id == attacker.id || !other.Alive() || other.faction == attacker.faction {
			continue
		}
		d := attacker.pos.Dist(other.pos)
		if d > attacker.stats.AttackRange+other.stats.CollisionRadius {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = other
		}
	}
	return best
}

// AutoResolve runs one combat pass over the live collection. Targeting is
// not sticky: every pass re-evaluates the nearest in-range enemy, so units
// switch targets as closer threats appear. A moving unit halts into combat
// only once its push-through window has expired; it may still fire on the
// move before then.
func (co *CombatOrchestrator) AutoResolve(units []*Unit) {
	now := co.clock()
	for _, attacker := range units {
		if !attacker.Alive() {
			continue
		}
		target := nearestEnemyInRange(attacker, units)
		if target == nil {
			if attacker.State() == UnitCombat {
				attacker.ExitCombat()
			}
			continue
		}
		if attacker.State() == UnitIdle ||
			(attacker.State() == UnitMoving && !attacker.AttackSuppressed(now)) {
			attacker.EnterCombat()
		}
		if !attacker.CanAttack(now) {
			continue
		}
		co.resolveHit(attacker, target, now)
	}
}

// resolveHit applies one attack and emits the combat event.
func (co *CombatOrchestrator) resolveHit(attacker, target *Unit, now float64) CombatResult {
	dmg := co.CalculateDamage(attacker.Stats(), target.Stats())
	attacker.MarkAttack(now)
	alive := target.TakeDamage(dmg)
	result := CombatResult{Damage: dmg, TargetKilled: !alive}
	co.listener.CombatResolved(attacker, target, result)
	return result
}

// ResolveAttack resolves one commanded attack including the defender's
// immediate counter: a surviving target that is off cooldown and has the
// attacker in reach strikes back before the result is reported. Returns
// false when the attack could not be made (dead participants, same
// faction, out of range, or cooldown).
func (co *CombatOrchestrator) ResolveAttack(attacker, target *Unit) (CombatResult, bool) {
	if attacker == nil || target == nil {
		return CombatResult{}, false
	}
	if !attacker.Alive() || !target.Alive() || attacker.faction == target.faction {
		return CombatResult{}, false
	}
	now := co.clock()
	if !attacker.CanAttack(now) || !attacker.IsInAttackRange(target) {
		return CombatResult{}, false
	}

	dmg := co.CalculateDamage(attacker.Stats(), target.Stats())
	attacker.MarkAttack(now)
	alive := target.TakeDamage(dmg)
	result := CombatResult{Damage: dmg, TargetKilled: !alive}

	if alive && target.CanAttack(now) && target.IsInAttackRange(attacker) {
		counter := co.CalculateDamage(target.Stats(), attacker.Stats())
		target.MarkAttack(now)
		if !attacker.TakeDamage(counter) {
			result.AttackerKilled = true
		}
	}

	co.listener.CombatResolved(attacker, target, result)
	return result, true
}
