package game

// UnitStats is an immutable snapshot of a unit's combat and movement
// parameters. Mutating operations return a new snapshot rather than
// writing in place, so a stats value can be handed out freely.
type UnitStats struct {
	MaxHP           float64
	CurrentHP       float64
	MinAttack       float64
	MaxAttack       float64
	MoveSpeed       float64 // world units per second
	AttackRange     float64 // world units, measured centre-to-surface
	AttackSpeed     float64 // attacks per second
	Defense         float64 // flat damage reduction
	CollisionRadius float64 // must be > 0
}

// TakeDamage returns a copy with CurrentHP reduced by amount, clamped to 0.
func (s UnitStats) TakeDamage(amount float64) UnitStats {
	if amount < 0 {
		amount = 0
	}
	s.CurrentHP -= amount
	if s.CurrentHP < 0 {
		s.CurrentHP = 0
	}
	return s
}

// Heal returns a copy with CurrentHP raised by amount, clamped to MaxHP.
func (s UnitStats) Heal(amount float64) UnitStats {
	if amount < 0 {
		amount = 0
	}
	s.CurrentHP += amount
	if s.CurrentHP > s.MaxHP {
		s.CurrentHP = s.MaxHP
	}
	return s
}

// WithFullHP returns a copy restored to maximum health.
func (s UnitStats) WithFullHP() UnitStats {
	s.CurrentHP = s.MaxHP
	return s
}

// AttackInterval returns the seconds that must elapse between attacks.
// A unit with no attack speed never comes off cooldown.
func (s UnitStats) AttackInterval() float64 {
	if s.AttackSpeed <= 0 {
		return maxAttackInterval
	}
	return 1.0 / s.AttackSpeed
}

// maxAttackInterval stands in for "never" without resorting to +Inf,
// which would poison cooldown arithmetic.
const maxAttackInterval = 1e18
