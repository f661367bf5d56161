package game

import "github.com/rs/zerolog"

// MoveFailure classifies why a move command was refused or cut short.
// Every member is locally recoverable: the caller may retry with a
// different target or simply wait.
type MoveFailure int

const (
	MoveFailureNone             MoveFailure = iota
	MoveFailureUnitNotFound                 // no live unit with that id
	MoveFailureUnitDead                     // unit can no longer move
	MoveFailureTargetBlocked                // target cell is impassable terrain
	MoveFailurePathBlocked                  // terrain cuts the path short; partial progress possible
	MoveFailureNoViablePath                 // target resolves back to the current position
	MoveFailureMovementDisabled             // external gate is closed
)

func (f MoveFailure) String() string {
	switch f {
	case MoveFailureNone:
		return "none"
	case MoveFailureUnitNotFound:
		return "unit_not_found"
	case MoveFailureUnitDead:
		return "unit_dead"
	case MoveFailureTargetBlocked:
		return "target_blocked_by_terrain"
	case MoveFailurePathBlocked:
		return "path_blocked"
	case MoveFailureNoViablePath:
		return "no_viable_path"
	case MoveFailureMovementDisabled:
		return "movement_disabled"
	default:
		return "unknown"
	}
}

// EventListener observes simulation events. Callbacks fire synchronously on
// the simulation goroutine during command handling, Advance and
// AutoResolve; listeners must not mutate units or reissue commands from
// inside a callback.
type EventListener interface {
	MovementStarted(u *Unit, from, to Vec)
	MovementFailed(u *Unit, target Vec, failure MoveFailure, reason string)
	CombatResolved(attacker, target *Unit, result CombatResult)
}

// NopListener discards every event.
type NopListener struct{}

func (NopListener) MovementStarted(*Unit, Vec, Vec)                {}
func (NopListener) MovementFailed(*Unit, Vec, MoveFailure, string) {}
func (NopListener) CombatResolved(*Unit, *Unit, CombatResult)      {}

// ListenerSet fans events out to registered listeners. Register returns an
// unregister func; cancelling a subscription is simply calling it.
// Single-threaded like the rest of the core, so no locking.
type ListenerSet struct {
	nextKey   int
	listeners map[int]EventListener
}

func NewListenerSet() *ListenerSet {
	return &ListenerSet{listeners: make(map[int]EventListener)}
}

// Register adds a listener and returns its unregister func.
func (ls *ListenerSet) Register(l EventListener) func() {
	key := ls.nextKey
	ls.nextKey++
	ls.listeners[key] = l
	return func() { delete(ls.listeners, key) }
}

func (ls *ListenerSet) MovementStarted(u *Unit, from, to Vec) {
	for _, l := range ls.listeners {
		l.MovementStarted(u, from, to)
	}
}

func (ls *ListenerSet) MovementFailed(u *Unit, target Vec, failure MoveFailure, reason string) {
	for _, l := range ls.listeners {
		l.MovementFailed(u, target, failure, reason)
	}
}

func (ls *ListenerSet) CombatResolved(attacker, target *Unit, result CombatResult) {
	for _, l := range ls.listeners {
		l.CombatResolved(attacker, target, result)
	}
}

// LogListener adapts the event stream to structured zerolog output.
type LogListener struct {
	logger zerolog.Logger
}

// NewLogListener creates a LogListener wrapping a zerolog.Logger.
func NewLogListener(logger zerolog.Logger) *LogListener {
	return &LogListener{logger: logger}
}

func (l *LogListener) MovementStarted(u *Unit, from, to Vec) {
	l.logger.Debug().
		Int("unit", u.ID()).
		Float64("from_x", from.X).Float64("from_y", from.Y).
		Float64("to_x", to.X).Float64("to_y", to.Y).
		Msg("movement started")
}

func (l *LogListener) MovementFailed(u *Unit, target Vec, failure MoveFailure, reason string) {
	ev := l.logger.Debug().
		Stringer("failure", failure).
		Str("reason", reason).
		Float64("target_x", target.X).Float64("target_y", target.Y)
	if u != nil {
		ev = ev.Int("unit", u.ID())
	}
	ev.Msg("movement failed")
}

func (l *LogListener) CombatResolved(attacker, target *Unit, result CombatResult) {
	l.logger.Debug().
		Int("attacker", attacker.ID()).
		Int("target", target.ID()).
		Float64("damage", result.Damage).
		Bool("target_killed", result.TargetKilled).
		Bool("attacker_killed", result.AttackerKilled).
		Msg("combat resolved")
}
