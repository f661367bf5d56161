package game

import (
	"sort"

	"github.com/rs/zerolog"
)

// World owns the live unit collection as a dense arena addressed by stable
// integer id, plus the orchestrators that drive it. The orchestrators only
// ever borrow the unit slice; external spawn/removal is safe between ticks
// but must not interleave with Advance or AutoResolve.
type World struct {
	terrain  *TerrainMap
	movement *MovementOrchestrator
	combat   *CombatOrchestrator

	listeners *ListenerSet
	clock     Clock
	logger    zerolog.Logger

	units []*Unit     // dense, live units only
	index map[int]int // id → slice index

	spawned map[int]int // per-faction spawn counts, survive eviction
	fallen  map[int]int // per-faction death counts
}

type worldConfig struct {
	clock     Clock
	seed      int64
	logger    zerolog.Logger
	listeners []EventListener
}

// WorldOption configures NewWorld.
type WorldOption func(*worldConfig)

// WithClock substitutes the time source; tests pass a ManualClock.
func WithClock(c Clock) WorldOption {
	return func(wc *worldConfig) { wc.clock = c }
}

// WithSeed sets the combat RNG seed for deterministic runs.
func WithSeed(seed int64) WorldOption {
	return func(wc *worldConfig) { wc.seed = seed }
}

// WithLogger attaches a zerolog logger for lifecycle events.
func WithLogger(l zerolog.Logger) WorldOption {
	return func(wc *worldConfig) { wc.logger = l }
}

// WithListener registers an event listener at construction.
func WithListener(l EventListener) WorldOption {
	return func(wc *worldConfig) { wc.listeners = append(wc.listeners, l) }
}

// NewWorld builds a world over the given terrain.
func NewWorld(terrain *TerrainMap, opts ...WorldOption) *World {
	wc := worldConfig{
		seed:   1,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(&wc)
	}
	if wc.clock == nil {
		wc.clock = WallClock()
	}

	w := &World{
		terrain:   terrain,
		listeners: NewListenerSet(),
		clock:     wc.clock,
		logger:    wc.logger,
		index:     make(map[int]int),
		spawned:   make(map[int]int),
		fallen:    make(map[int]int),
	}
	for _, l := range wc.listeners {
		w.listeners.Register(l)
	}
	w.movement = NewMovementOrchestrator(terrain, w.listeners, w.clock)
	w.combat = NewCombatOrchestrator(wc.seed, w.listeners, w.clock)
	return w
}

// RegisterListener subscribes l to world events and returns its
// unregister func.
func (w *World) RegisterListener(l EventListener) func() {
	return w.listeners.Register(l)
}

// Terrain exposes the map for read access and tile edits.
func (w *World) Terrain() *TerrainMap {
	return w.terrain
}

// Now returns the current clock time in seconds.
func (w *World) Now() float64 {
	return w.clock()
}

// Spawn adds a unit from a roster entry. Fails when the id is already
// live. The spawn position is clamped into map bounds.
func (w *World) Spawn(spec UnitSpec) (*Unit, bool) {
	if _, exists := w.index[spec.ID]; exists {
		w.logger.Warn().Int("unit", spec.ID).Msg("spawn rejected: duplicate id")
		return nil, false
	}
	stats := spec.Stats.toStats()
	pos := w.terrain.ClampIntoBounds(Vec{X: spec.X, Y: spec.Y}, stats.CollisionRadius)
	u := NewUnit(spec.ID, spec.Name, pos, spec.Faction, stats)
	w.index[u.id] = len(w.units)
	w.units = append(w.units, u)
	w.spawned[u.faction]++
	w.logger.Info().
		Int("unit", u.id).
		Str("name", u.name).
		Int("faction", u.faction).
		Float64("x", pos.X).Float64("y", pos.Y).
		Msg("unit spawned")
	return u, true
}

// Unit returns the live unit with the given id, or nil.
func (w *World) Unit(id int) *Unit {
	i, ok := w.index[id]
	if !ok {
		return nil
	}
	return w.units[i]
}

// Units returns the live collection as a borrowed view. Callers must not
// hold it across RemoveDead.
func (w *World) Units() []*Unit {
	return w.units
}

// FactionTally reports how many units of a faction have ever spawned and
// how many of those have been evicted dead.
func (w *World) FactionTally(faction int) (spawned, fallen int) {
	return w.spawned[faction], w.fallen[faction]
}

// Factions returns the sorted faction ids that have ever spawned a unit.
func (w *World) Factions() []int {
	out := make([]int, 0, len(w.spawned))
	for f := range w.spawned {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// MoveUnitTo issues a move order for the unit with the given id. A
// successful order pulls the unit out of its fight; a rejected one leaves
// unit state untouched.
func (w *World) MoveUnitTo(id int, target Vec) MoveOutcome {
	return w.movement.OrderMove(w.Unit(id), target)
}

// CanMoveToPosition previews move feasibility without side effects.
func (w *World) CanMoveToPosition(id int, pos Vec) bool {
	return w.movement.CanMoveTo(w.Unit(id), pos, w.units)
}

// SetMovementEnabled opens or closes the move-command gate.
func (w *World) SetMovementEnabled(enabled bool, reason string) {
	w.movement.SetMovementEnabled(enabled, reason)
}

// MovementEnabled reports the gate state.
func (w *World) MovementEnabled() bool {
	return w.movement.MovementEnabled()
}

// Advance runs one movement tick over the live collection.
func (w *World) Advance(dt float64) {
	w.movement.Advance(dt, w.units)
}

// AutoResolve runs one combat pass over the live collection.
func (w *World) AutoResolve() {
	w.combat.AutoResolve(w.units)
}

// ResolveAttack resolves one commanded attack between two units,
// including the defender's counter-attack.
func (w *World) ResolveAttack(attackerID, targetID int) (CombatResult, bool) {
	return w.combat.ResolveAttack(w.Unit(attackerID), w.Unit(targetID))
}

// RemoveDead evicts every unit whose HP reached 0 from the arena.
// Irreversible. Returns the number removed.
func (w *World) RemoveDead() int {
	kept := w.units[:0]
	removed := 0
	for _, u := range w.units {
		if u.Alive() {
			kept = append(kept, u)
			continue
		}
		delete(w.index, u.id)
		w.fallen[u.faction]++
		removed++
		w.logger.Info().Int("unit", u.id).Str("name", u.name).Msg("unit removed")
	}
	// Clear the tail so evicted units are not pinned by the backing array.
	for i := len(kept); i < len(w.units); i++ {
		w.units[i] = nil
	}
	w.units = kept
	for i, u := range w.units {
		w.index[u.id] = i
	}
	return removed
}

// Step runs one full simulation tick in the fixed order: movement, then
// combat, then dead-unit eviction.
func (w *World) Step(dt float64) {
	w.Advance(dt)
	w.AutoResolve()
	w.RemoveDead()
}

// Reset restores every live unit to its initial state: full HP, idle,
// cleared cooldowns and suppression. Used for game restarts.
func (w *World) Reset() {
	for _, u := range w.units {
		u.ResetToInitialState()
	}
	w.movement.SetMovementEnabled(true, "")
	w.logger.Info().Int("units", len(w.units)).Msg("world reset")
}
