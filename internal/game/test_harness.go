package game

import "fmt"

// TestSim is a headless simulation harness used by tests and the report
// binary. It drives a World on a manual clock with deterministic seeding
// and captures events in a structured SimLog.
type TestSim struct {
	World *World
	Log   *SimLog

	terrain *TerrainMap
	clock   *ManualClock
	seed    int64
	dt      float64
	tick    int

	prevStates map[int]UnitState
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // terrain, seed, tick interval, applied first
	simOptTile                       // tile edits, applied once a map exists
	simOptUnit                       // spawns, applied after the world is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapGrid sets an all-grass map of the given dimensions.
func WithMapGrid(cols, rows int, cellSize float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.terrain = NewTerrainMap(cols, rows, cellSize, Vec{})
	}}
}

// WithTerrainMap substitutes a prebuilt terrain map.
func WithTerrainMap(tm *TerrainMap) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.terrain = tm
	}}
}

// WithCombatSeed sets the combat RNG seed for deterministic runs.
func WithCombatSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithTickInterval sets the dt used by RunTicks. Defaults to 1/60s.
func WithTickInterval(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.dt = dt
	}}
}

// WithTileType edits one map cell.
func WithTileType(col, row int, t TerrainType) SimOption {
	return SimOption{simOptTile, func(ts *TestSim) {
		ts.terrain.SetTile(col, row, t)
	}}
}

// WithBlockedCell makes one map cell impassable.
func WithBlockedCell(col, row int) SimOption {
	return WithTileType(col, row, TerrainRock)
}

// WithUnit spawns a baseline infantry unit for a faction at (x, y).
func WithUnit(id, faction int, x, y float64) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		spec := DefaultRoster()[0]
		spec.ID = id
		spec.Name = fmt.Sprintf("u%d", id)
		spec.Faction = faction
		spec.X, spec.Y = x, y
		ts.World.Spawn(spec)
	}}
}

// WithUnitSpec spawns a fully specified roster entry.
func WithUnitSpec(spec UnitSpec) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.World.Spawn(spec)
	}}
}

// NewTestSim constructs a harness in three ordered passes: infrastructure,
// tile edits, then unit spawns against the built world.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Log:        NewSimLog(),
		clock:      &ManualClock{},
		seed:       1,
		dt:         1.0 / 60.0,
		prevStates: make(map[int]UnitState),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if ts.terrain == nil {
		ts.terrain = NewTerrainMap(32, 24, 1.0, Vec{})
	}
	for _, o := range opts {
		if o.kind == simOptTile {
			o.fn(ts)
		}
	}
	ts.World = NewWorld(ts.terrain,
		WithClock(ts.clock.Now),
		WithSeed(ts.seed),
		WithListener(&SimLogListener{Log: ts.Log, Tick: ts.CurrentTick}),
	)
	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}
	return ts
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.tick
}

// Now returns the harness clock time in seconds.
func (ts *TestSim) Now() float64 {
	return ts.clock.Now()
}

// MoveUnitTo forwards a move command to the world.
func (ts *TestSim) MoveUnitTo(id int, target Vec) MoveOutcome {
	return ts.World.MoveUnitTo(id, target)
}

// RunTicks advances the simulation n ticks of the configured interval.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.runOneTick()
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate returns
// true. Returns the tick at which it was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.runOneTick()
		if predicate(ts) {
			return ts.tick
		}
	}
	return -1
}

// runOneTick mirrors the production per-frame order: movement, combat,
// eviction, then state-change logging.
func (ts *TestSim) runOneTick() {
	ts.tick++
	ts.clock.Advance(ts.dt)
	ts.World.Step(ts.dt)

	for _, u := range ts.World.Units() {
		if prev, ok := ts.prevStates[u.ID()]; ok && prev != u.State() {
			ts.Log.Add(ts.tick, u.ID(), "state", "change",
				fmt.Sprintf("%s → %s", prev, u.State()), 0)
		}
		ts.prevStates[u.ID()] = u.State()
	}
}

// UnitSnapshot is a lightweight copy of one unit's state at a tick.
type UnitSnapshot struct {
	ID      int
	Name    string
	Faction int
	Pos     Vec
	State   UnitState
	HP      float64
}

// Snapshot captures the live units at the current tick.
func (ts *TestSim) Snapshot() []UnitSnapshot {
	units := ts.World.Units()
	out := make([]UnitSnapshot, 0, len(units))
	for _, u := range units {
		out = append(out, UnitSnapshot{
			ID:      u.ID(),
			Name:    u.Name(),
			Faction: u.Faction(),
			Pos:     u.Pos(),
			State:   u.State(),
			HP:      u.Stats().CurrentHP,
		})
	}
	return out
}
