package game

import (
	"math"
	"testing"
)

// dumpLog prints the structured event log on failure for post-mortems.
func dumpLog(t *testing.T, log *SimLog) {
	t.Helper()
	for _, e := range log.Entries() {
		t.Log(e.String())
	}
}

func TestScenario_OpenFieldAdvance(t *testing.T) {
	ts := NewTestSim(WithUnit(1, 0, 2, 5))
	target := Vec{X: 6.5, Y: 5}
	if out := ts.MoveUnitTo(1, target); !out.OK || out.Failure != MoveFailureNone {
		t.Fatalf("order over open grass must be clean, got %+v", out)
	}

	// 4.5 units at speed 1.5 is three seconds of travel.
	arrived := ts.RunUntil(func(ts *TestSim) bool {
		return ts.World.Unit(1).State() == UnitIdle
	}, 60*5)
	if arrived < 0 {
		dumpLog(t, ts.Log)
		t.Fatal("unit never arrived")
	}
	if arrived < 170 || arrived > 185 {
		t.Fatalf("expected arrival around tick 180, got %d", arrived)
	}
	if got := ts.World.Unit(1).Pos(); got != target {
		t.Fatalf("arrival must land exactly on the target, got %v", got)
	}
	if ts.Log.CountCategory("state", "change") == 0 {
		t.Fatal("the moving→idle transition should be on the log")
	}
}

func TestScenario_BlockedByStationaryUnit(t *testing.T) {
	ts := NewTestSim(
		WithUnit(1, 0, 2, 5),
		WithUnit(2, 0, 3, 5),
	)
	if out := ts.MoveUnitTo(1, Vec{X: 4, Y: 5}); !out.OK {
		t.Fatalf("order failed: %+v", out)
	}

	for i := 0; i < 300; i++ {
		ts.RunTicks(1)
		x := ts.World.Unit(1).Pos().X
		if x > 2.5+1e-9 {
			dumpLog(t, ts.Log)
			t.Fatalf("tick %d: mover reached x=%.6f past the contact point", i, x)
		}
	}
	// Parked at the blocker's surface, never arriving.
	final := ts.World.Unit(1)
	if final.State() != UnitMoving {
		t.Fatalf("an unreachable target keeps the unit pushing, got %v", final.State())
	}
	if final.Pos().X < 2.45 {
		t.Fatalf("mover should press against the blocker, got %v", final.Pos())
	}
	if math.Abs(final.Pos().Y-5) > 1e-9 {
		t.Fatalf("head-on contact must not sidestep, got %v", final.Pos())
	}
}

func TestScenario_TerrainCutsPathShort(t *testing.T) {
	opts := []SimOption{WithUnit(1, 0, 4, 5)}
	for row := 0; row < 24; row++ {
		opts = append(opts, WithBlockedCell(10, row))
	}
	ts := NewTestSim(opts...)

	out := ts.MoveUnitTo(1, Vec{X: 15, Y: 5})
	if !out.OK || out.Failure != MoveFailurePathBlocked {
		t.Fatalf("expected an accepted-but-cut-short order, got %+v", out)
	}

	settled := ts.RunUntil(func(ts *TestSim) bool {
		return ts.World.Unit(1).State() == UnitIdle
	}, 60*10)
	if settled < 0 {
		dumpLog(t, ts.Log)
		t.Fatal("unit never settled at the reachable point")
	}
	u := ts.World.Unit(1)
	if u.Pos().X >= 10-u.CollisionRadius() {
		t.Fatalf("unit ended inside the wall margin at %v", u.Pos())
	}
	if u.Pos().X < 9.0 {
		t.Fatalf("unit should walk right up to the wall, got %v", u.Pos())
	}
	if !ts.World.Terrain().IsWalkable(u.Pos(), u.CollisionRadius()) {
		t.Fatalf("unit settled on unwalkable ground at %v", u.Pos())
	}
}

func TestScenario_DuelIsDeterministicPerSeed(t *testing.T) {
	duel := func(seed int64) (*TestSim, int) {
		ts := NewTestSim(
			WithCombatSeed(seed),
			WithUnit(1, 0, 10, 10),
			WithUnit(2, 1, 11.5, 10),
		)
		decided := ts.RunUntil(func(ts *TestSim) bool {
			return len(ts.World.Units()) <= 1
		}, 60*60)
		return ts, decided
	}

	a, decidedA := duel(7)
	b, decidedB := duel(7)
	if decidedA < 0 || decidedA != decidedB {
		t.Fatalf("same seed must decide at the same tick, got %d vs %d", decidedA, decidedB)
	}
	if a.Log.CountCategory("combat", "hit") != b.Log.CountCategory("combat", "hit") {
		t.Fatal("same seed must land the same number of hits")
	}
	if a.Log.SumNum("combat", "hit") != b.Log.SumNum("combat", "hit") {
		t.Fatal("same seed must deal identical total damage")
	}

	snapA, snapB := a.Snapshot(), b.Snapshot()
	if len(snapA) != 1 || len(snapB) != 1 {
		t.Fatalf("expected a single survivor on both runs, got %d and %d", len(snapA), len(snapB))
	}
	if snapA[0] != snapB[0] {
		t.Fatalf("survivor state diverged: %+v vs %+v", snapA[0], snapB[0])
	}

	rpt := CompileBattleReport(a.World, a.Log, a.CurrentTick(), a.Now())
	if rpt.Outcome != OutcomeVictory {
		dumpLog(t, a.Log)
		t.Fatalf("an adjacent duel fought to the end produces a victor, got %v", rpt.Outcome)
	}
	if rpt.Kills < 1 {
		t.Fatal("the fallen duelist must be on the log")
	}
}
