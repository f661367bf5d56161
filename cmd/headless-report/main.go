package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/Garsondee/skirmish/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	firstOrderTick  int
	firstHitTick    int
	firstKillTick   int
	battleOverTick  int
	hits            int
	kills           int
	totalDamage     float64
	failedMoveOrder int

	report game.BattleReport
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "mutual-advance", "scenario name")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "mutual-advance" {
		fmt.Printf("error: unsupported scenario %q (supported: mutual-advance)\n", scenario)
		return
	}

	fmt.Printf("=== Headless Skirmish Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenarioMutualAdvance(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runScenarioMutualAdvance lines each faction up on its own map edge and
// marches both lines through the middle until the ticks run out or one
// side is wiped.
func runScenarioMutualAdvance(runIndex int, seed int64, ticks int) runStats {
	opts := []game.SimOption{
		game.WithTerrainMap(game.DefaultTerrain(1.0)),
		game.WithCombatSeed(seed),
	}
	roster := game.DefaultRoster()
	for _, spec := range roster {
		opts = append(opts, game.WithUnitSpec(spec))
	}
	ts := game.NewTestSim(opts...)

	// March every unit to its mirror position on the far side.
	tm := ts.World.Terrain()
	for _, spec := range roster {
		mirrorX := tm.Max().X - spec.X
		ts.MoveUnitTo(spec.ID, game.Vec{X: mirrorX, Y: spec.Y})
	}

	over := ts.RunUntil(func(ts *game.TestSim) bool {
		return battleDecided(ts.World)
	}, ticks)

	rpt := game.CompileBattleReport(ts.World, ts.Log, ts.CurrentTick(), ts.Now())
	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		firstOrderTick:  ts.Log.FirstTick("move", "started"),
		firstHitTick:    ts.Log.FirstTick("combat", "hit"),
		firstKillTick:   ts.Log.FirstTick("combat", "kill"),
		battleOverTick:  over,
		hits:            rpt.Hits,
		kills:           rpt.Kills,
		totalDamage:     rpt.TotalDamage,
		failedMoveOrder: rpt.MoveFails,
		report:          rpt,
	}
}

// battleDecided reports whether at most one faction still has a live unit.
func battleDecided(w *game.World) bool {
	standing := 0
	for _, f := range w.Factions() {
		spawned, fallen := w.FactionTally(f)
		if spawned > fallen {
			standing++
		}
	}
	return standing <= 1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_order=%d first_hit=%d first_kill=%d decided=%d\n",
		rs.firstOrderTick, rs.firstHitTick, rs.firstKillTick, rs.battleOverTick)
	fmt.Printf("event_totals: hits=%d kills=%d total_damage=%.1f failed_moves=%d\n",
		rs.hits, rs.kills, rs.totalDamage, rs.failedMoveOrder)
	fmt.Print(rs.report.Format())
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalHits := 0
	totalKills := 0
	totalDamage := 0.0
	wins := map[int]int{}
	draws := 0
	undecided := 0
	decidedTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalHits += rs.hits
		totalKills += rs.kills
		totalDamage += rs.totalDamage
		switch rs.report.Outcome {
		case game.OutcomeVictory:
			wins[rs.report.Winner]++
		case game.OutcomeDraw:
			draws++
		default:
			undecided++
		}
		if rs.battleOverTick >= 0 {
			decidedTicks = append(decidedTicks, rs.battleOverTick)
		}
	}

	n := float64(len(all))
	fmt.Printf("=== Aggregate (%d runs) ===\n", len(all))
	factions := make([]int, 0, len(wins))
	for f := range wins {
		factions = append(factions, f)
	}
	sort.Ints(factions)
	for _, f := range factions {
		fmt.Printf("faction_%d_wins=%d\n", f, wins[f])
	}
	fmt.Printf("draws=%d undecided=%d\n", draws, undecided)
	fmt.Printf("avg_hits=%.1f avg_kills=%.1f avg_damage=%.1f\n",
		float64(totalHits)/n, float64(totalKills)/n, totalDamage/n)
	if len(decidedTicks) > 0 {
		sum := 0
		for _, t := range decidedTicks {
			sum += t
		}
		fmt.Printf("avg_decision_tick=%.0f (over %d decided runs)\n",
			float64(sum)/float64(len(decidedTicks)), len(decidedTicks))
	}
}
