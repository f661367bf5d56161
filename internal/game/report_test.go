package game

import (
	"strings"
	"testing"
)

func TestCompileBattleReport_Victory(t *testing.T) {
	w := openWorld()
	w.Spawn(rosterSpec(1, 0, 4, 10))
	hurt, _ := w.Spawn(rosterSpec(2, 0, 4, 12))
	hurt.TakeDamage(30)
	loser, _ := w.Spawn(rosterSpec(3, 1, 28, 10))
	loser.TakeDamage(10000)
	w.RemoveDead()

	log := NewSimLog()
	log.Add(10, 1, "combat", "hit", "", 12.5)
	log.Add(12, 1, "combat", "hit", "", 7.5)
	log.Add(12, 1, "combat", "kill", "", 0)
	log.Add(3, 1, "move", "failed", "", 0)

	rpt := CompileBattleReport(w, log, 20, 20.0/60.0)
	if rpt.Outcome != OutcomeVictory || rpt.Winner != 0 {
		t.Fatalf("expected faction 0 victory, got %v winner %d", rpt.Outcome, rpt.Winner)
	}
	if len(rpt.Factions) != 2 {
		t.Fatalf("expected 2 faction reports, got %d", len(rpt.Factions))
	}
	f0, f1 := rpt.Factions[0], rpt.Factions[1]
	if f0.Total != 2 || f0.Survivors != 2 || f0.Injured != 1 {
		t.Fatalf("faction 0 report wrong: %+v", f0)
	}
	// The loser was evicted before the report, so its numbers come from
	// the spawn tallies, not the live collection.
	if f1.Total != 1 || f1.Survivors != 0 {
		t.Fatalf("faction 1 report wrong: %+v", f1)
	}
	if f1.CasualtyRate() != 1.0 {
		t.Fatalf("expected 100%% casualties for faction 1, got %v", f1.CasualtyRate())
	}
	if rpt.Hits != 2 || rpt.Kills != 1 || rpt.TotalDamage != 20.0 || rpt.MoveFails != 1 {
		t.Fatalf("log aggregation wrong: %+v", rpt)
	}
}

func TestCompileBattleReport_DeadButNotEvicted(t *testing.T) {
	w := openWorld()
	w.Spawn(rosterSpec(1, 0, 4, 10))
	d, _ := w.Spawn(rosterSpec(2, 1, 28, 10))
	d.TakeDamage(10000)
	// No RemoveDead: the corpse is still in the arena.

	rpt := CompileBattleReport(w, nil, 5, 5.0/60.0)
	if rpt.Outcome != OutcomeVictory || rpt.Winner != 0 {
		t.Fatalf("a dead-but-present unit still counts as fallen, got %+v", rpt)
	}
}

func TestCompileBattleReport_Draw(t *testing.T) {
	w := openWorld()
	a, _ := w.Spawn(rosterSpec(1, 0, 4, 10))
	b, _ := w.Spawn(rosterSpec(2, 1, 28, 10))
	a.TakeDamage(10000)
	b.TakeDamage(10000)
	w.RemoveDead()

	rpt := CompileBattleReport(w, nil, 100, 100.0/60.0)
	if rpt.Outcome != OutcomeDraw {
		t.Fatalf("expected mutual annihilation draw, got %v", rpt.Outcome)
	}
}

func TestCompileBattleReport_SingleFactionInconclusive(t *testing.T) {
	w := openWorld()
	w.Spawn(rosterSpec(1, 0, 4, 10))
	rpt := CompileBattleReport(w, nil, 0, 0)
	if rpt.Outcome != OutcomeInconclusive {
		t.Fatalf("a single-faction run cannot conclude, got %v", rpt.Outcome)
	}
}

func TestCompileBattleReport_BothStandingInconclusive(t *testing.T) {
	w := openWorld()
	w.Spawn(rosterSpec(1, 0, 4, 10))
	w.Spawn(rosterSpec(2, 1, 28, 10))
	rpt := CompileBattleReport(w, nil, 50, 50.0/60.0)
	if rpt.Outcome != OutcomeInconclusive || rpt.Winner != -1 {
		t.Fatalf("with both sides standing the run is open, got %+v", rpt)
	}
}

func TestBattleReportFormat(t *testing.T) {
	w := openWorld()
	w.Spawn(rosterSpec(1, 0, 4, 10))
	loser, _ := w.Spawn(rosterSpec(2, 1, 28, 10))
	loser.TakeDamage(10000)
	w.RemoveDead()

	out := CompileBattleReport(w, nil, 42, 0.7).Format()
	for _, want := range []string{
		"Battle Report (T=42",
		"Outcome: victory (faction 0)",
		"faction 0: survivors=1/1",
		"faction 1: survivors=0/1",
		"casualties=100%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("formatted report missing %q:\n%s", want, out)
		}
	}
}

func TestFactionReportCasualtyRate_EmptyFaction(t *testing.T) {
	if got := (FactionReport{}).CasualtyRate(); got != 0 {
		t.Fatalf("empty faction must report 0 casualties, got %v", got)
	}
}
