package game

import (
	"fmt"
	"sort"
	"strings"
)

// BattleOutcome classifies who holds the field when a run ends.
type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota
	OutcomeVictory
	OutcomeDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// FactionReport aggregates one faction's units at the end of a run.
type FactionReport struct {
	Faction   int
	Total     int
	Survivors int
	Injured   int // alive with less than full HP
	HPPool    float64
	MaxHPPool float64
}

// CasualtyRate returns the fraction of the faction that died, 0 when empty.
func (f FactionReport) CasualtyRate() float64 {
	if f.Total == 0 {
		return 0
	}
	return float64(f.Total-f.Survivors) / float64(f.Total)
}

// BattleReport is the end-of-run summary produced by the report binary and
// the in-game debug overlay.
type BattleReport struct {
	Tick        int
	Elapsed     float64
	Outcome     BattleOutcome
	Winner      int // faction id, meaningful only for OutcomeVictory
	Factions    []FactionReport
	Hits        int
	Kills       int
	TotalDamage float64
	MoveFails   int
	Description string
}

// CompileBattleReport summarises the world and event log into a report.
// Faction totals come from the world's spawn/death tallies, so units
// already evicted by RemoveDead still count.
func CompileBattleReport(w *World, log *SimLog, tick int, elapsed float64) BattleReport {
	byFaction := make(map[int]*FactionReport)
	for _, id := range w.Factions() {
		spawned, fallen := w.FactionTally(id)
		byFaction[id] = &FactionReport{
			Faction:   id,
			Total:     spawned,
			Survivors: spawned - fallen,
		}
	}
	for _, u := range w.Units() {
		f := byFaction[u.Faction()]
		s := u.Stats()
		f.MaxHPPool += s.MaxHP
		if u.State() == UnitDead {
			// Dead but not yet evicted.
			f.Survivors--
			continue
		}
		f.HPPool += s.CurrentHP
		if s.CurrentHP < s.MaxHP {
			f.Injured++
		}
	}

	rpt := BattleReport{Tick: tick, Elapsed: elapsed}
	if log != nil {
		rpt.Hits = log.CountCategory("combat", "hit")
		rpt.Kills = log.CountCategory("combat", "kill")
		rpt.TotalDamage = log.SumNum("combat", "hit")
		rpt.MoveFails = log.CountCategory("move", "failed")
	}

	factions := make([]FactionReport, 0, len(byFaction))
	for _, f := range byFaction {
		factions = append(factions, *f)
	}
	sort.Slice(factions, func(i, j int) bool { return factions[i].Faction < factions[j].Faction })
	rpt.Factions = factions

	standing := 0
	winner := -1
	for _, f := range factions {
		if f.Survivors > 0 {
			standing++
			winner = f.Faction
		}
	}
	switch {
	case len(factions) < 2:
		rpt.Outcome = OutcomeInconclusive
		rpt.Description = "single_faction_run"
	case standing == 1:
		rpt.Outcome = OutcomeVictory
		rpt.Winner = winner
		rpt.Description = fmt.Sprintf("faction_%d_eliminated_all_opposition", winner)
	case standing == 0:
		rpt.Outcome = OutcomeDraw
		rpt.Description = "mutual_annihilation"
	default:
		rpt.Outcome = OutcomeInconclusive
		rpt.Winner = -1
		rpt.Description = "multiple_factions_standing"
	}
	return rpt
}

// Format renders the report as a human-readable multi-line string.
func (r BattleReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Battle Report (T=%d, %.1fs) ===\n", r.Tick, r.Elapsed)
	fmt.Fprintf(&sb, "Outcome: %s", r.Outcome)
	if r.Outcome == OutcomeVictory {
		fmt.Fprintf(&sb, " (faction %d)", r.Winner)
	}
	fmt.Fprintf(&sb, " [%s]\n", r.Description)

	sb.WriteString("\n--- Factions ---\n")
	for _, f := range r.Factions {
		fmt.Fprintf(&sb, "  faction %d: survivors=%d/%d  injured=%d  hp=%.0f/%.0f  casualties=%.0f%%\n",
			f.Faction, f.Survivors, f.Total, f.Injured, f.HPPool, f.MaxHPPool, f.CasualtyRate()*100)
	}

	sb.WriteString("\n--- Combat ---\n")
	fmt.Fprintf(&sb, "  hits=%d  kills=%d  total_damage=%.1f\n", r.Hits, r.Kills, r.TotalDamage)
	fmt.Fprintf(&sb, "  failed_move_orders=%d\n", r.MoveFails)
	return sb.String()
}
