package game

import (
	"strings"
	"testing"
)

func TestSimLogEntryString(t *testing.T) {
	e := SimLogEntry{Tick: 42, Unit: 3, Category: "combat", Key: "hit", Value: "12.4 dmg"}
	s := e.String()
	if !strings.HasPrefix(s, "[T=042]") {
		t.Fatalf("missing zero-padded tick prefix: %q", s)
	}
	for _, want := range []string{"u3", "combat", "hit", "12.4 dmg"} {
		if !strings.Contains(s, want) {
			t.Fatalf("entry line missing %q: %q", want, s)
		}
	}

	global := SimLogEntry{Tick: 1, Unit: -1, Category: "state", Key: "reset"}
	if !strings.Contains(global.String(), "--") {
		t.Fatalf("global entries use a placeholder id: %q", global.String())
	}
}

func TestSimLogQueries(t *testing.T) {
	log := NewSimLog()
	log.Add(5, 1, "combat", "hit", "", 10)
	log.Add(7, 2, "combat", "hit", "", 4)
	log.Add(7, 1, "combat", "kill", "", 0)
	log.Add(9, 1, "move", "started", "", 0)

	if n := log.CountCategory("combat", "hit"); n != 2 {
		t.Fatalf("expected 2 hits, got %d", n)
	}
	if got := log.FirstTick("combat", "kill"); got != 7 {
		t.Fatalf("expected first kill at tick 7, got %d", got)
	}
	if got := log.FirstTick("combat", "flee"); got != -1 {
		t.Fatalf("unrecorded events report -1, got %d", got)
	}
	if got := log.SumNum("combat", "hit"); got != 14 {
		t.Fatalf("expected summed damage 14, got %v", got)
	}
	if len(log.Entries()) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(log.Entries()))
	}
}

func TestMoveFailureString(t *testing.T) {
	cases := map[MoveFailure]string{
		MoveFailureNone:             "none",
		MoveFailureUnitNotFound:     "unit_not_found",
		MoveFailureUnitDead:         "unit_dead",
		MoveFailureTargetBlocked:    "target_blocked_by_terrain",
		MoveFailurePathBlocked:      "path_blocked",
		MoveFailureNoViablePath:     "no_viable_path",
		MoveFailureMovementDisabled: "movement_disabled",
	}
	for f, want := range cases {
		if f.String() != want {
			t.Fatalf("failure %d: expected %q, got %q", f, want, f.String())
		}
	}
}
