package game

import "fmt"

// SimLogEntry is one recorded event during a headless simulation run.
type SimLogEntry struct {
	Tick     int
	Unit     int    // unit id, or -1 for global events
	Category string // move, combat, state
	Key      string // specific event name within the category
	Value    string // human-readable detail
	NumVal   float64
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] u3   combat   hit   12.4 dmg → u5
func (e SimLogEntry) String() string {
	who := "--"
	if e.Unit >= 0 {
		who = fmt.Sprintf("u%d", e.Unit)
	}
	return fmt.Sprintf("[T=%03d] %-4s %-8s %-16s %s", e.Tick, who, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless run. Unbounded and
// machine-readable, unlike the zerolog stream which is for humans.
type SimLog struct {
	entries []SimLogEntry
}

func NewSimLog() *SimLog {
	return &SimLog{}
}

// Add records an entry.
func (sl *SimLog) Add(tick, unit int, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Unit:     unit,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns every recorded entry in order.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// CountCategory returns how many entries match category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.Category == category && e.Key == key {
			n++
		}
	}
	return n
}

// FirstTick returns the tick of the first entry matching category and key,
// or -1 when none was recorded.
func (sl *SimLog) FirstTick(category, key string) int {
	for _, e := range sl.entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

// SumNum totals the numeric values of entries matching category and key.
func (sl *SimLog) SumNum(category, key string) float64 {
	total := 0.0
	for _, e := range sl.entries {
		if e.Category == category && e.Key == key {
			total += e.NumVal
		}
	}
	return total
}

// SimLogListener records world events into a SimLog, stamping each entry
// with the caller-supplied tick counter.
type SimLogListener struct {
	Log  *SimLog
	Tick func() int
}

func (l *SimLogListener) MovementStarted(u *Unit, from, to Vec) {
	l.Log.Add(l.Tick(), u.ID(), "move", "started",
		fmt.Sprintf("(%.2f,%.2f) → (%.2f,%.2f)", from.X, from.Y, to.X, to.Y), 0)
}

func (l *SimLogListener) MovementFailed(u *Unit, target Vec, failure MoveFailure, reason string) {
	id := -1
	if u != nil {
		id = u.ID()
	}
	l.Log.Add(l.Tick(), id, "move", "failed",
		fmt.Sprintf("%s: %s", failure, reason), 0)
}

func (l *SimLogListener) CombatResolved(attacker, target *Unit, result CombatResult) {
	l.Log.Add(l.Tick(), attacker.ID(), "combat", "hit",
		fmt.Sprintf("%.1f dmg → u%d", result.Damage, target.ID()), result.Damage)
	if result.TargetKilled {
		l.Log.Add(l.Tick(), attacker.ID(), "combat", "kill",
			fmt.Sprintf("u%d killed", target.ID()), 0)
	}
}
