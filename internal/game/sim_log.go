package game

import (
	"fmt"
	"strings"
)

// SimLog categories.
const (
	CatDetection  = "detection"  // threshold flashes, caught
	CatAgent      = "agent"      // state and routine phase changes
	CatStimulus   = "stimulus"   // discrete stimulus applied
	CatProp       = "prop"       // prop triggers
	CatTimer      = "timer"      // milestones, expiry
	CatRound      = "round"      // round over, restart
	CatPerception = "perception" // sighting changes
	CatInput      = "input"      // gate toggles
)

// SimLogEntry is one recorded event during a simulation run.
type SimLogEntry struct {
	Tick     int
	Actor    string  // "agent", "prop:lamp", or "--" for global events
	Category string  // one of the Cat* constants
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] agent        agent      state_change    patrolling → investigating
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-12s %-10s %-15s %s",
		e.Tick, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events from the simulation. Unlike the UI
// event feed it is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick level/position
// entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, actor, category, key, value, numVal)
}

func (sl *SimLog) Verbose() bool { return sl.verbose }

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Reset drops every entry.
func (sl *SimLog) Reset() {
	sl.entries = nil
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterActor returns entries for one actor label.
func (sl *SimLog) FilterActor(actor string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Actor == actor {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the simulation state.
func (sl *SimLog) Summary(sim *Simulation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d (%.1fs) ---\n", sim.Tick(), sim.Elapsed())

	acc := sim.Accumulator()
	fmt.Fprintf(&sb, "Detection: %.1f / %.0f (%.0f%%)\n", acc.Level(), acc.Max(), acc.Normalized()*100)
	var fired []string
	for _, t := range acc.Thresholds() {
		if t.State == LatchFired {
			fired = append(fired, t.ID)
		}
	}
	if len(fired) == 0 {
		sb.WriteString("Thresholds fired: none\n")
	} else {
		fmt.Fprintf(&sb, "Thresholds fired: %s\n", strings.Join(fired, ", "))
	}

	ag := sim.Agent()
	fmt.Fprintf(&sb, "Agent: %s (%s) at (%.0f,%.0f)  inView=%.2fs\n",
		ag.State(), ag.Phase(), ag.Position().X, ag.Position().Y, ag.TimeInView())

	tm := sim.Timer()
	if tm.Disabled() {
		sb.WriteString("Timer: disabled\n")
	} else {
		fmt.Fprintf(&sb, "Timer: %.1fs / %.0fs\n", tm.Remaining(), tm.Total())
	}

	fmt.Fprintf(&sb, "Investigations: %d  Flashes: %d  Stimuli: %d\n",
		sl.CountCategory(CatAgent, "investigate"),
		sl.CountCategory(CatDetection, "flash_on"),
		sl.CountCategory(CatStimulus, ""))

	if reason := sim.RoundOverReason(); reason != ReasonNone {
		fmt.Fprintf(&sb, "Round over: %s\n", reason)
	}
	return sb.String()
}
