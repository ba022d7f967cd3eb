package game

import (
	"fmt"
	"math"
	"strings"
)

// DebugReport renders the recent history of the round as plain text, for
// pasting into bug reports.
func (s *Simulation) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 600
	}
	toTick := s.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}
	entries := s.simLog.FilterTickRange(fromTick, toTick)

	var b strings.Builder
	fmt.Fprintf(&b, "--- Suspicion debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d] ticks=%d elapsed=%.2fs input=%t\n",
		s.cfg.Agent.Seed, fromTick, toTick, toTick-fromTick+1, s.elapsed, s.gate.InputEnabled())
	if s.roundOver {
		fmt.Fprintf(&b, "round over: %s\n", s.reason)
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "== DETECTION ==\n")
	fmt.Fprintf(&b, "level=%.2f/%.0f decay=%.2f/s base=%.2f/s mult[c/m/f]=%.1f/%.1f/%.1f\n",
		s.acc.Level(), s.acc.Max(), s.cfg.Detection.DecayRate, s.cfg.Detection.BaseRate,
		s.cfg.Perception.Multipliers.Close, s.cfg.Perception.Multipliers.Medium, s.cfg.Perception.Multipliers.Far)
	for _, t := range s.acc.Thresholds() {
		fmt.Fprintf(&b, "  %-12s %6.1f %-7s %s\n", t.ID, t.Value, t.Effect, t.State)
	}
	b.WriteByte('\n')

	ag := s.agent
	fmt.Fprintf(&b, "== AGENT ==\n")
	fmt.Fprintf(&b, "state=%s phase=%s pos=(%.0f,%.0f) heading=%.0f° target=(%.0f,%.0f)\n",
		ag.State(), ag.Phase(), ag.Position().X, ag.Position().Y,
		ag.Heading()*180/math.Pi, ag.Target().X, ag.Target().Y)
	fmt.Fprintf(&b, "inView=%t tier=%s dist=%.0f timeInView=%.2f/%.2f\n",
		s.perc.InView, s.perc.Tier, s.perc.Distance, ag.TimeInView(), ag.SightAlertThreshold())
	b.WriteByte('\n')

	fmt.Fprintf(&b, "== ROUND ==\n")
	if s.timer.Disabled() {
		b.WriteString("timer disabled\n")
	} else {
		fmt.Fprintf(&b, "remaining=%.1f/%.0fs expired=%t\n", s.timer.Remaining(), s.timer.Total(), s.timer.Expired())
	}
	for _, p := range s.props {
		occ := ""
		if o, ok := p.Occluder(); ok {
			occ = fmt.Sprintf(" closed=%t", o.Closed)
		}
		fmt.Fprintf(&b, "  prop %-10s %-8s mag=%.1f uses=%d cooldown=%.1f%s\n",
			p.ID, p.Kind, p.Magnitude, p.Triggers(), p.CooldownRemaining(), occ)
	}
	b.WriteByte('\n')

	sum := summarizeEntries(entries)
	fmt.Fprintf(&b, "summary: stimuli=%d (total %.1f) flashOn=%d flashOff=%d investigations=%d contacts=%d sightings=%d\n",
		sum.stimuli, sum.stimulusTotal, sum.flashesOn, sum.flashesOff, sum.investigations, sum.contacts, sum.sightings)

	stages := buildStages(entries, fromTick, toTick, s.prevPhase)
	b.WriteString("stages:\n")
	for i, st := range stages {
		fmt.Fprintf(&b, "  %02d) T=%d..%d (%dt) %s\n", i+1, st.startTick, st.endTick, st.endTick-st.startTick+1, st.phase)
	}

	b.WriteString("events:\n")
	for _, e := range entries {
		if e.Category == CatAgent && (e.Key == "position" || e.Key == "phase") {
			continue
		}
		if e.Category == CatDetection && e.Key == "level" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

type entrySummary struct {
	stimuli        int
	stimulusTotal  float64
	flashesOn      int
	flashesOff     int
	investigations int
	contacts       int
	sightings      int
}

func summarizeEntries(entries []SimLogEntry) entrySummary {
	var res entrySummary
	for _, e := range entries {
		switch {
		case e.Category == CatStimulus:
			res.stimuli++
			res.stimulusTotal += e.NumVal
		case e.Category == CatDetection && e.Key == "flash_on":
			res.flashesOn++
		case e.Category == CatDetection && e.Key == "flash_off":
			res.flashesOff++
		case e.Category == CatAgent && e.Key == "investigate":
			res.investigations++
		case e.Category == CatAgent && e.Key == "contact":
			res.contacts++
		case e.Category == CatPerception && e.Key == "sighted":
			res.sightings++
		}
	}
	return res
}

// reportStage is a run of ticks the agent spent in one routine phase.
type reportStage struct {
	startTick int
	endTick   int
	phase     string
}

// buildStages splits [fromTick, toTick] at every logged phase change.
// current is the phase in effect at toTick.
func buildStages(entries []SimLogEntry, fromTick, toTick int, current string) []reportStage {
	var changes []SimLogEntry
	for _, e := range entries {
		if e.Category == CatAgent && e.Key == "phase" {
			changes = append(changes, e)
		}
	}
	if len(changes) == 0 {
		return []reportStage{{startTick: fromTick, endTick: toTick, phase: current}}
	}

	stages := make([]reportStage, 0, len(changes)+1)
	first, _, _ := strings.Cut(changes[0].Value, " → ")
	start := fromTick
	phase := first
	for _, c := range changes {
		if c.Tick > start {
			stages = append(stages, reportStage{startTick: start, endTick: c.Tick - 1, phase: phase})
		}
		_, next, _ := strings.Cut(c.Value, " → ")
		start = c.Tick
		phase = next
	}
	stages = append(stages, reportStage{startTick: start, endTick: toTick, phase: phase})
	return stages
}
