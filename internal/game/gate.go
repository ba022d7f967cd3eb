package game

// InputReader is the read-only view of the global input flag.
type InputReader interface {
	InputEnabled() bool
}

// InputGate owns the flag that pauses every transition and accumulation
// (dialogue, cutscenes, round end). Only the round-flow owner flips it.
type InputGate struct {
	disabled bool
}

// InputEnabled reports whether the simulation may mutate this tick.
func (g *InputGate) InputEnabled() bool {
	return g != nil && !g.disabled
}

// Enable lets the simulation run.
func (g *InputGate) Enable() { g.disabled = false }

// Disable pauses the simulation.
func (g *InputGate) Disable() { g.disabled = true }
