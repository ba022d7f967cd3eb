package game

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Garsondee/Suspicion/internal/logging"
)

// TickInput is what the host samples from the player each tick.
type TickInput struct {
	TrackedPoint  Vec2 // pointer position in room coordinates
	PointerOverUI bool
}

// Intruder scripts the tracked point for headless runs.
type Intruder func(sim *Simulation) TickInput

// Still is an intruder that never moves.
func Still(p Vec2) Intruder {
	return func(*Simulation) TickInput { return TickInput{TrackedPoint: p} }
}

// Option configures a Simulation during construction.
type Option func(*Simulation)

// WithLogger routes component logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithVerbose enables per-tick SimLog entries.
func WithVerbose(v bool) Option {
	return func(s *Simulation) { s.simLog = NewSimLog(v) }
}

// WithSeed overrides the agent's wander seed for deterministic runs.
func WithSeed(seed int64) Option {
	return func(s *Simulation) { s.cfg.Agent.Seed = seed }
}

// Simulation wires the stimulus channel, probe, accumulator, agent, timer and
// props, and drives them in a fixed order once per tick. It is not safe for
// concurrent use; the host loop owns it.
type Simulation struct {
	cfg     Config
	propCfg map[string]PropConfig

	gate  *InputGate
	ch    *StimulusChannel
	probe Probe
	acc   *Accumulator
	agent *Agent
	timer *RoundTimer
	props []*Prop

	em     *emitter
	simLog *SimLog
	log    *slog.Logger

	tick      int
	elapsed   float64
	perc      PerceptionResult
	contact   bool
	roundOver bool
	reason    RoundOverReason
	prevPhase string
}

// NewSimulation normalizes cfg and builds a ready-to-step simulation with
// input enabled.
func NewSimulation(cfg Config, opts ...Option) *Simulation {
	cfg.Props = append([]PropConfig(nil), cfg.Props...)
	cfg.Agent.Points = append([]PointOfInterest(nil), cfg.Agent.Points...)
	s := &Simulation{
		cfg:    cfg,
		gate:   &InputGate{},
		ch:     NewStimulusChannel(),
		simLog: NewSimLog(false),
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logging.L()
	}
	for _, n := range s.cfg.Normalize() {
		s.log.Warn("config repaired", "note", n)
	}

	s.em = &emitter{tick: &s.tick}
	p := s.cfg.Perception
	s.probe = Probe{
		Radius:         p.Radius,
		Angle:          p.AngleDeg * math.Pi / 180.0,
		CloseDistance:  p.CloseDistance,
		MediumDistance: p.MediumDistance,
	}
	s.acc = NewAccumulator(s.cfg.Detection, p.Multipliers, s.ch, s.em, s.log.With("component", "detection"))
	s.agent = NewAgent(s.cfg.Agent, s.cfg.Room, s.ch, s.gate, s.em, s.log.With("component", "agent"))
	s.timer = NewRoundTimer(s.cfg.Round, s.em, s.log.With("component", "timer"))

	s.propCfg = make(map[string]PropConfig, len(s.cfg.Props))
	for _, pc := range s.cfg.Props {
		if _, dup := s.propCfg[pc.ID]; dup || pc.ID == "" {
			s.log.Warn("prop skipped, id empty or duplicate", "id", pc.ID)
			continue
		}
		s.propCfg[pc.ID] = pc
		s.props = append(s.props, NewProp(pc, s.ch, s.agent, s.log.With("component", "prop")))
	}
	s.prevPhase = s.agent.Phase()
	return s
}

// Step advances the simulation by dt seconds and returns the events raised
// since the previous step. Nothing mutates while the round is over or input
// is disabled.
func (s *Simulation) Step(dt float64, in TickInput) []Event {
	if s.roundOver || !s.gate.InputEnabled() {
		return nil
	}
	if !(dt > 0) {
		dt = 0
	}
	s.tick++
	s.elapsed += dt

	// 1. SENSE
	prevInView := s.perc.InView
	s.perc = s.probe.Evaluate(ProbeInput{
		Eye:           s.agent.Position(),
		Facing:        s.agent.Heading(),
		Point:         in.TrackedPoint,
		PointerOverUI: in.PointerOverUI,
		Occluders:     s.Occluders(),
	})
	touching := !in.PointerOverUI && s.agent.Touching(in.TrackedPoint)
	if touching && !s.contact {
		s.simLog.Add(s.tick, "agent", CatAgent, "contact", fmt.Sprintf("(%.0f,%.0f)", in.TrackedPoint.X, in.TrackedPoint.Y), 0)
		s.agent.Touch()
	}
	s.contact = touching

	// 2. THINK + ACT
	for _, p := range s.props {
		p.tick(dt)
	}
	s.agent.Tick(dt, s.perc, in.TrackedPoint)
	s.acc.Tick(dt, s.perc)
	s.timer.Tick(dt)

	// 3. ROUND FLOW
	switch {
	case s.acc.RoundOver():
		s.endRound(ReasonDetectionMax)
	case s.timer.Expired():
		s.endRound(ReasonTimerExpired)
	}

	events := s.em.drain()
	s.record(events, prevInView)
	return events
}

func (s *Simulation) endRound(reason RoundOverReason) {
	s.roundOver = true
	s.reason = reason
	s.acc.End()
	s.agent.End()
	s.em.emit(Event{Kind: EventRoundOver, Reason: reason, Value: s.acc.Level()})
	s.log.Info("round over", "reason", reason.String(), "tick", s.tick, "level", s.acc.Level())
}

// record mirrors events and state changes into the SimLog.
func (s *Simulation) record(events []Event, prevInView bool) {
	for _, e := range events {
		switch e.Kind {
		case EventFlash:
			key := "flash_on"
			if e.Direction == Falling {
				key = "flash_off"
			}
			s.simLog.Add(e.Tick, "--", CatDetection, key, e.ThresholdID, e.Value)
		case EventCaught:
			s.simLog.Add(e.Tick, "--", CatDetection, "caught", fmt.Sprintf("level %.1f", e.Value), e.Value)
		case EventStimulus:
			s.simLog.Add(e.Tick, "--", CatStimulus, "applied", fmt.Sprintf("%.1f", e.Value), e.Value)
		case EventStateChange:
			s.simLog.Add(e.Tick, "agent", CatAgent, "state_change", fmt.Sprintf("%s → %s", e.From, e.To), 0)
			if e.To == AgentInvestigating {
				t := s.agent.Target()
				s.simLog.Add(e.Tick, "agent", CatAgent, "investigate", fmt.Sprintf("(%.0f,%.0f)", t.X, t.Y), 0)
			}
		case EventMilestone:
			s.simLog.Add(e.Tick, "--", CatTimer, "milestone", fmt.Sprintf("%.0fs left", e.Value), e.Value)
		case EventTimerExpired:
			s.simLog.Add(e.Tick, "--", CatTimer, "expired", "", 0)
		case EventRoundOver:
			s.simLog.Add(e.Tick, "--", CatRound, "over", e.Reason.String(), e.Value)
		}
	}

	if s.perc.InView != prevInView {
		key := "lost"
		if s.perc.InView {
			key = "sighted"
		}
		s.simLog.Add(s.tick, "agent", CatPerception, key, fmt.Sprintf("%s %.0fpx", s.perc.Tier, s.perc.Distance), s.perc.Distance)
	}
	if ph := s.agent.Phase(); ph != s.prevPhase {
		s.simLog.Add(s.tick, "agent", CatAgent, "phase", fmt.Sprintf("%s → %s", s.prevPhase, ph), 0)
		s.prevPhase = ph
	}

	pos := s.agent.Position()
	s.simLog.AddVerbose(s.tick, "--", CatDetection, "level", fmt.Sprintf("%.2f", s.acc.Level()), s.acc.Level())
	s.simLog.AddVerbose(s.tick, "agent", CatAgent, "position", fmt.Sprintf("(%.1f,%.1f)", pos.X, pos.Y), 0)
}

// TriggerProp uses the prop with the given id. Returns false when the prop
// is unknown, cooling down, or the simulation is not accepting input.
func (s *Simulation) TriggerProp(id string) bool {
	if s.roundOver || !s.gate.InputEnabled() {
		return false
	}
	p, ok := s.Prop(id)
	if !ok {
		s.log.Debug("unknown prop", "id", id)
		return false
	}
	if !p.Trigger() {
		return false
	}
	s.simLog.Add(s.tick, "prop:"+id, CatProp, "trigger", string(p.Kind), p.Magnitude)
	return true
}

// Restart puts every component back to round start. The gate is left as is.
func (s *Simulation) Restart() {
	s.acc.Reset()
	s.agent.Reset()
	s.timer.Reset()
	for _, p := range s.props {
		p.reset(s.propCfg[p.ID])
	}
	s.em.drain()
	s.tick = 0
	s.elapsed = 0
	s.perc = PerceptionResult{}
	s.contact = false
	s.roundOver = false
	s.reason = ReasonNone
	s.prevPhase = s.agent.Phase()
	s.simLog.Add(0, "--", CatRound, "restart", "", 0)
	s.log.Info("round restarted")
}

// Close detaches the accumulator from the stimulus channel.
func (s *Simulation) Close() {
	s.acc.Close()
}

// RunTicks steps n times at dt with input from script and returns every
// event raised.
func (s *Simulation) RunTicks(n int, dt float64, script Intruder) []Event {
	var out []Event
	for i := 0; i < n; i++ {
		out = append(out, s.Step(dt, script(s))...)
	}
	return out
}

// RunUntil steps up to maxTicks, stopping early if predicate returns true.
// Returns the tick at which the predicate was satisfied, or -1.
func (s *Simulation) RunUntil(predicate func(*Simulation) bool, maxTicks int, dt float64, script Intruder) int {
	for i := 0; i < maxTicks; i++ {
		s.Step(dt, script(s))
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// Occluders returns the sight blockers currently in the room.
func (s *Simulation) Occluders() []Occluder {
	var out []Occluder
	for _, p := range s.props {
		if o, ok := p.Occluder(); ok {
			out = append(out, o)
		}
	}
	return out
}

// Prop looks a prop up by id.
func (s *Simulation) Prop(id string) (*Prop, bool) {
	for _, p := range s.props {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PropAt returns the prop whose hit circle contains pt.
func (s *Simulation) PropAt(pt Vec2, radius float64) (*Prop, bool) {
	for _, p := range s.props {
		if p.Position.Dist(pt) <= radius {
			return p, true
		}
	}
	return nil, false
}

// SetInputEnabled toggles the input gate and records the change. A call that
// does not change the gate is not recorded.
func (s *Simulation) SetInputEnabled(on bool) {
	if s.gate.InputEnabled() == on {
		return
	}
	key := "disabled"
	if on {
		s.gate.Enable()
		key = "enabled"
	} else {
		s.gate.Disable()
	}
	s.simLog.Add(s.tick, "--", CatInput, key, "", 0)
	s.log.Info("input "+key, "tick", s.tick)
}

func (s *Simulation) Gate() *InputGate { return s.gate }
func (s *Simulation) Channel() *StimulusChannel { return s.ch }
func (s *Simulation) Probe() Probe { return s.probe }
func (s *Simulation) Props() []*Prop { return s.props }
func (s *Simulation) Agent() *Agent { return s.agent }
func (s *Simulation) Accumulator() *Accumulator { return s.acc }
func (s *Simulation) Timer() *RoundTimer { return s.timer }
func (s *Simulation) Perception() PerceptionResult { return s.perc }
func (s *Simulation) Tick() int { return s.tick }
func (s *Simulation) Elapsed() float64 { return s.elapsed }
func (s *Simulation) RoundOver() bool { return s.roundOver }
func (s *Simulation) RoundOverReason() RoundOverReason { return s.reason }
func (s *Simulation) SimLog() *SimLog { return s.simLog }
func (s *Simulation) Config() Config { return s.cfg }
