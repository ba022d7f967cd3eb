package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/Garsondee/Suspicion/internal/logging"
)

// wanderMargin keeps random wander points away from the walls.
const wanderMargin = 40.0

// sightEpsilon absorbs float drift in the summed dt so exactly reaching the
// alert threshold does not count as exceeding it.
const sightEpsilon = 1e-9

// AgentState is the NPC's observable behaviour state.
type AgentState int

const (
	AgentPatrolling    AgentState = iota // initial
	AgentInvestigating                   // heading for / searching a suspicious spot
)

func (as AgentState) String() string {
	switch as {
	case AgentPatrolling:
		return "patrolling"
	case AgentInvestigating:
		return "investigating"
	default:
		return "unknown"
	}
}

// SoundListener receives noises made in the room.
type SoundListener interface {
	HearSound(pos Vec2, magnitude float64)
}

// agentParams are the resolved (SI units, radians) agent settings.
type agentParams struct {
	sightAlert       float64
	searchDuration   float64
	waitDuration     float64
	inspectDuration  float64
	speed            float64
	turnRate         float64 // radians per second
	arrivalTolerance float64
	bodyRadius       float64
}

// Agent is the NPC that patrols the room and decides when to investigate.
type Agent struct {
	pos     Vec2
	heading float64 // radians, 0 = right, pi/2 = down
	state   AgentState
	start   Vec2

	timeInView float64 // seconds the tracked point has been continuously in view
	target     Vec2    // investigation target
	routine    routine // exactly one active at a time

	params    agentParams
	points    []PointOfInterest
	nextPoint int
	bounds    Rect
	seed      int64
	rng       *rand.Rand

	ended bool // round over; triggers are ignored until Reset

	ch   StimulusPublisher
	gate InputReader
	em   *emitter
	log  *slog.Logger
}

// NewAgent creates an agent at the configured start point, patrolling.
// cfg is expected to be normalized.
func NewAgent(cfg AgentConfig, room RoomConfig, ch StimulusPublisher, gate InputReader, em *emitter, log *slog.Logger) *Agent {
	if log == nil {
		log = logging.L()
	}
	if gate == nil {
		log.Warn("agent has no input gate, transitions disabled")
	}
	if ch == nil {
		log.Warn("agent has no stimulus channel, heard sounds will not raise detection")
	}
	a := &Agent{
		start: Vec2{cfg.StartX, cfg.StartY},
		params: agentParams{
			sightAlert:       cfg.SightAlertThreshold,
			searchDuration:   cfg.SearchDuration,
			waitDuration:     cfg.WaitDuration,
			inspectDuration:  cfg.InspectDuration,
			speed:            cfg.Speed,
			turnRate:         cfg.TurnRateDeg * math.Pi / 180.0,
			arrivalTolerance: cfg.ArrivalTolerance,
			bodyRadius:       cfg.BodyRadius,
		},
		points: append([]PointOfInterest(nil), cfg.Points...),
		bounds: Rect{W: room.Width, H: room.Height},
		seed:   cfg.Seed,
		ch:     ch,
		gate:   gate,
		em:     em,
		log:    log,
	}
	a.Reset()
	return a
}

// Reset puts the agent back at its start point, patrolling from the first
// point of interest with a fresh wander RNG.
func (a *Agent) Reset() {
	a.pos = a.start
	a.ended = false
	a.state = AgentPatrolling
	a.timeInView = 0
	a.target = Vec2{}
	a.nextPoint = 0
	a.rng = rand.New(rand.NewSource(a.seed)) // #nosec G404 -- gameplay wander only
	a.heading = 0
	if len(a.points) > 0 {
		a.heading = HeadingTo(a.pos, Vec2{a.points[0].X, a.points[0].Y})
	}
	a.routine = newPatrolRoutine(a)
}

func (a *Agent) inputEnabled() bool {
	return !a.ended && a.gate != nil && a.gate.InputEnabled()
}

// End freezes the agent once the round is over. Reset clears it.
func (a *Agent) End() { a.ended = true }

// Ended reports whether End was called since the last Reset.
func (a *Agent) Ended() bool { return a.ended }

// Tick runs the per-tick decision loop and the active routine.
func (a *Agent) Tick(dt float64, perc PerceptionResult, point Vec2) {
	if !a.inputEnabled() {
		return
	}
	if !(dt > 0) {
		dt = 0
	}

	if a.state == AgentPatrolling {
		if perc.InView {
			a.timeInView += dt
		} else {
			a.timeInView = 0
		}
		if perc.InView && a.timeInView > a.params.sightAlert+sightEpsilon {
			a.investigate(point, "sight")
		}
	}

	if a.routine != nil && a.routine.step(a, dt) {
		a.patrol()
	}
}

// Touch signals that the tracked point hit the agent's body. Facing does
// not matter; the agent investigates where it stands.
func (a *Agent) Touch() {
	if !a.inputEnabled() {
		return
	}
	a.investigate(a.pos, "contact")
}

// HearSound reports a noise at pos. Ignored while already investigating;
// otherwise the noise is published as stimulus and the agent goes to look.
func (a *Agent) HearSound(pos Vec2, magnitude float64) {
	if !a.inputEnabled() || a.state == AgentInvestigating {
		return
	}
	if a.ch != nil {
		a.ch.Publish(magnitude)
	}
	a.investigate(pos, "sound")
}

// investigate cancels the current routine and starts a fresh investigation.
func (a *Agent) investigate(target Vec2, cause string) {
	prev := a.state
	a.routine = nil
	a.state = AgentInvestigating
	a.timeInView = 0
	a.target = target
	a.routine = newInvestigateRoutine(target)
	a.log.Debug("agent investigating", "cause", cause, "x", target.X, "y", target.Y)
	if prev != AgentInvestigating {
		a.em.emit(Event{Kind: EventStateChange, From: prev, To: AgentInvestigating})
	}
}

// patrol cancels the current routine and resumes the patrol loop.
func (a *Agent) patrol() {
	prev := a.state
	a.routine = nil
	a.state = AgentPatrolling
	a.timeInView = 0
	a.routine = newPatrolRoutine(a)
	a.log.Debug("agent resumes patrol")
	if prev != AgentPatrolling {
		a.em.emit(Event{Kind: EventStateChange, From: prev, To: AgentPatrolling})
	}
}

// nextDestination returns the next patrol stop and the heading to inspect
// from it. Without configured points the agent wanders.
func (a *Agent) nextDestination() (Vec2, float64) {
	if len(a.points) == 0 {
		inner := Rect{
			X: a.bounds.X + wanderMargin, Y: a.bounds.Y + wanderMargin,
			W: math.Max(a.bounds.W-2*wanderMargin, 0), H: math.Max(a.bounds.H-2*wanderMargin, 0),
		}
		dest := Vec2{inner.X + a.rng.Float64()*inner.W, inner.Y + a.rng.Float64()*inner.H}
		return dest, a.rng.Float64()*2*math.Pi - math.Pi
	}
	p := a.points[a.nextPoint%len(a.points)]
	a.nextPoint = (a.nextPoint + 1) % len(a.points)
	return Vec2{p.X, p.Y}, p.LookDeg * math.Pi / 180.0
}

// moveToward steps toward dest at the agent's speed, turning the head as it
// goes. Returns true once within arrival tolerance. An agent that cannot
// move counts as arrived so timed steps still run.
func (a *Agent) moveToward(dest Vec2, dt float64) bool {
	d := dest.Sub(a.pos)
	dist := d.Len()
	if dist <= a.params.arrivalTolerance || a.params.speed <= 0 {
		return true
	}
	a.turnToward(math.Atan2(d.Y, d.X), dt)
	step := a.params.speed * dt
	if step >= dist {
		a.pos = dest
		return true
	}
	a.pos = a.pos.Add(d.Scale(step / dist))
	return false
}

// turnToward rotates the heading toward target at the agent's turn rate.
func (a *Agent) turnToward(target, dt float64) {
	a.heading = UpdateHeading(a.heading, target, a.params.turnRate*dt)
}

// Touching reports whether point lies on the agent's body.
func (a *Agent) Touching(point Vec2) bool {
	return a.params.bodyRadius > 0 && point.Dist(a.pos) <= a.params.bodyRadius
}

// State returns the behaviour state.
func (a *Agent) State() AgentState { return a.state }

// Position returns the agent's location, which is also its eye.
func (a *Agent) Position() Vec2 { return a.pos }

// Heading returns the facing direction in radians.
func (a *Agent) Heading() float64 { return a.heading }

// Target returns the last investigation target.
func (a *Agent) Target() Vec2 { return a.target }

// TimeInView returns the continuous in-view counter in seconds.
func (a *Agent) TimeInView() float64 { return a.timeInView }

// SightAlertThreshold returns how long the point must stay in view.
func (a *Agent) SightAlertThreshold() float64 { return a.params.sightAlert }

// BodyRadius returns the contact radius.
func (a *Agent) BodyRadius() float64 { return a.params.bodyRadius }

// Phase names the active routine step, e.g. "patrol:wait".
func (a *Agent) Phase() string {
	if a.routine == nil {
		return "idle"
	}
	return a.routine.phase()
}
