package game

import "fmt"

// EventKind identifies a notification emitted by the simulation core.
type EventKind int

const (
	EventFlash        EventKind = iota // threshold crossed (cosmetic/audio layer)
	EventCaught                        // detection saturated; terminal
	EventStateChange                   // agent switched between patrolling and investigating
	EventMilestone                     // round timer passed a remaining-time mark
	EventTimerExpired                  // round timer reached zero
	EventRoundOver                     // authoritative end of round for the round-flow controller
	EventStimulus                      // discrete stimulus applied to the accumulator
)

func (k EventKind) String() string {
	switch k {
	case EventFlash:
		return "flash"
	case EventCaught:
		return "caught"
	case EventStateChange:
		return "state_change"
	case EventMilestone:
		return "milestone"
	case EventTimerExpired:
		return "timer_expired"
	case EventRoundOver:
		return "round_over"
	case EventStimulus:
		return "stimulus"
	default:
		return "unknown"
	}
}

// Direction is the sense of a threshold crossing.
type Direction int

const (
	Rising Direction = iota
	Falling
)

func (d Direction) String() string {
	if d == Rising {
		return "rising"
	}
	return "falling"
}

// RoundOverReason says which path ended the round.
type RoundOverReason int

const (
	ReasonNone RoundOverReason = iota
	ReasonDetectionMax
	ReasonTimerExpired
)

func (r RoundOverReason) String() string {
	switch r {
	case ReasonDetectionMax:
		return "detection_max"
	case ReasonTimerExpired:
		return "timer_expired"
	default:
		return "none"
	}
}

// Event is a fire-and-forget notification. Only the fields relevant to Kind
// are set.
type Event struct {
	Kind        EventKind
	Tick        int
	ThresholdID string
	Direction   Direction
	Reason      RoundOverReason
	From, To    AgentState
	Value       float64 // level, remaining seconds or stimulus magnitude
}

func (e Event) String() string {
	switch e.Kind {
	case EventFlash:
		return fmt.Sprintf("%s %s %s (%.1f)", e.Kind, e.ThresholdID, e.Direction, e.Value)
	case EventStateChange:
		return fmt.Sprintf("%s %s → %s", e.Kind, e.From, e.To)
	case EventMilestone:
		return fmt.Sprintf("%s %.0fs left", e.Kind, e.Value)
	case EventRoundOver:
		return fmt.Sprintf("%s %s", e.Kind, e.Reason)
	default:
		return fmt.Sprintf("%s %.1f", e.Kind, e.Value)
	}
}

// emitter collects events raised during a tick. Components hold one and the
// simulation drains it after each step.
type emitter struct {
	tick   *int
	events []Event
}

func (em *emitter) emit(e Event) {
	if em == nil {
		return
	}
	if em.tick != nil {
		e.Tick = *em.tick
	}
	em.events = append(em.events, e)
}

func (em *emitter) drain() []Event {
	if em == nil || len(em.events) == 0 {
		return nil
	}
	out := em.events
	em.events = nil
	return out
}
