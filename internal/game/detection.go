package game

import (
	"log/slog"
	"math"

	"github.com/Garsondee/Suspicion/internal/logging"
)

// LatchState is the edge-trigger state of one threshold.
type LatchState int

const (
	LatchArmed LatchState = iota // below the threshold, ready to fire
	LatchFired                   // crossed upward, waiting to drop back below
)

func (ls LatchState) String() string {
	if ls == LatchFired {
		return "fired"
	}
	return "armed"
}

// Threshold is one row of the latch table.
type Threshold struct {
	ID     string
	Value  float64
	Effect ThresholdEffect
	State  LatchState
}

// Accumulator integrates stimulus into a bounded detection level and turns
// threshold crossings into events. It is the only writer of the level.
type Accumulator struct {
	max       float64
	decayRate float64
	baseRate  float64
	mult      MultiplierConfig

	level      float64
	thresholds []Threshold
	pending    []float64 // discrete stimulus received since the last tick
	roundOver  bool

	ch  *StimulusChannel
	sub Subscription
	em  *emitter
	log *slog.Logger
}

// NewAccumulator builds an accumulator and subscribes it to ch. cfg is
// expected to be normalized. A nil channel leaves only the continuous
// (in-view) input.
func NewAccumulator(cfg DetectionConfig, mult MultiplierConfig, ch *StimulusChannel, em *emitter, log *slog.Logger) *Accumulator {
	if log == nil {
		log = logging.L()
	}
	a := &Accumulator{
		max:       cfg.Max,
		decayRate: cfg.DecayRate,
		baseRate:  cfg.BaseRate,
		mult:      mult,
		em:        em,
		log:       log,
	}
	if !(a.max > 0) {
		log.Warn("detection max not positive, accumulator will saturate immediately", "max", cfg.Max)
		a.max = 0
	}
	for _, t := range cfg.Thresholds {
		a.thresholds = append(a.thresholds, Threshold{ID: t.ID, Value: t.Value, Effect: t.Effect})
	}
	if ch == nil {
		log.Warn("no stimulus channel wired, discrete stimulus disabled")
	} else {
		a.ch = ch
		a.sub = ch.Subscribe(a.receive)
	}
	return a
}

// receive queues a discrete stimulus for the next tick. Producers cannot
// lower detection: negative and NaN values count as zero.
func (a *Accumulator) receive(v float64) {
	if a.roundOver {
		return
	}
	if !(v > 0) {
		if v < 0 {
			a.log.Debug("negative stimulus clamped to zero", "value", v)
		}
		return
	}
	a.pending = append(a.pending, v)
}

// Tick advances one simulation step. Decay first, then the continuous
// in-view contribution, then queued discrete stimulus, then the latches.
func (a *Accumulator) Tick(dt float64, perc PerceptionResult) {
	if a.roundOver {
		a.pending = a.pending[:0]
		return
	}
	if !(dt > 0) {
		dt = 0
	}

	a.level = clamp(a.level-a.decayRate*dt, 0, a.max)

	if perc.InView {
		a.level = clamp(a.level+a.Multiplier(perc.Tier)*a.baseRate*dt, 0, a.max)
	}

	for _, v := range a.pending {
		a.level = clamp(a.level+v, 0, a.max)
		a.em.emit(Event{Kind: EventStimulus, Value: v})
	}
	a.pending = a.pending[:0]

	a.evaluate()
}

// evaluate runs edge detection over the latch table against the current level.
func (a *Accumulator) evaluate() {
	caught := false
	for i := range a.thresholds {
		t := &a.thresholds[i]
		switch {
		case t.State == LatchArmed && a.level >= t.Value:
			t.State = LatchFired
			if t.Effect == EffectCaught {
				caught = true
				continue
			}
			a.em.emit(Event{Kind: EventFlash, ThresholdID: t.ID, Direction: Rising, Value: a.level})
		case t.State == LatchFired && a.level < t.Value:
			t.State = LatchArmed
			a.em.emit(Event{Kind: EventFlash, ThresholdID: t.ID, Direction: Falling, Value: a.level})
		}
	}
	if caught || a.level >= a.max {
		a.roundOver = true
		a.pending = a.pending[:0]
		a.em.emit(Event{Kind: EventCaught, Value: a.level})
		a.log.Info("detection saturated", "level", a.level)
	}
}

// Multiplier returns the continuous stimulus scale for a proximity tier.
func (a *Accumulator) Multiplier(tier ProximityTier) float64 {
	switch tier {
	case TierClose:
		return a.mult.Close
	case TierMedium:
		return a.mult.Medium
	case TierFar:
		return a.mult.Far
	default:
		return 0
	}
}

// End freezes the level without a caught notification. Used when the
// round ends by another path. Idempotent.
func (a *Accumulator) End() {
	a.roundOver = true
	a.pending = a.pending[:0]
}

// Reset restores round-start state: level 0, every latch armed.
func (a *Accumulator) Reset() {
	a.level = 0
	a.roundOver = false
	a.pending = a.pending[:0]
	for i := range a.thresholds {
		a.thresholds[i].State = LatchArmed
	}
}

// Close detaches the accumulator from its channel.
func (a *Accumulator) Close() {
	if a.ch != nil {
		a.ch.Unsubscribe(a.sub)
		a.ch = nil
	}
}

// Level returns the current detection level in [0, Max].
func (a *Accumulator) Level() float64 { return a.level }

// Max returns the saturation level.
func (a *Accumulator) Max() float64 { return a.max }

// Normalized returns the level as a fraction of Max.
func (a *Accumulator) Normalized() float64 {
	if a.max <= 0 {
		return 1
	}
	return math.Min(1, a.level/a.max)
}

// RoundOver reports whether the accumulator has stopped mutating.
func (a *Accumulator) RoundOver() bool { return a.roundOver }

// Thresholds returns a copy of the latch table.
func (a *Accumulator) Thresholds() []Threshold {
	out := make([]Threshold, len(a.thresholds))
	copy(out, a.thresholds)
	return out
}

// Threshold returns the latch row for id.
func (a *Accumulator) Threshold(id string) (Threshold, bool) {
	for _, t := range a.thresholds {
		if t.ID == id {
			return t, true
		}
	}
	return Threshold{}, false
}
