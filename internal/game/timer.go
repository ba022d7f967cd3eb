package game

import (
	"log/slog"

	"github.com/Garsondee/Suspicion/internal/logging"
)

// milestone is a one-shot "N seconds left" marker.
type milestone struct {
	at    float64
	fired bool
}

// RoundTimer counts the round down to zero. Milestones and expiry each
// fire exactly once.
type RoundTimer struct {
	total      float64
	remaining  float64
	milestones []milestone
	expired    bool
	disabled   bool

	em  *emitter
	log *slog.Logger
}

// NewRoundTimer builds a timer. A non-positive total disables it: it never
// counts down and never expires.
func NewRoundTimer(cfg RoundConfig, em *emitter, log *slog.Logger) *RoundTimer {
	if log == nil {
		log = logging.L()
	}
	t := &RoundTimer{total: cfg.TotalTime, em: em, log: log}
	if !(cfg.TotalTime > 0) {
		log.Warn("round total_time not positive, timer disabled", "total_time", cfg.TotalTime)
		t.disabled = true
	}
	for _, ms := range cfg.Milestones {
		t.milestones = append(t.milestones, milestone{at: ms})
	}
	t.Reset()
	return t
}

// Tick advances the countdown by dt.
func (t *RoundTimer) Tick(dt float64) {
	if t.disabled || t.expired || !(dt > 0) {
		return
	}
	t.remaining -= dt
	if t.remaining < 0 {
		t.remaining = 0
	}
	for i := range t.milestones {
		ms := &t.milestones[i]
		if !ms.fired && t.remaining <= ms.at {
			ms.fired = true
			t.em.emit(Event{Kind: EventMilestone, Value: ms.at})
		}
	}
	if t.remaining == 0 {
		t.expired = true
		t.em.emit(Event{Kind: EventTimerExpired})
		t.log.Info("round timer expired")
	}
}

// Reset restarts the countdown from the full round time.
func (t *RoundTimer) Reset() {
	t.remaining = t.total
	if t.disabled {
		t.remaining = 0
	}
	t.expired = false
	for i := range t.milestones {
		t.milestones[i].fired = false
	}
}

func (t *RoundTimer) Remaining() float64 { return t.remaining }
func (t *RoundTimer) Total() float64 { return t.total }
func (t *RoundTimer) Expired() bool { return t.expired }
func (t *RoundTimer) Disabled() bool { return t.disabled }
