package game

import (
	"log/slog"

	"github.com/Garsondee/Suspicion/internal/logging"
)

// PropKind identifies what a prop looks like and how the player uses it.
type PropKind string

const (
	PropCurtain PropKind = "curtain"
	PropWindow  PropKind = "window"
	PropPhone   PropKind = "phone"
	PropLamp    PropKind = "lamp"
)

// Prop is an interactable object in the room. Using it raises suspicion,
// either directly through the stimulus channel or, for noisy props, by
// making a sound the agent hears.
type Prop struct {
	ID        string
	Kind      PropKind
	Position  Vec2
	Magnitude float64
	Cooldown  float64
	Noisy     bool

	occluder    Occluder
	hasOccluder bool
	cooldown    float64 // seconds until the next trigger is accepted
	triggers    int
	disabled    bool

	ch       StimulusPublisher
	listener SoundListener
	log      *slog.Logger
}

// NewProp builds a prop from config. A prop that cannot reach its target
// (no channel, or no listener for a noisy prop) is disabled.
func NewProp(cfg PropConfig, ch StimulusPublisher, listener SoundListener, log *slog.Logger) *Prop {
	if log == nil {
		log = logging.L()
	}
	p := &Prop{
		ID:        cfg.ID,
		Kind:      cfg.Kind,
		Position:  Vec2{cfg.X, cfg.Y},
		Magnitude: cfg.Magnitude,
		Cooldown:  cfg.Cooldown,
		Noisy:     cfg.Noisy,
		ch:        ch,
		listener:  listener,
		log:       log.With("prop", cfg.ID),
	}
	if p.Magnitude < 0 {
		p.log.Warn("negative prop magnitude clamped to zero", "magnitude", cfg.Magnitude)
		p.Magnitude = 0
	}
	if p.Cooldown < 0 {
		p.Cooldown = 0
	}
	if cfg.Occluder != nil {
		p.hasOccluder = true
		p.occluder = Occluder{
			ID:     cfg.ID,
			Bounds: Rect{X: cfg.Occluder.X, Y: cfg.Occluder.Y, W: cfg.Occluder.W, H: cfg.Occluder.H},
			Closed: cfg.Closed,
		}
	}
	switch {
	case p.Noisy && listener == nil:
		p.log.Warn("noisy prop has no listener, disabled")
		p.disabled = true
	case !p.Noisy && ch == nil:
		p.log.Warn("prop has no stimulus channel, disabled")
		p.disabled = true
	}
	return p
}

// Trigger uses the prop. Returns false when the prop is disabled or still
// cooling down.
func (p *Prop) Trigger() bool {
	if p.disabled || p.cooldown > 0 {
		return false
	}
	p.cooldown = p.Cooldown
	p.triggers++
	if p.hasOccluder {
		p.occluder.Closed = !p.occluder.Closed
	}
	if p.Noisy {
		p.listener.HearSound(p.Position, p.Magnitude)
	} else {
		p.ch.Publish(p.Magnitude)
	}
	p.log.Debug("prop triggered", "magnitude", p.Magnitude, "noisy", p.Noisy)
	return true
}

// tick runs the cooldown down.
func (p *Prop) tick(dt float64) {
	if p.cooldown > 0 && dt > 0 {
		p.cooldown -= dt
		if p.cooldown < 0 {
			p.cooldown = 0
		}
	}
}

// reset clears the cooldown and restores the initial occluder state.
func (p *Prop) reset(cfg PropConfig) {
	p.cooldown = 0
	p.triggers = 0
	if p.hasOccluder {
		p.occluder.Closed = cfg.Closed
	}
}

// Occluder returns the prop's sight blocker, if it has one.
func (p *Prop) Occluder() (Occluder, bool) { return p.occluder, p.hasOccluder }

// CooldownRemaining returns seconds until the prop can be used again.
func (p *Prop) CooldownRemaining() float64 { return p.cooldown }

func (p *Prop) Ready() bool { return !p.disabled && p.cooldown <= 0 }
func (p *Prop) Disabled() bool { return p.disabled }
func (p *Prop) Triggers() int { return p.triggers }
