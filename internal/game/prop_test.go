package game

import (
	"testing"

	"github.com/Garsondee/Suspicion/internal/logging"
)

type recordingListener struct {
	heard []Vec2
	mags  []float64
}

func (r *recordingListener) HearSound(pos Vec2, magnitude float64) {
	r.heard = append(r.heard, pos)
	r.mags = append(r.mags, magnitude)
}

func TestProp_TriggerPublishesMagnitude(t *testing.T) {
	ch := NewStimulusChannel()
	var got []float64
	ch.Subscribe(func(v float64) { got = append(got, v) })

	p := NewProp(PropConfig{ID: "lamp", Kind: PropLamp, Magnitude: 4}, ch, nil, logging.Discard())
	if !p.Trigger() {
		t.Fatal("expected trigger to be accepted")
	}
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("expected one publish of 4, got %v", got)
	}
}

func TestProp_CooldownBlocksRetrigger(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewProp(PropConfig{ID: "window", Magnitude: 12, Cooldown: 1}, pub, nil, logging.Discard())
	p.Trigger()
	if p.Trigger() {
		t.Fatal("trigger during cooldown should be ignored")
	}
	p.tick(0.5)
	if p.Ready() {
		t.Fatal("prop should still be cooling down")
	}
	p.tick(0.6)
	if !p.Trigger() {
		t.Fatal("trigger after cooldown should be accepted")
	}
	if len(pub.values) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(pub.values))
	}
}

func TestProp_NoisyGoesThroughListener(t *testing.T) {
	pub := &recordingPublisher{}
	l := &recordingListener{}
	p := NewProp(PropConfig{ID: "phone", X: 900, Y: 270, Magnitude: 15, Noisy: true}, pub, l, logging.Discard())
	p.Trigger()
	if len(pub.values) != 0 {
		t.Fatal("noisy prop should not publish directly")
	}
	if len(l.heard) != 1 || l.heard[0] != (Vec2{900, 270}) || l.mags[0] != 15 {
		t.Fatalf("expected sound at (900,270) mag 15, got %v %v", l.heard, l.mags)
	}
}

func TestProp_NilChannelDisabled(t *testing.T) {
	p := NewProp(PropConfig{ID: "lamp", Magnitude: 4}, nil, nil, logging.Discard())
	if !p.Disabled() {
		t.Fatal("prop without channel should be disabled")
	}
	if p.Trigger() {
		t.Fatal("disabled prop should ignore triggers")
	}
}

func TestProp_NegativeMagnitudeClamped(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewProp(PropConfig{ID: "x", Magnitude: -3}, pub, nil, logging.Discard())
	p.Trigger()
	if p.Magnitude != 0 || pub.values[0] != 0 {
		t.Fatalf("expected magnitude clamped to 0, got %.1f", p.Magnitude)
	}
}

func TestProp_CurtainTogglesOccluder(t *testing.T) {
	cfg := PropConfig{ID: "curtain", Kind: PropCurtain, Magnitude: 6,
		Occluder: &RectConfig{X: 400, Y: 30, W: 160, H: 14}}
	p := NewProp(cfg, &recordingPublisher{}, nil, logging.Discard())
	occ, ok := p.Occluder()
	if !ok || occ.Closed {
		t.Fatalf("expected an open occluder, got ok=%v closed=%v", ok, occ.Closed)
	}
	p.Trigger()
	if occ, _ = p.Occluder(); !occ.Closed {
		t.Fatal("curtain should be closed after one trigger")
	}
	p.Trigger()
	if occ, _ = p.Occluder(); occ.Closed {
		t.Fatal("curtain should reopen after a second trigger")
	}
	p.Trigger()
	p.reset(cfg)
	if occ, _ = p.Occluder(); occ.Closed || p.Triggers() != 0 {
		t.Fatal("reset should restore the initial curtain state")
	}
}
