package game

import (
	"math"
	"testing"
)

func TestProbe_InCone_DirectlyAhead(t *testing.T) {
	p := NewProbe()
	if !p.InCone(Vec2{0, 0}, 0, Vec2{100, 0}) {
		t.Fatal("point directly in front should be in cone")
	}
}

func TestProbe_Behind_Observer(t *testing.T) {
	p := NewProbe()
	if p.InCone(Vec2{0, 0}, 0, Vec2{-100, 0}) {
		t.Fatal("point directly behind should not be in cone")
	}
}

func TestProbe_Edge_Of_Cone(t *testing.T) {
	p := NewProbe()
	half := p.Angle / 2.0
	inside := Vec2{math.Cos(half-0.001) * 100, math.Sin(half-0.001) * 100}
	if !p.InCone(Vec2{}, 0, inside) {
		t.Fatal("point just inside the cone edge should be in cone")
	}
	outside := Vec2{math.Cos(half+0.001) * 100, math.Sin(half+0.001) * 100}
	if p.InCone(Vec2{}, 0, outside) {
		t.Fatal("point just outside the cone edge should not be in cone")
	}
}

func TestProbe_RadiusIsExclusive(t *testing.T) {
	p := NewProbe()
	if p.InCone(Vec2{}, 0, Vec2{p.Radius, 0}) {
		t.Fatal("point at exactly the radius should be out of view")
	}
	if !p.InCone(Vec2{}, 0, Vec2{p.Radius - 1, 0}) {
		t.Fatal("point just inside the radius should be in view")
	}
}

func TestProbe_Evaluate_Tiers(t *testing.T) {
	p := Probe{Radius: 500, Angle: math.Pi / 2, CloseDistance: 100, MediumDistance: 250}
	cases := []struct {
		x    float64
		want ProximityTier
	}{
		{50, TierClose},
		{99.9, TierClose},
		{100, TierMedium},
		{249, TierMedium},
		{250, TierFar},
		{499, TierFar},
	}
	for _, c := range cases {
		res := p.Evaluate(ProbeInput{Eye: Vec2{}, Facing: 0, Point: Vec2{c.x, 0}})
		if !res.InView {
			t.Fatalf("x=%.1f: expected in view", c.x)
		}
		if res.Tier != c.want {
			t.Fatalf("x=%.1f: expected tier %s, got %s", c.x, c.want, res.Tier)
		}
	}
}

func TestProbe_Evaluate_OutOfViewHasNoTier(t *testing.T) {
	p := NewProbe()
	res := p.Evaluate(ProbeInput{Eye: Vec2{}, Facing: 0, Point: Vec2{-50, 0}})
	if res.InView || res.Tier != TierNone {
		t.Fatalf("expected out of view with no tier, got %+v", res)
	}
	if math.Abs(res.Distance-50) > 1e-9 {
		t.Fatalf("distance should still be reported, got %.2f", res.Distance)
	}
}

func TestProbe_Evaluate_PointerOverUI(t *testing.T) {
	p := NewProbe()
	res := p.Evaluate(ProbeInput{Eye: Vec2{}, Facing: 0, Point: Vec2{50, 0}, PointerOverUI: true})
	if res.InView {
		t.Fatal("pointer over UI must never be in view")
	}
}

func TestProbe_Evaluate_ZeroRadius(t *testing.T) {
	p := NewProbe()
	p.Radius = 0
	res := p.Evaluate(ProbeInput{Eye: Vec2{}, Facing: 0, Point: Vec2{0, 0}})
	if res.InView {
		t.Fatal("zero radius must yield inView=false")
	}
}

func TestProbe_Evaluate_BlockedByClosedCurtain(t *testing.T) {
	p := NewProbe()
	occ := []Occluder{closed(40, -20, 10, 40)}
	res := p.Evaluate(ProbeInput{Eye: Vec2{}, Facing: 0, Point: Vec2{100, 0}, Occluders: occ})
	if res.InView {
		t.Fatal("closed occluder between eye and point should hide it")
	}
	occ[0].Closed = false
	res = p.Evaluate(ProbeInput{Eye: Vec2{}, Facing: 0, Point: Vec2{100, 0}, Occluders: occ})
	if !res.InView {
		t.Fatal("open occluder should not hide the point")
	}
}

func TestUpdateHeading_SmallDiff(t *testing.T) {
	h := UpdateHeading(0, 0.05, 0.12)
	if h != 0.05 {
		t.Fatalf("expected heading to snap to 0.05, got %.4f", h)
	}
}

func TestUpdateHeading_LargeDiff(t *testing.T) {
	rate := 0.12
	if h := UpdateHeading(0, math.Pi/2, rate); math.Abs(h-rate) > 1e-9 {
		t.Fatalf("expected positive step %.4f got %.4f", rate, h)
	}
	if h := UpdateHeading(0, -math.Pi/2, rate); math.Abs(h+rate) > 1e-9 {
		t.Fatalf("expected negative step %.4f got %.4f", -rate, h)
	}
}

func TestNormalizeAngle(t *testing.T) {
	if a := normalizeAngle(3 * math.Pi); math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Fatalf("3π should normalize to ±π, got %.4f", a)
	}
	if a := normalizeAngle(-3 * math.Pi); math.Abs(math.Abs(a)-math.Pi) > 1e-9 {
		t.Fatalf("-3π should normalize to ±π, got %.4f", a)
	}
	if normalizeAngle(0) != 0 {
		t.Fatal("0 should normalize to 0")
	}
	for _, a := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if got := normalizeAngle(a); got != 0 {
			t.Fatalf("%v should normalize to 0, got %v", a, got)
		}
	}
	if got := normalizeAngle(1e18); math.Abs(got) > math.Pi {
		t.Fatalf("huge angle should wrap into [-π, π], got %v", got)
	}
}

func TestProbe_Evaluate_NonFiniteFacing(t *testing.T) {
	p := NewProbe()
	res := p.Evaluate(ProbeInput{Eye: Vec2{0, 0}, Facing: math.Inf(1), Point: Vec2{50, 0}})
	if !res.InView {
		t.Fatal("non-finite facing should fall back to facing right")
	}
}

func TestHeadingTo(t *testing.T) {
	if h := HeadingTo(Vec2{}, Vec2{1, 0}); h != 0 {
		t.Fatalf("heading to east should be 0, got %.4f", h)
	}
	if h := HeadingTo(Vec2{}, Vec2{0, 1}); math.Abs(h-math.Pi/2) > 1e-9 {
		t.Fatalf("heading to south should be π/2, got %.4f", h)
	}
}
