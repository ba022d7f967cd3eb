package game

import (
	"math"
	"testing"
)

func closed(x, y, w, h float64) Occluder {
	return Occluder{Bounds: Rect{X: x, Y: y, W: w, H: h}, Closed: true}
}

func TestLOS_ClearLine(t *testing.T) {
	if !HasLineOfSight(Vec2{0, 0}, Vec2{100, 100}, nil) {
		t.Fatal("expected clear LOS with no occluders")
	}
}

func TestLOS_BlockedByOccluder(t *testing.T) {
	occ := []Occluder{closed(40, 0, 20, 200)}
	if HasLineOfSight(Vec2{0, 100}, Vec2{200, 100}, occ) {
		t.Fatal("expected LOS blocked by occluder")
	}
}

func TestLOS_OpenOccluderDoesNotBlock(t *testing.T) {
	occ := []Occluder{{Bounds: Rect{X: 40, Y: 0, W: 20, H: 200}, Closed: false}}
	if !HasLineOfSight(Vec2{0, 100}, Vec2{200, 100}, occ) {
		t.Fatal("open occluder should not block LOS")
	}
}

func TestLOS_OccluderBeyondEndpoint_NotBlocked(t *testing.T) {
	occ := []Occluder{closed(300, 0, 64, 64)}
	if !HasLineOfSight(Vec2{0, 32}, Vec2{200, 32}, occ) {
		t.Fatal("occluder beyond endpoint should not block LOS")
	}
}

func TestLOS_VerticalRay_Blocked(t *testing.T) {
	occ := []Occluder{closed(0, 40, 200, 20)}
	if HasLineOfSight(Vec2{100, 0}, Vec2{100, 200}, occ) {
		t.Fatal("expected vertical ray blocked by horizontal occluder")
	}
}

func TestLOS_DiagonalRay_Blocked(t *testing.T) {
	occ := []Occluder{closed(80, 80, 40, 40)}
	if HasLineOfSight(Vec2{0, 0}, Vec2{200, 200}, occ) {
		t.Fatal("diagonal ray should be blocked")
	}
}

func TestLOS_ZeroLength(t *testing.T) {
	occ := []Occluder{closed(0, 0, 100, 100)}
	// Degenerate segment; must not panic.
	_ = HasLineOfSight(Vec2{50, 50}, Vec2{50, 50}, occ)
}

func TestSegmentIntersectsRect_InsideBox(t *testing.T) {
	if !segmentIntersectsRect(Vec2{10, 10}, Vec2{20, 20}, Rect{0, 0, 100, 100}) {
		t.Fatal("segment with both endpoints inside the rect should intersect")
	}
}

func TestSegmentIntersectsRect_Miss(t *testing.T) {
	if segmentIntersectsRect(Vec2{0, 0}, Vec2{0, 100}, Rect{50, 0, 100, 100}) {
		t.Fatal("segment left of the rect should not intersect")
	}
}

func TestClipRay_StopsAtOccluder(t *testing.T) {
	end := ClipRay(Vec2{0, 0}, 0, 200, []Occluder{closed(50, -10, 10, 20)})
	if math.Abs(end.X-50) > 1e-9 || math.Abs(end.Y) > 1e-9 {
		t.Fatalf("expected ray clipped at x=50, got (%.2f,%.2f)", end.X, end.Y)
	}
	end = ClipRay(Vec2{0, 0}, 0, 200, nil)
	if math.Abs(end.X-200) > 1e-9 {
		t.Fatalf("unclipped ray should reach full length, got %.2f", end.X)
	}
}
