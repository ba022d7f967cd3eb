package game

import "math"

// Occluder is a sight-blocking rectangle in the room. Open occluders
// (a drawn-back curtain) let sight through.
type Occluder struct {
	ID     string
	Bounds Rect
	Closed bool
}

// HasLineOfSight returns true if the segment a→b does not cross any closed
// occluder. Uses simple segment-vs-AABB slab tests.
func HasLineOfSight(a, b Vec2, occluders []Occluder) bool {
	for _, o := range occluders {
		if !o.Closed {
			continue
		}
		if segmentIntersectsRect(a, b, o.Bounds) {
			return false
		}
	}
	return true
}

// segmentHitT returns the first segment parameter t in [0,1] where the line
// a→b enters r. The bool is false when no hit exists.
func segmentHitT(a, b Vec2, r Rect) (float64, bool) {
	tMin, tMax := 0.0, 1.0

	var ok bool
	if tMin, tMax, ok = slab(a.X, b.X-a.X, r.X, r.X+r.W, tMin, tMax); !ok {
		return 0, false
	}
	if tMin, tMax, ok = slab(a.Y, b.Y-a.Y, r.Y, r.Y+r.H, tMin, tMax); !ok {
		return 0, false
	}
	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return math.Max(tMin, 0), true
}

// slab narrows [tMin,tMax] to the part of the segment inside one axis band.
func slab(origin, delta, lo, hi, tMin, tMax float64) (float64, float64, bool) {
	if math.Abs(delta) < 1e-12 {
		if origin < lo || origin > hi {
			return 0, 0, false
		}
		return tMin, tMax, true
	}
	inv := 1.0 / delta
	t1 := (lo - origin) * inv
	t2 := (hi - origin) * inv
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	tMin = math.Max(tMin, t1)
	tMax = math.Min(tMax, t2)
	if tMin > tMax {
		return 0, 0, false
	}
	return tMin, tMax, true
}

func segmentIntersectsRect(a, b Vec2, r Rect) bool {
	_, hit := segmentHitT(a, b, r)
	return hit
}

// ClipRay returns the end of a ray from origin at angle, shortened to the
// nearest closed occluder. The view uses it to draw the vision cone.
func ClipRay(origin Vec2, angle, maxLen float64, occluders []Occluder) Vec2 {
	end := origin.Add(Vec2{math.Cos(angle), math.Sin(angle)}.Scale(maxLen))
	best := 1.0
	for _, o := range occluders {
		if !o.Closed {
			continue
		}
		if t, hit := segmentHitT(origin, end, o.Bounds); hit && t < best {
			best = t
		}
	}
	return origin.Add(end.Sub(origin).Scale(best))
}
