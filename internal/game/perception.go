package game

import "math"

const (
	// Default probe parameters.
	defaultViewAngleDeg   = 90.0  // full cone aperture in degrees
	defaultViewRadius     = 420.0 // max sight range in pixels
	defaultCloseDistance  = 120.0
	defaultMediumDistance = 260.0
)

// ProximityTier is the distance band of a tracked point that is in view.
type ProximityTier int

const (
	TierNone ProximityTier = iota // not in view
	TierFar
	TierMedium
	TierClose
)

func (pt ProximityTier) String() string {
	switch pt {
	case TierFar:
		return "far"
	case TierMedium:
		return "medium"
	case TierClose:
		return "close"
	default:
		return "none"
	}
}

// PerceptionResult is recomputed every tick and never carried over.
type PerceptionResult struct {
	InView   bool
	Tier     ProximityTier
	Distance float64
}

// ProbeInput is everything the probe looks at for one tick.
type ProbeInput struct {
	Eye           Vec2
	Facing        float64 // radians, 0 = right, pi/2 = down
	Point         Vec2
	PointerOverUI bool // pointer is over a control, not over the room
	Occluders     []Occluder
}

// Probe decides whether a tracked point is inside an agent's view cone.
// It keeps no state between ticks.
type Probe struct {
	Radius         float64 // pixels
	Angle          float64 // radians, total arc width
	CloseDistance  float64
	MediumDistance float64
}

// NewProbe creates a probe with defaults.
func NewProbe() Probe {
	return Probe{
		Radius:         defaultViewRadius,
		Angle:          defaultViewAngleDeg * math.Pi / 180.0,
		CloseDistance:  defaultCloseDistance,
		MediumDistance: defaultMediumDistance,
	}
}

// Evaluate computes visibility and proximity for one tick.
func (p Probe) Evaluate(in ProbeInput) PerceptionResult {
	dist := in.Point.Dist(in.Eye)
	res := PerceptionResult{Distance: dist}
	if in.PointerOverUI || p.Radius <= 0 {
		return res
	}
	if !p.InCone(in.Eye, in.Facing, in.Point) {
		return res
	}
	if !HasLineOfSight(in.Eye, in.Point, in.Occluders) {
		return res
	}
	res.InView = true
	res.Tier = p.TierFor(dist)
	return res
}

// InCone returns true if point lies within the cone of an observer at eye
// facing the given heading.
func (p Probe) InCone(eye Vec2, facing float64, point Vec2) bool {
	d := point.Sub(eye)
	dist := d.Len()
	if dist >= p.Radius {
		return false
	}
	if dist < 1e-6 {
		// On top of the eye: no direction to test.
		return true
	}
	diff := math.Abs(normalizeAngle(math.Atan2(d.Y, d.X) - facing))
	return diff < p.Angle/2.0
}

// TierFor bands a distance. Callers only ask for points already in view.
func (p Probe) TierFor(dist float64) ProximityTier {
	switch {
	case dist < p.CloseDistance:
		return TierClose
	case dist < p.MediumDistance:
		return TierMedium
	default:
		return TierFar
	}
}

// UpdateHeading rotates heading toward target by at most maxTurn radians.
func UpdateHeading(heading, target, maxTurn float64) float64 {
	diff := normalizeAngle(target - heading)
	if math.Abs(diff) <= maxTurn {
		return normalizeAngle(target)
	}
	if diff > 0 {
		return normalizeAngle(heading + maxTurn)
	}
	return normalizeAngle(heading - maxTurn)
}

// HeadingTo returns the angle in radians from o toward t.
func HeadingTo(o, t Vec2) float64 {
	return math.Atan2(t.Y-o.Y, t.X-o.X)
}

// normalizeAngle wraps an angle to [-pi, pi]. Non-finite input yields 0.
func normalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	return math.Remainder(a, 2*math.Pi)
}
