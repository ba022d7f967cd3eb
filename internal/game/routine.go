package game

import "math"

// routine is one resumable behaviour record polled once per tick. Timed
// steps keep their remaining time in the record instead of blocking, so a
// routine can be dropped at any tick boundary.
type routine interface {
	// step advances the routine by dt and reports whether it has finished.
	step(a *Agent, dt float64) bool
	// phase names the current step for logs and the HUD.
	phase() string
}

type patrolPhase int

const (
	patrolWalk patrolPhase = iota
	patrolWait
	patrolInspect
)

func (p patrolPhase) String() string {
	switch p {
	case patrolWalk:
		return "walk"
	case patrolWait:
		return "wait"
	case patrolInspect:
		return "inspect"
	default:
		return "unknown"
	}
}

// patrolRoutine loops walk → wait → inspect forever.
type patrolRoutine struct {
	stage     patrolPhase
	remaining float64
	dest      Vec2
	look      float64
}

func newPatrolRoutine(a *Agent) *patrolRoutine {
	r := &patrolRoutine{}
	r.dest, r.look = a.nextDestination()
	return r
}

func (r *patrolRoutine) step(a *Agent, dt float64) bool {
	switch r.stage {
	case patrolWalk:
		if a.moveToward(r.dest, dt) {
			r.stage = patrolWait
			r.remaining = a.params.waitDuration
		}
	case patrolWait:
		r.remaining -= dt
		if r.remaining <= 0 {
			r.stage = patrolInspect
			r.remaining = a.params.inspectDuration
		}
	case patrolInspect:
		a.turnToward(r.look, dt)
		r.remaining -= dt
		if r.remaining <= 0 {
			r.stage = patrolWalk
			r.dest, r.look = a.nextDestination()
		}
	}
	return false
}

func (r *patrolRoutine) phase() string { return "patrol:" + r.stage.String() }

type investigatePhase int

const (
	investigateWalk investigatePhase = iota
	investigateSearch
)

func (p investigatePhase) String() string {
	if p == investigateWalk {
		return "approach"
	}
	return "search"
}

// investigateRoutine walks to the captured target then searches in place
// for a fixed time. Finishing hands control back to patrol.
type investigateRoutine struct {
	stage     investigatePhase
	remaining float64
	target    Vec2
	sweepBase float64
}

func newInvestigateRoutine(target Vec2) *investigateRoutine {
	return &investigateRoutine{target: target}
}

func (r *investigateRoutine) step(a *Agent, dt float64) bool {
	switch r.stage {
	case investigateWalk:
		if a.moveToward(r.target, dt) {
			r.stage = investigateSearch
			r.remaining = a.params.searchDuration
			r.sweepBase = a.heading
		}
		return false
	case investigateSearch:
		r.remaining -= dt
		// Look left and right around the heading held on arrival.
		elapsed := a.params.searchDuration - r.remaining
		sweep := r.sweepBase + math.Sin(elapsed*2.2)*0.9
		a.turnToward(sweep, dt)
		return r.remaining <= 0
	}
	return true
}

func (r *investigateRoutine) phase() string { return "investigate:" + r.stage.String() }
