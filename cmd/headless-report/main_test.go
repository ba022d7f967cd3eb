package main

import (
	"testing"

	"github.com/Garsondee/Suspicion/internal/game"
)

func TestFirstTick(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Category: game.CatAgent, Key: "state_change", Value: "patrolling → investigating"},
		{Tick: 9, Category: game.CatAgent, Key: "state_change", Value: "investigating → patrolling"},
	}
	if got := firstTick(entries, game.CatAgent, "state_change", "→ patrolling"); got != 9 {
		t.Fatalf("expected tick 9, got %d", got)
	}
	if got := firstTick(entries, game.CatAgent, "state_change", ""); got != 3 {
		t.Fatalf("expected tick 3, got %d", got)
	}
	if got := firstTick(entries, game.CatTimer, "expired", ""); got != -1 {
		t.Fatalf("expected -1 for a missing entry, got %d", got)
	}
}

func TestAvgHelpers(t *testing.T) {
	if avg(10, 0) != 0 || avg(10, 4) != 2.5 {
		t.Fatal("avg returned unexpected values")
	}
	if avgTickString(nil) != "n/a" || avgTickString([]int{2, 4}) != "3.0" {
		t.Fatal("avgTickString returned unexpected values")
	}
	if got := formatCounts(map[string]int{"survived": 1, "detection_max": 2}); got != "detection_max=2 survived=1" {
		t.Fatalf("unexpected counts %q", got)
	}
}

func TestIntruderFor_UnknownScenario(t *testing.T) {
	if _, err := intruderFor("teleport", 1); err == nil {
		t.Fatal("expected an error for an unknown scenario")
	}
}

func TestRunScenario_StareGetsCaught(t *testing.T) {
	rs, sim, err := runScenario(game.DefaultConfig(), "stare", 1, 7, 60*60)
	if err != nil {
		t.Fatal(err)
	}
	if rs.outcome != "detection_max" {
		t.Fatalf("staring at the agent should get caught, got %s\n%s", rs.outcome, sim.DebugReport(0))
	}
	if rs.firstSightTick != 1 || rs.caughtTick < 0 || rs.peakLevel < 100 {
		t.Fatalf("unexpected markers %+v", rs)
	}
}

func TestRunScenario_AllScenariosRun(t *testing.T) {
	for _, name := range scenarios {
		rs, _, err := runScenario(game.DefaultConfig(), name, 1, 3, 600)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if rs.endTick <= 0 {
			t.Fatalf("%s: no ticks ran", name)
		}
	}
}
