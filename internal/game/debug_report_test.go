package game

import (
	"strings"
	"testing"
)

func TestBuildStages_SplitsAtPhaseChanges(t *testing.T) {
	entries := []SimLogEntry{
		{Tick: 3, Category: CatAgent, Key: "phase", Value: "patrol:walk → patrol:wait"},
		{Tick: 5, Category: CatStimulus, Key: "applied"},
		{Tick: 8, Category: CatAgent, Key: "phase", Value: "patrol:wait → patrol:inspect"},
	}
	stages := buildStages(entries, 1, 10, "patrol:inspect")
	if len(stages) != 3 {
		t.Fatalf("expected 3 stages, got %d: %+v", len(stages), stages)
	}
	want := []reportStage{
		{1, 2, "patrol:walk"},
		{3, 7, "patrol:wait"},
		{8, 10, "patrol:inspect"},
	}
	for i, w := range want {
		if stages[i] != w {
			t.Fatalf("stage %d: want %+v, got %+v", i, w, stages[i])
		}
	}
}

func TestBuildStages_NoChanges(t *testing.T) {
	stages := buildStages(nil, 0, 4, "patrol:walk")
	if len(stages) != 1 || stages[0].phase != "patrol:walk" || stages[0].endTick != 4 {
		t.Fatalf("expected one stage spanning the window, got %+v", stages)
	}
}

func TestSummarizeEntries(t *testing.T) {
	entries := []SimLogEntry{
		{Category: CatStimulus, Key: "applied", NumVal: 4},
		{Category: CatStimulus, Key: "applied", NumVal: 6},
		{Category: CatDetection, Key: "flash_on"},
		{Category: CatAgent, Key: "investigate"},
		{Category: CatPerception, Key: "sighted"},
	}
	sum := summarizeEntries(entries)
	if sum.stimuli != 2 || sum.stimulusTotal != 10 || sum.flashesOn != 1 || sum.investigations != 1 || sum.sightings != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestDebugReport_CoversRound(t *testing.T) {
	cfg := stationaryConfig()
	cfg.Detection.BaseRate = 100
	sim := newTestSim(t, cfg)
	sim.TriggerProp("lamp")
	sim.RunTicks(100, 0.1, Still(inFront))

	report := sim.DebugReport(0)
	for _, want := range []string{
		"--- Suspicion debug report ---",
		"round over: detection_max",
		"== DETECTION ==",
		"nervous",
		"prop lamp",
		"stimuli=1",
		"caught",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}
