package render

import (
	"math/rand"
	"testing"

	"github.com/Garsondee/Suspicion/internal/game"
)

func TestBarkFor_StateChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	text, detail := barkFor(rng, game.Event{Kind: game.EventStateChange, From: game.AgentPatrolling, To: game.AgentInvestigating})
	if text == "" || detail != "investigating" {
		t.Fatalf("expected an investigate bark, got %q %q", text, detail)
	}
	text, detail = barkFor(rng, game.Event{Kind: game.EventStateChange, From: game.AgentInvestigating, To: game.AgentPatrolling})
	if text == "" || detail != "back on patrol" {
		t.Fatalf("expected a patrol bark, got %q %q", text, detail)
	}
}

func TestBarkFor_QuietEvents(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, e := range []game.Event{
		{Kind: game.EventFlash, Direction: game.Falling},
		{Kind: game.EventStimulus, Value: 4},
		{Kind: game.EventMilestone, Value: 60},
	} {
		if text, _ := barkFor(rng, e); text != "" {
			t.Fatalf("expected no bark for %v, got %q", e, text)
		}
	}
}

func TestBarker_ExpiresAndReplaces(t *testing.T) {
	b := NewBarker(1)
	b.OnEvent(game.Event{Kind: game.EventCaught})
	first := b.Text()
	if first == "" {
		t.Fatal("caught should bark")
	}
	b.OnEvent(game.Event{Kind: game.EventStimulus})
	if b.Text() != first {
		t.Fatal("a quiet event should not replace the bark")
	}
	for i := 0; i < barkLifetime; i++ {
		b.Update()
	}
	if b.Text() != "" {
		t.Fatal("bark should expire")
	}
}
