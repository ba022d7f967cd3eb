package render

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Suspicion/internal/game"
)

// barkLifetime is how many frames a bark stays visible (~3 seconds).
const barkLifetime = 180

// bark is the agent's current speech bubble.
type bark struct {
	text   string
	detail string
	age    int
}

// Barker turns simulation events into one-line speech above the agent.
// A newer bark replaces the current one.
type Barker struct {
	current *bark
	rng     *rand.Rand
}

func NewBarker(seed int64) *Barker {
	return &Barker{rng: rand.New(rand.NewSource(seed))} // #nosec G404 -- cosmetic
}

// barkFor picks a line for an event, or "" when the agent keeps quiet.
func barkFor(rng *rand.Rand, e game.Event) (string, string) {
	pick := func(texts ...string) string { return texts[rng.Intn(len(texts))] }
	switch e.Kind {
	case game.EventStateChange:
		if e.To == game.AgentInvestigating {
			return pick("Huh?", "Who's there?", "What was that?", "Hello?"), "investigating"
		}
		return pick("Must have been the wind.", "Nothing there.", "Hm. Jumpy today."), "back on patrol"
	case game.EventFlash:
		if e.Direction != game.Rising {
			return "", ""
		}
		return pick("Something's off...", "I'm being watched?", "Weird..."), fmt.Sprintf("%s %.0f", e.ThresholdID, e.Value)
	case game.EventCaught:
		return pick("Gotcha!", "I KNEW it!", "Caught you!"), ""
	case game.EventMilestone:
		if e.Value <= 10 {
			return "Almost quitting time.", fmt.Sprintf("%.0fs left", e.Value)
		}
	}
	return "", ""
}

// OnEvent starts a bark for e if it warrants one.
func (b *Barker) OnEvent(e game.Event) {
	text, detail := barkFor(b.rng, e)
	if text == "" {
		return
	}
	b.current = &bark{text: text, detail: detail}
}

// Update ages the current bark.
func (b *Barker) Update() {
	if b.current == nil {
		return
	}
	b.current.age++
	if b.current.age >= barkLifetime {
		b.current = nil
	}
}

// Text returns the visible bark, if any.
func (b *Barker) Text() string {
	if b.current == nil {
		return ""
	}
	return b.current.text
}

func (b *Barker) Clear() { b.current = nil }

// Draw renders the bubble above a body of the given radius at (x, y) in
// screen coordinates, fading out over the last third of its life.
func (b *Barker) Draw(screen *ebiten.Image, x, y, radius float32) {
	if b.current == nil {
		return
	}
	progress := float64(b.current.age) / float64(barkLifetime)
	alpha := float32(1.0)
	if progress > 0.70 {
		alpha = float32(1.0 - (progress-0.70)/0.30)
	}
	if alpha < 0.05 {
		return
	}

	const charW = 6
	const lineH = 14
	const padX = 5
	const padY = 3

	lines := 1
	maxLen := len(b.current.text)
	if b.current.detail != "" {
		lines = 2
		if len(b.current.detail) > maxLen {
			maxLen = len(b.current.detail)
		}
	}
	bgW := float32(maxLen*charW + padX*2)
	bgH := float32(lines*lineH + padY*2)
	bgX := x - bgW/2
	bgY := y - radius - bgH - 6

	vector.FillRect(screen, bgX, bgY, bgW, bgH, color.RGBA{R: 20, G: 20, B: 26, A: uint8(210 * alpha)}, false)
	vector.FillRect(screen, bgX, bgY, 3, bgH, color.RGBA{R: 230, G: 150, B: 50, A: uint8(220 * alpha)}, false)
	vector.StrokeRect(screen, bgX, bgY, bgW, bgH, 0.5, color.RGBA{R: 100, G: 100, B: 100, A: uint8(80 * alpha)}, false)

	textX := int(bgX) + padX + 3
	textY := int(bgY) + padY
	ebitenutil.DebugPrintAt(screen, b.current.text, textX, textY)
	if b.current.detail != "" {
		ebitenutil.DebugPrintAt(screen, b.current.detail, textX, textY+lineH)
	}
	vector.StrokeLine(screen, x, bgY+bgH, x, y-radius, 0.5, color.RGBA{R: 100, G: 100, B: 100, A: uint8(60 * alpha)}, false)
}
