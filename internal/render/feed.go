package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Suspicion/internal/game"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 12
	feedTop        = 96 // below the detection meter
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Kind    game.EventKind
	Message string
}

// EventFeed is a ring buffer of recent simulation events rendered on-screen.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates an event feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry to the feed, dropping the oldest when full.
func (f *EventFeed) Add(tick int, kind game.EventKind, msg string) {
	f.entries[f.head] = FeedEntry{Tick: tick, Kind: kind, Message: msg}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// AddEvent formats a simulation event into the feed.
func (f *EventFeed) AddEvent(e game.Event) {
	f.Add(e.Tick, e.Kind, e.String())
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Clear drops every entry.
func (f *EventFeed) Clear() {
	f.head = 0
	f.count = 0
}

func kindColor(k game.EventKind) color.RGBA {
	switch k {
	case game.EventFlash:
		return color.RGBA{R: 230, G: 190, B: 60, A: 255}
	case game.EventCaught, game.EventRoundOver:
		return color.RGBA{R: 220, G: 60, B: 60, A: 255}
	case game.EventStateChange:
		return color.RGBA{R: 90, G: 150, B: 230, A: 255}
	case game.EventMilestone, game.EventTimerExpired:
		return color.RGBA{R: 160, G: 160, B: 170, A: 255}
	default:
		return color.RGBA{R: 90, G: 190, B: 110, A: 255}
	}
}

// Draw renders the feed panel below the meter on the right side of the screen.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, feedTop, feedPanelWidth, float32(panelH-feedTop), color.RGBA{R: 10, G: 10, B: 14, A: 248}, false)
	vector.FillRect(screen, px, feedTop, feedPanelWidth, 16, color.RGBA{R: 22, G: 22, B: 32, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, feedTop+1)
	vector.StrokeLine(screen, px, feedTop+16, px+feedPanelWidth, feedTop+16, 1.0, color.RGBA{R: 60, G: 60, B: 90, A: 200}, false)

	entries := f.Recent()
	maxVisible := (panelH - feedTop - 24) / feedLineHeight
	if maxVisible < 0 {
		maxVisible = 0
	}
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := feedTop + 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, px+2, float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 30, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, px+5, float32(y+3), 3, 5, kindColor(e.Kind), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y)
		y += feedLineHeight
	}
}
