// Package render is the ebiten front end for the suspicion simulation: the
// room view, the agent's view cone, the detection meter and the event feed.
package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Suspicion/internal/game"
	"github.com/Garsondee/Suspicion/internal/logging"
)

// borderWidth is the pixel gap between the window edge and the room.
const borderWidth = 24

// TPS is the fixed simulation rate; one Step per frame at 1x.
const TPS = 60

// propHitRadius is how close a click must land to use a prop.
const propHitRadius = 22

// flashFrames is how long a threshold pulse stays visible on the meter.
const flashFrames = 45

var speeds = []float64{0.25, 0.5, 1, 2, 4}

// App implements ebiten.Game around a Simulation.
type App struct {
	sim    *game.Simulation
	feed   *EventFeed
	barker *Barker
	log    *slog.Logger

	width  int
	height int
	roomW  int
	roomH  int
	offX   int
	offY   int

	coneBuf    *ebiten.Image
	bannerFace text.Face

	speedIdx  int
	tickAccum float64
	showHUD   bool

	input      game.TickInput
	flashTimer map[string]int // threshold id → frames left of the pulse
	status     string
	statusTTL  int
}

// New creates the front end. The window size follows the configured room.
func New(sim *game.Simulation, log *slog.Logger) *App {
	if log == nil {
		log = logging.L()
	}
	room := sim.Config().Room
	a := &App{
		sim:        sim,
		feed:       NewEventFeed(),
		barker:     NewBarker(sim.Config().Agent.Seed),
		log:        log,
		roomW:      int(room.Width),
		roomH:      int(room.Height),
		offX:       borderWidth,
		offY:       borderWidth,
		bannerFace: text.NewGoXFace(basicfont.Face7x13),
		speedIdx:   2,
		showHUD:    true,
		flashTimer: map[string]int{},
	}
	a.width = a.roomW + borderWidth*2 + feedPanelWidth
	a.height = a.roomH + borderWidth*2
	a.coneBuf = ebiten.NewImage(a.roomW, a.roomH)
	return a
}

// WindowSize returns the size the window should open at.
func (a *App) WindowSize() (int, int) { return a.width, a.height }

func (a *App) Update() error {
	a.handleInput()

	if a.statusTTL > 0 {
		a.statusTTL--
	}
	a.barker.Update()
	for id, n := range a.flashTimer {
		if n > 0 {
			a.flashTimer[id] = n - 1
		}
	}

	a.tickAccum += speeds[a.speedIdx]
	for a.tickAccum >= 1.0 {
		a.tickAccum -= 1.0
		for _, e := range a.sim.Step(1.0/TPS, a.input) {
			a.onEvent(e)
		}
	}
	return nil
}

// onEvent drives the cosmetic layer from simulation events.
func (a *App) onEvent(e game.Event) {
	a.feed.AddEvent(e)
	a.barker.OnEvent(e)
	switch e.Kind {
	case game.EventFlash:
		if e.Direction == game.Rising {
			a.flashTimer[e.ThresholdID] = flashFrames
		} else {
			delete(a.flashTimer, e.ThresholdID)
		}
	case game.EventRoundOver:
		a.setStatus(fmt.Sprintf("round over: %s  (R to restart)", e.Reason))
	}
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusTTL = TPS * 4
}

// handleInput samples the pointer and processes edge-triggered keys.
func (a *App) handleInput() {
	mx, my := ebiten.CursorPosition()
	pt, inRoom := a.screenToRoom(mx, my)
	a.input = game.TickInput{TrackedPoint: pt, PointerOverUI: !inRoom}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && inRoom {
		if p, ok := a.sim.PropAt(pt, propHitRadius); ok {
			a.useProp(p.ID)
		}
	}
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6} {
		if inpututil.IsKeyJustPressed(k) && i < len(a.sim.Props()) {
			a.useProp(a.sim.Props()[i].ID)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		on := !a.sim.Gate().InputEnabled()
		a.sim.SetInputEnabled(on)
		if on {
			a.setStatus("input enabled")
		} else {
			a.setStatus("input disabled")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.sim.Restart()
		a.feed.Clear()
		a.barker.Clear()
		a.flashTimer = map[string]int{}
		a.setStatus("round restarted")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := copyToClipboard(a.sim.DebugReport(0)); err != nil {
			a.log.Warn("copy debug report", "err", err)
			a.setStatus("clipboard unavailable")
		} else {
			a.setStatus("debug report copied")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) && a.speedIdx > 0 {
		a.speedIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && a.speedIdx < len(speeds)-1 {
		a.speedIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
}

func (a *App) useProp(id string) {
	if a.sim.TriggerProp(id) {
		a.feed.Add(a.sim.Tick(), game.EventStimulus, "used "+id)
	}
}

// screenToRoom maps window pixels to room coordinates. ok is false when the
// pointer is outside the room (border, panel).
func (a *App) screenToRoom(x, y int) (game.Vec2, bool) {
	rx, ry := x-a.offX, y-a.offY
	ok := rx >= 0 && ry >= 0 && rx < a.roomW && ry < a.roomH
	if ok && a.showHUD {
		hx, hy, hw, hh := a.hudRect()
		if x >= hx && x < hx+hw && y >= hy && y < hy+hh {
			ok = false
		}
	}
	return game.Vec2{X: float64(rx), Y: float64(ry)}, ok
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 16, A: 255})

	a.drawRoom(screen)
	a.drawMeter(screen)
	a.feed.Draw(screen, a.offX*2+a.roomW, a.height)
	if a.showHUD {
		a.drawHUD(screen)
	}
	if a.sim.RoundOver() {
		a.drawBanner(screen)
	}
}

func (a *App) drawRoom(screen *ebiten.Image) {
	ox, oy := float32(a.offX), float32(a.offY)
	rw, rh := float32(a.roomW), float32(a.roomH)

	vector.FillRect(screen, ox, oy, rw, rh, color.RGBA{R: 38, G: 34, B: 30, A: 255}, false)
	drawGridOffset(screen, a.offX, a.offY, a.roomW, a.roomH, 40, color.RGBA{R: 50, G: 46, B: 40, A: 255})
	vector.StrokeRect(screen, ox-1, oy-1, rw+2, rh+2, 2.0, color.RGBA{R: 90, G: 80, B: 70, A: 255}, false)

	occluders := a.sim.Occluders()
	a.drawViewCone(screen, occluders)

	for _, o := range occluders {
		col := color.RGBA{R: 120, G: 60, B: 70, A: 120}
		if o.Closed {
			col = color.RGBA{R: 150, G: 50, B: 60, A: 255}
		}
		b := o.Bounds
		vector.FillRect(screen, ox+float32(b.X), oy+float32(b.Y), float32(b.W), float32(b.H), col, false)
	}

	for i, p := range a.sim.Props() {
		px, py := ox+float32(p.Position.X), oy+float32(p.Position.Y)
		col := color.RGBA{R: 90, G: 190, B: 110, A: 255}
		switch {
		case p.Disabled():
			col = color.RGBA{R: 80, G: 80, B: 80, A: 255}
		case !p.Ready():
			col = color.RGBA{R: 70, G: 110, B: 80, A: 255}
		}
		vector.FillCircle(screen, px, py, 10, col, true)
		vector.StrokeCircle(screen, px, py, propHitRadius, 1, color.RGBA{R: 255, G: 255, B: 255, A: 40}, true)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d %s", i+1, p.ID), int(px)-12, int(py)+12)
	}

	ag := a.sim.Agent()
	ax, ay := ox+float32(ag.Position().X), oy+float32(ag.Position().Y)
	body := color.RGBA{R: 70, G: 120, B: 210, A: 255}
	if ag.State() == game.AgentInvestigating {
		body = color.RGBA{R: 230, G: 150, B: 50, A: 255}
		t := ag.Target()
		vector.StrokeLine(screen, ax, ay, ox+float32(t.X), oy+float32(t.Y), 1, color.RGBA{R: 230, G: 150, B: 50, A: 90}, true)
		vector.StrokeCircle(screen, ox+float32(t.X), oy+float32(t.Y), 6, 1, color.RGBA{R: 230, G: 150, B: 50, A: 200}, true)
	}
	vector.FillCircle(screen, ax, ay, float32(ag.BodyRadius()), body, true)
	hx := ax + float32(math.Cos(ag.Heading())*ag.BodyRadius())
	hy := ay + float32(math.Sin(ag.Heading())*ag.BodyRadius())
	vector.StrokeLine(screen, ax, ay, hx, hy, 2, color.White, true)

	// Sight alert progress ring.
	if th := ag.SightAlertThreshold(); th > 0 && ag.TimeInView() > 0 {
		frac := math.Min(1, ag.TimeInView()/th)
		var path vector.Path
		path.Arc(ax, ay, float32(ag.BodyRadius())+5, float32(-math.Pi/2), float32(-math.Pi/2+2*math.Pi*frac), vector.Clockwise)
		vector.StrokePath(screen, &path, &vector.StrokeOptions{Width: 3}, &vector.DrawPathOptions{AntiAlias: true, ColorScale: redScale()})
	}
	ebitenutil.DebugPrintAt(screen, ag.Phase(), int(ax)-24, int(ay)+int(ag.BodyRadius())+4)
	a.barker.Draw(screen, ax, ay, float32(ag.BodyRadius()))

	if !a.input.PointerOverUI {
		pt := a.input.TrackedPoint
		col := color.RGBA{R: 200, G: 200, B: 200, A: 255}
		if a.sim.Perception().InView {
			col = color.RGBA{R: 240, G: 70, B: 70, A: 255}
		}
		vector.StrokeCircle(screen, ox+float32(pt.X), oy+float32(pt.Y), 5, 1.5, col, true)
	}
}

func redScale() ebiten.ColorScale {
	var cs ebiten.ColorScale
	cs.ScaleWithColor(color.RGBA{R: 240, G: 70, B: 70, A: 255})
	return cs
}

// drawViewCone fills the agent's view fan, clipped against closed occluders.
func (a *App) drawViewCone(screen *ebiten.Image, occluders []game.Occluder) {
	probe := a.sim.Probe()
	if probe.Radius <= 0 || probe.Angle <= 0 {
		return
	}
	buf := a.coneBuf
	buf.Clear()

	ag := a.sim.Agent()
	eye := ag.Position()
	half := probe.Angle / 2
	const steps = 48

	var path vector.Path
	path.MoveTo(float32(eye.X), float32(eye.Y))
	for i := 0; i <= steps; i++ {
		ang := ag.Heading() - half + probe.Angle*float64(i)/steps
		end := game.ClipRay(eye, ang, probe.Radius, occluders)
		path.LineTo(float32(end.X), float32(end.Y))
	}
	path.Close()
	vector.FillPath(buf, &path, &vector.FillOptions{}, &vector.DrawPathOptions{AntiAlias: true})

	// Tier rings.
	ringCol := color.RGBA{R: 255, G: 255, B: 255, A: 60}
	for _, r := range []float64{probe.CloseDistance, probe.MediumDistance} {
		if r > 0 && r < probe.Radius {
			vector.StrokeCircle(buf, float32(eye.X), float32(eye.Y), float32(r), 1, ringCol, true)
		}
	}

	tint := color.RGBA{R: 255, G: 230, B: 120, A: 255}
	opacity := 0.18
	if a.sim.Perception().InView {
		tint = color.RGBA{R: 255, G: 80, B: 60, A: 255}
		opacity = 0.28
	}
	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Translate(float64(a.offX), float64(a.offY))
	opts.ColorScale.ScaleWithColor(tint)
	opts.ColorScale.ScaleAlpha(float32(opacity))
	screen.DrawImage(buf, opts)
}

// drawMeter renders the detection bar with threshold markers above the feed.
func (a *App) drawMeter(screen *ebiten.Image) {
	acc := a.sim.Accumulator()
	px := a.offX*2 + a.roomW
	x, y := float32(px+12), float32(30)
	w, h := float32(feedPanelWidth-24), float32(18)

	vector.FillRect(screen, float32(px), 0, feedPanelWidth, feedTop, color.RGBA{R: 16, G: 16, B: 22, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("DETECTION %5.1f / %.0f", acc.Level(), acc.Max()), px+12, 8)

	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 30, G: 30, B: 36, A: 255}, false)
	frac := float32(acc.Normalized())
	fill := color.RGBA{R: uint8(80 + 170*frac), G: uint8(180 - 140*frac), B: 60, A: 255}
	vector.FillRect(screen, x, y, w*frac, h, fill, false)
	vector.StrokeRect(screen, x, y, w, h, 1, color.RGBA{R: 90, G: 90, B: 110, A: 255}, false)

	for _, t := range acc.Thresholds() {
		if acc.Max() <= 0 {
			break
		}
		tx := x + w*float32(t.Value/acc.Max())
		col := color.RGBA{R: 200, G: 200, B: 200, A: 160}
		if t.State == game.LatchFired {
			col = color.RGBA{R: 255, G: 220, B: 80, A: 255}
		}
		if a.flashTimer[t.ID] > 0 && (a.flashTimer[t.ID]/6)%2 == 0 {
			vector.FillRect(screen, x, y, w, h, color.RGBA{R: 255, G: 220, B: 80, A: 60}, false)
		}
		vector.StrokeLine(screen, tx, y-3, tx, y+h+3, 2, col, false)
	}

	tm := a.sim.Timer()
	timeStr := "timer off"
	if !tm.Disabled() {
		timeStr = fmt.Sprintf("TIME %5.1fs", tm.Remaining())
	}
	ebitenutil.DebugPrintAt(screen, timeStr, px+12, 56)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("agent: %s", a.sim.Agent().State()), px+12, 72)
}

// hudRect returns the HUD box in window pixels.
func (a *App) hudRect() (x, y, w, h int) {
	const lines, lineH, charW, pad = 4, 12, 6, 5
	w = 46*charW + pad*2
	h = lines*lineH + pad*2
	return a.offX + 4, a.offY + a.roomH - h - 4, w, h
}

func (a *App) drawHUD(screen *ebiten.Image) {
	speedStr := fmt.Sprintf("%gx", speeds[a.speedIdx])
	if !a.sim.Gate().InputEnabled() {
		speedStr = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("SIM: %s  P/space=input  ,/. speed", speedStr),
		"click or 1-6 = use prop  R=restart",
		"C=copy debug report  H=toggle HUD",
	}
	if a.statusTTL > 0 {
		lines = append(lines, a.status)
	}

	x, y, w, h := a.hudRect()
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 8, G: 8, B: 12, A: 210}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1.0, color.RGBA{R: 80, G: 80, B: 120, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+5, y+4+i*12)
	}
}

// drawBanner shows the round result across the middle of the room.
func (a *App) drawBanner(screen *ebiten.Image) {
	msg := "CAUGHT"
	if a.sim.RoundOverReason() == game.ReasonTimerExpired {
		msg = "TIME'S UP"
	}
	const scale = 4
	w, _ := text.Measure(msg, a.bannerFace, 0)
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(a.offX)+(float64(a.roomW)-w*scale)/2, float64(a.offY)+float64(a.roomH)/2-26)
	op.ColorScale.ScaleWithColor(color.RGBA{R: 240, G: 70, B: 70, A: 255})
	text.Draw(screen, msg, a.bannerFace, op)
}

func drawGridOffset(screen *ebiten.Image, offX, offY, w, h, spacing int, c color.Color) {
	if spacing <= 0 {
		return
	}
	ox, oy := float32(offX), float32(offY)
	for x := 0; x <= w; x += spacing {
		xf := ox + float32(x)
		vector.StrokeLine(screen, xf, oy, xf, oy+float32(h), 1.0, c, false)
	}
	for y := 0; y <= h; y += spacing {
		yf := oy + float32(y)
		vector.StrokeLine(screen, ox, yf, ox+float32(w), yf, 1.0, c, false)
	}
}

func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
