package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g.
// SUSPICION_DETECTION_DECAY_RATE=2.5.
const EnvPrefix = "SUSPICION_"

// ThresholdEffect says what a threshold crossing drives.
type ThresholdEffect string

const (
	EffectFlash  ThresholdEffect = "flash"  // cosmetic pulse
	EffectAlert  ThresholdEffect = "alert"  // cosmetic + audio escalation
	EffectCaught ThresholdEffect = "caught" // terminal
)

// ThresholdConfig is one entry of the detection threshold list.
type ThresholdConfig struct {
	ID     string          `yaml:"id"`
	Value  float64         `yaml:"value"`
	Effect ThresholdEffect `yaml:"effect"`
}

type DetectionConfig struct {
	Max        float64           `yaml:"max" env:"MAX"`
	DecayRate  float64           `yaml:"decay_rate" env:"DECAY_RATE"` // level per second
	BaseRate   float64           `yaml:"base_rate" env:"BASE_RATE"`   // level per second while in view, before tier multiplier
	Thresholds []ThresholdConfig `yaml:"thresholds"`
}

// MultiplierConfig scales BaseRate per proximity tier. Must satisfy
// Close > Medium > Far.
type MultiplierConfig struct {
	Close  float64 `yaml:"close" env:"CLOSE"`
	Medium float64 `yaml:"medium" env:"MEDIUM"`
	Far    float64 `yaml:"far" env:"FAR"`
}

type PerceptionConfig struct {
	Radius         float64          `yaml:"radius" env:"RADIUS"`
	AngleDeg       float64          `yaml:"angle_deg" env:"ANGLE_DEG"` // full cone aperture
	CloseDistance  float64          `yaml:"close_distance" env:"CLOSE_DISTANCE"`
	MediumDistance float64          `yaml:"medium_distance" env:"MEDIUM_DISTANCE"`
	Multipliers    MultiplierConfig `yaml:"multipliers" envPrefix:"MULTIPLIER_"`
}

// PointOfInterest is a patrol stop and the heading the agent inspects from it.
type PointOfInterest struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	LookDeg float64 `yaml:"look_deg"`
}

type AgentConfig struct {
	StartX              float64           `yaml:"start_x" env:"START_X"`
	StartY              float64           `yaml:"start_y" env:"START_Y"`
	SightAlertThreshold float64           `yaml:"sight_alert_threshold" env:"SIGHT_ALERT_THRESHOLD"` // seconds
	SearchDuration      float64           `yaml:"search_duration" env:"SEARCH_DURATION"`
	WaitDuration        float64           `yaml:"wait_duration" env:"WAIT_DURATION"`
	InspectDuration     float64           `yaml:"inspect_duration" env:"INSPECT_DURATION"`
	Speed               float64           `yaml:"speed" env:"SPEED"`               // pixels per second
	TurnRateDeg         float64           `yaml:"turn_rate_deg" env:"TURN_RATE_DEG"` // degrees per second
	ArrivalTolerance    float64           `yaml:"arrival_tolerance" env:"ARRIVAL_TOLERANCE"`
	BodyRadius          float64           `yaml:"body_radius" env:"BODY_RADIUS"`
	Seed                int64             `yaml:"seed" env:"SEED"` // wander RNG
	Points              []PointOfInterest `yaml:"points"`
}

type RoundConfig struct {
	TotalTime  float64   `yaml:"total_time" env:"TOTAL_TIME"` // seconds
	Milestones []float64 `yaml:"milestones" env:"MILESTONES" envSeparator:","`
}

type RoomConfig struct {
	Width  float64 `yaml:"width" env:"WIDTH"`
	Height float64 `yaml:"height" env:"HEIGHT"`
}

// RectConfig is an optional occluder attached to a prop.
type RectConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type PropConfig struct {
	ID        string      `yaml:"id"`
	Kind      PropKind    `yaml:"kind"`
	X         float64     `yaml:"x"`
	Y         float64     `yaml:"y"`
	Magnitude float64     `yaml:"magnitude"`
	Cooldown  float64     `yaml:"cooldown"` // seconds between accepted triggers
	Noisy     bool        `yaml:"noisy"`    // heard by the agent instead of published directly
	Occluder  *RectConfig `yaml:"occluder"`
	Closed    bool        `yaml:"closed"` // initial occluder state
}

// Config is the full recognized configuration surface.
type Config struct {
	Detection  DetectionConfig  `yaml:"detection" envPrefix:"DETECTION_"`
	Perception PerceptionConfig `yaml:"perception" envPrefix:"PERCEPTION_"`
	Agent      AgentConfig      `yaml:"agent" envPrefix:"AGENT_"`
	Round      RoundConfig      `yaml:"round" envPrefix:"ROUND_"`
	Room       RoomConfig       `yaml:"room" envPrefix:"ROOM_"`
	Props      []PropConfig     `yaml:"props"`
}

// DefaultConfig returns the living-room setup the game ships with.
func DefaultConfig() Config {
	return Config{
		Detection: DetectionConfig{
			Max:       100,
			DecayRate: 5,
			BaseRate:  8,
			Thresholds: []ThresholdConfig{
				{ID: "nervous", Value: 30, Effect: EffectFlash},
				{ID: "high_alert", Value: 70, Effect: EffectAlert},
				{ID: "caught", Value: 100, Effect: EffectCaught},
			},
		},
		Perception: PerceptionConfig{
			Radius:         defaultViewRadius,
			AngleDeg:       defaultViewAngleDeg,
			CloseDistance:  defaultCloseDistance,
			MediumDistance: defaultMediumDistance,
			Multipliers:    MultiplierConfig{Close: 3, Medium: 2, Far: 1},
		},
		Agent: AgentConfig{
			StartX:              480,
			StartY:              380,
			SightAlertThreshold: 1.5,
			SearchDuration:      4,
			WaitDuration:        1.5,
			InspectDuration:     2,
			Speed:               90,
			TurnRateDeg:         240,
			ArrivalTolerance:    8,
			BodyRadius:          18,
			Seed:                1,
			Points: []PointOfInterest{
				{X: 160, Y: 120, LookDeg: -90},
				{X: 800, Y: 140, LookDeg: -45},
				{X: 820, Y: 420, LookDeg: 0},
				{X: 180, Y: 430, LookDeg: 180},
			},
		},
		Round: RoundConfig{
			TotalTime:  180,
			Milestones: []float64{60, 30, 10},
		},
		Room: RoomConfig{Width: 960, Height: 540},
		Props: []PropConfig{
			{ID: "curtain", Kind: PropCurtain, X: 480, Y: 40, Magnitude: 6, Cooldown: 1,
				Occluder: &RectConfig{X: 400, Y: 30, W: 160, H: 14}},
			{ID: "window", Kind: PropWindow, X: 60, Y: 270, Magnitude: 12, Cooldown: 3},
			{ID: "phone", Kind: PropPhone, X: 900, Y: 270, Magnitude: 15, Cooldown: 8, Noisy: true},
			{ID: "lamp", Kind: PropLamp, X: 300, Y: 500, Magnitude: 4, Cooldown: 0.5},
		},
	}
}

// LoadConfig reads a YAML file over the defaults, then applies environment
// overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := DecodeConfig(bytes.NewReader(data), &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeConfig decodes YAML from r into cfg. Unknown keys are errors so
// typos don't silently fall back to defaults.
func DecodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overlays SUSPICION_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Normalize repairs out-of-range values in place and returns a note per
// repair. Nothing here is fatal: a bad value falls back to something safe.
func (c *Config) Normalize() []string {
	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}
	def := DefaultConfig()

	// --- detection ---
	d := &c.Detection
	if !(d.Max > 0) {
		note("detection.max %.2f is not positive, using %.0f", d.Max, def.Detection.Max)
		d.Max = def.Detection.Max
	}
	if !(d.DecayRate >= 0) {
		note("detection.decay_rate %.2f is negative, using 0", d.DecayRate)
		d.DecayRate = 0
	}
	if !(d.BaseRate >= 0) {
		note("detection.base_rate %.2f is negative, using 0", d.BaseRate)
		d.BaseRate = 0
	}
	d.Thresholds = normalizeThresholds(d.Thresholds, d.Max, note)

	// --- perception ---
	p := &c.Perception
	if !(p.Radius >= 0) {
		note("perception.radius %.2f is negative, using 0", p.Radius)
		p.Radius = 0
	}
	p.AngleDeg = clamp(p.AngleDeg, 0, 360)
	if p.CloseDistance > p.MediumDistance {
		note("perception.close_distance %.1f exceeds medium_distance %.1f, swapping", p.CloseDistance, p.MediumDistance)
		p.CloseDistance, p.MediumDistance = p.MediumDistance, p.CloseDistance
	}
	m := &p.Multipliers
	if !(m.Close > m.Medium && m.Medium > m.Far) {
		vals := []float64{math.Max(m.Close, 0), math.Max(m.Medium, 0), math.Max(m.Far, 0)}
		sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
		note("perception.multipliers close=%.2f medium=%.2f far=%.2f are not strictly decreasing, reordered", m.Close, m.Medium, m.Far)
		m.Close, m.Medium, m.Far = vals[0], vals[1], vals[2]
	}

	// --- agent ---
	a := &c.Agent
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"agent.sight_alert_threshold", &a.SightAlertThreshold},
		{"agent.search_duration", &a.SearchDuration},
		{"agent.wait_duration", &a.WaitDuration},
		{"agent.inspect_duration", &a.InspectDuration},
		{"agent.speed", &a.Speed},
		{"agent.turn_rate_deg", &a.TurnRateDeg},
		{"agent.arrival_tolerance", &a.ArrivalTolerance},
		{"agent.body_radius", &a.BodyRadius},
	} {
		if !(*f.v >= 0) {
			note("%s %.2f is negative, using 0", f.name, *f.v)
			*f.v = 0
		}
	}

	for i := range a.Points {
		pt := &a.Points[i]
		if math.IsNaN(pt.LookDeg) || math.IsInf(pt.LookDeg, 0) {
			note("agent.points[%d].look_deg %v is not finite, using 0", i, pt.LookDeg)
			pt.LookDeg = 0
			continue
		}
		pt.LookDeg = math.Mod(pt.LookDeg, 360)
	}

	// --- room ---
	if !(c.Room.Width > 0) || !(c.Room.Height > 0) {
		note("room %.0fx%.0f is empty, using %.0fx%.0f", c.Room.Width, c.Room.Height, def.Room.Width, def.Room.Height)
		c.Room = def.Room
	}
	a.StartX = clamp(a.StartX, 0, c.Room.Width)
	a.StartY = clamp(a.StartY, 0, c.Room.Height)

	// --- round ---
	kept := make([]float64, 0, len(c.Round.Milestones))
	for _, ms := range c.Round.Milestones {
		if ms > 0 && (c.Round.TotalTime <= 0 || ms < c.Round.TotalTime) {
			kept = append(kept, ms)
			continue
		}
		note("round.milestones %.1f is outside (0, total_time), dropped", ms)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(kept)))
	c.Round.Milestones = kept

	// --- props ---
	for i := range c.Props {
		if c.Props[i].Magnitude < 0 {
			note("props[%s].magnitude %.2f is negative, using 0", c.Props[i].ID, c.Props[i].Magnitude)
			c.Props[i].Magnitude = 0
		}
	}
	return notes
}

// normalizeThresholds sorts ascending, drops out-of-range and duplicate
// entries, and defaults missing effects to flash.
func normalizeThresholds(in []ThresholdConfig, maxLevel float64, note func(string, ...any)) []ThresholdConfig {
	if !sort.SliceIsSorted(in, func(i, j int) bool { return in[i].Value < in[j].Value }) {
		note("detection.thresholds not sorted ascending, sorted")
	}
	out := make([]ThresholdConfig, 0, len(in))
	out = append(out, in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })

	seen := make(map[string]bool, len(out))
	kept := out[:0]
	for _, t := range out {
		switch {
		case t.ID == "":
			note("detection.thresholds entry at %.1f has no id, dropped", t.Value)
			continue
		case seen[t.ID]:
			note("detection.thresholds duplicate id %q, dropped", t.ID)
			continue
		case !(t.Value > 0) || t.Value > maxLevel:
			note("detection.thresholds %q value %.1f outside (0, %.1f], dropped", t.ID, t.Value, maxLevel)
			continue
		}
		switch t.Effect {
		case EffectFlash, EffectAlert, EffectCaught:
		default:
			note("detection.thresholds %q effect %q unknown, using flash", t.ID, t.Effect)
			t.Effect = EffectFlash
		}
		seen[t.ID] = true
		kept = append(kept, t)
	}
	return kept
}
