package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Suspicion/internal/game"
	"github.com/Garsondee/Suspicion/internal/logging"
)

const dt = 1.0 / 60.0

var scenarios = []string{"stare", "shadow", "pranks", "wander"}

type runStats struct {
	runIndex int
	seed     int64
	scenario string

	outcome string // detection_max, timer_expired, or survived
	endTick int

	firstSightTick       int
	firstInvestigateTick int
	firstFlashTick       int
	caughtTick           int

	peakLevel      float64
	investigations int
	flashes        int
	stimuli        int
	propUses       int
	contacts       int
	milestones     int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var configPath string
	var logLevel string
	var report bool

	flag.IntVar(&runs, "runs", 5, "number of headless rounds")
	flag.IntVar(&ticks, "ticks", 180*60, "max ticks per round (60 per second)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "shadow", "intruder script: "+strings.Join(scenarios, ", "))
	flag.StringVar(&configPath, "config", "", "YAML room config")
	flag.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flag.BoolVar(&report, "report", false, "print the debug report of the last run")
	flag.Parse()

	logging.Init(logLevel)

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	cfg, err := game.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Suspicion Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	var last *game.Simulation
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, sim, err := runScenario(cfg, scenario, i+1, seed, ticks)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		all = append(all, stats)
		printRun(stats)
		last = sim
	}

	printAggregate(all)
	if report && last != nil {
		fmt.Println()
		fmt.Print(last.DebugReport(0))
	}
}

// intruderFor builds the scripted player for a scenario.
func intruderFor(name string, seed int64) (game.Intruder, error) {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible scripts
	switch name {
	case "stare":
		// Stand in front of the agent's face, inside medium range.
		return func(sim *game.Simulation) game.TickInput {
			return game.TickInput{TrackedPoint: offsetFrom(sim.Agent(), 0, 200)}
		}, nil
	case "shadow":
		// Follow behind the agent.
		return func(sim *game.Simulation) game.TickInput {
			return game.TickInput{TrackedPoint: offsetFrom(sim.Agent(), math.Pi, 150)}
		}, nil
	case "pranks":
		// Follow behind and use props whenever the dice say so.
		return func(sim *game.Simulation) game.TickInput {
			if rng.Float64() < 0.01 {
				props := sim.Props()
				if len(props) > 0 {
					sim.TriggerProp(props[rng.Intn(len(props))].ID)
				}
			}
			return game.TickInput{TrackedPoint: offsetFrom(sim.Agent(), math.Pi, 150)}
		}, nil
	case "wander":
		room := game.DefaultConfig().Room
		pos := game.Vec2{X: room.Width / 2, Y: 40}
		heading := rng.Float64() * 2 * math.Pi
		return func(sim *game.Simulation) game.TickInput {
			r := sim.Config().Room
			heading += (rng.Float64() - 0.5) * 0.4
			pos = pos.Add(game.Vec2{X: math.Cos(heading), Y: math.Sin(heading)}.Scale(2))
			if pos.X < 0 || pos.X > r.Width || pos.Y < 0 || pos.Y > r.Height {
				heading += math.Pi
				pos.X = math.Max(0, math.Min(pos.X, r.Width))
				pos.Y = math.Max(0, math.Min(pos.Y, r.Height))
			}
			return game.TickInput{TrackedPoint: pos}
		}, nil
	default:
		return nil, fmt.Errorf("unsupported scenario %q (supported: %s)", name, strings.Join(scenarios, ", "))
	}
}

// offsetFrom returns the point dist pixels from the agent at angle relative
// to its heading.
func offsetFrom(a *game.Agent, angle, dist float64) game.Vec2 {
	h := a.Heading() + angle
	return a.Position().Add(game.Vec2{X: math.Cos(h), Y: math.Sin(h)}.Scale(dist))
}

func runScenario(cfg game.Config, scenario string, runIndex int, seed int64, ticks int) (runStats, *game.Simulation, error) {
	script, err := intruderFor(scenario, seed)
	if err != nil {
		return runStats{}, nil, err
	}
	sim := game.NewSimulation(cfg, game.WithSeed(seed), game.WithLogger(logging.L()))

	peak := 0.0
	for i := 0; i < ticks && !sim.RoundOver(); i++ {
		sim.Step(dt, script(sim))
		peak = math.Max(peak, sim.Accumulator().Level())
	}

	sl := sim.SimLog()
	entries := sl.Entries()
	outcome := "survived"
	if sim.RoundOver() {
		outcome = sim.RoundOverReason().String()
	}
	return runStats{
		runIndex:             runIndex,
		seed:                 seed,
		scenario:             scenario,
		outcome:              outcome,
		endTick:              sim.Tick(),
		firstSightTick:       firstTick(entries, game.CatPerception, "sighted", ""),
		firstInvestigateTick: firstTick(entries, game.CatAgent, "investigate", ""),
		firstFlashTick:       firstTick(entries, game.CatDetection, "flash_on", ""),
		caughtTick:           firstTick(entries, game.CatDetection, "caught", ""),
		peakLevel:            peak,
		investigations:       sl.CountCategory(game.CatAgent, "investigate"),
		flashes:              sl.CountCategory(game.CatDetection, "flash_on"),
		stimuli:              sl.CountCategory(game.CatStimulus, ""),
		propUses:             sl.CountCategory(game.CatProp, "trigger"),
		contacts:             sl.CountCategory(game.CatAgent, "contact"),
		milestones:           sl.CountCategory(game.CatTimer, "milestone"),
	}, sim, nil
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s end_tick=%d (%.1fs) peak_level=%.1f\n", rs.outcome, rs.endTick, float64(rs.endTick)*dt, rs.peakLevel)
	fmt.Printf("phase_markers: first_sight=%d first_investigate=%d first_flash=%d caught=%d\n",
		rs.firstSightTick, rs.firstInvestigateTick, rs.firstFlashTick, rs.caughtTick)
	fmt.Printf("event_totals: investigations=%d flashes=%d stimuli=%d prop_uses=%d contacts=%d milestones=%d\n",
		rs.investigations, rs.flashes, rs.stimuli, rs.propUses, rs.contacts, rs.milestones)
	fmt.Println()
}

func printAggregate(all []runStats) {
	outcomes := map[string]int{}
	totalInvestigations := 0
	totalFlashes := 0
	totalStimuli := 0
	sightTicks := make([]int, 0, len(all))
	caughtTicks := make([]int, 0, len(all))
	peakSum := 0.0

	for _, rs := range all {
		outcomes[rs.outcome]++
		totalInvestigations += rs.investigations
		totalFlashes += rs.flashes
		totalStimuli += rs.stimuli
		peakSum += rs.peakLevel
		if rs.firstSightTick >= 0 {
			sightTicks = append(sightTicks, rs.firstSightTick)
		}
		if rs.caughtTick >= 0 {
			caughtTicks = append(caughtTicks, rs.caughtTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d outcomes: %s\n", len(all), formatCounts(outcomes))
	fmt.Printf("avg_events_per_run: investigations=%.1f flashes=%.1f stimuli=%.1f\n",
		avg(totalInvestigations, len(all)), avg(totalFlashes, len(all)), avg(totalStimuli, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_sight=%s caught=%s\n", avgTickString(sightTicks), avgTickString(caughtTicks))
	if len(all) > 0 {
		fmt.Printf("avg_peak_level=%.1f\n", peakSum/float64(len(all)))
	}
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
