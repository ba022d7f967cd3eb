package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Suspicion/internal/game"
	"github.com/Garsondee/Suspicion/internal/logging"
	"github.com/Garsondee/Suspicion/internal/render"
)

func main() {
	configPath := flag.String("config", "", "YAML room config (SUSPICION_* env vars override it)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logging.Init(*logLevel)
	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	sim := game.NewSimulation(cfg, game.WithLogger(logging.L()))
	app := render.New(sim, logging.L())

	ebiten.SetWindowTitle("Suspicion")
	ebiten.SetWindowSize(app.WindowSize())
	ebiten.SetTPS(render.TPS)
	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
