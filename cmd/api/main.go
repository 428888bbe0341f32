package main

import (
	"log"
	"time"

	"github.com/playautopublish/console-backend/config"
	"github.com/playautopublish/console-backend/internal/bootstrap"
	pubservice "github.com/playautopublish/console-backend/internal/publish/service"
	"github.com/playautopublish/console-backend/internal/seed"
	"github.com/playautopublish/console-backend/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	store := state.NewStore()
	if err := seed.Apply(store, cfg.App.SeedFile); err != nil {
		log.Fatalf("seed: %v", err)
	}

	runner := pubservice.NewRunner(store, pubservice.Options{
		Tick:              cfg.Publish.Tick,
		StepPause:         cfg.Publish.StepPause,
		ProgressIncrement: cfg.Publish.ProgressIncrement,
		Decider:           pubservice.NewRandomDecider(cfg.Publish.FailureRate, time.Now().UnixNano()),
	})
	wizard := pubservice.NewWizard(runner)

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "publish-console-backend",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Store:       store,
		Runner:      runner,
		Wizard:      wizard,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
