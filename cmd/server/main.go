package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/avelaine/epochs/internal/engine"
	"github.com/avelaine/epochs/internal/loader"
	"github.com/avelaine/epochs/internal/models"
	"github.com/avelaine/epochs/internal/save"
	"github.com/avelaine/epochs/internal/server"
)

var (
	port       = flag.Int("port", 8080, "The server port")
	dataDir    = flag.String("data", "data", "Path to data directory")
	configFile = flag.String("config", "", "Path to YAML config file")
	loadFile   = flag.String("load", "", "Resume from a save file")
	saveFile   = flag.String("save", "", "Autosave the session to this file")
	tickMs     = flag.Int("tick", 100, "Game loop tick in milliseconds")
)

func main() {
	flag.Parse()

	cfg := models.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = models.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	catalog, err := loader.LoadCatalog(*dataDir)
	if err != nil {
		log.Fatalf("failed to load catalogs: %v", err)
	}
	log.Printf("loaded %d resources, %d upgrades, %d events",
		len(catalog.Resources), len(catalog.Upgrades), len(catalog.Events))

	resources := engine.NewResourceManager(catalog.Resources)
	timeSystem := engine.NewTimeSystem(cfg.Time)
	state := engine.NewGameState(catalog, resources, timeSystem, cfg)
	events := engine.NewEventSystem(catalog.Events, state, cfg.Game)

	if *loadFile != "" {
		snap, err := save.Read(*loadFile)
		if err != nil {
			log.Fatalf("failed to load save: %v", err)
		}
		save.Apply(snap, state)
		log.Printf("resumed session at year %d", snap.CurrentYear)
	}

	srv := server.New(state, events, time.Duration(*tickMs)*time.Millisecond)
	if *saveFile != "" {
		interval := time.Duration(cfg.Game.AutoSaveInterval * float64(time.Second))
		srv.EnableAutoSave(*saveFile, interval)
		log.Printf("autosaving to %s every %s", *saveFile, interval)
	}
	go srv.Run()

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("session server listening on %s (ws endpoint: /ws)", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
