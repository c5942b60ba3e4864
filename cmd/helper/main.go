package main

import (
	"flag"
	"log"

	"safri360/internal/config"
	"safri360/internal/mylogger"
)

// helper simulates a Safri360 driver: it logs in by PIN, goes online,
// waits for an assignment push over the websocket and then walks the
// ride through arrived -> start -> complete against the driver service.
func main() {
	pin := flag.String("pin", "", "driver PIN code")
	token := flag.String("token", "", "driver bearer token (from /auth/driver/login)")
	flag.Parse()

	if *pin == "" || *token == "" {
		log.Fatal("PIN and token are required")
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mylog, err := mylogger.New("helper", cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	sim := newDriverSim(cfg, mylog, *pin, *token)
	if err := sim.Run(); err != nil {
		mylog.Error("simulation failed", err)
	}
}
