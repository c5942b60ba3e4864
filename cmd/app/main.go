package main

import (
	"context"
	"fmt"
	"log"
	"os"

	adminservice "safri360/internal/admin-service"
	authservice "safri360/internal/auth-service"
	"safri360/internal/config"
	dispatchservice "safri360/internal/dispatch-service"
	driverservice "safri360/internal/driver-service"
	"safri360/internal/mylogger"
)

const usage = "usage: app (auth-service|dispatch-service|driver-service|admin-service)"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
	service := os.Args[1]

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mylog, err := mylogger.New(service, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := context.Background()

	switch service {
	case "auth-service":
		err = authservice.Execute(ctx, mylog, cfg)
	case "dispatch-service":
		err = dispatchservice.Execute(ctx, mylog, cfg)
	case "driver-service":
		err = driverservice.Execute(ctx, mylog, cfg)
	case "admin-service":
		err = adminservice.Execute(ctx, mylog, cfg)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		mylog.Error("service exited with error", err)
		os.Exit(1)
	}
}
