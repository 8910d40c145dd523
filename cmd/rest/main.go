package main

import (
	"context"
	"log"

	"finverse-be/internal/bootstrap"
	"finverse-be/internal/config"
	"finverse-be/internal/server"
	"finverse-be/internal/tracer"
)

func main() {
	// 1. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Bus.Close()

	// 4. Start Background Services
	if err := container.NotificationService.Start(context.Background()); err != nil {
		log.Panicf("Unable to start notification service: %v", err)
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
