package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/repository"
	serviceBinder "inkwell/internal/service/binder"
	"inkwell/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	reset := flag.Bool("reset", false, "Delete existing demo projects before seeding")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *reset {
		log.Fatalf("BLOCKED: cannot run --reset in production environment")
	}
	if cfg.StoreBackend == "memory" {
		log.Fatalf("seeding the memory backend has no effect; set STORE_BACKEND")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	backend, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer backend.Close()

	services := serviceBinder.SetupServices(backend.KV, backend.Tx, cfg.SaveDebounce, serviceBinder.AssistConfig{}, logger)
	defer services.Shutdown(ctx)

	seeder := seed.NewSeeder(services.Projects, logger)
	if *reset {
		n, err := seeder.Reset(ctx)
		if err != nil {
			log.Fatalf("Failed to reset demo projects: %v", err)
		}
		log.Printf("Removed %d demo project(s)", n)
	}

	project, err := seeder.Seed(ctx)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}
	log.Printf("Seeded %q (ID: %s)", project.Title, project.ID)
}
