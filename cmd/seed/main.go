// Seed CLI: loads demo data described by a JSON config file into the
// database.
//
// Usage:
//
//	seed [flags]              seed all tables
//	seed [flags] list         list seedable tables
//	seed [flags] table <t>    seed a single table
//	seed [flags] clean        delete all seeded data
//	seed [flags] reset        clean, then seed
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"mathlearn_backend/internal/config"
	"mathlearn_backend/internal/seeder"
	"mathlearn_backend/pkg/database"
	"mathlearn_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	seedFile := flag.String("data", "seed/seed.json", "path to the seed data file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	args := flag.Args()

	// list needs neither the database nor the data file contents validated
	// against it, but the config file is still parsed so mistakes surface early.
	if len(args) > 0 && args[0] == "list" {
		for _, t := range seeder.Tables() {
			fmt.Println(t)
		}
		return
	}

	seedCfg, err := seeder.Load(*seedFile)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seeder.New(db, seedCfg)

	switch {
	case len(args) == 0:
		report(s.SeedAll())
	case args[0] == "table":
		if len(args) < 2 {
			log.Fatal("usage: seed table <name>")
		}
		result, err := s.SeedTable(args[1])
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		fmt.Println(result)
	case args[0] == "clean":
		if err := s.Clean(); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
		fmt.Println("all seeded data removed")
	case args[0] == "reset":
		report(s.Reset())
	default:
		log.Printf("unknown command: %s", args[0])
		os.Exit(2)
	}
}

func report(results []seeder.Result, err error) {
	for _, r := range results {
		fmt.Println(r)
	}
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
