// Command main runs the database seeder for VibeHunt.
package main

import (
	"flag"
	"log"

	"vibehunt/internal/config"
	"vibehunt/internal/database"
	"vibehunt/internal/seed"
)

func main() {
	extraPosts := flag.Int("posts", 0, "Number of extra random posts to create")
	fixture := flag.String("fixture", "", "YAML fixture file to seed from instead of the built-in samples")
	clean := flag.Bool("clean", false, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		ExtraPosts:  *extraPosts,
		FixturePath: *fixture,
		Clean:       *clean,
	}
	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
