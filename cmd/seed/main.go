// cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

func main() {
	destroy := flag.Bool("d", false, "delete the seeded products and their reviews instead of importing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.NewMigration(db.GetDB()).RunAutoMigrations(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	seeder := postgres.NewSeeder(db.GetDB(), auth.NewPasswordManager(cfg), rand.NewSource(time.Now().UnixNano()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *destroy {
		removed, err := seeder.Destroy(ctx)
		if err != nil {
			log.Fatalf("Data destroy failed: %v", err)
		}
		log.Printf("🗑️  Removed %d seeded products", removed)
		return
	}

	if err := seeder.Import(ctx); err != nil {
		log.Fatalf("Data import failed: %v", err)
	}
	log.Printf("🌱 Imported %d products", postgres.SeedProductCount)
}
