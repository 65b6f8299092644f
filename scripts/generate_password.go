package main

import (
	"fmt"
	"log"
	"os"

	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	passwords := auth.NewPasswordManager(cfg)
	if err := passwords.ValidatePassword(os.Args[1]); err != nil {
		log.Fatalf("Rejected password: %v", err)
	}

	hash, err := passwords.HashPassword(os.Args[1])
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	fmt.Printf("Cost: %d\n", cfg.Security.BcryptCost)
	fmt.Printf("Hash: %s\n", hash)

	if err := passwords.VerifyPassword(os.Args[1], hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully!")
}
