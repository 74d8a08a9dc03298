// seed inserts development users for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"ticketvault/backend/internal/config"
	"ticketvault/backend/internal/db"
	"ticketvault/backend/internal/security"
	userdomain "ticketvault/backend/internal/user/domain"
	userrepo "ticketvault/backend/internal/user/repository"
)

const (
	devAdminEmail  = "dev@example.com"
	devMemberEmail = "member@example.com"
	devPassword    = "P@ssw0rd1"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := users.GetByEmail(ctx, devAdminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	seedUsers := []*userdomain.User{
		{
			ID:           uuid.New().String(),
			Name:         "Dev Admin",
			Email:        devAdminEmail,
			PasswordHash: passwordHash,
			Role:         userdomain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           uuid.New().String(),
			Name:         "Dev Member",
			Email:        devMemberEmail,
			PasswordHash: passwordHash,
			Role:         userdomain.RoleUser,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	for _, u := range seedUsers {
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", u.Email, err)
		}
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Admin login: %s / %s\n", devAdminEmail, devPassword)
	fmt.Printf("Member login: %s / %s\n", devMemberEmail, devPassword)
}
