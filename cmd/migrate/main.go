package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/pkg/config"
	pkgdb "github.com/Skotchmaster/electronics_store/pkg/db"
	"github.com/Skotchmaster/electronics_store/pkg/hash"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

// migrate creates the schema, seeds the roles and, when ADMIN_EMAIL and
// ADMIN_PASSWORD are set, the first administrator account.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout).With("service", cfg.ServiceName, "cmd", "migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer pkgdb.Close(db)

	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	r := &repo.GormRepo{DB: db}
	if err := r.SeedRoles(ctx); err != nil {
		log.Fatalf("seed roles: %v", err)
	}
	logger.Info("schema migrated")

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	hashed, err := hash.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	created, err := r.SeedAdmin(ctx, "Administrator", email, hashed)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	logger.Info("admin account checked", "email", email, "created", created)
}
