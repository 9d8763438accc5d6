package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/recipes-auth/config"
	pginfra "github.com/oksasatya/recipes-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/recipes-auth/pkg/helpers"
)

// seed upserts a demo user so the fake login and the magic link login have someone
// to sign in as.
func main() {
	email := flag.String("email", "demo@recipes.test", "demo user email")
	first := flag.String("first", "Demo", "first name")
	last := flag.String("last", "Cook", "last name")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	var id string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id
	`, *email, *first, *last).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	logger.WithField("id", id).WithField("email", *email).Info("seeded user")
}
