package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/salesloop/salesloop-api/config"
	"github.com/salesloop/salesloop-api/pkg/helpers"
)

// Seeds a demo user and the default pipeline stages.

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@salesloop.dev"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	stages := []struct {
		Name  string
		Color string
		Order int
	}{
		{"New", "blue", 1},
		{"Qualified", "yellow", 2},
		{"Proposal", "purple", 3},
		{"Negotiation", "orange", 4},
		{"Won", "green", 5},
		{"Lost", "red", 6},
	}
	for _, s := range stages {
		if _, err := db.Exec(`
			INSERT INTO pipeline_stages (name, color, sort_order)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET color=EXCLUDED.color, sort_order=EXCLUDED.sort_order
		`, s.Name, s.Color, s.Order); err != nil {
			log.Fatalf("failed to seed stage %s: %v", s.Name, err)
		}
	}
	fmt.Printf("seeded %d pipeline stages\n", len(stages))
}
