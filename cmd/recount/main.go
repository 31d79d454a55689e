package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sufragio/api/internal/adapters/repository/postgres"
	"github.com/sufragio/api/internal/core/services"
)

// Rebuilds every poll's option/word counters and total from the ballots
// ledger. Meant to run from cron as a consistency repair; the live vote path
// never depends on it.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbHost := os.Getenv("POSTGRES_HOST")
	dbPort := os.Getenv("POSTGRES_PORT")
	dbUser := os.Getenv("POSTGRES_USER")
	dbPass := os.Getenv("POSTGRES_PASSWORD")
	dbName := os.Getenv("POSTGRES_DB")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	pollRepo := postgres.NewPollRepository(db)
	recountRepo := postgres.NewRecountRepository(db)
	recountService := services.NewRecountService(pollRepo, recountRepo)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting poll recount job...")

	if err := recountService.RecountAllPolls(ctx); err != nil {
		log.Fatalf("Error recounting polls: %v", err)
	}

	log.Println("Poll recount completed successfully.")
}
