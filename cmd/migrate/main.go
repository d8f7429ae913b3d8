package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/migrate"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("load .env: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch direction {
	case "up":
		applied, err := migrate.Up(ctx, db)
		if err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		if len(applied) == 0 {
			fmt.Println("Schema is up to date.")
			return
		}
		for _, name := range applied {
			fmt.Printf("Applied %s\n", name)
		}
	case "down":
		name, err := migrate.Down(ctx, db)
		if err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		fmt.Printf("Reverted %s\n", name)
	default:
		log.Fatalf("unknown direction %q, want up or down", direction)
	}
}
