package main

import (
	"context"
	"log"
	"os"
	"time"

	"techconnect/internal/database"
	"techconnect/internal/domain/registration"
)

// session_cleanup removes expired registration drafts from the SQL store.
// The API sweeps its own sessions too; this is for deployments that run the
// API with several replicas against one database.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL, nil)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	store := registration.NewSQLStore(db, registration.NewCodec(nil))
	if err := store.Migrate(); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := store.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("cleanup registration_drafts failed: %v", err)
	}

	log.Printf("session cleanup completed: registration_drafts=%d", n)
}
