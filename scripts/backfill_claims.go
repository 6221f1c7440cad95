package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Recomputes promotions.current_claims from the claims table. Useful after
// restoring from a backup or if a deploy ran before the transactional
// counter update shipped.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to database successfully")

	res, err := db.Exec(`
		UPDATE promotions p
		SET current_claims = sub.n
		FROM (
			SELECT promotion_id, COUNT(*) AS n
			FROM claims
			GROUP BY promotion_id
		) sub
		WHERE sub.promotion_id = p.id
		  AND p.current_claims <> sub.n`)
	if err != nil {
		log.Fatalf("Failed to backfill counters: %v", err)
	}

	rows, _ := res.RowsAffected()
	log.Printf("Backfill complete, %d promotion(s) corrected", rows)
}
