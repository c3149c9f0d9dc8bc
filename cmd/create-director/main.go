package main

import (
	"errors"
	"flag"
	"log"

	"motri-backend/shared/config"
	"motri-backend/shared/database"
)

// Creates the director account out of band. Directors are never created
// through the API.
func main() {
	username := flag.String("username", "", "director username (falls back to DIRECTOR_USERNAME)")
	email := flag.String("email", "", "director email (falls back to DIRECTOR_EMAIL)")
	password := flag.String("password", "", "director password (falls back to DIRECTOR_PASSWORD)")
	flag.Parse()

	config.LoadConfig()
	cfg := config.GetConfig()

	if *username == "" {
		*username = cfg.DirectorUsername
	}
	if *email == "" {
		*email = cfg.DirectorEmail
	}
	if *password == "" {
		*password = cfg.DirectorPassword
	}

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("username, email and password are required (flags or DIRECTOR_* environment variables)")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close(db)

	if err := database.CreateDirector(db, *username, *email, *password); err != nil {
		if errors.Is(err, database.ErrDirectorExists) {
			log.Println("Director already exists")
			return
		}
		log.Fatalf("Failed to create director: %v", err)
	}

	log.Println("Director created successfully!")
}
