package main

import (
	"flag"
	"log"

	"github.com/campusadmit/admissions-api/config"
	"github.com/campusadmit/admissions-api/database"
	"github.com/campusadmit/admissions-api/model"
	"github.com/campusadmit/admissions-api/utils/auth"
)

// Seeds a fresh database with an admin account and a small demo directory.
// Runs against the raw SQL store so it works without the API server.
func main() {
	adminEmail := flag.String("admin-email", "admin@example.com", "email for the seeded admin account")
	adminPassword := flag.String("admin-password", "changeme123", "password for the seeded admin account")
	skipDemo := flag.Bool("skip-demo", false, "seed only the admin account")
	flag.Parse()

	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	store, err := database.Start()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to initialize schema: ", err)
	}

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatal("Failed to hash admin password: ", err)
	}

	if err := store.InsertUser("Administrator", *adminEmail, hash, model.RoleAdmin); err != nil {
		log.Fatal("Failed to seed admin user: ", err)
	}
	log.Printf("Seeded admin account %s", *adminEmail)

	if *skipDemo {
		return
	}

	institutionID, err := store.InsertInstitution("Woods University", 12000, 6, 48, "uploads/demo_logo.png")
	if err != nil {
		log.Fatal("Failed to seed demo institution: ", err)
	}

	facultyID, err := store.InsertFaculty("Faculty of Science", institutionID)
	if err != nil {
		log.Fatal("Failed to seed demo faculty: ", err)
	}

	if _, err := store.InsertCourse("Computer Science", facultyID, institutionID); err != nil {
		log.Fatal("Failed to seed demo course: ", err)
	}

	log.Println("Seeded demo directory: 1 institution, 1 faculty, 1 course")
}
