package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/campusadmit/admissions-api/config"
	"github.com/campusadmit/admissions-api/model"
	_ "github.com/lib/pq"
)

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// GORM DB access
	GetDB() interface{} // Returns *gorm.DB for GORMStore, *sql.DB for PostgreSQLStore

	// Legacy read endpoints served through the store interface
	ListUsers() ([]model.User, error)
	ListCatalog() ([]model.CatalogEntry, error)
}

type PostgreSQLStore struct {
	db *sql.DB
}

// Start opens a raw database/sql connection over lib/pq. The raw store is
// used by the seeder and works as a drop-in Storage for the legacy read
// endpoints; the API server itself runs on the GORM store.
func Start() (*PostgreSQLStore, error) {
	getEnv, err := config.Get()

	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST, getEnv.DB_PORT, getEnv.DB_USER_NAME, getEnv.DB_PASSWORD, getEnv.DB_NAME, getEnv.DB_SSL_MODE)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		fmt.Println("Unable to Start PostgresSQL Databse.")
		return nil, err
	}

	log.Println("Successfully connected to PostgresSQL Database.")
	return &PostgreSQLStore{
		db: db,
	}, nil
}

func (s *PostgreSQLStore) Init() error {
	log.Println("Initializing PostgresSQL Database.")
	err := s.Initialize()
	return err
}

func (s *PostgreSQLStore) Close() error {
	log.Println("Closing PostgresSQL Database.")
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *PostgreSQLStore) HealthCheck() error {
	return s.db.Ping()
}

// GetDB returns the raw *sql.DB instance
func (s *PostgreSQLStore) GetDB() interface{} {
	return s.db
}
