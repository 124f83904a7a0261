package database

import (
	"database/sql"

	"github.com/campusadmit/admissions-api/model"
)

// ListUsers retrieves all registered users via raw SQL
func (s *PostgreSQLStore) ListUsers() ([]model.User, error) {
	query := `
		SELECT id, name, email, role, COALESCE(profile_picture, ''), created_at, updated_at
		FROM users WHERE deleted_at IS NULL ORDER BY id;
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanIntoUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// ListCatalog retrieves the public catalog projection of all institutions
func (s *PostgreSQLStore) ListCatalog() ([]model.CatalogEntry, error) {
	query := `
		SELECT id, name, number_of_students, number_of_departments, number_of_courses, logo
		FROM institutions WHERE deleted_at IS NULL ORDER BY id;
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.CatalogEntry{}
	for rows.Next() {
		entry := model.CatalogEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.Name,
			&entry.NumberOfStudents,
			&entry.NumberOfDepartments,
			&entry.NumberOfCourses,
			&entry.Logo,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// InsertUser inserts a user row directly. Used by the seeder.
func (s *PostgreSQLStore) InsertUser(name, email, passwordHash, role string) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (email) DO NOTHING;
	`
	_, err := s.db.Exec(query, name, email, passwordHash, role)
	return err
}

// InsertInstitution inserts an institution row and returns its id. Used by
// the seeder.
func (s *PostgreSQLStore) InsertInstitution(name string, students, departments, courses int, logo string) (int64, error) {
	query := `
		INSERT INTO institutions (name, number_of_students, number_of_departments, number_of_courses, logo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id;
	`
	var id int64
	err := s.db.QueryRow(query, name, students, departments, courses, logo).Scan(&id)
	return id, err
}

// InsertFaculty inserts a faculty row and returns its id. Used by the seeder.
func (s *PostgreSQLStore) InsertFaculty(name string, institutionID int64) (int64, error) {
	query := `
		INSERT INTO faculties (name, institution_id, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id;
	`
	var id int64
	err := s.db.QueryRow(query, name, institutionID).Scan(&id)
	return id, err
}

// InsertCourse inserts a course row and returns its id. Used by the seeder.
func (s *PostgreSQLStore) InsertCourse(name string, facultyID, institutionID int64) (int64, error) {
	query := `
		INSERT INTO courses (name, faculty_id, institution_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id;
	`
	var id int64
	err := s.db.QueryRow(query, name, facultyID, institutionID).Scan(&id)
	return id, err
}

func scanIntoUser(rows *sql.Rows) (*model.User, error) {
	user := new(model.User)
	err := rows.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.ProfilePicture,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
