package database

import (
	"log"
	"strings"
)

func (s *PostgreSQLStore) Initialize() error {
	// Init all enums
	log.Println("Initializing PostgresSQL Database.", "Initializing Enums")
	if err := s.InitEnums(); err != nil {
		return err
	}
	// Init all tables
	log.Println("Initializing PostgresSQL Database.", "Initializing Tables")
	if err := s.InitTables(); err != nil {
		return err
	}
	return nil
}

func (s *PostgreSQLStore) InitEnums() error {
	// Init all the enums
	query := `
		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_roles') THEN
				CREATE TYPE user_roles AS ENUM ('admin', 'institution', 'student');
           	END IF;
		END $$;

		DO $$
		BEGIN
           	IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'application_status') THEN
				CREATE TYPE application_status AS ENUM ('pending', 'admitted', 'rejected');
           	END IF;
		END $$;
	`
	_, err := s.db.Exec(query)

	return err
}

func (s *PostgreSQLStore) InitTables() error {
	//
	// Init all the tables
	//

	// users table
	users_table := `
	CREATE TABLE IF NOT EXISTS users (
        id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
        name VARCHAR(512) NOT NULL,
        email VARCHAR(512) UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        role user_roles DEFAULT 'student',
        profile_picture VARCHAR(512),
        token_version INT DEFAULT 0,
        created_at TIMESTAMPTZ,
        updated_at TIMESTAMPTZ,
        deleted_at TIMESTAMPTZ
	);
	`

	// institutions table
	institutions_table := `
	CREATE TABLE IF NOT EXISTS institutions (
        id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
        name VARCHAR(512) NOT NULL,
        number_of_students INT DEFAULT 0,
        number_of_departments INT DEFAULT 0,
        number_of_courses INT DEFAULT 0,
        logo VARCHAR(512) NOT NULL,
        created_at TIMESTAMPTZ,
        updated_at TIMESTAMPTZ,
        deleted_at TIMESTAMPTZ
	);
	`

	// faculties table
	faculties_table := `
	CREATE TABLE IF NOT EXISTS faculties (
        id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
        name VARCHAR(512) NOT NULL,
        institution_id BIGINT REFERENCES institutions(id) ON DELETE CASCADE,
        created_at TIMESTAMPTZ,
        updated_at TIMESTAMPTZ,
        deleted_at TIMESTAMPTZ
	);
	`

	// courses table
	courses_table := `
	CREATE TABLE IF NOT EXISTS courses (
        id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
        name VARCHAR(512) NOT NULL,
        faculty_id BIGINT REFERENCES faculties(id) ON DELETE CASCADE,
        institution_id BIGINT REFERENCES institutions(id) ON DELETE CASCADE,
        created_at TIMESTAMPTZ,
        updated_at TIMESTAMPTZ,
        deleted_at TIMESTAMPTZ
	);
	`

	// applications table. Target references are deliberately not foreign
	// keys: submissions are accepted at face value.
	applications_table := `
	CREATE TABLE IF NOT EXISTS applications (
        id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
        applicant_user_id BIGINT,
        student_name VARCHAR(512) NOT NULL,
        phone_number VARCHAR(32),
        student_number VARCHAR(64),
        university_id BIGINT,
        course_id BIGINT,
        faculty_id BIGINT,
        major_subject VARCHAR(255),
        applied_at TIMESTAMPTZ,
        status application_status DEFAULT 'pending',
        created_at TIMESTAMPTZ,
        updated_at TIMESTAMPTZ,
        deleted_at TIMESTAMPTZ
	);
	`

	// application_grades table
	application_grades_table := `
	CREATE TABLE IF NOT EXISTS application_grades (
        id BIGINT PRIMARY KEY GENERATED ALWAYS AS IDENTITY,
        application_id BIGINT REFERENCES applications(id) ON DELETE CASCADE,
        position INT NOT NULL,
        subject VARCHAR(255),
        grade VARCHAR(16)
	);
	`

	all_tables := strings.Join([]string{users_table, institutions_table, faculties_table, courses_table, applications_table, application_grades_table}, "")

	_, err := s.db.Exec(all_tables)
	return err
}
