package Models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	Migrate(db)
	DB = db
}

func mustCreateDoctor(t *testing.T, username, name string) *Doctor {
	t.Helper()
	doctor, err := CreateDoctor(username, "password", username+"@clinic.test", name, "General", "Medicine")
	if err != nil {
		t.Fatalf("CreateDoctor failed: %v", err)
	}
	return doctor
}

func mustCreatePatient(t *testing.T, username, name string) *Patient {
	t.Helper()
	patient, err := CreatePatient(username, "password", username+"@mail.test", name, "1990-01-01", "555-0100")
	if err != nil {
		t.Fatalf("CreatePatient failed: %v", err)
	}
	return patient
}
