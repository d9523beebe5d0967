package services

import (
	"testing"

	"github.com/utility-oms/backoffice-api/v1/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupSQLiteTestDB creates an in-memory SQLite database for testing
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}

	// Auto-migrate all models
	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Connection{},
		&models.Fault{},
		&models.FaultUpdate{},
		&models.MaintenanceSchedule{},
		&models.MaintenanceLog{},
		&models.ServiceRequest{},
		&models.Notification{},
		&models.CustomerMessage{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Clean up test data before each test
	CleanupTestData(t, db)

	return db
}

// CleanupTestData removes all test data from the database
// Exported for use in handler tests
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in reverse order of dependencies
	tables := []string{
		"fault_updates",
		"maintenance_logs",
		"notifications",
		"customer_messages",
		"service_requests",
		"faults",
		"maintenance_schedules",
		"connections",
		"customers",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("Warning: failed to cleanup %s: %v", table, err)
		}
	}
}

// RequireTestDB is a helper function that sets up a test database and fails the test
// if the database cannot be established.
func RequireTestDB(t *testing.T) *gorm.DB {
	db := SetupSQLiteTestDB(t)
	if db == nil {
		t.Fatal("Test database setup failed - cannot proceed with test")
	}
	return db
}
