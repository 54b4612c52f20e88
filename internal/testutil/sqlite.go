// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/elearning-api/internal/db"
)

// SQLiteDSN returns a DSN for a private shared-cache in-memory database.
func SQLiteDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

// NewSQLite opens a fresh in-memory database, runs migrate on it and closes
// it when the test ends.
func NewSQLite(t *testing.T, migrate ...func(*gorm.DB) error) *gorm.DB {
	t.Helper()
	d, err := db.Connect("sqlite", SQLiteDSN())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(d) })
	for _, m := range migrate {
		if err := m(d); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return d
}
