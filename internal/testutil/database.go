// Package testutil provides test fixtures shared by the repository, command
// and handler tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/paibudget/budget-service/internal/models"
	"github.com/paibudget/budget-service/internal/repository"
)

// SetupTestDB opens an in-memory SQLite database with the schema in place.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	db, err := repository.OpenDB(ctx, repository.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repository.EnsureSchema(ctx, db, repository.DriverSQLite); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

// Coffee returns the canonical expense fixture.
func Coffee() *models.Transaction {
	return &models.Transaction{
		Title:    "Coffee",
		Amount:   4.5,
		Category: "Food",
		Type:     models.TypeExpense,
		Date:     time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC),
	}
}

// Salary returns the canonical income fixture.
func Salary() *models.Transaction {
	return &models.Transaction{
		Title:    "Salary",
		Amount:   3200,
		Category: "Work",
		Type:     models.TypeIncome,
		Date:     time.Date(2023, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}
