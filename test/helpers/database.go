package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crow-router/crow/internal/adapters/persistence"
	"github.com/crow-router/crow/internal/infrastructure/database"
)

// NewTestDB opens an in-memory SQLite cache database with the coordinate,
// neighbor and route history tables migrated. It is closed when t finishes.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	require.NoError(t, err, "failed to create test database")
	for _, model := range []interface{}{
		&persistence.SystemCoordinateModel{},
		&persistence.SystemNeighborsModel{},
		&persistence.RouteRecordModel{},
	} {
		require.True(t, db.Migrator().HasTable(model), "table for %T not migrated", model)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
