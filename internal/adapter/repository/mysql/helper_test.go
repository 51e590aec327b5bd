package mysql

import (
	"testing"

	infradb "loan-settlement/internal/infrastructure/db"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns a migrated in-memory sqlite db pinned to one connection,
// so every repo and transaction sees the same database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(infradb.SQLite(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
