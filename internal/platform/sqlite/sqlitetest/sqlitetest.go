// Package sqlitetest provides migrated in-memory databases for tests.
package sqlitetest

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/Apurer/it-literature-shop/internal/platform/migrations"
	"github.com/Apurer/it-literature-shop/internal/platform/sqlite"
)

// Open returns a fresh, fully migrated in-memory database closed at test cleanup.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
