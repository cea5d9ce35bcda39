// Package testutil opens throwaway databases for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/loja/internal/repo"
)

// NewRepo returns a migrated in-memory sqlite store. The pool is pinned to a
// single connection so every query sees the same database; transactions
// therefore run one at a time.
func NewRepo(t testing.TB) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := repo.New(db)
	if err := r.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return r
}
