package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/victorypower/church-backend/internal/domain"
)

// newTestDB opens a fresh in-memory SQLite database (pure Go driver, no CGO)
// with the full schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repodb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// mustCreateSermon seeds a sermon row and fails the test on error.
func mustCreateSermon(t *testing.T, db *gorm.DB, title string) *domain.Sermon {
	t.Helper()
	s, err := CreateSermon(context.Background(), db, title, "1722470400000_"+title+".mp4")
	if err != nil {
		t.Fatalf("create sermon: %v", err)
	}
	return s
}
