package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/victorypower/church-backend/internal/repo"
)

// newTestDB opens a fresh in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svcdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// ----- Fake object store -----

type storeCall struct {
	bucket      string
	name        string
	contentType string
	body        string
}

type fakeStore struct {
	uploads []storeCall
	deletes []string

	uploadErr error
	deleteErr error
}

func (f *fakeStore) Upload(_ context.Context, bucket, name string, body io.Reader, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	var b strings.Builder
	if body != nil {
		_, _ = io.Copy(&b, body)
	}
	f.uploads = append(f.uploads, storeCall{bucket: bucket, name: name, contentType: contentType, body: b.String()})
	return name, nil
}

func (f *fakeStore) Delete(_ context.Context, bucket, path string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, bucket+"/"+path)
	return nil
}

func (f *fakeStore) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}
