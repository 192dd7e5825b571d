package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/victorypower/church-backend/internal/config"
	"github.com/victorypower/church-backend/internal/repo"
	"github.com/victorypower/church-backend/internal/services"
)

// newTestDB opens a fresh in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:hdlrdb_%s?mode=memory&cache=shared", uuid.NewString())
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

type fakeStore struct {
	uploads []string // "bucket/name"
	deletes []string
}

func (f *fakeStore) Upload(_ context.Context, bucket, name string, body io.Reader, _ string) (string, error) {
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	f.uploads = append(f.uploads, bucket+"/"+name)
	return name, nil
}

func (f *fakeStore) Delete(_ context.Context, bucket, path string) error {
	f.deletes = append(f.deletes, bucket+"/"+path)
	return nil
}

func (f *fakeStore) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

// testEnv bundles the wired handlers with their backing pieces.
type testEnv struct {
	db    *gorm.DB
	store *fakeStore
	cache *services.ContentService
	auth  *services.AuthService
	h     *Handlers
	r     *gin.Engine
}

// newTestEnv wires real services over an in-memory database and mounts the
// API routes without the transport middleware stack. Admin routes are
// mounted ungated; gating is covered by the middleware and router tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	store := &fakeStore{}
	cache := services.NewContentService(db, store)
	authSvc := services.NewAuthService(db, config.AuthConfig{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		AdminEmail: "admin@example.org",
	})
	h := New(
		cache,
		&services.LikeService{DB: db, Cache: cache},
		&services.GiveService{DB: db},
		services.NewUploadService(db, store, cache),
		&services.NotificationService{DB: db, Cache: cache},
		authSvc,
	)

	r := gin.New()
	r.GET("/sermons", h.ListSermons)
	r.GET("/events", h.ListEvents)
	r.GET("/praise-songs", h.ListPraiseSongs)
	r.GET("/notifications", h.ListNotifications)
	r.GET("/give-details", h.GetGiveDetails)
	r.POST("/sermons/:id/like", h.ToggleSermonLike)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/me", func(c *gin.Context) {
		c.Set("userID", "u-admin")
		c.Set("email", "admin@example.org")
		h.Me(c)
	})
	r.POST("/admin/sermons", h.UploadSermon)
	r.POST("/admin/events", h.UploadEvent)
	r.POST("/admin/praise-songs", h.UploadPraiseSong)
	r.POST("/admin/notifications", h.PublishNotification)
	r.PUT("/admin/give-details", h.UpdateGiveDetails)

	return &testEnv{db: db, store: store, cache: cache, auth: authSvc, h: h, r: r}
}

// fixedUploadTime pins the object-name timestamp in upload tests.
var fixedUploadTime = time.UnixMilli(1722470400000).UTC()

func (e *testEnv) pinUploadClock() {
	if svc, ok := e.h.uploadSvc.(*services.UploadService); ok {
		svc.Now = func() time.Time { return fixedUploadTime }
	}
}

func seedSermon(t *testing.T, db *gorm.DB, title string) string {
	t.Helper()
	s, err := repo.CreateSermon(context.Background(), db, title, strings.ReplaceAll(title, " ", "_")+".mp4")
	if err != nil {
		t.Fatalf("seed sermon: %v", err)
	}
	return s.ID
}
