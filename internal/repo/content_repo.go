// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the public
// content collections: sermons, events, praise songs, and notifications.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Every list query orders by created_at descending: newest-first is the only
// valid ordering for the site, and callers rely on it.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSermon inserts a new sermon row referencing the stored video object
// at videoPath. The ID is a randomly generated UUID and CreatedAt is set to
// UTC. On success, it returns the persisted Sermon.
func CreateSermon(ctx context.Context, db *gorm.DB, title, videoPath string) (*domain.Sermon, error) {
	s := &domain.Sermon{
		ID:        uuid.NewString(),
		Title:     title,
		VideoURL:  videoPath,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// CreateEvent inserts a new event row referencing the stored image object.
func CreateEvent(ctx context.Context, db *gorm.DB, title, imagePath string) (*domain.Event, error) {
	e := &domain.Event{
		ID:        uuid.NewString(),
		Title:     title,
		ImageURL:  imagePath,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// CreatePraiseSong inserts a new praise-song row referencing the stored
// audio object.
func CreatePraiseSong(ctx context.Context, db *gorm.DB, title, filePath string) (*domain.PraiseSong, error) {
	p := &domain.PraiseSong{
		ID:        uuid.NewString(),
		Title:     title,
		FilePath:  filePath,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// CreateNotification inserts a new notification row. Title may be empty;
// message must be validated by the caller.
func CreateNotification(ctx context.Context, db *gorm.DB, title, message string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// ListSermons returns all sermons ordered by creation time descending
// (most recent first). It returns an empty slice when there are none.
func ListSermons(ctx context.Context, db *gorm.DB) ([]domain.Sermon, error) {
	var out []domain.Sermon
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListEvents returns all events, newest first.
func ListEvents(ctx context.Context, db *gorm.DB) ([]domain.Event, error) {
	var out []domain.Event
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListPraiseSongs returns all praise songs, newest first.
func ListPraiseSongs(ctx context.Context, db *gorm.DB) ([]domain.PraiseSong, error) {
	var out []domain.PraiseSong
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListNotifications returns all notifications, newest first.
func ListNotifications(ctx context.Context, db *gorm.DB) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetSermon fetches a single sermon by ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetSermon(ctx context.Context, db *gorm.DB, id string) (*domain.Sermon, error) {
	var s domain.Sermon
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEvent fetches a single event by ID.
func GetEvent(ctx context.Context, db *gorm.DB, id string) (*domain.Event, error) {
	var e domain.Event
	if err := db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// GetPraiseSong fetches a single praise song by ID.
func GetPraiseSong(ctx context.Context, db *gorm.DB, id string) (*domain.PraiseSong, error) {
	var p domain.PraiseSong
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetNotification fetches a single notification by ID.
func GetNotification(ctx context.Context, db *gorm.DB, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateSermonLikes sets the stored like counter of a sermon to an absolute
// value. The caller is responsible for computing (and clamping) the value;
// the column check constraint rejects negatives as a backstop. If no rows
// are affected the sermon is missing and ErrNotFound is returned.
func UpdateSermonLikes(ctx context.Context, db *gorm.DB, id string, likes int) error {
	res := db.WithContext(ctx).
		Model(&domain.Sermon{}).
		Where("id = ?", id).
		Update("likes", likes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
