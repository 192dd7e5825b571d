// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for sermon like
// membership. A like is a (sermon_id, user_id) row with a unique constraint;
// the LikeService flips these rows together with the counter on the sermon
// row inside one transaction.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
)

// ErrDuplicateLike indicates the user has already liked the sermon.
var ErrDuplicateLike = errors.New("like already exists")

// CreateLike inserts a membership row for (sermonID, userID). It returns
// ErrDuplicateLike when the unique constraint trips, so callers can treat a
// double-like as a no-op or conflict.
func CreateLike(ctx context.Context, db *gorm.DB, sermonID, userID string) (*domain.SermonLike, error) {
	l := &domain.SermonLike{
		ID:        uuid.NewString(),
		SermonID:  sermonID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint") ||
			strings.Contains(low, "duplicate key") {
			return nil, ErrDuplicateLike
		}
		return nil, err
	}
	return l, nil
}

// DeleteLike removes the membership row for (sermonID, userID). Deleting a
// non-existent row is not an error; the second return value reports whether
// a row was actually removed.
func DeleteLike(ctx context.Context, db *gorm.DB, sermonID, userID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("sermon_id = ? AND user_id = ?", sermonID, userID).
		Delete(&domain.SermonLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HasLiked reports whether userID has a membership row for sermonID.
func HasLiked(ctx context.Context, db *gorm.DB, sermonID, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.SermonLike{}).
		Where("sermon_id = ? AND user_id = ?", sermonID, userID).
		Count(&n).Error
	return n > 0, err
}

// CountLikes returns the number of membership rows for sermonID. Used to
// reconcile the derived counter on the sermon row.
func CountLikes(ctx context.Context, db *gorm.DB, sermonID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.SermonLike{}).
		Where("sermon_id = ?", sermonID).
		Count(&n).Error
	return n, err
}
