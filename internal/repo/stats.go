// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) on the public
// list endpoints. Each function is context-aware and safe to call from
// services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
)

// ContentStats returns aggregate metadata for a content collection: the total
// number of rows and the maximum UpdatedAt timestamp among those rows. The
// pair is cheap to compute and changes whenever the collection changes, which
// makes it a usable weak-ETag input for the list endpoints.
//
// When the collection is empty, the returned count is 0 and maxUpdatedAt is
// nil.
func ContentStats(ctx context.Context, db *gorm.DB, kind domain.ContentKind) (count int64, maxUpdatedAt *time.Time, err error) {
	var model any
	switch kind {
	case domain.KindSermons:
		model = &domain.Sermon{}
	case domain.KindEvents:
		model = &domain.Event{}
	case domain.KindPraiseSongs:
		model = &domain.PraiseSong{}
	case domain.KindNotifications:
		model = &domain.Notification{}
	default:
		return 0, nil, gorm.ErrInvalidData
	}

	q := db.WithContext(ctx).Model(model)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
