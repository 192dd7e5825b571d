// Package services – NotificationService
//
// Publishing a notification is a single-step remote write with no multi-step
// sequencing: validate, insert, refresh the visible list. It shares the
// upload pipeline's failure posture (abort at the point of failure, surface
// the error, no retry).
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/repo"
)

// NotificationService publishes admin announcements.
type NotificationService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Cache, when set, is refreshed after a successful publish.
	Cache *ContentService
}

// Publish validates and inserts a notification. Title is optional; a blank
// message is rejected with ErrEmptyMessage before any DB call.
func (s *NotificationService) Publish(ctx context.Context, title, message string) (*domain.Notification, error) {
	title = normalizeTitle(title)
	message = normalizeTitle(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	n, err := repo.CreateNotification(ctx, s.DB, title, message)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Load(ctx, domain.KindNotifications); err != nil {
			log.Warn().Err(err).Msg("cache refresh after notification failed")
		}
	}
	return n, nil
}
