// Package services – ContentService
//
// This file implements the ContentService, which owns the in-memory list
// cache for each content kind. A load queries the repository for all records
// of a kind ordered newest-first and replaces the cached sequence wholesale;
// partial merges never happen. When a refresh fails, the previously cached
// sequence keeps being served (stale-on-error) so a flaky database does not
// blank the site; the first load has nothing to fall back on and surfaces
// the error.
//
// Public URLs for media-backed records are resolved from the stored object
// path at load time and live only in the cache, never in the database.
package services

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/repo"
	"github.com/victorypower/church-backend/internal/storage"
)

// ContentService caches the public content collections and serves them
// newest-first. Safe for concurrent use.
type ContentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Store resolves public URLs for stored object paths.
	Store storage.ObjectStore

	mu      sync.RWMutex
	sermons []domain.Sermon
	events  []domain.Event
	songs   []domain.PraiseSong
	notes   []domain.Notification
	loaded  map[domain.ContentKind]bool
}

// NewContentService constructs a ContentService over db and store.
func NewContentService(db *gorm.DB, store storage.ObjectStore) *ContentService {
	return &ContentService{
		DB:     db,
		Store:  store,
		loaded: make(map[domain.ContentKind]bool, 4),
	}
}

// Load refreshes the cache for kind: it queries all records newest-first and
// replaces the cached sequence wholesale. On error the previous cache is
// left untouched and the error is returned.
func (s *ContentService) Load(ctx context.Context, kind domain.ContentKind) error {
	tr := otel.Tracer("services/ContentService")
	ctx, span := tr.Start(ctx, "Load",
		trace.WithAttributes(attribute.String("content.kind", string(kind))),
	)
	defer span.End()

	switch kind {
	case domain.KindSermons:
		items, err := repo.ListSermons(ctx, s.DB)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].PublicURL = s.Store.PublicURL(string(domain.KindSermons), items[i].VideoURL)
		}
		s.mu.Lock()
		s.sermons = items
		s.loaded[kind] = true
		s.mu.Unlock()
	case domain.KindEvents:
		items, err := repo.ListEvents(ctx, s.DB)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].PublicURL = s.Store.PublicURL(string(domain.KindEvents), items[i].ImageURL)
		}
		s.mu.Lock()
		s.events = items
		s.loaded[kind] = true
		s.mu.Unlock()
	case domain.KindPraiseSongs:
		items, err := repo.ListPraiseSongs(ctx, s.DB)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].PublicURL = s.Store.PublicURL(string(domain.KindPraiseSongs), items[i].FilePath)
		}
		s.mu.Lock()
		s.songs = items
		s.loaded[kind] = true
		s.mu.Unlock()
	case domain.KindNotifications:
		items, err := repo.ListNotifications(ctx, s.DB)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.notes = items
		s.loaded[kind] = true
		s.mu.Unlock()
	default:
		return ErrUnknownKind
	}
	return nil
}

// Sermons refreshes and returns the sermon list. When the refresh fails but
// a previous load succeeded, the stale list is returned with a nil error;
// the very first load propagates the failure.
func (s *ContentService) Sermons(ctx context.Context) ([]domain.Sermon, error) {
	err := s.Load(ctx, domain.KindSermons)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err != nil {
		if !s.loaded[domain.KindSermons] {
			return nil, err
		}
		// Stale-on-error: keep showing the last good list.
	}
	out := make([]domain.Sermon, len(s.sermons))
	copy(out, s.sermons)
	return out, nil
}

// Events refreshes and returns the event list (stale-on-error, as Sermons).
func (s *ContentService) Events(ctx context.Context) ([]domain.Event, error) {
	err := s.Load(ctx, domain.KindEvents)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err != nil && !s.loaded[domain.KindEvents] {
		return nil, err
	}
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

// PraiseSongs refreshes and returns the praise-song list (stale-on-error).
func (s *ContentService) PraiseSongs(ctx context.Context) ([]domain.PraiseSong, error) {
	err := s.Load(ctx, domain.KindPraiseSongs)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err != nil && !s.loaded[domain.KindPraiseSongs] {
		return nil, err
	}
	out := make([]domain.PraiseSong, len(s.songs))
	copy(out, s.songs)
	return out, nil
}

// Notifications refreshes and returns the notification list (stale-on-error).
func (s *ContentService) Notifications(ctx context.Context) ([]domain.Notification, error) {
	err := s.Load(ctx, domain.KindNotifications)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err != nil && !s.loaded[domain.KindNotifications] {
		return nil, err
	}
	out := make([]domain.Notification, len(s.notes))
	copy(out, s.notes)
	return out, nil
}

// ApplySermonLikes updates the cached counter for a single sermon in place
// after a committed like toggle, so readers see the new value without a full
// reload. A miss is harmless; the next Load picks the value up anyway.
func (s *ContentService) ApplySermonLikes(sermonID string, likes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sermons {
		if s.sermons[i].ID == sermonID {
			s.sermons[i].Likes = likes
			return
		}
	}
}
