// Package services – UploadService
//
// This file implements the UploadService, the admin-side pipeline that turns
// a (title, binary) pair into a stored object plus a referencing metadata
// row. The steps run strictly in order:
//
//  1. Validate title and file; fail fast before any remote call.
//  2. Derive the object name: millisecond timestamp + sanitized base
//     (original filename for sermons/events, the title for praise songs),
//     extension preserved.
//  3. Upload the binary. A failure here aborts cleanly: nothing was written
//     to the database.
//  4. Insert the metadata row. A failure here triggers a compensating
//     object delete so no orphaned binary is left behind; if that delete
//     fails too, the orphan is logged and reported distinctly.
//  5. Refresh the list cache for the kind (best effort).
//
// At most one upload per kind may be in flight; concurrent attempts are
// rejected rather than queued.
package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/repo"
	"github.com/victorypower/church-backend/internal/storage"
	"github.com/victorypower/church-backend/internal/utils"
)

// UploadService sequences binary upload and metadata insert for the
// media-backed content kinds.
type UploadService struct {
	// DB is the GORM handle used for metadata inserts.
	DB *gorm.DB
	// Store receives the binary and handles the compensating delete.
	Store storage.ObjectStore
	// Cache, when set, is refreshed after a successful upload.
	Cache *ContentService

	// Now is a seam for object-name timestamps; defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	inflight map[domain.ContentKind]bool
}

// NewUploadService constructs an UploadService over db and store.
func NewUploadService(db *gorm.DB, store storage.ObjectStore, cache *ContentService) *UploadService {
	return &UploadService{
		DB:       db,
		Store:    store,
		Cache:    cache,
		Now:      time.Now,
		inflight: make(map[domain.ContentKind]bool, 3),
	}
}

// UploadResult describes the stored object and its metadata row.
type UploadResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	PublicURL string    `json:"public_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload runs the pipeline for one file. Validation errors (ErrEmptyTitle,
// ErrMissingFile, ErrUnknownKind) are returned before any storage or DB
// call. ErrUploadInFlight is returned when an upload for the same kind is
// already running. ErrOrphanedObject is returned when the metadata insert
// failed and the compensating delete failed as well.
func (s *UploadService) Upload(ctx context.Context, kind domain.ContentKind, title, filename string, file io.Reader, contentType string) (*UploadResult, error) {
	tr := otel.Tracer("services/UploadService")
	ctx, span := tr.Start(ctx, "Upload",
		trace.WithAttributes(
			attribute.String("content.kind", string(kind)),
			attribute.String("upload.filename", filename),
		),
	)
	defer span.End()

	// 1. Fail fast, no remote calls.
	if !kind.Valid() || !kind.HasMedia() {
		return nil, ErrUnknownKind
	}
	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if filename == "" || file == nil {
		return nil, ErrMissingFile
	}

	if !s.acquire(kind) {
		return nil, ErrUploadInFlight
	}
	defer s.release(kind)

	// 2. Object name: timestamp + sanitized base, extension preserved.
	// Praise songs are named after the title; sermons and events keep the
	// original filename as the base.
	base := filename
	if kind == domain.KindPraiseSongs {
		base = title
	}
	name := utils.ObjectName(s.now(), base, filename)

	// 3. Binary first. Abort cleanly on failure: no row references it yet.
	bucket := string(kind)
	path, err := s.Store.Upload(ctx, bucket, name, file, contentType)
	if err != nil {
		return nil, err
	}

	// 4. Metadata row; compensate on failure so the object is not orphaned.
	res, insertErr := s.insertRecord(ctx, kind, title, path)
	if insertErr != nil {
		if delErr := s.Store.Delete(ctx, bucket, path); delErr != nil {
			log.Error().
				Err(delErr).
				Str("bucket", bucket).
				Str("path", path).
				Msg("compensating delete failed; object orphaned")
			return nil, ErrOrphanedObject
		}
		return nil, insertErr
	}

	// 5. Refresh the visible list; the row is already durable, so a refresh
	// failure only delays visibility until the next load.
	if s.Cache != nil {
		if err := s.Cache.Load(ctx, kind); err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("cache refresh after upload failed")
		}
	}

	res.PublicURL = s.Store.PublicURL(bucket, path)
	return res, nil
}

// insertRecord writes the metadata row for the kind and normalizes the
// result shape.
func (s *UploadService) insertRecord(ctx context.Context, kind domain.ContentKind, title, path string) (*UploadResult, error) {
	switch kind {
	case domain.KindSermons:
		rec, err := repo.CreateSermon(ctx, s.DB, title, path)
		if err != nil {
			return nil, err
		}
		return &UploadResult{ID: rec.ID, Title: rec.Title, Path: rec.VideoURL, CreatedAt: rec.CreatedAt}, nil
	case domain.KindEvents:
		rec, err := repo.CreateEvent(ctx, s.DB, title, path)
		if err != nil {
			return nil, err
		}
		return &UploadResult{ID: rec.ID, Title: rec.Title, Path: rec.ImageURL, CreatedAt: rec.CreatedAt}, nil
	case domain.KindPraiseSongs:
		rec, err := repo.CreatePraiseSong(ctx, s.DB, title, path)
		if err != nil {
			return nil, err
		}
		return &UploadResult{ID: rec.ID, Title: rec.Title, Path: rec.FilePath, CreatedAt: rec.CreatedAt}, nil
	}
	return nil, ErrUnknownKind
}

// acquire marks kind as having an upload in flight; false when already taken.
func (s *UploadService) acquire(kind domain.ContentKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[domain.ContentKind]bool, 3)
	}
	if s.inflight[kind] {
		return false
	}
	s.inflight[kind] = true
	return true
}

func (s *UploadService) release(kind domain.ContentKind) {
	s.mu.Lock()
	delete(s.inflight, kind)
	s.mu.Unlock()
}

func (s *UploadService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
