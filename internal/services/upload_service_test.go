package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/repo"
)

// fixedNow pins object-name timestamps for assertions.
var fixedNow = time.UnixMilli(1722470400000).UTC()

func newUploadService(t *testing.T, store *fakeStore) *UploadService {
	t.Helper()
	svc := NewUploadService(newTestDB(t), store, nil)
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func TestUpload_ValidationFailsBeforeAnyRemoteCall(t *testing.T) {
	store := &fakeStore{}
	svc := newUploadService(t, store)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, domain.KindSermons, "   ", "v.mp4", strings.NewReader("x"), "video/mp4"); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := svc.Upload(ctx, domain.KindSermons, "Title", "", nil, ""); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
	if _, err := svc.Upload(ctx, domain.KindNotifications, "Title", "f", strings.NewReader("x"), ""); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind for media-less kind, got %v", err)
	}
	if len(store.uploads) != 0 || len(store.deletes) != 0 {
		t.Fatalf("no store calls expected on validation failure")
	}
}

func TestUpload_SermonNamedAfterFilename(t *testing.T) {
	store := &fakeStore{}
	svc := newUploadService(t, store)

	res, err := svc.Upload(context.Background(), domain.KindSermons, "Sunday Service", "service recording.mp4", strings.NewReader("bytes"), "video/mp4")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	want := "1722470400000_service_recording.mp4"
	if res.Path != want {
		t.Fatalf("expected path %q, got %q", want, res.Path)
	}
	if len(store.uploads) != 1 || store.uploads[0].bucket != "sermons" || store.uploads[0].name != want {
		t.Fatalf("unexpected store call: %+v", store.uploads)
	}
	if res.PublicURL != "https://cdn.test/sermons/"+want {
		t.Fatalf("unexpected public url: %q", res.PublicURL)
	}

	// Row persisted and references the object path.
	row, err := repo.GetSermon(context.Background(), svc.DB, res.ID)
	if err != nil || row.VideoURL != want {
		t.Fatalf("row: %+v err=%v", row, err)
	}
}

func TestUpload_PraiseSongNamedAfterTitle(t *testing.T) {
	store := &fakeStore{}
	svc := newUploadService(t, store)

	res, err := svc.Upload(context.Background(), domain.KindPraiseSongs, "Amazing   Grace", "track01.mp3", strings.NewReader("audio"), "audio/mpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	want := "1722470400000_Amazing_Grace.mp3"
	if res.Path != want {
		t.Fatalf("expected title-derived name %q, got %q", want, res.Path)
	}
	if store.uploads[0].bucket != "praise_songs" {
		t.Fatalf("unexpected bucket %q", store.uploads[0].bucket)
	}
}

func TestUpload_UploadFailureLeavesNoRow(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("bucket unavailable")}
	svc := newUploadService(t, store)

	if _, err := svc.Upload(context.Background(), domain.KindEvents, "Picnic", "p.jpg", strings.NewReader("img"), "image/jpeg"); err == nil {
		t.Fatalf("expected upload error")
	}
	items, err := repo.ListEvents(context.Background(), svc.DB)
	if err != nil || len(items) != 0 {
		t.Fatalf("no row should exist after failed upload, items=%d err=%v", len(items), err)
	}
	if len(store.deletes) != 0 {
		t.Fatalf("nothing to compensate when the upload itself failed")
	}
}

func TestUpload_InsertFailureTriggersCompensatingDelete(t *testing.T) {
	store := &fakeStore{}
	svc := newUploadService(t, store)

	// Break the insert after the binary is stored.
	if err := svc.DB.Migrator().DropTable(&domain.Event{}); err != nil {
		t.Fatalf("drop: %v", err)
	}

	_, err := svc.Upload(context.Background(), domain.KindEvents, "Picnic", "p.jpg", strings.NewReader("img"), "image/jpeg")
	if err == nil || errors.Is(err, ErrOrphanedObject) {
		t.Fatalf("expected the insert error itself, got %v", err)
	}
	if len(store.deletes) != 1 || store.deletes[0] != "events/1722470400000_p.jpg" {
		t.Fatalf("expected compensating delete, got %v", store.deletes)
	}
}

func TestUpload_OrphanedObjectWhenCompensationFails(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("delete refused")}
	svc := newUploadService(t, store)
	if err := svc.DB.Migrator().DropTable(&domain.Event{}); err != nil {
		t.Fatalf("drop: %v", err)
	}

	_, err := svc.Upload(context.Background(), domain.KindEvents, "Picnic", "p.jpg", strings.NewReader("img"), "image/jpeg")
	if !errors.Is(err, ErrOrphanedObject) {
		t.Fatalf("expected ErrOrphanedObject, got %v", err)
	}
}

func TestUpload_SingleInFlightPerKind(t *testing.T) {
	svc := newUploadService(t, &fakeStore{})

	if !svc.acquire(domain.KindSermons) {
		t.Fatalf("first acquire should succeed")
	}
	if _, err := svc.Upload(context.Background(), domain.KindSermons, "T", "v.mp4", strings.NewReader("x"), ""); !errors.Is(err, ErrUploadInFlight) {
		t.Fatalf("expected ErrUploadInFlight, got %v", err)
	}
	// Another kind is unaffected.
	if _, err := svc.Upload(context.Background(), domain.KindEvents, "E", "e.jpg", strings.NewReader("x"), ""); err != nil {
		t.Fatalf("other kind should proceed: %v", err)
	}
	svc.release(domain.KindSermons)
	if _, err := svc.Upload(context.Background(), domain.KindSermons, "T", "v.mp4", strings.NewReader("x"), ""); err != nil {
		t.Fatalf("after release: %v", err)
	}
}

func TestUpload_RefreshesCache(t *testing.T) {
	store := &fakeStore{}
	db := newTestDB(t)
	cache := NewContentService(db, store)
	svc := NewUploadService(db, store, cache)
	svc.Now = func() time.Time { return fixedNow }

	res, err := svc.Upload(context.Background(), domain.KindSermons, "Visible", "v.mp4", strings.NewReader("x"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	cache.mu.RLock()
	defer cache.mu.RUnlock()
	if len(cache.sermons) != 1 || cache.sermons[0].ID != res.ID {
		t.Fatalf("cache should contain the new sermon, got %+v", cache.sermons)
	}
}
