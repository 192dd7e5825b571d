package repo

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestIdempotency_CreateGetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "sermons", "key-1", "rec-1", http.StatusCreated, time.Hour)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Scope != "sermons" || rec.RecordID != "rec-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "sermons", "key-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RecordID != "rec-1" || got.Status != http.StatusCreated {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestIdempotency_ScopeIsolatesKeys(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := CreateIdempotency(ctx, db, "u1", "sermons", "key-1", "rec-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Same key under another scope is a distinct record, not a duplicate.
	if _, err := CreateIdempotency(ctx, db, "u1", "notifications", "key-1", "rec-2", 201, time.Hour); err != nil {
		t.Fatalf("cross-scope create: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "events", "key-1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unused scope, got %v", err)
	}
}

func TestIdempotency_DuplicateAndExpiry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "sermons", "key-1", "rec-1", 201, time.Hour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "sermons", "key-1", "rec-other", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// An expired record is invisible to Get.
	if _, err := GetIdempotency(ctx, db, "u1", "sermons", "key-1", time.Now().UTC().Add(2*time.Hour)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestIdempotency_EmptyScopeRejected(t *testing.T) {
	db := newTestDB(t)

	if _, err := GetIdempotency(context.Background(), db, "u1", "  ", "key-1", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank scope, got %v", err)
	}
}
