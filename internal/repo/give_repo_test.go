package repo

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
)

func TestGetGiveDetails_MissingBeforeFirstUpsert(t *testing.T) {
	db := newTestDB(t)

	if _, err := GetGiveDetails(context.Background(), db); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUpsertGiveDetails_InsertThenOverwrite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g, err := UpsertGiveDetails(ctx, db, "eco-1", "visa-1", "in-1")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if g.ID != domain.GiveDetailsID {
		t.Fatalf("expected fixed singleton id %d, got %d", domain.GiveDetailsID, g.ID)
	}

	// Second upsert overwrites in place; no second row appears.
	if _, err := UpsertGiveDetails(ctx, db, "eco-2", "", "in-2"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := GetGiveDetails(ctx, db)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.EcoCash != "eco-2" || got.Visa != "" || got.Inbucks != "in-2" {
		t.Fatalf("expected full overwrite, got %+v", got)
	}

	var n int64
	if err := db.Model(&domain.GiveDetails{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("expected exactly one row, got %d err=%v", n, err)
	}
}
