// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// giving-details singleton, which is always upserted under its fixed id and
// never inserted fresh after first creation.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/victorypower/church-backend/internal/domain"
)

// GetGiveDetails fetches the giving-details singleton. Returns ErrNotFound
// before the first upsert.
func GetGiveDetails(ctx context.Context, db *gorm.DB) (*domain.GiveDetails, error) {
	var g domain.GiveDetails
	err := db.WithContext(ctx).
		Where("id = ?", domain.GiveDetailsID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertGiveDetails writes the three payment-instruction fields under the
// fixed singleton id, inserting the row on first use and fully overwriting
// it afterwards (last-writer-wins by design; the record is a singleton
// edited by a single admin).
func UpsertGiveDetails(ctx context.Context, db *gorm.DB, ecoCash, visa, inbucks string) (*domain.GiveDetails, error) {
	g := &domain.GiveDetails{
		ID:        domain.GiveDetailsID,
		EcoCash:   ecoCash,
		Visa:      visa,
		Inbucks:   inbucks,
		UpdatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"eco_cash", "visa", "inbucks", "updated_at"}),
		}).
		Create(g).Error
	if err != nil {
		return nil, err
	}
	return g, nil
}
