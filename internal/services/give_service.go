// Package services – GiveService
//
// The giving-details record is a singleton with a fixed id: it is always
// upserted, never inserted fresh after first creation, and fully overwritten
// on every update (single-admin last-writer-wins).
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/repo"
)

// GiveService reads and upserts the payment-instruction singleton.
type GiveService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// Get returns the giving details, or ErrGiveDetailsNotSet before the first
// upsert.
func (s *GiveService) Get(ctx context.Context) (*domain.GiveDetails, error) {
	g, err := repo.GetGiveDetails(ctx, s.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiveDetailsNotSet
		}
		return nil, err
	}
	return g, nil
}

// Update upserts the three payment-instruction fields under the fixed
// singleton id.
func (s *GiveService) Update(ctx context.Context, ecoCash, visa, inbucks string) (*domain.GiveDetails, error) {
	return repo.UpsertGiveDetails(ctx, s.DB, ecoCash, visa, inbucks)
}
