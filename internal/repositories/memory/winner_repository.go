// Package memory keeps the winner archive in process memory when no database is configured
package memory

import (
	"context"
	"sync"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
)

// WinnerRepository implements the repositories.WinnerRepository interface in memory
type WinnerRepository struct {
	mu      sync.RWMutex
	winners []models.WinnerRecord
}

var _ repositories.WinnerRepository = (*WinnerRepository)(nil)

// NewWinnerRepository creates an empty in-memory archive
func NewWinnerRepository() *WinnerRepository {
	return &WinnerRepository{}
}

// CreateMany archives a batch of winners
func (r *WinnerRepository) CreateMany(ctx context.Context, winners []models.WinnerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.winners = append(r.winners, winners...)
	return nil
}

// FindByBatch finds the winners of one batch with pagination
func (r *WinnerRepository) FindByBatch(ctx context.Context, batchID string, page, limit int) ([]*models.WinnerRecord, error) {
	return r.find(ctx, func(w *models.WinnerRecord) bool { return w.BatchID == batchID }, page, limit)
}

// FindByAward finds the winners of one award with pagination
func (r *WinnerRepository) FindByAward(ctx context.Context, awardID string, page, limit int) ([]*models.WinnerRecord, error) {
	return r.find(ctx, func(w *models.WinnerRecord) bool { return w.AwardID == awardID }, page, limit)
}

// FindAll finds all archived winners with pagination
func (r *WinnerRepository) FindAll(ctx context.Context, page, limit int) ([]*models.WinnerRecord, error) {
	return r.find(ctx, func(*models.WinnerRecord) bool { return true }, page, limit)
}

func (r *WinnerRepository) find(ctx context.Context, match func(*models.WinnerRecord) bool, page, limit int) ([]*models.WinnerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, limit = repositories.NormalizePage(page, limit)
	skip := (page - 1) * limit

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.WinnerRecord, 0)
	for i := range r.winners {
		w := r.winners[i]
		if !match(&w) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, &w)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count counts all archived winners
func (r *WinnerRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.winners)), nil
}
