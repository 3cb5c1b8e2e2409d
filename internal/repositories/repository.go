package repositories

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// Default and maximum page sizes for archive queries
const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// WinnerRepository defines the interface for the winner archive. The archive mirrors the
// engine's ledger for auditing and is never read back into the engine
type WinnerRepository interface {
	CreateMany(ctx context.Context, winners []models.WinnerRecord) error
	FindByBatch(ctx context.Context, batchID string, page, limit int) ([]*models.WinnerRecord, error)
	FindByAward(ctx context.Context, awardID string, page, limit int) ([]*models.WinnerRecord, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.WinnerRecord, error)
	Count(ctx context.Context) (int64, error)
}

// NormalizePage clamps pagination arguments to sane values
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
