package repositories

import (
	"context"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// EventRepository defines the interface for the draw event log
type EventRepository interface {
	Create(ctx context.Context, event *models.EventRecord) error
	FindByAward(ctx context.Context, awardID string, page, limit int) ([]*models.EventRecord, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.EventRecord, error)
}
