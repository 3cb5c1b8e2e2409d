package memory

import (
	"context"
	"sync"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
)

// EventRepository implements the repositories.EventRepository interface in memory
type EventRepository struct {
	mu     sync.RWMutex
	events []models.EventRecord
}

var _ repositories.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates an empty in-memory event log
func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Create archives one event
func (r *EventRepository) Create(ctx context.Context, event *models.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

// FindByAward finds the events of one award with pagination
func (r *EventRepository) FindByAward(ctx context.Context, awardID string, page, limit int) ([]*models.EventRecord, error) {
	return r.find(ctx, func(e *models.EventRecord) bool { return e.AwardID == awardID }, page, limit)
}

// FindAll finds all events with pagination
func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.EventRecord, error) {
	return r.find(ctx, func(*models.EventRecord) bool { return true }, page, limit)
}

func (r *EventRepository) find(ctx context.Context, match func(*models.EventRecord) bool, page, limit int) ([]*models.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, limit = repositories.NormalizePage(page, limit)
	skip := (page - 1) * limit

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.EventRecord, 0)
	for i := range r.events {
		e := r.events[i]
		if !match(&e) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, &e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
