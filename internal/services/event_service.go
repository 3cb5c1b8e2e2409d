package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArowuTest/luckydraw-backend/internal/events"
	"github.com/ArowuTest/luckydraw-backend/internal/metrics"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// EventServiceImpl archives draw events so a night's draw can be audited afterwards
type EventServiceImpl struct {
	eventRepo repositories.EventRepository
	metrics   metrics.Collector
	batchID   func() string
}

var (
	_ EventService     = (*EventServiceImpl)(nil)
	_ events.Publisher = (*EventServiceImpl)(nil)
)

// NewEventService creates a new EventServiceImpl. batchID reports the current draw batch
func NewEventService(eventRepo repositories.EventRepository, collector metrics.Collector, batchID func() string) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo: eventRepo,
		metrics:   collector,
		batchID:   batchID,
	}
}

// Publish archives one event. Failures are logged and counted, never returned
func (s *EventServiceImpl) Publish(event models.Event) {
	record := models.EventRecord{
		ID:         uuid.New().String(),
		BatchID:    s.batchID(),
		Type:       event.Type,
		AwardID:    event.AwardID,
		OccurredAt: event.OccurredAt,
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			slog.Error("Failed to encode event payload", "type", event.Type, "error", err)
		} else {
			record.Payload = string(payload)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := s.eventRepo.Create(ctx, &record); err != nil {
		s.metrics.RecordArchiveFailure()
		slog.Error("Failed to archive event", "type", event.Type, "awardId", event.AwardID, "error", err)
	}
}

// ListEvents pages through the event log, optionally for one award
func (s *EventServiceImpl) ListEvents(ctx context.Context, awardID string, page, limit int) ([]*models.EventRecord, error) {
	var (
		records []*models.EventRecord
		err     error
	)
	if awardID == "" {
		records, err = s.eventRepo.FindAll(ctx, page, limit)
	} else {
		records, err = s.eventRepo.FindByAward(ctx, awardID, page, limit)
	}
	if err != nil {
		slog.Error("Failed to read event log", "awardId", awardID, "error", err)
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return records, nil
}
