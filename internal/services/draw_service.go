package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/events"
	"github.com/ArowuTest/luckydraw-backend/internal/metrics"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"golang.org/x/exp/slog"
)

const (
	archiveTimeout  = 5 * time.Second
	timestampLayout = "2006-01-02 15:04:05"
)

// ResultsHeader is the header row of the results export
var ResultsHeader = []string{"Award", "Number", "Drawn At"}

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl runs rounds on the draw engine, archives winners and publishes events
type DrawServiceImpl struct {
	engine     *draw.Engine
	winnerRepo repositories.WinnerRepository
	metrics    metrics.Collector
	events     events.Publisher
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	engine *draw.Engine,
	winnerRepo repositories.WinnerRepository,
	collector metrics.Collector,
	publisher events.Publisher,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		engine:     engine,
		winnerRepo: winnerRepo,
		metrics:    collector,
		events:     publisher,
	}
}

// RegisterAwards registers the configured awards
func (s *DrawServiceImpl) RegisterAwards(ctx context.Context, awards []models.Award) error {
	for _, a := range awards {
		registered, err := s.engine.RegisterAward(a)
		if err != nil {
			return fmt.Errorf("failed to register award %s: %w", a.ID, err)
		}
		slog.Info("Award registered", "awardId", registered.ID, "quota", registered.Quota, "rounds", registered.Rounds)
	}
	return nil
}

// RegisterAward registers a scheduled award at runtime
func (s *DrawServiceImpl) RegisterAward(ctx context.Context, req models.CreateAwardRequest) (models.Award, error) {
	award, err := s.engine.RegisterAward(models.Award{
		ID:     req.ID,
		Name:   req.Name,
		Quota:  req.Quota,
		Rounds: req.Rounds,
		Kind:   models.AwardKindScheduled,
	})
	if err != nil {
		slog.Warn("Award registration rejected", "awardId", req.ID, "error", err)
		return models.Award{}, err
	}
	slog.Info("Award registered", "awardId", award.ID, "quota", award.Quota, "rounds", award.Rounds)
	s.events.Publish(models.NewEvent(models.EventAwardRegistered, award.ID, award))
	return award, nil
}

// CreateAdHocAward creates an award drawn in a single round
func (s *DrawServiceImpl) CreateAdHocAward(ctx context.Context, req models.CreateAdHocAwardRequest) (models.Award, error) {
	award, err := s.engine.CreateAdHocAward(req.Name, req.Quota)
	if err != nil {
		slog.Warn("Ad-hoc award rejected", "name", req.Name, "quota", req.Quota, "error", err)
		return models.Award{}, err
	}
	slog.Info("Ad-hoc award created", "awardId", award.ID, "name", award.Name, "quota", award.Quota)
	s.events.Publish(models.NewEvent(models.EventAwardRegistered, award.ID, award))
	return award, nil
}

// ListAwards returns the progress of every award
func (s *DrawServiceImpl) ListAwards(ctx context.Context) []models.AwardProgress {
	return s.engine.AllProgress()
}

// GetAward returns the progress of one award
func (s *DrawServiceImpl) GetAward(ctx context.Context, awardID string) (models.AwardProgress, error) {
	return s.engine.Progress(awardID)
}

// BeginRound opens the next round of an award
func (s *DrawServiceImpl) BeginRound(ctx context.Context, awardID string) (models.RoundTicket, error) {
	ticket, err := s.engine.BeginRound(awardID)
	if err != nil {
		s.reject(awardID, err)
		return models.RoundTicket{}, err
	}
	slog.Info("Round started", "awardId", awardID, "round", ticket.Round, "target", ticket.Target)
	s.events.Publish(models.NewEvent(models.EventRoundStarted, awardID, ticket))
	return ticket, nil
}

// CommitRound draws and records the winners of the open round
func (s *DrawServiceImpl) CommitRound(ctx context.Context, awardID string) (models.RoundResult, error) {
	start := time.Now()
	result, err := s.engine.CommitRound(awardID)
	if err != nil {
		s.reject(awardID, err)
		return models.RoundResult{}, err
	}
	s.afterCommit(ctx, result, time.Since(start))
	return result, nil
}

// DrawRound begins and commits a round in one call
func (s *DrawServiceImpl) DrawRound(ctx context.Context, awardID string) (models.RoundResult, error) {
	start := time.Now()
	result, err := s.engine.DrawRound(awardID)
	if err != nil {
		s.reject(awardID, err)
		return models.RoundResult{}, err
	}
	s.afterCommit(ctx, result, time.Since(start))
	return result, nil
}

// AbortRound closes the open round without drawing
func (s *DrawServiceImpl) AbortRound(ctx context.Context, awardID string) error {
	if err := s.engine.AbortRound(awardID); err != nil {
		s.reject(awardID, err)
		return err
	}
	slog.Info("Round aborted", "awardId", awardID)
	s.events.Publish(models.NewEvent(models.EventRoundAborted, awardID, nil))
	return nil
}

func (s *DrawServiceImpl) afterCommit(ctx context.Context, result models.RoundResult, elapsed time.Duration) {
	s.metrics.RecordRoundCommitted(result.AwardID, len(result.Winners), elapsed.Seconds())
	s.metrics.SetPoolAvailable(s.engine.PoolStatus().Available)
	slog.Info("Round committed",
		"awardId", result.AwardID,
		"round", result.Round,
		"winners", len(result.Winners),
		"drawn", result.DrawnCount,
		"quota", result.Quota,
		"completed", result.Completed,
	)

	s.archive(ctx, result)

	s.events.Publish(models.NewEvent(models.EventRoundCommitted, result.AwardID, result))
	if result.Completed {
		s.events.Publish(models.NewEvent(models.EventAwardCompleted, result.AwardID, result))
	}
}

// archive mirrors the round's winners into the repository. Failures are logged and
// counted; the engine ledger stays authoritative
func (s *DrawServiceImpl) archive(ctx context.Context, result models.RoundResult) {
	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()
	if err := s.winnerRepo.CreateMany(archiveCtx, result.Records); err != nil {
		s.metrics.RecordArchiveFailure()
		slog.Error("Failed to archive winners", "awardId", result.AwardID, "round", result.Round, "error", err)
	}
}

func (s *DrawServiceImpl) reject(awardID string, err error) {
	reason := rejectReason(err)
	s.metrics.RecordRoundRejected(awardID, reason)
	slog.Warn("Round rejected", "awardId", awardID, "reason", reason, "error", err)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, draw.ErrAwardCompleted):
		return "completed"
	case errors.Is(err, draw.ErrInsufficientPool):
		return "insufficient_pool"
	case errors.Is(err, draw.ErrRoundInProgress):
		return "round_in_progress"
	case errors.Is(err, draw.ErrNoRoundInProgress):
		return "no_round"
	case errors.Is(err, draw.ErrAwardNotFound):
		return "not_found"
	}
	return "error"
}

// GetWinners returns the winners of one award in commit order
func (s *DrawServiceImpl) GetWinners(ctx context.Context, awardID string) ([]models.WinnerRecord, error) {
	return s.engine.Winners(awardID)
}

// GetResults returns every winner in commit order
func (s *DrawServiceImpl) GetResults(ctx context.Context) []models.WinnerRecord {
	return s.engine.Results()
}

// ExportResults writes one row per winner in commit order
func (s *DrawServiceImpl) ExportResults(ctx context.Context, w io.Writer, format utils.Format) (int, error) {
	rows, err := s.engine.ExportableResults()
	if err != nil {
		return 0, err
	}
	if err := WriteResults(w, format, rows); err != nil {
		slog.Error("Failed to export results", "format", format, "error", err)
		return 0, err
	}
	return len(rows), nil
}

// WriteResults writes export rows as a results table
func WriteResults(w io.Writer, format utils.Format, rows []models.ExportRow) error {
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.AwardName, r.Identifier, r.Timestamp.Format(timestampLayout)}
	}
	if err := utils.WriteTable(w, format, ResultsHeader, table); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	return nil
}

// ResetAllDrawState clears all winners and starts a new batch
func (s *DrawServiceImpl) ResetAllDrawState(ctx context.Context) string {
	previous := s.engine.BatchID()
	batch := s.engine.ResetAllDrawState()
	s.metrics.SetPoolAvailable(s.engine.PoolStatus().Available)
	slog.Info("Draw state reset", "previousBatch", previous, "batch", batch)
	s.events.Publish(models.NewEvent(models.EventDrawReset, "", map[string]string{"batchId": batch}))
	return batch
}

// GetArchivedWinners pages through the winner archive
func (s *DrawServiceImpl) GetArchivedWinners(ctx context.Context, batchID string, page, limit int) ([]*models.WinnerRecord, error) {
	var (
		winners []*models.WinnerRecord
		err     error
	)
	if batchID == "" {
		winners, err = s.winnerRepo.FindAll(ctx, page, limit)
	} else {
		winners, err = s.winnerRepo.FindByBatch(ctx, batchID, page, limit)
	}
	if err != nil {
		slog.Error("Failed to read winner archive", "batchId", batchID, "error", err)
		return nil, fmt.Errorf("failed to read winner archive: %w", err)
	}
	return winners, nil
}
