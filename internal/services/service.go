package services

import (
	"context"
	"errors"
	"io"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
)

// ErrInvalidCredentials is returned when operator login fails
var ErrInvalidCredentials = errors.New("invalid username or password")

// DrawService defines the interface for draw-related operations
type DrawService interface {
	// RegisterAwards registers the configured awards at startup
	RegisterAwards(ctx context.Context, awards []models.Award) error

	// RegisterAward registers a scheduled award
	RegisterAward(ctx context.Context, req models.CreateAwardRequest) (models.Award, error)

	// CreateAdHocAward creates an award drawn in one round covering its whole quota
	CreateAdHocAward(ctx context.Context, req models.CreateAdHocAwardRequest) (models.Award, error)

	// ListAwards returns the progress of every award
	ListAwards(ctx context.Context) []models.AwardProgress

	// GetAward returns the progress of one award
	GetAward(ctx context.Context, awardID string) (models.AwardProgress, error)

	// BeginRound opens the next round of an award
	BeginRound(ctx context.Context, awardID string) (models.RoundTicket, error)

	// CommitRound draws and records the winners of the open round
	CommitRound(ctx context.Context, awardID string) (models.RoundResult, error)

	// AbortRound closes the open round without drawing
	AbortRound(ctx context.Context, awardID string) error

	// DrawRound begins and commits a round in one call
	DrawRound(ctx context.Context, awardID string) (models.RoundResult, error)

	// GetWinners returns the winners of one award in commit order
	GetWinners(ctx context.Context, awardID string) ([]models.WinnerRecord, error)

	// GetResults returns every winner in commit order
	GetResults(ctx context.Context) []models.WinnerRecord

	// ExportResults writes the results table and returns the number of rows written
	ExportResults(ctx context.Context, w io.Writer, format utils.Format) (int, error)

	// ResetAllDrawState clears all winners and returns the new batch id
	ResetAllDrawState(ctx context.Context) string

	// GetArchivedWinners pages through the winner archive, optionally for one batch
	GetArchivedWinners(ctx context.Context, batchID string, page, limit int) ([]*models.WinnerRecord, error)
}

// PoolService defines the interface for number pool operations
type PoolService interface {
	// LoadDefaultPool fills the pool from the configured range
	LoadDefaultPool(ctx context.Context) (models.PoolStatus, error)

	// ImportPool replaces the pool with identifiers read from a CSV or XLSX file
	ImportPool(ctx context.Context, r io.Reader, format utils.Format) (models.PoolStatus, error)

	// LoadIdentifiers replaces the pool with a manual list of identifiers
	LoadIdentifiers(ctx context.Context, ids []string) (models.PoolStatus, error)

	// Status summarises the pool
	Status(ctx context.Context) models.PoolStatus

	// Available returns the undrawn identifiers
	Available(ctx context.Context) []string

	// WriteTemplate writes the pool template for the configured range
	WriteTemplate(ctx context.Context, w io.Writer, format utils.Format) error
}

// AuthService defines the interface for operator authentication
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// EventService defines the interface for the draw event log
type EventService interface {
	// Publish archives one event
	Publish(event models.Event)

	// ListEvents pages through the event log, optionally for one award
	ListEvents(ctx context.Context, awardID string, page, limit int) ([]*models.EventRecord, error)
}
