package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/events"
	"github.com/ArowuTest/luckydraw-backend/internal/metrics"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure PoolServiceImpl implements PoolService
var _ PoolService = (*PoolServiceImpl)(nil)

// PoolServiceImpl loads identifiers into the draw engine
type PoolServiceImpl struct {
	engine  *draw.Engine
	cfg     config.PoolConfig
	metrics metrics.Collector
	events  events.Publisher

	mu        sync.Mutex
	isDefault bool
}

// NewPoolService creates a new PoolServiceImpl
func NewPoolService(engine *draw.Engine, cfg config.PoolConfig, collector metrics.Collector, publisher events.Publisher) *PoolServiceImpl {
	return &PoolServiceImpl{
		engine:  engine,
		cfg:     cfg,
		metrics: collector,
		events:  publisher,
	}
}

func (s *PoolServiceImpl) defaultIdentifiers() []string {
	return utils.SequentialIdentifiers(s.cfg.Start, s.cfg.End, s.cfg.PadWidth)
}

// LoadDefaultPool fills the pool from the configured range
func (s *PoolServiceImpl) LoadDefaultPool(ctx context.Context) (models.PoolStatus, error) {
	return s.load(s.defaultIdentifiers(), true, "default")
}

// ImportPool replaces the pool with identifiers read from a file
func (s *PoolServiceImpl) ImportPool(ctx context.Context, r io.Reader, format utils.Format) (models.PoolStatus, error) {
	ids, err := utils.ReadPoolFile(r, format)
	if err != nil {
		slog.Warn("Pool import failed", "format", format, "error", err)
		return models.PoolStatus{}, fmt.Errorf("%w: %v", draw.ErrInvalidPool, err)
	}
	if len(ids) == 0 {
		return models.PoolStatus{}, fmt.Errorf("%w: no identifiers found in file", draw.ErrInvalidPool)
	}
	return s.load(ids, false, string(format))
}

// LoadIdentifiers replaces the pool with a manual list of identifiers
func (s *PoolServiceImpl) LoadIdentifiers(ctx context.Context, ids []string) (models.PoolStatus, error) {
	sorted := append([]string(nil), ids...)
	utils.SortIdentifiers(sorted)
	return s.load(sorted, false, "manual")
}

func (s *PoolServiceImpl) load(ids []string, isDefault bool, source string) (models.PoolStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.LoadPool(ids); err != nil {
		slog.Warn("Pool load rejected", "source", source, "error", err)
		return models.PoolStatus{}, err
	}
	s.isDefault = isDefault

	status := s.engine.PoolStatus()
	status.Default = isDefault
	s.metrics.SetPoolAvailable(status.Available)
	slog.Info("Pool loaded", "source", source, "size", status.Size)
	s.events.Publish(models.NewEvent(models.EventPoolLoaded, "", status))
	return status, nil
}

// Status summarises the pool
func (s *PoolServiceImpl) Status(ctx context.Context) models.PoolStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.engine.PoolStatus()
	status.Default = s.isDefault
	return status
}

// Available returns the undrawn identifiers
func (s *PoolServiceImpl) Available(ctx context.Context) []string {
	return s.engine.Available()
}

// WriteTemplate writes the pool template for the configured range
func (s *PoolServiceImpl) WriteTemplate(ctx context.Context, w io.Writer, format utils.Format) error {
	return utils.WritePoolTemplate(w, format, s.cfg.HeaderLabel, s.defaultIdentifiers())
}
