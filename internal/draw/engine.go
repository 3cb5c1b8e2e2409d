// Package draw implements the draw engine: the number pool, round scheduling, round
// sessions and the result ledger
package draw

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/rng"
	"github.com/ArowuTest/luckydraw-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// AdHocIDPrefix prefixes the ids of awards created at runtime
const AdHocIDPrefix = "adhoc_"

// Sampler selects k distinct identifiers from candidates
type Sampler interface {
	Sample(candidates []string, k int) ([]string, error)
}

type awardState struct {
	award     models.Award
	plan      RoundPlan
	drawn     int
	rounds    int
	completed bool
	session   session
}

// Engine owns the pool, the awards and their draw state. All mutation of drawn state
// goes through a committed round
//
// Rounds of one award are serialized by a per-award mutex; rounds of different awards
// run in parallel and only meet at the pool lock while claiming identifiers. Resets,
// pool loads and award registration take the engine lock exclusively
type Engine struct {
	mu      sync.RWMutex
	pool    *Pool
	ledger  *Ledger
	sampler Sampler
	awards  map[string]*awardState
	order   []string
	locks   *xsync.Map[string, *sync.Mutex]
	batchID string

	now     func() time.Time
	newID   func() string
	onDrift DriftHook
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock used to timestamp rounds and winners
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the generator for record, batch and ad-hoc award ids
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// WithDriftHook registers a hook called when round resolution drifts
func WithDriftHook(hook DriftHook) Option {
	return func(e *Engine) {
		e.onDrift = hook
	}
}

// NewEngine creates an engine with an empty pool
func NewEngine(sampler Sampler, opts ...Option) *Engine {
	e := &Engine{
		pool:    NewPool(),
		ledger:  NewLedger(),
		sampler: sampler,
		awards:  make(map[string]*awardState),
		locks:   xsync.NewMap[string, *sync.Mutex](),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.batchID = e.newID()
	return e
}

// LoadPool replaces the pool. It is refused once any winner has been committed or a
// round is open
func (e *Engine) LoadPool(ids []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n := e.ledger.TotalDrawn(); n > 0 {
		return fmt.Errorf("%w: %d winners recorded", ErrPoolInUse, n)
	}
	for _, id := range e.order {
		if e.awards[id].session.rolling() {
			return fmt.Errorf("%w: award %s is rolling", ErrPoolInUse, id)
		}
	}
	return e.pool.Load(ids)
}

// RegisterAward adds a scheduled or ad-hoc award. An empty kind means scheduled
func (e *Engine) RegisterAward(award models.Award) (models.Award, error) {
	award.ID = strings.TrimSpace(award.ID)
	if award.ID == "" {
		return models.Award{}, fmt.Errorf("%w: award id is required", ErrInvalidAwardConfig)
	}
	if award.Kind == "" {
		award.Kind = models.AwardKindScheduled
	}
	if award.Name == "" {
		award.Name = award.ID
	}
	plan, err := NewRoundPlan(award, e.onDrift)
	if err != nil {
		return models.Award{}, err
	}
	if award.CreatedAt.IsZero() {
		award.CreatedAt = e.now()
	}
	award.Rounds = append([]int(nil), award.Rounds...)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.awards[award.ID]; exists {
		return models.Award{}, fmt.Errorf("%w: %s", ErrAwardExists, award.ID)
	}
	e.awards[award.ID] = &awardState{
		award:   award,
		plan:    plan,
		session: session{state: models.SessionStateIdle},
	}
	e.order = append(e.order, award.ID)
	return award, nil
}

// CreateAdHocAward registers an award whose single round draws its whole quota
func (e *Engine) CreateAdHocAward(name string, quota int) (models.Award, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Award{}, fmt.Errorf("%w: award name is required", ErrInvalidAwardConfig)
	}
	return e.RegisterAward(models.Award{
		ID:    AdHocIDPrefix + e.newID(),
		Name:  name,
		Quota: quota,
		Kind:  models.AwardKindAdHoc,
	})
}

func (e *Engine) withAward(awardID string, fn func(st *awardState) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.awards[awardID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAwardNotFound, awardID)
	}
	lock, _ := e.locks.LoadOrStore(awardID, &sync.Mutex{})
	lock.Lock()
	defer lock.Unlock()
	return fn(st)
}

// BeginRound opens a round for the award. Selection is deferred to CommitRound
func (e *Engine) BeginRound(awardID string) (models.RoundTicket, error) {
	var ticket models.RoundTicket
	err := e.withAward(awardID, func(st *awardState) error {
		var err error
		ticket, err = e.begin(st)
		return err
	})
	return ticket, err
}

// CommitRound selects the winners of the open round and records them
func (e *Engine) CommitRound(awardID string) (models.RoundResult, error) {
	var result models.RoundResult
	err := e.withAward(awardID, func(st *awardState) error {
		var err error
		result, err = e.commit(st)
		return err
	})
	return result, err
}

// DrawRound begins and commits a round in one step
func (e *Engine) DrawRound(awardID string) (models.RoundResult, error) {
	var result models.RoundResult
	err := e.withAward(awardID, func(st *awardState) error {
		if _, err := e.begin(st); err != nil {
			return err
		}
		var err error
		result, err = e.commit(st)
		return err
	})
	return result, err
}

// AbortRound closes the open round without drawing
func (e *Engine) AbortRound(awardID string) error {
	return e.withAward(awardID, func(st *awardState) error {
		return st.session.abort()
	})
}

func (e *Engine) begin(st *awardState) (models.RoundTicket, error) {
	if st.completed {
		return models.RoundTicket{}, fmt.Errorf("%w: %s", ErrAwardCompleted, st.award.ID)
	}
	if st.session.rolling() {
		return models.RoundTicket{}, fmt.Errorf("%w: award %s", ErrRoundInProgress, st.award.ID)
	}
	count := st.plan.NextRoundSize(st.drawn)
	if count == 0 {
		return models.RoundTicket{}, fmt.Errorf("%w: %s", ErrAwardCompleted, st.award.ID)
	}
	if available := e.pool.AvailableCount(); available < count {
		return models.RoundTicket{}, fmt.Errorf("%w: award %s needs %d, have %d", ErrInsufficientPool, st.award.ID, count, available)
	}

	now := e.now()
	if err := st.session.begin(st.rounds+1, count, now); err != nil {
		return models.RoundTicket{}, err
	}
	return models.RoundTicket{
		AwardID:   st.award.ID,
		Round:     st.rounds + 1,
		Target:    count,
		StartedAt: now,
	}, nil
}

func (e *Engine) commit(st *awardState) (models.RoundResult, error) {
	if !st.session.rolling() {
		return models.RoundResult{}, fmt.Errorf("%w: award %s", ErrNoRoundInProgress, st.award.ID)
	}
	count := st.session.target
	round := st.session.round

	winners, err := e.pool.Claim(count, e.sampler.Sample)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyDrawn), errors.Is(err, ErrNotInPool), errors.Is(err, rng.ErrInsufficientCandidates):
			panic(fmt.Errorf("draw: invariant violated committing award %s: %w", st.award.ID, err))
		}
		// The round cannot complete; close it without touching the award
		_ = st.session.abort()
		return models.RoundResult{}, fmt.Errorf("commit award %s: %w", st.award.ID, err)
	}

	utils.SortForDisplay(winners)
	now := e.now()
	records := make([]models.WinnerRecord, len(winners))
	for i, id := range winners {
		records[i] = models.WinnerRecord{
			ID:         e.newID(),
			BatchID:    e.batchID,
			AwardID:    st.award.ID,
			AwardName:  st.award.Name,
			Identifier: id,
			Round:      round,
			Timestamp:  now,
		}
	}
	e.ledger.Append(records...)

	st.drawn += count
	st.rounds++
	if st.drawn > st.plan.Quota() {
		panic(fmt.Errorf("draw: award %s drawn %d exceeds quota %d", st.award.ID, st.drawn, st.plan.Quota()))
	}
	st.completed = st.drawn == st.plan.Quota()
	if err := st.session.commit(); err != nil {
		return models.RoundResult{}, err
	}

	return models.RoundResult{
		AwardID:     st.award.ID,
		AwardName:   st.award.Name,
		Round:       round,
		Winners:     winners,
		DrawnCount:  st.drawn,
		Quota:       st.plan.Quota(),
		Completed:   st.completed,
		CommittedAt: now,
		Records:     records,
	}, nil
}

// DrawnCount returns how many winners the award has
func (e *Engine) DrawnCount(awardID string) (int, error) {
	var n int
	err := e.withAward(awardID, func(st *awardState) error {
		n = st.drawn
		return nil
	})
	return n, err
}

// IsCompleted reports whether the award reached its quota
func (e *Engine) IsCompleted(awardID string) (bool, error) {
	var done bool
	err := e.withAward(awardID, func(st *awardState) error {
		done = st.completed
		return nil
	})
	return done, err
}

// NextRoundSize returns the size of the award's next round, 0 when completed
func (e *Engine) NextRoundSize(awardID string) (int, error) {
	var n int
	err := e.withAward(awardID, func(st *awardState) error {
		n = st.plan.NextRoundSize(st.drawn)
		return nil
	})
	return n, err
}

// Progress returns the award's progress snapshot
func (e *Engine) Progress(awardID string) (models.AwardProgress, error) {
	var p models.AwardProgress
	err := e.withAward(awardID, func(st *awardState) error {
		p = st.progress()
		return nil
	})
	return p, err
}

// AllProgress returns every award's progress in registration order
func (e *Engine) AllProgress() []models.AwardProgress {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.AwardProgress, 0, len(e.order))
	for _, id := range e.order {
		lock, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
		lock.Lock()
		out = append(out, e.awards[id].progress())
		lock.Unlock()
	}
	return out
}

func (st *awardState) progress() models.AwardProgress {
	award := st.award
	award.Rounds = append([]int(nil), st.award.Rounds...)
	return models.AwardProgress{
		Award:         award,
		DrawnCount:    st.drawn,
		Remaining:     st.plan.Quota() - st.drawn,
		NextRoundSize: st.plan.NextRoundSize(st.drawn),
		RoundsDrawn:   st.rounds,
		Completed:     st.completed,
		Rolling:       st.session.rolling(),
	}
}

// Award returns one award
func (e *Engine) Award(awardID string) (models.Award, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.awards[awardID]
	if !ok {
		return models.Award{}, fmt.Errorf("%w: %s", ErrAwardNotFound, awardID)
	}
	award := st.award
	award.Rounds = append([]int(nil), st.award.Rounds...)
	return award, nil
}

// Awards returns all awards in registration order
func (e *Engine) Awards() []models.Award {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Award, 0, len(e.order))
	for _, id := range e.order {
		award := e.awards[id].award
		award.Rounds = append([]int(nil), award.Rounds...)
		out = append(out, award)
	}
	return out
}

// Winners returns the award's winner records in commit order
func (e *Engine) Winners(awardID string) ([]models.WinnerRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.awards[awardID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrAwardNotFound, awardID)
	}
	return e.ledger.ByAward(awardID), nil
}

// Results returns every winner record in commit order
func (e *Engine) Results() []models.WinnerRecord {
	return e.ledger.All()
}

// TotalDrawn returns the number of winners across all awards
func (e *Engine) TotalDrawn() int {
	return e.ledger.TotalDrawn()
}

// ExportableResults returns one row per winner across all awards in commit order
func (e *Engine) ExportableResults() ([]models.ExportRow, error) {
	records := e.ledger.All()
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}
	rows := make([]models.ExportRow, len(records))
	for i, r := range records {
		rows[i] = r.ExportRow()
	}
	return rows, nil
}

// ResetAllDrawState clears every award's draw state, open rounds and the drawn set
// The pool and award configuration are kept. Winners recorded afterwards belong to a
// new batch, whose id is returned
func (e *Engine) ResetAllDrawState() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pool.Reset()
	e.ledger.Reset()
	for _, st := range e.awards {
		st.drawn = 0
		st.rounds = 0
		st.completed = false
		st.session.clear()
	}
	e.batchID = e.newID()
	return e.batchID
}

// BatchID returns the id stamped on winners drawn since the last reset
func (e *Engine) BatchID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.batchID
}

// PoolStatus summarises the pool
func (e *Engine) PoolStatus() models.PoolStatus {
	size, drawn := e.pool.Counts()
	return models.PoolStatus{Size: size, Drawn: drawn, Available: size - drawn}
}

// Available returns the undrawn identifiers sorted for display
func (e *Engine) Available() []string {
	ids := e.pool.Available()
	utils.SortIdentifiers(ids)
	return ids
}
