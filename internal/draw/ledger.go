package draw

import (
	"sync"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// Ledger is the append-only record of committed winners, in commit order
type Ledger struct {
	mu      sync.RWMutex
	records []models.WinnerRecord
	byAward map[string][]int
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{byAward: make(map[string][]int)}
}

// Append records winners
func (l *Ledger) Append(records ...models.WinnerRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range records {
		l.byAward[r.AwardID] = append(l.byAward[r.AwardID], len(l.records))
		l.records = append(l.records, r)
	}
}

// ByAward returns the records of one award in commit order
func (l *Ledger) ByAward(awardID string) []models.WinnerRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	positions := l.byAward[awardID]
	out := make([]models.WinnerRecord, len(positions))
	for i, pos := range positions {
		out[i] = l.records[pos]
	}
	return out
}

// All returns every record in commit order
func (l *Ledger) All() []models.WinnerRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.WinnerRecord, len(l.records))
	copy(out, l.records)
	return out
}

// TotalDrawn returns the number of records across all awards
func (l *Ledger) TotalDrawn() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Reset drops every record
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	l.byAward = make(map[string][]int)
}
