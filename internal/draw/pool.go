package draw

import (
	"fmt"
	"strings"
	"sync"
)

// Pool owns the drawable identifiers in import order and the set already drawn
type Pool struct {
	mu    sync.RWMutex
	ids   []string
	index map[string]struct{}
	drawn map[string]struct{}
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{
		index: make(map[string]struct{}),
		drawn: make(map[string]struct{}),
	}
}

// Load replaces the pool contents. Identifiers are trimmed, blanks are dropped and
// duplicates collapse onto their first occurrence. The drawn set is cleared
func (p *Pool) Load(ids []string) error {
	ordered := make([]string, 0, len(ids))
	index := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = struct{}{}
		ordered = append(ordered, id)
	}
	if len(ordered) == 0 {
		return fmt.Errorf("%w: no identifiers", ErrInvalidPool)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = ordered
	p.index = index
	p.drawn = make(map[string]struct{})
	return nil
}

// Available returns the undrawn identifiers in pool order
func (p *Pool) Available() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.availableLocked()
}

func (p *Pool) availableLocked() []string {
	out := make([]string, 0, len(p.ids)-len(p.drawn))
	for _, id := range p.ids {
		if _, ok := p.drawn[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// MarkDrawn moves identifiers into the drawn set. Nothing is marked unless every
// identifier is in the pool and not yet drawn
func (p *Pool) MarkDrawn(ids []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.markDrawnLocked(ids)
}

func (p *Pool) markDrawnLocked(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := p.index[id]; !ok {
			return fmt.Errorf("%w: %s", ErrNotInPool, id)
		}
		if _, ok := p.drawn[id]; ok {
			return fmt.Errorf("%w: %s", ErrAlreadyDrawn, id)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s repeated", ErrAlreadyDrawn, id)
		}
		seen[id] = struct{}{}
	}
	for id := range seen {
		p.drawn[id] = struct{}{}
	}
	return nil
}

// Claim selects k undrawn identifiers with pick and marks them drawn, holding the pool
// lock throughout so concurrent claims never see the same candidates
func (p *Pool) Claim(k int, pick func(candidates []string, k int) ([]string, error)) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	available := p.availableLocked()
	if len(available) < k {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientPool, k, len(available))
	}
	picked, err := pick(available, k)
	if err != nil {
		return nil, err
	}
	if err := p.markDrawnLocked(picked); err != nil {
		return nil, err
	}
	return picked, nil
}

// Reset clears the drawn set and keeps the identifiers
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drawn = make(map[string]struct{})
}

// Size returns the number of identifiers in the pool
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ids)
}

// DrawnCount returns the number of drawn identifiers
func (p *Pool) DrawnCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.drawn)
}

// AvailableCount returns the number of undrawn identifiers
func (p *Pool) AvailableCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ids) - len(p.drawn)
}

// Counts returns the pool size and drawn count as one consistent snapshot
func (p *Pool) Counts() (size, drawn int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.ids), len(p.drawn)
}

// identifiers returns every identifier in pool order
func (p *Pool) identifiers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.ids))
	copy(out, p.ids)
	return out
}

// isDrawn reports whether id has been drawn
func (p *Pool) isDrawn(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.drawn[id]
	return ok
}
