package draw

import (
	"fmt"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
)

// session tracks the round lifecycle of one award: Idle -> Rolling -> Committed -> Idle
type session struct {
	state     models.SessionState
	round     int
	target    int
	startedAt time.Time
}

func (s *session) rolling() bool {
	return s.state == models.SessionStateRolling
}

func (s *session) begin(round, target int, now time.Time) error {
	if s.rolling() {
		return fmt.Errorf("%w: round %d", ErrRoundInProgress, s.round)
	}
	s.state = models.SessionStateRolling
	s.round = round
	s.target = target
	s.startedAt = now
	return nil
}

// commit marks the round committed and returns the session to Idle
func (s *session) commit() error {
	if !s.rolling() {
		return ErrNoRoundInProgress
	}
	s.state = models.SessionStateCommitted
	s.clear()
	return nil
}

func (s *session) abort() error {
	if !s.rolling() {
		return ErrNoRoundInProgress
	}
	s.clear()
	return nil
}

func (s *session) clear() {
	*s = session{state: models.SessionStateIdle}
}
