package draw

import (
	"fmt"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"golang.org/x/exp/slog"
)

// RoundPlan resolves how many winners the next round of an award must produce
type RoundPlan interface {
	// NextRoundSize returns the size of the next round, or 0 once drawn reaches the quota
	NextRoundSize(drawn int) int
	Quota() int
}

// DriftHook is notified when round resolution falls outside every round boundary
type DriftHook func(awardID string, drawn int)

// NewRoundPlan validates an award and returns its plan
func NewRoundPlan(award models.Award, onDrift DriftHook) (RoundPlan, error) {
	if award.Quota <= 0 {
		return nil, fmt.Errorf("%w: award %s quota must be positive, got %d", ErrInvalidAwardConfig, award.ID, award.Quota)
	}

	switch award.Kind {
	case models.AwardKindAdHoc:
		if len(award.Rounds) > 0 {
			return nil, fmt.Errorf("%w: ad-hoc award %s cannot define rounds", ErrInvalidAwardConfig, award.ID)
		}
		return adHocPlan{quota: award.Quota}, nil
	case models.AwardKindScheduled:
		if len(award.Rounds) == 0 {
			return nil, fmt.Errorf("%w: award %s has no rounds", ErrInvalidAwardConfig, award.ID)
		}
		sum := 0
		for i, r := range award.Rounds {
			if r <= 0 {
				return nil, fmt.Errorf("%w: award %s round %d must be positive, got %d", ErrInvalidAwardConfig, award.ID, i+1, r)
			}
			sum += r
		}
		if sum != award.Quota {
			return nil, fmt.Errorf("%w: award %s rounds sum to %d, quota is %d", ErrInvalidAwardConfig, award.ID, sum, award.Quota)
		}
		rounds := make([]int, len(award.Rounds))
		copy(rounds, award.Rounds)
		return &scheduledPlan{awardID: award.ID, quota: award.Quota, rounds: rounds, onDrift: onDrift}, nil
	}
	return nil, fmt.Errorf("%w: award %s has unknown kind %q", ErrInvalidAwardConfig, award.ID, award.Kind)
}

type scheduledPlan struct {
	awardID string
	quota   int
	rounds  []int
	onDrift DriftHook
}

func (p *scheduledPlan) Quota() int { return p.quota }

func (p *scheduledPlan) NextRoundSize(drawn int) int {
	if drawn >= p.quota {
		return 0
	}

	accumulated := 0
	for _, size := range p.rounds {
		prev := accumulated
		accumulated += size
		if drawn >= prev && drawn < accumulated {
			return size - (drawn - prev)
		}
	}

	// Only reachable when the drawn count has drifted from the round boundaries
	slog.Warn("Drawn count outside round boundaries, falling back to first round",
		"awardId", p.awardID, "drawn", drawn, "quota", p.quota)
	if p.onDrift != nil {
		p.onDrift(p.awardID, drawn)
	}
	size := p.rounds[0]
	if remaining := p.quota - drawn; size > remaining {
		size = remaining
	}
	return size
}

type adHocPlan struct {
	quota int
}

func (p adHocPlan) Quota() int { return p.quota }

func (p adHocPlan) NextRoundSize(drawn int) int {
	if drawn >= p.quota {
		return 0
	}
	return p.quota - drawn
}
