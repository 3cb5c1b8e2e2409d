package draw

import (
	"testing"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduled(id string, quota int, rounds ...int) models.Award {
	return models.Award{ID: id, Name: id, Quota: quota, Rounds: rounds, Kind: models.AwardKindScheduled}
}

func TestNewRoundPlanValidation(t *testing.T) {
	tests := []struct {
		name  string
		award models.Award
	}{
		{"rounds do not sum to quota", scheduled("lucky", 43, 15, 15, 10)},
		{"zero quota", scheduled("none", 0)},
		{"negative quota", scheduled("neg", -3, -3)},
		{"no rounds", scheduled("first", 5)},
		{"zero round", scheduled("second", 9, 9, 0)},
		{"ad-hoc with rounds", models.Award{ID: "x", Quota: 3, Rounds: []int{3}, Kind: models.AwardKindAdHoc}},
		{"unknown kind", models.Award{ID: "x", Quota: 3, Rounds: []int{3}, Kind: "WEEKLY"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoundPlan(tt.award, nil)
			assert.ErrorIs(t, err, ErrInvalidAwardConfig)
		})
	}
}

func TestScheduledPlanNextRoundSize(t *testing.T) {
	plan, err := NewRoundPlan(scheduled("lucky", 43, 15, 15, 13), nil)
	require.NoError(t, err)

	tests := []struct {
		drawn int
		want  int
	}{
		{0, 15},
		{15, 15},
		{30, 13},
		{43, 0},
		{50, 0},
		{20, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plan.NextRoundSize(tt.drawn), "drawn=%d", tt.drawn)
	}
	assert.Equal(t, 43, plan.Quota())
}

func TestScheduledPlanDriftFallsBackToFirstRound(t *testing.T) {
	var drifted []int
	plan, err := NewRoundPlan(scheduled("third", 20, 10, 10), func(awardID string, drawn int) {
		assert.Equal(t, "third", awardID)
		drifted = append(drifted, drawn)
	})
	require.NoError(t, err)

	assert.Equal(t, 10, plan.NextRoundSize(-1))
	assert.Equal(t, []int{-1}, drifted)
}

func TestScheduledPlanDriftClampsToRemaining(t *testing.T) {
	drifts := 0
	// rounds short of the quota can only come from corrupted state
	p := &scheduledPlan{awardID: "x", quota: 5, rounds: []int{4}, onDrift: func(string, int) { drifts++ }}
	assert.Equal(t, 4, p.NextRoundSize(0))
	assert.Equal(t, 1, p.NextRoundSize(4))
	assert.Equal(t, 1, drifts)
}

func TestAdHocPlanDrawsRemainingQuota(t *testing.T) {
	plan, err := NewRoundPlan(models.Award{ID: "adhoc", Quota: 7, Kind: models.AwardKindAdHoc}, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, plan.NextRoundSize(0))
	assert.Equal(t, 4, plan.NextRoundSize(3))
	assert.Equal(t, 0, plan.NextRoundSize(7))
}
