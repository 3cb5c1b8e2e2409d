package models

import "time"

// SessionState is the state of the round session of one award
type SessionState string

const (
	SessionStateIdle      SessionState = "IDLE"
	SessionStateRolling   SessionState = "ROLLING"
	SessionStateCommitted SessionState = "COMMITTED"
)

// RoundTicket is returned when a round begins
type RoundTicket struct {
	AwardID   string    `json:"awardId"`
	Round     int       `json:"round"`
	Target    int       `json:"target"`
	StartedAt time.Time `json:"startedAt"`
}

// RoundResult is the outcome of a committed round
type RoundResult struct {
	AwardID     string    `json:"awardId"`
	AwardName   string    `json:"awardName"`
	Round       int       `json:"round"`
	Winners     []string  `json:"winners"` // sorted for display
	DrawnCount  int       `json:"drawnCount"`
	Quota       int       `json:"quota"`
	Completed   bool      `json:"completed"`
	CommittedAt time.Time `json:"committedAt"`

	Records []WinnerRecord `json:"-"` // ledger entries created by this commit
}

// PoolStatus summarises the number pool
type PoolStatus struct {
	Size      int  `json:"size"`
	Drawn     int  `json:"drawn"`
	Available int  `json:"available"`
	Default   bool `json:"default"` // generated from configuration rather than imported
}

// LoadPoolRequest replaces the pool with a manual list of identifiers
type LoadPoolRequest struct {
	Identifiers []string `json:"identifiers" binding:"required,min=1"`
}
