package models

import "time"

// AwardKind distinguishes configured awards from awards created at runtime
type AwardKind string

const (
	AwardKindScheduled AwardKind = "SCHEDULED"
	AwardKindAdHoc     AwardKind = "AD_HOC"
)

// Award is a named prize category with a fixed quota of winners
type Award struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Quota     int       `bson:"quota" json:"quota"`
	Rounds    []int     `bson:"rounds,omitempty" json:"rounds,omitempty"` // exact size of each round, scheduled awards only
	Kind      AwardKind `bson:"kind" json:"kind"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// AwardProgress is the drawn/quota snapshot of one award
type AwardProgress struct {
	Award         Award `json:"award"`
	DrawnCount    int   `json:"drawnCount"`
	Remaining     int   `json:"remaining"`
	NextRoundSize int   `json:"nextRoundSize"`
	RoundsDrawn   int   `json:"roundsDrawn"`
	Completed     bool  `json:"completed"`
	Rolling       bool  `json:"rolling"`
}

// CreateAwardRequest registers a scheduled award
type CreateAwardRequest struct {
	ID     string `json:"id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Quota  int    `json:"quota" binding:"required,gt=0"`
	Rounds []int  `json:"rounds" binding:"required,min=1,dive,gt=0"`
}

// CreateAdHocAwardRequest creates an award drawn in a single round
type CreateAdHocAwardRequest struct {
	Name  string `json:"name" binding:"required"`
	Quota int    `json:"quota" binding:"required,gt=0"`
}
