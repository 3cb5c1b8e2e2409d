package models

import "time"

// WinnerRecord is one committed winner. Records are immutable once created
type WinnerRecord struct {
	ID         string    `bson:"_id" json:"id"`
	BatchID    string    `bson:"batchId" json:"batchId"` // changes on every full reset
	AwardID    string    `bson:"awardId" json:"awardId"`
	AwardName  string    `bson:"awardName" json:"awardName"`
	Identifier string    `bson:"identifier" json:"identifier"`
	Round      int       `bson:"round" json:"round"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
}

// ExportRow is one line of the results export
type ExportRow struct {
	AwardName  string    `json:"awardName"`
	Identifier string    `json:"identifier"`
	Timestamp  time.Time `json:"timestamp"`
}

// ExportRow returns the export line for the record
func (w WinnerRecord) ExportRow() ExportRow {
	return ExportRow{AwardName: w.AwardName, Identifier: w.Identifier, Timestamp: w.Timestamp}
}
