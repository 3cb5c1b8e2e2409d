package models

import "time"

// EventType names a draw event pushed to live subscribers
type EventType string

const (
	EventAwardRegistered EventType = "award_registered"
	EventRoundStarted    EventType = "round_started"
	EventRoundCommitted  EventType = "round_committed"
	EventRoundAborted    EventType = "round_aborted"
	EventAwardCompleted  EventType = "award_completed"
	EventPoolLoaded      EventType = "pool_loaded"
	EventDrawReset       EventType = "draw_reset"
)

// Event is the envelope sent over the live event stream
type Event struct {
	Type       EventType   `json:"type"`
	AwardID    string      `json:"awardId,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// NewEvent creates an Event stamped with the current time
func NewEvent(eventType EventType, awardID string, payload interface{}) Event {
	return Event{
		Type:       eventType,
		AwardID:    awardID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

// EventRecord is an archived Event. The payload is kept as JSON text
type EventRecord struct {
	ID         string    `bson:"_id" json:"id"`
	BatchID    string    `bson:"batchId" json:"batchId"`
	Type       EventType `bson:"type" json:"type"`
	AwardID    string    `bson:"awardId,omitempty" json:"awardId,omitempty"`
	Payload    string    `bson:"payload,omitempty" json:"payload,omitempty"`
	OccurredAt time.Time `bson:"occurredAt" json:"occurredAt"`
}
