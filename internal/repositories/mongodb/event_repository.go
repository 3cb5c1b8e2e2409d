package mongodb

import (
	"context"
	"fmt"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository implements the repositories.EventRepository interface
type EventRepository struct {
	collection *mongo.Collection
}

var _ repositories.EventRepository = (*EventRepository)(nil)

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection("draw_events"),
	}
}

// EnsureIndexes creates the indexes used by event queries
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "occurredAt", Value: 1}}},
		{Keys: bson.D{{Key: "awardId", Value: 1}, {Key: "occurredAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	return nil
}

// Create archives one event
func (r *EventRepository) Create(ctx context.Context, event *models.EventRecord) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// FindByAward finds the events of one award with pagination
func (r *EventRepository) FindByAward(ctx context.Context, awardID string, page, limit int) ([]*models.EventRecord, error) {
	return r.find(ctx, bson.M{"awardId": awardID}, page, limit)
}

// FindAll finds all events with pagination
func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.EventRecord, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *EventRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.EventRecord, error) {
	page, limit = repositories.NormalizePage(page, limit)
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "occurredAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.EventRecord
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
