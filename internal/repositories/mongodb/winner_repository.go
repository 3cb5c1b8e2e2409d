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

// WinnerRepository implements the repositories.WinnerRepository interface
type WinnerRepository struct {
	collection *mongo.Collection
}

var _ repositories.WinnerRepository = (*WinnerRepository)(nil)

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) *WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// EnsureIndexes creates the indexes used by archive queries
func (r *WinnerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "batchId", Value: 1}, {Key: "timestamp", Value: 1}}},
		{Keys: bson.D{{Key: "awardId", Value: 1}, {Key: "timestamp", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create winner indexes: %w", err)
	}
	return nil
}

// CreateMany archives a batch of winners
func (r *WinnerRepository) CreateMany(ctx context.Context, winners []models.WinnerRecord) error {
	if len(winners) == 0 {
		return nil
	}
	docs := make([]interface{}, len(winners))
	for i, w := range winners {
		docs[i] = w
	}
	// Ordered insert keeps the archive in commit order
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}

// FindByBatch finds the winners of one batch with pagination
func (r *WinnerRepository) FindByBatch(ctx context.Context, batchID string, page, limit int) ([]*models.WinnerRecord, error) {
	return r.find(ctx, bson.M{"batchId": batchID}, page, limit)
}

// FindByAward finds the winners of one award with pagination
func (r *WinnerRepository) FindByAward(ctx context.Context, awardID string, page, limit int) ([]*models.WinnerRecord, error) {
	return r.find(ctx, bson.M{"awardId": awardID}, page, limit)
}

// FindAll finds all archived winners with pagination
func (r *WinnerRepository) FindAll(ctx context.Context, page, limit int) ([]*models.WinnerRecord, error) {
	return r.find(ctx, bson.M{}, page, limit)
}

func (r *WinnerRepository) find(ctx context.Context, filter bson.M, page, limit int) ([]*models.WinnerRecord, error) {
	page, limit = repositories.NormalizePage(page, limit)
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "round", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.WinnerRecord
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// Count counts all archived winners
func (r *WinnerRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
