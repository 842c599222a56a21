package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuotaRepository implements the repositories.QuotaRepository interface.
// Add uses a conditional $inc so the cap holds at the database even if two
// application instances race past the per-key lock.
type QuotaRepository struct {
	collection *mongo.Collection
}

// NewQuotaRepository creates a new QuotaRepository
func NewQuotaRepository(db *mongo.Database) repositories.QuotaRepository {
	return &QuotaRepository{
		collection: db.Collection("quota_counters"),
	}
}

func keyFilter(key models.QuotaKey) bson.M {
	return bson.M{
		"drawId":     key.DrawID,
		"optionType": key.OptionType,
		"number":     key.Number,
		"memberId":   key.MemberID,
	}
}

// Get returns the current cumulative for the key, 0 when no counter exists yet
func (r *QuotaRepository) Get(ctx context.Context, key models.QuotaKey) (int64, error) {
	var counter models.QuotaCounter
	err := r.collection.FindOne(ctx, keyFilter(key)).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return counter.Cumulative, nil
}

// Add atomically increments the counter provided the result stays within max
func (r *QuotaRepository) Add(ctx context.Context, key models.QuotaKey, amount, max int64) (int64, error) {
	// Lazily create the counter so the conditional update below has a document
	// to match against.
	now := time.Now()
	ensure := bson.M{
		"$setOnInsert": bson.M{
			"drawId":     key.DrawID,
			"optionType": key.OptionType,
			"number":     key.Number,
			"memberId":   key.MemberID,
			"cumulative": int64(0),
			"createdAt":  now,
		},
	}
	_, err := r.collection.UpdateOne(ctx, keyFilter(key), ensure, options.Update().SetUpsert(true))
	if err != nil {
		return 0, err
	}

	filter := keyFilter(key)
	if max > 0 {
		filter["cumulative"] = bson.M{"$lte": max - amount}
	}
	update := bson.M{
		"$inc": bson.M{"cumulative": amount},
		"$set": bson.M{"updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var counter models.QuotaCounter
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The counter exists but the conditional filter excluded it.
			return 0, engine.ErrLimitExceeded
		}
		return 0, err
	}
	return counter.Cumulative, nil
}

// Sub backs an amount out of the counter (compensation path)
func (r *QuotaRepository) Sub(ctx context.Context, key models.QuotaKey, amount int64) error {
	update := bson.M{
		"$inc": bson.M{"cumulative": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, keyFilter(key), update)
	return err
}

// FindByDraw lists every counter recorded under a draw
func (r *QuotaRepository) FindByDraw(ctx context.Context, drawID primitive.ObjectID) ([]*models.QuotaCounter, error) {
	opts := options.Find().SetSort(bson.M{"number": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"drawId": drawID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counters []*models.QuotaCounter
	if err := cursor.All(ctx, &counters); err != nil {
		return nil, err
	}
	if counters == nil {
		counters = []*models.QuotaCounter{}
	}
	return counters, nil
}
