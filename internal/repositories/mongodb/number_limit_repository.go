package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NumberLimitRepository implements the repositories.NumberLimitRepository interface
type NumberLimitRepository struct {
	collection *mongo.Collection
}

// NewNumberLimitRepository creates a new NumberLimitRepository
func NewNumberLimitRepository(db *mongo.Database) repositories.NumberLimitRepository {
	return &NumberLimitRepository{
		collection: db.Collection("number_limits"),
	}
}

// Create creates a new number limit entry
func (r *NumberLimitRepository) Create(ctx context.Context, limit *models.NumberLimit) error {
	limit.CreatedAt = time.Now()
	limit.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, limit)
	if err != nil {
		return err
	}
	limit.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update updates a number limit entry
func (r *NumberLimitRepository) Update(ctx context.Context, limit *models.NumberLimit) error {
	limit.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": limit.ID}, limit)
	return err
}

// Delete deletes a number limit entry by ID
func (r *NumberLimitRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindByID finds a number limit entry by ID
func (r *NumberLimitRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.NumberLimit, error) {
	var limit models.NumberLimit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&limit)
	if err != nil {
		return nil, err
	}
	return &limit, nil
}

// FindByLotteryAndOption finds all override entries of a (lottery, option) pair
func (r *NumberLimitRepository) FindByLotteryAndOption(ctx context.Context, lotteryCode string, opt models.BetOptionType) ([]*models.NumberLimit, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"lotteryCode": lotteryCode, "optionType": opt})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var limits []*models.NumberLimit
	if err := cursor.All(ctx, &limits); err != nil {
		return nil, err
	}
	if limits == nil {
		limits = []*models.NumberLimit{}
	}
	return limits, nil
}

// FindForNumber finds the override covering a number; nil means fall through to tiers
func (r *NumberLimitRepository) FindForNumber(ctx context.Context, lotteryCode string, opt models.BetOptionType, number string) (*models.NumberLimit, error) {
	filter := bson.M{"lotteryCode": lotteryCode, "optionType": opt, "numbers": number}
	var limit models.NumberLimit
	err := r.collection.FindOne(ctx, filter).Decode(&limit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &limit, nil
}
