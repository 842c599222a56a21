package mongodb

import (
	"context"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LotteryRepository implements the repositories.LotteryRepository interface
type LotteryRepository struct {
	collection *mongo.Collection
}

// NewLotteryRepository creates a new LotteryRepository
func NewLotteryRepository(db *mongo.Database) repositories.LotteryRepository {
	return &LotteryRepository{
		collection: db.Collection("lotteries"),
	}
}

// Create creates a new lottery
func (r *LotteryRepository) Create(ctx context.Context, lottery *models.Lottery) error {
	lottery.CreatedAt = time.Now()
	lottery.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, lottery)
	if err != nil {
		return err
	}
	lottery.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a lottery by ID
func (r *LotteryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lottery, error) {
	var lottery models.Lottery
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&lottery)
	if err != nil {
		return nil, err
	}
	return &lottery, nil
}

// FindByCode finds a lottery by its unique code
func (r *LotteryRepository) FindByCode(ctx context.Context, code string) (*models.Lottery, error) {
	var lottery models.Lottery
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&lottery)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &lottery, nil
}

// Update updates a lottery
func (r *LotteryRepository) Update(ctx context.Context, lottery *models.Lottery) error {
	lottery.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": lottery.ID}, lottery)
	return err
}

// Delete deletes a lottery by ID
func (r *LotteryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindAll finds all lotteries sorted by code
func (r *LotteryRepository) FindAll(ctx context.Context) ([]*models.Lottery, error) {
	opts := options.Find().SetSort(bson.M{"code": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lotteries []*models.Lottery
	if err := cursor.All(ctx, &lotteries); err != nil {
		return nil, err
	}
	if lotteries == nil {
		lotteries = []*models.Lottery{}
	}
	return lotteries, nil
}
